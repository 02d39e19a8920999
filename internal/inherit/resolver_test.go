package inherit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codebuddy/internal/extractor"
)

// Test Plan for Inheritance Resolver:
// - One edge per class and nested class, bases in declaration order
// - Root classes yield edges with no bases
// - Classes declared inside callables are excluded
// - Unresolved base names stay opaque
// - ResolveAll preserves unit order

func extractUnit(t *testing.T, path, source string) *extractor.SourceUnit {
	t.Helper()
	unit := extractor.Extract(path, []byte(source))
	require.Empty(t, unit.Diagnostics)
	return unit
}

func TestResolve_EdgePerClass(t *testing.T) {
	t.Parallel()

	source := `class Animal:
    pass


class Duck(Animal, Flyable, Swimmable):
    pass
`
	edges := Resolve(extractUnit(t, "zoo.py", source))

	require.Len(t, edges, 2)
	assert.Equal(t, Edge{Class: "Animal", Bases: []string{}, Line: 1}, normalize(edges[0]))
	assert.Equal(t, "Duck", edges[1].Class)
	assert.Equal(t, []string{"Animal", "Flyable", "Swimmable"}, edges[1].Bases)
	assert.Equal(t, 5, edges[1].Line)
}

func TestResolve_NestedClasses(t *testing.T) {
	t.Parallel()

	source := `class Outer:
    class Inner(Base):
        pass
`
	edges := Resolve(extractUnit(t, "m.py", source))

	require.Len(t, edges, 2)
	assert.Equal(t, "Outer", edges[0].Class)
	assert.Equal(t, "Outer.Inner", edges[1].Class)
	assert.Equal(t, []string{"Base"}, edges[1].Bases)
}

func TestResolve_ClassesInCallablesExcluded(t *testing.T) {
	t.Parallel()

	source := `def factory():
    class Local(Base):
        pass
    return Local


class Visible:
    pass
`
	edges := Resolve(extractUnit(t, "m.py", source))

	require.Len(t, edges, 1)
	assert.Equal(t, "Visible", edges[0].Class)
}

func TestResolve_NilUnit(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Resolve(nil))
}

func TestResolveAll_PreservesUnitOrder(t *testing.T) {
	t.Parallel()

	a := extractUnit(t, "a.py", "class A:\n    pass\n")
	b := extractUnit(t, "b.py", "class B(A):\n    pass\n")

	edges := ResolveAll([]*extractor.SourceUnit{a, b})

	require.Len(t, edges, 2)
	assert.Equal(t, "A", edges[0].Class)
	assert.Equal(t, "B", edges[1].Class)
}

// normalize maps a nil base slice to empty for comparison.
func normalize(e Edge) Edge {
	if e.Bases == nil {
		e.Bases = []string{}
	}
	return e
}
