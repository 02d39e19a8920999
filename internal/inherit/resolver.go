// Package inherit layers a queryable inheritance edge set on top of
// extracted symbol trees. Base references are kept exactly as declared,
// in order, with no lookup or validation — cross-file resolution belongs
// to whatever owns the full project index.
package inherit

import (
	"github.com/mvp-joe/codebuddy/internal/extractor"
)

// Edge records one class's declared base references, left to right as
// written. Dotted references are kept whole; unresolved names stay
// opaque.
type Edge struct {
	Class string   `json:"class"`
	Bases []string `json:"bases"`
	Line  int      `json:"line"`
}

// Resolve emits one edge per class or nested-class symbol in the unit.
// Classes declared inside a callable's body are tree members but not
// graph participants — closure-scoped types never resolve externally.
func Resolve(unit *extractor.SourceUnit) []Edge {
	var edges []Edge
	if unit == nil || unit.Module == nil {
		return edges
	}
	collect(unit.Module, false, &edges)
	return edges
}

// ResolveAll merges the edge sets of several units, preserving unit and
// declaration order.
func ResolveAll(units []*extractor.SourceUnit) []Edge {
	var edges []Edge
	for _, unit := range units {
		edges = append(edges, Resolve(unit)...)
	}
	return edges
}

func collect(sym *extractor.Symbol, inCallable bool, edges *[]Edge) {
	if sym.IsClassLike() && !inCallable {
		*edges = append(*edges, Edge{
			Class: sym.QualifiedName,
			Bases: append([]string(nil), sym.Bases...),
			Line:  sym.Span.StartLine,
		})
	}
	for _, child := range sym.Children {
		collect(child, inCallable || sym.IsCallable(), edges)
	}
}
