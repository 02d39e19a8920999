package extractor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Extraction Pipeline:
// - Classes, methods, functions and nested classes with qualified names
// - Docstrings captured for modules, classes and callables
// - Decorator lists preserved verbatim, in order
// - Modifier flags: static, classmethod, abstract, property, generator,
//   coroutine, dataclass
// - Property and static flags combine on one symbol
// - Parameter classification including keyword-only and variadics
// - Parameters after a named variadic are keyword-only
// - Setter/deleter stacks merge into the property symbol
// - Base references kept in declaration order, keyword args excluded
// - Annotated fields recorded only without an explicit constructor
// - Sibling redefinition replaces the earlier symbol with a warning
// - Dangling decorators and malformed headers degrade to diagnostics
// - Lambdas bound to names are not symbols
// - Extraction is deterministic

func extract(t *testing.T, source string) *SourceUnit {
	t.Helper()
	return Extract("test.py", []byte(source))
}

func TestExtract_ModuleShape(t *testing.T) {
	t.Parallel()

	source := `"""Helpers for the demo."""

import os
from typing import List


def helper(x: int) -> int:
    return x * 2
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	assert.Equal(t, "test.py", unit.Path)
	assert.Equal(t, "test", unit.Module.Name)
	assert.Equal(t, KindModule, unit.Module.Kind)
	assert.Equal(t, "Helpers for the demo.", unit.Module.Doc)
	assert.Equal(t, 2, unit.ImportsCount)

	require.Len(t, unit.Module.Children, 1)
	fn := unit.Module.Children[0]
	assert.Equal(t, KindFunction, fn.Kind)
	assert.Equal(t, "helper", fn.QualifiedName)
	assert.Equal(t, "helper(x: int) -> int", fn.Signature)
	assert.Equal(t, "int", fn.Returns)
}

func TestExtract_ClassWithMethods(t *testing.T) {
	t.Parallel()

	source := `class Animal:
    """Base animal."""

    def __init__(self, name: str):
        self.name = name

    def speak(self) -> str:
        return "..."

    @property
    def label(self) -> str:
        return self.name

    @staticmethod
    def kingdom() -> str:
        return "Animalia"

    @classmethod
    def create(cls, name: str) -> "Animal":
        return cls(name)
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	require.Len(t, unit.Module.Children, 1)
	class := unit.Module.Children[0]
	assert.Equal(t, KindClass, class.Kind)
	assert.Equal(t, "Animal", class.QualifiedName)
	assert.Equal(t, "Base animal.", class.Doc)
	require.Len(t, class.Children, 5)

	init := class.Children[0]
	assert.Equal(t, KindMethod, init.Kind)
	assert.Equal(t, "Animal.__init__", init.QualifiedName)
	assert.Equal(t, "Animal.__init__(self, name: str)", init.Signature)

	speak := class.Children[1]
	assert.Equal(t, "Animal.speak(self) -> str", speak.Signature)

	label := class.Children[2]
	assert.Equal(t, KindProperty, label.Kind)
	assert.True(t, label.Modifiers.Property)
	require.Len(t, label.Decorators, 1)
	assert.Equal(t, "property", label.Decorators[0].Name)

	kingdom := class.Children[3]
	assert.Equal(t, KindMethod, kingdom.Kind)
	assert.True(t, kingdom.Modifiers.Static)

	create := class.Children[4]
	assert.True(t, create.Modifiers.ClassScoped)
}

func TestExtract_NestedClassQualifiedNames(t *testing.T) {
	t.Parallel()

	source := `class Outer:
    class Inner:
        def method(self):
            pass
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	inner := unit.Lookup("Outer.Inner")
	require.NotNil(t, inner)
	assert.Equal(t, KindNestedClass, inner.Kind)

	method := unit.Lookup("Outer.Inner.method")
	require.NotNil(t, method)
	assert.Equal(t, KindMethod, method.Kind)
	assert.Equal(t, "Outer.Inner.method(self)", method.Signature)
	assert.Equal(t, inner, method.Parent())
}

func TestExtract_GeneratorAndCoroutine(t *testing.T) {
	t.Parallel()

	source := `def counter(limit):
    n = 0
    while n < limit:
        yield n
        n += 1


async def fetch(url):
    return await get(url)


def outer():
    def inner():
        yield 1
    return inner
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)

	counter := unit.Lookup("counter")
	require.NotNil(t, counter)
	assert.True(t, counter.Modifiers.Generator)
	assert.False(t, counter.Modifiers.Coroutine)

	fetch := unit.Lookup("fetch")
	require.NotNil(t, fetch)
	assert.True(t, fetch.Modifiers.Coroutine)
	assert.False(t, fetch.Modifiers.Generator)

	// A nested generator does not mark the enclosing function.
	outer := unit.Lookup("outer")
	require.NotNil(t, outer)
	assert.False(t, outer.Modifiers.Generator)
	inner := unit.Lookup("outer.inner")
	require.NotNil(t, inner)
	assert.True(t, inner.Modifiers.Generator)
}

func TestExtract_InlineGenerator(t *testing.T) {
	t.Parallel()

	unit := extract(t, "def g(): yield 1\n")

	require.Empty(t, unit.Diagnostics)
	g := unit.Lookup("g")
	require.NotNil(t, g)
	assert.True(t, g.Modifiers.Generator)
}

func TestExtract_AbstractMethods(t *testing.T) {
	t.Parallel()

	source := `class Shape(abc.ABC):
    @abc.abstractmethod
    def area(self) -> float:
        ...

    @abstractmethod
    def perimeter(self) -> float:
        ...
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	shape := unit.Lookup("Shape")
	require.NotNil(t, shape)
	assert.Equal(t, []string{"abc.ABC"}, shape.Bases)

	area := unit.Lookup("Shape.area")
	require.NotNil(t, area)
	assert.True(t, area.Modifiers.Abstract)
	require.Len(t, area.Decorators, 1)
	assert.Equal(t, "abc.abstractmethod", area.Decorators[0].Name)

	perimeter := unit.Lookup("Shape.perimeter")
	require.NotNil(t, perimeter)
	assert.True(t, perimeter.Modifiers.Abstract)
}

func TestExtract_StaticProperty(t *testing.T) {
	t.Parallel()

	// Test: both flags survive on the same symbol
	source := `class C:
    @staticmethod
    @property
    def version():
        return "1.0"
`
	unit := extract(t, source)

	sym := unit.Lookup("C.version")
	require.NotNil(t, sym)
	assert.True(t, sym.Modifiers.Static)
	assert.True(t, sym.Modifiers.Property)
	assert.Equal(t, KindProperty, sym.Kind)
	require.Len(t, sym.Decorators, 2)
	assert.Equal(t, "staticmethod", sym.Decorators[0].Name)
	assert.Equal(t, "property", sym.Decorators[1].Name)
}

func TestExtract_ParameterKinds(t *testing.T) {
	t.Parallel()

	source := "def f(a, b: int = 1, *, c, d: str = \"x\", **kwargs):\n    pass\n"
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	fn := unit.Lookup("f")
	require.NotNil(t, fn)
	require.Len(t, fn.Parameters, 5)

	assert.Equal(t, Parameter{Name: "a", Kind: ParamPositional}, fn.Parameters[0])
	assert.Equal(t, Parameter{Name: "b", Kind: ParamPositionalDefault, Annotation: "int", Default: "1"}, fn.Parameters[1])
	assert.Equal(t, ParamKeywordOnly, fn.Parameters[2].Kind)
	assert.Equal(t, "c", fn.Parameters[2].Name)
	assert.Equal(t, ParamKeywordOnly, fn.Parameters[3].Kind)
	assert.Equal(t, Parameter{Name: "kwargs", Kind: ParamVariadicKeyword}, fn.Parameters[4])
}

func TestExtract_VariadicParameters(t *testing.T) {
	t.Parallel()

	unit := extract(t, "def f(*args, **kwargs):\n    pass\n")

	fn := unit.Lookup("f")
	require.NotNil(t, fn)
	require.Len(t, fn.Parameters, 2)
	assert.Equal(t, Parameter{Name: "args", Kind: ParamVariadicPositional}, fn.Parameters[0])
	assert.Equal(t, Parameter{Name: "kwargs", Kind: ParamVariadicKeyword}, fn.Parameters[1])
	assert.Equal(t, "f(*args, **kwargs)", fn.Signature)
}

func TestExtract_ParametersAfterVariadicAreKeywordOnly(t *testing.T) {
	t.Parallel()

	unit := extract(t, "def f(a, *args, c, d=1, **kw):\n    pass\n")

	require.Empty(t, unit.Diagnostics)
	fn := unit.Lookup("f")
	require.NotNil(t, fn)
	require.Len(t, fn.Parameters, 5)
	assert.Equal(t, ParamPositional, fn.Parameters[0].Kind)
	assert.Equal(t, ParamVariadicPositional, fn.Parameters[1].Kind)
	assert.Equal(t, Parameter{Name: "c", Kind: ParamKeywordOnly}, fn.Parameters[2])
	assert.Equal(t, Parameter{Name: "d", Kind: ParamKeywordOnly, Default: "1"}, fn.Parameters[3])
	assert.Equal(t, ParamVariadicKeyword, fn.Parameters[4].Kind)
}

func TestExtract_PropertyAccessorStack(t *testing.T) {
	t.Parallel()

	source := `class C:
    @property
    def x(self) -> int:
        return self._x

    @x.setter
    def x(self, value: int) -> None:
        self._x = value

    @x.deleter
    def x(self) -> None:
        del self._x
`
	unit := extract(t, source)

	// The setter and deleter blocks are accessors of the same property,
	// not redefinitions.
	require.Empty(t, unit.Diagnostics)
	class := unit.Lookup("C")
	require.NotNil(t, class)
	require.Len(t, class.Children, 1)

	x := class.Children[0]
	assert.Equal(t, KindProperty, x.Kind)
	assert.True(t, x.Modifiers.Property)
	assert.Equal(t, Span{StartLine: 3, EndLine: 12}, x.Span)
}

func TestExtract_SetterWithoutGetter(t *testing.T) {
	t.Parallel()

	// Test: with no property to merge into, the accessor is an ordinary
	// method carrying its decorator
	source := `class C:
    @x.setter
    def x(self, value):
        self._x = value
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	x := unit.Lookup("C.x")
	require.NotNil(t, x)
	assert.Equal(t, KindMethod, x.Kind)
	require.Len(t, x.Decorators, 1)
	assert.Equal(t, "x.setter", x.Decorators[0].Name)
}

func TestExtract_MultipleInheritanceOrder(t *testing.T) {
	t.Parallel()

	source := `class Duck(Animal, Flyable, Swimmable):
    pass
`
	unit := extract(t, source)

	duck := unit.Lookup("Duck")
	require.NotNil(t, duck)
	assert.Equal(t, []string{"Animal", "Flyable", "Swimmable"}, duck.Bases)
}

func TestExtract_BaseListEdgeCases(t *testing.T) {
	t.Parallel()

	source := `class Box(Generic[T]):
    pass


class Meta(Base, metaclass=ABCMeta):
    pass


class Plain:
    pass
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	assert.Equal(t, []string{"Generic[T]"}, unit.Lookup("Box").Bases)
	assert.Equal(t, []string{"Base"}, unit.Lookup("Meta").Bases)
	assert.Empty(t, unit.Lookup("Plain").Bases)
}

func TestExtract_DataclassFields(t *testing.T) {
	t.Parallel()

	source := `@dataclass
class Point:
    x: int
    y: int = 0
    label: str = "origin"

    def magnitude(self) -> float:
        return (self.x ** 2 + self.y ** 2) ** 0.5
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	point := unit.Lookup("Point")
	require.NotNil(t, point)
	assert.True(t, point.Modifiers.DataCarrier)

	require.Len(t, point.Fields, 3)
	assert.Equal(t, "x", point.Fields[0].Name)
	assert.Equal(t, "int", point.Fields[0].Annotation)
	assert.Empty(t, point.Fields[0].Default)
	assert.Equal(t, "y", point.Fields[1].Name)
	assert.Equal(t, "0", point.Fields[1].Default)
	assert.Equal(t, "label", point.Fields[2].Name)
	assert.Equal(t, `"origin"`, point.Fields[2].Default)
}

func TestExtract_ExplicitConstructorDropsFields(t *testing.T) {
	t.Parallel()

	// Test: annotated class vars are not synthesized fields when
	// __init__ is declared
	source := `class Config:
    timeout: int = 30

    def __init__(self):
        self.timeout = 60
`
	unit := extract(t, source)

	cfg := unit.Lookup("Config")
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Fields)
}

func TestExtract_SiblingRedefinition(t *testing.T) {
	t.Parallel()

	source := `def f():
    return 1


def f():
    return 2
`
	unit := extract(t, source)

	require.Len(t, unit.Module.Children, 1)
	fn := unit.Module.Children[0]
	assert.Equal(t, 5, fn.Span.StartLine)

	require.Len(t, unit.Diagnostics, 1)
	assert.Equal(t, SeverityWarning, unit.Diagnostics[0].Severity)
	assert.Contains(t, unit.Diagnostics[0].Message, `redefinition of "f"`)
	assert.Contains(t, unit.Diagnostics[0].Message, "line 1")
}

func TestExtract_DanglingDecorator(t *testing.T) {
	t.Parallel()

	source := `@decorator
x = 1
`
	unit := extract(t, source)

	assert.Empty(t, unit.Module.Children)
	require.Len(t, unit.Diagnostics, 1)
	assert.Contains(t, unit.Diagnostics[0].Message, "dangling decorator")
}

func TestExtract_DecoratorArguments(t *testing.T) {
	t.Parallel()

	source := `@app.route("/users", methods=["GET"])
def list_users():
    pass
`
	unit := extract(t, source)

	require.Empty(t, unit.Diagnostics)
	fn := unit.Lookup("list_users")
	require.NotNil(t, fn)
	require.Len(t, fn.Decorators, 1)
	assert.Equal(t, "app.route", fn.Decorators[0].Name)
	assert.Equal(t, `"/users", methods=["GET"]`, fn.Decorators[0].Args)
	assert.Equal(t, 1, fn.Decorators[0].Line)
}

func TestExtract_LambdaIsNotASymbol(t *testing.T) {
	t.Parallel()

	unit := extract(t, "handler = lambda x: x * 2\n")

	require.Empty(t, unit.Diagnostics)
	assert.Empty(t, unit.Module.Children)
}

func TestExtract_MalformedHeaders(t *testing.T) {
	t.Parallel()

	source := `def :
    pass


class :
    pass
`
	unit := extract(t, source)

	assert.Empty(t, unit.Module.Children)
	require.Len(t, unit.Diagnostics, 2)
	assert.Contains(t, unit.Diagnostics[0].Message, "malformed function header")
	assert.Contains(t, unit.Diagnostics[1].Message, "malformed class header")
}

func TestExtract_InconsistentIndentationRecovers(t *testing.T) {
	t.Parallel()

	source := "class A:\n        def m(self):\n            pass\n    x: int\n"
	unit := extract(t, source)

	// The symbol tree still forms; the anomaly is reported.
	require.NotEmpty(t, unit.Diagnostics)
	assert.Contains(t, unit.Diagnostics[0].Message, "inconsistent indentation")
	require.NotNil(t, unit.Lookup("A"))
	require.NotNil(t, unit.Lookup("A.m"))
}

func TestExtract_Spans(t *testing.T) {
	t.Parallel()

	source := `class A:
    def m(self):
        pass

    def n(self):
        pass
`
	unit := extract(t, source)

	class := unit.Lookup("A")
	require.NotNil(t, class)
	assert.Equal(t, Span{StartLine: 1, EndLine: 6}, class.Span)
	assert.Equal(t, Span{StartLine: 2, EndLine: 3}, unit.Lookup("A.m").Span)
	assert.Equal(t, Span{StartLine: 5, EndLine: 6}, unit.Lookup("A.n").Span)
	assert.True(t, class.Span.Contains(unit.Lookup("A.m").Span))
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	source := `"""Doc."""

@dataclass
class Point:
    x: int

    class Meta:
        ordered: bool = True


async def load() -> "Point":
    yield Point(1)
`
	first, err := json.Marshal(Extract("pkg/point.py", []byte(source)))
	require.NoError(t, err)
	second, err := json.Marshal(Extract("pkg/point.py", []byte(source)))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestModuleName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "point", ModuleName("pkg/point.py"))
	assert.Equal(t, "utils", ModuleName("utils.py"))
	assert.Equal(t, "module", ModuleName(""))
}

func TestExtract_ZooFixture(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile(filepath.Join("testdata", "zoo.py"))
	require.NoError(t, err)

	unit := Extract("zoo.py", source)
	require.Empty(t, unit.Diagnostics)

	assert.Equal(t, "Zoo domain model used by the extraction tests.", unit.Module.Doc)
	assert.Equal(t, 2, unit.ImportsCount)

	animal := unit.Lookup("Animal")
	require.NotNil(t, animal)
	assert.Equal(t, []string{"abc.ABC"}, animal.Bases)
	assert.Equal(t, "Abstract base for every animal.", animal.Doc)
	assert.True(t, unit.Lookup("Animal.speak").Modifiers.Abstract)
	assert.Equal(t, KindProperty, unit.Lookup("Animal.label").Kind)
	assert.True(t, unit.Lookup("Animal.kingdom").Modifiers.Static)

	duck := unit.Lookup("Duck")
	require.NotNil(t, duck)
	assert.Equal(t, []string{"Animal", "Flyable", "Swimmable"}, duck.Bases)

	bill := unit.Lookup("Duck.Bill")
	require.NotNil(t, bill)
	assert.Equal(t, KindNestedClass, bill.Kind)
	require.Len(t, bill.Fields, 1)
	assert.Equal(t, "width", bill.Fields[0].Name)

	enclosure := unit.Lookup("Enclosure")
	require.NotNil(t, enclosure)
	assert.True(t, enclosure.Modifiers.DataCarrier)
	require.Len(t, enclosure.Fields, 2)

	assert.True(t, unit.Lookup("feed").Modifiers.Coroutine)
	assert.True(t, unit.Lookup("roster").Modifiers.Generator)

	// The lambda bound to describe is a value, not a declaration.
	assert.Nil(t, unit.Lookup("describe"))
}

func TestSourceUnit_Lookup(t *testing.T) {
	t.Parallel()

	unit := extract(t, "class A:\n    def m(self):\n        pass\n")

	assert.NotNil(t, unit.Lookup("A"))
	assert.NotNil(t, unit.Lookup("A.m"))
	assert.Nil(t, unit.Lookup("A.missing"))
	assert.Nil(t, unit.Lookup("test"))
}
