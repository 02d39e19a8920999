package extractor

// SymbolKind identifies what a symbol declares.
type SymbolKind string

const (
	KindModule      SymbolKind = "module"
	KindClass       SymbolKind = "class"
	KindNestedClass SymbolKind = "nested_class"
	KindFunction    SymbolKind = "function"
	KindMethod      SymbolKind = "method"
	KindProperty    SymbolKind = "property"
)

// ParameterKind identifies how a callable parameter binds.
type ParameterKind string

const (
	ParamPositional         ParameterKind = "positional"
	ParamPositionalDefault  ParameterKind = "positional_default"
	ParamVariadicPositional ParameterKind = "variadic_positional"
	ParamVariadicKeyword    ParameterKind = "variadic_keyword"
	ParamKeywordOnly        ParameterKind = "keyword_only"
)

// Parameter is one declared parameter of a callable. Annotation and
// default are the raw source text, never evaluated.
type Parameter struct {
	Name       string        `json:"name"`
	Kind       ParameterKind `json:"kind"`
	Annotation string        `json:"annotation,omitempty"`
	Default    string        `json:"default,omitempty"`
}

// Decorator is a pre-declaration annotation, order preserved exactly as
// written. Args is the raw argument text between the parentheses, if any.
type Decorator struct {
	Name string `json:"name"`
	Args string `json:"args,omitempty"`
	Line int    `json:"line"`
}

// Field is an annotated class-scope declaration recorded on classes that
// have no explicit constructor (the struct-synthesis shape).
type Field struct {
	Name       string `json:"name"`
	Annotation string `json:"annotation,omitempty"`
	Default    string `json:"default,omitempty"`
	Line       int    `json:"line"`
}

// Span is a 1-indexed inclusive line range.
type Span struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

// Contains reports whether other lies fully within s.
func (s Span) Contains(other Span) bool {
	return s.StartLine <= other.StartLine && other.EndLine <= s.EndLine
}

// Symbol is a recognized named declaration. Children are exclusively
// owned by their parent and appear in declaration order.
type Symbol struct {
	Name          string      `json:"name"`
	QualifiedName string      `json:"qualified_name"`
	Kind          SymbolKind  `json:"kind"`
	Span          Span        `json:"span"`
	Decorators    []Decorator `json:"decorators,omitempty"`
	Parameters    []Parameter `json:"parameters,omitempty"`
	Returns       string      `json:"returns,omitempty"`
	Signature     string      `json:"signature,omitempty"`
	Doc           string      `json:"doc,omitempty"`
	Modifiers     Modifiers   `json:"modifiers"`
	Bases         []string    `json:"bases,omitempty"`
	Fields        []Field     `json:"fields,omitempty"`
	Children      []*Symbol   `json:"children,omitempty"`

	parent *Symbol
}

// Parent returns the owning symbol, or nil for the module root.
func (s *Symbol) Parent() *Symbol { return s.parent }

// IsCallable reports whether the symbol declares a callable.
func (s *Symbol) IsCallable() bool {
	switch s.Kind {
	case KindFunction, KindMethod, KindProperty:
		return true
	}
	return false
}

// IsClassLike reports whether the symbol declares a class.
func (s *Symbol) IsClassLike() bool {
	return s.Kind == KindClass || s.Kind == KindNestedClass
}

// Walk visits s and every descendant in declaration order, stopping the
// descent wherever fn returns false.
func (s *Symbol) Walk(fn func(*Symbol) bool) {
	if !fn(s) {
		return
	}
	for _, child := range s.Children {
		child.Walk(fn)
	}
}

// Severity grades a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic records a recoverable anomaly noticed during extraction.
// Diagnostics never abort a pass; callers inspect them to decide how
// much to trust the unit.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Span     Span     `json:"span"`
}

// SourceUnit is the complete, immutable result of extracting one file.
type SourceUnit struct {
	Path         string       `json:"path"`
	Module       *Symbol      `json:"module"`
	ImportsCount int          `json:"imports_count"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty"`
}

// Lookup finds a symbol by its qualified name, or nil.
func (u *SourceUnit) Lookup(qualified string) *Symbol {
	if u.Module == nil {
		return nil
	}
	var found *Symbol
	u.Module.Walk(func(s *Symbol) bool {
		if found != nil {
			return false
		}
		if s != u.Module && s.QualifiedName == qualified {
			found = s
			return false
		}
		return true
	})
	return found
}
