// Package extractor turns raw source text of an indentation-delimited,
// decorator-supporting scripting language into a hierarchical symbol
// tree with modifier flags, parameter shapes and declared base-class
// references. It never executes or type-checks the source, and it never
// fails fatally: malformed input degrades to a partial tree plus
// diagnostics.
//
// The pipeline is single-pass per source unit and purely functional:
// text → tokens → block tree → declarations → resolved symbols. Units
// share no state, so callers may extract many files concurrently.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extract runs the full pipeline over one source unit. The path is used
// only to name the module root; the source must already be read. The
// returned unit is complete and read-only — Extract always returns a
// result, possibly near-empty with diagnostics.
func Extract(path string, source []byte) *SourceUnit {
	tokens, lexDiags := Tokenize(source)
	root, structDiags := Structure(tokens)

	name := ModuleName(path)
	module := &Symbol{
		Name:          name,
		QualifiedName: name,
		Kind:          KindModule,
		Span:          Span{StartLine: 1, EndLine: lineCount(source)},
		Doc:           docstringOf(root),
	}

	b := &builder{}
	b.diags = append(b.diags, lexDiags...)
	b.diags = append(b.diags, structDiags...)
	b.recognize(root.Children, module)

	return &SourceUnit{
		Path:         path,
		Module:       module,
		ImportsCount: countImports(root),
		Diagnostics:  b.diags,
	}
}

// builder accumulates diagnostics and assembles the ownership tree.
type builder struct {
	diags []Diagnostic
}

func (b *builder) warn(span Span, msg string) {
	b.diags = append(b.diags, Diagnostic{Severity: SeverityWarning, Message: msg, Span: span})
}

// attach links a recognized symbol under its parent, assigning the
// qualified name. Qualified names are module-root-relative, so a
// top-level class Outer yields Outer and its nested class Outer.Inner.
// A sibling redefinition replaces the earlier symbol, keeping qualified
// names unique, and is reported.
func (b *builder) attach(parent *Symbol, sym *Symbol) {
	sym.parent = parent
	if parent.Kind == KindModule {
		sym.QualifiedName = sym.Name
	} else {
		sym.QualifiedName = parent.QualifiedName + "." + sym.Name
	}
	requalify(sym)
	if sym.IsCallable() {
		sym.Signature = signature(parent, sym)
	}

	for i, existing := range parent.Children {
		if existing.Name == sym.Name {
			// A setter/deleter block re-declares an accessor of an
			// existing property; the property symbol stands for the
			// whole stack.
			if existing.Modifiers.Property && isAccessorOf(sym, existing.Name) {
				if sym.Span.EndLine > existing.Span.EndLine {
					existing.Span.EndLine = sym.Span.EndLine
				}
				return
			}
			b.warn(sym.Span, fmt.Sprintf("redefinition of %q shadows earlier declaration at line %d",
				sym.QualifiedName, existing.Span.StartLine))
			parent.Children[i] = sym
			return
		}
	}
	parent.Children = append(parent.Children, sym)
}

// isAccessorOf reports whether sym is decorated as a getter, setter or
// deleter of the named property.
func isAccessorOf(sym *Symbol, property string) bool {
	for _, dec := range sym.Decorators {
		switch dec.Name {
		case property + ".setter", property + ".deleter", property + ".getter":
			return true
		}
	}
	return false
}

// requalify rewrites the qualified names of a subtree after its root
// has been placed. Children are recognized before their parent is
// attached, so their paths are finalized here.
func requalify(sym *Symbol) {
	for _, child := range sym.Children {
		child.QualifiedName = sym.QualifiedName + "." + child.Name
		if child.IsCallable() {
			child.Signature = signature(sym, child)
		}
		requalify(child)
	}
}

// signature renders a human-readable callable signature, prefixed with
// the enclosing class path for methods: Outer.Inner.method(x: int) -> str.
func signature(parent, sym *Symbol) string {
	var sb strings.Builder
	if parent.IsClassLike() {
		sb.WriteString(parent.QualifiedName)
		sb.WriteString(".")
	}
	sb.WriteString(sym.Name)
	sb.WriteString("(")
	for i, p := range sym.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch p.Kind {
		case ParamVariadicPositional:
			sb.WriteString("*")
		case ParamVariadicKeyword:
			sb.WriteString("**")
		}
		sb.WriteString(p.Name)
		if p.Annotation != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Annotation)
		}
		if p.Default != "" {
			if p.Annotation != "" {
				sb.WriteString(" = ")
			} else {
				sb.WriteString("=")
			}
			sb.WriteString(p.Default)
		}
	}
	sb.WriteString(")")
	if sym.Returns != "" {
		sb.WriteString(" -> ")
		sb.WriteString(sym.Returns)
	}
	return sb.String()
}

// countImports counts import statements anywhere in the unit.
func countImports(root *Block) int {
	count := 0
	var walk func([]*Block)
	walk = func(blocks []*Block) {
		for _, blk := range blocks {
			if len(blk.Header) > 0 &&
				(isKeyword(blk.Header[0], "import") || isKeyword(blk.Header[0], "from")) {
				count++
			}
			walk(blk.Children)
		}
	}
	walk(root.Children)
	return count
}

// ModuleName derives the module root name from a file path.
func ModuleName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return "module"
	}
	return base
}

func lineCount(source []byte) int {
	n := 1
	for _, c := range source {
		if c == '\n' {
			n++
		}
	}
	if len(source) > 0 && source[len(source)-1] == '\n' {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}
