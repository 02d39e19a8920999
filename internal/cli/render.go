package cli

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codebuddy/internal/extractor"
)

// renderText formats a source unit as an indented outline, one line per
// symbol, with diagnostics listed at the end.
func renderText(unit *extractor.SourceUnit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (module %s, %d imports)\n", unit.Path, unit.Module.Name, unit.ImportsCount)
	for _, child := range unit.Module.Children {
		renderSymbol(&b, child, 1)
	}

	for _, diag := range unit.Diagnostics {
		fmt.Fprintf(&b, "  ! %s: %s (line %d)\n", diag.Severity, diag.Message, diag.Span.StartLine)
	}
	return b.String()
}

func renderSymbol(b *strings.Builder, sym *extractor.Symbol, depth int) {
	indent := strings.Repeat("  ", depth)

	label := sym.Name
	if sym.IsCallable() {
		label = sym.Signature
	} else if len(sym.Bases) > 0 {
		label = fmt.Sprintf("%s(%s)", sym.Name, strings.Join(sym.Bases, ", "))
	}

	mods := sym.Modifiers.List()
	suffix := ""
	if len(mods) > 0 {
		suffix = " [" + strings.Join(mods, ", ") + "]"
	}

	fmt.Fprintf(b, "%s%s %s%s (lines %d-%d)\n",
		indent, sym.Kind, label, suffix, sym.Span.StartLine, sym.Span.EndLine)

	for _, field := range sym.Fields {
		line := field.Name
		if field.Annotation != "" {
			line += ": " + field.Annotation
		}
		if field.Default != "" {
			line += " = " + field.Default
		}
		fmt.Fprintf(b, "%s  field %s\n", indent, line)
	}

	for _, child := range sym.Children {
		renderSymbol(b, child, depth+1)
	}
}
