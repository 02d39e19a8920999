package extractor

import (
	"fmt"
	"strings"
)

// recognize classifies the blocks at one declaration scope and attaches
// the recognized symbols to parent. Decorator runs are collected and
// bound to the next declaration; a run with no following declaration is
// reported and discarded.
func (b *builder) recognize(blocks []*Block, parent *Symbol) {
	var pending []Decorator
	for _, blk := range blocks {
		if len(blk.Header) == 0 {
			continue
		}
		h := blk.Header
		switch {
		case isOp(h[0], "@"):
			if dec, ok := parseDecorator(h); ok {
				pending = append(pending, dec)
				continue
			}
			b.warn(blk.Span(), "unparsable decorator line")
			continue

		case isKeyword(h[0], "def"), isKeyword(h[0], "async") && len(h) > 1 && isKeyword(h[1], "def"):
			sym := b.parseCallable(blk, parent, pending)
			pending = nil
			if sym != nil {
				b.attach(parent, sym)
			}

		case isKeyword(h[0], "class"):
			sym := b.parseClass(blk, parent, pending)
			pending = nil
			if sym != nil {
				b.attach(parent, sym)
			}

		default:
			if len(pending) > 0 {
				b.warn(blk.Span(), "dangling decorator: no declaration follows")
				pending = nil
			}
			if parent.IsClassLike() {
				if field, ok := parseField(h); ok {
					parent.Fields = append(parent.Fields, field)
				}
			}
		}
	}
	if len(pending) > 0 {
		b.warn(Span{StartLine: pending[0].Line, EndLine: pending[len(pending)-1].Line},
			"dangling decorator: no declaration follows")
	}
}

// parseDecorator reads a header of the form `@ dotted.name` with an
// optional argument list, preserving the raw argument text.
func parseDecorator(h []Token) (Decorator, bool) {
	if len(h) < 2 || h[1].Kind != TokenName {
		return Decorator{}, false
	}
	dec := Decorator{Line: h[0].Line}

	i := 1
	var name strings.Builder
	name.WriteString(h[i].Text)
	i++
	for i+1 < len(h) && isOp(h[i], ".") && h[i+1].Kind == TokenName {
		name.WriteString(".")
		name.WriteString(h[i+1].Text)
		i += 2
	}
	dec.Name = name.String()

	if i < len(h) && isOp(h[i], "(") {
		depth := 1
		j := i + 1
		for j < len(h) && depth > 0 {
			switch {
			case isOp(h[j], "("), isOp(h[j], "["), isOp(h[j], "{"):
				depth++
			case isOp(h[j], ")"), isOp(h[j], "]"), isOp(h[j], "}"):
				depth--
			}
			j++
		}
		dec.Args = joinTokens(h[i+1 : j-1])
	}
	return dec, true
}

// parseCallable recognizes a def header (optionally async) and builds
// the symbol, descending into the body for nested declarations.
func (b *builder) parseCallable(blk *Block, parent *Symbol, decorators []Decorator) *Symbol {
	h := blk.Header
	i := 0
	async := false
	if isKeyword(h[i], "async") {
		async = true
		i++
	}
	i++ // def
	if i >= len(h) || h[i].Kind != TokenName {
		b.warn(blk.Span(), "malformed function header: missing name")
		return nil
	}

	sym := &Symbol{
		Name:       h[i].Text,
		Span:       blk.Span(),
		Decorators: decorators,
		Modifiers:  ResolveModifiers(decorators),
	}
	sym.Modifiers.Coroutine = async
	i++

	// Parameter list
	if i < len(h) && isOp(h[i], "(") {
		depth := 1
		j := i + 1
		for j < len(h) && depth > 0 {
			switch {
			case isOp(h[j], "("), isOp(h[j], "["), isOp(h[j], "{"):
				depth++
			case isOp(h[j], ")"), isOp(h[j], "]"), isOp(h[j], "}"):
				depth--
			}
			j++
		}
		sym.Parameters = b.parseParameters(h[i+1:j-1], blk.Span())
		i = j
	} else {
		b.warn(blk.Span(), fmt.Sprintf("malformed function header for %q: missing parameter list", sym.Name))
	}

	// Return annotation
	if i < len(h) && isOp(h[i], "->") {
		j := i + 1
		for j < len(h) && !isOp(h[j], ":") {
			j++
		}
		sym.Returns = joinTokens(h[i+1 : j])
		i = j
	}

	// Inline body (single-statement suite on the header line)
	var inline []Token
	if i < len(h) && isOp(h[i], ":") {
		inline = h[i+1:]
	}

	switch {
	case parent.IsClassLike() && sym.Modifiers.Property:
		sym.Kind = KindProperty
	case parent.IsClassLike():
		sym.Kind = KindMethod
	default:
		sym.Kind = KindFunction
	}

	sym.Doc = docstringOf(blk)
	sym.Modifiers.Generator = yieldIn(inline) || yieldInBlocks(blk.Children)

	b.recognize(blk.Children, sym)
	return sym
}

// parseClass recognizes a class header, extracting the ordered base
// reference list exactly as written.
func (b *builder) parseClass(blk *Block, parent *Symbol, decorators []Decorator) *Symbol {
	h := blk.Header
	if len(h) < 2 || h[1].Kind != TokenName {
		b.warn(blk.Span(), "malformed class header: missing name")
		return nil
	}

	sym := &Symbol{
		Name:       h[1].Text,
		Kind:       KindClass,
		Span:       blk.Span(),
		Decorators: decorators,
		Modifiers:  ResolveModifiers(decorators),
	}
	if parent.IsClassLike() {
		sym.Kind = KindNestedClass
	}

	if len(h) > 2 && isOp(h[2], "(") {
		depth := 1
		j := 3
		for j < len(h) && depth > 0 {
			switch {
			case isOp(h[j], "("), isOp(h[j], "["), isOp(h[j], "{"):
				depth++
			case isOp(h[j], ")"), isOp(h[j], "]"), isOp(h[j], "}"):
				depth--
			}
			j++
		}
		sym.Bases = parseBases(h[3 : j-1])
	}

	sym.Doc = docstringOf(blk)
	b.recognize(blk.Children, sym)

	// Annotated class-scope statements are only fields when the class
	// relies on synthesized construction. An explicit constructor means
	// they are ordinary class variables.
	for _, child := range sym.Children {
		if child.Name == "__init__" {
			sym.Fields = nil
			break
		}
	}
	return sym
}

// parseBases splits a base list on top-level commas. Each base is kept
// verbatim (dotted and subscripted references whole); keyword arguments
// such as metaclass=... and starred entries are not base references.
func parseBases(tokens []Token) []string {
	var bases []string
	for _, seg := range splitTopLevel(tokens) {
		if len(seg) == 0 {
			continue
		}
		if isOp(seg[0], "*") || isOp(seg[0], "**") {
			continue
		}
		keyword := false
		depth := 0
		for _, t := range seg {
			switch {
			case isOp(t, "("), isOp(t, "["), isOp(t, "{"):
				depth++
			case isOp(t, ")"), isOp(t, "]"), isOp(t, "}"):
				depth--
			case depth == 0 && isOp(t, "="):
				keyword = true
			}
		}
		if keyword {
			continue
		}
		bases = append(bases, joinTokens(seg))
	}
	return bases
}

// parseParameters parses a parameter list, classifying each entry. A
// bare `*` or a named variadic switches the remaining entries to
// keyword-only; `/` closes the positional-only section and is not
// itself a parameter.
func (b *builder) parseParameters(tokens []Token, span Span) []Parameter {
	var params []Parameter
	keywordOnly := false
	for _, seg := range splitTopLevel(tokens) {
		if len(seg) == 0 {
			continue
		}
		if len(seg) == 1 && isOp(seg[0], "*") {
			keywordOnly = true
			continue
		}
		if len(seg) == 1 && isOp(seg[0], "/") {
			continue
		}

		p := Parameter{}
		i := 0
		switch {
		case isOp(seg[0], "**"):
			p.Kind = ParamVariadicKeyword
			i = 1
		case isOp(seg[0], "*"):
			p.Kind = ParamVariadicPositional
			i = 1
		}

		if i >= len(seg) || seg[i].Kind != TokenName {
			b.warn(span, fmt.Sprintf("unparsable parameter clause %q", joinTokens(seg)))
			continue
		}
		p.Name = seg[i].Text
		i++

		// Annotation up to a top-level '='
		if i < len(seg) && isOp(seg[i], ":") {
			depth := 0
			j := i + 1
			for j < len(seg) {
				switch {
				case isOp(seg[j], "("), isOp(seg[j], "["), isOp(seg[j], "{"):
					depth++
				case isOp(seg[j], ")"), isOp(seg[j], "]"), isOp(seg[j], "}"):
					depth--
				}
				if depth == 0 && isOp(seg[j], "=") {
					break
				}
				j++
			}
			p.Annotation = joinTokens(seg[i+1 : j])
			i = j
		}

		if i < len(seg) && isOp(seg[i], "=") {
			p.Default = joinTokens(seg[i+1:])
			if p.Kind == "" {
				p.Kind = ParamPositionalDefault
			}
		}

		if p.Kind == "" {
			p.Kind = ParamPositional
		}
		if keywordOnly && (p.Kind == ParamPositional || p.Kind == ParamPositionalDefault) {
			p.Kind = ParamKeywordOnly
		}
		// A named variadic closes the positional section like a bare *.
		if p.Kind == ParamVariadicPositional {
			keywordOnly = true
		}
		params = append(params, p)
	}
	return params
}

// parseField recognizes a class-scope annotated statement: NAME ':'
// annotation ['=' default].
func parseField(h []Token) (Field, bool) {
	if len(h) < 3 || h[0].Kind != TokenName || !isOp(h[1], ":") {
		return Field{}, false
	}
	f := Field{Name: h[0].Text, Line: h[0].Line}

	depth := 0
	j := 2
	for j < len(h) {
		switch {
		case isOp(h[j], "("), isOp(h[j], "["), isOp(h[j], "{"):
			depth++
		case isOp(h[j], ")"), isOp(h[j], "]"), isOp(h[j], "}"):
			depth--
		}
		if depth == 0 && isOp(h[j], "=") {
			break
		}
		j++
	}
	f.Annotation = joinTokens(h[2:j])
	if j < len(h) && isOp(h[j], "=") {
		f.Default = joinTokens(h[j+1:])
	}
	return f, true
}

// docstringOf returns the literal text of a body's leading string
// statement, if the block opens with one.
func docstringOf(blk *Block) string {
	for _, child := range blk.Children {
		if len(child.Header) == 0 {
			continue
		}
		if len(child.Header) == 1 && child.Header[0].Kind == TokenString {
			return strings.TrimSpace(stringLiteralValue(child.Header[0]))
		}
		return ""
	}
	return ""
}

// yieldIn reports whether a yield keyword appears in the token slice.
func yieldIn(tokens []Token) bool {
	for _, t := range tokens {
		if isKeyword(t, "yield") {
			return true
		}
	}
	return false
}

// yieldInBlocks scans a body for a lexical yield, without descending
// into nested callables or classes — their yields belong to them.
func yieldInBlocks(blocks []*Block) bool {
	for _, blk := range blocks {
		if len(blk.Header) > 0 {
			h := blk.Header
			if isKeyword(h[0], "def") || isKeyword(h[0], "class") ||
				(isKeyword(h[0], "async") && len(h) > 1 && isKeyword(h[1], "def")) {
				continue
			}
			if yieldIn(h) {
				return true
			}
		}
		if yieldInBlocks(blk.Children) {
			return true
		}
	}
	return false
}

// splitTopLevel splits tokens on commas outside any bracket pair.
func splitTopLevel(tokens []Token) [][]Token {
	var segments [][]Token
	var current []Token
	depth := 0
	for _, t := range tokens {
		switch {
		case isOp(t, "("), isOp(t, "["), isOp(t, "{"):
			depth++
		case isOp(t, ")"), isOp(t, "]"), isOp(t, "}"):
			depth--
		case depth == 0 && isOp(t, ","):
			segments = append(segments, current)
			current = nil
			continue
		}
		current = append(current, t)
	}
	segments = append(segments, current)
	return segments
}

// joinTokens renders tokens back to readable source text, used for
// annotation, default and base-reference capture.
func joinTokens(tokens []Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 && needSpace(tokens[i-1], t) {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func needSpace(prev, cur Token) bool {
	switch prev.Text {
	case "(", "[", "{", ".", "**", "*", "-", "~", "@", "=":
		return false
	}
	switch cur.Text {
	case ")", "]", "}", ",", ".", "(", "[", ":", "=":
		return false
	}
	return true
}
