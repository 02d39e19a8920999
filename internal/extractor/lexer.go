package extractor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabWidth is the column width a tab advances to when measuring
// indentation (next multiple of tabWidth).
const tabWidth = 8

// Tokenize converts source text into a token stream. It never fails:
// unterminated literals and unbalanced brackets yield a best-effort
// stream plus diagnostics so later stages can still recover.
//
// Logical lines split by a trailing backslash or by an unmatched open
// bracket are joined. Indentation changes are emitted as paired indent
// and dedent tokens against an implicit width stack; a dedent to a
// width not on the stack is reported and aligned to the nearest
// enclosing level.
func Tokenize(source []byte) ([]Token, []Diagnostic) {
	lx := &lexer{
		src:     string(source),
		line:    1,
		col:     1,
		indents: []int{0},
		atStart: true,
	}
	lx.run()
	return lx.tokens, lx.diags
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int

	tokens  []Token
	diags   []Diagnostic
	indents []int
	depth   int // open bracket depth
	atStart bool
}

func (lx *lexer) run() {
	for lx.pos < len(lx.src) {
		if lx.atStart && lx.depth == 0 {
			if !lx.handleLineStart() {
				continue // blank or comment-only line consumed
			}
		}
		lx.lexLine()
	}
	lx.finish()
}

// handleLineStart measures leading whitespace and emits indent/dedent
// tokens. Returns false if the line was blank or comment-only and has
// been consumed entirely.
func (lx *lexer) handleLineStart() bool {
	width := 0
	i := lx.pos
	for i < len(lx.src) {
		switch lx.src[i] {
		case ' ':
			width++
		case '\t':
			width = (width/tabWidth + 1) * tabWidth
		default:
			goto measured
		}
		i++
	}
measured:
	// Blank or comment-only lines never affect block structure.
	if i >= len(lx.src) || lx.src[i] == '\n' || lx.src[i] == '\r' || lx.src[i] == '#' {
		for i < len(lx.src) && lx.src[i] != '\n' {
			i++
		}
		if i < len(lx.src) {
			i++ // consume the newline
		}
		lx.advanceTo(i)
		return false
	}

	lx.advanceTo(i)
	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.emit(TokenIndent, "")
	case width < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(TokenDedent, "")
		}
		if lx.indents[len(lx.indents)-1] != width {
			// Dedent landed between stack levels. Treat the line as a
			// sibling of the enclosing well-formed level.
			lx.warnf("inconsistent indentation: dedent to width %d does not match any enclosing block", width)
		}
	}
	lx.atStart = false
	return true
}

// lexLine consumes tokens until the end of the current logical line.
func (lx *lexer) lexLine() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			lx.advanceTo(lx.pos + 1)

		case c == '#':
			i := lx.pos
			for i < len(lx.src) && lx.src[i] != '\n' {
				i++
			}
			lx.advanceTo(i)

		case c == '\n':
			if lx.depth > 0 {
				// Inside brackets the physical newline joins lines.
				lx.advanceTo(lx.pos + 1)
				continue
			}
			lx.emit(TokenNewline, "")
			lx.advanceTo(lx.pos + 1)
			lx.atStart = true
			return

		case c == '\\' && lx.pos+1 < len(lx.src) && (lx.src[lx.pos+1] == '\n' || lx.src[lx.pos+1] == '\r'):
			// Explicit continuation: swallow the backslash and newline.
			i := lx.pos + 1
			if lx.src[i] == '\r' && i+1 < len(lx.src) && lx.src[i+1] == '\n' {
				i++
			}
			lx.advanceTo(i + 1)

		case c == '\'' || c == '"' || lx.isStringPrefix():
			lx.lexString()

		case c >= '0' && c <= '9':
			lx.lexNumber()

		case c == '.' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] >= '0' && lx.src[lx.pos+1] <= '9':
			lx.lexNumber()

		case isIdentStart(lx.peekRune()):
			lx.lexName()

		case c == '(' || c == '[' || c == '{':
			lx.depth++
			lx.emit(TokenOp, string(c))
			lx.advanceTo(lx.pos + 1)

		case c == ')' || c == ']' || c == '}':
			if lx.depth > 0 {
				lx.depth--
			} else {
				lx.warnf("unmatched closing bracket %q", string(c))
			}
			lx.emit(TokenOp, string(c))
			lx.advanceTo(lx.pos + 1)

		default:
			lx.lexOperator()
		}
	}
}

// finish closes the stream: a final newline if the last line had
// content, dedents for the remaining stack, and EOF.
func (lx *lexer) finish() {
	if lx.depth > 0 {
		lx.warnf("unterminated bracket sequence at end of file")
	}
	if !lx.atStart {
		lx.emit(TokenNewline, "")
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(TokenDedent, "")
	}
	lx.emit(TokenEOF, "")
}

// isStringPrefix reports whether pos starts a prefixed string literal
// such as r"...", b'...', f"...", rb"...".
func (lx *lexer) isStringPrefix() bool {
	i := lx.pos
	n := 0
	for i < len(lx.src) && n < 2 {
		switch lx.src[i] {
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
			i++
			n++
		default:
			goto done
		}
	}
done:
	return n > 0 && i < len(lx.src) && (lx.src[i] == '\'' || lx.src[i] == '"')
}

func (lx *lexer) lexString() {
	start := lx.pos
	startLine, startCol := lx.line, lx.col
	i := lx.pos

	// Skip prefix letters
	for i < len(lx.src) && lx.src[i] != '\'' && lx.src[i] != '"' {
		i++
	}
	quote := lx.src[i]
	triple := i+2 < len(lx.src) && lx.src[i+1] == quote && lx.src[i+2] == quote
	if triple {
		i += 3
	} else {
		i++
	}

	terminated := false
	for i < len(lx.src) {
		c := lx.src[i]
		if c == '\\' && i+1 < len(lx.src) {
			i += 2
			continue
		}
		if triple {
			if c == quote && strings.HasPrefix(lx.src[i:], strings.Repeat(string(quote), 3)) {
				i += 3
				terminated = true
				break
			}
		} else {
			if c == quote {
				i++
				terminated = true
				break
			}
			if c == '\n' {
				break // single-quoted strings end at the physical line
			}
		}
		i++
	}

	if !terminated {
		lx.diags = append(lx.diags, Diagnostic{
			Severity: SeverityWarning,
			Message:  "unterminated string literal",
			Span:     Span{StartLine: startLine, EndLine: startLine},
		})
	}

	lx.tokens = append(lx.tokens, Token{Kind: TokenString, Text: lx.src[start:i], Line: startLine, Col: startCol})
	lx.advanceTo(i)
}

func (lx *lexer) lexNumber() {
	start := lx.pos
	i := lx.pos
	for i < len(lx.src) {
		c := lx.src[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '.' {
			// Exponent sign (1e-5) belongs to the literal.
			if (c == 'e' || c == 'E') && i+1 < len(lx.src) && (lx.src[i+1] == '+' || lx.src[i+1] == '-') {
				i++
			}
			i++
			continue
		}
		break
	}
	lx.emit(TokenNumber, lx.src[start:i])
	lx.advanceTo(i)
}

func (lx *lexer) lexName() {
	start := lx.pos
	i := lx.pos
	for i < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[i:])
		if !isIdentPart(r) {
			break
		}
		i += size
	}
	text := lx.src[start:i]
	kind := TokenName
	if keywords[text] {
		kind = TokenKeyword
	}
	lx.emit(kind, text)
	lx.advanceTo(i)
}

func (lx *lexer) lexOperator() {
	for _, op := range multiCharOps {
		if strings.HasPrefix(lx.src[lx.pos:], op) {
			lx.emit(TokenOp, op)
			lx.advanceTo(lx.pos + len(op))
			return
		}
	}
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.emit(TokenOp, string(r))
	lx.advanceTo(lx.pos + size)
}

// emit appends a token at the current position. Position-less tokens
// (indent, dedent, newline, EOF) still carry the current line.
func (lx *lexer) emit(kind TokenKind, text string) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Line: lx.line, Col: lx.col})
}

// advanceTo moves the cursor, keeping line and column counters current.
func (lx *lexer) advanceTo(pos int) {
	for lx.pos < pos && lx.pos < len(lx.src) {
		if lx.src[lx.pos] == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
		lx.pos++
	}
}

func (lx *lexer) warnf(format string, args ...any) {
	lx.diags = append(lx.diags, Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Span:     Span{StartLine: lx.line, EndLine: lx.line},
	})
}

func (lx *lexer) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
