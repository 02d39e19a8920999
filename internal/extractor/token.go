package extractor

import "strings"

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokenName TokenKind = iota
	TokenKeyword
	TokenNumber
	TokenString
	TokenOp
	TokenNewline
	TokenIndent
	TokenDedent
	TokenEOF
)

// String returns a human-readable kind name for diagnostics and tests.
func (k TokenKind) String() string {
	switch k {
	case TokenName:
		return "name"
	case TokenKeyword:
		return "keyword"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenOp:
		return "op"
	case TokenNewline:
		return "newline"
	case TokenIndent:
		return "indent"
	case TokenDedent:
		return "dedent"
	case TokenEOF:
		return "eof"
	}
	return "unknown"
}

// Token is a single lexical unit with its source position (1-indexed).
type Token struct {
	Kind TokenKind
	Text string
	Line int
	Col  int
}

// keywords is the closed keyword set of the language. Soft keywords
// (match, case) deliberately lex as names.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true,
	"and": true, "as": true, "assert": true, "async": true,
	"await": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true,
	"or": true, "pass": true, "raise": true, "return": true,
	"try": true, "while": true, "with": true, "yield": true,
}

// multiCharOps are matched longest-first by the lexer.
var multiCharOps = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", ":=", "**", "//", "<<", ">>",
	"<=", ">=", "==", "!=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}

// isKeyword reports whether tok is the given keyword.
func isKeyword(tok Token, word string) bool {
	return tok.Kind == TokenKeyword && tok.Text == word
}

// isOp reports whether tok is the given operator or punctuation.
func isOp(tok Token, op string) bool {
	return tok.Kind == TokenOp && tok.Text == op
}

// stringLiteralValue strips the prefix and quotes from a string token,
// returning the raw inner text. Escape sequences are left as written;
// this is enough for docstring capture.
func stringLiteralValue(tok Token) string {
	s := tok.Text

	// Drop prefix letters (r, b, u, f in any case, up to two)
	for len(s) > 0 && s[0] != '"' && s[0] != '\'' {
		s = s[1:]
	}
	if len(s) == 0 {
		return ""
	}

	quote := s[0]
	triple := len(s) >= 3 && s[1] == quote && s[2] == quote
	if triple {
		s = strings.TrimPrefix(s, string(quote)+string(quote)+string(quote))
		s = strings.TrimSuffix(s, string(quote)+string(quote)+string(quote))
	} else {
		s = strings.TrimPrefix(s, string(quote))
		s = strings.TrimSuffix(s, string(quote))
	}
	return s
}
