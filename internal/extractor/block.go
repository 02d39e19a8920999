package extractor

// Block is one header line plus its indented children, recovered purely
// from indent/dedent tokens. Declaration semantics are applied later by
// the recognizer. A header ending in a colon with no following indent
// is a legal empty block (body written inline on the header line).
type Block struct {
	Header   []Token
	Children []*Block
}

// Structure rebuilds the nesting tree from a token stream, using indent
// and dedent tokens as the only structural signal. It never fails;
// stray structure tokens are skipped.
func Structure(tokens []Token) (*Block, []Diagnostic) {
	p := &blockParser{tokens: tokens}
	root := &Block{}
	root.Children = p.parseBlocks()
	return root, p.diags
}

type blockParser struct {
	tokens []Token
	pos    int
	diags  []Diagnostic
}

func (p *blockParser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *blockParser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// parseBlocks reads sibling blocks until a dedent or EOF.
func (p *blockParser) parseBlocks() []*Block {
	var blocks []*Block
	for {
		switch p.peek().Kind {
		case TokenEOF:
			return blocks
		case TokenDedent:
			p.next()
			return blocks
		case TokenNewline:
			p.next()
			continue
		case TokenIndent:
			// An indent with no preceding header: orphaned block, hang
			// its contents at the current level so nothing is lost.
			p.next()
			blocks = append(blocks, p.parseBlocks()...)
			continue
		}
		blocks = append(blocks, p.parseBlock())
	}
}

// parseBlock reads one header line and, if an indent follows, its
// children.
func (p *blockParser) parseBlock() *Block {
	b := &Block{}
	for {
		tok := p.peek()
		if tok.Kind == TokenNewline || tok.Kind == TokenEOF || tok.Kind == TokenDedent {
			break
		}
		b.Header = append(b.Header, p.next())
	}
	if p.peek().Kind == TokenNewline {
		p.next()
	}
	if p.peek().Kind == TokenIndent {
		p.next()
		b.Children = p.parseBlocks()
	}
	return b
}

// Span returns the inclusive line range covered by the block and all of
// its children.
func (b *Block) Span() Span {
	s := Span{}
	if len(b.Header) > 0 {
		s.StartLine = b.Header[0].Line
		s.EndLine = b.Header[len(b.Header)-1].Line
	}
	for _, child := range b.Children {
		cs := child.Span()
		if s.StartLine == 0 && cs.StartLine != 0 {
			s.StartLine = cs.StartLine
		}
		if cs.EndLine > s.EndLine {
			s.EndLine = cs.EndLine
		}
	}
	return s
}
