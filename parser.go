package rustache

import "strings"

// tokenSource is the parser's abstraction over where tokens come from:
// either a live lexer channel, or a deque of already-collected tokens
// for sub-parsing a section's body. This is what lets the parser
// recurse into a section body without re-entering the channel.
type tokenSource interface {
	next() *Token
}

type chanSource struct {
	ch <-chan *Token
}

func (c *chanSource) next() *Token {
	t, ok := <-c.ch
	if !ok {
		return &Token{Type: TokenEOF}
	}
	return t
}

type dequeSource struct {
	toks []*Token
	idx  int
}

func (d *dequeSource) next() *Token {
	if d.idx >= len(d.toks) {
		return &Token{Type: TokenEOF}
	}
	t := d.toks[d.idx]
	d.idx++
	return t
}

// Parser turns a token stream into a flat sequence of top-level Nodes.
// It buffers a small amount of lookahead so that section bodies can be
// collected into a deque and sub-parsed by a fresh Parser instance
// rather than by recursing directly on the channel.
type Parser struct {
	name string
	src  tokenSource
	buf  []*Token
}

// ParseTokens consumes tokens from ch (as produced by StartLexer) and
// returns the template's top-level node list.
func ParseTokens(name string, ch <-chan *Token) ([]Node, error) {
	p := &Parser{name: name, src: &chanSource{ch: ch}}
	return p.parseDoc()
}

// Parse lexes and parses an in-memory template string in one step.
func Parse(name, input string) ([]Node, error) {
	return ParseTokens(name, StartLexer(name, strings.NewReader(input)))
}

func (p *Parser) fill(n int) {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.src.next())
	}
}

func (p *Parser) peekN(n int) *Token {
	p.fill(n)
	return p.buf[n]
}

func (p *Parser) next() *Token {
	p.fill(0)
	t := p.buf[0]
	p.buf = p.buf[1:]
	return t
}

func (p *Parser) unexpectedToken(t *Token) error {
	return &ParseError{Kind: UnexpectedToken, Name: p.name, Line: t.Line, Col: t.Col, Got: t.Type,
		Msg: "unexpected token " + t.String()}
}

func (p *Parser) expectedTokenGot(expected TokenType, got *Token) error {
	return &ParseError{Kind: ExpectedTokenGot, Name: p.name, Line: got.Line, Col: got.Col,
		Expected: expected, Got: got.Type}
}

func (p *Parser) expect(tt TokenType) (*Token, error) {
	t := p.next()
	if t.Type == TokenError {
		return nil, &ParseError{Kind: SyntaxError, Name: p.name, Line: t.Line, Col: t.Col, Msg: t.Val}
	}
	if t.Type == TokenEOF {
		return nil, &ParseError{Kind: ExpectedToken, Name: p.name, Line: t.Line, Col: t.Col, Expected: tt}
	}
	if t.Type != tt {
		return nil, p.expectedTokenGot(tt, t)
	}
	return t, nil
}

func (p *Parser) closeTag(n Node) (Node, error) {
	if _, err := p.expect(TokenCloseDelimiter); err != nil {
		return nil, err
	}
	return n, nil
}

// parseDoc parses a flat sequence of top-level items until EOF.
func (p *Parser) parseDoc() ([]Node, error) {
	var nodes []Node
	for {
		t := p.next()
		switch t.Type {
		case TokenText:
			nodes = append(nodes, &TextNode{Text: t.Val})
		case TokenOpenDelimiter:
			n, err := p.parseTag()
			if err != nil {
				return nil, err
			}
			if n != nil {
				nodes = append(nodes, n)
			}
		case TokenEOF:
			return nodes, nil
		case TokenError:
			return nil, &ParseError{Kind: SyntaxError, Name: p.name, Line: t.Line, Col: t.Col, Msg: t.Val}
		default:
			return nil, p.unexpectedToken(t)
		}
	}
}

// parseTag dispatches on the first token following an OpenDelimiter,
// per the tag-body grammar table.
func (p *Parser) parseTag() (Node, error) {
	t := p.next()
	switch t.Type {
	case TokenIdentifier:
		return p.closeTag(&VariableNode{Identifier: t.Val, Escaped: true})

	case TokenRaw:
		idTok, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		return p.closeTag(&VariableNode{Identifier: idTok.Val, Escaped: false})

	case TokenImplicit:
		return p.closeTag(&ImplicitNode{})

	case TokenComment:
		return p.closeTag(&CommentNode{Text: t.Val})

	case TokenSection, TokenInvertedSection:
		inverted := t.Type == TokenInvertedSection
		idTok, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenCloseDelimiter); err != nil {
			return nil, err
		}
		body, err := p.collectSectionBody(idTok.Val)
		if err != nil {
			return nil, err
		}
		children, err := p.subParse(body)
		if err != nil {
			return nil, err
		}
		return &SectionNode{Identifier: idTok.Val, Inverted: inverted, Children: children}, nil

	case TokenPartial:
		dyn := false
		if p.peekN(0).Type == TokenDynamic {
			p.next()
			dyn = true
		}
		idTok, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		return p.closeTag(&PartialNode{Identifier: idTok.Val, Dynamic: dyn})

	case TokenParent:
		dyn := false
		if p.peekN(0).Type == TokenDynamic {
			p.next()
			dyn = true
		}
		idTok, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenCloseDelimiter); err != nil {
			return nil, err
		}
		body, err := p.collectSectionBody(idTok.Val)
		if err != nil {
			return nil, err
		}
		children, err := p.subParse(body)
		if err != nil {
			return nil, err
		}
		return &ParentNode{Identifier: idTok.Val, Dynamic: dyn, Children: children}, nil

	case TokenBlock:
		idTok, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenCloseDelimiter); err != nil {
			return nil, err
		}
		body, err := p.collectSectionBody(idTok.Val)
		if err != nil {
			return nil, err
		}
		children, err := p.subParse(body)
		if err != nil {
			return nil, err
		}
		return &BlockNode{Identifier: idTok.Val, Children: children}, nil

	case TokenSetDelimiter:
		_, err := p.expect(TokenCloseDelimiter)
		return nil, err

	case TokenError:
		return nil, &ParseError{Kind: SyntaxError, Name: p.name, Line: t.Line, Col: t.Col, Msg: t.Val}

	default:
		return nil, p.unexpectedToken(t)
	}
}

// collectSectionBody buffers tokens linearly until it finds the
// sequence OpenDelimiter, SectionEnd, [Dynamic,] Identifier(id) that
// closes the section opened with id. The matched closing tag's tokens
// are popped back out of the buffer, its trailing CloseDelimiter is
// consumed and discarded, and the remaining buffered tokens (the
// section's body) are returned.
func (p *Parser) collectSectionBody(id string) ([]*Token, error) {
	var buf []*Token
	for {
		t := p.next()
		switch t.Type {
		case TokenEOF:
			return nil, &ParseError{Kind: UnclosedSection, Name: p.name, Identifier: id, Line: t.Line, Col: t.Col}
		case TokenError:
			return nil, &ParseError{Kind: SyntaxError, Name: p.name, Line: t.Line, Col: t.Col, Msg: t.Val}
		}
		buf = append(buf, t)

		if n := len(buf); n >= 3 &&
			buf[n-3].Type == TokenOpenDelimiter &&
			buf[n-2].Type == TokenSectionEnd &&
			buf[n-1].Type == TokenIdentifier &&
			buf[n-1].Val == id {
			buf = buf[:n-3]
			return buf, p.discardCloseDelimiter()
		}

		if n := len(buf); n >= 4 &&
			buf[n-4].Type == TokenOpenDelimiter &&
			buf[n-3].Type == TokenSectionEnd &&
			buf[n-2].Type == TokenDynamic &&
			buf[n-1].Type == TokenIdentifier &&
			buf[n-1].Val == id {
			buf = buf[:n-4]
			return buf, p.discardCloseDelimiter()
		}
	}
}

func (p *Parser) discardCloseDelimiter() error {
	_, err := p.expect(TokenCloseDelimiter)
	return err
}

// subParse parses a buffered token slice (a collected section body)
// with a fresh Parser instance sourced from a deque instead of a
// channel.
func (p *Parser) subParse(body []*Token) ([]Node, error) {
	sub := &Parser{name: p.name, src: &dequeSource{toks: body}}
	return sub.parseDoc()
}
