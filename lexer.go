package rustache

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// eof is returned by next() once the underlying reader is exhausted. It
// is an invalid rune value that cannot appear in valid UTF-8 input.
const eof rune = -1

const identifierChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.?_"
const delimiterChars = "<>%()@"

// lexStateFn is one state in the lexer's state machine. It consumes
// characters, emits zero or more tokens, and returns the next state, or
// nil to terminate.
type lexStateFn func(*lexer) lexStateFn

// lexer tokenizes Mustache template source read from an io.Reader. It
// runs on its own goroutine (see StartLexer) and emits tokens onto a
// bounded channel; its only form of backpressure is that channel
// filling up.
type lexer struct {
	name string
	r    *bufio.Reader

	// buf accumulates every rune decoded from r so far. start and pos
	// are byte offsets into buf; current() returns buf[start:pos].
	buf strings.Builder

	start int
	pos   int
	width int // byte width of the last rune returned by next()

	line, col           int
	startLine, startCol int

	open, close, rawClose string

	tokens chan *Token
}

// StartLexer spawns a lexer goroutine over r and returns the channel it
// emits tokens on. The channel is closed-by-convention: the lexer sends
// exactly one TokenEOF or TokenError as its last token and then returns
// without closing the channel, matching the single-producer contract
// the parser relies on (the parser stops reading once it has seen the
// terminal token).
func StartLexer(name string, r io.Reader) <-chan *Token {
	l := &lexer{
		name:      name,
		r:         bufio.NewReader(r),
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
		open:      "{{",
		close:     "}}",
		rawClose:  "}}}",
		tokens:    make(chan *Token, 4),
	}
	go l.run()
	return l.tokens
}

// Lex runs the lexer to completion and collects every token into a
// slice, for tests and for sub-parsing a string directly.
func Lex(name, input string) ([]*Token, error) {
	ch := StartLexer(name, strings.NewReader(input))
	var toks []*Token
	for t := range ch {
		toks = append(toks, t)
		if t.Type == TokenEOF {
			return toks, nil
		}
		if t.Type == TokenError {
			return toks, &LexError{Kind: t.LexKind, Name: name, Line: t.Line, Col: t.Col, Msg: t.Val}
		}
	}
	return toks, nil
}

func (l *lexer) run() {
	for state := lexTextState; state != nil; {
		state = state(l)
	}
}

// current returns the text accumulated since the last emit/ignore.
func (l *lexer) current() string {
	return l.buf.String()[l.start:l.pos]
}

// emit sends a token of type t built from the current span and
// advances start to pos.
func (l *lexer) emit(t TokenType) {
	l.tokens <- &Token{
		Name: l.name,
		Type: t,
		Val:  l.current(),
		Line: l.startLine,
		Col:  l.startCol,
	}
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col
}

// ignore advances start to pos without emitting a token.
func (l *lexer) ignore() {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col
}

// next decodes and returns the next rune, growing buf as needed.
// Returns eof once the reader is exhausted.
func (l *lexer) next() rune {
	if l.pos >= l.buf.Len() {
		r, sz, err := l.r.ReadRune()
		if err != nil {
			l.width = 0
			return eof
		}
		l.buf.WriteRune(r)
		l.width = sz
		l.pos += sz
		l.advancePos(r)
		return r
	}
	r, sz := utf8.DecodeRuneInString(l.buf.String()[l.pos:])
	l.width = sz
	l.pos += sz
	l.advancePos(r)
	return r
}

func (l *lexer) advancePos(r rune) {
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// backup undoes the last next() call, including its line/column
// advance. Valid only once per next(); after next() returned eof it
// does nothing.
func (l *lexer) backup() {
	if l.width == 0 {
		return
	}
	l.pos -= l.width
	if l.buf.String()[l.pos] == '\n' {
		before := l.buf.String()[:l.pos]
		l.line--
		l.col = utf8.RuneCountInString(before[strings.LastIndexByte(before, '\n')+1:]) + 1
		return
	}
	l.col--
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// peekAhead returns the n bytes starting at pos, reading ahead from the
// underlying reader into buf as needed, without moving pos. It is used
// to test for a delimiter window without consuming it rune-by-rune.
func (l *lexer) peekAhead(n int) (string, bool) {
	for l.buf.Len()-l.pos < n {
		r, sz, err := l.r.ReadRune()
		if err != nil {
			return "", false
		}
		l.buf.WriteRune(r)
		_ = sz
	}
	return l.buf.String()[l.pos : l.pos+n], true
}

// consumeLiteral consumes exactly len(s) bytes, which must already have
// been confirmed (via peekAhead) to equal s.
func (l *lexer) consumeLiteral(s string) {
	for _, r := range s {
		l.pos += utf8.RuneLen(r)
		l.advancePos(r)
	}
}

func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

func (l *lexer) skipSpaces() {
	for {
		r := l.next()
		if r != ' ' {
			l.backup()
			return
		}
	}
}

func (l *lexer) errorf(kind LexErrorKind, format string, args ...any) lexStateFn {
	l.tokens <- &Token{
		Name:    l.name,
		Type:    TokenError,
		Val:     fmt.Sprintf(format, args...),
		Line:    l.startLine,
		Col:     l.startCol,
		LexKind: kind,
	}
	return nil
}

// lexTextState scans literal text until it finds the open delimiter.
func lexTextState(l *lexer) lexStateFn {
	for {
		if window, ok := l.peekAhead(len(l.open)); ok && window == l.open {
			if l.pos > l.start {
				l.emit(TokenText)
			}
			return lexOpenDelimiterState
		}
		r := l.next()
		if r == eof {
			if l.pos > l.start {
				l.emit(TokenText)
			}
			l.emit(TokenEOF)
			return nil
		}
	}
}

func lexOpenDelimiterState(l *lexer) lexStateFn {
	l.consumeLiteral(l.open)
	l.emit(TokenOpenDelimiter)
	return lexInsideDelimiterState
}

func lexInsideDelimiterState(l *lexer) lexStateFn {
	r := l.next()
	switch r {
	case '#':
		l.emit(TokenSection)
		return lexIdentifierState
	case '^':
		l.emit(TokenInvertedSection)
		return lexIdentifierState
	case '/':
		l.emit(TokenSectionEnd)
		return lexIdentifierState
	case '$':
		l.emit(TokenBlock)
		return lexIdentifierState
	case '<':
		l.emit(TokenParent)
		return lexIdentifierState
	case '>':
		l.emit(TokenPartial)
		return lexIdentifierState
	case '&':
		l.emit(TokenRaw)
		return lexIdentifierState
	case '{':
		l.emit(TokenRaw)
		return lexRawIdentifierState
	case '!':
		l.ignore()
		return lexCommentState
	case '.':
		l.emit(TokenImplicit)
		return lexCloseDelimiterState
	case '=':
		l.emit(TokenSetDelimiter)
		return lexNewDelimiterState
	case '\n':
		return l.errorf(UnclosedDelimiter, "unclosed delimiter")
	case eof:
		return l.errorf(UnexpectedEOF, "unexpected end of input inside tag")
	default:
		if strings.ContainsRune(identifierChars, r) {
			l.backup()
			return lexIdentifierState
		}
		return l.errorf(UnexpectedCharacter, "unexpected character %q", r)
	}
}

func lexIdentifierState(l *lexer) lexStateFn {
	l.skipSpaces()
	l.ignore()
	if l.peek() == '*' {
		l.next()
		l.emit(TokenDynamic)
		l.skipSpaces()
		l.ignore()
	}
	l.acceptRun(identifierChars)
	if l.pos == l.start {
		return l.errorf(UnexpectedCharacter, "expected identifier")
	}
	l.emit(TokenIdentifier)
	return lexCloseDelimiterState
}

func lexRawIdentifierState(l *lexer) lexStateFn {
	l.skipSpaces()
	l.ignore()
	l.acceptRun(identifierChars)
	if l.pos == l.start {
		return l.errorf(UnexpectedCharacter, "expected identifier")
	}
	l.emit(TokenIdentifier)
	return lexCloseRawDelimiterState
}

func lexCommentState(l *lexer) lexStateFn {
	for {
		if window, ok := l.peekAhead(len(l.close)); ok && window == l.close {
			l.emit(TokenComment)
			l.consumeLiteral(l.close)
			l.emit(TokenCloseDelimiter)
			return lexTextState
		}
		if l.next() == eof {
			return l.errorf(UnexpectedEOF, "unclosed comment")
		}
	}
}

func lexCloseDelimiterState(l *lexer) lexStateFn {
	l.skipSpaces()
	l.ignore()
	window, ok := l.peekAhead(len(l.close))
	if !ok {
		return l.errorf(UnexpectedEOF, "unclosed tag")
	}
	if window != l.close {
		return l.errorf(UnexpectedCharacter, "expected closing delimiter %q", l.close)
	}
	l.consumeLiteral(l.close)
	l.emit(TokenCloseDelimiter)
	return lexTextState
}

func lexCloseRawDelimiterState(l *lexer) lexStateFn {
	l.skipSpaces()
	l.ignore()
	window, ok := l.peekAhead(len(l.rawClose))
	if !ok {
		return l.errorf(UnexpectedEOF, "unclosed tag")
	}
	if window != l.rawClose {
		return l.errorf(UnexpectedCharacter, "expected closing delimiter %q", l.rawClose)
	}
	l.consumeLiteral(l.rawClose)
	l.emit(TokenCloseDelimiter)
	return lexTextState
}

func lexNewDelimiterState(l *lexer) lexStateFn {
	l.skipSpaces()
	l.ignore()
	l.acceptRun(delimiterChars)
	if l.pos == l.start {
		return l.errorf(UnexpectedCharacter, "expected new open delimiter")
	}
	newOpen := l.current()
	l.ignore()

	if l.next() != ' ' {
		return l.errorf(UnexpectedCharacter, "expected single space between delimiters")
	}
	l.ignore()

	l.skipSpaces()
	l.ignore()
	l.acceptRun(delimiterChars)
	if l.pos == l.start {
		return l.errorf(UnexpectedCharacter, "expected new close delimiter")
	}
	newClose := l.current()
	l.ignore()

	if l.next() != '=' {
		return l.errorf(UnexpectedCharacter, "expected '=' terminating delimiter change")
	}
	l.ignore()

	window, ok := l.peekAhead(len(l.close))
	if !ok || window != l.close {
		return l.errorf(UnexpectedCharacter, "expected current close delimiter %q", l.close)
	}
	l.consumeLiteral(l.close)
	l.emit(TokenCloseDelimiter)

	l.open = newOpen
	l.close = newClose
	l.rawClose = "}" + newClose
	return lexTextState
}
