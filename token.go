package rustache

import "fmt"

// TokenType classifies a token produced by the lexer.
type TokenType int

const (
	// TokenError indicates a lexical failure. The token's Val field
	// carries the error message; it is always the last token emitted
	// on its channel.
	TokenError TokenType = iota

	// TokenText is literal template text outside of any tag.
	TokenText

	// TokenOpenDelimiter and TokenCloseDelimiter bracket a tag.
	TokenOpenDelimiter
	TokenCloseDelimiter

	// TokenSection, TokenInvertedSection and TokenSectionEnd are the
	// #, ^ and / sigils.
	TokenSection
	TokenInvertedSection
	TokenSectionEnd

	// TokenIdentifier is a dotted or simple name.
	TokenIdentifier

	// TokenImplicit is the "." self-reference.
	TokenImplicit

	// TokenComment carries a ! comment's body.
	TokenComment

	// TokenPartial is the > sigil.
	TokenPartial

	// TokenDynamic is the * modifier, immediately following > or <.
	TokenDynamic

	// TokenBlock is the $ sigil (only meaningful inside a parent).
	TokenBlock

	// TokenParent is the < sigil.
	TokenParent

	// TokenSetDelimiter is the = sigil starting a delimiter-change tag.
	TokenSetDelimiter

	// TokenRaw marks an unescaped variable, introduced by { or &.
	TokenRaw

	// TokenEOF terminates a token stream. Exactly one EOF or one
	// Error ends every stream the lexer produces.
	TokenEOF
)

var tokenTypeNames = map[TokenType]string{
	TokenError:           "Error",
	TokenText:            "Text",
	TokenOpenDelimiter:   "OpenDelimiter",
	TokenCloseDelimiter:  "CloseDelimiter",
	TokenSection:         "Section",
	TokenInvertedSection: "InvertedSection",
	TokenSectionEnd:      "SectionEnd",
	TokenIdentifier:      "Identifier",
	TokenImplicit:        "Implicit",
	TokenComment:         "Comment",
	TokenPartial:         "Partial",
	TokenDynamic:         "Dynamic",
	TokenBlock:           "Block",
	TokenParent:          "Parent",
	TokenSetDelimiter:    "SetDelimiter",
	TokenRaw:             "Raw",
	TokenEOF:             "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Token is a single lexical element produced by the lexer and consumed
// by the parser.
type Token struct {
	Name string
	Type TokenType
	Val  string
	Line int
	Col  int

	// LexKind is set only when Type == TokenError, classifying the
	// lexical failure carried in Val.
	LexKind LexErrorKind
}

func (t *Token) String() string {
	val := t.Val
	if len(val) > 60 {
		val = val[:57] + "..."
	}
	return fmt.Sprintf("<Token %s Val=%q Line=%d Col=%d>", t.Type, val, t.Line, t.Col)
}
