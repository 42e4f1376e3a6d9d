package rustache

import "testing"

func tokenTypes(toks []*Token) []TokenType {
	types := make([]TokenType, len(toks))
	for i, t := range toks {
		types[i] = t.Type
	}
	return types
}

func equalTypes(t *testing.T, got, want []TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexPlainText(t *testing.T) {
	toks, err := Lex("t", "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{TokenText, TokenEOF})
	if toks[0].Val != "hello world" {
		t.Fatalf("got text %q", toks[0].Val)
	}
}

func TestLexVariable(t *testing.T) {
	toks, err := Lex("t", "Hello {{name}}!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenText, TokenOpenDelimiter, TokenIdentifier, TokenCloseDelimiter, TokenText, TokenEOF,
	})
	if toks[2].Val != "name" {
		t.Fatalf("got identifier %q", toks[2].Val)
	}
}

func TestLexRawVariableAmpersand(t *testing.T) {
	toks, err := Lex("t", "{{&html}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenRaw, TokenIdentifier, TokenCloseDelimiter, TokenEOF,
	})
}

func TestLexRawVariableTripleBrace(t *testing.T) {
	toks, err := Lex("t", "{{{html}}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenRaw, TokenIdentifier, TokenCloseDelimiter, TokenEOF,
	})
}

func TestLexImplicit(t *testing.T) {
	toks, err := Lex("t", "{{.}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenImplicit, TokenCloseDelimiter, TokenEOF,
	})
}

func TestLexSectionAndEnd(t *testing.T) {
	toks, err := Lex("t", "{{#items}}x{{/items}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenSection, TokenIdentifier, TokenCloseDelimiter,
		TokenText,
		TokenOpenDelimiter, TokenSectionEnd, TokenIdentifier, TokenCloseDelimiter,
		TokenEOF,
	})
}

func TestLexInvertedSection(t *testing.T) {
	toks, err := Lex("t", "{{^empty}}none{{/empty}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenInvertedSection, TokenIdentifier, TokenCloseDelimiter,
		TokenText,
		TokenOpenDelimiter, TokenSectionEnd, TokenIdentifier, TokenCloseDelimiter,
		TokenEOF,
	})
}

func TestLexComment(t *testing.T) {
	toks, err := Lex("t", "{{! a comment }}after")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenComment, TokenCloseDelimiter, TokenText, TokenEOF,
	})
	if toks[1].Val != " a comment " {
		t.Fatalf("got comment body %q", toks[1].Val)
	}
}

func TestLexPartialStaticAndDynamic(t *testing.T) {
	toks, err := Lex("t", "{{>header}}{{>*page}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenPartial, TokenIdentifier, TokenCloseDelimiter,
		TokenOpenDelimiter, TokenPartial, TokenDynamic, TokenIdentifier, TokenCloseDelimiter,
		TokenEOF,
	})
}

func TestLexParentAndBlock(t *testing.T) {
	toks, err := Lex("t", "{{<base}}{{$body}}hi{{/body}}{{/base}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenParent, TokenIdentifier, TokenCloseDelimiter,
		TokenOpenDelimiter, TokenBlock, TokenIdentifier, TokenCloseDelimiter,
		TokenText,
		TokenOpenDelimiter, TokenSectionEnd, TokenIdentifier, TokenCloseDelimiter,
		TokenOpenDelimiter, TokenSectionEnd, TokenIdentifier, TokenCloseDelimiter,
		TokenEOF,
	})
}

func TestLexDelimiterChange(t *testing.T) {
	toks, err := Lex("t", "{{=<% %>=}}<%x%>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenSetDelimiter, TokenCloseDelimiter,
		TokenOpenDelimiter, TokenIdentifier, TokenCloseDelimiter,
		TokenEOF,
	})
}

func TestLexUnclosedDelimiterError(t *testing.T) {
	_, err := Lex("t", "{{name")
	if err == nil {
		t.Fatal("expected an error for unclosed tag")
	}
	lexErr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if lexErr.Kind != UnexpectedEOF {
		t.Fatalf("got kind %v, want UnexpectedEOF", lexErr.Kind)
	}
}

func TestLexUnexpectedCharacter(t *testing.T) {
	_, err := Lex("t", "{{)}}")
	if err == nil {
		t.Fatal("expected an error for an invalid sigil")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
}

// TestLexOnlySpaceIsSkippableInsideTag matches the ground-truth
// original's accept_run(" "): a literal space between a sigil and its
// identifier, or before a closing delimiter, is skipped, but a tab or
// newline in either position is not.
func TestLexOnlySpaceIsSkippableInsideTag(t *testing.T) {
	toks, err := Lex("t", "{{# name }}x{{/name}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalTypes(t, tokenTypes(toks), []TokenType{
		TokenOpenDelimiter, TokenSection, TokenIdentifier, TokenCloseDelimiter,
		TokenText,
		TokenOpenDelimiter, TokenSectionEnd, TokenIdentifier, TokenCloseDelimiter,
		TokenEOF,
	})
	if toks[2].Val != "name" {
		t.Fatalf("got identifier %q", toks[2].Val)
	}
}

func TestLexTabAfterSigilIsUnexpectedCharacter(t *testing.T) {
	_, err := Lex("t", "{{#\tname}}")
	if err == nil {
		t.Fatal("expected an error for a tab between a sigil and its identifier")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
}

func TestLexTabBeforeCloseDelimiterIsError(t *testing.T) {
	_, err := Lex("t", "{{name\t}}")
	if err == nil {
		t.Fatal("expected an error for a tab before the closing delimiter")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
}

func TestLexNewlineBeforeCloseDelimiterIsError(t *testing.T) {
	_, err := Lex("t", "{{name\n}}")
	if err == nil {
		t.Fatal("expected an error for a newline before the closing delimiter")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
}

func TestLexLineAndColumnTracking(t *testing.T) {
	toks, err := Lex("t", "a\nb{{name}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var openTok *Token
	for _, tk := range toks {
		if tk.Type == TokenOpenDelimiter {
			openTok = tk
			break
		}
	}
	if openTok == nil {
		t.Fatal("no OpenDelimiter token found")
	}
	if openTok.Line != 2 {
		t.Fatalf("got line %d, want 2", openTok.Line)
	}
}
