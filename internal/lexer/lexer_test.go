package lexer

import (
	"testing"

	"github.com/cwbudde/waslang/internal/token"
)

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	input := `local x := 1 + 2 - 3 * 4 / 5 % 6 ^ 7
if x >= 1 and x <= 10 or x ~= 0 then
  println "hi"
end`

	want := []token.Type{
		token.LOCAL, token.IDENT, token.ASSIGN, token.NUMBER,
		token.PLUS, token.NUMBER, token.MINUS, token.NUMBER,
		token.ASTERISK, token.NUMBER, token.SLASH, token.NUMBER,
		token.PERCENT, token.NUMBER, token.CARET, token.NUMBER,
		token.IF, token.IDENT, token.GE, token.NUMBER, token.AND,
		token.IDENT, token.LE, token.NUMBER, token.OR, token.IDENT,
		token.NOT_EQ, token.NUMBER, token.THEN,
		token.PRINTLN, token.STRING,
		token.END,
		token.EOF,
	}

	l := New(input)
	for i, wantType := range want {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != wantType {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, wantType)
		}
	}
}

func TestLineComment(t *testing.T) {
	l := New("1 -- trailing comment\n2")
	tok, err := l.NextToken()
	if err != nil || tok.Type != token.NUMBER {
		t.Fatalf("got %v, %v", tok, err)
	}
	tok, err = l.NextToken()
	if err != nil || tok.Type != token.COMMENT {
		t.Fatalf("expected COMMENT, got %v, %v", tok, err)
	}
	if tok.Text != "-- trailing comment" {
		t.Errorf("unexpected comment text %q", tok.Text)
	}
	tok, err = l.NextToken()
	if err != nil || tok.Type != token.NUMBER || tok.Text != "2" {
		t.Fatalf("got %v, %v", tok, err)
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\"d"`)
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\tc\"d"
	if tok.Text != want {
		t.Errorf("got %q, want %q", tok.Text, want)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
}

func TestMalformedNumber(t *testing.T) {
	l := New("3.")
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for '3.' with no trailing digits")
	}
}

func TestKeywordVsIdentifier(t *testing.T) {
	l := New("while whiley")
	tok, _ := l.NextToken()
	if tok.Type != token.WHILE {
		t.Errorf("got %s, want WHILE", tok.Type)
	}
	tok, _ = l.NextToken()
	if tok.Type != token.IDENT || tok.Text != "whiley" {
		t.Errorf("got %v, want IDENT whiley", tok)
	}
}

func TestTokenizeStopsAtFirstError(t *testing.T) {
	tokens, err := Tokenize("1 + @")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		t.Fatalf("expected trailing EOF token, got %v", tokens)
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("a\nbb")
	tok, _ := l.NextToken()
	if tok.Start.Line != 1 || tok.Start.Column != 1 {
		t.Errorf("got %+v", tok.Start)
	}
	tok, _ = l.NextToken()
	if tok.Start.Line != 2 || tok.Start.Column != 1 {
		t.Errorf("got %+v", tok.Start)
	}
}
