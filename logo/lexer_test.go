package logo

import (
	"strings"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func assertTokenTypes(t *testing.T, input string, want ...TokenType) []Token {
	t.Helper()
	tokens, errs := Tokenize(input)
	if len(errs) > 0 {
		t.Fatalf("unexpected lex errors for %q: %v", input, errs)
	}
	got := tokenTypes(tokens)
	want = append(want, tokenEOF)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch for %q: got %v want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d of %q: got %s want %s (all: %v)", i, input, got[i], want[i], got)
		}
	}
	return tokens
}

func TestTokenizeMovementAndAbbreviations(t *testing.T) {
	assertTokenTypes(t, "forward 10 fd 5 back 1 bk 2",
		tokenForward, tokenNumber, tokenForward, tokenNumber,
		tokenBack, tokenNumber, tokenBack, tokenNumber)
	assertTokenTypes(t, "left 90 lt 45 right 30 rt 15",
		tokenLeft, tokenNumber, tokenLeft, tokenNumber,
		tokenRight, tokenNumber, tokenRight, tokenNumber)
	assertTokenTypes(t, "penup pu pendown pd home setxy seth 10 setheading 20",
		tokenPenUp, tokenPenUp, tokenPenDown, tokenPenDown, tokenHome, tokenSetXY,
		tokenSetHeading, tokenNumber, tokenSetHeading, tokenNumber)
}

func TestTokenizeKeywordsWinTiesButNotLongerIdentifiers(t *testing.T) {
	tokens := assertTokenTypes(t, "to total forward10 end ending pu pull",
		tokenTo, tokenIdent, tokenIdent, tokenEnd, tokenIdent, tokenPenUp, tokenIdent)
	if tokens[1].Literal != "total" {
		t.Fatalf("expected identifier total, got %q", tokens[1].Literal)
	}
	if tokens[2].Literal != "forward10" {
		t.Fatalf("expected identifier forward10, got %q", tokens[2].Literal)
	}
}

func TestTokenizeSigilsAndOperators(t *testing.T) {
	tokens := assertTokenTypes(t, `make "size :len + 2 * (3 - 1) / 4`,
		tokenMake, tokenVar, tokenParam, tokenPlus, tokenNumber, tokenAsterisk,
		tokenLParen, tokenNumber, tokenMinus, tokenNumber, tokenRParen, tokenSlash, tokenNumber)
	if tokens[1].Literal != `"size` {
		t.Fatalf("expected variable literal, got %q", tokens[1].Literal)
	}
	if tokens[2].Literal != ":len" {
		t.Fatalf("expected parameter literal, got %q", tokens[2].Literal)
	}

	assertTokenTypes(t, "if 1 != 2 [stop] if 1 = 1 [stop] if 1 > 0 [stop] if 0 < 1 [stop]",
		tokenIf, tokenNumber, tokenNotEQ, tokenNumber, tokenLBracket, tokenStop, tokenRBracket,
		tokenIf, tokenNumber, tokenEQ, tokenNumber, tokenLBracket, tokenStop, tokenRBracket,
		tokenIf, tokenNumber, tokenGT, tokenNumber, tokenLBracket, tokenStop, tokenRBracket,
		tokenIf, tokenNumber, tokenLT, tokenNumber, tokenLBracket, tokenStop, tokenRBracket)
}

func TestTokenizeNumbers(t *testing.T) {
	tokens := assertTokenTypes(t, "3.5 .25 10", tokenNumber, tokenNumber, tokenNumber)
	want := []string{"3.5", ".25", "10"}
	for i, lit := range want {
		if tokens[i].Literal != lit {
			t.Fatalf("number %d: got %q want %q", i, tokens[i].Literal, lit)
		}
	}
}

func TestTokenizeSkipsComments(t *testing.T) {
	assertTokenTypes(t, "fd 10 ; turn [ here\nrt 90 ;trailing",
		tokenForward, tokenNumber, tokenRight, tokenNumber)
}

func TestTokenizeTracksPositions(t *testing.T) {
	tokens := assertTokenTypes(t, "fd 10\n  rt 90", tokenForward, tokenNumber, tokenRight, tokenNumber)
	rt := tokens[2]
	if rt.Pos.Line != 2 || rt.Pos.Column != 3 {
		t.Fatalf("expected rt at 2:3, got %d:%d", rt.Pos.Line, rt.Pos.Column)
	}
	if rt.Pos.Offset != 8 {
		t.Fatalf("expected rt at offset 8, got %d", rt.Pos.Offset)
	}
}

func TestTokenizeReportsEveryInvalidRun(t *testing.T) {
	tokens, errs := Tokenize("fd 10 @@ rt 5 #")
	if len(errs) != 2 {
		t.Fatalf("expected 2 lex errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Text != "@@" || errs[0].Pos.Column != 7 {
		t.Fatalf("unexpected first error: %+v", errs[0])
	}
	if errs[1].Text != "#" {
		t.Fatalf("unexpected second error: %+v", errs[1])
	}
	if !strings.Contains(errs[0].Error(), "lex error at 1:7") {
		t.Fatalf("unexpected error text: %s", errs[0].Error())
	}
	got := tokenTypes(tokens)
	if len(got) != 5 || got[2] != tokenRight {
		t.Fatalf("expected lexing to continue past errors, got %v", got)
	}
}

func TestKeywordsSorted(t *testing.T) {
	kws := Keywords()
	for i := 1; i < len(kws); i++ {
		if kws[i-1] > kws[i] {
			t.Fatalf("keywords not sorted: %v", kws)
		}
	}
	found := false
	for _, kw := range kws {
		if kw == "seth" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected seth in keywords: %v", kws)
	}
}
