package logo

import (
	"regexp"
	"sort"
	"unicode/utf8"
)

type tokenPattern struct {
	kind TokenType
	re   *regexp.Regexp
	skip bool
}

var keywordTable = []struct {
	kind      TokenType
	spellings []string
}{
	{tokenTo, []string{"to"}},
	{tokenEnd, []string{"end"}},
	{tokenMake, []string{"make"}},
	{tokenRepeat, []string{"repeat"}},
	{tokenIf, []string{"if"}},
	{tokenStop, []string{"stop"}},
	{tokenOutput, []string{"output"}},
	{tokenHome, []string{"home"}},
	{tokenSetXY, []string{"setxy"}},
	{tokenSetHeading, []string{"setheading", "seth"}},
	{tokenRandom, []string{"random"}},
	{tokenPenUp, []string{"penup", "pu"}},
	{tokenPenDown, []string{"pendown", "pd"}},
	{tokenLeft, []string{"left", "lt"}},
	{tokenRight, []string{"right", "rt"}},
	{tokenForward, []string{"forward", "fd"}},
	{tokenBack, []string{"back", "bk"}},
}

// tokenPatterns is ordered: on equal-length matches the earlier entry wins,
// so keywords beat identifiers of the same spelling.
var tokenPatterns = buildTokenPatterns()

func buildTokenPatterns() []tokenPattern {
	patterns := []tokenPattern{
		{kind: tokenWhitespace, re: anchored(`\s+`), skip: true},
		{kind: tokenComment, re: anchored(`;[^\n]*`), skip: true},
	}
	for _, kw := range keywordTable {
		expr := ""
		for i, spelling := range kw.spellings {
			if i > 0 {
				expr += "|"
			}
			expr += regexp.QuoteMeta(spelling)
		}
		patterns = append(patterns, tokenPattern{kind: kw.kind, re: anchored(expr)})
	}
	patterns = append(patterns,
		tokenPattern{kind: tokenLBracket, re: anchored(`\[`)},
		tokenPattern{kind: tokenRBracket, re: anchored(`\]`)},
		tokenPattern{kind: tokenLParen, re: anchored(`\(`)},
		tokenPattern{kind: tokenRParen, re: anchored(`\)`)},
		tokenPattern{kind: tokenPlus, re: anchored(`\+`)},
		tokenPattern{kind: tokenMinus, re: anchored(`-`)},
		tokenPattern{kind: tokenAsterisk, re: anchored(`\*`)},
		tokenPattern{kind: tokenSlash, re: anchored(`/`)},
		tokenPattern{kind: tokenNotEQ, re: anchored(`!=`)},
		tokenPattern{kind: tokenEQ, re: anchored(`=`)},
		tokenPattern{kind: tokenGT, re: anchored(`>`)},
		tokenPattern{kind: tokenLT, re: anchored(`<`)},
		tokenPattern{kind: tokenNumber, re: anchored(`[0-9]+(?:\.[0-9]+)?|\.[0-9]+`)},
		tokenPattern{kind: tokenVar, re: anchored(`"[A-Za-z_][A-Za-z0-9_]*`)},
		tokenPattern{kind: tokenParam, re: anchored(`:[A-Za-z_][A-Za-z0-9_]*`)},
		tokenPattern{kind: tokenIdent, re: anchored(`[A-Za-z_][A-Za-z0-9_]*`)},
	)
	return patterns
}

func anchored(expr string) *regexp.Regexp {
	re := regexp.MustCompile(`\A(?:` + expr + `)`)
	re.Longest()
	return re
}

// Keywords lists every reserved word, abbreviations included, sorted.
func Keywords() []string {
	var out []string
	for _, kw := range keywordTable {
		out = append(out, kw.spellings...)
	}
	sort.Strings(out)
	return out
}

type lexer struct {
	input string

	offset int
	line   int
	column int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, column: 1}
}

// Tokenize splits input into tokens terminated by an EOF token. Lexing
// continues past unrecognised input so every bad run is reported.
func Tokenize(input string) ([]Token, []*LexError) {
	l := newLexer(input)
	var tokens []Token
	var errs []*LexError
	for {
		tok, err := l.NextToken()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens, errs
		}
	}
}

func (l *lexer) NextToken() (Token, *LexError) {
	for l.offset < len(l.input) {
		kind, width, skip := l.match()
		if width == 0 {
			return Token{}, l.illegal()
		}
		pos := l.position()
		literal := l.input[l.offset : l.offset+width]
		l.advance(width)
		if skip {
			continue
		}
		return Token{Type: kind, Literal: literal, Pos: pos}, nil
	}
	return Token{Type: tokenEOF, Pos: l.position()}, nil
}

func (l *lexer) match() (TokenType, int, bool) {
	rest := l.input[l.offset:]
	best := -1
	width := 0
	for i, p := range tokenPatterns {
		loc := p.re.FindStringIndex(rest)
		if loc == nil || loc[1] <= width {
			continue
		}
		best, width = i, loc[1]
	}
	if best < 0 {
		return tokenIllegal, 0, false
	}
	return tokenPatterns[best].kind, width, tokenPatterns[best].skip
}

// illegal consumes the run of input no pattern accepts.
func (l *lexer) illegal() *LexError {
	pos := l.position()
	start := l.offset
	for l.offset < len(l.input) {
		if _, w, _ := l.match(); w > 0 {
			break
		}
		_, size := utf8.DecodeRuneInString(l.input[l.offset:])
		l.advance(size)
	}
	return &LexError{Pos: pos, Text: l.input[start:l.offset], source: l.input}
}

func (l *lexer) advance(n int) {
	for _, r := range l.input[l.offset : l.offset+n] {
		if r == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
	l.offset += n
}

func (l *lexer) position() Position {
	return Position{Offset: l.offset, Line: l.line, Column: l.column}
}
