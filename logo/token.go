package logo

// TokenType identifies the lexical kind of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenWhitespace TokenType = "WHITESPACE"
	tokenComment    TokenType = "COMMENT"

	tokenNumber TokenType = "NUMBER"
	tokenVar    TokenType = "VAR"
	tokenParam  TokenType = "PARAM"
	tokenIdent  TokenType = "IDENT"

	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenEQ       TokenType = "="
	tokenNotEQ    TokenType = "!="
	tokenGT       TokenType = ">"
	tokenLT       TokenType = "<"

	tokenLParen   TokenType = "("
	tokenRParen   TokenType = ")"
	tokenLBracket TokenType = "["
	tokenRBracket TokenType = "]"

	tokenTo         TokenType = "TO"
	tokenEnd        TokenType = "END"
	tokenMake       TokenType = "MAKE"
	tokenRepeat     TokenType = "REPEAT"
	tokenIf         TokenType = "IF"
	tokenStop       TokenType = "STOP"
	tokenOutput     TokenType = "OUTPUT"
	tokenHome       TokenType = "HOME"
	tokenSetXY      TokenType = "SETXY"
	tokenSetHeading TokenType = "SETHEADING"
	tokenRandom     TokenType = "RANDOM"

	tokenForward TokenType = "FORWARD"
	tokenBack    TokenType = "BACK"
	tokenLeft    TokenType = "LEFT"
	tokenRight   TokenType = "RIGHT"
	tokenPenUp   TokenType = "PENUP"
	tokenPenDown TokenType = "PENDOWN"
)

// Category groups token types so grammar rules can match any member.
type Category uint16

const (
	CategoryKeyword Category = 1 << iota
	CategoryMovement
	CategoryDirection
	CategoryPenToggle
	CategoryAddition
	CategoryMultiplication
	CategoryComparison
)

var tokenCategories = map[TokenType]Category{
	tokenTo:         CategoryKeyword,
	tokenEnd:        CategoryKeyword,
	tokenMake:       CategoryKeyword,
	tokenRepeat:     CategoryKeyword,
	tokenIf:         CategoryKeyword,
	tokenStop:       CategoryKeyword,
	tokenOutput:     CategoryKeyword,
	tokenHome:       CategoryKeyword,
	tokenSetXY:      CategoryKeyword,
	tokenSetHeading: CategoryKeyword,
	tokenRandom:     CategoryKeyword,

	tokenForward: CategoryKeyword | CategoryMovement,
	tokenBack:    CategoryKeyword | CategoryMovement,
	tokenLeft:    CategoryKeyword | CategoryDirection,
	tokenRight:   CategoryKeyword | CategoryDirection,
	tokenPenUp:   CategoryKeyword | CategoryPenToggle,
	tokenPenDown: CategoryKeyword | CategoryPenToggle,

	tokenPlus:     CategoryAddition,
	tokenMinus:    CategoryAddition,
	tokenAsterisk: CategoryMultiplication,
	tokenSlash:    CategoryMultiplication,

	tokenEQ:    CategoryComparison,
	tokenNotEQ: CategoryComparison,
	tokenGT:    CategoryComparison,
	tokenLT:    CategoryComparison,
}

// Is reports whether the token type belongs to every category in c.
func (tt TokenType) Is(c Category) bool {
	return tokenCategories[tt]&c == c && c != 0
}

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a location in the source text. Offset is a byte
// offset; Line and Column are 1-based, Column counting runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Nesting reports how a token changes block depth: 1 for '[' and 'to', -1
// for ']' and 'end', 0 otherwise.
func (tt TokenType) Nesting() int {
	switch tt {
	case tokenLBracket, tokenTo:
		return 1
	case tokenRBracket, tokenEnd:
		return -1
	default:
		return 0
	}
}
