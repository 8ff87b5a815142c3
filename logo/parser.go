package logo

import (
	"fmt"
)

type prefixParseFn func() Expression

type parser struct {
	tokens []Token
	index  int
	source string

	curToken  Token
	peekToken Token

	// open holds the '[' and 'to' tokens consumed before curToken that are
	// still unclosed, innermost last.
	open []TokenType

	errors []error

	prefixFns map[TokenType]prefixParseFn

	// arities records parameter counts of procedures whose header has been
	// parsed, so later calls consume exactly that many arguments.
	arities map[string]int
}

// Parse tokenizes and parses source. Any lex or parse failure is returned
// as a *CompileError holding every error found.
func Parse(source string) (*Program, error) {
	tokens, lexErrors := Tokenize(source)
	if len(lexErrors) > 0 {
		errs := make([]error, len(lexErrors))
		for i, err := range lexErrors {
			errs[i] = err
		}
		return nil, &CompileError{Errors: errs}
	}

	program, parseErrors := newParser(tokens, source).ParseProgram()
	if len(parseErrors) > 0 {
		return nil, &CompileError{Errors: parseErrors}
	}
	return program, nil
}

func newParser(tokens []Token, source string) *parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenEOF {
		tokens = append(tokens, Token{Type: tokenEOF})
	}
	p := &parser{
		tokens:  tokens,
		source:  source,
		arities: make(map[string]int),
	}

	p.prefixFns = map[TokenType]prefixParseFn{
		tokenNumber: p.parseNumberLiteral,
		tokenParam:  p.parseParamRef,
		tokenVar:    p.parseVarRef,
		tokenMinus:  p.parsePrefixExpression,
		tokenLParen: p.parseGroupedExpression,
		tokenRandom: p.parseRandomExpression,
		tokenIdent:  p.parseCallExpressionAtom,
	}

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) nextToken() {
	p.trackNesting(p.curToken.Type)
	p.curToken = p.peekToken
	if p.index < len(p.tokens) {
		p.peekToken = p.tokens[p.index]
		p.index++
	}
}

// trackNesting records a consumed token. A ']' closes only a bracket
// opened inside the innermost procedure body; 'end' closes the innermost
// 'to' along with any brackets left open in its body.
func (p *parser) trackNesting(tt TokenType) {
	switch tt {
	case tokenLBracket, tokenTo:
		p.open = append(p.open, tt)
	case tokenRBracket:
		if n := len(p.open); n > 0 && p.open[n-1] == tokenLBracket {
			p.open = p.open[:n-1]
		}
	case tokenEnd:
		for i := len(p.open) - 1; i >= 0; i-- {
			if p.open[i] == tokenTo {
				p.open = p.open[:i]
				break
			}
		}
	}
}

func (p *parser) ParseProgram() (*Program, []error) {
	program := &Program{Statements: []Statement{}, source: p.source}

	for p.curToken.Type != tokenEOF {
		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize()
			continue
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	return program, p.errors
}

// synchronize skips past a failed top-level statement, including the rest
// of any block or procedure body it failed inside, to the next token that
// can begin a top-level statement.
func (p *parser) synchronize() {
	p.nextToken()
	for p.curToken.Type != tokenEOF {
		if len(p.open) == 0 && startsStatement(p.curToken.Type) {
			return
		}
		p.nextToken()
	}
}

func startsStatement(tt TokenType) bool {
	switch tt {
	case tokenTo, tokenMake, tokenRepeat, tokenIf, tokenStop, tokenOutput, tokenHome, tokenSetXY, tokenSetHeading:
		return true
	}
	return tt.Is(CategoryMovement) || tt.Is(CategoryDirection) || tt.Is(CategoryPenToggle)
}

func (p *parser) parseStatement() Statement {
	tt := p.curToken.Type
	switch {
	case tt == tokenTo:
		return p.parseProcedureStatement()
	case tt == tokenMake:
		return p.parseMakeStatement()
	case tt == tokenRepeat:
		return p.parseRepeatStatement()
	case tt == tokenIf:
		return p.parseIfStatement()
	case tt == tokenStop:
		return &StopStmt{position: p.curToken.Pos}
	case tt == tokenOutput:
		return p.parseOutputStatement()
	case tt == tokenHome:
		return &HomeStmt{position: p.curToken.Pos}
	case tt == tokenSetXY:
		return p.parseSetXYStatement()
	case tt == tokenSetHeading:
		return p.parseSetHeadingStatement()
	case tt.Is(CategoryPenToggle):
		return &PenStmt{Down: tt == tokenPenDown, position: p.curToken.Pos}
	case tt.Is(CategoryMovement):
		return p.parseMoveStatement()
	case tt.Is(CategoryDirection):
		return p.parseTurnStatement()
	case tt == tokenIdent:
		call := p.parseCallExpression()
		if call == nil {
			return nil
		}
		return &CallStmt{Call: call}
	default:
		p.errorUnexpected(p.curToken)
		return nil
	}
}

func (p *parser) parseProcedureStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name, namePos := p.curToken.Literal, p.curToken.Pos

	params := []string{}
	for p.peekToken.Type == tokenParam {
		p.nextToken()
		params = append(params, p.curToken.Literal[1:])
	}
	p.arities[name] = len(params)

	body, ok := p.parseStatementsUntil(tokenEnd)
	if !ok {
		return nil
	}

	return &ProcedureStmt{Name: name, NamePos: namePos, Params: params, Body: body, position: pos}
}

func (p *parser) parseMakeStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenVar) {
		return nil
	}
	name := p.curToken.Literal[1:]

	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	return &MakeStmt{Name: name, Value: value, position: pos}
}

func (p *parser) parseRepeatStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	count := p.parseExpression(lowestPrec)
	if count == nil {
		return nil
	}

	switch p.peekToken.Type {
	case tokenLBracket:
		p.nextToken()
		body, ok := p.parseBlock()
		if !ok {
			return nil
		}
		return &RepeatStmt{Count: count, Body: body, position: pos}
	case tokenIdent:
		p.nextToken()
		return &RepeatStmt{Count: count, Procedure: p.curToken.Literal, position: pos}
	default:
		p.errorExpected(p.peekToken, "'[' or procedure name")
		return nil
	}
}

func (p *parser) parseIfStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	left := p.parseExpression(lowestPrec)
	if left == nil {
		return nil
	}

	if !p.peekToken.Type.Is(CategoryComparison) {
		p.errorExpected(p.peekToken, "comparison operator")
		return nil
	}
	p.nextToken()
	operator := p.curToken.Type

	p.nextToken()
	right := p.parseExpression(lowestPrec)
	if right == nil {
		return nil
	}

	if !p.expectPeek(tokenLBracket) {
		return nil
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &IfStmt{Left: left, Operator: operator, Right: right, Body: body, position: pos}
}

func (p *parser) parseOutputStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	return &OutputStmt{Value: value, position: pos}
}

func (p *parser) parseSetXYStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	x := p.parseExpression(lowestPrec)
	if x == nil {
		return nil
	}
	p.nextToken()
	y := p.parseExpression(lowestPrec)
	if y == nil {
		return nil
	}
	return &SetXYStmt{X: x, Y: y, position: pos}
}

func (p *parser) parseSetHeadingStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	angle := p.parseExpression(lowestPrec)
	if angle == nil {
		return nil
	}
	return &SetHeadingStmt{Angle: angle, position: pos}
}

func (p *parser) parseMoveStatement() Statement {
	pos := p.curToken.Pos
	forward := p.curToken.Type == tokenForward
	p.nextToken()
	distance := p.parseExpression(lowestPrec)
	if distance == nil {
		return nil
	}
	return &MoveStmt{Forward: forward, Distance: distance, position: pos}
}

func (p *parser) parseTurnStatement() Statement {
	pos := p.curToken.Pos
	left := p.curToken.Type == tokenLeft
	p.nextToken()
	angle := p.parseExpression(lowestPrec)
	if angle == nil {
		return nil
	}
	return &TurnStmt{Left: left, Angle: angle, position: pos}
}

// parseBlock expects the current token to be '[' and leaves the parser on
// the matching ']'.
func (p *parser) parseBlock() ([]Statement, bool) {
	return p.parseStatementsUntil(tokenRBracket)
}

func (p *parser) parseStatementsUntil(end TokenType) ([]Statement, bool) {
	stmts := []Statement{}
	p.nextToken()
	for p.curToken.Type != end {
		if p.curToken.Type == tokenEOF {
			p.errorExpected(p.curToken, tokenLabel(end))
			return nil, false
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil, false
		}
		stmts = append(stmts, stmt)
		p.nextToken()
	}
	return stmts, true
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, tokenLabel(tt))
	return false
}

func (p *parser) errorExpected(tok Token, expected string) {
	p.addParseError(tok, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok.Type)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.addParseError(tok, fmt.Sprintf("unexpected token %s", tokenLabel(tok.Type)))
}

func (p *parser) addParseError(tok Token, msg string) {
	p.errors = append(p.errors, &ParseError{Pos: tok.Pos, Message: msg, Token: tok, source: p.source})
}
