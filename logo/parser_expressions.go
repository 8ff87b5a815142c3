package logo

import (
	"fmt"
	"strconv"
)

const (
	_ int = iota
	lowestPrec
	precSum
	precProduct
	precPrefix
)

func precedenceOf(tt TokenType) int {
	switch {
	case tt.Is(CategoryAddition):
		return precSum
	case tt.Is(CategoryMultiplication):
		return precProduct
	default:
		return lowestPrec
	}
}

func (p *parser) peekPrecedence() int {
	return precedenceOf(p.peekToken.Type)
}

func (p *parser) curPrecedence() int {
	return precedenceOf(p.curToken.Type)
}

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		p.nextToken()
		left = p.parseInfixExpression(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *parser) parseNumberLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addParseError(p.curToken, fmt.Sprintf("invalid number %q", p.curToken.Literal))
		return nil
	}
	return &NumberLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseParamRef() Expression {
	return &ParamRef{Name: p.curToken.Literal[1:], position: p.curToken.Pos}
}

func (p *parser) parseVarRef() Expression {
	return &VarRef{Name: p.curToken.Literal[1:], position: p.curToken.Pos}
}

func (p *parser) parsePrefixExpression() Expression {
	expr := &UnaryExpr{Operator: p.curToken.Type, position: p.curToken.Pos}
	p.nextToken()
	expr.Right = p.parseExpression(precPrefix)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *parser) parseGroupedExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	inner := p.parseExpression(lowestPrec)
	if inner == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return &GroupedExpr{Inner: inner, position: pos}
}

func (p *parser) parseRandomExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	limit := p.parseExpression(lowestPrec)
	if limit == nil {
		return nil
	}
	return &RandomExpr{Limit: limit, position: pos}
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	expr := &BinaryExpr{Left: left, Operator: p.curToken.Type, position: left.Pos()}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *parser) parseCallExpressionAtom() Expression {
	call := p.parseCallExpression()
	if call == nil {
		return nil
	}
	return call
}

// parseCallExpression reads a procedure name and its arguments. A procedure
// whose header has already been parsed takes exactly its declared number of
// arguments; any other name takes arguments for as long as they follow.
func (p *parser) parseCallExpression() *CallExpr {
	call := &CallExpr{Name: p.curToken.Literal, Args: []Expression{}, position: p.curToken.Pos}

	if arity, ok := p.arities[call.Name]; ok {
		for range arity {
			if !startsArgument(p.peekToken.Type) && p.peekToken.Type != tokenIdent {
				p.errorExpected(p.peekToken, fmt.Sprintf("argument for %s", call.Name))
				return nil
			}
			p.nextToken()
			arg := p.parseExpression(lowestPrec)
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
		}
		return call
	}

	for startsArgument(p.peekToken.Type) {
		p.nextToken()
		arg := p.parseExpression(lowestPrec)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
	}
	return call
}

// startsArgument reports whether tt can open a call argument without being
// mistaken for the next statement. A bare identifier is excluded since it
// more often names the next procedure call.
func startsArgument(tt TokenType) bool {
	switch tt {
	case tokenNumber, tokenParam, tokenVar, tokenMinus, tokenLParen, tokenRandom:
		return true
	}
	return false
}
