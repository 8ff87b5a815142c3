package logo

import (
	"fmt"
	"math"
	"strconv"
)

func (exec *Execution) evalExpression(expr Expression) (float64, error) {
	if err := exec.step(); err != nil {
		return 0, exec.wrapError(err, expr.Pos())
	}

	switch e := expr.(type) {
	case *NumberLiteral:
		return e.Value, nil
	case *ParamRef:
		val, ok := exec.env.Param(e.Name)
		if !ok {
			return 0, exec.newRuntimeError(ErrorTypeUndefinedReference,
				fmt.Sprintf("undefined parameter :%s", e.Name), e.Pos(), nil)
		}
		return val, nil
	case *VarRef:
		val, ok := exec.env.Variable(e.Name)
		if !ok {
			return 0, exec.newRuntimeError(ErrorTypeUndefinedReference,
				fmt.Sprintf("undefined variable \"%s", e.Name), e.Pos(), nil)
		}
		return val, nil
	case *GroupedExpr:
		return exec.evalExpression(e.Inner)
	case *UnaryExpr:
		right, err := exec.evalExpression(e.Right)
		if err != nil {
			return 0, err
		}
		return -right, nil
	case *RandomExpr:
		limit, err := exec.evalExpression(e.Limit)
		if err != nil {
			return 0, err
		}
		return math.Floor(exec.engine.randomFloat() * math.Floor(limit)), nil
	case *BinaryExpr:
		left, err := exec.evalExpression(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := exec.evalExpression(e.Right)
		if err != nil {
			return 0, err
		}
		val, err := arithmetic(e.Operator, left, right)
		if err != nil {
			return 0, exec.wrapError(err, e.Pos())
		}
		return val, nil
	case *CallExpr:
		val, ok, err := exec.callProcedure(e)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, exec.errorAt(e.Pos(), "%s did not output a value", e.Name)
		}
		return val, nil
	default:
		return 0, exec.errorAt(expr.Pos(), "unsupported expression %T", expr)
	}
}

// arithmetic applies a binary operator with IEEE semantics; division by
// zero yields an infinity or NaN rather than an error.
func arithmetic(op TokenType, left, right float64) (float64, error) {
	switch op {
	case tokenPlus:
		return left + right, nil
	case tokenMinus:
		return left - right, nil
	case tokenAsterisk:
		return left * right, nil
	case tokenSlash:
		return left / right, nil
	default:
		return 0, fmt.Errorf("unsupported operator %s", tokenLabel(op))
	}
}

func compareValues(op TokenType, left, right float64) (bool, error) {
	switch op {
	case tokenEQ:
		return left == right, nil
	case tokenNotEQ:
		return left != right, nil
	case tokenGT:
		return left > right, nil
	case tokenLT:
		return left < right, nil
	default:
		return false, fmt.Errorf("unsupported comparison %s", tokenLabel(op))
	}
}

// formatNumber renders a value the way it would be written in source.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
