package logo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// SignalKind tags the control-flow outcome of a statement.
type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalStop
	SignalOutput
)

// Signal is the result of executing a statement. Stop and Output signals
// halt the enclosing statement sequence and travel up to the nearest
// procedure invocation or the top level.
type Signal struct {
	Kind  SignalKind
	Value float64
}

type callFrame struct {
	Procedure string
	Pos       Position
}

// Execution evaluates one program against an Environment and a Turtle.
type Execution struct {
	engine       *Engine
	ctx          context.Context
	env          *Environment
	turtle       *Turtle
	source       string
	quota        int
	steps        int
	recursionCap int
	callStack    []callFrame
	log          *slog.Logger
}

func (exec *Execution) step() error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return fmt.Errorf("%w (%d)", ErrStepQuotaExceeded, exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

func (exec *Execution) errorAt(pos Position, format string, args ...any) error {
	return exec.newRuntimeError(ErrorTypeRuntime, fmt.Sprintf(format, args...), pos, nil)
}

func (exec *Execution) newRuntimeError(kind string, message string, pos Position, cause error) error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) > 0 {
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Procedure: current.Procedure, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(exec.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Procedure: "<program>", Pos: pos})
	}

	return &RuntimeError{
		Type:      kind,
		Message:   message,
		CodeFrame: formatCodeFrame(exec.source, pos, 1),
		Frames:    frames,
		err:       cause,
	}
}

func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}
	kind := ErrorTypeRuntime
	if errors.Is(err, ErrStepQuotaExceeded) {
		kind = ErrorTypeQuota
	}
	return exec.newRuntimeError(kind, err.Error(), pos, err)
}

func (exec *Execution) evalStatements(stmts []Statement) (Signal, error) {
	for _, stmt := range stmts {
		if err := exec.step(); err != nil {
			return Signal{}, exec.wrapError(err, stmt.Pos())
		}
		sig, err := exec.evalStatement(stmt)
		if err != nil {
			return Signal{}, err
		}
		if sig.Kind != SignalNone {
			return sig, nil
		}
	}
	return Signal{}, nil
}

func (exec *Execution) evalStatement(stmt Statement) (Signal, error) {
	switch s := stmt.(type) {
	case *ProcedureStmt:
		exec.env.DefineProcedure(&Procedure{Name: s.Name, Params: s.Params, Body: s.Body, Pos: s.Pos()})
		exec.log.Debug("define procedure",
			slog.String("name", s.Name),
			slog.Int("params", len(s.Params)))
		return Signal{}, nil
	case *MakeStmt:
		val, err := exec.evalExpression(s.Value)
		if err != nil {
			return Signal{}, err
		}
		exec.env.SetVariable(s.Name, val)
		return Signal{}, nil
	case *RepeatStmt:
		return exec.evalRepeat(s)
	case *IfStmt:
		return exec.evalIf(s)
	case *StopStmt:
		return Signal{Kind: SignalStop}, nil
	case *OutputStmt:
		val, err := exec.evalExpression(s.Value)
		if err != nil {
			return Signal{}, err
		}
		return Signal{Kind: SignalOutput, Value: val}, nil
	case *CallStmt:
		_, _, err := exec.callProcedure(s.Call)
		return Signal{}, err
	case *PenStmt:
		if s.Down {
			exec.turtle.PenDown()
		} else {
			exec.turtle.PenUp()
		}
		return Signal{}, nil
	case *MoveStmt:
		distance, err := exec.evalFinite(s.Distance, "distance")
		if err != nil {
			return Signal{}, err
		}
		exec.turtle.Move(s.Forward, distance)
		return Signal{}, nil
	case *TurnStmt:
		angle, err := exec.evalFinite(s.Angle, "angle")
		if err != nil {
			return Signal{}, err
		}
		exec.turtle.Turn(s.Left, angle)
		return Signal{}, nil
	case *HomeStmt:
		exec.turtle.Home()
		return Signal{}, nil
	case *SetXYStmt:
		x, err := exec.evalFinite(s.X, "x coordinate")
		if err != nil {
			return Signal{}, err
		}
		y, err := exec.evalFinite(s.Y, "y coordinate")
		if err != nil {
			return Signal{}, err
		}
		exec.turtle.SetXY(x, y)
		return Signal{}, nil
	case *SetHeadingStmt:
		angle, err := exec.evalFinite(s.Angle, "heading")
		if err != nil {
			return Signal{}, err
		}
		exec.turtle.SetHeading(angle)
		return Signal{}, nil
	default:
		return Signal{}, exec.errorAt(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

// evalRepeat evaluates the count once, then runs the body while the
// iteration index is below it. A signal from the body ends the loop and is
// passed up; a signal from a named procedure is absorbed by that call.
func (exec *Execution) evalRepeat(s *RepeatStmt) (Signal, error) {
	count, err := exec.evalExpression(s.Count)
	if err != nil {
		return Signal{}, err
	}

	var proc *Procedure
	if s.Procedure != "" {
		p, err := exec.lookupProcedure(s.Procedure, s.Pos())
		if err != nil {
			return Signal{}, err
		}
		if p.Arity() != 0 {
			return Signal{}, exec.newRuntimeError(ErrorTypeArityMismatch,
				fmt.Sprintf("repeat cannot call %s: it takes %d inputs", p.Name, p.Arity()), s.Pos(), nil)
		}
		proc = p
	}

	for i := 0; float64(i) < count; i++ {
		if err := exec.step(); err != nil {
			return Signal{}, exec.wrapError(err, s.Pos())
		}
		if proc != nil {
			if _, _, err := exec.invoke(proc, nil, s.Pos()); err != nil {
				return Signal{}, err
			}
			continue
		}
		sig, err := exec.evalStatements(s.Body)
		if err != nil {
			return Signal{}, err
		}
		if sig.Kind != SignalNone {
			return sig, nil
		}
	}
	return Signal{}, nil
}

func (exec *Execution) evalIf(s *IfStmt) (Signal, error) {
	left, err := exec.evalExpression(s.Left)
	if err != nil {
		return Signal{}, err
	}
	right, err := exec.evalExpression(s.Right)
	if err != nil {
		return Signal{}, err
	}
	ok, err := compareValues(s.Operator, left, right)
	if err != nil {
		return Signal{}, exec.wrapError(err, s.Pos())
	}
	if !ok {
		return Signal{}, nil
	}
	return exec.evalStatements(s.Body)
}

// evalFinite evaluates an operand handed to the turtle, which only accepts
// finite numbers.
func (exec *Execution) evalFinite(expr Expression, what string) (float64, error) {
	val, err := exec.evalExpression(expr)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, exec.errorAt(expr.Pos(), "%s must be a finite number, got %s", what, formatNumber(val))
	}
	return val, nil
}
