package logo

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

func (exec *Execution) pushFrame(procedure string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(pos, "recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Procedure: procedure, Pos: pos})
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

func (exec *Execution) lookupProcedure(name string, pos Position) (*Procedure, error) {
	proc, ok := exec.env.Procedure(name)
	if ok {
		return proc, nil
	}
	msg := fmt.Sprintf("undefined procedure %s", name)
	if suggestion := closestMatch(name, exec.env.ProcedureNames()); suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", suggestion)
	}
	return nil, exec.newRuntimeError(ErrorTypeUndefinedReference, msg, pos, nil)
}

// closestMatch returns the candidate nearest to target, or "" when none of
// them contains target's characters in order.
func closestMatch(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// callProcedure evaluates the arguments in the caller's frame and invokes
// the named procedure. The boolean result reports whether it produced an
// output value.
func (exec *Execution) callProcedure(call *CallExpr) (float64, bool, error) {
	proc, err := exec.lookupProcedure(call.Name, call.Pos())
	if err != nil {
		return 0, false, err
	}
	if len(call.Args) != proc.Arity() {
		return 0, false, exec.newRuntimeError(ErrorTypeArityMismatch,
			fmt.Sprintf("%s expects %d inputs, got %d", proc.Name, proc.Arity(), len(call.Args)), call.Pos(), nil)
	}

	params := make(map[string]float64, len(proc.Params))
	for i, arg := range call.Args {
		val, err := exec.evalExpression(arg)
		if err != nil {
			return 0, false, err
		}
		params[proc.Params[i]] = val
	}
	return exec.invoke(proc, params, call.Pos())
}

func (exec *Execution) invoke(proc *Procedure, params map[string]float64, pos Position) (float64, bool, error) {
	if err := exec.pushFrame(proc.Name, pos); err != nil {
		return 0, false, err
	}
	defer exec.popFrame()

	exec.env.enter(proc.Name, params)
	defer exec.env.leave()

	exec.log.Debug("procedure call",
		slog.String("procedure", proc.Name),
		slog.Int("stack-size", len(exec.callStack)))

	sig, err := exec.evalStatements(proc.Body)
	if err != nil {
		return 0, false, err
	}
	switch sig.Kind {
	case SignalOutput:
		exec.log.Debug("procedure output",
			slog.String("procedure", proc.Name),
			slog.Float64("value", sig.Value))
		return sig.Value, true, nil
	case SignalStop:
		exec.log.Debug("procedure stop", slog.String("procedure", proc.Name))
	}
	return 0, false, nil
}
