package logo

import "testing"

func TestEnvironmentParamsResolveInnermostFirst(t *testing.T) {
	env := NewEnvironment()
	if _, ok := env.Param("x"); ok {
		t.Fatalf("no frames should mean no params")
	}
	env.enter("outer", map[string]float64{"x": 1, "y": 2})
	env.enter("inner", map[string]float64{"x": 10})
	if v, _ := env.Param("x"); v != 10 {
		t.Fatalf("expected inner x, got %v", v)
	}
	if v, _ := env.Param("y"); v != 2 {
		t.Fatalf("expected outer y, got %v", v)
	}
	if env.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", env.Depth())
	}
	env.leave()
	if v, _ := env.Param("x"); v != 1 {
		t.Fatalf("expected outer x after leave, got %v", v)
	}
	env.leave()
	env.leave()
	if env.Depth() != 0 {
		t.Fatalf("extra leave should be harmless")
	}
}

func TestEnvironmentRedefinesProcedures(t *testing.T) {
	env := NewEnvironment()
	env.DefineProcedure(&Procedure{Name: "p", Params: []string{"a"}})
	env.DefineProcedure(&Procedure{Name: "p"})
	proc, ok := env.Procedure("p")
	if !ok || proc.Arity() != 0 {
		t.Fatalf("expected the later definition to win, got %+v", proc)
	}
}

func TestEnvironmentVariablesCopy(t *testing.T) {
	env := NewEnvironment()
	env.SetVariable("a", 1)
	vars := env.Variables()
	vars["a"] = 99
	if v, _ := env.Variable("a"); v != 1 {
		t.Fatalf("Variables must return a copy")
	}
}
