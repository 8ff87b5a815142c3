package logo

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const growingSquares = `make "length 50
to growsquare :length
  repeat 4 [forward :length right 90]
  make "length :length + 50
end
repeat 10 [growsquare "length right 36 if "length > 250 [make "length 50]]`

func TestNewEngineRejectsNegativeLimits(t *testing.T) {
	if _, err := NewEngine(Config{StepQuota: -1}); err == nil {
		t.Fatalf("expected error for negative step quota")
	}
	if _, err := NewEngine(Config{RecursionLimit: -1}); err == nil {
		t.Fatalf("expected error for negative recursion limit")
	}
	engine, err := NewEngine(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.config.StepQuota != 0 || engine.config.RecursionLimit != 0 {
		t.Fatalf("zero limits should stay unlimited: %+v", engine.config)
	}
}

func TestParseAndRunDeepRecursion(t *testing.T) {
	img, err := ParseAndRun("to spiral :n if :n > 0 [forward 1 right 1 spiral :n - 1] end spiral 1500")
	if err != nil {
		t.Fatalf("deep recursion failed: %v", err)
	}
	if len(img.Segments) != 1500 {
		t.Fatalf("expected 1500 segments, got %d", len(img.Segments))
	}
}

func TestParseAndRunLongRepeat(t *testing.T) {
	img, err := ParseAndRun(`make "n 0 repeat 4000000 [make "n "n + 1] forward "n / 40000`)
	if err != nil {
		t.Fatalf("long repeat failed: %v", err)
	}
	if len(img.Segments) != 1 || img.Segments[0].Y2 != 400 {
		t.Fatalf("expected one 100 unit segment, got %+v", img.Segments)
	}
}

func TestMustNewEnginePanicsOnInvalidConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustNewEngine(Config{StepQuota: -5})
}

func TestParseAndRunGrowingSquares(t *testing.T) {
	img, err := ParseAndRun(growingSquares)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(img.Segments) != 40 {
		t.Fatalf("expected 40 segments, got %d", len(img.Segments))
	}
	if img.Width != 1000 || img.Height != 1000 {
		t.Fatalf("unexpected canvas %dx%d", img.Width, img.Height)
	}
	svg := img.SVG()
	if !strings.HasPrefix(svg, `<svg viewBox="0 0 1000 1000"`) || strings.Count(svg, "<line ") != 40 {
		t.Fatalf("unexpected svg %s", svg)
	}
}

func TestRunReturnsNoImageOnFailure(t *testing.T) {
	engine := MustNewEngine(Config{})

	img, err := engine.Run(context.Background(), "repeat [forward 10]")
	if img != nil {
		t.Fatalf("expected no image for parse failure")
	}
	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected CompileError, got %v", err)
	}

	img, err = engine.Run(context.Background(), "forward 10 forward :missing")
	if img != nil {
		t.Fatalf("expected no image for runtime failure")
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %v", err)
	}
}

func TestCompileErrorRunsNothing(t *testing.T) {
	session := MustNewEngine(Config{}).NewSession()
	err := session.Exec(context.Background(), `make "x 5 forward 10 forward )`)
	if err == nil {
		t.Fatalf("expected compile error")
	}
	if _, ok := session.Environment().Variable("x"); ok {
		t.Fatalf("no statement may run when compilation fails")
	}
	if len(session.Image().Segments) != 0 {
		t.Fatalf("no drawing may happen when compilation fails")
	}
}

func TestSessionKeepsDefinitions(t *testing.T) {
	session := MustNewEngine(Config{}).NewSession()
	ctx := context.Background()
	if err := session.Exec(ctx, `to sq :s repeat 4 [forward :s right 90] end make "n 3`); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := session.Exec(ctx, `sq 10 forward "n`); err != nil {
		t.Fatalf("call: %v", err)
	}
	if got := len(session.Image().Segments); got != 5 {
		t.Fatalf("expected 5 segments, got %d", got)
	}
	if names := session.Environment().ProcedureNames(); len(names) != 1 || names[0] != "sq" {
		t.Fatalf("unexpected procedures %v", names)
	}
	if vars := session.Environment().Variables(); vars["n"] != 3 {
		t.Fatalf("unexpected variables %v", vars)
	}

	session.Reset()
	if len(session.Image().Segments) != 0 || len(session.Environment().ProcedureNames()) != 0 {
		t.Fatalf("reset should clear drawing and definitions")
	}
}

func TestSessionKeepsDrawingAfterRuntimeError(t *testing.T) {
	session := MustNewEngine(Config{}).NewSession()
	err := session.Exec(context.Background(), "forward 10 nothere")
	if err == nil {
		t.Fatalf("expected runtime error")
	}
	if got := len(session.Image().Segments); got != 1 {
		t.Fatalf("expected the segment drawn before the error, got %d", got)
	}
}

func TestEngineLogsProcedureCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := MustNewEngine(Config{Logger: logger})
	if _, err := engine.Run(context.Background(), "to f forward 1 end f"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"procedure call", "procedure=f", "run finished", "segments=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output:\n%s", want, out)
		}
	}
}

func TestCompileErrorAggregatesMessages(t *testing.T) {
	_, err := MustNewEngine(Config{}).Compile("forward ]\nright )")
	if err == nil {
		t.Fatalf("expected compile error")
	}
	msg := err.Error()
	if strings.Count(msg, "parse error at") != 2 {
		t.Fatalf("expected two parse errors in %q", msg)
	}
}
