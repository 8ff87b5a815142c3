package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/logo/logo"
)

func enterLine(t *testing.T, m replModel, line string) (replModel, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(line)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return rm, cmd
}

func lastLine(t *testing.T, m replModel) transcriptLine {
	t.Helper()
	if len(m.transcript) == 0 {
		t.Fatalf("transcript is empty")
	}
	return m.transcript[len(m.transcript)-1]
}

func TestQuitCommandReturnsQuit(t *testing.T) {
	m, cmd := enterLine(t, newREPLModel(), ":quit")

	if !m.quitting {
		t.Fatalf("quitting flag not set")
	}
	if m.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestPanelCommandsToggleWithoutCmd(t *testing.T) {
	m, cmd := enterLine(t, newREPLModel(), ":help")
	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if !m.showHelp || m.quitting {
		t.Fatalf("unexpected state after :help: help=%v quitting=%v", m.showHelp, m.quitting)
	}

	m, _ = enterLine(t, m, ":canvas")
	m, _ = enterLine(t, m, ":vars")
	if !m.showCanvas || !m.showVars {
		t.Fatalf("expected canvas and vars panels, got canvas=%v vars=%v", m.showCanvas, m.showVars)
	}
}

func TestSubmitRecordsTranscriptAndInputs(t *testing.T) {
	m, _ := enterLine(t, newREPLModel(), "forward 10")

	if entry := lastLine(t, m); entry.isErr || entry.input != "forward 10" {
		t.Fatalf("unexpected transcript entry: %#v", entry)
	}
	if !slices.Equal(m.inputs, []string{"forward 10"}) {
		t.Fatalf("unexpected inputs: %v", m.inputs)
	}
}

func TestSubmitHoldsUnfinishedProcedure(t *testing.T) {
	m := newREPLModel()
	m, _ = enterLine(t, m, "to square :n")
	m, _ = enterLine(t, m, "repeat 4 [")
	if len(m.pending) != 2 || len(m.transcript) != 0 {
		t.Fatalf("expected pending input only, got pending=%v transcript=%v", m.pending, m.transcript)
	}
	if m.textInput.Prompt != replContinuePrompt {
		t.Fatalf("expected continuation prompt, got %q", m.textInput.Prompt)
	}

	m, _ = enterLine(t, m, "forward :n right 90]")
	m, _ = enterLine(t, m, "end")
	if len(m.pending) != 0 || m.textInput.Prompt != replPrompt {
		t.Fatalf("expected input to complete, pending=%v", m.pending)
	}
	entry := lastLine(t, m)
	if entry.isErr || !strings.Contains(entry.output, "defined square") {
		t.Fatalf("unexpected result: %#v", entry)
	}

	m, _ = enterLine(t, m, "square 20")
	if got := len(m.session.Image().Segments); got != 4 {
		t.Fatalf("expected 4 segments, got %d", got)
	}
}

func TestCancelDropsPendingInput(t *testing.T) {
	m, _ := enterLine(t, newREPLModel(), "repeat 3 [")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(replModel)
	if len(m.pending) != 0 || m.textInput.Prompt != replPrompt {
		t.Fatalf("expected pending input to be dropped, got %v", m.pending)
	}
}

func TestRecallInputWalksHistory(t *testing.T) {
	m := newREPLModel()
	m, _ = enterLine(t, m, "forward 1")
	m, _ = enterLine(t, m, "right 2")

	m = m.recallInput(-1)
	if m.textInput.Value() != "right 2" {
		t.Fatalf("expected latest input, got %q", m.textInput.Value())
	}
	m = m.recallInput(-1)
	if m.textInput.Value() != "forward 1" {
		t.Fatalf("expected earlier input, got %q", m.textInput.Value())
	}
	m = m.recallInput(1)
	m = m.recallInput(1)
	if m.textInput.Value() != "" || m.recall != -1 {
		t.Fatalf("expected to leave history, got %q (%d)", m.textInput.Value(), m.recall)
	}
}

func TestEvaluateDescribesTurtle(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate("forward 30 right 45")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "drew 1 segments, turtle at 0, -30 heading 135" {
		t.Fatalf("unexpected summary: %q", output)
	}
}

func TestEvaluateMakeStoresVariable(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate(`make "size 42`)
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	size, ok := m.session.Environment().Variable("size")
	if !ok || size != 42 {
		t.Fatalf("unexpected size variable: %v %v", size, ok)
	}
}

func TestEvaluateReportsErrors(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate("forward 10 squar")
	if !isErr {
		t.Fatalf("expected error, got %q", output)
	}
	if !strings.Contains(output, "undefined procedure squar") {
		t.Fatalf("unexpected error output: %q", output)
	}
	if !strings.Contains(output, "1 segments drawn before the error") {
		t.Fatalf("expected partial drawing note, got %q", output)
	}
}

func TestResetCommandClearsSession(t *testing.T) {
	m, _ := enterLine(t, newREPLModel(), "to a forward 1 end a")
	m, _ = enterLine(t, m, ":reset")

	if names := m.session.Environment().ProcedureNames(); len(names) != 0 {
		t.Fatalf("expected no procedures after reset, got %v", names)
	}
	if got := len(m.session.Image().Segments); got != 0 {
		t.Fatalf("expected empty canvas after reset, got %d segments", got)
	}
}

func TestSaveCommandWritesDrawing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.svg")
	m, _ := enterLine(t, newREPLModel(), "forward 50")
	m, _ = enterLine(t, m, ":save "+path)

	if entry := lastLine(t, m); entry.isErr {
		t.Fatalf("save failed: %s", entry.output)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read drawing: %v", err)
	}
	if !strings.Contains(string(data), `<line x1="500" y1="500" x2="500" y2="450" stroke="black" />`) {
		t.Fatalf("unexpected drawing: %s", data)
	}
}

func TestUnknownCommandIsReported(t *testing.T) {
	m, _ := enterLine(t, newREPLModel(), ":bogus")
	entry := lastLine(t, m)
	if !entry.isErr || !strings.Contains(entry.output, "unknown command :bogus") {
		t.Fatalf("unexpected transcript entry: %#v", entry)
	}
}

func TestAutocompleteSingleMatchCompletesInput(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue("repeat 4 [forw")

	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "repeat 4 [forward" {
		t.Fatalf("unexpected completion: %q", got)
	}
}

func TestAutocompleteIncludesProcedures(t *testing.T) {
	m := newREPLModel()
	if _, isErr := m.evaluate("to spiral :n forward :n end"); isErr {
		t.Fatalf("unexpected eval error")
	}

	candidates := m.completionCandidates("sp")
	if !slices.Equal(candidates, []string{"spiral"}) {
		t.Fatalf("unexpected candidates: %v", candidates)
	}
}

func TestAutocompleteFallsBackToFuzzyMatches(t *testing.T) {
	m := newREPLModel()

	candidates := m.completionCandidates("pnup")
	if len(candidates) == 0 || candidates[0] != "penup" {
		t.Fatalf("expected penup as closest candidate, got %v", candidates)
	}
}

func TestAutocompleteListsMultipleMatches(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue("set")

	m = m.handleAutocomplete()
	if m.textInput.Value() != "set" {
		t.Fatalf("input should be unchanged, got %q", m.textInput.Value())
	}
	entry := lastLine(t, m)
	if !strings.Contains(entry.output, "setheading") || !strings.Contains(entry.output, "setxy") {
		t.Fatalf("expected listed completions, got %q", entry.output)
	}
}

func TestRenderCanvasPlotsSegments(t *testing.T) {
	img := &logo.Image{
		Width:  logo.CanvasWidth,
		Height: logo.CanvasHeight,
		Segments: []logo.Segment{
			{X1: 0, Y1: 500, X2: 1000, Y2: 500},
		},
	}

	rows := renderCanvas(img, 11, 5)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[2] != strings.Repeat("•", 11) {
		t.Fatalf("expected a full middle row, got %q", rows[2])
	}
	for _, r := range []int{0, 1, 3, 4} {
		if strings.TrimSpace(rows[r]) != "" {
			t.Fatalf("expected row %d to be empty, got %q", r, rows[r])
		}
	}
}

func TestViewShowsPendingInput(t *testing.T) {
	m := newREPLModel()
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = model.(replModel)
	m, _ = enterLine(t, m, "repeat 2 [")

	if view := m.View(); !strings.Contains(view, "repeat 2 [") {
		t.Fatalf("expected pending line in view, got %q", view)
	}
}
