package logo

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Runtime error types reported in RuntimeError.Type.
const (
	ErrorTypeRuntime            = "RuntimeError"
	ErrorTypeUndefinedReference = "UndefinedReferenceError"
	ErrorTypeArityMismatch      = "ArityMismatchError"
	ErrorTypeQuota              = "QuotaError"

	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

var (
	// ErrStepQuotaExceeded is wrapped by errors from executions that ran
	// more statements and expressions than Config.StepQuota allows.
	ErrStepQuotaExceeded = errors.New("step quota exceeded")
)

// LexError reports input that no token pattern accepts.
type LexError struct {
	Pos    Position
	Text   string
	source string
}

func (e *LexError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lex error at %d:%d: unexpected input %q", e.Pos.Line, e.Pos.Column, e.Text)
	if frame := formatCodeFrame(e.source, e.Pos, utf8.RuneCountInString(e.Text)); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// ParseError reports an unexpected or missing token.
type ParseError struct {
	Pos     Position
	Message string
	Token   Token
	source  string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	if frame := formatCodeFrame(e.source, e.Pos, utf8.RuneCountInString(e.Token.Literal)); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// CompileError carries every lex or parse error found in a program. No
// statement of a program that fails to compile is ever executed.
type CompileError struct {
	Errors []error
}

func (e *CompileError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n\n")
}

func (e *CompileError) Unwrap() []error {
	return e.Errors
}

type StackFrame struct {
	Procedure string
	Pos       Position
}

type RuntimeError struct {
	Type      string
	Message   string
	CodeFrame string
	Frames    []StackFrame
	err       error
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Procedure, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Procedure)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}

	return b.String()
}

// Unwrap exposes sentinel causes such as ErrStepQuotaExceeded.
func (re *RuntimeError) Unwrap() error {
	return re.err
}
