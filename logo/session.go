package logo

import "context"

// Session keeps variables, procedures, and the turtle alive across several
// programs, so definitions from one Exec are visible to the next. A Session
// is not safe for concurrent use.
type Session struct {
	engine *Engine
	env    *Environment
	turtle *Turtle
}

func (e *Engine) NewSession() *Session {
	return &Session{engine: e, env: NewEnvironment(), turtle: NewTurtle()}
}

// Exec compiles source and runs it against the session state. A compile
// failure leaves the session untouched; a runtime failure keeps whatever
// was drawn and defined before it.
func (s *Session) Exec(ctx context.Context, source string) error {
	program, err := s.engine.Compile(source)
	if err != nil {
		return err
	}
	return s.Run(ctx, program)
}

// Run executes an already compiled program against the session state.
func (s *Session) Run(ctx context.Context, program *Program) error {
	return s.engine.execute(ctx, program, s.env, s.turtle)
}

func (s *Session) Image() *Image {
	return newImage(s.turtle)
}

func (s *Session) Environment() *Environment {
	return s.env
}

func (s *Session) Turtle() *Turtle {
	return s.turtle
}

// Reset discards all definitions and clears the canvas.
func (s *Session) Reset() {
	s.env = NewEnvironment()
	s.turtle = NewTurtle()
}
