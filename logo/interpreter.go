package logo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
)

// Config controls execution bounds, randomness, and logging.
type Config struct {
	// StepQuota caps the statements and expressions one run may evaluate.
	// Zero leaves runs unbounded.
	StepQuota int
	// RecursionLimit caps the depth of nested procedure calls. Zero leaves
	// depth bounded only by the goroutine stack.
	RecursionLimit int
	// Rand is the source for `random`. Supply a seeded generator for
	// reproducible drawings.
	Rand *rand.Rand
	// Logger receives debug traces of procedure calls and runs.
	Logger *slog.Logger
}

// Engine compiles and runs Logo programs with fixed limits.
type Engine struct {
	config   Config
	log      *slog.Logger
	randomMu sync.Mutex
}

// NewEngine constructs an Engine. Zero limits mean unlimited; a nil Rand or
// Logger is replaced with a randomly seeded generator or a discard logger.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("logo: step quota must not be negative (got %d)", cfg.StepQuota)
	}
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("logo: recursion limit must not be negative (got %d)", cfg.RecursionLimit)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{config: cfg, log: cfg.Logger}, nil
}

// MustNewEngine constructs an Engine or panics if the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

func (e *Engine) randomFloat() float64 {
	e.randomMu.Lock()
	defer e.randomMu.Unlock()
	return e.config.Rand.Float64()
}

// Compile parses source without running it. Failures are reported as a
// *CompileError.
func (e *Engine) Compile(source string) (*Program, error) {
	program, err := Parse(source)
	if err != nil {
		var compileErr *CompileError
		if errors.As(err, &compileErr) {
			e.log.Debug("compile failed", slog.Int("errors", len(compileErr.Errors)))
		}
		return nil, err
	}
	e.log.Debug("compiled program", slog.Int("statements", len(program.Statements)))
	return program, nil
}

// Run compiles and executes source on a fresh turtle and returns the
// drawing. Nothing is executed when compilation fails.
func (e *Engine) Run(ctx context.Context, source string) (*Image, error) {
	session := e.NewSession()
	if err := session.Exec(ctx, source); err != nil {
		return nil, err
	}
	return session.Image(), nil
}

func (e *Engine) execute(ctx context.Context, program *Program, env *Environment, turtle *Turtle) error {
	exec := &Execution{
		engine:       e,
		ctx:          ctx,
		env:          env,
		turtle:       turtle,
		source:       program.Source(),
		quota:        e.config.StepQuota,
		recursionCap: e.config.RecursionLimit,
		log:          e.log,
	}

	sig, err := exec.evalStatements(program.Statements)
	if err != nil {
		e.log.Debug("run failed", slog.Int("steps", exec.steps), slog.Any("error", err))
		return err
	}
	e.log.Debug("run finished",
		slog.Int("steps", exec.steps),
		slog.Int("segments", len(turtle.segments)),
		slog.Bool("signalled", sig.Kind != SignalNone))
	return nil
}

// ParseAndRun runs source with a default engine.
func ParseAndRun(source string) (*Image, error) {
	return MustNewEngine(Config{}).Run(context.Background(), source)
}
