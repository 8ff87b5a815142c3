package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mgomes/logo/logo"
)

const topLevel = "<program>"

type lintWarning struct {
	Procedure string
	Pos       logo.Position
	Message   string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("logo analyze: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	program, err := logo.Parse(string(input))
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeProgramWarnings(program)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := warning.Pos.Line
		column := warning.Pos.Column
		if line <= 0 {
			line = 1
		}
		if column <= 0 {
			column = 1
		}
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Procedure)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

type linter struct {
	procedures map[string]*logo.ProcedureStmt
	warnings   []lintWarning
}

func analyzeProgramWarnings(program *logo.Program) []lintWarning {
	l := &linter{procedures: make(map[string]*logo.ProcedureStmt)}
	l.collectProcedures(program.Statements)
	l.lintStatements(topLevel, program.Statements)

	sort.SliceStable(l.warnings, func(i, j int) bool {
		a, b := l.warnings[i], l.warnings[j]
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.Procedure < b.Procedure
	})

	return l.warnings
}

func (l *linter) warn(procedure string, pos logo.Position, format string, args ...any) {
	l.warnings = append(l.warnings, lintWarning{Procedure: procedure, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// collectProcedures records every definition, including ones nested in
// blocks or bodies, since any of them may be live by the time a call runs.
func (l *linter) collectProcedures(statements []logo.Statement) {
	for _, stmt := range statements {
		switch typed := stmt.(type) {
		case *logo.ProcedureStmt:
			if first, ok := l.procedures[typed.Name]; ok {
				l.warn(typed.Name, typed.Pos(), "procedure %s redefined (first defined at %d:%d)",
					typed.Name, first.Pos().Line, first.Pos().Column)
			} else {
				l.procedures[typed.Name] = typed
			}
			l.collectProcedures(typed.Body)
		case *logo.RepeatStmt:
			l.collectProcedures(typed.Body)
		case *logo.IfStmt:
			l.collectProcedures(typed.Body)
		}
	}
}

func (l *linter) lintStatements(procedure string, statements []logo.Statement) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			l.warn(procedure, stmt.Pos(), "unreachable statement")
			continue
		}
		if l.statementTerminates(procedure, stmt) {
			terminated = true
		}
	}
	return terminated
}

func (l *linter) statementTerminates(procedure string, stmt logo.Statement) bool {
	switch typed := stmt.(type) {
	case *logo.StopStmt:
		return true
	case *logo.OutputStmt:
		if procedure == topLevel {
			l.warn(procedure, typed.Pos(), "output outside a procedure")
		}
		l.lintExpression(procedure, typed.Value)
		return true
	case *logo.ProcedureStmt:
		l.lintStatements(typed.Name, typed.Body)
	case *logo.RepeatStmt:
		l.lintExpression(procedure, typed.Count)
		if typed.Procedure != "" {
			l.checkRepeatTarget(procedure, typed)
		}
		l.lintStatements(procedure, typed.Body)
	case *logo.IfStmt:
		l.lintExpression(procedure, typed.Left)
		l.lintExpression(procedure, typed.Right)
		l.lintStatements(procedure, typed.Body)
	case *logo.CallStmt:
		l.lintExpression(procedure, typed.Call)
	case *logo.MakeStmt:
		l.lintExpression(procedure, typed.Value)
	case *logo.MoveStmt:
		l.lintExpression(procedure, typed.Distance)
	case *logo.TurnStmt:
		l.lintExpression(procedure, typed.Angle)
	case *logo.SetXYStmt:
		l.lintExpression(procedure, typed.X)
		l.lintExpression(procedure, typed.Y)
	case *logo.SetHeadingStmt:
		l.lintExpression(procedure, typed.Angle)
	}
	return false
}

func (l *linter) checkRepeatTarget(procedure string, stmt *logo.RepeatStmt) {
	def, ok := l.procedures[stmt.Procedure]
	if !ok {
		l.warn(procedure, stmt.Pos(), "call to undefined procedure %s", stmt.Procedure)
		return
	}
	if len(def.Params) != 0 {
		l.warn(procedure, stmt.Pos(), "repeat cannot call %s: it takes %d inputs", def.Name, len(def.Params))
	}
}

func (l *linter) lintExpression(procedure string, expr logo.Expression) {
	switch typed := expr.(type) {
	case *logo.CallExpr:
		def, ok := l.procedures[typed.Name]
		switch {
		case !ok:
			l.warn(procedure, typed.Pos(), "call to undefined procedure %s", typed.Name)
		case len(def.Params) != len(typed.Args):
			l.warn(procedure, typed.Pos(), "%s expects %d inputs, got %d", typed.Name, len(def.Params), len(typed.Args))
		}
		for _, arg := range typed.Args {
			l.lintExpression(procedure, arg)
		}
	case *logo.BinaryExpr:
		l.lintExpression(procedure, typed.Left)
		l.lintExpression(procedure, typed.Right)
	case *logo.UnaryExpr:
		l.lintExpression(procedure, typed.Right)
	case *logo.GroupedExpr:
		l.lintExpression(procedure, typed.Inner)
	case *logo.RandomExpr:
		l.lintExpression(procedure, typed.Limit)
	}
}
