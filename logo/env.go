package logo

import (
	"maps"
	"slices"
)

// Procedure is a user-defined procedure recorded by a `to ... end` block.
type Procedure struct {
	Name   string
	Params []string
	Body   []Statement
	Pos    Position
}

// Arity returns the number of parameters the procedure declares.
func (p *Procedure) Arity() int {
	return len(p.Params)
}

type frame struct {
	parent    *frame
	procedure string
	params    map[string]float64
}

// Environment stores global variables, procedure definitions, and the
// parameter frames of procedure calls in progress. Variables and procedures
// live in separate tables; parameters are resolved innermost frame first.
type Environment struct {
	variables  map[string]float64
	procedures map[string]*Procedure
	frame      *frame
}

func NewEnvironment() *Environment {
	return &Environment{
		variables:  make(map[string]float64),
		procedures: make(map[string]*Procedure),
	}
}

func (e *Environment) Variable(name string) (float64, bool) {
	val, ok := e.variables[name]
	return val, ok
}

func (e *Environment) SetVariable(name string, val float64) {
	e.variables[name] = val
}

// Variables returns a copy of the global variable table.
func (e *Environment) Variables() map[string]float64 {
	return maps.Clone(e.variables)
}

// DefineProcedure records proc, replacing any earlier definition of the
// same name.
func (e *Environment) DefineProcedure(proc *Procedure) {
	e.procedures[proc.Name] = proc
}

func (e *Environment) Procedure(name string) (*Procedure, bool) {
	proc, ok := e.procedures[name]
	return proc, ok
}

// ProcedureNames returns the defined procedure names in sorted order.
func (e *Environment) ProcedureNames() []string {
	return slices.Sorted(maps.Keys(e.procedures))
}

// Param looks up a parameter binding, walking from the innermost call
// frame outwards.
func (e *Environment) Param(name string) (float64, bool) {
	for f := e.frame; f != nil; f = f.parent {
		if val, ok := f.params[name]; ok {
			return val, true
		}
	}
	return 0, false
}

func (e *Environment) enter(procedure string, params map[string]float64) {
	e.frame = &frame{parent: e.frame, procedure: procedure, params: params}
}

func (e *Environment) leave() {
	if e.frame != nil {
		e.frame = e.frame.parent
	}
}

// Depth reports how many call frames are active.
func (e *Environment) Depth() int {
	depth := 0
	for f := e.frame; f != nil; f = f.parent {
		depth++
	}
	return depth
}
