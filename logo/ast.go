package logo

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is the root of a parsed source text.
type Program struct {
	Statements []Statement
	source     string
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{Line: 1, Column: 1}
	}
	return p.Statements[0].Pos()
}

// Source returns the text the program was parsed from.
func (p *Program) Source() string { return p.source }

type ProcedureStmt struct {
	Name     string
	NamePos  Position
	Params   []string
	Body     []Statement
	position Position
}

func (s *ProcedureStmt) stmtNode()     {}
func (s *ProcedureStmt) Pos() Position { return s.position }

type MakeStmt struct {
	Name     string
	Value    Expression
	position Position
}

func (s *MakeStmt) stmtNode()     {}
func (s *MakeStmt) Pos() Position { return s.position }

// RepeatStmt runs Body Count times, or invokes Procedure Count times when
// the loop names a procedure instead of a bracketed block.
type RepeatStmt struct {
	Count     Expression
	Body      []Statement
	Procedure string
	position  Position
}

func (s *RepeatStmt) stmtNode()     {}
func (s *RepeatStmt) Pos() Position { return s.position }

type PenStmt struct {
	Down     bool
	position Position
}

func (s *PenStmt) stmtNode()     {}
func (s *PenStmt) Pos() Position { return s.position }

type MoveStmt struct {
	Forward  bool
	Distance Expression
	position Position
}

func (s *MoveStmt) stmtNode()     {}
func (s *MoveStmt) Pos() Position { return s.position }

type TurnStmt struct {
	Left     bool
	Angle    Expression
	position Position
}

func (s *TurnStmt) stmtNode()     {}
func (s *TurnStmt) Pos() Position { return s.position }

type HomeStmt struct {
	position Position
}

func (s *HomeStmt) stmtNode()     {}
func (s *HomeStmt) Pos() Position { return s.position }

type SetXYStmt struct {
	X        Expression
	Y        Expression
	position Position
}

func (s *SetXYStmt) stmtNode()     {}
func (s *SetXYStmt) Pos() Position { return s.position }

type SetHeadingStmt struct {
	Angle    Expression
	position Position
}

func (s *SetHeadingStmt) stmtNode()     {}
func (s *SetHeadingStmt) Pos() Position { return s.position }

type CallStmt struct {
	Call *CallExpr
}

func (s *CallStmt) stmtNode()     {}
func (s *CallStmt) Pos() Position { return s.Call.Pos() }

type IfStmt struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	Body     []Statement
	position Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type StopStmt struct {
	position Position
}

func (s *StopStmt) stmtNode()     {}
func (s *StopStmt) Pos() Position { return s.position }

type OutputStmt struct {
	Value    Expression
	position Position
}

func (s *OutputStmt) stmtNode()     {}
func (s *OutputStmt) Pos() Position { return s.position }

type NumberLiteral struct {
	Value    float64
	position Position
}

func (e *NumberLiteral) exprNode()     {}
func (e *NumberLiteral) Pos() Position { return e.position }

// ParamRef reads a procedure parameter (written :name).
type ParamRef struct {
	Name     string
	position Position
}

func (e *ParamRef) exprNode()     {}
func (e *ParamRef) Pos() Position { return e.position }

// VarRef reads a global variable (written "name).
type VarRef struct {
	Name     string
	position Position
}

func (e *VarRef) exprNode()     {}
func (e *VarRef) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator TokenType
	Right    Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type GroupedExpr struct {
	Inner    Expression
	position Position
}

func (e *GroupedExpr) exprNode()     {}
func (e *GroupedExpr) Pos() Position { return e.position }

type RandomExpr struct {
	Limit    Expression
	position Position
}

func (e *RandomExpr) exprNode()     {}
func (e *RandomExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

type CallExpr struct {
	Name     string
	Args     []Expression
	position Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }
