package mathc

type Name string

type Program struct {
	Filename   string
	Inputs     []Name
	Statements []Stmt
	Outputs    []Name
}

type Stmt interface {
	stmtNode()
	String() string
}

type VariableDecl struct {
	Name  Name
	Value Expr
}

type FuncDecl struct {
	Name   Name
	Params []Name
	Body   Expr
}

func (*VariableDecl) stmtNode() {}
func (*FuncDecl) stmtNode()     {}

// Expr is either an Operand or a *BinaryExpr.
type Expr interface {
	exprNode()
	String() string
}

// Operand is a leaf of an expression tree.
type Operand interface {
	Expr
	operandNode()
}

type IntLiteral struct {
	Value int64
}

type Group struct {
	Expr Expr
}

type VarRef struct {
	Name Name
}

type FuncCall struct {
	Name Name
	Args []Expr
}

type MatchClause struct {
	Value  int64
	Result Expr
}

type MatchExpr struct {
	Scrutinee Expr
	Clauses   []MatchClause
	Default   Expr
}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
)

// Precedence orders operators for parsing only. Multiplication binding
// tighter than division is intentional.
func (op BinaryOp) Precedence() int {
	switch op {
	case BinarySubtraction:
		return 0
	case BinaryAddition:
		return 1
	case BinaryDivision:
		return 2
	case BinaryMultiplication:
		return 3
	default:
		return -1
	}
}

type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

func (*IntLiteral) exprNode() {}
func (*Group) exprNode()      {}
func (*VarRef) exprNode()     {}
func (*FuncCall) exprNode()   {}
func (*MatchExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}

func (*IntLiteral) operandNode() {}
func (*Group) operandNode()      {}
func (*VarRef) operandNode()     {}
func (*FuncCall) operandNode()   {}
func (*MatchExpr) operandNode()  {}
