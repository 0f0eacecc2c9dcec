package mathc

// ShuntingYard folds a flat operand (operator operand)* sequence into a
// binary tree. Operators of equal precedence group to the left.
type ShuntingYard struct {
	operators []BinaryOp
	exprs     []Expr
}

func NewShuntingYard(first Operand) *ShuntingYard {
	return &ShuntingYard{
		exprs: []Expr{first},
	}
}

func (s *ShuntingYard) Push(op BinaryOp, operand Operand) {
	for len(s.operators) > 0 && s.operators[len(s.operators)-1].Precedence() >= op.Precedence() {
		s.reduce()
	}

	s.operators = append(s.operators, op)
	s.exprs = append(s.exprs, operand)
}

// Expr drains the operator stack and returns the finished tree.
func (s *ShuntingYard) Expr() Expr {
	for len(s.operators) > 0 {
		s.reduce()
	}

	if len(s.exprs) != 1 {
		panic("shunting yard: unbalanced expression stack")
	}

	return s.exprs[0]
}

func (s *ShuntingYard) reduce() {
	op := s.operators[len(s.operators)-1]
	s.operators = s.operators[:len(s.operators)-1]

	n := len(s.exprs)
	lhs, rhs := s.exprs[n-2], s.exprs[n-1]
	s.exprs = append(s.exprs[:n-2], &BinaryExpr{
		Operation: op,
		Op1:       lhs,
		Op2:       rhs,
	})
}
