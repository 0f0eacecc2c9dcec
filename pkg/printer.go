package mathc

import (
	"strconv"
	"strings"
)

// The printed form of every node parses back into an equal node.

func (p *Program) String() string {
	var str strings.Builder
	str.WriteString("inputs")
	writeNames(&str, p.Inputs, " ")
	str.WriteString(";\n")

	for _, stmt := range p.Statements {
		str.WriteString(stmt.String())
		str.WriteString("\n")
	}

	str.WriteString("outputs")
	writeNames(&str, p.Outputs, " ")
	str.WriteString(";\n")

	return str.String()
}

func writeNames(str *strings.Builder, names []Name, lead string) {
	for i, name := range names {
		if i == 0 {
			str.WriteString(lead)
		} else {
			str.WriteString(", ")
		}

		str.WriteString(string(name))
	}
}

func (s *VariableDecl) String() string {
	return string(s.Name) + " = " + s.Value.String() + ";"
}

func (s *FuncDecl) String() string {
	var str strings.Builder
	str.WriteString(string(s.Name))
	str.WriteString("(")
	writeNames(&str, s.Params, "")
	str.WriteString(") = ")
	str.WriteString(s.Body.String())
	str.WriteString(";")

	return str.String()
}

func (e *IntLiteral) String() string {
	return strconv.FormatInt(e.Value, 10)
}

func (e *Group) String() string {
	return "(" + e.Expr.String() + ")"
}

func (e *VarRef) String() string {
	return string(e.Name)
}

func (e *FuncCall) String() string {
	var str strings.Builder
	str.WriteString(string(e.Name))
	str.WriteString("(")

	for i, arg := range e.Args {
		if i != 0 {
			str.WriteString(", ")
		}

		str.WriteString(arg.String())
	}
	str.WriteString(")")

	return str.String()
}

func (e *MatchExpr) String() string {
	var str strings.Builder
	str.WriteString("match ")
	str.WriteString(e.Scrutinee.String())
	str.WriteString(" { ")

	for _, clause := range e.Clauses {
		str.WriteString(strconv.FormatInt(clause.Value, 10))
		str.WriteString(" => ")
		str.WriteString(clause.Result.String())
		str.WriteString(", ")
	}

	str.WriteString("_ => ")
	str.WriteString(e.Default.String())
	str.WriteString(" }")

	return str.String()
}

// String prints the operation flat, without parentheses. Trees built by the
// parser keep explicit grouping as *Group operands, so the flat form
// re-parses into the same tree.
func (e *BinaryExpr) String() string {
	return e.Op1.String() + " " + string(e.Operation) + " " + e.Op2.String()
}
