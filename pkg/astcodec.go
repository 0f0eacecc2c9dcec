package mathc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// The AST cache stores parsed programs as canonical CBOR. Expressions are
// flattened into wireExpr nodes since CBOR cannot carry Go interface types.

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("mathc: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

const wireVersion = 1

type wireKind uint8

const (
	wireInt wireKind = iota
	wireGroup
	wireVar
	wireCall
	wireMatch
	wireBinary
)

// wireExpr is one expression node. Kids holds, per kind: the grouped
// expression; call arguments; for a match the scrutinee, the default, then
// one result per entry of Cases; for a binary op both operands.
type wireExpr struct {
	Kind  wireKind   `cbor:"k"`
	Int   int64      `cbor:"i,omitempty"`
	Name  string     `cbor:"n,omitempty"`
	Op    string     `cbor:"o,omitempty"`
	Kids  []wireExpr `cbor:"x,omitempty"`
	Cases []int64    `cbor:"c,omitempty"`
}

type wireStmt struct {
	Name   string   `cbor:"n"`
	Func   bool     `cbor:"f,omitempty"`
	Params []string `cbor:"p,omitempty"`
	Expr   wireExpr `cbor:"e"`
}

type wireProgram struct {
	Version    int        `cbor:"v"`
	Filename   string     `cbor:"file,omitempty"`
	Inputs     []string   `cbor:"in,omitempty"`
	Statements []wireStmt `cbor:"s,omitempty"`
	Outputs    []string   `cbor:"out,omitempty"`
}

func MarshalProgram(p *Program) ([]byte, error) {
	w := wireProgram{
		Version:  wireVersion,
		Filename: p.Filename,
		Inputs:   namesToWire(p.Inputs),
		Outputs:  namesToWire(p.Outputs),
	}

	for _, stmt := range p.Statements {
		switch s := stmt.(type) {
		case *VariableDecl:
			w.Statements = append(w.Statements, wireStmt{Name: string(s.Name), Expr: exprToWire(s.Value)})
		case *FuncDecl:
			w.Statements = append(w.Statements, wireStmt{
				Name:   string(s.Name),
				Func:   true,
				Params: namesToWire(s.Params),
				Expr:   exprToWire(s.Body),
			})
		}
	}

	return cborEncMode.Marshal(&w)
}

func UnmarshalProgram(data []byte) (*Program, error) {
	var w wireProgram
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("mathc: unmarshal program: %w", err)
	}

	if w.Version != wireVersion {
		return nil, fmt.Errorf("mathc: unsupported AST cache version %d", w.Version)
	}

	inputs, err := namesFromWire(w.Inputs)
	if err != nil {
		return nil, err
	}

	outputs, err := namesFromWire(w.Outputs)
	if err != nil {
		return nil, err
	}

	p := &Program{
		Filename: w.Filename,
		Inputs:   inputs,
		Outputs:  outputs,
	}

	for _, s := range w.Statements {
		name, err := nameFromWire(s.Name)
		if err != nil {
			return nil, err
		}

		expr, err := exprFromWire(s.Expr)
		if err != nil {
			return nil, err
		}

		if !s.Func {
			p.Statements = append(p.Statements, &VariableDecl{Name: name, Value: expr})
			continue
		}

		params, err := namesFromWire(s.Params)
		if err != nil {
			return nil, err
		}

		p.Statements = append(p.Statements, &FuncDecl{Name: name, Params: params, Body: expr})
	}

	if err := validateInputs(p); err != nil {
		return nil, err
	}

	return p, nil
}

func namesToWire(names []Name) []string {
	if names == nil {
		return nil
	}

	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}

	return out
}

func nameFromWire(name string) (Name, error) {
	if !isName(name) {
		return "", fmt.Errorf("mathc: invalid name %q in AST cache", name)
	}

	return Name(name), nil
}

func namesFromWire(names []string) ([]Name, error) {
	if len(names) == 0 {
		return nil, nil
	}

	out := make([]Name, len(names))
	for i, n := range names {
		name, err := nameFromWire(n)
		if err != nil {
			return nil, err
		}

		out[i] = name
	}

	return out, nil
}

func exprToWire(expr Expr) wireExpr {
	switch e := expr.(type) {
	case *IntLiteral:
		return wireExpr{Kind: wireInt, Int: e.Value}
	case *Group:
		return wireExpr{Kind: wireGroup, Kids: []wireExpr{exprToWire(e.Expr)}}
	case *VarRef:
		return wireExpr{Kind: wireVar, Name: string(e.Name)}
	case *FuncCall:
		w := wireExpr{Kind: wireCall, Name: string(e.Name)}
		for _, arg := range e.Args {
			w.Kids = append(w.Kids, exprToWire(arg))
		}

		return w
	case *MatchExpr:
		w := wireExpr{Kind: wireMatch, Kids: []wireExpr{exprToWire(e.Scrutinee), exprToWire(e.Default)}}
		for _, clause := range e.Clauses {
			w.Cases = append(w.Cases, clause.Value)
			w.Kids = append(w.Kids, exprToWire(clause.Result))
		}

		return w
	case *BinaryExpr:
		return wireExpr{Kind: wireBinary, Op: string(e.Operation), Kids: []wireExpr{exprToWire(e.Op1), exprToWire(e.Op2)}}
	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

func exprFromWire(w wireExpr) (Expr, error) {
	kids := make([]Expr, len(w.Kids))
	for i, kid := range w.Kids {
		expr, err := exprFromWire(kid)
		if err != nil {
			return nil, err
		}

		kids[i] = expr
	}

	bad := func() (Expr, error) {
		return nil, fmt.Errorf("mathc: malformed AST node of kind %d", w.Kind)
	}

	switch w.Kind {
	case wireInt:
		return &IntLiteral{Value: w.Int}, nil
	case wireGroup:
		if len(kids) != 1 {
			return bad()
		}

		return &Group{Expr: kids[0]}, nil
	case wireVar:
		name, err := nameFromWire(w.Name)
		if err != nil {
			return nil, err
		}

		return &VarRef{Name: name}, nil
	case wireCall:
		name, err := nameFromWire(w.Name)
		if err != nil {
			return nil, err
		}

		call := &FuncCall{Name: name}
		if len(kids) > 0 {
			call.Args = kids
		}

		return call, nil
	case wireMatch:
		if len(kids) != len(w.Cases)+2 {
			return bad()
		}

		m := &MatchExpr{Scrutinee: kids[0], Default: kids[1]}
		for i, value := range w.Cases {
			m.Clauses = append(m.Clauses, MatchClause{Value: value, Result: kids[i+2]})
		}

		return m, nil
	case wireBinary:
		op := BinaryOp(w.Op)
		if len(kids) != 2 || op.Precedence() < 0 {
			return bad()
		}

		return &BinaryExpr{Operation: op, Op1: kids[0], Op2: kids[1]}, nil
	default:
		return bad()
	}
}
