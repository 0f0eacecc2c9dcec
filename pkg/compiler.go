package mathc

import (
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mathc.compiler")

type Compiler struct {
	newBackend func() Backend
}

// NewCompiler returns a compiler that builds every translation unit with a
// fresh backend from newBackend.
func NewCompiler(newBackend func() Backend) *Compiler {
	return &Compiler{newBackend: newBackend}
}

func (c *Compiler) Compile(filename string) (TranslationUnit, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	program, err := ParseNamed(filename, source)
	if err != nil {
		return nil, err
	}

	return c.CompileProgram(program)
}

func (c *Compiler) CompileFromReader(reader io.Reader) (TranslationUnit, error) {
	source, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	program, err := Parse(source)
	if err != nil {
		return nil, err
	}

	return c.CompileProgram(program)
}

func (c *Compiler) CompileProgram(program *Program) (TranslationUnit, error) {
	return Compile(program, c.newBackend())
}

// Compile checks program and lowers it onto backend: every function
// definition in order, then the entry routine.
func Compile(program *Program, backend Backend) (TranslationUnit, error) {
	if err := Check(program); err != nil {
		return nil, err
	}

	g := &generator{b: backend}
	if err := g.program(program); err != nil {
		return nil, err
	}

	return backend.Finish()
}

type compiledFunc struct {
	fn    Function
	arity int
}

// scope resolves names while emitting one expression. Function bodies read
// params, the entry routine reads cells.
type scope struct {
	params map[Name]Value
	cells  map[Name]Cell
	funcs  *Table[compiledFunc]
}

type assignment struct {
	name  Name
	value Expr
	funcs *Table[compiledFunc]
}

type generator struct {
	b Backend
}

func (g *generator) program(program *Program) error {
	var funcs *Table[compiledFunc]
	var assigns []assignment

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *FuncDecl:
			fn, err := g.function(s, funcs)
			if err != nil {
				return err
			}

			funcs = funcs.Set(s.Name, compiledFunc{fn: fn, arity: len(s.Params)})
		case *VariableDecl:
			assigns = append(assigns, assignment{name: s.Name, value: s.Value, funcs: funcs})
		}
	}

	log.Debugf("emitting entry routine: %d inputs, %d assignments, %d outputs",
		len(program.Inputs), len(assigns), len(program.Outputs))

	g.b.BeginEntry(len(program.Inputs))

	cells := make(map[Name]Cell)
	for i, input := range program.Inputs {
		cell := g.b.Alloc(input)
		g.b.ReadInput(i, cell)
		cells[input] = cell
	}

	for _, a := range assigns {
		if _, ok := cells[a.name]; !ok {
			cells[a.name] = g.b.Alloc(a.name)
		}
	}

	for _, a := range assigns {
		v, err := g.expr(a.value, &scope{cells: cells, funcs: a.funcs})
		if err != nil {
			return err
		}

		g.b.Store(cells[a.name], v)
	}

	for _, output := range program.Outputs {
		cell, ok := cells[output]
		if !ok {
			return &UnassignedOutputError{Name: output}
		}

		g.b.WriteOutput(g.b.Load(cell))
	}

	g.b.EndEntry()

	return nil
}

func (g *generator) function(decl *FuncDecl, funcs *Table[compiledFunc]) (Function, error) {
	log.Debugf("emitting function %s/%d", decl.Name, len(decl.Params))

	return g.b.DefineFunc(decl.Name, decl.Params, func(params []Value) (Value, error) {
		s := &scope{
			params: make(map[Name]Value, len(params)),
			funcs:  funcs,
		}
		for i, name := range decl.Params {
			s.params[name] = params[i]
		}

		return g.expr(decl.Body, s)
	})
}

func (g *generator) expr(expr Expr, s *scope) (Value, error) {
	switch e := expr.(type) {
	case *IntLiteral:
		return g.b.Int(e.Value), nil
	case *Group:
		return g.expr(e.Expr, s)
	case *VarRef:
		return g.variable(e.Name, s)
	case *FuncCall:
		return g.call(e, s)
	case *MatchExpr:
		return g.match(e, s)
	case *BinaryExpr:
		return g.binary(e, s)
	default:
		return nil, fmt.Errorf("unexpected expression %T", expr)
	}
}

func (g *generator) variable(name Name, s *scope) (Value, error) {
	if s.params != nil {
		if v, ok := s.params[name]; ok {
			return v, nil
		}

		return nil, &UnknownVariableError{Name: name}
	}

	cell, ok := s.cells[name]
	if !ok {
		return nil, &UnknownVariableError{Name: name}
	}

	return g.b.Load(cell), nil
}

func (g *generator) call(expr *FuncCall, s *scope) (Value, error) {
	fn, ok := s.funcs.Get(expr.Name)
	if !ok {
		return nil, &UnknownFunctionError{Name: expr.Name}
	}

	if fn.arity != len(expr.Args) {
		return nil, &IncorrectArgumentCountError{
			Name:     expr.Name,
			Expected: fn.arity,
			Actual:   len(expr.Args),
		}
	}

	args := make([]Value, 0, len(expr.Args))
	for _, arg := range expr.Args {
		v, err := g.expr(arg, s)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	return g.b.Call(fn.fn, args), nil
}

func (g *generator) match(expr *MatchExpr, s *scope) (Value, error) {
	scrutinee, err := g.expr(expr.Scrutinee, s)
	if err != nil {
		return nil, err
	}

	cases := make([]Case, 0, len(expr.Clauses))
	for _, clause := range expr.Clauses {
		result := clause.Result
		cases = append(cases, Case{
			Value: clause.Value,
			Emit: func() (Value, error) {
				return g.expr(result, s)
			},
		})
	}

	return g.b.Match(scrutinee, cases, func() (Value, error) {
		return g.expr(expr.Default, s)
	})
}

func (g *generator) binary(expr *BinaryExpr, s *scope) (Value, error) {
	v1, err := g.expr(expr.Op1, s)
	if err != nil {
		return nil, err
	}

	v2, err := g.expr(expr.Op2, s)
	if err != nil {
		return nil, err
	}

	switch expr.Operation {
	case BinaryAddition:
		return g.b.SatAdd(v1, v2), nil
	case BinarySubtraction:
		return g.b.SatSub(v1, v2), nil
	case BinaryMultiplication:
		return g.b.SatMul(v1, v2), nil
	case BinaryDivision:
		return g.b.SatDiv(v1, v2), nil
	default:
		return nil, fmt.Errorf("unexpected binary op: %s", expr.Operation)
	}
}
