package mathc

// Closure is a defined function together with the function table as it was
// when the definition ran. Calls made from Body resolve against Funcs only.
type Closure struct {
	Params []Name
	Body   Expr
	Funcs  *Table[*Closure]
}

// env is the state visible to one evaluation.
type env struct {
	vars  map[Name]int64
	funcs *Table[*Closure]
}

type Interpreter struct {
	Variables map[Name]int64
	Functions *Table[*Closure]
}

func NewInterpreter() *Interpreter {
	return &Interpreter{
		Variables: make(map[Name]int64),
	}
}

// Run interprets program with a fresh interpreter.
func Run(program *Program, inputs []int64) ([]int64, error) {
	return NewInterpreter().Run(program, inputs)
}

// Run starts from empty state, discarding bindings left by earlier calls.
func (i *Interpreter) Run(program *Program, inputs []int64) ([]int64, error) {
	i.Variables = make(map[Name]int64, len(program.Inputs))
	i.Functions = nil

	if len(program.Inputs) != len(inputs) {
		return nil, &IncorrectInputCountError{
			Expected: len(program.Inputs),
			Actual:   len(inputs),
		}
	}

	for n, name := range program.Inputs {
		i.Variables[name] = inputs[n]
	}

	for _, stmt := range program.Statements {
		if err := i.Statement(stmt); err != nil {
			return nil, err
		}
	}

	outputs := make([]int64, 0, len(program.Outputs))
	for _, name := range program.Outputs {
		v, ok := i.Variables[name]
		if !ok {
			return nil, &UnknownVariableError{Name: name}
		}

		outputs = append(outputs, v)
	}

	return outputs, nil
}

// Statement executes a single statement against the interpreter state.
func (i *Interpreter) Statement(stmt Stmt) error {
	switch s := stmt.(type) {
	case *VariableDecl:
		v, err := i.expression(s.Value, &env{vars: i.Variables, funcs: i.Functions})
		if err != nil {
			return err
		}

		i.Variables[s.Name] = v
	case *FuncDecl:
		i.Functions = i.Functions.Set(s.Name, &Closure{
			Params: s.Params,
			Body:   s.Body,
			Funcs:  i.Functions,
		})
	default:
		panic("unexpected statement")
	}

	return nil
}

func (i *Interpreter) expression(expr Expr, e *env) (int64, error) {
	switch ex := expr.(type) {
	case *IntLiteral:
		return ex.Value, nil
	case *Group:
		return i.expression(ex.Expr, e)
	case *VarRef:
		v, ok := e.vars[ex.Name]
		if !ok {
			return 0, &UnknownVariableError{Name: ex.Name}
		}

		return v, nil
	case *FuncCall:
		return i.call(ex, e)
	case *MatchExpr:
		return i.match(ex, e)
	case *BinaryExpr:
		v1, err := i.expression(ex.Op1, e)
		if err != nil {
			return 0, err
		}

		v2, err := i.expression(ex.Op2, e)
		if err != nil {
			return 0, err
		}

		return applyOp(ex.Operation, v1, v2), nil
	default:
		panic("unexpected expression")
	}
}

func (i *Interpreter) call(expr *FuncCall, caller *env) (int64, error) {
	fn, ok := caller.funcs.Get(expr.Name)
	if !ok {
		return 0, &UnknownFunctionError{Name: expr.Name}
	}

	if len(fn.Params) != len(expr.Args) {
		return 0, &IncorrectArgumentCountError{
			Name:     expr.Name,
			Expected: len(fn.Params),
			Actual:   len(expr.Args),
		}
	}

	callee := &env{
		vars:  make(map[Name]int64, len(fn.Params)),
		funcs: fn.Funcs,
	}

	for n, arg := range expr.Args {
		v, err := i.expression(arg, caller)
		if err != nil {
			return 0, err
		}

		callee.vars[fn.Params[n]] = v
	}

	return i.expression(fn.Body, callee)
}

func (i *Interpreter) match(expr *MatchExpr, e *env) (int64, error) {
	v, err := i.expression(expr.Scrutinee, e)
	if err != nil {
		return 0, err
	}

	for _, clause := range expr.Clauses {
		if clause.Value == v {
			return i.expression(clause.Result, e)
		}
	}

	return i.expression(expr.Default, e)
}
