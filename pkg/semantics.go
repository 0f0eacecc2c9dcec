package mathc

// SymbolTable is what the checker knows while walking one statement: the
// variables bound so far and the arity of every visible function.
type SymbolTable struct {
	Vars  map[Name]bool
	Funcs *Table[int]
}

func (t *SymbolTable) define(name Name) {
	t.Vars[name] = true
}

// Check finds every static error in program without running it. Names are
// resolved under the same rules the interpreter uses, but every match branch
// is checked, not only the taken one.
func Check(program *Program) error {
	var c checker
	return c.check(program)
}

type checker struct {
	errors ErrorList
}

func (c *checker) check(program *Program) error {
	global := &SymbolTable{Vars: make(map[Name]bool)}
	assigned := make(map[Name]bool)

	for _, input := range program.Inputs {
		global.define(input)
		assigned[input] = true
	}

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *VariableDecl:
			c.expr(global, s.Value)
			global.define(s.Name)
			assigned[s.Name] = true
		case *FuncDecl:
			local := &SymbolTable{
				Vars:  make(map[Name]bool, len(s.Params)),
				Funcs: global.Funcs,
			}
			for _, param := range s.Params {
				local.define(param)
			}

			c.expr(local, s.Body)
			global.Funcs = global.Funcs.Set(s.Name, len(s.Params))
		}
	}

	for _, output := range program.Outputs {
		if !assigned[output] {
			c.add(&UnassignedOutputError{Name: output})
		}
	}

	return c.errors.Err()
}

func (c *checker) expr(stab *SymbolTable, expr Expr) {
	switch e := expr.(type) {
	case *IntLiteral:
	case *Group:
		c.expr(stab, e.Expr)
	case *VarRef:
		if !stab.Vars[e.Name] {
			c.add(&UnknownVariableError{Name: e.Name})
		}
	case *FuncCall:
		arity, ok := stab.Funcs.Get(e.Name)
		if !ok {
			c.add(&UnknownFunctionError{Name: e.Name})
		} else if arity != len(e.Args) {
			c.add(&IncorrectArgumentCountError{
				Name:     e.Name,
				Expected: arity,
				Actual:   len(e.Args),
			})
		}

		for _, arg := range e.Args {
			c.expr(stab, arg)
		}
	case *MatchExpr:
		c.expr(stab, e.Scrutinee)
		for _, clause := range e.Clauses {
			c.expr(stab, clause.Result)
		}
		c.expr(stab, e.Default)
	case *BinaryExpr:
		c.expr(stab, e.Op1)
		c.expr(stab, e.Op2)
	}
}

// add records err once; the same unknown name is reported a single time.
func (c *checker) add(err error) {
	key := err.Error()
	for _, prev := range c.errors {
		if prev.Error() == key {
			return
		}
	}

	c.errors = append(c.errors, err)
}
