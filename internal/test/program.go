package test

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

var operators = []string{"+", "-", "*", "/"}

type genFunc struct {
	name  string
	arity int
}

type programGen struct {
	r     *rand.Rand
	funcs []genFunc
}

// visible returns the latest definition of every function name seen so far.
func (g *programGen) visible() []genFunc {
	var out []genFunc
	seen := make(map[string]bool)
	for i := len(g.funcs) - 1; i >= 0; i-- {
		if !seen[g.funcs[i].name] {
			seen[g.funcs[i].name] = true
			out = append(out, g.funcs[i])
		}
	}

	return out
}

// GetRandomProgram generates a well formed program with size statements.
// Every name it uses is defined, every call has the right arity and every
// output is assigned, so the program passes static checking. Functions are
// redefined now and then to exercise definition-time capture.
func GetRandomProgram(r *rand.Rand, size int) string {
	g := &programGen{r: r}

	var vars []string
	for i := r.Intn(4); i > 0; i-- {
		vars = append(vars, fmt.Sprintf("in%d", len(vars)))
	}

	var str strings.Builder
	str.WriteString("inputs")
	for i, v := range vars {
		if i == 0 {
			str.WriteString(" ")
		} else {
			str.WriteString(", ")
		}
		str.WriteString(v)
	}
	str.WriteString(";\n")

	for i := 0; i < size; i++ {
		if r.Intn(3) == 0 {
			fn := genFunc{name: fmt.Sprintf("f%d", r.Intn(3)), arity: r.Intn(3)}

			params := make([]string, fn.arity)
			for n := range params {
				params[n] = fmt.Sprintf("p%d", n)
			}

			body := g.expr(1, params, g.visible())
			fmt.Fprintf(&str, "%s(%s) = %s;\n", fn.name, strings.Join(params, ", "), body)

			g.funcs = append(g.funcs, fn)
			continue
		}

		name := fmt.Sprintf("v%d", r.Intn(size))
		fmt.Fprintf(&str, "%s = %s;\n", name, g.expr(2, vars, g.visible()))

		if !contains(vars, name) {
			vars = append(vars, name)
		}
	}

	if len(vars) == 0 {
		fmt.Fprintf(&str, "v0 = %s;\n", g.literal())
		vars = append(vars, "v0")
	}

	outputs := make([]string, r.Intn(3)+1)
	for i := range outputs {
		outputs[i] = vars[r.Intn(len(vars))]
	}
	fmt.Fprintf(&str, "outputs %s;\n", strings.Join(outputs, ", "))

	return str.String()
}

// GetRandomExpression generates an expression over vars. It contains no
// function calls.
func GetRandomExpression(r *rand.Rand, depth int, vars []string) string {
	g := &programGen{r: r}
	return g.expr(depth, vars, nil)
}

func (g *programGen) expr(depth int, vars []string, funcs []genFunc) string {
	var str strings.Builder
	str.WriteString(g.operand(depth, vars, funcs))

	for i := g.r.Intn(3); i > 0; i-- {
		str.WriteString(" ")
		str.WriteString(operators[g.r.Intn(len(operators))])
		str.WriteString(" ")
		str.WriteString(g.operand(depth, vars, funcs))
	}

	return str.String()
}

func (g *programGen) operand(depth int, vars []string, funcs []genFunc) string {
	choice := g.r.Intn(6)
	if depth <= 0 {
		choice = g.r.Intn(2)
	}

	switch {
	case choice == 1 && len(vars) > 0:
		return vars[g.r.Intn(len(vars))]
	case choice == 2:
		return "(" + g.expr(depth-1, vars, funcs) + ")"
	case choice == 3 && len(funcs) > 0:
		fn := funcs[g.r.Intn(len(funcs))]

		args := make([]string, fn.arity)
		for i := range args {
			args[i] = g.expr(depth-1, vars, funcs)
		}

		return fn.name + "(" + strings.Join(args, ", ") + ")"
	case choice == 4:
		var str strings.Builder
		str.WriteString("match ")
		str.WriteString(g.expr(depth-1, vars, funcs))
		str.WriteString(" { ")

		for i := g.r.Intn(3); i > 0; i-- {
			fmt.Fprintf(&str, "%d => %s, ", g.r.Intn(5)-2, g.expr(depth-1, vars, funcs))
		}

		str.WriteString("_ => ")
		str.WriteString(g.expr(depth-1, vars, funcs))
		str.WriteString(" }")

		return str.String()
	default:
		return g.literal()
	}
}

func (g *programGen) literal() string {
	switch g.r.Intn(20) {
	case 0:
		return strconv.FormatInt(math.MaxInt64, 10)
	case 1:
		return strconv.FormatInt(math.MinInt64, 10)
	case 2:
		return "0"
	default:
		return strconv.FormatInt(g.r.Int63n(2001)-1000, 10)
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}
