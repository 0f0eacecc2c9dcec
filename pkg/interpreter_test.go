package mathc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpreter(t *testing.T) {
	cases := []struct {
		name   string
		source string
		inputs []int64
		expect []int64
	}{
		{
			"precedence",
			"inputs;\nx = 1 + 89 / 9;\noutputs x;",
			nil,
			[]int64{10},
		},
		{
			"inputs",
			"inputs a, b;\nc = a * b;\noutputs c, a;",
			[]int64{6, 7},
			[]int64{42, 6},
		},
		{
			"functions capture definitions",
			"inputs;\nf() = 4;\ng() = f() + 5;\nf() = 100;\nx = g();\noutputs x;",
			nil,
			[]int64{9},
		},
		{
			"latest definition wins at top level",
			"inputs;\nf() = 4;\nf() = 100;\nx = f();\noutputs x;",
			nil,
			[]int64{100},
		},
		{
			"redefinition after capture",
			"inputs;\nf(a, b) = a * b;\ng(x) = f(x, x);\nf(a, b) = a + b;\nn = g(3);\noutputs n;",
			nil,
			[]int64{9},
		},
		{
			"param shadows an input",
			"inputs a;\nf(a) = a;\nj = f(2);\noutputs j;",
			[]int64{5},
			[]int64{2},
		},
		{
			"params shadow globals",
			"inputs;\nx = 1;\nf(x) = x * 2;\ny = f(x);\noutputs y;",
			nil,
			[]int64{2},
		},
		{
			"arguments see the caller",
			"inputs a;\ninc(n) = n + 1;\ntwice(n) = inc(inc(n));\nb = twice(a * 10);\noutputs b;",
			[]int64{4},
			[]int64{42},
		},
		{
			"duplicate params take the last argument",
			"inputs;\nf(a, a) = a;\nx = f(1, 2);\noutputs x;",
			nil,
			[]int64{2},
		},
		{
			"reassignment",
			"inputs a;\na = a + 1;\na = a * 2;\noutputs a;",
			[]int64{3},
			[]int64{8},
		},
		{
			"addition saturates",
			"inputs;\nx = 9223372036854775807 + 1;\noutputs x;",
			nil,
			[]int64{math.MaxInt64},
		},
		{
			"division by zero",
			"inputs a, b;\nx = a / 0;\ny = b / 0;\noutputs x, y;",
			[]int64{5, -5},
			[]int64{math.MaxInt64, math.MinInt64},
		},
		{
			"negative literals",
			"inputs;\nx = -3 - -4 * 2;\noutputs x;",
			nil,
			[]int64{5},
		},
		{
			"match",
			"inputs a;\nx = match a { 1 => 10, 2 => 20, _ => 0 };\noutputs x;",
			[]int64{2},
			[]int64{20},
		},
		{
			"match default",
			"inputs a;\nx = match a { 1 => 10, _ => a * 100 };\noutputs x;",
			[]int64{3},
			[]int64{300},
		},
		{
			"match first clause wins",
			"inputs;\nx = match 1 { 1 => 10, 1 => 20, _ => 0 };\noutputs x;",
			nil,
			[]int64{10},
		},
		{
			"match only evaluates the taken branch",
			"inputs;\nx = match 0 { 1 => nope, _ => 7 };\noutputs x;",
			nil,
			[]int64{7},
		},
		{
			"output listed twice",
			"inputs a;\noutputs a, a;",
			[]int64{9},
			[]int64{9, 9},
		},
		{
			"no outputs",
			"inputs;\noutputs;",
			nil,
			[]int64{},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog, err := Parse([]byte(c.source))
			require.NoError(t, err)

			got, err := Run(prog, c.inputs)
			require.NoError(t, err)
			assert.Equal(t, c.expect, got)
		})
	}
}

func TestInterpreterErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		inputs []int64
		expect error
	}{
		{
			"too few inputs",
			"inputs a, b;\noutputs a;",
			[]int64{1},
			&IncorrectInputCountError{Expected: 2, Actual: 1},
		},
		{
			"too many inputs",
			"inputs;\noutputs;",
			[]int64{1},
			&IncorrectInputCountError{Expected: 0, Actual: 1},
		},
		{
			"unknown variable",
			"inputs;\nx = y;\noutputs x;",
			nil,
			&UnknownVariableError{Name: "y"},
		},
		{
			"globals are not visible in functions",
			"inputs a;\nf() = a;\nx = f();\noutputs x;",
			[]int64{1},
			&UnknownVariableError{Name: "a"},
		},
		{
			"unassigned output",
			"inputs;\noutputs x;",
			nil,
			&UnknownVariableError{Name: "x"},
		},
		{
			"unknown function",
			"inputs;\nx = f(1);\noutputs x;",
			nil,
			&UnknownFunctionError{Name: "f"},
		},
		{
			"no recursion",
			"inputs;\nf(n) = f(n);\nx = f(1);\noutputs x;",
			nil,
			&UnknownFunctionError{Name: "f"},
		},
		{
			"wrong argument count",
			"inputs;\nf(a, b) = a;\nx = f(1);\noutputs x;",
			nil,
			&IncorrectArgumentCountError{Name: "f", Expected: 2, Actual: 1},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog, err := Parse([]byte(c.source))
			require.NoError(t, err)

			_, err = Run(prog, c.inputs)
			assert.Equal(t, c.expect, err)
		})
	}
}

func TestInterpreterStatement(t *testing.T) {
	i := NewInterpreter()

	for _, source := range []string{"f(x) = x + 1;", "a = f(41);", "f(x) = 0;", "b = f(a);"} {
		stmt, err := ParseStatement([]byte(source))
		require.NoError(t, err)
		require.NoError(t, i.Statement(stmt))
	}

	assert.Equal(t, int64(42), i.Variables["a"])
	assert.Equal(t, int64(0), i.Variables["b"])
	assert.Equal(t, []Name{"f"}, i.Functions.Names())
	assert.Equal(t, 2, i.Functions.Len())
}

func TestInterpreterRunResetsState(t *testing.T) {
	i := NewInterpreter()

	first, err := Parse([]byte("inputs;\nf() = 1;\nx = 5;\noutputs x;"))
	require.NoError(t, err)

	got, err := i.Run(first, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, got)

	second, err := Parse([]byte("inputs;\noutputs x;"))
	require.NoError(t, err)

	_, err = i.Run(second, nil)
	assert.Equal(t, &UnknownVariableError{Name: "x"}, err)

	third, err := Parse([]byte("inputs;\ny = f();\noutputs y;"))
	require.NoError(t, err)

	_, err = i.Run(third, nil)
	assert.Equal(t, &UnknownFunctionError{Name: "f"}, err)
}
