package mathc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mathc.dev/internal/test"
)

type BufferedTokenizerMocker struct {
	buf []Token
	pos int
}

func NewBufferedTokenizerMocker(toks []Token) *BufferedTokenizerMocker {
	return &BufferedTokenizerMocker{
		buf: toks,
		pos: 0,
	}
}

func (b *BufferedTokenizerMocker) Get() Token {
	if len(b.buf) <= b.pos {
		return Token{Typ: TokenEOF}
	}

	tok := b.buf[b.pos]
	b.pos++

	return tok
}

func (b *BufferedTokenizerMocker) GetFilename() string {
	return "testing"
}

func TestParser(t *testing.T) {
	cases := []struct {
		data   []Token
		fail   bool
		expect *Program
	}{
		{
			[]Token{
				{TokenInputs, "inputs", nil},
				{TokenSemicolon, ";", nil},
				{TokenOutputs, "outputs", nil},
				{TokenSemicolon, ";", nil},
			},
			false,
			&Program{Filename: "testing"},
		},
		{
			[]Token{
				{TokenLineComment, "this is a comment", nil},
				{TokenInputs, "inputs", nil},
				{TokenIdentifier, "a", nil},
				{TokenSemicolon, ";", nil},
				{TokenLineComment, "another comment", nil},
				{TokenOutputs, "outputs", nil},
				{TokenIdentifier, "a", nil},
				{TokenSemicolon, ";", nil},
			},
			false,
			&Program{
				Filename: "testing",
				Inputs:   []Name{"a"},
				Outputs:  []Name{"a"},
			},
		},
		{
			[]Token{
				{TokenInputs, "inputs", nil},
				{TokenIdentifier, "a", nil},
				{TokenComma, ",", nil},
				{TokenIdentifier, "b", nil},
				{TokenSemicolon, ";", nil},
				{TokenIdentifier, "f", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenIdentifier, "x", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenAssign, "=", nil},
				{TokenIdentifier, "x", nil},
				{TokenPlus, "+", nil},
				{TokenNumber, "1", nil},
				{TokenSemicolon, ";", nil},
				{TokenIdentifier, "c", nil},
				{TokenAssign, "=", nil},
				{TokenIdentifier, "f", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenIdentifier, "a", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenMulti, "*", nil},
				{TokenIdentifier, "b", nil},
				{TokenSemicolon, ";", nil},
				{TokenOutputs, "outputs", nil},
				{TokenIdentifier, "c", nil},
				{TokenSemicolon, ";", nil},
			},
			false,
			&Program{
				Filename: "testing",
				Inputs:   []Name{"a", "b"},
				Statements: []Stmt{
					&FuncDecl{
						Name:   "f",
						Params: []Name{"x"},
						Body: &BinaryExpr{
							Operation: BinaryAddition,
							Op1:       &VarRef{"x"},
							Op2:       &IntLiteral{1},
						},
					},
					&VariableDecl{
						Name: "c",
						Value: &BinaryExpr{
							Operation: BinaryMultiplication,
							Op1:       &FuncCall{Name: "f", Args: []Expr{&VarRef{"a"}}},
							Op2:       &VarRef{"b"},
						},
					},
				},
				Outputs: []Name{"c"},
			},
		},
		{
			// Missing inputs header
			[]Token{
				{TokenIdentifier, "a", nil},
				{TokenAssign, "=", nil},
				{TokenNumber, "1", nil},
				{TokenSemicolon, ";", nil},
			},
			true,
			nil,
		},
		{
			// Missing outputs
			[]Token{
				{TokenInputs, "inputs", nil},
				{TokenSemicolon, ";", nil},
				{TokenIdentifier, "a", nil},
				{TokenAssign, "=", nil},
				{TokenNumber, "1", nil},
				{TokenSemicolon, ";", nil},
			},
			true,
			nil,
		},
		{
			// Statement without ';'
			[]Token{
				{TokenInputs, "inputs", nil},
				{TokenSemicolon, ";", nil},
				{TokenIdentifier, "a", nil},
				{TokenAssign, "=", nil},
				{TokenNumber, "1", nil},
				{TokenOutputs, "outputs", nil},
				{TokenSemicolon, ";", nil},
			},
			true,
			nil,
		},
		{
			// Trailing input after outputs
			[]Token{
				{TokenInputs, "inputs", nil},
				{TokenSemicolon, ";", nil},
				{TokenOutputs, "outputs", nil},
				{TokenSemicolon, ";", nil},
				{TokenNumber, "1", nil},
			},
			true,
			nil,
		},
		{
			// Lexer error
			[]Token{
				{TokenInputs, "inputs", nil},
				{TokenError, "invalid symbol '$'", nil},
			},
			true,
			nil,
		},
	}

	for _, c := range cases {
		tokenizer := NewBufferedTokenizerMocker(c.data)
		p := NewParser(tokenizer)

		got, err := p.Run()
		if c.fail {
			assert.Error(t, err)
			assert.Nil(t, got)

			continue
		}

		assert.NoError(t, err)
		assert.Equal(t, c.expect, got)
	}
}

func TestParseExpression(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect Expr
	}{
		{"42", false, &IntLiteral{42}},
		{"-42", false, &IntLiteral{-42}},
		{"9223372036854775807", false, &IntLiteral{math.MaxInt64}},
		{"-9223372036854775808", false, &IntLiteral{math.MinInt64}},
		{"9223372036854775808", true, nil},
		{"- 42", true, nil},
		{"x", false, &VarRef{"x"}},
		{"f()", false, &FuncCall{Name: "f"}},
		{
			"f(1, g(x))",
			false,
			&FuncCall{Name: "f", Args: []Expr{
				&IntLiteral{1},
				&FuncCall{Name: "g", Args: []Expr{&VarRef{"x"}}},
			}},
		},
		{"f(1 2)", true, nil},
		{"f(1,)", true, nil},
		{
			"1 + 2 * 3",
			false,
			&BinaryExpr{
				Operation: BinaryAddition,
				Op1:       &IntLiteral{1},
				Op2: &BinaryExpr{
					Operation: BinaryMultiplication,
					Op1:       &IntLiteral{2},
					Op2:       &IntLiteral{3},
				},
			},
		},
		{
			"(1 + 3) * 2",
			false,
			&BinaryExpr{
				Operation: BinaryMultiplication,
				Op1: &Group{&BinaryExpr{
					Operation: BinaryAddition,
					Op1:       &IntLiteral{1},
					Op2:       &IntLiteral{3},
				}},
				Op2: &IntLiteral{2},
			},
		},
		{
			// Subtraction binds loosest, so this is 1 - (2 + 3)
			"1 - 2 + 3",
			false,
			&BinaryExpr{
				Operation: BinarySubtraction,
				Op1:       &IntLiteral{1},
				Op2: &BinaryExpr{
					Operation: BinaryAddition,
					Op1:       &IntLiteral{2},
					Op2:       &IntLiteral{3},
				},
			},
		},
		{
			"a - b - c",
			false,
			&BinaryExpr{
				Operation: BinarySubtraction,
				Op1: &BinaryExpr{
					Operation: BinarySubtraction,
					Op1:       &VarRef{"a"},
					Op2:       &VarRef{"b"},
				},
				Op2: &VarRef{"c"},
			},
		},
		{
			"x -1",
			false,
			&BinaryExpr{
				Operation: BinarySubtraction,
				Op1:       &VarRef{"x"},
				Op2:       &IntLiteral{1},
			},
		},
		{
			"x - -1",
			false,
			&BinaryExpr{
				Operation: BinarySubtraction,
				Op1:       &VarRef{"x"},
				Op2:       &IntLiteral{-1},
			},
		},
		{
			"match x { 1 => 10, -2 => 20, _ => 30 }",
			false,
			&MatchExpr{
				Scrutinee: &VarRef{"x"},
				Clauses: []MatchClause{
					{1, &IntLiteral{10}},
					{-2, &IntLiteral{20}},
				},
				Default: &IntLiteral{30},
			},
		},
		{
			"match x + 1 { _ => 0, } * 2",
			false,
			&BinaryExpr{
				Operation: BinaryMultiplication,
				Op1: &MatchExpr{
					Scrutinee: &BinaryExpr{
						Operation: BinaryAddition,
						Op1:       &VarRef{"x"},
						Op2:       &IntLiteral{1},
					},
					Default: &IntLiteral{0},
				},
				Op2: &IntLiteral{2},
			},
		},
		{"match x { 1 => 2 }", true, nil},
		{"match x { y => 2, _ => 3 }", true, nil},
		{"(1 + 2", true, nil},
		{"1 +", true, nil},
		{"1 2", true, nil},
		{"", true, nil},
	}

	for _, c := range cases {
		got, err := ParseExpression([]byte(c.data))
		if c.fail {
			assert.Error(t, err, c.data)
			continue
		}

		if assert.NoError(t, err, c.data) {
			assert.Equal(t, c.expect, got, c.data)
		}
	}
}

func TestParseStatement(t *testing.T) {
	stmt, err := ParseStatement([]byte("f(a, b) = a / b;"))
	require.NoError(t, err)
	assert.Equal(t, &FuncDecl{
		Name:   "f",
		Params: []Name{"a", "b"},
		Body: &BinaryExpr{
			Operation: BinaryDivision,
			Op1:       &VarRef{"a"},
			Op2:       &VarRef{"b"},
		},
	}, stmt)

	stmt, err = ParseStatement([]byte("k() = 7;"))
	require.NoError(t, err)
	assert.Equal(t, &FuncDecl{Name: "k", Body: &IntLiteral{7}}, stmt)

	_, err = ParseStatement([]byte("x = 1"))
	assert.Error(t, err)

	_, err = ParseStatement([]byte("f(1) = 2;"))
	assert.Error(t, err)
}

func TestParseErrorRemainder(t *testing.T) {
	source := "inputs a;\nb = a + ;\noutputs b;\n"

	_, err := Parse([]byte(source))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Loc.Line)
	assert.Equal(t, 9, perr.Loc.Column)
	assert.Equal(t, ";\noutputs b;\n", perr.Remainder)
}

func TestParseNulByte(t *testing.T) {
	_, err := Parse([]byte("inputs; outputs;\x00 garbage here"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "\x00 garbage here", perr.Remainder)
}

func TestParseDuplicateInput(t *testing.T) {
	_, err := Parse([]byte("inputs a, b, a;\noutputs b;"))

	var dup *DuplicateInputError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, Name("a"), dup.Name)
}

func TestParseNamed(t *testing.T) {
	prog, err := ParseNamed("prog.m", []byte("inputs;\nx = 1; // one\noutputs x;"))
	require.NoError(t, err)

	assert.Equal(t, &Program{
		Filename:   "prog.m",
		Statements: []Stmt{&VariableDecl{Name: "x", Value: &IntLiteral{1}}},
		Outputs:    []Name{"x"},
	}, prog)

	_, err = ParseNamed("prog.m", []byte("inputs;\nx = ;\noutputs x;"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "prog.m", perr.Loc.Filename)
	assert.Contains(t, err.Error(), "prog.m:2:5")
}

func TestPrinterRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		source := test.GetRandomProgram(r, 8)

		prog, err := Parse([]byte(source))
		require.NoError(t, err, source)

		again, err := Parse([]byte(prog.String()))
		require.NoError(t, err, prog.String())
		assert.Equal(t, prog, again)
	}
}
