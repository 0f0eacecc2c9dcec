package mathc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.mathc.dev/internal/test"
)

type lexeme struct {
	Typ   TokenType
	Value string
}

func strip(toks []Token) []lexeme {
	var out []lexeme
	for _, t := range toks {
		out = append(out, lexeme{t.Typ, t.Value})
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []lexeme
	}{
		{
			"inputs a, b;",
			false,
			[]lexeme{
				{TokenInputs, "inputs"},
				{TokenIdentifier, "a"},
				{TokenComma, ","},
				{TokenIdentifier, "b"},
				{TokenSemicolon, ";"},
			},
		},
		{
			"//this is a comment\n",
			false,
			[]lexeme{
				{TokenLineComment, "this is a comment"},
			},
		},
		{
			"f(x, y) = x * y;",
			false,
			[]lexeme{
				{TokenIdentifier, "f"},
				{TokenOpenParentheses, "("},
				{TokenIdentifier, "x"},
				{TokenComma, ","},
				{TokenIdentifier, "y"},
				{TokenCloseParentheses, ")"},
				{TokenAssign, "="},
				{TokenIdentifier, "x"},
				{TokenMulti, "*"},
				{TokenIdentifier, "y"},
				{TokenSemicolon, ";"},
			},
		},
		{
			"match x { -1 => 2, _ => 3 }",
			false,
			[]lexeme{
				{TokenMatch, "match"},
				{TokenIdentifier, "x"},
				{TokenOpenCurly, "{"},
				{TokenMinus, "-"},
				{TokenNumber, "1"},
				{TokenArrow, "=>"},
				{TokenNumber, "2"},
				{TokenComma, ","},
				{TokenWildcard, "_"},
				{TokenArrow, "=>"},
				{TokenNumber, "3"},
				{TokenCloseCurly, "}"},
			},
		},
		{
			"únicódeShouldBeVàlid = _x1 / 2",
			false,
			[]lexeme{
				{TokenIdentifier, "únicódeShouldBeVàlid"},
				{TokenAssign, "="},
				{TokenIdentifier, "_x1"},
				{TokenDiv, "/"},
				{TokenNumber, "2"},
			},
		},
		{
			"outputs inputs_2;",
			false,
			[]lexeme{
				{TokenOutputs, "outputs"},
				{TokenIdentifier, "inputs_2"},
				{TokenSemicolon, ";"},
			},
		},
		{
			"",
			false,
			nil,
		},
		{
			"12ab",
			true,
			nil,
		},
		{
			"a = 1 % 2",
			true,
			nil,
		},
		{
			"@",
			true,
			nil,
		},
		{
			"inputs;\x00 garbage",
			true,
			nil,
		},
	}

	for _, c := range cases {
		r := strings.NewReader(c.data)
		l := NewLexer(r)

		toks, err := l.Run()
		if c.fail {
			assert.Error(t, err, c.data)
		} else {
			assert.NoError(t, err, c.data)
		}

		assert.Equal(t, c.expect, strip(toks), c.data)
	}
}

func TestLexerLocations(t *testing.T) {
	l := NewNamedLexer("prog.m", strings.NewReader("inputs a;\n  b = -1;"))

	toks, err := l.Run()
	assert.NoError(t, err)
	assert.Len(t, toks, 8)

	assert.Equal(t, &Location{Filename: "prog.m", Line: 1, Column: 1, Offset: 0}, toks[0].Loc)
	assert.Equal(t, &Location{Filename: "prog.m", Line: 2, Column: 3, Offset: 12}, toks[3].Loc)

	// '-' ends exactly where the digits begin
	assert.Equal(t, TokenMinus, toks[5].Typ)
	assert.Equal(t, toks[6].Loc.Offset, toks[5].end())

	assert.Equal(t, "prog.m:2:3", toks[3].Loc.String())
}

func TestLexerGetAfterEnd(t *testing.T) {
	l := NewLexer(strings.NewReader("x"))

	assert.Equal(t, TokenIdentifier, l.Get().Typ)
	for i := 0; i < 3; i++ {
		assert.Equal(t, TokenEOF, l.Get().Typ)
	}

	l = NewLexer(strings.NewReader("x $ y"))

	assert.Equal(t, TokenIdentifier, l.Get().Typ)
	for i := 0; i < 3; i++ {
		tok := l.Get()
		assert.Equal(t, TokenError, tok.Typ)
		assert.Equal(t, "invalid symbol '$'", tok.Value)
	}

	l = NewLexer(strings.NewReader("x\x00y"))

	assert.Equal(t, TokenIdentifier, l.Get().Typ)
	tok := l.Get()
	assert.Equal(t, TokenError, tok.Typ)
	assert.Equal(t, `invalid symbol '\x00'`, tok.Value)
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		r := strings.NewReader(data)
		l := NewLexer(r)

		var err error
		b.StartTimer()

		benchResult, err = l.Run()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
