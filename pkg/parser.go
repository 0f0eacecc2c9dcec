package mathc

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Parse parses a complete program and rejects duplicate input names.
func Parse(source []byte) (*Program, error) {
	return ParseNamed("", source)
}

func ParseNamed(filename string, source []byte) (*Program, error) {
	p := NewParser(NewNamedLexer(filename, bytes.NewReader(source)))

	prog, err := p.Run()
	if err != nil {
		return nil, withRemainder(err, source)
	}

	if err := validateInputs(prog); err != nil {
		return nil, err
	}

	return prog, nil
}

// validateInputs rejects a program that names the same input twice.
func validateInputs(prog *Program) error {
	seen := make(map[Name]bool, len(prog.Inputs))
	for _, input := range prog.Inputs {
		if seen[input] {
			return &DuplicateInputError{Name: input}
		}

		seen[input] = true
	}

	return nil
}

// ParseStatement parses a single statement, including its trailing ';'.
func ParseStatement(source []byte) (Stmt, error) {
	p := NewParser(NewLexer(bytes.NewReader(source)))

	stmt, err := p.statement()
	if err == nil {
		err = p.end()
	}

	if err != nil {
		return nil, withRemainder(err, source)
	}

	return stmt, nil
}

// ParseExpression parses a single expression with nothing after it.
func ParseExpression(source []byte) (Expr, error) {
	p := NewParser(NewLexer(bytes.NewReader(source)))

	expr, err := p.expr()
	if err == nil {
		err = p.end()
	}

	if err != nil {
		return nil, withRemainder(err, source)
	}

	return expr, nil
}

func withRemainder(err error, source []byte) error {
	var perr *ParseError
	if errors.As(err, &perr) && perr.Loc != nil && perr.Loc.Offset <= len(source) {
		perr.Remainder = string(source[perr.Loc.Offset:])
	}

	return err
}

type Parser struct {
	filename  string
	tokenizer Tokenizer
	buf       *Token
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		filename:  tokenizer.GetFilename(),
	}
}

func (p *Parser) GetFilename() string {
	return p.filename
}

// Run parses a whole program.
func (p *Parser) Run() (*Program, error) {
	prog := &Program{Filename: p.filename}

	var err error
	if _, err = p.expect(TokenInputs, "'inputs'"); err != nil {
		return nil, err
	}

	if prog.Inputs, err = p.names(); err != nil {
		return nil, err
	}

	if _, err = p.expect(TokenSemicolon, "';' after inputs"); err != nil {
		return nil, err
	}

	for !p.check(TokenOutputs) {
		if tok := p.peek(); !tok.isValid() {
			return nil, p.errorf(tok, "expected a statement or 'outputs'")
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	p.next() // Skip outputs

	if prog.Outputs, err = p.names(); err != nil {
		return nil, err
	}

	if _, err = p.expect(TokenSemicolon, "';' after outputs"); err != nil {
		return nil, err
	}

	if err = p.end(); err != nil {
		return nil, err
	}

	return prog, nil
}

func (p *Parser) end() error {
	if tok := p.peek(); tok.Typ != TokenEOF {
		return p.errorf(tok, "unexpected trailing input")
	}

	return nil
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		temp := p.fetch()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	if p.buf != nil {
		tok := *p.buf
		if tok.isValid() {
			// An invalid token stays buffered since no more valid tokens are expected
			p.buf = nil
		}

		return tok
	}

	return p.fetch()
}

func (p *Parser) fetch() Token {
	for {
		tok := p.tokenizer.Get()
		if !tok.isComment() {
			return tok
		}
	}
}

func (p *Parser) expect(typ TokenType, what string) (Token, error) {
	tok := p.peek()
	if tok.Typ != typ {
		return tok, p.errorf(tok, "expected %s", what)
	}

	return p.next(), nil
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch tok.Typ {
	case TokenError:
		msg = tok.Value
	case TokenEOF:
		msg += ", found end of input"
	default:
		msg += fmt.Sprintf(", found '%s'", tok.Value)
	}

	return &ParseError{Loc: tok.Loc, Msg: msg}
}

func (p *Parser) names() ([]Name, error) {
	if !p.check(TokenIdentifier) {
		return nil, nil
	}

	names := []Name{Name(p.next().Value)}
	for p.check(TokenComma) {
		p.next() // Skip the comma

		tok, err := p.expect(TokenIdentifier, "a name")
		if err != nil {
			return nil, err
		}

		names = append(names, Name(tok.Value))
	}

	return names, nil
}

func (p *Parser) statement() (Stmt, error) {
	name, err := p.expect(TokenIdentifier, "a variable or function name")
	if err != nil {
		return nil, err
	}

	var stmt Stmt
	if p.check(TokenOpenParentheses) {
		stmt, err = p.funcDecl(Name(name.Value))
	} else {
		stmt, err = p.varDecl(Name(name.Value))
	}

	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon, "';' after statement"); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) funcDecl(name Name) (Stmt, error) {
	p.next() // Skip (

	params, err := p.names()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParentheses, "')' after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenAssign, "'=' in function definition"); err != nil {
		return nil, err
	}

	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

func (p *Parser) varDecl(name Name) (Stmt, error) {
	if _, err := p.expect(TokenAssign, "'=' in assignment"); err != nil {
		return nil, err
	}

	value, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &VariableDecl{
		Name:  name,
		Value: value,
	}, nil
}

func isOperator(typ TokenType) bool {
	switch typ {
	case TokenPlus, TokenMinus, TokenMulti, TokenDiv:
		return true
	}

	return false
}

// expr reads operand (operator operand)* and hands the flat sequence to a
// ShuntingYard.
func (p *Parser) expr() (Expr, error) {
	first, err := p.operand()
	if err != nil {
		return nil, err
	}

	yard := NewShuntingYard(first)
	for isOperator(p.peek().Typ) {
		op := p.next()

		operand, err := p.operand()
		if err != nil {
			return nil, err
		}

		yard.Push(BinaryOp(op.Value), operand)
	}

	return yard.Expr(), nil
}

func (p *Parser) operand() (Operand, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenNumber, TokenMinus:
		value, err := p.integer()
		if err != nil {
			return nil, err
		}

		return &IntLiteral{Value: value}, nil
	case TokenOpenParentheses:
		return p.group()
	case TokenMatch:
		return p.match()
	case TokenIdentifier:
		p.next()

		if p.check(TokenOpenParentheses) {
			return p.funcCall(Name(tok.Value))
		}

		return &VarRef{Name: Name(tok.Value)}, nil
	default:
		return nil, p.errorf(tok, "expected an operand")
	}
}

// integer reads a literal with an optional '-' that must touch the digits.
func (p *Parser) integer() (int64, error) {
	sign := ""
	if p.check(TokenMinus) {
		minus := p.next()

		tok := p.peek()
		if tok.Typ != TokenNumber || (minus.end() >= 0 && tok.Loc != nil && minus.end() != tok.Loc.Offset) {
			return 0, p.errorf(minus, "expected a number after '-'")
		}

		sign = "-"
	}

	tok, err := p.expect(TokenNumber, "a number")
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseInt(sign+tok.Value, 10, 64)
	if err != nil {
		return 0, &ParseError{Loc: tok.Loc, Msg: fmt.Sprintf("integer out of range '%s%s'", sign, tok.Value)}
	}

	return value, nil
}

func (p *Parser) group() (Operand, error) {
	p.next() // Skip (

	expr, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParentheses, "closing parenthesis"); err != nil {
		return nil, err
	}

	return &Group{Expr: expr}, nil
}

func (p *Parser) funcCall(name Name) (Operand, error) {
	p.next() // Skip (

	var args []Expr
	for !p.check(TokenCloseParentheses) {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if !p.check(TokenComma) {
			break
		}

		p.next() // Skip the comma

		if p.check(TokenCloseParentheses) {
			return nil, p.errorf(p.peek(), "expected an argument after ','")
		}
	}

	if _, err := p.expect(TokenCloseParentheses, "')' after arguments"); err != nil {
		return nil, err
	}

	return &FuncCall{
		Name: name,
		Args: args,
	}, nil
}

func (p *Parser) match() (Operand, error) {
	p.next() // Skip match

	scrutinee, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenOpenCurly, "'{' after match value"); err != nil {
		return nil, err
	}

	m := &MatchExpr{Scrutinee: scrutinee}
	for !p.check(TokenWildcard) {
		value, err := p.integer()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenArrow, "'=>' after pattern"); err != nil {
			return nil, err
		}

		result, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenComma, "',' after match clause"); err != nil {
			return nil, err
		}

		m.Clauses = append(m.Clauses, MatchClause{Value: value, Result: result})
	}

	p.next() // Skip _

	if _, err := p.expect(TokenArrow, "'=>' after '_'"); err != nil {
		return nil, err
	}

	if m.Default, err = p.expr(); err != nil {
		return nil, err
	}

	if p.check(TokenComma) {
		p.next()
	}

	if _, err := p.expect(TokenCloseCurly, "'}' to close match"); err != nil {
		return nil, err
	}

	return m, nil
}
