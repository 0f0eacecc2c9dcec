package mathc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = -1

	TokenError TokenType = iota
	TokenEOF
	TokenNumber

	TokenIdentifier
	TokenInputs
	TokenOutputs
	TokenMatch
	TokenWildcard

	TokenPlus
	TokenMinus
	TokenMulti
	TokenDiv
	TokenAssign
	TokenArrow
	TokenComma
	TokenSemicolon
	TokenLineComment
	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
)

var tokenNames = map[TokenType]string{
	TokenError:            "Error",
	TokenEOF:              "EOF",
	TokenNumber:           "Number",
	TokenIdentifier:       "Identifier",
	TokenInputs:           "Inputs",
	TokenOutputs:          "Outputs",
	TokenMatch:            "Match",
	TokenWildcard:         "Wildcard",
	TokenPlus:             "Plus",
	TokenMinus:            "Minus",
	TokenMulti:            "Multi",
	TokenDiv:              "Div",
	TokenAssign:           "Assign",
	TokenArrow:            "Arrow",
	TokenComma:            "Comma",
	TokenSemicolon:        "Semicolon",
	TokenLineComment:      "LineComment",
	TokenOpenParentheses:  "OpenParentheses",
	TokenCloseParentheses: "CloseParentheses",
	TokenOpenCurly:        "OpenCurly",
	TokenCloseCurly:       "CloseCurly",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TokenType(%d)", uint64(t))
}

var keywordTable = map[string]TokenType{
	"inputs":  TokenInputs,
	"outputs": TokenOutputs,
	"match":   TokenMatch,
	"_":       TokenWildcard,
}

var operatorTable = map[string]TokenType{
	"+":  TokenPlus,
	"-":  TokenMinus,
	"*":  TokenMulti,
	"/":  TokenDiv,
	"=":  TokenAssign,
	"=>": TokenArrow,
	",":  TokenComma,
	";":  TokenSemicolon,
	"//": TokenLineComment,
	"(":  TokenOpenParentheses,
	")":  TokenCloseParentheses,
	"{":  TokenOpenCurly,
	"}":  TokenCloseCurly,
}

type Location struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

func (l *Location) String() string {
	if l == nil {
		return "<unknown>"
	}

	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}

	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

func (t Token) isComment() bool {
	return t.Typ == TokenLineComment
}

// end is the byte offset just past the token, or -1 if unknown.
func (t Token) end() int {
	if t.Loc == nil {
		return -1
	}

	return t.Loc.Offset + len(t.Value)
}

// Tokenizer hands tokens to the parser one at a time. After the input is
// exhausted Get keeps returning a TokenEOF (or the TokenError that stopped it).
type Tokenizer interface {
	Get() Token
	GetFilename() string
}

type Lexer struct {
	reader   *bufio.Reader
	filename string
	state    stateFunc
	pending  []Token
	last     Token

	line, column, offset int
	start                Location
}

func NewLexer(reader io.Reader) *Lexer {
	return NewNamedLexer("", reader)
}

func NewNamedLexer(filename string, reader io.Reader) *Lexer {
	return &Lexer{
		reader:   bufio.NewReader(reader),
		filename: filename,
		state:    defaultState,
		line:     1,
		column:   1,
	}
}

func (l *Lexer) GetFilename() string {
	return l.filename
}

// Get runs the state machine until it produces the next token.
func (l *Lexer) Get() Token {
	for len(l.pending) == 0 {
		if l.state == nil {
			return l.last
		}

		l.state = l.state(l)
	}

	tok := l.pending[0]
	l.pending = l.pending[1:]
	l.last = tok

	return tok
}

// Run lexes the whole input.
func (l *Lexer) Run() ([]Token, error) {
	var tokens []Token
	for {
		t := l.Get()
		if t.Typ == TokenEOF {
			return tokens, nil
		}

		if t.Typ == TokenError {
			return nil, errors.New(t.Value)
		}

		tokens = append(tokens, t)
	}
}

func defaultState(l *Lexer) stateFunc {
	for {
		l.mark()

		switch r := l.peek(); {
		case r == EOF:
			return l.emitValue(TokenEOF, "")
		case unicode.IsSpace(r):
			l.next()
			continue
		case '0' <= r && r <= '9':
			return numberState
		case isNameStart(r):
			return identifierState
		default:
			return operatorState
		}
	}
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}

// isName reports whether s would lex as a single identifier.
func isName(s string) bool {
	if _, ok := keywordTable[s]; ok || s == "" {
		return false
	}

	for i, r := range s {
		if !isNamePart(r) || (i == 0 && !isNameStart(r)) {
			return false
		}
	}

	return true
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		num.WriteRune(l.next())
	}

	if isNameStart(l.peek()) {
		return l.errorf("invalid number '%s%c'", num.String(), l.peek())
	}

	return l.emitValue(TokenNumber, num.String())
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); isNamePart(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emitValue(t, id.String())
	}

	return l.emitValue(TokenIdentifier, id.String())
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()
	if r == '=' || r == '/' { // Some operators can be two runes
		op := string(r) + string(l.peek())
		if tok, ok := operatorTable[op]; ok {
			l.next() // Skip

			if tok == TokenLineComment {
				return lineCommentState
			}

			return l.emitValue(tok, op)
		}
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emitValue(tok, string(r))
	}

	return l.errorf("invalid symbol %q", r)
}

func lineCommentState(l *Lexer) stateFunc {
	var comment strings.Builder
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		comment.WriteRune(l.next())
	}

	return l.emitValue(TokenLineComment, comment.String())
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.emitValue(TokenError, fmt.Sprintf(format, args...))
	return nil
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	loc := l.start
	l.pending = append(l.pending, Token{
		Typ:   t,
		Value: val,
		Loc:   &loc,
	})

	if t == TokenEOF {
		return nil
	}

	return defaultState
}

// mark records the position of the token about to be lexed.
func (l *Lexer) mark() {
	l.start = Location{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.offset,
	}
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, size, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	return r
}
