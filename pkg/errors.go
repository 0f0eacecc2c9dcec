package mathc

import (
	"fmt"
	"strings"
)

// ParseError reports malformed input. Nothing after the offending token is
// consumed.
type ParseError struct {
	Loc       *Location
	Msg       string
	Remainder string
}

func (e *ParseError) Error() string {
	rest := e.Remainder
	if len(rest) > 32 {
		rest = rest[:32] + "..."
	}

	return fmt.Sprintf("%s syntax error: %s (remaining input %q)", e.Loc, e.Msg, rest)
}

type DuplicateInputError struct {
	Name Name
}

func (e *DuplicateInputError) Error() string {
	return fmt.Sprintf("duplicate input: %s", e.Name)
}

type UnassignedOutputError struct {
	Name Name
}

func (e *UnassignedOutputError) Error() string {
	return fmt.Sprintf("output is never assigned: %s", e.Name)
}

type UnknownVariableError struct {
	Name Name
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable: %s", e.Name)
}

type UnknownFunctionError struct {
	Name Name
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function: %s", e.Name)
}

type IncorrectArgumentCountError struct {
	Name     Name
	Expected int
	Actual   int
}

func (e *IncorrectArgumentCountError) Error() string {
	return fmt.Sprintf("function %s expects %d arguments but was called with %d", e.Name, e.Expected, e.Actual)
}

type IncorrectInputCountError struct {
	Expected int
	Actual   int
}

func (e *IncorrectInputCountError) Error() string {
	return fmt.Sprintf("program expects %d inputs but was provided with %d", e.Expected, e.Actual)
}

// ErrorList collects every static error found in a program.
type ErrorList []error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	var str strings.Builder
	fmt.Fprintf(&str, "%d errors:", len(l))
	for _, err := range l {
		str.WriteString("\n\t")
		str.WriteString(err.Error())
	}

	return str.String()
}

// Unwrap lets errors.As find individual entries.
func (l ErrorList) Unwrap() []error {
	return l
}

// Err returns nil for an empty list.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}

	return l
}
