package mathc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// frame is the runtime state of one activation in a ClosureUnit.
type frame struct {
	params []int64
	cells  []int64
	args   []string
	out    io.Writer
}

type thunk func(f *frame) int64

type closureFunc struct {
	name  Name
	arity int
	body  thunk
}

type closureCell int

// ClosureBackend is a Backend that lowers every emitted operation into a Go
// closure instead of native code. Its translation unit can be executed in
// process, which makes it a reference for the driver without a linker.
type ClosureBackend struct {
	funcs  []*closureFunc
	cells  []Name
	inputs int
	entry  []func(f *frame) error
	began  bool
	ended  bool
}

func NewClosureBackend() *ClosureBackend {
	return &ClosureBackend{}
}

// NewNullBackend is NewClosureBackend typed as a Backend, for NewCompiler.
func NewNullBackend() Backend {
	return NewClosureBackend()
}

func (b *ClosureBackend) Int(v int64) Value {
	return thunk(func(*frame) int64 { return v })
}

func (b *ClosureBackend) SatAdd(x, y Value) Value {
	return binaryThunk(SatAdd, x, y)
}

func (b *ClosureBackend) SatSub(x, y Value) Value {
	return binaryThunk(SatSub, x, y)
}

func (b *ClosureBackend) SatMul(x, y Value) Value {
	return binaryThunk(SatMul, x, y)
}

func (b *ClosureBackend) SatDiv(x, y Value) Value {
	return binaryThunk(SatDiv, x, y)
}

func binaryThunk(op func(x, y int64) int64, x, y Value) thunk {
	lhs, rhs := x.(thunk), y.(thunk)
	return func(f *frame) int64 {
		v1 := lhs(f)
		v2 := rhs(f)

		return op(v1, v2)
	}
}

func (b *ClosureBackend) DefineFunc(name Name, params []Name, body func(params []Value) (Value, error)) (Function, error) {
	vals := make([]Value, len(params))
	for i := range params {
		index := i
		vals[i] = thunk(func(f *frame) int64 { return f.params[index] })
	}

	v, err := body(vals)
	if err != nil {
		return nil, err
	}

	fn := &closureFunc{name: name, arity: len(params), body: v.(thunk)}
	b.funcs = append(b.funcs, fn)

	return fn, nil
}

func (b *ClosureBackend) Call(fn Function, args []Value) Value {
	callee := fn.(*closureFunc)
	argThunks := make([]thunk, len(args))
	for i, arg := range args {
		argThunks[i] = arg.(thunk)
	}

	return thunk(func(f *frame) int64 {
		params := make([]int64, len(argThunks))
		for i, arg := range argThunks {
			params[i] = arg(f)
		}

		return callee.body(&frame{params: params})
	})
}

func (b *ClosureBackend) Match(scrutinee Value, cases []Case, def func() (Value, error)) (Value, error) {
	type clause struct {
		value  int64
		result thunk
	}

	var clauses []clause
	for _, c := range cases {
		v, err := c.Emit()
		if err != nil {
			return nil, err
		}

		clauses = append(clauses, clause{value: c.Value, result: v.(thunk)})
	}

	d, err := def()
	if err != nil {
		return nil, err
	}

	with, otherwise := scrutinee.(thunk), d.(thunk)
	return thunk(func(f *frame) int64 {
		v := with(f)
		for _, c := range clauses {
			if c.value == v {
				return c.result(f)
			}
		}

		return otherwise(f)
	}), nil
}

func (b *ClosureBackend) BeginEntry(inputs int) {
	b.inputs = inputs
	b.began = true
}

func (b *ClosureBackend) ReadInput(index int, c Cell) {
	cell := c.(closureCell)
	b.entry = append(b.entry, func(f *frame) error {
		f.cells[cell] = scanInt(f.args[index+1])
		return nil
	})
}

func (b *ClosureBackend) Alloc(name Name) Cell {
	b.cells = append(b.cells, name)
	return closureCell(len(b.cells) - 1)
}

func (b *ClosureBackend) Load(c Cell) Value {
	cell := c.(closureCell)
	return thunk(func(f *frame) int64 { return f.cells[cell] })
}

func (b *ClosureBackend) Store(c Cell, v Value) {
	cell, value := c.(closureCell), v.(thunk)
	b.entry = append(b.entry, func(f *frame) error {
		f.cells[cell] = value(f)
		return nil
	})
}

func (b *ClosureBackend) WriteOutput(v Value) {
	value := v.(thunk)
	b.entry = append(b.entry, func(f *frame) error {
		_, err := fmt.Fprintf(f.out, "%d\n", value(f))
		return err
	})
}

func (b *ClosureBackend) EndEntry() {
	b.ended = true
}

func (b *ClosureBackend) Finish() (TranslationUnit, error) {
	if !b.began || !b.ended {
		return nil, errors.New("closure: no entry routine was emitted")
	}

	return &ClosureUnit{
		funcs:  b.funcs,
		cells:  b.cells,
		inputs: b.inputs,
		entry:  b.entry,
	}, nil
}

// ClosureUnit is a compiled program that runs in process.
type ClosureUnit struct {
	funcs  []*closureFunc
	cells  []Name
	inputs int
	entry  []func(f *frame) error
}

func (u *ClosureUnit) String() string {
	var str strings.Builder
	fmt.Fprintf(&str, "closure unit: %d inputs, %d cells\n", u.inputs, len(u.cells))
	for _, fn := range u.funcs {
		fmt.Fprintf(&str, "func %s/%d\n", fn.name, fn.arity)
	}

	return str.String()
}

// Exec runs the unit the way the native entry routine would: args[0] is the
// program name and each further argument is one input. It returns the
// process exit status.
func (u *ClosureUnit) Exec(args []string, stdout io.Writer) (int, error) {
	if len(args) != u.inputs+1 {
		_, err := fmt.Fprintf(stdout, "Program expects %d inputs but was provided with %d\n", u.inputs, len(args)-1)
		return 1, err
	}

	f := &frame{
		cells: make([]int64, len(u.cells)),
		args:  args,
		out:   stdout,
	}

	for _, stmt := range u.entry {
		if err := stmt(f); err != nil {
			return 1, err
		}
	}

	return 0, nil
}

// scanInt reads a leading decimal integer the way sscanf("%lld") does:
// leading space is skipped, anything after the digits is ignored, and text
// without digits reads as 0. Out of range values clamp.
func scanInt(s string) int64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}

	digits := end
	for end < len(s) && '0' <= s[end] && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0
	}

	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if s[0] == '-' {
			return math.MinInt64
		}

		return math.MaxInt64
	}

	return v
}
