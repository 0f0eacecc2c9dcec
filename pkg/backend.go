package mathc

import "fmt"

// Value is a backend specific handle to an emitted integer.
type Value interface{}

// Cell is a backend specific handle to a named mutable storage slot.
type Cell interface{}

// Function is a backend specific handle to a defined function.
type Function interface{}

// TranslationUnit is the opaque result of a compilation, handed to whatever
// turns it into a runnable program.
type TranslationUnit interface {
	fmt.Stringer
}

// Case is one clause of a Backend.Match. Emit produces the clause result in
// whatever position the backend has prepared for it.
type Case struct {
	Value int64
	Emit  func() (Value, error)
}

// Backend is everything the code generation driver needs from a native code
// emitter. The four arithmetic primitives must follow SatAdd, SatSub, SatMul
// and SatDiv exactly.
type Backend interface {
	Int(v int64) Value

	SatAdd(x, y Value) Value
	SatSub(x, y Value) Value
	SatMul(x, y Value) Value
	SatDiv(x, y Value) Value

	// DefineFunc emits a function taking len(params) integers. body receives
	// one Value per parameter and returns the result.
	DefineFunc(name Name, params []Name, body func(params []Value) (Value, error)) (Function, error)
	Call(fn Function, args []Value) Value

	// Match evaluates to the result of the first case equal to scrutinee, or
	// to def. Only the selected branch runs.
	Match(scrutinee Value, cases []Case, def func() (Value, error)) (Value, error)

	// BeginEntry starts the program entry routine, which rejects any
	// invocation that does not pass exactly inputs arguments.
	BeginEntry(inputs int)
	ReadInput(index int, c Cell)
	Alloc(name Name) Cell
	Load(c Cell) Value
	Store(c Cell, v Value)
	WriteOutput(v Value)
	EndEntry()

	Finish() (TranslationUnit, error)
}
