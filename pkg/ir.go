package mathc

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) value.Value {
	if val, ok := l.vals[id]; ok {
		return val
	}

	// Only builtins are looked up by name, and they are always defined
	panic("undefined identifier: " + id)
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// LLVMIRBuilder is a Backend producing an LLVM IR module. Redefined
// functions get distinct symbols (fn.<name>.<n>) so every definition stays
// callable from the functions that captured it.
type LLVMIRBuilder struct {
	mod    *ir.Module
	fn     *ir.Func
	block  *ir.Block
	values *ValueLookup

	defs  map[Name]int
	entry *ir.Func
	argv  *ir.Param

	fmtInput  constant.Constant
	fmtOutput constant.Constant
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	builder := &LLVMIRBuilder{
		mod:    ir.NewModule(),
		values: NewValueLookup(),
		defs:   make(map[Name]int),
	}

	defineBuiltins(builder)
	builder.fmtInput = builder.cString("fmt.input", "%lld")
	builder.fmtOutput = builder.cString("fmt.output", "%lld\n")

	return builder
}

// NewLLVMBackend is NewLLVMIRBuilder typed as a Backend, for NewCompiler.
func NewLLVMBackend() Backend {
	return NewLLVMIRBuilder()
}

// cString defines a NUL terminated global and returns a pointer to its
// first byte.
func (b *LLVMIRBuilder) cString(name, s string) constant.Constant {
	data := constant.NewCharArrayFromString(s + "\x00")
	glob := b.mod.NewGlobalDef(name, data)
	glob.Immutable = true

	zero := i64(0)
	return constant.NewGetElementPtr(data.Typ, glob, zero, zero)
}

func (b *LLVMIRBuilder) Int(v int64) Value {
	return i64(v)
}

func (b *LLVMIRBuilder) SatAdd(x, y Value) Value {
	return b.builtinCall(builtinSaturatingAdd, x, y)
}

func (b *LLVMIRBuilder) SatSub(x, y Value) Value {
	return b.builtinCall(builtinSaturatingSub, x, y)
}

func (b *LLVMIRBuilder) SatMul(x, y Value) Value {
	return b.builtinCall(builtinSaturatingMul, x, y)
}

func (b *LLVMIRBuilder) SatDiv(x, y Value) Value {
	return b.builtinCall(builtinSaturatingDiv, x, y)
}

func (b *LLVMIRBuilder) builtinCall(name string, x, y Value) Value {
	return b.block.NewCall(b.values.Get(name), x.(value.Value), y.(value.Value))
}

func (b *LLVMIRBuilder) DefineFunc(name Name, params []Name, body func(params []Value) (Value, error)) (Function, error) {
	b.defs[name]++

	irParams := make([]*ir.Param, len(params))
	vals := make([]Value, len(params))
	for i, param := range params {
		irParams[i] = ir.NewParam(fmt.Sprintf("%s.%d", param, i), types.I64)
		vals[i] = irParams[i]
	}

	f := b.mod.NewFunc(fmt.Sprintf("fn.%s.%d", name, b.defs[name]), types.I64, irParams...)

	prevFn, prevBlock := b.fn, b.block
	b.fn = f
	b.block = f.NewBlock("entry")

	defer func() {
		b.fn = prevFn
		b.block = prevBlock
	}()

	v, err := body(vals)
	if err != nil {
		return nil, err
	}

	b.block.NewRet(v.(value.Value))

	return f, nil
}

func (b *LLVMIRBuilder) Call(fn Function, args []Value) Value {
	irArgs := make([]value.Value, len(args))
	for i, arg := range args {
		irArgs[i] = arg.(value.Value)
	}

	return b.block.NewCall(fn.(*ir.Func), irArgs...)
}

// Match lowers to a switch whose clause blocks all branch to a join block,
// where a phi picks the result. A repeated clause value is dropped, keeping
// the first.
func (b *LLVMIRBuilder) Match(scrutinee Value, cases []Case, def func() (Value, error)) (Value, error) {
	defaultBlock := b.fn.NewBlock("")
	sw := b.block.NewSwitch(scrutinee.(value.Value), defaultBlock)

	join := ir.NewBlock("")
	var incoming []*ir.Incoming

	branch := func(start *ir.Block, emit func() (Value, error)) error {
		b.block = start

		v, err := emit()
		if err != nil {
			return err
		}

		incoming = append(incoming, ir.NewIncoming(v.(value.Value), b.block))
		b.block.NewBr(join)

		return nil
	}

	seen := make(map[int64]bool, len(cases))
	for _, c := range cases {
		if seen[c.Value] {
			continue
		}
		seen[c.Value] = true

		start := b.fn.NewBlock("")
		sw.Cases = append(sw.Cases, ir.NewCase(i64(c.Value), start))

		if err := branch(start, c.Emit); err != nil {
			return nil, err
		}
	}

	if err := branch(defaultBlock, def); err != nil {
		return nil, err
	}

	join.Parent = b.fn
	b.fn.Blocks = append(b.fn.Blocks, join)
	b.block = join

	return join.NewPhi(incoming...), nil
}

func (b *LLVMIRBuilder) BeginEntry(inputs int) {
	argc := ir.NewParam("argc", types.I32)
	b.argv = ir.NewParam("argv", types.NewPointer(types.I8Ptr))
	b.entry = b.mod.NewFunc("main", types.I32, argc, b.argv)

	b.fn = b.entry
	entry := b.entry.NewBlock("entry")
	abort := b.entry.NewBlock("argv_abort")
	b.block = b.entry.NewBlock("input")

	mismatch := entry.NewICmp(enum.IPredNE, argc, i32(int64(inputs)+1))
	entry.NewCondBr(mismatch, abort, b.block)

	usage := b.cString("fmt.usage", fmt.Sprintf("Program expects %d inputs but was provided with %%d\n", inputs))
	provided := abort.NewSub(argc, i32(1))
	abort.NewCall(b.values.Get(builtinPrintf), usage, provided)
	abort.NewRet(i32(1))
}

func (b *LLVMIRBuilder) ReadInput(index int, c Cell) {
	arg := b.block.NewGetElementPtr(types.I8Ptr, b.argv, i64(int64(index)+1))
	str := b.block.NewLoad(types.I8Ptr, arg)
	b.block.NewCall(b.values.Get(builtinSscanf), str, b.fmtInput, c.(value.Value))
}

func (b *LLVMIRBuilder) Alloc(name Name) Cell {
	cell := b.block.NewAlloca(types.I64)
	cell.SetName(string(name) + ".addr")
	b.block.NewStore(i64(0), cell)

	return cell
}

func (b *LLVMIRBuilder) Load(c Cell) Value {
	return b.block.NewLoad(types.I64, c.(value.Value))
}

func (b *LLVMIRBuilder) Store(c Cell, v Value) {
	b.block.NewStore(v.(value.Value), c.(value.Value))
}

func (b *LLVMIRBuilder) WriteOutput(v Value) {
	b.block.NewCall(b.values.Get(builtinPrintf), b.fmtOutput, v.(value.Value))
}

func (b *LLVMIRBuilder) EndEntry() {
	b.block.NewRet(i32(0))
	b.fn = nil
	b.block = nil
}

func (b *LLVMIRBuilder) Finish() (TranslationUnit, error) {
	if b.entry == nil {
		return nil, errors.New("llvm: no entry routine was emitted")
	}

	return b.mod, nil
}
