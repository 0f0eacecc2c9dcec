package mathc

import (
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

const (
	builtinPrintf        = "printf"
	builtinSscanf        = "sscanf"
	builtinSaturatingAdd = "saturating_add"
	builtinSaturatingSub = "saturating_sub"
	builtinSaturatingMul = "saturating_mul"
	builtinSaturatingDiv = "saturating_div"
)

func defineBuiltins(b *LLVMIRBuilder) {
	defineBuiltinFunc(b, builtinPrintf, builtinVariadic)
	defineBuiltinFunc(b, builtinSscanf, builtinVariadic)
	defineBuiltinFunc(b, builtinSaturatingAdd, builtinSatAdd)
	defineBuiltinFunc(b, builtinSaturatingSub, builtinSatSub)
	defineBuiltinFunc(b, builtinSaturatingMul, builtinSatMul)
	defineBuiltinFunc(b, builtinSaturatingDiv, builtinSatDiv)
}

type funcDefinition = func(mod *ir.Module) *ir.Func

func defineBuiltinFunc(b *LLVMIRBuilder, name string, definition funcDefinition) {
	f := definition(b.mod)
	f.SetName(name)
	b.values.Set(name, f)
}

// builtinVariadic declares a libc function of the form int f(char *, ...).
func builtinVariadic(mod *ir.Module) *ir.Func {
	f := mod.NewFunc("", types.I32, ir.NewParam("format", types.I8Ptr))
	f.Sig.Variadic = true

	return f
}

// saturatingDirection decides, once overflow happened, whether the result
// clamps to MaxInt64 (true) or MinInt64 (false).
type saturatingDirection func(b *ir.Block, lhs, rhs value.Value) value.Value

func builtinSatAdd(mod *ir.Module) *ir.Func {
	return defineSaturating(mod, "llvm.sadd.with.overflow.i64", func(b *ir.Block, _, rhs value.Value) value.Value {
		return b.NewICmp(enum.IPredSGE, rhs, i64(0))
	})
}

func builtinSatSub(mod *ir.Module) *ir.Func {
	return defineSaturating(mod, "llvm.ssub.with.overflow.i64", func(b *ir.Block, _, rhs value.Value) value.Value {
		return b.NewICmp(enum.IPredSLT, rhs, i64(0))
	})
}

func builtinSatMul(mod *ir.Module) *ir.Func {
	return defineSaturating(mod, "llvm.smul.with.overflow.i64", func(b *ir.Block, lhs, rhs value.Value) value.Value {
		lhsNeg := b.NewICmp(enum.IPredSLT, lhs, i64(0))
		rhsNeg := b.NewICmp(enum.IPredSLT, rhs, i64(0))

		return b.NewICmp(enum.IPredEQ, lhsNeg, rhsNeg)
	})
}

// defineSaturating wraps an overflow reporting intrinsic: the plain result
// is returned unless the overflow flag is set, in which case direction picks
// the bound.
func defineSaturating(mod *ir.Module, intrinsic string, direction saturatingDirection) *ir.Func {
	overflowing := mod.NewFunc(intrinsic, types.NewStruct(types.I64, types.I1),
		ir.NewParam("", types.I64), ir.NewParam("", types.I64))

	lhs := ir.NewParam("lhs", types.I64)
	rhs := ir.NewParam("rhs", types.I64)
	f := mod.NewFunc("", types.I64, lhs, rhs)

	entry := f.NewBlock("entry")
	ok := f.NewBlock("ok")
	saturate := f.NewBlock("saturate")
	saturateMax := f.NewBlock("saturate_max")
	saturateMin := f.NewBlock("saturate_min")

	result := entry.NewCall(overflowing, lhs, rhs)
	result.SetName("result")
	v := entry.NewExtractValue(result, 0)
	v.SetName("value")
	overflowed := entry.NewExtractValue(result, 1)
	overflowed.SetName("overflowed")
	entry.NewCondBr(overflowed, saturate, ok)

	ok.NewRet(v)

	saturate.NewCondBr(direction(saturate, lhs, rhs), saturateMax, saturateMin)

	saturateMax.NewRet(i64(math.MaxInt64))
	saturateMin.NewRet(i64(math.MinInt64))

	return f
}

func builtinSatDiv(mod *ir.Module) *ir.Func {
	lhs := ir.NewParam("numerator", types.I64)
	rhs := ir.NewParam("denominator", types.I64)
	f := mod.NewFunc("", types.I64, lhs, rhs)

	entry := f.NewBlock("entry")
	byZero := f.NewBlock("by_zero")
	nonZero := f.NewBlock("non_zero")
	divide := f.NewBlock("divide")
	saturateMax := f.NewBlock("saturate_max")
	saturateMin := f.NewBlock("saturate_min")

	isZero := entry.NewICmp(enum.IPredEQ, rhs, i64(0))
	entry.NewCondBr(isZero, byZero, nonZero)

	negative := byZero.NewICmp(enum.IPredSLT, lhs, i64(0))
	byZero.NewCondBr(negative, saturateMin, saturateMax)

	isMin := nonZero.NewICmp(enum.IPredEQ, lhs, i64(math.MinInt64))
	isMinusOne := nonZero.NewICmp(enum.IPredEQ, rhs, i64(-1))
	overflows := nonZero.NewAnd(isMin, isMinusOne)
	nonZero.NewCondBr(overflows, saturateMax, divide)

	quotient := divide.NewSDiv(lhs, rhs)
	quotient.SetName("quotient")
	divide.NewRet(quotient)

	saturateMax.NewRet(i64(math.MaxInt64))
	saturateMin.NewRet(i64(math.MinInt64))

	return f
}

func i64(v int64) *constant.Int {
	return constant.NewInt(types.I64, v)
}

func i32(v int64) *constant.Int {
	return constant.NewInt(types.I32, v)
}
