package mathc

import "math"

// Saturating 64-bit arithmetic. Results that do not fit clamp to the nearest
// bound instead of wrapping, so no operation can fail at runtime.

func SatAdd(x, y int64) int64 {
	sum := x + y
	if (x >= 0) == (y >= 0) && (sum >= 0) != (x >= 0) {
		if x < 0 {
			return math.MinInt64
		}

		return math.MaxInt64
	}

	return sum
}

func SatSub(x, y int64) int64 {
	diff := x - y
	if (x >= 0) != (y >= 0) && (diff >= 0) != (x >= 0) {
		if x < 0 {
			return math.MinInt64
		}

		return math.MaxInt64
	}

	return diff
}

func SatMul(x, y int64) int64 {
	if x == 0 || y == 0 {
		return 0
	}

	product := x * y
	if product/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		if (x < 0) != (y < 0) {
			return math.MinInt64
		}

		return math.MaxInt64
	}

	return product
}

// SatDiv truncates toward zero. A zero divisor saturates toward the sign of
// the dividend (zero counts as positive) and MinInt64 / -1 gives MaxInt64.
func SatDiv(x, y int64) int64 {
	switch {
	case y == 0 && x < 0:
		return math.MinInt64
	case y == 0:
		return math.MaxInt64
	case x == math.MinInt64 && y == -1:
		return math.MaxInt64
	}

	return x / y
}

func applyOp(op BinaryOp, x, y int64) int64 {
	switch op {
	case BinaryAddition:
		return SatAdd(x, y)
	case BinarySubtraction:
		return SatSub(x, y)
	case BinaryMultiplication:
		return SatMul(x, y)
	case BinaryDivision:
		return SatDiv(x, y)
	default:
		panic("unexpected binary op: " + string(op))
	}
}
