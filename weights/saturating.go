package weights

import (
	"math"
	"math/bits"
)

// TimeScale converts the time regression's nanoseconds into picosecond
// weight units. Only the time dimension is scaled.
const TimeScale = 1000

// SaturatingMul returns a*b, or math.MaxUint64 on overflow.
func SaturatingMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// SaturatingAdd returns a+b, or math.MaxUint64 on overflow.
func SaturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// FloatToUint truncates v toward zero. NaN and negative values map to 0,
// values beyond the range saturate.
func FloatToUint(v float64) uint64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(v)
}
