package stn

import "math"

// Bound is a closed bounded-difference constraint: low <= v - u <= high.
type Bound struct {
	Low  int64
	High int64
}

// PosInf and NegInf stand in for +/-infinity. True int64 infinities would
// overflow under addition during propagation, so a large-but-safe sentinel
// is used instead; addSaturating clamps to these bounds rather than
// overflowing.
const (
	PosInf int64 = math.MaxInt64 / 4
	NegInf int64 = -PosInf
)

// Unconstrained is the (-inf, +inf) bound assigned to unrelated points.
var Unconstrained = Bound{Low: NegInf, High: PosInf}

// Zero is the (0,0) self-loop bound.
var Zero = Bound{Low: 0, High: 0}

// addSaturating adds two values, clamping to [NegInf, PosInf] instead of
// overflowing when either operand is already an infinity sentinel.
func addSaturating(a, b int64) int64 {
	if a <= NegInf || b <= NegInf {
		return NegInf
	}
	if a >= PosInf || b >= PosInf {
		return PosInf
	}
	sum := a + b
	if sum > PosInf {
		return PosInf
	}
	if sum < NegInf {
		return NegInf
	}
	return sum
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Intersect returns the tightest bound satisfying both a and b.
func Intersect(a, b Bound) Bound {
	return Bound{Low: maxInt64(a.Low, b.Low), High: minInt64(a.High, b.High)}
}

// Relax returns the loosest bound satisfying either a or b.
func Relax(a, b Bound) Bound {
	return Bound{Low: minInt64(a.Low, b.Low), High: maxInt64(a.High, b.High)}
}

// Empty reports whether the bound admits no value.
func (b Bound) Empty() bool {
	return b.Low > b.High
}

// Symmetric returns the bound for the reversed pair: (-high, -low).
func (b Bound) Symmetric() Bound {
	return Bound{Low: negSaturating(b.High), High: negSaturating(b.Low)}
}

func negSaturating(v int64) int64 {
	if v >= PosInf {
		return NegInf
	}
	if v <= NegInf {
		return PosInf
	}
	return -v
}
