// Package units implements the fixed-point length arithmetic every
// downstream component (canvas, plan, pdf) rounds through. No float
// truncation is permitted for a length that affects output bytes.
package units

import (
	"math"
	"math/big"
)

// Milli is the quantum: one Pt unit is 1/1000 of a typographic point.
const Milli int64 = 1000

// Pt is a signed length in typographic points, stored as an exact count
// of milli-points.
type Pt int64

// Zero is the additive identity.
func Zero() Pt { return 0 }

// FromFloat converts a float64 point value to the nearest milli-point,
// rounding ties to even.
func FromFloat(v float64) Pt {
	scaled := v * float64(Milli)
	return Pt(roundHalfEven(scaled))
}

// ToFloat converts back to a float64 point value for display only.
func (p Pt) ToFloat() float64 {
	return float64(p) / float64(Milli)
}

// ToMilliI64 returns the raw milli-point count.
func (p Pt) ToMilliI64() int64 {
	return int64(p)
}

// FromMilliI64 builds a Pt from a raw milli-point count, e.g. when
// decoding the spill wire format.
func FromMilliI64(m int64) Pt {
	return Pt(m)
}

func (p Pt) Add(o Pt) Pt { return p + o }
func (p Pt) Sub(o Pt) Pt { return p - o }
func (p Pt) Neg() Pt     { return -p }

func (p Pt) Min(o Pt) Pt {
	if p < o {
		return p
	}
	return o
}

func (p Pt) Max(o Pt) Pt {
	if p > o {
		return p
	}
	return o
}

// ScaleRatio multiplies by the exact rational num/den, rounding the
// integer quotient half-to-even. den must be nonzero.
func (p Pt) ScaleRatio(num, den int64) Pt {
	if den == 0 {
		return p
	}
	if den < 0 {
		num, den = -num, -den
	}
	n := int64(p) * num
	q, r := n/den, n%den
	if r == 0 {
		return Pt(q)
	}
	return Pt(roundRemainder(q, r, den))
}

// fixedShift is the Q32.32 binary point position.
const fixedShift = 32

// ScaleFixed multiplies by a Q32.32 fixed-point factor (e.g. 1.5 encoded
// as int64(1.5 * (1<<32))), rounding half-to-even. Uses big.Int so large
// milli-point magnitudes times a 64-bit factor never overflow.
func (p Pt) ScaleFixed(q32_32 int64) Pt {
	n := big.NewInt(int64(p))
	n.Mul(n, big.NewInt(q32_32))
	den := new(big.Int).Lsh(big.NewInt(1), fixedShift)

	q, r := new(big.Int), new(big.Int)
	q.QuoRem(n, den, r)
	if r.Sign() == 0 {
		return Pt(q.Int64())
	}

	twice := new(big.Int).Abs(r)
	twice.Lsh(twice, 1)
	ad := new(big.Int).Abs(den)

	step := big.NewInt(1)
	if r.Sign() < 0 {
		step = big.NewInt(-1)
	}

	cmp := twice.Cmp(ad)
	switch {
	case cmp < 0:
		return Pt(q.Int64())
	case cmp > 0:
		q.Add(q, step)
		return Pt(q.Int64())
	default:
		if q.Int64()%2 == 0 {
			return Pt(q.Int64())
		}
		q.Add(q, step)
		return Pt(q.Int64())
	}
}

// roundHalfEven rounds a float to the nearest integer, ties to even.
func roundHalfEven(v float64) int64 {
	floor := math.Floor(v)
	diff := v - floor
	switch {
	case diff < 0.5:
		return int64(floor)
	case diff > 0.5:
		return int64(floor) + 1
	default:
		// Exactly .5: choose the even integer.
		lo := int64(floor)
		if lo%2 == 0 {
			return lo
		}
		return lo + 1
	}
}

// roundRemainder rounds q + r/den to the nearest integer, ties to even.
// q and r come from Go's truncating division of some n by a positive den
// (n = q*den + r), so r carries the sign of n (or is zero); moving away
// from zero means stepping q by sign(r).
func roundRemainder(q, r, den int64) int64 {
	if r == 0 {
		return q
	}
	ar, ad := absI64(r), absI64(den)
	twice := ar * 2
	step := int64(1)
	if r < 0 {
		step = -1
	}
	switch {
	case twice < ad:
		return q
	case twice > ad:
		return q + step
	default:
		// Exactly halfway: round to even.
		if q%2 == 0 {
			return q
		}
		return q + step
	}
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
