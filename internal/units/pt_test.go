package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFloatRoundsHalfToEven(t *testing.T) {
	assert.Equal(t, Pt(2), FromFloat(0.002))
	assert.Equal(t, Pt(1000), FromFloat(1.0))
	// 0.0025 pt -> 2.5 milli, ties to even -> 2
	assert.Equal(t, Pt(2), FromFloat(0.0025))
	// 0.0035 pt -> 3.5 milli, ties to even -> 4
	assert.Equal(t, Pt(4), FromFloat(0.0035))
}

func TestAddSubNeg(t *testing.T) {
	a := FromFloat(1.5)
	b := FromFloat(2.25)
	assert.Equal(t, FromFloat(3.75), a.Add(b))
	assert.Equal(t, FromFloat(-0.75), a.Sub(b))
	assert.Equal(t, FromFloat(-1.5), a.Neg())
}

func TestMinMax(t *testing.T) {
	a, b := Pt(10), Pt(20)
	assert.Equal(t, a, a.Min(b))
	assert.Equal(t, b, a.Max(b))
}

func TestScaleRatioHalfToEven(t *testing.T) {
	// 3 milli * 1/2 = 1.5 -> ties to even -> 2
	assert.Equal(t, Pt(2), Pt(3).ScaleRatio(1, 2))
	// 5 milli * 1/2 = 2.5 -> ties to even -> 2
	assert.Equal(t, Pt(2), Pt(5).ScaleRatio(1, 2))
	// exact
	assert.Equal(t, Pt(10), Pt(20).ScaleRatio(1, 2))
	// negative numerator
	assert.Equal(t, Pt(-2), Pt(3).ScaleRatio(-1, 2))
}

func TestScaleFixed(t *testing.T) {
	one := int64(1) << 32
	half := one / 2
	p := FromFloat(10.0)
	assert.Equal(t, p, p.ScaleFixed(one))
	assert.Equal(t, FromFloat(5.0), p.ScaleFixed(half))
}

func TestToFloatToMilli(t *testing.T) {
	p := FromFloat(12.345)
	assert.InDelta(t, 12.345, p.ToFloat(), 0.0005)
	assert.Equal(t, int64(12345), p.ToMilliI64())
	assert.Equal(t, p, FromMilliI64(12345))
}
