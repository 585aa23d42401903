package pagedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fullbleed/internal/canvas"
	"fullbleed/internal/units"
)

func TestParseScaledIntMoneyLike(t *testing.T) {
	v, ok := ParseScaledInt("$35.07", 2)
	require.True(t, ok)
	assert.Equal(t, int64(3507), v)

	v, ok = ParseScaledInt("35.07", 2)
	require.True(t, ok)
	assert.Equal(t, int64(3507), v)

	v, ok = ParseScaledInt("1,234.56", 2)
	require.True(t, ok)
	assert.Equal(t, int64(123456), v)

	v, ok = ParseScaledInt("-0.10", 2)
	require.True(t, ok)
	assert.Equal(t, int64(-10), v)

	v, ok = ParseScaledInt("10", 2)
	require.True(t, ok)
	assert.Equal(t, int64(1000), v)

	_, ok = ParseScaledInt("no digits here", 2)
	assert.False(t, ok)
}

func TestFormatScaledIntMoneyLike(t *testing.T) {
	assert.Equal(t, "35.07", FormatScaledInt(3507, 2))
	assert.Equal(t, "-0.10", FormatScaledInt(-10, 2))
	assert.Equal(t, "10.00", FormatScaledInt(1000, 2))
	assert.Equal(t, "12", FormatScaledInt(12, 0))
}

func TestScaledIntRoundTrip(t *testing.T) {
	for _, scale := range []uint32{0, 2} {
		for _, v := range []int64{0, 1, -1, 12345, -999999999, 1000000000} {
			s := FormatScaledInt(v, scale)
			got, ok := ParseScaledInt(s, scale)
			require.True(t, ok)
			assert.Equal(t, v, got, "round trip scale=%d value=%d formatted=%q", scale, v, s)
		}
	}
}

func metaPage(pairs ...[2]string) canvas.Page {
	var cmds []canvas.Command
	for _, p := range pairs {
		cmds = append(cmds, canvas.Meta{Key: p[0], Value: p[1]})
	}
	return canvas.Page{Commands: cmds}
}

func TestMoneyPaginationScenario(t *testing.T) {
	doc := canvas.Document{
		PageSize: canvas.Size{Width: units.FromFloat(595), Height: units.FromFloat(842)},
		Pages: []canvas.Page{
			metaPage([2]string{"items.cost", "$1.00"}, [2]string{"items.cost", "$2.50"}),
			metaPage([2]string{"items.cost", "$3.25"}),
		},
	}
	spec := Spec{Ops: map[string]Op{"items.cost": {Kind: OpSum, Scale: 2}}}
	ctx := Compute(doc, spec)

	got1 := SubstitutePlaceholders("P{page}/{pages} sum={sum:items.cost} total={total:items.cost}", 1, 2, &ctx)
	assert.Equal(t, "P1/2 sum=3.50 total=6.75", got1)

	got2 := SubstitutePlaceholders("sum={sum:items.cost} total={total:items.cost}", 2, 2, &ctx)
	assert.Equal(t, "sum=3.25 total=6.75", got2)
}

func TestUnknownTokenPassesThroughVerbatim(t *testing.T) {
	got := SubstitutePlaceholders("value={weird:foo}", 1, 1, &Context{})
	assert.Equal(t, "value={weird:foo}", got)
}

func TestUnclosedTokenPreservedByteExact(t *testing.T) {
	got := SubstitutePlaceholders("trailing {page", 3, 3, nil)
	assert.Equal(t, "trailing {page", got)
}

func TestNilContextLeavesTokensVerbatim(t *testing.T) {
	got := SubstitutePlaceholders("{sum:x}", 1, 1, nil)
	assert.Equal(t, "{sum:x}", got)
}

func TestParseOp(t *testing.T) {
	op, ok := ParseOp("Every")
	require.True(t, ok)
	assert.Equal(t, OpEvery, op.Kind)

	op, ok = ParseOp("SUM")
	require.True(t, ok)
	assert.Equal(t, OpSum, op.Kind)
	assert.Equal(t, uint32(2), op.Scale)

	op, ok = ParseOp("sum:4")
	require.True(t, ok)
	assert.Equal(t, uint32(4), op.Scale)

	_, ok = ParseOp("bogus")
	assert.False(t, ok)
}
