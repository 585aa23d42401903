package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fullbleed/internal/units"
)

func sz() Size {
	return Size{Width: units.FromFloat(612), Height: units.FromFloat(792)}
}

func TestFillColorCoalesces(t *testing.T) {
	c := New(sz())
	c.SetFillColor(Black)
	require.Equal(t, 0, c.CurrentCommandCount(), "redundant fill color matching default must not emit")
	c.SetFillColor(Color{1, 0, 0})
	require.Equal(t, 1, c.CurrentCommandCount())
	c.SetFillColor(Color{1, 0, 0})
	require.Equal(t, 1, c.CurrentCommandCount(), "redundant fill color must not emit")
}

func TestMiterLimitAndDashAndOpacityNeverCoalesce(t *testing.T) {
	c := New(sz())
	c.SetMiterLimit(units.FromFloat(4))
	c.SetMiterLimit(units.FromFloat(4))
	assert.Equal(t, 2, c.CurrentCommandCount(), "miter limit always pushes, even when redundant")

	c = New(sz())
	c.SetOpacity(0.5, 0.5)
	c.SetOpacity(0.5, 0.5)
	assert.Equal(t, 2, c.CurrentCommandCount(), "opacity always pushes")

	c = New(sz())
	c.SetDash([]units.Pt{units.FromFloat(2)}, units.Zero())
	c.SetDash([]units.Pt{units.FromFloat(2)}, units.Zero())
	assert.Equal(t, 2, c.CurrentCommandCount(), "dash always pushes")
}

func TestOpacityClamped(t *testing.T) {
	c := New(sz())
	c.SetOpacity(-1, 2)
	op := c.current.Commands[0].(SetOpacity)
	assert.Equal(t, 0.0, op.Fill)
	assert.Equal(t, 1.0, op.Stroke)
}

func TestLineWidthClampedToZero(t *testing.T) {
	c := New(sz())
	c.SetLineWidth(units.FromFloat(-5))
	w := c.current.Commands[0].(SetLineWidth)
	assert.Equal(t, units.Zero(), w.Width)
}

func TestSaveRestoreBalances(t *testing.T) {
	c := New(sz())
	c.SetFillColor(Color{1, 0, 0})
	c.SaveState()
	c.SetFillColor(Color{0, 1, 0})
	c.RestoreState()
	c.SetFillColor(Color{1, 0, 0})
	// Redundant because restore brought the state back to red.
	count := c.CurrentCommandCount()
	c.SetFillColor(Color{1, 0, 0})
	assert.Equal(t, count, c.CurrentCommandCount())
}

func TestRestoreOnEmptyStackIsIgnored(t *testing.T) {
	c := New(sz())
	c.RestoreState()
	assert.Equal(t, 0, c.CurrentCommandCount())
}

func TestShowPageResetsDefaults(t *testing.T) {
	c := New(sz())
	c.SetFillColor(Color{1, 0, 0})
	c.SetFontSize(units.FromFloat(24))
	c.ShowPage()
	// Fresh page: setting black/Helvetica-12 again should coalesce to no-op.
	c.SetFillColor(Black)
	c.SetFontSize(units.FromFloat(12))
	assert.Equal(t, 0, c.CurrentCommandCount())
}

func TestShowPageOnEmptyPageStillPushesBlankPage(t *testing.T) {
	c := New(sz())
	c.ShowPage()
	doc := c.Finish()
	assert.Len(t, doc.Pages, 1) // the blank pushed by ShowPage; Finish adds none since a page already exists
}

func TestFinishPushesCurrentWhenNonemptyOrNoPages(t *testing.T) {
	c := New(sz())
	doc := c.Finish()
	require.Len(t, doc.Pages, 1, "finish on a fresh canvas still yields one page")

	c2 := New(sz())
	c2.DrawRect(units.Zero(), units.Zero(), units.FromFloat(10), units.FromFloat(10))
	doc2 := c2.Finish()
	require.Len(t, doc2.Pages, 1)
	assert.Len(t, doc2.Pages[0].Commands, 1)
}

func TestBeginTagAllocatesMonotoneMCIDUnlessGroupOnly(t *testing.T) {
	c := New(sz())
	m0 := c.BeginTag("P", nil, nil, nil, nil, false)
	require.NotNil(t, m0)
	assert.Equal(t, uint32(0), *m0)
	m1 := c.BeginTag("P", nil, nil, nil, nil, false)
	require.NotNil(t, m1)
	assert.Equal(t, uint32(1), *m1)
	mGroup := c.BeginTag("Div", nil, nil, nil, nil, true)
	assert.Nil(t, mGroup)
}

func TestBeginTagMCIDSaturatesAtUint32Max(t *testing.T) {
	c := New(sz())
	c.currentMCID = ^uint32(0)
	m := c.BeginTag("P", nil, nil, nil, nil, false)
	require.NotNil(t, m)
	assert.Equal(t, ^uint32(0), *m)
	assert.Equal(t, ^uint32(0), c.currentMCID)
}

func TestRecordFlowableBoundsEmitsMetaAndRoundTrips(t *testing.T) {
	c := New(sz())
	r := Rect{X: units.FromFloat(1), Y: units.FromFloat(2), Width: units.FromFloat(3), Height: units.FromFloat(4)}
	c.RecordFlowableBounds(r)
	m := c.current.Commands[0].(Meta)
	assert.Equal(t, "__fb_bbox", m.Key)
	got, ok := ParseBBoxMeta(m.Value)
	require.True(t, ok)
	assert.Equal(t, r, got)
}

func TestNormalizeStopsPadsAndDuplicates(t *testing.T) {
	single := NormalizeStops([]Stop{{0.5, Color{1, 0, 0}}})
	require.Len(t, single, 2)
	assert.Equal(t, 0.0, single[0].Offset)
	assert.Equal(t, 1.0, single[1].Offset)
	assert.Equal(t, single[0].Color, single[1].Color)

	padded := NormalizeStops([]Stop{{0.3, Color{0, 1, 0}}, {0.7, Color{0, 0, 1}}})
	require.Len(t, padded, 4)
	assert.Equal(t, 0.0, padded[0].Offset)
	assert.Equal(t, 1.0, padded[len(padded)-1].Offset)
}

func TestCMYKBlackAtKOne(t *testing.T) {
	c, m, y, k := Black.CMYK()
	assert.Equal(t, 0.0, c)
	assert.Equal(t, 0.0, m)
	assert.Equal(t, 0.0, y)
	assert.Equal(t, 1.0, k)
}
