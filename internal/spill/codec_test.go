package spill

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fullbleed/internal/canvas"
	"fullbleed/internal/units"
)

func sampleDocument() canvas.Document {
	tableID := uint32(3)
	colIndex := uint16(1)
	alt := "a chart"
	return canvas.Document{
		PageSize: canvas.Size{Width: units.FromFloat(612), Height: units.FromFloat(792)},
		Pages: []canvas.Page{
			{Commands: []canvas.Command{
				canvas.SaveState{},
				canvas.Translate{X: units.FromFloat(10), Y: units.FromFloat(20)},
				canvas.SetFillColor{Color: canvas.Color{R: 0.1, G: 0.2, B: 0.3}},
				canvas.SetDash{Pattern: []units.Pt{units.FromFloat(1), units.FromFloat(2)}, Phase: units.FromFloat(0.5)},
				canvas.BeginTag{Role: "Figure", MCID: nil, Alt: &alt, TableID: &tableID, ColIndex: &colIndex, GroupOnly: false},
				canvas.DrawGlyphRun{
					X: units.FromFloat(1), Y: units.FromFloat(2),
					GlyphIDs: []uint16{10, 11, 12},
					Advances: []canvas.Advance{{DX: units.FromFloat(5), DY: units.Zero()}},
					M00:      1, M01: 0, M10: 0, M11: 1,
				},
				canvas.ShadingFill{Shading: canvas.Axial{
					X0: units.Zero(), Y0: units.Zero(), X1: units.FromFloat(100), Y1: units.Zero(),
					Stops: canvas.NormalizeStops([]canvas.Stop{{Offset: 0.5, Color: canvas.Color{R: 1}}}),
				}},
				canvas.DefineForm{
					ResourceID: "form1",
					Width:      units.FromFloat(50),
					Height:     units.FromFloat(50),
					Commands:   []canvas.Command{canvas.Fill{}},
				},
				canvas.SetBlendMode{Mode: "multiply"},
				canvas.ApplyBackdropFilter{Filter: "blur(4px)"},
				canvas.EndTag{},
				canvas.RestoreState{},
			}},
		},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := sampleDocument()
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))

	got, err := ReadDocument(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestReadDocumentRejectsUnknownTag(t *testing.T) {
	var buf bytes.Buffer
	w := &writer{w: bufio.NewWriter(&buf)}
	w.writeSize(canvas.Size{Width: units.FromFloat(1), Height: units.FromFloat(1)})
	w.writeU32(1)
	w.writeU32(1)
	w.writeU8(255)
	require.NoError(t, w.w.Flush())

	_, err := ReadDocument(&buf)
	assert.Error(t, err)
}
