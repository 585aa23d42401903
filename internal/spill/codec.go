// Package spill encodes canvas.Document values to a compact binary form so
// a render job can hand large page content off to disk or object storage
// between the plan and PDF stages instead of holding every page in memory
// at once.
package spill

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"fullbleed/internal/canvas"
	"fullbleed/internal/units"
)

// Command tags. Numbering follows the order commands were added to the
// format, not declaration order, so older spill files stay readable as new
// variants are appended at the end of the range.
const (
	tagSaveState = iota + 1
	tagRestoreState
	tagTranslate
	tagScale
	tagRotate
	tagMeta
	tagSetFillColor
	tagSetStrokeColor
	tagSetLineWidth
	tagSetLineCap
	tagSetLineJoin
	tagSetMiterLimit
	tagSetDash
	tagSetOpacity
	tagSetFontName
	tagSetFontSize
	tagClipRect
	tagClipPath
	tagShadingFill
	tagMoveTo
	tagLineTo
	tagCurveTo
	tagClosePath
	tagFill
	tagFillEvenOdd
	tagStroke
	tagFillStroke
	tagFillStrokeEvenOdd
	tagDrawString
	tagDrawRect
	tagDrawImage
	tagBeginTag
	tagEndTag
	tagDefineForm
	tagDrawForm
	tagBeginArtifact
	tagBeginOptionalContent
	tagEndMarkedContent
	tagDrawGlyphRun
	tagDrawStringTransformed
	tagConcatMatrix
	tagSetBlendMode
	tagApplyBackdropFilter
)

const (
	shadingAxial  = 1
	shadingRadial = 2
)

// WriteDocument encodes doc to out.
func WriteDocument(out io.Writer, doc canvas.Document) error {
	w := &writer{w: bufio.NewWriter(out)}
	w.writeSize(doc.PageSize)
	w.writeU32(uint32(len(doc.Pages)))
	for _, page := range doc.Pages {
		w.writePage(page)
	}
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// ReadDocument decodes a canvas.Document previously written by WriteDocument.
func ReadDocument(in io.Reader) (canvas.Document, error) {
	r := &reader{r: bufio.NewReader(in)}
	size := r.readSize()
	count := int(r.readU32())
	pages := make([]canvas.Page, 0, count)
	for i := 0; i < count; i++ {
		pages = append(pages, r.readPage())
	}
	if r.err != nil {
		return canvas.Document{}, r.err
	}
	return canvas.Document{PageSize: size, Pages: pages}, nil
}

type writer struct {
	w   *bufio.Writer
	err error
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *writer) writeBytes(b []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.w.Write(b); err != nil {
		w.fail(err)
	}
}

func (w *writer) writeU8(v uint8)   { w.writeBytes([]byte{v}) }
func (w *writer) writeBool(v bool)  { w.writeU8(boolByte(v)) }
func (w *writer) writeU16(v uint16) { var b [2]byte; binary.LittleEndian.PutUint16(b[:], v); w.writeBytes(b[:]) }
func (w *writer) writeU32(v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); w.writeBytes(b[:]) }
func (w *writer) writeI64(v int64)  { w.writeU32(uint32(uint64(v))); w.writeU32(uint32(uint64(v) >> 32)) }
func (w *writer) writeF32(v float64) {
	w.writeU32(math.Float32bits(float32(v)))
}
func (w *writer) writePt(v units.Pt) { w.writeI64(v.ToMilliI64()) }

func (w *writer) writeString(s string) {
	b := []byte(s)
	w.writeU32(uint32(len(b)))
	w.writeBytes(b)
}

func (w *writer) writeOptionString(s *string) {
	if s == nil {
		w.writeU8(0)
		return
	}
	w.writeU8(1)
	w.writeString(*s)
}

func (w *writer) writeOptionU32(v *uint32) {
	if v == nil {
		w.writeU8(0)
		return
	}
	w.writeU8(1)
	w.writeU32(*v)
}

func (w *writer) writeOptionU16(v *uint16) {
	if v == nil {
		w.writeU8(0)
		return
	}
	w.writeU8(1)
	w.writeU16(*v)
}

func (w *writer) writeColor(c canvas.Color) {
	w.writeF32(c.R)
	w.writeF32(c.G)
	w.writeF32(c.B)
}

func (w *writer) writeSize(s canvas.Size) {
	w.writePt(s.Width)
	w.writePt(s.Height)
}

func (w *writer) writeStops(stops []canvas.Stop) {
	w.writeU32(uint32(len(stops)))
	for _, s := range stops {
		w.writeF32(s.Offset)
		w.writeColor(s.Color)
	}
}

func (w *writer) writeShading(s canvas.Shading) {
	switch v := s.(type) {
	case canvas.Axial:
		w.writeU8(shadingAxial)
		w.writePt(v.X0)
		w.writePt(v.Y0)
		w.writePt(v.X1)
		w.writePt(v.Y1)
		w.writeStops(v.Stops)
	case canvas.Radial:
		w.writeU8(shadingRadial)
		w.writePt(v.X0)
		w.writePt(v.Y0)
		w.writePt(v.R0)
		w.writePt(v.X1)
		w.writePt(v.Y1)
		w.writePt(v.R1)
		w.writeStops(v.Stops)
	default:
		w.fail(fmt.Errorf("spill: unknown shading type %T", s))
	}
}

func (w *writer) writePage(p canvas.Page) {
	w.writeU32(uint32(len(p.Commands)))
	for _, cmd := range p.Commands {
		w.writeCommand(cmd)
	}
}

func (w *writer) writeCommand(cmd canvas.Command) {
	switch c := cmd.(type) {
	case canvas.SaveState:
		w.writeU8(tagSaveState)
	case canvas.RestoreState:
		w.writeU8(tagRestoreState)
	case canvas.Translate:
		w.writeU8(tagTranslate)
		w.writePt(c.X)
		w.writePt(c.Y)
	case canvas.Scale:
		w.writeU8(tagScale)
		w.writeF32(c.SX)
		w.writeF32(c.SY)
	case canvas.Rotate:
		w.writeU8(tagRotate)
		w.writeF32(c.Radians)
	case canvas.ConcatMatrix:
		w.writeU8(tagConcatMatrix)
		w.writeF32(c.A)
		w.writeF32(c.B)
		w.writeF32(c.C)
		w.writeF32(c.D)
		w.writePt(c.E)
		w.writePt(c.F)
	case canvas.Meta:
		w.writeU8(tagMeta)
		w.writeString(c.Key)
		w.writeString(c.Value)
	case canvas.SetFillColor:
		w.writeU8(tagSetFillColor)
		w.writeColor(c.Color)
	case canvas.SetStrokeColor:
		w.writeU8(tagSetStrokeColor)
		w.writeColor(c.Color)
	case canvas.SetLineWidth:
		w.writeU8(tagSetLineWidth)
		w.writePt(c.Width)
	case canvas.SetLineCap:
		w.writeU8(tagSetLineCap)
		w.writeU8(c.Cap)
	case canvas.SetLineJoin:
		w.writeU8(tagSetLineJoin)
		w.writeU8(c.Join)
	case canvas.SetMiterLimit:
		w.writeU8(tagSetMiterLimit)
		w.writePt(c.Limit)
	case canvas.SetDash:
		w.writeU8(tagSetDash)
		w.writeU32(uint32(len(c.Pattern)))
		for _, p := range c.Pattern {
			w.writePt(p)
		}
		w.writePt(c.Phase)
	case canvas.SetOpacity:
		w.writeU8(tagSetOpacity)
		w.writeF32(c.Fill)
		w.writeF32(c.Stroke)
	case canvas.SetBlendMode:
		w.writeU8(tagSetBlendMode)
		w.writeString(c.Mode)
	case canvas.ApplyBackdropFilter:
		w.writeU8(tagApplyBackdropFilter)
		w.writeString(c.Filter)
	case canvas.SetFontName:
		w.writeU8(tagSetFontName)
		w.writeString(c.Name)
	case canvas.SetFontSize:
		w.writeU8(tagSetFontSize)
		w.writePt(c.Size)
	case canvas.ClipRect:
		w.writeU8(tagClipRect)
		w.writePt(c.X)
		w.writePt(c.Y)
		w.writePt(c.Width)
		w.writePt(c.Height)
	case canvas.ClipPath:
		w.writeU8(tagClipPath)
		w.writeBool(c.EvenOdd)
	case canvas.ShadingFill:
		w.writeU8(tagShadingFill)
		w.writeShading(c.Shading)
	case canvas.MoveTo:
		w.writeU8(tagMoveTo)
		w.writePt(c.X)
		w.writePt(c.Y)
	case canvas.LineTo:
		w.writeU8(tagLineTo)
		w.writePt(c.X)
		w.writePt(c.Y)
	case canvas.CurveTo:
		w.writeU8(tagCurveTo)
		w.writePt(c.X1)
		w.writePt(c.Y1)
		w.writePt(c.X2)
		w.writePt(c.Y2)
		w.writePt(c.X)
		w.writePt(c.Y)
	case canvas.ClosePath:
		w.writeU8(tagClosePath)
	case canvas.Fill:
		w.writeU8(tagFill)
	case canvas.FillEvenOdd:
		w.writeU8(tagFillEvenOdd)
	case canvas.Stroke:
		w.writeU8(tagStroke)
	case canvas.FillStroke:
		w.writeU8(tagFillStroke)
	case canvas.FillStrokeEvenOdd:
		w.writeU8(tagFillStrokeEvenOdd)
	case canvas.DrawString:
		w.writeU8(tagDrawString)
		w.writePt(c.X)
		w.writePt(c.Y)
		w.writeString(c.Text)
	case canvas.DrawStringTransformed:
		w.writeU8(tagDrawStringTransformed)
		w.writePt(c.X)
		w.writePt(c.Y)
		w.writeString(c.Text)
		w.writeF32(c.M00)
		w.writeF32(c.M01)
		w.writeF32(c.M10)
		w.writeF32(c.M11)
	case canvas.DrawGlyphRun:
		w.writeU8(tagDrawGlyphRun)
		w.writePt(c.X)
		w.writePt(c.Y)
		w.writeU32(uint32(len(c.GlyphIDs)))
		for _, g := range c.GlyphIDs {
			w.writeU16(g)
		}
		w.writeU32(uint32(len(c.Advances)))
		for _, a := range c.Advances {
			w.writePt(a.DX)
			w.writePt(a.DY)
		}
		w.writeF32(c.M00)
		w.writeF32(c.M01)
		w.writeF32(c.M10)
		w.writeF32(c.M11)
	case canvas.DrawRect:
		w.writeU8(tagDrawRect)
		w.writePt(c.X)
		w.writePt(c.Y)
		w.writePt(c.Width)
		w.writePt(c.Height)
	case canvas.DrawImage:
		w.writeU8(tagDrawImage)
		w.writePt(c.X)
		w.writePt(c.Y)
		w.writePt(c.Width)
		w.writePt(c.Height)
		w.writeString(c.ResourceID)
	case canvas.BeginTag:
		w.writeU8(tagBeginTag)
		w.writeString(c.Role)
		w.writeOptionU32(c.MCID)
		w.writeOptionString(c.Alt)
		w.writeOptionString(c.Scope)
		w.writeOptionU32(c.TableID)
		w.writeOptionU16(c.ColIndex)
		w.writeBool(c.GroupOnly)
	case canvas.EndTag:
		w.writeU8(tagEndTag)
	case canvas.DefineForm:
		w.writeU8(tagDefineForm)
		w.writeString(c.ResourceID)
		w.writePt(c.Width)
		w.writePt(c.Height)
		w.writeU32(uint32(len(c.Commands)))
		for _, sub := range c.Commands {
			w.writeCommand(sub)
		}
	case canvas.DrawForm:
		w.writeU8(tagDrawForm)
		w.writePt(c.X)
		w.writePt(c.Y)
		w.writePt(c.Width)
		w.writePt(c.Height)
		w.writeString(c.ResourceID)
	case canvas.BeginArtifact:
		w.writeU8(tagBeginArtifact)
		w.writeOptionString(c.Subtype)
	case canvas.BeginOptionalContent:
		w.writeU8(tagBeginOptionalContent)
		w.writeString(c.Name)
	case canvas.EndMarkedContent:
		w.writeU8(tagEndMarkedContent)
	default:
		w.fail(fmt.Errorf("spill: unknown command type %T", cmd))
	}
}

type reader struct {
	r   *bufio.Reader
	err error
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.fail(err)
	}
	return buf
}

func (r *reader) readU8() uint8   { return r.readBytes(1)[0] }
func (r *reader) readBool() bool  { return r.readU8() != 0 }
func (r *reader) readU16() uint16 { return binary.LittleEndian.Uint16(r.readBytes(2)) }
func (r *reader) readU32() uint32 { return binary.LittleEndian.Uint32(r.readBytes(4)) }
func (r *reader) readI64() int64 {
	lo := uint64(r.readU32())
	hi := uint64(r.readU32())
	return int64(lo | hi<<32)
}
func (r *reader) readF32() float64 { return float64(math.Float32frombits(r.readU32())) }
func (r *reader) readPt() units.Pt { return units.FromMilliI64(r.readI64()) }

func (r *reader) readString() string {
	n := int(r.readU32())
	return string(r.readBytes(n))
}

func (r *reader) readOptionString() *string {
	if r.readU8() == 0 {
		return nil
	}
	s := r.readString()
	return &s
}

func (r *reader) readOptionU32() *uint32 {
	if r.readU8() == 0 {
		return nil
	}
	v := r.readU32()
	return &v
}

func (r *reader) readOptionU16() *uint16 {
	if r.readU8() == 0 {
		return nil
	}
	v := r.readU16()
	return &v
}

func (r *reader) readColor() canvas.Color {
	return canvas.Color{R: r.readF32(), G: r.readF32(), B: r.readF32()}
}

func (r *reader) readSize() canvas.Size {
	return canvas.Size{Width: r.readPt(), Height: r.readPt()}
}

func (r *reader) readStops() []canvas.Stop {
	n := int(r.readU32())
	stops := make([]canvas.Stop, 0, n)
	for i := 0; i < n; i++ {
		stops = append(stops, canvas.Stop{Offset: r.readF32(), Color: r.readColor()})
	}
	return stops
}

func (r *reader) readShading() canvas.Shading {
	tag := r.readU8()
	switch tag {
	case shadingAxial:
		x0, y0, x1, y1 := r.readPt(), r.readPt(), r.readPt(), r.readPt()
		return canvas.Axial{X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: r.readStops()}
	case shadingRadial:
		x0, y0, r0 := r.readPt(), r.readPt(), r.readPt()
		x1, y1, r1 := r.readPt(), r.readPt(), r.readPt()
		return canvas.Radial{X0: x0, Y0: y0, R0: r0, X1: x1, Y1: y1, R1: r1, Stops: r.readStops()}
	default:
		r.fail(fmt.Errorf("spill: unknown shading tag %d", tag))
		return canvas.Axial{}
	}
}

func (r *reader) readPage() canvas.Page {
	n := int(r.readU32())
	cmds := make([]canvas.Command, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		cmds = append(cmds, r.readCommand())
	}
	return canvas.Page{Commands: cmds}
}

func (r *reader) readCommand() canvas.Command {
	tag := r.readU8()
	switch tag {
	case tagSaveState:
		return canvas.SaveState{}
	case tagRestoreState:
		return canvas.RestoreState{}
	case tagTranslate:
		return canvas.Translate{X: r.readPt(), Y: r.readPt()}
	case tagScale:
		return canvas.Scale{SX: r.readF32(), SY: r.readF32()}
	case tagRotate:
		return canvas.Rotate{Radians: r.readF32()}
	case tagConcatMatrix:
		a, b, c, d := r.readF32(), r.readF32(), r.readF32(), r.readF32()
		return canvas.ConcatMatrix{A: a, B: b, C: c, D: d, E: r.readPt(), F: r.readPt()}
	case tagMeta:
		k := r.readString()
		return canvas.Meta{Key: k, Value: r.readString()}
	case tagSetFillColor:
		return canvas.SetFillColor{Color: r.readColor()}
	case tagSetStrokeColor:
		return canvas.SetStrokeColor{Color: r.readColor()}
	case tagSetLineWidth:
		return canvas.SetLineWidth{Width: r.readPt()}
	case tagSetLineCap:
		return canvas.SetLineCap{Cap: r.readU8()}
	case tagSetLineJoin:
		return canvas.SetLineJoin{Join: r.readU8()}
	case tagSetMiterLimit:
		return canvas.SetMiterLimit{Limit: r.readPt()}
	case tagSetDash:
		n := int(r.readU32())
		pattern := make([]units.Pt, 0, n)
		for i := 0; i < n; i++ {
			pattern = append(pattern, r.readPt())
		}
		return canvas.SetDash{Pattern: pattern, Phase: r.readPt()}
	case tagSetOpacity:
		return canvas.SetOpacity{Fill: r.readF32(), Stroke: r.readF32()}
	case tagSetBlendMode:
		return canvas.SetBlendMode{Mode: r.readString()}
	case tagApplyBackdropFilter:
		return canvas.ApplyBackdropFilter{Filter: r.readString()}
	case tagSetFontName:
		return canvas.SetFontName{Name: r.readString()}
	case tagSetFontSize:
		return canvas.SetFontSize{Size: r.readPt()}
	case tagClipRect:
		x, y := r.readPt(), r.readPt()
		return canvas.ClipRect{X: x, Y: y, Width: r.readPt(), Height: r.readPt()}
	case tagClipPath:
		return canvas.ClipPath{EvenOdd: r.readBool()}
	case tagShadingFill:
		return canvas.ShadingFill{Shading: r.readShading()}
	case tagMoveTo:
		return canvas.MoveTo{X: r.readPt(), Y: r.readPt()}
	case tagLineTo:
		return canvas.LineTo{X: r.readPt(), Y: r.readPt()}
	case tagCurveTo:
		x1, y1, x2, y2 := r.readPt(), r.readPt(), r.readPt(), r.readPt()
		return canvas.CurveTo{X1: x1, Y1: y1, X2: x2, Y2: y2, X: r.readPt(), Y: r.readPt()}
	case tagClosePath:
		return canvas.ClosePath{}
	case tagFill:
		return canvas.Fill{}
	case tagFillEvenOdd:
		return canvas.FillEvenOdd{}
	case tagStroke:
		return canvas.Stroke{}
	case tagFillStroke:
		return canvas.FillStroke{}
	case tagFillStrokeEvenOdd:
		return canvas.FillStrokeEvenOdd{}
	case tagDrawString:
		x, y := r.readPt(), r.readPt()
		return canvas.DrawString{X: x, Y: y, Text: r.readString()}
	case tagDrawStringTransformed:
		x, y := r.readPt(), r.readPt()
		text := r.readString()
		m00, m01, m10, m11 := r.readF32(), r.readF32(), r.readF32(), r.readF32()
		return canvas.DrawStringTransformed{X: x, Y: y, Text: text, M00: m00, M01: m01, M10: m10, M11: m11}
	case tagDrawGlyphRun:
		x, y := r.readPt(), r.readPt()
		glyphLen := int(r.readU32())
		glyphIDs := make([]uint16, 0, glyphLen)
		for i := 0; i < glyphLen; i++ {
			glyphIDs = append(glyphIDs, r.readU16())
		}
		advLen := int(r.readU32())
		advances := make([]canvas.Advance, 0, advLen)
		for i := 0; i < advLen; i++ {
			advances = append(advances, canvas.Advance{DX: r.readPt(), DY: r.readPt()})
		}
		m00, m01, m10, m11 := r.readF32(), r.readF32(), r.readF32(), r.readF32()
		return canvas.DrawGlyphRun{X: x, Y: y, GlyphIDs: glyphIDs, Advances: advances, M00: m00, M01: m01, M10: m10, M11: m11}
	case tagDrawRect:
		x, y := r.readPt(), r.readPt()
		return canvas.DrawRect{X: x, Y: y, Width: r.readPt(), Height: r.readPt()}
	case tagDrawImage:
		x, y := r.readPt(), r.readPt()
		w, h := r.readPt(), r.readPt()
		return canvas.DrawImage{X: x, Y: y, Width: w, Height: h, ResourceID: r.readString()}
	case tagBeginTag:
		role := r.readString()
		mcid := r.readOptionU32()
		alt := r.readOptionString()
		scope := r.readOptionString()
		tableID := r.readOptionU32()
		colIndex := r.readOptionU16()
		return canvas.BeginTag{Role: role, MCID: mcid, Alt: alt, Scope: scope, TableID: tableID, ColIndex: colIndex, GroupOnly: r.readBool()}
	case tagEndTag:
		return canvas.EndTag{}
	case tagDefineForm:
		resourceID := r.readString()
		w, h := r.readPt(), r.readPt()
		n := int(r.readU32())
		cmds := make([]canvas.Command, 0, n)
		for i := 0; i < n; i++ {
			cmds = append(cmds, r.readCommand())
		}
		return canvas.DefineForm{ResourceID: resourceID, Width: w, Height: h, Commands: cmds}
	case tagDrawForm:
		x, y := r.readPt(), r.readPt()
		w, h := r.readPt(), r.readPt()
		return canvas.DrawForm{X: x, Y: y, Width: w, Height: h, ResourceID: r.readString()}
	case tagBeginArtifact:
		return canvas.BeginArtifact{Subtype: r.readOptionString()}
	case tagBeginOptionalContent:
		return canvas.BeginOptionalContent{Name: r.readString()}
	case tagEndMarkedContent:
		return canvas.EndMarkedContent{}
	default:
		r.fail(fmt.Errorf("spill: unknown command tag %d", tag))
		return canvas.SaveState{}
	}
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
