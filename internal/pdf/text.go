package pdf

import (
	"fmt"
	"strings"

	"fullbleed/internal/canvas"
	"fullbleed/internal/units"
)

func hexEncode(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		fmt.Fprintf(&b, "%02X", c)
	}
	return b.String()
}

// writeShowText emits a Tf + BT/Td/Tj/ET sequence for a single run of
// text at (x, y), encoded through WinAnsi — the text path this writer
// supports; Identity-H/CID output would need an embedded font program,
// which is out of scope since the font registry contract supplies
// metrics, not program bytes.
func writeShowText(w *writer, b *strings.Builder, fontName string, fontSize units.Pt, x, y units.Pt, text string) {
	key := w.ensureFont(fontName)
	encoded := w.encodeWinAnsiString(text)
	fmt.Fprintf(b, "BT /%s %s Tf %s %s Td <%s> Tj ET\n",
		key, fmtPt(fontSize), fmtPt(x), fmtPt(y), hexEncode(encoded))
}

func writeShowTextTransformed(w *writer, b *strings.Builder, fontName string, fontSize units.Pt, c canvas.DrawStringTransformed) {
	key := w.ensureFont(fontName)
	encoded := w.encodeWinAnsiString(c.Text)
	fmt.Fprintf(b, "BT /%s %s Tf %s %s %s %s %s %s Tm <%s> Tj ET\n",
		key, fmtPt(fontSize),
		fmtFloat(c.M00), fmtFloat(c.M01), fmtFloat(c.M10), fmtFloat(c.M11), fmtPt(c.X), fmtPt(c.Y),
		hexEncode(encoded))
}

// writeGlyphRun emits each glyph as its own positioned Tj, since without
// an embedded composite font this writer has no single operator that
// carries per-glyph advances the way a real Identity-H TJ array would.
// Glyph ids are interpreted as WinAnsi code points, consistent with
// Base14Registry.MapGlyphIDForChar.
func writeGlyphRun(w *writer, b *strings.Builder, fontName string, fontSize units.Pt, c canvas.DrawGlyphRun) {
	key := w.ensureFont(fontName)
	fmt.Fprintf(b, "BT /%s %s Tf %s %s %s %s %s %s Tm\n",
		key, fmtPt(fontSize), fmtFloat(c.M00), fmtFloat(c.M01), fmtFloat(c.M10), fmtFloat(c.M11), fmtPt(c.X), fmtPt(c.Y))
	cursorX, cursorY := units.Zero(), units.Zero()
	for i, gid := range c.GlyphIDs {
		ch := byte(gid)
		if gid > 0xFF {
			ch = '?'
		}
		fmt.Fprintf(b, "%s %s Td <%02X> Tj\n", fmtPt(cursorX), fmtPt(cursorY), ch)
		if i < len(c.Advances) {
			cursorX = c.Advances[i].DX
			cursorY = c.Advances[i].DY
		} else {
			cursorX, cursorY = 0, 0
		}
	}
	b.WriteString("ET\n")
}

func writeImageOp(w *writer, b *strings.Builder, c canvas.DrawImage, fillColor canvas.Color) {
	key := w.ensureImage(c.ResourceID, c.Width, c.Height, fillColor)
	fmt.Fprintf(b, "q %s 0 0 %s %s %s cm /%s Do Q\n",
		fmtPt(c.Width), fmtPt(c.Height), fmtPt(c.X), fmtPt(c.Y), key)
}

func writeFormInvocation(b *strings.Builder, key string, c canvas.DrawForm) {
	fmt.Fprintf(b, "q 1 0 0 1 %s %s cm /%s Do Q\n", fmtPt(c.X), fmtPt(c.Y), key)
}

func writeBeginTag(w *writer, b *strings.Builder, c canvas.BeginTag, pageIndex int) {
	w.structure.recordTag(pageIndex, c)
	if c.MCID != nil {
		fmt.Fprintf(b, "/%s <</MCID %d>> BDC\n", escapePDFName(c.Role), *c.MCID)
		return
	}
	fmt.Fprintf(b, "/%s BMC\n", escapePDFName(c.Role))
}

func writeBeginArtifact(b *strings.Builder, c canvas.BeginArtifact) {
	if c.Subtype != nil {
		fmt.Fprintf(b, "/Artifact <</Subtype /%s>> BDC\n", escapePDFName(*c.Subtype))
		return
	}
	b.WriteString("/Artifact BMC\n")
}

func escapePDFName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
