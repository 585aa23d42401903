package pdf

import (
	"fmt"
	"strings"

	"fullbleed/internal/canvas"
	"fullbleed/internal/units"
)

// renderContentStream translates commands into a PDF content stream,
// tracking the handful of graphics-state bits the operators need
// (current color space target is always computed per SetFillColor/
// SetStrokeColor call, never cached) and interning any font/image/
// form/shading/OCG resource a command references.
func renderContentStream(w *writer, commands []canvas.Command, pageIndex int) ([]byte, error) {
	var b strings.Builder
	var mcDepth int
	var lastFontName string
	var lastFontSize units.Pt
	lastFillColor := canvas.Black

	for _, cmd := range commands {
		// SetFontName/SetFontSize are tracked ahead of the main switch (not
		// emitted themselves) so the Tf operator can be synthesized lazily,
		// right before the first DrawString/DrawStringTransformed/
		// DrawGlyphRun that needs it.
		switch fc := cmd.(type) {
		case canvas.SetFontName:
			lastFontName = fc.Name
		case canvas.SetFontSize:
			lastFontSize = fc.Size
		}

		switch c := cmd.(type) {
		case canvas.SaveState:
			b.WriteString("q\n")
		case canvas.RestoreState:
			b.WriteString("Q\n")
		case canvas.Translate:
			fmt.Fprintf(&b, "1 0 0 1 %s %s cm\n", fmtPt(c.X), fmtPt(c.Y))
		case canvas.Scale:
			fmt.Fprintf(&b, "%s 0 0 %s 0 0 cm\n", fmtFloat(c.SX), fmtFloat(c.SY))
		case canvas.Rotate:
			cos, sin := cosSin(c.Radians)
			fmt.Fprintf(&b, "%s %s %s %s 0 0 cm\n", fmtFloat(cos), fmtFloat(sin), fmtFloat(-sin), fmtFloat(cos))
		case canvas.ConcatMatrix:
			fmt.Fprintf(&b, "%s %s %s %s %s %s cm\n",
				fmtFloat(c.A), fmtFloat(c.B), fmtFloat(c.C), fmtFloat(c.D), fmtPt(c.E), fmtPt(c.F))
		case canvas.Meta:
			// Never emitted: plan/page-data bookkeeping only.
		case canvas.SetFillColor:
			lastFillColor = c.Color
			writeColorOp(&b, c.Color, w.opts.Profile, "rg", "k")
		case canvas.SetStrokeColor:
			writeColorOp(&b, c.Color, w.opts.Profile, "RG", "K")
		case canvas.SetLineWidth:
			fmt.Fprintf(&b, "%s w\n", fmtPt(c.Width))
		case canvas.SetLineCap:
			fmt.Fprintf(&b, "%d J\n", c.Cap)
		case canvas.SetLineJoin:
			fmt.Fprintf(&b, "%d j\n", c.Join)
		case canvas.SetMiterLimit:
			fmt.Fprintf(&b, "%s M\n", fmtPt(c.Limit))
		case canvas.SetDash:
			writeDashOp(&b, c)
		case canvas.SetOpacity:
			key := w.ensureExtGState(c.Fill, c.Stroke)
			fmt.Fprintf(&b, "/%s gs\n", key)
		case canvas.SetFontName:
			// Deferred: PDF's Tf operator needs a size too, so font
			// selection is only emitted once DrawString supplies one.
		case canvas.SetFontSize:
			// See SetFontName.
		case canvas.SetBlendMode, canvas.ApplyBackdropFilter:
			// Extension commands the PDF writer never emits.
		case canvas.ClipRect:
			fmt.Fprintf(&b, "%s %s %s %s re W n\n", fmtPt(c.X), fmtPt(c.Y), fmtPt(c.Width), fmtPt(c.Height))
		case canvas.ClipPath:
			if c.EvenOdd {
				b.WriteString("W* n\n")
			} else {
				b.WriteString("W n\n")
			}
		case canvas.ShadingFill:
			key := w.ensureShading(shadingCacheKey(c.Shading), c.Shading)
			fmt.Fprintf(&b, "/%s sh\n", key)
		case canvas.MoveTo:
			fmt.Fprintf(&b, "%s %s m\n", fmtPt(c.X), fmtPt(c.Y))
		case canvas.LineTo:
			fmt.Fprintf(&b, "%s %s l\n", fmtPt(c.X), fmtPt(c.Y))
		case canvas.CurveTo:
			fmt.Fprintf(&b, "%s %s %s %s %s %s c\n",
				fmtPt(c.X1), fmtPt(c.Y1), fmtPt(c.X2), fmtPt(c.Y2), fmtPt(c.X), fmtPt(c.Y))
		case canvas.ClosePath:
			b.WriteString("h\n")
		case canvas.Fill:
			b.WriteString("f\n")
		case canvas.FillEvenOdd:
			b.WriteString("f*\n")
		case canvas.Stroke:
			b.WriteString("S\n")
		case canvas.FillStroke:
			b.WriteString("B\n")
		case canvas.FillStrokeEvenOdd:
			b.WriteString("B*\n")
		case canvas.DrawString:
			writeShowText(w, &b, lastFontName, lastFontSize, c.X, c.Y, c.Text)
		case canvas.DrawStringTransformed:
			writeShowTextTransformed(w, &b, lastFontName, lastFontSize, c)
		case canvas.DrawGlyphRun:
			writeGlyphRun(w, &b, lastFontName, lastFontSize, c)
		case canvas.DrawRect:
			fmt.Fprintf(&b, "%s %s %s %s re\n", fmtPt(c.X), fmtPt(c.Y), fmtPt(c.Width), fmtPt(c.Height))
		case canvas.DrawImage:
			writeImageOp(w, &b, c, lastFillColor)
		case canvas.DefineForm:
			if _, err := w.ensureForm(c.ResourceID, c.Width, c.Height, c.Commands); err != nil {
				return nil, err
			}
		case canvas.DrawForm:
			key, err := w.ensureForm(c.ResourceID, c.Width, c.Height, nil)
			if err != nil {
				return nil, err
			}
			writeFormInvocation(&b, key, c)
		case canvas.BeginTag:
			mcDepth++
			writeBeginTag(w, &b, c, pageIndex)
		case canvas.EndTag:
			if mcDepth > 0 {
				mcDepth--
				b.WriteString("EMC\n")
			}
		case canvas.BeginArtifact:
			mcDepth++
			writeBeginArtifact(&b, c)
		case canvas.BeginOptionalContent:
			mcDepth++
			key, _ := w.ensureOCG(c.Name)
			fmt.Fprintf(&b, "/OC /%s BDC\n", key)
		case canvas.EndMarkedContent:
			if mcDepth > 0 {
				mcDepth--
				b.WriteString("EMC\n")
			}
		default:
			return nil, fmt.Errorf("pdf: unhandled command %T", cmd)
		}
	}

	for i := 0; i < mcDepth; i++ {
		b.WriteString("EMC\n")
	}

	return []byte(b.String()), nil
}
