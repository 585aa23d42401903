package pdf

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"fullbleed/internal/canvas"
)

func cosSin(radians float64) (cos, sin float64) {
	return math.Cos(radians), math.Sin(radians)
}

// escapePDFString wraps s in literal-string parens, backslash-escaping
// the three characters the PDF literal-string grammar reserves.
func escapePDFString(s string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// winAnsiASCIIFallback transliterates the handful of non-CP1252 runes this
// writer knows an ASCII-safe multi-character substitute for, instead of
// degrading straight to '?'. Anything not listed here falls through to the
// generic lossy path.
var winAnsiASCIIFallback = map[rune]string{
	'≥': ">=",
	'≤': "<=",
}

// encodeWinAnsiString transliterates s through CP1252 (WinAnsiEncoding's
// byte assignments) for the base-14 text path. A rune CP1252 can't carry
// first checks winAnsiASCIIFallback for a known substitute (logging
// pdf.winansi.fallback and a FONT_FALLBACK_USED known-loss event); anything
// still unresolved degrades to '?' (logging pdf.winansi.lossy), matching the
// degrade-don't-fail policy the rest of this writer follows for
// unresolvable resources.
func (w *writer) encodeWinAnsiString(s string) []byte {
	enc := charmap.Windows1252.NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err == nil {
		return out
	}

	var buf []byte
	for _, r := range s {
		if b, err := enc.Bytes([]byte(string(r))); err == nil {
			buf = append(buf, b...)
			continue
		}
		if sub, ok := winAnsiASCIIFallback[r]; ok {
			w.fallbackCount++
			w.logDebug("pdf.winansi.fallback", "rune", fmt.Sprintf("%U", r), "substitute", sub)
			w.logDebug("jit.known_loss", "code", "FONT_FALLBACK_USED", "rune", fmt.Sprintf("%U", r))
			buf = append(buf, sub...)
			continue
		}
		w.lossyCount++
		w.logDebug("pdf.winansi.lossy", "rune", fmt.Sprintf("%U", r))
		buf = append(buf, '?')
	}
	return buf
}

// writeColorOp emits a fill/stroke color operator. PDF/X-4 output always
// declares a CMYK output intent, so its content stream uses DeviceCMYK
// (k/K) throughout rather than mixing color spaces; every other profile
// stays in DeviceRGB, matching the Color type's native representation.
func writeColorOp(b *strings.Builder, c canvas.Color, profile Profile, rgbOp, cmykOp string) {
	if profile == ProfilePDFX4 {
		cy, m, y, k := c.CMYK()
		fmt.Fprintf(b, "%s %s %s %s %s\n", fmtFloat(cy), fmtFloat(m), fmtFloat(y), fmtFloat(k), cmykOp)
		return
	}
	fmt.Fprintf(b, "%s %s %s %s\n", fmtFloat(c.R), fmtFloat(c.G), fmtFloat(c.B), rgbOp)
}

func writeDashOp(b *strings.Builder, c canvas.SetDash) {
	parts := make([]string, len(c.Pattern))
	for i, p := range c.Pattern {
		parts[i] = fmtPt(p)
	}
	fmt.Fprintf(b, "[%s] %s d\n", strings.Join(parts, " "), fmtPt(c.Phase))
}

func shadingCacheKey(s canvas.Shading) string {
	switch v := s.(type) {
	case canvas.Axial:
		return fmt.Sprintf("axial-%s-%s-%s-%s-%d", fmtPt(v.X0), fmtPt(v.Y0), fmtPt(v.X1), fmtPt(v.Y1), len(v.Stops))
	case canvas.Radial:
		return fmt.Sprintf("radial-%s-%s-%s-%s-%s-%s-%d",
			fmtPt(v.X0), fmtPt(v.Y0), fmtPt(v.R0), fmtPt(v.X1), fmtPt(v.Y1), fmtPt(v.R1), len(v.Stops))
	default:
		return "shading"
	}
}
