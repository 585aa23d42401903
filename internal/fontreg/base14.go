package fontreg

import (
	"strings"

	"fullbleed/internal/units"
)

// genericFamily maps a generic CSS font-family keyword onto the base-14
// family name it resolves to, the same mapping the PDF writer's own
// font-family normalization uses.
func genericFamily(name string) string {
	switch strings.ToLower(name) {
	case "serif":
		return "Times"
	case "sans-serif", "sans serif", "":
		return "Helvetica"
	case "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}

// styleCode derives the base-14 bold/italic style suffix from a numeric
// font-weight and an italic/normal font-style, mirroring the teacher's
// bold-if->=700, italic-if-"italic" rule.
func styleCode(weight int, italic bool) string {
	bold := weight >= 700
	switch {
	case bold && italic:
		return "BI"
	case bold:
		return "B"
	case italic:
		return "I"
	default:
		return ""
	}
}

// Base14Name resolves a CSS family keyword plus weight/italic into one of
// the 14 standard PDF font names.
func Base14Name(family string, weight int, italic bool) string {
	code := styleCode(weight, italic)
	switch genericFamily(family) {
	case "Times":
		switch code {
		case "B":
			return "Times-Bold"
		case "I":
			return "Times-Italic"
		case "BI":
			return "Times-BoldItalic"
		default:
			return "Times-Roman"
		}
	case "Courier":
		switch code {
		case "B":
			return "Courier-Bold"
		case "I":
			return "Courier-Oblique"
		case "BI":
			return "Courier-BoldOblique"
		default:
			return "Courier"
		}
	default:
		switch code {
		case "B":
			return "Helvetica-Bold"
		case "I":
			return "Helvetica-Oblique"
		case "BI":
			return "Helvetica-BoldOblique"
		default:
			return "Helvetica"
		}
	}
}

// Per-character advance widths are in thousandths of an em, the same
// unit AFM files and PDF /Widths arrays use. Courier is monospaced at
// 600/1000 for every character; Helvetica and Times use their standard
// AFM widths keyed by ASCII code point, falling back to the average
// Latin advance for anything outside the covered range.
const courierAdvance = 600

var helveticaAverageAdvance = 556
var timesAverageAdvance = 500

func advanceFor(base14 string, ch rune) int {
	if strings.HasPrefix(base14, "Courier") {
		return courierAdvance
	}
	var table map[rune]int
	var fallback int
	if strings.HasPrefix(base14, "Times") {
		table = timesWidths
		fallback = timesAverageAdvance
	} else {
		table = helveticaWidths
		fallback = helveticaAverageAdvance
	}
	if w, ok := table[ch]; ok {
		return w
	}
	return fallback
}

// helveticaWidths and timesWidths carry the standard Adobe AFM advance
// widths (in 1/1000 em) for the printable ASCII range, the fixed metrics
// every PDF reader already has built in for the base-14 fonts.
var helveticaWidths = map[rune]int{
	' ': 278, '!': 278, '"': 355, '#': 556, '$': 556, '%': 889, '&': 667,
	'\'': 191, '(': 333, ')': 333, '*': 389, '+': 584, ',': 278, '-': 333,
	'.': 278, '/': 278,
	'0': 556, '1': 556, '2': 556, '3': 556, '4': 556, '5': 556, '6': 556,
	'7': 556, '8': 556, '9': 556,
	':': 278, ';': 278, '<': 584, '=': 584, '>': 584, '?': 556, '@': 1015,
	'A': 667, 'B': 667, 'C': 722, 'D': 722, 'E': 667, 'F': 611, 'G': 778,
	'H': 722, 'I': 278, 'J': 500, 'K': 667, 'L': 556, 'M': 833, 'N': 722,
	'O': 778, 'P': 667, 'Q': 778, 'R': 722, 'S': 667, 'T': 611, 'U': 722,
	'V': 667, 'W': 944, 'X': 667, 'Y': 667, 'Z': 611,
	'[': 278, '\\': 278, ']': 278, '^': 469, '_': 556, '`': 333,
	'a': 556, 'b': 556, 'c': 500, 'd': 556, 'e': 556, 'f': 278, 'g': 556,
	'h': 556, 'i': 222, 'j': 222, 'k': 500, 'l': 222, 'm': 833, 'n': 556,
	'o': 556, 'p': 556, 'q': 556, 'r': 333, 's': 500, 't': 278, 'u': 556,
	'v': 500, 'w': 722, 'x': 500, 'y': 500, 'z': 500,
	'{': 334, '|': 260, '}': 334, '~': 584,
}

var timesWidths = map[rune]int{
	' ': 250, '!': 333, '"': 408, '#': 500, '$': 500, '%': 833, '&': 778,
	'\'': 180, '(': 333, ')': 333, '*': 500, '+': 564, ',': 250, '-': 333,
	'.': 250, '/': 278,
	'0': 500, '1': 500, '2': 500, '3': 500, '4': 500, '5': 500, '6': 500,
	'7': 500, '8': 500, '9': 500,
	':': 278, ';': 278, '<': 564, '=': 564, '>': 564, '?': 444, '@': 921,
	'A': 722, 'B': 667, 'C': 667, 'D': 722, 'E': 611, 'F': 556, 'G': 722,
	'H': 722, 'I': 333, 'J': 389, 'K': 722, 'L': 611, 'M': 889, 'N': 722,
	'O': 722, 'P': 556, 'Q': 722, 'R': 667, 'S': 556, 'T': 611, 'U': 722,
	'V': 722, 'W': 944, 'X': 722, 'Y': 722, 'Z': 611,
	'[': 333, '\\': 278, ']': 333, '^': 469, '_': 500, '`': 333,
	'a': 444, 'b': 500, 'c': 444, 'd': 500, 'e': 444, 'f': 333, 'g': 500,
	'h': 500, 'i': 278, 'j': 278, 'k': 500, 'l': 278, 'm': 778, 'n': 500,
	'o': 500, 'p': 500, 'q': 500, 'r': 333, 's': 389, 't': 278, 'u': 500,
	'v': 500, 'w': 722, 'x': 500, 'y': 500, 'z': 444,
	'{': 480, '|': 200, '}': 480, '~': 541,
}

// Base14Registry is a Registry implementation backed entirely by the
// base-14 standard fonts and their fixed AFM metrics, with no external
// font program data. It is sufficient for tests and the demo binary.
// Resolve accepts only the twelve Helvetica, Times and Courier names (not
// Symbol or ZapfDingbats), returns false for any other name, and does not
// report a mapped name.
type Base14Registry struct{}

// NewBase14Registry constructs a Base14Registry.
func NewBase14Registry() *Base14Registry {
	return &Base14Registry{}
}

func (r *Base14Registry) Resolve(name string) (RegisteredFont, bool) {
	if !isBase14Name(name) {
		return RegisteredFont{}, false
	}
	return RegisteredFont{
		Data:        nil,
		ProgramKind: ProgramKindTrueType,
		Metrics:     Metrics{UnitsPerEm: 1000, UnicodeCapable: false},
	}, true
}

func isBase14Name(name string) bool {
	switch name {
	case "Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique",
		"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic",
		"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique":
		return true
	default:
		return false
	}
}

// MapGlyphIDForChar returns the character's own code point as its glyph
// id: base-14 fonts are WinAnsi/Latin-1 single-byte encoded, so the
// "glyph id" a caller needs is just the encoded byte value.
func (r *Base14Registry) MapGlyphIDForChar(name string, ch rune) uint16 {
	if ch < 0 || ch > 0xFF {
		return '?'
	}
	return uint16(ch)
}

// GlyphAdvance returns the 1/1000-em advance width for gid interpreted as
// a WinAnsi code point, in the given font.
func (r *Base14Registry) GlyphAdvance(name string, gid uint16) int {
	if !isBase14Name(name) {
		return helveticaAverageAdvance
	}
	return advanceFor(name, rune(gid))
}

// MeasureTextWidth sums each character's advance at the given font size.
func (r *Base14Registry) MeasureTextWidth(name string, size units.Pt, text string) units.Pt {
	if !isBase14Name(name) {
		name = "Helvetica"
	}
	total := 0
	for _, ch := range text {
		total += advanceFor(name, ch)
	}
	// total is in thousandths of an em; scale by size and divide by 1000.
	return units.FromFloat(size.ToFloat() * float64(total) / 1000.0)
}
