package style

import (
	"strconv"
	"strings"

	"fullbleed/internal/units"
)

// Length is a CSS length expressed as an absolute Pt component plus
// coefficients for each viewport/font-relative unit; it is resolved to a
// concrete Pt only once the element's font size and viewport are known, so
// the same parsed value can be reused across elements with different
// contexts.
type Length struct {
	Absolute units.Pt
	Em       float64
	Rem      float64
	Vw       float64
	Vh       float64
	Vmin     float64
	Vmax     float64
}

// Viewport carries the dimensions relative-length units resolve against.
type Viewport struct {
	Width, Height units.Pt
}

// Resolve computes a concrete Pt given the element's font size, the root
// element's font size, and the viewport.
func (l Length) Resolve(fontSize, rootFontSize units.Pt, vp Viewport) units.Pt {
	out := l.Absolute
	out = out.Add(units.FromFloat(l.Em * fontSize.ToFloat()))
	out = out.Add(units.FromFloat(l.Rem * rootFontSize.ToFloat()))
	out = out.Add(units.FromFloat(l.Vw * vp.Width.ToFloat() / 100))
	out = out.Add(units.FromFloat(l.Vh * vp.Height.ToFloat() / 100))
	vmin := vp.Width
	if vp.Height < vmin {
		vmin = vp.Height
	}
	vmax := vp.Width
	if vp.Height > vmax {
		vmax = vp.Height
	}
	out = out.Add(units.FromFloat(l.Vmin * vmin.ToFloat() / 100))
	out = out.Add(units.FromFloat(l.Vmax * vmax.ToFloat() / 100))
	return out
}

func absoluteLength(pt units.Pt) Length { return Length{Absolute: pt} }

// absoluteUnitToPt converts a CSS unit's numeric quantity to points: 1in = 72pt,
// 1cm = 72/2.54pt, 1mm = 72/25.4pt, 1pc = 12pt, 1px = 0.75pt (96px/in).
var absoluteUnitToPt = map[string]float64{
	"pt": 1,
	"px": 0.75,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 72 / 25.4,
	"pc": 12,
}

// absoluteFontSizeKeywordsPx maps the CSS absolute-size keywords to px,
// per the common 16px-medium browser default; ParseLength converts them
// to points at 0.75pt per px.
var absoluteFontSizeKeywordsPx = map[string]float64{
	"xx-small":  9,
	"x-small":   10,
	"small":     13,
	"medium":    16,
	"large":     18,
	"x-large":   24,
	"xx-large":  32,
	"xxx-large": 48,
}

// ParseLength parses a length or percentage. ok is false if raw isn't a
// recognized length. isPercent is true when raw ends in "%", in which case
// percent holds the value, not length.
func ParseLength(raw string) (length Length, isPercent bool, percent float64, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Length{}, false, 0, false
	}
	if raw == "0" {
		return Length{}, false, 0, true
	}
	if strings.HasSuffix(raw, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			return Length{}, false, 0, false
		}
		return Length{}, true, n, true
	}
	if px, found := absoluteFontSizeKeywordsPx[raw]; found {
		return absoluteLength(units.FromFloat(px * 0.75)), false, 0, true
	}
	switch raw {
	case "smaller":
		return Length{Em: 0.8}, false, 0, true
	case "larger":
		return Length{Em: 1.2}, false, 0, true
	}

	for unit, perUnit := range absoluteUnitToPt {
		if n, ok := trimUnit(raw, unit); ok {
			return absoluteLength(units.FromFloat(n * perUnit)), false, 0, true
		}
	}
	if n, ok := trimUnit(raw, "em"); ok {
		return Length{Em: n}, false, 0, true
	}
	if n, ok := trimUnit(raw, "rem"); ok {
		return Length{Rem: n}, false, 0, true
	}
	if n, ok := trimUnit(raw, "vmin"); ok {
		return Length{Vmin: n}, false, 0, true
	}
	if n, ok := trimUnit(raw, "vmax"); ok {
		return Length{Vmax: n}, false, 0, true
	}
	if n, ok := trimUnit(raw, "vw"); ok {
		return Length{Vw: n}, false, 0, true
	}
	if n, ok := trimUnit(raw, "vh"); ok {
		return Length{Vh: n}, false, 0, true
	}
	return Length{}, false, 0, false
}

func trimUnit(raw, unit string) (float64, bool) {
	if !strings.HasSuffix(raw, unit) {
		return 0, false
	}
	numPart := strings.TrimSpace(strings.TrimSuffix(raw, unit))
	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Color is a resolved sRGB color with alpha, composited over white at the
// point where a non-opaque color is stored on a ComputedStyle (downstream
// fills carry no alpha channel).
type Color struct {
	R, G, B float64
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0},
	"white":       {1, 1, 1},
	"red":         {1, 0, 0},
	"green":       {0, 0.5, 0},
	"blue":        {0, 0, 1},
	"yellow":      {1, 1, 0},
	"cyan":        {0, 1, 1},
	"magenta":     {1, 0, 1},
	"gray":        {0.5, 0.5, 0.5},
	"grey":        {0.5, 0.5, 0.5},
	"transparent": {1, 1, 1}, // alpha 0 handled via ParseColor's separate ok/alpha return
}

// ParseColor parses #rgb/#rrggbb, named colors, currentcolor (returns
// ok=false, isCurrentColor=true, so the cascade leaves `color` at its
// inherited foreground and sets no background-color), and rgb()/rgba(),
// resolving var(...) references against env.
// Alpha is returned separately and composited over white by the caller.
func ParseColor(raw string, env *Environment) (c Color, alpha float64, isCurrentColor bool, ok bool) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if lower == "currentcolor" {
		return Color{}, 1, true, false
	}
	if lower == "transparent" {
		return Color{}, 0, false, true
	}
	if named, found := namedColors[lower]; found {
		return named, 1, false, true
	}
	if strings.HasPrefix(raw, "#") {
		return parseHexColor(raw)
	}
	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		return parseRGBFunc(raw, env)
	}
	if strings.HasPrefix(raw, "var(") {
		resolved, rok := resolveVarExpr(raw, env)
		if !rok {
			return Color{}, 0, false, false
		}
		return ParseColor(resolved, env)
	}
	return Color{}, 0, false, false
}

func parseHexColor(raw string) (Color, float64, bool, bool) {
	hex := strings.TrimPrefix(raw, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, 0, false, false
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return Color{}, 0, false, false
	}
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, 1, false, true
}

func parseRGBFunc(raw string, env *Environment) (Color, float64, bool, bool) {
	open := strings.Index(raw, "(")
	close := strings.LastIndex(raw, ")")
	if open < 0 || close < 0 || close < open {
		return Color{}, 0, false, false
	}
	inner := raw[open+1 : close]
	parts := splitTopLevelCommaOrSpace(inner)
	var resolved []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "var(") {
			if v, ok := resolveVarExpr(p, env); ok {
				p = v
			}
		}
		resolved = append(resolved, p)
	}
	if len(resolved) < 3 {
		return Color{}, 0, false, false
	}
	r, err1 := strconv.ParseFloat(strings.TrimSpace(resolved[0]), 64)
	g, err2 := strconv.ParseFloat(strings.TrimSpace(resolved[1]), 64)
	b, err3 := strconv.ParseFloat(strings.TrimSpace(resolved[2]), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return Color{}, 0, false, false
	}
	alpha := 1.0
	if len(resolved) > 3 {
		if a, err := strconv.ParseFloat(strings.TrimSpace(resolved[3]), 64); err == nil {
			alpha = a
		}
	}
	return Color{R: r / 255, G: g / 255, B: b / 255}, alpha, false, true
}

func splitTopLevelCommaOrSpace(s string) []string {
	sep := ","
	if !strings.Contains(s, ",") {
		sep = " "
	}
	var out []string
	for _, p := range strings.Split(s, sep) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CompositeOverWhite flattens c/alpha to an opaque color for storage on a
// ComputedStyle, matching "alpha is composited over white."
func CompositeOverWhite(c Color, alpha float64) Color {
	if alpha >= 1 {
		return c
	}
	if alpha <= 0 {
		return Color{1, 1, 1}
	}
	return Color{
		R: c.R*alpha + (1 - alpha),
		G: c.G*alpha + (1 - alpha),
		B: c.B*alpha + (1 - alpha),
	}
}
