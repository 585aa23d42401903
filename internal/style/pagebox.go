package style

import (
	"regexp"
	"strings"

	"fullbleed/internal/units"
)

// PageBox is the result of parsing an @page rule's size and margin
// declarations.
type PageBox struct {
	Width, Height                                    units.Pt
	MarginTop, MarginRight, MarginBottom, MarginLeft units.Pt
	HasSize, HasMargin                               bool
}

var pageRuleRe = regexp.MustCompile(`(?s)@page\s*\{([^{}]*)\}`)

// namedPageSizes is the small set of CSS paged-media size keywords this
// engine recognizes, in points.
var namedPageSizes = map[string][2]float64{
	"a4":     {595.28, 841.89},
	"a3":     {841.89, 1190.55},
	"a5":     {419.53, 595.28},
	"letter": {612, 792},
	"legal":  {612, 1008},
}

// ParsePageRules scans css for @page blocks and folds their size/margin
// declarations into a PageBox; later @page blocks override earlier ones,
// matching the last-rule-wins cascade default for a single box.
func ParsePageRules(css string) PageBox {
	var box PageBox
	for _, m := range pageRuleRe.FindAllStringSubmatch(stripComments(css), -1) {
		for _, d := range parseDeclarations(m[1]) {
			switch d.Property {
			case "size":
				if w, h, ok := parsePageSize(d.Value); ok {
					box.Width, box.Height = w, h
					box.HasSize = true
				}
			case "margin":
				if t, r, b, l, ok := parseMarginShorthand(d.Value); ok {
					box.MarginTop, box.MarginRight, box.MarginBottom, box.MarginLeft = t, r, b, l
					box.HasMargin = true
				}
			case "margin-top":
				if l, _, _, ok := ParseLength(d.Value); ok {
					box.MarginTop = l.Resolve(0, 0, Viewport{})
					box.HasMargin = true
				}
			case "margin-right":
				if l, _, _, ok := ParseLength(d.Value); ok {
					box.MarginRight = l.Resolve(0, 0, Viewport{})
					box.HasMargin = true
				}
			case "margin-bottom":
				if l, _, _, ok := ParseLength(d.Value); ok {
					box.MarginBottom = l.Resolve(0, 0, Viewport{})
					box.HasMargin = true
				}
			case "margin-left":
				if l, _, _, ok := ParseLength(d.Value); ok {
					box.MarginLeft = l.Resolve(0, 0, Viewport{})
					box.HasMargin = true
				}
			}
		}
	}
	return box
}

func parsePageSize(value string) (w, h units.Pt, ok bool) {
	fields := strings.Fields(value)
	landscape := false
	var lengths []string
	for _, f := range fields {
		switch f {
		case "landscape":
			landscape = true
		case "portrait":
		default:
			lengths = append(lengths, f)
		}
	}
	if len(lengths) == 1 {
		if dims, found := namedPageSizes[strings.ToLower(lengths[0])]; found {
			w, h = units.FromFloat(dims[0]), units.FromFloat(dims[1])
			if landscape {
				w, h = h, w
			}
			return w, h, true
		}
		if l, _, _, lok := ParseLength(lengths[0]); lok {
			side := l.Resolve(0, 0, Viewport{})
			return side, side, true
		}
		return 0, 0, false
	}
	if len(lengths) >= 2 {
		lw, _, _, okw := ParseLength(lengths[0])
		lh, _, _, okh := ParseLength(lengths[1])
		if okw && okh {
			return lw.Resolve(0, 0, Viewport{}), lh.Resolve(0, 0, Viewport{}), true
		}
	}
	return 0, 0, false
}

func parseMarginShorthand(value string) (top, right, bottom, left units.Pt, ok bool) {
	fields := strings.Fields(value)
	var vals []units.Pt
	for _, f := range fields {
		l, _, _, lok := ParseLength(f)
		if !lok {
			return 0, 0, 0, 0, false
		}
		vals = append(vals, l.Resolve(0, 0, Viewport{}))
	}
	switch len(vals) {
	case 1:
		return vals[0], vals[0], vals[0], vals[0], true
	case 2:
		return vals[0], vals[1], vals[0], vals[1], true
	case 3:
		return vals[0], vals[1], vals[2], vals[1], true
	case 4:
		return vals[0], vals[1], vals[2], vals[3], true
	default:
		return 0, 0, 0, 0, false
	}
}
