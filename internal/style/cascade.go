package style

import (
	"sort"
	"strings"

	"fullbleed/internal/units"
)

// LayoutMode is the normalized display mode this engine distinguishes;
// anything the cascade can't express precisely (ruby, table-column, ...)
// collapses to the nearest mode here and emits a LayoutModeNormalized
// event.
type LayoutMode int

const (
	LayoutBlock LayoutMode = iota
	LayoutInline
	LayoutInlineBlock
	LayoutNone
	LayoutTable
	LayoutTableRow
	LayoutTableCell
)

// BorderStyle mirrors the CSS border-style keyword this engine acts on.
type BorderStyle int

const (
	BorderStyleSolid BorderStyle = iota
	BorderStyleNone
	BorderStyleHidden
)

// FontStack is an ordered list of candidate font family names, with
// generic family keywords already resolved to base-14 substitutes.
type FontStack []string

var genericFontFallback = map[string]string{
	"serif":      "Times-Roman",
	"sans-serif": "Helvetica",
	"monospace":  "Courier",
}

// CustomProps holds an element's resolved --x custom properties, split
// by the three shapes §4.4 stores: lengths, colors (+alpha), and color
// indirections (an RHS that is itself a var() expression, resolved
// lazily rather than eagerly at declaration time).
type CustomProps struct {
	Lengths      map[string]Length
	Colors       map[string]Color
	ColorAlphas  map[string]float64
	Indirections map[string]string
	FontStacks   map[string]FontStack
	Raw          map[string]string
}

func newCustomProps() CustomProps {
	return CustomProps{
		Lengths:      map[string]Length{},
		Colors:       map[string]Color{},
		ColorAlphas:  map[string]float64{},
		Indirections: map[string]string{},
		FontStacks:   map[string]FontStack{},
		Raw:          map[string]string{},
	}
}

// ComputedStyle is the fully cascaded, inherited style for one element.
type ComputedStyle struct {
	Mode             LayoutMode
	FontFamily       FontStack
	FontSize         Length
	Color            Color
	BackgroundColor  Color
	HasBackground    bool
	BorderWidth      [4]Length // top, right, bottom, left
	BorderStyle      [4]BorderStyle
	WhiteSpacePre    bool
	BreakInsideAvoid bool
	Content          string
	Custom           CustomProps
	Events           []Event
}

func defaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Mode:       LayoutBlock,
		FontFamily: FontStack{"Helvetica"},
		FontSize:   absoluteLength(0), // filled from default in Resolve
		Color:      Color{0, 0, 0},
		Custom:     newCustomProps(),
	}
}

// inheritedProperties is the set of property names §4.4 classifies as
// inherited: an unset declaration (or an explicit `inherit`) on these
// copies the parent's resolved value; every other property resets to
// its documented initial value absent a declaration.
var inheritedProperties = map[string]bool{
	"color":       true,
	"font-family": true,
	"font-size":   true,
	"white-space": true,
	"line-height": true,
}

// matchedDecl pairs a declaration with the specificity/source-order
// of the rule it came from, for cascade sorting.
type matchedDecl struct {
	decl        Declaration
	specificity Specificity
	sourceOrder int
}

// Resolve computes el's ComputedStyle given the stylesheet, the parent's
// already-resolved style (nil for the root), the viewport, and whether
// any sheet declared an `@media print` block.
func Resolve(sheet *Stylesheet, el Element, parent *ComputedStyle, vp Viewport, preferPrint bool) ComputedStyle {
	var normalMatches, importantMatches []matchedDecl
	rootVars := map[string]string{}
	for k, v := range sheet.RootVars {
		rootVars[k] = v
	}
	var parentEnv *Environment
	if parent != nil {
		parentEnv = environmentFromCustomProps(parent.Custom)
	} else {
		parentEnv = NewEnvironment(rootVars)
	}

	seen := map[*Rule]bool{}
	for _, cand := range sheet.Index().candidatesFor(el) {
		if seen[cand.rule] {
			continue
		}
		seen[cand.rule] = true
		rule := cand.rule
		if !rule.Media.Matches(vp, preferPrint) {
			continue
		}
		best, ok := bestSelectorMatch(rule.Selectors, el)
		if !ok {
			continue
		}
		for _, d := range rule.Declarations {
			md := matchedDecl{decl: d, specificity: best, sourceOrder: rule.SourceOrder}
			if d.Important {
				importantMatches = append(importantMatches, md)
			} else {
				normalMatches = append(normalMatches, md)
			}
		}
	}
	sortMatches(normalMatches)
	sortMatches(importantMatches)

	var inlineNormal, inlineImportant []matchedDecl
	for _, d := range el.InlineStyle() {
		md := matchedDecl{decl: d, specificity: Specificity{}, sourceOrder: 1 << 30}
		if d.Important {
			inlineImportant = append(inlineImportant, md)
		} else {
			inlineNormal = append(inlineNormal, md)
		}
	}

	ordered := make([]matchedDecl, 0, len(normalMatches)+len(inlineNormal)+len(importantMatches)+len(inlineImportant))
	ordered = append(ordered, normalMatches...)
	ordered = append(ordered, inlineNormal...)
	ordered = append(ordered, importantMatches...)
	ordered = append(ordered, inlineImportant...)

	cs := defaultComputedStyle()
	if parent != nil {
		cs.Color = parent.Color
		cs.FontFamily = parent.FontFamily
		cs.FontSize = parent.FontSize
		cs.WhiteSpacePre = parent.WhiteSpacePre
	} else {
		cs.FontSize = absoluteLength(units.FromFloat(16))
	}

	customOverrides := map[string]string{}
	for _, md := range ordered {
		if strings.HasPrefix(md.decl.Property, "--") {
			customOverrides[md.decl.Property] = md.decl.Value
			continue
		}
		if md.decl.Value == "inherit" {
			continue // already seeded from parent above
		}
		applyDeclaration(&cs, md.decl, parentEnv)
	}

	env := parentEnv.Derive(customOverrides)
	classifyCustomProps(&cs, env.Values, env)

	return cs
}

func environmentFromCustomProps(c CustomProps) *Environment {
	vals := make(map[string]string, len(c.Raw))
	for k, v := range c.Raw {
		vals[k] = v
	}
	return NewEnvironment(vals)
}

func classifyCustomProps(cs *ComputedStyle, overrides map[string]string, env *Environment) {
	for name, raw := range overrides {
		cs.Custom.Raw[name] = raw
		resolved := ResolveVars(raw, env)
		if strings.HasPrefix(resolved, "var(") {
			cs.Custom.Indirections[name] = raw
			continue
		}
		if l, _, _, ok := ParseLength(resolved); ok {
			cs.Custom.Lengths[name] = l
		}
		if c, alpha, _, ok := ParseColor(resolved, env); ok {
			cs.Custom.Colors[name] = c
			cs.Custom.ColorAlphas[name] = alpha
		}
		if strings.Contains(resolved, ",") && !strings.ContainsAny(resolved, "#") {
			cs.Custom.FontStacks[name] = parseFontStack(resolved)
		}
	}
}

func bestSelectorMatch(selectors []Selector, el Element) (Specificity, bool) {
	var best Specificity
	found := false
	for _, sel := range selectors {
		if sel.PseudoElement != PseudoElementNone {
			continue
		}
		if Matches(sel, el) {
			sp := sel.Specificity()
			if !found || best.Less(sp) {
				best = sp
				found = true
			}
		}
	}
	return best, found
}

func sortMatches(decls []matchedDecl) {
	sort.SliceStable(decls, func(i, j int) bool {
		if decls[i].specificity != decls[j].specificity {
			return decls[i].specificity.Less(decls[j].specificity)
		}
		return decls[i].sourceOrder < decls[j].sourceOrder
	})
}

func applyDeclaration(cs *ComputedStyle, d Declaration, env *Environment) {
	value := ResolveVars(d.Value, env)
	switch d.Property {
	case "color":
		if c, alpha, _, ok := ParseColor(value, env); ok {
			cs.Color = CompositeOverWhite(c, alpha)
		}
	case "background-color":
		if c, alpha, _, ok := ParseColor(value, env); ok {
			cs.BackgroundColor = CompositeOverWhite(c, alpha)
			cs.HasBackground = true
		}
	case "font-size":
		if l, isPercent, pct, ok := ParseLength(value); ok {
			if isPercent {
				cs.FontSize = Length{Em: pct / 100}
			} else {
				cs.FontSize = l
			}
		}
	case "font-family":
		cs.FontFamily = parseFontStack(value)
	case "white-space":
		cs.WhiteSpacePre = value == "pre" || value == "pre-wrap" || value == "pre-line"
	case "content":
		cs.Content = unquoteContent(value)
	case "break-inside":
		cs.BreakInsideAvoid = value == "avoid"
	case "border-top-width", "border-right-width", "border-bottom-width", "border-left-width":
		idx := borderSideIndex(d.Property)
		if l, _, _, ok := ParseLength(value); ok {
			cs.BorderWidth[idx] = l
		}
	case "border-top-style", "border-right-style", "border-bottom-style", "border-left-style":
		idx := borderSideIndex(d.Property)
		cs.BorderStyle[idx] = parseBorderStyle(value)
	case "display":
		mode, normalized, detail := parseDisplay(value)
		cs.Mode = mode
		if normalized {
			cs.Events = append(cs.Events, newLayoutModeNormalized("display", value, detail))
		}
	default:
		if isKnownNoEffectProperty(d.Property) {
			cs.Events = append(cs.Events, newDeclarationNoEffect(d.Property, value, "parsed, no layout effect"))
		}
	}
	forceZeroBorderForStylelessSides(cs)
}

func borderSideIndex(prop string) int {
	switch {
	case strings.Contains(prop, "top"):
		return 0
	case strings.Contains(prop, "right"):
		return 1
	case strings.Contains(prop, "bottom"):
		return 2
	default:
		return 3
	}
}

func parseBorderStyle(v string) BorderStyle {
	switch v {
	case "none":
		return BorderStyleNone
	case "hidden":
		return BorderStyleHidden
	default:
		return BorderStyleSolid
	}
}

// forceZeroBorderForStylelessSides zeroes a side's width whenever its
// style is none/hidden, per §4.4's "forced to 0 after cascade."
func forceZeroBorderForStylelessSides(cs *ComputedStyle) {
	for i := 0; i < 4; i++ {
		if cs.BorderStyle[i] == BorderStyleNone || cs.BorderStyle[i] == BorderStyleHidden {
			cs.BorderWidth[i] = Length{}
		}
	}
}

func parseDisplay(value string) (mode LayoutMode, normalized bool, detail string) {
	switch value {
	case "block", "list-item":
		return LayoutBlock, false, ""
	case "inline":
		return LayoutInline, false, ""
	case "inline-block":
		return LayoutInlineBlock, false, ""
	case "none":
		return LayoutNone, false, ""
	case "table":
		return LayoutTable, false, ""
	case "table-row":
		return LayoutTableRow, false, ""
	case "table-cell":
		return LayoutTableCell, false, ""
	case "ruby", "ruby-base", "ruby-text":
		return LayoutInline, true, "ruby display normalized to inline"
	case "table-column", "table-column-group":
		return LayoutNone, true, "table-column construct normalized to none"
	default:
		return LayoutBlock, true, "unrecognized display value '" + value + "' normalized to block"
	}
}

// gridFlexNoEffectProperties parse cleanly but this engine has no
// distribution model to apply them to.
var gridFlexNoEffectProperties = map[string]bool{
	"align-content":         true,
	"align-items":           true,
	"justify-content":       true,
	"row-gap":               true,
	"column-gap":            true,
	"gap":                   true,
	"grid-template-rows":    true,
	"grid-template-columns": true,
	"flex-grow":             true,
	"flex-shrink":           true,
	"flex-basis":            true,
	"cursor":                true,
}

func isKnownNoEffectProperty(prop string) bool {
	return gridFlexNoEffectProperties[prop]
}

func parseFontStack(value string) FontStack {
	var out FontStack
	for _, part := range strings.Split(value, ",") {
		name := strings.Trim(strings.TrimSpace(part), `"'`)
		if name == "" {
			continue
		}
		if mapped, ok := genericFontFallback[strings.ToLower(name)]; ok {
			out = append(out, mapped)
			continue
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		out = FontStack{"Helvetica"}
	}
	return out
}

func unquoteContent(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}
	if value == "none" || value == "normal" {
		return ""
	}
	return value
}

// ResolvePseudoElement computes the style for a ::before/::after of el,
// returning ok=false when no rule targets that pseudo-element or its
// resolved content is empty, per §4.4's "only materializes when content
// resolves non-empty."
func ResolvePseudoElement(sheet *Stylesheet, el Element, which PseudoElement, base ComputedStyle, vp Viewport, preferPrint bool) (ComputedStyle, bool) {
	cs := base
	cs.Content = ""
	cs.Events = nil
	var matches []matchedDecl
	for _, rule := range sheet.Rules {
		if !rule.Media.Matches(vp, preferPrint) {
			continue
		}
		for _, sel := range rule.Selectors {
			if sel.PseudoElement != which {
				continue
			}
			trimmed := sel
			trimmed.PseudoElement = PseudoElementNone
			if Matches(trimmed, el) {
				sp := sel.Specificity()
				for _, d := range rule.Declarations {
					matches = append(matches, matchedDecl{decl: d, specificity: sp, sourceOrder: rule.SourceOrder})
				}
			}
		}
	}
	sortMatches(matches)
	env := environmentFromCustomProps(base.Custom)
	for _, md := range matches {
		applyDeclaration(&cs, md.decl, env)
	}
	if strings.TrimSpace(cs.Content) == "" {
		return ComputedStyle{}, false
	}
	return cs, true
}
