package style

import (
	"regexp"
	"strings"
)

// Declaration is a single "property: value" pair, with its !important
// flag already split off.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// MediaQuery is a single @media condition this engine understands: a
// print/screen type and optional min/max-width constraints, matched
// against the viewport and preferPrint flag passed to Matches.
type MediaQuery struct {
	Type     string // "print", "screen", or "" (all)
	MinWidth *Length
	MaxWidth *Length
}

// Rule is one selector-list/declaration-block pair as it appeared in the
// stylesheet, carrying its original source position for cascade tie
// breaking.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
	SourceOrder  int
	Media        *MediaQuery // nil means unconditional
}

// Stylesheet is a fully parsed, flattened rule list plus the custom
// property declarations collected from :root.
type Stylesheet struct {
	Rules    []Rule
	RootVars map[string]string

	idx *selectorIndex
}

// Index returns sheet's candidate index, building it on first use.
func (sheet *Stylesheet) Index() *selectorIndex {
	if sheet.idx == nil {
		sheet.idx = buildSelectorIndex(sheet)
	}
	return sheet.idx
}

var (
	ruleRe      = regexp.MustCompile(`(?s)([^{}]+)\{([^{}]*)\}`)
	declSplitRe = regexp.MustCompile(`;`)
	declColonRe = regexp.MustCompile(`^\s*([A-Za-z-][A-Za-z0-9_-]*)\s*:\s*(.*)$`)
	importantRe = regexp.MustCompile(`(?i)!\s*important\s*$`)
)

// Parse parses author CSS text (stripping /* */ comments itself first)
// into a Stylesheet, flattening @media blocks into per-rule conditions and
// collecting :root custom properties separately.
func Parse(css string) (*Stylesheet, error) {
	css = stripComments(css)
	sheet := &Stylesheet{RootVars: map[string]string{}}
	order := 0
	parseBlock(css, nil, sheet, &order)
	return sheet, nil
}

func stripComments(css string) string {
	var out strings.Builder
	for i := 0; i < len(css); {
		if i+1 < len(css) && css[i] == '/' && css[i+1] == '*' {
			end := strings.Index(css[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 4
			continue
		}
		out.WriteByte(css[i])
		i++
	}
	return out.String()
}

// parseBlock walks css, peeling off @media{...} blocks (recursively, one
// level deep, since nested @media is not a case this engine supports) and
// ordinary rule{...} blocks, appending each to sheet.Rules in source
// order and folding :root declarations into sheet.RootVars.
func parseBlock(css string, media *MediaQuery, sheet *Stylesheet, order *int) {
	remaining := css
	for {
		remaining = strings.TrimSpace(remaining)
		if remaining == "" {
			return
		}
		atIdx := strings.Index(remaining, "@media")
		ruleLoc := ruleRe.FindStringIndex(remaining)
		if atIdx >= 0 && (ruleLoc == nil || atIdx < ruleLoc[0]) {
			// Find the matching closing brace for this @media block by
			// brace counting, since @media bodies contain nested braces.
			openIdx := strings.Index(remaining[atIdx:], "{")
			if openIdx < 0 {
				return
			}
			openIdx += atIdx
			depth := 1
			j := openIdx + 1
			for ; j < len(remaining) && depth > 0; j++ {
				switch remaining[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
			}
			condition := remaining[atIdx+len("@media") : openIdx]
			body := remaining[openIdx+1 : j-1]
			parseBlock(body, parseMediaQuery(condition), sheet, order)
			remaining = remaining[j:]
			continue
		}
		if ruleLoc == nil {
			return
		}
		match := ruleRe.FindStringSubmatch(remaining)
		loc := ruleRe.FindStringIndex(remaining)
		selectorPart := strings.TrimSpace(match[1])
		bodyPart := match[2]
		decls := parseDeclarations(bodyPart)
		if selectorPart == ":root" {
			for _, d := range decls {
				if strings.HasPrefix(d.Property, "--") {
					sheet.RootVars[d.Property] = d.Value
				}
			}
		}
		selectors := parseSelectorList(selectorPart)
		if len(selectors) > 0 {
			sheet.Rules = append(sheet.Rules, Rule{
				Selectors:    selectors,
				Declarations: decls,
				SourceOrder:  *order,
				Media:        media,
			})
			*order++
		}
		remaining = remaining[loc[1]:]
	}
}

func parseSelectorList(raw string) []Selector {
	var out []Selector
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sel, ok := ParseSelector(part)
		if ok {
			out = append(out, sel)
		}
	}
	return out
}

func parseDeclarations(raw string) []Declaration {
	var out []Declaration
	for _, piece := range declSplitRe.Split(raw, -1) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		m := declColonRe.FindStringSubmatch(piece)
		if m == nil {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(m[1]))
		val := strings.TrimSpace(m[2])
		important := false
		if importantRe.MatchString(val) {
			important = true
			val = strings.TrimSpace(importantRe.ReplaceAllString(val, ""))
		}
		out = append(out, Declaration{Property: prop, Value: val, Important: important})
	}
	return out
}

// ParseInlineStyle parses a style="" attribute body into Declarations,
// for Element.InlineStyle implementations.
func ParseInlineStyle(raw string) []Declaration {
	return parseDeclarations(raw)
}

func parseMediaQuery(raw string) *MediaQuery {
	raw = strings.TrimSpace(raw)
	mq := &MediaQuery{}
	for _, part := range strings.Split(raw, "and") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "(")
		part = strings.TrimSuffix(part, ")")
		part = strings.TrimSpace(part)
		switch {
		case part == "print" || part == "screen":
			mq.Type = part
		case strings.HasPrefix(part, "min-width"):
			if v := mediaLengthValue(part); v != nil {
				mq.MinWidth = v
			}
		case strings.HasPrefix(part, "max-width"):
			if v := mediaLengthValue(part); v != nil {
				mq.MaxWidth = v
			}
		}
	}
	return mq
}

func mediaLengthValue(part string) *Length {
	idx := strings.Index(part, ":")
	if idx < 0 {
		return nil
	}
	valStr := strings.TrimSpace(part[idx+1:])
	l, _, _, ok := ParseLength(valStr)
	if !ok {
		return nil
	}
	return &l
}

// Matches reports whether q is satisfied by the given viewport and print
// preference.
func (q *MediaQuery) Matches(vp Viewport, preferPrint bool) bool {
	if q == nil {
		return true
	}
	if q.Type == "print" && !preferPrint {
		return false
	}
	if q.Type == "screen" && preferPrint {
		return false
	}
	if q.MinWidth != nil {
		min := q.MinWidth.Resolve(0, 0, vp)
		if vp.Width < min {
			return false
		}
	}
	if q.MaxWidth != nil {
		max := q.MaxWidth.Resolve(0, 0, vp)
		if vp.Width > max {
			return false
		}
	}
	return true
}
