package canvas

import "fullbleed/internal/units"

// Size is a page size in points.
type Size struct {
	Width, Height units.Pt
}

// Rect is an axis-aligned rectangle in points.
type Rect struct {
	X, Y, Width, Height units.Pt
}

// Page is an ordered sequence of commands; insertion order is observable.
type Page struct {
	Commands []Command
}

// Document is an immutable, finalized sequence of pages sharing one page
// size. Mixed page sizes in a single PDF stream are disallowed downstream.
type Document struct {
	PageSize Size
	Pages    []Page
}

type graphicsState struct {
	fillColor   Color
	strokeColor Color
	lineWidth   units.Pt
	lineCap     uint8
	lineJoin    uint8
	fontSize    units.Pt
	fontName    string
	blendMode   string
}

func defaultGraphicsState() graphicsState {
	return graphicsState{
		fillColor:   Black,
		strokeColor: Black,
		lineWidth:   units.FromFloat(1.0),
		lineCap:     0,
		lineJoin:    0,
		fontSize:    units.FromFloat(12.0),
		fontName:    "Helvetica",
	}
}

// Canvas is a builder that produces a Document. It owns a single "current"
// page at a time; show_page atomically swaps in a fresh one.
type Canvas struct {
	pageSize     Size
	pages        []Page
	current      Page
	stateStack   []graphicsState
	currentState graphicsState
	currentMCID  uint32
}

// New creates a Canvas for the given page size.
func New(pageSize Size) *Canvas {
	return &Canvas{
		pageSize:     pageSize,
		currentState: defaultGraphicsState(),
	}
}

func (c *Canvas) PageSize() Size { return c.pageSize }

func (c *Canvas) push(cmd Command) {
	c.current.Commands = append(c.current.Commands, cmd)
}

func (c *Canvas) SaveState() {
	c.stateStack = append(c.stateStack, c.currentState)
	c.push(SaveState{})
}

// RestoreState ignores an unbalanced call against an empty stack (a
// structural programming error that is tolerated, not fatal).
func (c *Canvas) RestoreState() {
	if len(c.stateStack) == 0 {
		return
	}
	n := len(c.stateStack) - 1
	c.currentState = c.stateStack[n]
	c.stateStack = c.stateStack[:n]
	c.push(RestoreState{})
}

func (c *Canvas) TranslateXY(x, y units.Pt) { c.push(Translate{x, y}) }
func (c *Canvas) ScaleXY(sx, sy float64)    { c.push(Scale{sx, sy}) }
func (c *Canvas) RotateRadians(angle float64) { c.push(Rotate{angle}) }
func (c *Canvas) ConcatMatrix(a, b, cc, d float64, e, f units.Pt) {
	c.push(ConcatMatrix{a, b, cc, d, e, f})
}

// RecordFlowableBounds emits a meta("__fb_bbox", "x,y,w,h") in milli-points,
// which the plan builder treats as authoritative for the page's content
// bounding box.
func (c *Canvas) RecordFlowableBounds(r Rect) {
	value := formatBBoxMeta(r)
	c.push(Meta{Key: "__fb_bbox", Value: value})
}

func (c *Canvas) Meta(key, value string) {
	c.push(Meta{Key: key, Value: value})
}

func (c *Canvas) SetFillColor(color Color) {
	if c.currentState.fillColor == color {
		return
	}
	c.currentState.fillColor = color
	c.push(SetFillColor{color})
}

func (c *Canvas) SetStrokeColor(color Color) {
	if c.currentState.strokeColor == color {
		return
	}
	c.currentState.strokeColor = color
	c.push(SetStrokeColor{color})
}

func (c *Canvas) SetLineWidth(width units.Pt) {
	if width < 0 {
		width = 0
	}
	if c.currentState.lineWidth == width {
		return
	}
	c.currentState.lineWidth = width
	c.push(SetLineWidth{width})
}

func (c *Canvas) SetLineCap(cap uint8) {
	if c.currentState.lineCap == cap {
		return
	}
	c.currentState.lineCap = cap
	c.push(SetLineCap{cap})
}

func (c *Canvas) SetLineJoin(join uint8) {
	if c.currentState.lineJoin == join {
		return
	}
	c.currentState.lineJoin = join
	c.push(SetLineJoin{join})
}

// SetMiterLimit is never coalesced against current state: the original
// implementation always pushes a command here even when redundant, unlike
// the other set_line_* setters.
func (c *Canvas) SetMiterLimit(limit units.Pt) {
	if limit < 0 {
		limit = 0
	}
	c.push(SetMiterLimit{limit})
}

// SetDash is never coalesced.
func (c *Canvas) SetDash(pattern []units.Pt, phase units.Pt) {
	c.push(SetDash{Pattern: pattern, Phase: phase})
}

// SetOpacity is never coalesced; fill and stroke alpha are clamped to [0,1].
func (c *Canvas) SetOpacity(fill, stroke float64) {
	c.push(SetOpacity{Fill: clampUnit(fill), Stroke: clampUnit(stroke)})
}

func (c *Canvas) SetFontName(name string) {
	if c.currentState.fontName == name {
		return
	}
	c.currentState.fontName = name
	c.push(SetFontName{c.currentState.fontName})
}

func (c *Canvas) SetFontSize(size units.Pt) {
	if c.currentState.fontSize == size {
		return
	}
	c.currentState.fontSize = size
	c.push(SetFontSize{size})
}

// SetBlendMode and ApplyBackdropFilter are passthrough extension ops: the
// blend mode is coalesced the same way the other style setters are
// (matching the pattern this package already applies to font/color/width),
// while the backdrop filter always pushes, matching the always-push
// behavior of the other non-coalesced setters (miter limit, dash, opacity).
func (c *Canvas) SetBlendMode(mode string) {
	if c.currentState.blendMode == mode {
		return
	}
	c.currentState.blendMode = mode
	c.push(SetBlendMode{mode})
}

func (c *Canvas) ApplyBackdropFilter(filter string) {
	c.push(ApplyBackdropFilter{filter})
}

func (c *Canvas) ClipRect(x, y, width, height units.Pt) {
	c.push(ClipRect{x, y, width, height})
}

func (c *Canvas) ClipPath(evenOdd bool) { c.push(ClipPath{evenOdd}) }
func (c *Canvas) ShadingFill(s Shading) { c.push(ShadingFill{s}) }

func (c *Canvas) MoveTo(x, y units.Pt) { c.push(MoveTo{x, y}) }
func (c *Canvas) LineTo(x, y units.Pt) { c.push(LineTo{x, y}) }
func (c *Canvas) CurveTo(x1, y1, x2, y2, x, y units.Pt) {
	c.push(CurveTo{x1, y1, x2, y2, x, y})
}
func (c *Canvas) ClosePath()         { c.push(ClosePath{}) }
func (c *Canvas) Fill()              { c.push(Fill{}) }
func (c *Canvas) FillEvenOdd()       { c.push(FillEvenOdd{}) }
func (c *Canvas) Stroke()            { c.push(Stroke{}) }
func (c *Canvas) FillStroke()        { c.push(FillStroke{}) }
func (c *Canvas) FillStrokeEvenOdd() { c.push(FillStrokeEvenOdd{}) }

func (c *Canvas) DrawString(x, y units.Pt, text string) {
	c.push(DrawString{x, y, text})
}

func (c *Canvas) DrawStringTransformed(x, y units.Pt, text string, m00, m01, m10, m11 float64) {
	c.push(DrawStringTransformed{x, y, text, m00, m01, m10, m11})
}

func (c *Canvas) DrawGlyphRun(x, y units.Pt, glyphIDs []uint16, advances []Advance, m00, m01, m10, m11 float64) {
	c.push(DrawGlyphRun{x, y, glyphIDs, advances, m00, m01, m10, m11})
}

func (c *Canvas) DrawRect(x, y, width, height units.Pt) {
	c.push(DrawRect{x, y, width, height})
}

func (c *Canvas) DrawImage(x, y, width, height units.Pt, resourceID string) {
	c.push(DrawImage{x, y, width, height, resourceID})
}

func (c *Canvas) DefineForm(resourceID string, width, height units.Pt, commands []Command) {
	c.push(DefineForm{resourceID, width, height, commands})
}

func (c *Canvas) DrawForm(x, y, width, height units.Pt, resourceID string) {
	c.push(DrawForm{x, y, width, height, resourceID})
}

// ShowPage atomically swaps in a fresh current page and resets the
// graphics state to its document-open defaults, even if the current page
// was empty (an empty show_page still pushes a blank page).
func (c *Canvas) ShowPage() {
	c.pages = append(c.pages, c.current)
	c.current = Page{}
	c.stateStack = nil
	c.currentState = defaultGraphicsState()
	c.currentMCID = 0
}

// BeginTag allocates a monotone per-page MCID unless group_only is set, in
// which case no MCID is allocated. Saturates at the 32-bit ceiling.
func (c *Canvas) BeginTag(role string, alt, scope *string, tableID *uint32, colIndex *uint16, groupOnly bool) *uint32 {
	var mcid *uint32
	if !groupOnly {
		m := c.currentMCID
		if c.currentMCID < ^uint32(0) {
			c.currentMCID++
		}
		mcid = &m
	}
	c.push(BeginTag{
		Role:      role,
		MCID:      mcid,
		Alt:       alt,
		Scope:     scope,
		TableID:   tableID,
		ColIndex:  colIndex,
		GroupOnly: groupOnly,
	})
	return mcid
}

func (c *Canvas) EndTag()                             { c.push(EndTag{}) }
func (c *Canvas) BeginArtifact(subtype *string)        { c.push(BeginArtifact{subtype}) }
func (c *Canvas) BeginOptionalContent(name string)     { c.push(BeginOptionalContent{name}) }
func (c *Canvas) EndMarkedContent()                    { c.push(EndMarkedContent{}) }

func (c *Canvas) CurrentCommandCount() int { return len(c.current.Commands) }
func (c *Canvas) IsCurrentEmpty() bool     { return len(c.current.Commands) == 0 }

// Finish pushes the current page if it is nonempty or if no pages have
// been pushed yet, then returns the finalized, immutable Document.
func (c *Canvas) Finish() Document {
	if !c.IsCurrentEmpty() || len(c.pages) == 0 {
		c.ShowPage()
	}
	return Document{PageSize: c.pageSize, Pages: c.pages}
}

// FinishWithoutShow returns the Document as-is, without flushing a
// trailing current page.
func (c *Canvas) FinishWithoutShow() Document {
	return Document{PageSize: c.pageSize, Pages: c.pages}
}
