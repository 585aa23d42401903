package canvas

import "fullbleed/internal/units"

// Command is a tagged-union graphics operation. Every concrete command
// type implements it via the unexported marker method, so the set of
// valid commands is closed to this package — callers exhaustively type
// switch rather than relying on an open interface.
type Command interface {
	isCommand()
}

// Shading mirrors the Data Model's Axial/Radial gradient shape.
type Shading interface {
	isShading()
}

// Stop is one color stop in a gradient.
type Stop struct {
	Offset float64
	Color  Color
}

type Axial struct {
	X0, Y0, X1, Y1 units.Pt
	Stops          []Stop
}

type Radial struct {
	X0, Y0, R0, X1, Y1, R1 units.Pt
	Stops                  []Stop
}

func (Axial) isShading()  {}
func (Radial) isShading() {}

// NormalizeStops clamps offsets to [0,1], sorts by offset, pads so the
// first offset is 0 and the last is 1, and duplicates the sole color for
// degenerate (empty/single-stop) lists.
func NormalizeStops(stops []Stop) []Stop {
	if len(stops) == 0 {
		return []Stop{{0, Black}, {1, Black}}
	}
	out := make([]Stop, len(stops))
	copy(out, stops)
	for i := range out {
		if out[i].Offset < 0 {
			out[i].Offset = 0
		}
		if out[i].Offset > 1 {
			out[i].Offset = 1
		}
	}
	sortStopsByOffset(out)
	if len(out) == 1 {
		return []Stop{{0, out[0].Color}, {1, out[0].Color}}
	}
	if out[0].Offset != 0 {
		out = append([]Stop{{0, out[0].Color}}, out...)
	}
	if out[len(out)-1].Offset != 1 {
		out = append(out, Stop{1, out[len(out)-1].Color})
	}
	return out
}

func sortStopsByOffset(s []Stop) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].Offset > s[j].Offset; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// --- Command variants ---

type SaveState struct{}
type RestoreState struct{}
type Translate struct{ X, Y units.Pt }
type Scale struct{ SX, SY float64 }
type Rotate struct{ Radians float64 }
type ConcatMatrix struct {
	A, B, C, D float64
	E, F       units.Pt
}

// Meta is never emitted to PDF; it exists only for page-data aggregation
// and flowable-bbox stamping in the plan builder.
type Meta struct{ Key, Value string }

type SetFillColor struct{ Color Color }
type SetStrokeColor struct{ Color Color }
type SetLineWidth struct{ Width units.Pt }
type SetLineCap struct{ Cap uint8 }
type SetLineJoin struct{ Join uint8 }
type SetMiterLimit struct{ Limit units.Pt }
type SetDash struct {
	Pattern []units.Pt
	Phase   units.Pt
}
type SetOpacity struct{ Fill, Stroke float64 }
type SetFontName struct{ Name string }
type SetFontSize struct{ Size units.Pt }

// SetBlendMode and ApplyBackdropFilter are extension command variants
// present in the spill wire format but not in the original public Canvas
// surface; they record intent only and the PDF writer never emits them.
type SetBlendMode struct{ Mode string }
type ApplyBackdropFilter struct{ Filter string }

type ClipRect struct{ X, Y, Width, Height units.Pt }
type ClipPath struct{ EvenOdd bool }
type ShadingFill struct{ Shading Shading }

type MoveTo struct{ X, Y units.Pt }
type LineTo struct{ X, Y units.Pt }
type CurveTo struct{ X1, Y1, X2, Y2, X, Y units.Pt }
type ClosePath struct{}
type Fill struct{}
type FillEvenOdd struct{}
type Stroke struct{}
type FillStroke struct{}
type FillStrokeEvenOdd struct{}

type DrawString struct {
	X, Y units.Pt
	Text string
}
type DrawStringTransformed struct {
	X, Y                   units.Pt
	Text                   string
	M00, M01, M10, M11     float64
}
type Advance struct{ DX, DY units.Pt }
type DrawGlyphRun struct {
	X, Y                units.Pt
	GlyphIDs            []uint16
	Advances            []Advance
	M00, M01, M10, M11  float64
}

type DrawRect struct{ X, Y, Width, Height units.Pt }
type DrawImage struct {
	X, Y, Width, Height units.Pt
	ResourceID          string
}
type DefineForm struct {
	ResourceID    string
	Width, Height units.Pt
	Commands      []Command
}
type DrawForm struct {
	X, Y, Width, Height units.Pt
	ResourceID          string
}

type BeginTag struct {
	Role      string
	MCID      *uint32
	Alt       *string
	Scope     *string
	TableID   *uint32
	ColIndex  *uint16
	GroupOnly bool
}
type EndTag struct{}
type BeginArtifact struct{ Subtype *string }
type BeginOptionalContent struct{ Name string }
type EndMarkedContent struct{}

func (SaveState) isCommand()            {}
func (RestoreState) isCommand()         {}
func (Translate) isCommand()            {}
func (Scale) isCommand()                {}
func (Rotate) isCommand()               {}
func (ConcatMatrix) isCommand()         {}
func (Meta) isCommand()                 {}
func (SetFillColor) isCommand()         {}
func (SetStrokeColor) isCommand()       {}
func (SetLineWidth) isCommand()         {}
func (SetLineCap) isCommand()           {}
func (SetLineJoin) isCommand()          {}
func (SetMiterLimit) isCommand()        {}
func (SetDash) isCommand()              {}
func (SetOpacity) isCommand()           {}
func (SetFontName) isCommand()          {}
func (SetFontSize) isCommand()          {}
func (SetBlendMode) isCommand()         {}
func (ApplyBackdropFilter) isCommand()  {}
func (ClipRect) isCommand()             {}
func (ClipPath) isCommand()             {}
func (ShadingFill) isCommand()          {}
func (MoveTo) isCommand()               {}
func (LineTo) isCommand()               {}
func (CurveTo) isCommand()              {}
func (ClosePath) isCommand()            {}
func (Fill) isCommand()                 {}
func (FillEvenOdd) isCommand()          {}
func (Stroke) isCommand()               {}
func (FillStroke) isCommand()           {}
func (FillStrokeEvenOdd) isCommand()    {}
func (DrawString) isCommand()           {}
func (DrawStringTransformed) isCommand(){}
func (DrawGlyphRun) isCommand()         {}
func (DrawRect) isCommand()             {}
func (DrawImage) isCommand()            {}
func (DefineForm) isCommand()           {}
func (DrawForm) isCommand()             {}
func (BeginTag) isCommand()             {}
func (EndTag) isCommand()               {}
func (BeginArtifact) isCommand()        {}
func (BeginOptionalContent) isCommand() {}
func (EndMarkedContent) isCommand()     {}
