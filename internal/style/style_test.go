package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElement is a minimal in-memory Element for exercising the cascade
// without a real DOM implementation.
type fakeElement struct {
	tag      string
	id       string
	classes  []string
	attrs    map[string]string
	parent   *fakeElement
	index    int
	siblings int
	isRoot   bool
	inline   []Declaration
}

func (f *fakeElement) Tag() string       { return f.tag }
func (f *fakeElement) ID() string        { return f.id }
func (f *fakeElement) Classes() []string { return f.classes }
func (f *fakeElement) Attr(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}
func (f *fakeElement) Parent() Element {
	if f.parent == nil {
		return nil
	}
	return f.parent
}
func (f *fakeElement) Index() int                   { return f.index }
func (f *fakeElement) SiblingCount() int            { return f.siblings }
func (f *fakeElement) IndexOfType() int             { return f.index }
func (f *fakeElement) SiblingCountOfType() int      { return f.siblings }
func (f *fakeElement) IsRoot() bool                 { return f.isRoot }
func (f *fakeElement) PreviousSibling() Element     { return nil }
func (f *fakeElement) PrecedingSiblings() []Element { return nil }
func (f *fakeElement) InlineStyle() []Declaration   { return f.inline }

func TestSpecificityOrdersIDOverClassOverType(t *testing.T) {
	sheet, err := Parse(`
		p { color: red; }
		.note { color: green; }
		#hero { color: blue; }
	`)
	require.NoError(t, err)
	el := &fakeElement{tag: "p", id: "hero", classes: []string{"note"}, isRoot: true}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	assert.Equal(t, Color{R: 0, G: 0, B: 1}, cs.Color)
}

func TestSourceOrderBreaksSpecificityTie(t *testing.T) {
	sheet, err := Parse(`
		p { color: red; }
		p { color: green; }
	`)
	require.NoError(t, err)
	el := &fakeElement{tag: "p", isRoot: true}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	assert.Equal(t, Color{R: 0, G: 0.5, B: 0}, cs.Color)
}

func TestImportantOverridesNormalRegardlessOfSpecificity(t *testing.T) {
	sheet, err := Parse(`
		#hero { color: blue; }
		p { color: red !important; }
	`)
	require.NoError(t, err)
	el := &fakeElement{tag: "p", id: "hero", isRoot: true}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	assert.Equal(t, Color{R: 1, G: 0, B: 0}, cs.Color)
}

func TestInlineStyleBeatsAuthorRulesButNotImportant(t *testing.T) {
	sheet, err := Parse(`#hero { color: blue !important; }`)
	require.NoError(t, err)
	el := &fakeElement{tag: "p", id: "hero", isRoot: true, inline: []Declaration{{Property: "color", Value: "green"}}}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	assert.Equal(t, Color{R: 0, G: 0, B: 1}, cs.Color, "important author rule should still beat a non-important inline declaration")
}

func TestAttributeAndPseudoClassSelectors(t *testing.T) {
	sheet, err := Parse(`
		a[target="_blank"] { color: red; }
		li:first-child { color: blue; }
		li:nth-child(even) { color: green; }
	`)
	require.NoError(t, err)

	link := &fakeElement{tag: "a", attrs: map[string]string{"target": "_blank"}, isRoot: true}
	assert.Equal(t, Color{1, 0, 0}, Resolve(sheet, link, nil, Viewport{}, false).Color)

	first := &fakeElement{tag: "li", index: 0, siblings: 4, isRoot: true}
	assert.Equal(t, Color{0, 0, 1}, Resolve(sheet, first, nil, Viewport{}, false).Color)

	second := &fakeElement{tag: "li", index: 1, siblings: 4, isRoot: true}
	assert.Equal(t, Color{0, 0.5, 0}, Resolve(sheet, second, nil, Viewport{}, false).Color)
}

func TestNotPseudoClassExcludesMatch(t *testing.T) {
	sheet, err := Parse(`li:not(.skip) { color: red; }`)
	require.NoError(t, err)
	skipped := &fakeElement{tag: "li", classes: []string{"skip"}, isRoot: true}
	cs := Resolve(sheet, skipped, nil, Viewport{}, false)
	assert.Equal(t, Color{}, cs.Color, "skipped element must not match li:not(.skip)")
}

func TestDescendantAndChildCombinators(t *testing.T) {
	sheet, err := Parse(`
		article p { color: red; }
		section > p { color: blue; }
	`)
	require.NoError(t, err)
	grandparent := &fakeElement{tag: "article", isRoot: true}
	parent := &fakeElement{tag: "div", parent: grandparent}
	el := &fakeElement{tag: "p", parent: parent}
	assert.Equal(t, Color{1, 0, 0}, Resolve(sheet, el, nil, Viewport{}, false).Color)

	sectionParent := &fakeElement{tag: "section", isRoot: true}
	directChild := &fakeElement{tag: "p", parent: sectionParent}
	assert.Equal(t, Color{0, 0, 1}, Resolve(sheet, directChild, nil, Viewport{}, false).Color)
}

func TestInheritancePropagatesColorAndFontSize(t *testing.T) {
	sheet, err := Parse(`body { color: red; font-size: 20pt; } span {}`)
	require.NoError(t, err)
	body := &fakeElement{tag: "body", isRoot: true}
	bodyStyle := Resolve(sheet, body, nil, Viewport{}, false)
	span := &fakeElement{tag: "span", parent: body}
	spanStyle := Resolve(sheet, span, &bodyStyle, Viewport{}, false)
	assert.Equal(t, Color{1, 0, 0}, spanStyle.Color)
	assert.Equal(t, bodyStyle.FontSize, spanStyle.FontSize)
}

func TestMediaPrintPrefilters(t *testing.T) {
	sheet, err := Parse(`
		@media print { p { color: red; } }
		@media screen { p { color: blue; } }
	`)
	require.NoError(t, err)
	el := &fakeElement{tag: "p", isRoot: true}
	printStyle := Resolve(sheet, el, nil, Viewport{}, true)
	assert.Equal(t, Color{1, 0, 0}, printStyle.Color)
	screenStyle := Resolve(sheet, el, nil, Viewport{}, false)
	assert.Equal(t, Color{0, 0, 1}, screenStyle.Color)
}

func TestCustomPropertyVarResolutionWithRGBAComposite(t *testing.T) {
	sheet, err := Parse(`
		:root { --brand-rgb: 10, 20, 30; --alpha: 1; }
		p { color: rgba(var(--brand-rgb), var(--alpha)); }
	`)
	require.NoError(t, err)
	el := &fakeElement{tag: "p", isRoot: true}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	assert.InDelta(t, 10.0/255, cs.Color.R, 0.001)
	assert.InDelta(t, 20.0/255, cs.Color.G, 0.001)
	assert.InDelta(t, 30.0/255, cs.Color.B, 0.001)
}

func TestBorderStyleNoneForcesWidthToZero(t *testing.T) {
	sheet, err := Parse(`div { border-top-width: 4pt; border-top-style: none; }`)
	require.NoError(t, err)
	el := &fakeElement{tag: "div", isRoot: true}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	assert.Equal(t, Length{}, cs.BorderWidth[0])
}

func TestDisplayRubyNormalizesAndEmitsKnownLossEvent(t *testing.T) {
	sheet, err := Parse(`rt { display: ruby-text; }`)
	require.NoError(t, err)
	el := &fakeElement{tag: "rt", isRoot: true}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	assert.Equal(t, LayoutInline, cs.Mode)
	require.Len(t, cs.Events, 1)
	assert.Equal(t, LayoutModeNormalized, cs.Events[0].Kind)
}

func TestGridPropertyParsesWithNoEffectEvent(t *testing.T) {
	sheet, err := Parse(`div { row-gap: 4pt; }`)
	require.NoError(t, err)
	el := &fakeElement{tag: "div", isRoot: true}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	require.Len(t, cs.Events, 1)
	assert.Equal(t, DeclarationParsedNoEffect, cs.Events[0].Kind)
}

func TestPseudoElementOnlyMaterializesWithNonEmptyContent(t *testing.T) {
	sheet, err := Parse(`
		li::before { content: "- "; }
		span::after { content: ""; }
	`)
	require.NoError(t, err)
	li := &fakeElement{tag: "li", isRoot: true}
	base := Resolve(sheet, li, nil, Viewport{}, false)
	before, ok := ResolvePseudoElement(sheet, li, PseudoElementBefore, base, Viewport{}, false)
	require.True(t, ok)
	assert.Equal(t, "- ", before.Content)

	span := &fakeElement{tag: "span", isRoot: true}
	spanBase := Resolve(sheet, span, nil, Viewport{}, false)
	_, ok = ResolvePseudoElement(sheet, span, PseudoElementAfter, spanBase, Viewport{}, false)
	assert.False(t, ok, "empty content must not materialize a pseudo-element")
}

func TestParseLengthUnitsAndFontKeywords(t *testing.T) {
	l, _, _, ok := ParseLength("1in")
	require.True(t, ok)
	assert.InDelta(t, 72, l.Resolve(0, 0, Viewport{}).ToFloat(), 0.001)

	l, _, _, ok = ParseLength("large")
	require.True(t, ok)
	assert.InDelta(t, 13.5, l.Resolve(0, 0, Viewport{}).ToFloat(), 0.001)
}

func TestGenericFontFamilyMapsToBase14(t *testing.T) {
	sheet, err := Parse(`p { font-family: serif, "Georgia"; }`)
	require.NoError(t, err)
	el := &fakeElement{tag: "p", isRoot: true}
	cs := Resolve(sheet, el, nil, Viewport{}, false)
	assert.Equal(t, FontStack{"Times-Roman", "Georgia"}, cs.FontFamily)
}

func TestPageRuleParsesSizeAndMargin(t *testing.T) {
	box := ParsePageRules(`@page { size: a4 landscape; margin: 1in 0.5in; }`)
	require.True(t, box.HasSize)
	assert.InDelta(t, 841.89, box.Width.ToFloat(), 0.01)
	assert.InDelta(t, 595.28, box.Height.ToFloat(), 0.01)
	require.True(t, box.HasMargin)
	assert.InDelta(t, 72, box.MarginTop.ToFloat(), 0.01)
	assert.InDelta(t, 36, box.MarginRight.ToFloat(), 0.01)
}
