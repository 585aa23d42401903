package fontreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fullbleed/internal/units"
)

func TestBase14NameMapsGenericFamilyAndWeight(t *testing.T) {
	assert.Equal(t, "Times-Roman", Base14Name("serif", 400, false))
	assert.Equal(t, "Times-Bold", Base14Name("serif", 700, false))
	assert.Equal(t, "Helvetica-Oblique", Base14Name("sans-serif", 400, true))
	assert.Equal(t, "Courier-BoldOblique", Base14Name("monospace", 900, true))
	assert.Equal(t, "Helvetica", Base14Name("Arial", 400, false))
}

func TestBase14RegistryResolveRejectsUnknownNames(t *testing.T) {
	reg := NewBase14Registry()
	_, ok := reg.Resolve("Helvetica")
	assert.True(t, ok)
	_, ok = reg.Resolve("ComicSans")
	assert.False(t, ok)
}

func TestBase14RegistryMeasureTextWidthIsMonospaceForCourier(t *testing.T) {
	reg := NewBase14Registry()
	one := reg.MeasureTextWidth("Courier", units.FromFloat(10), "i")
	wide := reg.MeasureTextWidth("Courier", units.FromFloat(10), "W")
	assert.Equal(t, one, wide)
	require.InDelta(t, 6.0, one.ToFloat(), 0.001)
}

func TestBase14RegistryMeasureTextWidthVariesForHelvetica(t *testing.T) {
	reg := NewBase14Registry()
	narrow := reg.MeasureTextWidth("Helvetica", units.FromFloat(10), "i")
	wide := reg.MeasureTextWidth("Helvetica", units.FromFloat(10), "W")
	assert.Less(t, narrow.ToFloat(), wide.ToFloat())
}

func TestMapGlyphIDForCharIsCodePointForLatin1(t *testing.T) {
	reg := NewBase14Registry()
	assert.Equal(t, uint16('A'), reg.MapGlyphIDForChar("Helvetica", 'A'))
}
