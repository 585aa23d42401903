package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fullbleed/internal/canvas"
	"fullbleed/internal/units"
)

type mapImageRegistry map[string][]byte

func (m mapImageRegistry) Resolve(resourceID string) ([]byte, bool) {
	data, ok := m[resourceID]
	return data, ok
}

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEncodeWithRegisteredImageEmbedsDecodedPixels(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(50), Height: pt(50)})
	c.DrawImage(pt(0), pt(0), pt(10), pt(10), "logo")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	opts := DefaultOptions()
	opts.Images = mapImageRegistry{"logo": encodePNG(t, 4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})}

	out, err := Encode(doc, opts)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "/Subtype /Image")
	assert.Contains(t, s, "/Filter /FlateDecode")
	assert.Contains(t, s, "/Width 4 /Height 4")
}

func TestEncodeWithMissingImageFallsBackToPlaceholder(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(50), Height: pt(50)})
	c.DrawImage(pt(0), pt(0), pt(10), pt(10), "missing")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	out, err := Encode(doc, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), "/Subtype /Image")
}

func TestResolveImageDownsamplesWhenOptimizeImagesSet(t *testing.T) {
	data := encodePNG(t, 400, 400, color.RGBA{R: 255, A: 255})
	opts := DefaultOptions()
	opts.Images = mapImageRegistry{"big": data}
	opts.OptimizeImages = true

	img := resolveImage(opts, "big", units.FromFloat(20), units.FromFloat(20), canvas.Black)
	b := img.Bounds()
	assert.Less(t, b.Dx(), 400)
	assert.Less(t, b.Dy(), 400)
}

func TestResolveImageKeepsFullSizeWithoutOptimize(t *testing.T) {
	data := encodePNG(t, 40, 40, color.RGBA{G: 255, A: 255})
	opts := DefaultOptions()
	opts.Images = mapImageRegistry{"small": data}

	img := resolveImage(opts, "small", units.FromFloat(5), units.FromFloat(5), canvas.Black)
	b := img.Bounds()
	assert.Equal(t, 40, b.Dx())
	assert.Equal(t, 40, b.Dy())
}
