package pdf

import (
	"bytes"
	"compress/zlib"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"fullbleed/internal/canvas"
	"fullbleed/internal/units"
)

// ImageRegistry resolves a DrawImage command's ResourceID to the source
// image's already-loaded encoded bytes (PNG/JPEG/GIF/BMP/TIFF — anything
// the blank-imported codecs above register). A nil registry, or a miss,
// degrades to a placeholder rather than failing the document.
type ImageRegistry interface {
	Resolve(resourceID string) ([]byte, bool)
}

// imagePixelsPerPoint is the raster resolution images are embedded at
// (144 dpi -> 2 px/pt), matching the teacher's default print DPI class.
const imagePixelsPerPoint = 2.0

// resolveImage decodes resourceID's source bytes through the registry,
// falling back to a solid block in fillColor on a miss or decode failure
// (logging pdf.image.missing to opts.Logger either way), then downsamples
// through a gg.Context when opts.OptimizeImages is set and the source
// exceeds the size it will actually be painted at.
func resolveImage(opts Options, resourceID string, width, height units.Pt, fillColor canvas.Color) image.Image {
	targetW := int(width.ToFloat() * imagePixelsPerPoint)
	targetH := int(height.ToFloat() * imagePixelsPerPoint)
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}

	img := decodeRegisteredImage(opts.Images, resourceID)
	if img == nil {
		if opts.Logger != nil {
			opts.Logger.Debug("pdf.image.missing", "resource_id", resourceID)
		}
		return placeholderImage(targetW, targetH, fillColor)
	}
	if !opts.OptimizeImages {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= targetW && b.Dy() <= targetH {
		return img
	}
	return downsample(img, targetW, targetH)
}

func decodeRegisteredImage(registry ImageRegistry, resourceID string) image.Image {
	if registry == nil {
		return nil
	}
	data, ok := registry.Resolve(resourceID)
	if !ok {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// placeholderImage draws a solid block in the canvas's current fill color,
// so a broken image reference occupies its reserved space the same way the
// surrounding content would have painted it, rather than standing out as a
// fixed placeholder pattern.
func placeholderImage(w, h int, fillColor canvas.Color) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGB(fillColor.R, fillColor.G, fillColor.B)
	dc.Clear()
	return dc.Image()
}

// downsample resamples img into a w x h context via gg's own transform
// and drawing pipeline, rather than a hand-rolled resampling filter.
func downsample(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	dc := gg.NewContext(w, h)
	dc.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return dc.Image()
}

// rgbPixels flattens img into raw, interleaved RGB triples (no alpha;
// DrawImage's placement already carries the command's own opacity via the
// enclosing ExtGState), the canonical byte sequence both the Flate-encoded
// image stream and the content hash are derived from.
func rgbPixels(img image.Image) (data []byte, w, h int) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	var raw bytes.Buffer
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			raw.WriteByte(byte(r >> 8))
			raw.WriteByte(byte(g >> 8))
			raw.WriteByte(byte(bl >> 8))
		}
	}
	return raw.Bytes(), w, h
}

// flateEncodeRGB zlib-compresses img's RGB pixels, matching the
// /FlateDecode image XObject filter PDF readers expect.
func flateEncodeRGB(img image.Image) ([]byte, int, int) {
	raw, w, h := rgbPixels(img)
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write(raw)
	zw.Close()
	return compressed.Bytes(), w, h
}

// contentHash fingerprints img's decoded pixels (plus its dimensions, so a
// reshaped-but-coincidentally-identical byte stream can't collide) for
// Options.ReuseXObjects's cross-resourceID image interning.
func contentHash(img image.Image) string {
	raw, w, h := rgbPixels(img)
	sum := sha256.New()
	fmt.Fprintf(sum, "%d %d ", w, h)
	sum.Write(raw)
	return hex.EncodeToString(sum.Sum(nil))
}

func imageXObject(img image.Image) string {
	data, w, h := flateEncodeRGB(img)
	return fmt.Sprintf(
		"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode /Length %d >>\nstream\n%s\nendstream",
		w, h, len(data), data)
}
