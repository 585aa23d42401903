package pdf

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fullbleed/internal/canvas"
	"fullbleed/internal/fontreg"
	"fullbleed/internal/obs"
	"fullbleed/internal/units"
)

// capturingLogger records every Debug call it receives, so tests can pin
// the exact debug events an operation emits without standing up zap.
type capturingLogger struct {
	debugMsgs []string
}

func (c *capturingLogger) Debug(msg string, _ ...interface{}) { c.debugMsgs = append(c.debugMsgs, msg) }
func (c *capturingLogger) Info(string, ...interface{})        {}
func (c *capturingLogger) Warn(string, ...interface{})        {}
func (c *capturingLogger) Error(string, ...interface{})       {}
func (c *capturingLogger) Fatal(string, ...interface{})       {}
func (c *capturingLogger) With(...interface{}) obs.Logger     { return c }
func (c *capturingLogger) Sync() error                        { return nil }

func pt(v float64) units.Pt { return units.FromFloat(v) }

func simpleDocument() canvas.Document {
	c := canvas.New(canvas.Size{Width: pt(612), Height: pt(792)})
	c.SetFillColor(canvas.Color{R: 1, G: 0, B: 0})
	c.DrawRect(pt(10), pt(10), pt(100), pt(50))
	c.Fill()
	c.SetFontName("Helvetica")
	c.SetFontSize(pt(12))
	c.DrawString(pt(20), pt(700), "hello")
	c.ShowPage()
	return c.FinishWithoutShow()
}

func TestEncodeProducesWellFormedXrefAndTrailer(t *testing.T) {
	doc := simpleDocument()
	out, err := Encode(doc, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-1.7\n")))
	assert.Contains(t, string(out), "trailer")
	assert.Contains(t, string(out), "startxref")
	assert.True(t, bytes.HasSuffix(bytes.TrimRight(out, "\n"), []byte("%%EOF")))

	s := string(out)
	xrefIdx := strings.Index(s, "\nxref\n")
	require.GreaterOrEqual(t, xrefIdx, 0)
	trailerIdx := strings.Index(s, "trailer")
	require.Greater(t, trailerIdx, xrefIdx)
}

func TestEncodeContentStreamEmitsExpectedOperators(t *testing.T) {
	doc := simpleDocument()
	out, err := Encode(doc, DefaultOptions())
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "1 0 0 rg")
	assert.Contains(t, s, "10 10 100 50 re")
	assert.Contains(t, s, "f\n")
	assert.Contains(t, s, "Tf")
	assert.Contains(t, s, "Tj")
	assert.Contains(t, s, "/MediaBox [0 0 612 792]")
}

func TestEncodeDedupesRepeatedFontAcrossPages(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(100), Height: pt(100)})
	c.SetFontName("Helvetica")
	c.SetFontSize(pt(10))
	c.DrawString(pt(1), pt(1), "a")
	c.ShowPage()
	c.SetFontName("Helvetica")
	c.SetFontSize(pt(10))
	c.DrawString(pt(1), pt(1), "b")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	out, err := Encode(doc, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), "/BaseFont /Helvetica"))
}

func TestEncodeRejectsPDFX4WithoutOutputIntent(t *testing.T) {
	doc := simpleDocument()
	opts := DefaultOptions()
	opts.Profile = ProfilePDFX4

	_, err := Encode(doc, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OutputIntent")
}

func TestEncodePDFX4EmitsCMYKContentAndOutputIntent(t *testing.T) {
	doc := simpleDocument()
	opts := DefaultOptions()
	opts.Profile = ProfilePDFX4
	opts.OutputIntent = &OutputIntent{
		Identifier:   "CGATS TR 001",
		Condition:    "CGATS TR 001 (SWOP)",
		Info:         "U.S. Web Coated (SWOP) v2",
		RegistryName: "http://www.color.org",
		ICCProfile:   []byte{0x01, 0x02, 0x03},
		NComponents:  4,
	}

	out, err := Encode(doc, opts)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, " k\n")
	assert.NotContains(t, s, "1 0 0 rg")
	assert.Contains(t, s, "/OutputIntents")
	assert.Contains(t, s, "GTS_PDFX")
	assert.Contains(t, s, "/Type /Metadata")
	assert.Contains(t, s, "pdfxid:part")
}

func TestEncodePDFA2BEmitsMetadataWithoutRequiringOutputIntent(t *testing.T) {
	doc := simpleDocument()
	opts := DefaultOptions()
	opts.Profile = ProfilePDFA2B

	out, err := Encode(doc, opts)
	require.NoError(t, err)
	assert.Contains(t, string(out), "pdfaid:part")
	assert.Contains(t, string(out), "pdfaid:conformance")
}

func TestEncodeTaggedContentEmitsStructTreeAndMarkInfo(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(100), Height: pt(100)})
	c.BeginTag("h1", nil, nil, nil, nil, false)
	c.DrawString(pt(1), pt(1), "title")
	c.EndTag()
	c.ShowPage()
	doc := c.FinishWithoutShow()

	out, err := Encode(doc, DefaultOptions())
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "/StructTreeRoot")
	assert.Contains(t, s, "/MarkInfo << /Marked true >>")
	assert.Contains(t, s, "/S /H1")
	assert.Contains(t, s, "BDC")
	assert.Contains(t, s, "EMC")
}

func TestEncodeOptionalContentEmitsOCPropertiesAndBDC(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(100), Height: pt(100)})
	c.BeginOptionalContent("watermark")
	c.DrawRect(pt(0), pt(0), pt(10), pt(10))
	c.Fill()
	c.EndMarkedContent()
	c.ShowPage()
	doc := c.FinishWithoutShow()

	out, err := Encode(doc, DefaultOptions())
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "/OCProperties")
	assert.Contains(t, s, "/Type /OCG")
	assert.Contains(t, s, "/OC /OC")
}

func TestEncodeShadingFillEmitsStitchingFunction(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(100), Height: pt(100)})
	c.ShadingFill(canvas.Axial{
		X0: pt(0), Y0: pt(0), X1: pt(100), Y1: pt(0),
		Stops: []canvas.Stop{
			{Offset: 0, Color: canvas.Color{R: 1, G: 0, B: 0}},
			{Offset: 1, Color: canvas.Color{R: 0, G: 0, B: 1}},
		},
	})
	c.ShowPage()
	doc := c.FinishWithoutShow()

	out, err := Encode(doc, DefaultOptions())
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "/ShadingType 2")
	assert.Contains(t, s, "/FunctionType 3")
	assert.Contains(t, s, " sh\n")
}

func TestEncodeUnknownCommandFails(t *testing.T) {
	doc := canvas.Document{
		PageSize: canvas.Size{Width: pt(10), Height: pt(10)},
		Pages:    []canvas.Page{{Commands: []canvas.Command{unknownCommand{}}}},
	}
	_, err := Encode(doc, DefaultOptions())
	require.Error(t, err)
}

// unknownCommand embeds canvas.Command to pick up its unexported marker
// method, which a type outside package canvas cannot declare itself.
type unknownCommand struct{ canvas.Command }

func TestFontObjectFallsBackToHelveticaForUnknownFont(t *testing.T) {
	body := fontObject("SomeUnregisteredFont", &fontreg.Base14Registry{})
	assert.Contains(t, body, "/BaseFont /Helvetica")
}

func TestOptionsValidatePassesForPlainAndPDFA2B(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	opts := DefaultOptions()
	opts.Profile = ProfilePDFA2B
	assert.NoError(t, opts.Validate())
}

func TestEncodeTranslitteratesGreaterLessEqualToASCII(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(200), Height: pt(100)})
	c.SetFontName("Helvetica")
	c.SetFontSize(pt(12))
	c.DrawString(pt(1), pt(1), "A ≥ B and C ≤ D")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	logger := &capturingLogger{}
	opts := DefaultOptions()
	opts.Logger = logger

	out, err := Encode(doc, opts)
	require.NoError(t, err)

	encoded := hexEncode([]byte("A >= B and C <= D"))
	assert.Contains(t, string(out), "<"+encoded+"> Tj")

	assert.Contains(t, logger.debugMsgs, "pdf.winansi.fallback")
	assert.Contains(t, logger.debugMsgs, "jit.known_loss")
}

func TestEncodeUnmappableRuneFallsBackToQuestionMarkAndLogsLossy(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(200), Height: pt(100)})
	c.SetFontName("Helvetica")
	c.SetFontSize(pt(12))
	c.DrawString(pt(1), pt(1), "café 中")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	logger := &capturingLogger{}
	opts := DefaultOptions()
	opts.Logger = logger

	out, err := Encode(doc, opts)
	require.NoError(t, err)
	assert.Contains(t, string(out), hexEncode([]byte("caf\xe9 ?")))
	assert.Contains(t, logger.debugMsgs, "pdf.winansi.lossy")
}

func TestEncodeReuseXObjectsInternsIdenticalPixelsAcrossDifferentResourceIDs(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(50), Height: pt(50)})
	c.DrawImage(pt(0), pt(0), pt(10), pt(10), "logo-a")
	c.DrawImage(pt(20), pt(0), pt(10), pt(10), "logo-b")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	pixels := encodePNG(t, 4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	opts := DefaultOptions()
	opts.Images = mapImageRegistry{"logo-a": pixels, "logo-b": pixels}
	opts.ReuseXObjects = true

	out, err := Encode(doc, opts)
	require.NoError(t, err)
	s := string(out)
	assert.Equal(t, 1, strings.Count(s, "/Subtype /Image"))
	assert.Equal(t, 2, strings.Count(s, " Do Q"))
}

func TestEncodeWithoutReuseXObjectsKeepsIdenticalPixelsAsSeparateObjects(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(50), Height: pt(50)})
	c.DrawImage(pt(0), pt(0), pt(10), pt(10), "logo-a")
	c.DrawImage(pt(20), pt(0), pt(10), pt(10), "logo-b")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	pixels := encodePNG(t, 4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	opts := DefaultOptions()
	opts.Images = mapImageRegistry{"logo-a": pixels, "logo-b": pixels}

	out, err := Encode(doc, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(out), "/Subtype /Image"))
}

func TestEncodeSameResourceIDReusesObjectRegardlessOfReuseXObjects(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(50), Height: pt(50)})
	c.DrawImage(pt(0), pt(0), pt(10), pt(10), "logo")
	c.DrawImage(pt(20), pt(0), pt(10), pt(10), "logo")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	opts := DefaultOptions()
	opts.Images = mapImageRegistry{"logo": encodePNG(t, 4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255})}

	out, err := Encode(doc, opts)
	require.NoError(t, err)
	s := string(out)
	assert.Equal(t, 1, strings.Count(s, "/Subtype /Image"))
	assert.Equal(t, 2, strings.Count(s, " Do Q"))
}

func TestEncodeMissingImageDrawsCurrentFillColorAndLogsMissing(t *testing.T) {
	c := canvas.New(canvas.Size{Width: pt(50), Height: pt(50)})
	c.SetFillColor(canvas.Color{R: 0.2, G: 0.4, B: 0.6})
	c.DrawImage(pt(0), pt(0), pt(10), pt(10), "missing")
	c.ShowPage()
	doc := c.FinishWithoutShow()

	logger := &capturingLogger{}
	opts := DefaultOptions()
	opts.Logger = logger

	out, err := Encode(doc, opts)
	require.NoError(t, err)
	assert.Contains(t, string(out), "/Subtype /Image")
	assert.Contains(t, logger.debugMsgs, "pdf.image.missing")
}
