// Package pdf serializes a canvas.Document into PDF bytes: a single-pass
// object emitter with its own xref table and trailer, resource interning
// for fonts/images/forms/ExtGStates/shadings, a Tagged-PDF structure
// tree built from BeginTag/EndTag commands, optional content groups for
// BeginOptionalContent, /Artifact marked content (no OCG) for
// BeginArtifact, and PDF/A-2B / PDF/X-4 compliance
// output (ICC output intent + XMP metadata) when requested.
package pdf

import (
	"bytes"
	"fmt"

	"fullbleed/internal/canvas"
	"fullbleed/internal/ferrors"
	"fullbleed/internal/fontreg"
	"fullbleed/internal/obs"
)

// Version is the PDF version declared in the header comment.
type Version string

const (
	Version14 Version = "1.4"
	Version17 Version = "1.7"
	Version20 Version = "2.0"
)

// Profile is the compliance profile the writer targets. Profiles beyond
// PlainPDF constrain what the writer must emit (an output intent, XMP
// metadata) and, per Options.Validate, what it refuses to emit without.
// Fonts are written as non-embedded base-14 /Type1 fonts in every profile.
type Profile int

const (
	ProfilePlain Profile = iota
	ProfilePDFA2B
	ProfilePDFX4
)

// OutputIntent describes the ICC destination profile a PDF/A or PDF/X
// document declares.
type OutputIntent struct {
	Identifier   string
	Condition    string
	Info         string
	RegistryName string
	ICCProfile   []byte
	NComponents  uint8
}

// Options configures one document's serialization.
type Options struct {
	Version        Version
	Profile        Profile
	Title          string
	OutputIntent   *OutputIntent
	Fonts          fontreg.Registry
	Images         ImageRegistry
	OptimizeImages bool
	// ReuseXObjects interns images by the content hash of their decoded
	// pixels rather than by the caller's resourceID, so two different
	// resourceIDs that decode to identical pixels share one /Subtype
	// /Image object. Off by default: images stay keyed by resourceID.
	ReuseXObjects bool
	// Logger receives the writer's debug event stream (pdf.winansi.lossy,
	// pdf.winansi.fallback, jit.known_loss, pdf.image.missing). Nil is
	// valid and silences the stream entirely.
	Logger obs.Logger
}

// DefaultOptions returns a plain, uncompliant PDF 1.7 configuration.
func DefaultOptions() Options {
	return Options{Version: Version17, Profile: ProfilePlain}
}

// Validate checks Options for internal consistency before any bytes are
// written: PDF/X-4 output requires an OutputIntent with non-empty ICC
// profile bytes, a component count of 1, 3 or 4, and a non-empty identifier.
func (o Options) Validate() error {
	if o.Profile == ProfilePDFX4 && o.OutputIntent == nil {
		return ferrors.New(ferrors.KindInvalidInput, "pdf.missing_output_intent",
			"PDF/X-4 output requires an OutputIntent")
	}
	if oi := o.OutputIntent; o.Profile == ProfilePDFX4 {
		switch {
		case len(oi.ICCProfile) == 0:
			return ferrors.New(ferrors.KindInvalidInput, "pdf.invalid_output_intent",
				"PDF/X-4 OutputIntent requires ICC profile bytes")
		case oi.NComponents != 1 && oi.NComponents != 3 && oi.NComponents != 4:
			return ferrors.New(ferrors.KindInvalidInput, "pdf.invalid_output_intent",
				"PDF/X-4 OutputIntent components must be 1, 3 or 4")
		case oi.Identifier == "":
			return ferrors.New(ferrors.KindInvalidInput, "pdf.invalid_output_intent",
				"PDF/X-4 OutputIntent requires an identifier")
		}
	}
	return nil
}

// object is one indirect object's already-serialized body (everything
// between "N 0 obj" and "endobj", exclusive).
type object struct {
	id   int
	body []byte
}

// writer accumulates objects and produces the final byte stream in a
// single pass: every object is appended to buf as soon as it's built, and
// its byte offset recorded for the xref table.
type writer struct {
	opts    Options
	buf     bytes.Buffer
	offsets []int // offsets[id] is the byte offset of object id; index 0 unused
	nextID  int

	fontObjects  map[string]int // base-14 or registered font name -> font object id
	imageObjects map[string]int // resource id -> XObject id
	imageHashes  map[string]int // decoded-pixel content hash -> XObject id, used when opts.ReuseXObjects
	formObjects  map[string]int // resource id -> XObject id
	extGStates   map[extGStateKey]int
	shadings     map[string]int
	ocgObjects   map[string]int // optional content group name -> OCG object id

	structure *structureBuilder

	fallbackCount int // WinAnsi ASCII-substitute fallbacks (e.g. >=, <=)
	lossyCount    int // WinAnsi generic '?' substitutions
}

// logDebug forwards msg and its key/value pairs to opts.Logger at debug
// level, a no-op when no logger was configured.
func (w *writer) logDebug(msg string, keysAndValues ...interface{}) {
	if w.opts.Logger != nil {
		w.opts.Logger.Debug(msg, keysAndValues...)
	}
}

type extGStateKey struct {
	fillAlphaMilli, strokeAlphaMilli int64
}

func newWriter(opts Options) *writer {
	return &writer{
		opts:         opts,
		offsets:      []int{0},
		nextID:       1,
		fontObjects:  map[string]int{},
		imageObjects: map[string]int{},
		imageHashes:  map[string]int{},
		formObjects:  map[string]int{},
		extGStates:   map[extGStateKey]int{},
		shadings:     map[string]int{},
		ocgObjects:   map[string]int{},
		structure:    newStructureBuilder(),
	}
}

// allocID reserves the next object id without writing anything yet,
// needed when an object must reference another object's id before that
// object's body is built (e.g. a page referencing its not-yet-built
// content stream).
func (w *writer) allocID() int {
	id := w.nextID
	w.nextID++
	w.offsets = append(w.offsets, 0)
	return id
}

// writeObject emits an object at a freshly allocated id and returns it.
func (w *writer) writeObject(body string) int {
	id := w.allocID()
	w.writeObjectAt(id, body)
	return id
}

// writeObjectAt emits an object at a previously allocated id.
func (w *writer) writeObjectAt(id int, body string) {
	w.offsets[id] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", id, body)
}

func (w *writer) header() string {
	return fmt.Sprintf("%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", w.opts.Version)
}

// finish writes the xref table and trailer and returns the complete PDF
// byte stream.
func (w *writer) finish(rootID, infoID int) []byte {
	var out bytes.Buffer
	out.WriteString(w.header())
	headerLen := out.Len()
	out.Write(w.buf.Bytes())

	xrefOffset := headerLen + w.buf.Len()
	count := len(w.offsets)
	fmt.Fprintf(&out, "xref\n0 %d\n", count)
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < count; i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", headerLen+w.offsets[i])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\n", count, rootID, infoID)
	fmt.Fprintf(&out, "startxref\n%d\n%%%%EOF\n", xrefOffset)
	return out.Bytes()
}

// Encode serializes doc into a complete PDF byte stream under opts.
func Encode(doc canvas.Document, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	w := newWriter(opts)

	pageIDs := make([]int, len(doc.Pages))
	contentIDs := make([]int, len(doc.Pages))
	for i := range doc.Pages {
		pageIDs[i] = w.allocID()
	}
	pagesID := w.allocID()

	// Render every page's content stream first: this is what populates
	// the font/image/form/extgstate/shading interning maps, so the
	// shared Resources dict can only be built afterward.
	for i, page := range doc.Pages {
		contentBody, err := renderContentStream(w, page.Commands, i)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.KindStructural, "pdf.render_page",
				fmt.Sprintf("rendering page %d", i), err)
		}
		contentIDs[i] = w.writeObject(streamObject(contentBody))
	}

	resourcesID := w.writeObject(resourcesDict(w))

	for i, id := range pageIDs {
		w.writeObjectAt(id, pageObject(pagesID, doc.PageSize, contentIDs[i], resourcesID))
	}

	kidsRefs := make([]string, len(pageIDs))
	for i, id := range pageIDs {
		kidsRefs[i] = fmt.Sprintf("%d 0 R", id)
	}
	w.writeObjectAt(pagesID, fmt.Sprintf(
		"<< /Type /Pages /Count %d /Kids [%s] /MediaBox [0 0 %s %s] >>",
		len(pageIDs), joinRefs(kidsRefs), fmtPt(doc.PageSize.Width), fmtPt(doc.PageSize.Height)))

	var structRootID int
	if w.structure.hasContent() {
		structRootID = w.structure.writeStructTree(w, pageIDs)
	}

	var ocPropertiesID int
	if len(w.ocgObjects) > 0 {
		ocPropertiesID = writeOCProperties(w)
	}

	var outputIntentID int
	if w.opts.OutputIntent != nil {
		outputIntentID = writeOutputIntent(w, *w.opts.OutputIntent, w.opts.Profile)
	}

	var metadataID int
	if w.opts.Profile != ProfilePlain {
		metadataID = writeXMPMetadata(w, w.opts)
	}

	catalogBody := fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R", pagesID)
	if structRootID != 0 {
		catalogBody += fmt.Sprintf(" /StructTreeRoot %d 0 R /MarkInfo << /Marked true >>", structRootID)
	}
	if ocPropertiesID != 0 {
		catalogBody += fmt.Sprintf(" /OCProperties %d 0 R", ocPropertiesID)
	}
	if outputIntentID != 0 {
		catalogBody += fmt.Sprintf(" /OutputIntents [%d 0 R]", outputIntentID)
	}
	if metadataID != 0 {
		catalogBody += fmt.Sprintf(" /Metadata %d 0 R", metadataID)
	}
	catalogBody += " >>"
	rootID := w.writeObject(catalogBody)

	infoID := w.writeObject(infoObject(w.opts.Title))

	return w.finish(rootID, infoID), nil
}

func joinRefs(refs []string) string {
	var b bytes.Buffer
	for i, r := range refs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r)
	}
	return b.String()
}

func streamObject(content []byte) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
}

func infoObject(title string) string {
	if title == "" {
		return "<< /Producer (fullbleed) >>"
	}
	return fmt.Sprintf("<< /Title %s /Producer (fullbleed) >>", escapePDFString(title))
}
