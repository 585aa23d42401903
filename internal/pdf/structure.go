package pdf

import (
	"fmt"
	"strings"

	"fullbleed/internal/canvas"
)

// standardStructureTypes maps a document's own role vocabulary onto the
// nearest PDF standard structure type, falling back to /Div for anything
// unrecognized so a custom role never produces an invalid structure tree.
var standardStructureTypes = map[string]string{
	"document": "Document", "part": "Part", "sect": "Sect", "article": "Art",
	"h1": "H1", "h2": "H2", "h3": "H3", "h4": "H4", "h5": "H5", "h6": "H6",
	"p": "P", "span": "Span", "link": "Link", "figure": "Figure",
	"table": "Table", "tr": "TR", "th": "TH", "td": "TD",
	"list": "L", "listitem": "LI", "label": "Lbl", "lbody": "LBody",
	"caption": "Caption", "quote": "BlockQuote", "note": "Note",
	"artifact": "Artifact", "toc": "TOC", "tocitem": "TOCI",
}

func standardStructureType(role string) string {
	if t, ok := standardStructureTypes[strings.ToLower(role)]; ok {
		return t
	}
	return "Div"
}

type structureTag struct {
	role      string
	mcid      *uint32
	pageIndex int
	alt       *string
}

// structureBuilder accumulates BeginTag records in document order and
// emits a flat, single-level Tagged-PDF structure tree from them: each
// tag becomes one StructElem under a synthetic top-level Document
// element, referencing its page and MCID.
type structureBuilder struct {
	tags []structureTag
}

func newStructureBuilder() *structureBuilder {
	return &structureBuilder{}
}

func (s *structureBuilder) recordTag(pageIndex int, c canvas.BeginTag) {
	s.tags = append(s.tags, structureTag{role: c.Role, mcid: c.MCID, pageIndex: pageIndex, alt: c.Alt})
}

func (s *structureBuilder) hasContent() bool {
	return len(s.tags) > 0
}

// writeStructTree writes one StructElem per recorded tag (skipping tags
// with no page, e.g. ones recorded while rendering a form XObject, since
// a structure tree entry needs a concrete page parent) plus a wrapping
// Document element and the StructTreeRoot itself, returning the root's
// object id.
func (s *structureBuilder) writeStructTree(w *writer, pageIDs []int) int {
	// Reserve the Document and StructTreeRoot ids up front so each
	// StructElem's /P parent reference can be written immediately,
	// without a second pass over already-emitted object bytes.
	docID := w.allocID()
	rootID := w.allocID()

	var kidIDs []int
	for _, tag := range s.tags {
		if tag.pageIndex < 0 || tag.pageIndex >= len(pageIDs) {
			continue
		}
		body := fmt.Sprintf("<< /Type /StructElem /S /%s /P %d 0 R /Pg %d 0 R",
			standardStructureType(tag.role), docID, pageIDs[tag.pageIndex])
		if tag.mcid != nil {
			body += fmt.Sprintf(" /K %d", *tag.mcid)
		}
		if tag.alt != nil {
			body += fmt.Sprintf(" /Alt %s", escapePDFString(*tag.alt))
		}
		body += " >>"
		kidIDs = append(kidIDs, w.writeObject(body))
	}

	kidRefs := make([]string, len(kidIDs))
	for i, id := range kidIDs {
		kidRefs[i] = fmt.Sprintf("%d 0 R", id)
	}
	w.writeObjectAt(docID, fmt.Sprintf(
		"<< /Type /StructElem /S /Document /P %d 0 R /K [%s] >>", rootID, joinRefs(kidRefs)))
	w.writeObjectAt(rootID, fmt.Sprintf("<< /Type /StructTreeRoot /K %d 0 R >>", docID))

	return rootID
}
