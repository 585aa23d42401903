package pdf

import "fmt"

func writeOCProperties(w *writer) int {
	ids := make([]int, 0, len(w.ocgObjects))
	for _, id := range w.ocgObjects {
		ids = append(ids, id)
	}
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = fmt.Sprintf("%d 0 R", id)
	}
	all := joinRefs(refs)
	return w.writeObject(fmt.Sprintf(
		"<< /OCGs [%s] /D << /ON [%s] /Order [%s] >> >>", all, all, all))
}

// writeOutputIntent emits an ICC-based /OutputIntent, embedding the
// profile bytes as a stream object, required by PDF/A-2B and PDF/X-4
// alike (the GTS identifier string differs between them).
func writeOutputIntent(w *writer, oi OutputIntent, profile Profile) int {
	iccID := w.writeObject(fmt.Sprintf(
		"<< /N %d /Length %d >>\nstream\n%s\nendstream", oi.NComponents, len(oi.ICCProfile), string(oi.ICCProfile)))

	gts := "GTS_PDFA1"
	if profile == ProfilePDFX4 {
		gts = "GTS_PDFX"
	}
	return w.writeObject(fmt.Sprintf(
		"<< /Type /OutputIntent /S /%s /OutputConditionIdentifier %s /Info %s /RegistryName %s /DestOutputProfile %d 0 R >>",
		gts, escapePDFString(oi.Identifier), escapePDFString(oi.Info), escapePDFString(oi.RegistryName), iccID))
}

// writeXMPMetadata emits a minimal XMP packet declaring the PDF/A or
// PDF/X conformance identifiers, as both profiles require a machine
// readable part/conformance declaration alongside the catalog's
// /OutputIntents entry.
func writeXMPMetadata(w *writer, opts Options) int {
	part, conformance, schema := "2", "B", "pdfaid"
	if opts.Profile == ProfilePDFX4 {
		part, conformance, schema = "4", "", "pdfxid"
	}
	var conformanceEntry string
	if conformance != "" {
		conformanceEntry = fmt.Sprintf("<%s:conformance>%s</%s:conformance>", schema, conformance, schema)
	}
	packet := fmt.Sprintf(`<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description rdf:about="" xmlns:%s="http://www.aiim.org/pdfa/ns/id/">
<%s:part>%s</%s:part>
%s
</rdf:Description>
<rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title><rdf:Alt><rdf:li xml:lang="x-default">%s</rdf:li></rdf:Alt></dc:title>
</rdf:Description>
</rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`, schema, schema, part, schema, conformanceEntry, escapeXMLText(opts.Title))

	return w.writeObject(fmt.Sprintf(
		"<< /Type /Metadata /Subtype /XML /Length %d >>\nstream\n%s\nendstream", len(packet), packet))
}

func escapeXMLText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			out = append(out, []byte("&amp;")...)
		case '<':
			out = append(out, []byte("&lt;")...)
		case '>':
			out = append(out, []byte("&gt;")...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
