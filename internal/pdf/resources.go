package pdf

import (
	"fmt"
	"strings"

	"fullbleed/internal/canvas"
	"fullbleed/internal/fontreg"
	"fullbleed/internal/units"
)

// fmtPt formats a length in points with up to 3 decimal places, trimming
// trailing zeros, matching the compact numeric style PDF content streams
// use.
func fmtPt(p units.Pt) string {
	s := fmt.Sprintf("%.3f", p.ToFloat())
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func fmtFloat(v float64) string {
	s := fmt.Sprintf("%.5f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// pageObject builds a /Page dictionary referencing the shared resources
// dict and this page's own content stream.
func pageObject(parentID int, size canvas.Size, contentID, resourcesID int) string {
	return fmt.Sprintf(
		"<< /Type /Page /Parent %d 0 R /Resources %d 0 R /Contents %d 0 R /MediaBox [0 0 %s %s] >>",
		parentID, resourcesID, contentID, fmtPt(size.Width), fmtPt(size.Height))
}

// ensureFont interns name into the font resource map, allocating and
// writing its font object on first use, and returns the PDF resource key
// ("F" followed by fontKeySuffix(name)) the content stream should
// reference it by.
func (w *writer) ensureFont(name string) string {
	key := "F" + fontKeySuffix(name)
	if _, ok := w.fontObjects[name]; ok {
		return key
	}
	id := w.writeObject(fontObject(name, w.opts.Fonts))
	w.fontObjects[name] = id
	return key
}

func fontKeySuffix(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fontObject emits a base-14 /Type1 font dictionary. A registry-backed
// embedded TrueType/CFF program is out of scope: the font registry's
// capability contract is consumed only for glyph measurement, not for
// producing embeddable font program bytes.
func fontObject(name string, _ fontreg.Registry) string {
	base14 := name
	if !isStandardBase14(base14) {
		base14 = "Helvetica"
	}
	return fmt.Sprintf(
		"<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", base14)
}

func isStandardBase14(name string) bool {
	switch name {
	case "Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique",
		"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic",
		"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique",
		"Symbol", "ZapfDingbats":
		return true
	default:
		return false
	}
}

// ensureImage interns resourceID, decoding it through opts.Images (and
// opts.OptimizeImages's downsampling) into a /FlateDecode DeviceRGB image
// XObject, and returns its resource key. A missing or undecodable source
// degrades to a solid block in fillColor instead of failing the document.
//
// w.imageObjects always gains one resourceID entry so resourcesDict keeps
// emitting one /ImXXX name per resourceID; when opts.ReuseXObjects is set,
// that entry's object id is shared with any other resourceID whose
// decoded pixels hash the same, per spec's content-hash resource dedup.
func (w *writer) ensureImage(resourceID string, width, height units.Pt, fillColor canvas.Color) string {
	key := "Im" + fontKeySuffix(resourceID)
	if _, ok := w.imageObjects[resourceID]; ok {
		return key
	}

	img := resolveImage(w.opts, resourceID, width, height, fillColor)

	if w.opts.ReuseXObjects {
		hash := contentHash(img)
		if id, ok := w.imageHashes[hash]; ok {
			w.imageObjects[resourceID] = id
			return key
		}
		id := w.writeObject(imageXObject(img))
		w.imageHashes[hash] = id
		w.imageObjects[resourceID] = id
		return key
	}

	id := w.writeObject(imageXObject(img))
	w.imageObjects[resourceID] = id
	return key
}

// ensureForm interns a DefineForm's commands into a /Form XObject and
// returns its resource key, recursing through renderContentStream so a
// form's own nested commands intern their own fonts/images/shadings the
// same way a page's do.
func (w *writer) ensureForm(resourceID string, width, height units.Pt, commands []canvas.Command) (string, error) {
	key := "Fm" + fontKeySuffix(resourceID)
	if _, ok := w.formObjects[resourceID]; ok {
		return key, nil
	}
	body, err := renderContentStream(w, commands, -1)
	if err != nil {
		return "", err
	}
	id := w.writeObject(fmt.Sprintf(
		"<< /Type /XObject /Subtype /Form /BBox [0 0 %s %s] /Length %d >>\nstream\n%s\nendstream",
		fmtPt(width), fmtPt(height), len(body), body))
	w.formObjects[resourceID] = id
	return key, nil
}

// ensureExtGState interns an opacity pair into a reusable /ExtGState
// entry and returns its resource key.
func (w *writer) ensureExtGState(fillAlpha, strokeAlpha float64) string {
	k := extGStateKey{fillAlphaMilli: int64(fillAlpha * 1000), strokeAlphaMilli: int64(strokeAlpha * 1000)}
	if _, ok := w.extGStates[k]; !ok {
		w.extGStates[k] = w.writeObject(fmt.Sprintf(
			"<< /Type /ExtGState /ca %s /CA %s >>", fmtFloat(fillAlpha), fmtFloat(strokeAlpha)))
	}
	return "GS" + extGStateKeyLabel(k)
}

func extGStateKeyLabel(k extGStateKey) string {
	return fmt.Sprintf("%d_%d", k.fillAlphaMilli, k.strokeAlphaMilli)
}

// ensureShading interns shading and returns its resource key.
func (w *writer) ensureShading(key string, shading canvas.Shading) string {
	rk := "Sh" + fontKeySuffix(key)
	if _, ok := w.shadings[key]; ok {
		return rk
	}
	id := w.writeObject(shadingObject(shading, w.opts.Profile))
	w.shadings[key] = id
	return rk
}

// ensureOCG interns an optional content group name and returns its
// resource key and object id.
func (w *writer) ensureOCG(name string) (string, int) {
	rk := "OC" + fontKeySuffix(name)
	if id, ok := w.ocgObjects[name]; ok {
		return rk, id
	}
	id := w.writeObject(fmt.Sprintf("<< /Type /OCG /Name %s >>", escapePDFString(name)))
	w.ocgObjects[name] = id
	return rk, id
}

func resourcesDict(w *writer) string {
	var fonts, images, forms, extgstates, shadings, ocgs []string
	for name, id := range w.fontObjects {
		fonts = append(fonts, fmt.Sprintf("/F%s %d 0 R", fontKeySuffix(name), id))
	}
	for rid, id := range w.imageObjects {
		images = append(images, fmt.Sprintf("/Im%s %d 0 R", fontKeySuffix(rid), id))
	}
	for rid, id := range w.formObjects {
		forms = append(forms, fmt.Sprintf("/Fm%s %d 0 R", fontKeySuffix(rid), id))
	}
	for k, id := range w.extGStates {
		extgstates = append(extgstates, fmt.Sprintf("/GS%s %d 0 R", extGStateKeyLabel(k), id))
	}
	for key, id := range w.shadings {
		shadings = append(shadings, fmt.Sprintf("/Sh%s %d 0 R", fontKeySuffix(key), id))
	}
	for name, id := range w.ocgObjects {
		ocgs = append(ocgs, fmt.Sprintf("/OC%s %d 0 R", fontKeySuffix(name), id))
	}

	var b strings.Builder
	b.WriteString("<< /ProcSet [/PDF /Text /ImageC]")
	writeSubdict(&b, "/Font", fonts)
	writeSubdict(&b, "/XObject", append(images, forms...))
	writeSubdict(&b, "/ExtGState", extgstates)
	writeSubdict(&b, "/Shading", shadings)
	writeSubdict(&b, "/Properties", ocgs)
	b.WriteString(" >>")
	return b.String()
}

func writeSubdict(b *strings.Builder, name string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, " %s << %s >>", name, strings.Join(entries, " "))
}
