package pdf

import (
	"fmt"
	"strings"

	"fullbleed/internal/canvas"
)

// shadingObject builds a /ShadingType 2 (axial) or 3 (radial) dict with
// an inline stitching function built from NormalizeStops's padded,
// sorted stop list, so every shading this writer emits has well-formed
// domain/encode arrays regardless of how few stops the caller supplied.
// The color space follows the same per-profile rule as writeColorOp:
// DeviceCMYK under PDF/X-4, DeviceRGB otherwise.
func shadingObject(s canvas.Shading, profile Profile) string {
	space := shadingColorSpaceName(profile)
	switch v := s.(type) {
	case canvas.Axial:
		stops := canvas.NormalizeStops(v.Stops)
		fn := stitchingFunction(stops, profile)
		return fmt.Sprintf(
			"<< /ShadingType 2 /ColorSpace %s /Coords [%s %s %s %s] /Function %s /Extend [true true] >>",
			space, fmtPt(v.X0), fmtPt(v.Y0), fmtPt(v.X1), fmtPt(v.Y1), fn)
	case canvas.Radial:
		stops := canvas.NormalizeStops(v.Stops)
		fn := stitchingFunction(stops, profile)
		return fmt.Sprintf(
			"<< /ShadingType 3 /ColorSpace %s /Coords [%s %s %s %s %s %s] /Function %s /Extend [true true] >>",
			space, fmtPt(v.X0), fmtPt(v.Y0), fmtPt(v.R0), fmtPt(v.X1), fmtPt(v.Y1), fmtPt(v.R1), fn)
	default:
		return fmt.Sprintf(
			"<< /ShadingType 2 /ColorSpace %s /Coords [0 0 0 0] /Function %s >>",
			space, zeroComponentFunction(profile))
	}
}

func shadingColorSpaceName(profile Profile) string {
	if profile == ProfilePDFX4 {
		return "/DeviceCMYK"
	}
	return "/DeviceRGB"
}

func zeroComponentFunction(profile Profile) string {
	if profile == ProfilePDFX4 {
		return "<< /FunctionType 2 /Domain [0 1] /C0 [0 0 0 1] /C1 [0 0 0 1] /N 1 >>"
	}
	return "<< /FunctionType 2 /Domain [0 1] /C0 [0 0 0] /C1 [0 0 0] /N 1 >>"
}

// stitchingFunction renders stops as an inline /FunctionType 3 stitching
// function over /FunctionType 2 exponential segments between consecutive
// stops.
func stitchingFunction(stops []canvas.Stop, profile Profile) string {
	if len(stops) < 2 {
		return zeroComponentFunction(profile)
	}
	var funcs, bounds, encode []string
	for i := 0; i+1 < len(stops); i++ {
		a, b := stops[i], stops[i+1]
		funcs = append(funcs, fmt.Sprintf(
			"<< /FunctionType 2 /Domain [0 1] /C0 [%s] /C1 [%s] /N 1 >>",
			colorComponents(a.Color, profile), colorComponents(b.Color, profile)))
		if i > 0 {
			bounds = append(bounds, fmtFloat(stops[i].Offset))
		}
		encode = append(encode, "0 1")
	}
	return fmt.Sprintf(
		"<< /FunctionType 3 /Domain [0 1] /Functions [%s] /Bounds [%s] /Encode [%s] >>",
		strings.Join(funcs, " "), strings.Join(bounds, " "), strings.Join(encode, " "))
}

func colorComponents(c canvas.Color, profile Profile) string {
	if profile == ProfilePDFX4 {
		cy, m, y, k := c.CMYK()
		return fmt.Sprintf("%s %s %s %s", fmtFloat(cy), fmtFloat(m), fmtFloat(y), fmtFloat(k))
	}
	return fmt.Sprintf("%s %s %s", fmtFloat(c.R), fmtFloat(c.G), fmtFloat(c.B))
}
