package plan

import (
	"fullbleed/internal/canvas"
	"fullbleed/internal/fontreg"
	"fullbleed/internal/units"
)

type boundsAccumulator struct {
	hasAny                 bool
	minX, minY, maxX, maxY float64
}

func (b *boundsAccumulator) addPoint(x, y float64) {
	if !b.hasAny {
		b.minX, b.maxX, b.minY, b.maxY = x, x, y, y
		b.hasAny = true
		return
	}
	if x < b.minX {
		b.minX = x
	}
	if x > b.maxX {
		b.maxX = x
	}
	if y < b.minY {
		b.minY = y
	}
	if y > b.maxY {
		b.maxY = y
	}
}

func (b *boundsAccumulator) rect() canvas.Rect {
	return canvas.Rect{
		X:      units.FromFloat(b.minX),
		Y:      units.FromFloat(b.minY),
		Width:  units.FromFloat(b.maxX - b.minX),
		Height: units.FromFloat(b.maxY - b.minY),
	}
}

// commandsBBox computes the bounding box of commands by simulating the
// affine transform stack and accumulating path/rect/image/text geometry.
// If any "__fb_bbox" meta command is encountered, it becomes authoritative:
// every geometry command from that point on is ignored for bbox purposes,
// and the result is the union of every meta rectangle seen, in either
// order relative to the geometry that surrounds it. fonts may be nil, in
// which case DrawString falls back to an approximate width.
func commandsBBox(commands []canvas.Command, fonts fontreg.Registry) (canvas.Rect, bool) {
	current := Identity()
	var stack []Transform

	var generic boundsAccumulator
	var meta boundsAccumulator
	hasMetaBounds := false

	var pathPoints []struct{ x, y float64 }
	flushPath := func() {
		for _, p := range pathPoints {
			generic.addPoint(p.x, p.y)
		}
		pathPoints = nil
	}
	addTransformedPoint := func(x, y units.Pt) {
		tx, ty := current.Apply(x.ToFloat(), y.ToFloat())
		pathPoints = append(pathPoints, struct{ x, y float64 }{tx, ty})
	}
	unionCorners := func(x, y, w, h units.Pt) {
		corners := [4][2]units.Pt{
			{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h},
		}
		for _, c := range corners {
			tx, ty := current.Apply(c[0].ToFloat(), c[1].ToFloat())
			generic.addPoint(tx, ty)
		}
	}

	fontName := "Helvetica"
	fontSize := units.FromFloat(12)

	for _, cmd := range commands {
		switch c := cmd.(type) {
		case canvas.SaveState:
			stack = append(stack, current)
		case canvas.RestoreState:
			if n := len(stack); n > 0 {
				current = stack[n-1]
				stack = stack[:n-1]
			}
		case canvas.Translate:
			current = Translate(c.X.ToFloat(), c.Y.ToFloat()).Mul(current)
		case canvas.Scale:
			current = ScaleTransform(c.SX, c.SY).Mul(current)
		case canvas.Rotate:
			current = RotateTransform(c.Radians).Mul(current)
		case canvas.ConcatMatrix:
			m := Transform{A: c.A, B: c.B, C: c.C, D: c.D, E: c.E.ToFloat(), F: c.F.ToFloat()}
			current = m.Mul(current)
		case canvas.SetFontName:
			fontName = c.Name
		case canvas.SetFontSize:
			fontSize = c.Size
		case canvas.Meta:
			if c.Key != "__fb_bbox" {
				continue
			}
			r, ok := canvas.ParseBBoxMeta(c.Value)
			if !ok {
				continue
			}
			hasMetaBounds = true
			meta.addPoint(r.X.ToFloat(), r.Y.ToFloat())
			meta.addPoint((r.X + r.Width).ToFloat(), (r.Y + r.Height).ToFloat())
		case canvas.MoveTo:
			if hasMetaBounds {
				continue
			}
			addTransformedPoint(c.X, c.Y)
		case canvas.LineTo:
			if hasMetaBounds {
				continue
			}
			addTransformedPoint(c.X, c.Y)
		case canvas.CurveTo:
			if hasMetaBounds {
				continue
			}
			addTransformedPoint(c.X1, c.Y1)
			addTransformedPoint(c.X2, c.Y2)
			addTransformedPoint(c.X, c.Y)
		case canvas.Fill, canvas.FillEvenOdd, canvas.Stroke, canvas.FillStroke,
			canvas.FillStrokeEvenOdd, canvas.ShadingFill:
			if hasMetaBounds {
				pathPoints = nil
				continue
			}
			flushPath()
		case canvas.DrawRect:
			if hasMetaBounds {
				continue
			}
			unionCorners(c.X, c.Y, c.Width, c.Height)
		case canvas.DrawImage:
			if hasMetaBounds {
				continue
			}
			unionCorners(c.X, c.Y, c.Width, c.Height)
		case canvas.DrawForm:
			if hasMetaBounds {
				continue
			}
			unionCorners(c.X, c.Y, c.Width, c.Height)
		case canvas.DrawString:
			if hasMetaBounds {
				continue
			}
			width := measureTextWidth(fonts, fontName, fontSize, c.Text)
			unionCorners(c.X, c.Y, width, fontSize)
		default:
			// ClipRect/ClipPath/color/line-state/dash/opacity/blend/
			// backdrop-filter/glyph-run/form-definition/tag/artifact/
			// optional-content commands carry no bbox-relevant geometry.
		}
	}

	if hasMetaBounds {
		if !meta.hasAny {
			return canvas.Rect{}, false
		}
		return meta.rect(), true
	}
	if !generic.hasAny {
		return canvas.Rect{}, false
	}
	return generic.rect(), true
}

func measureTextWidth(fonts fontreg.Registry, name string, size units.Pt, text string) units.Pt {
	if fonts != nil {
		if _, ok := fonts.Resolve(name); ok {
			return fonts.MeasureTextWidth(name, size, text)
		}
	}
	return units.FromFloat(0.6 * size.ToFloat() * float64(len([]rune(text))))
}
