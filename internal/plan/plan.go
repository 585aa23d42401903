// Package plan resolves a rendered content document, plus optional
// per-page background/overlay documents, into an ordered placement plan
// and then paints that plan back into a single document — the layer
// through which content, the page background, and a running overlay get
// merged by the rules their z-order implies, independent of the layout
// engine that produced any of them.
package plan

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"fullbleed/internal/canvas"
	"fullbleed/internal/fontreg"
	"fullbleed/internal/pagedata"
)

// Layer is a placement's paint order, back to front.
type Layer int

const (
	LayerBackground Layer = iota
	LayerContent
	LayerOverlay
)

// PlacedItem is one paintable positioned on a page, in source-document
// paint order within its layer.
type PlacedItem struct {
	PaintableID string
	Layer       Layer
	Bbox        *canvas.Rect
	Transform   *Transform
}

// Paintable is a reusable command sequence referenced by id from one or
// more placements.
type Paintable struct {
	Commands []canvas.Command
}

// PagePlan is one page's placements plus the page-data snapshot computed
// for it.
type PagePlan struct {
	PageNumber int
	PageCount  int
	PageData   map[string]pagedata.Value
	Placements []PlacedItem
}

// DocPlan is the full resolved plan for a document: every page's
// placements, and the paintables they reference.
type DocPlan struct {
	DocID      string
	PageSize   canvas.Size
	PageCount  int
	Pages      []PagePlan
	Paintables map[string]Paintable
}

// BuildDocPlan resolves content plus optional background/overlay
// documents into a DocPlan. Background and overlay may be nil, or may
// have fewer pages than content — pages beyond either's length simply get
// no placement from that layer. fonts may be nil; when present it lets
// commandsBBox measure DrawString geometry precisely instead of falling
// back to an approximation.
func BuildDocPlan(docID string, content canvas.Document, background, overlay *canvas.Document, spec pagedata.Spec, fonts fontreg.Registry) DocPlan {
	ctx := pagedata.Compute(content, spec)

	plan := DocPlan{
		DocID:      docID,
		PageSize:   content.PageSize,
		PageCount:  len(content.Pages),
		Pages:      make([]PagePlan, len(content.Pages)),
		Paintables: make(map[string]Paintable, len(content.Pages)*3),
	}

	fullPage := canvas.Rect{X: 0, Y: 0, Width: content.PageSize.Width, Height: content.PageSize.Height}

	for i, page := range content.Pages {
		var placements []PlacedItem

		if background != nil && i < len(background.Pages) {
			id := fmt.Sprintf("%s-background-%d", docID, i)
			plan.Paintables[id] = Paintable{Commands: background.Pages[i].Commands}
			bbox := boundsOrFullPage(background.Pages[i].Commands, fonts, fullPage)
			placements = append(placements, PlacedItem{PaintableID: id, Layer: LayerBackground, Bbox: &bbox})
		}

		contentID := fmt.Sprintf("%s-content-%d", docID, i)
		plan.Paintables[contentID] = Paintable{Commands: page.Commands}
		contentBbox := boundsOrFullPage(page.Commands, fonts, fullPage)
		placements = append(placements, PlacedItem{PaintableID: contentID, Layer: LayerContent, Bbox: &contentBbox})

		if overlay != nil && i < len(overlay.Pages) {
			id := fmt.Sprintf("%s-overlay-%d", docID, i)
			plan.Paintables[id] = Paintable{Commands: overlay.Pages[i].Commands}
			bbox := boundsOrFullPage(overlay.Pages[i].Commands, fonts, fullPage)
			placements = append(placements, PlacedItem{PaintableID: id, Layer: LayerOverlay, Bbox: &bbox})
		}

		sortPlacementsByLayer(placements)

		var pageData map[string]pagedata.Value
		if i < len(ctx.Pages) {
			pageData = ctx.Pages[i]
		}

		plan.Pages[i] = PagePlan{
			PageNumber: i + 1,
			PageCount:  plan.PageCount,
			PageData:   pageData,
			Placements: placements,
		}
	}

	return plan
}

func boundsOrFullPage(commands []canvas.Command, fonts fontreg.Registry, fullPage canvas.Rect) canvas.Rect {
	if r, ok := commandsBBox(commands, fonts); ok {
		return r
	}
	return fullPage
}

// UnusedPaintables returns the ids of every paintable in d.Paintables
// that no page's placements reference, using a bitset to track
// seen-ness across the full paintable set in one pass rather than a
// map-of-bools per lookup.
func (d DocPlan) UnusedPaintables() []string {
	ids := make([]string, 0, len(d.Paintables))
	index := make(map[string]uint, len(d.Paintables))
	for id := range d.Paintables {
		index[id] = uint(len(ids))
		ids = append(ids, id)
	}

	seen := bitset.New(uint(len(ids)))
	for _, page := range d.Pages {
		for _, placement := range page.Placements {
			if i, ok := index[placement.PaintableID]; ok {
				seen.Set(i)
			}
		}
	}

	var unused []string
	for i, id := range ids {
		if !seen.Test(uint(i)) {
			unused = append(unused, id)
		}
	}
	return unused
}

// sortPlacementsByLayer stable-sorts placements by layer rank
// (background, content, overlay), preserving each layer's existing
// relative order.
func sortPlacementsByLayer(placements []PlacedItem) {
	for i := 1; i < len(placements); i++ {
		for j := i; j > 0 && placements[j-1].Layer > placements[j].Layer; j-- {
			placements[j-1], placements[j] = placements[j], placements[j-1]
		}
	}
}
