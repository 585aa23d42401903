package plan

import (
	"context"

	"fullbleed/internal/canvas"
	"fullbleed/internal/obs"
	"fullbleed/internal/pkg/pool"
)

// PageOps is one page's flattened, paint-ordered command sequence.
type PageOps struct {
	Commands []canvas.Command
}

func paintPage(page PagePlan, paintables map[string]Paintable) PageOps {
	var cmds []canvas.Command
	for _, placement := range page.Placements {
		pt, ok := paintables[placement.PaintableID]
		if !ok {
			continue
		}
		cmds = append(cmds, pt.Commands...)
	}
	return PageOps{Commands: cmds}
}

// PaintPlan flattens every page's placements into its final command
// sequence, in document order.
func PaintPlan(doc DocPlan) []PageOps {
	ops := make([]PageOps, len(doc.Pages))
	for i, page := range doc.Pages {
		ops[i] = paintPage(page, doc.Paintables)
	}
	return ops
}

// pagePaintJob implements pool.Job, painting one page and writing its
// result into a pre-sized slot so page order survives out-of-order
// completion.
type pagePaintJob struct {
	index      int
	page       PagePlan
	paintables map[string]Paintable
	out        *PageOps
}

func (j *pagePaintJob) Index() int { return j.index }

func (j *pagePaintJob) Run(ctx context.Context) error {
	*j.out = paintPage(j.page, j.paintables)
	return nil
}

// PaintPlanParallel paints every page concurrently across workers
// goroutines, restoring page order in the returned slice via each job's
// Index regardless of completion order.
func PaintPlanParallel(ctx context.Context, doc DocPlan, workers int, logger obs.Logger) []PageOps {
	ops := make([]PageOps, len(doc.Pages))
	jobs := make([]pool.Job, len(doc.Pages))
	for i, page := range doc.Pages {
		jobs[i] = &pagePaintJob{index: i, page: page, paintables: doc.Paintables, out: &ops[i]}
	}
	pool.RunAll(ctx, workers, logger, jobs)
	return ops
}

// OpsToDocument wraps a flattened page-ops slice back into a Document.
func OpsToDocument(pageSize canvas.Size, ops []PageOps) canvas.Document {
	pages := make([]canvas.Page, len(ops))
	for i, o := range ops {
		pages[i] = canvas.Page{Commands: o.Commands}
	}
	return canvas.Document{PageSize: pageSize, Pages: pages}
}
