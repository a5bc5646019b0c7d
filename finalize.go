package main

import (
	"fmt"

	"go.uber.org/zap"
)

// FinalizeResult reports which pages received their final label.
type FinalizeResult struct {
	Total    int
	Numbered []int
	Skipped  []int
}

// Finalize is the second pass: with the page count now known it revisits
// every page, repaints the band over the recorded label region and writes
// the final "page i of N" label. Pages without a usable region are skipped
// and the rest are still numbered.
func (r *Renderer) Finalize() FinalizeResult {
	total := r.doc.PageCount()
	res := FinalizeResult{Total: total}

	for i := 1; i <= total; i++ {
		page, ok := r.doc.Page(i)
		if !ok || page.Footer == nil || !page.Footer.Valid() {
			r.logger.Warn("Skipping page number, footer region missing", zap.Int("page", i))
			res.Skipped = append(res.Skipped, i)
			continue
		}
		if err := r.s.SelectPage(page.Number); err != nil {
			r.logger.Warn("Skipping page number, page not addressable", zap.Int("page", i), zap.Error(err))
			res.Skipped = append(res.Skipped, i)
			continue
		}

		r.s.Rect(*page.Footer, Filled(colorWave))
		r.drawPageLabel(*page.Footer, r.PageLabel(i, total))
		res.Numbered = append(res.Numbered, i)
	}

	// fpdf writes pages only up to the selected one.
	if last := r.doc.last(); last != nil {
		if err := r.s.SelectPage(last.Number); err != nil {
			r.logger.Warn("Could not reselect last page", zap.Int("page", last.Number), zap.Error(err))
		}
	}
	return res
}

// PageLabel formats the final footer label of page n out of total.
func (r *Renderer) PageLabel(n, total int) string {
	return fmt.Sprintf(r.cfg.Report.PageLabel, n, total)
}
