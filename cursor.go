package main

import "go.uber.org/zap"

// Page layout in millimetres on A4 portrait.
const (
	bodyGap       = 15.0 // Space between the header chrome and the first body line
	bottomReserve = 60.0 // Reserved above the page bottom for the footer band
	waveHeight    = 40.0
	waveInset     = 15.0 // The solid band starts this far below the wave top
)

// PageCursor is the write position on the current page.
type PageCursor struct {
	Page   int     // 1-based page number
	Y      float64 // Next writable vertical offset
	Width  float64
	Height float64
	Top    float64 // First writable offset below the header
	Bottom float64 // Last writable offset above the footer reservation
}

// Remaining is the vertical space left on the page.
func (c PageCursor) Remaining() float64 {
	return c.Bottom - c.Y
}

// Fits reports whether an element of height h fits on the current page.
// An element exactly as tall as the remaining space fits.
func (c PageCursor) Fits(h float64) bool {
	return !(h > c.Remaining())
}

// Cursor returns the current write position.
func (r *Renderer) Cursor() PageCursor {
	return r.cursor
}

// Advance moves the cursor down by h without any page-break check.
func (r *Renderer) Advance(h float64) {
	r.cursor.Y += h
}

// EnsureSpace guarantees room for an element of the given height. When the
// current page is too short it closes the page (footer with a placeholder
// page label), opens a new one with watermark and header, and reports true.
func (r *Renderer) EnsureSpace(required float64) (PageCursor, bool) {
	if r.cursor.Fits(required) {
		return r.cursor, false
	}

	closing := r.cursor.Page
	r.drawFooter()
	r.openPage()
	r.logger.Debug("Page break",
		zap.Int("closed_page", closing),
		zap.Int("new_page", r.cursor.Page),
		zap.Float64("required", required))
	return r.cursor, true
}

// openPage starts a new page: watermark first, then the header chrome, and
// resets the cursor below the header.
func (r *Renderer) openPage() {
	r.s.NewPage()
	n := r.s.CurrentPage()
	r.doc.add(n)

	r.drawWatermark()
	headerBottom := r.drawHeader()

	w, h := r.s.PageSize()
	top := headerBottom + bodyGap
	r.cursor = PageCursor{
		Page:   n,
		Y:      top,
		Width:  w,
		Height: h,
		Top:    top,
		Bottom: h - bottomReserve,
	}
}
