package main

import (
	"fmt"
	"math"
)

// Color scheme of the utility's documents
var (
	colorTitle       = Color{52, 84, 134}   // Navy section titles
	colorText        = Color{0, 0, 0}       // Body text
	colorMuted       = Color{100, 100, 100} // Axis labels, captions
	colorWhite       = Color{255, 255, 255}
	colorWave        = Color{64, 188, 165}  // Footer band
	colorPlaceholder = Color{52, 152, 219}  // Logo placeholder disc
	colorTableHeader = Color{144, 198, 149} // Green header row
	colorStripe      = Color{248, 248, 248} // Alternating row
	colorRule        = Color{230, 230, 230} // Row separators
	colorTotalsRow   = Color{220, 220, 220}
	colorFilterBox   = Color{230, 240, 255}
	colorFilterEdge  = Color{200, 220, 240}
	colorGridLine    = Color{220, 220, 220}
	colorActive      = Color{144, 198, 149}
	colorInactive    = Color{52, 84, 134}
)

// Header geometry
const (
	headerMarginX = 15.0
	logoX         = 15.0
	logoY         = 15.0
	logoW         = 80.0
	logoH         = 25.0
	headerBottom  = 50.0
)

// Watermark box, centred horizontally
const (
	watermarkX = 12.0
	watermarkY = 90.0
	watermarkW = 186.0
	watermarkH = 100.0
)

// drawHeader draws the logo (or its placeholder) and the right-aligned
// company block. It returns the offset where body content may start.
func (r *Renderer) drawHeader() float64 {
	w, _ := r.s.PageSize()

	if r.assets.Logo != nil {
		r.s.Image(r.assets.Logo, fitInto(r.assets.Logo, Rect{X: logoX, Y: logoY, W: logoW, H: logoH}))
	} else {
		drawLogoPlaceholder(r.s)
	}

	company := r.cfg.Company
	lines := []struct {
		text string
		bold bool
	}{
		{company.Name, true},
		{"NIT: " + company.NIT, false},
		{"Teléfono: " + company.Phone, false},
		{company.Address, false},
	}
	y := 19.0
	for _, l := range lines {
		r.s.Text(w-headerMarginX, y, l.text, TextStyle{Size: 10, Bold: l.bold, Color: colorText, Align: AlignRight})
		y += 6.5
	}

	return headerBottom
}

// drawLogoPlaceholder draws the "AS" disc used when the logo asset is missing.
func drawLogoPlaceholder(s Surface) {
	s.Circle(27.5, 27.5, 12, Filled(colorPlaceholder))
	s.Text(27.5, 31, "AS", TextStyle{Size: 14, Bold: true, Color: colorWhite, Align: AlignCenter})
}

// fitInto scales img to fit box while keeping its aspect ratio, centred in box.
func fitInto(img *ImageAsset, box Rect) Rect {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return box
	}
	scale := math.Min(box.W/float64(img.Width), box.H/float64(img.Height))
	w := float64(img.Width) * scale
	h := float64(img.Height) * scale
	return Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}

// drawWatermark draws the translucent background mark. It must run before
// anything else on the page; the opacity is scoped to the mark itself.
func (r *Renderer) drawWatermark() {
	withOpacity(r.s, r.cfg.Report.Opacity(), func() {
		box := Rect{X: watermarkX, Y: watermarkY, W: watermarkW, H: watermarkH}
		if r.assets.Watermark != nil {
			r.s.Image(r.assets.Watermark, fitInto(r.assets.Watermark, box))
			return
		}
		cx, cy := box.X+box.W/2, box.Y+box.H/2
		r.s.Circle(cx, cy, box.H/2, Filled(colorWave))
		r.s.Text(cx, cy+6, r.cfg.Company.Name, TextStyle{Size: 40, Bold: true, Color: colorWhite, Align: AlignCenter, Rotation: 20})
	})
}

// pageLabelRegion is the rectangle that holds the page label inside the band.
func pageLabelRegion(pageW, pageH float64) Rect {
	return Rect{X: pageW - 85, Y: pageH - 21, W: 70, H: 9}
}

// drawFooter closes the current page: solid band, generator line, and a
// placeholder page label whose region is recorded for the finalizer.
func (r *Renderer) drawFooter() {
	page := r.doc.last()
	if page == nil {
		return
	}
	w, h := r.s.PageSize()
	bandTop := h - waveHeight + waveInset
	r.s.Rect(Rect{X: 0, Y: bandTop, W: w, H: h - bandTop}, Filled(colorWave))

	r.s.Text(headerMarginX, h-12.5, fmt.Sprintf("Generado por %s © %d", r.cfg.Company.Name, r.generatedAt.Year()),
		TextStyle{Size: 8, Color: colorWhite})

	region := pageLabelRegion(w, h)
	r.drawPageLabel(region, placeholderPageLabel(page.Number))
	page.Footer = &region
}

// drawPageLabel writes text right-aligned inside the page label region.
func (r *Renderer) drawPageLabel(region Rect, text string) {
	r.s.Text(region.X+region.W, region.Y+region.H-2.5, text,
		TextStyle{Size: 11, Bold: true, Color: colorWhite, Align: AlignRight})
}

// placeholderPageLabel is written during layout, before the total is known.
func placeholderPageLabel(n int) string {
	return fmt.Sprintf("%d / ?", n)
}
