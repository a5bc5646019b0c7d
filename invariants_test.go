package main

import (
	"fmt"
	"strings"
	"testing"
)

// Report Invariants Test Suite
//
// Property tests that must hold for any device list, whatever its size or
// the mix of categories. They exercise the full two-pass render on the
// recording surface and check layout and numbering rather than exact
// coordinates.

var invariantSizes = []int{0, 1, 7, 8, 9, 23, 24, 25, 57, 120}

var invariantTypes = [][]string{
	{"01"},
	{"01", "05", "11"},
	{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12", "13", "14", "99"},
}

func forEachReport(t *testing.T, check func(t *testing.T, devices []Device, r *Renderer, s *recordingSurface)) {
	t.Helper()
	for _, types := range invariantTypes {
		for _, n := range invariantSizes {
			t.Run(fmt.Sprintf("%d_devices_%d_types", n, len(types)), func(t *testing.T) {
				devices := makeDevices(n, types...)
				r, s := newTestRenderer()
				if _, err := r.Render(devices, FilterCriteria{}, testNow); err != nil {
					t.Fatalf("render failed: %v", err)
				}
				check(t, devices, r, s)
			})
		}
	}
}

// =============================================================================
// Aggregation Invariants
// =============================================================================

func TestInvariant_AggregationAccountsForEveryDevice(t *testing.T) {
	// Property: the aggregation rows add up to the number of devices, and
	// active + inactive == total on every row

	for _, types := range invariantTypes {
		for _, n := range invariantSizes {
			rows := Aggregate(makeDevices(n, types...), DefaultCatalog())
			sum := 0
			for _, row := range rows {
				if row.Active+row.Inactive != row.Total {
					t.Errorf("row %q: %d active + %d inactive != %d total", row.Label, row.Active, row.Inactive, row.Total)
				}
				if row.Total == 0 {
					t.Errorf("row %q has no devices", row.Label)
				}
				sum += row.Total
			}
			if sum != n {
				t.Errorf("types %v: rows total %d, want %d", types, sum, n)
			}
		}
	}
}

// =============================================================================
// Layout Invariants
// =============================================================================

func TestInvariant_EveryDeviceRenderedOnce(t *testing.T) {
	// Property: every input device appears exactly once in the detail table

	forEachReport(t, func(t *testing.T, devices []Device, r *Renderer, s *recordingSurface) {
		for _, d := range devices {
			if got := s.countText(d.IoTID); got != 1 {
				t.Errorf("device %s drawn %d times", d.IoTID, got)
			}
		}
	})
}

func TestInvariant_BodyStaysBetweenHeaderAndFooter(t *testing.T) {
	// Property: no detail row starts above the body top or ends inside the
	// footer reservation

	forEachReport(t, func(t *testing.T, devices []Device, r *Renderer, s *recordingSurface) {
		for _, o := range s.textsWithPrefix("DEV-") {
			top := o.Y - 6.5
			if top < headerBottom+bodyGap || top+10 > 297-bottomReserve {
				t.Errorf("row %s at %.1f on page %d is outside the body", o.Text, top, o.Page)
			}
		}
	})
}

func TestInvariant_DetailHeaderOnEveryDetailPage(t *testing.T) {
	// Property: each page holding detail rows carries the column header above them

	forEachReport(t, func(t *testing.T, devices []Device, r *Renderer, s *recordingSurface) {
		for page := 1; page <= s.PageCount(); page++ {
			headerY, firstRow := -1.0, -1.0
			for _, o := range s.texts(page) {
				if o.Text == "ID Dispositivo" && headerY < 0 {
					headerY = o.Y
				}
				if strings.HasPrefix(o.Text, "DEV-") && firstRow < 0 {
					firstRow = o.Y
				}
			}
			if firstRow >= 0 && (headerY < 0 || headerY > firstRow) {
				t.Errorf("page %d has rows without a header above them", page)
			}
		}
	})
}

// =============================================================================
// Numbering Invariants
// =============================================================================

func TestInvariant_EveryPageNumberedWithFinalTotal(t *testing.T) {
	// Property: page i of N carries exactly one "Page i of N" label, where N is
	// the final page count, and chrome is drawn on every page

	forEachReport(t, func(t *testing.T, devices []Device, r *Renderer, s *recordingSurface) {
		total := s.PageCount()
		if r.Document().PageCount() != total {
			t.Fatalf("document has %d pages, surface %d", r.Document().PageCount(), total)
		}
		for page := 1; page <= total; page++ {
			label := fmt.Sprintf("Page %d of %d", page, total)
			found := 0
			company := 0
			for _, o := range s.texts(page) {
				if o.Text == label {
					found++
				}
				if o.Text == "NIT: 891180084" {
					company++
				}
			}
			if found != 1 {
				t.Errorf("page %d: %d final labels, want 1", page, found)
			}
			if company != 1 {
				t.Errorf("page %d: header drawn %d times", page, company)
			}
		}
	})
}

func TestInvariant_ChartNeverSplit(t *testing.T) {
	// Property: the legend, the scale and the category labels of the chart
	// share one page

	forEachReport(t, func(t *testing.T, devices []Device, r *Renderer, s *recordingSurface) {
		if len(devices) == 0 {
			return
		}
		pages := map[int]bool{}
		for _, o := range s.texts(0) {
			legend := o.Text == "Activos" && o.Style.Color == colorText && !o.Style.Bold
			if legend || o.Style.Rotation == chartLabelAngle {
				pages[o.Page] = true
			}
		}
		if len(pages) != 1 {
			t.Errorf("chart spread over pages %v", pages)
		}
	})
}
