package main

import (
	"math"
	"strconv"
)

// Chart geometry
const (
	chartScaleFloor  = 10
	chartGridLines   = 5
	chartPlotWidth   = 150.0
	chartPlotHeight  = 60.0
	chartLegendSpan  = 10.0
	chartPlotPad     = 6.0
	chartLabelSpan   = 32.0
	chartMaxBarWidth = 12.0
	chartBarGap      = 1.0
	chartLabelAngle  = 45.0
	chartLabelChars  = 22
	chartBlockSpan   = chartLegendSpan + chartPlotPad + chartPlotHeight + chartLabelSpan
)

// ChartScaleMax is the value mapped to the full plot height: the largest
// active or inactive count, but never less than 10.
func ChartScaleMax(rows []AggregationRow) int {
	maxValue := chartScaleFloor
	for _, r := range rows {
		maxValue = max(maxValue, r.Active, r.Inactive)
	}
	return maxValue
}

// barHeight scales value against maxValue onto the plot height.
func barHeight(value, maxValue int) float64 {
	if maxValue <= 0 {
		return 0
	}
	return float64(value) / float64(maxValue) * chartPlotHeight
}

// RenderGroupedBarChart draws one active/inactive bar pair per row with a
// shared Y scale, gridlines, a single legend and rotated category labels.
// The whole chart is kept on one page.
func (r *Renderer) RenderGroupedBarChart(rows []AggregationRow) PageCursor {
	if len(rows) == 0 {
		return r.cursor
	}
	r.EnsureSpace(chartBlockSpan)

	c := r.cursor
	plotX := (c.Width - chartPlotWidth) / 2
	plotTop := c.Y + chartLegendSpan + chartPlotPad
	plotBottom := plotTop + chartPlotHeight
	maxValue := ChartScaleMax(rows)

	r.drawChartLegend(c.Width/2, c.Y+4)

	// Gridlines and Y scale
	labelStyle := TextStyle{Size: 7, Color: colorMuted, Align: AlignRight}
	r.s.Text(plotX-2, plotBottom+1, "0", labelStyle)
	for i := 1; i <= chartGridLines; i++ {
		gy := plotBottom - chartPlotHeight*float64(i)/chartGridLines
		r.s.Line(plotX, gy, plotX+chartPlotWidth, gy, colorGridLine, 0.2)
		value := float64(maxValue) * float64(i) / chartGridLines
		r.s.Text(plotX-2, gy+1, formatScaleValue(value), labelStyle)
	}

	// Axes
	r.s.Line(plotX, plotTop, plotX, plotBottom, colorMuted, 0.5)
	r.s.Line(plotX, plotBottom, plotX+chartPlotWidth, plotBottom, colorMuted, 0.5)

	groupW := chartPlotWidth / float64(len(rows))
	barW := math.Min(chartMaxBarWidth, groupW*0.35)
	pairW := 2*barW + chartBarGap
	valueSize := math.Min(7, math.Max(4, barW*0.9))
	categorySize := math.Min(7, math.Max(4.5, groupW*0.6))

	for i, row := range rows {
		gx := plotX + float64(i)*groupW
		bx := gx + (groupW-pairW)/2
		r.drawBar(bx, plotBottom, barW, row.Active, maxValue, colorActive, valueSize)
		r.drawBar(bx+barW+chartBarGap, plotBottom, barW, row.Inactive, maxValue, colorInactive, valueSize)

		r.s.Text(gx+groupW/2, plotBottom+4, TruncateCell(row.Label, chartLabelChars),
			TextStyle{Size: categorySize, Color: colorText, Align: AlignRight, Rotation: chartLabelAngle})
	}

	r.Advance(chartBlockSpan)
	return r.cursor
}

// drawBar draws one bar standing on baseline. The count is written inside
// the bar whenever it is positive, even if the bar is shorter than the text.
func (r *Renderer) drawBar(x, baseline, width float64, value, maxValue int, fill Color, textSize float64) {
	h := barHeight(value, maxValue)
	if h > 0 {
		r.s.Rect(Rect{X: x, Y: baseline - h, W: width, H: h}, Filled(fill))
	}
	if value > 0 {
		r.s.Text(x+width/2, baseline-h/2+textSize*0.15, strconv.Itoa(value),
			TextStyle{Size: textSize, Bold: true, Color: colorWhite, Align: AlignCenter})
	}
}

// drawChartLegend draws the two series markers centred on cx.
func (r *Renderer) drawChartLegend(cx, y float64) {
	entries := []struct {
		label string
		color Color
	}{
		{"Activos", colorActive},
		{"Inactivos", colorInactive},
	}
	const spacing = 40.0
	x := cx - spacing*float64(len(entries))/2 + 5
	for _, e := range entries {
		r.s.Circle(x, y, 2.5, Filled(e.color))
		r.s.Text(x+5, y+1.2, e.label, TextStyle{Size: 9, Color: colorText})
		x += spacing
	}
}

// formatScaleValue prints whole scale values without decimals.
func formatScaleValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
