package main

import (
	"strings"
	"time"
)

// FilterPair is one labelled box of the filter summary.
type FilterPair struct {
	Label string
	Value string
}

// Filter box geometry
const (
	filterBoxW      = 32.0
	filterBoxH      = 22.0
	filterBoxGap    = 2.0
	filterFontSize  = 7.0
	filterLineStep  = 3.2
	filterBoxInset  = 2.0
	filterMaxLabel  = 2 // Lines
	filterMaxValue  = 3 // Lines
	filterBlockSpan = 30.0 + filterBoxH + 12.0
)

// FilterPairs lists the filter boxes in display order. Filters that were not
// applied show the "Todos"/"Todas" placeholder.
func FilterPairs(f FilterCriteria) []FilterPair {
	status := "Todos"
	switch f.IsActive {
	case StatusActive:
		status = "Activos"
	case StatusInactive:
		status = "Inactivos"
	}

	dates := "Todas"
	if f.StartDate.valid() || f.EndDate.valid() {
		dates = formatOptionalDate(f.StartDate, "Todas") + " - " + formatOptionalDate(f.EndDate, "Todas")
	}

	return []FilterPair{
		{Label: "ID dispositivo:", Value: orDefault(f.IoTID, "Todos")},
		{Label: "Nombre:", Value: orDefault(f.Name, "Todos")},
		{Label: "ID predio:", Value: orDefault(f.PlotID, "Todos")},
		{Label: "Estado:", Value: status},
		{Label: "Fecha de registro:", Value: dates},
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// drawFilterSummary draws the report title, the generation date and a row of
// filter boxes centred as a group, whatever the number of boxes.
func (r *Renderer) drawFilterSummary(title string, generatedAt time.Time, pairs []FilterPair) PageCursor {
	r.EnsureSpace(filterBlockSpan)
	c := r.cursor
	cx := c.Width / 2

	r.s.Text(cx, c.Y, title, TextStyle{Size: 16, Bold: true, Color: colorTitle, Align: AlignCenter})
	r.s.Text(cx, c.Y+10, "Fecha de creación del informe: "+FormatDate(generatedAt),
		TextStyle{Size: 11, Bold: true, Color: colorText, Align: AlignCenter})
	r.s.Text(headerMarginX+5, c.Y+22, "Filtros aplicados:", TextStyle{Size: 10, Bold: true, Color: colorText})

	if len(pairs) > 0 {
		n := float64(len(pairs))
		boxW := filterBoxW
		usable := c.Width - 2*headerMarginX
		if n*boxW+(n-1)*filterBoxGap > usable {
			boxW = (usable - (n-1)*filterBoxGap) / n
		}
		total := n*boxW + (n-1)*filterBoxGap
		x := (c.Width - total) / 2
		y := c.Y + 28
		for _, p := range pairs {
			r.drawFilterBox(Rect{X: x, Y: y, W: boxW, H: filterBoxH}, p)
			x += boxW + filterBoxGap
		}
	}

	r.Advance(filterBlockSpan)
	return r.cursor
}

// drawFilterBox draws one box; label and value wrap independently.
func (r *Renderer) drawFilterBox(box Rect, p FilterPair) {
	r.s.Rect(box, Outlined(colorFilterBox, colorFilterEdge, 0.2))

	inner := box.W - 2*filterBoxInset
	y := box.Y + 5
	labelStyle := TextStyle{Size: filterFontSize, Bold: true, Color: colorText}
	for _, line := range r.wrap(p.Label, inner, labelStyle, filterMaxLabel) {
		r.s.Text(box.X+filterBoxInset, y, line, labelStyle)
		y += filterLineStep
	}

	y += 1.5
	valueStyle := TextStyle{Size: filterFontSize, Color: colorText}
	for _, line := range r.wrap(p.Value, inner, valueStyle, filterMaxValue) {
		r.s.Text(box.X+filterBoxInset, y, line, valueStyle)
		y += filterLineStep
	}
}

// wrap breaks text into lines no wider than width using the surface's
// metrics, keeping at most maxLines. A cut-off last line ends in "...".
func (r *Renderer) wrap(text string, width float64, st TextStyle, maxLines int) []string {
	measure := func(s string) float64 { return r.s.TextWidth(s, st.Size, st.Bold) }
	lines := wrapText(text, width, measure)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		for len(last) > 0 && measure(string(last)+"...") > width {
			last = last[:len(last)-1]
		}
		lines[maxLines-1] = string(last) + "..."
	}
	return lines
}

// wrapText greedily fills lines word by word. Words wider than the line are
// split between runes.
func wrapText(text string, width float64, measure func(string) float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		for measure(word) > width {
			runes := []rune(word)
			cut := 1
			for cut < len(runes) && measure(string(runes[:cut+1])) <= width {
				cut++
			}
			lines = append(lines, string(runes[:cut]))
			word = string(runes[cut:])
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
