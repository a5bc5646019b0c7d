package main

// Column is one fixed-width table column.
type Column struct {
	Header   string
	Width    float64
	MaxChars int // Truncate cells longer than this many characters; 0 disables
	Align    Align
}

// Table describes a striped table drawn by RenderTable.
type Table struct {
	Columns      []Column
	HeaderHeight float64
	RowHeight    float64
	HeaderSize   float64 // Font size of the header row
	FontSize     float64 // Font size of data rows
	EmptyText    string  // Shown in a single row when there is no data
	Footer       []string
}

// Width is the sum of all column widths.
func (t Table) Width() float64 {
	w := 0.0
	for _, c := range t.Columns {
		w += c.Width
	}
	return w
}

// TruncateCell shortens s to limit characters, ending in "..." when it was
// longer. Length is counted in runes, never in rendered width.
func TruncateCell(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// RenderTable draws the header row and then every data row, breaking pages as
// needed. After each break the header row is drawn again before the row that
// caused it. Stripes follow the absolute row index, so they stay consistent
// across pages.
func (r *Renderer) RenderTable(t Table, rows [][]string) PageCursor {
	first := t.RowHeight
	if len(rows) == 0 && t.EmptyText == "" {
		first = 0
	}
	r.EnsureSpace(t.HeaderHeight + first)
	r.drawTableHeader(t)

	for i, row := range rows {
		if _, broke := r.EnsureSpace(t.RowHeight); broke {
			r.drawTableHeader(t)
		}
		r.drawTableRow(t, i, row, false)
	}

	if len(rows) == 0 && t.EmptyText != "" {
		r.drawEmptyRow(t)
	}

	if len(t.Footer) > 0 {
		if _, broke := r.EnsureSpace(t.RowHeight); broke {
			r.drawTableHeader(t)
		}
		r.drawTableRow(t, len(rows), t.Footer, true)
	}

	x := r.tableX(t)
	r.s.Line(x, r.cursor.Y, x+t.Width(), r.cursor.Y, colorRule, 0.2)
	return r.cursor
}

func (r *Renderer) tableX(t Table) float64 {
	return (r.cursor.Width - t.Width()) / 2
}

func (r *Renderer) drawTableHeader(t Table) {
	x := r.tableX(t)
	y := r.cursor.Y
	r.s.Rect(Rect{X: x, Y: y, W: t.Width(), H: t.HeaderHeight}, Filled(colorTableHeader))

	style := TextStyle{Size: t.HeaderSize, Bold: true, Color: colorWhite, Align: AlignCenter}
	for _, col := range t.Columns {
		r.s.Text(x+col.Width/2, y+t.HeaderHeight/2+1.5, col.Header, style)
		x += col.Width
	}
	r.Advance(t.HeaderHeight)
}

// drawTableRow draws row number index. Totals rows are bold on a darker fill.
func (r *Renderer) drawTableRow(t Table, index int, cells []string, totals bool) {
	x := r.tableX(t)
	y := r.cursor.Y
	switch {
	case totals:
		r.s.Rect(Rect{X: x, Y: y, W: t.Width(), H: t.RowHeight}, Filled(colorTotalsRow))
	case index%2 == 1:
		r.s.Rect(Rect{X: x, Y: y, W: t.Width(), H: t.RowHeight}, Filled(colorStripe))
	}
	r.s.Line(x, y, x+t.Width(), y, colorRule, 0.2)

	for i, col := range t.Columns {
		text := ""
		if i < len(cells) {
			text = TruncateCell(cells[i], col.MaxChars)
		}
		r.s.Text(cellAnchor(x, col), y+t.RowHeight/2+1.5, text,
			TextStyle{Size: t.FontSize, Bold: totals, Color: colorText, Align: col.Align})
		x += col.Width
	}
	r.Advance(t.RowHeight)
}

func (r *Renderer) drawEmptyRow(t Table) {
	x := r.tableX(t)
	y := r.cursor.Y
	r.s.Line(x, y, x+t.Width(), y, colorRule, 0.2)
	r.s.Text(x+t.Width()/2, y+t.RowHeight/2+1.5, t.EmptyText,
		TextStyle{Size: t.FontSize, Color: colorMuted, Align: AlignCenter})
	r.Advance(t.RowHeight)
}

// cellAnchor returns the text x coordinate for a cell starting at x.
func cellAnchor(x float64, col Column) float64 {
	switch col.Align {
	case AlignLeft:
		return x + 3
	case AlignRight:
		return x + col.Width - 2
	default:
		return x + col.Width/2
	}
}
