package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"abc", 5, "abc"},
		{"abcdefghij", 10, "abcdefghij"},
		{"abcdefghijkl", 10, "abcdefg..."},
		{"anything", 0, "anything"},
		{"ñandúñandú", 6, "ñan..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateCell(tt.in, tt.limit), "TruncateCell(%q, %d)", tt.in, tt.limit)
	}
}

func idRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("DEV-%03d", i), "n", "t", "p", "Activo", "N/A"}
	}
	return rows
}

func TestRenderTable_AllRowsAcrossPageBreaks(t *testing.T) {
	r, s := newTestRenderer()
	r.Begin(testNow)

	// 16 rows fit below the header on each page, so 60 rows need three breaks
	rows := idRows(60)
	r.RenderTable(DetailTable(), rows)
	require.Equal(t, 4, s.PageCount())

	var got []string
	for _, o := range s.textsWithPrefix("DEV-") {
		got = append(got, o.Text)
	}
	var want []string
	for _, row := range rows {
		want = append(want, row[0])
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows drawn (-want +got):\n%s", diff)
	}

	for _, o := range s.textsWithPrefix("DEV-") {
		rowTop := o.Y - 6.5
		assert.LessOrEqual(t, rowTop+10, 237.0, "row %s overflows page %d", o.Text, o.Page)
	}
}

func TestRenderTable_HeaderRepeatedBeforeRowsOnEveryPage(t *testing.T) {
	r, s := newTestRenderer()
	r.Begin(testNow)
	r.RenderTable(DetailTable(), idRows(60))

	for page := 1; page <= s.PageCount(); page++ {
		headerY := -1.0
		headers := 0
		for _, o := range s.texts(page) {
			if o.Text == "ID Dispositivo" {
				headers++
				headerY = o.Y
			}
		}
		require.Equal(t, 1, headers, "page %d", page)
		for _, o := range s.texts(page) {
			if strings.HasPrefix(o.Text, "DEV-") {
				assert.Less(t, headerY, o.Y, "row %s above header on page %d", o.Text, page)
			}
		}
	}
}

func TestRenderTable_StripesFollowAbsoluteIndex(t *testing.T) {
	r, s := newTestRenderer()
	r.Begin(testNow)
	r.RenderTable(DetailTable(), idRows(60))

	var stripes []float64
	for _, o := range s.ops {
		if o.Kind == "rect" && o.Paint.Fill != nil && *o.Paint.Fill == colorStripe {
			stripes = append(stripes, o.Rect.Y)
		}
	}
	assert.Len(t, stripes, 30)

	// Row 16 is the first row of page 2 and even, so page 2 starts unstriped
	// and its first stripe sits on its second row.
	var page2 []op
	for _, o := range s.ops {
		if o.Page == 2 && o.Kind == "rect" && o.Paint.Fill != nil && *o.Paint.Fill == colorStripe {
			page2 = append(page2, o)
		}
	}
	require.NotEmpty(t, page2)
	assert.Equal(t, 85.0, page2[0].Rect.Y)
}

func TestRenderTable_TruncatesLongCells(t *testing.T) {
	r, s := newTestRenderer()
	r.Begin(testNow)
	r.RenderTable(DetailTable(), [][]string{{"ID", "Nombre muy largo del dispositivo", "t", "p", "Activo", "N/A"}})

	assert.Equal(t, 1, s.countText("Nombre muy la..."))
	assert.Equal(t, 0, s.countText("Nombre muy largo del dispositivo"))
}

func TestRenderTable_EmptyShowsPlaceholderRow(t *testing.T) {
	r, s := newTestRenderer()
	r.Begin(testNow)
	r.RenderTable(DetailTable(), nil)

	assert.Equal(t, 1, s.countText("No hay dispositivos para los filtros aplicados"))
	assert.Equal(t, 1, s.countText("ID Dispositivo"))
}

func TestRenderTable_HeaderKeptWithFirstRow(t *testing.T) {
	r, s := newTestRenderer()
	r.Begin(testNow)
	// Room for the header but not the header plus one row
	r.Advance(r.Cursor().Remaining() - 15)

	r.RenderTable(DetailTable(), idRows(1))

	require.Equal(t, 2, s.PageCount())
	for _, o := range s.texts(0) {
		if o.Text == "ID Dispositivo" || o.Text == "DEV-000" {
			assert.Equal(t, 2, o.Page, o.Text)
		}
	}
}

func TestRenderTable_FooterRowBold(t *testing.T) {
	r, s := newTestRenderer()
	r.Begin(testNow)

	rows := []AggregationRow{
		{Code: "01", Label: "Antena", Active: 2, Inactive: 1, Total: 3},
		{Code: "05", Label: `Válvula 48"`, Active: 0, Inactive: 4, Total: 4},
	}
	r.RenderTable(AggregationTable(AggregationTotals(rows)), AggregationRows(rows))

	var footer []string
	for _, o := range s.texts(1) {
		if o.Style.Bold && o.Style.Size == 8 {
			footer = append(footer, o.Text)
		}
	}
	if diff := cmp.Diff([]string{"Total", "2", "5", "7"}, footer); diff != "" {
		t.Errorf("totals row (-want +got):\n%s", diff)
	}
}
