package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// utf8BOM lets spreadsheet applications detect the encoding of accented labels.
const utf8BOM = "\ufeff"

// WriteInventoryCSV writes the spreadsheet export: a summary section (title,
// date, record count, filters, per-type totals) followed by the device detail.
// Sections are separated by an empty record, so rows have varying widths.
func WriteInventoryCSV(w io.Writer, title string, devices []Device, filters FilterCriteria, catalog CategoryCatalog, now time.Time) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	records := [][]string{
		{title},
		{"Fecha de creación del informe", FormatDate(now)},
		{"Total de registros", strconv.Itoa(len(devices))},
		{},
		{"Filtros aplicados"},
	}
	for _, p := range FilterPairs(filters) {
		records = append(records, []string{p.Label, p.Value})
	}

	rows := Aggregate(devices, catalog)
	records = append(records, []string{}, []string{"Tipo de Dispositivo", "Activos", "Inactivos", "Total"})
	records = append(records, AggregationRows(rows)...)
	records = append(records, aggregationCells(AggregationTotals(rows)))

	records = append(records, []string{}, []string{"Detalle de dispositivos"})
	header := make([]string, 0, len(DetailTable().Columns))
	for _, col := range DetailTable().Columns {
		header = append(header, col.Header)
	}
	records = append(records, header)
	records = append(records, DetailRows(devices, catalog)...)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	return nil
}

// ExportCSV writes the spreadsheet export using the generator's title and catalog.
func (g *ReportGenerator) ExportCSV(w io.Writer, devices []Device, filters FilterCriteria, now time.Time) error {
	return WriteInventoryCSV(w, g.config.Report.Title, devices, filters, g.catalog, now)
}
