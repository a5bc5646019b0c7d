package main

// Aggregate counts devices per catalog category. Rows come out in catalog
// declaration order and categories without devices are dropped. Devices whose
// type is not in the catalog are gathered in a trailing "Desconocido" row, so
// the row totals always add up to len(devices).
func Aggregate(devices []Device, catalog CategoryCatalog) []AggregationRow {
	counts := make([]AggregationRow, catalog.Len())
	for i, e := range catalog.entries {
		counts[i] = AggregationRow{Code: e.Code, Label: e.Label}
	}
	unknown := AggregationRow{Label: unknownCategoryLabel}

	for _, d := range devices {
		row := &unknown
		if i, ok := catalog.index[d.DeviceType]; ok {
			row = &counts[i]
		}
		if d.IsActive {
			row.Active++
		} else {
			row.Inactive++
		}
		row.Total++
	}

	rows := make([]AggregationRow, 0, len(counts)+1)
	for _, r := range counts {
		if r.Total > 0 {
			rows = append(rows, r)
		}
	}
	if unknown.Total > 0 {
		rows = append(rows, unknown)
	}
	return rows
}

// AggregationTotals sums all rows into a single grand-total row.
func AggregationTotals(rows []AggregationRow) AggregationRow {
	total := AggregationRow{Label: "Total"}
	for _, r := range rows {
		total.Active += r.Active
		total.Inactive += r.Inactive
		total.Total += r.Total
	}
	return total
}
