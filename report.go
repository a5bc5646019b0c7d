package main

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrGenerationFailed wraps any failure of the drawing surface during a render.
var ErrGenerationFailed = errors.New("report generation failed")

// RenderState tracks a renderer through one generation.
type RenderState int

const (
	StateIdle RenderState = iota
	StateDrawing
	StateAllContentDrawn
	StateFinalizing
	StateDone
	StateFailed
)

func (s RenderState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateAllContentDrawn:
		return "all-content-drawn"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Section spacing
const (
	sectionTitleSpan = 12.0
	sectionGap       = 10.0
)

// Renderer lays out one inventory report on a Surface. A renderer is used
// for a single generation and is not safe for concurrent use.
type Renderer struct {
	s       Surface
	cfg     *Config
	assets  Assets
	catalog CategoryCatalog
	logger  *zap.Logger

	doc         *Document
	cursor      PageCursor
	state       RenderState
	generatedAt time.Time
}

// NewRenderer creates a renderer drawing on s.
func NewRenderer(s Surface, cfg *Config, assets Assets, catalog CategoryCatalog, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		s:       s,
		cfg:     cfg,
		assets:  assets,
		catalog: catalog,
		logger:  logger,
		doc:     &Document{},
	}
}

// State returns where the renderer is in its lifecycle.
func (r *Renderer) State() RenderState {
	return r.state
}

// Document returns the pages laid out so far.
func (r *Renderer) Document() *Document {
	return r.doc
}

// Begin opens the first page with its chrome.
func (r *Renderer) Begin(generatedAt time.Time) {
	r.generatedAt = generatedAt
	r.state = StateDrawing
	r.openPage()
}

// Render lays out the complete report and runs the page numbering pass.
// Any surface failure, including a panic inside a primitive, is returned as
// ErrGenerationFailed and the partial document is discarded.
func (r *Renderer) Render(devices []Device, filters FilterCriteria, generatedAt time.Time) (doc *Document, err error) {
	start := time.Now()
	rows, err := r.Layout(devices, filters, generatedAt)
	if err != nil {
		return nil, err
	}

	defer r.failOnError(&err)
	r.state = StateFinalizing
	res := r.Finalize()
	if err := r.check("page numbering"); err != nil {
		return nil, err
	}
	r.state = StateDone

	r.logger.Info("Report generated",
		zap.Int("devices", len(devices)),
		zap.Int("categories", len(rows)),
		zap.Int("pages", res.Total),
		zap.Ints("unnumbered_pages", res.Skipped),
		zap.Duration("elapsed", time.Since(start)))
	return r.doc, nil
}

// Layout is the first pass: every section is drawn and every page is closed
// with a placeholder label. On success the renderer is left in
// StateAllContentDrawn, ready for Finalize, and the aggregation is returned.
func (r *Renderer) Layout(devices []Device, filters FilterCriteria, generatedAt time.Time) (rows []AggregationRow, err error) {
	if r.state != StateIdle {
		return nil, fmt.Errorf("renderer already used (state %s)", r.state)
	}
	defer r.failOnError(&err)

	r.Begin(generatedAt)
	r.drawFilterSummary(r.cfg.Report.Title, generatedAt, FilterPairs(filters))
	r.drawDetailSection(devices)
	if err := r.check("detail table"); err != nil {
		return nil, err
	}

	rows = Aggregate(devices, r.catalog)
	r.drawAggregationSection(rows)
	r.drawFooter()
	if err := r.check("aggregation"); err != nil {
		return nil, err
	}
	r.state = StateAllContentDrawn
	r.logger.Debug("All content drawn", zap.Int("pages", r.doc.PageCount()))
	return rows, nil
}

// failOnError is deferred by both passes. It turns a panic into
// ErrGenerationFailed and moves the renderer to StateFailed on any error.
func (r *Renderer) failOnError(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("%w: %v", ErrGenerationFailed, p)
	}
	if *err != nil {
		r.state = StateFailed
		r.logger.Error("Report generation failed", zap.Error(*err))
	}
}

func (r *Renderer) check(phase string) error {
	if err := r.s.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, phase, err)
	}
	return nil
}

// drawSectionTitle writes a centred section title, keeping it on the same
// page as the next keepWith units of content.
func (r *Renderer) drawSectionTitle(title string, keepWith float64) {
	r.EnsureSpace(sectionTitleSpan + keepWith)
	r.s.Text(r.cursor.Width/2, r.cursor.Y+6, title,
		TextStyle{Size: 14, Bold: true, Color: colorTitle, Align: AlignCenter})
	r.Advance(sectionTitleSpan)
}

// DetailTable is the layout of the per-device table.
func DetailTable() Table {
	return Table{
		Columns: []Column{
			{Header: "ID Dispositivo", Width: 25, MaxChars: 12, Align: AlignCenter},
			{Header: "Nombre", Width: 35, MaxChars: 16, Align: AlignCenter},
			{Header: "Tipo", Width: 35, MaxChars: 16, Align: AlignCenter},
			{Header: "ID Predio", Width: 25, MaxChars: 12, Align: AlignCenter},
			{Header: "Estado", Width: 25, MaxChars: 10, Align: AlignCenter},
			{Header: "Registro", Width: 25, MaxChars: 10, Align: AlignCenter},
		},
		HeaderHeight: 10,
		RowHeight:    10,
		HeaderSize:   8,
		FontSize:     7,
		EmptyText:    "No hay dispositivos para los filtros aplicados",
	}
}

// DetailRows renders each device as the cells of the detail table.
func DetailRows(devices []Device, catalog CategoryCatalog) [][]string {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{
			d.IoTID,
			d.Name,
			catalog.Label(d.DeviceType),
			d.PlotID,
			statusText(d.IsActive),
			formatOptionalDate(d.RegistrationDate, "N/A"),
		})
	}
	return rows
}

func (r *Renderer) drawDetailSection(devices []Device) {
	t := DetailTable()
	r.drawSectionTitle("DETALLE DE DISPOSITIVOS", t.HeaderHeight+t.RowHeight)
	r.RenderTable(t, DetailRows(devices, r.catalog))
	r.Advance(sectionGap)
}

// AggregationTable is the layout of the per-type totals table, ending with
// the grand-total row.
func AggregationTable(totals AggregationRow) Table {
	return Table{
		Columns: []Column{
			{Header: "Tipo de Dispositivo", Width: 60, MaxChars: 32, Align: AlignLeft},
			{Header: "Activos", Width: 35, Align: AlignCenter},
			{Header: "Inactivos", Width: 35, Align: AlignCenter},
			{Header: "Total", Width: 40, Align: AlignCenter},
		},
		HeaderHeight: 10,
		RowHeight:    10,
		HeaderSize:   9,
		FontSize:     8,
		Footer:       aggregationCells(totals),
	}
}

func aggregationCells(row AggregationRow) []string {
	return []string{
		row.Label,
		fmt.Sprint(row.Active),
		fmt.Sprint(row.Inactive),
		fmt.Sprint(row.Total),
	}
}

// AggregationRows renders aggregation rows as table cells.
func AggregationRows(rows []AggregationRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, aggregationCells(row))
	}
	return out
}

func (r *Renderer) drawAggregationSection(rows []AggregationRow) {
	t := AggregationTable(AggregationTotals(rows))
	if len(rows) == 0 {
		r.drawSectionTitle("TABLA DE TOTALIZACIÓN", sectionTitleSpan)
		r.s.Text(r.cursor.Width/2, r.cursor.Y+5, "No hay dispositivos para totalizar.",
			TextStyle{Size: 9, Color: colorMuted, Align: AlignCenter})
		r.Advance(sectionTitleSpan)
		return
	}

	r.drawSectionTitle("TABLA DE TOTALIZACIÓN", t.HeaderHeight+t.RowHeight)
	r.RenderTable(t, AggregationRows(rows))
	r.Advance(sectionGap)

	r.drawSectionTitle("GRÁFICA DE TOTALIZACIÓN", chartBlockSpan)
	r.RenderGroupedBarChart(rows)
}
