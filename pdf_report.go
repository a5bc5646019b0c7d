package main

import (
	"bytes"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const generatorName = "goInventoryReport"

// ReportGenerator builds device inventory PDF reports. It is safe for
// concurrent use: every call renders on its own surface.
type ReportGenerator struct {
	config  *Config
	catalog CategoryCatalog
	assets  *Assets
	logger  *zap.Logger
}

// Option configures a ReportGenerator.
type Option func(*ReportGenerator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(g *ReportGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithCatalog replaces the default device category catalog.
func WithCatalog(catalog CategoryCatalog) Option {
	return func(g *ReportGenerator) {
		g.catalog = catalog
	}
}

// WithAssets uses already loaded images instead of the configured paths.
func WithAssets(assets Assets) Option {
	return func(g *ReportGenerator) {
		g.assets = &assets
	}
}

// NewReportGenerator creates a generator. A nil config means DefaultConfig.
// Images named in the config are loaded once here; missing ones fall back
// to placeholders.
func NewReportGenerator(config *Config, opts ...Option) *ReportGenerator {
	if config == nil {
		config = DefaultConfig()
	}
	g := &ReportGenerator{
		config:  config,
		catalog: DefaultCatalog(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.assets == nil {
		assets := LoadAssets(config.Assets, g.logger)
		g.assets = &assets
	}
	return g
}

// Catalog returns the category catalog used for labels and aggregation.
func (g *ReportGenerator) Catalog() CategoryCatalog {
	return g.catalog
}

// GeneratedReport is a finished report ready to be saved or downloaded.
type GeneratedReport struct {
	FileName    string
	PDF         []byte
	Pages       int
	Aggregation []AggregationRow
}

// Render lays out the report on s. It is the surface-agnostic core of
// Generate.
func (g *ReportGenerator) Render(s Surface, devices []Device, filters FilterCriteria, now time.Time) (*Document, error) {
	r := NewRenderer(s, g.config, *g.assets, g.catalog, g.logger)
	return r.Render(devices, filters, now)
}

// Generate renders devices into a PDF. On failure no bytes are returned.
func (g *ReportGenerator) Generate(devices []Device, filters FilterCriteria, now time.Time) (*GeneratedReport, error) {
	g.logger.Info("Generating inventory report", zap.Int("devices", len(devices)))

	surface := NewPDFSurface(DocumentMeta{
		Title:   g.config.Report.Title,
		Author:  g.config.Company.Name,
		Creator: generatorName,
		Created: now,
	})

	doc, err := g.Render(surface, devices, filters, now)
	if err != nil {
		return nil, err
	}

	// Output to buffer
	var buf bytes.Buffer
	if err := surface.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: output: %w", ErrGenerationFailed, err)
	}

	return &GeneratedReport{
		FileName:    ReportFileName(now),
		PDF:         buf.Bytes(),
		Pages:       doc.PageCount(),
		Aggregation: Aggregate(devices, g.catalog),
	}, nil
}
