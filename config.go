package main

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// CompanyConfig is the organisation printed in the header of every page
type CompanyConfig struct {
	Name    string `yaml:"name" json:"name"`
	NIT     string `yaml:"nit" json:"nit"`
	Phone   string `yaml:"phone" json:"phone"`
	Address string `yaml:"address" json:"address"`
}

// AssetsConfig points at the optional images. Missing files fall back to
// drawn placeholders.
type AssetsConfig struct {
	Logo      string `yaml:"logo" json:"logo"`
	Watermark string `yaml:"watermark" json:"watermark"`
}

// ReportConfig controls the report text and page chrome
type ReportConfig struct {
	Title            string   `yaml:"title" json:"title"`
	WatermarkOpacity *float64 `yaml:"watermark_opacity" json:"watermark_opacity"` // Nil means the default; 0 hides the mark
	PageLabel        string   `yaml:"page_label" json:"page_label"`               // Format with two %d verbs: page, total
}

// Opacity returns the watermark opacity, falling back to the default when unset.
func (r ReportConfig) Opacity() float64 {
	if r.WatermarkOpacity == nil {
		return *DefaultConfig().Report.WatermarkOpacity
	}
	return *r.WatermarkOpacity
}

func float64Ptr(v float64) *float64 {
	return &v
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Addr          string `yaml:"addr" json:"addr"`
	MaxConcurrent int64  `yaml:"max_concurrent" json:"max_concurrent"` // Reports rendered at once
}

// Config holds the complete configuration
type Config struct {
	Company CompanyConfig `yaml:"company" json:"company"`
	Assets  AssetsConfig  `yaml:"assets" json:"assets"`
	Report  ReportConfig  `yaml:"report" json:"report"`
	Server  ServerConfig  `yaml:"server" json:"server"`
}

// DefaultConfig returns the built-in configuration without touching the
// embedded file.
func DefaultConfig() *Config {
	return &Config{
		Company: CompanyConfig{
			Name:    "AquaSmart",
			NIT:     "891180084",
			Phone:   "88754753",
			Address: "Av. Pastrana Borrero - Carrera 1",
		},
		Report: ReportConfig{
			Title:            "INVENTARIO DE DISPOSITIVOS DEL DISTRITO",
			WatermarkOpacity: float64Ptr(0.09),
			PageLabel:        "Page %d of %d",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxConcurrent: 4,
		},
	}
}

// applyDefaults fills every empty field from DefaultConfig and rejects
// values the renderer cannot use.
func (c *Config) applyDefaults() error {
	d := DefaultConfig()
	if c.Company.Name == "" {
		c.Company.Name = d.Company.Name
	}
	if c.Company.NIT == "" {
		c.Company.NIT = d.Company.NIT
	}
	if c.Company.Phone == "" {
		c.Company.Phone = d.Company.Phone
	}
	if c.Company.Address == "" {
		c.Company.Address = d.Company.Address
	}
	if c.Report.Title == "" {
		c.Report.Title = d.Report.Title
	}
	if c.Report.WatermarkOpacity == nil {
		c.Report.WatermarkOpacity = d.Report.WatermarkOpacity
	}
	if c.Report.PageLabel == "" {
		c.Report.PageLabel = d.Report.PageLabel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.MaxConcurrent <= 0 {
		c.Server.MaxConcurrent = d.Server.MaxConcurrent
	}

	if o := *c.Report.WatermarkOpacity; o < 0 || o > 1 {
		return fmt.Errorf("report.watermark_opacity must be between 0 and 1, got %g", o)
	}
	if n := strings.Count(c.Report.PageLabel, "%d"); n != 2 {
		return fmt.Errorf("report.page_label must contain two %%d verbs, got %q", c.Report.PageLabel)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseConfig(string(data))
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	// Add a header comment with instructions
	header := []byte(`# Device Inventory Report Configuration
# Generated by "inventory-report config init" - feel free to edit manually
#
# VALUE FORMATS
#   watermark_opacity: 0.09 or 9% (0 = invisible, 1 = opaque)
#   page_label: printf format with two %d verbs, page then total
#   assets: paths to PNG, JPEG, GIF, BMP, TIFF or WebP images; leave empty
#           to draw the built-in placeholders
#
# RUN COMMANDS
#   ./inventory-report generate -i devices.json -o report.pdf
#   ./inventory-report generate -i devices.json --csv export.csv
#   ./inventory-report serve --addr :8080

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}

// LoadDefaultConfig loads the default configuration from embedded default-config.yaml
// It handles percentage format (e.g., "9%" -> 0.09)
func LoadDefaultConfig() (*Config, error) {
	return parseConfig(defaultConfigYAML)
}

func parseConfig(content string) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(preprocessPercentages(content)), &config); err != nil {
		return nil, err
	}
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}
	return &config, nil
}

var percentPattern = regexp.MustCompile(`(:\s*)(\d+\.?\d*)%`)

// preprocessPercentages converts percentage values like "9%" to decimal "0.09"
func preprocessPercentages(content string) string {
	return percentPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := percentPattern.FindStringSubmatch(match)
		if len(parts) >= 3 {
			num, err := strconv.ParseFloat(parts[2], 64)
			if err == nil {
				return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
			}
		}
		return match
	})
}
