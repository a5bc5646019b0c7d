package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryEntry maps one device type code to its display label.
type CategoryEntry struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// CategoryCatalog is an ordered, immutable code -> label table. Declaration
// order drives the order of aggregation rows and chart groups.
type CategoryCatalog struct {
	entries []CategoryEntry
	index   map[string]int
}

// unknownCategoryLabel is shown for codes the catalog does not know.
const unknownCategoryLabel = "Desconocido"

// NewCategoryCatalog builds a catalog from entries. Later duplicates of a
// code are ignored so the first declaration wins.
func NewCategoryCatalog(entries []CategoryEntry) CategoryCatalog {
	c := CategoryCatalog{
		entries: make([]CategoryEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := c.index[e.Code]; dup {
			continue
		}
		c.index[e.Code] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// DefaultCatalog returns the district's device types.
func DefaultCatalog() CategoryCatalog {
	return NewCategoryCatalog([]CategoryEntry{
		{Code: "01", Label: "Antena"},
		{Code: "02", Label: "Servidor"},
		{Code: "03", Label: `Medidor de Flujo 48"`},
		{Code: "04", Label: `Medidor de Flujo 4"`},
		{Code: "05", Label: `Válvula 48"`},
		{Code: "06", Label: `Válvula 4"`},
		{Code: "07", Label: "Panel Solar"},
		{Code: "08", Label: `Actuador 48"`},
		{Code: "09", Label: `Actuador 4"`},
		{Code: "10", Label: "Controlador de Carga"},
		{Code: "11", Label: "Batería"},
		{Code: "12", Label: "Convertidor de Voltaje"},
		{Code: "13", Label: "Microcontrolador"},
		{Code: "14", Label: "Traductor de Información TTL"},
	})
}

// Lookup returns the label for code and whether the code is known.
func (c CategoryCatalog) Lookup(code string) (string, bool) {
	i, ok := c.index[code]
	if !ok {
		return "", false
	}
	return c.entries[i].Label, true
}

// Label returns the label for code, or "Desconocido" for unknown codes.
func (c CategoryCatalog) Label(code string) string {
	if label, ok := c.Lookup(code); ok {
		return label
	}
	return unknownCategoryLabel
}

// Entries returns a copy of the catalog in declaration order.
func (c CategoryCatalog) Entries() []CategoryEntry {
	out := make([]CategoryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of known codes.
func (c CategoryCatalog) Len() int {
	return len(c.entries)
}

// LoadCatalog reads a YAML list of {code, label} entries.
func LoadCatalog(filename string) (CategoryCatalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return CategoryCatalog{}, err
	}
	var entries []CategoryEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return CategoryCatalog{}, fmt.Errorf("parse catalog %s: %w", filename, err)
	}
	if len(entries) == 0 {
		return CategoryCatalog{}, fmt.Errorf("catalog %s has no entries", filename)
	}
	return NewCategoryCatalog(entries), nil
}
