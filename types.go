package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Device is one inventory item as delivered by the device listing screen.
// The report never mutates it.
type Device struct {
	IoTID            string     `json:"iot_id"`
	Name             string     `json:"name"`
	DeviceType       string     `json:"device_type"` // Catalog code, e.g. "05"
	PlotID           string     `json:"id_plot"`     // Parent property (predio)
	IsActive         bool       `json:"is_active"`
	RegistrationDate *Timestamp `json:"registration_date,omitempty"`
}

// FilterCriteria describes the filters the caller already applied to the
// device list. It is only displayed, never used to filter. The JSON names are
// the ones the device listing screen keeps its filter state under.
type FilterCriteria struct {
	IoTID     string       `json:"iot_id,omitempty"`
	Name      string       `json:"name,omitempty"`
	PlotID    string       `json:"plotId,omitempty"`
	IsActive  StatusFilter `json:"isActive,omitempty"`
	StartDate *Timestamp   `json:"startDate,omitempty"`
	EndDate   *Timestamp   `json:"endDate,omitempty"`
}

// StatusFilter is the tri-state active/inactive filter.
type StatusFilter int

const (
	StatusAny StatusFilter = iota
	StatusActive
	StatusInactive
)

// UnmarshalJSON accepts JSON booleans as well as the "", "true" and "false"
// strings a select input produces. null and "" mean no filter.
func (f *StatusFilter) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "null", `""`:
		*f = StatusAny
	case "true", `"true"`:
		*f = StatusActive
	case "false", `"false"`:
		*f = StatusInactive
	default:
		return fmt.Errorf("invalid status filter %s", data)
	}
	return nil
}

// MarshalJSON implements json.Marshaler using the string form.
func (f StatusFilter) MarshalJSON() ([]byte, error) {
	switch f {
	case StatusActive:
		return []byte(`"true"`), nil
	case StatusInactive:
		return []byte(`"false"`), nil
	default:
		return []byte(`""`), nil
	}
}

// AggregationRow holds the per-category device counts.
type AggregationRow struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Active   int    `json:"active"`
	Inactive int    `json:"inactive"`
	Total    int    `json:"total"`
}

// Timestamp accepts both RFC 3339 timestamps and plain YYYY-MM-DD dates,
// which is what the device API returns depending on the endpoint.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses any of the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised date %q", s)
}

// UnmarshalJSON implements json.Unmarshaler. Empty strings and null decode
// to the zero time.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}

// valid reports whether the pointer carries a usable date.
func (ts *Timestamp) valid() bool {
	return ts != nil && !ts.IsZero()
}

// Rect is an axis-aligned rectangle in page units (mm), origin top-left.
type Rect struct {
	X, Y, W, H float64
}

// Valid reports whether the rectangle has a positive area.
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0
}

// Color is an RGB triple, 0-255 per channel.
type Color [3]int
