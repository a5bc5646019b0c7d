package main

import (
	"fmt"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// pdfText converts UTF-8 text to the Windows-1252 bytes the PDF core fonts
// expect, so labels like "Válvula" or "Batería" render their accents.
// Runes outside the code page become the substitute byte.
func pdfText(s string) string {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, err := enc.String(s)
	if err != nil {
		return s
	}
	return out
}

// FormatDate formats a date the way the es-CO locale prints it: D/M/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("2/1/2006")
}

// formatOptionalDate formats ts, or returns fallback when it is absent.
func formatOptionalDate(ts *Timestamp, fallback string) string {
	if !ts.valid() {
		return fallback
	}
	return FormatDate(ts.Time)
}

// dateStamp renders the D-M-YYYY suffix used in exported file names.
func dateStamp(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Day(), int(t.Month()), t.Year())
}

// ReportFileName returns the download name of the PDF report generated on t.
func ReportFileName(t time.Time) string {
	return "inventario-dispositivos-" + dateStamp(t) + ".pdf"
}

// ExportFileName returns the download name of the CSV export generated on t.
func ExportFileName(t time.Time) string {
	return "inventario-dispositivos-" + dateStamp(t) + ".csv"
}

// statusText is the display form of the active flag.
func statusText(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}
