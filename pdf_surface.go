package main

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const pdfFontFamily = "Helvetica"

// DocumentMeta is written into the PDF information dictionary.
type DocumentMeta struct {
	Title   string
	Author  string
	Creator string
	Created time.Time
}

// PDFSurface implements Surface on top of an A4 portrait fpdf document.
// Automatic page breaks are disabled: the report paginates itself.
type PDFSurface struct {
	pdf        *fpdf.Fpdf
	registered map[string]bool
	depth      int // Open SaveState calls
}

// NewPDFSurface creates an empty A4 document with no pages.
func NewPDFSurface(meta DocumentMeta) *PDFSurface {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator(meta.Creator, true)
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}
	pdf.SetFont(pdfFontFamily, "", 10)

	return &PDFSurface{
		pdf:        pdf,
		registered: make(map[string]bool),
	}
}

func (s *PDFSurface) PageSize() (float64, float64) {
	return s.pdf.GetPageSize()
}

func (s *PDFSurface) PageCount() int {
	return s.pdf.PageCount()
}

func (s *PDFSurface) CurrentPage() int {
	return s.pdf.PageNo()
}

func (s *PDFSurface) NewPage() {
	s.pdf.AddPage()
}

// SelectPage makes page n (1-based) the target of subsequent primitives.
func (s *PDFSurface) SelectPage(n int) error {
	if n < 1 || n > s.pdf.PageCount() {
		return fmt.Errorf("select page %d: document has %d pages", n, s.pdf.PageCount())
	}
	s.pdf.SetPage(n)
	// The cached font belongs to the last page written; make the next
	// SetFont emit its operator on page n.
	s.pdf.SetFontSize(0.01)
	return nil
}

func (s *PDFSurface) Rect(r Rect, p Paint) {
	style := s.applyPaint(p)
	if style == "" {
		return
	}
	s.pdf.Rect(r.X, r.Y, r.W, r.H, style)
}

func (s *PDFSurface) Line(x1, y1, x2, y2 float64, c Color, width float64) {
	s.pdf.SetDrawColor(c[0], c[1], c[2])
	s.pdf.SetLineWidth(width)
	s.pdf.Line(x1, y1, x2, y2)
}

func (s *PDFSurface) Circle(x, y, radius float64, p Paint) {
	style := s.applyPaint(p)
	if style == "" {
		return
	}
	s.pdf.Circle(x, y, radius, style)
}

// applyPaint sets fpdf colors for p and returns the matching style string.
func (s *PDFSurface) applyPaint(p Paint) string {
	style := ""
	if p.Fill != nil {
		s.pdf.SetFillColor(p.Fill[0], p.Fill[1], p.Fill[2])
		style += "F"
	}
	if p.Stroke != nil {
		s.pdf.SetDrawColor(p.Stroke[0], p.Stroke[1], p.Stroke[2])
		if p.LineWidth > 0 {
			s.pdf.SetLineWidth(p.LineWidth)
		}
		style += "D"
	}
	return style
}

func (s *PDFSurface) setFont(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	s.pdf.SetFont(pdfFontFamily, style, size)
}

func (s *PDFSurface) Text(x, y float64, txt string, st TextStyle) {
	encoded := pdfText(txt)
	s.setFont(st.Size, st.Bold)
	s.pdf.SetTextColor(st.Color[0], st.Color[1], st.Color[2])

	// Alignment shifts along the baseline; the rotation then turns the run
	// around the caller's anchor, so both compose in the rotated frame.
	dx := 0.0
	switch st.Align {
	case AlignCenter:
		dx = -s.pdf.GetStringWidth(encoded) / 2
	case AlignRight:
		dx = -s.pdf.GetStringWidth(encoded)
	}

	if st.Rotation != 0 {
		s.pdf.TransformBegin()
		s.pdf.TransformRotate(st.Rotation, x, y)
		s.pdf.Text(x+dx, y, encoded)
		s.pdf.TransformEnd()
		return
	}
	s.pdf.Text(x+dx, y, encoded)
}

func (s *PDFSurface) TextWidth(txt string, size float64, bold bool) float64 {
	s.setFont(size, bold)
	return s.pdf.GetStringWidth(pdfText(txt))
}

func (s *PDFSurface) Image(img *ImageAsset, r Rect) {
	if img == nil {
		return
	}
	opt := fpdf.ImageOptions{ImageType: "PNG"}
	if !s.registered[img.Name] {
		s.pdf.RegisterImageOptionsReader(img.Name, opt, bytes.NewReader(img.PNG))
		s.registered[img.Name] = true
	}
	s.pdf.ImageOptions(img.Name, r.X, r.Y, r.W, r.H, false, opt, 0, "")
}

func (s *PDFSurface) SaveState() {
	s.pdf.TransformBegin()
	s.depth++
}

func (s *PDFSurface) RestoreState() {
	if s.depth == 0 {
		return
	}
	s.pdf.TransformEnd()
	s.depth--

	// The PDF restore discards colors and font selected inside the saved
	// state, but fpdf still caches them. Re-emit colors and force the next
	// SetFont to write its operator again.
	s.pdf.SetFillColor(s.pdf.GetFillColor())
	s.pdf.SetDrawColor(s.pdf.GetDrawColor())
	s.pdf.SetFontSize(0.01)
}

func (s *PDFSurface) SetOpacity(alpha float64) {
	// The alpha lives in the graphics state, so RestoreState undoes it.
	s.pdf.SetAlpha(alpha, "Normal")
}

func (s *PDFSurface) Err() error {
	if s.pdf.Err() {
		return s.pdf.Error()
	}
	return nil
}

// Output writes the finished document to w.
func (s *PDFSurface) Output(w io.Writer) error {
	return s.pdf.Output(w)
}
