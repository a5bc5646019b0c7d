package main

// Align is the horizontal anchoring of a text run relative to its x coordinate.
type Align int

const (
	AlignLeft   Align = iota // x is the left edge
	AlignCenter              // x is the center
	AlignRight               // x is the right edge
)

// TextStyle describes how a text run is drawn.
type TextStyle struct {
	Size     float64 // Font size in points
	Bold     bool
	Color    Color
	Align    Align
	Rotation float64 // Degrees counter-clockwise around the anchor point
}

// Paint selects fill and/or stroke for closed shapes. A nil color skips that
// part of the shape.
type Paint struct {
	Fill      *Color
	Stroke    *Color
	LineWidth float64
}

// Filled returns a fill-only paint.
func Filled(c Color) Paint {
	return Paint{Fill: &c}
}

// Outlined returns a fill plus stroke paint.
func Outlined(fill, stroke Color, width float64) Paint {
	return Paint{Fill: &fill, Stroke: &stroke, LineWidth: width}
}

// Surface is the drawing collaborator the report composes pages on.
// Coordinates are page units with the origin at the top-left corner, and
// every primitive draws on the currently selected page.
//
// Primitives do not return errors. Like fpdf, a surface keeps the first
// failure and reports it through Err; callers check it at phase boundaries.
type Surface interface {
	PageSize() (width, height float64)
	PageCount() int
	CurrentPage() int
	NewPage()
	SelectPage(n int) error

	Rect(r Rect, p Paint)
	Line(x1, y1, x2, y2 float64, c Color, width float64)
	Circle(x, y, radius float64, p Paint)
	Text(x, y float64, s string, st TextStyle)
	Image(img *ImageAsset, r Rect)

	TextWidth(s string, size float64, bold bool) float64

	SaveState()
	RestoreState()
	SetOpacity(alpha float64)

	Err() error
}

// withOpacity runs draw between SaveState/SetOpacity and RestoreState. The
// restore is deferred so a panicking primitive cannot leak the opacity into
// later foreground content.
func withOpacity(s Surface, alpha float64, draw func()) {
	s.SaveState()
	defer s.RestoreState()
	s.SetOpacity(alpha)
	draw()
}
