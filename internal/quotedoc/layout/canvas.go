// Package layout composes the quotation document onto a page canvas and
// renders it as PDF.
package layout

import "io"

// Color is an RGB triple in 0-255
type Color struct {
	R, G, B int
}

var (
	Black     = Color{0, 0, 0}
	White     = Color{255, 255, 255}
	LightGrey = Color{240, 240, 240}
	MidGrey   = Color{102, 102, 102}
)

// Align is the horizontal alignment of text within its box
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// FontStyle selects the face of the document font
type FontStyle string

const (
	Regular FontStyle = ""
	Bold    FontStyle = "B"
)

// RectStyle selects how a rectangle is painted
type RectStyle string

const (
	Stroke        RectStyle = "D"
	Fill          RectStyle = "F"
	FillAndStroke RectStyle = "FD"
)

// Canvas is the drawing surface the Composer writes to. Coordinates are in
// points from the top-left corner of the current page.
type Canvas interface {
	AddPage()
	PageCount() int

	SetFont(style FontStyle, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)

	Rect(x, y, w, h float64, style RectStyle)
	Line(x1, y1, x2, y2 float64)

	// Text draws a single line whose top edge sits at y, aligned within w.
	Text(x, y, w float64, align Align, s string)
	// SplitText breaks s into lines no wider than w in the current font.
	SplitText(s string, w float64) []string

	// Image embeds JPEG data scaled to w x h.
	Image(data []byte, x, y, w, h float64)

	Err() error
	Output(w io.Writer) error
}
