package layout

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 30.0

	fontFamily = "Helvetica"
)

// PDFCanvas implements Canvas on gofpdf. Text goes through the cp1252
// translator so bullets and dashes in the letterhead survive.
type PDFCanvas struct {
	pdf       *gofpdf.Fpdf
	translate func(string) string
	fontSize  float64
}

// NewPDFCanvas creates an A4 portrait canvas in points. Automatic page breaks
// are off; the Composer owns pagination.
func NewPDFCanvas(title string, created time.Time) *PDFCanvas {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("rajtiles-api", true)
	pdf.SetCreationDate(created)
	pdf.SetFont(fontFamily, "", 8)

	return &PDFCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		fontSize:  8,
	}
}

func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *PDFCanvas) PageCount() int {
	return c.pdf.PageCount()
}

func (c *PDFCanvas) SetFont(style FontStyle, size float64) {
	c.fontSize = size
	c.pdf.SetFont(fontFamily, string(style), size)
}

func (c *PDFCanvas) SetTextColor(col Color) {
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *PDFCanvas) SetFillColor(col Color) {
	c.pdf.SetFillColor(col.R, col.G, col.B)
}

func (c *PDFCanvas) SetDrawColor(col Color) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
}

func (c *PDFCanvas) Rect(x, y, w, h float64, style RectStyle) {
	c.pdf.Rect(x, y, w, h, string(style))
}

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDFCanvas) Text(x, y, w float64, align Align, s string) {
	if s == "" {
		return
	}
	c.pdf.SetXY(x, y)
	c.pdf.CellFormat(w, c.fontSize, c.translate(s), "", 0, string(align), false, 0, "")
}

// SplitText measures the cp1252 form of s, where every rune is one byte, and
// returns the matching UTF-8 slices so Text can translate them again.
func (c *PDFCanvas) SplitText(s string, w float64) []string {
	s = strings.ReplaceAll(s, "\r", "")
	if s == "" {
		return nil
	}
	runes := []rune(s)
	encoded := []byte(c.translate(s))
	if len(encoded) != len(runes) {
		return []string{s}
	}

	var lines []string
	pos := 0
	for _, line := range c.pdf.SplitLines(encoded, w) {
		start := pos + bytes.Index(encoded[pos:], line)
		if start < pos {
			break
		}
		end := start + len(line)
		lines = append(lines, string(runes[start:end]))
		pos = end
	}
	return lines
}

// Image registers data once per content hash and places it
func (c *PDFCanvas) Image(data []byte, x, y, w, h float64) {
	if len(data) == 0 {
		return
	}
	sum := sha1.Sum(data)
	name := hex.EncodeToString(sum[:])
	opts := gofpdf.ImageOptions{ImageType: "JPG"}

	if c.pdf.GetImageInfo(name) == nil {
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (c *PDFCanvas) Err() error {
	return c.pdf.Error()
}

func (c *PDFCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
