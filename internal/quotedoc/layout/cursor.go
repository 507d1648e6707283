package layout

// LayoutCursor tracks the vertical drawing position on the current page
type LayoutCursor struct {
	Y      float64
	Top    float64
	Bottom float64
}

// NewCursor starts a cursor at the top of a page
func NewCursor(top, bottom float64) LayoutCursor {
	return LayoutCursor{Y: top, Top: top, Bottom: bottom}
}

// Fits reports whether a block of height h can be drawn at Y
func (c *LayoutCursor) Fits(h float64) bool {
	return c.Y+h <= c.Bottom
}

func (c *LayoutCursor) Advance(h float64) {
	c.Y += h
}

// Reset moves the cursor to the top of a fresh page
func (c *LayoutCursor) Reset() {
	c.Y = c.Top
}
