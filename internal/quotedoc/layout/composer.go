package layout

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/rajtiles-api/internal/quotedoc/imaging"
	"github.com/sangkips/rajtiles-api/pkg/numwords"
	"github.com/shopspring/decimal"
)

// State is the section the Composer is drawing
type State int

const (
	StateHeader State = iota
	StateItems
	StateSummary
	StateTerms
	StateBrands
	StateFooter
	StateDone
)

func (s State) String() string {
	switch s {
	case StateHeader:
		return "HEADER"
	case StateItems:
		return "ITEMS"
	case StateSummary:
		return "SUMMARY"
	case StateTerms:
		return "TERMS"
	case StateBrands:
		return "BRANDS"
	case StateFooter:
		return "FOOTER"
	default:
		return "DONE"
	}
}

const (
	DateLayout = "02 Jan 2006"

	ContentLeft  = Margin
	ContentWidth = 535.0
	PageTop      = 40.0
	PageBottom   = 750.0

	RowHeight       = 70.0
	ImageCell       = 60.0
	itemsBarY       = 200.0
	itemsBarHeight  = 20.0
	columnHeaderH   = 25.0
	summaryRowH     = 15.0
	termsBoxHeight  = 60.0
	brandsBoxHeight = 80.0
	brandColumns    = 4
	footerHeight    = 80.0

	// FirstPageRows and ContinuationRows are the item row capacities that
	// follow from the header height, the column header and PageBottom.
	FirstPageRows    = 7
	ContinuationRows = 9
)

var (
	columnX      = [...]float64{30, 60, 210, 270, 340, 395, 445, 495}
	columnWidth  = [...]float64{30, 150, 60, 70, 55, 50, 50, 70}
	columnHeader = [...]string{"SR.NO", "DESCRIPTION", "SKU CODE", "IMAGE", "PRICE", "QTY", "DISC%", "AMOUNT"}
)

// ItemPages returns how many pages carry item rows for n lines
func ItemPages(n int) int {
	if n <= FirstPageRows {
		return 1
	}
	rest := n - FirstPageRows
	return 1 + (rest+ContinuationRows-1)/ContinuationRows
}

// Composer lays out one document. It owns the cursor, so a Composer must not
// be shared between requests.
type Composer struct {
	canvas Canvas
	lh     *Letterhead
	cursor LayoutCursor
	state  State
}

func NewComposer(canvas Canvas, lh *Letterhead) *Composer {
	if lh == nil {
		lh = DefaultLetterhead()
	}
	return &Composer{
		canvas: canvas,
		lh:     lh,
		cursor: NewCursor(PageTop, PageBottom),
	}
}

// State reports the section reached so far
func (c *Composer) State() State {
	return c.state
}

// Compose draws doc section by section
func (c *Composer) Compose(doc *Document) error {
	if len(doc.Rows) != len(doc.Totals.Lines) {
		return fmt.Errorf("layout: %d rows but %d priced lines", len(doc.Rows), len(doc.Totals.Lines))
	}

	c.canvas.AddPage()
	c.canvas.SetDrawColor(Black)
	c.canvas.SetTextColor(Black)

	steps := []struct {
		state State
		draw  func(*Document)
	}{
		{StateHeader, c.header},
		{StateItems, c.items},
		{StateSummary, c.summary},
		{StateTerms, c.terms},
		{StateBrands, c.brands},
		{StateFooter, c.footer},
	}
	for _, step := range steps {
		c.state = step.state
		step.draw(doc)
		if err := c.canvas.Err(); err != nil {
			return fmt.Errorf("layout %s: %w", step.state, err)
		}
	}
	c.state = StateDone

	return nil
}

// ensure starts a new page when a block of height h does not fit
func (c *Composer) ensure(h float64) bool {
	if c.cursor.Fits(h) {
		return false
	}
	c.canvas.AddPage()
	c.cursor.Reset()
	return true
}

func (c *Composer) header(doc *Document) {
	cv := c.canvas
	cv.Rect(30, 30, ContentWidth, 140, Stroke)

	if doc.Logo != nil && !doc.Logo.Placeholder {
		cv.Image(doc.Logo.Data, 40, 40, 60, 60)
	} else {
		cv.Rect(40, 40, 60, 60, Stroke)
		cv.SetFont(Bold, 20)
		cv.Text(40, 60, 60, AlignCenter, c.lh.Initials)
	}

	cv.SetFont(Bold, 16)
	cv.Text(110, 45, 300, AlignLeft, c.lh.Company)
	cv.SetFont(Regular, 8)
	for i, line := range c.lh.Lines {
		cv.Text(110, 63+float64(i)*10, 300, AlignLeft, line)
	}

	cv.SetFont(Bold, 9)
	cv.Text(480, 45, 80, AlignLeft, "Original")
	cv.SetFont(Regular, 8)
	cv.Text(420, 60, 140, AlignLeft, "Quotation No: "+doc.Number)
	cv.Text(420, 72, 140, AlignLeft, "Date: "+doc.Date.Format(DateLayout))
	validity := doc.Date.Add(time.Duration(c.lh.ValidityDays) * 24 * time.Hour)
	cv.Text(420, 84, 140, AlignLeft, "Validity: "+validity.Format(DateLayout))

	y := 110.0
	cv.Rect(30, y, ContentWidth, 20, Stroke)
	cv.SetFont(Bold, 14)
	cv.Text(30, y+3, ContentWidth, AlignCenter, "Quotation")

	y += 25
	buyer := c.party(doc.Buyer, Party{})
	c.partyBlock(40, y, "Buyer (Bill To):", buyer)
	c.partyBlock(320, y, "Consignee (Ship To):", c.party(doc.Consignee, buyer))

	c.cursor.Y = itemsBarY
}

// party fills blank fields from fallback, then from the letterhead defaults
func (c *Composer) party(p, fallback Party) Party {
	pick := func(vals ...string) string {
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
		return ""
	}
	return Party{
		Name:    pick(p.Name, fallback.Name, "CUSTOMER"),
		Address: pick(p.Address, fallback.Address, c.lh.DefaultAddress),
		Phone:   pick(p.Phone, fallback.Phone, "0000000000"),
	}
}

func (c *Composer) partyBlock(x, y float64, title string, p Party) {
	cv := c.canvas
	cv.SetFont(Bold, 9)
	cv.Text(x, y, 220, AlignLeft, title)
	cv.SetFont(Regular, 8)
	cv.Text(x, y+12, 220, AlignLeft, p.Name)

	// address gets the two lines between the name and the state line
	lines := cv.SplitText(p.Address, 220)
	if len(lines) > 2 {
		lines = lines[:2]
	}
	for i, line := range lines {
		cv.Text(x, y+22+float64(i)*8, 220, AlignLeft, line)
	}

	cv.Text(x, y+38, 220, AlignLeft, fmt.Sprintf("State: %s, Code: %s", c.lh.State, c.lh.StateCode))
	cv.Text(x, y+48, 220, AlignLeft, "M: "+p.Phone)
}

func (c *Composer) items(doc *Document) {
	cv := c.canvas
	y := c.cursor.Y

	cv.SetFillColor(LightGrey)
	cv.Rect(ContentLeft, y, ContentWidth, itemsBarHeight, FillAndStroke)
	cv.SetFont(Bold, 9)
	cv.Text(ContentLeft, y+6, ContentWidth, AlignCenter, "Items")
	c.cursor.Advance(itemsBarHeight)

	c.columnHeader()

	discount := doc.DiscountPercent.StringFixed(2)
	for i, row := range doc.Rows {
		if c.ensure(RowHeight) {
			c.columnHeader()
		}
		c.itemRow(i+1, row, doc.Totals.Lines[i].Rate, doc.Totals.Lines[i].Quantity, doc.Totals.Lines[i].Amount, discount)
		c.cursor.Advance(RowHeight)
	}
}

func (c *Composer) columnHeader() {
	cv := c.canvas
	y := c.cursor.Y

	cv.SetFillColor(LightGrey)
	cv.Rect(ContentLeft, y, ContentWidth, columnHeaderH, FillAndStroke)
	cv.SetTextColor(Black)
	cv.SetFont(Bold, 8)
	for i, title := range columnHeader {
		cv.Text(columnX[i]+2, y+8, columnWidth[i]-4, AlignCenter, title)
	}
	c.cursor.Advance(columnHeaderH)
}

func (c *Composer) itemRow(serial int, row Row, rate decimal.Decimal, qty int, amount decimal.Decimal, discount string) {
	cv := c.canvas
	y := c.cursor.Y

	cv.Rect(ContentLeft, y, ContentWidth, RowHeight, Stroke)
	for _, x := range columnX[1:] {
		cv.Line(x, y, x, y+RowHeight)
	}

	mid := y + 30
	cv.SetFont(Regular, 8)
	cv.Text(columnX[0]+2, mid, columnWidth[0]-4, AlignCenter, fmt.Sprint(serial))

	name := row.Name
	if name == "" {
		name = "N/A"
	}
	descWidth := columnWidth[1] - 8
	cv.SetFont(Bold, 8)
	cv.Text(columnX[1]+4, y+8, descWidth, AlignLeft, name)
	if row.Description != "" {
		cv.SetFont(Regular, 7)
		cv.SetTextColor(MidGrey)
		lines := cv.SplitText(row.Description, descWidth)
		// keep the description inside the row
		if len(lines) > 5 {
			lines = lines[:5]
		}
		for i, line := range lines {
			cv.Text(columnX[1]+4, y+20+float64(i)*8, descWidth, AlignLeft, line)
		}
		cv.SetTextColor(Black)
	}

	cv.SetFont(Regular, 8)
	sku := row.SKU
	if sku == "" {
		sku = "-"
	}
	cv.Text(columnX[2]+2, mid, columnWidth[2]-4, AlignCenter, sku)

	if row.Image != nil {
		c.fittedImage(row.Image, columnX[3]+5, y+5, ImageCell, ImageCell)
	}

	cv.Text(columnX[4]+2, mid, columnWidth[4]-4, AlignRight, rate.StringFixed(2))
	cv.Text(columnX[5]+2, mid, columnWidth[5]-4, AlignCenter, decimal.NewFromInt(int64(qty)).StringFixed(2))
	cv.Text(columnX[6]+2, mid, columnWidth[6]-4, AlignRight, discount)
	cv.Text(columnX[7]+2, mid, columnWidth[7]-4, AlignRight, amount.StringFixed(2))
}

// fittedImage scales img into the w x h box and centres it
func (c *Composer) fittedImage(img *imaging.Image, x, y, w, h float64) {
	if img == nil || len(img.Data) == 0 || img.Width <= 0 || img.Height <= 0 {
		return
	}
	scale := w / float64(img.Width)
	if s := h / float64(img.Height); s < scale {
		scale = s
	}
	dw := float64(img.Width) * scale
	dh := float64(img.Height) * scale
	c.canvas.Image(img.Data, x+(w-dw)/2, y+(h-dh)/2, dw, dh)
}

type summaryRow struct {
	label string
	value string
	bold  bool
}

func (c *Composer) summaryRows(doc *Document) []summaryRow {
	t := doc.Totals
	rows := []summaryRow{
		{"Total Amount", t.Subtotal.StringFixed(2), true},
		{"Net Amount", t.NetAmount.StringFixed(2), true},
		{"Total without Discount:", t.TotalWithoutDiscount.StringFixed(2), false},
	}
	if doc.IncludeTax {
		rows = append(rows,
			summaryRow{"CGST (9%):", t.CGST.StringFixed(2), false},
			summaryRow{"SGST (9%):", t.SGST.StringFixed(2), false},
		)
	}
	return append(rows,
		summaryRow{"Total Amount:", t.TotalWithTax.StringFixed(2), false},
		summaryRow{"Round Off:", t.RoundOff.StringFixed(2), false},
	)
}

func (c *Composer) summary(doc *Document) {
	cv := c.canvas
	rows := c.summaryRows(doc)

	// totals line, area header and row, summary rows, final bar, words line
	height := 10 + 20 + 15 + 15 + float64(len(rows))*summaryRowH + 25 + 15
	c.ensure(height)

	subtotal := doc.Totals.Subtotal.StringFixed(2)
	y := c.cursor.Y + 10

	cv.SetFont(Bold, 9)
	cv.Text(40, y, 200, AlignLeft, "Total")
	cv.Text(300, y, 200, AlignLeft, "Others + Total Amount")
	cv.Text(505, y, 60, AlignRight, subtotal)

	y += 20
	cv.SetFillColor(LightGrey)
	cv.Rect(ContentLeft, y, ContentWidth, summaryRowH, FillAndStroke)
	cv.SetFont(Bold, 8)
	cv.Text(35, y+4, 100, AlignLeft, "SR. NO.")
	cv.Text(135, y+4, 200, AlignCenter, "AREA")
	cv.Text(335, y+4, 225, AlignCenter, "NET AMOUNT")

	y += summaryRowH
	cv.Rect(ContentLeft, y, ContentWidth, summaryRowH, Stroke)
	cv.SetFont(Regular, 8)
	cv.Text(35, y+4, 100, AlignCenter, c.lh.Area.Code)
	cv.Text(135, y+4, 200, AlignCenter, c.lh.Area.Name)
	cv.Text(490, y+4, 70, AlignRight, subtotal)

	y += summaryRowH
	for _, row := range rows {
		cv.Rect(ContentLeft, y, ContentWidth, summaryRowH, Stroke)
		align := AlignRight
		if row.bold {
			cv.SetFillColor(LightGrey)
			cv.Rect(ContentLeft, y, 335, summaryRowH, FillAndStroke)
			cv.SetFont(Bold, 8)
			align = AlignLeft
		} else {
			cv.SetFont(Regular, 8)
		}
		cv.Text(35, y+4, 300, align, row.label)
		cv.Text(490, y+4, 70, AlignRight, row.value)
		y += summaryRowH
	}

	cv.SetFillColor(Black)
	cv.Rect(ContentLeft, y, 335, 20, FillAndStroke)
	cv.Rect(365, y, 200, 20, FillAndStroke)
	cv.SetTextColor(White)
	cv.SetFont(Bold, 10)
	cv.Text(35, y+6, 200, AlignLeft, "Final Amount:")
	cv.Text(490, y+6, 70, AlignRight, doc.Totals.FinalAmount.StringFixed(2))
	cv.SetTextColor(Black)

	y += 25
	cv.SetFont(Bold, 8)
	cv.Text(35, y, 85, AlignLeft, "Amount in words: ")
	cv.SetFont(Regular, 8)
	cv.Text(120, y, 440, AlignLeft, numwords.Indian(doc.Totals.FinalAmount.IntPart())+" Rupees Only")

	y += 15
	if c.lh.AvailabilityNote != "" {
		cv.SetFont(Regular, 7)
		cv.SetTextColor(MidGrey)
		cv.Text(35, y, 525, AlignLeft, c.lh.AvailabilityNote)
		cv.SetTextColor(Black)
	}

	c.cursor.Y = y
}

func (c *Composer) terms(_ *Document) {
	if len(c.lh.Terms) == 0 {
		return
	}
	cv := c.canvas

	boxHeight := termsBoxHeight
	if need := 20 + float64(len(c.lh.Terms))*10; need > boxHeight {
		boxHeight = need
	}
	c.ensure(20 + boxHeight)

	y := c.cursor.Y + 20
	cv.Rect(ContentLeft, y, ContentWidth, boxHeight, Stroke)
	cv.SetFont(Bold, 10)
	cv.Text(40, y+5, 300, AlignLeft, "Terms & Conditions:")
	cv.SetFont(Regular, 8)
	for i, term := range c.lh.Terms {
		cv.Text(40, y+20+float64(i)*10, 515, AlignLeft, "• "+term)
	}

	c.cursor.Y = y + boxHeight + 10
}

func (c *Composer) brands(doc *Document) {
	if len(c.lh.Brands) == 0 {
		return
	}
	cv := c.canvas

	rowsNeeded := (len(c.lh.Brands) + brandColumns - 1) / brandColumns
	boxHeight := brandsBoxHeight
	cellHeight := boxHeight / 3
	if rowsNeeded > 3 {
		boxHeight = cellHeight * float64(rowsNeeded)
	}
	c.ensure(boxHeight)

	y := c.cursor.Y
	cellWidth := ContentWidth / brandColumns
	cv.Rect(ContentLeft, y, ContentWidth, boxHeight, Stroke)
	cv.SetFont(Bold, 9)

	for i, brand := range c.lh.Brands {
		bx := ContentLeft + float64(i%brandColumns)*cellWidth
		by := y + float64(i/brandColumns)*cellHeight

		if logo := doc.BrandLogos[brand.Logo]; brand.Logo != "" && logo != nil && !logo.Placeholder {
			c.fittedImage(logo, bx+4, by+3, cellWidth-8, cellHeight-6)
			continue
		}
		cv.Text(bx, by+10, cellWidth, AlignCenter, brand.Name)
	}

	c.cursor.Y = y + boxHeight + 10
}

func (c *Composer) footer(doc *Document) {
	cv := c.canvas
	c.ensure(footerHeight)
	y := c.cursor.Y

	cv.Rect(ContentLeft, y, ContentWidth, footerHeight, Stroke)
	cv.SetFont(Regular, 8)
	cv.Text(480, y+10, 80, AlignLeft, "For")
	cv.SetFont(Bold, 8)
	cv.Text(480, y+22, 80, AlignLeft, c.lh.Signatory)

	cv.Line(450, y+55, 555, y+55)
	cv.Text(450, y+58, 105, AlignCenter, "Authorized Signatory")

	preparedBy := doc.PreparedBy
	if preparedBy == "" {
		preparedBy = c.lh.PreparedBy
	}
	cv.SetFont(Bold, 7)
	cv.Text(40, y+65, 50, AlignLeft, "Prepared By:")
	cv.SetFont(Regular, 7)
	cv.Text(90, y+65, 200, AlignLeft, preparedBy)

	c.cursor.Advance(footerHeight)
}
