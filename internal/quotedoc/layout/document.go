package layout

import (
	"time"

	"github.com/sangkips/rajtiles-api/internal/quotedoc/imaging"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/pricing"
	"github.com/shopspring/decimal"
)

// Party is a buyer or consignee block
type Party struct {
	Name    string
	Address string
	Phone   string
}

// Row is one item line as printed
type Row struct {
	Name        string
	Description string
	SKU         string
	Image       *imaging.Image
}

// Document is everything the Composer prints. Rows and Totals.Lines are
// index-aligned.
type Document struct {
	Number          string
	Date            time.Time
	Buyer           Party
	Consignee       Party
	DiscountPercent decimal.Decimal
	IncludeTax      bool
	Rows            []Row
	Totals          pricing.Totals
	PreparedBy      string

	Logo       *imaging.Image
	BrandLogos map[string]*imaging.Image
}
