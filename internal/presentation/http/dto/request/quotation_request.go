package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationRequest represents a quotation create or update request
type QuotationRequest struct {
	CustomerName     string                 `json:"customer_name" binding:"required,max=255"`
	CustomerAddress  string                 `json:"customer_address"`
	CustomerPhone    string                 `json:"customer_phone" binding:"max=50"`
	ConsigneeName    string                 `json:"consignee_name" binding:"max=255"`
	ConsigneeAddress string                 `json:"consignee_address"`
	ConsigneePhone   string                 `json:"consignee_phone" binding:"max=50"`
	Date             string                 `json:"date"` // YYYY-MM-DD or RFC 3339
	DiscountPercent  string                 `json:"discount_percent"`
	PricingMode      string                 `json:"pricing_mode" binding:"omitempty,oneof=nrp mrp manual NRP MRP MANUAL"`
	IncludeGST       bool                   `json:"include_gst"`
	Lines            []QuotationLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// QuotationLineRequest represents a quotation line
type QuotationLineRequest struct {
	ItemID      uuid.UUID        `json:"item_id" binding:"required"`
	Quantity    int              `json:"quantity"`
	ManualPrice *decimal.Decimal `json:"manual_price"`
}
