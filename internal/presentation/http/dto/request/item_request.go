package request

import "github.com/shopspring/decimal"

// CreateItemRequest represents an item creation request. Prices accept a
// JSON number or a decimal string.
type CreateItemRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description"`
	NRP         decimal.Decimal `json:"nrp"`
	MRP         decimal.Decimal `json:"mrp"`
	Image       *string         `json:"image" binding:"omitempty,max=1024"`
}

// UpdateItemRequest represents an item update request
type UpdateItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	NRP         *decimal.Decimal `json:"nrp"`
	MRP         *decimal.Decimal `json:"mrp"`
	Image       *string          `json:"image" binding:"omitempty,max=1024"`
}
