package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quotation is a priced offer to a customer. TotalQuantity and TotalAmount
// are a cached summary recomputed on every write.
type Quotation struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	OwnerName        string           `gorm:"size:255" json:"owner_name"`
	CustomerName     string           `gorm:"size:255;not null" json:"customer_name"`
	CustomerAddress  string           `gorm:"type:text" json:"customer_address"`
	CustomerPhone    string           `gorm:"size:50" json:"customer_phone"`
	ConsigneeName    string           `gorm:"size:255" json:"consignee_name,omitempty"`
	ConsigneeAddress string           `gorm:"type:text" json:"consignee_address,omitempty"`
	ConsigneePhone   string           `gorm:"size:50" json:"consignee_phone,omitempty"`
	Date             time.Time        `gorm:"not null" json:"date"`
	DiscountPercent  string           `gorm:"size:20;not null;default:'0'" json:"discount_percent"`
	PricingMode      enum.PricingMode `gorm:"not null;default:0" json:"pricing_mode"`
	IncludeGST       bool             `gorm:"not null;default:false" json:"include_gst"`
	TotalQuantity    int              `gorm:"not null;default:0" json:"total_quantity"`
	TotalAmount      decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Lines []QuotationLine `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"lines"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// Number is the printed quotation number
func (q *Quotation) Number() string {
	return ShortCode(q.ID)
}

// ItemIDs returns the distinct item ids referenced by the lines
func (q *Quotation) ItemIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(q.Lines))
	ids := make([]uuid.UUID, 0, len(q.Lines))
	for _, line := range q.Lines {
		if !seen[line.ItemID] {
			seen[line.ItemID] = true
			ids = append(ids, line.ItemID)
		}
	}
	return ids
}

// QuotationLine is one item entry of a quotation. It has no lifecycle of
// its own; lines are replaced wholesale when the quotation is updated.
type QuotationLine struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"-"`
	Position    int              `gorm:"not null" json:"position"`
	ItemID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"item_id"`
	Quantity    int              `gorm:"not null;default:1" json:"quantity"`
	ManualPrice *decimal.Decimal `gorm:"type:decimal(15,2)" json:"manual_price,omitempty"`

	// Item is nil when the referenced item has been deleted
	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quotation line
func (l *QuotationLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationLine model
func (QuotationLine) TableName() string {
	return "quotation_lines"
}
