package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a catalog item with two list prices: NRP and MRP
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_items_user_name_key,where:deleted_at IS NULL" json:"user_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	NameKey     string          `gorm:"size:255;not null;uniqueIndex:idx_items_user_name_key,where:deleted_at IS NULL" json:"-"`
	Description string          `gorm:"type:text" json:"description"`
	NRP         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"nrp"`
	MRP         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"mrp"`
	Image       *string         `gorm:"size:1024" json:"image,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new item
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the lookup key in step with the name
func (i *Item) BeforeSave(tx *gorm.DB) error {
	i.NameKey = NormalizeName(i.Name)
	return nil
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}

// SKU is the printed item code: the last 8 hex digits of the id, upper case
func (i *Item) SKU() string {
	return ShortCode(i.ID)
}

// ImageRef returns the image reference or ""
func (i *Item) ImageRef() string {
	if i.Image == nil {
		return ""
	}
	return strings.TrimSpace(*i.Image)
}

// NormalizeName is the case-insensitive uniqueness key of an item name
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ShortCode returns the last 8 hex digits of id in upper case
func ShortCode(id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return strings.ToUpper(hex[len(hex)-8:])
}
