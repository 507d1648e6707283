package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
)

// ErrDuplicateItemName is returned when an owner already has a live item
// with the same normalized name
var ErrDuplicateItemName = errors.New("item name already exists")

// ItemRepository defines the interface for catalog item data operations
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	// GetByIDs retrieves multiple items by their IDs in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error)
	// GetByNameKey finds the owner's item whose normalized name equals key
	GetByNameKey(ctx context.Context, userID uuid.UUID, key string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *ItemFilterParams) ([]entity.Item, int64, error)
}

// ItemFilterParams contains filtering parameters for item queries
type ItemFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	SkipUserFilter bool // If true, returns every user's items (admin)
}
