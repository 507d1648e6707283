package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
)

// QuotationRepository defines the interface for quotation data operations.
// Lines are owned by the quotation and written together with it.
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	// GetWithLines loads the quotation with its lines in position order and
	// each line's item. A line whose item is gone has a nil Item.
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	// Update saves the header and replaces the lines wholesale
	Update(ctx context.Context, quotation *entity.Quotation) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *QuotationFilterParams) ([]entity.Quotation, int64, error)
}

// QuotationFilterParams contains filtering parameters for quotation queries
type QuotationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}
