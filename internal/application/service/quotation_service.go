package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/domain/enum"
	"github.com/sangkips/rajtiles-api/internal/domain/repository"
	"github.com/sangkips/rajtiles-api/internal/quotedoc"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/pricing"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
	"github.com/sangkips/rajtiles-api/pkg/phone"
	"github.com/shopspring/decimal"
)

// DefaultCustomerAddress is stored when a quotation is saved without one
const DefaultCustomerAddress = "SURAT"

var hundred = decimal.NewFromInt(100)

// QuotationService handles quotation-related operations. Quotations are
// visible to their owner only.
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	itemRepo      repository.ItemRepository
	now           func() time.Time
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	itemRepo repository.ItemRepository,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		itemRepo:      itemRepo,
		now:           time.Now,
	}
}

// QuotationInput holds the editable fields of a quotation
type QuotationInput struct {
	CustomerName     string
	CustomerAddress  string
	CustomerPhone    string
	ConsigneeName    string
	ConsigneeAddress string
	ConsigneePhone   string
	Date             *time.Time
	DiscountPercent  string
	PricingMode      enum.PricingMode
	IncludeGST       bool
	Lines            []QuotationLineInput
}

// QuotationLineInput represents a line item input
type QuotationLineInput struct {
	ItemID      uuid.UUID
	Quantity    int
	ManualPrice *decimal.Decimal
}

// CreateQuotationInput represents the input for creating a quotation
type CreateQuotationInput struct {
	UserID   uuid.UUID
	Username string
	QuotationInput
}

// CreateQuotation creates a new quotation owned by the caller
func (s *QuotationService) CreateQuotation(ctx context.Context, input *CreateQuotationInput) (*entity.Quotation, error) {
	quotation := &entity.Quotation{
		UserID:    input.UserID,
		OwnerName: input.Username,
	}
	if err := s.apply(ctx, quotation, &input.QuotationInput); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, err
	}
	return s.quotationRepo.GetWithLines(ctx, quotation.ID)
}

// GetQuotation retrieves one of the caller's quotations with its lines
func (s *QuotationService) GetQuotation(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	if quotation.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return quotation, nil
}

// ListQuotationsInput represents the input for listing quotations
type ListQuotationsInput struct {
	UserID     uuid.UUID
	Pagination *pagination.PaginationParams
	Search     string
}

// ListQuotations lists the caller's quotations, newest first
func (s *QuotationService) ListQuotations(ctx context.Context, input *ListQuotationsInput) (*pagination.PaginatedResult[entity.Quotation], error) {
	params := &repository.QuotationFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
	}

	quotations, total, err := s.quotationRepo.List(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotations, pag), nil
}

// UpdateQuotationInput represents the input for updating a quotation.
// The lines are replaced as a whole.
type UpdateQuotationInput struct {
	UserID uuid.UUID
	ID     uuid.UUID
	QuotationInput
}

// UpdateQuotation updates an existing quotation
func (s *QuotationService) UpdateQuotation(ctx context.Context, input *UpdateQuotationInput) (*entity.Quotation, error) {
	quotation, err := s.owned(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, quotation, &input.QuotationInput); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, err
	}
	return s.quotationRepo.GetWithLines(ctx, quotation.ID)
}

// DeleteQuotation deletes one of the caller's quotations
func (s *QuotationService) DeleteQuotation(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.quotationRepo.Delete(ctx, id)
}

func (s *QuotationService) owned(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	if quotation.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return quotation, nil
}

// apply validates input, copies it onto q and recomputes the cached totals
func (s *QuotationService) apply(ctx context.Context, q *entity.Quotation, input *QuotationInput) error {
	discount := strings.TrimSpace(input.DiscountPercent)
	if discount == "" {
		discount = "0"
	}
	if err := validateQuotation(input, discount); err != nil {
		return err
	}

	items, err := s.loadItems(ctx, input.Lines)
	if err != nil {
		return err
	}

	q.CustomerName = strings.TrimSpace(input.CustomerName)
	q.CustomerAddress = strings.TrimSpace(input.CustomerAddress)
	if q.CustomerAddress == "" {
		q.CustomerAddress = DefaultCustomerAddress
	}
	q.CustomerPhone = phone.NormalizeE164(input.CustomerPhone)
	q.ConsigneeName = strings.TrimSpace(input.ConsigneeName)
	q.ConsigneeAddress = strings.TrimSpace(input.ConsigneeAddress)
	q.ConsigneePhone = phone.NormalizeE164(input.ConsigneePhone)
	if input.Date != nil && !input.Date.IsZero() {
		q.Date = *input.Date
	} else {
		q.Date = s.now()
	}
	q.DiscountPercent = discount
	q.PricingMode = input.PricingMode
	q.IncludeGST = input.IncludeGST

	q.Lines = make([]entity.QuotationLine, len(input.Lines))
	for i, line := range input.Lines {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		q.Lines[i] = entity.QuotationLine{
			ItemID:      line.ItemID,
			Quantity:    qty,
			ManualPrice: line.ManualPrice,
			Item:        items[line.ItemID],
		}
	}

	priced, err := quotedoc.PricingInput(q)
	if err != nil {
		return err
	}
	totals := pricing.Calculate(priced)
	q.TotalQuantity = totals.TotalQuantity
	q.TotalAmount = totals.FinalAmount
	return nil
}

// loadItems fetches every referenced item in one query. A reference to an
// item that does not exist is rejected.
func (s *QuotationService) loadItems(ctx context.Context, lines []QuotationLineInput) (map[uuid.UUID]*entity.Item, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ItemID] {
			seen[line.ItemID] = true
			ids = append(ids, line.ItemID)
		}
	}

	items, err := s.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, id := range ids {
		if byID[id] == nil {
			return nil, apperror.NewNotFoundError("Item")
		}
	}
	return byID, nil
}

func validateQuotation(input *QuotationInput, discount string) error {
	var fieldErrors []apperror.FieldError

	if strings.TrimSpace(input.CustomerName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_name", Message: "Customer name is required"})
	}
	if d, err := decimal.NewFromString(discount); err != nil || d.IsNegative() || d.GreaterThan(hundred) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_percent", Message: "Discount must be a number between 0 and 100"})
	}
	if !input.PricingMode.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "pricing_mode", Message: "Pricing mode must be nrp, mrp or manual"})
	}
	if len(input.Lines) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "lines", Message: "At least one line is required"})
	}
	for _, line := range input.Lines {
		if line.ManualPrice != nil && line.ManualPrice.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "lines.manual_price", Message: "Manual price must not be negative"})
			break
		}
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
