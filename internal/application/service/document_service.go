package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/domain/repository"
	"github.com/sangkips/rajtiles-api/internal/quotedoc"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
)

// QuotationRenderer renders a loaded quotation into a document
type QuotationRenderer interface {
	Generate(ctx context.Context, q *entity.Quotation) (*quotedoc.Result, error)
}

// DocumentService produces quotation PDFs
type DocumentService struct {
	quotationRepo repository.QuotationRepository
	renderer      QuotationRenderer
}

// NewDocumentService creates a new document service
func NewDocumentService(quotationRepo repository.QuotationRepository, renderer QuotationRenderer) *DocumentService {
	return &DocumentService{
		quotationRepo: quotationRepo,
		renderer:      renderer,
	}
}

// GenerateQuotation renders the quotation recordID for actingUserID.
// Every failure is reported before any document bytes exist.
func (s *DocumentService) GenerateQuotation(ctx context.Context, recordID, actingUserID uuid.UUID) (*quotedoc.Result, error) {
	quotation, err := s.quotationRepo.GetWithLines(ctx, recordID)
	if err != nil {
		log.Printf("quotation %s: load failed: %v", recordID, err)
		return nil, apperror.NewUpstreamError("Failed to load quotation")
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	if quotation.UserID != actingUserID {
		return nil, apperror.ErrForbidden
	}

	result, err := s.renderer.Generate(ctx, quotation)
	if err != nil {
		if errors.Is(err, quotedoc.ErrMissingItem) {
			return nil, apperror.NewNotFoundError("Item")
		}
		log.Printf("quotation %s: render failed: %v", recordID, err)
		return nil, apperror.NewInternalError("Failed to generate PDF")
	}
	return result, nil
}
