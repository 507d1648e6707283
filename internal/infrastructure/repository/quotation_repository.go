package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	domainRepo "github.com/sangkips/rajtiles-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) domainRepo.QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(quotation).Error; err != nil {
			return err
		}
		return createLines(tx, quotation)
	})
}

func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *quotationRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lines.Item").
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *quotationRepository) Update(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(quotation).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", quotation.ID).Delete(&entity.QuotationLine{}).Error; err != nil {
			return err
		}
		return createLines(tx, quotation)
	})
}

func (r *quotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", id).Delete(&entity.QuotationLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Quotation{}, "id = ?", id).Error
	})
}

func (r *quotationRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	var quotations []entity.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quotation{}).
		Scopes(OwnerScope(userID), SearchScope(params.Search, "customer_name", "consignee_name"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date DESC, created_at DESC").
		Find(&quotations).Error

	return quotations, total, err
}

// createLines writes the lines in slice order, numbering positions from 0
func createLines(tx *gorm.DB, quotation *entity.Quotation) error {
	if len(quotation.Lines) == 0 {
		return nil
	}
	for i := range quotation.Lines {
		quotation.Lines[i].ID = uuid.Nil
		quotation.Lines[i].QuotationID = quotation.ID
		quotation.Lines[i].Position = i
	}
	return tx.Omit(clause.Associations).Create(&quotation.Lines).Error
}
