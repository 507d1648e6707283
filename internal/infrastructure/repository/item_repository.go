package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	domainRepo "github.com/sangkips/rajtiles-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return duplicateName(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error)
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// GetByIDs retrieves multiple items by their IDs in a single query
func (r *itemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	if len(ids) == 0 {
		return []entity.Item{}, nil
	}
	var items []entity.Item
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *itemRepository) GetByNameKey(ctx context.Context, userID uuid.UUID, key string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name_key = ?", userID, key).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	return duplicateName(r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error)
}

// Delete soft-deletes the item. Quotation lines that reference it are left
// untouched and resolve to a nil Item from then on.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Item{}, "id = ?", id).Error
}

func (r *itemRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.ItemFilterParams) ([]entity.Item, int64, error) {
	var items []entity.Item
	var total int64

	owner := userID
	if params.SkipUserFilter {
		owner = uuid.Nil
	}

	query := r.db.WithContext(ctx).Model(&entity.Item{}).
		Scopes(OwnerScope(owner), SearchScope(params.Search, "name", "description"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&items).Error

	return items, total, err
}

// duplicateName maps a violation of idx_items_user_name_key onto
// ErrDuplicateItemName. Drivers without error translation are matched on
// their message.
func duplicateName(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint failed") {
		return domainRepo.ErrDuplicateItemName
	}
	return err
}
