package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/domain/repository"
	"github.com/sangkips/rajtiles-api/internal/infrastructure/storage"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

const itemImageFolder = "items"

// ItemService handles catalog item operations
type ItemService struct {
	itemRepo repository.ItemRepository
	store    storage.ObjectStore
}

// NewItemService creates a new item service. store may be nil, in which
// case image uploads are unavailable.
func NewItemService(itemRepo repository.ItemRepository, store storage.ObjectStore) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		store:    store,
	}
}

// CreateItemInput represents the input for creating an item
type CreateItemInput struct {
	UserID      uuid.UUID
	Name        string
	Description string
	NRP         decimal.Decimal
	MRP         decimal.Decimal
	Image       *string
}

// CreateItem creates a new item owned by the caller
func (s *ItemService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.Item, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateItem(name, input.NRP, input.MRP); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, input.UserID, name, uuid.Nil); err != nil {
		return nil, err
	}

	item := &entity.Item{
		UserID:      input.UserID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		NRP:         input.NRP,
		MRP:         input.MRP,
		Image:       trimmedOrNil(input.Image),
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, itemWriteError(err)
	}
	return item, nil
}

// GetItem retrieves an item the caller may see
func (s *ItemService) GetItem(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (*entity.Item, error) {
	return s.accessibleItem(ctx, userID, isAdmin, id)
}

// ListItemsInput represents the input for listing items
type ListItemsInput struct {
	UserID     uuid.UUID
	IsAdmin    bool
	Pagination *pagination.PaginationParams
	Search     string
}

// ListItems lists the caller's items, or every item for an admin
func (s *ItemService) ListItems(ctx context.Context, input *ListItemsInput) (*pagination.PaginatedResult[entity.Item], error) {
	params := &repository.ItemFilterParams{
		Pagination:     input.Pagination,
		Search:         input.Search,
		SkipUserFilter: input.IsAdmin,
	}

	items, total, err := s.itemRepo.List(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// UpdateItemInput represents the input for updating an item. Nil fields are
// left unchanged.
type UpdateItemInput struct {
	UserID      uuid.UUID
	IsAdmin     bool
	ID          uuid.UUID
	Name        *string
	Description *string
	NRP         *decimal.Decimal
	MRP         *decimal.Decimal
	Image       *string
}

// UpdateItem updates an existing item
func (s *ItemService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.Item, error) {
	item, err := s.accessibleItem(ctx, input.UserID, input.IsAdmin, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if entity.NormalizeName(name) != item.NameKey {
			if err := s.ensureUniqueName(ctx, item.UserID, name, item.ID); err != nil {
				return nil, err
			}
		}
		item.Name = name
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.NRP != nil {
		item.NRP = *input.NRP
	}
	if input.MRP != nil {
		item.MRP = *input.MRP
	}
	previous := item.ImageRef()
	if input.Image != nil {
		item.Image = trimmedOrNil(input.Image)
	}

	if err := validateItem(item.Name, item.NRP, item.MRP); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, itemWriteError(err)
	}
	if item.ImageRef() != previous {
		s.removeObject(ctx, item.ID, previous)
	}
	return item, nil
}

// DeleteItem deletes an item along with its stored image. Quotations that
// still reference it are not checked; generating their PDF reports the item
// as missing.
func (s *ItemService) DeleteItem(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	item, err := s.accessibleItem(ctx, userID, isAdmin, id)
	if err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeObject(ctx, item.ID, item.ImageRef())
	return nil
}

// UploadImageInput carries an uploaded image file
type UploadImageInput struct {
	UserID      uuid.UUID
	IsAdmin     bool
	ID          uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadImage stores the file in object storage and points the item at it.
// A previously uploaded object is removed afterwards.
func (s *ItemService) UploadImage(ctx context.Context, input *UploadImageInput) (*entity.Item, error) {
	if s.store == nil {
		return nil, apperror.NewAppError(apperror.ErrUnavailable.Code, "Image storage is not configured")
	}

	item, err := s.accessibleItem(ctx, input.UserID, input.IsAdmin, input.ID)
	if err != nil {
		return nil, err
	}

	if err := s.store.ValidateContentType(input.ContentType); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	if err := s.store.ValidateFileSize(input.Size); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	key, err := s.store.UploadFile(ctx, itemImageFolder, input.FileName, input.ContentType, input.Reader, input.Size)
	if err != nil {
		log.Printf("item %s: image upload failed: %v", item.ID, err)
		return nil, apperror.NewUpstreamError("Failed to store image")
	}

	previous := item.ImageRef()
	ref := storage.Reference(s.store.Bucket(), key)
	item.Image = &ref
	if err := s.itemRepo.Update(ctx, item); err != nil {
		s.removeObject(ctx, item.ID, ref)
		return nil, itemWriteError(err)
	}

	s.removeObject(ctx, item.ID, previous)
	return item, nil
}

// removeObject deletes the stored object behind ref. References that are not
// s3:// URLs, or a missing store, are ignored; failures are only logged.
func (s *ItemService) removeObject(ctx context.Context, itemID uuid.UUID, ref string) {
	if s.store == nil {
		return
	}
	bucket, key, ok := storage.ParseReference(ref)
	if !ok {
		return
	}
	if err := s.store.DeleteObject(ctx, bucket, key); err != nil {
		log.Printf("item %s: failed to remove image %s: %v", itemID, ref, err)
	}
}

// accessibleItem loads an item and checks the caller may act on it
func (s *ItemService) accessibleItem(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	if !isAdmin && item.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return item, nil
}

func (s *ItemService) ensureUniqueName(ctx context.Context, ownerID uuid.UUID, name string, self uuid.UUID) error {
	existing, err := s.itemRepo.GetByNameKey(ctx, ownerID, entity.NormalizeName(name))
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return itemWriteError(repository.ErrDuplicateItemName)
	}
	return nil
}

func itemWriteError(err error) error {
	if errors.Is(err, repository.ErrDuplicateItemName) {
		return apperror.NewConflictError("An item with this name already exists")
	}
	return err
}

func validateItem(name string, nrp, mrp decimal.Decimal) error {
	var fieldErrors []apperror.FieldError
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if nrp.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "nrp", Message: "NRP must not be negative"})
	}
	if mrp.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "mrp", Message: "MRP must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
