package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/domain/repository"
	infraRepo "github.com/sangkips/rajtiles-api/internal/infrastructure/repository"
	"github.com/sangkips/rajtiles-api/internal/infrastructure/storage"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	objects map[string][]byte
	deleted []string
	failPut bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Bucket() string { return "tiles" }

func (f *fakeStore) UploadFile(_ context.Context, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	if f.failPut {
		return "", errors.New("connection refused")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%d_%s", folder, len(f.objects), fileName)
	f.objects[key] = data
	return key, nil
}

func (f *fakeStore) DownloadFile(_ context.Context, _, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) DeleteObject(_ context.Context, _, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) ValidateContentType(contentType string) error {
	if !storage.AllowedContentTypes[contentType] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

func (f *fakeStore) ValidateFileSize(size int64) error {
	if size <= 0 || size > 1024 {
		return fmt.Errorf("bad size %d", size)
	}
	return nil
}

func TestItemService_NameIsUniquePerOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ravi := env.signup(t, "ravi")
	priya := env.signup(t, "priya")

	env.item(t, ravi.ID, "Glossy White 60x60", "100", "120")

	_, err := env.items.CreateItem(ctx, &CreateItemInput{UserID: ravi.ID, Name: "  glossy   WHITE 60x60 "})
	expectCode(t, err, http.StatusConflict)

	// another owner may reuse the name
	env.item(t, priya.ID, "Glossy White 60x60", "90", "110")
}

func TestItemService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ravi := env.signup(t, "ravi")

	_, err := env.items.CreateItem(context.Background(), &CreateItemInput{
		UserID: ravi.ID,
		Name:   "Tile",
		NRP:    decimal.RequireFromString("-1"),
	})
	expectCode(t, err, http.StatusUnprocessableEntity)

	_, err = env.items.CreateItem(context.Background(), &CreateItemInput{UserID: ravi.ID, Name: "   "})
	expectCode(t, err, http.StatusUnprocessableEntity)
}

func TestItemService_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ravi := env.signup(t, "ravi")
	priya := env.signup(t, "priya")
	adminID := env.adminID(t)

	item := env.item(t, ravi.ID, "Wall Tile", "50", "60")
	env.item(t, priya.ID, "Floor Tile", "70", "80")

	_, err := env.items.GetItem(ctx, priya.ID, false, item.ID)
	expectCode(t, err, http.StatusForbidden)

	_, err = env.items.UpdateItem(ctx, &UpdateItemInput{UserID: priya.ID, ID: item.ID, Name: strPtr("Mine")})
	expectCode(t, err, http.StatusForbidden)

	err = env.items.DeleteItem(ctx, priya.ID, false, item.ID)
	expectCode(t, err, http.StatusForbidden)

	if _, err := env.items.GetItem(ctx, adminID, true, item.ID); err != nil {
		t.Fatalf("expected admin to read any item, got %v", err)
	}

	own, err := env.items.ListItems(ctx, &ListItemsInput{UserID: ravi.ID, Pagination: pagination.DefaultPagination()})
	if err != nil || own.Pagination.Total != 1 {
		t.Fatalf("expected 1 own item, got %v (%v)", own, err)
	}
	all, err := env.items.ListItems(ctx, &ListItemsInput{UserID: adminID, IsAdmin: true, Pagination: pagination.DefaultPagination()})
	if err != nil || all.Pagination.Total != 2 {
		t.Fatalf("expected admin to list 2 items, got %v (%v)", all, err)
	}
}

func TestItemService_UpdateKeepsOwnName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ravi := env.signup(t, "ravi")
	item := env.item(t, ravi.ID, "Wall Tile", "50", "60")
	env.item(t, ravi.ID, "Floor Tile", "70", "80")

	nrp := decimal.RequireFromString("55")
	updated, err := env.items.UpdateItem(ctx, &UpdateItemInput{UserID: ravi.ID, ID: item.ID, Name: strPtr("WALL tile"), NRP: &nrp})
	if err != nil {
		t.Fatalf("expected renaming to a case variant of itself to succeed, got %v", err)
	}
	if updated.Name != "WALL tile" || !updated.NRP.Equal(nrp) {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	_, err = env.items.UpdateItem(ctx, &UpdateItemInput{UserID: ravi.ID, ID: item.ID, Name: strPtr("floor tile")})
	expectCode(t, err, http.StatusConflict)
}

func TestItemService_UploadImageWithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	ravi := env.signup(t, "ravi")
	item := env.item(t, ravi.ID, "Wall Tile", "50", "60")

	_, err := env.items.UploadImage(context.Background(), &UploadImageInput{
		UserID: ravi.ID, ID: item.ID, FileName: "a.png", ContentType: "image/png", Size: 3, Reader: strings.NewReader("png"),
	})
	expectCode(t, err, http.StatusServiceUnavailable)
}

func TestItemService_UploadImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := newFakeStore()
	items := NewItemService(infraRepo.NewItemRepository(env.db), store)

	ravi := env.signup(t, "ravi")
	item := env.item(t, ravi.ID, "Wall Tile", "50", "60")

	upload := func(name, contentType, body string) error {
		_, err := items.UploadImage(ctx, &UploadImageInput{
			UserID: ravi.ID, ID: item.ID, FileName: name, ContentType: contentType,
			Size: int64(len(body)), Reader: strings.NewReader(body),
		})
		return err
	}

	expectCode(t, upload("a.txt", "text/plain", "hello"), http.StatusBadRequest)
	expectCode(t, upload("big.png", "image/png", strings.Repeat("x", 2048)), http.StatusBadRequest)

	if err := upload("first.png", "image/png", "one"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	got, _ := items.GetItem(ctx, ravi.ID, false, item.ID)
	first := got.ImageRef()
	if !strings.HasPrefix(first, "s3://tiles/items/") {
		t.Fatalf("expected s3 reference, got %q", first)
	}

	if err := upload("second.jpg", "image/jpeg", "two"); err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if len(store.deleted) != 1 || !strings.HasSuffix(first, store.deleted[0]) {
		t.Fatalf("expected the first object to be removed, deleted %v", store.deleted)
	}

	store.failPut = true
	expectCode(t, upload("third.png", "image/png", "three"), http.StatusBadGateway)
}

type failingUpdateRepo struct {
	repository.ItemRepository
}

func (failingUpdateRepo) Update(context.Context, *entity.Item) error {
	return errors.New("connection reset")
}

func uploadTo(t *testing.T, items *ItemService, owner uuid.UUID, id uuid.UUID, name string) error {
	t.Helper()
	_, err := items.UploadImage(context.Background(), &UploadImageInput{
		UserID: owner, ID: id, FileName: name, ContentType: "image/png",
		Size: 3, Reader: strings.NewReader("png"),
	})
	return err
}

func TestItemService_DeleteRemovesStoredImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := newFakeStore()
	items := NewItemService(infraRepo.NewItemRepository(env.db), store)

	ravi := env.signup(t, "ravi")
	withImage := env.item(t, ravi.ID, "Wall Tile", "50", "60")
	if err := uploadTo(t, items, ravi.ID, withImage.ID, "wall.png"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(store.objects) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(store.objects))
	}

	if err := items.DeleteItem(ctx, ravi.ID, false, withImage.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.objects) != 0 || len(store.deleted) != 1 {
		t.Fatalf("expected the image object to be removed, objects %v deleted %v", store.objects, store.deleted)
	}

	// external URLs are not touched
	url := "https://cdn.example.com/floor.jpg"
	linked, err := items.CreateItem(ctx, &CreateItemInput{UserID: ravi.ID, Name: "Floor Tile", Image: &url})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := items.DeleteItem(ctx, ravi.ID, false, linked.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("expected no further deletions, got %v", store.deleted)
	}
}

func TestItemService_UpdateImageRemovesStoredObject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := newFakeStore()
	items := NewItemService(infraRepo.NewItemRepository(env.db), store)

	ravi := env.signup(t, "ravi")
	item := env.item(t, ravi.ID, "Wall Tile", "50", "60")
	if err := uploadTo(t, items, ravi.ID, item.ID, "wall.png"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	nrp := decimal.RequireFromString("55")
	if _, err := items.UpdateItem(ctx, &UpdateItemInput{UserID: ravi.ID, ID: item.ID, NRP: &nrp}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected image to stay when it is unchanged, deleted %v", store.deleted)
	}

	if _, err := items.UpdateItem(ctx, &UpdateItemInput{UserID: ravi.ID, ID: item.ID, Image: strPtr("")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(store.objects) != 0 || len(store.deleted) != 1 {
		t.Fatalf("expected the cleared image to be removed, objects %v deleted %v", store.objects, store.deleted)
	}
}

func TestItemService_UploadImageFailedSaveRemovesObject(t *testing.T) {
	env := newTestEnv(t)
	store := newFakeStore()
	repo := infraRepo.NewItemRepository(env.db)
	items := NewItemService(failingUpdateRepo{ItemRepository: repo}, store)

	ravi := env.signup(t, "ravi")
	item := env.item(t, ravi.ID, "Wall Tile", "50", "60")

	if err := uploadTo(t, items, ravi.ID, item.ID, "wall.png"); err == nil {
		t.Fatal("expected the failed save to be reported")
	}
	if len(store.objects) != 0 || len(store.deleted) != 1 {
		t.Fatalf("expected the uploaded object to be removed, objects %v deleted %v", store.objects, store.deleted)
	}
	got, _ := repo.GetByID(context.Background(), item.ID)
	if got.ImageRef() != "" {
		t.Fatalf("expected item image to stay empty, got %q", got.ImageRef())
	}
}
