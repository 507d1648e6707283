package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/config"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/rajtiles-api/internal/infrastructure/repository"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
	"github.com/sangkips/rajtiles-api/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db         *gorm.DB
	auth       *AuthService
	users      *UserService
	items      *ItemService
	quotations *QuotationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedDefaultData(db, config.AdminConfig{Username: "admin", Password: "admin-password"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	userRepo := infraRepo.NewUserRepository(db)
	roleRepo := infraRepo.NewRoleRepository(db)
	itemRepo := infraRepo.NewItemRepository(db)
	quotationRepo := infraRepo.NewQuotationRepository(db)

	return &testEnv{
		db:         db,
		auth:       NewAuthService(userRepo, roleRepo, utils.NewJWTManager("test-secret", time.Hour, 2*time.Hour)),
		users:      NewUserService(userRepo, roleRepo),
		items:      NewItemService(itemRepo, nil),
		quotations: NewQuotationService(quotationRepo, itemRepo),
	}
}

func (e *testEnv) adminID(t *testing.T) uuid.UUID {
	t.Helper()
	var admin entity.User
	if err := e.db.First(&admin, "username = ?", "admin").Error; err != nil {
		t.Fatalf("admin: %v", err)
	}
	return admin.ID
}

func (e *testEnv) signup(t *testing.T, username string) *entity.User {
	t.Helper()
	out, err := e.auth.Signup(context.Background(), &SignupInput{Username: username, Password: "password1"})
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	return out.User
}

func (e *testEnv) item(t *testing.T, owner uuid.UUID, name, nrp, mrp string) *entity.Item {
	t.Helper()
	item, err := e.items.CreateItem(context.Background(), &CreateItemInput{
		UserID: owner,
		Name:   name,
		NRP:    decimal.RequireFromString(nrp),
		MRP:    decimal.RequireFromString(mrp),
	})
	if err != nil {
		t.Fatalf("create item %s: %v", name, err)
	}
	return item
}

func expectCode(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", code)
	}
	if got := apperror.GetAppError(err).Code; got != code {
		t.Fatalf("expected code %d, got %d (%v)", code, got, err)
	}
}
