package database

import (
	"sort"
	"testing"

	"github.com/sangkips/rajtiles-api/internal/config"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedDefaultData_CreatesRolesAndAdmin(t *testing.T) {
	db := newTestDB(t)
	admin := config.AdminConfig{Username: " Admin ", Password: "s3cret-pass"}

	if err := SeedDefaultData(db, admin); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var user entity.User
	if err := db.Preload("Roles.Permissions").First(&user, "username = ?", "admin").Error; err != nil {
		t.Fatalf("expected admin user, got %v", err)
	}
	if !user.IsAdmin() {
		t.Fatalf("expected admin role, got %v", user.GetRoleNames())
	}
	perms := user.GetPermissions()
	sort.Strings(perms)
	if len(perms) != 3 || perms[2] != entity.PermissionManageUsers {
		t.Fatalf("expected all three permissions, got %v", perms)
	}
	if !utils.CheckPasswordHash("s3cret-pass", user.Password) {
		t.Fatalf("expected stored password to be a hash of the configured one")
	}

	var sales entity.Role
	if err := db.Preload("Permissions").First(&sales, "name = ?", entity.RoleSales).Error; err != nil {
		t.Fatalf("expected sales role, got %v", err)
	}
	for _, p := range sales.Permissions {
		if p.Name == entity.PermissionManageUsers {
			t.Fatalf("sales must not manage users")
		}
	}
	if len(sales.Permissions) != 2 {
		t.Fatalf("expected 2 sales permissions, got %d", len(sales.Permissions))
	}
}

func TestSeedDefaultData_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	admin := config.AdminConfig{Username: "admin", Password: "s3cret-pass"}

	for i := 0; i < 2; i++ {
		if err := SeedDefaultData(db, admin); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	var roles, perms, users int64
	db.Model(&entity.Role{}).Count(&roles)
	db.Model(&entity.Permission{}).Count(&perms)
	db.Model(&entity.User{}).Count(&users)
	if roles != 2 || perms != 3 || users != 1 {
		t.Fatalf("expected 2 roles, 3 permissions, 1 user; got %d, %d, %d", roles, perms, users)
	}
}

func TestSeedDefaultData_SkipsAdminWithoutPassword(t *testing.T) {
	db := newTestDB(t)
	if err := SeedDefaultData(db, config.AdminConfig{Username: "admin"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var users int64
	db.Model(&entity.User{}).Count(&users)
	if users != 0 {
		t.Fatalf("expected no users, got %d", users)
	}
}
