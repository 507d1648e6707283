package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/sangkips/rajtiles-api/internal/config"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/pkg/utils"
	"gorm.io/gorm"
)

// rolePermissions is the fixed RBAC matrix
var rolePermissions = map[string][]string{
	entity.RoleAdmin: {
		entity.PermissionManageItems,
		entity.PermissionManageQuotations,
		entity.PermissionManageUsers,
	},
	entity.RoleSales: {
		entity.PermissionManageItems,
		entity.PermissionManageQuotations,
	},
}

// SeedDefaultData creates the roles and permissions and, when credentials
// are configured, the initial admin account. It is safe to run on every start.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig) error {
	log.Println("Seeding default data...")

	permissions := make(map[string]entity.Permission)
	for _, name := range []string{
		entity.PermissionManageItems,
		entity.PermissionManageQuotations,
		entity.PermissionManageUsers,
	} {
		p := entity.Permission{Name: name, GuardName: "web"}
		if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", name, err)
		}
		permissions[name] = p
	}

	for _, roleName := range []string{entity.RoleAdmin, entity.RoleSales} {
		role := entity.Role{Name: roleName, GuardName: "web"}
		if err := db.Omit("Permissions").Where(entity.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", roleName, err)
		}

		perms := make([]entity.Permission, 0, len(rolePermissions[roleName]))
		for _, name := range rolePermissions[roleName] {
			perms = append(perms, permissions[name])
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("failed to sync permissions of %s: %w", roleName, err)
		}
	}

	if err := seedAdmin(db, admin); err != nil {
		return err
	}

	log.Println("Default data seeding completed")
	return nil
}

func seedAdmin(db *gorm.DB, admin config.AdminConfig) error {
	username := strings.ToLower(strings.TrimSpace(admin.Username))
	if username == "" || admin.Password == "" {
		log.Println("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	var existing entity.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		log.Printf("Admin user already exists: %s", username)
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	var role entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("admin role missing: %w", err)
	}

	user := entity.User{Username: username, Password: hashed}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"INSERT INTO model_has_roles (model_id, role_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			user.ID, role.ID,
		).Error; err != nil {
			return err
		}
		log.Printf("Admin user created: %s", username)
		return nil
	})
}
