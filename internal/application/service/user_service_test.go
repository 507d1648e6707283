package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
)

func strPtr(s string) *string { return &s }

func TestUserService_CreateUserDefaultsToSales(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, &CreateUserInput{Username: "Priya", Password: "password1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !user.HasRole(entity.RoleSales) {
		t.Fatalf("expected sales role, got %v", user.GetRoleNames())
	}

	boss, err := env.users.CreateUser(ctx, &CreateUserInput{Username: "boss", Password: "password1", Role: entity.RoleAdmin})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if !boss.IsAdmin() {
		t.Fatalf("expected admin role")
	}

	_, err = env.users.CreateUser(ctx, &CreateUserInput{Username: "x", Password: "password1", Role: "owner"})
	expectCode(t, err, http.StatusBadRequest)
}

func TestUserService_ListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "ravi")
	env.signup(t, "priya")

	result, err := env.users.ListUsers(context.Background(), &ListUsersInput{Pagination: pagination.DefaultPagination(), Search: "pri"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Pagination.Total != 1 || result.Items[0].Username != "priya" {
		t.Fatalf("expected only priya, got %+v", result.Items)
	}
}

func TestUserService_LastAdminGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adminID := env.adminID(t)
	other := env.signup(t, "ravi")

	_, err := env.users.UpdateUser(ctx, &UpdateUserInput{ID: adminID, Role: strPtr(entity.RoleSales)})
	expectCode(t, err, http.StatusBadRequest)

	_, err = env.users.DeleteUser(ctx, other.ID, adminID)
	expectCode(t, err, http.StatusBadRequest)

	// promote ravi; now the original admin may be demoted
	if _, err := env.users.UpdateUser(ctx, &UpdateUserInput{ID: other.ID, Role: strPtr(entity.RoleAdmin)}); err != nil {
		t.Fatalf("promote: %v", err)
	}
	demoted, err := env.users.UpdateUser(ctx, &UpdateUserInput{ID: adminID, Role: strPtr(entity.RoleSales)})
	if err != nil {
		t.Fatalf("demote: %v", err)
	}
	if demoted.IsAdmin() || !demoted.HasRole(entity.RoleSales) || len(demoted.Roles) != 1 {
		t.Fatalf("expected a single sales role, got %v", demoted.GetRoleNames())
	}
}

func TestUserService_DeleteSelfIsRefused(t *testing.T) {
	env := newTestEnv(t)
	adminID := env.adminID(t)

	_, err := env.users.DeleteUser(context.Background(), adminID, adminID)
	expectCode(t, err, http.StatusBadRequest)
}

func TestUserService_UpdateUsernameAndPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ravi := env.signup(t, "ravi")
	env.signup(t, "priya")

	_, err := env.users.UpdateUser(ctx, &UpdateUserInput{ID: ravi.ID, Username: strPtr("PRIYA")})
	expectCode(t, err, http.StatusConflict)

	updated, err := env.users.UpdateUser(ctx, &UpdateUserInput{ID: ravi.ID, Username: strPtr("Ravi.K"), Password: strPtr("another-pass")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Username != "ravi.k" {
		t.Fatalf("expected ravi.k, got %q", updated.Username)
	}
	if _, err := env.auth.Login(ctx, &LoginInput{Username: "ravi.k", Password: "another-pass"}); err != nil {
		t.Fatalf("expected login with new credentials, got %v", err)
	}
}
