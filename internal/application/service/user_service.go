package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/domain/repository"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
	"github.com/sangkips/rajtiles-api/pkg/utils"
)

// UserService handles user management operations
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// ListUsersInput represents the input for listing users
type ListUsersInput struct {
	Pagination *pagination.PaginationParams
	Search     string
}

// ListUsers returns a paginated list of users with their roles
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, input.Pagination, input.Search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// CreateUserInput represents an admin registering a user
type CreateUserInput struct {
	Username string
	Password string
	Role     string
}

// CreateUser registers a user. The role defaults to sales.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	roleName := input.Role
	if roleName == "" {
		roleName = entity.RoleSales
	}
	user, err := createAccount(ctx, s.userRepo, s.roleRepo, input.Username, input.Password, roleName)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetWithRoles(ctx, user.ID)
}

// UpdateUserInput represents an admin update. Nil fields are left unchanged.
type UpdateUserInput struct {
	ID       uuid.UUID
	Username *string
	Role     *string
	Password *string
}

// UpdateUser changes username, role and/or password
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if input.Username != nil {
		username := NormalizeUsername(*input.Username)
		if username == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "username", Message: "Username is required"}})
		}
		if username != user.Username {
			existing, err := s.userRepo.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperror.NewConflictError("Username already exists")
			}
			user.Username = username
		}
	}

	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			return nil, passwordTooShort()
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	var newRole *entity.Role
	if input.Role != nil && !user.HasRole(*input.Role) {
		newRole, err = s.roleRepo.GetByName(ctx, *input.Role)
		if err != nil {
			return nil, err
		}
		if newRole == nil {
			return nil, apperror.NewBadRequestError("Unknown role: " + *input.Role)
		}
		if user.IsAdmin() {
			if err := s.ensureNotLastAdmin(ctx, "Cannot change role of the last admin"); err != nil {
				return nil, err
			}
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if newRole != nil {
		for _, role := range user.Roles {
			if err := s.userRepo.RemoveRole(ctx, user.ID, role.ID); err != nil {
				return nil, err
			}
		}
		if err := s.userRepo.AssignRole(ctx, user.ID, newRole.ID); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetWithRoles(ctx, user.ID)
}

// DeleteUser permanently deletes a user. Admins cannot delete themselves
// and the last admin cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, actingUserID, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	if user.ID == actingUserID {
		return nil, apperror.NewBadRequestError("You cannot delete your own account")
	}
	if user.IsAdmin() {
		if err := s.ensureNotLastAdmin(ctx, "Cannot delete the last admin user"); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return nil, err
	}
	return user, nil
}

// ListRoles returns all available roles
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *UserService) ensureNotLastAdmin(ctx context.Context, message string) error {
	count, err := s.userRepo.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if count <= 1 {
		return apperror.NewBadRequestError(message)
	}
	return nil
}
