package response

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
)

// UserResponse is the public view of a user
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUserResponse maps a user with loaded roles
func NewUserResponse(user *entity.User) UserResponse {
	permissions := user.GetPermissions()
	sort.Strings(permissions)
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Roles:       user.GetRoleNames(),
		Permissions: permissions,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// NewUserListResponse maps a page of users
func NewUserListResponse(result *pagination.PaginatedResult[entity.User]) *pagination.PaginatedResult[UserResponse] {
	items := make([]UserResponse, len(result.Items))
	for i := range result.Items {
		items[i] = NewUserResponse(&result.Items[i])
	}
	return pagination.NewPaginatedResult(items, result.Pagination)
}
