package request

// CreateUserRequest represents an admin registering a user
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin sales"`
}

// UpdateUserRequest represents a user update. Omitted fields are unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=255"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin sales"`
	Password *string `json:"password"`
}

// ListFilterRequest represents the common list query parameters
type ListFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
