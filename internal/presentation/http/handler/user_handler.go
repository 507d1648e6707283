package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/rajtiles-api/internal/application/service"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/dto/request"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/dto/response"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
)

// UserHandler handles admin user management
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing users
func (h *UserHandler) List(c *gin.Context) {
	var filter request.ListFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), &service.ListUsersInput{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Users retrieved successfully", response.NewUserListResponse(result))
}

// Create handles an admin registering a user
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User created successfully", response.NewUserResponse(user))
}

// Update handles updating a user
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "user")
	if !ok {
		return
	}

	var req request.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), &service.UpdateUserInput{
		ID:       id,
		Username: req.Username,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User updated successfully", response.NewUserResponse(user))
}

// Delete handles deleting a user
func (h *UserHandler) Delete(c *gin.Context) {
	actingUserID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "user")
	if !ok {
		return
	}

	user, err := h.userService.DeleteUser(c.Request.Context(), actingUserID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User deleted successfully", response.NewUserResponse(user))
}

// ListRoles handles listing the assignable roles
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.userService.ListRoles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Roles retrieved successfully", roles)
}
