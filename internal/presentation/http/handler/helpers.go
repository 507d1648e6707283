package handler

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/dto/response"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/middleware"
	"github.com/sangkips/rajtiles-api/pkg/apperror"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUsername extracts the username from the Gin context
func GetUsername(c *gin.Context) string {
	return c.GetString(middleware.ContextUsername)
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	return c.GetStringSlice(middleware.ContextRoles)
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	return slices.Contains(GetUserRoles(c), entity.RoleAdmin)
}

// requireUser writes a 401 and returns false when the request carries no user
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrUnauthorized)
		return uuid.Nil, false
	}
	return *userID, true
}

// paramID parses the :id path parameter, writing a 400 naming the resource
// when it is not a UUID
func paramID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}
