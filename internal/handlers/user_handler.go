package handlers

import (
	"net/http"

	"bugtracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes the assignable user list to the task form.
type UserHandler struct {
	users []models.User
}

// NewUserHandler builds the handler over the configured user list.
func NewUserHandler(users []models.User) *UserHandler {
	return &UserHandler{users: users}
}

// UserResponse is the safe projection of a configured user.
type UserResponse struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// GetAllUsers returns all users (protected)
// GET /api/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	resp := make([]UserResponse, 0, len(h.users))
	for _, u := range h.users {
		resp = append(resp, UserResponse{
			Username: u.Username,
			Role:     u.Role,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}
