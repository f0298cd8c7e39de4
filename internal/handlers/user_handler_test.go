package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bugtracker-api/internal/auth"
	"bugtracker-api/internal/middleware"
	"bugtracker-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGetAllUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware())
	r.GET("/api/users", NewUserHandler(testUsers).GetAllUsers)

	token, _ := auth.GenerateToken("Rupali", models.RoleDeveloper)
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Upasana")
	// passwords never leave the server
	require.NotContains(t, w.Body.String(), "Faltyx@123")
}
