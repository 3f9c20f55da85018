package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	access, refresh, err := GenerateTokens(testIdentity, testSecret)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"empty header", "", http.StatusUnauthorized},
		{"invalid format", "Token abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid access token", "Bearer " + access, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", AuthMiddleware(testSecret), func(c *gin.Context) {
				id, ok := Current(c)
				require.True(t, ok)
				assert.Equal(t, testIdentity, id)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		userRole       any
		allowed        []string
		expectedStatus int
	}{
		{"single role match", "admin", []string{"admin"}, http.StatusOK},
		{"one of several", "showroom", []string{"host", "showroom"}, http.StatusOK},
		{"missing role", nil, []string{"admin"}, http.StatusUnauthorized},
		{"wrong role type", 123, []string{"admin"}, http.StatusUnauthorized},
		{"insufficient role", "customer", []string{"host", "showroom"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if tt.userRole != nil {
				c.Set(ctxUserRole, tt.userRole)
			}
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RequireRole(tt.allowed...)(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		userID   any
		expected int
		ok       bool
	}{
		{"valid id", 42, 42, true},
		{"missing id", nil, 0, false},
		{"wrong type", "abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			if tt.userID != nil {
				c.Set(ctxUserID, tt.userID)
			}

			id, ok := GetUserID(c)
			assert.Equal(t, tt.expected, id)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
