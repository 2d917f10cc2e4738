package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/titik444/express-blog/internal/dto"
	"github.com/titik444/express-blog/internal/middleware"
	"github.com/titik444/express-blog/pkg/apperror"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	users map[string]*dto.UserResponse
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{users: make(map[string]*dto.UserResponse)}
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	for _, u := range m.users {
		if u.Email == req.Email {
			return nil, apperror.Conflict("Email already registered")
		}
	}
	user := dto.UserResponse{
		ID:    "user-123",
		Name:  req.Name,
		Email: req.Email,
		Role:  "USER",
	}
	m.users[user.ID] = &user
	return &user, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	for _, u := range m.users {
		if u.Email == req.Email {
			return &dto.AuthResponse{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				ExpiresIn:    900,
				User:         *u,
			}, nil
		}
	}
	return nil, apperror.Unauthenticated("Invalid email or password")
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	if refreshToken != "refresh-token" {
		return nil, apperror.Unauthenticated("Invalid refresh token")
	}
	return &dto.RefreshResponse{AccessToken: "new-access-token", ExpiresIn: 900}, nil
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

// testIdentity injects an authenticated identity the way the auth
// middleware would
func testIdentity(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
}

func setupAuthRouter(h *AuthHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.GET("/me", testIdentity(userID), h.Me)
	}

	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	return sendJSON(router, http.MethodPost, path, body)
}

func patchJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	return sendJSON(router, http.MethodPatch, path, body)
}

func sendJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)
	router := setupAuthRouter(handler, "")

	t.Run("successful registration", func(t *testing.T) {
		resp := postJSON(router, "/auth/register", dto.RegisterRequest{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "Password1!",
		})

		if resp.Code != http.StatusCreated {
			t.Errorf("expected status %d, got %d", http.StatusCreated, resp.Code)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp := postJSON(router, "/auth/register", dto.RegisterRequest{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "Password1!",
		})

		if resp.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d", http.StatusConflict, resp.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := postJSON(router, "/auth/register", map[string]string{"email": "not-an-email"})

		if resp.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, resp.Code)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)
	router := setupAuthRouter(handler, "")

	mockSvc.users["user-1"] = &dto.UserResponse{
		ID:    "user-1",
		Email: "known@example.com",
		Role:  "USER",
	}

	t.Run("successful login", func(t *testing.T) {
		resp := postJSON(router, "/auth/login", dto.LoginRequest{
			Email:    "known@example.com",
			Password: "Password1!",
		})

		if resp.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, resp.Code)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := postJSON(router, "/auth/login", dto.LoginRequest{
			Email:    "unknown@example.com",
			Password: "Password1!",
		})

		if resp.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, resp.Code)
		}
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)
	router := setupAuthRouter(handler, "")

	t.Run("valid refresh token", func(t *testing.T) {
		resp := postJSON(router, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "refresh-token"})

		if resp.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, resp.Code)
		}
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		resp := postJSON(router, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "bad"})

		if resp.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, resp.Code)
		}
	})

	t.Run("missing refresh token rejected like an invalid one", func(t *testing.T) {
		resp := postJSON(router, "/auth/refresh", map[string]string{})

		if resp.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, resp.Code)
		}
	})
}

func TestAuthHandler_Me(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)

	mockSvc.users["user-1"] = &dto.UserResponse{
		ID:    "user-1",
		Email: "me@example.com",
		Role:  "USER",
	}

	t.Run("existing user", func(t *testing.T) {
		router := setupAuthRouter(handler, "user-1")
		req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, resp.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		router := setupAuthRouter(handler, "missing")
		req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, resp.Code)
		}
	})
}
