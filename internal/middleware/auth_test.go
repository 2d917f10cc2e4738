package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/service"
)

func newTestRouter(tokens service.TokenService, config AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Authenticate(tokens, config), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserID(c),
			"role":    string(Role(c)),
		})
	})
	return router
}

func tokensForTest(t *testing.T) (service.TokenService, *domain.TokenPair, *domain.TokenPair) {
	t.Helper()
	tokens := service.NewTokenService(&service.TokenServiceConfig{
		Secret:          "test-secret-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})

	userPair, err := tokens.GeneratePair(&domain.User{ID: "user-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("GeneratePair() error = %v", err)
	}
	adminPair, err := tokens.GeneratePair(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("GeneratePair() error = %v", err)
	}
	return tokens, userPair, adminPair
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_Required(t *testing.T) {
	tokens, userPair, _ := tokensForTest(t)
	router := newTestRouter(tokens, AuthConfig{})

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(router, "Bearer "+userPair.AccessToken)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doRequest(router, "Token abc")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(router, "Bearer garbage")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("refresh token rejected on protected route", func(t *testing.T) {
		w := doRequest(router, "Bearer "+userPair.RefreshToken)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := service.NewTokenService(&service.TokenServiceConfig{
			Secret:          "test-secret-key",
			AccessTokenTTL:  -time.Minute,
			RefreshTokenTTL: time.Hour,
		})
		pair, err := expired.GeneratePair(&domain.User{ID: "user-1", Role: domain.RoleUser})
		if err != nil {
			t.Fatalf("GeneratePair() error = %v", err)
		}

		w := doRequest(router, "Bearer "+pair.AccessToken)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestAuthenticate_Roles(t *testing.T) {
	tokens, userPair, adminPair := tokensForTest(t)
	router := newTestRouter(tokens, AuthConfig{Roles: []domain.Role{domain.RoleAdmin}})

	t.Run("admin allowed", func(t *testing.T) {
		w := doRequest(router, "Bearer "+adminPair.AccessToken)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("user forbidden", func(t *testing.T) {
		w := doRequest(router, "Bearer "+userPair.AccessToken)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		w := doRequest(router, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestAuthenticate_Optional(t *testing.T) {
	tokens, userPair, _ := tokensForTest(t)
	router := newTestRouter(tokens, AuthConfig{Optional: true})

	t.Run("valid token attaches identity", func(t *testing.T) {
		w := doRequest(router, "Bearer "+userPair.AccessToken)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if body := w.Body.String(); !strings.Contains(body, "user-1") {
			t.Errorf("body = %s, want user-1 present", body)
		}
	})

	t.Run("missing token proceeds anonymously", func(t *testing.T) {
		w := doRequest(router, "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("all failures look the same", func(t *testing.T) {
		expired := service.NewTokenService(&service.TokenServiceConfig{
			Secret:          "test-secret-key",
			AccessTokenTTL:  -time.Minute,
			RefreshTokenTTL: time.Hour,
		})
		expiredPair, err := expired.GeneratePair(&domain.User{ID: "user-1", Role: domain.RoleUser})
		if err != nil {
			t.Fatalf("GeneratePair() error = %v", err)
		}

		for name, header := range map[string]string{
			"absent":    "",
			"garbage":   "Bearer garbage",
			"malformed": "NotBearer x",
			"expired":   "Bearer " + expiredPair.AccessToken,
		} {
			w := doRequest(router, header)
			if w.Code != http.StatusOK {
				t.Errorf("%s: status = %d, want %d", name, w.Code, http.StatusOK)
			}
			if body := w.Body.String(); strings.Contains(body, "user-1") {
				t.Errorf("%s: identity attached from a bad token", name)
			}
		}
	})
}
