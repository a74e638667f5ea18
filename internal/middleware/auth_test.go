package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Ocelots/config"
	"github.com/lshigami/Ocelots/internal/auth"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.JWTIssuer = "test-issuer"
	return cfg
}

func testRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatUint(uint64(CurrentUserID(c)), 10))
	})
	r.GET("/admin", AuthRequired(cfg), InstructorOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func signToken(t *testing.T, cfg *config.Config, userID uint, role string) string {
	t.Helper()
	token, err := auth.NewAccessToken(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, time.Hour, auth.Claims{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	r := testRouter(testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredRejectsInvalidToken(t *testing.T) {
	r := testRouter(testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredRejectsTokenFromOtherSecret(t *testing.T) {
	cfg := testConfig()
	other := testConfig()
	other.Auth.JWTSecret = "different-secret"
	r := testRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, other, 7, "student"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredAcceptsBearerHeader(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, 7, "student"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "7" {
		t.Fatalf("body = %q, want the authenticated user id", w.Body.String())
	}
}

func TestAuthRequiredAcceptsSessionCookie(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: signToken(t, cfg, 9, "student")})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "9" {
		t.Fatalf("body = %q, want the authenticated user id", w.Body.String())
	}
}

func TestInstructorOnly(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, 7, "student"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student on admin route: status = %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, 7, "instructor"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("instructor on admin route: status = %d, want 200", w.Code)
	}
}
