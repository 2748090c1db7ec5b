package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"barter-auth/internal/domain"
	"barter-auth/internal/service"
)

func setupProtectedRouter(sessions SessionParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(sessions), func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if !ok || claims.AccountID != "u1" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestJWTAuthMiddleware_AllowsValidSessionToken(t *testing.T) {
	tokens := service.NewTokenService("secret", "verify-secret", 15*time.Minute, time.Hour, "test")
	token, err := tokens.IssueSessionToken(domain.Account{ID: "u1", LoginName: "user", Email: "user@example.com"})
	if err != nil {
		t.Fatalf("issue session token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	setupProtectedRouter(tokens).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestJWTAuthMiddleware_RejectsMissingToken(t *testing.T) {
	tokens := service.NewTokenService("secret", "verify-secret", 15*time.Minute, time.Hour, "test")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	setupProtectedRouter(tokens).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthMiddleware_RejectsVerificationToken(t *testing.T) {
	tokens := service.NewTokenService("secret", "secret", 15*time.Minute, time.Hour, "test")
	token, err := tokens.IssueVerificationToken("u1")
	if err != nil {
		t.Fatalf("issue verification token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	setupProtectedRouter(tokens).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthMiddleware_NotConfigured(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	setupProtectedRouter(nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
