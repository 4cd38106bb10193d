package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prospectmap_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type jwtConfig struct{ secret string }

func (c jwtConfig) GetJWTAccessSecret() string { return c.secret }

func signToken(t *testing.T, secret, tokenType string, userID uuid.UUID, roles []string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  tokenType,
		"roles": roles,
		"exp":   time.Now().Add(time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/probe", handlers...)
	return engine
}

func TestAuthRequiredSetsIdentity(t *testing.T) {
	userID := uuid.New()
	cfg := jwtConfig{secret: "s3cret"}

	var seen Identity
	engine := newEngine(AuthRequired(cfg), func(c *gin.Context) {
		seen = MustGetIdentity(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.secret, "access", userID, []string{"admin"}))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.UserID() != userID || !seen.IsAdmin() {
		t.Fatalf("unexpected identity: %+v", seen)
	}
}

func TestAuthRequiredRejectsRefreshTokens(t *testing.T) {
	cfg := jwtConfig{secret: "s3cret"}
	engine := newEngine(AuthRequired(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/probe?token="+signToken(t, cfg.secret, "refresh", uuid.New(), nil), nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	engine := newEngine(func(c *gin.Context) {
		c.Set(ContextUserIDKey, uuid.New())
		c.Set(ContextRolesKey, []string{"commercial"})
	}, RequireRole(RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("commerce introuvable"), http.StatusNotFound},
		{apperr.MissingFields([]string{"name"}), http.StatusBadRequest},
		{apperr.LoadFailed("list", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		engine := newEngine(func(c *gin.Context) { HandleError(c, tc.err) })
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
		if rec.Code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestKeyedRateLimiter(t *testing.T) {
	limiter := NewKeyedRateLimiter(rate.Limit(0.001), 2, nil)
	if !limiter.Allow("a") || !limiter.Allow("a") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if limiter.Allow("a") {
		t.Fatal("expected third call to be limited")
	}
	if !limiter.Allow("b") {
		t.Fatal("expected separate bucket per key")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	engine := newEngine(RequestID(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", rec.Header().Get(HeaderRequestID))
	}
}
