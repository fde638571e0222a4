package httpkit

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homefinder_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type testJWTConfig struct{ secret string }

func (c testJWTConfig) GetJWTAccessSecret() string { return c.secret }

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newProtectedEngine(cfg testJWTConfig, roles ...string) *gin.Engine {
	engine := gin.New()
	group := engine.Group("/", AuthRequired(cfg))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		id := GetIdentity(c)
		if !id.IsAuthenticated() {
			OK(c, gin.H{"anonymous": true})
			return
		}
		OK(c, gin.H{"id": id.UserID().String()})
	})
	return engine
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	engine := newProtectedEngine(testJWTConfig{secret: testSecret}, "admin")
	userID := uuid.New()
	token := signToken(t, jwt.MapClaims{
		"sub":   userID.String(),
		"roles": []string{"admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredRejectsMissingAndExpiredTokens(t *testing.T) {
	engine := newProtectedEngine(testJWTConfig{secret: testSecret})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	expired := signToken(t, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsMissingRole(t *testing.T) {
	engine := newProtectedEngine(testJWTConfig{secret: testSecret}, "admin")
	token := signToken(t, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": "agent",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	engine := newProtectedEngine(testJWTConfig{}, "admin")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with verification disabled, got %d", rec.Code)
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: apperr.NotFound("missing"), want: http.StatusNotFound},
		{name: "wrapped conflict", err: fmt.Errorf("create: %w", apperr.Conflict("dup")), want: http.StatusConflict},
		{name: "validation", err: apperr.Validation("bad"), want: http.StatusBadRequest},
		{name: "untyped", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		if !HandleError(c, tc.err) {
			t.Fatalf("%s: expected error to be handled", tc.name)
		}
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}
