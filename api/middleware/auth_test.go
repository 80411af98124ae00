package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/osegura/ventapos-backend/pkg/auth"
	"github.com/osegura/ventapos-backend/pkg/config"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
	"github.com/osegura/ventapos-backend/pkg/types"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "ventapos",
	ExpirationMinutes: 15,
}

type staticResolver struct {
	names []string
}

func (s *staticResolver) Roles(ctx context.Context) ([]string, error) {
	return s.names, nil
}

func (s *staticResolver) HasAny(ctx context.Context, required ...string) (bool, error) {
	for _, want := range required {
		for _, have := range s.names {
			if want == have {
				return true, nil
			}
		}
	}
	return false, nil
}

func mintToken(t *testing.T, cfg config.JWTConfig, now time.Time) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, now, pkgAuth.TokenPayload{
		UserID:   42,
		Username: "osegura",
		Roles:    []string{"vendedor"},
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var payload types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return payload
}

func TestAuthSeedsSubjectContext(t *testing.T) {
	resolver := &staticResolver{names: []string{"vendedor"}}
	var factoryUserID uint
	handler := Auth(testJWTConfig, func(userID uint) RoleResolver {
		factoryUserID = userID
		return resolver
	}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := UserIDFromContext(r.Context()); got != 42 {
			t.Fatalf("expected user id 42 in context, got %d", got)
		}
		if got := UsernameFromContext(r.Context()); got != "osegura" {
			t.Fatalf("expected username in context, got %q", got)
		}
		if RoleResolverFromContext(r.Context()) != resolver {
			t.Fatal("expected request-scoped resolver in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/7", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testJWTConfig, time.Now()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if factoryUserID != 42 {
		t.Fatalf("resolver built for wrong subject: %d", factoryUserID)
	}
}

func TestAuthMissingTokenIs401(t *testing.T) {
	handler := Auth(testJWTConfig, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/7", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if payload := decodeError(t, rec); payload.Code != string(pkgerrors.CodeTokenMissing) {
		t.Fatalf("expected TOKEN_NOT_PROVIDED, got %s", payload.Code)
	}
}

func TestAuthExpiredTokenIs403(t *testing.T) {
	handler := Auth(testJWTConfig, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	}))

	expired := mintToken(t, testJWTConfig, time.Now().Add(-2*time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/api/orders/7", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if payload := decodeError(t, rec); payload.Code != string(pkgerrors.CodeTokenExpired) {
		t.Fatalf("expected TOKEN_EXPIRED, got %s", payload.Code)
	}
}

func TestAuthTamperedTokenIs403(t *testing.T) {
	otherCfg := testJWTConfig
	otherCfg.Secret = "other-secret"
	handler := Auth(testJWTConfig, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/7", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, otherCfg, time.Now()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if payload := decodeError(t, rec); payload.Code != string(pkgerrors.CodeTokenInvalid) {
		t.Fatalf("expected TOKEN_INVALID, got %s", payload.Code)
	}
}
