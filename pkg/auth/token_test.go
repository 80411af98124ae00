package auth

import (
	"testing"
	"time"

	"github.com/osegura/ventapos-backend/pkg/config"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "ventapos-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndVerifyRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), TokenPayload{
		UserID:   42,
		Username: "marisol",
		Roles:    []string{"vendedor", "almacen"},
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := VerifyAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "marisol" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.Role != "vendedor" {
		t.Fatalf("expected primary role to be first granted role, got %q", claims.Role)
	}
	if len(claims.Roles) != 2 || claims.Roles[1] != "almacen" {
		t.Fatalf("unexpected role list: %v", claims.Roles)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestVerifyExpiredTokenIsExpiredNotInvalid(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), TokenPayload{
		UserID:   7,
		Username: "caja1",
		Roles:    []string{"vendedor"},
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = VerifyAccessToken(cfg, token)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeTokenExpired {
		t.Fatalf("expected TOKEN_EXPIRED, got %s", typed.Code())
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), TokenPayload{
		UserID:   7,
		Username: "caja1",
		Roles:    []string{"vendedor"},
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "a-different-secret"
	_, err = VerifyAccessToken(other, token)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeTokenInvalid {
		t.Fatalf("expected TOKEN_INVALID, got %v", err)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	_, err := VerifyAccessToken(testJWTConfig(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeTokenMissing {
		t.Fatalf("expected TOKEN_NOT_PROVIDED, got %v", err)
	}
}

func TestMintRequiresConfig(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, time.Now(), TokenPayload{UserID: 1, Roles: []string{"admin"}}); err == nil {
		t.Fatal("expected error for missing secret")
	}

	cfg = testJWTConfig()
	if _, err := MintAccessToken(cfg, time.Now(), TokenPayload{Username: "noid"}); err == nil {
		t.Fatal("expected error for missing user id")
	}
}
