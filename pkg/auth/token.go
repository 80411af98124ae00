package auth

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/osegura/ventapos-backend/pkg/config"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintAccessToken issues a signed JWT for the provided payload using the
// configured TTL. Pure computation; the store is never consulted.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	if payload.UserID == 0 {
		return "", fmt.Errorf("user id is required")
	}

	issuedAt := jwt.NewNumericDate(now)
	expiry := jwt.NewNumericDate(now.Add(cfg.TTL()))

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	primary := ""
	if len(payload.Roles) > 0 {
		primary = payload.Roles[0]
	}

	claims := Claims{
		UserID:   payload.UserID,
		Username: payload.Username,
		Role:     primary,
		Roles:    append([]string(nil), payload.Roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  issuedAt,
			ExpiresAt: expiry,
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates the token string and returns the decoded
// claims unchanged. It distinguishes a missing token, an expired one, and
// every other signature or structural mismatch.
func VerifyAccessToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeTokenMissing, "token not provided")
	}
	if cfg.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		if stdErrors.Is(err, jwt.ErrTokenExpired) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeTokenExpired, err, "token expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeTokenInvalid, err, "token invalid")
	}

	return claims, nil
}
