package auth

import "github.com/golang-jwt/jwt/v5"

// TokenPayload captures the data available when minting a token.
type TokenPayload struct {
	UserID   uint
	Username string
	Roles    []string
	JTI      string
}

// Claims is the typed JWT issued to clients. Role holds the first granted
// role for callers that predate the multi-role list.
type Claims struct {
	UserID   uint     `json:"user_id"`
	Username string   `json:"username"`
	Role     string   `json:"role,omitempty"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}
