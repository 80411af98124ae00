package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/osegura/ventapos-backend/api/responses"
	pkgAuth "github.com/osegura/ventapos-backend/pkg/auth"
	"github.com/osegura/ventapos-backend/pkg/config"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
	"github.com/osegura/ventapos-backend/pkg/logger"
)

// ResolverFactory builds a per-request role resolver for the subject. A new
// resolver is created for every authenticated request; it is never shared.
type ResolverFactory func(userID uint) RoleResolver

// Auth validates a bearer token and seeds the request context with the
// subject and a fresh role resolver. A missing credential is distinguished
// from an invalid or expired one.
func Auth(cfg config.JWTConfig, newResolver ResolverFactory, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}

			claims, err := pkgAuth.VerifyAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if claims.UserID == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeTokenInvalid, "token missing subject"))
				return
			}

			var resolver RoleResolver
			if newResolver != nil {
				resolver = newResolver(claims.UserID)
			}
			ctx := WithSubject(r.Context(), claims.UserID, claims.Username, resolver)

			if logg != nil {
				ctx = logg.WithUserID(ctx, strconv.FormatUint(uint64(claims.UserID), 10))
				ctx = logg.WithUsername(ctx, claims.Username)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
