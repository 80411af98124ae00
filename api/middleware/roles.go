package middleware

import (
	"net/http"

	"github.com/osegura/ventapos-backend/api/responses"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
	"github.com/osegura/ventapos-backend/pkg/logger"
)

// RequireRoles guards an operation behind a role set with "any of"
// semantics: holding one of the allowed roles is enough. The operation text
// names what was attempted and is echoed back on denial.
func RequireRoles(logg *logger.Logger, operation string, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := UserIDFromContext(ctx)
			resolver := RoleResolverFromContext(ctx)
			if userID == 0 || resolver == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			ok, err := resolver.HasAny(ctx, allowed...)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve roles"))
				return
			}
			if !ok {
				denial := pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions").
					WithDetails(map[string]any{
						"requiredRoles": allowed,
						"subjectName":   UsernameFromContext(ctx),
						"operation":      operation,
					})
				responses.WriteError(ctx, logg, w, denial)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
