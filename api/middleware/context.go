package middleware

import "context"

// RoleResolver answers role questions for one authenticated subject. The
// value placed in a request context is owned by that request alone; it
// memoizes the subject's role set so stacked guards query the store once.
type RoleResolver interface {
	Roles(ctx context.Context) ([]string, error)
	HasAny(ctx context.Context, required ...string) (bool, error)
}

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxUsername contextKey = "username"
	ctxRoles    contextKey = "role_resolver"
)

func UserIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(uint); ok {
		return v
	}
	return 0
}

func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func RoleResolverFromContext(ctx context.Context) RoleResolver {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxRoles).(RoleResolver); ok {
		return v
	}
	return nil
}

// WithSubject injects the authenticated subject into the context.
func WithSubject(ctx context.Context, userID uint, username string, resolver RoleResolver) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxUsername, username)
	if resolver != nil {
		ctx = context.WithValue(ctx, ctxRoles, resolver)
	}
	return ctx
}
