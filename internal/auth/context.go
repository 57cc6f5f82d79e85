package auth

import (
	"context"

	"github.com/vietnoy/pantry/internal/domain"
)

type contextKey struct{}

// AuthContext carries the resolved identity and active membership for a
// request. GroupID and Role are zero-valued when the user has no active
// membership; handlers that need a group check HasGroup.
type AuthContext struct {
	UserID   int64
	GroupID  int64
	Role     domain.Role
	HasGroup bool
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// RequireGroup returns the caller's active group, or the client error every
// group-scoped operation reports when the user is in no group.
func RequireGroup(ctx context.Context) (AuthContext, *domain.Error) {
	ac, ok := FromContext(ctx)
	if !ok {
		return AuthContext{}, domain.NotAuthenticated("not authenticated")
	}
	if !ac.HasGroup {
		return AuthContext{}, domain.Invalid("user is not in any group")
	}
	return ac, nil
}
