package account

import (
	"context"

	"library-rental/feature/account/models"
)

type userKey struct{}

// WithUser attaches the authenticated user record to the context for
// downstream resolvers.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the authenticated user record, if any.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey{}).(*models.User)
	return u, ok && u != nil
}
