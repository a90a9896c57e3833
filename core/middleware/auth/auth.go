package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// User is the already-verified identity handed to the application by the
// external identity provider. It is never constructed from raw credentials
// inside this codebase.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	PhotoURL  *string   `json:"photoURL,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Verifier resolves a bearer token into a verified user identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// Config holds configuration for the auth middleware.
type Config struct {
	// Verifier resolves tokens. Nil disables verification entirely.
	Verifier Verifier
	// Logger reports verification failures. Failures never reject the
	// request; the request just proceeds unauthenticated.
	Logger *zap.Logger
}

const localsKey = "auth_user"

// New returns a middleware that attaches the verified identity to the request.
// Requests without a token, or with one the verifier rejects, continue
// unauthenticated; individual operations enforce their own identity needs.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Verifier == nil {
			return c.Next()
		}

		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if token == "" {
			return c.Next()
		}

		user, err := cfg.Verifier.Verify(c.UserContext(), token)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Token verification failed", zap.Error(err))
			}
			return c.Next()
		}

		c.Locals(localsKey, user)
		return c.Next()
	}
}

// FromContext returns the verified user attached to the request, if any.
func FromContext(c *fiber.Ctx) (*User, bool) {
	u, ok := c.Locals(localsKey).(*User)
	return u, ok && u != nil
}
