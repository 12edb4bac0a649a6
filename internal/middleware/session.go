package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
	"github.com/d0ughnat/Fruad-detection/internal/identity"
)

// SessionValidator is the authoritative check behind RequireSession.
type SessionValidator interface {
	Validate(ctx context.Context, tok string) (auth.Principal, error)
}

// RequireSession runs the authority validator on the session cookie and
// stores the principal for downstream handlers. Every denial reason collapses
// to the same 401 body.
func RequireSession(v SessionValidator, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := v.Validate(c.UserContext(), auth.TokenFrom(c))
		if err != nil {
			logger.Debug("session.denied", slog.String("path", c.Path()), slog.Any("error", err))
			return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
		}
		auth.SetPrincipal(c, p)
		return c.Next()
	}
}

// RequireRole allows only principals holding role. It must run after
// RequireSession.
func RequireRole(role identity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
		}
		if p.User.Role != role {
			return fiber.NewError(http.StatusForbidden, "Insufficient permissions")
		}
		return c.Next()
	}
}
