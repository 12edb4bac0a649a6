package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
	"github.com/d0ughnat/Fruad-detection/internal/gate"
	"github.com/d0ughnat/Fruad-detection/internal/token"
)

// Gate applies the routing policy before any handler runs. It never touches
// the session store; handlers behind it still call RequireSession.
func Gate(policy gate.Policy, v gate.Validator, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := auth.TokenFrom(c)
		d := policy.Decide(c.Path(), tok, v)

		if d.Action != gate.Forward || d.Reason != "" {
			attrs := []any{
				slog.String("path", c.Path()),
				slog.String("route", d.Route.String()),
				slog.String("location", d.Location),
				slog.String("reason", d.Reason),
			}
			if tok != "" {
				attrs = append(attrs, slog.String("token", token.Fingerprint(tok)))
			}
			logger.Debug("gate.decision", attrs...)
		}

		switch d.Action {
		case gate.Reject:
			return c.Status(d.Status).JSON(fiber.Map{"error": d.Message})
		case gate.Redirect:
			return c.Redirect(d.Location, d.Status)
		default:
			return c.Next()
		}
	}
}
