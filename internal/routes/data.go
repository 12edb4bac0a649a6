package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/activity"
	"github.com/d0ughnat/Fruad-detection/internal/classifier"
	"github.com/d0ughnat/Fruad-detection/internal/dashboard"
	"github.com/d0ughnat/Fruad-detection/internal/identity"
	"github.com/d0ughnat/Fruad-detection/internal/middleware"
	"github.com/d0ughnat/Fruad-detection/internal/progress"
	"github.com/d0ughnat/Fruad-detection/internal/promptchain"
)

// Guards holds the handlers placed in front of data routes.
type Guards struct {
	Session     fiber.Handler
	Idempotency fiber.Handler
}

func (g Guards) read(h fiber.Handler) []fiber.Handler {
	return []fiber.Handler{g.Session, h}
}

// write orders session check, extra checks, idempotency, then the handler,
// so rejected callers never reserve an idempotency key.
func (g Guards) write(h fiber.Handler, extra ...fiber.Handler) []fiber.Handler {
	out := append([]fiber.Handler{g.Session}, extra...)
	if g.Idempotency != nil {
		out = append(out, g.Idempotency)
	}
	return append(out, h)
}

// RegisterActivityRoutes wires /activity.
func RegisterActivityRoutes(r fiber.Router, h *activity.Handler, g Guards) {
	r.Get("/activity", g.read(h.List)...)
	r.Post("/activity", g.write(h.Create)...)
}

// RegisterProgressRoutes wires /progress.
func RegisterProgressRoutes(r fiber.Router, h *progress.Handler, g Guards) {
	r.Get("/progress", g.read(h.Get)...)
	r.Post("/progress", g.write(h.Upsert)...)
}

// RegisterDashboardRoutes wires /dashboard-data.
func RegisterDashboardRoutes(r fiber.Router, h *dashboard.Handler, g Guards) {
	r.Get("/dashboard-data", g.read(h.Get)...)
	r.Post("/dashboard-data", g.write(h.Save)...)
	r.Delete("/dashboard-data", g.write(h.Delete)...)
}

// RegisterPromptChainRoutes wires /prompt-chain. Writes are ADMIN only.
func RegisterPromptChainRoutes(r fiber.Router, h *promptchain.Handler, g Guards) {
	adminOnly := middleware.RequireRole(identity.RoleAdmin)
	r.Get("/prompt-chain", g.read(h.Get)...)
	r.Post("/prompt-chain", g.write(h.Create, adminOnly)...)
	r.Put("/prompt-chain", g.write(h.Update, adminOnly)...)
}

// RegisterClassifierRoutes wires /llm.
func RegisterClassifierRoutes(r fiber.Router, h *classifier.Handler, g Guards) {
	r.Post("/llm", g.write(h.Analyze)...)
}
