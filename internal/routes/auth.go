package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
)

// RegisterAuthRoutes wires authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, requireSession fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/login", h.Login)
	group.Post("/register", h.Register)
	group.Post("/logout", h.Logout)
	group.Get("/me", requireSession, h.Me)
}
