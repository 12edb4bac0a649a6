package classifier

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
)

// Handler exposes POST /api/llm.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler constructs the classification HTTP handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type analyzeRequest struct {
	Message string `json:"message"`
}

// Analyze handles POST /api/llm.
func (h *Handler) Analyze(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return fiber.NewError(http.StatusBadRequest, "message is required")
	}

	report, err := h.svc.Analyze(c.UserContext(), p.User.Email, req.Message)
	switch {
	case errors.Is(err, ErrUnavailable):
		return fiber.NewError(http.StatusServiceUnavailable, "Classification service unavailable")
	case err != nil:
		h.logger.Error("classifier.failed", slog.Int64("user_id", p.User.ID), slog.Any("error", err))
		return fiber.NewError(http.StatusBadGateway, "Classification failed")
	}

	body := fiber.Map{"response": report.Markdown()}
	if report.Structured {
		body["report"] = report
	}
	return c.JSON(body)
}
