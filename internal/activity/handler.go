package activity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
)

// Handler exposes /api/activity.
type Handler struct {
	svc *Service
}

// NewHandler constructs the activity HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata"`
}

// List handles GET /api/activity?limit=&offset=.
func (h *Handler) List(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	items, err := h.svc.List(c.UserContext(), p.User.ID, c.QueryInt("limit", defaultLimit), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activities": items})
}

// Create handles POST /api/activity.
func (h *Handler) Create(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	var metadata any
	if len(req.Metadata) > 0 && string(req.Metadata) != "null" {
		metadata = req.Metadata
	}
	a, err := h.svc.Record(c.UserContext(), p.User.ID, req.Action, req.Description, metadata)
	if errors.Is(err, ErrActionRequired) {
		return fiber.NewError(http.StatusBadRequest, "action is required")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activity": a})
}
