package promptchain

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
)

// Handler exposes /api/prompt-chain.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler constructs the prompt chain HTTP handler.
func NewHandler(svc *Service, validate *validator.Validate) *Handler {
	return &Handler{svc: svc, validate: validate}
}

type createRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Prompts     json.RawMessage `json:"prompts" validate:"required"`
}

type updateRequest struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Prompts     json.RawMessage `json:"prompts"`
	IsActive    *bool           `json:"isActive"`
}

// Get handles GET /api/prompt-chain[?name=].
func (h *Handler) Get(c *fiber.Ctx) error {
	if name := c.Query("name"); name != "" {
		pc, err := h.svc.GetByName(c.UserContext(), name)
		if errors.Is(err, ErrNotFound) {
			return c.JSON(fiber.Map{"promptChains": nil})
		}
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"promptChains": pc})
	}
	list, err := h.svc.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"promptChains": list})
}

// Create handles POST /api/prompt-chain. ADMIN only.
func (h *Handler) Create(c *fiber.Ctx) error {
	p, err := admin(c)
	if err != nil {
		return err
	}
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "name and prompts are required")
	}
	pc, err := h.svc.Create(c.UserContext(), p.User.ID, req.Name, req.Description, req.Prompts)
	if err != nil {
		return writeError(err)
	}
	return c.JSON(fiber.Map{"promptChain": pc})
}

// Update handles PUT /api/prompt-chain. ADMIN only.
func (h *Handler) Update(c *fiber.Ctx) error {
	p, err := admin(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "id is required")
	}

	patch := Patch{IsActive: req.IsActive}
	if req.Name != "" {
		patch.Name = &req.Name
	}
	if req.Description != "" {
		patch.Description = &req.Description
	}
	if len(req.Prompts) > 0 && string(req.Prompts) != "null" {
		patch.Prompts = req.Prompts
	}
	pc, err := h.svc.Update(c.UserContext(), p.User.ID, req.ID, patch)
	if err != nil {
		return writeError(err)
	}
	return c.JSON(fiber.Map{"promptChain": pc})
}

func admin(c *fiber.Ctx) (auth.Principal, error) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return auth.Principal{}, fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	if !p.IsAdmin() {
		return auth.Principal{}, fiber.NewError(http.StatusForbidden, "Insufficient permissions")
	}
	return p, nil
}

func writeError(err error) error {
	switch {
	case errors.Is(err, ErrInvalid):
		return fiber.NewError(http.StatusBadRequest, "name and prompts are required")
	case errors.Is(err, ErrPromptsNotArray):
		return fiber.NewError(http.StatusBadRequest, "prompts must be an array")
	case errors.Is(err, ErrNameTaken):
		return fiber.NewError(http.StatusConflict, "Prompt chain name already exists")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Prompt chain not found")
	default:
		return err
	}
}
