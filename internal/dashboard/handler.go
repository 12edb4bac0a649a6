package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
)

// Handler exposes /api/dashboard-data.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(svc *Service, validate *validator.Validate) *Handler {
	return &Handler{svc: svc, validate: validate}
}

type saveRequest struct {
	DataType string          `json:"dataType" validate:"required"`
	Data     json.RawMessage `json:"data" validate:"required"`
}

// Get handles GET /api/dashboard-data[?dataType=].
func (h *Handler) Get(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	if dataType := c.Query("dataType"); dataType != "" {
		d, err := h.svc.Get(c.UserContext(), p.User.ID, dataType)
		if errors.Is(err, ErrNotFound) {
			return c.JSON(fiber.Map{"dashboardData": nil})
		}
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"dashboardData": d})
	}
	list, err := h.svc.List(c.UserContext(), p.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"dashboardData": list})
}

// Save handles POST /api/dashboard-data.
func (h *Handler) Save(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "dataType and data are required")
	}
	d, err := h.svc.Save(c.UserContext(), p.User.ID, req.DataType, req.Data)
	if errors.Is(err, ErrInvalid) {
		return fiber.NewError(http.StatusBadRequest, "dataType and data are required")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"dashboardData": d})
}

// Delete handles DELETE /api/dashboard-data?dataType=.
func (h *Handler) Delete(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	dataType := c.Query("dataType")
	if dataType == "" {
		return fiber.NewError(http.StatusBadRequest, "dataType is required")
	}
	err := h.svc.Delete(c.UserContext(), p.User.ID, dataType)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "Dashboard data not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
