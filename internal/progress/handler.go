package progress

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
)

// Handler exposes /api/progress.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler constructs the progress HTTP handler.
func NewHandler(svc *Service, validate *validator.Validate) *Handler {
	return &Handler{svc: svc, validate: validate}
}

type upsertRequest struct {
	TaskType   string          `json:"taskType" validate:"required"`
	TaskID     string          `json:"taskId" validate:"required"`
	Status     string          `json:"status"`
	Percentage *int            `json:"percentage" validate:"omitempty,min=0,max=100"`
	Metadata   json.RawMessage `json:"metadata"`
}

// Get handles GET /api/progress. With taskType and taskId it returns one
// record (or null); otherwise all of the caller's records.
func (h *Handler) Get(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	taskType, taskID := c.Query("taskType"), c.Query("taskId")
	if taskType != "" && taskID != "" {
		rec, err := h.svc.Get(c.UserContext(), p.User.ID, taskType, taskID)
		if errors.Is(err, ErrNotFound) {
			return c.JSON(fiber.Map{"progress": nil})
		}
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"progress": rec})
	}
	list, err := h.svc.List(c.UserContext(), p.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"progress": list})
}

// Upsert handles POST /api/progress.
func (h *Handler) Upsert(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	var req upsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Percentage" {
			return fiber.NewError(http.StatusBadRequest, "percentage must be between 0 and 100")
		}
		return fiber.NewError(http.StatusBadRequest, "taskType and taskId are required")
	}

	u := Update{TaskType: req.TaskType, TaskID: req.TaskID, Percentage: req.Percentage}
	if req.Status != "" {
		u.Status = &req.Status
	}
	if len(req.Metadata) > 0 && string(req.Metadata) != "null" {
		u.Metadata = req.Metadata
	}
	rec, err := h.svc.Upsert(c.UserContext(), p.User.ID, u)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"progress": rec})
}
