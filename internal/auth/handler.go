package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/d0ughnat/Fruad-detection/internal/identity"
)

// Handler exposes the /api/auth endpoints.
type Handler struct {
	svc      *Service
	cookie   CookieConfig
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(svc *Service, cookie CookieConfig, validate *validator.Validate, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, cookie: cookie, validate: validate, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

const messagePasswordTooLong = "Password must be at most 72 bytes long"

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type sessionResponse struct {
	Success bool          `json:"success"`
	User    identity.User `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Email and password are required")
	}

	res, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrAccountDisabled):
		return fiber.NewError(http.StatusUnauthorized, "Account is deactivated")
	case err != nil:
		h.logger.Error("auth.login.failed", slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "Login failed")
	}

	h.cookie.set(c, res.Token)
	return c.Status(http.StatusOK).JSON(sessionResponse{Success: true, User: res.User})
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, registerValidationMessage(err))
	}

	res, err := h.svc.Register(c.UserContext(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, ErrEmailTaken):
		return fiber.NewError(http.StatusBadRequest, "Email already exists")
	case errors.Is(err, ErrPasswordTooShort):
		return fiber.NewError(http.StatusBadRequest, "Password must be at least 6 characters long")
	case errors.Is(err, ErrPasswordTooLong):
		return fiber.NewError(http.StatusBadRequest, messagePasswordTooLong)
	case errors.Is(err, ErrMissingFields):
		return fiber.NewError(http.StatusBadRequest, "Name, email, and password are required")
	case err != nil:
		h.logger.Error("auth.register.failed", slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "Registration failed")
	}

	h.cookie.set(c, res.Token)
	return c.Status(http.StatusOK).JSON(sessionResponse{Success: true, User: res.User})
}

// Logout handles POST /api/auth/logout. It always answers 200 and clears the
// cookie, whether or not a session existed.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.svc.Logout(c.UserContext(), TokenFrom(c)); err != nil {
		h.logger.Error("auth.logout.failed", slog.Any("error", err))
	}
	h.cookie.clear(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// Me handles GET /api/auth/me behind the session middleware.
func (h *Handler) Me(c *fiber.Ctx) error {
	p, ok := PrincipalFrom(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(fiber.Map{"user": p.User, "expiresAt": p.ExpiresAt})
}

func registerValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return "Name, email, and password are required"
			}
		}
		return "Password must be at least 6 characters long"
	}
	return "Name, email, and password are required"
}
