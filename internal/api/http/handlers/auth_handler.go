package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-presence/internal/api/dto"
	"github.com/spec-kit/staff-presence/internal/auth"
	"github.com/spec-kit/staff-presence/internal/service"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// AuthHandler exposes login.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	staff, token, meta, err := h.authService.LoginStaff(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"staff": dto.NewStaffResponse(staff),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: meta.ExpiresAt},
		},
	})
}

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}
