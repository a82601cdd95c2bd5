package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-presence/internal/api/dto"
	"github.com/spec-kit/staff-presence/internal/service"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// MovementHandler exposes movement endpoints.
type MovementHandler struct {
	movementService *service.MovementService
}

// NewMovementHandler constructs handler.
func NewMovementHandler(movementService *service.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

// Create handles POST /movements.
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	movement, err := h.movementService.CreateMovement(c.UserContext(), caller, service.MovementInput{
		DateOut:    req.DateOut,
		DateReturn: req.DateReturn,
		TimeOut:    req.TimeOut,
		TimeReturn: req.TimeReturn,
		Location:   req.Location,
		State:      req.State,
		Purpose:    req.Purpose,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMovementResponse(movement)})
}

// Mine handles GET /movements/me.
func (h *MovementHandler) Mine(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	views, err := h.movementService.MyMovements(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": viewResponses(views)})
}

// All handles GET /admin/movements.
func (h *MovementHandler) All(c *fiber.Ctx) error {
	admin, err := principal(c)
	if err != nil {
		return err
	}
	views, err := h.movementService.AllMovements(c.UserContext(), admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": viewResponses(views)})
}

// Delete handles DELETE /admin/movements/:id.
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	admin, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.movementService.DeleteMovement(c.UserContext(), admin, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func viewResponses(views []service.MovementView) []dto.MovementResponse {
	resp := make([]dto.MovementResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, dto.NewMovementViewResponse(v))
	}
	return resp
}
