package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-presence/internal/api/dto"
	"github.com/spec-kit/staff-presence/internal/service"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// StaffHandler exposes staff administration endpoints.
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// List handles GET /admin/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	admin, err := principal(c)
	if err != nil {
		return err
	}
	staff, err := h.staffService.ListStaff(c.UserContext(), admin)
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(staff))
	for _, s := range staff {
		resp = append(resp, dto.NewStaffResponse(s))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create handles POST /admin/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	admin, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, err := h.staffService.CreateStaffMember(c.UserContext(), admin, staffInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

// Update handles PUT /admin/staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	admin, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, err := h.staffService.UpdateStaffMember(c.UserContext(), admin, c.Params("id"), staffInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

// Delete handles DELETE /admin/staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	admin, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.staffService.DeleteStaffMember(c.UserContext(), admin, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func staffInput(req dto.StaffRequest) service.StaffInput {
	return service.StaffInput{
		Name:     req.Name,
		Position: req.Position,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	}
}
