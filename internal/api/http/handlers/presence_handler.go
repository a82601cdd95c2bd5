package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-presence/internal/api/dto"
	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/service"
)

// PresenceHandler exposes roster status endpoints.
type PresenceHandler struct {
	presenceService *service.PresenceService
}

// NewPresenceHandler constructs handler.
func NewPresenceHandler(presenceService *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// Dashboard handles GET /presence/dashboard.
func (h *PresenceHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.presenceService.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboardResponse(dash)})
}

// Search handles GET /presence/search?date=YYYY-MM-DD&q=term.
func (h *PresenceHandler) Search(c *fiber.Ctx) error {
	report, err := h.presenceService.Search(c.UserContext(), c.Query("date"), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPresenceResponse(report)})
}

// Sync handles POST /admin/sync.
func (h *PresenceHandler) Sync(c *fiber.Ctx) error {
	dash, err := h.presenceService.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": dashboardResponse(dash)})
}

func dashboardResponse(dash service.Dashboard) dto.PresenceResponse {
	return dto.PresenceResponse{
		Date:  dateutil.Format(dash.Date),
		Total: dash.Total,
		Out:   dash.Out,
		In:    dash.In,
		Staff: dto.NewPresenceRows(dash.Rows),
	}
}
