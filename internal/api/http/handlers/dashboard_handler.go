package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/auth"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/internal/view"
	"github.com/spec-kit/servicedesk/pkg/util"
)

// DashboardHandler serves the ticket-list-plus-stats view.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService}
}

// Overview GET /dashboard?search=&status=&priority=.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	criteria := view.Criteria{
		SearchTerm: c.Query("search"),
		Status:     c.Query("status", view.FilterAll),
		Priority:   c.Query("priority", view.FilterAll),
	}

	tickets, stats, err := h.dashboard.Overview(c.Context(), user.ID, criteria)
	if err != nil {
		return err
	}

	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Stats:   statsResponse(stats),
		Tickets: items,
	}})
}

// Stats GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	stats, err := h.dashboard.Stats(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

func statsResponse(stats view.Stats) dto.StatsResponse {
	return dto.StatsResponse{
		Total: stats.Total,
		Buckets: []dto.StatsBucket{
			{Name: "Open", Value: stats.Open, Percent: stats.Percent(stats.Open)},
			{Name: "In Progress", Value: stats.InProgress, Percent: stats.Percent(stats.InProgress)},
			{Name: "Resolved", Value: stats.Resolved, Percent: stats.Percent(stats.Resolved)},
		},
	}
}
