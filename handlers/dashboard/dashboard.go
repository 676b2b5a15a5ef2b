package dashboard

import (
	"github.com/Tanveersultana125/co-teacher-backend/services"
	"github.com/Tanveersultana125/co-teacher-backend/utils/middleware"
	"github.com/Tanveersultana125/co-teacher-backend/utils/response"
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the teacher home screen.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats handles GET /api/v1/dashboard/stats. It always answers 200;
// counts that cannot be computed come back as defaults.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Success(c, services.DefaultDashboardStats())
	}
	return response.Success(c, h.dashboard.Stats(c.UserContext(), teacherID))
}
