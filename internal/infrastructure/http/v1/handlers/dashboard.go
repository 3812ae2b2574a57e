package handlers

import (
	"github.com/gin-gonic/gin"

	"repairdesk/internal/domain/dashboard"
)

// DashboardHandler serves the landing view.
type DashboardHandler struct {
	*BaseHandler
	service *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, service: service}
}

// Summary handles GET /dashboard?range=today|week|month.
func (h *DashboardHandler) Summary(c *gin.Context) {
	r, ok := h.ParseRange(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}
