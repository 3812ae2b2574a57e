package handlers

import (
	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// TechnicianHandler handles HTTP requests for technicians.
type TechnicianHandler struct {
	*BaseHandler
	service *technicians.Service
}

// NewTechnicianHandler creates a new technician handler.
func NewTechnicianHandler(base *BaseHandler, service *technicians.Service) *TechnicianHandler {
	return &TechnicianHandler{BaseHandler: base, service: service}
}

// List handles GET /technicians?view=active|all.
func (h *TechnicianHandler) List(c *gin.Context) {
	view, ok := technicians.ParseView(c.Query("view"))
	if !ok {
		h.Error(c, apperror.NewInvalidInput("view", c.Query("view")))
		return
	}
	result, err := h.service.List(c.Request.Context(), view)
	if err != nil {
		h.Error(c, err)
		return
	}
	respondList(c, result)
}

// Stats handles GET /technicians/stats.
func (h *TechnicianHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// Repairs handles GET /technicians/:id/repairs.
func (h *TechnicianHandler) Repairs(c *gin.Context) {
	techID, ok := h.ParamID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recent, err := h.service.RecentRepairs(ctx, techID)
	if err != nil {
		h.Error(c, err)
		return
	}
	t, err := h.service.Get(ctx, techID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.TechnicianRepairsResponse{Technician: t, Repairs: recent})
}

// Create handles POST /technicians.
func (h *TechnicianHandler) Create(c *gin.Context) {
	var req dto.TechnicianRequest
	if !h.BindJSON(c, &req) {
		return
	}
	created, err := h.service.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PUT /technicians/:id.
func (h *TechnicianHandler) Update(c *gin.Context) {
	techID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.TechnicianRequest
	if !h.BindJSON(c, &req) {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), techID, req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /technicians/:id.
func (h *TechnicianHandler) Delete(c *gin.Context) {
	techID, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), techID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
