package handlers

import (
	"github.com/gin-gonic/gin"

	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// RepairHandler handles HTTP requests for repairs.
type RepairHandler struct {
	*BaseHandler
	service *repairs.Service
}

// NewRepairHandler creates a new repair handler.
func NewRepairHandler(base *BaseHandler, service *repairs.Service) *RepairHandler {
	return &RepairHandler{BaseHandler: base, service: service}
}

// parseFilter reads search, status, priority, technician and expr.
func (h *RepairHandler) parseFilter(c *gin.Context) (repairs.Filter, bool) {
	f := repairs.Filter{Search: c.Query("search")}

	var err error
	if f.Status, err = repairs.ParseStatusFilter(c.Query("status")); err != nil {
		h.Error(c, err)
		return repairs.Filter{}, false
	}
	if f.Priority, err = repairs.ParsePriorityFilter(c.Query("priority")); err != nil {
		h.Error(c, err)
		return repairs.Filter{}, false
	}
	if f.Technician, err = repairs.ParseTechnicianFilter(c.Query("technician")); err != nil {
		h.Error(c, err)
		return repairs.Filter{}, false
	}
	if src := c.Query("expr"); src != "" {
		if f.Expression, err = repairs.CompileExpression(src); err != nil {
			h.Error(c, err)
			return repairs.Filter{}, false
		}
	}
	return f, true
}

// List handles GET /repairs.
func (h *RepairHandler) List(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}
	q := repairs.Query{Filter: f, Sort: repairs.ParseSort(c.Query("sort"))}

	result, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	respondList(c, result)
}

// Get handles GET /repairs/:id.
func (h *RepairHandler) Get(c *gin.Context) {
	repairID, ok := h.ParamID(c)
	if !ok {
		return
	}
	r, err := h.service.Get(c.Request.Context(), repairID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// Create handles POST /repairs.
func (h *RepairHandler) Create(c *gin.Context) {
	var req dto.RepairRequest
	if !h.BindJSON(c, &req) {
		return
	}
	r, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PUT /repairs/:id.
func (h *RepairHandler) Update(c *gin.Context) {
	repairID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.RepairRequest
	if !h.BindJSON(c, &req) {
		return
	}
	edit, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), repairID, edit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// ChangeStatus handles PATCH /repairs/:id/status.
func (h *RepairHandler) ChangeStatus(c *gin.Context) {
	repairID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.StatusChangeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.ChangeStatus(c.Request.Context(), repairID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /repairs/:id.
func (h *RepairHandler) Delete(c *gin.Context) {
	repairID, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), repairID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Stats handles GET /repairs/stats?range=.
func (h *RepairHandler) Stats(c *gin.Context) {
	r, ok := h.ParseRange(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// Analytics handles GET /repairs/analytics.
func (h *RepairHandler) Analytics(c *gin.Context) {
	a, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// Board handles GET /repairs/board. Accepts the same filters as List.
func (h *RepairHandler) Board(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}
	columns, err := h.service.Board(c.Request.Context(), repairs.Query{Filter: f, Sort: repairs.ParseSort(c.Query("sort"))})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BoardResponse{Columns: columns})
}

// Timeline handles GET /repairs/timeline?limit=.
func (h *RepairHandler) Timeline(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}
	result, err := h.service.Timeline(c.Request.Context(), f, h.ParseIntQuery(c, "limit", 20))
	if err != nil {
		h.Error(c, err)
		return
	}
	respondList(c, result)
}
