package handlers

import (
	"github.com/gin-gonic/gin"

	"repairdesk/internal/domain/warehouse"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles inventory, zone and movement requests.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{BaseHandler: base, service: service}
}

func (h *WarehouseHandler) movementFilter(c *gin.Context) (warehouse.MovementFilter, bool) {
	f, err := warehouse.ParseMovementFilter(c.Query("date"), c.Query("type"))
	if err != nil {
		h.Error(c, err)
		return warehouse.MovementFilter{}, false
	}
	return f, true
}

// --- Inventory ---

// ListItems handles GET /inventory.
func (h *WarehouseHandler) ListItems(c *gin.Context) {
	items, err := h.service.Items(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.InventoryListResponse{
		ListResponse: dto.NewListResponse(items),
		LowStock:     len(warehouse.LowStock(items)),
	})
}

// CreateItem handles POST /inventory.
func (h *WarehouseHandler) CreateItem(c *gin.Context) {
	var req dto.InventoryItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateItem(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// --- Movements ---

// ListMovements handles GET /warehouse/movements?date=&type=.
func (h *WarehouseHandler) ListMovements(c *gin.Context) {
	f, ok := h.movementFilter(c)
	if !ok {
		return
	}
	movements, err := h.service.Movements(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	respondList(c, movements)
}

// RecordMovement handles POST /warehouse/movements.
func (h *WarehouseHandler) RecordMovement(c *gin.Context) {
	var req dto.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	m, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, item, err := h.service.RecordMovement(c.Request.Context(), m)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.MovementResponse{Movement: created, Item: item})
}

// DeleteMovement handles DELETE /warehouse/movements/:id.
func (h *WarehouseHandler) DeleteMovement(c *gin.Context) {
	movementID, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteMovement(c.Request.Context(), movementID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// --- Zones ---

// ListZones handles GET /warehouse/zones.
func (h *WarehouseHandler) ListZones(c *gin.Context) {
	zones, err := h.service.Zones(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	respondList(c, zones)
}

// CreateZone handles POST /warehouse/zones.
func (h *WarehouseHandler) CreateZone(c *gin.Context) {
	var req dto.ZoneRequest
	if !h.BindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateZone(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// UpdateZone handles PUT /warehouse/zones/:id.
func (h *WarehouseHandler) UpdateZone(c *gin.Context) {
	zoneID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.ZoneRequest
	if !h.BindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateZone(c.Request.Context(), zoneID, req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// DeleteZone handles DELETE /warehouse/zones/:id.
func (h *WarehouseHandler) DeleteZone(c *gin.Context) {
	zoneID, ok := h.ParamID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteZone(c.Request.Context(), zoneID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Summary handles GET /warehouse/summary?date=&type=.
func (h *WarehouseHandler) Summary(c *gin.Context) {
	f, ok := h.movementFilter(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}
