package handlers

import (
	"github.com/gin-gonic/gin"

	"repairdesk/internal/domain/clients"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	*BaseHandler
	service *clients.Service
}

// NewClientHandler creates a new client handler.
func NewClientHandler(base *BaseHandler, service *clients.Service) *ClientHandler {
	return &ClientHandler{BaseHandler: base, service: service}
}

// List handles GET /clients?search=.
func (h *ClientHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}
	respondList(c, result)
}

// Create handles POST /clients.
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
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
