package v1

import (
	"github.com/gin-gonic/gin"
)

// ResourceRouteHandler defines the handlers of a CRUD collection.
type ResourceRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// ResourceGetHandler is an optional interface for collections with a
// single-record read.
type ResourceGetHandler interface {
	Get(c *gin.Context)
}

// RegisterResourceRoutes registers standard CRUD routes for a collection.
// If the handler also implements ResourceGetHandler, GET /:id is registered.
//
// Usage:
//
//	handler := handlers.NewTechnicianHandler(baseHandler, service)
//	RegisterResourceRoutes(api.Group("/technicians"), handler)
func RegisterResourceRoutes(group *gin.RouterGroup, handler ResourceRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)

	if getter, ok := handler.(ResourceGetHandler); ok {
		group.GET("/:id", getter.Get)
	}
}
