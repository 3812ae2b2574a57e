// Package v1 provides HTTP API version 1.
package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"repairdesk/internal/domain/clients"
	"repairdesk/internal/domain/dashboard"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/domain/warehouse"
	"repairdesk/internal/infrastructure/http/v1/handlers"
	"repairdesk/internal/infrastructure/http/v1/middleware"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/pkg/logger"
)

// compressMinSize is the smallest response body worth compressing.
const compressMinSize = 1024

// Services are the domain services exposed by the API.
type Services struct {
	Repairs     *repairs.Service
	Technicians *technicians.Service
	Clients     *clients.Service
	Warehouse   *warehouse.Service
	Dashboard   *dashboard.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	Services Services

	// Logger for request logging
	Logger *logger.Logger

	// Idempotency enables replay of mutating requests carrying
	// X-Idempotency-Key when non-nil.
	Idempotency idempotency.Store

	// Backend names the store backend on the readiness probe.
	Backend string

	// HealthChecks are pinged by /health/ready.
	HealthChecks map[string]handlers.Pinger

	// Debug puts gin in debug mode.
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))

	healthHandler := handlers.NewHealthHandler(cfg.Backend, cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	// Idempotency wraps ErrorHandler so rendered errors are stored for replay.
	if cfg.Idempotency != nil {
		api.Use(middleware.Idempotency(cfg.Idempotency))
	}
	api.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()
	registerDashboardRoutes(api, base, cfg.Services)
	registerRepairRoutes(api, base, cfg.Services)
	registerTechnicianRoutes(api, base, cfg.Services)
	registerClientRoutes(api, base, cfg.Services)
	registerWarehouseRoutes(api, base, cfg.Services)

	return router
}

// NewHandler wraps the router with gzip response compression.
func NewHandler(cfg RouterConfig) (http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(compressMinSize))
	if err != nil {
		return nil, fmt.Errorf("gzip wrapper: %w", err)
	}
	return wrap(NewRouter(cfg)), nil
}

func registerDashboardRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	if svc.Dashboard == nil {
		return
	}
	h := handlers.NewDashboardHandler(base, svc.Dashboard)
	rg.GET("/dashboard", h.Summary)
}

func registerRepairRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	if svc.Repairs == nil {
		return
	}
	h := handlers.NewRepairHandler(base, svc.Repairs)
	group := rg.Group("/repairs")

	// Static segments first so they are not shadowed by /:id.
	group.GET("/stats", h.Stats)
	group.GET("/analytics", h.Analytics)
	group.GET("/board", h.Board)
	group.GET("/timeline", h.Timeline)

	RegisterResourceRoutes(group, h)
	group.PATCH("/:id/status", h.ChangeStatus)
}

func registerTechnicianRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	if svc.Technicians == nil {
		return
	}
	h := handlers.NewTechnicianHandler(base, svc.Technicians)
	group := rg.Group("/technicians")

	group.GET("/stats", h.Stats)
	RegisterResourceRoutes(group, h)
	group.GET("/:id/repairs", h.Repairs)
}

func registerClientRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	if svc.Clients == nil {
		return
	}
	h := handlers.NewClientHandler(base, svc.Clients)
	group := rg.Group("/clients")
	group.GET("", h.List)
	group.POST("", h.Create)
}

func registerWarehouseRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	if svc.Warehouse == nil {
		return
	}
	h := handlers.NewWarehouseHandler(base, svc.Warehouse)

	inventory := rg.Group("/inventory")
	inventory.GET("", h.ListItems)
	inventory.POST("", h.CreateItem)

	wh := rg.Group("/warehouse")
	wh.GET("/summary", h.Summary)

	movements := wh.Group("/movements")
	movements.GET("", h.ListMovements)
	movements.POST("", h.RecordMovement)
	movements.DELETE("/:id", h.DeleteMovement)

	zones := wh.Group("/zones")
	zones.GET("", h.ListZones)
	zones.POST("", h.CreateZone)
	zones.PUT("/:id", h.UpdateZone)
	zones.DELETE("/:id", h.DeleteZone)
}
