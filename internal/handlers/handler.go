package handlers

import (
	"kitchenlog/internal/logger"
	"kitchenlog/internal/metrics"
	"kitchenlog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. m may be nil.
func NewHandler(services *service.Service, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{services: services, metrics: m, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	h.registerCookRoutes(router)
	h.registerStationRoutes(router)

	router.GET("/report", h.requireStore, h.reportPage)
	router.GET("/ws/elapsed", h.wsElapsed)

	return router
}

func (h *Handler) registerCookRoutes(r *gin.Engine) {
	cooks := r.Group("/api/cooks", h.requireStore)
	{
		cooks.POST("", h.createCook)
		cooks.GET("", h.listCooks)
		cooks.GET("/export", h.exportCooks)
		cooks.GET("/report.pdf", h.reportPDF)
	}
}

func (h *Handler) registerStationRoutes(r *gin.Engine) {
	station := r.Group("/api/station")
	{
		station.GET("/staff", h.getStaff)
		// Body example: {"staff":"Alice"}
		station.PUT("/staff", h.setStaff)

		station.GET("/cooks", h.listActive)
		// Body example: {"food":"Chicken Wings"}
		station.POST("/cooks", h.createActive)
		station.POST("/cooks/:id/start", h.startCook)
		station.POST("/cooks/:id/end", h.endCook)
		// Body example: {"value":"74.5"} or {"value":74.5}
		station.PUT("/cooks/:id/temp", h.setTemp)
		station.PUT("/cooks/:id/trays", h.setTrays)
		station.POST("/cooks/:id/save", h.saveCook)
		station.DELETE("/cooks/:id", h.cancelCook)
	}
}
