package handlers

import (
	"vitalboard/internal/logger"
	"vitalboard/internal/models"
	"vitalboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live view-snapshot stream (HTTP upgrade) — same port
	router.GET("/ws", h.sessionMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/magic-link", h.magicLink)
		auth.POST("/sign-out", h.signOut)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.sessionMiddleware)
	{
		api.GET("/session", h.currentSession)
		h.registerReadingRoutes(api)
		h.registerViewRoutes(api)
		h.registerReportRoutes(api)
	}
}

func (h *Handler) registerReadingRoutes(api *gin.RouterGroup) {
	readings := api.Group("/readings")
	{
		readings.GET("/latest", h.latestReadings)
		readings.GET("", h.readingsInRange)
	}
}

func (h *Handler) registerViewRoutes(api *gin.RouterGroup) {
	views := api.Group("/views", h.requireRoles(models.RolePatient))
	{
		views.GET("/:category", h.viewState)
		views.POST("/:category/refresh", h.viewRefresh)
	}
}

func (h *Handler) registerReportRoutes(api *gin.RouterGroup) {
	reports := api.Group("/reports", h.requireRoles(models.RolePatient))
	{
		reports.GET("/fields", h.reportFields)
		reports.GET("/summary", h.reportSummary)
		reports.GET("/pdf", h.reportPDF)
	}
}
