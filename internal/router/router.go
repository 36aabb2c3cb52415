package router

import (
	"github.com/gin-gonic/gin"

	"tillsync/internal/handler"
	"tillsync/internal/middleware"
	"tillsync/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	orderH *handler.OrderHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public pairing route
	v1.POST("/auth/pair", authH.Pair)

	// Protected routes - require a valid device token
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Order routes
	orders := protected.Group("/orders")
	orders.GET("", orderH.List)
	orders.GET("/export", exportH.Export)
	orders.GET("/:id", orderH.GetByID)
	orders.PATCH("/:id/printed", orderH.MarkPrinted)
	orders.PATCH("/:id/read", orderH.MarkRead)
	orders.POST("/:id/renormalize", orderH.Renormalize)
	orders.POST("/:id/refresh", orderH.Refresh)

	// Manual sync trigger
	protected.POST("/sync", orderH.Sync)

	// Device management
	devices := protected.Group("/devices")
	devices.GET("", authH.ListDevices)
	devices.GET("/me", authH.Me)
	devices.POST("/:id/revoke", authH.Revoke)

	return r
}
