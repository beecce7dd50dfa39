// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kitchenledger/internal/domain/auth"
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/input"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/domain/notification"
	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/domain/product"
	"kitchenledger/internal/infrastructure/http/v1/dto"
	"kitchenledger/internal/infrastructure/http/v1/handlers"
	"kitchenledger/internal/infrastructure/http/v1/middleware"
	"kitchenledger/internal/infrastructure/metrics"
	"kitchenledger/pkg/logger"
)

// RouterConfig holds everything the router wires into handlers.
type RouterConfig struct {
	Logger       *logger.Logger
	JWTValidator middleware.JWTValidator
	Metrics      *metrics.Metrics
	CORSOrigins  []string
	Development  bool

	// HealthChecks are pinged by /health/ready.
	HealthChecks map[string]handlers.Pinger

	// Idempotency is optional; nil disables replay of POST /orders.
	Idempotency middleware.IdempotencyStore

	Auth          *auth.Service
	Inputs        *input.Service
	Inventory     *inventory.Service
	Products      *product.Service
	Pricing       *pricing.Service
	FixedCosts    *fixedcosts.Service
	Customers     *customer.Service
	Orders        handlers.OrderEngine
	Reports       handlers.ReportService
	Notifications *notification.Service
}

// editors may delete catalog entries.
var editors = []string{auth.RoleAdmin, auth.RoleEditor}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	dto.RegisterValidators()

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(corsMiddleware(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, cfg.Auth)
		protectedAuth := api.Group("/auth", middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(api.Group("/auth"), protectedAuth)

		protected := api.Group("", middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected.Group("/inputs"), handlers.NewInputHandler(base, cfg.Inputs))
		inventoryGroup := protected.Group("/inventory")
		inventoryGroup.GET("/low-stock", handlers.LowStockHandler(base, cfg.Inventory))
		registerCatalogRoutes(inventoryGroup, handlers.NewInventoryHandler(base, cfg.Inventory))
		registerCatalogRoutes(protected.Group("/customers"), handlers.NewCustomerHandler(base, cfg.Customers))
		registerCatalogRoutes(protected.Group("/products"), handlers.NewProductHandler(base, cfg.Products))

		pricingHandler := handlers.NewPricingHandler(base, cfg.Pricing, cfg.FixedCosts)
		pricingGroup := protected.Group("/pricing")
		registerCatalogRoutes(pricingGroup, pricingHandler)
		pricingGroup.POST("/:id/recalculate", pricingHandler.Recalculate)
		protected.GET("/fixed-costs", pricingHandler.GetFixedCosts)
		protected.PUT("/fixed-costs", pricingHandler.UpdateFixedCosts)

		registerOrderRoutes(protected.Group("/orders"), handlers.NewOrderHandler(base, cfg.Orders), cfg.Idempotency)

		reportsHandler := handlers.NewReportsHandler(base, cfg.Reports)
		reports := protected.Group("/reports")
		reports.GET("/sales-summary", reportsHandler.SalesSummary)
		reports.GET("/orders", reportsHandler.OrderReport)

		notificationHandler := handlers.NewNotificationHandler(base, cfg.Notifications)
		notifications := protected.Group("/notifications")
		notifications.GET("/stream", notificationHandler.Stream)
		notifications.GET("/messages", notificationHandler.ListMessages)
		notifications.POST("/messages", notificationHandler.SendMessage)
	}

	return router
}

// CatalogRouteHandler defines the interface for CRUD handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// registerCatalogRoutes registers standard CRUD routes. Deletes need an editor.
func registerCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", middleware.RequireRole(editors...), handler.Delete)
}

func registerOrderRoutes(group *gin.RouterGroup, h *handlers.OrderHandler, store middleware.IdempotencyStore) {
	create := []gin.HandlerFunc{h.Create}
	if store != nil {
		create = append([]gin.HandlerFunc{middleware.Idempotency(store)}, create...)
	}

	group.GET("", h.List)
	group.POST("", create...)
	group.GET("/:id", h.Get)
	group.GET("/:id/history", h.History)
	group.PATCH("/:id/status", h.UpdateStatus)
	group.PATCH("/:id/position", h.UpdatePosition)
	group.POST("/:id/cancel", middleware.RequireRole(handlers.CancelRoles...), h.Cancel)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderIdempotencyKey, middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID, middleware.HeaderTraceID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
