package api

import (
	"net/http"

	"tienda/api/cart"
	"tienda/api/health"
	"tienda/api/middleware"
	"tienda/api/order"
	"tienda/config"
	"tienda/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	metrics          *metrics.Metrics
	healthController *health.Controller
	orderController  *order.Controller
	cartController   *cart.Controller
}

// NewRouter builds the engine and its middleware chain. m may be nil when
// metrics are disabled.
func NewRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	healthController *health.Controller,
	orderController *order.Controller,
	cartController *cart.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// order matters: request id first so every later layer can log it
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	if m != nil {
		engine.Use(middleware.MetricsMiddleware(m))
	}
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:           engine,
		config:           cfg,
		metrics:          m,
		healthController: healthController,
		orderController:  orderController,
		cartController:   cartController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.orderController.RegisterRoutes(apiGroup)
		r.cartController.RegisterRoutes(apiGroup)
	}

	if r.metrics != nil {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(r.metrics.Handler()))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
