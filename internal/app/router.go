package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"donate/internal/handler"
	"donate/internal/logger"
	"donate/internal/middleware"
	"donate/internal/ratelimit"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	IntentHandler   *handler.IntentHandler
	WebhookHandler  *handler.WebhookHandler
	DonationHandler *handler.DonationHandler // nil when no ledger is configured
	Limiter         ratelimit.Limiter
	Log             *zap.Logger
	AllowedOrigins  []string
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(deps.Log))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Both payment endpoints are POST-only per the wire contract.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.ErrorResponse{Error: "Method not allowed"})
	})

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Payment endpoints, paths fixed by the donation form.
	api := router.Group("/api/stripe")
	{
		api.POST("/create-payment-intent",
			middleware.RateLimitMiddleware(deps.Limiter, deps.Log),
			deps.IntentHandler.CreateIntent,
		)
		api.POST("/webhook", deps.WebhookHandler.HandleWebhook)
	}

	// Activity feed, only when the ledger is configured.
	if deps.DonationHandler != nil {
		v1 := router.Group("/v1")
		{
			v1.GET("/donations/recent", deps.DonationHandler.ListRecent)
		}
	}

	return router
}
