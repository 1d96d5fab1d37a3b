package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel_platform_backend/internal/handlers"
	"hotel_platform_backend/internal/services"
)

// Services bundles what the HTTP layer needs. main builds it from either the postgres or the memory store.
type Services struct {
	Auth    services.AuthService
	Pricing services.PricingService
	Search  services.SearchService
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, svc Services) {
	authHandler := handlers.NewAuthHandler(svc.Auth)
	priceOverrideHandler := handlers.NewPriceOverrideHandler(svc.Pricing)
	searchHandler := handlers.NewSearchHandler(svc.Search)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)
	SetupSearchRoutes(apiV1, searchHandler)
	SetupPriceOverrideRoutes(apiV1, priceOverrideHandler)
	SetupPricingRoutes(apiV1, priceOverrideHandler)
}
