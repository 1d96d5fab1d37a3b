package router

import (
	"github.com/gin-gonic/gin"

	"hotel_platform_backend/internal/handlers"
	"hotel_platform_backend/internal/middleware"
	"hotel_platform_backend/internal/models"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupSearchRoutes registers the public search and the back-office search.
func SetupSearchRoutes(apiGroup *gin.RouterGroup, searchHandler *handlers.SearchHandler) {
	apiGroup.GET("/search", searchHandler.Search)

	adminRoutes := apiGroup.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(), middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager, models.RoleStaff))
	{
		adminRoutes.GET("/search", searchHandler.AdminSearch)
	}
}

// SetupPriceOverrideRoutes sets up the price override routes. Staff accounts can read quotes but not change prices.
func SetupPriceOverrideRoutes(apiGroup *gin.RouterGroup, h *handlers.PriceOverrideHandler) {
	overrideRoutes := apiGroup.Group("/price-overrides")
	overrideRoutes.Use(
		middleware.AuthMiddleware(),
		middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
		middleware.BranchScopeMiddleware(),
	)
	{
		overrideRoutes.GET("", h.ListOverrides)
		overrideRoutes.POST("", h.SetPrice)
		overrideRoutes.GET("/effective", h.GetEffectivePrice)
		overrideRoutes.POST("/bulk", h.BulkAdjust)
		overrideRoutes.GET("/audit", h.GetAuditLog)
		overrideRoutes.PATCH("/:id/toggle", h.ToggleOverride)
		overrideRoutes.DELETE("/:id", h.RemoveOverride)
	}
}

// SetupPricingRoutes sets up the quote route used by booking and ordering screens.
func SetupPricingRoutes(apiGroup *gin.RouterGroup, h *handlers.PriceOverrideHandler) {
	pricingRoutes := apiGroup.Group("/pricing")
	pricingRoutes.Use(
		middleware.AuthMiddleware(),
		middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager, models.RoleStaff),
		middleware.BranchScopeMiddleware(),
	)
	{
		pricingRoutes.POST("/quote", h.Quote)
	}
}
