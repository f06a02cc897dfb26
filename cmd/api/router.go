package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/middleware"
	"storefront-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupOfferRoutes(v1, c)
		setupCheckoutRoutes(v1, c)
		setupAdminCampaignRoutes(v1, c)
	}

	return router
}

// ========================================
// OFFER ROUTES
// ========================================
func setupOfferRoutes(v1 *gin.RouterGroup, c *container.Container) {
	offers := v1.Group("/offers")
	offers.Use(middleware.OptionalAuthMiddleware(c.Config.JWT.Secret))
	{
		offers.GET("", c.OfferPublicHandler.ListOffers)
		offers.POST("/evaluate", c.OfferPublicHandler.EvaluateOffers)
	}
}

// ========================================
// CHECKOUT ROUTES
// ========================================
func setupCheckoutRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Guests may check out, auth is optional here.
	checkout := v1.Group("/checkout")
	checkout.Use(middleware.OptionalAuthMiddleware(c.Config.JWT.Secret))
	{
		checkout.POST("", c.CheckoutHandler.PlaceOrder)
	}

	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		orders.GET("", c.CheckoutHandler.ListOrders)
		orders.GET("/:id", c.CheckoutHandler.GetOrder)
	}
}

// ========================================
// ADMIN CAMPAIGN ROUTES
// ========================================
func setupAdminCampaignRoutes(v1 *gin.RouterGroup, c *container.Container) {
	campaigns := v1.Group("/admin/campaigns")
	campaigns.Use(
		middleware.AuthMiddleware(c.Config.JWT.Secret),
		middleware.AdminMiddleware(),
	)
	{
		campaigns.POST("", c.OfferAdminHandler.CreateCampaign)
		campaigns.GET("", c.OfferAdminHandler.ListCampaigns)
		campaigns.GET("/:id", c.OfferAdminHandler.GetCampaign)
		campaigns.PUT("/:id", c.OfferAdminHandler.UpdateCampaign)
		campaigns.PATCH("/:id/status", c.OfferAdminHandler.UpdateStatus)
		campaigns.DELETE("/:id", c.OfferAdminHandler.DeleteCampaign)
		campaigns.GET("/:id/stats", c.OfferAdminHandler.GetUsageStats)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   getEnv("APP_VERSION", "1.0.0"),
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis. Redis being down only degrades caching, not the
		// service itself.
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
