package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"doc-check.backend/internal/config"
	"doc-check.backend/internal/infrastructure/ratelimit"
	"doc-check.backend/internal/interfaces/http/handlers"
	"doc-check.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	purchaseHandler *handlers.PurchaseHandler
	webhookHandler  *handlers.WebhookHandler
	adminHandler    *handlers.AdminHandler
	authMiddleware  gin.HandlerFunc
	webhookToken    string
	limiter         *ratelimit.Limiter
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimitMiddleware(d.limiter, config.ActionLogin))
		{
			auth.POST("/login", d.authHandler.Login)
		}

		// Payment provider webhooks (shared-secret token)
		webhooks := v1.Group("/webhooks")
		webhooks.Use(middleware.RateLimitMiddleware(d.limiter, config.ActionWebhook))
		webhooks.Use(middleware.WebhookTokenMiddleware(d.webhookToken))
		{
			webhooks.POST("/asaas", d.webhookHandler.HandleAsaasWebhook)
		}

		// Purchase routes (protected)
		purchases := v1.Group("/purchases")
		purchases.Use(d.authMiddleware)
		purchases.Use(middleware.RateLimitMiddleware(d.limiter, config.ActionPublic))
		{
			purchases.GET("", d.purchaseHandler.ListPurchases)
			purchases.GET("/:code", d.purchaseHandler.GetPurchase)
			purchases.GET("/:code/progress", d.purchaseHandler.GetProgress)
		}

		// Admin overrides (admin role required)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware)
		admin.Use(middleware.RequireAdmin())
		admin.Use(middleware.RateLimitMiddleware(d.limiter, config.ActionAdmin))
		{
			admin.POST("/purchases/:id/mark-paid", middleware.IdempotencyMiddleware(), d.adminHandler.MarkPaid)
			admin.POST("/purchases/:id/redispatch", d.adminHandler.Redispatch)
			admin.POST("/purchases/:id/refund", middleware.IdempotencyMiddleware(), d.adminHandler.Refund)
		}
	}
}
