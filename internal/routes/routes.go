package routes

import (
	"net/http"
	"strings"

	"procurechain_backend/internal/handlers"
	"procurechain_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Публичные листинги не лимитируются: это витрина прозрачности,
// и на нее ходят без токена
var rateLimitExemptPrefixes = []string{
	"/api/procurements/public",
	"/api/vendors/public",
	"/api/vendors/top",
}

func rateLimited(limit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			path := c.Request.URL.Path
			if path == "/api/jobs" {
				c.Next()
				return
			}
			for _, prefix := range rateLimitExemptPrefixes {
				if strings.HasPrefix(path, prefix) {
					c.Next()
					return
				}
			}
		}
		limit(c)
	}
}

// RegisterRoutes регистрирует все HTTP-маршруты приложения
func RegisterRoutes(
	router *gin.Engine,
	appHandlers *handlers.AppHandlers,
	limiter *middleware.RateLimiter,
) {
	router.GET("/health", appHandlers.HealthHandler.Health)

	api := router.Group("/api")
	api.Use(rateLimited(limiter.Middleware()))
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.ProfileHandler.RegisterRoutes(api)
		appHandlers.VendorHandler.RegisterRoutes(api)
		appHandlers.ProcurementHandler.RegisterRoutes(api)
		appHandlers.DocumentHandler.RegisterRoutes(api)
		appHandlers.BidHandler.RegisterRoutes(api)
		appHandlers.AnomalyHandler.RegisterRoutes(api)
		appHandlers.AIHandler.RegisterRoutes(api)
		appHandlers.AssessmentHandler.RegisterRoutes(api)
		appHandlers.ChallengeHandler.RegisterRoutes(api)
		appHandlers.JobHandler.RegisterRoutes(api)
		appHandlers.ApplicationHandler.RegisterRoutes(api)
		appHandlers.AnalyticsHandler.RegisterRoutes(api)
		appHandlers.AuditHandler.RegisterRoutes(api)
	}
}
