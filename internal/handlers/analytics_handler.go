package handlers

import (
	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.AuthMiddleware())
	analytics.Use(middleware.RequirePermission(auth.PermViewAnalytics))
	{
		analytics.GET("/metrics", h.Metrics)
		analytics.GET("/trends", h.Trends)
		analytics.GET("/categories", h.Categories)
		analytics.GET("/vendors/performance", h.VendorPerformance)
		analytics.GET("/anomalies/breakdown", h.AnomalyBreakdown)
		analytics.GET("/departments", h.Departments)
		analytics.GET("/status/distribution", h.StatusDistribution)
		analytics.GET("/timeline/:procurement_id", h.Timeline)
	}
}

func (h *AnalyticsHandler) Metrics(c *gin.Context) {
	metrics, err := h.analyticsService.Metrics(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, metrics)
}

func (h *AnalyticsHandler) Trends(c *gin.Context) {
	months := ParseQueryInt(c, "months", 12)

	trends, err := h.analyticsService.Trends(c.Request.Context(), months)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, trends)
}

func (h *AnalyticsHandler) Categories(c *gin.Context) {
	rows, err := h.analyticsService.Categories(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, rows)
}

func (h *AnalyticsHandler) VendorPerformance(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 10)

	rows, err := h.analyticsService.VendorPerformance(c.Request.Context(), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, rows)
}

func (h *AnalyticsHandler) AnomalyBreakdown(c *gin.Context) {
	stats, err := h.analyticsService.AnomalyBreakdown(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}

func (h *AnalyticsHandler) Departments(c *gin.Context) {
	rows, err := h.analyticsService.Departments(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, rows)
}

func (h *AnalyticsHandler) StatusDistribution(c *gin.Context) {
	distribution, err := h.analyticsService.StatusDistribution(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, distribution)
}

func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	timeline, err := h.analyticsService.Timeline(c.Request.Context(), c.Param("procurement_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, timeline)
}
