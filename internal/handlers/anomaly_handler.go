package handlers

import (
	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AnomalyHandler struct {
	*BaseHandler
	anomalyService services.AnomalyService
}

func NewAnomalyHandler(base *BaseHandler, anomalyService services.AnomalyService) *AnomalyHandler {
	return &AnomalyHandler{
		BaseHandler:    base,
		anomalyService: anomalyService,
	}
}

func (h *AnomalyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analysis := rg.Group("/analysis")
	analysis.Use(middleware.AuthMiddleware())
	{
		analysis.POST("/anomaly/:procurement_id",
			middleware.RequirePermission(auth.PermManageAnomalies), h.Detect)
		analysis.POST("/vendor/:vendor_id/patterns",
			middleware.RequirePermission(auth.PermManageAnomalies), h.VendorPatterns)

		anomalies := analysis.Group("/anomalies")
		anomalies.Use(middleware.RequirePermission(auth.PermViewAnomalies))
		{
			anomalies.GET("", h.List)
			anomalies.GET("/high-risk", h.HighRisk)
			anomalies.GET("/statistics", h.Statistics)
			anomalies.GET("/procurement/:procurement_id", h.ByProcurement)
			anomalies.GET("/:id", h.Get)
			anomalies.PATCH("/:id/resolve",
				middleware.RequirePermission(auth.PermManageAnomalies), h.Resolve)
		}
	}
}

func (h *AnomalyHandler) Detect(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	anomalies, err := h.anomalyService.Detect(c.Request.Context(), actorID, c.Param("procurement_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"anomalies": anomalies, "count": len(anomalies)})
}

func (h *AnomalyHandler) List(c *gin.Context) {
	var req dto.ListAnomaliesRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}
	req.Page, req.PageSize = ParsePagination(c)

	result, err := h.anomalyService.List(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *AnomalyHandler) Get(c *gin.Context) {
	anomaly, err := h.anomalyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, anomaly)
}

func (h *AnomalyHandler) HighRisk(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 20)

	anomalies, err := h.anomalyService.HighRisk(c.Request.Context(), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, anomalies)
}

func (h *AnomalyHandler) ByProcurement(c *gin.Context) {
	anomalies, err := h.anomalyService.ByProcurement(c.Request.Context(), c.Param("procurement_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, anomalies)
}

func (h *AnomalyHandler) Resolve(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ResolveAnomalyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	anomaly, err := h.anomalyService.Resolve(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, anomaly)
}

func (h *AnomalyHandler) Statistics(c *gin.Context) {
	stats, err := h.anomalyService.Statistics(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}

func (h *AnomalyHandler) VendorPatterns(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.anomalyService.VendorPatterns(c.Request.Context(), actorID, c.Param("vendor_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}
