package handlers

import (
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	*BaseHandler
	aiService services.AIService
}

func NewAIHandler(base *BaseHandler, aiService services.AIService) *AIHandler {
	return &AIHandler{
		BaseHandler: base,
		aiService:   aiService,
	}
}

func (h *AIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Объяснения по опубликованным закупкам доступны без токена:
	// это гражданская витрина прозрачности
	ai := rg.Group("/ai")
	ai.Use(middleware.OptionalAuthMiddleware())
	{
		ai.GET("/status", h.Status)
		ai.GET("/explain-procurement/:id", h.ExplainProcurement)
		ai.POST("/batch-explain", h.BatchExplain)
	}

	protected := rg.Group("/ai")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/analyze-anomaly/:id", h.AnalyzeAnomaly)
		protected.POST("/verify-vendor", h.VerifyVendor)
		protected.GET("/suggest-improvements/:id", h.SuggestImprovements)
	}
}

func (h *AIHandler) Status(c *gin.Context) {
	h.OK(c, h.aiService.Status())
}

func (h *AIHandler) ExplainProcurement(c *gin.Context) {
	result, err := h.aiService.ExplainProcurement(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *AIHandler) BatchExplain(c *gin.Context) {
	var req dto.BatchExplainRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.aiService.BatchExplain(c.Request.Context(), req.ProcurementIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *AIHandler) AnalyzeAnomaly(c *gin.Context) {
	result, err := h.aiService.AnalyzeAnomaly(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *AIHandler) VerifyVendor(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyVendorRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.aiService.VerifyVendor(c.Request.Context(), actorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *AIHandler) SuggestImprovements(c *gin.Context) {
	result, err := h.aiService.SuggestImprovements(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}
