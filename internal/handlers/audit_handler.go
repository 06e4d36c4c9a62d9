package handlers

import (
	"time"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	*BaseHandler
	auditService services.AuditService
}

func NewAuditHandler(base *BaseHandler, auditService services.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler:  base,
		auditService: auditService,
	}
}

func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	audit := rg.Group("/audit")
	audit.Use(middleware.AuthMiddleware())
	audit.Use(middleware.RequirePermission(auth.PermAuditLogs))
	{
		audit.GET("", h.List)
		audit.GET("/statistics", h.Statistics)
		audit.GET("/resource/:type/:id", h.ResourceTrail)
	}
}

func (h *AuditHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	criteria := repositories.AuditFilter{
		EventType:    models.AuditEventType(c.Query("event_type")),
		Severity:     models.AuditSeverity(c.Query("severity")),
		UserID:       c.Query("user_id"),
		ResourceType: c.Query("resource_type"),
		ResourceID:   c.Query("resource_id"),
		Page:         page,
		PageSize:     pageSize,
	}
	if from, err := time.Parse("2006-01-02", c.Query("date_from")); err == nil {
		criteria.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("date_to")); err == nil {
		criteria.DateTo = &to
	}

	result, err := h.auditService.List(c.Request.Context(), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *AuditHandler) Statistics(c *gin.Context) {
	stats, err := h.auditService.Statistics(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}

func (h *AuditHandler) ResourceTrail(c *gin.Context) {
	logs, err := h.auditService.ResourceTrail(c.Request.Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, logs)
}
