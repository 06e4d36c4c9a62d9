package handlers

import (
	"net/http"
	"time"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProcurementHandler struct {
	*BaseHandler
	procurementService services.ProcurementService
}

func NewProcurementHandler(base *BaseHandler, procurementService services.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{
		BaseHandler:        base,
		procurementService: procurementService,
	}
}

func (h *ProcurementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Портал прозрачности: опубликованные закупки видны любому
	public := rg.Group("/procurements/public")
	public.Use(middleware.OptionalAuthMiddleware())
	{
		public.GET("", h.PublicList)
		public.GET("/:id", h.PublicGet)
	}

	procurements := rg.Group("/procurements")
	procurements.Use(middleware.AuthMiddleware())
	{
		procurements.GET("", middleware.RequireRoles(
			models.UserRoleAdmin, models.UserRoleOfficer, models.UserRoleAuditor), h.List)
		procurements.GET("/statistics", middleware.RequirePermission(auth.PermViewAnalytics), h.Statistics)
		procurements.POST("", middleware.RequirePermission(auth.PermManageProcurements), h.Create)
		procurements.GET("/:id", h.Get)
		procurements.PUT("/:id", middleware.RequirePermission(auth.PermManageProcurements), h.Update)
		procurements.PATCH("/:id/status", middleware.RequirePermission(auth.PermManageProcurements), h.UpdateStatus)
		procurements.DELETE("/:id", middleware.RequirePermission(auth.PermManageProcurements), h.Delete)
	}
}

func (h *ProcurementHandler) buildFilter(c *gin.Context) (repositories.ProcurementFilter, bool) {
	var req dto.ListProcurementsRequest
	if !h.BindAndValidate_Query(c, &req) {
		return repositories.ProcurementFilter{}, false
	}

	page, pageSize := ParsePagination(c)
	criteria := repositories.ProcurementFilter{
		Status:     models.ProcurementStatus(req.Status),
		Category:   models.ProcurementCategory(req.Category),
		Department: req.Department,
		CreatedBy:  req.CreatedBy,
		Search:     req.Search,
		Page:       page,
		PageSize:   pageSize,
	}
	if from, err := time.Parse("2006-01-02", req.DateFrom); err == nil {
		criteria.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", req.DateTo); err == nil {
		criteria.DateTo = &to
	}
	return criteria, true
}

func (h *ProcurementHandler) PublicList(c *gin.Context) {
	criteria, ok := h.buildFilter(c)
	if !ok {
		return
	}

	result, err := h.procurementService.PublicList(c.Request.Context(), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *ProcurementHandler) PublicGet(c *gin.Context) {
	procurement, err := h.procurementService.PublicGet(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, procurement)
}

func (h *ProcurementHandler) List(c *gin.Context) {
	criteria, ok := h.buildFilter(c)
	if !ok {
		return
	}

	result, err := h.procurementService.List(c.Request.Context(), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *ProcurementHandler) Get(c *gin.Context) {
	procurement, err := h.procurementService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, procurement)
}

func (h *ProcurementHandler) Create(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProcurementRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	procurement, err := h.procurementService.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, procurement)
}

func (h *ProcurementHandler) Update(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProcurementRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	procurement, err := h.procurementService.Update(c.Request.Context(), actorID, h.CurrentRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, procurement)
}

func (h *ProcurementHandler) UpdateStatus(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProcurementStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	procurement, err := h.procurementService.UpdateStatus(c.Request.Context(), actorID, c.Param("id"),
		models.ProcurementStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, procurement)
}

func (h *ProcurementHandler) Delete(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.procurementService.Delete(c.Request.Context(), actorID, h.CurrentRole(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Procurement deleted")
}

func (h *ProcurementHandler) Statistics(c *gin.Context) {
	stats, err := h.procurementService.Statistics(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}
