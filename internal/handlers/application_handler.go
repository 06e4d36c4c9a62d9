package handlers

import (
	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	applications := rg.Group("/applications")
	applications.Use(middleware.AuthMiddleware())
	{
		applications.POST("", middleware.RequirePermission(auth.PermApplyJobs), h.Apply)
		applications.GET("/my-applications", middleware.RequirePermission(auth.PermApplyJobs), h.MyApplications)
		applications.GET("/matched-jobs", middleware.RequirePermission(auth.PermApplyJobs), h.MatchedJobs)
		applications.GET("/job/:job_id", middleware.RequireRoles(
			models.UserRoleEmployer, models.UserRoleAdmin), h.ApplicationsForJob)
		applications.PUT("/:id/status", middleware.RequireRoles(
			models.UserRoleEmployer, models.UserRoleAdmin), h.UpdateStatus)
	}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.Apply(c.Request.Context(), learnerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, application)
}

func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	result, err := h.applicationService.MyApplications(c.Request.Context(), learnerID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *ApplicationHandler) ApplicationsForJob(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	result, err := h.applicationService.ApplicationsForJob(c.Request.Context(),
		actorID, h.CurrentRole(c), c.Param("job_id"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.UpdateStatus(c.Request.Context(),
		actorID, h.CurrentRole(c), c.Param("id"), models.ApplicationStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, application)
}

func (h *ApplicationHandler) MatchedJobs(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	minScore := ParseQueryFloat(c, "min_score", 0)
	matched, err := h.applicationService.MatchedJobs(c.Request.Context(), learnerID, minScore)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, matched)
}
