package handlers

import (
	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	*BaseHandler
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(base *BaseHandler, assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       base,
		assessmentService: assessmentService,
	}
}

func (h *AssessmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	assessments := rg.Group("/assessments")
	assessments.Use(middleware.AuthMiddleware())
	{
		assessments.POST("", middleware.RequirePermission(auth.PermTakeAssessments), h.Create)
		assessments.GET("", middleware.RequireRoles(models.UserRoleAdmin), h.AdminList)
		assessments.GET("/my-assessments", h.MyAssessments)
		assessments.GET("/my-skills", h.MySkills)
		assessments.GET("/statistics/:skill", h.SkillStatistics)
		assessments.GET("/leaderboard", h.Leaderboard)
		assessments.GET("/:id", h.Get)
		assessments.POST("/:id/submit", middleware.RequirePermission(auth.PermTakeAssessments), h.Submit)
	}
}

func (h *AssessmentHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAssessmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.assessmentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.Get(c.Request.Context(), actorID, h.CurrentRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, assessment)
}

func (h *AssessmentHandler) Submit(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitAssessmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	assessment, err := h.assessmentService.Submit(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, assessment)
}

func (h *AssessmentHandler) MyAssessments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	result, err := h.assessmentService.MyAssessments(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *AssessmentHandler) MySkills(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	skills, err := h.assessmentService.MySkills(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, skills)
}

func (h *AssessmentHandler) SkillStatistics(c *gin.Context) {
	stats, err := h.assessmentService.SkillStatistics(c.Request.Context(), c.Param("skill"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}

func (h *AssessmentHandler) Leaderboard(c *gin.Context) {
	skill := c.Query("skill")
	limit := ParseQueryInt(c, "limit", 10)

	entries, err := h.assessmentService.Leaderboard(c.Request.Context(), skill, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, entries)
}

func (h *AssessmentHandler) AdminList(c *gin.Context) {
	var req dto.ListAssessmentsRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}
	req.Page, req.PageSize = ParsePagination(c)

	result, err := h.assessmentService.AdminList(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}
