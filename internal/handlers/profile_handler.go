package handlers

import (
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profiles := rg.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.GET("/me", h.GetOwn)
		profiles.PUT("/me", h.UpdateOwn)
		profiles.POST("/me/employment", h.AddEmployment)
		profiles.GET("/completeness", h.Completeness)
		profiles.GET("/search/learners",
			middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleAdmin), h.SearchLearners)
		profiles.GET("/stats",
			middleware.RequireRoles(models.UserRoleAdmin), h.Stats)
	}

	// Публичный профиль виден без токена: резюме соискателя - витрина
	public := rg.Group("/profiles")
	public.Use(middleware.OptionalAuthMiddleware())
	{
		public.GET("/:user_id", h.GetPublic)
		public.GET("/:user_id/skills", h.Skills)
	}
}

func (h *ProfileHandler) GetOwn(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOwn(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

// UpdateOwn принимает тело по роли: работодатель правит карточку
// компании, остальные - анкету соискателя
func (h *ProfileHandler) UpdateOwn(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if h.CurrentRole(c) == models.UserRoleEmployer {
		var req dto.UpdateEmployerProfileRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		if err := h.profileService.UpdateEmployer(c.Request.Context(), userID, &req); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	} else {
		var req dto.UpdateLearnerProfileRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		if err := h.profileService.UpdateLearner(c.Request.Context(), userID, &req); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	profile, err := h.profileService.GetOwn(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) AddEmployment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddEmploymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.profileService.AddEmployment(c.Request.Context(), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	profile, err := h.profileService.GetOwn(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) Completeness(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.profileService.Completeness(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *ProfileHandler) SearchLearners(c *gin.Context) {
	var req dto.SearchLearnersRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}
	req.Page, req.PageSize = ParsePagination(c)

	result, err := h.profileService.SearchLearners(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *ProfileHandler) Stats(c *gin.Context) {
	stats, err := h.profileService.Stats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}

func (h *ProfileHandler) GetPublic(c *gin.Context) {
	profile, err := h.profileService.GetPublic(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) Skills(c *gin.Context) {
	skills, err := h.profileService.Skills(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, skills)
}
