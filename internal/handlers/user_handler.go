package handlers

import (
	"net/http"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UserHandler - административное управление учетками
type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	users.Use(middleware.RequirePermission(auth.PermManageUsers))
	{
		users.GET("", h.List)
		users.GET("/statistics", h.Statistics)
		users.GET("/:id", h.Get)
		users.PUT("/:id/role", h.UpdateRole)
		users.PUT("/:id/status", h.UpdateStatus)
		users.DELETE("/:id", h.Delete)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	criteria := repositories.UserFilter{
		Role:     models.UserRole(c.Query("role")),
		Status:   models.UserStatus(c.Query("status")),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.userService.List(c.Request.Context(), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, user)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.userService.UpdateRole(c.Request.Context(), actorID, c.Param("id"), models.UserRole(req.Role))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "User role updated")
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.userService.UpdateStatus(c.Request.Context(), actorID, c.Param("id"), models.UserStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "User status updated")
}

func (h *UserHandler) Delete(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "User deleted")
}

func (h *UserHandler) Statistics(c *gin.Context) {
	stats, err := h.userService.Statistics(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}
