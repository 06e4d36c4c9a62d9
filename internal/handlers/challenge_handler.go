package handlers

import (
	"net/http"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	*BaseHandler
	challengeService services.ChallengeService
}

func NewChallengeHandler(base *BaseHandler, challengeService services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		BaseHandler:      base,
		challengeService: challengeService,
	}
}

func (h *ChallengeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	challenges := rg.Group("/challenges")
	challenges.Use(middleware.AuthMiddleware())
	{
		challenges.GET("", h.List)
		challenges.GET("/random", h.Random)
		challenges.GET("/search", h.Search)
		challenges.GET("/stats", h.Stats)
		challenges.GET("/:id", h.Get)
		challenges.POST("", middleware.RequirePermission(auth.PermManageChallenges), h.Create)
		challenges.PUT("/:id", middleware.RequirePermission(auth.PermManageChallenges), h.Update)
		challenges.DELETE("/:id", middleware.RequirePermission(auth.PermManageChallenges), h.Delete)
	}
}

func (h *ChallengeHandler) List(c *gin.Context) {
	challenges, err := h.challengeService.List(c.Request.Context(),
		c.Query("skill"), c.Query("difficulty"), h.CurrentRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, challenges)
}

func (h *ChallengeHandler) Get(c *gin.Context) {
	challenge, err := h.challengeService.Get(c.Request.Context(), c.Param("id"), h.CurrentRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, challenge)
}

func (h *ChallengeHandler) Random(c *gin.Context) {
	challenge, err := h.challengeService.Random(c.Request.Context(), c.Query("skill"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, challenge)
}

func (h *ChallengeHandler) Search(c *gin.Context) {
	challenges, err := h.challengeService.Search(c.Request.Context(), c.Query("q"), h.CurrentRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, challenges)
}

func (h *ChallengeHandler) Stats(c *gin.Context) {
	stats, err := h.challengeService.Stats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}

func (h *ChallengeHandler) Create(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChallengeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	challenge, err := h.challengeService.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, challenge)
}

func (h *ChallengeHandler) Update(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateChallengeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	challenge, err := h.challengeService.Update(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, challenge)
}

// Delete убирает задачу: без попыток - физически, иначе деактивация,
// чтобы выданные кредиты не теряли ссылку на условие
func (h *ChallengeHandler) Delete(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	deleted, err := h.challengeService.Delete(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if deleted {
		h.Message(c, http.StatusOK, "Challenge deleted")
		return
	}
	h.Message(c, http.StatusOK, "Challenge deactivated: existing assessments reference it")
}
