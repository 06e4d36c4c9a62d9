package handlers

import (
	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	*BaseHandler
	bidService  services.BidService
	userService services.UserService
}

func NewBidHandler(base *BaseHandler, bidService services.BidService, userService services.UserService) *BidHandler {
	return &BidHandler{
		BaseHandler: base,
		bidService:  bidService,
		userService: userService,
	}
}

func (h *BidHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Число заявок публично: суммы и участники до вскрытия скрыты
	public := rg.Group("/bids")
	public.Use(middleware.OptionalAuthMiddleware())
	{
		public.GET("/procurement/:procurement_id/count", h.PublicCount)
	}

	bids := rg.Group("/bids")
	bids.Use(middleware.AuthMiddleware())
	{
		bids.POST("/procurement/:procurement_id", middleware.RequirePermission(auth.PermSubmitBids), h.Submit)
		bids.GET("/procurement/:procurement_id", middleware.RequireRoles(
			models.UserRoleAdmin, models.UserRoleOfficer, models.UserRoleAuditor), h.ByProcurement)
		bids.GET("/procurement/:procurement_id/statistics", middleware.RequireRoles(
			models.UserRoleAdmin, models.UserRoleOfficer, models.UserRoleAuditor), h.Statistics)
		bids.POST("/procurement/:procurement_id/calculate-scores",
			middleware.RequirePermission(auth.PermEvaluateBids), h.CalculateScores)
		bids.GET("/vendor/my-bids", middleware.RequireRoles(models.UserRoleVendor), h.MyBids)
		bids.GET("/:id", h.Get)
		bids.POST("/:id/evaluate", middleware.RequirePermission(auth.PermEvaluateBids), h.Evaluate)
		bids.POST("/:id/award", middleware.RequirePermission(auth.PermManageProcurements), h.Award)
		bids.POST("/:id/disqualify", middleware.RequirePermission(auth.PermEvaluateBids), h.Disqualify)
	}
}

func (h *BidHandler) Submit(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitBidRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	bid, err := h.bidService.SubmitBid(c.Request.Context(), actorID, c.Param("procurement_id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, bid)
}

func (h *BidHandler) Get(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	bid, err := h.bidService.GetBid(c.Request.Context(), actorID, h.CurrentRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, bid)
}

func (h *BidHandler) ByProcurement(c *gin.Context) {
	bids, err := h.bidService.BidsByProcurement(c.Request.Context(), c.Param("procurement_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, bids)
}

func (h *BidHandler) MyBids(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	result, err := h.bidService.MyBids(c.Request.Context(), actorID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *BidHandler) PublicCount(c *gin.Context) {
	count, err := h.bidService.PublicBidCount(c.Request.Context(), c.Param("procurement_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"procurement_id": c.Param("procurement_id"), "bid_count": count})
}

func (h *BidHandler) Evaluate(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.EvaluateBidRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	// Имя оценщика уходит в протокол оценки
	actorName := ""
	if user, err := h.userService.Get(c.Request.Context(), actorID); err == nil {
		actorName = user.FullName
	}

	evaluation, err := h.bidService.EvaluateBid(c.Request.Context(), actorID, actorName, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, evaluation)
}

func (h *BidHandler) CalculateScores(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	ranked, err := h.bidService.CalculateFinalScores(c.Request.Context(), actorID, c.Param("procurement_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, ranked)
}

func (h *BidHandler) Award(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AwardBidRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	bid, err := h.bidService.AwardBid(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, bid)
}

func (h *BidHandler) Disqualify(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.DisqualifyBidRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	bid, err := h.bidService.DisqualifyBid(c.Request.Context(), actorID, c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, bid)
}

func (h *BidHandler) Statistics(c *gin.Context) {
	stats, err := h.bidService.GetBidStatistics(c.Request.Context(), c.Param("procurement_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}
