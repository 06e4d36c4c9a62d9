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

type VendorHandler struct {
	*BaseHandler
	vendorService services.VendorService
}

func NewVendorHandler(base *BaseHandler, vendorService services.VendorService) *VendorHandler {
	return &VendorHandler{
		BaseHandler:   base,
		vendorService: vendorService,
	}
}

func (h *VendorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/vendors")
	public.Use(middleware.OptionalAuthMiddleware())
	{
		public.GET("/public", h.PublicList)
		public.GET("/top", h.Top)
	}

	vendors := rg.Group("/vendors")
	vendors.Use(middleware.AuthMiddleware())
	{
		vendors.GET("", middleware.RequirePermission(auth.PermManageVendors), h.List)
		vendors.POST("", h.Create)
		vendors.GET("/:id", h.Get)
		vendors.PUT("/:id", h.Update)
		vendors.DELETE("/:id", middleware.RequireRoles(models.UserRoleAdmin), h.Delete)
	}
}

func (h *VendorHandler) vendorFilter(c *gin.Context) repositories.VendorFilter {
	page, pageSize := ParsePagination(c)
	return repositories.VendorFilter{
		Status:   models.VendorStatus(c.Query("status")),
		Category: c.Query("category"),
		County:   c.Query("county"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}
}

func (h *VendorHandler) PublicList(c *gin.Context) {
	result, err := h.vendorService.PublicList(c.Request.Context(), h.vendorFilter(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *VendorHandler) Top(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 10)

	vendors, err := h.vendorService.Top(c.Request.Context(), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, vendors)
}

func (h *VendorHandler) List(c *gin.Context) {
	result, err := h.vendorService.List(c.Request.Context(), h.vendorFilter(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, result)
}

func (h *VendorHandler) Get(c *gin.Context) {
	vendor, err := h.vendorService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, vendor)
}

func (h *VendorHandler) Create(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateVendorRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), actorID, h.CurrentRole(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, vendor)
}

func (h *VendorHandler) Update(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateVendorRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), actorID, h.CurrentRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, vendor)
}

func (h *VendorHandler) Delete(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Vendor deleted")
}
