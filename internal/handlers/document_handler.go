package handlers

import (
	"net/http"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/middleware"
	"procurechain_backend/internal/services"
	"procurechain_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	*BaseHandler
	documentService services.DocumentService
}

func NewDocumentHandler(base *BaseHandler, documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     base,
		documentService: documentService,
	}
}

func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	documents.Use(middleware.AuthMiddleware())
	{
		documents.POST("/upload", middleware.RequirePermission(auth.PermUploadDocuments), h.Upload)
		documents.GET("/:id", h.Get)
		documents.GET("/:id/download", h.Download)
		documents.GET("/:id/parse", middleware.RequirePermission(auth.PermManageProcurements), h.Parse)
		documents.DELETE("/:id", h.Delete)
		documents.GET("/procurement/:procurement_id", h.ByProcurement)
	}
}

// Upload принимает multipart-форму: procurement_id + file
func (h *DocumentHandler) Upload(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	procurementID := c.PostForm("procurement_id")
	if procurementID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("procurement_id is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("file is required: "+err.Error()))
		return
	}

	document, err := h.documentService.Upload(c.Request.Context(), actorID, procurementID, fileHeader)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, document)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	document, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, document)
}

// Download отдает сам файл, а не JSON-конверт
func (h *DocumentHandler) Download(c *gin.Context) {
	document, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.FileAttachment(document.StoredPath, document.OriginalName)
}

func (h *DocumentHandler) Parse(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	document, err := h.documentService.Parse(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, document)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.documentService.Delete(c.Request.Context(), actorID, h.CurrentRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Document deleted")
}

func (h *DocumentHandler) ByProcurement(c *gin.Context) {
	documents, err := h.documentService.ByProcurement(c.Request.Context(), c.Param("procurement_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, documents)
}
