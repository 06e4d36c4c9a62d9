package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError приводит любую ошибку к единому конверту ответа:
// {"success": false, "error": "...", "errors": {...}}
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		slog.Error("request failed",
			"code", string(appErr.Code),
			"domain", appErr.Domain,
			"error", appErr.Error(),
		)
		if !h.Debug {
			// В продакшене скрываем внутренние детали
			appErr = New(appErr.Code, appErr.Domain, "Internal server error", appErr.HTTPCode)
		}
	}

	body := gin.H{
		"success": false,
		"error":   appErr.Message,
	}
	if appErr.Details != nil {
		body["errors"] = appErr.Details
	}

	c.JSON(appErr.HTTPCode, body)
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() != gin.ReleaseMode}
	handler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
