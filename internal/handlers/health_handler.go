package handlers

import (
	"net/http"

	"procurechain_backend/internal/cache"
	"procurechain_backend/internal/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const serviceVersion = "1.0.0"

// HealthHandler отвечает на /health без аутентификации и лимитов
type HealthHandler struct {
	db         *gorm.DB
	cacheStore cache.Cache
	cfg        *config.Config
}

func NewHealthHandler(db *gorm.DB, cacheStore cache.Cache, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, cacheStore: cacheStore, cfg: cfg}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	}

	cacheStatus := "disabled"
	if h.cfg.Cache.Enabled {
		cacheStatus = "ok"
		if err := h.cacheStore.Ping(ctx); err != nil {
			cacheStatus = "error: " + err.Error()
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "procurechain_backend",
		"version": serviceVersion,
		"env":     h.cfg.Server.Env,
		"checks": gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
	})
}
