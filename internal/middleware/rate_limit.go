package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"procurechain_backend/internal/config"
	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// RateLimiter ограничивает частоту запросов скользящим окном поверх
// таблицы request_logs. Идентификатор: user_id для аутентифицированных
// запросов, иначе client ip.
type RateLimiter struct {
	repo    repositories.RequestLogRepository
	limit   int64
	window  time.Duration
	enabled bool

	// каждый N-й запрос чистит устаревшие строки
	requestCounter atomic.Int64
}

const cleanupEvery = 100

func NewRateLimiter(repo repositories.RequestLogRepository, cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		repo:    repo,
		limit:   int64(cfg.RateLimit.Requests),
		window:  time.Duration(cfg.RateLimit.Window) * time.Second,
		enabled: cfg.RateLimit.Enabled,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled {
			c.Next()
			return
		}

		identifier := rl.identify(c)
		now := time.Now()
		since := now.Add(-rl.window)

		count, err := rl.repo.CountInWindow(identifier, since)
		if err != nil {
			// Отказ хранилища не должен ронять запрос
			logger.CtxWarn(c.Request.Context(), "rate limit check failed", "error", err)
			c.Next()
			return
		}

		remaining := rl.limit - count - 1
		if remaining < 0 {
			remaining = 0
		}
		reset := now.Add(rl.window).Unix()
		if oldest, err := rl.repo.OldestInWindow(identifier, since); err == nil && oldest != nil {
			reset = oldest.Add(rl.window).Unix()
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

		if count >= rl.limit {
			retryAfter := reset - now.Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
			})
			return
		}

		if err := rl.repo.Record(identifier, c.FullPath()); err != nil {
			logger.CtxWarn(c.Request.Context(), "rate limit record failed", "error", err)
		}

		if rl.requestCounter.Add(1)%cleanupEvery == 0 {
			if _, err := rl.repo.CleanOlderThan(since); err != nil {
				logger.CtxWarn(c.Request.Context(), "rate limit cleanup failed", "error", err)
			}
		}

		c.Next()
	}
}

func (rl *RateLimiter) identify(c *gin.Context) string {
	if userID := GetUserID(c); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}
