package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"procurechain_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Скользящее окно в памяти: та же семантика, что у таблицы request_logs
type memoryRequestLog struct {
	entries map[string][]time.Time
}

func newMemoryRequestLog() *memoryRequestLog {
	return &memoryRequestLog{entries: map[string][]time.Time{}}
}

func (m *memoryRequestLog) Record(identifier, endpoint string) error {
	m.entries[identifier] = append(m.entries[identifier], time.Now())
	return nil
}

func (m *memoryRequestLog) CountInWindow(identifier string, since time.Time) (int64, error) {
	var count int64
	for _, at := range m.entries[identifier] {
		if at.After(since) {
			count++
		}
	}
	return count, nil
}

func (m *memoryRequestLog) OldestInWindow(identifier string, since time.Time) (*time.Time, error) {
	var oldest *time.Time
	for i := range m.entries[identifier] {
		at := m.entries[identifier][i]
		if at.After(since) && (oldest == nil || at.Before(*oldest)) {
			oldest = &at
		}
	}
	return oldest, nil
}

func (m *memoryRequestLog) CleanOlderThan(cutoff time.Time) (int64, error) {
	var removed int64
	for id, times := range m.entries {
		kept := times[:0]
		for _, at := range times {
			if at.After(cutoff) {
				kept = append(kept, at)
			} else {
				removed++
			}
		}
		m.entries[id] = kept
	}
	return removed, nil
}

func rateLimitedRouter(limit int, windowSeconds int, enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.RateLimit.Enabled = enabled
	cfg.RateLimit.Requests = limit
	cfg.RateLimit.Window = windowSeconds

	limiter := NewRateLimiter(newMemoryRequestLog(), cfg)

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	router := rateLimitedRouter(3, 60, true)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_Headers(t *testing.T) {
	router := rateLimitedRouter(10, 60, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	router := rateLimitedRouter(1, 60, false)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"), "Disabled limiter adds no headers")
	}
}

// Отказ хранилища лимитов не должен ронять запрос
type failingRequestLog struct{}

func (f *failingRequestLog) Record(identifier, endpoint string) error { return assert.AnError }
func (f *failingRequestLog) CountInWindow(identifier string, since time.Time) (int64, error) {
	return 0, assert.AnError
}
func (f *failingRequestLog) OldestInWindow(identifier string, since time.Time) (*time.Time, error) {
	return nil, assert.AnError
}
func (f *failingRequestLog) CleanOlderThan(cutoff time.Time) (int64, error) {
	return 0, assert.AnError
}

func TestRateLimiter_StorageFailureIsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Requests = 1
	cfg.RateLimit.Window = 60

	limiter := NewRateLimiter(&failingRequestLog{}, cfg)

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "Limiter must fail open when storage is down")
	}
}
