package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chat-history/internal/domain"
	"chat-history/internal/redis"
	"chat-history/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	result *redis.RateLimitResult
	err    error
	keys   []string
}

func (s *stubLimiter) AllowHistory(_ context.Context, principal string) (*redis.RateLimitResult, error) {
	s.keys = append(s.keys, principal)
	return s.result, s.err
}

func newLimitedEngine(limiter HistoryLimiter, p *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	if p != nil {
		engine.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(services.WithPrincipal(c.Request.Context(), *p))
			c.Next()
		})
	}
	engine.Use(HistoryRateLimitMiddleware(limiter))
	engine.GET("/sessions", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func serve(engine *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	engine.ServeHTTP(w, req)
	return w
}

func TestHistoryRateLimit_Allowed(t *testing.T) {
	limiter := &stubLimiter{result: &redis.RateLimitResult{Allowed: true, Remaining: 9, Limit: 10, ResetIn: 30 * time.Second}}
	p := domain.AccountPrincipal(5)

	w := serve(newLimitedEngine(limiter, &p))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, "30", w.Header().Get("X-RateLimit-Reset"))
	require.Equal(t, []string{"account:5"}, limiter.keys)
}

func TestHistoryRateLimit_Exceeded(t *testing.T) {
	limiter := &stubLimiter{result: &redis.RateLimitResult{Allowed: false, Remaining: 0, Limit: 10, ResetIn: 12 * time.Second}}
	p := domain.AccountPrincipal(5)

	w := serve(newLimitedEngine(limiter, &p))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "RATE_LIMITED")
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestHistoryRateLimit_GuestKeyedByIP(t *testing.T) {
	limiter := &stubLimiter{result: &redis.RateLimitResult{Allowed: true, Limit: 10}}
	p := domain.GuestPrincipal()

	serve(newLimitedEngine(limiter, &p))
	require.Equal(t, []string{"guest:10.0.0.9"}, limiter.keys)
}

func TestHistoryRateLimit_LimiterError(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}
	p := domain.AccountPrincipal(5)

	w := serve(newLimitedEngine(limiter, &p))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHistoryRateLimit_NoPrincipalPassesThrough(t *testing.T) {
	limiter := &stubLimiter{}

	w := serve(newLimitedEngine(limiter, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, limiter.keys)
}
