package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"chat-history/internal/redis"
	"chat-history/internal/services"
	"chat-history/internal/transport/httpdto"
	history_errors "chat-history/pkg/errors"

	"github.com/gin-gonic/gin"
)

// HistoryLimiter is the subset of redis.RateLimiter the history routes need.
type HistoryLimiter interface {
	AllowHistory(ctx context.Context, principal string) (*redis.RateLimitResult, error)
}

// HistoryRateLimitMiddleware limits history reads per principal. Guests are
// keyed by client IP. Must run after AuthMiddleware.
func HistoryRateLimitMiddleware(limiter HistoryLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := services.PrincipalFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		key := principal.String()
		if _, isAccount := principal.Account(); !isAccount {
			key = "guest:" + c.ClientIP()
		}

		result, err := limiter.AllowHistory(c.Request.Context(), key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			err := fmt.Errorf("history reads for %s: %w", key, history_errors.ErrRateLimited)
			c.JSON(services.HTTPStatus(err), httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
