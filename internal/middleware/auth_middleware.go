package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"chat-history/internal/services"
	"chat-history/internal/transport/httpdto"
	history_errors "chat-history/pkg/errors"
	"chat-history/pkg/logger"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(service *services.AuthService, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		principal, err := service.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, history_errors.ErrUnauthorized) {
				if l != nil {
					l.WithContext(c.Request.Context()).Sugar().Errorf("principal lookup failed: %v", err)
				}
				c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error", "INTERNAL_ERROR"))
				c.Abort()
				return
			}
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
			c.Abort()
			return
		}

		ctx := services.WithPrincipal(c.Request.Context(), principal)
		ctx = context.WithValue(ctx, logger.UserIdKey, principal.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
