package handler

import (
	"net/http"
	"regexp"
	"strconv"

	"chat-history/internal/repository"
	"chat-history/internal/services"
	"chat-history/internal/transport/httpdto"
	"chat-history/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgRegisteredOnly  = "Chat history is only available for registered users"
	msgSessionNotFound = "Chat session not found or access denied"
)

var sessionIDPattern = regexp.MustCompile(`^[0-9]+$`)

type HistoryHandler struct {
	service *services.HistoryService
	logger  *logger.Logger
}

func NewHistoryHandler(service *services.HistoryService, l *logger.Logger) *HistoryHandler {
	return &HistoryHandler{service: service, logger: l}
}

// ListSessions handles GET /sessions.
func (h *HistoryHandler) ListSessions(c *gin.Context) {
	principal, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	items, err := h.service.ListSessions(c.Request.Context(), principal)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.ListSessionsResponse{
		Sessions: httpdto.FromSessionSlice(items),
	})
}

// ListMessages handles GET /sessions/:session_id/messages.
func (h *HistoryHandler) ListMessages(c *gin.Context) {
	// Non-numeric ids never match the route, mirroring an <int:...> converter.
	raw := c.Param("session_id")
	if !sessionIDPattern.MatchString(raw) {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
		return
	}
	// Ids beyond int64 cannot exist; 0 is rejected by the service after the guard.
	sessionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		sessionID = 0
	}

	principal, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	items, err := h.service.ListMessages(c.Request.Context(), principal, sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.ListMessagesResponse{
		Messages: httpdto.FromMessageSlice(items),
	})
}

func (h *HistoryHandler) writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	switch status {
	case http.StatusForbidden:
		c.JSON(status, httpdto.NewErrorResponse(msgRegisteredOnly, "FORBIDDEN"))
	case http.StatusNotFound:
		c.JSON(status, httpdto.NewErrorResponse(msgSessionNotFound, "NOT_FOUND"))
	default:
		if h.logger != nil {
			fields := []zap.Field{zap.Error(err), zap.String("path", c.FullPath())}
			if code := repository.PgErrorCode(err); code != "" {
				fields = append(fields, zap.String("sqlstate", code))
			}
			h.logger.WithContext(c.Request.Context()).Error("chat history query failed", fields...)
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error", "INTERNAL_ERROR"))
	}
}
