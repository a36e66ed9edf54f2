package httpdto

import (
	"time"

	"chat-history/internal/domain/chat"
)

const (
	timestampLayout      = "2006-01-02T15:04:05"
	timestampMicroLayout = "2006-01-02T15:04:05.000000"
)

type SessionResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

type MessageResponse struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// FormatTimestamp renders t in UTC as an ISO-8601 string without offset.
// Microseconds are appended only when non-zero, so whole seconds render as
// "2024-03-01T10:00:00".
func FormatTimestamp(t time.Time) string {
	t = t.UTC().Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format(timestampLayout)
	}
	return t.Format(timestampMicroLayout)
}

func FromSession(s chat.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		UpdatedAt: FormatTimestamp(s.UpdatedAt),
	}
}

func FromSessionSlice(items []chat.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSession(s))
	}
	return out
}

func FromMessage(m chat.Message) MessageResponse {
	return MessageResponse{
		Sender:    string(m.Sender),
		Text:      m.Text,
		Timestamp: FormatTimestamp(m.Timestamp),
	}
}

func FromMessageSlice(items []chat.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, FromMessage(m))
	}
	return out
}
