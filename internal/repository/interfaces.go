package repository

import (
	"context"

	"chat-history/internal/domain/chat"
)

type AccountRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ChatRepository interface {
	// ListSessionsByOwner returns the owner's sessions, most recently
	// updated first.
	ListSessionsByOwner(ctx context.Context, ownerID int64) ([]chat.Session, error)
	// GetOwnedSession looks a session up by id and owner in one query.
	// A session owned by someone else is reported as ErrNotFound.
	GetOwnedSession(ctx context.Context, sessionID, ownerID int64) (chat.Session, error)
	// ListSessionMessages returns the session's messages in chronological order.
	ListSessionMessages(ctx context.Context, sessionID int64) ([]chat.Message, error)
}
