package repository

import (
	"context"
	"errors"
	"fmt"

	"chat-history/internal/domain/chat"
	history_errors "chat-history/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &PostgresChatRepository{db: db}
}

func (r *PostgresChatRepository) ListSessionsByOwner(ctx context.Context, ownerID int64) ([]chat.Session, error) {
	var sessions []chat.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, wrapQueryError("list sessions", err)
	}
	return sessions, nil
}

func (r *PostgresChatRepository) GetOwnedSession(ctx context.Context, sessionID, ownerID int64) (chat.Session, error) {
	var s chat.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, ownerID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Session{}, history_errors.ErrNotFound
		}
		return chat.Session{}, wrapQueryError("get session", err)
	}
	return s, nil
}

func (r *PostgresChatRepository) ListSessionMessages(ctx context.Context, sessionID int64) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapQueryError("list messages", err)
	}
	return messages, nil
}

func wrapQueryError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
