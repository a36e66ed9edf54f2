package services

import (
	"context"
	"fmt"

	"chat-history/internal/domain"
	"chat-history/internal/domain/chat"
	"chat-history/internal/repository"
	history_errors "chat-history/pkg/errors"
)

// HistoryService answers read-only chat history queries for registered
// accounts.
type HistoryService struct {
	chats repository.ChatRepository
}

func NewHistoryService(chats repository.ChatRepository) *HistoryService {
	return &HistoryService{chats: chats}
}

// RequireAccount is the identity guard: it returns the account id of a
// registered principal and ErrForbidden for guests.
func (s *HistoryService) RequireAccount(p domain.Principal) (int64, error) {
	switch p.Kind {
	case domain.PrincipalAccount:
		return p.AccountID, nil
	case domain.PrincipalGuest:
		return 0, fmt.Errorf("guest principal: %w", history_errors.ErrForbidden)
	default:
		return 0, fmt.Errorf("unknown principal kind %d: %w", p.Kind, history_errors.ErrForbidden)
	}
}

func (s *HistoryService) ListSessions(ctx context.Context, p domain.Principal) ([]chat.Session, error) {
	accountID, err := s.RequireAccount(p)
	if err != nil {
		return nil, err
	}
	return s.chats.ListSessionsByOwner(ctx, accountID)
}

// ListMessages returns the messages of a session owned by p. Missing sessions
// and sessions owned by other accounts both yield ErrNotFound.
func (s *HistoryService) ListMessages(ctx context.Context, p domain.Principal, sessionID int64) ([]chat.Message, error) {
	accountID, err := s.RequireAccount(p)
	if err != nil {
		return nil, err
	}
	if sessionID <= 0 {
		return nil, history_errors.ErrNotFound
	}

	session, err := s.chats.GetOwnedSession(ctx, sessionID, accountID)
	if err != nil {
		return nil, err
	}
	return s.chats.ListSessionMessages(ctx, session.ID)
}
