package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"chat-history/internal/domain/account"
	"chat-history/internal/domain/chat"
	history_errors "chat-history/pkg/errors"
)

// MemoryStore keeps accounts, sessions and messages in process memory. It
// implements AccountRepository and ChatRepository with the same ordering and
// ownership rules as the Postgres repositories and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[int64]account.Account
	sessions map[int64]chat.Session
	messages map[int64][]chat.Message
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[int64]account.Account),
		sessions: make(map[int64]chat.Session),
		messages: make(map[int64][]chat.Message),
	}
}

// AddAccount stores a; a zero ID is replaced with a generated one.
func (m *MemoryStore) AddAccount(a account.Account) account.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.allocID()
	}
	m.accounts[a.ID] = a
	return a
}

// RemoveAccount deletes an account and cascades to its sessions and messages.
func (m *MemoryStore) RemoveAccount(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	for sid, s := range m.sessions {
		if s.UserID == id {
			delete(m.sessions, sid)
			delete(m.messages, sid)
		}
	}
}

func (m *MemoryStore) AddSession(s chat.Session) chat.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == 0 {
		s.ID = m.allocID()
	}
	s.Messages = nil
	m.sessions[s.ID] = s
	return s
}

func (m *MemoryStore) AddMessage(msg chat.Message) chat.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == 0 {
		msg.ID = m.allocID()
	}
	m.messages[msg.SessionID] = append(m.messages[msg.SessionID], msg)
	return msg
}

func (m *MemoryStore) allocID() int64 {
	m.nextID++
	for m.taken(m.nextID) {
		m.nextID++
	}
	return m.nextID
}

func (m *MemoryStore) taken(id int64) bool {
	if _, ok := m.accounts[id]; ok {
		return true
	}
	_, ok := m.sessions[id]
	return ok
}

func (m *MemoryStore) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[id]
	return ok, nil
}

func (m *MemoryStore) ListSessionsByOwner(ctx context.Context, ownerID int64) ([]chat.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]chat.Session, 0)
	for _, s := range m.sessions {
		if s.UserID == ownerID {
			out = append(out, s)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b chat.Session) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (m *MemoryStore) GetOwnedSession(ctx context.Context, sessionID, ownerID int64) (chat.Session, error) {
	if err := ctx.Err(); err != nil {
		return chat.Session{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != ownerID {
		return chat.Session{}, history_errors.ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) ListSessionMessages(ctx context.Context, sessionID int64) ([]chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := slices.Clone(m.messages[sessionID])
	m.mu.RUnlock()
	if out == nil {
		out = make([]chat.Message, 0)
	}

	slices.SortFunc(out, func(a, b chat.Message) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
