package repository

import (
	"context"
	"testing"
	"time"

	"chat-history/internal/domain/chat"
	history_errors "chat-history/pkg/errors"

	"github.com/stretchr/testify/require"
)

// seeder inserts fixtures into a store under test.
type seeder interface {
	account(t *testing.T, username string) int64
	session(t *testing.T, owner int64, title string, updated time.Time) int64
	message(t *testing.T, sessionID int64, sender chat.Sender, text string, ts time.Time)
}

type storeFactory func(t *testing.T) (ChatRepository, AccountRepository, seeder)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func runRepositoryContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("sessions are scoped to owner and newest first", func(t *testing.T) {
		chats, _, seed := newStore(t)
		alice := seed.account(t, "alice")
		bob := seed.account(t, "bob")

		older := seed.session(t, alice, "Older", base)
		newest := seed.session(t, alice, "Newest", base.Add(2*time.Hour))
		middle := seed.session(t, alice, "Middle", base.Add(time.Hour))
		seed.session(t, bob, "Bob's", base.Add(3*time.Hour))

		got, err := chats.ListSessionsByOwner(ctx, alice)
		require.NoError(t, err)
		require.Len(t, got, 3)
		require.Equal(t, []int64{newest, middle, older}, sessionIDs(got))
		require.Equal(t, "Newest", got[0].Title)
		for _, s := range got {
			require.Equal(t, alice, s.UserID)
		}
	})

	t.Run("equal updated_at breaks ties by id descending", func(t *testing.T) {
		chats, _, seed := newStore(t)
		alice := seed.account(t, "alice")
		first := seed.session(t, alice, "A", base)
		second := seed.session(t, alice, "B", base)

		got, err := chats.ListSessionsByOwner(ctx, alice)
		require.NoError(t, err)
		require.Equal(t, []int64{second, first}, sessionIDs(got))
	})

	t.Run("account without sessions gets an empty list", func(t *testing.T) {
		chats, _, seed := newStore(t)
		alice := seed.account(t, "alice")

		got, err := chats.ListSessionsByOwner(ctx, alice)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("owned session lookup hides foreign and missing sessions alike", func(t *testing.T) {
		chats, _, seed := newStore(t)
		alice := seed.account(t, "alice")
		bob := seed.account(t, "bob")
		sid := seed.session(t, alice, "Trip planning", base)

		s, err := chats.GetOwnedSession(ctx, sid, alice)
		require.NoError(t, err)
		require.Equal(t, sid, s.ID)
		require.Equal(t, "Trip planning", s.Title)

		_, err = chats.GetOwnedSession(ctx, sid, bob)
		require.ErrorIs(t, err, history_errors.ErrNotFound)

		_, err = chats.GetOwnedSession(ctx, sid+1000, alice)
		require.ErrorIs(t, err, history_errors.ErrNotFound)
	})

	t.Run("messages are chronological and session scoped", func(t *testing.T) {
		chats, _, seed := newStore(t)
		alice := seed.account(t, "alice")
		sid := seed.session(t, alice, "Trip planning", base)
		other := seed.session(t, alice, "Other", base)

		seed.message(t, sid, chat.SenderAssistant, "Consider Japan.", base.Add(time.Hour))
		seed.message(t, sid, chat.SenderUser, "Where should I go?", base.Add(59*time.Minute))
		seed.message(t, other, chat.SenderUser, "unrelated", base.Add(30*time.Minute))

		got, err := chats.ListSessionMessages(ctx, sid)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "Where should I go?", got[0].Text)
		require.Equal(t, chat.SenderUser, got[0].Sender)
		require.Equal(t, "Consider Japan.", got[1].Text)
		require.Equal(t, chat.SenderAssistant, got[1].Sender)
	})

	t.Run("session without messages gets an empty list", func(t *testing.T) {
		chats, _, seed := newStore(t)
		alice := seed.account(t, "alice")
		sid := seed.session(t, alice, "Empty", base)

		got, err := chats.ListSessionMessages(ctx, sid)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("account existence", func(t *testing.T) {
		_, accounts, seed := newStore(t)
		alice := seed.account(t, "alice")

		ok, err := accounts.Exists(ctx, alice)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = accounts.Exists(ctx, alice+1000)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func sessionIDs(items []chat.Session) []int64 {
	ids := make([]int64, 0, len(items))
	for _, s := range items {
		ids = append(ids, s.ID)
	}
	return ids
}
