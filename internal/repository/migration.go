package repository

import (
	"fmt"

	"chat-history/internal/domain/account"
	"chat-history/internal/domain/chat"

	"gorm.io/gorm"
)

// Models lists every table owned by this service, parents first.
func Models() []interface{} {
	return []interface{}{
		&account.Account{},
		&chat.Session{},
		&chat.Message{},
	}
}

// InitSchema creates or updates the accounts, chat_sessions and
// chat_messages tables together with their indexes and foreign keys.
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}
