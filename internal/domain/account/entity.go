package account

import (
	"time"

	"chat-history/internal/domain/chat"
)

// Account represents the accounts table
type Account struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"not null"`

	// Relationships
	Sessions []chat.Session `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Account) TableName() string {
	return "accounts"
}
