package chat

import (
	"time"
)

// Sender is the author role of a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Session represents the chat_sessions table. Sessions are created by the
// message-posting flow; this service only reads them.
type Session struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;index:idx_chat_sessions_user_updated,priority:1"`
	Title     string    `gorm:"size:255;not null;default:'New Chat'"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;index:idx_chat_sessions_user_updated,priority:2"`

	// Relationships
	Messages []Message `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// Message represents the chat_messages table
type Message struct {
	ID        int64     `gorm:"primaryKey"`
	SessionID int64     `gorm:"not null;index:idx_chat_messages_session_ts,priority:1"`
	Sender    Sender    `gorm:"size:20;not null"`
	Text      string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null;index:idx_chat_messages_session_ts,priority:2"`
}

func (Session) TableName() string {
	return "chat_sessions"
}

func (Message) TableName() string {
	return "chat_messages"
}
