package database

import (
	"fmt"
	"time"

	"chat-history/internal/domain/account"
	"chat-history/internal/domain/chat"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedConfig controls development seeding.
type SeedConfig struct {
	Password string
	Base     time.Time
}

func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		Password: "Passw0rd!",
		Base:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

type SeedResult struct {
	Accounts []account.Account
	Sessions []chat.Session
	Messages []chat.Message
}

type seedMessage struct {
	sender chat.Sender
	text   string
	offset time.Duration
}

type seedSession struct {
	owner    int
	title    string
	messages []seedMessage
}

var seedUsernames = []string{"alice", "bob"}

var seedSessions = []seedSession{
	{
		owner: 0,
		title: "Trip planning",
		messages: []seedMessage{
			{chat.SenderUser, "Where should I go?", 59 * time.Minute},
			{chat.SenderAssistant, "Consider Japan.", 60 * time.Minute},
		},
	},
	{
		owner: 0,
		title: "Recipe ideas",
		messages: []seedMessage{
			{chat.SenderUser, "Something quick with lentils?", 10 * time.Minute},
			{chat.SenderAssistant, "Try a red lentil dal.", 11 * time.Minute},
		},
	},
	{owner: 0, title: "New Chat"},
	{
		owner: 1,
		title: "Go generics",
		messages: []seedMessage{
			{chat.SenderUser, "When should I use type parameters?", 30 * time.Minute},
			{chat.SenderAssistant, "When the algorithm is the same for every element type.", 31 * time.Minute},
		},
	},
}

// SeedDevelopment inserts demo accounts with sessions and messages in one
// transaction. Session updated_at is set to the time of its last message.
// Accounts that already own sessions get none, so re-running is safe.
func SeedDevelopment(db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	result := &SeedResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, name := range seedUsernames {
			a := account.Account{
				Username:     name,
				PasswordHash: string(hash),
				CreatedAt:    cfg.Base,
			}
			if err := tx.Where(account.Account{Username: name}).FirstOrCreate(&a).Error; err != nil {
				return fmt.Errorf("seed account %s: %w", name, err)
			}
			result.Accounts = append(result.Accounts, a)
		}

		// Accounts that already own sessions were seeded earlier; leave them alone.
		seeded := make(map[int]bool, len(result.Accounts))
		for i, a := range result.Accounts {
			var n int64
			if err := tx.Model(&chat.Session{}).Where("user_id = ?", a.ID).Count(&n).Error; err != nil {
				return fmt.Errorf("count sessions for %s: %w", a.Username, err)
			}
			seeded[i] = n > 0
		}

		for i, def := range seedSessions {
			if seeded[def.owner] {
				continue
			}
			updated := cfg.Base.Add(time.Duration(i) * time.Hour)
			if n := len(def.messages); n > 0 {
				updated = cfg.Base.Add(def.messages[n-1].offset)
			}
			s := chat.Session{
				UserID:    result.Accounts[def.owner].ID,
				Title:     def.title,
				CreatedAt: cfg.Base,
				UpdatedAt: updated,
			}
			if err := tx.Create(&s).Error; err != nil {
				return fmt.Errorf("seed session %q: %w", def.title, err)
			}
			result.Sessions = append(result.Sessions, s)

			for _, m := range def.messages {
				msg := chat.Message{
					SessionID: s.ID,
					Sender:    m.sender,
					Text:      m.text,
					Timestamp: cfg.Base.Add(m.offset),
				}
				if err := tx.Create(&msg).Error; err != nil {
					return fmt.Errorf("seed message: %w", err)
				}
				result.Messages = append(result.Messages, msg)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TruncateAll removes every row, children first.
func TruncateAll(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&chat.Message{}, &chat.Session{}, &account.Account{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
