package repository

import (
	"context"

	"chat-history/internal/domain/account"

	"gorm.io/gorm"
)

type PostgresAccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&account.Account{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, wrapQueryError("check account", err)
	}
	return count > 0, nil
}
