package dao

import (
	"Bingo/models"
	"context"

	"gorm.io/gorm"
)

type Account struct {
	Repo[models.Account]
}

func NewAccount(db *gorm.DB) *Account {
	return &Account{Repo: NewRepo[models.Account](db)}
}

func (a *Account) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return a.Repo.FindByWhere(ctx, "email = ?", email)
}

func (a *Account) SetVerified(ctx context.Context, id uint64) error {
	return a.Db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("email_verified", true).Error
}

func (a *Account) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res := a.Db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateWithProfile 注册时账号和资料一起写入
func (a *Account) CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Users) error {
	return a.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		return tx.Create(profile).Error
	})
}

func (a *Account) DeleteByID(ctx context.Context, id uint64) error {
	_, err := a.Repo.Delete(ctx, "id = ?", id)
	return err
}
