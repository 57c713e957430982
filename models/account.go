package models

import "time"

// Account 登录账号，只保存认证信息，资料在 users 表
type Account struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Email         string    `gorm:"column:email;type:varchar(191);not null;uniqueIndex:uk_accounts_email" json:"email"`
	PasswordHash  string    `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	EmailVerified bool      `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
