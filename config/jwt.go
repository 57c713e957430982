package config

import "time"

type Jwt struct {
	Secret    string        `json:"secret" yaml:"secret" env:"BINGO_JWT_SECRET"`
	AccessTTL time.Duration `json:"access_ttl" yaml:"access_ttl" env:"BINGO_JWT_ACCESS_TTL"`
}

func (j *Jwt) fillDefaults() {
	if j.AccessTTL <= 0 {
		j.AccessTTL = 7 * 24 * time.Hour
	}
}

// Auth 账号相关
type Auth struct {
	VerifyCodeTTL time.Duration `json:"verify_code_ttl" yaml:"verify_code_ttl"`
	ResetTokenTTL time.Duration `json:"reset_token_ttl" yaml:"reset_token_ttl"`
	BcryptCost    int           `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	HashSalt      string        `json:"hash_salt" yaml:"hash_salt" env:"BINGO_HASH_SALT"`
	DefaultAvatar string        `json:"default_avatar" yaml:"default_avatar"`
}

func (a *Auth) fillDefaults() {
	if a.VerifyCodeTTL <= 0 {
		a.VerifyCodeTTL = 24 * time.Hour
	}
	if a.ResetTokenTTL <= 0 {
		a.ResetTokenTTL = 30 * time.Minute
	}
	if a.BcryptCost == 0 {
		a.BcryptCost = 10
	}
	if a.HashSalt == "" {
		a.HashSalt = "bingo"
	}
	if a.DefaultAvatar == "" {
		a.DefaultAvatar = "https://ui-avatars.com/api/?name=User&background=random&color=fff&size=200"
	}
}
