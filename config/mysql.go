package config

import "fmt"

// MySQL 数据库配置
type MySQL struct {
	DSN      string `json:"dsn" yaml:"dsn" env:"BINGO_MYSQL_DSN"`
	Host     string `json:"host" yaml:"host" env:"BINGO_MYSQL_HOST"`
	Port     int    `json:"port" yaml:"port" env:"BINGO_MYSQL_PORT"`
	Username string `json:"username" yaml:"username" env:"BINGO_MYSQL_USER"`
	Password string `json:"password" yaml:"password" env:"BINGO_MYSQL_PASSWORD"`
	Database string `json:"database" yaml:"database" env:"BINGO_MYSQL_DATABASE"`
	MaxOpen  int    `json:"max_open" yaml:"max_open"`
	MaxIdle  int    `json:"max_idle" yaml:"max_idle"`
}

// Dsn 时间统一按 UTC 读写
func (m *MySQL) Dsn() string {
	if m.DSN != "" {
		return m.DSN
	}
	port := m.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		m.Username, m.Password, m.Host, port, m.Database)
}
