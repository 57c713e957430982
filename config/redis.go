package config

import (
	"net"
	"strconv"
)

// Redis 验证码、吊销标记、未读数、在线状态共用
type Redis struct {
	Address  string `json:"address" yaml:"address" env:"BINGO_REDIS_ADDR"`
	Port     int    `json:"port" yaml:"port" env:"BINGO_REDIS_PORT"`
	Username string `json:"username" yaml:"username" env:"BINGO_REDIS_USERNAME"`
	Password string `json:"password" yaml:"password" env:"BINGO_REDIS_PASSWORD"`
	Database int    `json:"database" yaml:"database" env:"BINGO_REDIS_DB"`
}

func (r *Redis) Addr() string {
	host := r.Address
	if host == "" {
		host = "127.0.0.1"
	}
	port := r.Port
	if port == 0 {
		port = 6379
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
