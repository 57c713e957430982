package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App      *App            `json:"app" yaml:"app"`
	Redis    *Redis          `json:"redis" yaml:"redis"`
	MySQL    *MySQL          `json:"mysql" yaml:"mysql"`
	Jwt      *Jwt            `json:"jwt" yaml:"jwt"`
	Auth     *Auth           `json:"auth" yaml:"auth"`
	Oss      *OssConfig      `json:"oss" yaml:"oss"`
	Server   *Server         `json:"server" yaml:"server"`
	RocketMQ *RocketMQConfig `json:"rocketmq" yaml:"rocketmq"`
	Sweeper  *Sweeper        `json:"sweeper" yaml:"sweeper"`
	Feed     *Feed           `json:"feed" yaml:"feed"`
}

type Server struct {
	Http int `json:"http" yaml:"http" env:"BINGO_HTTP_PORT"`
}

// New 读取 yaml 配置，再用环境变量覆盖
func New(filename string) *Config {
	conf, err := Load(filename)
	if err != nil {
		panic(err)
	}
	return conf
}

func Load(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var conf Config
	if err := yaml.Unmarshal(content, &conf); err != nil {
		return nil, fmt.Errorf("解析 %s 读取错误: %w", filename, err)
	}
	conf.fillDefaults()

	if err := env.Parse(&conf); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &conf, nil
}

// Default 全默认值配置，测试与本地调试使用
func Default() *Config {
	var conf Config
	conf.fillDefaults()
	return &conf
}

func (c *Config) fillDefaults() {
	if c.App == nil {
		c.App = &App{Env: "dev"}
	}
	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Redis == nil {
		c.Redis = &Redis{Address: "127.0.0.1", Port: 6379}
	}
	if c.MySQL == nil {
		c.MySQL = &MySQL{}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	c.Jwt.fillDefaults()
	if c.Auth == nil {
		c.Auth = &Auth{}
	}
	c.Auth.fillDefaults()
	if c.Oss == nil {
		c.Oss = &OssConfig{}
	}
	if c.RocketMQ == nil {
		c.RocketMQ = &RocketMQConfig{}
	}
	c.RocketMQ.fillDefaults()
	if c.Sweeper == nil {
		c.Sweeper = &Sweeper{}
	}
	c.Sweeper.fillDefaults()
	if c.Feed == nil {
		c.Feed = &Feed{}
	}
	c.Feed.fillDefaults()
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
