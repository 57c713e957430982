package config

import "time"

// Sweeper 过期清理任务
type Sweeper struct {
	Enabled  bool          `yaml:"enabled" env:"BINGO_SWEEPER_ENABLED"`
	Interval time.Duration `yaml:"interval" env:"BINGO_SWEEPER_INTERVAL"`
	// 单次最多清理的停用账号数
	BatchSize int `yaml:"batch_size"`
}

func (s *Sweeper) fillDefaults() {
	if s.Interval <= 0 {
		s.Interval = 10 * time.Minute
	}
	if s.BatchSize <= 0 {
		s.BatchSize = 100
	}
}

// Feed 信息流
type Feed struct {
	HomeLimit     int           `yaml:"home_limit"`
	TrendingLimit int           `yaml:"trending_limit"`
	MaxLimit      int           `yaml:"max_limit"`
	Timeout       time.Duration `yaml:"timeout"`
	// 单次请求内并发查询的协程数
	FanOut int `yaml:"fan_out"`
}

func (f *Feed) fillDefaults() {
	if f.HomeLimit <= 0 {
		f.HomeLimit = 50
	}
	if f.TrendingLimit <= 0 {
		f.TrendingLimit = 30
	}
	if f.MaxLimit <= 0 {
		f.MaxLimit = 100
	}
	if f.Timeout <= 0 {
		f.Timeout = 5 * time.Second
	}
	if f.FanOut <= 0 {
		f.FanOut = 8
	}
}

// Clamp 限制分页大小，<=0 时返回默认值
func (f *Feed) Clamp(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > f.MaxLimit {
		return f.MaxLimit
	}
	return limit
}
