package config

type RocketMQConfig struct {
	// 关闭时使用进程内事件总线
	Enabled bool `yaml:"enabled" env:"BINGO_ROCKETMQ_ENABLED"`

	NameServer []string `yaml:"nameserver" env:"BINGO_ROCKETMQ_NAMESERVER"`

	Producer Producer `yaml:"producer"`

	Consumer Consumer `yaml:"consumer"`
}

type Producer struct {
	Group string `yaml:"group"`
	Retry int    `yaml:"retry"`
}

type Consumer struct {
	Group string `yaml:"group"`
}

func (r *RocketMQConfig) fillDefaults() {
	if r.Producer.Group == "" {
		r.Producer.Group = "bingo_producer"
	}
	if r.Producer.Retry == 0 {
		r.Producer.Retry = 2
	}
	if r.Consumer.Group == "" {
		r.Consumer.Group = "bingo_consumer"
	}
}

func ProvideRocketMQConfig(cfg *Config) *RocketMQConfig {
	return cfg.RocketMQ
}
