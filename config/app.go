package config

// App 运行环境，Env 为 dev 时日志输出控制台格式
type App struct {
	Env      string `json:"env" yaml:"env" env:"APP_ENV"`
	Debug    bool   `json:"debug" yaml:"debug" env:"BINGO_DEBUG"`
	LogLevel string `json:"log_level" yaml:"log_level" env:"BINGO_LOG_LEVEL"`
}

func (a *App) IsDev() bool {
	return a.Env == "" || a.Env == "dev"
}
