package config

type OssConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint" env:"BINGO_OSS_ENDPOINT"`
	Region          string `json:"region" yaml:"region" env:"BINGO_OSS_REGION"`
	Bucket          string `json:"bucket" yaml:"bucket" env:"BINGO_OSS_BUCKET"`
	AccessKeyID     string `json:"ak" yaml:"ak" env:"BINGO_OSS_AK"`
	AccessKeySecret string `json:"sk" yaml:"sk" env:"BINGO_OSS_SK"`
	// CDN 对外访问域名，为空时使用 bucket.endpoint
	PublicHost string `json:"public_host" yaml:"public_host"`
}

func ProvideOssConfig(cfg *Config) *OssConfig {
	return cfg.Oss
}
