package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort        string `mapstructure:"SERVER_PORT"`
	RedisUrl          string `mapstructure:"REDIS_URL"`
	MongoUri          string `mapstructure:"MONGO_URI"`
	IsLocalCors       bool   `mapstructure:"LOCAL_CORS"`
	CacheTTLSeconds   int    `mapstructure:"CACHE_TTL_SECONDS"`
	PageLimitAnalyses int    `mapstructure:"PAGE_LIMIT_ANALYSES"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CacheTTLSeconds == 0 {
		cfg.CacheTTLSeconds = 3600
	}
	if cfg.PageLimitAnalyses == 0 {
		cfg.PageLimitAnalyses = 20
	}

	return &cfg, nil
}
