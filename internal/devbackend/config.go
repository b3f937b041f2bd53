// internal/devbackend/config.go
package devbackend

import (
	"gemfinder/internal/common/config"
)

type Config struct {
	Address  string
	PageSize int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Address:  cfg.Server.Address,
		PageSize: cfg.Backend.PageSize,
	}
}
