// internal/gems/config.go
package gems

import (
	"time"

	"gemfinder/internal/common/config"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: config.GetDuration(cfg.Backend.Timeout),
	}
}
