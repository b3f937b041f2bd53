// internal/listing/config.go
package listing

import (
	"gemfinder/internal/common/config"
	"gemfinder/internal/pagination"
)

type Config struct {
	// RefetchOnFilterChange re-fetches page 1 on every filter change. Off,
	// a filter change only narrows the page already loaded.
	RefetchOnFilterChange bool
	PageWindow            int
}

func DefaultConfig() *Config {
	return &Config{PageWindow: pagination.DefaultWindow}
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		RefetchOnFilterChange: cfg.Listing.RefetchOnFilterChange,
		PageWindow:            cfg.Listing.PageWindow,
	}
}
