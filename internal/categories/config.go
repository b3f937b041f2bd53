// internal/categories/config.go
package categories

import "gemfinder/internal/common/config"

const DefaultPageSize = 12

type Config struct {
	PageSize int
}

func LoadConfig(cfg *config.Config) *Config {
	size := cfg.Listing.CategoriesPageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Config{PageSize: size}
}
