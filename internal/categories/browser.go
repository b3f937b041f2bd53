// internal/categories/browser.go
package categories

import (
	"context"
	"strings"
	"sync"

	apperrors "gemfinder/internal/common/errors"
	"gemfinder/internal/common/logger"
	"gemfinder/internal/models"
)

// Source supplies the full category set. *gems.Client implements it.
type Source interface {
	FetchCategories(ctx context.Context) ([]models.Category, error)
}

// Entry is a category together with the route slug that opens its listing.
type Entry struct {
	Category models.Category
	Slug     string
}

// Page is one client-side page of the (optionally searched) categories.
type Page struct {
	Query      string
	Page       int
	TotalPages int
	TotalItems int
	Items      []Entry
}

// Browser fetches categories once and pages through them locally.
type Browser struct {
	source Source
	config *Config
	logger logger.Logger

	mu     sync.RWMutex
	all    []models.Category
	loaded bool
}

func NewBrowser(source Source, config *Config, log logger.Logger) *Browser {
	if config == nil || config.PageSize <= 0 {
		config = &Config{PageSize: DefaultPageSize}
	}
	return &Browser{
		source: source,
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "categories"}),
	}
}

// Load fetches the category set, replacing any previous one.
func (b *Browser) Load(ctx context.Context) error {
	cats, err := b.source.FetchCategories(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.all = cats
	b.loaded = true
	b.mu.Unlock()

	b.logger.Debug("categories loaded", map[string]interface{}{"count": len(cats)})
	return nil
}

func (b *Browser) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// View returns page n (1-based) of the categories whose name contains query,
// case-insensitively. An empty result is a single empty page.
func (b *Browser) View(query string, n int) (*Page, error) {
	matches := b.Search(query)

	size := b.config.PageSize
	total := (len(matches) + size - 1) / size
	if total == 0 {
		total = 1
	}
	if n < 1 || n > total {
		return nil, apperrors.NewInvalidPageError(n, total)
	}

	start := (n - 1) * size
	end := min(start+size, len(matches))

	items := make([]Entry, 0, end-start)
	for _, cat := range matches[start:end] {
		items = append(items, Entry{Category: cat, Slug: cat.Slug()})
	}

	return &Page{
		Query:      query,
		Page:       n,
		TotalPages: total,
		TotalItems: len(matches),
		Items:      items,
	}, nil
}

// Search returns the categories whose name contains query, in server order.
func (b *Browser) Search(query string) []models.Category {
	needle := strings.ToLower(strings.TrimSpace(query))

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Category, 0, len(b.all))
	for _, cat := range b.all {
		if needle == "" || strings.Contains(strings.ToLower(cat.CategoryName), needle) {
			out = append(out, cat)
		}
	}
	return out
}

// BySlug finds the category a route slug refers to, using fingerprint
// equality.
func (b *Browser) BySlug(slug string) (models.Category, bool) {
	want := models.Fingerprint(slug)
	if want == "" {
		return models.Category{}, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, cat := range b.all {
		if models.Fingerprint(cat.CategoryName) == want {
			return cat, true
		}
	}
	return models.Category{}, false
}
