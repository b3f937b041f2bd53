// internal/listing/controller.go
package listing

import (
	"context"
	"errors"
	"sync"

	apperrors "gemfinder/internal/common/errors"
	"gemfinder/internal/common/logger"
	"gemfinder/internal/common/metrics"
	"gemfinder/internal/filter"
	"gemfinder/internal/models"
	"gemfinder/internal/pagination"

	"golang.org/x/sync/errgroup"
)

// ErrSuperseded is returned by a load whose result was discarded because a
// newer load started before it finished.
var ErrSuperseded = errors.New("listing: load superseded by a newer request")

// Controller drives the gems listing: fetch a server page, keep accepted
// gems, narrow by category route, then filter client-side at read time.
//
// Loads block until the fetch completes. Callers that want concurrency run
// them in goroutines; each load bumps a generation number and cancels the
// previous one, and a finished load only commits if it is still current.
type Controller struct {
	repo    Repository
	filters *filter.Store
	config  *Config
	logger  logger.Logger
	errs    *apperrors.ErrorHandler

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
	page       int
	route      string
	base       []models.Gem // accepted and route-matched, before criteria
	totalPages int
	totalItems int
	errMsg     string
	err        error
}

func NewController(repo Repository, filters *filter.Store, config *Config, log logger.Logger) *Controller {
	if filters == nil {
		filters = filter.NewStore()
	}
	if config == nil {
		config = DefaultConfig()
	}
	log = log.WithFields(map[string]interface{}{"component": "listing"})
	return &Controller{
		repo:    repo,
		filters: filters,
		config:  config,
		logger:  log,
		errs:    apperrors.NewErrorHandler(log),
		state:   StateIdle,
		page:    1,
	}
}

// Filters exposes the criteria store the controller reads from.
func (c *Controller) Filters() *filter.Store {
	return c.filters
}

// Mount loads page 1 for the current route.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	route := c.route
	c.mu.Unlock()
	return c.load(ctx, 1, route)
}

// Open enters the listing at page n of route with a single fetch.
func (c *Controller) Open(ctx context.Context, route string, n int) error {
	if n < 1 {
		return apperrors.NewInvalidPageError(n, 0)
	}
	return c.load(ctx, n, route)
}

// SetPage re-fetches page n. n must be at least 1.
func (c *Controller) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		c.mu.Lock()
		total := c.totalPages
		c.mu.Unlock()
		return apperrors.NewInvalidPageError(n, total)
	}
	c.mu.Lock()
	route := c.route
	c.mu.Unlock()
	return c.load(ctx, n, route)
}

// GoTo is the pagination presenter's entry point: requests outside
// [1, totalPages] or for the active page are ignored and report false.
// After a failed load the active page may be requested again, and when no
// page count is known yet any page from 1 up is let through.
func (c *Controller) GoTo(ctx context.Context, n int) (bool, error) {
	c.mu.Lock()
	failed := c.state == StateFailed
	total := c.totalPages
	c.mu.Unlock()

	target, ok := c.Presenter().Request(n)
	if !ok && failed && n >= 1 && (total == 0 || n <= total) {
		target, ok = n, true
	}
	if !ok {
		return false, nil
	}
	return true, c.SetPage(ctx, target)
}

// SetCategoryRoute changes the /categories/:categoryName parameter. A
// change resets to page 1 and re-fetches; "" clears the route filter. The
// same route is fetched again only when the last load failed.
func (c *Controller) SetCategoryRoute(ctx context.Context, slug string) error {
	c.mu.Lock()
	unchanged := slug == c.route && c.state != StateIdle && c.state != StateFailed
	c.mu.Unlock()
	if unchanged {
		return nil
	}
	return c.load(ctx, 1, slug)
}

// SetFilter replaces one filter field and resets the page to 1. The
// current page is filtered in place; a fetch happens only when the reset
// moved the page, or on every change with RefetchOnFilterChange.
func (c *Controller) SetFilter(ctx context.Context, key, value string) error {
	if err := c.filters.Set(key, value); err != nil {
		c.logger.Warn("filter rejected", map[string]interface{}{
			"key":   key,
			"value": value,
			"error": err.Error(),
		})
		return err
	}

	c.mu.Lock()
	needsFetch := c.config.RefetchOnFilterChange || c.page != 1
	route := c.route
	mounted := c.state != StateIdle
	c.mu.Unlock()

	if !needsFetch || !mounted {
		c.publishDisplayed()
		return nil
	}
	return c.load(ctx, 1, route)
}

// Snapshot applies the current criteria to the loaded page.
func (c *Controller) Snapshot() Snapshot {
	criteria := c.filters.Get()

	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:      c.state,
		Page:       c.page,
		Route:      c.route,
		Criteria:   criteria,
		Gems:       criteria.Apply(c.base),
		TotalPages: c.totalPages,
		TotalItems: c.totalItems,
		Error:      c.errMsg,
		Err:        c.err,
	}
	snap.ResultCount = len(snap.Gems)
	snap.Sponsored, snap.Organic = partition(snap.Gems)

	if snap.State == StateReady && snap.ResultCount == 0 {
		snap.State = StateEmpty
	}
	return snap
}

// Presenter returns the pagination view of the current page.
func (c *Controller) Presenter() pagination.Presenter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pagination.Presenter{Current: c.page, Total: c.totalPages, Window: c.config.PageWindow}
}

// Close cancels any in-flight load; its result will be discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) load(ctx context.Context, page int, route string) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = StateLoading
	c.page = page
	c.route = route
	c.base = nil
	c.errMsg = ""
	c.err = nil
	c.mu.Unlock()

	log := c.logger.WithFields(map[string]interface{}{
		"page":       page,
		"route":      route,
		"generation": gen,
	})
	log.Debug("loading gems", nil)

	result, err := c.fetch(loadCtx, page, route)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		metrics.ListingStaleResponses.Inc()
		log.Debug("discarding stale response", nil)
		return ErrSuperseded
	}
	cancel()
	c.cancel = nil

	// Totals from the last good page stay so the pager can still move.
	if err != nil {
		c.state = StateFailed
		c.base = nil
		c.err = err
		c.errMsg = c.errs.Handle("load gems", err)
		metrics.ListingDisplayedGems.Set(0)
		return err
	}

	c.state = StateReady
	c.base = result.gems
	c.totalPages = result.totalPages
	c.totalItems = result.totalItems

	displayed := len(c.filters.Get().Apply(c.base))
	metrics.ListingDisplayedGems.Set(float64(displayed))
	log.Info("gems loaded", map[string]interface{}{
		"fetched":    result.fetched,
		"matched":    len(c.base),
		"displayed":  displayed,
		"totalPages": result.totalPages,
	})
	return nil
}

type loadResult struct {
	gems       []models.Gem
	fetched    int
	totalPages int
	totalItems int
}

// fetch runs steps 1 to 3: fetch the page, keep accepted gems, apply the
// route. Categories are fetched alongside the page when a route is set so
// unexpanded category references can be named.
func (c *Controller) fetch(ctx context.Context, page int, route string) (*loadResult, error) {
	var (
		gemsPage   *models.GemsPage
		categories []models.Category
		catErr     error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.repo.FetchGemsPage(gctx, page)
		if err != nil {
			return err
		}
		gemsPage = p
		return nil
	})
	if route != "" {
		g.Go(func() error {
			// Only needed when a gem's category is not expanded.
			categories, catErr = c.repo.FetchCategories(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accepted := make([]models.Gem, 0, len(gemsPage.Items))
	for _, gem := range gemsPage.Items {
		if gem.IsAccepted() {
			accepted = append(accepted, gem)
		}
	}

	matched := accepted
	if route != "" {
		if catErr != nil && needsCategoryNames(accepted) {
			return nil, catErr
		}
		matched = filterByRoute(accepted, route, categoryNames(categories))
	}

	return &loadResult{
		gems:       matched,
		fetched:    len(gemsPage.Items),
		totalPages: gemsPage.TotalPages,
		totalItems: gemsPage.TotalItems,
	}, nil
}

func (c *Controller) publishDisplayed() {
	snap := c.Snapshot()
	metrics.ListingDisplayedGems.Set(float64(snap.ResultCount))
}

// filterByRoute keeps gems whose category fingerprint equals the slug's.
// A slug with an empty fingerprint matches nothing.
func filterByRoute(gems []models.Gem, slug string, names map[string]string) []models.Gem {
	want := models.Fingerprint(slug)
	out := make([]models.Gem, 0, len(gems))
	if want == "" {
		return out
	}
	for _, gem := range gems {
		name := gem.Category.Name
		if name == "" {
			name = names[gem.Category.ID]
		}
		if models.Fingerprint(name) == want {
			out = append(out, gem)
		}
	}
	return out
}

func needsCategoryNames(gems []models.Gem) bool {
	for _, gem := range gems {
		if !gem.Category.Expanded() && gem.Category.ID != "" {
			return true
		}
	}
	return false
}

func categoryNames(categories []models.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.CategoryName
	}
	return names
}

func partition(gems []models.Gem) (sponsored, organic []models.Gem) {
	sponsored = make([]models.Gem, 0, len(gems))
	organic = make([]models.Gem, 0, len(gems))
	for _, gem := range gems {
		if gem.IsSubscribed {
			sponsored = append(sponsored, gem)
		} else {
			organic = append(organic, gem)
		}
	}
	return sponsored, organic
}
