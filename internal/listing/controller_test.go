// internal/listing/controller_test.go
package listing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "gemfinder/internal/common/errors"
	"gemfinder/internal/common/logger"
	"gemfinder/internal/common/metrics"
	"gemfinder/internal/filter"
	"gemfinder/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Test Helper Functions
// ==========================

type fakeRepo struct {
	mu         sync.Mutex
	pages      map[int]*models.GemsPage
	pageErr    error
	categories []models.Category
	catErr     error
	gates      map[int]chan struct{}
	pageCalls  []int
	catCalls   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pages: map[int]*models.GemsPage{},
		gates: map[int]chan struct{}{},
	}
}

func (f *fakeRepo) FetchGemsPage(ctx context.Context, page int) (*models.GemsPage, error) {
	f.mu.Lock()
	f.pageCalls = append(f.pageCalls, page)
	gate := f.gates[page]
	result, err := f.pages[page], f.pageErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &models.GemsPage{Items: []models.Gem{}}, nil
	}
	return result, nil
}

func (f *fakeRepo) FetchCategories(ctx context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catCalls++
	return f.categories, f.catErr
}

func (f *fakeRepo) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pageCalls...)
}

func accepted(id string, rating float64, location string, cat models.CategoryRef) models.Gem {
	return models.Gem{
		ID:          id,
		Name:        "Gem " + id,
		AvgRating:   rating,
		GemLocation: location,
		Category:    cat,
		Status:      models.GemStatusAccepted,
		Images:      []string{},
	}
}

func withStatus(g models.Gem, s models.GemStatus) models.Gem {
	g.Status = s
	return g
}

var (
	coffee = models.CategoryRef{ID: "c1", Name: "Coffee Shops"}
	bars   = models.CategoryRef{ID: "c2", Name: "Bars & Pubs"}
)

// tenGems is one server page of 10 gems: 7 accepted, 3 of which are rated 4
// or above.
func tenGems() *models.GemsPage {
	return &models.GemsPage{
		Items: []models.Gem{
			accepted("g1", 4.5, "Lisbon", coffee),
			accepted("g2", 3.0, "Porto", coffee),
			withStatus(accepted("g3", 5.0, "Lisbon", bars), models.GemStatusPending),
			accepted("g4", 4.0, "lisbon", bars),
			accepted("g5", 2.5, "Faro", bars),
			withStatus(accepted("g6", 4.8, "Porto", coffee), models.GemStatusRejected),
			accepted("g7", 3.9, "Porto", coffee),
			accepted("g8", 4.1, "Faro", coffee),
			withStatus(accepted("g9", 1.0, "Faro", bars), models.GemStatusPending),
			accepted("g10", 1.5, "Lisbon", bars),
		},
		TotalPages: 4,
		TotalItems: 37,
	}
}

func createTestController(t *testing.T, repo Repository, cfg *Config) *Controller {
	c := NewController(repo, filter.NewStore(), cfg, logger.NewTestLogger(t))
	t.Cleanup(c.Close)
	return c
}

func ids(gems []models.Gem) []string {
	out := make([]string, 0, len(gems))
	for _, g := range gems {
		out = append(out, g.ID)
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestController_Mount_KeepsAcceptedOnly(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)

	require.NoError(t, c.Mount(context.Background()))
	snap := c.Snapshot()

	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, 7, snap.ResultCount)
	assert.Equal(t, 4, snap.TotalPages, "totalPages comes from the server verbatim")
	assert.Equal(t, 37, snap.TotalItems)
	for _, g := range snap.Gems {
		assert.True(t, g.IsAccepted(), g.ID)
	}
	if diff := cmp.Diff([]string{"g1", "g2", "g4", "g5", "g7", "g8", "g10"}, ids(snap.Gems)); diff != "" {
		t.Errorf("displayed gems mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1}, repo.calls())
	assert.Zero(t, repo.catCalls, "categories are only fetched for a route")
}

func TestController_RatingFilter(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()

	require.NoError(t, c.Mount(ctx))
	require.NoError(t, c.SetFilter(ctx, filter.KeyAvgRating, "4"))

	snap := c.Snapshot()
	assert.Equal(t, []string{"g1", "g4", "g8"}, ids(snap.Gems))
	assert.Equal(t, 3, snap.ResultCount)
	assert.Equal(t, 4, snap.TotalPages, "post-filter count does not change server totals")
	assert.Equal(t, []int{1}, repo.calls(), "filter change on page 1 does not re-fetch")

	require.NoError(t, c.SetFilter(ctx, filter.KeyAvgRating, "0"))
	assert.Equal(t, 7, c.Snapshot().ResultCount, "zero rating removes the constraint")
}

func TestController_FilterCombinations(t *testing.T) {
	tests := []struct {
		name     string
		filters  map[string]string
		expected []string
	}{
		{name: "location", filters: map[string]string{filter.KeyGemLocation: "LISBON"}, expected: []string{"g1", "g4", "g10"}},
		{name: "category", filters: map[string]string{filter.KeyCategory: "c2"}, expected: []string{"g4", "g5", "g10"}},
		{name: "rating and location", filters: map[string]string{filter.KeyAvgRating: "4", filter.KeyGemLocation: "faro"}, expected: []string{"g8"}},
		{name: "no match", filters: map[string]string{filter.KeyGemLocation: "Madrid"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.pages[1] = tenGems()
			c := createTestController(t, repo, nil)
			ctx := context.Background()
			require.NoError(t, c.Mount(ctx))

			for k, v := range tt.filters {
				require.NoError(t, c.SetFilter(ctx, k, v))
			}
			assert.Equal(t, tt.expected, ids(c.Snapshot().Gems))
		})
	}
}

func TestController_FilterIndependence(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	require.NoError(t, c.SetFilter(ctx, filter.KeyAvgRating, "3"))
	ratingOnly := c.Snapshot().Gems

	require.NoError(t, c.SetFilter(ctx, filter.KeyGemLocation, "porto"))
	require.NoError(t, c.SetFilter(ctx, filter.KeyGemLocation, ""))

	assert.Equal(t, ratingOnly, c.Snapshot().Gems, "clearing location restores the rating-only set")
	assert.Equal(t, 3.0, c.Snapshot().Criteria.AvgRating)
}

func TestController_FilterIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	require.NoError(t, c.SetFilter(ctx, filter.KeyCategory, "c1"))
	first := c.Snapshot()
	require.NoError(t, c.SetFilter(ctx, filter.KeyCategory, "c1"))
	second := c.Snapshot()

	if diff := cmp.Diff(first.Gems, second.Gems); diff != "" {
		t.Errorf("second application changed the result (-first +second):\n%s", diff)
	}
	assert.Equal(t, []int{1}, repo.calls())
}

func TestController_SponsoredPartition(t *testing.T) {
	page := tenGems()
	page.Items[0].IsSubscribed = true
	page.Items[6].IsSubscribed = true
	repo := newFakeRepo()
	repo.pages[1] = page
	c := createTestController(t, repo, nil)

	require.NoError(t, c.Mount(context.Background()))
	snap := c.Snapshot()
	assert.Equal(t, []string{"g1", "g7"}, ids(snap.Sponsored))
	assert.Equal(t, []string{"g2", "g4", "g5", "g8", "g10"}, ids(snap.Organic))
}

// ==========================
// Category Route Tests
// ==========================

func TestController_CategoryRoute(t *testing.T) {
	tests := []struct {
		name       string
		slug       string
		categories []models.Category
		page       *models.GemsPage
		expected   []string
	}{
		{
			name:     "slug matches display name",
			slug:     "coffee-shops",
			page:     tenGems(),
			expected: []string{"g1", "g2", "g7", "g8"},
		},
		{
			name:     "punctuation ignored",
			slug:     "bars-pubs",
			page:     tenGems(),
			expected: []string{"g4", "g5", "g10"},
		},
		{
			name: "unexpanded category resolved from categories",
			slug: "Coffee_Shops",
			categories: []models.Category{
				{ID: "c1", CategoryName: "Coffee Shops"},
			},
			page: &models.GemsPage{Items: []models.Gem{
				accepted("x1", 4, "Lisbon", models.CategoryRef{ID: "c1"}),
				accepted("x2", 4, "Lisbon", models.CategoryRef{ID: "c9"}),
			}, TotalPages: 1},
			expected: []string{"x1"},
		},
		{
			name:     "no partial match",
			slug:     "coffee",
			page:     tenGems(),
			expected: []string{},
		},
		{
			name:     "slug without letters or digits matches nothing",
			slug:     "---",
			page:     &models.GemsPage{Items: []models.Gem{accepted("x1", 4, "Lisbon", models.CategoryRef{ID: "c1", Name: "!!"})}},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.pages[1] = tt.page
			repo.categories = tt.categories
			c := createTestController(t, repo, nil)

			require.NoError(t, c.SetCategoryRoute(context.Background(), tt.slug))
			snap := c.Snapshot()

			assert.Equal(t, tt.expected, ids(snap.Gems))
			assert.Equal(t, tt.slug, snap.Route)
			for _, g := range snap.Gems {
				name := g.Category.Name
				if name == "" {
					name = "Coffee Shops"
				}
				assert.Equal(t, models.Fingerprint(tt.slug), models.Fingerprint(name))
			}
		})
	}
}

func TestController_CategoryRouteResetsPage(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[3] = tenGems()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()

	require.NoError(t, c.SetPage(ctx, 3))
	require.NoError(t, c.SetCategoryRoute(ctx, "bars-pubs"))
	assert.Equal(t, 1, c.Snapshot().Page)

	require.NoError(t, c.SetCategoryRoute(ctx, "bars-pubs"))
	assert.Equal(t, []int{3, 1}, repo.calls(), "same route does not re-fetch")

	require.NoError(t, c.SetCategoryRoute(ctx, ""))
	assert.Equal(t, 7, c.Snapshot().ResultCount)
	assert.Equal(t, []int{3, 1, 1}, repo.calls())
}

func TestController_CategoryLookupFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.catErr = apperrors.NewRequestFailedError(503, "")

	// All references expanded: the failed lookup is not needed.
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	require.NoError(t, c.SetCategoryRoute(context.Background(), "coffee-shops"))
	assert.Equal(t, StateReady, c.Snapshot().State)

	// An unexpanded reference needs the lookup, so the load fails.
	repo.pages[1] = &models.GemsPage{Items: []models.Gem{accepted("x1", 4, "", models.CategoryRef{ID: "c1"})}}
	c2 := createTestController(t, repo, nil)
	err := c2.SetCategoryRoute(context.Background(), "coffee-shops")
	require.Error(t, err)
	assert.Equal(t, StateFailed, c2.Snapshot().State)
}

// ==========================
// Re-fetch Policy Tests
// ==========================

func TestController_RefetchPolicy(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		startPage   int
		expectCalls []int
	}{
		{name: "page 1 filters in place", config: DefaultConfig(), startPage: 1, expectCalls: []int{1}},
		{name: "page reset re-fetches", config: DefaultConfig(), startPage: 3, expectCalls: []int{3, 1}},
		{name: "flag re-fetches on page 1", config: &Config{RefetchOnFilterChange: true}, startPage: 1, expectCalls: []int{1, 1}},
		{name: "flag re-fetches page 1 from page 3", config: &Config{RefetchOnFilterChange: true}, startPage: 3, expectCalls: []int{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.pages[1] = tenGems()
			repo.pages[3] = tenGems()
			c := createTestController(t, repo, tt.config)
			ctx := context.Background()

			require.NoError(t, c.SetPage(ctx, tt.startPage))
			require.NoError(t, c.SetFilter(ctx, filter.KeyGemLocation, "Lisbon"))

			assert.Equal(t, tt.expectCalls, repo.calls())
			snap := c.Snapshot()
			assert.Equal(t, 1, snap.Page)
			assert.Equal(t, []string{"g1", "g4", "g10"}, ids(snap.Gems))
		})
	}
}

func TestController_FilterBeforeMountDoesNotFetch(t *testing.T) {
	repo := newFakeRepo()
	c := createTestController(t, repo, &Config{RefetchOnFilterChange: true})

	require.NoError(t, c.SetFilter(context.Background(), filter.KeyCategory, "c1"))
	assert.Empty(t, repo.calls())
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestController_InvalidFilterLeavesState(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))
	require.NoError(t, c.SetFilter(ctx, filter.KeyAvgRating, "4"))

	err := c.SetFilter(ctx, filter.KeyAvgRating, "eleven")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidFilter, apperrors.CodeOf(err))
	assert.Equal(t, 3, c.Snapshot().ResultCount)
}

// ==========================
// Pagination Tests
// ==========================

func TestController_GoTo(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	for _, n := range []int{0, 1, 5} {
		moved, err := c.GoTo(ctx, n)
		require.NoError(t, err)
		assert.False(t, moved, "page %d", n)
	}
	assert.Equal(t, []int{1}, repo.calls())

	moved, err := c.GoTo(ctx, 4)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []int{1, 4}, repo.calls())
	assert.Equal(t, 4, c.Snapshot().Page)
}

func TestController_OpenFetchesRequestedPageOnce(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[3] = tenGems()
	repo.categories = []models.Category{{ID: "c2", CategoryName: "Bars & Pubs"}}
	c := createTestController(t, repo, nil)

	require.NoError(t, c.Open(context.Background(), "bars-pubs", 3))

	snap := c.Snapshot()
	assert.Equal(t, 3, snap.Page)
	assert.Equal(t, "bars-pubs", snap.Route)
	assert.Equal(t, []string{"g4", "g5", "g10"}, ids(snap.Gems))
	assert.Equal(t, []int{3}, repo.calls())

	err := c.Open(context.Background(), "", 0)
	assert.Equal(t, apperrors.ErrCodeInvalidPage, apperrors.CodeOf(err))
	assert.Equal(t, []int{3}, repo.calls())
}

func TestController_SetPageRejectsZero(t *testing.T) {
	c := createTestController(t, newFakeRepo(), nil)
	err := c.SetPage(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidPage, apperrors.CodeOf(err))
}

// ==========================
// Error Handling Tests
// ==========================

func TestController_FetchFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	repo.mu.Lock()
	repo.pageErr = apperrors.NewRequestFailedError(500, "database unavailable")
	repo.mu.Unlock()

	err := c.Mount(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsRequestFailed(err))

	snap := c.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.True(t, snap.Failed())
	assert.Empty(t, snap.Gems)
	assert.Zero(t, snap.ResultCount)
	assert.Equal(t, "Failed to load gems: database unavailable", snap.Error)
	assert.Equal(t, 500, apperrors.StatusOf(snap.Err))

	// Filters stay usable after a failure.
	require.NoError(t, c.SetFilter(ctx, filter.KeyGemLocation, "Lisbon"))
	assert.Equal(t, "Lisbon", c.Snapshot().Criteria.GemLocation)
	assert.Equal(t, StateFailed, c.Snapshot().State)
	assert.Equal(t, []int{1, 1}, repo.calls())
}

func TestController_EmptyAndFailedAreDistinct(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))
	require.NoError(t, c.SetFilter(ctx, filter.KeyGemLocation, "Madrid"))

	empty := c.Snapshot()
	assert.Equal(t, StateEmpty, empty.State)
	assert.Empty(t, empty.Error)

	failing := newFakeRepo()
	failing.pageErr = apperrors.NewTransportError(fmt.Errorf("connection refused"))
	c2 := createTestController(t, failing, nil)
	require.Error(t, c2.Mount(ctx))

	failed := c2.Snapshot()
	assert.Equal(t, StateFailed, failed.State)
	assert.Equal(t, "Failed to load gems: could not reach the server", failed.Error)
	assert.NotEqual(t, empty.State, failed.State)
}

func TestController_RecoversAfterFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.pageErr = apperrors.NewRequestFailedError(500, "")
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.Error(t, c.Mount(ctx))

	repo.mu.Lock()
	repo.pageErr = nil
	repo.pages[1] = tenGems()
	repo.mu.Unlock()

	require.NoError(t, c.Mount(ctx))
	snap := c.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Empty(t, snap.Error)
	assert.Nil(t, snap.Err)
}

func TestController_PagerRetriesAfterFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	repo.pages[3] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	repo.mu.Lock()
	repo.pageErr = apperrors.NewRequestFailedError(500, "")
	repo.mu.Unlock()

	moved, err := c.GoTo(ctx, 2)
	require.True(t, moved)
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Empty(t, snap.Gems)
	assert.Equal(t, 4, snap.TotalPages, "server totals survive a failed load")
	assert.Equal(t, 4, c.Presenter().Total)

	// The failed page itself can be requested again.
	moved, err = c.GoTo(ctx, 2)
	assert.True(t, moved)
	assert.Error(t, err)

	repo.mu.Lock()
	repo.pageErr = nil
	repo.mu.Unlock()

	moved, err = c.GoTo(ctx, 3)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, StateReady, c.Snapshot().State)
	assert.Equal(t, 3, c.Snapshot().Page)
	assert.Equal(t, []int{1, 2, 2, 3}, repo.calls())

	moved, err = c.GoTo(ctx, 3)
	require.NoError(t, err)
	assert.False(t, moved, "a healthy active page is not re-fetched")
}

func TestController_PagerRetriesAfterFirstLoadFails(t *testing.T) {
	repo := newFakeRepo()
	repo.pageErr = apperrors.NewTransportError(fmt.Errorf("connection refused"))
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.Error(t, c.Mount(ctx))

	moved, _ := c.GoTo(ctx, 0)
	assert.False(t, moved)

	repo.mu.Lock()
	repo.pageErr = nil
	repo.pages[1] = tenGems()
	repo.mu.Unlock()

	moved, err := c.GoTo(ctx, 1)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, StateReady, c.Snapshot().State)
	assert.Equal(t, []int{1, 1}, repo.calls())
}

func TestController_SameRouteReloadsAfterFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	c := createTestController(t, repo, nil)
	ctx := context.Background()
	require.NoError(t, c.SetCategoryRoute(ctx, ""))
	require.NoError(t, c.SetCategoryRoute(ctx, ""))
	assert.Equal(t, []int{1}, repo.calls(), "unchanged route is a no-op while healthy")

	repo.mu.Lock()
	repo.pageErr = apperrors.NewRequestFailedError(502, "")
	repo.mu.Unlock()
	require.Error(t, c.SetPage(ctx, 1))

	repo.mu.Lock()
	repo.pageErr = nil
	repo.mu.Unlock()

	require.NoError(t, c.SetCategoryRoute(ctx, ""))
	assert.Equal(t, StateReady, c.Snapshot().State)
	assert.Equal(t, []int{1, 1, 1}, repo.calls())
}

// ==========================
// Concurrency Tests
// ==========================

func TestController_StaleResponseDiscarded(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[1] = tenGems()
	repo.pages[2] = &models.GemsPage{Items: []models.Gem{accepted("p2", 5, "Faro", coffee)}, TotalPages: 4}
	repo.gates[1] = make(chan struct{})
	c := createTestController(t, repo, nil)
	ctx := context.Background()

	staleBefore := testutil.ToFloat64(metrics.ListingStaleResponses)

	slow := make(chan error, 1)
	go func() { slow <- c.SetPage(ctx, 1) }()
	require.Eventually(t, func() bool { return len(repo.calls()) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, c.SetPage(ctx, 2))
	close(repo.gates[1])

	assert.ErrorIs(t, <-slow, ErrSuperseded)
	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, []string{"p2"}, ids(snap.Gems))
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, staleBefore+1, testutil.ToFloat64(metrics.ListingStaleResponses))
}

func TestController_CloseCancelsInFlight(t *testing.T) {
	repo := newFakeRepo()
	repo.gates[1] = make(chan struct{})
	c := createTestController(t, repo, nil)

	done := make(chan error, 1)
	go func() { done <- c.Mount(context.Background()) }()
	require.Eventually(t, func() bool { return len(repo.calls()) == 1 }, time.Second, time.Millisecond)

	c.Close()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("load did not observe cancellation")
	}
}

func TestController_ConcurrentPageChanges(t *testing.T) {
	repo := newFakeRepo()
	for p := 1; p <= 4; p++ {
		repo.pages[p] = &models.GemsPage{
			Items:      []models.Gem{accepted(fmt.Sprintf("p%d", p), 4, "Lisbon", coffee)},
			TotalPages: 4,
		}
	}
	c := createTestController(t, repo, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := 1; p <= 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			err := c.SetPage(ctx, p)
			if err != nil {
				assert.ErrorIs(t, err, ErrSuperseded)
			}
		}(p)
	}
	wg.Wait()

	// Whichever load committed last, the displayed gems belong to its page.
	snap := c.Snapshot()
	require.Len(t, snap.Gems, 1)
	assert.Equal(t, fmt.Sprintf("p%d", snap.Page), snap.Gems[0].ID)
}
