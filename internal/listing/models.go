// internal/listing/models.go
package listing

import (
	"context"

	"gemfinder/internal/filter"
	"gemfinder/internal/models"
)

// Repository is the data source of the listing. *gems.Client implements it.
type Repository interface {
	FetchGemsPage(ctx context.Context, page int) (*models.GemsPage, error)
	FetchCategories(ctx context.Context) ([]models.Category, error)
}

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	// StateEmpty means the load succeeded and no gem matches.
	StateEmpty State = "empty"
	// StateFailed means the load failed; Error carries the message.
	StateFailed State = "failed"
)

// Snapshot is a copy of the listing at one instant. Gems is the post-filter
// set of the current server page only; TotalPages and TotalItems are the
// server's numbers and are not adjusted for filtering.
type Snapshot struct {
	State    State
	Page     int
	Route    string
	Criteria filter.Criteria

	Gems      []models.Gem
	Sponsored []models.Gem
	Organic   []models.Gem

	ResultCount int
	TotalPages  int
	TotalItems  int

	Error string
	Err   error
}

func (s Snapshot) Failed() bool {
	return s.State == StateFailed
}
