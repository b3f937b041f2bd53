// internal/filter/store.go
package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	apperrors "gemfinder/internal/common/errors"
)

// Store holds the current Criteria. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	criteria Criteria
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Get() Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// Set replaces exactly one field. On error the store is left unchanged.
// Setting "" (or "0" for avgRating) deactivates the field.
func (s *Store) Set(key, value string) error {
	value = strings.TrimSpace(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.criteria
	switch key {
	case KeyCategory:
		next.Category = value
	case KeyGemLocation:
		next.GemLocation = value
	case KeyAvgRating:
		rating, err := parseRating(value)
		if err != nil {
			return apperrors.NewInvalidFilterError(key, err.Error())
		}
		next.AvgRating = rating
	default:
		return apperrors.NewInvalidFilterError(key, "unknown filter key")
	}

	s.criteria = next
	return nil
}

// Replace swaps in a whole Criteria, e.g. when restoring from flags.
func (s *Store) Replace(c Criteria) error {
	if c.AvgRating < 0 || c.AvgRating > MaxRating || math.IsNaN(c.AvgRating) {
		return apperrors.NewInvalidFilterError(KeyAvgRating, fmt.Sprintf("rating %v outside [0,%v]", c.AvgRating, MaxRating))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
	return nil
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = Criteria{}
}

func parseRating(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	rating, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	if math.IsNaN(rating) || rating < 0 || rating > MaxRating {
		return 0, fmt.Errorf("rating %v outside [0,%v]", rating, MaxRating)
	}
	return rating, nil
}
