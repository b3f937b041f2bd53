// internal/filter/models.go
package filter

import (
	"strings"

	"gemfinder/internal/models"
)

const (
	KeyCategory    = "category"
	KeyAvgRating   = "avgRating"
	KeyGemLocation = "gemLocation"

	MaxRating = 5.0
)

// Keys lists the filter keys in display order.
var Keys = []string{KeyCategory, KeyAvgRating, KeyGemLocation}

// Criteria is the set of listing constraints. A zero field places no
// constraint; it never means "match the empty value".
type Criteria struct {
	Category    string  `json:"category"`
	AvgRating   float64 `json:"avgRating"`
	GemLocation string  `json:"gemLocation"`
}

// Match reports whether gem satisfies every active field.
func (c Criteria) Match(gem models.Gem) bool {
	if c.AvgRating > 0 && gem.AvgRating < c.AvgRating {
		return false
	}
	if c.GemLocation != "" && !strings.EqualFold(gem.GemLocation, c.GemLocation) {
		return false
	}
	if c.Category != "" && gem.Category.ID != c.Category {
		return false
	}
	return true
}

// Apply returns the gems that match, in their original order. The input is
// not modified.
func (c Criteria) Apply(gems []models.Gem) []models.Gem {
	out := make([]models.Gem, 0, len(gems))
	for _, g := range gems {
		if c.Match(g) {
			out = append(out, g)
		}
	}
	return out
}

// Active returns the keys of the fields that currently constrain results.
func (c Criteria) Active() []string {
	active := make([]string, 0, len(Keys))
	if c.Category != "" {
		active = append(active, KeyCategory)
	}
	if c.AvgRating > 0 {
		active = append(active, KeyAvgRating)
	}
	if c.GemLocation != "" {
		active = append(active, KeyGemLocation)
	}
	return active
}

func (c Criteria) IsZero() bool {
	return c == Criteria{}
}
