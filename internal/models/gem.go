// internal/models/gem.go
package models

// GemStatus is the moderation state of a gem.
type GemStatus string

const (
	GemStatusPending  GemStatus = "pending"
	GemStatusAccepted GemStatus = "accepted"
	GemStatusRejected GemStatus = "rejected"
)

// Gem is a listed place. Values come only from DecodeGem, so every field has
// its default applied already.
type Gem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	GemLocation  string      `json:"gemLocation"`
	Category     CategoryRef `json:"category"`
	AvgRating    float64     `json:"avgRating"`
	Status       GemStatus   `json:"status"`
	Images       []string    `json:"images"`
	IsSubscribed bool        `json:"isSubscribed"`
}

func (g Gem) IsAccepted() bool {
	return g.Status == GemStatusAccepted
}

// Thumbnail is the first image, "" when the gem has none.
func (g Gem) Thumbnail() string {
	if len(g.Images) == 0 {
		return ""
	}
	return g.Images[0]
}

// GemsPage is one server page of gems.
type GemsPage struct {
	Items      []Gem `json:"items"`
	TotalPages int   `json:"totalPages"`
	TotalItems int   `json:"totalItems"`
}
