// internal/devbackend/models.go
package devbackend

// SessionCookie carries the user id. The dev backend trusts it as-is.
const SessionCookie = "connect.sid"

// GemRow is one row of the gems query, category name joined in.
type GemRow struct {
	ID           string
	Name         string
	GemLocation  string
	CategoryID   string
	CategoryName string
	AvgRating    float64
	Status       string
	Images       []string
	IsSubscribed bool
}

type CategoryRow struct {
	ID           string
	CategoryName string
}

// Wire shapes, matching what the gems client decodes.

type gemJSON struct {
	ID           string      `json:"_id"`
	Name         string      `json:"name"`
	GemLocation  string      `json:"gemLocation"`
	Category     interface{} `json:"category"`
	AvgRating    float64     `json:"avgRating"`
	Status       string      `json:"status"`
	Images       []string    `json:"images"`
	IsSubscribed bool        `json:"isSubscribed"`
}

type categoryJSON struct {
	ID           string `json:"_id"`
	CategoryName string `json:"categoryName"`
}

type gemsResponse struct {
	Result     []gemJSON `json:"result"`
	TotalPages int       `json:"totalPages"`
	TotalItems int       `json:"totalItems"`
}

type categoriesResponse struct {
	Result []categoryJSON `json:"result"`
}

type wishlistRequest struct {
	GemID string `json:"gemId" binding:"required"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// toJSON expands the category when its name is known and falls back to the
// bare id otherwise, the two forms the backend is known to send.
func (r GemRow) toJSON() gemJSON {
	var category interface{}
	switch {
	case r.CategoryName != "":
		category = categoryJSON{ID: r.CategoryID, CategoryName: r.CategoryName}
	case r.CategoryID != "":
		category = r.CategoryID
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return gemJSON{
		ID:           r.ID,
		Name:         r.Name,
		GemLocation:  r.GemLocation,
		Category:     category,
		AvgRating:    r.AvgRating,
		Status:       r.Status,
		Images:       images,
		IsSubscribed: r.IsSubscribed,
	}
}
