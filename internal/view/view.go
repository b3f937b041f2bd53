// internal/view/view.go
package view

import (
	"fmt"
	"strings"

	"gemfinder/internal/categories"
	"gemfinder/internal/filter"
	"gemfinder/internal/listing"
	"gemfinder/internal/models"
	"gemfinder/internal/pagination"

	"github.com/charmbracelet/lipgloss"
)

const (
	EmptyMessage   = "No gems match the current filters."
	LoadingMessage = "Loading gems..."
)

// Renderer turns snapshots into terminal text.
type Renderer struct {
	styles Styles
}

func NewRenderer() *Renderer {
	return &Renderer{styles: DefaultStyles()}
}

// Listing renders a listing snapshot. inWishlist may be nil.
func (r *Renderer) Listing(snap listing.Snapshot, pager pagination.Presenter, inWishlist func(string) bool) string {
	blocks := []string{r.listingTitle(snap)}

	switch snap.State {
	case listing.StateIdle, listing.StateLoading:
		blocks = append(blocks, r.styles.Muted.Render(LoadingMessage))
	case listing.StateFailed:
		blocks = append(blocks, r.styles.Failed.Render("✗ "+snap.Error))
		blocks = append(blocks, r.styles.Muted.Render("Filters can still be changed; retry by changing page."))
	case listing.StateEmpty:
		blocks = append(blocks, r.styles.Empty.Render(EmptyMessage))
	default:
		if len(snap.Sponsored) > 0 {
			blocks = append(blocks, r.styles.Sponsored.Render("Sponsored"), r.gemTable(snap.Sponsored, inWishlist))
		}
		if len(snap.Organic) > 0 {
			blocks = append(blocks, r.styles.Header.Render("Gems"), r.gemTable(snap.Organic, inWishlist))
		}
	}

	if snap.State != listing.StateFailed {
		blocks = append(blocks, r.styles.Muted.Render(fmt.Sprintf(
			"%d shown on this page · page %d of %d · %d gems in total",
			snap.ResultCount, snap.Page, snap.TotalPages, snap.TotalItems,
		)))
	}
	if strip := pager.Render(); strip != "" {
		blocks = append(blocks, r.styles.Pager.Render(strip))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (r *Renderer) listingTitle(snap listing.Snapshot) string {
	title := "Hidden gems"
	if snap.Route != "" {
		title += " in " + snap.Route
	}
	line := r.styles.Title.Render(title)
	if f := describeCriteria(snap.Criteria); f != "" {
		line += "  " + r.styles.Muted.Render(f)
	}
	return line
}

func describeCriteria(c filter.Criteria) string {
	parts := make([]string, 0, 3)
	for _, key := range c.Active() {
		switch key {
		case filter.KeyCategory:
			parts = append(parts, "category="+c.Category)
		case filter.KeyAvgRating:
			parts = append(parts, fmt.Sprintf("rating>=%g", c.AvgRating))
		case filter.KeyGemLocation:
			parts = append(parts, "location="+c.GemLocation)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (r *Renderer) gemTable(gems []models.Gem, inWishlist func(string) bool) string {
	rows := make([]string, 0, len(gems))
	for _, g := range gems {
		mark := " "
		if inWishlist != nil && inWishlist(g.ID) {
			mark = "♥"
		}
		category := g.Category.Name
		if category == "" {
			category = g.Category.ID
		}
		row := fmt.Sprintf("%s %-28s %-14s %-18s %s",
			mark,
			truncate(g.Name, 28),
			truncate(g.GemLocation, 14),
			truncate(category, 18),
			r.styles.Rating.Render(fmt.Sprintf("★ %.1f", g.AvgRating)),
		)
		if thumb := g.Thumbnail(); thumb != "" {
			row += " " + r.styles.Muted.Render(thumb)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// Categories renders one page of the categories browser.
func (r *Renderer) Categories(page *categories.Page) string {
	title := "Categories"
	if page.Query != "" {
		title += fmt.Sprintf(" matching %q", page.Query)
	}
	blocks := []string{r.styles.Title.Render(title)}

	if len(page.Items) == 0 {
		blocks = append(blocks, r.styles.Empty.Render("No categories found."))
	}
	for _, e := range page.Items {
		blocks = append(blocks, fmt.Sprintf("%-28s %s", truncate(e.Category.CategoryName, 28), r.styles.Muted.Render("/categories/"+e.Slug)))
	}

	pager := pagination.New(page.Page, page.TotalPages)
	blocks = append(blocks, r.styles.Pager.Render(pager.Render()))
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Wishlist renders the saved gem ids.
func (r *Renderer) Wishlist(ids []string) string {
	if len(ids) == 0 {
		return r.styles.Empty.Render("Your wishlist is empty.")
	}
	lines := []string{r.styles.Title.Render("Wishlist")}
	for _, id := range ids {
		lines = append(lines, "♥ "+id)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
