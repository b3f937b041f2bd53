// internal/pagination/pagination.go
package pagination

import (
	"strconv"
	"strings"
)

// DefaultWindow is how many page numbers are shown on each side of the
// current page before the strip collapses into an ellipsis.
const DefaultWindow = 2

// ItemKind distinguishes the entries of a page strip.
type ItemKind int

const (
	ItemPage ItemKind = iota
	ItemEllipsis
	ItemPrev
	ItemNext
)

// Item is one control in the page strip.
type Item struct {
	Kind     ItemKind
	Page     int
	Active   bool
	Disabled bool
}

// Presenter is a pure view of current/total pages. It never fetches; it only
// decides whether a page-change request should be emitted.
type Presenter struct {
	Current int
	Total   int
	Window  int
}

func New(current, total int) Presenter {
	return Presenter{Current: current, Total: total, Window: DefaultWindow}
}

// Request returns the page to navigate to and whether navigation should
// happen. Pages outside [1, Total] and the active page are rejected.
func (p Presenter) Request(n int) (int, bool) {
	if n < 1 || n > p.Total || n == p.Current {
		return p.Current, false
	}
	return n, true
}

func (p Presenter) Next() (int, bool) {
	return p.Request(p.Current + 1)
}

func (p Presenter) Prev() (int, bool) {
	return p.Request(p.Current - 1)
}

func (p Presenter) HasNext() bool {
	_, ok := p.Next()
	return ok
}

func (p Presenter) HasPrev() bool {
	_, ok := p.Prev()
	return ok
}

// Items builds the strip: prev, first page, a window around the current
// page, last page, next. Gaps of more than one page become an ellipsis.
func (p Presenter) Items() []Item {
	if p.Total < 1 {
		return nil
	}

	window := p.Window
	if window < 0 {
		window = 0
	}

	items := []Item{{Kind: ItemPrev, Page: p.Current - 1, Disabled: !p.HasPrev()}}

	lo := max(1, p.Current-window)
	hi := min(p.Total, p.Current+window)

	last := 0
	add := func(n int) {
		if n-last == 2 {
			items = append(items, p.pageItem(last+1))
		} else if n-last > 2 {
			items = append(items, Item{Kind: ItemEllipsis})
		}
		items = append(items, p.pageItem(n))
		last = n
	}

	add(1)
	for n := max(lo, 2); n <= hi; n++ {
		add(n)
	}
	if last < p.Total {
		add(p.Total)
	}

	return append(items, Item{Kind: ItemNext, Page: p.Current + 1, Disabled: !p.HasNext()})
}

func (p Presenter) pageItem(n int) Item {
	return Item{Kind: ItemPage, Page: n, Active: n == p.Current}
}

// Render returns the strip as plain text, e.g. "‹ 1 … 4 [5] 6 … 9 ›".
func (p Presenter) Render() string {
	items := p.Items()
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Label())
	}
	return strings.Join(parts, " ")
}

func (it Item) Label() string {
	switch it.Kind {
	case ItemPrev:
		return "‹"
	case ItemNext:
		return "›"
	case ItemEllipsis:
		return "…"
	}
	if it.Active {
		return "[" + strconv.Itoa(it.Page) + "]"
	}
	return strconv.Itoa(it.Page)
}
