// internal/models/category.go
package models

import "strings"

type Category struct {
	ID           string `json:"id"`
	CategoryName string `json:"categoryName"`
}

// Slug is the route segment used for /categories/:categoryName. Its
// fingerprint equals the category name's fingerprint.
func (c Category) Slug() string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(c.CategoryName) {
		if isFingerprintRune(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// CategoryRef is a gem's reference to its category. Name is set only when the
// server expanded the reference.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"categoryName,omitempty"`
}

func (r CategoryRef) Expanded() bool {
	return r.Name != ""
}

// Fingerprint lower-cases s and keeps only ASCII letters and digits, so
// "Coffee Shops" and "coffee-shops" compare equal.
func Fingerprint(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if isFingerprintRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isFingerprintRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
