// internal/models/wire.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire DTOs. Every field is optional on the wire; the defaults live in the
// decode functions below and nowhere else.

type gemDTO struct {
	MongoID      *string         `json:"_id"`
	ID           *string         `json:"id"`
	Name         *string         `json:"name"`
	GemLocation  *string         `json:"gemLocation"`
	Category     json.RawMessage `json:"category"`
	AvgRating    *float64        `json:"avgRating"`
	Status       *string         `json:"status"`
	Images       []string        `json:"images"`
	IsSubscribed *bool           `json:"isSubscribed"`
}

type categoryDTO struct {
	MongoID      *string `json:"_id"`
	ID           *string `json:"id"`
	CategoryName *string `json:"categoryName"`
}

type gemsEnvelope struct {
	Result     []json.RawMessage `json:"result"`
	TotalPages *int              `json:"totalPages"`
	TotalItems *int              `json:"totalItems"`
}

type categoriesEnvelope struct {
	Result []json.RawMessage `json:"result"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if s := str(v); s != "" {
			return s
		}
	}
	return ""
}

// DecodeGem applies the default policy: missing text is "", missing rating
// is 0, missing or unknown-cased status is lower-cased ("" becomes pending),
// missing images is an empty slice, missing isSubscribed is false.
func DecodeGem(raw json.RawMessage) (Gem, error) {
	var dto gemDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return Gem{}, fmt.Errorf("decode gem: %w", err)
	}

	ref, err := decodeCategoryRef(dto.Category)
	if err != nil {
		return Gem{}, err
	}

	status := GemStatus(str(dto.Status))
	if dto.Status == nil {
		status = GemStatusPending
	}

	gem := Gem{
		ID:          firstNonEmpty(dto.MongoID, dto.ID),
		Name:        str(dto.Name),
		GemLocation: str(dto.GemLocation),
		Category:    ref,
		Status:      status,
		Images:      []string{},
	}
	if dto.AvgRating != nil {
		gem.AvgRating = *dto.AvgRating
	}
	if dto.IsSubscribed != nil {
		gem.IsSubscribed = *dto.IsSubscribed
	}
	gem.Images = append(gem.Images, dto.Images...)
	return gem, nil
}

// decodeCategoryRef accepts null, a bare id string, or an expanded object.
func decodeCategoryRef(raw json.RawMessage) (CategoryRef, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return CategoryRef{}, nil
	}

	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return CategoryRef{}, fmt.Errorf("decode category id: %w", err)
		}
		return CategoryRef{ID: id}, nil
	}

	var dto categoryDTO
	if err := json.Unmarshal(trimmed, &dto); err != nil {
		return CategoryRef{}, fmt.Errorf("decode category: %w", err)
	}
	return CategoryRef{
		ID:   firstNonEmpty(dto.MongoID, dto.ID),
		Name: str(dto.CategoryName),
	}, nil
}

func DecodeCategory(raw json.RawMessage) (Category, error) {
	var dto categoryDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return Category{}, fmt.Errorf("decode category: %w", err)
	}
	return Category{
		ID:           firstNonEmpty(dto.MongoID, dto.ID),
		CategoryName: str(dto.CategoryName),
	}, nil
}

// DecodeGemsPage decodes a GET /gems body. Missing totals default to 0.
func DecodeGemsPage(body []byte) (*GemsPage, error) {
	var env gemsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode gems envelope: %w", err)
	}

	page := &GemsPage{Items: make([]Gem, 0, len(env.Result))}
	for i, raw := range env.Result {
		gem, err := DecodeGem(raw)
		if err != nil {
			return nil, fmt.Errorf("result[%d]: %w", i, err)
		}
		page.Items = append(page.Items, gem)
	}
	if env.TotalPages != nil {
		page.TotalPages = *env.TotalPages
	}
	if env.TotalItems != nil {
		page.TotalItems = *env.TotalItems
	}
	return page, nil
}

// DecodeCategories decodes a GET /categories body.
func DecodeCategories(body []byte) ([]Category, error) {
	var env categoriesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode categories envelope: %w", err)
	}

	out := make([]Category, 0, len(env.Result))
	for i, raw := range env.Result {
		c, err := DecodeCategory(raw)
		if err != nil {
			return nil, fmt.Errorf("result[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}
