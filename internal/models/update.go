// Package models defines the domain types for the site.
package models

import (
	"encoding/json"
	"time"
)

// Category labels an update belongs to. "All" is a filter sentinel only and
// is never stored on an item.
const (
	CategoryAll   = "All"
	CategoryOther = "Other"
)

// BrandCategories is the fixed, ordered category enumeration used for filter
// tabs and for the fixed iteration order of the weekly digest.
var BrandCategories = []string{
	CategoryAll,
	"Serverless",
	"AI & GenAI",
	"AI Agents",
	"DevOps & Observability",
	"Containers & Kubernetes",
	"Security",
	"Data & Analytics",
	"Databases",
	"Storage",
	"Networking",
	CategoryOther,
}

// KnownCategory reports whether c is a storable member of BrandCategories
// (everything except the "All" sentinel).
func KnownCategory(c string) bool {
	for _, b := range BrandCategories {
		if b != CategoryAll && b == c {
			return true
		}
	}
	return false
}

// Update is the canonical update item produced by normalization.
type Update struct {
	UpdateID    string    `json:"updateId"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"publishedAt"`
	WeekKey     string    `json:"weekKey"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Summary     string    `json:"summary"`
	ImageURL    string    `json:"imageUrl"`
}

// RawUpdate is a loosely-typed update record as received from a feed source.
// Field names vary across upstream producers, so every field carries its
// known aliases and is resolved through a fixed fallback order.
type RawUpdate struct {
	UpdateID     string   `json:"updateId"`
	UpdateIDAlt  string   `json:"update_id"`
	Title        string   `json:"title"`
	Link         string   `json:"link"`
	PublishedAt  string   `json:"publishedAt"`
	PublishedAt2 string   `json:"published_at"`
	Published    string   `json:"published"`
	Date         string   `json:"date"`
	WeekKey      string   `json:"weekKey"`
	WeekKeyAlt   string   `json:"week_key"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Summary      string   `json:"summary"`
	ShortSummary string   `json:"shortSummary"`
	ImageURL     string   `json:"imageUrl"`
	ImageURLAlt  string   `json:"image_url"`
}

// ID returns the explicit identifier, resolving aliases.
func (r *RawUpdate) ID() string {
	if r.UpdateID != "" {
		return r.UpdateID
	}
	return r.UpdateIDAlt
}

// PublishedRaw returns the first non-empty date field in fallback order.
func (r *RawUpdate) PublishedRaw() string {
	for _, v := range []string{r.PublishedAt, r.PublishedAt2, r.Published, r.Date} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Week returns the explicit week key, resolving aliases.
func (r *RawUpdate) Week() string {
	if r.WeekKey != "" {
		return r.WeekKey
	}
	return r.WeekKeyAlt
}

// SummaryText returns the summary, resolving aliases.
func (r *RawUpdate) SummaryText() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.ShortSummary
}

// Image returns the image URL, resolving aliases.
func (r *RawUpdate) Image() string {
	if r.ImageURL != "" {
		return r.ImageURL
	}
	return r.ImageURLAlt
}

// DecodeRawUpdates decodes a feed document that is either a bare array of
// records or an object with an "items" array. Unknown fields are ignored.
func DecodeRawUpdates(data []byte) ([]RawUpdate, error) {
	var arr []RawUpdate
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr, nil
	}
	var wrapped struct {
		Items []RawUpdate `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Items, nil
}
