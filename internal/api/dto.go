package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/subhashbohra/acloudresume-site/internal/models"
	"github.com/subhashbohra/acloudresume-site/internal/updateservice"
)

// WeekPage is one page of a week's updates (aliased from the domain layer).
type WeekPage = updateservice.WeekPage

// Digest is the share-ready weekly summary (aliased from the domain layer).
type Digest = updateservice.Digest

// WeeksResponse lists the known week keys, newest first.
type WeeksResponse struct {
	Weeks []string `json:"weeks"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	WeekKey string `json:"weekKey"`
	ID      string `json:"updateId"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// VisitRequest is the request body for recording a page visit.
type VisitRequest struct {
	Path string `json:"path"`
}

// Validate checks the visit request fields.
func (r VisitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required, validation.Length(1, 256)),
	)
}

// VisitResponse returns the running counter for a page.
type VisitResponse struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// RegisterRequest is the request body for the registration widget.
type RegisterRequest struct {
	Provider string `json:"provider"`
	Subject  string `json:"subject"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// Validate checks the registration request fields.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Provider, validation.Required, validation.In("google", "github", "linkedin", "email")),
		validation.Field(&r.Subject, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Name, validation.Length(0, 256)),
	)
}

// StatsResponse reports aggregate registration stats.
type StatsResponse struct {
	TotalUsers int `json:"totalUsers"`
}

// ImportRequest is the admin request body for importing records directly.
type ImportRequest struct {
	Items []models.RawUpdate `json:"items"`
}

// RefreshResponse summarizes a completed refresh or import.
type RefreshResponse = updateservice.RefreshResult
