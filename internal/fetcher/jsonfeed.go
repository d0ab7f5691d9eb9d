package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/subhashbohra/acloudresume-site/internal/models"
)

// maxFeedBody bounds how much of a feed response is read into memory.
const maxFeedBody = 10 << 20 // 10 MB

// JSONFeed fetches raw update records from a remote JSON endpoint that
// accepts an optional week query parameter (the original backend's /updates).
type JSONFeed struct {
	BaseURL string
	Client  *http.Client
}

// NewJSONFeed creates a JSON feed fetcher with the given request timeout.
func NewJSONFeed(baseURL string, timeout time.Duration) *JSONFeed {
	return &JSONFeed{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch performs a GET with `week=<weekKey>` (when weekKey is non-empty) and
// decodes either a bare array or an {"items": [...]} object. Any non-2xx
// status is a hard failure for this refresh.
func (f *JSONFeed) Fetch(ctx context.Context, weekKey string) ([]models.RawUpdate, error) {
	endpoint := f.BaseURL
	if weekKey != "" {
		sep := "?"
		if u, err := url.Parse(endpoint); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		endpoint += sep + "week=" + url.QueryEscape(weekKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: fetch feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBody))
	if err != nil {
		return nil, fmt.Errorf("fetcher: read feed body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetcher: feed returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	raw, err := models.DecodeRawUpdates(body)
	if err != nil {
		return nil, fmt.Errorf("fetcher: decode feed: %w", err)
	}
	return raw, nil
}

// Sample reads raw update records from a bundled JSON document on disk.
type Sample struct {
	Path string
}

// Fetch loads and decodes the sample document.
func (s *Sample) Fetch(_ context.Context) ([]models.RawUpdate, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("fetcher: read sample %s: %w", s.Path, err)
	}
	raw, err := models.DecodeRawUpdates(data)
	if err != nil {
		return nil, fmt.Errorf("fetcher: decode sample %s: %w", s.Path, err)
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
