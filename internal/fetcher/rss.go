// Package fetcher obtains raw update records from the configured sources:
// the AWS "What's New" RSS feed, a remote JSON feed endpoint, or a bundled
// sample document.
package fetcher

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/subhashbohra/acloudresume-site/internal/models"
	"github.com/subhashbohra/acloudresume-site/internal/timeutil"
)

// maxRawTags caps how many raw feed categories are carried over as tags.
const maxRawTags = 8

// RSS fetches and parses an RSS/Atom feed into raw update records.
type RSS struct {
	URL    string
	Client *http.Client
}

// NewRSS creates an RSS fetcher with the given request timeout.
func NewRSS(url string, timeout time.Duration) *RSS {
	return &RSS{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the feed and maps every entry onto a raw update record.
// Entries without a usable link are skipped; entries without a parseable
// publish date default to now. The update ID is a short digest of the entry
// GUID so re-ingesting the feed is idempotent.
func (f *RSS) Fetch(ctx context.Context) ([]models.RawUpdate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: build rss request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: fetch rss: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetcher: rss feed returned status %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetcher: parse rss: %w", err)
	}
	return entriesToRaw(parsed.Items), nil
}

func entriesToRaw(entries []*gofeed.Item) []models.RawUpdate {
	now := time.Now().UTC()
	out := make([]models.RawUpdate, 0, len(entries))
	for _, entry := range entries {
		link := entry.Link
		if link == "" {
			continue
		}

		published := now
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		}

		guid := entry.GUID
		if guid == "" {
			guid = link
		}

		tags := entry.Categories
		if len(tags) > maxRawTags {
			tags = tags[:maxRawTags]
		}

		out = append(out, models.RawUpdate{
			UpdateID:    GUIDHash(guid),
			Title:       entry.Title,
			Link:        link,
			PublishedAt: published.Format(time.RFC3339),
			WeekKey:     timeutil.WeekKey(published),
			Tags:        tags,
		})
	}
	return out
}

// GUIDHash derives the stable update ID for an RSS entry from its GUID.
func GUIDHash(guid string) string {
	h := sha1.Sum([]byte(guid))
	return hex.EncodeToString(h[:])[:16]
}
