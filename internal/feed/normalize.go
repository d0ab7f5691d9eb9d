// Package feed implements the weekly-updates data pipeline: normalization of
// loosely-typed feed records into canonical items, category/text filtering,
// grouping by ISO week, and pagination. It is markup-free on purpose so the
// whole pipeline can be tested without any rendering involved.
package feed

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"time"

	"github.com/subhashbohra/acloudresume-site/internal/models"
	"github.com/subhashbohra/acloudresume-site/internal/timeutil"
)

// clockSkewTolerance is how far ahead of "now" a publish timestamp may sit
// before the future-date clamp treats it as a misbehaving upstream feed.
const clockSkewTolerance = 5 * time.Minute

// Options control normalization behavior.
type Options struct {
	// ClampFuture replaces publish timestamps further than the clock-skew
	// tolerance ahead of Now with Now. Guards against a buggy upstream feed,
	// at the cost of masking legitimately scheduled content.
	ClampFuture bool
	// Now is the reference clock; zero value means time.Now. Injected so the
	// clamp is testable.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// acceptedDateLayouts are tried in order when parsing a raw publish field.
var acceptedDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Normalize maps raw feed records onto canonical items and sorts them by
// publish time descending. Per-record problems (unparseable dates, missing
// fields) are absorbed with defaults: a single bad record never fails the
// batch.
func Normalize(raw []models.RawUpdate, opts Options) []models.Update {
	now := opts.now()
	out := make([]models.Update, 0, len(raw))
	for i := range raw {
		r := &raw[i]

		publishedAt := parsePublished(r.PublishedRaw(), now)
		if opts.ClampFuture && publishedAt.After(now.Add(clockSkewTolerance)) {
			publishedAt = now
		}

		weekKey := r.Week()
		if weekKey == "" {
			weekKey = timeutil.WeekKey(publishedAt)
		}

		category := r.Category
		if !models.KnownCategory(category) {
			category = models.CategoryOther
		}

		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}

		id := r.ID()
		if id == "" {
			id = StableID(r.Title, r.Link, publishedAt)
		}

		out = append(out, models.Update{
			UpdateID:    id,
			Title:       r.Title,
			Link:        r.Link,
			PublishedAt: publishedAt,
			WeekKey:     weekKey,
			Category:    category,
			Tags:        tags,
			Summary:     r.SummaryText(),
			ImageURL:    r.Image(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}

// parsePublished parses a raw date string, falling back to now when the value
// is absent or unparseable.
func parsePublished(raw string, now time.Time) time.Time {
	if raw == "" {
		return now
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return now
}

// StableID derives a deterministic identifier for an item that carries no
// explicit one. The digest input is the (title, link, publishedAt) triple, so
// re-normalizing the same record always yields the same ID.
func StableID(title, link string, publishedAt time.Time) string {
	h := sha1.Sum([]byte(title + "|" + link + "|" + publishedAt.UTC().Format(time.RFC3339)))
	return "u" + hex.EncodeToString(h[:])[:16]
}
