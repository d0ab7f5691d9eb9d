package content

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/subhashbohra/acloudresume-site/internal/checksum"
	"github.com/subhashbohra/acloudresume-site/internal/models"
)

// Well-known document names inside the data directory.
const (
	PostsDoc     = "posts.json"
	ReviewsDoc   = "linkedin-reviews.json"
	TutorialsDoc = "tutorials.json"
	SampleDoc    = "sample-updates.json"
)

func docChecksum(data []byte) string { return checksum.Sum(data) }

// Library holds the parsed content documents in memory. Reads are served
// from memory; reloads swap whole documents under a write lock, so a page
// never observes a half-updated document.
type Library struct {
	store *FS

	mu        sync.RWMutex
	posts     []models.Post
	reviews   []models.Review
	tutorials []models.Tutorial
	checksums map[string]string
}

// NewLibrary creates a library over the given document store.
func NewLibrary(store *FS) *Library {
	return &Library{
		store:     store,
		checksums: make(map[string]string),
	}
}

// LoadAll reads every known document. A missing document is not an error —
// the corresponding section just renders empty; a malformed one is logged
// and skipped, keeping whatever was loaded before.
func (l *Library) LoadAll(logger *slog.Logger) {
	for _, name := range []string{PostsDoc, ReviewsDoc, TutorialsDoc} {
		data, err := l.store.Read(name)
		if err != nil {
			logger.Debug("content: document absent", slog.String("doc", name))
			continue
		}
		if _, err := l.Reload(name, data); err != nil {
			logger.Warn("content: load failed", slog.String("doc", name), slog.String("error", err.Error()))
		}
	}
}

// Reload parses data into the slot named by doc. It returns false when the
// document bytes are unchanged since the last load. Unknown names are
// ignored so stray JSON files in the data directory are harmless.
func (l *Library) Reload(doc string, data []byte) (changed bool, err error) {
	cs := docChecksum(data)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.checksums[doc] == cs {
		return false, nil
	}

	switch doc {
	case PostsDoc:
		var posts []models.Post
		if err := json.Unmarshal(data, &posts); err != nil {
			return false, fmt.Errorf("content: parse %s: %w", doc, err)
		}
		l.posts = posts
	case ReviewsDoc:
		var reviews []models.Review
		if err := json.Unmarshal(data, &reviews); err != nil {
			return false, fmt.Errorf("content: parse %s: %w", doc, err)
		}
		l.reviews = reviews
	case TutorialsDoc:
		var tutorials []models.Tutorial
		if err := json.Unmarshal(data, &tutorials); err != nil {
			return false, fmt.Errorf("content: parse %s: %w", doc, err)
		}
		l.tutorials = tutorials
	default:
		return false, nil
	}

	l.checksums[doc] = cs
	return true, nil
}

// Drop clears the slot for a deleted document.
func (l *Library) Drop(doc string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch doc {
	case PostsDoc:
		l.posts = nil
	case ReviewsDoc:
		l.reviews = nil
	case TutorialsDoc:
		l.tutorials = nil
	}
	delete(l.checksums, doc)
}

// Posts returns the loaded blog post cards.
func (l *Library) Posts() []models.Post {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Post(nil), l.posts...)
}

// Reviews returns the loaded review cards.
func (l *Library) Reviews() []models.Review {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Review(nil), l.reviews...)
}

// Tutorials returns the tutorial entries matching the category and query,
// with the same matching semantics as the updates filter: "All" or empty
// category passes everything, the query is a case-insensitive substring over
// title, description, and tags.
func (l *Library) Tutorials(category, query string) []models.Tutorial {
	l.mu.RLock()
	defer l.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Tutorial, 0, len(l.tutorials))
	for _, t := range l.tutorials {
		if category != "" && category != models.CategoryAll && t.Category != category {
			continue
		}
		if q != "" {
			hay := strings.ToLower(t.Title + " " + t.Description + " " + strings.Join(t.Tags, " "))
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
