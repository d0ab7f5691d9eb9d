package feed

import (
	"sort"
	"strings"

	"github.com/subhashbohra/acloudresume-site/internal/models"
)

// Filter returns the items matching the selected category and free-text
// query. Category "All" (or empty) passes everything; the query is a
// case-insensitive substring match over title, summary, and tags, and an
// empty query matches everything. Input order is preserved.
func Filter(items []models.Update, category, query string) []models.Update {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Update, 0, len(items))
	for _, it := range items {
		if category != "" && category != models.CategoryAll && it.Category != category {
			continue
		}
		if q != "" {
			hay := strings.ToLower(it.Title + " " + it.Summary + " " + strings.Join(it.Tags, " "))
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// WeekGroup is one bucket of items sharing an ISO week key.
type WeekGroup struct {
	WeekKey string
	Items   []models.Update
}

// GroupByWeek partitions items into per-week buckets ordered by week key
// descending. Lexicographic descending order equals chronological descending
// order because week keys are zero-padded.
func GroupByWeek(items []models.Update) []WeekGroup {
	byWeek := make(map[string][]models.Update)
	for _, it := range items {
		byWeek[it.WeekKey] = append(byWeek[it.WeekKey], it)
	}
	out := make([]WeekGroup, 0, len(byWeek))
	for wk, group := range byWeek {
		out = append(out, WeekGroup{WeekKey: wk, Items: group})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekKey > out[j].WeekKey
	})
	return out
}

// Paginate returns the 1-based page of items for the given page size, along
// with the clamped page number and total page count. An out-of-range request
// (e.g. after a filter shrank the result set) is clamped into
// [1, ceil(len/pageSize)].
func Paginate(items []models.Update, page, pageSize int) (pageItems []models.Update, clampedPage, totalPages int) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages = (len(items) + pageSize - 1) / pageSize
	if totalPages == 0 {
		return []models.Update{}, 1, 0
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, totalPages
}
