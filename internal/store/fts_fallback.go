//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/subhashbohra/acloudresume-site/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search falls back to LIKE over the updates table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ models.Update) error {
	return nil
}

// SearchResult is one full-text search hit.
type SearchResult struct {
	WeekKey  string `json:"weekKey"`
	UpdateID string `json:"updateId"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT week_key, update_id, title, substr(summary, 1, 200)
		FROM updates
		WHERE title LIKE ? OR summary LIKE ? OR tags LIKE ?
		ORDER BY published_at DESC
		LIMIT ?
	`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.WeekKey, &r.UpdateID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
