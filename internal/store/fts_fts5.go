//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/subhashbohra/acloudresume-site/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS updates_fts USING fts5(
			week_key UNINDEXED,
			update_id UNINDEXED,
			title,
			summary,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, it models.Update) error {
	_, _ = tx.Exec(`DELETE FROM updates_fts WHERE week_key = ? AND update_id = ?`, it.WeekKey, it.UpdateID)
	_, err := tx.Exec(`INSERT INTO updates_fts (week_key, update_id, title, summary, tags) VALUES (?, ?, ?, ?, ?)`,
		it.WeekKey, it.UpdateID, it.Title, it.Summary, strings.Join(it.Tags, " "))
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

// SearchResult is one full-text search hit.
type SearchResult struct {
	WeekKey  string `json:"weekKey"`
	UpdateID string `json:"updateId"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
}

// Search performs an FTS5 full-text search over titles, summaries, and tags.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT week_key,
		       update_id,
		       title,
		       snippet(updates_fts, 3, '<b>', '</b>', '...', 64)
		FROM updates_fts
		WHERE updates_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
