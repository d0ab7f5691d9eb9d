package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/subhashbohra/acloudresume-site/internal/models"
)

// UpsertUpdates inserts or replaces a batch of canonical items within one
// transaction. A refreshed row that arrives without a summary or image keeps
// the previously stored one, so re-ingesting a feed never erases enrichment.
func (db *DB) UpsertUpdates(items []models.Update) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO updates (week_key, update_id, title, link, published_at, category, tags, summary, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(week_key, update_id) DO UPDATE SET
			title        = excluded.title,
			link         = excluded.link,
			published_at = excluded.published_at,
			category     = excluded.category,
			tags         = excluded.tags,
			summary      = CASE WHEN excluded.summary  = '' THEN updates.summary   ELSE excluded.summary  END,
			image_url    = CASE WHEN excluded.image_url = '' THEN updates.image_url ELSE excluded.image_url END
	`)
	if err != nil {
		return fmt.Errorf("store: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		tagsJSON, _ := json.Marshal(it.Tags)
		if _, err := stmt.Exec(
			it.WeekKey, it.UpdateID, it.Title, it.Link,
			it.PublishedAt.UTC(), it.Category, string(tagsJSON),
			it.Summary, it.ImageURL,
		); err != nil {
			return fmt.Errorf("store: upsert update %s/%s: %w", it.WeekKey, it.UpdateID, err)
		}
		if err := ftsUpsert(tx, it); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListWeek returns the items of one ISO week, most recent first.
func (db *DB) ListWeek(weekKey string) ([]models.Update, error) {
	rows, err := db.conn.Query(`
		SELECT week_key, update_id, title, link, published_at, category, tags, summary, image_url
		FROM updates
		WHERE week_key = ?
		ORDER BY published_at DESC
	`, weekKey)
	if err != nil {
		return nil, fmt.Errorf("store: list week: %w", err)
	}
	defer rows.Close()
	return scanUpdates(rows)
}

// Weeks returns every week key with at least one item, newest first.
func (db *DB) Weeks() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT week_key FROM updates ORDER BY week_key DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: weeks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var wk string
		if err := rows.Scan(&wk); err != nil {
			return nil, err
		}
		out = append(out, wk)
	}
	return out, rows.Err()
}

// CountUpdates returns the total number of stored items.
func (db *DB) CountUpdates() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM updates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count updates: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanUpdates(rows rowScanner) ([]models.Update, error) {
	var out []models.Update
	for rows.Next() {
		var (
			it       models.Update
			tagsJSON string
			at       time.Time
		)
		if err := rows.Scan(&it.WeekKey, &it.UpdateID, &it.Title, &it.Link, &at,
			&it.Category, &tagsJSON, &it.Summary, &it.ImageURL); err != nil {
			return nil, err
		}
		it.PublishedAt = at
		it.Tags = []string{}
		_ = json.Unmarshal([]byte(tagsJSON), &it.Tags)
		out = append(out, it)
	}
	return out, rows.Err()
}
