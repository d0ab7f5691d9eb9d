//go:build sqlite_fts5

package store

import (
	"testing"
	"time"

	"github.com/subhashbohra/acloudresume-site/internal/models"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM updates_fts`).Scan(&count); err != nil {
		t.Fatalf("updates_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	it := update("u1", "2025-W02", "Aurora adds full-text capabilities", time.Now())
	it.Summary = "a powerful new way to search relational data"
	if err := db.UpsertUpdates([]models.Update{it}); err != nil {
		t.Fatalf("UpsertUpdates: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].UpdateID != "u1" || results[0].WeekKey != "2025-W02" {
		t.Errorf("unexpected hit: %+v", results[0])
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	it := update("u1", "2025-W02", "original headline", now)
	_ = db.UpsertUpdates([]models.Update{it})
	it.Title = "replacement headline"
	_ = db.UpsertUpdates([]models.Update{it})

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "replacement headline" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
