// Package testutil provides shared test helpers for setting up databases and
// content directories.
package testutil

import (
	"os"
	"testing"

	"github.com/subhashbohra/acloudresume-site/internal/content"
	"github.com/subhashbohra/acloudresume-site/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "acr-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary content directory with a file store.
func TestDataDir(t *testing.T) (string, *content.FS) {
	t.Helper()
	dataDir := t.TempDir()
	fs, err := content.NewFS(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	return dataDir, fs
}
