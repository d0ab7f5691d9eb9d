package content

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLibrary(t *testing.T) (*Library, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return NewLibrary(store), dir
}

func TestLoadAllTolerant(t *testing.T) {
	lib, dir := testLibrary(t)
	mustWrite(t, dir, PostsDoc, `[{"title":"Post A","url":"https://dev.to/a"}]`)
	mustWrite(t, dir, TutorialsDoc, `not valid json`)
	// ReviewsDoc intentionally absent.

	lib.LoadAll(discard())

	if got := lib.Posts(); len(got) != 1 || got[0].Title != "Post A" {
		t.Errorf("posts = %+v", got)
	}
	if got := lib.Reviews(); len(got) != 0 {
		t.Errorf("reviews = %+v, want empty", got)
	}
	if got := lib.Tutorials("", ""); len(got) != 0 {
		t.Errorf("tutorials = %+v, want empty (malformed doc skipped)", got)
	}
}

func TestReloadSkipsUnchanged(t *testing.T) {
	lib, _ := testLibrary(t)
	doc := []byte(`[{"name":"Jane","text":"great"}]`)

	changed, err := lib.Reload(ReviewsDoc, doc)
	if err != nil || !changed {
		t.Fatalf("first reload: changed=%v err=%v", changed, err)
	}
	changed, err = lib.Reload(ReviewsDoc, doc)
	if err != nil || changed {
		t.Fatalf("identical reload: changed=%v err=%v", changed, err)
	}
}

func TestReloadIgnoresUnknownDoc(t *testing.T) {
	lib, _ := testLibrary(t)
	changed, err := lib.Reload("random.json", []byte(`{"whatever":1}`))
	if err != nil || changed {
		t.Errorf("unknown doc: changed=%v err=%v", changed, err)
	}
}

func TestTutorialFiltering(t *testing.T) {
	lib, _ := testLibrary(t)
	_, err := lib.Reload(TutorialsDoc, []byte(`[
		{"id":"t1","title":"Build a Lambda API","category":"Serverless","tags":["lambda","api"]},
		{"id":"t2","title":"EKS from scratch","category":"DevOps","tags":["kubernetes"]}
	]`))
	if err != nil {
		t.Fatal(err)
	}

	if got := lib.Tutorials("All", ""); len(got) != 2 {
		t.Errorf("All = %d, want 2", len(got))
	}
	if got := lib.Tutorials("Serverless", ""); len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("Serverless = %+v", got)
	}
	// Matches tags only.
	if got := lib.Tutorials("", "kubernetes"); len(got) != 1 || got[0].ID != "t2" {
		t.Errorf("query kubernetes = %+v", got)
	}
}

func TestFSRejectsEscapes(t *testing.T) {
	_, dir := testLibrary(t)
	store, _ := NewFS(dir)
	if _, err := store.Read("../outside.json"); err == nil {
		t.Error("traversal must be rejected")
	}
	if _, err := store.Read("/etc/passwd"); err == nil {
		t.Error("absolute path must be rejected")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	lib, dir := testLibrary(t)
	mustWrite(t, dir, PostsDoc, `[]`)
	lib.LoadAll(discard())

	var mu sync.Mutex
	events := map[string]int{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, lib, discard(), func(kind, doc string) {
			mu.Lock()
			events[kind+":"+doc]++
			mu.Unlock()
		})
	}()

	// Give the watcher a moment to register, then rewrite the document.
	time.Sleep(150 * time.Millisecond)
	mustWrite(t, dir, PostsDoc, `[{"title":"fresh","url":"https://dev.to/x"}]`)

	deadline := time.After(3 * time.Second)
	for {
		mu.Lock()
		n := events["updated:"+PostsDoc]
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for reload event")
		case <-time.After(50 * time.Millisecond):
		}
	}

	if got := lib.Posts(); len(got) != 1 || got[0].Title != "fresh" {
		t.Errorf("posts after reload = %+v", got)
	}

	cancel()
	<-done
}

func mustWrite(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
