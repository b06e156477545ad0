package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"worktrack-cli/internal/model"
)

func openTest(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	want := []model.Entity{
		{ID: "pg-1", Level: model.LevelProgram, ParentID: "cl-1", Name: "Apollo", Status: "Active"},
		{ID: "pg-2", Level: model.LevelProgram, ParentID: "cl-1", Name: "Borealis"},
	}
	if err := c.Put(ctx, model.LevelProgram, "cl-1", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := c.Get(ctx, model.LevelProgram, "cl-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}

	// Unknown key => miss.
	if _, err := c.Get(ctx, model.LevelProgram, "cl-other"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestCache_EmptyListIsAHitNotAMiss(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	if err := c.Put(ctx, model.LevelSubtask, "tk-1", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := c.Get(ctx, model.LevelSubtask, "tk-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected zero entities, got %d", len(got))
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	if err := c.Put(ctx, model.LevelClient, "", []model.Entity{{ID: "cl-1", Level: model.LevelClient}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	c.TTL = time.Hour
	if _, err := c.Get(ctx, model.LevelClient, ""); err != nil {
		t.Fatalf("fresh entry within TTL: %v", err)
	}

	// Age the entry past the TTL.
	if _, err := c.db.ExecContext(ctx, `UPDATE child_lists SET fetched_at = fetched_at - 7200;`); err != nil {
		t.Fatalf("age entry: %v", err)
	}
	if _, err := c.Get(ctx, model.LevelClient, ""); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after expiry, got %v", err)
	}
}

func TestCache_PutReplacesPreviousEntry(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	first := []model.Entity{{ID: "pr-1", Level: model.LevelProject, ParentID: "pg-1"}}
	second := []model.Entity{{ID: "pr-2", Level: model.LevelProject, ParentID: "pg-1"}}
	if err := c.Put(ctx, model.LevelProject, "pg-1", first); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(ctx, model.LevelProject, "pg-1", second); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}
	got, err := c.Get(ctx, model.LevelProject, "pg-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 || got[0].ID != "pr-2" {
		t.Fatalf("expected replacement to win, got %+v", got)
	}
}

type scriptedFetcher struct {
	ents []model.Entity
	err  error
}

func (s *scriptedFetcher) Children(context.Context, model.Level, string) ([]model.Entity, error) {
	return s.ents, s.err
}

func TestFallbackFetcher_WriteThroughAndFallback(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	ents := []model.Entity{{ID: "tk-1", Level: model.LevelTask, ParentID: "us-1", Name: "wire login form"}}
	api := &scriptedFetcher{ents: ents}
	f := &FallbackFetcher{API: api, Cache: c}

	got, err := f.Children(ctx, model.LevelTask, "us-1")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}

	// API starts failing; the cached answer takes over.
	api.ents, api.err = nil, errors.New("connection refused")
	got, err = f.Children(ctx, model.LevelTask, "us-1")
	if err != nil {
		t.Fatalf("expected cached fallback, got error %v", err)
	}
	if len(got) != 1 || got[0].ID != "tk-1" {
		t.Fatalf("expected cached task, got %+v", got)
	}

	// No cached entry for a different parent: the error surfaces.
	if _, err := f.Children(ctx, model.LevelTask, "us-other"); err == nil {
		t.Fatalf("expected fetch error when cache cannot help")
	}
}

func TestFallbackFetcher_OfflineReadsCacheOnly(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	if err := c.Put(ctx, model.LevelClient, "", []model.Entity{{ID: "cl-1", Level: model.LevelClient, Name: "Acme"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	f := &FallbackFetcher{
		API:     &scriptedFetcher{err: errors.New("must not be called")},
		Cache:   c,
		Offline: true,
	}
	got, err := f.Children(ctx, model.LevelClient, "")
	if err != nil {
		t.Fatalf("offline Children: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Acme" {
		t.Fatalf("expected cached client, got %+v", got)
	}
	if _, err := f.Children(ctx, model.LevelProgram, "cl-1"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss offline, got %v", err)
	}
}
