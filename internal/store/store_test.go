package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/tlumach/internal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(source, target, route string, at time.Time) internal.HistoryRecord {
	return internal.HistoryRecord{
		SourceText:     source,
		SourceLang:     "en",
		TargetLang:     "hi",
		TargetName:     target,
		Engine:         "fast",
		Route:          route,
		Service:        "gtx",
		TranslatedText: "translated:" + source,
		Latency:        120 * time.Millisecond,
		Timestamp:      at,
	}
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_SaveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	id1, err := s.Save(ctx, record("first", "Hindi", "fast", base))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id1 == "" {
		t.Fatal("expected generated ID")
	}
	if _, err := s.Save(ctx, record("  second\n", "Hindi", "accurate", base.Add(time.Minute))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SourceText != "second" {
		t.Errorf("expected newest first with trimmed source, got %q", entries[0].SourceText)
	}
	if entries[1].ID != id1 {
		t.Errorf("expected oldest entry to have ID %s, got %s", id1, entries[1].ID)
	}
	if entries[1].Latency != 120*time.Millisecond {
		t.Errorf("expected latency to round-trip, got %v", entries[1].Latency)
	}
	if entries[1].Input != "text" {
		t.Errorf("expected default input kind, got %q", entries[1].Input)
	}
	if !entries[1].Timestamp.Equal(base) {
		t.Errorf("expected timestamp %v, got %v", base, entries[1].Timestamp)
	}

	limited, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 1 || limited[0].SourceText != "second" {
		t.Errorf("expected only the newest entry, got %+v", limited)
	}
}

func TestStore_SaveNormalizesSource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, record("café", "French", "fast", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries, _ := s.List(ctx, 0)
	if len(entries) != 1 || entries[0].SourceText != "café" {
		t.Errorf("expected NFC source text, got %+v", entries)
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	s.Save(ctx, record("a", "Hindi", "fast", now))
	s.Save(ctx, record("b", "Hindi", "accurate", now.Add(time.Second)))
	fallback := record("c", "French", "fallback", now.Add(2*time.Second))
	fallback.Latency = 300 * time.Millisecond
	s.Save(ctx, fallback)
	cached := record("a", "Hindi", "fast", now.Add(3*time.Second))
	cached.FromCache = true
	cached.Latency = 0
	s.Save(ctx, cached)

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalEntries != 4 {
		t.Errorf("expected 4 entries, got %d", stats.TotalEntries)
	}
	if stats.CachedEntries != 1 {
		t.Errorf("expected 1 cached entry, got %d", stats.CachedEntries)
	}
	if stats.AvgLatency != 180*time.Millisecond {
		t.Errorf("expected average uncached latency 180ms, got %v", stats.AvgLatency)
	}
	if stats.ByRoute["fast"] != 2 || stats.ByRoute["accurate"] != 1 || stats.ByRoute["fallback"] != 1 {
		t.Errorf("unexpected route counts %v", stats.ByRoute)
	}
	if stats.ByTarget["Hindi"] != 3 || stats.ByTarget["French"] != 1 {
		t.Errorf("unexpected target counts %v", stats.ByTarget)
	}
}

func TestStore_Stats_Empty(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 0 || stats.AvgLatency != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, record("x", "Hindi", "fast", time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	entries, _ := s.List(ctx, 0)
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, src := range []string{"a", "b", "c"} {
		if _, err := s.Save(ctx, record(src, "Hindi", "fast", time.Now())); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 deleted rows, got %d", n)
	}
}
