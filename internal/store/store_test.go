package store

import (
	"context"
	"testing"
	"time"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecord_AssignsIDAndTime(t *testing.T) {
	s := openTest(t)

	h, err := s.Record(context.Background(), Hit{Slug: "welcome", HashedIP: "abc", Outcome: "injected"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if h.ID == "" || h.Timestamp.IsZero() {
		t.Fatalf("missing id or timestamp: %+v", h)
	}

	recent, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != h.ID {
		t.Fatalf("recent: %+v", recent)
	}
}

func TestStats(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	hits := []Hit{
		{Slug: "welcome", HashedIP: "a", Outcome: "injected", Timestamp: now.Add(-time.Hour)},
		{Slug: "welcome", HashedIP: "b", Outcome: "injected", Timestamp: now.Add(-2 * time.Hour)},
		{Slug: "shaders", HashedIP: "a", Outcome: "injected", Timestamp: now.Add(-3 * 24 * time.Hour)},
		{Slug: "nope", HashedIP: "c", Outcome: "passthrough", Timestamp: now.Add(-30 * 24 * time.Hour)},
		{Slug: "welcome", HashedIP: "c", Outcome: "error", Timestamp: now.Add(-time.Minute)},
	}
	for _, h := range hits {
		if _, err := s.Record(ctx, h); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	st, err := s.Stats(ctx, now, "injected", "error")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	checks := []struct {
		name      string
		got, want int64
	}{
		{"total", st.TotalPreviews, 5},
		{"unique", st.UniqueVisitors, 3},
		{"injected", st.Injected, 3},
		{"failures", st.Failures, 1},
		{"today", st.PreviewsToday, 3},
		{"week", st.PreviewsThisWeek, 4},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, c.got, c.want)
		}
	}

	if len(st.TopPosts) != 2 || st.TopPosts[0].Slug != "welcome" || st.TopPosts[0].Previews != 2 {
		t.Fatalf("top posts: %+v", st.TopPosts)
	}
	if len(st.RecentHits) != 5 || st.RecentHits[0].Outcome != "error" {
		t.Fatalf("recent hits not newest first: %+v", st.RecentHits)
	}
}

func TestCleanup(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Now()

	for _, age := range []time.Duration{time.Hour, 400 * 24 * time.Hour, 500 * 24 * time.Hour} {
		if _, err := s.Record(ctx, Hit{HashedIP: "x", Outcome: "injected", Timestamp: now.Add(-age)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	n, err := s.Cleanup(ctx, now.Add(-365*24*time.Hour))
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed %d, want 2", n)
	}
	left, _ := s.Recent(ctx, 10)
	if len(left) != 1 {
		t.Fatalf("left %d hits, want 1", len(left))
	}
}
