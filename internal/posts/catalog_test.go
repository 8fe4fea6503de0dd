package posts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDefaultSeed(t *testing.T) {
	ps := DefaultSeed()
	if len(ps) == 0 {
		t.Fatal("bundled seed is empty")
	}
	c := NewCatalog(ps)
	p, err := c.Find("welcome")
	if err != nil {
		t.Fatalf("Find(welcome): %v", err)
	}
	if p.Title != "Welcome to the New Portfolio" {
		t.Fatalf("title: got %q", p.Title)
	}
}

func TestParseSeed_RequiresSlugAndTitle(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("- slug: x\n"))
	if err == nil {
		t.Fatal("expected error for post without title")
	}
}

func TestParseSeed_Empty(t *testing.T) {
	ps, err := ParseSeed(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(ps) != 0 {
		t.Fatalf("got %d posts, want 0", len(ps))
	}
}

func TestFind_NotFound(t *testing.T) {
	c := NewCatalog(nil)
	_, err := c.Find("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAll_SortedNewestFirst(t *testing.T) {
	c := NewCatalog([]Post{
		{Slug: "old", Title: "Old", Date: "2024-01-01"},
		{Slug: "undated", Title: "Undated"},
		{Slug: "new", Title: "New", Date: "2026-03-01"},
		{Slug: "mid", Title: "Mid", Date: "2025-06-15"},
	})

	var got []string
	for _, p := range c.All() {
		got = append(got, p.Slug)
	}
	want := "new,mid,old,undated"
	if strings.Join(got, ",") != want {
		t.Fatalf("order: got %v, want %s", got, want)
	}
}

func TestRefresh_MergesManifestOverSeed(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("t")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"slug":"welcome","title":"Welcome (edited)","date":"2026-01-01"},
			{"slug":"shaders","title":"Writing Shaders","description":"GLSL notes","date":"2026-02-10"},
			{"slug":"","title":"broken"}
		]`))
	}))
	defer srv.Close()

	c := NewCatalog(DefaultSeed(), WithManifest(srv.URL+"/manifest.json", srv.Client()))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if gotQuery == "" {
		t.Fatal("manifest request missing cache-busting t parameter")
	}

	p, err := c.Find("welcome")
	if err != nil {
		t.Fatalf("Find(welcome): %v", err)
	}
	if p.Title != "Welcome (edited)" {
		t.Fatalf("manifest did not override seed: %q", p.Title)
	}
	if _, err := c.Find("shaders"); err != nil {
		t.Fatalf("Find(shaders): %v", err)
	}
	if n := len(c.All()); n != 2 {
		t.Fatalf("got %d posts, want 2", n)
	}
	if first := c.All()[0].Slug; first != "shaders" {
		t.Fatalf("newest post: got %q, want shaders", first)
	}
}

func TestRefresh_FailureKeepsPrevious(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCatalog(DefaultSeed(), WithManifest(srv.URL, srv.Client()))
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected error on 502")
	}
	if _, err := c.Find("welcome"); err != nil {
		t.Fatalf("seed lost after failed refresh: %v", err)
	}
}

func TestRefresh_NoManifestIsNoop(t *testing.T) {
	c := NewCatalog(DefaultSeed())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := NewCatalog([]Post{{Slug: "a", Title: "A"}})
	ps := c.All()
	ps[0].Title = "mutated"
	if p, _ := c.Find("a"); p.Title != "A" {
		t.Fatalf("catalog mutated through All(): %q", p.Title)
	}
}
