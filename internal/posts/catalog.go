// Package posts keeps the catalog of blog posts the SEO endpoints can
// describe.
package posts

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no post has the requested slug.
var ErrNotFound = errors.New("post not found")

// DateLayout is the layout of Post.Date.
const DateLayout = "2006-01-02"

// Post is one catalog entry.
type Post struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Date        string   `yaml:"date,omitempty" json:"date,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

func (p Post) published() time.Time {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

//go:embed posts.yaml
var defaultSeed []byte

// DefaultSeed returns the posts bundled with the binary.
func DefaultSeed() []Post {
	ps, err := ParseSeed(bytes.NewReader(defaultSeed))
	if err != nil {
		panic(fmt.Sprintf("posts: bundled seed is invalid: %v", err))
	}
	return ps
}

// ParseSeed decodes a YAML list of posts.
func ParseSeed(r io.Reader) ([]Post, error) {
	var ps []Post
	if err := yaml.NewDecoder(r).Decode(&ps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode posts yaml: %w", err)
	}
	for i, p := range ps {
		if p.Slug == "" || p.Title == "" {
			return nil, fmt.Errorf("post %d: slug and title are required", i)
		}
	}
	return ps, nil
}

// Catalog is a concurrency-safe set of posts indexed by slug. Seed posts
// are always present; manifest posts override seed posts with the same slug.
type Catalog struct {
	seed        []Post
	manifestURL string
	client      *http.Client
	logger      *slog.Logger

	mu     sync.RWMutex
	bySlug map[string]Post
	sorted []Post
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithManifest enables refreshing from a remote JSON manifest.
func WithManifest(rawURL string, client *http.Client) Option {
	return func(c *Catalog) {
		c.manifestURL = rawURL
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets the logger used for refresh failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// NewCatalog builds a catalog holding seed.
func NewCatalog(seed []Post, opts ...Option) *Catalog {
	c := &Catalog{
		seed:   seed,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.set(nil)
	return c
}

// Find looks up a post by slug.
func (c *Catalog) Find(slug string) (Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.bySlug[slug]
	if !ok {
		return Post{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return p, nil
}

// All returns the posts newest first.
func (c *Catalog) All() []Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Post, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// Refresh fetches the manifest and merges it over the seed. On failure the
// previous contents are kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	if c.manifestURL == "" {
		return nil
	}
	remote, err := c.fetchManifest(ctx)
	if err != nil {
		return err
	}
	c.set(remote)
	c.logger.Debug("post manifest refreshed", "posts", len(remote))
	return nil
}

// Run refreshes immediately and then every interval until ctx is done.
func (c *Catalog) Run(ctx context.Context, every time.Duration) {
	if c.manifestURL == "" {
		return
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("post manifest refresh failed", "err", err)
	}
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.Warn("post manifest refresh failed", "err", err)
			}
		}
	}
}

func (c *Catalog) fetchManifest(ctx context.Context) ([]Post, error) {
	u, err := url.Parse(c.manifestURL)
	if err != nil {
		return nil, fmt.Errorf("parse manifest url: %w", err)
	}
	// cache buster, the gist CDN otherwise serves stale manifests
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build manifest request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch manifest: status code %d", resp.StatusCode)
	}

	var ps []Post
	if err := json.NewDecoder(resp.Body).Decode(&ps); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	valid := ps[:0]
	for _, p := range ps {
		if p.Slug == "" || p.Title == "" {
			continue
		}
		valid = append(valid, p)
	}
	return valid, nil
}

func (c *Catalog) set(remote []Post) {
	bySlug := make(map[string]Post, len(c.seed)+len(remote))
	for _, p := range c.seed {
		bySlug[p.Slug] = p
	}
	for _, p := range remote {
		bySlug[p.Slug] = p
	}
	sorted := make([]Post, 0, len(bySlug))
	for _, p := range bySlug {
		sorted = append(sorted, p)
	}
	sort.Slice(sorted, func(i, j int) bool {
		ti, tj := sorted[i].published(), sorted[j].published()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return sorted[i].Slug < sorted[j].Slug
	})

	c.mu.Lock()
	c.bySlug = bySlug
	c.sorted = sorted
	c.mu.Unlock()
}
