package seo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ezzio11/portfolio/internal/posts"
)

// ErrorBody is the fixed plain-text body served when the shell cannot be fetched.
const ErrorBody = "Error generating preview"

// Outcomes reported to a Handler's observer.
const (
	OutcomeInjected    = "injected"
	OutcomePassthrough = "passthrough"
	OutcomeRedirect    = "redirect"
	OutcomeError       = "error"
)

// PostFinder resolves a slug to a post.
type PostFinder interface {
	Find(slug string) (posts.Post, error)
}

// ShellSource returns the unmodified SPA shell for a request.
type ShellSource interface {
	Fetch(ctx context.Context, r *http.Request) (string, error)
}

// Observer is told about every request the handler answers.
type Observer func(c *gin.Context, slug, outcome string)

// Handler serves the SPA shell, rewriting its meta tags when the request
// names a known post with ?post=.
type Handler struct {
	Posts    PostFinder
	Shell    ShellSource
	Site     Site
	Injector *Injector
	// Redirect sends unknown or missing slugs to / instead of serving the
	// shell unmodified. Only set it on routes other than /.
	Redirect bool
	Logger   *slog.Logger
	Observe  Observer
}

// ServeHTTP is the gin handler.
func (h *Handler) ServeHTTP(c *gin.Context) {
	slug := c.Query("post")

	var (
		post posts.Post
		err  error
	)
	if slug != "" {
		post, err = h.Posts.Find(slug)
	}
	found := slug != "" && err == nil
	if err != nil && !errors.Is(err, posts.ErrNotFound) {
		h.logger().Error("post lookup failed", "slug", slug, "err", err)
	}

	if !found && h.Redirect {
		h.observe(c, slug, OutcomeRedirect)
		c.Redirect(http.StatusFound, "/")
		return
	}

	page, err := h.Shell.Fetch(c.Request.Context(), c.Request)
	if err != nil {
		h.logger().Error("SEO injection error", "slug", slug, "err", err)
		h.observe(c, slug, OutcomeError)
		c.String(http.StatusInternalServerError, ErrorBody)
		return
	}

	if !found {
		h.observe(c, slug, OutcomePassthrough)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		return
	}

	in := h.Injector
	if in == nil {
		in = defaultInjector
	}
	page = in.Inject(page, BuildMeta(post, h.Site))
	h.observe(c, slug, OutcomeInjected)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (h *Handler) observe(c *gin.Context, slug, outcome string) {
	if h.Observe != nil {
		h.Observe(c, slug, outcome)
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
