package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ezzio11/portfolio/internal/config"
	"github.com/ezzio11/portfolio/internal/ornament"
	"github.com/ezzio11/portfolio/internal/posts"
	"github.com/ezzio11/portfolio/internal/scene"
	"github.com/ezzio11/portfolio/internal/seo"
)

// missing build files are never answered with the shell
var staticExt = map[string]bool{
	".js": true, ".mjs": true, ".css": true, ".map": true, ".ico": true,
	".png": true, ".jpg": true, ".jpeg": true, ".svg": true, ".webp": true,
	".woff": true, ".woff2": true, ".json": true, ".txt": true, ".xml": true,
}

type server struct {
	cfg      config.Config
	catalog  *posts.Catalog
	shell    seo.ShellSource
	injector *seo.Injector
	admin    *admin
	logger   *slog.Logger
}

func (s *server) site() seo.Site {
	return seo.Site{Name: s.cfg.SiteName, Origin: s.cfg.SiteOrigin}
}

func (s *server) seoHandler(redirect bool) *seo.Handler {
	h := &seo.Handler{
		Posts:    s.catalog,
		Shell:    s.shell,
		Site:     s.site(),
		Injector: s.injector,
		Redirect: redirect,
		Logger:   s.logger,
	}
	if s.admin != nil {
		h.Observe = s.admin.trackPreview
	}
	return h
}

func (s *server) routes() *gin.Engine {
	r := gin.Default()

	shellHandler := s.seoHandler(false)
	apiHandler := s.seoHandler(s.cfg.SEONotFound == config.NotFoundRedirect)

	// crawlers hit the SPA entry point with ?post=<slug>
	r.GET("/", shellHandler.ServeHTTP)
	r.GET("/index.html", shellHandler.ServeHTTP)
	r.GET("/api/seo", apiHandler.ServeHTTP)

	r.Static("/assets", filepath.Join(s.cfg.StaticDir, "assets"))

	r.GET("/decorations.svg", s.decorations)

	r.GET("/api/posts", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.catalog.All())
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if s.admin != nil {
		s.admin.setupAdminRoutes(r, s.preview)
	}

	// client-side routes still need the shell
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") ||
			strings.HasPrefix(c.Request.URL.Path, "/admin/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if staticExt[strings.ToLower(path.Ext(c.Request.URL.Path))] {
			c.Status(http.StatusNotFound)
			return
		}
		shellHandler.ServeHTTP(c)
	})

	return r
}

// preview reports the tags a crawler would see for ?post=.
func (s *server) preview(c *gin.Context) {
	slug := c.Query("post")
	post, err := s.catalog.Find(slug)
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page, err := s.shell.Fetch(c.Request.Context(), c.Request)
	if err != nil {
		s.logger.Error("preview shell fetch failed", "slug", slug, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": seo.ErrorBody})
		return
	}

	meta := seo.BuildMeta(post, s.site())
	tags, err := seo.ReadMeta(s.injector.Inject(page, meta))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "meta": meta, "tags": tags})
}

// decorations renders a snapshot of the background simulations.
func (s *server) decorations(c *gin.Context) {
	opts, err := sceneOptions(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := scene.Render(&buf, opts); err != nil {
		if errors.Is(err, scene.ErrBadOptions) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("error rendering decorations", "err", err)
		c.String(http.StatusInternalServerError, "render failed")
		return
	}

	// a given query always renders the same frame
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func sceneOptions(c *gin.Context) (scene.Options, error) {
	opts := scene.Options{Width: 1280, Height: 720, Seed: 1, Ticks: 120, Background: c.Query("bg")}

	var err error
	if v := c.Query("w"); v != "" {
		if opts.Width, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, fmt.Errorf("bad w: %w", err)
		}
	}
	if v := c.Query("h"); v != "" {
		if opts.Height, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, fmt.Errorf("bad h: %w", err)
		}
	}
	if v := c.Query("seed"); v != "" {
		if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return opts, fmt.Errorf("bad seed: %w", err)
		}
	}
	if v := c.Query("ticks"); v != "" {
		if opts.Ticks, err = strconv.Atoi(v); err != nil {
			return opts, fmt.Errorf("bad ticks: %w", err)
		}
	}

	px, py := c.Query("px"), c.Query("py")
	if px != "" && py != "" {
		var p ornament.Point
		if p.X, err = strconv.ParseFloat(px, 64); err != nil {
			return opts, fmt.Errorf("bad px: %w", err)
		}
		if p.Y, err = strconv.ParseFloat(py, 64); err != nil {
			return opts, fmt.Errorf("bad py: %w", err)
		}
		opts.Pointer = &p
	}

	if opts.Layers, err = scene.ParseLayers(c.Query("layers")); err != nil {
		return opts, err
	}
	return opts, nil
}
