package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ezzio11/portfolio/internal/config"
	"github.com/ezzio11/portfolio/internal/ornament"
	"github.com/ezzio11/portfolio/internal/posts"
	"github.com/ezzio11/portfolio/internal/scene"
	"github.com/ezzio11/portfolio/internal/seo"
	"github.com/ezzio11/portfolio/internal/shell"
	"github.com/ezzio11/portfolio/internal/store"
)

func main() {
	app := &cli.App{
		Name:           "portfolio",
		Usage:          "ezzio.me portfolio backend",
		Description:    AppUsage,
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:        "serve",
				Usage:       "run the HTTP server",
				Description: ServeUsage,
				Action:      serveAction,
			},
			{
				Name:        "inject",
				Usage:       "rewrite a local HTML shell for one post",
				Description: InjectUsage,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "html", Usage: "path to the SPA shell", Required: true},
					&cli.StringFlag{Name: "post", Usage: "post slug", Required: true},
					&cli.BoolFlag{Name: "show", Usage: "print the resulting tags as YAML instead of the page"},
				},
				Action: injectAction,
			},
			{
				Name:        "simulate",
				Usage:       "render the background simulations as SVG",
				Description: SimulateUsage,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "seed", Value: 1},
					&cli.IntFlag{Name: "ticks", Value: 300},
					&cli.Float64Flag{Name: "width", Value: 1280},
					&cli.Float64Flag{Name: "height", Value: 720},
					&cli.Float64Flag{Name: "px", Usage: "pointer x, held for every tick"},
					&cli.Float64Flag{Name: "py", Usage: "pointer y, held for every tick"},
					&cli.StringFlag{Name: "layers", Usage: "comma-separated: stars, snow, ornaments"},
					&cli.StringFlag{Name: "background", Value: "#050505"},
					&cli.StringFlag{Name: "out", Usage: "output file, stdout when empty"},
				},
				Action: simulateAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger
}

// loadSeed reads POSTS_FILE when set, otherwise the built-in catalog.
func loadSeed(path string) ([]posts.Post, error) {
	if path == "" {
		return posts.DefaultSeed(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open posts file: %w", err)
	}
	defer f.Close()
	return posts.ParseSeed(f)
}

func serveAction(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, err := loadSeed(cfg.PostsFile)
	if err != nil {
		return err
	}
	var opts []posts.Option
	opts = append(opts, posts.WithLogger(logger))
	if cfg.ManifestURL != "" {
		opts = append(opts, posts.WithManifest(cfg.ManifestURL, nil))
	}
	catalog := posts.NewCatalog(seed, opts...)
	if cfg.ManifestURL != "" {
		go catalog.Run(ctx, cfg.ManifestRefresh)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	adm, err := newAdmin(st, cfg.AdminUsername, cfg.AdminPassword, cfg.Retention, logger)
	if err != nil {
		return err
	}
	go adm.runCleanup(ctx)

	var src seo.ShellSource
	if cfg.ShellURL != "" {
		src = shell.NewHTTPSource(cfg.ShellURL, cfg.ShellTimeout)
	} else {
		src = shell.FileSource{Path: filepath.Join(cfg.StaticDir, "index.html")}
	}

	s := &server{
		cfg:      cfg,
		catalog:  catalog,
		shell:    src,
		injector: seo.NewInjector(cfg.SiteTagline),
		admin:    adm,
		logger:   logger,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "site", cfg.SiteOrigin, "not_found", cfg.SEONotFound)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}

	adm.wait()
	return nil
}

func injectAction(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	seed, err := loadSeed(cfg.PostsFile)
	if err != nil {
		return err
	}

	post, err := posts.NewCatalog(seed).Find(c.String("post"))
	if err != nil {
		return err
	}
	page, err := shell.FileSource{Path: c.String("html")}.Fetch(c.Context, nil)
	if err != nil {
		return err
	}

	out := seo.NewInjector(cfg.SiteTagline).Inject(page, seo.BuildMeta(post, seo.Site{Name: cfg.SiteName, Origin: cfg.SiteOrigin}))
	if !c.Bool("show") {
		_, err = io.WriteString(c.App.Writer, out)
		return err
	}

	tags, err := seo.ReadMeta(out)
	if err != nil {
		return err
	}
	yamlBytes, err := yaml.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	_, err = c.App.Writer.Write(yamlBytes)
	return err
}

func simulateAction(c *cli.Context) error {
	layers, err := scene.ParseLayers(c.String("layers"))
	if err != nil {
		return err
	}
	opts := scene.Options{
		Width:      c.Float64("width"),
		Height:     c.Float64("height"),
		Seed:       c.Uint64("seed"),
		Ticks:      c.Int("ticks"),
		Layers:     layers,
		Background: c.String("background"),
	}
	if c.IsSet("px") && c.IsSet("py") {
		opts.Pointer = &ornament.Point{X: c.Float64("px"), Y: c.Float64("py")}
	}

	w := c.App.Writer
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	return scene.Render(w, opts)
}
