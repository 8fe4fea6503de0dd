// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// NotFound modes for the SEO handler.
const (
	NotFoundPassthrough = "passthrough"
	NotFoundRedirect    = "redirect"
)

// Config is the full server configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	SiteName    string `env:"SITE_NAME" envDefault:"Ezzio"`
	SiteOrigin  string `env:"SITE_ORIGIN" envDefault:"https://ezzio.me"`
	SiteTagline string `env:"SITE_TAGLINE" envDefault:"Ezz Eldin Ahmed | Full-Stack Systems Developer"`

	StaticDir    string        `env:"STATIC_DIR" envDefault:"dist"`
	ShellURL     string        `env:"SHELL_URL"`
	ShellTimeout time.Duration `env:"SHELL_TIMEOUT" envDefault:"5s"`
	SEONotFound  string        `env:"SEO_NOT_FOUND" envDefault:"passthrough"`

	PostsFile       string        `env:"POSTS_FILE"`
	ManifestURL     string        `env:"MANIFEST_URL" envDefault:"https://gist.githubusercontent.com/Ezzio11/454a4a619287b03ae0fea1caa11a854d/raw/manifest.json"`
	ManifestRefresh time.Duration `env:"MANIFEST_REFRESH" envDefault:"10m"`

	DBPath    string        `env:"DB_PATH" envDefault:"portfolio.db"`
	Retention time.Duration `env:"RETENTION" envDefault:"8760h"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load parses the process environment into a Config and validates it.
func Load() (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses the given environment map instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the env tags cannot express.
func (c Config) Validate() error {
	switch c.SEONotFound {
	case NotFoundPassthrough, NotFoundRedirect:
	default:
		return fmt.Errorf("SEO_NOT_FOUND must be %q or %q, got %q", NotFoundPassthrough, NotFoundRedirect, c.SEONotFound)
	}
	if c.ShellTimeout <= 0 {
		return fmt.Errorf("SHELL_TIMEOUT must be positive, got %s", c.ShellTimeout)
	}
	if strings.HasSuffix(c.SiteOrigin, "/") {
		return fmt.Errorf("SITE_ORIGIN must not end with a slash: %q", c.SiteOrigin)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
