// admin.go - privacy-conscious preview tracking and admin surface
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ezzio11/portfolio/internal/seo"
	"github.com/ezzio11/portfolio/internal/store"
)

const adminCookie = "admin_token"

type admin struct {
	token    string
	salt     string // for IP hashing
	username string
	password string

	store     *store.Store
	retention time.Duration
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// newAdmin sets up admin credentials. Missing credentials fall back to
// development defaults in debug mode only; otherwise login is disabled.
func newAdmin(st *store.Store, username, password string, retention time.Duration, logger *slog.Logger) (*admin, error) {
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateAdminToken()
	if err != nil {
		return nil, err
	}

	if gin.Mode() == gin.DebugMode {
		if username == "" {
			username = "admin"
			logger.Warn("using default admin username, set ADMIN_USERNAME")
		}
		if password == "" {
			password = "admin123"
			logger.Warn("using default admin password, set ADMIN_PASSWORD")
		}
		logger.Debug("admin token (dev only)", "token", token)
	}
	if username == "" || password == "" {
		logger.Warn("admin login disabled: ADMIN_USERNAME and ADMIN_PASSWORD not set")
	}

	logger.Info("privacy: preview tracking enabled with hashed IP addresses")
	return &admin{
		token:     token,
		salt:      salt,
		username:  username,
		password:  password,
		store:     st,
		retention: retention,
		logger:    logger,
	}, nil
}

func generateAdminToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// salted and truncated, stable for a given address
func (a *admin) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// trackPreview records every SEO response in the background. Requests
// sending Do Not Track are skipped.
func (a *admin) trackPreview(c *gin.Context, slug, outcome string) {
	if c.GetHeader("DNT") == "1" {
		return
	}
	hit := store.Hit{
		Slug:      slug,
		HashedIP:  a.hashIP(c.ClientIP()),
		UserAgent: c.GetHeader("User-Agent"),
		Outcome:   outcome,
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if _, err := a.store.Record(context.Background(), hit); err != nil {
			a.logger.Error("error recording preview", "err", err)
		}
	}()
}

// wait blocks until in-flight preview writes finish.
func (a *admin) wait() {
	a.wg.Wait()
}

// cleanup removes preview records older than the retention window.
func (a *admin) cleanup(ctx context.Context) (int64, error) {
	n, err := a.store.Cleanup(ctx, time.Now().Add(-a.retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		a.logger.Info("privacy cleanup removed old preview records", "rows", n, "retention", a.retention)
	}
	return n, nil
}

// runCleanup cleans up now and then daily until ctx is done.
func (a *admin) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if _, err := a.cleanup(ctx); err != nil {
			a.logger.Error("error cleaning up old preview data", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *admin) stats(ctx context.Context) (*store.Stats, error) {
	return a.store.Stats(ctx, time.Now(), seo.OutcomeInjected, seo.OutcomeError)
}

// setupAdminRoutes mounts login, logout and the protected /admin group.
// preview renders the injected meta tags for a slug without serving HTML.
func (a *admin) setupAdminRoutes(r *gin.Engine, preview func(c *gin.Context)) {
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if a.username == "" || a.password == "" ||
			subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
			a.logger.Warn("failed admin login attempt", "from", a.hashIP(c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		// 24 hours
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", false, true)
		a.logger.Info("admin login successful", "from", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "logged in"})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		a.logger.Info("admin logout", "from", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.authMiddleware())

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			a.logger.Error("error loading admin stats", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/api/preview", preview)

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := a.cleanup(c.Request.Context())
		if err != nil {
			a.logger.Error("error cleaning up old preview data", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	// statistics export for backups or analysis
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=preview-stats.json")
		a.logger.Info("admin stats exported", "by", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
