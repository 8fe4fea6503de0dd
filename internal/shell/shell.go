// Package shell loads the SPA's index.html, the document the SEO handler
// rewrites.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrUpstream marks failures to obtain the shell document.
var ErrUpstream = errors.New("shell unavailable")

// maxShellBytes bounds how much of an upstream shell is read.
const maxShellBytes = 4 << 20

// FileSource reads the shell from disk on every call, so a redeployed
// build is picked up without a restart.
type FileSource struct {
	Path string
}

// Fetch implements the SEO handler's shell source.
func (s FileSource) Fetch(ctx context.Context, _ *http.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrUpstream, s.Path, err)
	}
	return string(b), nil
}

// HTTPSource fetches the shell from an upstream deployment.
type HTTPSource struct {
	URL    string
	client *http.Client
}

// NewHTTPSource returns an HTTPSource whose requests give up after timeout.
func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: rawURL, client: &http.Client{Timeout: timeout}}
}

// Fetch implements the SEO handler's shell source.
func (s *HTTPSource) Fetch(ctx context.Context, _ *http.Request) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrUpstream, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned status %d", ErrUpstream, s.URL, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxShellBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	if len(b) > maxShellBytes {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", ErrUpstream, s.URL, maxShellBytes)
	}
	return string(b), nil
}
