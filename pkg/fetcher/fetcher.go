// Package fetcher retrieves HTML to minify from a URL. The static fetcher
// downloads the document as served; the dynamic fetcher renders it in a
// headless browser first so that script-built markup is included.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type ("static" or "dynamic").
	Type() string
}

// Options controls a single fetch. Zero values fall back to the fetcher's
// Config.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string

	// MaxBytes rejects documents larger than this many bytes. Zero means
	// unlimited.
	MaxBytes int64

	WaitForSelector string        // CSS selector to wait for (dynamic only)
	WaitDuration    time.Duration // additional wait after load (dynamic only)
}

// Content represents a fetched document.
type Content struct {
	URL         string    `json:"url" yaml:"url"`
	HTML        string    `json:"-" yaml:"-"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	StatusCode  int       `json:"status_code" yaml:"status_code"`
	ContentType string    `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	FetchedAt   time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// Config holds fetcher-wide defaults.
type Config struct {
	UserAgent string
	Timeout   time.Duration

	// ChromePath overrides browser discovery for the dynamic fetcher.
	ChromePath string
}

const defaultUserAgent = "markmin (+https://github.com/jmylchreest/markmin)"

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// Errors returned by fetchers. Check with errors.Is.
var (
	// ErrUnsupportedScheme is returned for anything but http and https URLs.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	// ErrTooLarge is returned when a document exceeds Options.MaxBytes.
	ErrTooLarge = errors.New("document too large")
)

// IsURL reports whether s looks like a URL rather than a file path.
func IsURL(s string) bool {
	scheme, rest, ok := strings.Cut(s, "://")
	return ok && scheme != "" && rest != "" && !strings.ContainsAny(scheme, `/\.`)
}

// ParseURL parses raw and rejects anything that is not an absolute http or
// https URL.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid URL: missing host in %q", raw)
	}
	return u, nil
}

// New returns the dynamic fetcher when render is set, the static one
// otherwise.
func New(cfg Config, render bool) (Fetcher, error) {
	if render {
		return NewDynamic(cfg)
	}
	return NewStatic(cfg), nil
}

// extractTitle returns the trimmed text of the first <title>.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func checkSize(html string, max int64) error {
	if max > 0 && int64(len(html)) > max {
		return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return nil
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
