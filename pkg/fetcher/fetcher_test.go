package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testPage = `<!doctype html>
<html><head><title>  Test Page </title></head>
<body><p>hello</p></body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, testPage)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<p>%s|%s</p>", r.UserAgent(), r.Header.Get("X-Test"))
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, strings.Repeat("x", 100))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://localhost:8080/a", true},
		{"ftp://example.com/file", true},
		{"page.html", false},
		{"./dir/page.html", false},
		{"-", false},
		{"://nohost", false},
		{"C:\\pages\\a.html", false},
		{"a/b://c", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsURL(tt.in); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
		wantAny bool
	}{
		{name: "https", in: "https://example.com/a"},
		{name: "http upper", in: "HTTP://example.com"},
		{name: "ftp", in: "ftp://example.com", wantErr: ErrUnsupportedScheme},
		{name: "file", in: "file:///etc/passwd", wantErr: ErrUnsupportedScheme},
		{name: "no host", in: "http://", wantAny: true},
		{name: "garbage", in: "http://[::1", wantAny: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.in)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseURL() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantAny:
				if err == nil {
					t.Error("expected an error")
				}
			default:
				if err != nil {
					t.Errorf("ParseURL() error = %v", err)
				}
			}
		})
	}
}

func TestStaticFetcher_Fetch(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(Config{})
	defer f.Close()

	content, err := f.Fetch(context.Background(), srv.URL+"/page", Options{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if content.HTML != testPage {
		t.Errorf("HTML = %q", content.HTML)
	}
	if content.Title != "Test Page" {
		t.Errorf("Title = %q", content.Title)
	}
	if content.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", content.StatusCode)
	}
	if !strings.HasPrefix(content.ContentType, "text/html") {
		t.Errorf("ContentType = %q", content.ContentType)
	}
	if content.FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}
}

func TestStaticFetcher_HeadersAndUserAgent(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(Config{UserAgent: "config-agent"})

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "config agent", want: "<p>config-agent|</p>"},
		{name: "option agent", opts: Options{UserAgent: "opt-agent"}, want: "<p>opt-agent|</p>"},
		{name: "header", opts: Options{Headers: map[string]string{"X-Test": "yes"}}, want: "<p>config-agent|yes</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := f.Fetch(context.Background(), srv.URL+"/echo", tt.opts)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if content.HTML != tt.want {
				t.Errorf("HTML = %q, want %q", content.HTML, tt.want)
			}
		})
	}
}

func TestStaticFetcher_Errors(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(Config{Timeout: 5 * time.Second})

	t.Run("not found", func(t *testing.T) {
		content, err := f.Fetch(context.Background(), srv.URL+"/missing", Options{})
		if err == nil {
			t.Fatal("expected error for 404")
		}
		if content.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", content.StatusCode)
		}
	})

	t.Run("too large", func(t *testing.T) {
		content, err := f.Fetch(context.Background(), srv.URL+"/big", Options{MaxBytes: 10})
		if !errors.Is(err, ErrTooLarge) {
			t.Fatalf("expected ErrTooLarge, got %v", err)
		}
		if content.HTML != "" {
			t.Error("expected no HTML for an oversized document")
		}
	})

	t.Run("exactly max", func(t *testing.T) {
		content, err := f.Fetch(context.Background(), srv.URL+"/big", Options{MaxBytes: 100})
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(content.HTML) != 100 {
			t.Errorf("len(HTML) = %d, want 100", len(content.HTML))
		}
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), "ftp://example.com/x", Options{})
		if !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("expected ErrUnsupportedScheme, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Fetch(ctx, srv.URL+"/page", Options{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestNew(t *testing.T) {
	f, err := New(Config{}, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if f.Type() != "static" {
		t.Errorf("Type() = %q", f.Type())
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.UserAgent != defaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}

	custom := Config{UserAgent: "x", Timeout: time.Second}.withDefaults()
	if custom.UserAgent != "x" || custom.Timeout != time.Second {
		t.Errorf("withDefaults() overrode explicit values: %+v", custom)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{"<title>A</title>", "A"},
		{"<head><title>\n  Spaced  \n</title></head>", "Spaced"},
		{"<title>First</title><title>Second</title>", "First"},
		{"<p>no title</p>", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := extractTitle(tt.html); got != tt.want {
			t.Errorf("extractTitle(%q) = %q, want %q", tt.html, got, tt.want)
		}
	}
}

func TestDynamicFetcher_Fetch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if FindChromePath() == "" {
		t.Skip("no Chrome binary available")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Rendered</title></head><body><div id="app"></div>
<script>document.getElementById("app").textContent = "built by script";</script></body></html>`)
	}))
	defer srv.Close()

	f, err := NewDynamic(Config{Timeout: 30 * time.Second})
	if err != nil {
		t.Fatalf("NewDynamic() error = %v", err)
	}
	defer f.Close()

	content, err := f.Fetch(context.Background(), srv.URL, Options{WaitForSelector: "#app"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(content.HTML, "built by script") {
		t.Errorf("expected rendered content in %q", content.HTML)
	}
	if content.Title != "Rendered" {
		t.Errorf("Title = %q", content.Title)
	}
	if f.Type() != "dynamic" {
		t.Errorf("Type() = %q", f.Type())
	}
}
