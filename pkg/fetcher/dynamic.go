package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/markmin/internal/logger"
)

// ErrNoBrowser is returned by NewDynamic when no Chrome or Chromium binary
// can be found.
var ErrNoBrowser = errors.New("no Chrome or Chromium binary found")

// DynamicFetcher renders pages in headless Chrome via chromedp and returns
// the serialized DOM.
type DynamicFetcher struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// NewDynamic creates a dynamic fetcher. The browser itself is started lazily
// by the first Fetch.
func NewDynamic(cfg Config) (*DynamicFetcher, error) {
	cfg = cfg.withDefaults()

	chromePath := cfg.ChromePath
	if chromePath == "" {
		chromePath = FindChromePath()
	}
	if chromePath == "" {
		return nil, ErrNoBrowser
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.ExecPath(chromePath),
		chromedp.UserAgent(cfg.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	logger.Debug("dynamic fetcher created", "chrome", chromePath, "timeout", cfg.Timeout)

	return &DynamicFetcher{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
	}, nil
}

// Fetch loads targetURL in a fresh browser tab and returns the rendered
// document.
func (f *DynamicFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}
	if _, err := ParseURL(targetURL); err != nil {
		return result, err
	}

	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)
	defer cancelBrowser()

	// Tie the tab to the caller's cancellation as well as the timeout.
	stop := context.AfterFunc(ctx, cancelBrowser)
	defer stop()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var html, title string
	doc := listenForDocument(timeoutCtx)

	actions := []chromedp.Action{network.Enable()}
	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		actions = append(actions, network.SetExtraHTTPHeaders(headers))
	}
	if opts.UserAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(opts.UserAgent))
	}
	actions = append(actions, chromedp.Navigate(targetURL))

	if opts.WaitForSelector != "" {
		actions = append(actions, chromedp.WaitReady(opts.WaitForSelector))
	} else {
		actions = append(actions, chromedp.WaitReady("body"))
	}
	if opts.WaitDuration > 0 {
		actions = append(actions, chromedp.Sleep(opts.WaitDuration))
	}
	actions = append(actions,
		chromedp.OuterHTML("html", &html),
		chromedp.Title(&title),
	)

	logger.Debug("chromedp executing actions", "url", targetURL, "action_count", len(actions), "timeout", timeout)

	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, fmt.Errorf("browser automation failed: %w", err)
	}

	result.StatusCode, result.ContentType = doc.get()
	if result.StatusCode == 0 {
		result.StatusCode = 200
	}
	result.Title = title
	if result.Title == "" {
		result.Title = extractTitle(html)
	}

	if err := checkSize(html, opts.MaxBytes); err != nil {
		return result, err
	}
	result.HTML = html

	logger.Debug("dynamic fetch complete", "url", targetURL, "title", result.Title, "html_size", len(html))
	return result, nil
}

// documentResponse holds the status and content type of the first document
// response seen by a tab.
type documentResponse struct {
	mu          sync.Mutex
	status      int
	contentType string
}

func (d *documentResponse) get() (int, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status, d.contentType
}

func listenForDocument(ctx context.Context) *documentResponse {
	d := &documentResponse{}
	chromedp.ListenTarget(ctx, func(ev any) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Type != network.ResourceTypeDocument {
			return
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.status == 0 {
			d.status = int(resp.Response.Status)
			d.contentType = resp.Response.MimeType
		}
	})
	return d
}

// Close shuts down the browser.
func (f *DynamicFetcher) Close() error {
	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return "dynamic"
}
