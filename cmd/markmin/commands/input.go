package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/markmin/internal/config"
	"github.com/jmylchreest/markmin/internal/logger"
	"github.com/jmylchreest/markmin/pkg/fetcher"
)

// document is the HTML a command works on and where it came from.
type document struct {
	Source string
	HTML   string
	Title  string
}

// addInputFlags registers the flags shared by commands that read a document.
func addInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("render", false, "render URLs in headless Chrome before minifying")
	flags.String("max-size", "", "reject inputs larger than this (e.g. 512KB, 10MB)")
	flags.Duration("timeout", 0, "fetch timeout for URL input")
	flags.String("user-agent", "", "user agent for URL input")
	flags.String("wait-for", "", "CSS selector to wait for when rendering")
}

// readDocument reads arg as stdin ("-" or empty), a URL or a file path.
func readDocument(ctx context.Context, cmd *cobra.Command, arg string, settings *config.File) (*document, error) {
	maxBytes, err := settings.MaxBytes()
	if err != nil {
		return nil, err
	}
	limit := int64(maxBytes)
	render, _ := cmd.Flags().GetBool("render")

	switch {
	case arg == "" || arg == "-":
		html, err := readLimited(cmd.InOrStdin(), limit)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return &document{Source: "stdin", HTML: html}, nil

	case fetcher.IsURL(arg):
		return fetchDocument(ctx, cmd, arg, settings, render, limit)

	default:
		if render {
			logger.Warn("--render only applies to URLs", "input", arg)
		}
		f, err := os.Open(arg)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		html, err := readLimited(f, limit)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		return &document{Source: arg, HTML: html}, nil
	}
}

func fetchDocument(ctx context.Context, cmd *cobra.Command, url string, settings *config.File, render bool, limit int64) (*document, error) {
	f, err := fetcher.New(fetcher.Config{
		UserAgent: settings.Fetch.UserAgent,
		Timeout:   settings.Fetch.Timeout,
	}, render)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	waitFor, _ := cmd.Flags().GetString("wait-for")
	logInfo("Fetching %s (%s)", url, f.Type())

	content, err := f.Fetch(ctx, url, fetcher.Options{
		MaxBytes:        limit,
		WaitForSelector: waitFor,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	logger.Debug("fetched document",
		"url", url,
		"status", content.StatusCode,
		"content_type", content.ContentType,
		"size", humanize.Bytes(uint64(len(content.HTML))))
	return &document{Source: url, HTML: content.HTML, Title: content.Title}, nil
}

// readLimited reads r to the end, failing once more than limit bytes arrive.
// A limit of zero means unlimited.
func readLimited(r io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		return string(data), err
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: more than %s", fetcher.ErrTooLarge, humanize.Bytes(uint64(limit)))
	}
	return string(data), nil
}

// writeDocument writes html to path, or to the command's stdout when path is
// empty or "-".
func writeDocument(cmd *cobra.Command, path, html string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), html)
		return err
	}
	return os.WriteFile(path, []byte(html), 0o644)
}
