package transform

import (
	"fmt"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

const mediaTypeHTML = "text/html"

// Reference minifies with tdewolff/minify's full HTML minifier. It parses
// markup and rewrites more than the markup minifier dares to, so it serves as
// a size yardstick in comparisons rather than as a safe default.
type Reference struct {
	once sync.Once
	m    *minify.M
	opts html.Minifier
}

// ReferenceOption configures the reference minifier.
type ReferenceOption func(*html.Minifier)

// WithKeepWhitespace keeps whitespace instead of collapsing it.
func WithKeepWhitespace() ReferenceOption {
	return func(h *html.Minifier) {
		h.KeepWhitespace = true
	}
}

// WithKeepComments keeps comments.
func WithKeepComments() ReferenceOption {
	return func(h *html.Minifier) {
		h.KeepComments = true
	}
}

// NewReference creates the reference transformer. Document and end tags are
// kept so that output stays comparable with the markup minifier.
func NewReference(opts ...ReferenceOption) *Reference {
	r := &Reference{
		opts: html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		},
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

func (r *Reference) minifier() *minify.M {
	r.once.Do(func() {
		r.m = minify.New()
		r.m.Add(mediaTypeHTML, &r.opts)
	})
	return r.m
}

// Transform minifies input as text/html.
func (r *Reference) Transform(input string) (string, error) {
	out, err := r.minifier().String(mediaTypeHTML, input)
	if err != nil {
		return "", fmt.Errorf("reference minify: %w", err)
	}
	return out, nil
}

// Name returns the transformer type.
func (r *Reference) Name() string {
	return "reference"
}
