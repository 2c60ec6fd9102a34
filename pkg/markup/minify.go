package markup

import (
	"fmt"
	"reflect"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/markmin/internal/logger"
)

// Minifier rewrites HTML according to a fixed Config. It holds no state
// between calls and is safe for concurrent use.
type Minifier struct {
	config   *Config
	preserve map[string]bool
}

// New creates a new Minifier with a private copy of config.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *Minifier {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := config.Clone()
	return &Minifier{
		config:   cfg,
		preserve: cfg.preserveSet(),
	}
}

// Minify minifies text with cfg. A nil cfg means DefaultConfig().
func Minify(text string, cfg *Config) (string, error) {
	return New(cfg).Minify(text)
}

// MinifyValue minifies string-like values: string, []byte and fmt.Stringer.
// Anything else, nil and typed-nil Stringers included, yields an empty string
// and no error.
func MinifyValue(v any, cfg *Config) (string, error) {
	switch t := v.(type) {
	case string:
		return Minify(t, cfg)
	case []byte:
		return Minify(string(t), cfg)
	case fmt.Stringer:
		if isNil(t) {
			return "", nil
		}
		return Minify(t.String(), cfg)
	default:
		return "", nil
	}
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Name returns the transformer name for logging.
func (m *Minifier) Name() string {
	return "markup"
}

// Config returns a copy of the minifier's configuration.
func (m *Minifier) Config() *Config {
	return m.config.Clone()
}

// Minify returns the minified form of text. Malformed markup never causes an
// error; an error means a placeholder could not be restored, which is a bug.
func (m *Minifier) Minify(text string) (string, error) {
	result := m.MinifyWithStats(text)
	if result.Error != nil {
		return "", result.Error
	}
	return result.Content, nil
}

// Transform implements transform.Transformer.
func (m *Minifier) Transform(input string) (string, error) {
	return m.Minify(input)
}

// regionStats counts what the rewrite passes changed in one plain region.
type regionStats struct {
	commentsRemoved int
	attrs           attrStats
	rawTail         string
}

// MinifyWithStats performs minification and returns detailed stats.
func (m *Minifier) MinifyWithStats(text string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(text)
	if text == "" {
		return result
	}

	// Extract
	extractStart := time.Now()
	work := normalizeDoctype(text)
	work, ph, ok := extractMarkers(work, m.config.KeepMarkers)
	dropComments := m.config.RemoveComments
	if !ok {
		dropComments = false
		result.AddWarning("extract", "no free placeholder character; all comments kept", "")
		logger.Debug("keep markers not extracted", "bytes", len(work))
	}
	result.Stats.CommentsKept = ph.len()
	result.Stats.ExtractDuration = time.Since(extractStart)

	// Segment
	segmentStart := time.Now()
	regions := segment(work, m.preserve)
	result.Stats.SegmentDuration = time.Since(segmentStart)
	for _, r := range regions {
		if r.Kind == Plain {
			result.Stats.PlainRegions++
			continue
		}
		result.Stats.PreservedRegions++
		result.Stats.PreservedByTag[r.Tag]++
		if r.Unterminated {
			result.Stats.UnterminatedRegions++
			result.AddWarning("segment", "unterminated preserve element passed through", "<"+r.Tag+">")
			logger.Debug("unterminated preserve element", "tag", r.Tag, "bytes", len(r.Text))
		}
	}

	// Transform
	transformStart := time.Now()
	texts, perRegion := m.rewriteRegions(regions, dropComments)
	for _, rs := range perRegion {
		result.Stats.addRegion(rs)
		if rs.rawTail != "" {
			result.AddWarning("transform", "unterminated markup passed through", snippet(rs.rawTail))
			logger.Debug("unterminated markup", "bytes", len(rs.rawTail))
		}
	}
	result.Stats.TransformDuration = time.Since(transformStart)

	// Restore
	restoreStart := time.Now()
	out, err := reassemble(texts, ph)
	result.Stats.RestoreDuration = time.Since(restoreStart)
	if err != nil {
		logger.Error("placeholder restore failed", "error", err)
		result.Error = err
		result.Content = text
		result.Stats.OutputBytes = len(text)
		result.Stats.TotalDuration = time.Since(startTime)
		return result
	}

	result.Content = out
	result.Stats.OutputBytes = len(out)
	result.Stats.TotalDuration = time.Since(startTime)
	return result
}

// rewriteRegions runs the plain-region passes, in parallel when configured.
// Each region writes only its own slot, so the output order is the region
// order regardless of scheduling.
func (m *Minifier) rewriteRegions(regions []Region, dropComments bool) ([]string, []regionStats) {
	texts := make([]string, len(regions))
	stats := make([]regionStats, len(regions))

	if m.config.Concurrency < 2 || len(regions) < 2 {
		for i, r := range regions {
			texts[i], stats[i] = m.rewrite(r, dropComments)
		}
		return texts, stats
	}

	var g errgroup.Group
	g.SetLimit(m.config.Concurrency)
	for i, r := range regions {
		g.Go(func() error {
			texts[i], stats[i] = m.rewrite(r, dropComments)
			return nil
		})
	}
	_ = g.Wait()
	return texts, stats
}

// rewrite applies comment removal, attribute normalization and whitespace
// collapsing to a plain region. Preserved regions come back unchanged.
func (m *Minifier) rewrite(r Region, dropComments bool) (string, regionStats) {
	var rs regionStats
	if r.Kind == Preserved {
		return r.Text, rs
	}

	text := r.Text
	if dropComments {
		text, rs.commentsRemoved = stripComments(text)
	}
	text, rs.attrs = normalizeAttributes(text, m.config)
	if m.config.CollapseWhitespace {
		text = collapseWhitespace(text)
	}
	rs.rawTail = rawTail(text)
	return text, rs
}

// rawTail returns the unterminated markup at the end of a region, if any.
func rawTail(region string) string {
	sc := newScanner(region)
	var last Token
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		last = tok
	}
	if last.Kind == TokenRaw {
		return last.Text
	}
	return ""
}

func snippet(s string) string {
	const limit = 40
	for i := range s {
		if i >= limit {
			return s[:i] + "..."
		}
	}
	return s
}
