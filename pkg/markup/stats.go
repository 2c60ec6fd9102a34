package markup

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats captures what one minification did.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// Segmentation
	PlainRegions        int            `json:"plain_regions" yaml:"plain_regions"`
	PreservedRegions    int            `json:"preserved_regions" yaml:"preserved_regions"`
	PreservedByTag      map[string]int `json:"preserved_by_tag" yaml:"preserved_by_tag"`
	UnterminatedRegions int            `json:"unterminated_regions" yaml:"unterminated_regions"`

	// Comments
	CommentsRemoved int `json:"comments_removed" yaml:"comments_removed"`
	CommentsKept    int `json:"comments_kept" yaml:"comments_kept"` // protected by a keep marker

	// Attributes
	TagsRewritten       int `json:"tags_rewritten" yaml:"tags_rewritten"`
	AttributesRemoved   int `json:"attributes_removed" yaml:"attributes_removed"`
	AttributesShortened int `json:"attributes_shortened" yaml:"attributes_shortened"`
	SlashesAdded        int `json:"slashes_added" yaml:"slashes_added"`

	// Timing
	ExtractDuration   time.Duration `json:"extract_duration_ns" yaml:"extract_duration_ns"`
	SegmentDuration   time.Duration `json:"segment_duration_ns" yaml:"segment_duration_ns"`
	TransformDuration time.Duration `json:"transform_duration_ns" yaml:"transform_duration_ns"`
	RestoreDuration   time.Duration `json:"restore_duration_ns" yaml:"restore_duration_ns"`
	TotalDuration     time.Duration `json:"total_duration_ns" yaml:"total_duration_ns"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		PreservedByTag: make(map[string]int),
	}
}

// ReductionPercent returns the percentage reduction in size, never negative.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 || s.OutputBytes >= s.InputBytes {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// SavedBytes returns how many bytes were removed.
func (s *Stats) SavedBytes() int {
	return s.InputBytes - s.OutputBytes
}

func (s *Stats) addRegion(r regionStats) {
	s.CommentsRemoved += r.commentsRemoved
	s.TagsRewritten += r.attrs.tagsRewritten
	s.AttributesRemoved += r.attrs.attributesRemoved
	s.AttributesShortened += r.attrs.attributesShortened
	s.SlashesAdded += r.attrs.slashesAdded
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)), s.ReductionPercent()))

	sb.WriteString(fmt.Sprintf("Regions: %d plain, %d preserved", s.PlainRegions, s.PreservedRegions))
	if s.UnterminatedRegions > 0 {
		sb.WriteString(fmt.Sprintf(" (%d unterminated)", s.UnterminatedRegions))
	}
	sb.WriteString("\n")

	if len(s.PreservedByTag) > 0 {
		parts := make([]string, 0, len(s.PreservedByTag))
		for tag, count := range s.PreservedByTag {
			parts = append(parts, fmt.Sprintf("%s=%d", tag, count))
		}
		slices.Sort(parts)
		sb.WriteString("Preserved by tag: ")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}

	if s.CommentsRemoved > 0 || s.CommentsKept > 0 {
		sb.WriteString(fmt.Sprintf("Comments: %d removed, %d kept\n", s.CommentsRemoved, s.CommentsKept))
	}

	if s.TagsRewritten > 0 {
		sb.WriteString(fmt.Sprintf("Tags rewritten: %d (attributes removed=%d, shortened=%d, slashes added=%d)\n",
			s.TagsRewritten, s.AttributesRemoved, s.AttributesShortened, s.SlashesAdded))
	}

	sb.WriteString(fmt.Sprintf("Timing: extract=%v, segment=%v, transform=%v, restore=%v, total=%v\n",
		s.ExtractDuration.Round(time.Microsecond),
		s.SegmentDuration.Round(time.Microsecond),
		s.TransformDuration.Round(time.Microsecond),
		s.RestoreDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}

// Warning represents a non-fatal issue met while minifying.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`     // "extract", "segment" or "transform"
	Message string `json:"message" yaml:"message"` // Human-readable description
	Context string `json:"context" yaml:"context"` // Tag or snippet that caused it
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of a minification.
type Result struct {
	// Content is the minified output. When Error is set it holds the
	// original input instead.
	Content string `json:"content" yaml:"content"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats" yaml:"stats"`

	// Warnings lists malformed input that was passed through.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Error is set only when the minifier itself misbehaved.
	Error error `json:"-" yaml:"-"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
