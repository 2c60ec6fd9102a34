// Package verify checks that minified markup still parses to the same
// document as its input: the same elements, the same preserved content and
// the same visible text.
package verify

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/markmin/pkg/markup"
)

// Report is the outcome of Check.
type Report struct {
	InputElements    int      `json:"input_elements" yaml:"input_elements"`
	OutputElements   int      `json:"output_elements" yaml:"output_elements"`
	PreservedChecked int      `json:"preserved_checked" yaml:"preserved_checked"`
	Problems         []string `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// OK reports whether no problem was found.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("verify: ok (%d elements, %d preserved)", r.OutputElements, r.PreservedChecked)
	}
	return fmt.Sprintf("verify: %d problem(s)\n  %s", len(r.Problems), strings.Join(r.Problems, "\n  "))
}

func (r *Report) addf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Check parses input and output and compares them. A nil preserveTags means
// markup.DefaultPreserveTags().
//
// Three things must match: the number of elements of each tag, the text of
// every preserve element in document order, and the visible text once all
// whitespace is removed.
func Check(input, output string, preserveTags []string) (*Report, error) {
	in, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	out, err := goquery.NewDocumentFromReader(strings.NewReader(output))
	if err != nil {
		return nil, fmt.Errorf("parsing output: %w", err)
	}
	if preserveTags == nil {
		preserveTags = markup.DefaultPreserveTags()
	}

	r := &Report{}

	inCounts := countElements(in)
	outCounts := countElements(out)
	for _, n := range inCounts {
		r.InputElements += n
	}
	for _, n := range outCounts {
		r.OutputElements += n
	}
	tags := slices.Sorted(maps.Keys(inCounts))
	for tag := range outCounts {
		if _, ok := inCounts[tag]; !ok {
			tags = append(tags, tag)
		}
	}
	for _, tag := range tags {
		if inCounts[tag] != outCounts[tag] {
			r.addf("<%s> count changed: %d -> %d", tag, inCounts[tag], outCounts[tag])
		}
	}

	for _, tag := range preserveTags {
		tag = strings.ToLower(tag)
		before := texts(in.Find(tag))
		after := texts(out.Find(tag))
		if len(before) != len(after) {
			// Already reported as a count change.
			continue
		}
		for i := range before {
			r.PreservedChecked++
			if before[i] != after[i] {
				r.addf("<%s> #%d content changed", tag, i+1)
			}
		}
	}

	if a, b := visibleText(in), visibleText(out); a != b {
		r.addf("visible text changed at offset %d", firstDiff(a, b))
	}

	return r, nil
}

func countElements(doc *goquery.Document) map[string]int {
	counts := make(map[string]int)
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		counts[goquery.NodeName(s)]++
	})
	return counts
}

func texts(sel *goquery.Selection) []string {
	return sel.Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
}

// visibleText returns the body text with all whitespace removed. Collapsing
// may legitimately drop whitespace between blocks, so only the
// non-whitespace characters are compared.
func visibleText(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Find("body").Text()), "")
}

func firstDiff(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
