package markup

import "strings"

// RegionKind is either Plain or Preserved. There is no third kind.
type RegionKind int

const (
	// Plain regions are rewritten by the attribute and whitespace passes.
	Plain RegionKind = iota
	// Preserved regions are copied to the output byte for byte.
	Preserved
)

func (k RegionKind) String() string {
	if k == Preserved {
		return "preserved"
	}
	return "plain"
}

// Region is a contiguous span of the input.
type Region struct {
	Kind RegionKind
	Text string

	// Tag is the preserve element that opened a Preserved region.
	Tag string

	// Unterminated marks a Preserved region whose element never closed. It
	// runs to the end of the input.
	Unterminated bool
}

// Segment splits text into Plain and Preserved regions. Each preserve element
// in preserveTags, from its opening '<' through its matching close tag,
// becomes one Preserved region. Concatenating the Text of the returned
// regions always reproduces text exactly.
//
// An element that is opened but never closed (or whose opening tag never
// ends) preserves everything to the end of the input, so that broken
// script or pre content is never rewritten.
func Segment(text string, preserveTags []string) []Region {
	set := make(map[string]bool, len(preserveTags))
	for _, t := range preserveTags {
		set[asciiLower(t)] = true
	}
	return segment(text, set)
}

func segment(text string, preserve map[string]bool) []Region {
	if text == "" {
		return nil
	}
	if len(preserve) == 0 {
		return []Region{{Kind: Plain, Text: text}}
	}

	lower := asciiLower(text)
	var regions []Region
	plainStart := 0
	sc := newScanner(text)
	for {
		at := sc.pos
		tok, ok := sc.next()
		if !ok {
			break
		}
		// Comments, end tags and text never open a preserve element.
		if tok.Kind != TokenTagOpen && (tok.Kind != TokenRaw || len(tok.Text) < 2 || !isLetter(tok.Text[1])) {
			continue
		}
		name := asciiLower(tagName(tok.Text[1:]))
		if !preserve[name] {
			continue
		}

		if at > plainStart {
			regions = append(regions, Region{Kind: Plain, Text: text[plainStart:at]})
		}
		if tok.Kind == TokenRaw {
			return append(regions, Region{Kind: Preserved, Text: text[at:], Tag: name, Unterminated: true})
		}

		closeTag := "</" + name + ">"
		c := strings.Index(lower[sc.pos:], closeTag)
		if c < 0 {
			return append(regions, Region{Kind: Preserved, Text: text[at:], Tag: name, Unterminated: true})
		}
		end := sc.pos + c + len(closeTag)
		regions = append(regions, Region{Kind: Preserved, Text: text[at:end], Tag: name})
		sc.pos = end
		plainStart = end
	}

	if plainStart < len(text) {
		regions = append(regions, Region{Kind: Plain, Text: text[plainStart:]})
	}
	return regions
}
