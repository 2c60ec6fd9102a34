package markup

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// placeholderTag follows the lead character of every placeholder token.
// placeholderPrefix is the token prefix used when the input allows it.
const (
	placeholderTag    = "markmin-keep-"
	placeholderPrefix = "\ue000" + placeholderTag
	placeholderEnd    = "\ue001"
)

// placeholderLeads are the characters a token may start with, in order of
// preference, each with a different leading byte. No rewrite pass inserts a
// non-ASCII byte, so a lead whose first byte is absent from the input cannot
// be assembled from input fragments.
var placeholderLeads = buildPlaceholderLeads()

func buildPlaceholderLeads() []string {
	leads := []string{"\ue000", "\uf000", "\U000f0000", "\U00100000"}
	seen := make(map[byte]bool)
	for _, l := range leads {
		seen[l[0]] = true
	}
	add := func(from, to, step rune) {
		for r := from; r <= to; r += step {
			if !utf8.ValidRune(r) {
				continue
			}
			s := string(r)
			if !seen[s[0]] {
				seen[s[0]] = true
				leads = append(leads, s)
			}
		}
	}
	// 0xC2 is skipped: it leads the non-breaking space.
	add(0x00C0, 0x07FF, 0x40)
	add(0x0800, 0xFFFF, 0x1000)
	add(0x10000, 0x10FFFF, 0x40000)
	return leads
}

// placeholderLead returns the first lead whose leading byte does not occur in
// text.
func placeholderLead(text string) (string, bool) {
	for _, lead := range placeholderLeads {
		if strings.IndexByte(text, lead[0]) < 0 {
			return lead, true
		}
	}
	return "", false
}

// placeholders records comments lifted out of the text, in insertion order.
type placeholders struct {
	prefix    string
	originals []string
}

func (p *placeholders) token(i int) string {
	return p.prefix + strconv.Itoa(i) + placeholderEnd
}

func (p *placeholders) len() int {
	if p == nil {
		return 0
	}
	return len(p.originals)
}

// extractMarkers replaces every comment whose first word is one of markers
// with a placeholder token. Comments without a closing "-->" stay where they
// are. It reports false, leaving text unchanged, when marked comments exist
// but every placeholder lead already occurs in text.
func extractMarkers(text string, markers []string) (string, *placeholders, bool) {
	if len(markers) == 0 || !strings.Contains(text, "<!--") {
		return text, nil, true
	}

	type span struct{ start, end int }
	var marked []span
	i := 0
	for {
		open := strings.Index(text[i:], "<!--")
		if open < 0 {
			break
		}
		open += i
		end := strings.Index(text[open+4:], "-->")
		if end < 0 {
			break
		}
		end += open + 4 + 3
		if hasMarker(text[open+4:end-3], markers) {
			marked = append(marked, span{open, end})
		}
		i = end
	}
	if len(marked) == 0 {
		return text, nil, true
	}

	lead, ok := placeholderLead(text)
	if !ok {
		return text, nil, false
	}
	ph := &placeholders{prefix: lead + placeholderTag}

	var b strings.Builder
	b.Grow(len(text))
	i = 0
	for _, sp := range marked {
		b.WriteString(text[i:sp.start])
		b.WriteString(ph.token(len(ph.originals)))
		ph.originals = append(ph.originals, text[sp.start:sp.end])
		i = sp.end
	}
	b.WriteString(text[i:])
	return b.String(), ph, true
}

// hasMarker reports whether body, after leading whitespace, starts with one
// of markers as a whole word.
func hasMarker(body string, markers []string) bool {
	body = strings.TrimLeft(body, htmlSpace)
	for _, m := range markers {
		if m == "" || !strings.HasPrefix(body, m) {
			continue
		}
		if len(body) == len(m) || !isWordByte(body[len(m)]) {
			return true
		}
	}
	return false
}

// normalizeDoctype rewrites a leading doctype declaration, in any case and
// spacing, to one canonical form: "<!DOCTYPE" followed by its single-spaced
// body, with the html root name lowercased.
func normalizeDoctype(text string) string {
	lead := len(text) - len(strings.TrimLeft(text, htmlSpace))
	rest := text[lead:]
	const kw = "<!doctype"
	if len(rest) <= len(kw) || !strings.EqualFold(rest[:len(kw)], kw) {
		return text
	}
	if c := rest[len(kw)]; c != '>' && !isSpace(c) {
		return text
	}
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return text
	}

	fields := strings.Fields(rest[len(kw):end])
	if len(fields) > 0 && strings.EqualFold(fields[0], "html") {
		fields[0] = "html"
	}
	canonical := "<!DOCTYPE"
	if len(fields) > 0 {
		canonical += " " + strings.Join(fields, " ")
	}
	canonical += ">"
	return text[:lead] + canonical + rest[end+1:]
}
