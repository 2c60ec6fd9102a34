package markup

import "strings"

const nbsp = "\u00a0"

// stripComments drops ordinary comments from a plain region. Conditional
// comments (<!--[if IE]> ... and <!--<![endif]-->) are kept because they
// change what some browsers render.
func stripComments(region string) (string, int) {
	if !strings.Contains(region, "<!--") {
		return region, 0
	}
	var b strings.Builder
	b.Grow(len(region))
	removed := 0
	sc := newScanner(region)
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.Kind == TokenComment && !isConditionalComment(tok.Text) && !opensMarkup(b.String()) {
			removed++
			continue
		}
		b.WriteString(tok.Text)
	}
	return b.String(), removed
}

// opensMarkup reports whether s ends where removing a following comment would
// join "<" or "</" to the next text and form a tag.
func opensMarkup(s string) bool {
	return strings.HasSuffix(s, "<") || strings.HasSuffix(s, "</")
}

func isConditionalComment(c string) bool {
	body := strings.TrimLeft(c[4:], htmlSpace)
	return strings.HasPrefix(body, "[if") || strings.HasPrefix(body, "<!")
}

// collapseWhitespace removes insignificant whitespace from a plain region:
// runs inside text shrink to one space, text is trimmed, whitespace between
// tags disappears except for a single space between two inline elements, and
// the region itself is trimmed. Text holding a non-breaking space is left
// exactly as written, as is unterminated trailing markup.
func collapseWhitespace(region string) string {
	toks := tokenize(region)

	var b strings.Builder
	b.Grow(len(region))

	var prev Token // last emitted token
	gap := false   // whitespace-only text was dropped since prev
	for i, tok := range toks {
		switch tok.Kind {
		case TokenText:
			if verbatim(tok) {
				b.WriteString(tok.Text)
				prev, gap = tok, false
				continue
			}
			text := strings.Trim(collapseRuns(tok.Text), htmlSpace)
			if text == "" {
				gap = prev.isTag() && i+1 < len(toks) && toks[i+1].isTag()
				continue
			}
			b.WriteString(text)
			prev, gap = tok, false

		case TokenTagOpen, TokenTagClose:
			if gap && prev.isTag() && inlineTags[nameOf(prev.Text)] && inlineTags[nameOf(tok.Text)] {
				b.WriteByte(' ')
			}
			b.WriteString(tok.Text)
			prev, gap = tok, false

		default:
			b.WriteString(tok.Text)
			prev, gap = tok, false
		}
	}

	out := b.String()
	if len(toks) > 0 && !verbatim(toks[0]) {
		out = strings.TrimLeft(out, htmlSpace)
	}
	if len(toks) > 0 && !verbatim(toks[len(toks)-1]) {
		out = strings.TrimRight(out, htmlSpace)
	}
	return out
}

// verbatim reports whether the collapser must not touch tok at all.
func verbatim(tok Token) bool {
	return tok.Kind == TokenRaw || (tok.Kind == TokenText && strings.Contains(tok.Text, nbsp))
}

// collapseRuns replaces runs of two or more whitespace characters with a
// single space. A lone whitespace character is kept as it is.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if !isSpace(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i + 1
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if j-i > 1 {
			b.WriteByte(' ')
		} else {
			b.WriteByte(s[i])
		}
		i = j
	}
	return b.String()
}
