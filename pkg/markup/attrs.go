package markup

import "strings"

// attrStats counts what the attribute pass changed in one region.
type attrStats struct {
	tagsRewritten       int
	attributesRemoved   int
	attributesShortened int
	slashesAdded        int
}

func (a *attrStats) add(o attrStats) {
	a.tagsRewritten += o.tagsRewritten
	a.attributesRemoved += o.attributesRemoved
	a.attributesShortened += o.attributesShortened
	a.slashesAdded += o.slashesAdded
}

// normalizeAttributes rewrites every start tag in a plain region according to
// cfg. Text, comments and end tags pass through untouched.
func normalizeAttributes(region string, cfg *Config) (string, attrStats) {
	var stats attrStats
	var b strings.Builder
	b.Grow(len(region))

	sc := newScanner(region)
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.Kind != TokenTagOpen {
			b.WriteString(tok.Text)
			continue
		}
		out := rewriteStartTag(tok.Text, cfg, &stats)
		if out != tok.Text {
			stats.tagsRewritten++
		}
		b.WriteString(out)
	}
	return b.String(), stats
}

// rewriteStartTag applies the attribute options to a single start tag and
// decides whether it ends in "/>".
func rewriteStartTag(token string, cfg *Config, stats *attrStats) string {
	st := parseStartTag(token)

	kept := make([]attribute, 0, len(st.attrs))
	for _, a := range st.attrs {
		if a.broken {
			kept = append(kept, a)
			continue
		}
		lname := asciiLower(a.name)

		if cfg.BooleanAttrShortening && a.hasValue && booleanAttrs[lname] {
			a.name = lname
			a.hasValue = false
			a.value = ""
			a.quote = 0
			a.changed = true
			stats.attributesShortened++
		}

		if cfg.RemoveDefaultType && a.hasValue && lname == "type" && isDefaultType(a.value) {
			stats.attributesRemoved++
			continue
		}

		if cfg.TrimAttrWhitespace && a.hasValue {
			v := collapseSpaces(a.value)
			if a.quote != 0 {
				v = strings.Trim(v, htmlSpace)
			}
			if v != a.value {
				a.value = v
				a.changed = true
			}
		}

		if cfg.RemoveEmptyAttributes && a.hasValue && a.value == "" {
			stats.attributesRemoved++
			continue
		}

		// name= with nothing after it would swallow a following "/" as its
		// value, so it is always written with explicit empty quotes.
		if a.hasValue && a.quote == 0 && a.value == "" {
			a.quote = '"'
			a.changed = true
		}
		kept = append(kept, a)
	}

	var b strings.Builder
	b.Grow(len(token))
	b.WriteByte('<')
	b.WriteString(st.name)

	if cfg.TrimAttrWhitespace {
		for i, a := range kept {
			b.WriteByte(' ')
			if needsSlash(i, a) {
				b.WriteByte('/')
			}
			if a.broken {
				b.WriteString(a.raw)
				continue
			}
			writeAttribute(&b, a)
		}
	} else {
		for i, a := range kept {
			b.WriteString(a.lead)
			if needsSlash(i, a) && !strings.Contains(a.lead, "/") {
				b.WriteByte('/')
			}
			if a.changed {
				writeAttribute(&b, a)
			} else {
				b.WriteString(a.raw)
			}
		}
		b.WriteString(st.tail)
	}

	// An attribute with an unclosed quote runs to the end of the tag; a slash
	// written after it would land inside the value.
	brokenTail := len(kept) > 0 && kept[len(kept)-1].broken
	if !brokenTail && (st.selfClosing || voidTags[asciiLower(st.name)]) {
		if !st.selfClosing {
			stats.slashesAdded++
		}
		if n := len(kept); n > 0 && endsUnquoted(kept[n-1]) && !endsWithSpace(b.String()) {
			b.WriteByte(' ')
		}
		b.WriteByte('/')
	}
	b.WriteByte('>')
	return b.String()
}

// needsSlash reports whether a, written at position i, must follow a slash.
// A name starting with '=' is only read as a name after a slash; after a space
// it becomes the value of the attribute before it.
func needsSlash(i int, a attribute) bool {
	return i > 0 && strings.HasPrefix(a.name, "=")
}

// writeAttribute writes a in its canonical name[=value] form.
func writeAttribute(b *strings.Builder, a attribute) {
	b.WriteString(a.name)
	if !a.hasValue {
		return
	}
	b.WriteByte('=')
	if a.quote != 0 {
		b.WriteByte(a.quote)
		b.WriteString(a.value)
		b.WriteByte(a.quote)
		return
	}
	b.WriteString(a.value)
}

// endsUnquoted reports whether a slash written right after a would be read as
// part of its value.
func endsUnquoted(a attribute) bool {
	return a.hasValue && a.quote == 0 && !a.broken && a.value != ""
}

func endsWithSpace(s string) bool {
	return s != "" && isSpace(s[len(s)-1])
}

func isDefaultType(v string) bool {
	v = strings.Trim(v, htmlSpace)
	for _, t := range defaultTypes {
		if strings.EqualFold(v, t) {
			return true
		}
	}
	return false
}

// collapseSpaces replaces every run of whitespace with a single space.
func collapseSpaces(s string) string {
	var b strings.Builder
	inSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpace(c) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteByte(c)
	}
	if b.Len() == len(s) && !strings.ContainsAny(s, "\t\n\r\f") {
		return s
	}
	return b.String()
}
