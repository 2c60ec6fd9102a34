package markup

import "strings"

// Tag is a view of a single tag token. It is derived on demand and never
// stored between passes.
type Tag struct {
	Name          string
	Closing       bool
	RawAttributes string
	SelfClosing   bool
}

// attribute is one parsed attribute of a start tag.
type attribute struct {
	lead     string // whitespace and stray slashes before the attribute
	raw      string // attribute exactly as written
	name     string
	value    string
	quote    byte // '"', '\'' or 0 for unquoted
	hasValue bool
	broken   bool // quoted value never closed; only ever re-emitted raw
	changed  bool
}

// startTag is a start tag split into its parts.
type startTag struct {
	name        string
	attrs       []attribute
	tail        string // whitespace after the last attribute
	selfClosing bool
}

// ParseTag derives a Tag from a tag token such as `<img src="a.png"/>` or
// `</div>`. ok is false when the token is not a tag.
func ParseTag(token string) (Tag, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") || len(token) < 3 {
		return Tag{}, false
	}
	if token[1] == '/' {
		inner := token[2 : len(token)-1]
		return Tag{Name: tagName(inner), Closing: true}, isLetter(token[2])
	}
	if !isLetter(token[1]) {
		return Tag{}, false
	}
	st := parseStartTag(token)
	raw := token[1+len(st.name) : len(token)-1]
	if st.selfClosing {
		raw = raw[:strings.LastIndexByte(raw, '/')]
	}
	return Tag{
		Name:          st.name,
		RawAttributes: raw,
		SelfClosing:   st.selfClosing,
	}, true
}

// tagName returns the leading tag-name token of s.
func tagName(s string) string {
	end := strings.IndexAny(s, htmlSpace+"/>")
	if end < 0 {
		return s
	}
	return s[:end]
}

// nameOf returns the lowercase element name of a tag token.
func nameOf(token string) string {
	if len(token) < 2 {
		return ""
	}
	inner := token[1:]
	if inner[0] == '/' {
		inner = inner[1:]
	}
	return asciiLower(tagName(inner))
}

// parseStartTag splits a start tag token into name and attributes. The
// quoting rules follow the HTML tokenizer closely enough that a slash inside
// an unquoted value is kept as part of the value, while a slash after a
// quoted value or a bare name marks the tag self-closing.
func parseStartTag(token string) startTag {
	inner := token[1 : len(token)-1]
	name := tagName(inner)
	s := inner[len(name):]

	st := startTag{name: name}
	leadStart := 0
	i := 0
	for i < len(s) {
		c := s[i]
		if isSpace(c) {
			i++
			continue
		}
		if c == '/' {
			if strings.TrimLeft(s[i+1:], htmlSpace) == "" {
				st.selfClosing = true
				st.tail = s[leadStart:i]
				return st
			}
			i++
			continue
		}

		start := i
		i++ // a leading '=' belongs to the name
		for i < len(s) && !isSpace(s[i]) && s[i] != '/' && s[i] != '=' {
			i++
		}
		a := attribute{lead: s[leadStart:start], name: s[start:i]}

		j := skipSpace(s, i)
		if j < len(s) && s[j] == '=' {
			a.hasValue = true
			k := skipSpace(s, j+1)
			switch {
			case k >= len(s):
				i = k
			case s[k] == '"' || s[k] == '\'':
				a.quote = s[k]
				end := strings.IndexByte(s[k+1:], s[k])
				if end < 0 {
					a.value = s[k+1:]
					a.broken = true
					i = len(s)
				} else {
					a.value = s[k+1 : k+1+end]
					i = k + 1 + end + 1
				}
			case s[k] == '/' && strings.TrimLeft(s[k+1:], htmlSpace) == "":
				// name= right before "/>" has no value
				i = k
			default:
				end := k
				for end < len(s) && !isSpace(s[end]) {
					end++
				}
				a.value = s[k:end]
				i = end
			}
		}
		a.raw = strings.TrimRight(s[start:i], htmlSpace)
		st.attrs = append(st.attrs, a)
		leadStart = start + len(a.raw)
		i = leadStart
	}
	st.tail = s[leadStart:]
	return st
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}
