package markup

import "strings"

// TokenKind classifies a span of a plain region.
type TokenKind int

const (
	// TokenText is character data between markup.
	TokenText TokenKind = iota
	// TokenTagOpen is a start tag, self-closing or not.
	TokenTagOpen
	// TokenTagClose is an end tag.
	TokenTagClose
	// TokenComment is a complete <!-- ... --> comment.
	TokenComment
	// TokenDirective is <!...> or <?...> other than a comment, e.g. a doctype.
	TokenDirective
	// TokenRaw is unterminated markup running to the end of input. It is
	// always emitted verbatim.
	TokenRaw
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenTagOpen:
		return "tag_open"
	case TokenTagClose:
		return "tag_close"
	case TokenComment:
		return "comment"
	case TokenDirective:
		return "directive"
	case TokenRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Token is a classified slice of the scanned text.
type Token struct {
	Kind TokenKind
	Text string
}

// isTag reports whether the token is a start or end tag.
func (t Token) isTag() bool {
	return t.Kind == TokenTagOpen || t.Kind == TokenTagClose
}

// scanner walks a string forward, one token at a time. Its cursor belongs to
// the caller; nothing is shared between scans.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

// next returns the token at the cursor and advances past it.
func (s *scanner) next() (Token, bool) {
	if s.pos >= len(s.src) {
		return Token{}, false
	}
	start := s.pos
	if s.src[start] != '<' || !startsMarkup(s.src[start:]) {
		return s.text(start), true
	}

	rest := s.src[start:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		end := strings.Index(rest[4:], "-->")
		if end < 0 {
			return s.raw(start), true
		}
		s.pos = start + 4 + end + 3
		return Token{Kind: TokenComment, Text: s.src[start:s.pos]}, true

	case rest[1] == '!' || rest[1] == '?':
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return s.raw(start), true
		}
		s.pos = start + end + 1
		return Token{Kind: TokenDirective, Text: s.src[start:s.pos]}, true

	case rest[1] == '/':
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return s.raw(start), true
		}
		s.pos = start + end + 1
		return Token{Kind: TokenTagClose, Text: s.src[start:s.pos]}, true

	default:
		end := tagEnd(rest)
		if end < 0 {
			return s.raw(start), true
		}
		s.pos = start + end + 1
		return Token{Kind: TokenTagOpen, Text: s.src[start:s.pos]}, true
	}
}

// text consumes character data up to the next '<' that starts markup.
func (s *scanner) text(start int) Token {
	i := start + 1
	for i < len(s.src) {
		j := strings.IndexByte(s.src[i:], '<')
		if j < 0 {
			i = len(s.src)
			break
		}
		i += j
		if startsMarkup(s.src[i:]) {
			break
		}
		i++
	}
	s.pos = i
	return Token{Kind: TokenText, Text: s.src[start:i]}
}

func (s *scanner) raw(start int) Token {
	s.pos = len(s.src)
	return Token{Kind: TokenRaw, Text: s.src[start:]}
}

// tokenize scans src completely.
func tokenize(src string) []Token {
	sc := newScanner(src)
	var toks []Token
	for {
		tok, ok := sc.next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

// startsMarkup reports whether s (which begins with '<') opens a tag,
// comment or directive rather than being a literal less-than sign.
func startsMarkup(s string) bool {
	if len(s) < 2 || s[0] != '<' {
		return false
	}
	switch c := s[1]; {
	case c == '!' || c == '?':
		return true
	case c == '/':
		return len(s) > 2 && isLetter(s[2])
	default:
		return isLetter(c)
	}
}

// tagEnd returns the index of the '>' closing the start tag at the beginning
// of s, skipping quoted attribute values. When a quote never closes, the
// first '>' wins so a stray quote cannot swallow the rest of the document.
func tagEnd(s string) int {
	afterEq := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '>':
			return i
		case (c == '"' || c == '\'') && afterEq:
			j := strings.IndexByte(s[i+1:], c)
			if j < 0 {
				return strings.IndexByte(s, '>')
			}
			i += j + 1
			afterEq = false
		case c == '=':
			afterEq = true
		case isSpace(c):
		default:
			afterEq = false
		}
	}
	return -1
}
