package markup

// voidTags are elements that never have a closing tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// inlineTags are elements whose whitespace-separated adjacency is kept as a
// single space after collapsing, so neighbouring words don't run together.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true,
	"button": true, "cite": true, "code": true, "data": true, "dfn": true,
	"em": true, "i": true, "img": true, "input": true, "kbd": true,
	"label": true, "mark": true, "q": true, "rp": true, "rt": true,
	"rtc": true, "ruby": true, "s": true, "samp": true, "select": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true,
	"time": true, "u": true, "var": true,
}

// booleanAttrs are attributes whose presence alone carries the meaning.
var booleanAttrs = map[string]bool{
	"disabled":   true,
	"checked":    true,
	"selected":   true,
	"readonly":   true,
	"required":   true,
	"autoplay":   true,
	"controls":   true,
	"hidden":     true,
	"multiple":   true,
	"novalidate": true,
}

// defaultTypes are type attribute values browsers assume when absent.
var defaultTypes = []string{"text/javascript", "text/css"}

// DefaultPreserveTags returns the elements whose content is never rewritten
// unless a config says otherwise.
func DefaultPreserveTags() []string {
	return []string{"pre", "textarea", "script", "style"}
}

// IsVoid reports whether name is a void element.
func IsVoid(name string) bool {
	return voidTags[asciiLower(name)]
}

// IsInline reports whether name is an inline-level element.
func IsInline(name string) bool {
	return inlineTags[asciiLower(name)]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordByte(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

const htmlSpace = " \t\n\r\f"

// asciiLower lowercases ASCII letters only, so byte offsets into the result
// match offsets into s.
func asciiLower(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
