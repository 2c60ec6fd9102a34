package markup

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPlaceholderMissing means a protected comment could not be put back. It
// indicates a bug in a rewrite pass, never a problem with the input.
var ErrPlaceholderMissing = errors.New("placeholder missing at restore")

// ErrPlaceholderDuplicated means a placeholder appeared more often than it was
// inserted.
var ErrPlaceholderDuplicated = errors.New("placeholder duplicated at restore")

// reassemble joins region texts in order and restores placeholders.
func reassemble(texts []string, ph *placeholders) (string, error) {
	return ph.restore(strings.Join(texts, ""))
}

// restore substitutes every recorded placeholder back to its comment. Tokens
// appear in insertion order because no pass reorders text.
func (p *placeholders) restore(s string) (string, error) {
	if p.len() == 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for n, original := range p.originals {
		tok := p.token(n)
		j := strings.Index(s[i:], tok)
		if j < 0 {
			return "", fmt.Errorf("%w: token %d of %d", ErrPlaceholderMissing, n+1, len(p.originals))
		}
		if strings.Contains(s[i:i+j], p.prefix) {
			return "", fmt.Errorf("%w: before token %d", ErrPlaceholderDuplicated, n+1)
		}
		b.WriteString(s[i : i+j])
		b.WriteString(original)
		i += j + len(tok)
	}
	if strings.Contains(s[i:], p.prefix) {
		return "", fmt.Errorf("%w: stray token after %d restored", ErrPlaceholderDuplicated, len(p.originals))
	}
	b.WriteString(s[i:])
	return b.String(), nil
}
