package glossary

import (
	"strings"

	"github.com/corey/localcat/internal/ports"
)

// Highlight renders text with resolved hits marked up as [source|target].
// Hits must be non-overlapping and sorted by start offset — exactly what
// Matcher.Extract produces. Hits outside the text's bounds are ignored.
func Highlight(text string, hits []ports.TermHit) string {
	if len(hits) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(hits)*8)
	cur := 0
	for _, h := range hits {
		if h.Start < cur || h.End > len(text) {
			continue
		}
		b.WriteString(text[cur:h.Start])
		b.WriteByte('[')
		b.WriteString(h.Source)
		b.WriteByte('|')
		b.WriteString(h.Target)
		b.WriteByte(']')
		cur = h.End
	}
	b.WriteString(text[cur:])
	return b.String()
}
