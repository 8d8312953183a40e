// Package tm implements the translation-memory side of the engine: an
// append-only store of prior translations with exact lookup over normalized
// source keys and fuzzy lookup over an n-gram candidate index.
package tm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/corey/localcat/internal/ports"
)

// Normalizer canonicalizes source text for exact-match keying. The same
// normalizer must be used for indexing and querying or exact match silently
// degrades, so Store owns one and exposes nothing else.
//
// Normalize is pure, total, and idempotent for every mode.
type Normalizer struct {
	foldCase  bool
	stripPunc bool
}

// NewNormalizer builds a normalizer for one of the ports.Norm* modes.
// Unknown modes degrade to whitespace-only rather than failing: Normalize
// must stay total, and mode validation belongs to config loading.
func NewNormalizer(mode string) Normalizer {
	n := Normalizer{}
	switch mode {
	case ports.NormCase:
		n.foldCase = true
	case ports.NormPunctuation:
		n.foldCase = true
		n.stripPunc = true
	}
	return n
}

// Normalize collapses runs of whitespace to single spaces and trims the
// ends; depending on mode it also case-folds and strips punctuation.
func (n Normalizer) Normalize(text string) string {
	if n.stripPunc {
		text = strings.Map(func(r rune) rune {
			if unicode.IsPunct(r) {
				return -1
			}
			return r
		}, text)
	}
	if n.foldCase {
		// A cases.Caser is stateful and not safe for concurrent use;
		// construct one per call instead of sharing a field.
		text = cases.Fold().String(text)
	}
	return strings.Join(strings.Fields(text), " ")
}
