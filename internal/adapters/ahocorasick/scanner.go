// Package ahocorasick implements ports.PatternScanner using a failure-link
// automaton from the petar-dambovaliev/aho-corasick library. Matching is
// O(n + m + z); the DFA option trades build memory for the fastest scan,
// which is the right trade for an interactive tool that rebuilds rarely.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/localcat/internal/ports"
)

// Scanner wraps a compiled automaton over a fixed pattern set.
type Scanner struct {
	automaton aho.AhoCorasick
	patterns  []string
}

// NewScanner compiles an automaton from the given patterns. When
// caseInsensitive is set, folding happens inside the automaton at build
// time, so reported offsets still refer to the original query text.
func NewScanner(patterns []string, caseInsensitive bool) *Scanner {
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		AsciiCaseInsensitive: caseInsensitive,
		DFA:                  true,
	})
	p := make([]string, len(patterns))
	copy(p, patterns)
	return &Scanner{
		automaton: builder.Build(p),
		patterns:  p,
	}
}

// Scan finds all pattern occurrences in text, overlapping ones included.
func (s *Scanner) Scan(text string) []ports.PatternOccurrence {
	if len(s.patterns) == 0 || len(text) == 0 {
		return nil
	}
	iter := s.automaton.IterOverlappingByte([]byte(text))
	var occs []ports.PatternOccurrence
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		occs = append(occs, ports.PatternOccurrence{
			Pattern: m.Pattern(),
			Start:   m.Start(),
			End:     m.End(),
		})
	}
	return occs
}

// PatternCount returns the number of compiled patterns.
func (s *Scanner) PatternCount() int {
	return len(s.patterns)
}

// Pattern returns the pattern string at the given index.
func (s *Scanner) Pattern(idx int) string {
	if idx < 0 || idx >= len(s.patterns) {
		return ""
	}
	return s.patterns[idx]
}

var _ ports.PatternScanner = (*Scanner)(nil)
