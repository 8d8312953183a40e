// Package glossary implements the term-extraction side of the engine: a
// multi-pattern index over glossary source terms and the overlap-resolution
// matcher that sits on top of it.
//
// The index reports ground truth — every occurrence of every term, overlaps
// included. Policy (longest wins, priority breaks ties) lives in Matcher so
// the two concerns stay independently testable.
package glossary

import (
	"sort"

	"github.com/corey/localcat/internal/ports"
)

// ScannerFactory builds a ports.PatternScanner from a pattern set. The
// engine injects the Aho-Corasick adapter; the domain never imports it.
type ScannerFactory func(patterns []string, caseInsensitive bool) ports.PatternScanner

// Index is an immutable multi-pattern search structure over glossary source
// terms. Built once per glossary load; a reload constructs a new Index and
// the engine swaps it in atomically. Safe for concurrent Search calls.
type Index struct {
	scanner ports.PatternScanner

	// entries groups glossary entries by pattern index. Duplicate source
	// terms across glossaries share one automaton pattern but keep their
	// own entry (owner, priority, definition).
	entries [][]ports.GlossaryEntry

	termCount int
}

// Build constructs an Index by draining the iterator. Entries with an empty
// source term are skipped and counted as malformed. Returns
// ports.ErrEmptyGlossary when nothing usable was ingested — callers treat
// that as "no terms", not as a hard failure.
func Build(it ports.GlossaryIterator, factory ScannerFactory, caseSensitive bool) (*Index, ports.LoadStats, error) {
	byPattern := make(map[string][]ports.GlossaryEntry)
	var patterns []string

	stats, err := ports.DrainGlossary(it, func(entry ports.GlossaryEntry) error {
		if _, seen := byPattern[entry.Source]; !seen {
			patterns = append(patterns, entry.Source)
		}
		byPattern[entry.Source] = append(byPattern[entry.Source], entry)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	// Empty-source entries never reach the map: the iterators classify them
	// as malformed. Guard anyway in case a custom iterator is sloppier.
	for i := 0; i < len(patterns); {
		if patterns[i] == "" {
			delete(byPattern, "")
			stats.Loaded--
			stats.Skipped++
			patterns = append(patterns[:i], patterns[i+1:]...)
			continue
		}
		i++
	}

	if len(patterns) == 0 {
		return nil, stats, ports.ErrEmptyGlossary
	}

	idx := &Index{
		scanner: factory(patterns, !caseSensitive),
		entries: make([][]ports.GlossaryEntry, len(patterns)),
	}
	for i, p := range patterns {
		idx.entries[i] = byPattern[p]
		idx.termCount += len(byPattern[p])
	}
	return idx, stats, nil
}

// TermCount reports how many glossary entries the index holds, duplicates
// across glossaries counted separately.
func (idx *Index) TermCount() int { return idx.termCount }

// Search locates all occurrences of any indexed term inside text, including
// overlapping occurrences, in O(n + m + z). Hits are ordered by start offset
// ascending, then span length descending, then priority descending — every
// raw occurrence is reported; overlap resolution is the Matcher's job.
func (idx *Index) Search(text string) []ports.TermHit {
	occs := idx.scanner.Scan(text)
	if len(occs) == 0 {
		return nil
	}

	hits := make([]ports.TermHit, 0, len(occs))
	for _, o := range occs {
		for _, entry := range idx.entries[o.Pattern] {
			hits = append(hits, ports.TermHit{
				Source:     text[o.Start:o.End],
				Target:     entry.Target,
				Start:      o.Start,
				End:        o.End,
				Glossary:   entry.Glossary,
				Definition: entry.Definition,
				Priority:   entry.Priority,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Start != hits[j].Start {
			return hits[i].Start < hits[j].Start
		}
		if hits[i].Len() != hits[j].Len() {
			return hits[i].Len() > hits[j].Len()
		}
		return hits[i].Priority > hits[j].Priority
	})
	return hits
}
