package glossary

import (
	"sort"

	"github.com/corey/localcat/internal/ports"
)

// Matcher applies overlap policy on top of an Index: among hits whose spans
// overlap, the longest wins, priority breaks length ties, and the earliest
// start breaks priority ties. Deterministic for identical input and index.
type Matcher struct {
	idx *Index

	// maxHits bounds Extract output to protect downstream renderers from
	// pathological glossaries. 0 means unbounded.
	maxHits int
}

// NewMatcher wraps an index with overlap-resolution policy.
func NewMatcher(idx *Index, maxHits int) *Matcher {
	return &Matcher{idx: idx, maxHits: maxHits}
}

// TermCount reports the number of distinct indexed patterns.
func (m *Matcher) TermCount() int {
	if m.idx == nil {
		return 0
	}
	return m.idx.TermCount()
}

// Extract returns the resolved term hits for the unit's text, sorted by
// start offset ascending.
func (m *Matcher) Extract(unit ports.SourceUnit) []ports.TermHit {
	if m.idx == nil {
		return nil
	}
	raw := m.idx.Search(unit.Text)
	if len(raw) == 0 {
		return nil
	}

	resolved := resolveOverlaps(unit.Text, raw)

	if m.maxHits > 0 && len(resolved) > m.maxHits {
		// Truncation keeps the highest-priority, longest hits.
		sort.SliceStable(resolved, func(i, j int) bool {
			if resolved[i].Priority != resolved[j].Priority {
				return resolved[i].Priority > resolved[j].Priority
			}
			if resolved[i].Len() != resolved[j].Len() {
				return resolved[i].Len() > resolved[j].Len()
			}
			return resolved[i].Start < resolved[j].Start
		})
		resolved = resolved[:m.maxHits]
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Start < resolved[j].Start
	})
	return resolved
}

// resolveOverlaps keeps exactly one hit per maximal overlapping cluster,
// chosen by span length descending, then priority descending, then start
// ascending. Greedy over a byte-occupancy mask: once a winner claims its
// span, anything touching that span loses.
func resolveOverlaps(text string, hits []ports.TermHit) []ports.TermHit {
	ranked := make([]ports.TermHit, len(hits))
	copy(ranked, hits)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Len() != ranked[j].Len() {
			return ranked[i].Len() > ranked[j].Len()
		}
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		return ranked[i].Start < ranked[j].Start
	})

	occupied := make([]bool, len(text))
	kept := ranked[:0]
	for _, h := range ranked {
		free := true
		for i := h.Start; i < h.End; i++ {
			if occupied[i] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for i := h.Start; i < h.End; i++ {
			occupied[i] = true
		}
		kept = append(kept, h)
	}
	return kept
}
