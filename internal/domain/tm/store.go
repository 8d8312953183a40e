package tm

import (
	"io"
	"sync"
	"time"

	"github.com/corey/localcat/internal/ports"
)

// Store holds the in-memory read side of the translation memory: the
// append-only entry log plus two derived indexes — normalized source key →
// entries for exact lookup, and an n-gram candidate index for fuzzy lookup.
//
// Appends are serialized by a mutex and visible to lookups on return.
// Lookups take the read lock, so they are safe concurrently with each other
// and with appends. Entries themselves are never mutated after append.
type Store struct {
	mu   sync.RWMutex
	norm Normalizer

	// entries in append order; index position doubles as recency rank.
	entries []ports.TMEntry

	// byKey maps normalized source text to entry positions, append order.
	byKey map[string][]int

	candidates *candidateIndex

	// now is the append timestamp source; tests pin it.
	now func() time.Time
}

// NewStore creates an empty store using the given normalization mode for
// exact-match keying.
func NewStore(mode string) *Store {
	return &Store{
		norm:       NewNormalizer(mode),
		byKey:      make(map[string][]int),
		candidates: newCandidateIndex(),
		now:        time.Now,
	}
}

// Load drains a TM iterator into the store. Entries missing source or
// target text are skipped and counted. Load may be called several times
// (one per TM file plus the durable log); entries accumulate in pull order.
func (s *Store) Load(it ports.TMIterator) (ports.LoadStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats ports.LoadStats
	for {
		entry, err := it.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			if ports.IsMalformed(err) {
				stats.Skipped++
				continue
			}
			return stats, err
		}
		if entry.Source == "" || entry.Target == "" {
			stats.Skipped++
			continue
		}
		s.insert(entry)
		stats.Loaded++
	}
}

// NewEntry builds a timestamped entry for a fresh translation without
// storing it. Callers that persist entries durably write the entry to the
// log first and Insert it only after that write succeeds.
func (s *Store) NewEntry(source, target, tmName string) ports.TMEntry {
	return ports.TMEntry{
		Source:     source,
		Target:     target,
		TM:         tmName,
		UsageCount: 1,
		LastUsed:   s.now().UTC().Format(time.RFC3339),
	}
}

// Insert stores an entry. Always appends — a new translation of an
// already-seen source is a new entry, never an overwrite.
func (s *Store) Insert(entry ports.TMEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(entry)
}

// Append records a new translation and returns the stored entry.
func (s *Store) Append(source, target, tmName string) ports.TMEntry {
	entry := s.NewEntry(source, target, tmName)
	s.Insert(entry)
	return entry
}

// insert adds an entry to the log and both derived indexes. Caller holds
// the write lock.
func (s *Store) insert(entry ports.TMEntry) {
	pos := len(s.entries)
	s.entries = append(s.entries, entry)

	key := s.norm.Normalize(entry.Source)
	s.byKey[key] = append(s.byKey[key], pos)
	s.candidates.add(pos, key)
}

// Len reports the number of entries in the log.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Normalize exposes the store's canonicalization, so callers key external
// data exactly the way lookups will.
func (s *Store) Normalize(text string) string {
	return s.norm.Normalize(text)
}

// LookupExact returns every entry whose normalized source equals the
// normalized query, most recent first, as EXACT matches with similarity 1.0.
func (s *Store) LookupExact(text string) []ports.TMMatch {
	key := s.norm.Normalize(text)

	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := s.byKey[key]
	if len(positions) == 0 {
		return nil
	}

	matches := make([]ports.TMMatch, 0, len(positions))
	for i := len(positions) - 1; i >= 0; i-- {
		e := s.entries[positions[i]]
		matches = append(matches, ports.TMMatch{
			Source:     e.Source,
			Target:     e.Target,
			Similarity: 1.0,
			MatchType:  ports.MatchExact,
			TM:         e.TM,
			UsageCount: e.UsageCount,
			LastUsed:   e.LastUsed,
		})
	}
	return matches
}
