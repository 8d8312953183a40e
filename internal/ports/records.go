// Package ports defines the interfaces (contracts) that adapters must implement
// and the record types that cross component boundaries. Domain logic depends
// only on these, never on concrete implementations.
//
// All records are plain immutable-by-convention values: the engine never
// mutates one after it has been handed over, and callers must not either.
package ports

// SourceUnit is one minimal chunk of source text submitted for translation
// assistance. Produced by the parsing/session layer; the engine only reads it.
type SourceUnit struct {
	ID          string            `json:"id"`
	Text        string            `json:"text"`
	ContextPrev string            `json:"context_prev,omitempty"`
	ContextNext string            `json:"context_next,omitempty"`
	Speaker     string            `json:"speaker,omitempty"`
	FileSource  string            `json:"file_source,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// GlossaryEntry is one source→target term pair with ownership metadata.
// Source must be non-empty. Entries are replaced wholesale on glossary
// reload, never mutated in place.
type GlossaryEntry struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Glossary   string `json:"glossary"`
	Definition string `json:"definition,omitempty"`
	Priority   int    `json:"priority"`
}

// TermHit is a located occurrence of a glossary term inside queried text.
// Start/End are byte offsets into the text that produced the hit, half-open
// (End exclusive). Invariant: Start < End.
type TermHit struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Glossary   string `json:"glossary"`
	Definition string `json:"definition,omitempty"`
	Priority   int    `json:"priority"`
}

// Len returns the span length in bytes.
func (h TermHit) Len() int { return h.End - h.Start }

// Overlaps reports whether two hit spans intersect.
func (h TermHit) Overlaps(o TermHit) bool {
	return h.Start < o.End && o.Start < h.End
}

// TMEntry is one stored translation unit. The TM is an append-only log:
// a new translation of the same source is a new entry, never an edit.
// LastUsed is an ISO-8601 timestamp string (UTC, second precision).
type TMEntry struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	TM         string `json:"tm_source"`
	UsageCount int    `json:"usage_count"`
	LastUsed   string `json:"last_used"`
}

// MatchType classifies a TM match.
type MatchType string

const (
	MatchExact MatchType = "EXACT"
	MatchFuzzy MatchType = "FUZZY"
	// MatchContext is reserved for context-aware scoring. No lookup path
	// produces it yet; it exists so the taxonomy is stable for callers.
	MatchContext MatchType = "CONTEXT"
)

// TMMatch is a read-time projection of a TMEntry scored against a query.
// Never persisted — persistence goes through AddToTM, which writes a TMEntry.
type TMMatch struct {
	Source     string    `json:"source"`
	Target     string    `json:"target"`
	Similarity float64   `json:"similarity"`
	MatchType  MatchType `json:"match_type"`
	TM         string    `json:"tm_source"`
	UsageCount int       `json:"usage_count"`
	LastUsed   string    `json:"last_used"`
}

// Suggestions is the combined query result envelope: glossary hits and TM
// matches for one SourceUnit. Both slices are ordered (hits by start offset,
// matches by rank) and may be empty, never nil maps of anything fancier.
type Suggestions struct {
	Terms     []TermHit `json:"terms"`
	TMMatches []TMMatch `json:"tm_matches"`
}

// LoadStats reports ingestion outcome: how many entries made it into the
// index/store and how many were skipped as malformed. A partial load is
// usable; Skipped is the diagnostic count surfaced to the caller.
type LoadStats struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// Add accumulates another stats record.
func (s *LoadStats) Add(o LoadStats) {
	s.Loaded += o.Loaded
	s.Skipped += o.Skipped
}
