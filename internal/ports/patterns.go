package ports

// PatternScanner finds every occurrence of a fixed pattern set in a text
// using multi-pattern matching (Aho-Corasick). One pass over the text finds
// all occurrences simultaneously: O(n + m + z) where n=text length, m=total
// pattern length, z=number of occurrences. Cost must not otherwise depend on
// how many patterns are loaded — a per-pattern scan is non-conformant once
// glossaries reach the thousands.
//
// Scanners are immutable after construction. A glossary reload builds a new
// scanner; it never mutates a published one.
type PatternScanner interface {
	// Scan returns all occurrences, including overlapping ones, with byte
	// offsets into text (half-open ranges). Order is the automaton's visit
	// order; callers impose their own ordering policy.
	Scan(text string) []PatternOccurrence

	// PatternCount reports the number of compiled patterns.
	PatternCount() int
}

// PatternOccurrence is one raw automaton hit: which pattern, and where.
type PatternOccurrence struct {
	Pattern int // index into the pattern set given at construction
	Start   int // byte offset, inclusive
	End     int // byte offset, exclusive
}
