package ports

import "io"

// GlossaryIterator is a pull-based, bounded-memory traversal of a glossary
// source. Next returns one entry at a time; io.EOF ends the stream. A
// *MalformedEntryError return means "skip this record and keep pulling" —
// the iterator stays usable. Any other error is terminal.
//
// Implementations must never materialize the whole backing source: the
// contract exists precisely so multi-gigabyte corpora stay out of memory.
type GlossaryIterator interface {
	Next() (GlossaryEntry, error)
	Close() error
}

// TMIterator is the TM-side twin of GlossaryIterator.
type TMIterator interface {
	Next() (TMEntry, error)
	Close() error
}

// DrainGlossary pulls an iterator to exhaustion, invoking fn per valid entry.
// Malformed entries are skipped and counted; io.EOF is the clean end.
func DrainGlossary(it GlossaryIterator, fn func(GlossaryEntry) error) (LoadStats, error) {
	var stats LoadStats
	for {
		entry, err := it.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			if IsMalformed(err) {
				stats.Skipped++
				continue
			}
			return stats, err
		}
		if err := fn(entry); err != nil {
			return stats, err
		}
		stats.Loaded++
	}
}

// DrainTM pulls a TM iterator to exhaustion, invoking fn per valid entry.
func DrainTM(it TMIterator, fn func(TMEntry) error) (LoadStats, error) {
	var stats LoadStats
	for {
		entry, err := it.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			if IsMalformed(err) {
				stats.Skipped++
				continue
			}
			return stats, err
		}
		if err := fn(entry); err != nil {
			return stats, err
		}
		stats.Loaded++
	}
}
