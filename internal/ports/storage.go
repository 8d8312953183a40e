package ports

// TMStorage persists the append-only TM log to durable storage.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: AppendEntry must be transactional. A crash mid-write must
// not corrupt previously committed entries.
type TMStorage interface {
	// AppendEntry durably appends one TM entry. Entries are never
	// overwritten; the log is the system's audit trail.
	AppendEntry(entry TMEntry) error

	// Entries returns a pull-based iterator over the log in append order.
	// The iterator reads in bounded batches; it never loads the full log.
	Entries() TMIterator

	// Len reports the number of committed entries.
	Len() (int, error)

	// Close releases the underlying database.
	Close() error
}

// Watcher monitors corpus files and reports changes so the caller can
// trigger an atomic reload. Implementations debounce editor write bursts.
type Watcher interface {
	// Watch starts monitoring the given files/directories. onChange receives
	// the absolute path of each changed file.
	Watch(paths []string, onChange func(path string)) error

	// Update replaces the watched file set while monitoring continues.
	Update(paths []string) error

	// Stop ends monitoring and releases resources. Safe to call twice.
	Stop() error
}
