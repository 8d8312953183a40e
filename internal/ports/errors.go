package ports

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure crossing a component boundary is one of
// these, possibly wrapped with detail. The engine never returns a bare
// unstructured string error.
var (
	// ErrConfig means the project context is missing or malformed.
	ErrConfig = errors.New("invalid project context")

	// ErrEmptyGlossary means a glossary source produced zero usable terms.
	// Non-fatal by policy: callers treat it as "no terms", not a hard stop.
	ErrEmptyGlossary = errors.New("glossary has no usable terms")

	// ErrNotLoaded means a query arrived before LoadProjectContext succeeded.
	ErrNotLoaded = errors.New("engine has no loaded project context")
)

// SourceIOError wraps a collaborator's failure to read a corpus. The engine
// propagates it without retrying; retry policy belongs to the caller.
type SourceIOError struct {
	Path string
	Err  error
}

func (e *SourceIOError) Error() string {
	return fmt.Sprintf("read source %s: %v", e.Path, e.Err)
}

func (e *SourceIOError) Unwrap() error { return e.Err }

// MalformedEntryError marks a single glossary/TM record that failed shape
// validation. Ingestion skips the record, counts it, and continues.
type MalformedEntryError struct {
	Source string // originating file or store
	Line   int    // 1-based record position, 0 if unknown
	Reason string
}

func (e *MalformedEntryError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed entry %s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed entry %s: %s", e.Source, e.Reason)
}

// IsMalformed reports whether err is a per-entry validation failure that
// ingestion should recover from locally.
func IsMalformed(err error) bool {
	var me *MalformedEntryError
	return errors.As(err, &me)
}
