// Package csv reads glossary corpora from CSV files. Column convention:
// A=source term, B=target term, optional C=definition, optional D=priority.
// A leading UTF-8 BOM and an optional "source,target,..." header row are
// tolerated, since glossaries are routinely exported from spreadsheets.
package csv

import (
	"bufio"
	stdcsv "encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/corey/localcat/internal/ports"
)

// defaultPriority applies when column D is absent or empty.
const defaultPriority = 1

// Reader implements ports.GlossaryIterator over one CSV file.
type Reader struct {
	f        *os.File
	cr       *stdcsv.Reader
	glossary string // glossary name: file base name
	line     int
}

// Open opens a glossary file for iteration.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ports.SourceIOError{Path: path, Err: err}
	}

	br := bufio.NewReader(f)
	// Strip a UTF-8 BOM if present.
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}

	cr := stdcsv.NewReader(br)
	cr.FieldsPerRecord = -1 // rows vary: 2–4 columns
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	return &Reader{f: f, cr: cr, glossary: filepath.Base(path)}, nil
}

// Next returns the next glossary entry. Rows that cannot be parsed, have
// fewer than two columns, or have an empty source/target yield a
// MalformedEntryError; the reader stays usable. io.EOF ends the stream.
func (r *Reader) Next() (ports.GlossaryEntry, error) {
	for {
		row, err := r.cr.Read()
		if err == io.EOF {
			return ports.GlossaryEntry{}, io.EOF
		}
		r.line++
		if err != nil {
			return ports.GlossaryEntry{}, &ports.MalformedEntryError{
				Source: r.glossary, Line: r.line, Reason: "invalid CSV row: " + err.Error(),
			}
		}

		if r.line == 1 && isHeaderRow(row) {
			continue
		}

		if len(row) < 2 {
			return ports.GlossaryEntry{}, &ports.MalformedEntryError{
				Source: r.glossary, Line: r.line, Reason: "expected at least 2 columns",
			}
		}

		source := strings.TrimSpace(row[0])
		target := strings.TrimSpace(row[1])
		if source == "" || target == "" {
			return ports.GlossaryEntry{}, &ports.MalformedEntryError{
				Source: r.glossary, Line: r.line, Reason: "empty source or target term",
			}
		}

		entry := ports.GlossaryEntry{
			Source:   source,
			Target:   target,
			Glossary: r.glossary,
			Priority: defaultPriority,
		}
		if len(row) > 2 {
			entry.Definition = strings.TrimSpace(row[2])
		}
		if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
			prio, err := strconv.Atoi(strings.TrimSpace(row[3]))
			if err != nil {
				return ports.GlossaryEntry{}, &ports.MalformedEntryError{
					Source: r.glossary, Line: r.line, Reason: "priority is not an integer",
				}
			}
			entry.Priority = prio
		}
		return entry, nil
	}
}

// isHeaderRow detects a spreadsheet-exported header like "source,target,...".
func isHeaderRow(row []string) bool {
	return len(row) >= 2 &&
		strings.EqualFold(strings.TrimSpace(row[0]), "source") &&
		strings.EqualFold(strings.TrimSpace(row[1]), "target")
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

var _ ports.GlossaryIterator = (*Reader)(nil)
