// Package jsonl reads translation-memory corpora stored as JSONL: one JSON
// object per line. Parsing is defensive — TM files are edited by hand and
// merged between machines, so a bad line is counted and skipped, never a
// reason to abort the load.
//
// The reader is pull-based: one line is held in memory at a time, so file
// size never affects the memory ceiling.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/corey/localcat/internal/ports"
)

// readerBufSize is the line buffer size. TM segments are sentences, not
// documents; 1MB leaves generous headroom.
const readerBufSize = 1 << 20

// record is the on-disk shape. Context and speaker fields are carried by
// the format for future context-aware matching; extra keys are ignored.
type record struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	ContextPrev string `json:"context_prev"`
	ContextNext string `json:"context_next"`
	Speaker     string `json:"speaker"`
	FileSource  string `json:"file_source"`
	LastUsed    string `json:"last_used"`
	UsageCount  int    `json:"usage_count"`
}

// Reader implements ports.TMIterator over one JSONL file.
type Reader struct {
	f    *os.File
	br   *bufio.Reader
	name string // TM name: file base name
	line int
	eof  bool
}

// Open opens a TM file for iteration. A failure to open is a SourceIOError;
// the engine propagates it rather than retrying.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ports.SourceIOError{Path: path, Err: err}
	}
	return &Reader{
		f:    f,
		br:   bufio.NewReaderSize(f, readerBufSize),
		name: filepath.Base(path),
	}, nil
}

// Next returns the next TM entry. Blank lines are skipped silently; lines
// that fail to parse or lack source/target yield a MalformedEntryError and
// the reader stays usable. io.EOF ends the stream.
func (r *Reader) Next() (ports.TMEntry, error) {
	for {
		if r.eof {
			return ports.TMEntry{}, io.EOF
		}

		raw, err := r.br.ReadBytes('\n')
		if err == io.EOF {
			r.eof = true
			if len(bytes.TrimSpace(raw)) == 0 {
				return ports.TMEntry{}, io.EOF
			}
		} else if err != nil {
			return ports.TMEntry{}, &ports.SourceIOError{Path: r.name, Err: err}
		}
		r.line++

		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return ports.TMEntry{}, &ports.MalformedEntryError{
				Source: r.name, Line: r.line, Reason: "invalid JSON: " + err.Error(),
			}
		}
		if rec.Source == "" || rec.Target == "" {
			return ports.TMEntry{}, &ports.MalformedEntryError{
				Source: r.name, Line: r.line, Reason: "missing source or target",
			}
		}

		return ports.TMEntry{
			Source:     rec.Source,
			Target:     rec.Target,
			TM:         r.name,
			UsageCount: rec.UsageCount,
			LastUsed:   rec.LastUsed,
		}, nil
	}
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

var _ ports.TMIterator = (*Reader)(nil)
