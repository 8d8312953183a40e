package jsonl

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/localcat/internal/ports"
)

func writeTM(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_ValidEntries(t *testing.T) {
	path := writeTM(t, `{"source":"Hello","target":"你好","usage_count":2,"last_used":"2026-01-05T10:00:00Z"}
{"source":"World","target":"世界","context_prev":"Hello","speaker":"narrator"}
`)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	e1, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Hello", e1.Source)
	assert.Equal(t, "你好", e1.Target)
	assert.Equal(t, "project.jsonl", e1.TM)
	assert.Equal(t, 2, e1.UsageCount)

	e2, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "World", e2.Source)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_MalformedLinesAreRecoverable(t *testing.T) {
	path := writeTM(t, `{"source":"One","target":"一"}
not json at all
{"source":"","target":"empty"}

{"source":"Two","target":"二"}`)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	var entries []ports.TMEntry
	var skipped int
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if ports.IsMalformed(err) {
			skipped++
			continue
		}
		require.NoError(t, err)
		entries = append(entries, e)
	}

	require.Len(t, entries, 2)
	assert.Equal(t, "One", entries[0].Source)
	assert.Equal(t, "Two", entries[1].Source)
	assert.Equal(t, 2, skipped)
}

func TestReader_NoTrailingNewline(t *testing.T) {
	path := writeTM(t, `{"source":"Last","target":"最后"}`)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	e, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Last", e.Source)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_EmptyFile(t *testing.T) {
	r, err := Open(writeTM(t, ""))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpen_MissingFileIsSourceIOError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.jsonl"))
	var ioErr *ports.SourceIOError
	assert.ErrorAs(t, err, &ioErr)
}
