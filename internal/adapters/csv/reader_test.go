package csv

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/localcat/internal/ports"
)

func writeGlossary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terms.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func drain(t *testing.T, r *Reader) ([]ports.GlossaryEntry, int) {
	t.Helper()
	var entries []ports.GlossaryEntry
	var skipped int
	for {
		e, err := r.Next()
		if err == io.EOF {
			return entries, skipped
		}
		if ports.IsMalformed(err) {
			skipped++
			continue
		}
		require.NoError(t, err)
		entries = append(entries, e)
	}
}

func TestReader_TwoColumnRows(t *testing.T) {
	r, err := Open(writeGlossary(t, "CPU,处理器\nGPU,显卡\n"))
	require.NoError(t, err)
	defer r.Close()

	entries, skipped := drain(t, r)
	require.Len(t, entries, 2)
	assert.Zero(t, skipped)
	assert.Equal(t, "CPU", entries[0].Source)
	assert.Equal(t, "处理器", entries[0].Target)
	assert.Equal(t, "terms.csv", entries[0].Glossary)
	assert.Equal(t, 1, entries[0].Priority)
}

func TestReader_DefinitionAndPriorityColumns(t *testing.T) {
	r, err := Open(writeGlossary(t, "CPU core,处理器核心,one physical core,3\n"))
	require.NoError(t, err)
	defer r.Close()

	entries, _ := drain(t, r)
	require.Len(t, entries, 1)
	assert.Equal(t, "one physical core", entries[0].Definition)
	assert.Equal(t, 3, entries[0].Priority)
}

func TestReader_HeaderAndBOM(t *testing.T) {
	r, err := Open(writeGlossary(t, "\xEF\xBB\xBFsource,target\nHello,你好\n"))
	require.NoError(t, err)
	defer r.Close()

	entries, skipped := drain(t, r)
	require.Len(t, entries, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, "Hello", entries[0].Source)
}

func TestReader_MalformedRowsAreRecoverable(t *testing.T) {
	r, err := Open(writeGlossary(t, "good,好\nonly-one-column\n,empty-source\nterm,译,def,notanumber\nlast,最后\n"))
	require.NoError(t, err)
	defer r.Close()

	entries, skipped := drain(t, r)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, "good", entries[0].Source)
	assert.Equal(t, "last", entries[1].Source)
}

func TestReader_EmptyFile(t *testing.T) {
	r, err := Open(writeGlossary(t, ""))
	require.NoError(t, err)
	defer r.Close()

	entries, skipped := drain(t, r)
	assert.Empty(t, entries)
	assert.Zero(t, skipped)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.csv"))
	var ioErr *ports.SourceIOError
	assert.ErrorAs(t, err, &ioErr)
}
