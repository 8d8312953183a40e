package glossary

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/localcat/internal/adapters/ahocorasick"
	"github.com/corey/localcat/internal/ports"
)

// sliceIter is a minimal in-memory GlossaryIterator for tests.
type sliceIter struct {
	entries []ports.GlossaryEntry
	pos     int
}

func (s *sliceIter) Next() (ports.GlossaryEntry, error) {
	if s.pos >= len(s.entries) {
		return ports.GlossaryEntry{}, io.EOF
	}
	e := s.entries[s.pos]
	s.pos++
	return e, nil
}

func (s *sliceIter) Close() error { return nil }

func scannerFactory(patterns []string, caseInsensitive bool) ports.PatternScanner {
	return ahocorasick.NewScanner(patterns, caseInsensitive)
}

func buildIndex(t *testing.T, entries []ports.GlossaryEntry, caseSensitive bool) *Index {
	t.Helper()
	idx, _, err := Build(&sliceIter{entries: entries}, scannerFactory, caseSensitive)
	require.NoError(t, err)
	return idx
}

func TestBuild_EmptyGlossary(t *testing.T) {
	idx, stats, err := Build(&sliceIter{}, scannerFactory, true)
	assert.ErrorIs(t, err, ports.ErrEmptyGlossary)
	assert.Nil(t, idx)
	assert.Zero(t, stats.Loaded)
}

func TestBuild_SkipsEmptySourceTerms(t *testing.T) {
	idx, stats, err := Build(&sliceIter{entries: []ports.GlossaryEntry{
		{Source: "CPU", Target: "处理器", Glossary: "hw"},
		{Source: "", Target: "orphan", Glossary: "hw"},
		{Source: "GPU", Target: "显卡", Glossary: "hw"},
	}}, scannerFactory, true)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Loaded)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 2, idx.TermCount())
}

func TestSearch_ReportsAllOccurrences(t *testing.T) {
	// Completeness: every substring equal to an indexed term is reported,
	// overlaps included. Resolution is not the index's job.
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "Apple", Target: "苹果", Glossary: "fruit"},
		{Source: "Apple Pie", Target: "苹果派", Glossary: "fruit"},
	}, true)

	hits := idx.Search("Apple Pie")
	require.Len(t, hits, 2)

	sources := []string{hits[0].Source, hits[1].Source}
	assert.Contains(t, sources, "Apple")
	assert.Contains(t, sources, "Apple Pie")
	for _, h := range hits {
		assert.Less(t, h.Start, h.End)
		assert.Equal(t, h.Source, "Apple Pie"[h.Start:h.End])
	}
}

func TestSearch_Ordering(t *testing.T) {
	// Start ascending, longer span first on equal start.
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "CPU", Target: "处理器", Glossary: "hw", Priority: 1},
		{Source: "CPU core", Target: "处理器核心", Glossary: "hw", Priority: 2},
	}, true)

	hits := idx.Search("the CPU core is hot")
	require.Len(t, hits, 2)
	assert.Equal(t, "CPU core", hits[0].Source)
	assert.Equal(t, "CPU", hits[1].Source)
	assert.Equal(t, 4, hits[0].Start)
	assert.Equal(t, 12, hits[0].End)
}

func TestSearch_DuplicateTermsAcrossGlossaries(t *testing.T) {
	// The same source term owned by two glossaries yields two distinct hits
	// per occurrence, each with its own owner and priority.
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "cache", Target: "缓存", Glossary: "general", Priority: 1},
		{Source: "cache", Target: "快取", Glossary: "taiwan", Priority: 3},
	}, true)

	hits := idx.Search("clear the cache now")
	require.Len(t, hits, 2)
	assert.Equal(t, hits[0].Start, hits[1].Start)
	// Equal span: higher priority first.
	assert.Equal(t, "taiwan", hits[0].Glossary)
	assert.Equal(t, "general", hits[1].Glossary)
}

func TestSearch_CaseInsensitiveBuild(t *testing.T) {
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "firewall", Target: "防火墙", Glossary: "net"},
	}, false)

	hits := idx.Search("The Firewall blocks it")
	require.Len(t, hits, 1)
	// Source carries the matched text as it appears in the query.
	assert.Equal(t, "Firewall", hits[0].Source)
	assert.Equal(t, 4, hits[0].Start)
}

func TestSearch_NoMatch(t *testing.T) {
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "kernel", Target: "内核", Glossary: "os"},
	}, true)
	assert.Nil(t, idx.Search("nothing relevant here"))
	assert.Nil(t, idx.Search(""))
}
