package glossary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/localcat/internal/ports"
)

func unit(text string) ports.SourceUnit {
	return ports.SourceUnit{ID: "u1", Text: text}
}

func TestExtract_LongestWinsOverContainedTerm(t *testing.T) {
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "CPU", Target: "处理器", Glossary: "hw", Priority: 1},
		{Source: "CPU core", Target: "处理器核心", Glossary: "hw", Priority: 2},
	}, true)
	m := NewMatcher(idx, 0)

	hits := m.Extract(unit("the CPU core is hot"))
	require.Len(t, hits, 1)
	assert.Equal(t, "CPU core", hits[0].Source)
	assert.Equal(t, "处理器核心", hits[0].Target)
	assert.Equal(t, 4, hits[0].Start)
	assert.Equal(t, 12, hits[0].End)
}

func TestExtract_PriorityBreaksLengthTies(t *testing.T) {
	// "abcd" and "bcde" overlap in "abcde" with equal span length; the
	// higher-priority term survives.
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "abcd", Target: "t1", Glossary: "g", Priority: 1},
		{Source: "bcde", Target: "t2", Glossary: "g", Priority: 5},
	}, true)
	m := NewMatcher(idx, 0)

	hits := m.Extract(unit("abcde"))
	require.Len(t, hits, 1)
	assert.Equal(t, "bcde", hits[0].Source)
}

func TestExtract_StartBreaksFullTies(t *testing.T) {
	// Same length, same priority: the earlier hit wins its cluster.
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "abcd", Target: "t1", Glossary: "g", Priority: 1},
		{Source: "bcde", Target: "t2", Glossary: "g", Priority: 1},
	}, true)
	m := NewMatcher(idx, 0)

	hits := m.Extract(unit("abcde"))
	require.Len(t, hits, 1)
	assert.Equal(t, "abcd", hits[0].Source)
}

func TestExtract_DisjointHitsSortedByStart(t *testing.T) {
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "cat", Target: "猫", Glossary: "g"},
		{Source: "dog", Target: "狗", Glossary: "g"},
	}, true)
	m := NewMatcher(idx, 0)

	hits := m.Extract(unit("I have a cat and a dog."))
	require.Len(t, hits, 2)
	assert.Equal(t, "cat", hits[0].Source)
	assert.Equal(t, "dog", hits[1].Source)
	assert.Less(t, hits[0].Start, hits[1].Start)
}

func TestExtract_MaxHitsKeepsHighestPriority(t *testing.T) {
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "alpha", Target: "a", Glossary: "g", Priority: 1},
		{Source: "beta", Target: "b", Glossary: "g", Priority: 9},
		{Source: "gamma", Target: "c", Glossary: "g", Priority: 5},
	}, true)
	m := NewMatcher(idx, 2)

	hits := m.Extract(unit("alpha beta gamma"))
	require.Len(t, hits, 2)
	// beta (prio 9) and gamma (prio 5) survive; output stays start-ordered.
	assert.Equal(t, "beta", hits[0].Source)
	assert.Equal(t, "gamma", hits[1].Source)
}

func TestExtract_Deterministic(t *testing.T) {
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "Apple", Target: "苹果", Glossary: "g", Priority: 1},
		{Source: "Apple Pie", Target: "苹果派", Glossary: "g", Priority: 1},
		{Source: "Pie", Target: "派", Glossary: "g", Priority: 2},
	}, true)
	m := NewMatcher(idx, 0)

	first := m.Extract(unit("Apple Pie and Apple"))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.Extract(unit("Apple Pie and Apple")))
	}
}

func TestExtract_NilIndex(t *testing.T) {
	m := NewMatcher(nil, 0)
	assert.Nil(t, m.Extract(unit("anything")))
}

func TestHighlight_Scenarios(t *testing.T) {
	idx := buildIndex(t, []ports.GlossaryEntry{
		{Source: "Hello", Target: "你好", Glossary: "g"},
		{Source: "Apple", Target: "苹果", Glossary: "g"},
		{Source: "Apple Pie", Target: "苹果派", Glossary: "g"},
		{Source: "cat", Target: "猫", Glossary: "g"},
		{Source: "dog", Target: "狗", Glossary: "g"},
	}, true)
	m := NewMatcher(idx, 0)

	cases := []struct {
		text string
		want string
	}{
		{"Hello World", "[Hello|你好] World"},
		{"Apple Pie", "[Apple Pie|苹果派]"},
		{"I have a cat and a dog.", "I have a [cat|猫] and a [dog|狗]."},
		{"no terms here", "no terms here"},
	}
	for _, tc := range cases {
		got := Highlight(tc.text, m.Extract(unit(tc.text)))
		assert.Equal(t, tc.want, got, "text=%q", tc.text)
	}
}
