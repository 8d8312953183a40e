package tm

import (
	"context"
	"sort"
	"strings"

	"github.com/corey/localcat/internal/ports"
)

// defaultMaxCandidates bounds how many TM entries one fuzzy query fully
// scores when the caller supplies no budget. The pre-filter orders
// candidates by shared-gram count, so the cap trims the least promising
// tail first.
const defaultMaxCandidates = 1024

// ctxCheckInterval is how many scored candidates pass between context
// cancellation checks.
const ctxCheckInterval = 64

// candidateIndex is the fuzzy pre-filter: a rune-trigram inverted index
// over normalized source keys plus per-entry lengths for band filtering.
// It exists so fuzzy lookup never degrades to scoring the whole corpus —
// candidate gathering is proportional to the query's postings, not to the
// TM size.
type candidateIndex struct {
	grams map[string][]int // trigram -> entry positions (append order)
	keys  []string         // entry position -> normalized source key
	lens  []int            // entry position -> rune length of key
}

func newCandidateIndex() *candidateIndex {
	return &candidateIndex{grams: make(map[string][]int)}
}

// add indexes one entry's normalized key. Caller holds the store write lock.
func (c *candidateIndex) add(pos int, key string) {
	c.keys = append(c.keys, key)
	c.lens = append(c.lens, len([]rune(key)))
	for g := range trigramSet(key) {
		c.grams[g] = append(c.grams[g], pos)
	}
}

// trigramSet returns the set of rune trigrams of s. Strings shorter than
// three runes contribute themselves as a single gram so they stay findable.
func trigramSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	runes := []rune(s)
	if len(runes) < 3 {
		if len(runes) > 0 {
			set[s] = struct{}{}
		}
		return set
	}
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// LookupFuzzy scores candidate entries against the query and returns those
// at or above threshold as FUZZY matches, best first, ties most-recent
// first, truncated to topK. maxCandidates (0 = default) bounds how many
// candidates are fully scored; on context cancellation or budget exhaustion
// the best results found so far are returned, never an error — good enough
// fast beats exact but slow for interactive use.
func (s *Store) LookupFuzzy(ctx context.Context, text string, threshold float64, topK, maxCandidates int) []ports.TMMatch {
	if topK <= 0 {
		return nil
	}
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}

	key := s.norm.Normalize(text)
	if key == "" {
		return nil
	}
	qGrams := trigramSet(key)
	qLen := len([]rune(key))
	qTokens := tokenSet(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Gather candidates: entries sharing at least one trigram with the
	// query, within a 2:1 length band. Ranked by shared-gram count so the
	// budget trims the least similar first.
	shared := make(map[int]int)
	for g := range qGrams {
		for _, pos := range s.candidates.grams[g] {
			shared[pos]++
		}
	}
	cands := make([]int, 0, len(shared))
	for pos := range shared {
		if !withinLengthBand(qLen, s.candidates.lens[pos]) {
			continue
		}
		cands = append(cands, pos)
	}
	sort.Slice(cands, func(i, j int) bool {
		if shared[cands[i]] != shared[cands[j]] {
			return shared[cands[i]] > shared[cands[j]]
		}
		return cands[i] > cands[j] // recency
	})
	if len(cands) > maxCandidates {
		cands = cands[:maxCandidates]
	}

	type scored struct {
		pos   int
		score float64
	}
	var results []scored
	for i, pos := range cands {
		if i%ctxCheckInterval == ctxCheckInterval-1 && ctx.Err() != nil {
			break
		}
		sc := similarity(key, qTokens, s.candidates.keys[pos], qLen, s.candidates.lens[pos])
		if sc >= threshold {
			results = append(results, scored{pos, sc})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].pos > results[j].pos // most recent on score tie
	})
	if len(results) > topK {
		results = results[:topK]
	}

	matches := make([]ports.TMMatch, 0, len(results))
	for _, r := range results {
		e := s.entries[r.pos]
		matches = append(matches, ports.TMMatch{
			Source:     e.Source,
			Target:     e.Target,
			Similarity: r.score,
			MatchType:  ports.MatchFuzzy,
			TM:         e.TM,
			UsageCount: e.UsageCount,
			LastUsed:   e.LastUsed,
		})
	}
	return matches
}

// withinLengthBand reports whether two lengths are within a 2:1 ratio.
// Anything outside the band cannot reach useful similarity, so scoring it
// would only burn the candidate budget.
func withinLengthBand(a, b int) bool {
	if a == 0 || b == 0 {
		return false
	}
	if a > b {
		a, b = b, a
	}
	return b <= 2*a
}

// similarity blends token overlap and edit distance into one score in
// [0,1]: the mean of the Dice coefficient over word tokens and normalized
// Levenshtein similarity over runes. The blend keeps word-reorderings from
// scoring near zero (Dice is order-free) while still separating entries
// that share vocabulary but differ in structure (edit distance is not).
func similarity(aKey string, aTokens map[string]struct{}, bKey string, aLen, bLen int) float64 {
	bTokens := tokenSet(bKey)
	dice := diceCoefficient(aTokens, bTokens)
	lev := levenshteinSimilarity(aKey, bKey, aLen, bLen)
	return (dice + lev) / 2
}

// tokenSet splits a normalized string into its word-token set.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

// diceCoefficient is 2|A∩B| / (|A|+|B|) over token sets.
func diceCoefficient(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	overlap := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			overlap++
		}
	}
	return 2 * float64(overlap) / float64(len(a)+len(b))
}

// levenshteinSimilarity is 1 - dist/maxLen over runes, using the two-row
// dynamic program.
func levenshteinSimilarity(a, b string, aLen, bLen int) float64 {
	if a == b {
		return 1
	}
	maxLen := aLen
	if bLen > maxLen {
		maxLen = bLen
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein([]rune(a), []rune(b)))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
