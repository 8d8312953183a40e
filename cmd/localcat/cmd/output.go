package cmd

import (
	"fmt"

	"github.com/corey/localcat/internal/domain/glossary"
	"github.com/corey/localcat/internal/ports"
)

// printSuggestions renders one query result for a terminal: the segment
// with term markup, then the term table, then TM matches by similarity.
func printSuggestions(text string, sug ports.Suggestions) {
	if len(sug.Terms) > 0 {
		fmt.Println(glossary.Highlight(text, sug.Terms))
		for _, hit := range sug.Terms {
			fmt.Printf("  term  %-20s → %s", hit.Source, hit.Target)
			if hit.Definition != "" {
				fmt.Printf("  (%s)", hit.Definition)
			}
			fmt.Println()
		}
	} else {
		fmt.Println(text)
	}

	if len(sug.TMMatches) == 0 {
		fmt.Println("  no TM matches")
		return
	}
	for _, m := range sug.TMMatches {
		label := "fuzzy"
		if m.MatchType == ports.MatchExact {
			label = "exact"
		}
		fmt.Printf("  %s %3.0f%%  %s → %s  [%s]\n", label, m.Similarity*100, m.Source, m.Target, m.TM)
	}
}
