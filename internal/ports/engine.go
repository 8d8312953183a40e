package ports

import "context"

// Engine is the contract between the matching engine and any presentation or
// session layer. Implementations hold immutable snapshots only: all session,
// cursor, and undo state lives outside and arrives as parameters.
//
// Concurrency: GetSuggestions is safe to call from multiple goroutines.
// LoadProjectContext and AddToTM are internally serialized against each other;
// a reload publishes a new snapshot atomically, so in-flight queries keep
// using the snapshot they started with.
type Engine interface {
	// LoadProjectContext ingests the glossaries and TMs named by the project
	// file at path and publishes a fresh snapshot. A partial load (some
	// entries skipped) still succeeds; the stats carry the skip count.
	LoadProjectContext(ctx context.Context, path string) (LoadStats, error)

	// GetSuggestions runs term extraction and TM lookup (exact first, fuzzy
	// on exact miss) against the unit's text.
	GetSuggestions(ctx context.Context, unit SourceUnit) (Suggestions, error)

	// AddToTM appends a new translation for the unit to the TM. Append-only:
	// prior entries for the same source survive. Fails only when the storage
	// collaborator cannot make the entry durable.
	AddToTM(unit SourceUnit, translation string) error
}

// Config is the engine configuration recognized at load time.
type Config struct {
	CaseSensitive     bool    `mapstructure:"case_sensitive"`
	FuzzyThreshold    float64 `mapstructure:"fuzzy_threshold"`
	FuzzyTopK         int     `mapstructure:"fuzzy_top_k"`
	NormalizationMode string  `mapstructure:"normalization_mode"`

	// MaxTermHits bounds Extract output (0 = unbounded).
	MaxTermHits int `mapstructure:"max_term_hits"`
	// MaxCandidates bounds how many TM entries fuzzy lookup fully scores
	// per query (0 = implementation default).
	MaxCandidates int `mapstructure:"max_candidates"`

	// Corpus sources, relative to the project file's directory.
	GlossaryFiles []string `mapstructure:"glossary_files"`
	TMFiles       []string `mapstructure:"tm_files"`
	// TMStorePath is the durable append log (bbolt). Empty disables
	// persistence of AddToTM beyond the in-memory store.
	TMStorePath string `mapstructure:"tm_store_path"`
}

// Normalization modes. Whitespace collapsing always applies; each mode adds
// to the one before it.
const (
	NormWhitespace  = "whitespace"
	NormCase        = "whitespace+case"
	NormPunctuation = "whitespace+case+punctuation"
)
