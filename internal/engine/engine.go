// Package engine wires the matching components behind the ports.Engine
// contract: term extraction, TM exact/fuzzy lookup, and the append path.
//
// The engine is a library with no scheduler of its own. All read operations
// work against an immutable snapshot published through an atomic pointer;
// a reload builds the next snapshot off to the side and swaps it in with
// one store, so in-flight queries finish on the snapshot they started with
// and no reader ever observes a half-built index.
package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/corey/localcat/internal/adapters/ahocorasick"
	"github.com/corey/localcat/internal/adapters/bbolt"
	"github.com/corey/localcat/internal/adapters/jsonl"
	"github.com/corey/localcat/internal/config"
	"github.com/corey/localcat/internal/domain/glossary"
	"github.com/corey/localcat/internal/domain/tm"
	"github.com/corey/localcat/internal/ports"
)

// snapshot is one immutable published state: config, term matcher, TM
// store, and the durable log handle. Queries read it lock-free.
type snapshot struct {
	cfg       *ports.Config
	matcher   *glossary.Matcher // nil when the glossary had no usable terms
	store     *tm.Store
	storage   ports.TMStorage // nil when persistence is disabled
	storePath string          // resolved durable-store path, "" when disabled
	tmName    string          // TM name stamped onto appended entries
}

// Engine implements ports.Engine.
type Engine struct {
	log  *zap.Logger
	snap atomic.Pointer[snapshot]

	// mu serializes mutations: reload and append. Reads never take it.
	mu sync.Mutex
}

// New creates an engine with no loaded project context. Queries fail with
// ports.ErrNotLoaded until LoadProjectContext succeeds.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// LoadProjectContext ingests the corpora named by the project file at path
// and atomically publishes the resulting snapshot. Safe to call again for
// reload: readers keep the old snapshot until the swap.
func (e *Engine) LoadProjectContext(ctx context.Context, path string) (ports.LoadStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var stats ports.LoadStats

	cfg, baseDir, err := config.Load(path)
	if err != nil {
		return stats, err
	}

	matcher, glossStats, err := e.buildGlossary(ctx, cfg, baseDir)
	if err != nil {
		return stats, err
	}
	stats.Add(glossStats)

	// A reload keeps the open durable-store handle when the path has not
	// changed: bbolt holds an exclusive file lock, so opening a second
	// handle at the same path would time out against our own snapshot.
	storePath := ""
	if cfg.TMStorePath != "" {
		storePath = config.Resolve(baseDir, cfg.TMStorePath)
	}
	var reuse ports.TMStorage
	if prev := e.snap.Load(); prev != nil && prev.storage != nil && prev.storePath == storePath {
		reuse = prev.storage
	}

	store, storage, tmStats, err := e.buildTM(ctx, cfg, baseDir, storePath, reuse)
	if err != nil {
		return stats, err
	}
	stats.Add(tmStats)

	next := &snapshot{
		cfg:       cfg,
		matcher:   matcher,
		store:     store,
		storage:   storage,
		storePath: storePath,
		tmName:    tmName(cfg),
	}
	prev := e.snap.Swap(next)
	if prev != nil && prev.storage != nil && prev.storage != storage {
		// Old readers never touch storage; only the serialized mutation
		// path does, and we hold its lock.
		if err := prev.storage.Close(); err != nil {
			e.log.Warn("closing previous tm store", zap.Error(err))
		}
	}

	e.log.Info("project context loaded",
		zap.String("path", path),
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// buildGlossary ingests all glossary files into one immutable index. An
// empty glossary is policy, not failure: the matcher comes back nil and
// extraction yields no terms.
func (e *Engine) buildGlossary(ctx context.Context, cfg *ports.Config, baseDir string) (*glossary.Matcher, ports.LoadStats, error) {
	it := &glossarySources{ctx: ctx, baseDir: baseDir, paths: cfg.GlossaryFiles}
	defer it.Close()

	factory := func(patterns []string, caseInsensitive bool) ports.PatternScanner {
		return ahocorasick.NewScanner(patterns, caseInsensitive)
	}
	idx, stats, err := glossary.Build(it, factory, cfg.CaseSensitive)
	if err != nil {
		if errors.Is(err, ports.ErrEmptyGlossary) {
			e.log.Warn("glossary has no usable terms", zap.Int("skipped", stats.Skipped))
			return nil, stats, nil
		}
		return nil, stats, err
	}

	e.log.Info("glossary indexed",
		zap.Int("terms", idx.TermCount()),
		zap.Int("files", len(cfg.GlossaryFiles)),
		zap.Int("skipped", stats.Skipped),
	)
	return glossary.NewMatcher(idx, cfg.MaxTermHits), stats, nil
}

// buildTM loads TM corpora and replays the durable append log into a fresh
// in-memory store. A non-nil reuse is the previous snapshot's still-open
// handle for the same storePath; it is replayed, not reopened.
func (e *Engine) buildTM(ctx context.Context, cfg *ports.Config, baseDir, storePath string, reuse ports.TMStorage) (*tm.Store, ports.TMStorage, ports.LoadStats, error) {
	store := tm.NewStore(cfg.NormalizationMode)
	var stats ports.LoadStats

	for _, p := range cfg.TMFiles {
		if err := ctx.Err(); err != nil {
			return nil, nil, stats, err
		}
		r, err := jsonl.Open(config.Resolve(baseDir, p))
		if err != nil {
			return nil, nil, stats, err
		}
		fileStats, err := store.Load(r)
		r.Close()
		if err != nil {
			return nil, nil, stats, err
		}
		stats.Add(fileStats)
	}

	var storage ports.TMStorage
	if storePath != "" {
		s := reuse
		if s == nil {
			opened, err := bbolt.NewStore(storePath)
			if err != nil {
				return nil, nil, stats, err
			}
			s = opened
		}
		it := s.Entries()
		logStats, err := store.Load(it)
		it.Close()
		if err != nil {
			if reuse == nil {
				s.Close()
			}
			return nil, nil, stats, err
		}
		stats.Add(logStats)
		storage = s
	}

	e.log.Info("translation memory loaded",
		zap.Int("entries", store.Len()),
		zap.Int("skipped", stats.Skipped),
	)
	return store, storage, stats, nil
}

// GetSuggestions runs term extraction and TM lookup against the unit.
// Exact TM matches win; fuzzy runs only on an exact miss.
func (e *Engine) GetSuggestions(ctx context.Context, unit ports.SourceUnit) (ports.Suggestions, error) {
	snap := e.snap.Load()
	if snap == nil {
		return ports.Suggestions{}, ports.ErrNotLoaded
	}

	var sug ports.Suggestions
	if snap.matcher != nil {
		sug.Terms = snap.matcher.Extract(unit)
	}

	sug.TMMatches = snap.store.LookupExact(unit.Text)
	if len(sug.TMMatches) == 0 {
		sug.TMMatches = snap.store.LookupFuzzy(ctx, unit.Text,
			snap.cfg.FuzzyThreshold, snap.cfg.FuzzyTopK, snap.cfg.MaxCandidates)
	}
	return sug, nil
}

// AddToTM appends a new translation for the unit: durable log first, then
// the in-memory store, so a reported success is always recoverable. The
// append is visible to lookups once this returns.
func (e *Engine) AddToTM(unit ports.SourceUnit, translation string) error {
	if unit.Text == "" || translation == "" {
		return &ports.MalformedEntryError{Source: "add_to_tm", Reason: "empty source or translation"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The snapshot is read under the mutation lock: a reload that raced in
	// before us has already swapped, so the append lands in the live store
	// and storage handle, never an orphaned pair.
	snap := e.snap.Load()
	if snap == nil {
		return ports.ErrNotLoaded
	}

	entry := snap.store.NewEntry(unit.Text, translation, snap.tmName)
	if snap.storage != nil {
		if err := snap.storage.AppendEntry(entry); err != nil {
			return err
		}
	}
	snap.store.Insert(entry)
	return nil
}

// Stats reports the published snapshot's sizes: indexed glossary terms and
// TM entries. Zero values before the first load.
func (e *Engine) Stats() (terms, tmEntries int) {
	snap := e.snap.Load()
	if snap == nil {
		return 0, 0
	}
	if snap.matcher != nil {
		terms = snap.matcher.TermCount()
	}
	return terms, snap.store.Len()
}

// Close releases the durable store, if any.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if snap := e.snap.Load(); snap != nil && snap.storage != nil {
		return snap.storage.Close()
	}
	return nil
}

// tmName picks the TM name stamped onto appended entries.
func tmName(cfg *ports.Config) string {
	if cfg.TMStorePath != "" {
		return filepath.Base(cfg.TMStorePath)
	}
	return "session"
}

var _ ports.Engine = (*Engine)(nil)
