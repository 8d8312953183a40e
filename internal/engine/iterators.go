package engine

import (
	"context"
	"io"

	"github.com/corey/localcat/internal/adapters/csv"
	"github.com/corey/localcat/internal/config"
	"github.com/corey/localcat/internal/ports"
)

// glossarySources chains several glossary files into one pull iterator.
// Files open lazily in configured order, so only one is held open at a
// time and a missing file surfaces exactly when its turn comes.
type glossarySources struct {
	ctx     context.Context
	baseDir string
	paths   []string

	idx int
	cur ports.GlossaryIterator
}

func (g *glossarySources) Next() (ports.GlossaryEntry, error) {
	for {
		if err := g.ctx.Err(); err != nil {
			return ports.GlossaryEntry{}, err
		}
		if g.cur == nil {
			if g.idx >= len(g.paths) {
				return ports.GlossaryEntry{}, io.EOF
			}
			r, err := csv.Open(config.Resolve(g.baseDir, g.paths[g.idx]))
			if err != nil {
				return ports.GlossaryEntry{}, err
			}
			g.idx++
			g.cur = r
		}
		entry, err := g.cur.Next()
		if err == io.EOF {
			g.cur.Close()
			g.cur = nil
			continue
		}
		return entry, err
	}
}

func (g *glossarySources) Close() error {
	if g.cur != nil {
		err := g.cur.Close()
		g.cur = nil
		return err
	}
	return nil
}
