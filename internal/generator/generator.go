// Package generator runs one vault generation: it snapshots the relation
// store, writes a document per entry and then the hierarchical index.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/starford/vaultgen/internal/apperr"
	"github.com/starford/vaultgen/internal/checksum"
	"github.com/starford/vaultgen/internal/entrydoc"
	"github.com/starford/vaultgen/internal/indexdoc"
	"github.com/starford/vaultgen/internal/relstore"
	"github.com/starford/vaultgen/internal/storage"
)

// Loader takes the snapshot a run works on.
type Loader func(ctx context.Context) (*relstore.Snapshot, error)

// DatabaseLoader loads snapshots from the SQLite file at dbPath.
func DatabaseLoader(dbPath string) Loader {
	return func(ctx context.Context) (*relstore.Snapshot, error) {
		return relstore.Load(ctx, dbPath)
	}
}

// Targets selects which documents a run writes.
type Targets struct {
	Entries bool
	Index   bool
}

// All writes entry documents and the index.
var All = Targets{Entries: true, Index: true}

// SelectTargets maps the commands-only and index-only switches to Targets.
// Setting both is rejected with apperr.ErrConflictingTarget.
func SelectTargets(commandsOnly, indexOnly bool) (Targets, error) {
	switch {
	case commandsOnly && indexOnly:
		return Targets{}, apperr.ErrConflictingTarget
	case commandsOnly:
		return Targets{Entries: true}, nil
	case indexOnly:
		return Targets{Index: true}, nil
	}
	return All, nil
}

// Options configures a Generator. Paths are relative to the vault root.
type Options struct {
	CommandsDir string
	IndexFile   string
	Index       indexdoc.Options
}

// Report summarizes a run.
type Report struct {
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Entries       int       `json:"entries"`
	Written       int       `json:"written"`
	Removed       int       `json:"removed"`
	Failed        []string  `json:"failed,omitempty"`
	Malformed     int       `json:"malformed_fields"`
	Sections      []string  `json:"sections,omitempty"`
	Orphans       []string  `json:"orphans,omitempty"`
	IndexPath     string    `json:"index_path,omitempty"`
	IndexChecksum string    `json:"index_checksum,omitempty"`
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// OK reports whether every document was written.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// Generator writes vault documents. Runs are serialized; a run requested
// while another is in progress fails with apperr.ErrGenerationRunning.
type Generator struct {
	mu       sync.Mutex
	load     Loader
	store    storage.Provider
	composer *indexdoc.Composer
	opts     Options
	clock    indexdoc.Clock
	logger   *slog.Logger
}

// New creates a Generator.
func New(load Loader, store storage.Provider, opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Index.Clock
	if clock == nil {
		clock = time.Now
	}
	opts.Index.Clock = clock
	return &Generator{
		load:     load,
		store:    store,
		composer: indexdoc.New(opts.Index),
		opts:     opts,
		clock:    clock,
		logger:   logger,
	}
}

// Composer returns the index composer used by runs.
func (g *Generator) Composer() *indexdoc.Composer {
	return g.composer
}

// Run performs one generation. Failures to write single entry documents are
// logged and listed in the report; failures to load the store or to write the
// index end the run with an error.
func (g *Generator) Run(ctx context.Context, t Targets) (*Report, error) {
	if !g.mu.TryLock() {
		return nil, apperr.ErrGenerationRunning
	}
	defer g.mu.Unlock()

	rep := &Report{StartedAt: g.clock()}

	snap, err := g.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: load snapshot: %w", err)
	}
	rep.Entries = snap.Len()

	bad := snap.Malformed()
	rep.Malformed = len(bad)
	for _, f := range bad {
		g.logger.Debug("generator: relation field degraded to empty",
			slog.String("entry", f.ID), slog.String("field", f.Field))
	}
	if len(bad) > 0 {
		g.logger.Warn("generator: malformed relation fields", slog.Int("count", len(bad)))
	}

	if t.Entries {
		if err := g.writeEntries(ctx, snap, rep); err != nil {
			return nil, err
		}
	}

	if t.Index {
		if err := g.writeIndex(ctx, snap, rep); err != nil {
			return nil, err
		}
	}

	rep.FinishedAt = g.clock()
	return rep, nil
}

func (g *Generator) writeEntries(ctx context.Context, snap *relstore.Snapshot, rep *Report) error {
	removed, err := g.store.Clear(g.opts.CommandsDir)
	rep.Removed = len(removed)
	if err != nil {
		g.logger.Warn("generator: clear failed", slog.String("dir", g.opts.CommandsDir), slog.String("error", err.Error()))
	}
	g.logger.Debug("generator: cleared entries", slog.Int("removed", len(removed)))

	owners := make(map[string]string, snap.Len())
	for _, e := range snap.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entrydoc.Filename(e.ID)
		if prev, clash := owners[name]; clash {
			g.logger.Warn("generator: file name collision",
				slog.String("file", name), slog.String("entry", e.ID), slog.String("overwrites", prev))
		}
		owners[name] = e.ID

		data, err := entrydoc.Render(e)
		if err == nil {
			err = g.store.Write(path.Join(g.opts.CommandsDir, name), data)
		}
		if err != nil {
			rep.Failed = append(rep.Failed, e.ID)
			g.logger.Warn("generator: entry failed", slog.String("entry", e.ID), slog.String("error", err.Error()))
			continue
		}
		rep.Written++
	}

	g.logger.Info("generator: entries written",
		slog.Int("written", rep.Written), slog.Int("failed", len(rep.Failed)))
	return nil
}

func (g *Generator) writeIndex(ctx context.Context, snap *relstore.Snapshot, rep *Report) error {
	doc, err := g.composer.Compose(ctx, snap)
	if err != nil {
		return fmt.Errorf("generator: compose index: %w", err)
	}
	if err := g.store.Write(g.opts.IndexFile, doc.Content); err != nil {
		return fmt.Errorf("generator: write index: %w", err)
	}

	rep.Sections = doc.Sections
	rep.Orphans = doc.Orphans
	rep.IndexPath = g.opts.IndexFile
	rep.IndexChecksum = checksum.Sum(doc.Content)

	g.logger.Info("generator: index written",
		slog.String("path", g.opts.IndexFile),
		slog.Int("sections", len(doc.Sections)),
		slog.Int("orphans", len(doc.Orphans)))
	return nil
}
