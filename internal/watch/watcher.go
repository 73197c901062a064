// Package watch regenerates the vault when the relation store changes on
// disk.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/vaultgen/internal/apperr"
	"github.com/starford/vaultgen/internal/checksum"
	"github.com/starford/vaultgen/internal/generator"
)

// DefaultDebounce is how long the database must stay quiet before a run.
const DefaultDebounce = 200 * time.Millisecond

// Runner performs a generation.
type Runner interface {
	Run(ctx context.Context, t generator.Targets) (*generator.Report, error)
}

// EventCallback is called after every watcher-driven run, with the report of
// a successful run or the error of a failed one.
type EventCallback func(rep *generator.Report, err error)

// Options configures Watch.
type Options struct {
	DBPath   string
	Targets  generator.Targets
	Debounce time.Duration
	// Initial runs a generation before the first change is seen.
	Initial bool
}

// Watch starts an fsnotify watcher on the directory holding the database and
// regenerates after writes to the database (or its journal) have settled.
// Runs are skipped when the database content is unchanged since the last
// successful run. It returns when ctx is cancelled.
func Watch(ctx context.Context, r Runner, opts Options, logger *slog.Logger, cb EventCallback) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	dbPath, err := filepath.Abs(opts.DBPath)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(dbPath)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("db", dbPath))

	var lastSum string
	regenerate := func() (retry bool) {
		sum, err := fingerprint(dbPath)
		if err != nil {
			logger.Warn("watcher: checksum failed", slog.String("error", err.Error()))
			return false
		}
		if sum == lastSum {
			logger.Debug("watcher: database unchanged, skipping")
			return false
		}
		rep, err := r.Run(ctx, opts.Targets)
		if errors.Is(err, apperr.ErrGenerationRunning) {
			logger.Debug("watcher: run in progress, rescheduling")
			return true
		}
		if err != nil {
			logger.Error("watcher: generation failed", slog.String("error", err.Error()))
		} else {
			lastSum = sum
			logger.Info("watcher: regenerated",
				slog.Int("entries", rep.Entries),
				slog.Int("failed", len(rep.Failed)),
				slog.Duration("duration", rep.Duration()))
		}
		if cb != nil {
			cb(rep, err)
		}
		return false
	}

	if opts.Initial {
		regenerate()
	}

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(opts.Debounce)
			debounceCh = debounce.C
		} else {
			debounce.Reset(opts.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			if regenerate() {
				schedule()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isDatabaseFile(dbPath, ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// isDatabaseFile matches the database and its SQLite side files
// (-wal, -shm, -journal).
func isDatabaseFile(dbPath, name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == dbPath || strings.HasPrefix(abs, dbPath+"-")
}

// fingerprint combines the checksums of the database and its write-ahead
// log, since committed rows may live only in the log until a checkpoint.
func fingerprint(dbPath string) (string, error) {
	main, err := checksum.File(dbPath)
	if err != nil {
		return "", err
	}
	wal, err := checksum.File(dbPath + "-wal")
	if errors.Is(err, os.ErrNotExist) {
		return main, nil
	}
	if err != nil {
		return "", err
	}
	return main + ":" + wal, nil
}
