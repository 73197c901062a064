// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vaultgen/internal/api"
	"github.com/starford/vaultgen/internal/apperr"
	"github.com/starford/vaultgen/internal/generator"
	"github.com/starford/vaultgen/internal/indexdoc"
	"github.com/starford/vaultgen/internal/mcpserver"
	"github.com/starford/vaultgen/internal/relstore"
	"github.com/starford/vaultgen/internal/sitefiles"
	"github.com/starford/vaultgen/internal/sse"
	"github.com/starford/vaultgen/internal/storage"
	"github.com/starford/vaultgen/internal/vaultservice"
	"github.com/starford/vaultgen/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{mode: ModeGenerate}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	out := app.logOutput
	if out == nil {
		out = os.Stdout
		if app.mode == ModeMCP {
			out = os.Stderr
		}
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("mode", app.mode),
		slog.String("database_path", cfg.Database.Path),
		slog.String("output_dir", cfg.Output.BaseDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if app.mode == ModeImport {
		return runImport(ctx, cfg, app.importFile, logger)
	}

	// Ensure output directory exists.
	if err := os.MkdirAll(cfg.Output.BaseDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Output.BaseDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	if app.mode == ModePublish {
		return runPublish(cfg, store, logger)
	}

	load := generator.DatabaseLoader(cfg.Database.Path)
	gen := generator.New(load, store, generator.Options{
		CommandsDir: filepath.ToSlash(cfg.Output.CommandsSubdir),
		IndexFile:   filepath.ToSlash(cfg.Output.IndexFilename),
		Index: indexdoc.Options{
			Title:      cfg.Hierarchy.Title,
			Root:       cfg.Hierarchy.Root,
			Depth:      cfg.Hierarchy.CalloutDepth,
			SourceName: filepath.Base(cfg.Database.Path),
			Clock:      app.clock,
		},
	}, logger)

	switch app.mode {
	case ModeGenerate:
		targets, err := generator.SelectTargets(app.commandsOnly, app.indexOnly)
		if err != nil {
			return err
		}
		return runGenerate(ctx, gen, targets, logger)
	case ModeWatch:
		return runWatch(ctx, cfg, gen, logger)
	case ModeServe, ModeMCP:
		svc := vaultservice.NewService(load, store, gen, vaultservice.Options{
			Root:        cfg.Hierarchy.Root,
			Depth:       cfg.Hierarchy.CalloutDepth,
			CommandsDir: filepath.ToSlash(cfg.Output.CommandsSubdir),
		})
		if app.mode == ModeMCP {
			logger.Info("MCP server starting on stdio")
			return mcpserver.New(svc, nil).ServeStdio()
		}
		return runServe(ctx, cfg, gen, svc, logger)
	}
	return fmt.Errorf("unknown mode %q", app.mode)
}

func runGenerate(ctx context.Context, gen *generator.Generator, targets generator.Targets, logger *slog.Logger) error {
	started := time.Now()
	logger.Info("Vault generation started",
		slog.Bool("entries", targets.Entries),
		slog.Bool("index", targets.Index))

	rep, err := gen.Run(ctx, targets)
	finished := time.Now()

	summary := []any{
		slog.String("started_at", started.Format(indexdoc.TimeLayout)),
		slog.String("finished_at", finished.Format(indexdoc.TimeLayout)),
		slog.Duration("duration", finished.Sub(started)),
	}
	if err != nil {
		logger.Error("Vault generation failed", append(summary, slog.String("error", err.Error()))...)
		return err
	}
	summary = append(summary,
		slog.Int("entries", rep.Entries),
		slog.Int("written", rep.Written),
		slog.Int("failed", len(rep.Failed)),
		slog.Int("orphans", len(rep.Orphans)),
		slog.Bool("success", rep.OK()))
	if !rep.OK() {
		logger.Error("Vault generation finished with failures", summary...)
		return fmt.Errorf("%w: %v", apperr.ErrGenerationIncomplete, rep.Failed)
	}
	logger.Info("Vault generation complete", summary...)
	return nil
}

func runPublish(cfg *Config, store storage.Provider, logger *slog.Logger) error {
	p := &sitefiles.Publisher{
		SourceDir: cfg.Assets.Dir,
		TargetDir: filepath.ToSlash(cfg.Output.SiteFilesSubdir),
		Files:     cfg.Assets.Files,
		Store:     store,
		Logger:    logger,
	}
	written, err := p.Publish()
	if err != nil {
		return err
	}
	logger.Info("Site files published",
		slog.String("location", cfg.Output.SiteFilesDir()),
		slog.Int("files", len(written)))
	return nil
}

func runImport(ctx context.Context, cfg *Config, path string, logger *slog.Logger) error {
	if path == "" {
		return fmt.Errorf("import: file is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	db, err := relstore.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Import(ctx, f)
	if err != nil {
		return err
	}
	logger.Info("Entries imported", slog.String("file", path), slog.Int("entries", n))
	return nil
}

func runWatch(ctx context.Context, cfg *Config, gen *generator.Generator, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watch.Watch(ctx, gen, watch.Options{
		DBPath:  cfg.Database.Path,
		Targets: generator.All,
		Initial: true,
	}, logger, nil)
}

// notifier adapts generation outcomes to SSE events.
func notifier(broker *sse.Broker) func(trigger string, rep *generator.Report, err error) {
	return func(trigger string, rep *generator.Report, err error) {
		g := sse.Generation{Trigger: trigger}
		if err != nil {
			g.Error = err.Error()
		} else if rep != nil {
			g.Entries = rep.Entries
			g.Written = rep.Written
			g.Failed = rep.Failed
			g.Orphans = len(rep.Orphans)
			g.Checksum = rep.IndexChecksum
		}
		broker.PublishGeneration(g)
	}
}

func runServe(ctx context.Context, cfg *Config, gen *generator.Generator, svc *vaultservice.Service, logger *slog.Logger) error {
	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	notify := notifier(broker)

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, notify)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := os.Stat(cfg.Database.Path); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"database unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Regenerate on database changes and tell SSE clients.
	g.Go(func() error {
		return watch.Watch(gCtx, gen, watch.Options{
			DBPath:  cfg.Database.Path,
			Targets: generator.All,
			Initial: true,
		}, logger, func(rep *generator.Report, err error) {
			notify("watch", rep, err)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
