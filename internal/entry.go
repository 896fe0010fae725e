// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/exampledeck/internal/api"
	"github.com/starford/exampledeck/internal/build"
	"github.com/starford/exampledeck/internal/catalog"
	"github.com/starford/exampledeck/internal/console"
	"github.com/starford/exampledeck/internal/index"
	"github.com/starford/exampledeck/internal/mcpserver"
	"github.com/starford/exampledeck/internal/sse"
	"github.com/starford/exampledeck/internal/storage"
	"github.com/starford/exampledeck/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		mode:   ModeBuild,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Logs go to stderr so stdout stays free for the summary and MCP stdio.
	logger := newLogger(cfg.App, app.stderr)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("mode", string(app.mode)),
		slog.String("source_dir", cfg.Source.Dir),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Bool("index", cfg.Index.Enabled),
		slog.String("index_path", cfg.IndexPath()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	switch app.mode {
	case ModeBuild:
		rt.summary = app.stdout
		_, err := rt.rebuild(ctx)
		return err
	case ModeWatch:
		rt.summary = app.stdout
		return rt.watch(ctx)
	case ModeServe:
		rt.summary = app.stdout
		return rt.serve(ctx)
	case ModeMCP:
		return rt.serveMCP(ctx)
	default:
		return fmt.Errorf("unknown mode %q", app.mode)
	}
}

// runtime holds everything wired from the configuration.
type runtime struct {
	cfg     *Config
	logger  *slog.Logger
	source  *storage.Dir
	output  *storage.Dir
	builder *build.Builder
	db      *index.DB
	catalog *catalog.Service

	// Optional sinks for rebuild results.
	summary io.Writer
	broker  *sse.Broker

	mu   sync.Mutex
	last *build.Report
}

func newRuntime(cfg *Config, logger *slog.Logger) (*runtime, error) {
	match, err := storage.NewMatcher(cfg.Source.Include, cfg.Source.Exclude)
	if err != nil {
		return nil, fmt.Errorf("init matcher: %w", err)
	}
	source, err := storage.NewDir(cfg.Source.Dir, match)
	if err != nil {
		return nil, fmt.Errorf("init source: %w", err)
	}

	// Ensure output directory exists.
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	output, err := storage.NewDir(cfg.Output.Dir, nil)
	if err != nil {
		return nil, fmt.Errorf("init output: %w", err)
	}

	builder := build.New(source, output,
		build.WithLogger(logger),
		build.WithWorkers(cfg.Build.Workers),
		build.WithLayout(cfg.Output.ExamplesDir, cfg.Output.Manifest),
		build.WithVersion(cfg.Output.Version),
	)

	rt := &runtime{
		cfg:     cfg,
		logger:  logger,
		source:  source,
		output:  output,
		builder: builder,
	}

	var idx index.ExampleIndex
	if cfg.Index.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.IndexPath()), 0o755); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
		db, err := index.Open(cfg.IndexPath())
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		rt.db = db
		idx = db
	}
	rt.catalog = catalog.NewService(output, builder.ManifestName(), idx)

	return rt, nil
}

func (rt *runtime) close() {
	if rt.broker != nil {
		rt.broker.Close()
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			rt.logger.Warn("index close failed", slog.String("error", err.Error()))
		}
	}
}

// rebuild runs one build and fans the result out to the index, the console
// summary and SSE subscribers. Calls are serialized.
func (rt *runtime) rebuild(ctx context.Context) (*build.Report, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	report, err := rt.builder.Build(ctx)
	if err != nil {
		if rt.broker != nil {
			rt.broker.Publish(sse.Event{Type: sse.EventBuildFailed, Data: map[string]string{"error": err.Error()}})
		}
		return nil, err
	}

	if rt.db != nil {
		rows := index.RowsFor(report.Records, report.Manifest, time.Now())
		if err := rt.db.Replace(rows); err != nil {
			rt.logger.Warn("index update failed", slog.String("error", err.Error()))
		} else {
			rt.logger.Debug("index updated", slog.Int("rows", len(rows)))
		}
	}

	if rt.summary != nil {
		console.Summary(rt.summary, report)
	}

	changes := build.Diff(rt.last, report)
	rt.last = report
	if rt.broker != nil {
		rt.broker.PublishChanges(changes, report.Manifest.Count)
	}
	return report, nil
}

// initialBuild builds once before a long-running mode starts. Failure is
// logged rather than returned so the author can fix sources and let the
// watcher retry.
func (rt *runtime) initialBuild(ctx context.Context) {
	if _, err := rt.rebuild(ctx); err != nil {
		rt.logger.Error("initial build failed", slog.String("error", err.Error()))
	}
}

func (rt *runtime) newWatcher() *watch.Watcher {
	w := watch.New(rt.source, rt.cfg.Watch.Debounce, rt.logger)
	if err := w.Prime(); err != nil {
		rt.logger.Warn("watcher: prime failed", slog.String("error", err.Error()))
	}
	return w
}

func (rt *runtime) rebuildFunc(ctx context.Context) error {
	_, err := rt.rebuild(ctx)
	return err
}

func (rt *runtime) watch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := rt.newWatcher()
	rt.initialBuild(ctx)
	return w.Run(ctx, rt.rebuildFunc)
}

func (rt *runtime) serveMCP(ctx context.Context) error {
	rt.initialBuild(ctx)
	srv := mcpserver.New(rt.catalog, nil)
	rt.logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}

// router builds the preview server's HTTP handler.
func (rt *runtime) router() http.Handler {
	var sseHandler http.Handler
	if rt.broker != nil {
		sseHandler = rt.broker
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", api.NewHandler(rt.catalog).Ready)

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(rt.catalog, sseHandler))

	// Built artifacts as static files.
	r.Handle("/*", rt.staticHandler())

	return r
}

// staticHandler serves the output directory. Dot files and an index database
// configured inside the output directory are never served.
func (rt *runtime) staticHandler() http.Handler {
	files := http.FileServer(http.Dir(rt.output.Root()))

	var hidden string
	if dbPath, err := filepath.Abs(rt.cfg.IndexPath()); err == nil {
		rel, err := filepath.Rel(rt.output.Root(), dbPath)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			// Prefix match also covers the -wal and -shm side files.
			hidden = "/" + filepath.ToSlash(rel)
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if strings.Contains(p, "/.") || (hidden != "" && strings.HasPrefix(p, hidden)) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (rt *runtime) serve(ctx context.Context) error {
	cfg := rt.cfg
	logger := rt.logger

	// SSE broker.
	rt.broker = sse.NewBroker(2 * time.Second)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: rt.router(),
	}

	w := rt.newWatcher()
	rt.initialBuild(ctx)

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Rebuild on source changes; subscribers hear about each rebuild.
	g.Go(func() error {
		return w.Run(gCtx, rt.rebuildFunc)
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown stops the remaining serve goroutines once the HTTP server is
// down. It is not reported to the caller.
var errShutdown = errors.New("shutdown")
