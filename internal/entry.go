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
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/yada/internal/api"
	"github.com/starford/yada/internal/index"
	"github.com/starford/yada/internal/mcpserver"
	"github.com/starford/yada/internal/sse"
	"github.com/starford/yada/internal/storage"
	"github.com/starford/yada/internal/tracker"
)

// runtime is the state shared by the HTTP and MCP front ends.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	svc    *tracker.Service
	close  func()
}

// setup applies opts, configures logging and opens the tracker. notify may
// be nil.
func setup(opts []Option, notify tracker.Notifier) (*runtime, error) {
	app := &application{logOutput: os.Stdout, now: time.Now}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	target := cfg.Profile.TargetCalories()
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_path", cfg.Data.Path),
		slog.String("owner", cfg.Data.Owner),
		slog.Bool("sqlite_enabled", cfg.SQLite.Enabled),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Float64("target_calories", target),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure data directory exists.
	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	trackerOpts := []tracker.Option{
		tracker.WithLogger(logger),
		tracker.WithClock(app.now),
		tracker.WithTarget(target),
	}
	if notify != nil {
		trackerOpts = append(trackerOpts, tracker.WithNotifier(notify))
	}

	closeFn := func() {}
	if cfg.SQLite.Enabled {
		db, err := index.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		closeFn = func() { _ = db.Close() }
		trackerOpts = append(trackerOpts, tracker.WithIndex(db))
	}

	svc, err := tracker.Open(store, cfg.Data.Owner, trackerOpts...)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("open tracker: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, svc: svc, close: closeFn}, nil
}

// Run starts the HTTP server and the catalog watcher with the given options.
func Run(ctx context.Context, opts ...Option) error {
	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	rt, err := setup(opts, broker.PublishChange)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg, logger := rt.cfg, rt.logger

	apiRouter := api.NewRouter(rt.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the catalog when foods.yaml is edited by hand.
	g.Go(func() error {
		return tracker.Watch(gCtx, rt.svc, logger)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals. Cancelling stops the watcher.
	g.Go(func() error {
		defer cancel()
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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
// Logs go to stderr unless WithLogOutput says otherwise.
func RunMCP(ctx context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	rt, err := setup(opts, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return tracker.Watch(gCtx, rt.svc, rt.logger)
	})

	g.Go(func() error {
		defer cancel()
		rt.logger.Info("Starting MCP server on stdio")
		if err := mcpserver.New(rt.svc).ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		rt.logger.Error("MCP server stopped", slog.String("error", err.Error()))
		return err
	}
	return nil
}
