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
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/subhashbohra/acloudresume-site/internal/api"
	"github.com/subhashbohra/acloudresume-site/internal/apperr"
	"github.com/subhashbohra/acloudresume-site/internal/content"
	"github.com/subhashbohra/acloudresume-site/internal/fetcher"
	"github.com/subhashbohra/acloudresume-site/internal/mcpserver"
	"github.com/subhashbohra/acloudresume-site/internal/models"
	"github.com/subhashbohra/acloudresume-site/internal/sse"
	"github.com/subhashbohra/acloudresume-site/internal/store"
	"github.com/subhashbohra/acloudresume-site/internal/timeutil"
	"github.com/subhashbohra/acloudresume-site/internal/updateservice"
	"github.com/subhashbohra/acloudresume-site/internal/web"
)

// buildSource constructs the feed source from configuration.
func buildSource(cfg *Config) updateservice.Source {
	switch cfg.Feed.Source {
	case FeedSourceRSS:
		rss := fetcher.NewRSS(cfg.Feed.RSSURL, cfg.Feed.Timeout())
		return rss.Fetch
	case FeedSourceAPI:
		jf := fetcher.NewJSONFeed(cfg.Feed.APIURL, cfg.Feed.Timeout())
		return func(ctx context.Context) ([]models.RawUpdate, error) {
			return jf.Fetch(ctx, timeutil.WeekKey(time.Now()))
		}
	case FeedSourceSample:
		sample := &fetcher.Sample{Path: filepath.Join(cfg.Data.Path, content.SampleDoc)}
		return sample.Fetch
	default:
		return nil
	}
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("feed_source", cfg.Feed.Source),
		slog.String("data_path", cfg.Data.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure data directory exists.
	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Initialize content library.
	fs, err := content.NewFS(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	library := content.NewLibrary(fs)
	library.LoadAll(logger)

	// Initialize SQLite store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	source := app.source
	if source == nil {
		source = buildSource(cfg)
	}

	svc := updateservice.NewService(db, updateservice.Config{
		Source:         source,
		Notifier:       broker,
		Logger:         logger,
		ClampFuture:    cfg.Feed.ClampFuture,
		SiteBaseURL:    cfg.Site.BaseURL,
		PageSize:       cfg.Site.PageSize,
		MaxPerCategory: cfg.Site.DigestMaxPerCategory,
		WeekRangeLabel: timeutil.WeekRangeLabel,
	})

	apiRouter := api.NewRouter(api.RouterConfig{
		Service:     svc,
		Library:     library,
		DB:          db,
		SiteBaseURL: cfg.Site.BaseURL,
		DataRoot:    cfg.Data.Path,
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		SSEHandler:  broker,
	})

	pages, err := web.NewHandler(svc, library, logger)
	if err != nil {
		return fmt.Errorf("init web pages: %w", err)
	}
	assets := api.NewAssetHandler(cfg.Data.Path)

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

	// Server-rendered pages and static assets.
	r.Get("/aws-updates.html", pages.Updates)
	r.Get("/tutorials.html", pages.Tutorials)
	r.Get("/assets/{filename}", assets.ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start content watcher with SSE callback.
	g.Go(func() error {
		if err := content.Watch(gCtx, library, logger, func(_, doc string) {
			broker.PublishContent(doc)
		}); err != nil {
			logger.Warn("content watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start the refresh scheduler when a feed source is configured.
	if source != nil && cfg.Feed.Schedule != "" {
		g.Go(func() error {
			// Best-effort initial refresh so a fresh deployment has data
			// before the first scheduled tick.
			if _, err := svc.TryRefresh(gCtx); err != nil {
				logger.Warn("initial refresh failed", slog.String("error", err.Error()))
			}

			c := cron.New()
			if _, err := c.AddFunc(cfg.Feed.Schedule, func() {
				if _, err := svc.TryRefresh(gCtx); err != nil && !errors.Is(err, apperr.ErrRefreshInFlight) {
					logger.Error("scheduled refresh failed", slog.String("error", err.Error()))
				}
			}); err != nil {
				return fmt.Errorf("schedule refresh: %w", err)
			}
			c.Start()
			<-gCtx.Done()
			<-c.Stop().Done()
			return nil
		})
	}

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
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server backed by the same store and content
// library as the HTTP service.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// Logs must go to stderr: stdout carries the MCP protocol.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	fs, err := content.NewFS(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	library := content.NewLibrary(fs)
	library.LoadAll(logger)

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	source := app.source
	if source == nil {
		source = buildSource(cfg)
	}
	svc := updateservice.NewService(db, updateservice.Config{
		Source:         source,
		Logger:         logger,
		ClampFuture:    cfg.Feed.ClampFuture,
		SiteBaseURL:    cfg.Site.BaseURL,
		PageSize:       cfg.Site.PageSize,
		MaxPerCategory: cfg.Site.DigestMaxPerCategory,
		WeekRangeLabel: timeutil.WeekRangeLabel,
	})

	logger.Info("Starting MCP server on stdio")
	return mcpserver.New(svc, library).ServeStdio()
}
