package main

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

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pocket/internal/app"
	pocketHttp "github.com/MrJamesThe3rd/pocket/internal/http"
	exportHandler "github.com/MrJamesThe3rd/pocket/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/pocket/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/pocket/internal/http/matching"
	recordsHandler "github.com/MrJamesThe3rd/pocket/internal/http/records"
	statsHandler "github.com/MrJamesThe3rd/pocket/internal/http/stats"
	"github.com/MrJamesThe3rd/pocket/internal/http/taxonomy"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app.SetupLogger(os.Stdout, cfg.Log.Level)

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialise storage", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	router := pocketHttp.New(pocketHttp.Handlers{
		Records:  recordsHandler.NewHandler(a.Records, a.Stats),
		Stats:    statsHandler.NewHandler(a.Stats),
		Taxonomy: taxonomy.NewHandler(a.Categories),
		Import:   importHandler.NewHandler(a.Import, a.Records),
		Matching: matchingHandler.NewHandler(a.Matching),
		Export:   exportHandler.NewHandler(a.Export),
	}, pocketHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "port", srv.Addr, "storage", cfg.Storage.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}

		return nil
	})

	if cfg.Cache.TTL > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.Cache.TTL)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if n := a.StatsCache.CleanExpired(); n > 0 {
						hits, misses := a.StatsCache.Stats()
						slog.Debug("stats cache cleaned", "expired", n, "hits", hits, "misses", misses)
					}
				}
			}
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
