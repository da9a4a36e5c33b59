package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glaido/newshub/app/aggregator"
	"github.com/glaido/newshub/app/api"
	"github.com/glaido/newshub/app/cfg"
	"github.com/glaido/newshub/app/scheduler"
	"github.com/glaido/newshub/app/scraper"
	"github.com/glaido/newshub/app/store"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting NewsHub server", "version", appCfg.Version)

	st, err := newStore(appCfg)
	if err != nil {
		slog.Error("Failed to initialize store", "backend", appCfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.CheckConnection(); err != nil {
		slog.Warn("Store connectivity check failed", "error", err)
	}

	sources, err := scraper.LoadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load source configuration", "file", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: time.Duration(appCfg.HTTPTimeout) * time.Second}
	fetcher := scraper.NewFetcher(httpClient, appCfg.UserAgent)
	scrapers := []scraper.Scraper{
		scraper.NewArchiveScraper(fetcher, sources),
		scraper.NewHomepageScraper(fetcher, sources),
		scraper.NewRedditScraper(fetcher, sources),
	}

	agg := aggregator.New(scrapers...)

	sched := scheduler.NewScheduler(agg, st, time.Duration(appCfg.ScrapeInterval)*time.Hour)
	sched.Start()
	defer sched.Stop()

	sourceInfos := make([]api.SourceInfo, 0, len(scrapers))
	for _, s := range scrapers {
		sourceInfos = append(sourceInfos, api.SourceInfo{Key: s.Source(), Display: s.SourceDisplay()})
	}

	apiHandler := api.NewHandler(st, sched, sourceInfos, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.StaticDir)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler and store are stopped via defer
	slog.Info("Shutdown complete")
}

func newStore(appCfg *cfg.Cfg) (store.Store, error) {
	switch appCfg.StoreBackend {
	case "sqlite":
		return store.NewSQLiteStore(appCfg.DBPath)
	default:
		return store.NewJSONStore(appCfg.DataDir)
	}
}
