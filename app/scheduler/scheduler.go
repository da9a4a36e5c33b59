// Package scheduler drives the periodic aggregation cycle: scrape,
// merge against the stored articles, persist, update per-source scrape
// state. The API shell triggers the same cycle on demand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glaido/newshub/app/aggregator"
	"github.com/glaido/newshub/app/article"
	"github.com/glaido/newshub/app/store"
)

// ErrCycleInProgress is returned when a cycle is requested while another
// is still running. Overlapping passes would converge on the same keyed
// store, but they are wasteful, so a single-flight guard rejects them.
var ErrCycleInProgress = errors.New("aggregation cycle already in progress")

// CycleResult summarizes one aggregation pass.
type CycleResult struct {
	NewArticles   int
	TotalArticles int
}

type Scheduler struct {
	aggregator *aggregator.Aggregator
	store      store.Store
	interval   time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	inFlight   atomic.Bool
}

func NewScheduler(agg *aggregator.Aggregator, st store.Store, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		aggregator: agg,
		store:      st,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the periodic cycle. A store with no articles yet gets
// an immediate pass before the timer begins.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if s.storeIsEmpty() {
			slog.Info("No stored articles found, running initial aggregation pass")
			if _, err := s.RunCycle(s.ctx, ""); err != nil {
				slog.Error("Initial aggregation pass failed", "error", err)
			}
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.RunCycle(s.ctx, ""); err != nil {
					slog.Error("Scheduled aggregation pass failed", "error", err)
				}
			}
		}
	}()

	slog.Info("Scheduler started", "interval", s.interval.String())
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// RunCycle executes one aggregation pass, scoped to a single source when
// source is non-empty. A load failure aborts the pass before anything is
// written: saving a merge against a blank baseline would wipe the stored
// collection. A save failure only degrades durability, so the in-memory
// merge outcome is still reported.
func (s *Scheduler) RunCycle(ctx context.Context, source string) (CycleResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return CycleResult{}, ErrCycleInProgress
	}
	defer s.inFlight.Store(false)

	started := time.Now()
	slog.Info("Aggregation pass started", "source", orAll(source))

	var incoming []article.Article
	var results map[string]aggregator.SourceResult

	if source == "" {
		incoming, results = s.aggregator.Run(ctx)
	} else {
		var err error
		incoming, results, err = s.aggregator.RunSource(ctx, source)
		if err != nil {
			return CycleResult{}, err
		}
	}

	existing, err := s.store.LoadArticles("")
	if err != nil {
		return CycleResult{}, fmt.Errorf("failed to load stored articles: %w", err)
	}

	merged := article.Merge(existing, incoming)

	if err := s.store.SaveArticles(merged); err != nil {
		slog.Error("Failed to persist merged articles", "error", err)
	}

	s.updateScrapeState(results)

	slog.Info("Aggregation pass completed",
		"source", orAll(source),
		"duration", time.Since(started).String(),
		"new", len(incoming),
		"total", len(merged))

	return CycleResult{NewArticles: len(incoming), TotalArticles: len(merged)}, nil
}

// updateScrapeState overwrites the state records of the sources touched
// by this pass. Untouched sources keep their previous records.
func (s *Scheduler) updateScrapeState(results map[string]aggregator.SourceResult) {
	state, err := s.store.LoadScrapeState()
	if err != nil {
		slog.Error("Failed to load scrape state", "error", err)
		state = make(map[string]article.ScrapeState)
	}

	now := time.Now().UTC()
	for source, result := range results {
		record := article.ScrapeState{
			Source:        source,
			LastScrapedAt: &now,
			ArticlesFound: result.ArticlesFound,
			Status:        article.StatusNoNew,
		}
		switch {
		case result.Err != nil:
			record.Status = article.StatusError
			record.ErrorMessage = result.Err.Error()
		case result.ArticlesFound > 0:
			record.Status = article.StatusSuccess
		}
		state[source] = record
	}

	if err := s.store.SaveScrapeState(state); err != nil {
		slog.Error("Failed to persist scrape state", "error", err)
	}
}

func (s *Scheduler) storeIsEmpty() bool {
	articles, err := s.store.LoadArticles("")
	if err != nil {
		slog.Error("Failed to check stored articles", "error", err)
		return false
	}
	return len(articles) == 0
}

func orAll(source string) string {
	if source == "" {
		return "all"
	}
	return source
}
