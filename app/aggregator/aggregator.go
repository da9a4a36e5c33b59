// Package aggregator runs the registered scrapers and concatenates
// their output. Every scraper invocation is isolated: one source
// failing, or even panicking, never aborts the rest of the pass.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glaido/newshub/app/article"
	"github.com/glaido/newshub/app/scraper"
)

// ErrUnknownSource is returned when a pass is requested for a source key
// no scraper is registered under.
var ErrUnknownSource = errors.New("unknown source")

// SourceResult records one scraper's outcome within a pass, feeding the
// per-source scrape state.
type SourceResult struct {
	ArticlesFound int
	Err           error
}

type Aggregator struct {
	scrapers []scraper.Scraper
	byKey    map[string]scraper.Scraper
}

// New registers the given scrapers. Registration order is preserved for
// stable status listings.
func New(scrapers ...scraper.Scraper) *Aggregator {
	byKey := make(map[string]scraper.Scraper, len(scrapers))
	for _, s := range scrapers {
		byKey[s.Source()] = s
	}
	return &Aggregator{scrapers: scrapers, byKey: byKey}
}

// Sources returns the registered source keys in registration order.
func (a *Aggregator) Sources() []string {
	keys := make([]string, 0, len(a.scrapers))
	for _, s := range a.scrapers {
		keys = append(keys, s.Source())
	}
	return keys
}

// Run executes every registered scraper and concatenates the results.
// Failed sources contribute zero articles and carry their error in the
// result map.
func (a *Aggregator) Run(ctx context.Context) ([]article.Article, map[string]SourceResult) {
	var all []article.Article
	results := make(map[string]SourceResult, len(a.scrapers))

	for _, s := range a.scrapers {
		articles, err := a.runOne(ctx, s)
		if err != nil {
			slog.Error("Scraper failed", "source", s.Source(), "error", err)
		}
		results[s.Source()] = SourceResult{ArticlesFound: len(articles), Err: err}
		all = append(all, articles...)
	}

	return all, results
}

// RunSource executes a single scraper by source key.
func (a *Aggregator) RunSource(ctx context.Context, source string) ([]article.Article, map[string]SourceResult, error) {
	s, ok := a.byKey[source]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	articles, err := a.runOne(ctx, s)
	if err != nil {
		slog.Error("Scraper failed", "source", source, "error", err)
	}

	results := map[string]SourceResult{
		source: {ArticlesFound: len(articles), Err: err},
	}

	return articles, results, nil
}

// runOne isolates a single scraper invocation, converting panics into
// ordinary errors.
func (a *Aggregator) runOne(ctx context.Context, s scraper.Scraper) (articles []article.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			articles = nil
			err = fmt.Errorf("scraper panicked: %v", r)
		}
	}()

	return s.Run(ctx)
}
