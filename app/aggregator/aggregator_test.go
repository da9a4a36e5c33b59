package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/glaido/newshub/app/article"
)

type fakeScraper struct {
	source   string
	articles []article.Article
	err      error
	panics   bool
}

func (f *fakeScraper) Source() string        { return f.source }
func (f *fakeScraper) SourceDisplay() string { return f.source }

func (f *fakeScraper) Run(ctx context.Context) ([]article.Article, error) {
	if f.panics {
		panic("scraper blew up")
	}
	return f.articles, f.err
}

func TestAggregator_RunConcatenates(t *testing.T) {
	agg := New(
		&fakeScraper{source: "a", articles: []article.Article{{ID: "1"}, {ID: "2"}}},
		&fakeScraper{source: "b", articles: []article.Article{{ID: "3"}}},
	)

	articles, results := agg.Run(context.Background())

	if len(articles) != 3 {
		t.Errorf("Expected 3 articles, got %d", len(articles))
	}
	if results["a"].ArticlesFound != 2 || results["b"].ArticlesFound != 1 {
		t.Errorf("Expected per-source counts 2 and 1, got %+v", results)
	}
}

func TestAggregator_FailureIsolation(t *testing.T) {
	agg := New(
		&fakeScraper{source: "broken", err: errors.New("fetch failed")},
		&fakeScraper{source: "healthy", articles: []article.Article{{ID: "1"}}},
	)

	articles, results := agg.Run(context.Background())

	if len(articles) != 1 {
		t.Errorf("Expected the healthy source's article, got %d articles", len(articles))
	}
	if results["broken"].Err == nil {
		t.Error("Expected the failing source's error to be recorded")
	}
	if results["broken"].ArticlesFound != 0 {
		t.Errorf("Expected zero articles from the failing source, got %d", results["broken"].ArticlesFound)
	}
	if results["healthy"].Err != nil {
		t.Errorf("Expected no error for the healthy source, got %v", results["healthy"].Err)
	}
}

func TestAggregator_PanicIsolation(t *testing.T) {
	agg := New(
		&fakeScraper{source: "panicky", panics: true},
		&fakeScraper{source: "healthy", articles: []article.Article{{ID: "1"}}},
	)

	articles, results := agg.Run(context.Background())

	if len(articles) != 1 {
		t.Errorf("Expected the pass to survive a panic, got %d articles", len(articles))
	}
	if results["panicky"].Err == nil {
		t.Error("Expected the panic to surface as an error in the result")
	}
}

func TestAggregator_RunSource(t *testing.T) {
	agg := New(
		&fakeScraper{source: "a", articles: []article.Article{{ID: "1"}}},
		&fakeScraper{source: "b", articles: []article.Article{{ID: "2"}}},
	)

	articles, results, err := agg.RunSource(context.Background(), "b")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(articles) != 1 || articles[0].ID != "2" {
		t.Errorf("Expected only source b's article, got %v", articles)
	}
	if len(results) != 1 {
		t.Errorf("Expected a result for the single requested source, got %+v", results)
	}
}

func TestAggregator_RunSource_Unknown(t *testing.T) {
	agg := New(&fakeScraper{source: "a"})

	_, _, err := agg.RunSource(context.Background(), "nope")

	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Expected ErrUnknownSource, got %v", err)
	}
}

func TestAggregator_Sources(t *testing.T) {
	agg := New(
		&fakeScraper{source: "first"},
		&fakeScraper{source: "second"},
	)

	keys := agg.Sources()

	if len(keys) != 2 || keys[0] != "first" || keys[1] != "second" {
		t.Errorf("Expected registration order preserved, got %v", keys)
	}
}
