package store

import (
	"errors"
	"testing"
	"time"

	"github.com/glaido/newshub/app/article"
)

func newTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	s, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func TestJSONStore_ArticlesRoundTrip(t *testing.T) {
	s := newTestJSONStore(t)

	published := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	articles := []article.Article{
		{
			ID:            "abc123",
			Title:         "Stored Article",
			URL:           "https://site/p/a",
			Source:        "bens_bites",
			SourceDisplay: "Ben's Bites",
			Author:        "Ben Tossell",
			PublishedAt:   &published,
			ScrapedAt:     time.Now().UTC(),
			Tags:          []string{"AI", "Newsletter"},
		},
		{ID: "def456", Title: "Other Source", URL: "https://site/p/b", Source: "reddit"},
	}

	if err := s.SaveArticles(articles); err != nil {
		t.Fatalf("Failed to save articles: %v", err)
	}

	loaded, err := s.LoadArticles("")
	if err != nil {
		t.Fatalf("Failed to load articles: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(loaded))
	}
	if loaded[0].ID != "abc123" || !loaded[0].PublishedAt.Equal(published) {
		t.Errorf("Round trip mangled the first article: %+v", loaded[0])
	}

	filtered, err := s.LoadArticles("reddit")
	if err != nil {
		t.Fatalf("Failed to load filtered articles: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "def456" {
		t.Errorf("Expected only the reddit article, got %v", filtered)
	}
}

func TestJSONStore_EmptyStore(t *testing.T) {
	s := newTestJSONStore(t)

	articles, err := s.LoadArticles("")
	if err != nil {
		t.Fatalf("Expected empty store to load cleanly, got %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Expected no articles, got %d", len(articles))
	}

	state, err := s.LoadScrapeState()
	if err != nil {
		t.Fatalf("Expected empty scrape state to load cleanly, got %v", err)
	}
	if len(state) != 0 {
		t.Errorf("Expected empty state, got %v", state)
	}
}

func TestJSONStore_BookmarkIdempotence(t *testing.T) {
	s := newTestJSONStore(t)

	saved, err := s.SaveBookmark("abc123")
	if err != nil {
		t.Fatalf("Failed to save bookmark: %v", err)
	}
	if !saved {
		t.Error("Expected first save to report saved")
	}

	saved, err = s.SaveBookmark("abc123")
	if err != nil {
		t.Fatalf("Re-saving should not error, got %v", err)
	}
	if saved {
		t.Error("Expected re-save to report already-saved")
	}

	bookmarks, err := s.LoadBookmarks()
	if err != nil {
		t.Fatalf("Failed to load bookmarks: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Errorf("Expected 1 bookmark, got %d", len(bookmarks))
	}
	if bookmarks[0].SavedAt.IsZero() {
		t.Error("Expected saved_at to be set")
	}
}

func TestJSONStore_RemoveBookmark(t *testing.T) {
	s := newTestJSONStore(t)

	if _, err := s.SaveBookmark("abc123"); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveBookmark("abc123"); err != nil {
		t.Errorf("Expected removal to succeed, got %v", err)
	}

	err := s.RemoveBookmark("abc123")
	if !errors.Is(err, ErrBookmarkNotFound) {
		t.Errorf("Expected ErrBookmarkNotFound, got %v", err)
	}
}

func TestJSONStore_ScrapeStateRoundTrip(t *testing.T) {
	s := newTestJSONStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	state := map[string]article.ScrapeState{
		"reddit": {
			Source:        "reddit",
			LastScrapedAt: &now,
			ArticlesFound: 12,
			Status:        article.StatusSuccess,
		},
		"bens_bites": {
			Source:       "bens_bites",
			Status:       article.StatusError,
			ErrorMessage: "fetch failed",
		},
	}

	if err := s.SaveScrapeState(state); err != nil {
		t.Fatalf("Failed to save scrape state: %v", err)
	}

	loaded, err := s.LoadScrapeState()
	if err != nil {
		t.Fatalf("Failed to load scrape state: %v", err)
	}

	if loaded["reddit"].ArticlesFound != 12 || loaded["reddit"].Status != article.StatusSuccess {
		t.Errorf("Reddit state mangled: %+v", loaded["reddit"])
	}
	if !loaded["reddit"].LastScrapedAt.Equal(now) {
		t.Errorf("Expected last scraped %v, got %v", now, loaded["reddit"].LastScrapedAt)
	}
	if loaded["bens_bites"].ErrorMessage != "fetch failed" {
		t.Errorf("Expected error message preserved, got %q", loaded["bens_bites"].ErrorMessage)
	}
}

func TestJSONStore_CheckConnection(t *testing.T) {
	s := newTestJSONStore(t)

	if err := s.CheckConnection(); err != nil {
		t.Errorf("Expected healthy connection, got %v", err)
	}
}
