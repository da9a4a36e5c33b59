package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glaido/newshub/app/article"
)

const (
	articlesFile    = "articles.json"
	bookmarksFile   = "bookmarks.json"
	scrapeStateFile = "scrape_state.json"
)

var _ Store = (*JSONStore)(nil)

// JSONStore keeps each record collection in its own JSON file under a
// data directory. Writes go through a temp file and rename so a crash
// never leaves a half-written collection behind.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) LoadArticles(source string) ([]article.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var articles []article.Article
	if err := s.readFile(articlesFile, &articles); err != nil {
		return nil, err
	}

	if source == "" {
		return articles, nil
	}

	filtered := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if a.Source == source {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// SaveArticles replaces the stored collection. Callers pass the merged
// view, so a full rewrite is the upsert.
func (s *JSONStore) SaveArticles(articles []article.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeFile(articlesFile, articles)
}

func (s *JSONStore) LoadBookmarks() ([]article.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadBookmarksLocked()
}

func (s *JSONStore) SaveBookmark(articleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.loadBookmarksLocked()
	if err != nil {
		return false, err
	}

	for _, b := range bookmarks {
		if b.ArticleID == articleID {
			return false, nil
		}
	}

	bookmarks = append(bookmarks, article.Bookmark{
		ArticleID: articleID,
		SavedAt:   time.Now().UTC(),
	})

	if err := s.writeFile(bookmarksFile, bookmarks); err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONStore) RemoveBookmark(articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.loadBookmarksLocked()
	if err != nil {
		return err
	}

	kept := bookmarks[:0]
	found := false
	for _, b := range bookmarks {
		if b.ArticleID == articleID {
			found = true
			continue
		}
		kept = append(kept, b)
	}

	if !found {
		return ErrBookmarkNotFound
	}

	return s.writeFile(bookmarksFile, kept)
}

func (s *JSONStore) LoadScrapeState() (map[string]article.ScrapeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := make(map[string]article.ScrapeState)
	if err := s.readFile(scrapeStateFile, &state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *JSONStore) SaveScrapeState(state map[string]article.ScrapeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeFile(scrapeStateFile, state)
}

func (s *JSONStore) CheckConnection() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) loadBookmarksLocked() ([]article.Bookmark, error) {
	var bookmarks []article.Bookmark
	if err := s.readFile(bookmarksFile, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// readFile unmarshals name into v; a missing file leaves v at its zero
// value.
func (s *JSONStore) readFile(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *JSONStore) writeFile(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
