// Package store is the persistence gateway for articles, bookmarks and
// per-source scrape state. Two interchangeable backends exist: a keyed
// JSON file store for local use and a SQLite store for durable
// deployments. Mutation discipline is last-write-wins per key; no
// cross-key transactional atomicity is promised.
package store

import (
	"errors"

	"github.com/glaido/newshub/app/article"
)

// ErrBookmarkNotFound is returned when removing a bookmark that does not
// exist.
var ErrBookmarkNotFound = errors.New("bookmark not found")

// Store is the gateway the scheduler and API read and write through.
type Store interface {
	// LoadArticles returns stored articles sorted by published date
	// descending with undated articles last, optionally filtered by
	// source key (empty means all).
	LoadArticles(source string) ([]article.Article, error)
	// SaveArticles upserts the given articles by ID.
	SaveArticles(articles []article.Article) error

	LoadBookmarks() ([]article.Bookmark, error)
	// SaveBookmark records a bookmark. Returns false when the article
	// was already bookmarked; re-saving is a no-op, not an error.
	SaveBookmark(articleID string) (bool, error)
	// RemoveBookmark deletes a bookmark, returning ErrBookmarkNotFound
	// when none exists for the ID.
	RemoveBookmark(articleID string) error

	LoadScrapeState() (map[string]article.ScrapeState, error)
	SaveScrapeState(state map[string]article.ScrapeState) error

	CheckConnection() error
	Close() error
}
