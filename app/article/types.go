// Package article defines the canonical article schema shared by the
// scrapers, the store backends and the HTTP API, plus the merge engine
// that reconciles scrape batches against stored data.
package article

import (
	"time"

	"github.com/glaido/newshub/app/normalize"
)

// AuthorUnknown is the fallback attribution when a source exposes none.
const AuthorUnknown = "unknown"

// Article is the canonical unit produced by every scraper. ID is a pure
// function of the canonical URL: two records with the same URL collapse
// to one stored record.
type Article struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Subtitle      string     `json:"subtitle,omitempty"`
	URL           string     `json:"url"`
	Source        string     `json:"source"`
	SourceDisplay string     `json:"source_display"`
	Author        string     `json:"author"`
	PublishedAt   *time.Time `json:"published_date"`
	ScrapedAt     time.Time  `json:"scraped_at"`
	Thumbnail     string     `json:"thumbnail,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	Tags          []string   `json:"tags"`
	IsNew         bool       `json:"is_new"`
}

// RefreshIsNew recomputes the derived recency flag. Stored values are
// not authoritative; the read path calls this before returning articles.
func (a *Article) RefreshIsNew() {
	a.IsNew = normalize.WithinLast24Hours(a.PublishedAt)
}

// Bookmark marks an article as saved by the user. Identity is the
// article ID; creation is idempotent.
type Bookmark struct {
	ArticleID string    `json:"article_id"`
	SavedAt   time.Time `json:"saved_at"`
}

// Scrape cycle outcomes per source.
const (
	StatusSuccess  = "success"
	StatusNoNew    = "no_new"
	StatusNeverRun = "never_run"
	StatusError    = "error"
)

// ScrapeState is the per-source bookkeeping record, overwritten wholesale
// on every cycle that touches the source.
type ScrapeState struct {
	Source        string     `json:"source"`
	LastScrapedAt *time.Time `json:"last_scraped_at"`
	ArticlesFound int        `json:"articles_found"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}
