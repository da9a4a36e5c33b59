// Package scraper contains the source-specific extractors that turn raw
// origin markup and feeds into canonical article records. Each scraper
// encapsulates the quirks of one origin format; all of them emit the
// same schema and dedup by canonical URL within a run.
package scraper

import (
	"context"

	"github.com/glaido/newshub/app/article"
)

// Source keys. Adding a source means adding a scraper and registering it
// with the aggregator, not touching dispatch logic.
const (
	SourceBensBites = "bens_bites"
	SourceRundown   = "the_rundown"
	SourceReddit    = "reddit"
)

// Scraper is the single capability every source variant implements.
// Run returns the extracted articles; a fetch failure yields an empty
// slice plus the error so the caller can record it, never a panic.
type Scraper interface {
	Source() string
	SourceDisplay() string
	Run(ctx context.Context) ([]article.Article, error)
}

// Title length floors below which a candidate is treated as an
// unreliable parse and skipped.
const (
	minArchiveTitleLength  = 5
	minHomepageTitleLength = 10
	minRedditTitleLength   = 10
)

// maxAncestorDepth bounds the upward DOM walk when pairing a timestamp
// marker with its article container. Markers with no qualifying
// container within this bound are skipped.
const maxAncestorDepth = 5

// maxEntriesPerFeed bounds how many entries are taken from one
// syndication feed.
const maxEntriesPerFeed = 20

// summaryLength is the budget for text previews derived from embedded
// HTML content.
const summaryLength = 200
