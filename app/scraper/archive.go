package scraper

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/glaido/newshub/app/article"
	"github.com/glaido/newshub/app/normalize"
)

// ArchiveScraper extracts articles from a Substack-style newsletter
// archive page. The archive exposes a <time> marker per entry near, but
// not necessarily inside, the entry's post link, so each marker anchors
// an upward walk to the container holding the qualifying "/p/" links.
type ArchiveScraper struct {
	fetcher    *Fetcher
	archiveURL string
	baseURL    string
	author     string
}

func NewArchiveScraper(fetcher *Fetcher, sources *Sources) *ArchiveScraper {
	return &ArchiveScraper{
		fetcher:    fetcher,
		archiveURL: sources.BensBites.ArchiveURL,
		baseURL:    sources.BensBites.BaseURL,
		author:     sources.BensBites.Author,
	}
}

func (s *ArchiveScraper) Source() string {
	return SourceBensBites
}

func (s *ArchiveScraper) SourceDisplay() string {
	return "Ben's Bites"
}

func (s *ArchiveScraper) Run(ctx context.Context) ([]article.Article, error) {
	data, err := s.fetcher.Fetch(ctx, s.archiveURL)
	if err != nil {
		return nil, err
	}

	articles := s.parse(data)
	slog.Info("Scrape completed", "source", s.Source(), "articles", len(articles))

	return articles, nil
}

func (s *ArchiveScraper) parse(data []byte) []article.Article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to parse archive page", "source", s.Source(), "error", err)
		return nil
	}

	var articles []article.Article
	seen := make(map[string]bool)

	doc.Find("time").Each(func(_ int, timeEl *goquery.Selection) {
		published := s.publishedAt(timeEl)
		if published == nil {
			return
		}

		links := s.findEntryLinks(timeEl)
		if links == nil {
			// No qualifying container within the depth bound; skip
			// this marker.
			return
		}

		// One article per timestamp marker: the first qualifying
		// link wins.
		links.EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			url := normalize.CanonicalURL(resolveURL(s.baseURL, href))
			if url == "" || seen[url] {
				return true
			}

			title := normalize.Clean(link.Text())
			if len(title) < minArchiveTitleLength {
				return true
			}
			seen[url] = true

			subtitle := s.findSubtitle(links, title)

			articles = append(articles, article.Article{
				ID:            normalize.HashURL(url),
				Title:         title,
				Subtitle:      subtitle,
				URL:           url,
				Source:        s.Source(),
				SourceDisplay: s.SourceDisplay(),
				Author:        s.author,
				PublishedAt:   published,
				ScrapedAt:     time.Now().UTC(),
				Summary:       subtitle,
				Tags:          []string{"AI", "Newsletter"},
			})

			return false
		})
	})

	return articles
}

// publishedAt reads the marker's machine-readable datetime attribute,
// falling back to parsing its display text.
func (s *ArchiveScraper) publishedAt(timeEl *goquery.Selection) *time.Time {
	dt, ok := timeEl.Attr("datetime")
	if !ok {
		return nil
	}

	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		utc := t.UTC()
		return &utc
	}

	return normalize.ParseDate(timeEl.Text())
}

// findEntryLinks walks up from the timestamp marker through ancestor
// containers until one holding at least one post link is found, bounded
// by maxAncestorDepth. Returns nil when the walk is exhausted.
func (s *ArchiveScraper) findEntryLinks(timeEl *goquery.Selection) *goquery.Selection {
	container := timeEl.Parent()

	for depth := 0; depth < maxAncestorDepth && container.Length() > 0; depth++ {
		links := container.Find(`a[href*="/p/"]`)
		if links.Length() > 0 {
			return links
		}
		container = container.Parent()
	}

	return nil
}

// findSubtitle returns the text of the first distinct, longer link in
// the same container, which on archive pages carries the entry's
// descriptive teaser.
func (s *ArchiveScraper) findSubtitle(links *goquery.Selection, title string) string {
	subtitle := ""

	links.EachWithBreak(func(_ int, other *goquery.Selection) bool {
		text := normalize.Clean(other.Text())
		if text != "" && text != title && len(text) > 10 {
			subtitle = text
			return false
		}
		return true
	})

	return subtitle
}

// resolveURL makes an absolute URL out of an href, anchored at the
// origin's base URL. Unusable hrefs resolve to the empty string.
func resolveURL(baseURL, href string) string {
	switch {
	case strings.HasPrefix(href, "/"):
		return baseURL + href
	case strings.HasPrefix(href, "http"):
		return href
	default:
		return ""
	}
}
