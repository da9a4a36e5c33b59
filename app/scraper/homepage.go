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

// plusMarker separates a concatenated title and teaser in homepage link
// text ("New Model Launch PLUS: Funding roundup").
const plusMarker = "PLUS:"

// HomepageScraper extracts articles from a newsletter homepage. The
// homepage has no reliable per-entry timestamps, so every qualifying
// post link is a candidate and published dates stay unset.
type HomepageScraper struct {
	fetcher     *Fetcher
	homepageURL string
	baseURL     string
	author      string
	denylist    []string
}

func NewHomepageScraper(fetcher *Fetcher, sources *Sources) *HomepageScraper {
	return &HomepageScraper{
		fetcher:     fetcher,
		homepageURL: sources.Rundown.HomepageURL,
		baseURL:     sources.Rundown.BaseURL,
		author:      sources.Rundown.Author,
		denylist:    sources.ThumbnailDenylist,
	}
}

func (s *HomepageScraper) Source() string {
	return SourceRundown
}

func (s *HomepageScraper) SourceDisplay() string {
	return "The Rundown AI"
}

func (s *HomepageScraper) Run(ctx context.Context) ([]article.Article, error) {
	data, err := s.fetcher.Fetch(ctx, s.homepageURL)
	if err != nil {
		return nil, err
	}

	articles := s.parse(data)
	slog.Info("Scrape completed", "source", s.Source(), "articles", len(articles))

	return articles, nil
}

func (s *HomepageScraper) parse(data []byte) []article.Article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to parse homepage", "source", s.Source(), "error", err)
		return nil
	}

	var articles []article.Article
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !strings.Contains(href, "/p/") {
			return
		}

		url := normalize.CanonicalURL(resolveURL(s.baseURL, href))
		if url == "" || seen[url] {
			return
		}
		seen[url] = true

		linkText := normalize.Clean(link.Text())
		if len(linkText) < minHomepageTitleLength {
			return
		}

		title, subtitle := splitPlusMarker(linkText)

		summary := subtitle
		if summary == "" {
			summary = normalize.TruncateSummary(linkText, summaryLength)
		}

		articles = append(articles, article.Article{
			ID:            normalize.HashURL(url),
			Title:         title,
			Subtitle:      subtitle,
			URL:           url,
			Source:        s.Source(),
			SourceDisplay: s.SourceDisplay(),
			Author:        s.author,
			ScrapedAt:     time.Now().UTC(),
			Thumbnail:     s.findThumbnail(link),
			Summary:       summary,
			Tags:          []string{"AI", "Newsletter"},
		})
	})

	return articles
}

// splitPlusMarker splits concatenated link text at the first "PLUS:"
// occurrence. Text before becomes the title; text from the marker
// onward, re-prefixed, becomes the subtitle.
func splitPlusMarker(text string) (title, subtitle string) {
	i := strings.Index(text, plusMarker)
	if i < 0 {
		return text, ""
	}

	title = normalize.Clean(text[:i])
	subtitle = normalize.Clean(plusMarker + " " + text[i+len(plusMarker):])
	return title, subtitle
}

// findThumbnail looks for an image in the link's nearest entry
// container, excluding branding assets by URL substring.
func (s *HomepageScraper) findThumbnail(link *goquery.Selection) string {
	parent := link.ParentsFiltered("div, article, li").First()
	if parent.Length() == 0 {
		return ""
	}

	src, ok := parent.Find("img[src]").First().Attr("src")
	if !ok || s.isBrandingAsset(src) {
		return ""
	}

	return src
}

func (s *HomepageScraper) isBrandingAsset(src string) bool {
	lower := strings.ToLower(src)
	for _, needle := range s.denylist {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
