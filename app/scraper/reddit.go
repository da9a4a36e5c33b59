package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/glaido/newshub/app/article"
	"github.com/glaido/newshub/app/normalize"
)

// RedditScraper extracts posts from a fixed list of subreddits via their
// public Atom feeds. One subreddit failing must not abort the others;
// cross-feed dedup by canonical URL applies to the whole run.
type RedditScraper struct {
	fetcher    *Fetcher
	parser     *gofeed.Parser
	subreddits []string
	feedURL    string
}

func NewRedditScraper(fetcher *Fetcher, sources *Sources) *RedditScraper {
	// Reddit throttles generic browser agents on feed endpoints.
	if ua := sources.Reddit.UserAgent; ua != "" {
		fetcher = NewFetcher(fetcher.client, ua)
	}

	return &RedditScraper{
		fetcher:    fetcher,
		parser:     gofeed.NewParser(),
		subreddits: sources.Reddit.Subreddits,
		feedURL:    sources.Reddit.FeedURL,
	}
}

func (s *RedditScraper) Source() string {
	return SourceReddit
}

func (s *RedditScraper) SourceDisplay() string {
	return "Reddit AI"
}

func (s *RedditScraper) Run(ctx context.Context) ([]article.Article, error) {
	var articles []article.Article
	seen := make(map[string]bool)
	var lastErr error

	for _, subreddit := range s.subreddits {
		data, err := s.fetcher.Fetch(ctx, fmt.Sprintf(s.feedURL, subreddit))
		if err != nil {
			slog.Warn("Subreddit fetch failed", "subreddit", subreddit, "error", err)
			lastErr = err
			continue
		}

		for _, a := range s.parseFeed(data, subreddit) {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			articles = append(articles, a)
		}
	}

	if len(articles) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all subreddit fetches failed: %w", lastErr)
	}

	slog.Info("Scrape completed", "source", s.Source(), "articles", len(articles))

	return articles, nil
}

func (s *RedditScraper) parseFeed(data []byte, subreddit string) []article.Article {
	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to parse subreddit feed", "subreddit", subreddit, "error", err)
		return nil
	}

	items := feed.Items
	if len(items) > maxEntriesPerFeed {
		items = items[:maxEntriesPerFeed]
	}

	var articles []article.Article
	for _, item := range items {
		title := normalize.Clean(item.Title)
		if len(title) < minRedditTitleLength {
			continue
		}

		url := normalize.CanonicalURL(item.Link)
		if url == "" {
			continue
		}

		var published *time.Time
		if item.PublishedParsed != nil {
			utc := item.PublishedParsed.UTC()
			published = &utc
		} else if item.UpdatedParsed != nil {
			utc := item.UpdatedParsed.UTC()
			published = &utc
		}

		thumbnail, preview := parseEmbeddedContent(item.Content)

		subtitle := "r/" + subreddit
		if flair := itemFlair(item); flair != "" {
			subtitle += " · " + flair
		}

		summary := preview
		if summary == "" {
			summary = subtitle
		}

		articles = append(articles, article.Article{
			ID:            normalize.HashURL(url),
			Title:         title,
			Subtitle:      subtitle,
			URL:           url,
			Source:        s.Source(),
			SourceDisplay: s.SourceDisplay(),
			Author:        itemAuthor(item),
			PublishedAt:   published,
			ScrapedAt:     time.Now().UTC(),
			Thumbnail:     thumbnail,
			Summary:       summary,
			Tags:          []string{"AI", "Reddit", "r/" + subreddit},
		})
	}

	return articles
}

// parseEmbeddedContent pulls the first absolute image URL and a bounded
// plain-text preview out of the entry's embedded HTML content.
func parseEmbeddedContent(content string) (thumbnail, preview string) {
	if content == "" {
		return "", ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", ""
	}

	if src, ok := doc.Find("img[src]").First().Attr("src"); ok && strings.HasPrefix(src, "http") {
		thumbnail = src
	}

	preview = normalize.TruncateSummary(normalize.Clean(doc.Text()), summaryLength)
	return thumbnail, preview
}

// itemAuthor normalizes the feed's "/u/name" attribution to "u/name",
// falling back to the unknown marker.
func itemAuthor(item *gofeed.Item) string {
	name := ""
	if item.Author != nil {
		name = item.Author.Name
	}
	if name == "" && len(item.Authors) > 0 && item.Authors[0] != nil {
		name = item.Authors[0].Name
	}

	name = strings.TrimPrefix(strings.TrimSpace(name), "/u/")
	if name == "" {
		return article.AuthorUnknown
	}

	return "u/" + name
}

// itemFlair returns the entry's first category label, the post flair on
// subreddit feeds.
func itemFlair(item *gofeed.Item) string {
	for _, c := range item.Categories {
		if cleaned := normalize.Clean(c); cleaned != "" {
			return cleaned
		}
	}
	return ""
}
