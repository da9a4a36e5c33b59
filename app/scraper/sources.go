package scraper

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Sources describes the scrape origins. Defaults cover the shipped
// sources; an optional YAML file overrides URLs, the subreddit list and
// the thumbnail denylist without a rebuild.
type Sources struct {
	BensBites struct {
		ArchiveURL string `yaml:"archive_url"`
		BaseURL    string `yaml:"base_url"`
		Author     string `yaml:"author"`
	} `yaml:"bens_bites"`

	Rundown struct {
		HomepageURL string `yaml:"homepage_url"`
		BaseURL     string `yaml:"base_url"`
		Author      string `yaml:"author"`
	} `yaml:"the_rundown"`

	Reddit struct {
		Subreddits []string `yaml:"subreddits"`
		FeedURL    string   `yaml:"feed_url"`
		UserAgent  string   `yaml:"user_agent"`
	} `yaml:"reddit"`

	// Image URLs containing any of these substrings are treated as
	// branding assets, not thumbnails.
	ThumbnailDenylist []string `yaml:"thumbnail_denylist"`
}

// DefaultSources returns the built-in origin set.
func DefaultSources() *Sources {
	s := &Sources{}
	s.BensBites.ArchiveURL = "https://www.bensbites.com/archive"
	s.BensBites.BaseURL = "https://www.bensbites.com"
	s.BensBites.Author = "Ben Tossell"
	s.Rundown.HomepageURL = "https://www.therundown.ai/"
	s.Rundown.BaseURL = "https://www.therundown.ai"
	s.Rundown.Author = "Rowan Cheung"
	s.Reddit.Subreddits = []string{"artificial", "MachineLearning", "singularity"}
	s.Reddit.FeedURL = "https://www.reddit.com/r/%s/.rss"
	s.Reddit.UserAgent = "newshub/1.0 (news aggregation)"
	s.ThumbnailDenylist = []string{"logo"}
	return s
}

// LoadSources reads the override file at path when it exists, filling
// any omitted field from the defaults. A missing file is not an error.
func LoadSources(path string) (*Sources, error) {
	sources := DefaultSources()

	if path == "" {
		return sources, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("No sources file found, using defaults", "path", path)
		return sources, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var override Sources
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	applyOverrides(sources, &override)
	slog.Info("Loaded source overrides", "path", path)

	return sources, nil
}

func applyOverrides(base, override *Sources) {
	if override.BensBites.ArchiveURL != "" {
		base.BensBites.ArchiveURL = override.BensBites.ArchiveURL
	}
	if override.BensBites.BaseURL != "" {
		base.BensBites.BaseURL = override.BensBites.BaseURL
	}
	if override.BensBites.Author != "" {
		base.BensBites.Author = override.BensBites.Author
	}
	if override.Rundown.HomepageURL != "" {
		base.Rundown.HomepageURL = override.Rundown.HomepageURL
	}
	if override.Rundown.BaseURL != "" {
		base.Rundown.BaseURL = override.Rundown.BaseURL
	}
	if override.Rundown.Author != "" {
		base.Rundown.Author = override.Rundown.Author
	}
	if len(override.Reddit.Subreddits) > 0 {
		base.Reddit.Subreddits = override.Reddit.Subreddits
	}
	if override.Reddit.FeedURL != "" {
		base.Reddit.FeedURL = override.Reddit.FeedURL
	}
	if override.Reddit.UserAgent != "" {
		base.Reddit.UserAgent = override.Reddit.UserAgent
	}
	if len(override.ThumbnailDenylist) > 0 {
		base.ThumbnailDenylist = override.ThumbnailDenylist
	}
}
