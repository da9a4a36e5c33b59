package scraper

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSources(t *testing.T) {
	s := DefaultSources()

	if s.BensBites.ArchiveURL == "" || s.Rundown.HomepageURL == "" {
		t.Error("Expected default origin URLs to be set")
	}
	if len(s.Reddit.Subreddits) != 3 {
		t.Errorf("Expected 3 default subreddits, got %d", len(s.Reddit.Subreddits))
	}
	if len(s.ThumbnailDenylist) == 0 {
		t.Error("Expected a default thumbnail denylist")
	}
}

func TestLoadSources_MissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSources(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Expected missing file to be tolerated, got %v", err)
	}
	if s.BensBites.ArchiveURL != DefaultSources().BensBites.ArchiveURL {
		t.Error("Expected defaults when the file is missing")
	}
}

func TestLoadSources_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	content := `
reddit:
  subreddits: [LocalLLaMA]
thumbnail_denylist: [logo, branding, favicon]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSources(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(s.Reddit.Subreddits) != 1 || s.Reddit.Subreddits[0] != "LocalLLaMA" {
		t.Errorf("Expected overridden subreddit list, got %v", s.Reddit.Subreddits)
	}
	if len(s.ThumbnailDenylist) != 3 {
		t.Errorf("Expected overridden denylist, got %v", s.ThumbnailDenylist)
	}
	// Untouched sections keep their defaults.
	if s.BensBites.Author != "Ben Tossell" {
		t.Errorf("Expected default author preserved, got %q", s.BensBites.Author)
	}
	if s.Reddit.FeedURL == "" {
		t.Error("Expected default feed URL preserved")
	}
}

func TestLoadSources_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	if err := os.WriteFile(path, []byte("reddit: [not: a: mapping"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSources(path); err == nil {
		t.Error("Expected an error for invalid YAML")
	}
}
