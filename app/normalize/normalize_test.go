package normalize

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestHashURL_Deterministic(t *testing.T) {
	url := "https://www.bensbites.com/p/some-article"

	first := HashURL(url)
	second := HashURL(url)

	if first != second {
		t.Errorf("Expected identical hashes for the same URL, got %s and %s", first, second)
	}

	if len(first) != IDLength {
		t.Errorf("Expected hash length %d, got %d", IDLength, len(first))
	}
}

func TestHashURL_DifferentURLs(t *testing.T) {
	a := HashURL("https://site/p/a")
	b := HashURL("https://site/p/b")

	if a == b {
		t.Errorf("Expected different hashes for different URLs, both were %s", a)
	}
}

func TestHashURL_TrimsWhitespace(t *testing.T) {
	if HashURL("  https://site/p/a  ") != HashURL("https://site/p/a") {
		t.Error("Expected surrounding whitespace to be ignored")
	}
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://site/p/a?utm_source=x", "https://site/p/a"},
		{"https://site/p/a#section", "https://site/p/a"},
		{"https://site/p/a", "https://site/p/a"},
		{" https://site/p/a?x=1&y=2 ", "https://site/p/a"},
	}

	for _, tt := range tests {
		if got := CanonicalURL(tt.input); got != tt.expected {
			t.Errorf("CanonicalURL(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParseDate_SupportedFormats(t *testing.T) {
	tests := []struct {
		input string
		year  int
		month time.Month
		day   int
	}{
		{"Jan 29, 2026", 2026, time.January, 29},
		{"January 29, 2026", 2026, time.January, 29},
		{"2026-01-29", 2026, time.January, 29},
		{"29 Jan 2026", 2026, time.January, 29},
		{"29 January 2026", 2026, time.January, 29},
	}

	for _, tt := range tests {
		got := ParseDate(tt.input)
		if got == nil {
			t.Errorf("ParseDate(%q): expected a date, got nil", tt.input)
			continue
		}
		if got.Year() != tt.year || got.Month() != tt.month || got.Day() != tt.day {
			t.Errorf("ParseDate(%q): expected %d-%s-%d, got %v", tt.input, tt.year, tt.month, tt.day, got)
		}
		if got.Location() != time.UTC {
			t.Errorf("ParseDate(%q): expected UTC location, got %v", tt.input, got.Location())
		}
	}
}

func TestParseDate_MissingYearAssumesCurrent(t *testing.T) {
	got := ParseDate("FEB 5")
	if got == nil {
		t.Fatal("Expected 'FEB 5' to parse, got nil")
	}

	if got.Year() != time.Now().UTC().Year() {
		t.Errorf("Expected current year %d, got %d", time.Now().UTC().Year(), got.Year())
	}
	if got.Month() != time.February || got.Day() != 5 {
		t.Errorf("Expected February 5, got %s %d", got.Month(), got.Day())
	}
}

func TestParseDate_Unparseable(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "32 Foo 2026"} {
		if got := ParseDate(input); got != nil {
			t.Errorf("ParseDate(%q): expected nil, got %v", input, got)
		}
	}
}

func TestWithinLast24Hours(t *testing.T) {
	recent := time.Now().UTC().Add(-2 * time.Hour)
	if !WithinLast24Hours(&recent) {
		t.Error("Expected an instant 2 hours ago to be within 24 hours")
	}

	old := time.Now().UTC().Add(-3 * 24 * time.Hour)
	if WithinLast24Hours(&old) {
		t.Error("Expected an instant 3 days ago to be outside 24 hours")
	}

	if WithinLast24Hours(nil) {
		t.Error("Expected nil to never be recent")
	}
}

func TestWithinLastDays(t *testing.T) {
	threeDaysAgo := time.Now().UTC().Add(-3 * 24 * time.Hour)

	if !WithinLastDays(&threeDaysAgo, 7) {
		t.Error("Expected an instant 3 days ago to be within 7 days")
	}
	if WithinLastDays(&threeDaysAgo, 1) {
		t.Error("Expected an instant 3 days ago to be outside 1 day")
	}

	future := time.Now().UTC().Add(2 * time.Hour)
	if WithinLastDays(&future, 1) {
		t.Error("Expected a future instant to never be recent")
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  hello   world  ", "hello world"},
		{"one\n\ttwo", "one two"},
		{"", ""},
		{"   \t\n ", ""},
		{"already clean", "already clean"},
	}

	for _, tt := range tests {
		if got := Clean(tt.input); got != tt.expected {
			t.Errorf("Clean(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestTruncateSummary_WithinBudget(t *testing.T) {
	text := "short text"
	if got := TruncateSummary(text, 200); got != text {
		t.Errorf("Expected unchanged text, got %q", got)
	}
}

func TestTruncateSummary_CutsAtWordBoundary(t *testing.T) {
	text := strings.Repeat("word ", 100)

	got := TruncateSummary(text, 50)

	if len([]rune(got)) > 51 {
		t.Errorf("Expected at most 51 characters, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "…"), " ") {
		t.Errorf("Expected no trailing space before ellipsis, got %q", got)
	}
}

func TestTruncateSummary_CountsRunes(t *testing.T) {
	// 60 characters but 120 bytes; within a 100-character budget it
	// must pass through untouched.
	text := strings.Repeat("é", 60)
	if got := TruncateSummary(text, 100); got != text {
		t.Errorf("Expected multibyte text within budget unchanged, got %q", got)
	}
}

func TestTruncateSummary_MultibyteCut(t *testing.T) {
	text := strings.Repeat("日本語", 40)

	got := TruncateSummary(text, 100)

	if !utf8.ValidString(got) {
		t.Errorf("Expected valid UTF-8 output, got %q", got)
	}
	runes := []rune(got)
	if len(runes) > 101 {
		t.Errorf("Expected at most 101 characters, got %d", len(runes))
	}
	if runes[len(runes)-1] != '…' {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
}

func TestTruncateSummary_EmptyInput(t *testing.T) {
	if got := TruncateSummary("", 200); got != "" {
		t.Errorf("Expected empty output for empty input, got %q", got)
	}
	if got := TruncateSummary("   ", 200); got != "" {
		t.Errorf("Expected empty output for whitespace input, got %q", got)
	}
}
