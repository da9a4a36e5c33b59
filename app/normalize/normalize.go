// Package normalize holds the pure helpers shared by all scrapers:
// URL-derived identifiers, best-effort date parsing, text cleanup and
// recency checks. Nothing here performs I/O.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// IDLength is the number of hex characters kept from the SHA-256 digest.
// 16 hex chars (64 bits) keeps collision odds negligible for a corpus of
// a few thousand URLs while staying short enough for URLs and log lines.
const IDLength = 16

// HashURL derives the stable article identifier from a canonical URL.
// Same URL always yields the same ID.
func HashURL(url string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:])[:IDLength]
}

// CanonicalURL strips the query string and fragment from a URL. Identity
// and dedup are based on the canonical form.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// dateLayouts are tried in order; first match wins. Layouts without a
// year get the current calendar year.
var dateLayouts = []string{
	"Jan 2, 2006",
	"Jan 2",
	"January 2, 2006",
	"January 2",
	"2006-01-02",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate attempts to parse a free-text date from the formats seen in
// newsletter markup. Returns a UTC instant, or nil when no layout
// matches.
func ParseDate(s string) *time.Time {
	cleaned := normalizeMonthCase(strings.TrimSpace(s))
	if cleaned == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, cleaned, time.UTC)
		if err != nil {
			continue
		}
		if !strings.Contains(layout, "2006") {
			t = time.Date(time.Now().UTC().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &t
	}

	return nil
}

// normalizeMonthCase rewrites "FEB 5" or "january 2" so the month name
// matches Go's reference layout casing.
func normalizeMonthCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if f == "" || !unicode.IsLetter(rune(f[0])) {
			continue
		}
		fields[i] = strings.ToUpper(f[:1]) + strings.ToLower(f[1:])
	}
	return strings.Join(fields, " ")
}

// WithinLast24Hours reports whether t falls inside the last 24 hours.
// A nil or zero instant is never recent.
func WithinLast24Hours(t *time.Time) bool {
	return WithinLastDays(t, 1)
}

// WithinLastDays reports whether t falls inside the last N days.
// Future instants are deliberately not recent: a clock-skewed or
// mis-parsed date must not pin an article to the top as "new".
func WithinLastDays(t *time.Time, days int) bool {
	if t == nil || t.IsZero() {
		return false
	}
	age := time.Now().UTC().Sub(t.UTC())
	return age >= 0 && age <= time.Duration(days)*24*time.Hour
}

// Clean collapses consecutive whitespace into single spaces and trims
// the ends. Whitespace-only input becomes the empty string, which
// callers treat as absent.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateSummary shortens text to at most maxLen characters, cutting at
// the last word boundary and appending an ellipsis. The budget counts
// runes, not bytes, so multibyte text is never split mid-character.
// Empty input stays empty.
func TruncateSummary(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	cut := string([]rune(text)[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
