package blog

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/chainguard-dev/doc-suggester/core/storage"
)

// CheckpointEntry mirrors the scraper's per-post metadata.
type CheckpointEntry struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Date      string `json:"date"`
	ScrapedAt string `json:"scraped_at"`
}

var dateFormats = []string{
	"January 2, 2006",
	"January 2 2006",
	"2006-01-02",
	time.RFC3339,
}

// ParseDate parses a post date like "January 5, 2024". The scraper may
// also emit ISO dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// MostRecentDate returns the newest parseable post date in the checkpoint.
func MostRecentDate(checkpointPath string) (time.Time, bool) {
	data, err := os.ReadFile(checkpointPath)
	if err != nil {
		return time.Time{}, false
	}

	var cp map[string]CheckpointEntry
	if err := json.Unmarshal(data, &cp); err != nil {
		return time.Time{}, false
	}

	var mostRecent time.Time
	found := false
	for _, entry := range cp {
		if entry.Date == "" {
			continue
		}
		if t, ok := ParseDate(entry.Date); ok && (!found || t.After(mostRecent)) {
			mostRecent = t
			found = true
		}
	}
	return mostRecent, found
}

// Stale reports whether the archive is missing or its newest post is
// older than staleDays.
func Stale(layout *storage.Layout, staleDays int, now time.Time) bool {
	if _, err := os.Stat(layout.ArchivePath()); err != nil {
		return true
	}
	mostRecent, ok := MostRecentDate(layout.CheckpointPath())
	if !ok {
		return true
	}
	age := now.Sub(mostRecent)
	return int(age.Hours()/24) > staleDays
}
