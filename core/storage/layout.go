package storage

import "path/filepath"

// Layout names the persisted files under a data root. The scraper and llgen
// write into output/; the synopsis cache lives alongside their artifacts so
// a single directory holds everything one suggestion run reads.
type Layout struct {
	Root string

	// Cache holds llgen's regenerable working files. Defaults under
	// Root; the CLI points it at the platform cache directory.
	Cache string
}

func NewLayout(root string) *Layout {
	return &Layout{Root: root, Cache: filepath.Join(root, "llgen-cache")}
}

func (l *Layout) OutputDir() string {
	return filepath.Join(l.Root, "output")
}

// ArchivePath is the combined markdown file of scraped blog posts.
func (l *Layout) ArchivePath() string {
	return filepath.Join(l.OutputDir(), "unchained-archive.md")
}

// CheckpointPath is the scraper's per-post metadata file, keyed by slug.
func (l *Layout) CheckpointPath() string {
	return filepath.Join(l.OutputDir(), "checkpoint.json")
}

// CatalogPath is the labs catalog written by llgen.
func (l *Layout) CatalogPath() string {
	return filepath.Join(l.OutputDir(), "labs-catalog.json")
}

// SynopsesPath is the blog synopsis cache.
func (l *Layout) SynopsesPath() string {
	return filepath.Join(l.OutputDir(), "blog-synopses.json")
}

// LLGenCacheDir is llgen's working cache.
func (l *Layout) LLGenCacheDir() string {
	return l.Cache
}

// DecksDir holds slide decks llgen collects lab metadata from.
func (l *Layout) DecksDir() string {
	return filepath.Join(l.Root, "decks")
}
