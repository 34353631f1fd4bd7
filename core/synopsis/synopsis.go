// Package synopsis maintains the per-post retrieval synopsis cache.
package synopsis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/chainguard-dev/doc-suggester/core/blog"
	"github.com/chainguard-dev/doc-suggester/core/providers"
)

const (
	promptContentLimit = 3000
)

const synopsisPrompt = `Generate an information-retrieval synopsis for this Chainguard blog post.
Output ONLY the synopsis — no preamble or explanation.
Format: semicolon-separated key topics, technologies, problems addressed, and use cases.
Target: 100–150 characters.

Title: %s

Content:
%s`

// Load reads the synopsis cache, keyed by slug. Missing or corrupt files
// yield an empty cache.
func Load(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]string{}
	}
	synopses := map[string]string{}
	if err := json.Unmarshal(data, &synopses); err != nil {
		return map[string]string{}
	}
	return synopses
}

// Save writes the full cache. encoding/json sorts map keys, so the file
// stays stable across runs.
func Save(path string, synopses map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("synopsis cache dir: %w", err)
	}
	data, err := json.MarshalIndent(synopses, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Generator produces synopses for posts that lack a cached entry.
type Generator struct {
	Provider    providers.Provider
	Model       string
	MaxTokens   int
	Concurrency int
}

// Generate fills in missing synopses under a bounded-concurrency fan-out
// and rewrites the cache once the batch completes. Individual LLM
// failures are logged and their entries omitted. Returns the full cache
// (existing plus newly generated). When nothing is missing, no LLM calls
// are made and the cache file is untouched.
func (g *Generator) Generate(ctx context.Context, cachePath string, posts []blog.Post) (map[string]string, error) {
	synopses := Load(cachePath)

	var missing []blog.Post
	for _, p := range posts {
		if _, ok := synopses[blog.Slug(p.URL)]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return synopses, nil
	}

	slog.Info("generating synopses", "count", len(missing))

	concurrency := g.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for _, post := range missing {
		eg.Go(func() error {
			slug := blog.Slug(post.URL)
			text, err := g.generateOne(ctx, post)
			if err != nil {
				// Context cancellation aborts the batch; anything else
				// is a per-post failure to skip.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.Warn("synopsis generation failed", "slug", slug, "error", err)
				return nil
			}
			mu.Lock()
			synopses[slug] = text
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return synopses, err
	}

	if err := Save(cachePath, synopses); err != nil {
		return synopses, fmt.Errorf("save synopses: %w", err)
	}
	return synopses, nil
}

func (g *Generator) generateOne(ctx context.Context, post blog.Post) (string, error) {
	content := truncate(post.FullContent, promptContentLimit)

	resp, err := g.Provider.Complete(ctx, &providers.Request{
		Model:     g.Model,
		MaxTokens: g.MaxTokens,
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: fmt.Sprintf(synopsisPrompt, post.Title, content)},
		},
	})
	if err != nil {
		return "", err
	}
	if resp.Content == "" {
		return "", errors.New("empty synopsis response")
	}
	return resp.Content, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
