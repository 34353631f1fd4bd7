package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainguard-dev/doc-suggester/core/blog"
	"github.com/chainguard-dev/doc-suggester/core/docs"
	"github.com/chainguard-dev/doc-suggester/core/labs"
	"github.com/chainguard-dev/doc-suggester/core/refresh"
	"github.com/chainguard-dev/doc-suggester/core/suggest"
	"github.com/chainguard-dev/doc-suggester/core/synopsis"
)

var (
	flagNotesFile string
	flagFormat    string
	flagRefresh   bool
	flagNoRefresh bool
)

func init() {
	rootCmd.Args = cobra.MaximumNArgs(1)
	rootCmd.RunE = runSuggest
	rootCmd.Flags().StringVarP(&flagNotesFile, "notes-file", "f", "", "read notes from a file")
	rootCmd.Flags().StringVar(&flagFormat, "format", "md", "output format: md or email")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force a data refresh before suggesting")
	rootCmd.Flags().BoolVar(&flagNoRefresh, "no-refresh", false, "skip the staleness check and refresh")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	notes, err := readNotes(args)
	if err != nil {
		return err
	}

	format, err := suggest.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	if !flagNoRefresh {
		refreshData(ctx, e, flagRefresh)
	}

	posts, err := blog.ParseArchive(e.layout.ArchivePath())
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return fmt.Errorf("no blog archive at %s; run `doc-suggester refresh` first", e.layout.ArchivePath())
	}
	slog.Info("loaded blog archive", "posts", len(posts))

	labEntries, err := labs.Load(e.layout.CatalogPath())
	if err != nil {
		return err
	}
	slog.Info("loaded labs catalog", "labs", len(labEntries))

	synopses := generateSynopses(ctx, e, posts)

	docsClient, err := docs.Open(ctx, e.cfg.Docs.Image)
	if err != nil {
		return fmt.Errorf("docs server: %w", err)
	}
	defer docsClient.Close()

	provider, err := e.suggestProvider()
	if err != nil {
		return err
	}

	engine := suggest.NewEngine(provider, docsClient, posts, labEntries, synopses)
	engine.Model = e.cfg.Suggest.Model
	engine.MaxTurns = e.cfg.Suggest.MaxTurns
	engine.MaxTokens = e.cfg.Suggest.MaxTokens

	result, err := engine.Run(ctx, notes, format)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

// refreshData brings the archive and catalog up to date. Failures are
// logged; a stale archive still beats no recommendations.
func refreshData(ctx context.Context, e *env, force bool) {
	runner := refresh.NewRunner(e.layout)
	now := time.Now()

	if force || blog.Stale(e.layout, e.cfg.Blogs.StaleDays, now) {
		slog.Info("refreshing blog archive")
		if err := runner.Blogs(ctx, force); err != nil {
			slog.Warn("blog refresh failed; continuing with existing archive", "error", err)
		}
	}

	if force || labs.Stale(e.layout.CatalogPath(), e.cfg.Labs.StaleDays, now) {
		slog.Info("refreshing labs catalog")
		if err := runner.Labs(ctx, force); err != nil {
			slog.Warn("labs refresh failed; continuing with existing catalog", "error", err)
		}
	}
}

// generateSynopses fills the synopsis cache. On failure the suggestion
// still runs with raw excerpts.
func generateSynopses(ctx context.Context, e *env, posts []blog.Post) map[string]string {
	provider, err := e.synopsisProvider()
	if err != nil {
		slog.Warn("synopsis provider unavailable; using raw excerpts", "error", err)
		return synopsis.Load(e.layout.SynopsesPath())
	}

	gen := &synopsis.Generator{
		Provider:    provider,
		Model:       e.cfg.Synopsis.Model,
		MaxTokens:   e.cfg.Synopsis.MaxTokens,
		Concurrency: e.cfg.Synopsis.Concurrency,
	}
	synopses, err := gen.Generate(ctx, e.layout.SynopsesPath(), posts)
	if err != nil {
		slog.Warn("synopsis generation failed; using partial cache", "error", err)
	}
	return synopses
}

// readNotes resolves the notes source: positional argument, file, or stdin.
func readNotes(args []string) (string, error) {
	var notes string
	switch {
	case flagNotesFile != "":
		data, err := os.ReadFile(flagNotesFile)
		if err != nil {
			return "", fmt.Errorf("read notes file: %w", err)
		}
		notes = string(data)
	case len(args) == 1:
		notes = args[0]
	default:
		if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no notes provided; pass them as an argument, --notes-file, or stdin")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read notes from stdin: %w", err)
		}
		notes = string(data)
	}

	notes = strings.TrimSpace(notes)
	if notes == "" {
		return "", fmt.Errorf("no notes provided")
	}
	return notes, nil
}
