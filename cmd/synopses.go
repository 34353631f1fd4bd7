package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainguard-dev/doc-suggester/core/blog"
	"github.com/chainguard-dev/doc-suggester/core/synopsis"
)

var synopsesCmd = &cobra.Command{
	Use:   "synopses",
	Short: "Fill in missing blog synopses",
	Long: `Generates retrieval synopses for archive posts that have no cached
entry. Posts already in the cache are left untouched.`,
	RunE: runSynopses,
}

func init() {
	rootCmd.AddCommand(synopsesCmd)
}

func runSynopses(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	posts, err := blog.ParseArchive(e.layout.ArchivePath())
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return fmt.Errorf("no blog archive at %s; run `doc-suggester refresh` first", e.layout.ArchivePath())
	}

	provider, err := e.synopsisProvider()
	if err != nil {
		return err
	}

	gen := &synopsis.Generator{
		Provider:    provider,
		Model:       e.cfg.Synopsis.Model,
		MaxTokens:   e.cfg.Synopsis.MaxTokens,
		Concurrency: e.cfg.Synopsis.Concurrency,
	}
	synopses, err := gen.Generate(cmd.Context(), e.layout.SynopsesPath(), posts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d synopses cached at %s\n", len(synopses), e.layout.SynopsesPath())
	return nil
}
