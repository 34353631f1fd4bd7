package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chainguard-dev/doc-suggester/core/refresh"
)

var (
	flagRefreshForce bool
	flagRefreshBlogs bool
	flagRefreshLabs  bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the blog archive and labs catalog",
	Long: `Runs the scraper and llgen binaries to rebuild the local data.
With no selector flags, both sources are refreshed.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&flagRefreshForce, "force", false, "rebuild even if the data is fresh")
	refreshCmd.Flags().BoolVar(&flagRefreshBlogs, "blogs", false, "refresh only the blog archive")
	refreshCmd.Flags().BoolVar(&flagRefreshLabs, "labs", false, "refresh only the labs catalog")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	both := !flagRefreshBlogs && !flagRefreshLabs
	runner := refresh.NewRunner(e.layout)

	if both || flagRefreshBlogs {
		if err := runner.Blogs(cmd.Context(), flagRefreshForce); err != nil {
			return err
		}
	}
	if both || flagRefreshLabs {
		if err := runner.Labs(cmd.Context(), flagRefreshForce); err != nil {
			return err
		}
	}
	return nil
}
