package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ideagraph/internal/application/commands"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search ideas across all saved idea sets",
	Long: `Search idea labels and idea set titles. Results are ranked by how
closely they match.

Examples:
  ideagraph-cli search garden
  ideagraph-cli search "compost bin" --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := commands.NewSearchCommand(svc.Searcher(), args[0], searchLimit).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found.")
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(out, "%-30s %s\n", r.Title, r.Label)
		}
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from saved idea sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := GetStore().Reindex()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d idea sets (%d ideas) in %s\n",
			stats.SnapshotsIndexed, stats.IdeasIndexed, stats.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", commands.DefaultSearchLimit, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(reindexCmd)
}
