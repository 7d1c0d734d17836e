package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ideagraph/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved idea sets",
	Long: `List saved idea sets, most recently modified first. The bracketed
number is the set's position in storage order, as taken by "delete --index".

Examples:
  ideagraph-cli list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshots, err := commands.NewListSnapshotsCommand(GetStore()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(snapshots) == 0 {
			fmt.Fprintln(out, "No saved idea sets.")
			return nil
		}
		for _, s := range snapshots {
			fmt.Fprintf(out, "[%d] %-30s %4d ideas  %s\n", s.StoreIndex, s.Title, s.IdeaCount, s.LastModified.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <title>",
	Short: "Show the ideas and connections of an idea set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewGetSnapshotCommand(GetStore(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		s := result.Snapshot
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", s.Title)
		fmt.Fprintf(out, "  created   %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  modified  %s\n", s.LastModified.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "\nIdeas (%d):\n", len(s.Nodes))
		labels := make(map[string]string, len(s.Nodes))
		for _, n := range s.Nodes {
			labels[n.ID] = n.Label
			fmt.Fprintf(out, "  (%g, %g)  %s\n", n.Position.X, n.Position.Y, n.Label)
		}
		if len(s.Edges) > 0 {
			fmt.Fprintf(out, "\nConnections (%d):\n", len(s.Edges))
			for _, e := range s.Edges {
				fmt.Fprintf(out, "  %s -> %s\n", endpoint(labels, e.Source), endpoint(labels, e.Target))
			}
		}
		for _, w := range result.Warnings {
			logger.Warn("dangling connection", "edge", w.EdgeID, "missing", w.Missing)
		}
		return nil
	},
}

// endpoint returns the label of a node, or its ID in brackets when missing
func endpoint(labels map[string]string, id string) string {
	if label, ok := labels[id]; ok {
		return label
	}
	return "[" + id + "]"
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
