package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ideagraph/internal/application/commands"
	"ideagraph/internal/domain"
)

var saveTitle string

var saveCmd = &cobra.Command{
	Use:   "save <graph.json|->",
	Short: "Save a graph as an idea set",
	Long: `Save a graph read from a JSON file, or from stdin when the argument is "-".

The file holds {"nodes": [...], "edges": [...]}; an exported idea set also
works. Saving under an existing title replaces that idea set. Without
--title the idea set is named "idea set N".

Examples:
  ideagraph-cli save plans.json --title "Garden plans"
  ideagraph-cli export "Garden plans" | ideagraph-cli save - --title copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		graph, err := domain.ParseGraph(data)
		if err != nil {
			return err
		}

		result, err := commands.NewSaveSnapshotCommand(GetStore(), graph.Nodes, graph.Edges, saveTitle).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		if result.Warning != "" {
			logger.Warn(result.Warning)
		}
		return nil
	},
}

func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(arg)
}

func init() {
	saveCmd.Flags().StringVarP(&saveTitle, "title", "t", "", "title for the idea set")
	rootCmd.AddCommand(saveCmd)
}
