package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"ideagraph/internal/application/commands"
)

var exportClipboard bool

var exportCmd = &cobra.Command{
	Use:   "export <title>",
	Short: "Print an idea set as JSON",
	Long: `Print an idea set in its stored JSON form, or copy it to the clipboard.

Examples:
  ideagraph-cli export "Garden plans" > plans.json
  ideagraph-cli export "Garden plans" --clipboard`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewGetSnapshotCommand(GetStore(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(result.Snapshot, "", "  ")
		if err != nil {
			return err
		}

		if exportClipboard {
			if err := clipboard.WriteAll(string(data)); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %q to clipboard\n", result.Snapshot.Title)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVarP(&exportClipboard, "clipboard", "c", false, "copy to the clipboard instead of printing")
	rootCmd.AddCommand(exportCmd)
}
