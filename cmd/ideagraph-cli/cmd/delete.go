package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ideagraph/internal/application/commands"
)

var deleteIndex int

var deleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Delete an idea set",
	Long: `Delete an idea set by title, or by its position in storage order with
--index. The deleted set is kept so "undo" can bring it back; deleting
again replaces what undo would restore.

Examples:
  ideagraph-cli delete "Garden plans"
  ideagraph-cli delete --index 0`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		byIndex := cmd.Flags().Changed("index")

		var del *commands.DeleteSnapshotCommand
		switch {
		case byIndex && len(args) == 0:
			del = commands.NewDeleteAtCommand(GetStore(), deleteIndex)
		case !byIndex && len(args) == 1:
			del = commands.NewDeleteSnapshotCommand(GetStore(), args[0])
		default:
			return errors.New("give either a title or --index")
		}

		result, err := del.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the most recently deleted idea set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRestoreCommand(GetStore()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	deleteCmd.Flags().IntVarP(&deleteIndex, "index", "i", 0, "position in storage order (0-based)")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(undoCmd)
}
