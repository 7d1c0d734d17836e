package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ideagraph/internal/application/commands"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show storage used against the 5 MiB limit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewUsageCommand(GetStore()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		if result.NearlyFull {
			logger.Warn("storage nearly full, delete some idea sets")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}
