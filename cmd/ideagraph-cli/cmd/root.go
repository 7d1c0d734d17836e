package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ideagraph/internal/application"
	"ideagraph/internal/bootstrap"
	"ideagraph/internal/config"
	"ideagraph/internal/logging"
)

var (
	configPath string
	dataDir    string
	verbose    bool
	svc        *bootstrap.Services
	logger     *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ideagraph-cli",
	Short: "Manage saved idea graphs from the command line",
	Long: `ideagraph-cli manages the idea sets saved by the ideagraph canvas.

It lists, shows, saves, deletes and restores idea sets, reports storage
usage against the 5 MiB limit, and searches ideas across every saved set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = config.ExpandHome(dataDir)
		}

		level := logging.Level(cfg.LogLevel)
		if verbose {
			level = log.DebugLevel
		} else if level < log.WarnLevel {
			level = log.WarnLevel
		}
		logger = logging.New(os.Stderr, level)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

		// A previous run in the same process may have failed before cleanup
		if svc != nil {
			svc.Close()
		}
		svc, err = bootstrap.Open(cfg, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		err := svc.Close()
		svc = nil
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, application.UserMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ideagraph/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "directory holding saved idea sets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// GetStore returns the initialized catalog
func GetStore() *application.Catalog {
	return svc.Catalog
}
