package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"routereel/internal/config"
	"routereel/internal/logger"
)

var (
	cfgFile string
	verbose bool
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "routereel",
		Short: "Progressive-reveal animations of a year of tracks",
		Long: `routereel turns folders of recorded tracks into an animated map.

Each immediate subfolder of the data directory is one period (sorted by
name). Every frame draws one more track over a basemap while a stats panel
reports the period's and the cumulative distance from the configured table.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version == "dev" || version == "" {
				version = "development"
			}
			if commit == "none" || commit == "" {
				commit = "local-build"
			}
			if date == "unknown" || date == "" {
				date = "local-build"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "routereel %s (%s) built on %s\n", version, commit, date)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func isVerbose() bool {
	return verbose
}

func newLogger() *logger.Logger {
	return logger.NewWithCallback("cli", isVerbose)
}

// loadConfig reads configuration files and environment, then applies the
// data directory argument.
func loadConfig(args []string) (*config.Config, error) {
	loader := config.NewLoader()
	cfg, err := loader.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		newLogger().Debug("using config", logger.F("path", cfgFile))
	} else if path, ok := loader.FindConfigFile(); ok {
		newLogger().Debug("using config", logger.F("path", path))
	}
	if len(args) > 0 {
		cfg.Input.DataDir = args[0]
	}
	return cfg, nil
}
