package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mushaftools/ayamark/internal/config"
	"github.com/mushaftools/ayamark/internal/logger"
)

const appName = "ayamark"

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// loadConfig reads the config file named by --config and installs the
// logger. Shared by every subcommand.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	logger.Init(cfg.Log.Level)
	return cfg, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Generate aya marker position data from mushaf page scans",
		Long: appName + " scans the 604 pages of a printed mushaf, locates the " +
			"circular end-of-verse markers on each page, and emits normalized " +
			"marker positions (data.csv) and per-verse highlight regions " +
			"(data_verse.csv).",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "ayamark.toml", "Path to the TOML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newVersesCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", appName, Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
		},
	}
}
