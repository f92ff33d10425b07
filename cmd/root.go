/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/importmend/core/config"
	"github.com/tristendillon/importmend/core/logger"
	"github.com/tristendillon/importmend/core/remap"
)

var rootCmd = &cobra.Command{
	Use:   "importmend",
	Short: "Rewrites relative imports after a directory-structure migration.",
	Long: `importmend fixes relative import paths in .ts, .tsx, .js, .jsx and .css files
after directories were moved from a flat layout into a layered one.

Each file's old location is recovered from the rename table, every relative
import is resolved the way it used to resolve, and the import is pointed at
where its target lives now.

Running importmend with no command is the same as "importmend fix".`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: closeLogging,
	Args:              cobra.NoArgs,
	RunE:              runFix,
}

var logfile string
var verbose bool
var configPath string

var logFile *os.File

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./"+config.FileName+" if present)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing files")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(verbose)
	logger.SetErrorWriter()
	if logfile == "" {
		return nil
	}

	f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logfile, err)
	}
	logFile = f
	logger.AddWriterForAll(f)
	return nil
}

func closeLogging(cmd *cobra.Command, args []string) {
	if logFile != nil {
		logFile.Close()
		logFile = nil
		logger.SetWriterForAll(os.Stdout)
		logger.SetErrorWriter()
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default config: %w", err)
	}
	return cfg, nil
}

// newRemapper builds a remapper from the loaded config. A non-empty root
// overrides the configured source root.
func newRemapper(cmd *cobra.Command, cfg *config.Config, root string, opts ...remap.Option) (*remap.Remapper, error) {
	if root == "" {
		abs, err := cfg.SourceRootAbs()
		if err != nil {
			return nil, err
		}
		root = abs
	}

	table := cfg.RenameTable()
	opts = append([]remap.Option{
		remap.WithOutput(cmd.OutOrStdout()),
		remap.WithExtensions(cfg.Extensions),
		remap.WithExcludes(cfg.Exclude),
	}, opts...)

	return remap.New(root, table, opts...)
}
