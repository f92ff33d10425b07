/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/importmend/core/logger"
	"github.com/tristendillon/importmend/core/remap"
)

var dryRun bool

var fixCmd = &cobra.Command{
	Use:   "fix [source-root]",
	Short: "Rewrite relative imports under the source root",
	Long: `Walks the source root and rewrites every relative import that pointed into a
moved directory. Prints "Fixed <path>" for each file it changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func runFix(cmd *cobra.Command, args []string) error {
	logger.Debug("fix called")
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var root string
	if len(args) == 1 {
		root = args[0]
	}

	remapper, err := newRemapper(cmd, cfg, root, remap.WithDryRun(dryRun))
	if err != nil {
		return err
	}

	summary, err := remapper.Run()
	if err != nil {
		return err
	}

	if summary.Failed() > 0 {
		return fmt.Errorf("%d of %d files could not be rewritten", summary.Failed(), summary.Scanned)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing files")
}
