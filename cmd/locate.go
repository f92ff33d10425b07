package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/importmend/core/logger"
)

var locateCmd = &cobra.Command{
	Use:   "locate <file>...",
	Short: "Print where files lived before the migration",
	Long: `Prints "<file> -> <old path>" for each file, using the rename table. Files
outside every renamed directory map to themselves.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("locate called")
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		remapper, err := newRemapper(cmd, cfg, "")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", arg, err)
			}
			fmt.Fprintf(out, "%s -> %s\n", abs, remapper.LocateOldPath(abs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
