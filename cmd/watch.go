package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/importmend/core/cache"
	"github.com/tristendillon/importmend/core/logger"
	"github.com/tristendillon/importmend/core/remap"
	"github.com/tristendillon/importmend/core/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [source-root]",
	Short: "Fix imports, then keep fixing files as they are moved in",
	Long: `Runs a full fix pass, then watches the source root and rewrites files that are
created or edited (for example while directories are still being moved).
Files are only reprocessed when their content changed since the last pass.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("watch called")
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var root string
		if len(args) == 1 {
			root = args[0]
		}
		remapper, err := newRemapper(cmd, cfg, root)
		if err != nil {
			return err
		}

		inc := remap.NewIncremental(remapper, cache.NewContentCache())
		fw, err := watcher.NewFileWatcher(remapper.Root(), remapper.Walker())
		if err != nil {
			return err
		}

		fw.FileWatcher.AddOnStartFunc(func() error {
			summary, err := inc.Prime()
			if err != nil {
				return err
			}
			logger.Info("Watching %s (fixed %d of %d files)", remapper.Root(), summary.Fixed, summary.Scanned)
			return nil
		})
		fw.FileWatcher.AddOnChangeFunc(func(paths []string) error {
			summary := inc.Process(paths)
			if summary.Failed() > 0 {
				return fmt.Errorf("%d files could not be rewritten", summary.Failed())
			}
			return nil
		})

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigs)
		go func() {
			<-sigs
			logger.Info("Stopping watcher")
			fw.Close()
		}()

		return fw.Watch()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
