package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/chunkforge/chunkforge/internal/adapters/driven/config/file"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/scanner/filesystem"
	"github.com/chunkforge/chunkforge/internal/chunker"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
	"github.com/chunkforge/chunkforge/internal/logger"
)

var (
	watchOutput   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and process changes",
	Long: `Runs an initial processing pass over the directory, then keeps watching
it. When supported documents are created or modified, an incremental
run is triggered after changes settle. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce, "settle time before a change triggers a run")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	inputDir := resolveInputDir(args)
	outDir := resolveOutputDir(watchOutput)

	pipeline, cleanup, err := newPipeline(outDir, configString(configfile.KeyCollectionName, ""))
	if err != nil {
		return fmt.Errorf("initialising pipeline: %w", err)
	}
	defer cleanup() //nolint:errcheck // Close error on exit is not actionable

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func(ctx context.Context) error {
		opts := driving.RunOptions{
			InputDir:     inputDir,
			ChunkSize:    configInt(configfile.KeyChunkSize, chunker.DefaultChunkSize),
			ChunkOverlap: configInt(configfile.KeyChunkOverlap, chunker.DefaultChunkOverlap),
		}
		report, err := pipeline.Run(ctx, opts)
		if err != nil {
			return err
		}
		if report.Processed > 0 || report.Failed > 0 {
			cmd.Printf("%s: %d processed, %d skipped, %d failed\n",
				time.Now().Format("15:04:05"), report.Processed, report.Skipped, report.Failed)
		}
		return nil
	}

	cmd.Printf("Watching %s (initial pass first, Ctrl-C to stop)\n", inputDir)
	if err := runOnce(ctx); err != nil {
		return fmt.Errorf("initial run failed: %w", err)
	}

	scanner := filesystem.New(supportedExtensions(defaultExtractors()), scanExclusions(outDir)...)
	watcher := filesystem.NewWatcher(scanner, watchDebounce)

	err = watcher.Watch(ctx, inputDir, func(ctx context.Context) error {
		if err := runOnce(ctx); err != nil {
			logger.Warn("run after change failed: %v", err)
		}
		return nil
	})
	if err != nil && ctx.Err() != nil {
		// Interrupted by the user; a clean stop.
		cmd.Println("\nStopped.")
		return nil
	}
	return err
}
