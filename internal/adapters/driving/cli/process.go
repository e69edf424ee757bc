package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/chunkforge/chunkforge/internal/adapters/driven/config/file"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/sinks/collection"
	"github.com/chunkforge/chunkforge/internal/chunker"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
	"github.com/chunkforge/chunkforge/internal/logger"
)

var (
	processForce          bool
	processSkipCollection bool
	processChunkSize      int
	processChunkOverlap   int
	processOutput         string
)

var processCmd = &cobra.Command{
	Use:   "process [dir]",
	Short: "Process documents into chunked outputs",
	Long: `Scans the input directory for supported documents, extracts their text,
splits it into fixed-size overlapping chunks, and publishes the chunk
set to every output format. Documents whose content is unchanged since
the last run are skipped; use --force to reprocess everything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVarP(&processForce, "force", "f", false, "reprocess documents even if unchanged")
	processCmd.Flags().BoolVar(&processSkipCollection, "skip-collection", false, "skip the consolidated collection output")
	processCmd.Flags().IntVar(&processChunkSize, "chunk-size", 0, "chunk size in characters")
	processCmd.Flags().IntVar(&processChunkOverlap, "chunk-overlap", -1, "overlap between chunks in characters")
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output directory")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	inputDir := resolveInputDir(args)
	outDir := resolveOutputDir(processOutput)

	size := processChunkSize
	if size <= 0 {
		size = configInt(configfile.KeyChunkSize, chunker.DefaultChunkSize)
	}
	overlap := processChunkOverlap
	if overlap < 0 {
		overlap = configInt(configfile.KeyChunkOverlap, chunker.DefaultChunkOverlap)
	}

	collectionName := configString(configfile.KeyCollectionName, "")
	pipeline, cleanup, err := newPipeline(outDir, collectionName)
	if err != nil {
		return fmt.Errorf("initialising pipeline: %w", err)
	}
	defer cleanup() //nolint:errcheck // Close error on exit is not actionable

	var skip []string
	if processSkipCollection {
		skip = append(skip, collection.SinkName)
	}

	opts := driving.RunOptions{
		InputDir:     inputDir,
		ChunkSize:    size,
		ChunkOverlap: overlap,
		Force:        processForce,
		SkipSinks:    skip,
		Progress: func(p domain.Progress) {
			if p.Err != nil {
				// Failures are rendered in the report.
				return
			}
			logger.Stage(p.Name, string(p.Stage))
		},
	}

	report, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printReport(cmd, report)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", report.Failed, report.Scanned)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *domain.RunReport) {
	for _, doc := range report.Documents {
		switch doc.Status {
		case domain.StatusProcessed:
			cmd.Printf("  [ok]   %s (%d pages, %d chunks)\n", doc.Name, doc.Pages, doc.Chunks)
		case domain.StatusSkipped:
			cmd.Printf("  [skip] %s (unchanged)\n", doc.Name)
		case domain.StatusFailed:
			cmd.Printf("  [fail] %s: %s\n", doc.Name, doc.Err)
		}
	}
	if len(report.Documents) > 0 {
		cmd.Println()
	}

	cmd.Println("Summary")
	cmd.Println("=======")
	cmd.Printf("  Scanned:   %d\n", report.Scanned)
	cmd.Printf("  Processed: %d\n", report.Processed)
	cmd.Printf("  Skipped:   %d\n", report.Skipped)
	cmd.Printf("  Failed:    %d\n", report.Failed)
	cmd.Printf("  Duration:  %s\n", report.Duration.Round(time.Millisecond))
}
