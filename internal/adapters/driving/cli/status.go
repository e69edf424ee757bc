package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show processed documents",
	Long: `Lists every document the registry knows: when it was processed, its
content hash, and how many pages and chunks it produced.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var forgetCmd = &cobra.Command{
	Use:   "forget [name]",
	Short: "Forget a processed document",
	Long: `Drops a document's registry record so the next run reprocesses it,
regardless of whether its content changed. The published outputs are
left in place until that run replaces them.`,
	Args: cobra.ExactArgs(1),
	RunE: runForget,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(forgetCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	registry, cleanup, err := newRegistry()
	if err != nil {
		return fmt.Errorf("opening registry: %w", err)
	}
	defer cleanup() //nolint:errcheck // Close error on exit is not actionable

	records, err := registry.Records(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing registry: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No documents processed yet.")
		return nil
	}

	cmd.Printf("Processed documents (%d):\n\n", len(records))
	for _, rec := range records {
		cmd.Printf("  %s\n", rec.Name)
		cmd.Printf("    path:      %s\n", rec.Path)
		cmd.Printf("    sha256:    %.12s\n", rec.Fingerprint.SHA256)
		cmd.Printf("    size:      %d bytes\n", rec.Fingerprint.Size)
		cmd.Printf("    pages:     %d\n", rec.Pages)
		cmd.Printf("    chunks:    %d\n", rec.Chunks)
		cmd.Printf("    processed: %s\n\n", rec.ProcessedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

func runForget(cmd *cobra.Command, args []string) error {
	registry, cleanup, err := newRegistry()
	if err != nil {
		return fmt.Errorf("opening registry: %w", err)
	}
	defer cleanup() //nolint:errcheck // Close error on exit is not actionable

	name := args[0]
	if err := registry.Forget(cmd.Context(), name); err != nil {
		return fmt.Errorf("forgetting %s: %w", name, err)
	}

	cmd.Printf("Forgot %s; the next run will reprocess it.\n", name)
	return nil
}
