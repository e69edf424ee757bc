package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

var askOutput string

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a question using published chunks",
	Long: `Retrieves the chunks most relevant to the question and asks a local
Ollama model to answer using them as context. Requires a running Ollama
server (see 'chunkforge config' for endpoint and model settings).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askOutput, "output", "o", "", "output directory holding published chunks")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := joinQuery(args)

	asker := newAsker(resolveOutputDir(askOutput))
	answer, err := asker.Ask(cmd.Context(), question)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No published chunks match that question. Run 'chunkforge process' first.")
			return nil
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Sources (%s):\n", answer.Model)
	for _, src := range answer.Sources {
		cmd.Printf("  - %s #%d\n", src.Chunk.DocName, src.Chunk.Index)
	}
	return nil
}
