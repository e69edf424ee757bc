package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	configfile "github.com/chunkforge/chunkforge/internal/adapters/driven/config/file"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/services"
)

var (
	searchLimit  int
	searchOutput string
)

// snippetWindow is how many characters of context surround the first
// match in a result snippet.
const snippetWindow = 120

var (
	matchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	sourceStyle = lipgloss.NewStyle().Faint(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search published chunks",
	Long: `Performs keyword search over the published chunks using whole-word
term-frequency scoring. Results reflect whatever the last process run
published.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "output directory holding published chunks")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := joinQuery(args)

	limit := searchLimit
	if limit <= 0 {
		limit = configInt(configfile.KeySearchLimit, services.DefaultSearchLimit)
	}

	searcher := newSearcher(resolveOutputDir(searchOutput))
	results, err := searcher.Search(cmd.Context(), query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	terms := strings.Fields(strings.ToLower(query))
	cmd.Printf("Results for %q:\n\n", query)
	for i, r := range results {
		cmd.Printf("  [%d] %s %s\n", i+1,
			sourceStyle.Render(fmt.Sprintf("%s #%d", r.Chunk.DocName, r.Chunk.Index)),
			scoreStyle.Render(fmt.Sprintf("(%.0f)", r.Score)))
		cmd.Printf("      %s\n\n", highlight(snippet(r.Chunk, terms), terms))
	}
	return nil
}

// snippet returns a context window around the first matching term, or
// the chunk head when nothing matches verbatim.
func snippet(chunk domain.Chunk, terms []string) string {
	text := strings.Join(strings.Fields(chunk.Text), " ")
	lower := strings.ToLower(text)

	pos := -1
	for _, term := range terms {
		if i := strings.Index(lower, term); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}
	if pos < 0 {
		pos = 0
	}

	start := pos - snippetWindow/2
	if start < 0 {
		start = 0
	}
	end := start + snippetWindow
	if end > len(text) {
		end = len(text)
	}

	out := text[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}

// highlight renders every whole-word term occurrence in bold.
func highlight(text string, terms []string) string {
	for _, term := range terms {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			continue
		}
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			return matchStyle.Render(m)
		})
	}
	return text
}
