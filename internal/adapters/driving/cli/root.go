// Package cli implements the chunkforge command-line interface.
package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/chunkforge/chunkforge/internal/adapters/driven/config/file"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/extractors/office"
	pdfextractor "github.com/chunkforge/chunkforge/internal/adapters/driven/extractors/pdf"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/llm/ollama"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/registry/sqlite"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/scanner/filesystem"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/sinks/collection"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/sinks/docstore"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/sinks/jsonl"
	"github.com/chunkforge/chunkforge/internal/chunker"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
	"github.com/chunkforge/chunkforge/internal/core/services"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Output directory layout, matching the published artifact kinds.
const (
	docsSubdir       = "docs"
	retrievalSubdir  = "ollama"
	collectionSubdir = "openwebui"

	// DefaultOutputDir is where artifacts land when nothing else is
	// configured.
	DefaultOutputDir = "processed_docs"
)

var verbose bool

// Services used by the commands. Tests replace the factories below with
// fakes; production wiring happens lazily so flags and config are
// resolved first.
var (
	configStore driven.ConfigStore

	newPipeline = buildPipeline
	newSearcher = buildSearcher
	newAsker    = buildAsker
	newRegistry = buildRegistry
)

var rootCmd = &cobra.Command{
	Use:   "chunkforge",
	Short: "Incremental document chunking pipeline",
	Long: `Chunkforge converts local documents (PDF, DOCX, ODT, RTF, TXT) into
chunked outputs ready for retrieval systems: per-document text and
metadata, JSONL retrieval files, and a consolidated importable
collection. Unchanged documents are skipped on re-runs.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// config returns the TOML config store, loading it on first use. A
// missing or unreadable config is not fatal; flags and defaults apply.
func config() driven.ConfigStore {
	if configStore != nil {
		return configStore
	}
	store, err := configfile.NewConfigStore("")
	if err != nil {
		logger.Warn("config unavailable: %v", err)
		return nil
	}
	configStore = store
	return configStore
}

// configString resolves a string setting with a fallback.
func configString(key, fallback string) string {
	if c := config(); c != nil {
		if v := c.GetString(key); v != "" {
			return v
		}
	}
	return fallback
}

// configInt resolves an integer setting with a fallback.
func configInt(key string, fallback int) int {
	if c := config(); c != nil {
		if v := c.GetInt(key); v > 0 {
			return v
		}
	}
	return fallback
}

func defaultExtractors() []driven.Extractor {
	return []driven.Extractor{pdfextractor.New(), office.New()}
}

func supportedExtensions(extractors []driven.Extractor) []string {
	var exts []string
	for _, e := range extractors {
		exts = append(exts, e.Extensions()...)
	}
	return exts
}

// scanExclusions lists the directories the scanner must skip so the
// pipeline never re-ingests its own artifacts. The artifact
// subdirectories are listed individually for the case where the output
// directory is the input directory itself.
func scanExclusions(outDir string) []string {
	return []string{
		outDir,
		filepath.Join(outDir, docsSubdir),
		filepath.Join(outDir, retrievalSubdir),
		filepath.Join(outDir, collectionSubdir),
	}
}

// buildPipeline wires the full production pipeline rooted at outDir.
// The returned cleanup closes the registry database.
func buildPipeline(outDir, collectionName string) (driving.Pipeline, func() error, error) {
	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, nil, err
	}

	extractors := defaultExtractors()
	docs := docstore.New(filepath.Join(outDir, docsSubdir))
	publisher := services.NewPublisher(
		docs,
		jsonl.New(filepath.Join(outDir, retrievalSubdir)),
		// The document store doubles as the recovery source for a
		// damaged collection file.
		collection.New(filepath.Join(outDir, collectionSubdir), collectionName, docs),
	)

	orchestrator := services.NewOrchestrator(
		filesystem.New(supportedExtensions(extractors), scanExclusions(outDir)...),
		extractors,
		chunker.New(),
		publisher,
		services.NewRegistry(store),
	)
	return orchestrator, store.Close, nil
}

// buildSearcher wires keyword search over the per-document store.
func buildSearcher(outDir string) driving.Searcher {
	return services.NewSearchService(docstore.New(filepath.Join(outDir, docsSubdir)))
}

// buildAsker wires retrieval-augmented answering over a local Ollama.
func buildAsker(outDir string) driving.Asker {
	llm := ollama.NewLLMService(ollama.Config{
		BaseURL: configString(configfile.KeyOllamaURL, ""),
		Model:   configString(configfile.KeyOllamaModel, ""),
	})
	return services.NewAskService(buildSearcher(outDir), llm, 0)
}

// buildRegistry opens the registry for read-side commands.
func buildRegistry() (driving.Registry, func() error, error) {
	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, nil, err
	}
	return services.NewRegistry(store), store.Close, nil
}

// resolveOutputDir picks the output directory: flag, then config, then
// the default.
func resolveOutputDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configString(configfile.KeyOutputDir, DefaultOutputDir)
}

// resolveInputDir picks the input directory: positional arg, then
// config, then the working directory.
func resolveInputDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return configString(configfile.KeyInputDir, ".")
}

// joinQuery combines positional args into one query string.
func joinQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
