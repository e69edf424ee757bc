package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	configfile "github.com/chunkforge/chunkforge/internal/adapters/driven/config/file"
)

// knownKeys are the settings the commands consult, shown by
// 'config' even when unset.
var knownKeys = []string{
	configfile.KeyChunkSize,
	configfile.KeyChunkOverlap,
	configfile.KeyInputDir,
	configfile.KeyOutputDir,
	configfile.KeyCollectionName,
	configfile.KeyOllamaURL,
	configfile.KeyOllamaModel,
	configfile.KeySearchLimit,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Settings live in a TOML file and provide defaults for the other
commands; command-line flags always win over configured values.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store := config()
	if store == nil {
		return errors.New("config store unavailable")
	}

	cmd.Printf("Config file: %s\n\n", store.Path())

	keys := make([]string, len(knownKeys))
	copy(keys, knownKeys)
	sort.Strings(keys)

	for _, key := range keys {
		val, ok := store.Get(key)
		if !ok {
			cmd.Printf("  %-18s (not set)\n", key)
			continue
		}
		cmd.Printf("  %-18s %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store := config()
	if store == nil {
		return errors.New("config store unavailable")
	}

	val, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store := config()
	if store == nil {
		return errors.New("config store unavailable")
	}

	key, raw := args[0], args[1]

	// Store integers and booleans typed so GetInt/GetBool work.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}
