package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/hurttlocker/cratedig/internal/config"
	"github.com/hurttlocker/cratedig/internal/llm"
	"github.com/hurttlocker/cratedig/internal/websearch"
	"golang.org/x/term"
)

const version = "0.1.0-dev"

// Global flags may appear anywhere on the command line; parseGlobalFlags
// strips them before dispatch.
var (
	globalDBPath     string
	globalConfigPath string
	globalLLM        string
	globalSearch     string
	globalJSON       bool
	globalVerbose    bool
)

func main() {
	args := parseGlobalFlags(os.Args[1:])

	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch args[0] {
	case "ask":
		err = runAsk(args[1:])
	case "search":
		err = runSearch(args[1:])
	case "import":
		err = runImport(args[1:])
	case "stats":
		err = runStats(args[1:])
	case "config":
		err = runConfig(args[1:])
	case "doctor":
		err = runDoctor(args[1:])
	case "serve-mcp":
		err = runServeMCP(args[1:])
	case "version", "--version", "-v":
		fmt.Printf("cratedig %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseGlobalFlags consumes the shared flags and returns everything
// else (the command and its own arguments) in order.
func parseGlobalFlags(args []string) []string {
	var rest []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--db" && i+1 < len(args):
			i++
			globalDBPath = args[i]
		case strings.HasPrefix(args[i], "--db="):
			globalDBPath = strings.TrimPrefix(args[i], "--db=")
		case args[i] == "--config" && i+1 < len(args):
			i++
			globalConfigPath = args[i]
		case strings.HasPrefix(args[i], "--config="):
			globalConfigPath = strings.TrimPrefix(args[i], "--config=")
		case args[i] == "--llm" && i+1 < len(args):
			i++
			globalLLM = args[i]
		case strings.HasPrefix(args[i], "--llm="):
			globalLLM = strings.TrimPrefix(args[i], "--llm=")
		case args[i] == "--search" && i+1 < len(args):
			i++
			globalSearch = args[i]
		case strings.HasPrefix(args[i], "--search="):
			globalSearch = strings.TrimPrefix(args[i], "--search=")
		case args[i] == "--json":
			globalJSON = true
		case args[i] == "--verbose":
			globalVerbose = true
		default:
			rest = append(rest, args[i])
		}
	}
	return rest
}

// resolveConfig folds the global flags into the full precedence chain
// (flag > env > config file > default).
func resolveConfig() (config.ResolvedConfig, error) {
	return config.ResolveConfig(config.ResolveOptions{
		ConfigPath: globalConfigPath,
		CLILLM:     globalLLM,
		CLISearch:  globalSearch,
		CLIDBPath:  globalDBPath,
	})
}

func openStore(cfg config.ResolvedConfig) (catalog.Store, error) {
	return catalog.NewStore(catalog.Config{DBPath: cfg.DBPath.Value})
}

// buildModel constructs the language model provider. The pipeline runs
// one model end to end; the resolve purpose selects it.
func buildModel(cfg config.ResolvedConfig) (llm.Provider, error) {
	eff := cfg.EffectiveLLMModel("resolve", llm.DefaultModel)
	mc, err := llm.ParseLLMFlag(eff.Value)
	if err != nil {
		return nil, err
	}
	if key := cfg.APIKeyForProvider(eff.Value); key.Value != "" {
		mc.APIKey = key.Value
	}
	return llm.NewProvider(mc)
}

func buildSearch(cfg config.ResolvedConfig) (websearch.Provider, error) {
	return websearch.NewProvider(websearch.Config{
		Provider: cfg.SearchProvider.Value,
		APIKey:   cfg.SearchAPIKey.Value,
	})
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func printUsage() {
	fmt.Printf(`cratedig %s — conversational music router over a local track catalog

Usage:
  cratedig <command> [arguments]

Commands:
  ask <query>         Route a music question: trivia, catalog, web fallback
  search              Look up tracks by --title/--artist substring
  import <file...>    Load tracks into the catalog from CSV/TSV or JSON
  stats               Show catalog statistics
  config              Show resolved configuration and value provenance
  doctor              Check catalog, model key, and search provider setup
  serve-mcp           Serve the router tools over MCP on stdio
  version             Print version

Global Flags:
  --db <path>         Catalog database (default ~/.cratedig/library.db)
  --config <path>     Config file (default ~/.cratedig/config.yaml)
  --llm <prov/model>  Language model, e.g. google/gemini-2.5-flash
  --search <name>     Search provider: serpapi or duckduckgo
  --json              JSON output
  --verbose           Trace pipeline steps to stderr

Ask Flags:
  --full-lyrics       Print full lyrics instead of a 500-char preview

Search Flags:
  --title <text>      Title fragment (case-sensitive substring)
  --artist <text>     Artist fragment (case-sensitive substring)
  --format <fmt>      table, list, or json

Import Flags:
  -n, --dry-run       Parse and validate without writing

Environment:
  GEMINI_API_KEY, GOOGLE_API_KEY, OPENROUTER_API_KEY, SERPAPI_API_KEY
  CRATEDIG_DB, CRATEDIG_LLM, CRATEDIG_SEARCH, CRATEDIG_CONFIG

Documentation:
  https://github.com/hurttlocker/cratedig
`, version)
}
