package main

import (
	"fmt"
	"sort"

	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/hurttlocker/cratedig/internal/config"
	"github.com/hurttlocker/cratedig/internal/llm"
)

func runConfig(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if globalJSON {
		return emitJSON(maskedConfig(cfg))
	}

	fmt.Printf("config file: %s\n\n", cfg.ConfigPath)
	printValue("db", cfg.DBPath, catalog.ExpandPath(catalog.DefaultDBPath))
	printValue("llm", cfg.LLMProvider, llm.DefaultModel)
	printValue("llm.classify", cfg.LLMClassifyModel, "")
	printValue("llm.resolve", cfg.LLMResolveModel, "")
	printValue("llm.extract", cfg.LLMExtractModel, "")
	printValue("llm.trivia", cfg.LLMTriviaModel, "")
	printValue("search", cfg.SearchProvider, "auto")
	if cfg.SearchAPIKey.Value != "" {
		printValue("search.key", maskedValue(cfg.SearchAPIKey), "")
	}

	providers := make([]string, 0, len(cfg.LLMKeys))
	for p := range cfg.LLMKeys {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	for _, p := range providers {
		printValue("key."+p, maskedValue(cfg.LLMKeys[p]), "")
	}
	return nil
}

// printValue shows one resolved value with its provenance; unset
// values show the default they fall back to.
func printValue(name string, v config.ResolvedValue, fallback string) {
	if v.Value == "" {
		if fallback == "" {
			return
		}
		fmt.Printf("  %-14s %-42s (default)\n", name, fallback)
		return
	}
	from := string(v.Source)
	if v.From != "" {
		from = fmt.Sprintf("%s: %s", v.Source, v.From)
	}
	fmt.Printf("  %-14s %-42s (%s)\n", name, v.Value, from)
}

// maskedConfig clones the resolved config with every secret redacted,
// safe for --json output.
func maskedConfig(cfg config.ResolvedConfig) config.ResolvedConfig {
	out := cfg
	out.SearchAPIKey = maskedValue(cfg.SearchAPIKey)
	out.LLMKeys = make(map[string]config.ResolvedValue, len(cfg.LLMKeys))
	for p, v := range cfg.LLMKeys {
		out.LLMKeys[p] = maskedValue(v)
	}
	return out
}

func maskedValue(v config.ResolvedValue) config.ResolvedValue {
	v.Value = maskKey(v.Value)
	return v
}

func maskKey(k string) string {
	if len(k) == 0 {
		return ""
	}
	if len(k) <= 8 {
		return "****"
	}
	return k[:4] + "…" + k[len(k)-4:]
}
