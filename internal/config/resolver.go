// Package config resolves effective settings from, in rising
// precedence, the yaml config file, environment variables, and CLI
// flags. Every resolved value remembers where it came from so the
// config command and doctor can show provenance.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func init() {
	// Pull a local .env into the process before anything reads env.
	_ = godotenv.Load()
}

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath string
	CLILLM     string
	CLISearch  string
	CLIDBPath  string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath           ResolvedValue `json:"db_path"`
	LLMProvider      ResolvedValue `json:"llm_provider"`
	LLMClassifyModel ResolvedValue `json:"llm_classify_model"`
	LLMResolveModel  ResolvedValue `json:"llm_resolve_model"`
	LLMExtractModel  ResolvedValue `json:"llm_extract_model"`
	LLMTriviaModel   ResolvedValue `json:"llm_trivia_model"`

	SearchProvider ResolvedValue `json:"search_provider"`
	SearchAPIKey   ResolvedValue `json:"search_api_key,omitempty"`

	LLMKeys map[string]ResolvedValue `json:"llm_keys,omitempty"`
}

type fileConfig struct {
	DBPath string `yaml:"db_path"`
	LLM    struct {
		Provider      string `yaml:"provider"`
		APIKey        string `yaml:"api_key"`
		ClassifyModel string `yaml:"classify_model"`
		ResolveModel  string `yaml:"resolve_model"`
		ExtractModel  string `yaml:"extract_model"`
		TriviaModel   string `yaml:"trivia_model"`
	} `yaml:"llm"`
	Search struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"search"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cratedig", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CRATEDIG_CONFIG"))
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath: path,
		LLMKeys:    map[string]ResolvedValue{},
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.LLMProvider, cfg.LLM.Provider, SourceConfig, path)
		apply(&out.LLMClassifyModel, cfg.LLM.ClassifyModel, SourceConfig, path)
		apply(&out.LLMResolveModel, cfg.LLM.ResolveModel, SourceConfig, path)
		apply(&out.LLMExtractModel, cfg.LLM.ExtractModel, SourceConfig, path)
		apply(&out.LLMTriviaModel, cfg.LLM.TriviaModel, SourceConfig, path)
		apply(&out.SearchProvider, cfg.Search.Provider, SourceConfig, path)

		if key := strings.TrimSpace(cfg.Search.APIKey); key != "" {
			out.SearchAPIKey = ResolvedValue{Value: key, Source: SourceConfig, From: path}
		}

		if key := strings.TrimSpace(cfg.LLM.APIKey); key != "" {
			providers := map[string]struct{}{}
			for _, v := range []string{cfg.LLM.Provider, cfg.LLM.ClassifyModel, cfg.LLM.ResolveModel, cfg.LLM.ExtractModel, cfg.LLM.TriviaModel} {
				p := providerOf(v)
				if p != "" {
					providers[p] = struct{}{}
				}
			}
			if len(providers) == 0 {
				providers["default"] = struct{}{}
			}
			for p := range providers {
				out.LLMKeys[p] = ResolvedValue{Value: key, Source: SourceConfig, From: path}
			}
		}
	}

	applyEnv(&out.DBPath, "CRATEDIG_DB")
	applyEnv(&out.DBPath, "CRATEDIG_DB_PATH")

	applyEnv(&out.LLMProvider, "CRATEDIG_LLM")
	applyEnv(&out.LLMClassifyModel, "CRATEDIG_LLM_CLASSIFY")
	applyEnv(&out.LLMResolveModel, "CRATEDIG_LLM_RESOLVE")
	applyEnv(&out.LLMExtractModel, "CRATEDIG_LLM_EXTRACT")
	applyEnv(&out.LLMTriviaModel, "CRATEDIG_LLM_TRIVIA")

	applyEnv(&out.SearchProvider, "CRATEDIG_SEARCH")
	if v := strings.TrimSpace(os.Getenv("SERPAPI_API_KEY")); v != "" {
		out.SearchAPIKey = ResolvedValue{Value: v, Source: SourceEnv, From: "SERPAPI_API_KEY"}
	}

	for env, provider := range map[string]string{
		"OPENROUTER_API_KEY": "openrouter",
		"GEMINI_API_KEY":     "google",
		"GOOGLE_API_KEY":     "google",
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			out.LLMKeys[provider] = ResolvedValue{Value: v, Source: SourceEnv, From: env}
		}
	}

	apply(&out.LLMProvider, opts.CLILLM, SourceCLI, "--llm")
	apply(&out.SearchProvider, opts.CLISearch, SourceCLI, "--search")
	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")

	if out.DBPath.Value != "" {
		out.DBPath.Value = expandUserPath(out.DBPath.Value)
	}

	return out, nil
}

// EffectiveLLMModel picks the model for one workflow purpose
// ("classify", "resolve", "extract", "trivia"). Purpose-specific
// settings win over the general provider; values in provider/model
// form are used as-is, while a bare provider name adopts the fallback
// model when the fallback belongs to that provider.
func (r ResolvedConfig) EffectiveLLMModel(purpose, fallback string) ResolvedValue {
	purpose = strings.ToLower(strings.TrimSpace(purpose))

	candidates := []ResolvedValue{}
	switch purpose {
	case "classify":
		candidates = append(candidates, r.LLMClassifyModel)
	case "resolve":
		candidates = append(candidates, r.LLMResolveModel)
	case "extract":
		candidates = append(candidates, r.LLMExtractModel)
	case "trivia":
		candidates = append(candidates, r.LLMTriviaModel)
	}
	candidates = append(candidates, r.LLMProvider)

	for _, c := range candidates {
		if strings.TrimSpace(c.Value) == "" {
			continue
		}
		if strings.Contains(c.Value, "/") {
			return c
		}
		if fallback != "" && strings.HasPrefix(strings.ToLower(fallback), strings.ToLower(strings.TrimSpace(c.Value))+"/") {
			return ResolvedValue{Value: fallback, Source: c.Source, From: c.From}
		}
	}

	if strings.TrimSpace(fallback) != "" {
		return ResolvedValue{Value: fallback, Source: SourceDefault, From: "built-in default"}
	}
	return ResolvedValue{}
}

func (r ResolvedConfig) APIKeyForProvider(providerOrModel string) ResolvedValue {
	provider := providerOf(providerOrModel)
	if provider == "" {
		return ResolvedValue{}
	}
	if v, ok := r.LLMKeys[provider]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	if v, ok := r.LLMKeys["default"]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	return ResolvedValue{}
}

func providerOf(providerOrModel string) string {
	v := strings.ToLower(strings.TrimSpace(providerOrModel))
	if v == "" {
		return ""
	}
	if idx := strings.Index(v, "/"); idx > 0 {
		return v[:idx]
	}
	return v
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
