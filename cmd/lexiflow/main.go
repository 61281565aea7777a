// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the lexiflow CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintelligence/lexiflow/internal/secrets"
	"github.com/meshintelligence/lexiflow/internal/store"
	"github.com/meshintelligence/lexiflow/internal/vocab"
	"github.com/meshintelligence/lexiflow/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the lexiflow CLI.
var rootCmd = &cobra.Command{
	Use:   "lexiflow",
	Short: "Graded translation assistance for second-language readers",
	Long: `lexiflow translates text for second-language English learners at their
estimated vocabulary level: unfamiliar words and hard sentences are
annotated while the rest of the text is left alone.

Results are cached by content fingerprint, and the vocabulary estimate
refines itself from the learner's known/unknown feedback. Each concern
is a subcommand: translate, vocab, and cache.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./lexiflow.yaml or ~/.config/lexiflow/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lexiflow")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lexiflow"))
		}
	}

	viper.SetDefault("mode", string(types.ModeSelective))
	viper.SetDefault("provider.provider", string(types.ProviderAnthropic))
	viper.SetDefault("store.path", "lexiflow.db")
	viper.SetDefault("profile.exam", string(types.ExamNone))

	viper.SetEnvPrefix("LEXIFLOW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the full pipeline configuration from the
// config file and environment.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Batch: types.BatchConfig{
			MaxParagraphsPerBatch: viper.GetInt("batch.max_paragraphs_per_batch"),
			MaxCharsPerBatch:      viper.GetInt("batch.max_chars_per_batch"),
			DebounceDelay:         viper.GetDuration("batch.debounce_delay"),
			MaxCacheEntries:       viper.GetInt("batch.max_cache_entries"),
			CacheExpireTime:       viper.GetDuration("batch.cache_expire_time"),
		},
		Retry: types.RetryConfig{
			MaxRetries:        viper.GetInt("retry.max_retries"),
			InitialDelay:      viper.GetDuration("retry.initial_delay"),
			BackoffMultiplier: viper.GetFloat64("retry.backoff_multiplier"),
			MaxDelay:          viper.GetDuration("retry.max_delay"),
		},
		Provider: types.ProviderConfig{
			Provider: types.Provider(viper.GetString("provider.provider")),
			Model:    viper.GetString("provider.model"),
			APIKey:   viper.GetString("provider.api_key"),
			Timeout:  viper.GetDuration("provider.timeout"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Mode: types.TranslationMode(viper.GetString("mode")),
	}
}

// apiKeyFor resolves the API key for a provider: explicit config first,
// then the matching .secrets/ file.
func apiKeyFor(p types.Provider, configured string) string {
	name := map[types.Provider]string{
		types.ProviderOpenAI:    "openai-api-key",
		types.ProviderAnthropic: "anthropic-api-key",
		types.ProviderGemini:    "gemini-api-key",
	}[p]
	return secretDefault(name, configured)
}

// openKV opens the configured persistent store behind the in-memory
// fallback. The returned closer is nil for memory-only operation.
func openKV(cfg types.StoreConfig) (store.KV, io.Closer) {
	if cfg.Path == "" {
		return store.NewMemoryKV(), nil
	}
	sqlite, err := store.OpenSQLite(cfg.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening store %s failed, continuing in memory: %v\n", cfg.Path, err)
		return store.NewMemoryKV(), nil
	}
	return store.NewFallback(sqlite, os.Stderr), sqlite
}

// openProfile builds the profile store over kv and loads any persisted
// profile.
func openProfile(cmd *cobra.Command, kv store.KV) *vocab.Store {
	exam := types.ExamType(viper.GetString("profile.exam"))
	score := viper.GetInt("profile.exam_score")

	s := vocab.NewStore(kv, exam, score)
	if err := s.Load(cmd.Context()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading profile: %v\n", err)
	}
	return s
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
