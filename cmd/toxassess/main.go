// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the toxassess CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/toxassess/internal/assessment"
	"github.com/pdiddy/toxassess/internal/embed"
	"github.com/pdiddy/toxassess/internal/secrets"
	"github.com/pdiddy/toxassess/internal/store"
	"github.com/pdiddy/toxassess/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "toxassess/0.1"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the toxassess CLI.
var rootCmd = &cobra.Command{
	Use:   "toxassess",
	Short: "Toxicity assessment over PubMed literature",
	Long: `toxassess ingests toxicology papers from PubMed, scores their
methodological quality, stores them with vector embeddings, and answers
substance-safety questions grounded in the stored literature.

Run 'toxassess serve' for the HTTP service, or use the load, assess,
papers, and stats subcommands directly.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./toxassess.yaml or ~/.config/toxassess/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("toxassess")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "toxassess"))
		}
	}

	viper.SetEnvPrefix("TOXASSESS")
	viper.AutomaticEnv()

	viper.SetDefault("pubmed.timeout", 30*time.Second)
	viper.SetDefault("pubmed.max_results", 20)
	viper.SetDefault("pubmed.requests_per_second", 3.0)
	viper.SetDefault("embedding.base_url", "http://localhost:11434")
	viper.SetDefault("embedding.model", "nomic-embed-text")
	viper.SetDefault("embedding.dimension", 768)
	viper.SetDefault("store.max_conns", 10)
	viper.SetDefault("generator.model", "gemini-2.0-flash")
	viper.SetDefault("generator.timeout", 60*time.Second)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// serviceConfig assembles the full configuration from viper settings and
// loaded secrets. Secrets win over config-file values for credentials.
func serviceConfig() types.ServiceConfig {
	return types.ServiceConfig{
		PubMed: types.PubMedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("pubmed.timeout"),
				UserAgent: defaultUserAgent,
			},
			Email:             loadedSecrets.Resolve(viper.GetString("pubmed.email"), "TOXASSESS_NCBI_EMAIL", "ncbi-email"),
			APIKey:            loadedSecrets.Resolve("", "TOXASSESS_NCBI_API_KEY", "ncbi-api-key"),
			MaxResults:        viper.GetInt("pubmed.max_results"),
			RequestsPerSecond: viper.GetFloat64("pubmed.requests_per_second"),
		},
		Embedding: types.EmbeddingConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("pubmed.timeout"),
				UserAgent: defaultUserAgent,
			},
			BaseURL:   viper.GetString("embedding.base_url"),
			Model:     viper.GetString("embedding.model"),
			Dimension: viper.GetInt("embedding.dimension"),
		},
		Store: types.StoreConfig{
			DatabaseURL: loadedSecrets.Resolve(viper.GetString("store.database_url"), "TOXASSESS_DATABASE_URL", "database-url"),
			MaxConns:    viper.GetInt("store.max_conns"),
		},
		Generator: types.GeneratorConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("generator.timeout"),
				UserAgent: defaultUserAgent,
			},
			APIKey: loadedSecrets.Resolve("", "TOXASSESS_GEMINI_API_KEY", "gemini-api-key"),
			Model:  viper.GetString("generator.model"),
		},
		Server: types.ServerConfig{
			Port:            viper.GetInt("server.port"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
	}
}

// openStore connects to the paper store with the configured encoder.
func openStore(ctx context.Context, cfg types.ServiceConfig) (*store.Store, error) {
	if cfg.Store.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL not configured: set store.database_url, TOXASSESS_DATABASE_URL, or .secrets/database-url")
	}
	encoder := embed.NewOllamaEncoder(cfg.Embedding)
	return store.New(ctx, cfg.Store, encoder)
}

// newGenerator picks the narrative generator variant: Gemini-backed when an
// API key is configured, deterministic otherwise.
func newGenerator(cfg types.GeneratorConfig) assessment.Generator {
	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "No Gemini API key configured; using deterministic assessments")
		return assessment.DeterministicGenerator{}
	}
	return assessment.NewGeminiGenerator(cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
