// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-companion CLI: it serves
// the scoring API for the editor and scores paragraphs from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-companion/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the research-companion CLI.
var rootCmd = &cobra.Command{
	Use:   "research-companion",
	Short: "Score research paragraphs against the literature",
	Long: `research-companion rates a paragraph of research writing against a problem
statement and the published literature on it. Each paragraph gets a score from
0 to 100 built from novelty, alignment, coherence and relevance, plus
sentence-level feedback on weak relations and unsupported claims.

Run "serve" to back the editor over HTTP, or "score" and "fetch" to work from
the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadDotEnv(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(secrets.DefaultDir)
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
	setDefaults()

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-companion.yaml or ~/.config/research-companion/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")
	rootCmd.PersistentFlags().String("embedder", "ollama", "embedding backend: ollama, openai, or hashing")
	rootCmd.PersistentFlags().String("store", "memory", "reference cache and history store: memory or sqlite")
	rootCmd.PersistentFlags().String("dsn", "", "SQLite data source (default: private in-memory database)")

	bindFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlag("embedder.backend", rootCmd.PersistentFlags().Lookup("embedder"))
	bindFlag("store.backend", rootCmd.PersistentFlags().Lookup("store"))
	bindFlag("store.dsn", rootCmd.PersistentFlags().Lookup("dsn"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-companion")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-companion"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_COMPANION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
