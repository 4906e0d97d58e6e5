// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-companion CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DeadAt0m/arxiv-companion/internal/library"
	"github.com/DeadAt0m/arxiv-companion/internal/secrets"
	"github.com/DeadAt0m/arxiv-companion/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultDB        = "arxiv_db.json"
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultChunkSize = 10
	defaultUserAgent = "arxiv-companion/0.1"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, otherwise the secret
// value for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the arxiv-companion CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-companion",
	Short: "Archive arXiv preprints and sync them with Shiori",
	Long: `arxiv-companion maintains a local JSON library of arXiv preprint
metadata, downloads PDFs, and keeps the library in sync with a
self-hosted Shiori bookmark service.

The library lives in a single JSON file (default arxiv_db.json) keyed
by arXiv ID. Metadata comes from the arXiv export API; bookmarks are
matched to records by the arXiv ID in their URL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-companion.yaml or ~/.config/arxiv-companion/config.yaml)")
	rootCmd.PersistentFlags().StringP("db", "d", "", "path to the JSON library file (default arxiv_db.json)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-companion")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-companion"))
		}
	}

	viper.SetEnvPrefix("ARXIV_COMPANION")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dbPath resolves the library path: flag, then config file, then the
// default next to the working directory.
func dbPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	if path := viper.GetString("library.path"); path != "" {
		return path
	}
	return defaultDB
}

// loadLibrary opens the library and reports its size the way every
// subcommand does.
func loadLibrary(cmd *cobra.Command) (*library.Library, error) {
	lib, err := library.Load(dbPath(cmd))
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "%d entries loaded from %s\n", lib.Len(), lib.Path())
	return lib, nil
}

// arxivConfig builds the metadata client settings from config values.
func arxivConfig() types.ArxivConfig {
	cfg := types.ArxivConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		ChunkSize:    defaultChunkSize,
		RequestDelay: defaultDelay,
	}
	if n := viper.GetInt("arxiv.chunk_size"); n > 0 {
		cfg.ChunkSize = n
	}
	if d := viper.GetDuration("arxiv.request_delay"); d > 0 {
		cfg.RequestDelay = d
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
