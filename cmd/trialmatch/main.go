// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trialmatch CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trialmatch/internal/history"
	"github.com/pdiddy/trialmatch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the trialmatch CLI.
var rootCmd = &cobra.Command{
	Use:   "trialmatch",
	Short: "Match candidate profiles against ClinicalTrials.gov",
	Long: `trialmatch matches candidate profiles against the ClinicalTrials.gov
catalog and analyzes registration trends across it.

match gates each study on age, sex, healthy-volunteer policy, and site
country, scores the survivors on condition relevance, and ranks them.
trends aggregates a query's study set along categorical and temporal
dimensions. serve exposes both operations as MCP tools over stdio, and
history shows past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./trialmatch.yaml or ~/.config/trialmatch/trialmatch.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trialmatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trialmatch"))
		}
	}

	viper.SetEnvPrefix("TRIALMATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges file and environment settings over the defaults.
func loadConfig() types.AppConfig {
	cfg := types.DefaultConfig()

	if viper.IsSet("http.timeout") {
		cfg.HTTP.Timeout = viper.GetDuration("http.timeout")
	}
	if viper.IsSet("http.user_agent") {
		cfg.HTTP.UserAgent = viper.GetString("http.user_agent")
	}
	if viper.IsSet("http.max_retries") {
		cfg.HTTP.MaxRetries = viper.GetInt("http.max_retries")
	}
	if viper.IsSet("fetch.page_size") {
		cfg.Fetch.PageSize = viper.GetInt("fetch.page_size")
	}
	if viper.IsSet("fetch.page_delay") {
		cfg.Fetch.PageDelay = viper.GetDuration("fetch.page_delay")
	}
	if viper.IsSet("fetch.max_studies") {
		cfg.Fetch.MaxStudies = viper.GetInt("fetch.max_studies")
	}
	if viper.IsSet("match.max_results") {
		cfg.Match.MaxResults = viper.GetInt("match.max_results")
	}
	if viper.IsSet("match.max_locations") {
		cfg.Match.MaxLocations = viper.GetInt("match.max_locations")
	}
	if viper.IsSet("history.enabled") {
		cfg.History.Enabled = viper.GetBool("history.enabled")
	}
	if viper.IsSet("history.path") {
		cfg.History.Path = viper.GetString("history.path")
	}
	return cfg
}

// recordRun writes one history row. Recording is best-effort: failures print
// a warning and never fail the run that produced the results.
func recordRun(ctx context.Context, cfg types.AppConfig, run history.Run) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()
	if err := store.Record(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
}

// elapsed rounds a run duration for history rows.
func elapsed(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
