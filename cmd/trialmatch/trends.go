// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trialmatch/internal/ctgov"
	"github.com/pdiddy/trialmatch/internal/fetch"
	"github.com/pdiddy/trialmatch/internal/history"
	"github.com/pdiddy/trialmatch/internal/trends"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Aggregate a study query along categorical and temporal dimensions",
	Long: `Trends fetches every study matching the query (bounded by the study quota)
and counts them along the requested dimensions: status, country, sponsorType,
phase, year, month, studyType, and interventionType.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawDims, _ := cmd.Flags().GetStringSlice("dimensions")
		dims, err := trends.ParseDimensions(rawDims)
		if err != nil {
			return err
		}

		cfg := loadConfig()
		if maxStudies, _ := cmd.Flags().GetInt("max-studies"); maxStudies > 0 {
			cfg.Fetch.MaxStudies = maxStudies
		}

		condition, _ := cmd.Flags().GetString("condition")
		terms, _ := cmd.Flags().GetString("terms")
		q := fetch.Query{Condition: condition, Terms: terms}

		client := ctgov.New(cfg)

		start := time.Now()
		results, err := trends.Analyze(cmd.Context(), client, q, dims, fetch.Options{
			PageSize:  cfg.Fetch.PageSize,
			Quota:     cfg.Fetch.MaxStudies,
			PageDelay: cfg.Fetch.PageDelay,
		})
		if err != nil {
			return err
		}

		studies := 0
		if len(results) > 0 {
			studies = results[0].TotalStudies
		}
		recordRun(cmd.Context(), cfg, history.Run{
			Kind:     history.KindTrends,
			Query:    strings.TrimSpace(condition + " " + terms),
			Studies:  studies,
			Results:  len(results),
			Duration: elapsed(start),
		})

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return trends.FormatJSON(results, os.Stdout)
		}
		trends.FormatTable(results, os.Stdout)
		return nil
	},
}

func init() {
	trendsCmd.Flags().String("condition", "", "condition search expression")
	trendsCmd.Flags().String("terms", "", "additional free-text search expression")
	trendsCmd.Flags().StringSlice("dimensions", []string{"status"}, "dimensions to aggregate on (comma-separated)")
	trendsCmd.Flags().Int("max-studies", 0, "quota on the result set (overrides config)")
	trendsCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(trendsCmd)
}
