// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trialmatch/internal/ctgov"
	"github.com/pdiddy/trialmatch/internal/history"
	"github.com/pdiddy/trialmatch/internal/match"
	"github.com/pdiddy/trialmatch/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a candidate profile against ClinicalTrials.gov",
	Long: `Match fetches the studies for the profile's conditions, gates each one on
age, sex, healthy-volunteer policy, and site country, scores the survivors
on condition relevance, and prints them ranked.

The profile comes from a YAML file (--profile) and/or flags; flags override
the file's values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := buildProfile(cmd)
		if err != nil {
			return err
		}

		cfg := loadConfig()
		client := ctgov.New(cfg)

		start := time.Now()
		out, err := match.Match(cmd.Context(), client, profile, match.Options{
			MaxResults:   cfg.Match.MaxResults,
			MaxLocations: cfg.Match.MaxLocations,
			PageSize:     cfg.Fetch.PageSize,
			Quota:        cfg.Fetch.MaxStudies,
			PageDelay:    cfg.Fetch.PageDelay,
		})
		if err != nil {
			return err
		}

		recordRun(cmd.Context(), cfg, history.Run{
			Kind:     history.KindMatch,
			Query:    strings.Join(profile.Conditions, ", "),
			Studies:  out.StudiesEvaluated,
			Results:  out.TotalMatches,
			Duration: elapsed(start),
		})

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return match.FormatJSON(out, os.Stdout)
		}
		match.FormatTable(out, os.Stdout)
		return nil
	},
}

// buildProfile assembles the candidate profile from the --profile file and
// flag overrides. Flags that were explicitly set win over file values.
func buildProfile(cmd *cobra.Command) (types.Profile, error) {
	var profile types.Profile
	profile.Sex = types.SexAll
	profile.RecruitingOnly = true

	if path, _ := cmd.Flags().GetString("profile"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return types.Profile{}, fmt.Errorf("reading profile: %w", err)
		}
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return types.Profile{}, fmt.Errorf("parsing profile %s: %w", path, err)
		}
		if profile.Sex == "" {
			profile.Sex = types.SexAll
		}
	}

	flags := cmd.Flags()
	if flags.Changed("age") {
		profile.Age, _ = flags.GetInt("age")
	}
	if flags.Changed("sex") {
		profile.Sex, _ = flags.GetString("sex")
	}
	if flags.Changed("conditions") {
		profile.Conditions, _ = flags.GetStringSlice("conditions")
	}
	if flags.Changed("country") {
		profile.Location.Country, _ = flags.GetString("country")
	}
	if flags.Changed("state") {
		profile.Location.State, _ = flags.GetString("state")
	}
	if flags.Changed("city") {
		profile.Location.City, _ = flags.GetString("city")
	}
	if flags.Changed("healthy-volunteer") {
		profile.HealthyVolunteer, _ = flags.GetBool("healthy-volunteer")
	}
	if flags.Changed("max-results") {
		profile.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("recruiting-only") {
		profile.RecruitingOnly, _ = flags.GetBool("recruiting-only")
	}
	return profile, nil
}

func init() {
	matchCmd.Flags().String("profile", "", "candidate profile YAML file")
	matchCmd.Flags().Int("age", 0, "candidate age in whole years")
	matchCmd.Flags().String("sex", types.SexAll, "candidate sex (ALL, FEMALE, MALE)")
	matchCmd.Flags().StringSlice("conditions", nil, "conditions to match (comma-separated)")
	matchCmd.Flags().String("country", "", "country the candidate can attend sites in")
	matchCmd.Flags().String("state", "", "state or province (display refinement)")
	matchCmd.Flags().String("city", "", "city (display refinement)")
	matchCmd.Flags().Bool("healthy-volunteer", false, "candidate enrolls as a healthy volunteer")
	matchCmd.Flags().Int("max-results", 0, "maximum ranked matches to return")
	matchCmd.Flags().Bool("recruiting-only", true, "restrict to actively recruiting studies")
	matchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(matchCmd)
}
