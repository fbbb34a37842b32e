// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trialmatch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded match and trends runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		history.FormatTable(runs, os.Stdout)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to show")

	rootCmd.AddCommand(historyCmd)
}
