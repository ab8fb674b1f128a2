// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for the stored paper corpus",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openStore(ctx, serviceConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Total papers:        %d\n", stats.TotalPapers)
	fmt.Printf("Average quality:     %.1f/100\n", stats.AverageQualityScore)
	fmt.Printf("Clinical trials:     %d\n", stats.ClinicalTrialCount)
	fmt.Println("Quality distribution:")
	for _, bucket := range []string{"high", "good", "moderate", "low"} {
		fmt.Printf("  %-9s %d\n", bucket, stats.QualityDistribution[bucket])
	}
	return nil
}
