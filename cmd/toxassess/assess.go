// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/toxassess/internal/assessment"
	"github.com/pdiddy/toxassess/pkg/types"
)

var assessCmd = &cobra.Command{
	Use:   "assess [substance...]",
	Short: "Assess the toxicity of a substance from stored literature",
	Long: `Assess retrieves the highest-quality stored papers relevant to the
substance and product type, generates a narrative safety assessment, and
prints the risk level, confidence, and cited sources.`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().String("product-type", "", "product category the substance appears in (required)")
	assessCmd.Flags().String("usage-frequency", "daily", "how often the product is used")
	assessCmd.Flags().Int("min-quality", types.DefaultMinQualityScore, "minimum paper quality score 0-100 (0 = no floor)")
	assessCmd.Flags().Int("max-papers", types.DefaultMaxPapers, "maximum papers to consider 1-20")
	assessCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a substance name, e.g.: toxassess assess titanium dioxide --product-type food")
	}
	productType, _ := cmd.Flags().GetString("product-type")
	if productType == "" {
		return fmt.Errorf("--product-type is required")
	}
	usageFrequency, _ := cmd.Flags().GetString("usage-frequency")
	minQuality, _ := cmd.Flags().GetInt("min-quality")
	maxPapers, _ := cmd.Flags().GetInt("max-papers")
	if minQuality < 0 || minQuality > 100 {
		return fmt.Errorf("min-quality must be between 0 and 100")
	}
	if maxPapers < 1 || maxPapers > 20 {
		return fmt.Errorf("max-papers must be between 1 and 20")
	}

	cfg := serviceConfig()
	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	orchestrator := assessment.NewOrchestrator(st, newGenerator(cfg.Generator))
	result, err := orchestrator.Assess(ctx, types.AssessmentQuery{
		Substance:       strings.Join(args, " "),
		ProductType:     productType,
		UsageFrequency:  usageFrequency,
		MinQualityScore: minQuality,
		MaxPapers:       maxPapers,
	})
	if err != nil {
		var nre *assessment.NoResultsError
		if errors.As(err, &nre) {
			return fmt.Errorf("%s; load papers first with: toxassess load %s toxicity", nre.Error(), strings.Join(args, " "))
		}
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Risk level: %s\n", result.RiskLevel)
	fmt.Printf("Confidence: %s\n", result.Confidence)
	fmt.Printf("Papers analyzed: %d (average quality %.1f/100)\n\n", result.PapersAnalyzed, result.AvgQualityScore)
	fmt.Println(result.Assessment)

	if len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, src := range result.Sources {
			label := ""
			if src.IsClinicalTrial {
				label = " [clinical trial]"
			}
			fmt.Printf("%2d. %s (%s, %s) quality %d/100%s\n     %s\n",
				i+1, src.Title, src.Journal, src.Year, src.QualityScore, label, src.URL)
		}
	}
	return nil
}
