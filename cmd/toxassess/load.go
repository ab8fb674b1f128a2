// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/toxassess/internal/pubmed"
)

var loadCmd = &cobra.Command{
	Use:   "load [query...]",
	Short: "Fetch papers from PubMed and store them",
	Long: `Load searches PubMed for the given query, scores each paper's
methodological quality, and stores the papers with vector embeddings.
Papers already in the store are skipped.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().Int("max-results", 0, "maximum papers to fetch (default from config, 1-100)")

	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query, e.g.: toxassess load titanium dioxide toxicity")
	}
	query := strings.Join(args, " ")

	cfg := serviceConfig()
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = cfg.PubMed.MaxResults
	}
	if maxResults < 1 || maxResults > 100 {
		return fmt.Errorf("max-results must be between 1 and 100")
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	client := pubmed.NewClient(cfg.PubMed)
	papers, err := client.Fetch(ctx, query, maxResults)
	if err != nil {
		return fmt.Errorf("fetching papers: %w", err)
	}
	if len(papers) == 0 {
		fmt.Printf("No papers found for %q\n", query)
		return nil
	}

	added, err := st.Add(ctx, papers)
	if err != nil {
		return fmt.Errorf("storing papers: %w", err)
	}

	var totalScore, clinical int
	for _, p := range papers {
		totalScore += p.QualityScore
		if p.IsClinicalTrial {
			clinical++
		}
	}

	fmt.Printf("Loaded %d of %d fetched papers (%d already stored)\n", added, len(papers), len(papers)-added)
	fmt.Printf("Average quality score: %.1f/100\n", float64(totalScore)/float64(len(papers)))
	fmt.Printf("Clinical trials: %d\n", clinical)
	return nil
}
