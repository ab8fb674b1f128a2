// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Manage the stored paper corpus (list, clear, export)",
}

// --- list subcommand ---

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored papers, newest first",
	RunE:  runPapersList,
}

func runPapersList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 1 {
		return fmt.Errorf("limit must be a positive integer")
	}

	ctx := context.Background()
	st, err := openStore(ctx, serviceConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	papers, total, err := st.List(ctx, limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if total == 0 {
		fmt.Println("No papers stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-50s  %-25s  %-6s  %-7s  %s\n",
		"PMID", "Title", "Journal", "Year", "Quality", "Clinical")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, p := range papers {
		title := p.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		journal := p.Journal
		if len(journal) > 25 {
			journal = journal[:22] + "..."
		}
		clinical := ""
		if p.IsClinicalTrial {
			clinical = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-50s  %-25s  %-6s  %-7d  %s\n",
			p.PMID, title, journal, p.Year, p.QualityScore, clinical)
	}

	fmt.Fprintf(os.Stdout, "\n%d of %d papers\n", len(papers), total)
	return nil
}

// --- clear subcommand ---

var papersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored papers",
	Long: `Clear removes every paper from the store. This is irreversible.
Pass --yes to skip the confirmation prompt.`,
	RunE: runPapersClear,
}

func runPapersClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		fmt.Fprint(os.Stderr, "Delete all stored papers? [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	ctx := context.Background()
	st, err := openStore(ctx, serviceConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("All papers cleared.")
	return nil
}

// --- export subcommand ---

var papersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored paper summaries as YAML",
	RunE:  runPapersExport,
}

func runPapersExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	ctx := context.Background()
	st, err := openStore(ctx, serviceConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := st.Export(ctx, w); err != nil {
		return err
	}
	if out != "" {
		fmt.Printf("Exported to %s\n", out)
	}
	return nil
}

func init() {
	papersListCmd.Flags().Int("limit", 50, "maximum papers to list")
	papersListCmd.Flags().Bool("json", false, "output as JSON")

	papersClearCmd.Flags().Bool("yes", false, "skip confirmation prompt")

	papersExportCmd.Flags().String("out", "", "output file (default stdout)")

	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersClearCmd)
	papersCmd.AddCommand(papersExportCmd)

	rootCmd.AddCommand(papersCmd)
}
