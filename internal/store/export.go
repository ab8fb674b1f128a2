// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toxassess/pkg/types"
)

// exportDoc is the YAML document shape written by Export.
type exportDoc struct {
	TotalPapers int                  `yaml:"total_papers"`
	Papers      []types.PaperSummary `yaml:"papers"`
}

// Export writes every stored paper summary to w as YAML, for offline review
// of the corpus outside the service.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	rows, err := s.pool.Query(ctx,
		`SELECT pmid, title, journal, year, quality_score, is_clinical_trial
		 FROM papers
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return fmt.Errorf("exporting papers: %w", err)
	}
	defer rows.Close()

	doc := exportDoc{Papers: []types.PaperSummary{}}
	for rows.Next() {
		var ps types.PaperSummary
		if err := rows.Scan(&ps.PMID, &ps.Title, &ps.Journal, &ps.Year,
			&ps.QualityScore, &ps.IsClinicalTrial); err != nil {
			return fmt.Errorf("scanning export row: %w", err)
		}
		ps.URL = types.PubMedBaseURL + ps.PMID
		doc.Papers = append(doc.Papers, ps)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	doc.TotalPapers = len(doc.Papers)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}
