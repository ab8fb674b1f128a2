// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/toxassess/pkg/types"
)

// Searcher is the slice of the paper store the orchestrator needs.
type Searcher interface {
	Search(ctx context.Context, queryText string, minQuality, limit int) ([]types.Paper, error)
}

// NoResultsError reports that no stored papers met the query's quality floor.
type NoResultsError struct {
	Substance  string
	MinQuality int
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no papers found for %q with quality score >= %d", e.Substance, e.MinQuality)
}

// Orchestrator runs the assessment flow: retrieve evidence, generate the
// narrative, classify it, and assemble citations.
type Orchestrator struct {
	store     Searcher
	generator Generator
	fallback  DeterministicGenerator
}

// NewOrchestrator wires the orchestrator. generator may be the External or
// the Deterministic variant; either way a failed generation falls back to
// the deterministic narrative rather than surfacing to the caller.
func NewOrchestrator(store Searcher, generator Generator) *Orchestrator {
	return &Orchestrator{store: store, generator: generator}
}

// Assess answers one toxicity query. It returns *NoResultsError when no
// stored paper meets the quality floor; any other error is a retrieval
// failure. External generator failures never propagate; the deterministic
// fallback answers instead.
func (o *Orchestrator) Assess(ctx context.Context, q types.AssessmentQuery) (types.AssessmentResult, error) {
	q.ApplyDefaults()
	start := time.Now()

	queryText := q.Substance + " " + q.ProductType + " toxicity"
	papers, err := o.store.Search(ctx, queryText, q.MinQualityScore, q.MaxPapers)
	if err != nil {
		return types.AssessmentResult{}, fmt.Errorf("retrieving papers: %w", err)
	}
	if len(papers) == 0 {
		return types.AssessmentResult{}, &NoResultsError{Substance: q.Substance, MinQuality: q.MinQualityScore}
	}

	narrative, err := o.generator.Generate(ctx, q, papers)
	if err != nil {
		slog.Warn("generator_failed_using_fallback",
			slog.String("substance", q.Substance),
			slog.String("error", err.Error()),
		)
		narrative, err = o.fallback.Generate(ctx, q, papers)
		if err != nil {
			// Fixed template over complete inputs; failing here means the
			// template itself is broken.
			return types.AssessmentResult{}, fmt.Errorf("rendering fallback narrative: %w", err)
		}
	}

	risk, confidence := ClassifyNarrative(narrative)

	sources := make([]types.PaperSummary, len(papers))
	for i, p := range papers {
		sources[i] = p.Summary()
	}

	slog.Info("assessment_completed",
		slog.String("substance", q.Substance),
		slog.Int("papers", len(papers)),
		slog.String("risk", string(risk)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return types.AssessmentResult{
		RiskLevel:       risk,
		Confidence:      confidence,
		Assessment:      narrative,
		Sources:         sources,
		PapersAnalyzed:  len(papers),
		AvgQualityScore: types.Round2(averageQuality(papers)),
	}, nil
}
