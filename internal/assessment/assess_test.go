// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assessment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/toxassess/pkg/types"
)

// --- fakes ---

type fakeSearcher struct {
	papers   []types.Paper
	err      error
	gotQuery string
	gotMin   int
	gotLimit int
}

func (f *fakeSearcher) Search(_ context.Context, queryText string, minQuality, limit int) ([]types.Paper, error) {
	f.gotQuery = queryText
	f.gotMin = minQuality
	f.gotLimit = limit
	return f.papers, f.err
}

type fakeGenerator struct {
	narrative string
	err       error
}

func (f *fakeGenerator) Generate(_ context.Context, _ types.AssessmentQuery, _ []types.Paper) (string, error) {
	return f.narrative, f.err
}

func TestAssess(t *testing.T) {
	search := &fakeSearcher{papers: []types.Paper{
		paperWithScore(80, true),
		paperWithScore(70, false),
	}}
	gen := &fakeGenerator{narrative: "## Safety Rating: Moderate Risk\nModerate confidence overall."}

	o := NewOrchestrator(search, gen)
	got, err := o.Assess(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if search.gotQuery != "titanium dioxide food toxicity" {
		t.Errorf("query text = %q", search.gotQuery)
	}
	if search.gotLimit != types.DefaultMaxPapers {
		t.Errorf("max papers default not applied: limit=%d", search.gotLimit)
	}
	if got.RiskLevel != types.RiskModerate || got.Confidence != types.ConfidenceModerate {
		t.Errorf("labels = (%q, %q)", got.RiskLevel, got.Confidence)
	}
	if got.PapersAnalyzed != 2 || got.AvgQualityScore != 75 {
		t.Errorf("papers=%d avg=%f", got.PapersAnalyzed, got.AvgQualityScore)
	}
	if len(got.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(got.Sources))
	}
	if got.Sources[0].URL != "https://pubmed.ncbi.nlm.nih.gov/1" {
		t.Errorf("citation URL = %q", got.Sources[0].URL)
	}
}

func TestAssessZeroQualityFloor(t *testing.T) {
	search := &fakeSearcher{papers: []types.Paper{paperWithScore(30, false)}}
	o := NewOrchestrator(search, &fakeGenerator{narrative: "## Safety Rating: Insufficient Data\nLow confidence."})

	// Zero means no floor; it must reach the store unchanged.
	q := testQuery()
	q.MinQualityScore = 0
	if _, err := o.Assess(context.Background(), q); err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if search.gotMin != 0 {
		t.Errorf("store searched with quality floor %d, want 0", search.gotMin)
	}
}

func TestAssessNoResults(t *testing.T) {
	o := NewOrchestrator(&fakeSearcher{}, &fakeGenerator{narrative: "unused"})

	q := testQuery()
	q.MinQualityScore = 80
	_, err := o.Assess(context.Background(), q)

	var nre *NoResultsError
	if !errors.As(err, &nre) {
		t.Fatalf("err = %v, want *NoResultsError", err)
	}
	if nre.Substance != "titanium dioxide" || nre.MinQuality != 80 {
		t.Errorf("error fields = %+v", nre)
	}
	if !strings.Contains(nre.Error(), "quality score >= 80") {
		t.Errorf("error message = %q", nre.Error())
	}
}

func TestAssessSearchFailure(t *testing.T) {
	o := NewOrchestrator(&fakeSearcher{err: errors.New("connection refused")}, &fakeGenerator{})

	_, err := o.Assess(context.Background(), testQuery())
	if err == nil {
		t.Fatal("Assess() expected error")
	}
	var nre *NoResultsError
	if errors.As(err, &nre) {
		t.Error("store failure must not be reported as no-results")
	}
}

func TestAssessGeneratorFailureFallsBack(t *testing.T) {
	search := &fakeSearcher{papers: []types.Paper{paperWithScore(75, true)}}
	o := NewOrchestrator(search, &fakeGenerator{err: errors.New("model unavailable")})

	got, err := o.Assess(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Assess() error = %v, generator failure must not surface", err)
	}
	if !strings.Contains(got.Assessment, "basic automated assessment") {
		t.Errorf("expected deterministic narrative, got:\n%s", got.Assessment)
	}
	if got.RiskLevel != types.RiskLow || got.Confidence != types.ConfidenceHigh {
		t.Errorf("labels = (%q, %q), want (Low Risk, High)", got.RiskLevel, got.Confidence)
	}
}
