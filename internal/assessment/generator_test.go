// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assessment

import (
	"context"
	"strings"
	"testing"

	"github.com/pdiddy/toxassess/pkg/types"
)

func testQuery() types.AssessmentQuery {
	return types.AssessmentQuery{
		Substance:      "titanium dioxide",
		ProductType:    "food",
		UsageFrequency: "daily",
	}
}

func paperWithScore(score int, clinical bool) types.Paper {
	return types.Paper{
		PMID:            "1",
		Title:           "Some study",
		Journal:         "Some Journal",
		Year:            "2021",
		QualityScore:    score,
		IsClinicalTrial: clinical,
	}
}

func TestDeterministicGenerate(t *testing.T) {
	papers := []types.Paper{
		paperWithScore(80, true),
		paperWithScore(70, false),
	}

	narrative, err := DeterministicGenerator{}.Generate(context.Background(), testQuery(), papers)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, want := range []string{
		"## Safety Rating: Low Risk",
		"2 research papers",
		"average quality score of 75.0/100",
		"1 clinical trial(s)",
		"High-quality evidence",
		"Daily usage of titanium dioxide in food",
		"### Confidence Level: High",
	} {
		if !strings.Contains(narrative, want) {
			t.Errorf("narrative missing %q:\n%s", want, narrative)
		}
	}

	// The deterministic narrative must always classify back to its own labels.
	risk, confid := ClassifyNarrative(narrative)
	if risk != types.RiskLow || confid != types.ConfidenceHigh {
		t.Errorf("round-trip classification = (%q, %q), want (Low Risk, High)", risk, confid)
	}
}

func TestDeterministicGenerateMixedEvidence(t *testing.T) {
	papers := []types.Paper{paperWithScore(55, false)}

	narrative, err := DeterministicGenerator{}.Generate(context.Background(), testQuery(), papers)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !strings.Contains(narrative, "Mixed evidence") {
		t.Errorf("expected mixed-evidence remark below avg 60:\n%s", narrative)
	}
	if !strings.Contains(narrative, "## Safety Rating: Moderate Risk") {
		t.Errorf("expected moderate risk heading:\n%s", narrative)
	}
}

func TestContextBlob(t *testing.T) {
	papers := []types.Paper{
		{PMID: "1", Title: "First", Journal: "J1", Year: "2020", Abstract: "A1"},
		{PMID: "2", Title: "Second", Journal: "J2", Year: "2019", Abstract: "A2"},
	}
	blob := contextBlob(papers)

	if !strings.Contains(blob, "Title: First") || !strings.Contains(blob, "Title: Second") {
		t.Errorf("blob missing paper texts:\n%s", blob)
	}
	if !strings.Contains(blob, "A1\n\nTitle: Second") {
		t.Errorf("papers not double-newline joined:\n%s", blob)
	}
}

func TestAverageQualityEmpty(t *testing.T) {
	if got := averageQuality(nil); got != 0 {
		t.Errorf("averageQuality(nil) = %f, want 0", got)
	}
}
