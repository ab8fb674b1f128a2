// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assessment

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/pdiddy/toxassess/pkg/types"
)

// Generator produces a toxicity narrative for a query from retrieved papers.
// Two variants exist: External (Gemini-backed) and Deterministic (template
// over evidence metadata). The variant is chosen at construction time.
type Generator interface {
	Generate(ctx context.Context, q types.AssessmentQuery, papers []types.Paper) (string, error)
}

// fallbackTmpl renders the deterministic narrative. Every label it emits is
// parseable by ClassifyNarrative.
var fallbackTmpl = template.Must(template.New("fallback").Parse(`## Safety Rating: {{.Risk}}

Based on analysis of {{.PaperCount}} research papers with an average quality score of {{printf "%.1f" .AvgQuality}}/100.

### Key Findings:
- {{.ClinicalCount}} clinical trial(s) included in analysis
- {{.EvidenceRemark}} based on available studies
- Further research may be needed to confirm findings

### Usage Frequency Impact:
{{.UsageFrequency}} usage of {{.Substance}} in {{.ProductType}} should be considered in context of overall exposure.

### Confidence Level: {{.Confidence}} confidence

**Note:** This is a basic automated assessment. For detailed analysis, please review the source papers listed below.`))

// DeterministicGenerator renders a structured narrative from evidence
// metadata without calling any external model. It never fails.
type DeterministicGenerator struct{}

// Generate renders the fallback narrative for the query and papers.
func (DeterministicGenerator) Generate(_ context.Context, q types.AssessmentQuery, papers []types.Paper) (string, error) {
	avg := averageQuality(papers)
	clinical := clinicalCount(papers)
	risk, confidence := FallbackLabels(avg, clinical)

	remark := "Mixed evidence"
	if avg >= 60 {
		remark = "High-quality evidence"
	}

	var buf bytes.Buffer
	err := fallbackTmpl.Execute(&buf, struct {
		Risk           types.RiskLevel
		Confidence     types.Confidence
		PaperCount     int
		AvgQuality     float64
		ClinicalCount  int
		EvidenceRemark string
		UsageFrequency string
		Substance      string
		ProductType    string
	}{
		Risk:           risk,
		Confidence:     confidence,
		PaperCount:     len(papers),
		AvgQuality:     avg,
		ClinicalCount:  clinical,
		EvidenceRemark: remark,
		UsageFrequency: capitalize(q.UsageFrequency),
		Substance:      q.Substance,
		ProductType:    q.ProductType,
	})
	return buf.String(), err
}

// averageQuality returns the mean quality score, 0 for an empty set.
func averageQuality(papers []types.Paper) float64 {
	if len(papers) == 0 {
		return 0
	}
	sum := 0
	for _, p := range papers {
		sum += p.QualityScore
	}
	return float64(sum) / float64(len(papers))
}

func clinicalCount(papers []types.Paper) int {
	n := 0
	for _, p := range papers {
		if p.IsClinicalTrial {
			n++
		}
	}
	return n
}

// contextBlob joins each paper's display text with blank lines, producing
// the evidence context handed to the external generator.
func contextBlob(papers []types.Paper) string {
	docs := make([]string, len(papers))
	for i, p := range papers {
		docs[i] = p.DocumentText()
	}
	return strings.Join(docs, "\n\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
