// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RiskLevel is the discrete risk label attached to an assessment.
type RiskLevel string

const (
	RiskLow          RiskLevel = "Low Risk"
	RiskModerate     RiskLevel = "Moderate Risk"
	RiskHigh         RiskLevel = "High Risk"
	RiskInsufficient RiskLevel = "Insufficient Data"
	RiskUnknown      RiskLevel = "Unknown"
)

// Confidence is the confidence label attached to an assessment.
type Confidence string

const (
	ConfidenceHigh     Confidence = "High"
	ConfidenceModerate Confidence = "Moderate"
	ConfidenceLow      Confidence = "Low"
	ConfidenceUnknown  Confidence = "Unknown"
)

// AssessmentQuery holds the parameters of one toxicity assessment request.
type AssessmentQuery struct {
	// Substance is the chemical or substance name (e.g. "titanium dioxide").
	Substance string `json:"substance"`

	// ProductType is the product category the substance appears in
	// (e.g. "food", "cosmetics", "cleaning").
	ProductType string `json:"product_type"`

	// UsageFrequency describes how often the product is used
	// (e.g. "daily", "weekly").
	UsageFrequency string `json:"usage_frequency"`

	// MinQualityScore is the quality floor for retrieved papers. Zero is a
	// valid value meaning no floor; entry points that can distinguish an
	// absent field from an explicit zero apply DefaultMinQualityScore.
	MinQualityScore int `json:"min_quality_score"`

	// MaxPapers caps the number of papers used as evidence (default 5).
	MaxPapers int `json:"max_papers"`
}

// Defaults applied when a caller leaves the optional query fields unset.
const (
	DefaultMinQualityScore = 50
	DefaultMaxPapers       = 5
)

// ApplyDefaults fills a zero MaxPapers with its default. MinQualityScore is
// left alone: zero means no floor, and only the HTTP and CLI boundaries know
// whether the caller actually set it.
func (q *AssessmentQuery) ApplyDefaults() {
	if q.MaxPapers == 0 {
		q.MaxPapers = DefaultMaxPapers
	}
}

// AssessmentResult is the assembled answer for one assessment. Results are
// ephemeral: computed per request and never persisted.
type AssessmentResult struct {
	RiskLevel       RiskLevel      `json:"risk_level"`
	Confidence      Confidence     `json:"confidence"`
	Assessment      string         `json:"assessment"`
	Sources         []PaperSummary `json:"sources"`
	PapersAnalyzed  int            `json:"papers_analyzed"`
	AvgQualityScore float64        `json:"avg_quality_score"`
}

// Round2 rounds f to two decimal places, the precision used for reported
// average quality scores.
func Round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// StoreStats summarizes the stored paper corpus.
type StoreStats struct {
	TotalPapers         int            `json:"total_papers"`
	AverageQualityScore float64        `json:"average_quality_score"`
	ClinicalTrialCount  int            `json:"clinical_trial_count"`
	QualityDistribution map[string]int `json:"quality_distribution"`
}
