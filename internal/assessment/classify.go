// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assessment turns stored papers into a risk narrative: it retrieves
// evidence, invokes a narrative generator, and classifies the result.
package assessment

import (
	"strings"

	"github.com/pdiddy/toxassess/pkg/types"
)

// ClassifyNarrative scans a generated narrative for risk and confidence
// phrases. First occurrence in priority order wins; unmatched text yields
// Unknown. This is a best-effort keyword scan over third-party-generated
// text, not an authoritative classification.
func ClassifyNarrative(narrative string) (types.RiskLevel, types.Confidence) {
	lower := strings.ToLower(narrative)

	risk := types.RiskUnknown
	switch {
	case strings.Contains(lower, "low risk"):
		risk = types.RiskLow
	case strings.Contains(lower, "moderate risk"):
		risk = types.RiskModerate
	case strings.Contains(lower, "high risk"):
		risk = types.RiskHigh
	case strings.Contains(lower, "insufficient data"):
		risk = types.RiskInsufficient
	}

	confidence := types.ConfidenceUnknown
	switch {
	case strings.Contains(lower, "high confidence") || strings.Contains(lower, "high level"):
		confidence = types.ConfidenceHigh
	case strings.Contains(lower, "moderate confidence") || strings.Contains(lower, "moderate level"):
		confidence = types.ConfidenceModerate
	case strings.Contains(lower, "low confidence") || strings.Contains(lower, "low level"):
		confidence = types.ConfidenceLow
	}

	return risk, confidence
}

// FallbackLabels derives risk and confidence from evidence metadata alone,
// for when no narrative generator is available. Callers must not pass an
// empty evidence set; the orchestrator rejects those before classification.
func FallbackLabels(avgQuality float64, clinicalCount int) (types.RiskLevel, types.Confidence) {
	switch {
	case avgQuality >= 70 && clinicalCount > 0:
		return types.RiskLow, types.ConfidenceHigh
	case avgQuality >= 50:
		return types.RiskModerate, types.ConfidenceModerate
	default:
		return types.RiskInsufficient, types.ConfidenceLow
	}
}
