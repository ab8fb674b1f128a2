// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"strings"

	"github.com/pdiddy/toxassess/internal/scoring"
	"github.com/pdiddy/toxassess/pkg/types"
)

// Normalize converts one raw EFetch record into a scored Paper. Missing
// fields get their documented defaults; the quality score is computed here,
// exactly once, from the normalized fields.
func Normalize(rec Record) types.Paper {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = "No title"
	}

	// Structured abstracts arrive as labeled fragments; join with spaces.
	fragments := make([]string, 0, len(rec.AbstractTexts))
	for _, f := range rec.AbstractTexts {
		if f = strings.TrimSpace(f); f != "" {
			fragments = append(fragments, f)
		}
	}
	abstract := strings.Join(fragments, " ")

	pubTypes := make([]string, 0, len(rec.PublicationTypes))
	for _, pt := range rec.PublicationTypes {
		if pt = strings.TrimSpace(pt); pt != "" {
			pubTypes = append(pubTypes, pt)
		}
	}

	p := types.Paper{
		PMID:             strings.TrimSpace(rec.PMID),
		Title:            title,
		Journal:          strings.TrimSpace(rec.Journal),
		Year:             strings.TrimSpace(rec.Year),
		Abstract:         abstract,
		PublicationTypes: pubTypes,
		IsClinicalTrial:  anyTypeContains(pubTypes, "Clinical Trial") || anyTypeContains(pubTypes, "Randomized Controlled Trial"),
		IsRCT:            anyTypeContains(pubTypes, "Randomized Controlled Trial"),
	}

	p.QualityScore = scoring.Score(scoring.Input{
		PublicationTypes: p.PublicationTypes,
		Year:             p.Year,
		Abstract:         p.Abstract,
		Journal:          p.Journal,
	})
	return p
}

func anyTypeContains(pubTypes []string, substr string) bool {
	for _, pt := range pubTypes {
		if strings.Contains(pt, substr) {
			return true
		}
	}
	return false
}
