// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring computes the evidentiary quality rubric for papers.
// The score is a pure function of a paper's source fields; it is computed
// once at ingestion and never recomputed.
package scoring

import (
	"strconv"
	"strings"
)

// highImpactJournals are matched case-insensitively as substrings of the
// journal title.
var highImpactJournals = []string{
	"lancet", "jama", "bmj", "nature", "science", "toxicology",
	"new england journal of medicine", "nejm", "cell", "nature medicine",
}

// Input holds the raw paper fields the rubric reads. Only these fields
// influence the score.
type Input struct {
	PublicationTypes []string
	Year             string
	Abstract         string
	Journal          string
}

// Score returns the 0-100 quality score for a paper.
//
// Four additive sub-scores: study design (up to 40), recency (up to 20),
// abstract depth (up to 20), journal prestige (up to 20). The sum is clamped
// to 100. With the current weights the clamp never fires; it stays so the
// rubric survives future weight changes.
func Score(in Input) int {
	score := studyDesignScore(in.PublicationTypes)
	score += recencyScore(in.Year)
	score += abstractScore(in.Abstract)
	score += journalScore(in.Journal)

	if score > 100 {
		score = 100
	}
	return score
}

// studyDesignScore ranks the study design by publication type tag. First
// match wins: an RCT tag is checked before Meta-Analysis even though
// Meta-Analysis carries a higher value than Clinical Trial. The order is
// inherited behavior; reordering would change stored scores.
func studyDesignScore(pubTypes []string) int {
	switch {
	case anyContains(pubTypes, "Randomized Controlled Trial"):
		return 40
	case anyContains(pubTypes, "Clinical Trial"):
		return 30
	case anyContains(pubTypes, "Systematic Review") || anyContains(pubTypes, "Meta-Analysis"):
		return 35
	default:
		return 20
	}
}

func recencyScore(year string) int {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 5
	}
	switch {
	case y >= 2020:
		return 20
	case y >= 2015:
		return 15
	case y >= 2010:
		return 10
	default:
		return 5
	}
}

func abstractScore(abstract string) int {
	switch n := len(abstract); {
	case n > 500:
		return 20
	case n >= 200:
		return 15
	default:
		return 10
	}
}

func journalScore(journal string) int {
	if IsHighImpactJournal(journal) {
		return 20
	}
	return 10
}

// IsHighImpactJournal reports whether the journal title matches the
// high-impact allow-list.
func IsHighImpactJournal(journal string) bool {
	lower := strings.ToLower(journal)
	for _, name := range highImpactJournals {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// anyContains reports whether any tag contains substr. Matching is
// case-sensitive and substring-based, mirroring the MEDLINE tag vocabulary
// ("Clinical Trial, Phase II" still counts as a clinical trial).
func anyContains(tags []string, substr string) bool {
	for _, t := range tags {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}

// Category buckets a quality score for distribution stats.
func Category(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "good"
	case score >= 40:
		return "moderate"
	default:
		return "low"
	}
}
