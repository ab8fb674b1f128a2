// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// PubMedBaseURL is the public article URL prefix used for citation deep links.
const PubMedBaseURL = "https://pubmed.ncbi.nlm.nih.gov/"

// Paper holds the normalized metadata for one PubMed record. Papers are
// immutable once ingested: QualityScore is computed exactly once, from the
// other fields, at normalization time.
type Paper struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title ("No title" when the record carries none).
	Title string `json:"title" yaml:"title"`

	// Journal is the publishing journal title.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the publication year as it appears in the record. May be empty
	// or unparsable; both count as low recency for scoring.
	Year string `json:"year" yaml:"year"`

	// Abstract is the full abstract text, fragments joined with spaces.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PublicationTypes lists the MEDLINE publication type tags
	// (e.g. "Randomized Controlled Trial", "Review").
	PublicationTypes []string `json:"publication_types,omitempty" yaml:"publication_types,omitempty"`

	// QualityScore is the 0-100 evidentiary quality rubric value.
	QualityScore int `json:"quality_score" yaml:"quality_score"`

	// IsClinicalTrial reports whether any publication type mentions a
	// clinical trial (randomized or not).
	IsClinicalTrial bool `json:"is_clinical_trial" yaml:"is_clinical_trial"`

	// IsRCT reports whether any publication type mentions a randomized
	// controlled trial.
	IsRCT bool `json:"is_rct" yaml:"is_rct"`
}

// StoreID returns the derived store key for the paper.
func (p Paper) StoreID() string {
	return "pmid_" + p.PMID
}

// URL returns the public PubMed link for the paper.
func (p Paper) URL() string {
	return PubMedBaseURL + p.PMID
}

// StudyTypeLabel returns the display label for the paper's study design.
func (p Paper) StudyTypeLabel() string {
	switch {
	case p.IsRCT:
		return "Randomized Controlled Trial"
	case p.IsClinicalTrial:
		return "Clinical Trial"
	default:
		return "Observational"
	}
}

// DocumentText renders the display blob stored alongside the paper. It is
// both the embedding input and the per-paper context passed to the
// narrative generator.
func (p Paper) DocumentText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Journal: %s (%s)\n", p.Journal, p.Year)
	fmt.Fprintf(&b, "Study Type: %s\n", p.StudyTypeLabel())
	fmt.Fprintf(&b, "Quality Score: %d/100\n\n", p.QualityScore)
	fmt.Fprintf(&b, "Abstract:\n%s", p.Abstract)
	return b.String()
}

// PaperSummary is the citation-facing view of a stored paper.
type PaperSummary struct {
	PMID            string `json:"pmid" yaml:"pmid"`
	Title           string `json:"title" yaml:"title"`
	Journal         string `json:"journal" yaml:"journal"`
	Year            string `json:"year" yaml:"year"`
	QualityScore    int    `json:"quality_score" yaml:"quality_score"`
	IsClinicalTrial bool   `json:"is_clinical_trial" yaml:"is_clinical_trial"`
	URL             string `json:"url" yaml:"url"`
}

// Summary returns the citation-facing view of the paper.
func (p Paper) Summary() PaperSummary {
	return PaperSummary{
		PMID:            p.PMID,
		Title:           p.Title,
		Journal:         p.Journal,
		Year:            p.Year,
		QualityScore:    p.QualityScore,
		IsClinicalTrial: p.IsClinicalTrial,
		URL:             p.URL(),
	}
}
