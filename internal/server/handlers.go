// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/toxassess/internal/assessment"
	"github.com/pdiddy/toxassess/pkg/types"
)

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service":     "toxassess",
		"version":     Version,
		"description": "Toxicity assessment over PubMed literature",
		"status":      "ok",
		"endpoints": []string{
			"POST /load-papers",
			"POST /assess",
			"GET /stats",
			"GET /papers",
			"DELETE /papers",
		},
	})
}

type loadPapersRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type loadPapersResponse struct {
	PapersLoaded        int     `json:"papers_loaded"`
	AverageQualityScore float64 `json:"average_quality_score"`
	ClinicalTrialCount  int     `json:"clinical_trial_count"`
	Message             string  `json:"message"`
}

func (s *Server) handleLoadPapers(c echo.Context) error {
	var req loadPapersRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return fail(c, http.StatusBadRequest, "validation_error", "query is required")
	}
	if req.MaxResults == 0 {
		req.MaxResults = 20
	}
	if req.MaxResults < 1 || req.MaxResults > 100 {
		return fail(c, http.StatusBadRequest, "validation_error", "max_results must be between 1 and 100")
	}

	ctx := c.Request().Context()
	papers, err := s.fetcher.Fetch(ctx, req.Query, req.MaxResults)
	if err != nil {
		slog.Error("load_papers_fetch_failed", slog.String("query", req.Query), slog.String("error", err.Error()))
		return fail(c, http.StatusBadGateway, "upstream_error", "literature source unavailable")
	}
	if len(papers) == 0 {
		return c.JSON(http.StatusOK, loadPapersResponse{
			Message: fmt.Sprintf("no papers found for %q", req.Query),
		})
	}

	added, err := s.store.Add(ctx, papers)
	if err != nil {
		slog.Error("load_papers_store_failed", slog.String("error", err.Error()))
		return fail(c, http.StatusInternalServerError, "internal_error", "failed to store papers")
	}

	var totalScore, clinical int
	for _, p := range papers {
		totalScore += p.QualityScore
		if p.IsClinicalTrial {
			clinical++
		}
	}

	return c.JSON(http.StatusOK, loadPapersResponse{
		PapersLoaded:        added,
		AverageQualityScore: types.Round2(float64(totalScore) / float64(len(papers))),
		ClinicalTrialCount:  clinical,
		Message:             fmt.Sprintf("loaded %d of %d fetched papers", added, len(papers)),
	})
}

type assessRequest struct {
	Substance      string `json:"substance"`
	ProductType    string `json:"product_type"`
	UsageFrequency string `json:"usage_frequency"`

	// Pointer so an explicit 0 (no quality floor) is distinguishable from
	// an absent field, which gets the default.
	MinQualityScore *int `json:"min_quality_score"`
	MaxPapers       int  `json:"max_papers"`
}

func (s *Server) handleAssess(c echo.Context) error {
	var req assessRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	if strings.TrimSpace(req.Substance) == "" {
		return fail(c, http.StatusBadRequest, "validation_error", "substance is required")
	}
	if strings.TrimSpace(req.ProductType) == "" {
		return fail(c, http.StatusBadRequest, "validation_error", "product_type is required")
	}
	minQuality := types.DefaultMinQualityScore
	if req.MinQualityScore != nil {
		if *req.MinQualityScore < 0 || *req.MinQualityScore > 100 {
			return fail(c, http.StatusBadRequest, "validation_error", "min_quality_score must be between 0 and 100")
		}
		minQuality = *req.MinQualityScore
	}
	if req.MaxPapers < 0 || req.MaxPapers > 20 {
		return fail(c, http.StatusBadRequest, "validation_error", "max_papers must be between 1 and 20")
	}

	q := types.AssessmentQuery{
		Substance:       req.Substance,
		ProductType:     req.ProductType,
		UsageFrequency:  req.UsageFrequency,
		MinQualityScore: minQuality,
		MaxPapers:       req.MaxPapers,
	}

	result, err := s.assessor.Assess(c.Request().Context(), q)
	if err != nil {
		var nre *assessment.NoResultsError
		if errors.As(err, &nre) {
			return fail(c, http.StatusNotFound, "not_found", nre.Error())
		}
		slog.Error("assess_failed", slog.String("substance", req.Substance), slog.String("error", err.Error()))
		return fail(c, http.StatusInternalServerError, "internal_error", "assessment failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.store.Stats(c.Request().Context())
	if err != nil {
		slog.Error("stats_failed", slog.String("error", err.Error()))
		return fail(c, http.StatusInternalServerError, "internal_error", "failed to read store statistics")
	}
	return c.JSON(http.StatusOK, stats)
}

type listPapersResponse struct {
	TotalPapers int                  `json:"total_papers"`
	Papers      []types.PaperSummary `json:"papers"`
}

func (s *Server) handleListPapers(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fail(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
		}
		limit = n
	}

	papers, total, err := s.store.List(c.Request().Context(), limit)
	if err != nil {
		slog.Error("list_papers_failed", slog.String("error", err.Error()))
		return fail(c, http.StatusInternalServerError, "internal_error", "failed to list papers")
	}
	if papers == nil {
		papers = []types.PaperSummary{}
	}
	return c.JSON(http.StatusOK, listPapersResponse{TotalPapers: total, Papers: papers})
}

func (s *Server) handleClearPapers(c echo.Context) error {
	if err := s.store.Clear(c.Request().Context()); err != nil {
		slog.Error("clear_papers_failed", slog.String("error", err.Error()))
		return fail(c, http.StatusInternalServerError, "internal_error", "failed to clear papers")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "all papers cleared"})
}
