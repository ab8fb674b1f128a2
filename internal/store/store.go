// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists scored papers in PostgreSQL with pgvector and
// answers similarity queries with a quality floor.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/pdiddy/toxassess/internal/embed"
	"github.com/pdiddy/toxassess/internal/scoring"
	"github.com/pdiddy/toxassess/pkg/types"
)

// Store manages the papers table. Papers are write-once: Add skips
// identifiers that already exist, and nothing updates a stored row.
type Store struct {
	pool    *pgxpool.Pool
	encoder embed.Encoder
}

// New opens a connection pool, ensures the schema exists, and returns the
// store. The target database must have the pgvector extension available.
func New(ctx context.Context, cfg types.StoreConfig, encoder embed.Encoder) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	poolCfg.MaxConns = int32(maxConns)
	poolCfg.MaxConnLifetime = 1 * time.Hour
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{pool: pool, encoder: encoder}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			pmid TEXT NOT NULL,
			title TEXT NOT NULL,
			journal TEXT NOT NULL DEFAULT '',
			year TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT '',
			publication_types TEXT[] NOT NULL DEFAULT '{}',
			doc_text TEXT NOT NULL,
			quality_score INTEGER NOT NULL,
			is_clinical_trial BOOLEAN NOT NULL,
			is_rct BOOLEAN NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, s.encoder.Dimension()),
		`CREATE INDEX IF NOT EXISTS idx_papers_quality ON papers(quality_score)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add embeds and inserts the papers. Identifiers already present are left
// untouched. Returns the number of rows actually inserted.
func (s *Store) Add(ctx context.Context, papers []types.Paper) (int, error) {
	if len(papers) == 0 {
		return 0, nil
	}

	texts := make([]string, len(papers))
	for i, p := range papers {
		texts[i] = p.DocumentText()
	}
	vectors, err := s.encoder.Encode(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding papers: %w", err)
	}

	inserted := 0
	for i, p := range papers {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO papers
				(id, pmid, title, journal, year, abstract, publication_types,
				 doc_text, quality_score, is_clinical_trial, is_rct, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (id) DO NOTHING`,
			p.StoreID(), p.PMID, p.Title, p.Journal, p.Year, p.Abstract,
			p.PublicationTypes, texts[i], p.QualityScore,
			p.IsClinicalTrial, p.IsRCT, pgvector.NewVector(vectors[i]),
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting paper %s: %w", p.PMID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	slog.Info("papers_stored",
		slog.Int("received", len(papers)),
		slog.Int("inserted", inserted),
	)
	return inserted, nil
}

// Search embeds queryText and returns up to limit papers with
// quality_score >= minQuality, ordered by cosine distance.
func (s *Store) Search(ctx context.Context, queryText string, minQuality, limit int) ([]types.Paper, error) {
	vectors, err := s.encoder.Encode(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT pmid, title, journal, year, abstract, publication_types,
			quality_score, is_clinical_trial, is_rct
		 FROM papers
		 WHERE quality_score >= $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		pgvector.NewVector(vectors[0]), minQuality, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		if err := rows.Scan(&p.PMID, &p.Title, &p.Journal, &p.Year, &p.Abstract,
			&p.PublicationTypes, &p.QualityScore, &p.IsClinicalTrial, &p.IsRCT); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// Stats aggregates the stored corpus: totals, average quality, clinical
// trial count, and the quality bucket distribution.
func (s *Store) Stats(ctx context.Context) (types.StoreStats, error) {
	stats := types.StoreStats{
		QualityDistribution: map[string]int{"high": 0, "good": 0, "moderate": 0, "low": 0},
	}

	rows, err := s.pool.Query(ctx, `SELECT quality_score, is_clinical_trial FROM papers`)
	if err != nil {
		return stats, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	sum := 0
	for rows.Next() {
		var score int
		var clinical bool
		if err := rows.Scan(&score, &clinical); err != nil {
			return stats, fmt.Errorf("scanning stats row: %w", err)
		}
		stats.TotalPapers++
		sum += score
		if clinical {
			stats.ClinicalTrialCount++
		}
		stats.QualityDistribution[scoring.Category(score)]++
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	if stats.TotalPapers > 0 {
		stats.AverageQualityScore = types.Round2(float64(sum) / float64(stats.TotalPapers))
	}
	return stats, nil
}

// List returns up to limit paper summaries, newest first, plus the total
// number of stored papers.
func (s *Store) List(ctx context.Context, limit int) ([]types.PaperSummary, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM papers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting papers: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT pmid, title, journal, year, quality_score, is_clinical_trial
		 FROM papers
		 ORDER BY created_at DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	summaries := []types.PaperSummary{}
	for rows.Next() {
		var ps types.PaperSummary
		if err := rows.Scan(&ps.PMID, &ps.Title, &ps.Journal, &ps.Year,
			&ps.QualityScore, &ps.IsClinicalTrial); err != nil {
			return nil, 0, fmt.Errorf("scanning summary: %w", err)
		}
		ps.URL = types.PubMedBaseURL + ps.PMID
		summaries = append(summaries, ps)
	}
	return summaries, total, rows.Err()
}

// Clear removes every stored paper. Irreversible.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE papers`); err != nil {
		return fmt.Errorf("clearing papers: %w", err)
	}
	slog.Info("papers_cleared")
	return nil
}
