// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed encodes text into vectors through an Ollama-compatible
// embedding endpoint.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pdiddy/toxassess/internal/httputil"
	"github.com/pdiddy/toxassess/pkg/types"
)

// Encoder turns texts into fixed-width embedding vectors.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// OllamaEncoder calls the Ollama /api/embed endpoint.
type OllamaEncoder struct {
	baseURL   string
	model     string
	dimension int
	client    *http.Client
}

// NewOllamaEncoder builds an encoder for the configured endpoint and model.
func NewOllamaEncoder(cfg types.EmbeddingConfig) *OllamaEncoder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	dim := cfg.Dimension
	if dim <= 0 {
		dim = 768
	}
	return &OllamaEncoder{
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
		dimension: dim,
		client:    &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Encode embeds all texts in a single batch call.
func (e *OllamaEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()

	body, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshaling embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, e.client, req, 0)
	if err != nil {
		slog.Error("embed_request_failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("calling embedding endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding endpoint returned HTTP %d", resp.StatusCode)
	}

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}
	if len(er.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding endpoint returned %d vectors for %d texts", len(er.Embeddings), len(texts))
	}

	slog.Info("embed_completed",
		slog.Int("texts", len(texts)),
		slog.String("model", e.model),
		slog.Duration("elapsed", time.Since(start)),
	)
	return er.Embeddings, nil
}

// Dimension returns the configured vector width.
func (e *OllamaEncoder) Dimension() int { return e.dimension }
