// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/toxassess/pkg/types"
)

func TestEncode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %q, want /api/embed", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q", req.Model)
		}
		vectors := make([][]float32, len(req.Input))
		for i := range vectors {
			vectors[i] = []float32{0.1, 0.2, 0.3}
		}
		json.NewEncoder(w).Encode(embedResponse{Embeddings: vectors})
	}))
	defer ts.Close()

	enc := NewOllamaEncoder(types.EmbeddingConfig{
		BaseURL:   ts.URL,
		Model:     "nomic-embed-text",
		Dimension: 3,
	})

	got, err := enc.Encode(context.Background(), []string{"paper one", "paper two"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(got) != 2 || len(got[0]) != 3 {
		t.Errorf("got %d vectors of width %d, want 2x3", len(got), len(got[0]))
	}
	if enc.Dimension() != 3 {
		t.Errorf("Dimension() = %d, want 3", enc.Dimension())
	}
}

func TestEncodeCountMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{0.1}}})
	}))
	defer ts.Close()

	enc := NewOllamaEncoder(types.EmbeddingConfig{BaseURL: ts.URL, Model: "m"})
	_, err := enc.Encode(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Fatal("Encode() expected mismatch error")
	}
}

func TestEncodeBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	enc := NewOllamaEncoder(types.EmbeddingConfig{BaseURL: ts.URL, Model: "m"})
	if _, err := enc.Encode(context.Background(), []string{"a"}); err == nil {
		t.Fatal("Encode() expected error on HTTP 502")
	}
}
