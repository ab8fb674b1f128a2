// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assessment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/toxassess/pkg/types"
)

func TestGeminiGenerate(t *testing.T) {
	var gotPrompt string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "gemini-2.0-flash:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing API key header")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		gotPrompt = req.Contents[0].Parts[0].Text
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{
				{Content: geminiContent{Parts: []geminiPart{{Text: "## Safety Rating: Low Risk\nHigh confidence."}}}},
			},
		})
	}))
	defer ts.Close()

	orig := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = orig }()

	g := NewGeminiGenerator(types.GeneratorConfig{APIKey: "test-key", Model: "gemini-2.0-flash"})
	papers := []types.Paper{paperWithScore(80, true)}

	narrative, err := g.Generate(context.Background(), testQuery(), papers)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(narrative, "Low Risk") {
		t.Errorf("narrative = %q", narrative)
	}

	for _, want := range []string{
		"titanium dioxide",
		"food",
		"Usage frequency: daily",
		"Title: Some study",
	} {
		if !strings.Contains(gotPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGeminiGenerateBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	orig := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = orig }()

	g := NewGeminiGenerator(types.GeneratorConfig{APIKey: "bad", Model: "gemini-2.0-flash"})
	if _, err := g.Generate(context.Background(), testQuery(), nil); err == nil {
		t.Fatal("Generate() expected error on HTTP 403")
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	orig := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = orig }()

	g := NewGeminiGenerator(types.GeneratorConfig{APIKey: "k", Model: "m"})
	if _, err := g.Generate(context.Background(), testQuery(), nil); err == nil {
		t.Fatal("Generate() expected error on empty candidates")
	}
}
