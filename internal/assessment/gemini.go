// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"
	"time"

	"github.com/pdiddy/toxassess/internal/httputil"
	"github.com/pdiddy/toxassess/pkg/types"
)

// assessmentPromptTmpl is the prompt sent to the Gemini API. It asks for the
// safety rating on the first line so the downstream keyword classifier has a
// predictable phrase to find.
var assessmentPromptTmpl = template.Must(template.New("assessment").Parse(`You are a toxicology expert. Analyze the following research papers about {{.Substance}} in {{.ProductType}}.

Usage frequency: {{.UsageFrequency}}

Research Papers:
{{.Context}}

Provide a comprehensive toxicity assessment including:
1. **Safety Rating:** (Low Risk / Moderate Risk / High Risk / Insufficient Data)
2. **Key Findings:** Most important findings from highest-quality studies
3. **Usage Frequency Impact:** How {{.UsageFrequency}} usage affects risk
4. **Vulnerable Populations:** Groups at higher risk (if any)
5. **Confidence Level:** (High/Moderate/Low) based on study quality and quantity
6. **Research Limitations:** Gaps or conflicts in the evidence

Be concise and evidence-based. Start with the safety rating.`))

// geminiAPIBase is the Gemini API endpoint prefix. Package-level var for
// test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiGenerator calls the Gemini API to produce the narrative. This is the
// External variant of Generator.
type GeminiGenerator struct {
	APIKey string
	Model  string
	Client *http.Client
}

// NewGeminiGenerator builds the external generator from config.
func NewGeminiGenerator(cfg types.GeneratorConfig) *GeminiGenerator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiGenerator{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Client: &http.Client{Timeout: timeout},
	}
}

// Gemini generateContent request and response bodies.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate renders the assessment prompt and calls the Gemini API.
func (g *GeminiGenerator) Generate(ctx context.Context, q types.AssessmentQuery, papers []types.Paper) (string, error) {
	prompt, err := renderPrompt(q, papers)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", geminiAPIBase, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(msg))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	for _, cand := range gr.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("Gemini API returned no text content")
}

// renderPrompt executes the assessment prompt template.
func renderPrompt(q types.AssessmentQuery, papers []types.Paper) (string, error) {
	var buf bytes.Buffer
	err := assessmentPromptTmpl.Execute(&buf, struct {
		Substance      string
		ProductType    string
		UsageFrequency string
		Context        string
	}{
		Substance:      q.Substance,
		ProductType:    q.ProductType,
		UsageFrequency: q.UsageFrequency,
		Context:        contextBlob(papers),
	})
	return buf.String(), err
}
