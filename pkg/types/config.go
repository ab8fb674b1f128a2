// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "toxassess/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the PubMed ingestion stage.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email identifies the caller to NCBI per their usage policy.
	Email string `json:"email" yaml:"email"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the default maximum number of papers per fetch (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// RequestsPerSecond throttles E-utilities calls. NCBI allows 3 req/s
	// without an API key, 10 with one (default 3).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// EmbeddingConfig holds settings for the vector encoder.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the Ollama-compatible embedding endpoint base URL.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the embedding model identifier (e.g. "nomic-embed-text").
	Model string `json:"model" yaml:"model"`

	// Dimension is the embedding vector width (default 768). Must match the
	// store's column type.
	Dimension int `json:"dimension" yaml:"dimension"`
}

// StoreConfig holds settings for the paper store.
type StoreConfig struct {
	// DatabaseURL is the PostgreSQL DSN. The target database must have the
	// pgvector extension installed.
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`

	// MaxConns caps the connection pool size (default 10).
	MaxConns int `json:"max_conns" yaml:"max_conns"`
}

// GeneratorConfig holds settings for the narrative generator.
type GeneratorConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates with the Gemini API. When empty the service runs
	// with the deterministic generator instead.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the Gemini model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Port is the listen port (default 8080).
	Port int `json:"port" yaml:"port"`

	// ShutdownTimeout bounds graceful drain on SIGINT/SIGTERM (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ServiceConfig groups all stage configurations.
type ServiceConfig struct {
	PubMed    PubMedConfig    `json:"pubmed" yaml:"pubmed"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
