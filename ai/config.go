// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backend selects how sentence vectors are produced.
type Backend string

const (
	// BackendTEI fetches token embeddings from a text-embeddings-inference
	// server and runs them through the fine-tuned head.
	BackendTEI Backend = "tei"

	// BackendOpenAI uses pooled sentence embeddings from an
	// OpenAI-compatible embeddings API. No head weights are needed.
	BackendOpenAI Backend = "openai"
)

// TruncationPolicy decides what happens to inputs longer than MaxSequenceLength.
type TruncationPolicy string

const (
	// TruncationReject fails the request with ErrInputTooLong.
	TruncationReject TruncationPolicy = "reject"

	// TruncationTruncate keeps the first MaxSequenceLength tokens.
	TruncationTruncate TruncationPolicy = "truncate"
)

// Config holds configuration for the external encoder.
type Config struct {
	// Backend selects the encoder backend.
	// Default: BackendTEI
	Backend Backend

	// EmbeddingHost is the base URL of the encoder service.
	// Example: "http://localhost:8080" for a text-embeddings-inference server,
	// "http://localhost:11434/v1" for an OpenAI-compatible server.
	EmbeddingHost string

	// EmbeddingModel is the encoder model identifier.
	// Example: "gsarti/biobert-nli"
	EmbeddingModel string

	// APIToken is sent as a bearer token when set.
	APIToken string

	// TokenDimension is the width of one token embedding.
	// Default: 768
	TokenDimension int

	// MaxSequenceLength is the longest token sequence the encoder accepts,
	// special tokens included.
	// Default: 512
	MaxSequenceLength int

	// Truncation is applied to inputs longer than MaxSequenceLength.
	// Default: TruncationReject
	Truncation TruncationPolicy

	// BatchSize is the number of texts sent per encoder request.
	// Default: 32
	BatchSize int

	// Timeout bounds a single encoder request.
	// Default: 60s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend sets the encoder backend.
func WithBackend(backend Backend) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithEmbeddingHost sets the encoder service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the encoder model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAPIToken sets the bearer token.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// WithTokenDimension sets the expected token embedding width.
func WithTokenDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.TokenDimension = dim
	}
}

// WithMaxSequenceLength sets the token limit.
func WithMaxSequenceLength(n int) ConfigOption {
	return func(c *Config) {
		c.MaxSequenceLength = n
	}
}

// WithTruncation sets the policy for inputs over the token limit.
func WithTruncation(policy TruncationPolicy) ConfigOption {
	return func(c *Config) {
		c.Truncation = policy
	}
}

// WithBatchSize sets the number of texts per encoder request.
func WithBatchSize(n int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = n
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// DefaultConfig returns a Config matching the encoder the head was trained on:
// biobert-nli served locally by text-embeddings-inference.
func DefaultConfig() *Config {
	return &Config{
		Backend:           BackendTEI,
		EmbeddingHost:     "http://localhost:8080",
		EmbeddingModel:    "gsarti/biobert-nli",
		TokenDimension:    768,
		MaxSequenceLength: 512,
		Truncation:        TruncationReject,
		BatchSize:         32,
		Timeout:           60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithEmbeddingHost("http://tei.internal:8080"),
//	    WithTruncation(TruncationTruncate),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get the /v1 suffix most servers (Ollama, LocalAI, vLLM)
// require; text-embeddings-inference hosts lose any trailing slash.
func (c *Config) Normalize() {
	c.Backend = Backend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	c.Truncation = TruncationPolicy(strings.ToLower(strings.TrimSpace(string(c.Truncation))))
	if c.EmbeddingHost == "" {
		return
	}
	c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
	if c.Backend == BackendOpenAI && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Backend != BackendTEI && c.Backend != BackendOpenAI {
		return fmt.Errorf("ai config: unknown backend %q", c.Backend)
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.TokenDimension < 1 {
		return errors.New("ai config: TokenDimension must be positive")
	}
	if c.MaxSequenceLength < 1 {
		return errors.New("ai config: MaxSequenceLength must be positive")
	}
	if c.Truncation != TruncationReject && c.Truncation != TruncationTruncate {
		return fmt.Errorf("ai config: unknown truncation policy %q", c.Truncation)
	}
	if c.BatchSize < 1 {
		return errors.New("ai config: BatchSize must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	return nil
}
