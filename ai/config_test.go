package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, BackendTEI, cfg.Backend)
	assert.Equal(t, "http://localhost:8080", cfg.EmbeddingHost)
	assert.Equal(t, "gsarti/biobert-nli", cfg.EmbeddingModel)
	assert.Equal(t, 768, cfg.TokenDimension)
	assert.Equal(t, 512, cfg.MaxSequenceLength)
	assert.Equal(t, TruncationReject, cfg.Truncation)
	assert.Equal(t, 32, cfg.BatchSize)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with custom host and model", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://tei:9000"),
			WithEmbeddingModel("dmis-lab/biobert-base-cased-v1.1"),
		)

		assert.Equal(t, "http://tei:9000", cfg.EmbeddingHost)
		assert.Equal(t, "dmis-lab/biobert-base-cased-v1.1", cfg.EmbeddingModel)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithBackend(BackendOpenAI),
			WithAPIToken("secret"),
			WithTokenDimension(1024),
			WithMaxSequenceLength(256),
			WithTruncation(TruncationTruncate),
			WithBatchSize(4),
			WithTimeout(5*time.Second),
		)

		assert.Equal(t, BackendOpenAI, cfg.Backend)
		assert.Equal(t, "secret", cfg.APIToken)
		assert.Equal(t, 1024, cfg.TokenDimension)
		assert.Equal(t, 256, cfg.MaxSequenceLength)
		assert.Equal(t, TruncationTruncate, cfg.Truncation)
		assert.Equal(t, 4, cfg.BatchSize)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		backend  Backend
		host     string
		expected string
	}{
		{"tei keeps host", BackendTEI, "http://localhost:8080", "http://localhost:8080"},
		{"tei drops trailing slash", BackendTEI, "http://localhost:8080/", "http://localhost:8080"},
		{"openai already has /v1", BackendOpenAI, "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"openai missing /v1", BackendOpenAI, "http://localhost:11434", "http://localhost:11434/v1"},
		{"openai trailing slash", BackendOpenAI, "http://localhost:11434/", "http://localhost:11434/v1"},
		{"empty host", BackendOpenAI, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Backend: tt.backend, EmbeddingHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
		})
	}

	t.Run("lowercases enums", func(t *testing.T) {
		cfg := &Config{Backend: " TEI ", Truncation: "Truncate"}
		cfg.Normalize()
		assert.Equal(t, BackendTEI, cfg.Backend)
		assert.Equal(t, TruncationTruncate, cfg.Truncation)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Backend = "onnx" }, "unknown backend"},
		{"missing host", func(c *Config) { c.EmbeddingHost = "" }, "EmbeddingHost is required"},
		{"missing model", func(c *Config) { c.EmbeddingModel = "" }, "EmbeddingModel is required"},
		{"zero dimension", func(c *Config) { c.TokenDimension = 0 }, "TokenDimension"},
		{"zero sequence length", func(c *Config) { c.MaxSequenceLength = 0 }, "MaxSequenceLength"},
		{"unknown truncation", func(c *Config) { c.Truncation = "silent" }, "truncation policy"},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, "BatchSize"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "Timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("normalizes before validating", func(t *testing.T) {
		cfg := NewConfig(WithBackend(BackendOpenAI), WithEmbeddingHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}
