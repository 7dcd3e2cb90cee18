package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/poiesic/qamatch/ai"
	"github.com/poiesic/qamatch/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// SentenceEmbedder implements ai.SentenceEmbedder using OpenAI-compatible embedding APIs.
type SentenceEmbedder struct {
	embedder    embeddings.Embedder
	fingerprint string
	logger      *slog.Logger

	mu  sync.Mutex
	dim int
}

var _ ai.SentenceEmbedder = (*SentenceEmbedder)(nil)

// newSentenceEmbedder is an internal constructor that returns the concrete type.
func newSentenceEmbedder(config *ai.Config) (*SentenceEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, err)
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.APIToken
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(config.BatchSize),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, err)
	}

	return &SentenceEmbedder{
		embedder:    embedder,
		fingerprint: "openai:" + config.EmbeddingHost + "#" + config.EmbeddingModel,
		logger:      slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewSentenceEmbedder creates a new pooled sentence embedder using the provided configuration.
//
// Returns ai.SentenceEmbedder interface to enforce abstraction.
func NewSentenceEmbedder(config *ai.Config) (ai.SentenceEmbedder, error) {
	return newSentenceEmbedder(config)
}

// EmbedSentence generates a vector embedding for a single text string.
func (e *SentenceEmbedder) EmbedSentence(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedSentences(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedSentences generates vector embeddings for multiple text strings in a batch.
func (e *SentenceEmbedder) EmbedSentences(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	// langchaingo rewrites newlines in place
	input := make([]string, len(texts))
	copy(input, texts)

	vectors, err := e.embedder.EmbedDocuments(ctx, input)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEncoding, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %w: got %d for %d inputs",
			core.ErrEncoding, ai.ErrUnexpectedResponseLength, len(vectors), len(texts))
	}

	for _, v := range vectors {
		if err := e.checkDimension(len(v)); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// Dimension returns the vector width observed so far, or 0 before the first call.
func (e *SentenceEmbedder) Dimension() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dim
}

// Fingerprint identifies the host and model.
func (e *SentenceEmbedder) Fingerprint() string {
	return e.fingerprint
}

// checkDimension records the first non-zero width and rejects any later change.
func (e *SentenceEmbedder) checkDimension(n int) error {
	if n == 0 {
		return fmt.Errorf("%w: %w", core.ErrEncoding, ai.ErrEmptyResponse)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dim == 0 {
		e.dim = n
		return nil
	}
	if e.dim != n {
		return fmt.Errorf("%w: %w: got %d, want %d", core.ErrEncoding, ai.ErrUnexpectedDimension, n, e.dim)
	}
	return nil
}
