package tei

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/qamatch/ai"
	"github.com/poiesic/qamatch/core"
	"github.com/tmc/langchaingo/embeddings"
)

const embedAllPath = "/embed_all"

// TokenEmbedder implements ai.TokenEmbedder over the /embed_all route.
type TokenEmbedder struct {
	client     *http.Client
	url        string
	token      string
	dim        int
	maxLen     int
	truncation ai.TruncationPolicy
	batchSize  int
	logger     *slog.Logger
}

var _ ai.TokenEmbedder = (*TokenEmbedder)(nil)

type embedAllRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// newTokenEmbedder is an internal constructor that returns the concrete type.
func newTokenEmbedder(config *ai.Config) (*TokenEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, err)
	}
	if config.Backend != ai.BackendTEI {
		return nil, fmt.Errorf("%w: backend %q does not serve token embeddings", core.ErrModelLoad, config.Backend)
	}

	return &TokenEmbedder{
		client:     &http.Client{Timeout: config.Timeout},
		url:        config.EmbeddingHost + embedAllPath,
		token:      config.APIToken,
		dim:        config.TokenDimension,
		maxLen:     config.MaxSequenceLength,
		truncation: config.Truncation,
		batchSize:  config.BatchSize,
		logger:     slog.Default().With("component", "tei-embedder"),
	}, nil
}

// NewTokenEmbedder creates a token embedder for the configured server.
//
// Returns ai.TokenEmbedder interface to enforce abstraction.
func NewTokenEmbedder(config *ai.Config) (ai.TokenEmbedder, error) {
	return newTokenEmbedder(config)
}

// EmbedTokens returns the token embeddings of a single text.
func (e *TokenEmbedder) EmbedTokens(ctx context.Context, text string) ([][]float32, error) {
	out, err := e.EmbedTokensBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedTokensBatch returns token embeddings for texts, in input order.
// Requests are split into batches of the configured size.
func (e *TokenEmbedder) EmbedTokensBatch(ctx context.Context, texts []string) ([][][]float32, error) {
	if len(texts) == 0 {
		return [][][]float32{}, nil
	}

	out := make([][][]float32, 0, len(texts))
	for _, batch := range embeddings.BatchTexts(texts, e.batchSize) {
		e.logger.Debug("requesting token embeddings", "count", len(batch))

		rows, err := e.post(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(rows) != len(batch) {
			return nil, fmt.Errorf("%w: %w: got %d for %d inputs",
				core.ErrEncoding, ai.ErrUnexpectedResponseLength, len(rows), len(batch))
		}
		for i := range rows {
			checked, err := e.check(rows[i])
			if err != nil {
				e.logger.Warn("rejected token embeddings", "input", batch[i], "err", err)
				return nil, err
			}
			out = append(out, checked)
		}
	}
	return out, nil
}

// Dimension returns the configured token embedding width.
func (e *TokenEmbedder) Dimension() int {
	return e.dim
}

// check enforces the sequence limit and the row width of one input.
func (e *TokenEmbedder) check(rows [][]float32) ([][]float32, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %w", core.ErrEncoding, ai.ErrEmptyResponse)
	}
	if len(rows) > e.maxLen {
		if e.truncation == ai.TruncationReject {
			return nil, fmt.Errorf("%w: %w: %d tokens, limit %d",
				core.ErrEncoding, ai.ErrInputTooLong, len(rows), e.maxLen)
		}
		rows = rows[:e.maxLen]
	}
	for i, row := range rows {
		if len(row) != e.dim {
			return nil, fmt.Errorf("%w: %w: token %d has %d values, want %d",
				core.ErrEncoding, ai.ErrUnexpectedDimension, i, len(row), e.dim)
		}
	}
	return rows, nil
}

func (e *TokenEmbedder) post(ctx context.Context, inputs []string) ([][][]float32, error) {
	payload, err := json.Marshal(embedAllRequest{
		Inputs:   inputs,
		Truncate: e.truncation == ai.TruncationTruncate,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", core.ErrEncoding, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", core.ErrEncoding, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("encoder request failed", "url", e.url, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEncoding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var rows [][][]float32
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", core.ErrEncoding, err)
	}
	return rows, nil
}

// statusError turns a non-200 answer into an error carrying the server message.
// 413 is what the server sends for inputs over its token limit.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := string(bytes.TrimSpace(body))
	var parsed errorResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		msg = parsed.Error
	}

	cause := errors.New(msg)
	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		cause = fmt.Errorf("%w: %s", ai.ErrInputTooLong, msg)
	}
	return fmt.Errorf("%w: encoder returned status %d: %w", core.ErrEncoding, resp.StatusCode, cause)
}
