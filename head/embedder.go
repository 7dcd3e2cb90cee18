package head

import (
	"context"
	"fmt"

	"github.com/poiesic/qamatch/ai"
	"github.com/poiesic/qamatch/core"
)

// SentenceEmbedder composes a token encoder with a Head.
type SentenceEmbedder struct {
	tokens      ai.TokenEmbedder
	head        *Head
	fingerprint string
}

var _ ai.SentenceEmbedder = (*SentenceEmbedder)(nil)

// NewSentenceEmbedder returns a sentence embedder that encodes text with
// tokens and reduces the token rows with h. encoder names the token model
// and becomes part of the fingerprint.
func NewSentenceEmbedder(tokens ai.TokenEmbedder, h *Head, encoder string) (ai.SentenceEmbedder, error) {
	if tokens == nil {
		return nil, ErrTokenEmbedderRequired
	}
	if h == nil {
		return nil, ErrWeightsRequired
	}
	if tokens.Dimension() != h.InputSize() {
		return nil, fmt.Errorf("%w: token embedder width %d does not match head input %d",
			core.ErrModelLoad, tokens.Dimension(), h.InputSize())
	}
	return &SentenceEmbedder{
		tokens:      tokens,
		head:        h,
		fingerprint: encoder + "+head:" + h.Fingerprint(),
	}, nil
}

// EmbedSentence encodes text and runs every token row through the head.
func (e *SentenceEmbedder) EmbedSentence(ctx context.Context, text string) ([]float32, error) {
	rows, err := e.tokens.EmbedTokens(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.encode(rows)
}

// EmbedSentences encodes texts in one token batch.
func (e *SentenceEmbedder) EmbedSentences(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	batch, err := e.tokens.EmbedTokensBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(batch) != len(texts) {
		return nil, fmt.Errorf("%w: %w: got %d token sequences for %d texts",
			core.ErrEncoding, ai.ErrUnexpectedResponseLength, len(batch), len(texts))
	}

	out := make([][]float32, len(batch))
	for i, rows := range batch {
		if out[i], err = e.encode(rows); err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
	}
	return out, nil
}

func (e *SentenceEmbedder) encode(rows [][]float32) ([]float32, error) {
	vec, err := e.head.Encode(rows, len(rows))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEncoding, err)
	}
	return vec, nil
}

// Dimension returns the head output width.
func (e *SentenceEmbedder) Dimension() int { return e.head.OutputSize() }

// Fingerprint identifies the encoder and head parameters.
func (e *SentenceEmbedder) Fingerprint() string { return e.fingerprint }
