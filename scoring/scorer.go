package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/qamatch/ai"
	"github.com/poiesic/qamatch/core"
)

// PairScorer embeds two strings and reports the distance between them.
type PairScorer struct {
	embedder ai.SentenceEmbedder
}

// NewPairScorer returns a scorer backed by embedder.
func NewPairScorer(embedder ai.SentenceEmbedder) *PairScorer {
	return &PairScorer{embedder: embedder}
}

// Score returns Distance(embed(a), embed(b)). Both strings go to the encoder
// in a single batch. Blank strings fail with core.ErrInvalidQuery.
func (s *PairScorer) Score(ctx context.Context, a, b string) (float64, error) {
	if err := core.ValidateQuery(a); err != nil {
		return 0, err
	}
	if err := core.ValidateQuery(b); err != nil {
		return 0, err
	}

	vecs, err := s.embedder.EmbedSentences(ctx, []string{a, b})
	if err != nil {
		if errors.Is(err, core.ErrEncoding) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", core.ErrEncoding, err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("%w: %w: got %d vectors for 2 texts",
			core.ErrEncoding, ai.ErrUnexpectedResponseLength, len(vecs))
	}
	return Distance(vecs[0], vecs[1])
}
