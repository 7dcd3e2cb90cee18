package ai

import "context"

// TokenEmbedder maps a string to one contextual embedding per token.
// Implementations must be thread-safe for concurrent use.
type TokenEmbedder interface {
	// EmbedTokens returns the token embeddings of text, special tokens
	// included, one row of Dimension() values per token.
	// Inputs the encoder cannot process fail with an error wrapping
	// core.ErrEncoding; they are never silently shortened unless the
	// configured TruncationPolicy says so.
	EmbedTokens(ctx context.Context, text string) ([][]float32, error)

	// EmbedTokensBatch embeds several texts. The result is in input order.
	EmbedTokensBatch(ctx context.Context, texts []string) ([][][]float32, error)

	// Dimension returns the width of one token embedding.
	Dimension() int
}

// SentenceEmbedder maps a string to one fixed-size sentence vector.
// Implementations must be thread-safe for concurrent use.
type SentenceEmbedder interface {
	// EmbedSentence returns the sentence vector of text.
	EmbedSentence(ctx context.Context, text string) ([]float32, error)

	// EmbedSentences returns sentence vectors for texts, in input order.
	EmbedSentences(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the sentence vector width.
	Dimension() int

	// Fingerprint identifies the vector space: two embedders with the same
	// fingerprint produce interchangeable vectors. Used to namespace caches.
	Fingerprint() string
}
