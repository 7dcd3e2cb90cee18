package mock

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
)

// MockTokenEmbedder is a test double for ai.TokenEmbedder.
// It allows custom behavior injection via function fields.
type MockTokenEmbedder struct {
	// EmbedTokensFunc is called by EmbedTokens and EmbedTokensBatch if set.
	// If nil, uses default deterministic behavior.
	EmbedTokensFunc func(ctx context.Context, text string) ([][]float32, error)

	dim       int
	mu        sync.Mutex
	callCount int
}

// NewMockTokenEmbedder creates a mock token embedder producing rows of width dim.
// By default a text becomes [CLS] + one token per whitespace separated word + [SEP],
// and every token gets a deterministic vector derived from its hash.
func NewMockTokenEmbedder(dim int) *MockTokenEmbedder {
	return &MockTokenEmbedder{dim: dim}
}

// EmbedTokens returns deterministic token embeddings for text.
func (m *MockTokenEmbedder) EmbedTokens(ctx context.Context, text string) ([][]float32, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.EmbedTokensFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return m.tokens(text), nil
}

// EmbedTokensBatch embeds each text in order.
func (m *MockTokenEmbedder) EmbedTokensBatch(ctx context.Context, texts []string) ([][][]float32, error) {
	out := make([][][]float32, len(texts))
	for i, text := range texts {
		rows, err := m.EmbedTokens(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = rows
	}
	return out, nil
}

// Dimension returns the token embedding width.
func (m *MockTokenEmbedder) Dimension() int {
	return m.dim
}

// CallCount returns the number of texts embedded.
func (m *MockTokenEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Fingerprint identifies the mock token encoder.
func (m *MockTokenEmbedder) Fingerprint() string {
	return "mock-tokens"
}

func (m *MockTokenEmbedder) tokens(text string) [][]float32 {
	words := strings.Fields(strings.ToLower(text))
	rows := make([][]float32, 0, len(words)+2)
	rows = append(rows, generateDeterministicVector("[CLS]", m.dim))
	for _, w := range words {
		rows = append(rows, generateDeterministicVector(w, m.dim))
	}
	rows = append(rows, generateDeterministicVector("[SEP]", m.dim))
	return rows
}

// MockSentenceEmbedder is a test double for ai.SentenceEmbedder.
type MockSentenceEmbedder struct {
	// EmbedSentenceFunc is called by EmbedSentence and EmbedSentences if set.
	// If nil, fixed vectors are consulted and then a hash-derived vector is used.
	EmbedSentenceFunc func(ctx context.Context, text string) ([]float32, error)

	dim       int
	vectors   map[string][]float32
	mu        sync.Mutex
	callCount int
	calls     map[string]int
}

// NewMockSentenceEmbedder creates a mock sentence embedder producing vectors of width dim.
// Note: Returns concrete type to allow test assertions.
func NewMockSentenceEmbedder(dim int) *MockSentenceEmbedder {
	return &MockSentenceEmbedder{
		dim:     dim,
		vectors: make(map[string][]float32),
		calls:   make(map[string]int),
	}
}

// WithVector pins the vector returned for text.
func (m *MockSentenceEmbedder) WithVector(text string, vector []float32) *MockSentenceEmbedder {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[text] = vector
	return m
}

// EmbedSentence returns the pinned or hash-derived vector for text.
func (m *MockSentenceEmbedder) EmbedSentence(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.calls[text]++
	fn := m.EmbedSentenceFunc
	pinned, ok := m.vectors[text]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	if ok {
		out := make([]float32, len(pinned))
		copy(out, pinned)
		return out, nil
	}
	return generateDeterministicVector(text, m.dim), nil
}

// EmbedSentences embeds each text in order.
func (m *MockSentenceEmbedder) EmbedSentences(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.EmbedSentence(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dimension returns the sentence vector width.
func (m *MockSentenceEmbedder) Dimension() int {
	return m.dim
}

// Fingerprint identifies the mock vector space.
func (m *MockSentenceEmbedder) Fingerprint() string {
	return "mock"
}

// CallCount returns the number of texts embedded.
func (m *MockSentenceEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// CallsFor returns how many times text was embedded.
func (m *MockSentenceEmbedder) CallsFor(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[text]
}

// generateDeterministicVector creates a deterministic embedding vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000)/1000.0 - 0.5
	}
	return vector
}
