package scoring

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/qamatch/ai/mock"
	"github.com/poiesic/qamatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"unit axis", []float32{0, 0}, []float32{1, 0}, 1},
		{"three four five", []float32{0, 0}, []float32{3, 4}, 5},
		{"negative", []float32{-1, -1}, []float32{1, 1}, math.Sqrt(8)},
		{"empty", []float32{}, []float32{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestDistance_Properties(t *testing.T) {
	a := []float32{0.12, -0.5, 0.33, 0.9, -0.01}
	b := []float32{-0.7, 0.25, 0.1, 0.4, 0.6}

	self, err := Distance(a, a)
	require.NoError(t, err)
	assert.Zero(t, self)

	ab, err := Distance(a, b)
	require.NoError(t, err)
	ba, err := Distance(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Greater(t, ab, 0.0)
}

func TestDistance_DimensionMismatch(t *testing.T) {
	_, err := Distance([]float32{1, 2}, []float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestPairScorer_Score(t *testing.T) {
	embedder := mock.NewMockSentenceEmbedder(2).
		WithVector("can my cat get covid", []float32{0, 0}).
		WithVector("can cats catch covid", []float32{0.6, 0.8})
	s := NewPairScorer(embedder)
	ctx := context.Background()

	d, err := s.Score(ctx, "can my cat get covid", "can cats catch covid")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-6)

	d, err = s.Score(ctx, "can my cat get covid", "can my cat get covid")
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestPairScorer_Symmetric(t *testing.T) {
	s := NewPairScorer(mock.NewMockSentenceEmbedder(16))
	ctx := context.Background()

	ab, err := s.Score(ctx, "how long does the virus live on surfaces", "is there a vaccine")
	require.NoError(t, err)
	ba, err := s.Score(ctx, "is there a vaccine", "how long does the virus live on surfaces")
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestPairScorer_EncodingError(t *testing.T) {
	embedder := mock.NewMockSentenceEmbedder(4)
	boom := errors.New("sequence too long")
	embedder.EmbedSentenceFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, boom
	}

	_, err := NewPairScorer(embedder).Score(context.Background(), "a", "b")
	assert.ErrorIs(t, err, core.ErrEncoding)
	assert.ErrorIs(t, err, boom)
}

func TestPairScorer_BlankInput(t *testing.T) {
	embedder := mock.NewMockSentenceEmbedder(4)
	s := NewPairScorer(embedder)

	tests := []struct {
		name string
		a, b string
	}{
		{"empty first", "", "is there a vaccine"},
		{"blank second", "is there a vaccine", " \n\t"},
		{"both empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Score(context.Background(), tt.a, tt.b)
			assert.ErrorIs(t, err, core.ErrInvalidQuery)
		})
	}
	assert.Zero(t, embedder.CallCount())
}
