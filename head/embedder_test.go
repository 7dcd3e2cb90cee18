package head

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/qamatch/ai/mock"
	"github.com/poiesic/qamatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(t *testing.T) (*mock.MockTokenEmbedder, *Head) {
	t.Helper()
	h, err := New(NewRandomWeights(8, 4, 2, 21))
	require.NoError(t, err)
	return mock.NewMockTokenEmbedder(8), h
}

func TestNewSentenceEmbedder(t *testing.T) {
	tokens, h := newTestEmbedder(t)

	e, err := NewSentenceEmbedder(tokens, h, "mock")
	require.NoError(t, err)
	assert.Equal(t, 8, e.Dimension())
	assert.True(t, strings.HasPrefix(e.Fingerprint(), "mock+head:"))
	assert.Contains(t, e.Fingerprint(), h.Fingerprint())

	_, err = NewSentenceEmbedder(nil, h, "mock")
	assert.ErrorIs(t, err, ErrTokenEmbedderRequired)

	_, err = NewSentenceEmbedder(tokens, nil, "mock")
	assert.ErrorIs(t, err, ErrWeightsRequired)

	_, err = NewSentenceEmbedder(mock.NewMockTokenEmbedder(5), h, "mock")
	assert.ErrorIs(t, err, core.ErrModelLoad)
}

func TestSentenceEmbedder_EmbedSentence(t *testing.T) {
	tokens, h := newTestEmbedder(t)
	e, err := NewSentenceEmbedder(tokens, h, "mock")
	require.NoError(t, err)
	ctx := context.Background()

	rows, err := tokens.EmbedTokens(ctx, "Can my cat get COVID?")
	require.NoError(t, err)
	want, err := h.Encode(rows, len(rows))
	require.NoError(t, err)

	got, err := e.EmbedSentence(ctx, "Can my cat get COVID?")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := e.EmbedSentence(ctx, "How does the virus spread?")
	require.NoError(t, err)
	assert.NotEqual(t, got, other)
}

func TestSentenceEmbedder_EmbedSentencesMatchesSingle(t *testing.T) {
	tokens, h := newTestEmbedder(t)
	e, err := NewSentenceEmbedder(tokens, h, "mock")
	require.NoError(t, err)
	ctx := context.Background()

	texts := []string{"first question", "a second longer question here", "third"}
	batch, err := e.EmbedSentences(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, text := range texts {
		single, err := e.EmbedSentence(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i], text)
	}

	empty, err := e.EmbedSentences(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSentenceEmbedder_Errors(t *testing.T) {
	tokens, h := newTestEmbedder(t)
	e, err := NewSentenceEmbedder(tokens, h, "mock")
	require.NoError(t, err)
	ctx := context.Background()

	encoderErr := errors.New("encoder offline")
	tokens.EmbedTokensFunc = func(ctx context.Context, text string) ([][]float32, error) {
		return nil, encoderErr
	}
	_, err = e.EmbedSentence(ctx, "question")
	assert.ErrorIs(t, err, encoderErr)

	tokens.EmbedTokensFunc = func(ctx context.Context, text string) ([][]float32, error) {
		return [][]float32{}, nil
	}
	_, err = e.EmbedSentence(ctx, "question")
	assert.ErrorIs(t, err, core.ErrEncoding)
	assert.ErrorIs(t, err, core.ErrEmptySequence)

	_, err = e.EmbedSentences(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, core.ErrEmptySequence)
}
