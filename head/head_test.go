package head

import (
	"math"
	"testing"

	"github.com/poiesic/qamatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func zeroDirection(in, hidden int) DirectionWeights {
	return DirectionWeights{
		WeightIH: mat.NewDense(4*hidden, in, nil),
		WeightHH: mat.NewDense(4*hidden, hidden, nil),
		BiasIH:   make([]float64, 4*hidden),
		BiasHH:   make([]float64, 4*hidden),
	}
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func randomTokens(rows, width int, offset float32) [][]float32 {
	out := make([][]float32, rows)
	for i := range out {
		out[i] = make([]float32, width)
		for j := range out[i] {
			out[i][j] = float32(math.Sin(float64(i*width+j)+float64(offset))) * 0.7
		}
	}
	return out
}

func TestEncode_ZeroWeightsReturnBias(t *testing.T) {
	w := &Weights{
		InputSize:  3,
		HiddenSize: 2,
		NumLayers:  2,
		Forward:    []DirectionWeights{zeroDirection(3, 2), zeroDirection(4, 2)},
		Backward:   []DirectionWeights{zeroDirection(3, 2), zeroDirection(4, 2)},
		ProjWeight: identity(4),
		ProjBias:   []float64{0.1, -0.2, 0.3, -0.4},
	}
	h, err := New(w)
	require.NoError(t, err)

	out, err := h.Encode(randomTokens(5, 3, 0), 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.1, -0.2, 0.3, -0.4}, out, 1e-7)
}

func TestEncode_SingleStepMatchesHandComputation(t *testing.T) {
	dir := func() DirectionWeights {
		d := zeroDirection(1, 1)
		for g := 0; g < 4; g++ {
			d.WeightIH.Set(g, 0, 1)
		}
		return d
	}
	w := &Weights{
		InputSize:  1,
		HiddenSize: 1,
		NumLayers:  1,
		Forward:    []DirectionWeights{dir()},
		Backward:   []DirectionWeights{dir()},
		ProjWeight: identity(2),
		ProjBias:   []float64{0, 0},
	}
	h, err := New(w)
	require.NoError(t, err)

	out, err := h.Encode([][]float32{{1}}, 1)
	require.NoError(t, err)

	sig := 1 / (1 + math.Exp(-1))
	c := sig * math.Tanh(1)
	want := sig * math.Tanh(c)
	require.Len(t, out, 2)
	assert.InDelta(t, want, float64(out[0]), 1e-6)
	assert.InDelta(t, want, float64(out[1]), 1e-6)
}

func TestEncode_TwoStepsCarryState(t *testing.T) {
	// Forward direction only sees its recurrent weights on the second step.
	fwd := zeroDirection(1, 1)
	for g := 0; g < 4; g++ {
		fwd.WeightIH.Set(g, 0, 1)
		fwd.WeightHH.Set(g, 0, 0.5)
	}
	w := &Weights{
		InputSize:  1,
		HiddenSize: 1,
		NumLayers:  1,
		Forward:    []DirectionWeights{fwd},
		Backward:   []DirectionWeights{zeroDirection(1, 1)},
		ProjWeight: identity(2),
		ProjBias:   []float64{0, 0},
	}
	h, err := New(w)
	require.NoError(t, err)

	out, err := h.Encode([][]float32{{1}, {-1}}, 2)
	require.NoError(t, err)

	sig := func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
	c1 := sig(1) * math.Tanh(1)
	h1 := sig(1) * math.Tanh(c1)
	pre := -1 + 0.5*h1
	c2 := sig(pre)*c1 + sig(pre)*math.Tanh(pre)
	h2 := sig(pre) * math.Tanh(c2)

	assert.InDelta(t, h2, float64(out[0]), 1e-6)
	assert.InDelta(t, 0, float64(out[1]), 1e-7)
}

func TestEncode_Shape(t *testing.T) {
	h, err := New(NewRandomWeights(6, 4, 2, 7))
	require.NoError(t, err)
	assert.Equal(t, 6, h.InputSize())
	assert.Equal(t, 4, h.HiddenSize())
	assert.Equal(t, 8, h.OutputSize())

	for _, n := range []int{1, 2, 9} {
		out, err := h.Encode(randomTokens(n, 6, 0), n)
		require.NoError(t, err)
		assert.Len(t, out, 8)
	}
}

func TestEncode_PaddingIgnored(t *testing.T) {
	h, err := New(NewRandomWeights(4, 3, 2, 11))
	require.NoError(t, err)

	tokens := randomTokens(3, 4, 0)
	padded := append(append([][]float32{}, tokens...), randomTokens(4, 4, 5)...)
	padded = append(padded, []float32{1}) // wrong width, never read

	want, err := h.Encode(tokens, 3)
	require.NoError(t, err)
	got, err := h.Encode(padded, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncode_Deterministic(t *testing.T) {
	h, err := New(NewRandomWeights(4, 3, 2, 3))
	require.NoError(t, err)
	tokens := randomTokens(6, 4, 1)

	a, err := h.Encode(tokens, 6)
	require.NoError(t, err)
	b, err := h.Encode(tokens, 6)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_OrderMatters(t *testing.T) {
	h, err := New(NewRandomWeights(4, 3, 2, 5))
	require.NoError(t, err)
	tokens := randomTokens(4, 4, 2)
	reversed := make([][]float32, len(tokens))
	for i := range tokens {
		reversed[len(tokens)-1-i] = tokens[i]
	}

	a, err := h.Encode(tokens, 4)
	require.NoError(t, err)
	b, err := h.Encode(reversed, 4)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncode_Errors(t *testing.T) {
	h, err := New(NewRandomWeights(4, 3, 1, 1))
	require.NoError(t, err)

	tests := []struct {
		name   string
		tokens [][]float32
		length int
		want   error
	}{
		{"zero length", randomTokens(2, 4, 0), 0, core.ErrEmptySequence},
		{"negative length", randomTokens(2, 4, 0), -1, core.ErrEmptySequence},
		{"length beyond rows", randomTokens(2, 4, 0), 3, core.ErrInvalidTokens},
		{"wrong width", [][]float32{{1, 2, 3}}, 1, core.ErrInvalidTokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Encode(tt.tokens, tt.length)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNew_RejectsBadWeights(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, core.ErrModelLoad)
	assert.ErrorIs(t, err, ErrWeightsRequired)

	w := NewRandomWeights(4, 3, 2, 1)
	w.Backward[1].WeightIH = mat.NewDense(12, 4, nil) // layer 1 expects 2H inputs
	_, err = New(w)
	assert.ErrorIs(t, err, core.ErrModelLoad)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	w = NewRandomWeights(4, 3, 2, 1)
	w.ProjBias = nil
	_, err = New(w)
	assert.ErrorIs(t, err, ErrMissingParameter)

	w = NewRandomWeights(4, 3, 2, 1)
	w.Forward = w.Forward[:1]
	_, err = New(w)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFingerprint(t *testing.T) {
	a := NewRandomWeights(4, 3, 2, 1).Fingerprint()
	b := NewRandomWeights(4, 3, 2, 1).Fingerprint()
	c := NewRandomWeights(4, 3, 2, 2).Fingerprint()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
