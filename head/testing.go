package head

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// NewRandomWeights returns a deterministic parameter set drawn uniformly from
// [-scale, scale) where scale is 1/sqrt(hiddenSize), the PyTorch default
// initialisation range. Intended for tests and local experiments.
func NewRandomWeights(inputSize, hiddenSize, numLayers int, seed uint64) *Weights {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	scale := 1.0
	if hiddenSize > 0 {
		scale = 1 / math.Sqrt(float64(hiddenSize))
	}
	fill := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = (rng.Float64()*2 - 1) * scale
		}
		return out
	}
	direction := func(in int) DirectionWeights {
		return DirectionWeights{
			WeightIH: mat.NewDense(4*hiddenSize, in, fill(4*hiddenSize*in)),
			WeightHH: mat.NewDense(4*hiddenSize, hiddenSize, fill(4*hiddenSize*hiddenSize)),
			BiasIH:   fill(4 * hiddenSize),
			BiasHH:   fill(4 * hiddenSize),
		}
	}

	w := &Weights{
		InputSize:  inputSize,
		HiddenSize: hiddenSize,
		NumLayers:  numLayers,
	}
	for l := 0; l < numLayers; l++ {
		in := inputSize
		if l > 0 {
			in = 2 * hiddenSize
		}
		w.Forward = append(w.Forward, direction(in))
		w.Backward = append(w.Backward, direction(in))
	}
	w.ProjWeight = mat.NewDense(2*hiddenSize, 2*hiddenSize, fill(4*hiddenSize*hiddenSize))
	w.ProjBias = fill(2 * hiddenSize)
	return w
}
