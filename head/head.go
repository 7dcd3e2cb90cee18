// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package head

import (
	"fmt"

	"github.com/poiesic/qamatch/core"
	"gonum.org/v1/gonum/mat"
)

// Head turns a variable-length sequence of token vectors into one fixed-size
// sentence vector. It is a stacked bidirectional LSTM whose final forward and
// backward states of the top layer are concatenated and passed through a
// square linear projection.
//
// A Head is immutable after construction and safe for concurrent use.
type Head struct {
	weights     *Weights
	layers      []layer
	fingerprint string
}

// New validates w and builds a Head from it.
func New(w *Weights) (*Head, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, err)
	}

	layers := make([]layer, w.NumLayers)
	for i := range layers {
		layers[i] = layer{
			fwd: newCell(w.Forward[i], w.HiddenSize),
			bwd: newCell(w.Backward[i], w.HiddenSize),
		}
	}

	return &Head{
		weights:     w,
		layers:      layers,
		fingerprint: w.Fingerprint(),
	}, nil
}

// InputSize is the expected width of each token vector.
func (h *Head) InputSize() int { return h.weights.InputSize }

// HiddenSize is the per-direction LSTM state width.
func (h *Head) HiddenSize() int { return h.weights.HiddenSize }

// OutputSize is the width of the produced sentence vector.
func (h *Head) OutputSize() int { return 2 * h.weights.HiddenSize }

// Fingerprint identifies the parameter set.
func (h *Head) Fingerprint() string { return h.fingerprint }

// Encode runs the first length rows of tokens through the head. Rows past
// length are padding and never influence the result. length must be at least
// one and no larger than len(tokens).
func (h *Head) Encode(tokens [][]float32, length int) ([]float32, error) {
	if length < 1 {
		return nil, core.ErrEmptySequence
	}
	if length > len(tokens) {
		return nil, fmt.Errorf("%w: length %d exceeds %d token rows",
			core.ErrInvalidTokens, length, len(tokens))
	}

	inputs := make([]*mat.VecDense, length)
	for t := 0; t < length; t++ {
		if len(tokens[t]) != h.weights.InputSize {
			return nil, fmt.Errorf("%w: token %d has width %d, want %d",
				core.ErrInvalidTokens, t, len(tokens[t]), h.weights.InputSize)
		}
		row := make([]float64, len(tokens[t]))
		for j, v := range tokens[t] {
			row[j] = float64(v)
		}
		inputs[t] = mat.NewVecDense(len(row), row)
	}

	var fwdFinal, bwdFinal *mat.VecDense
	for i := range h.layers {
		inputs, fwdFinal, bwdFinal = h.layers[i].run(inputs)
	}

	pooled := concat(fwdFinal, bwdFinal)
	out := mat.NewVecDense(h.OutputSize(), nil)
	out.MulVec(h.weights.ProjWeight, pooled)
	out.AddVec(out, mat.NewVecDense(len(h.weights.ProjBias), h.weights.ProjBias))

	result := make([]float32, out.Len())
	for i := range result {
		result[i] = float32(out.AtVec(i))
	}
	return result, nil
}
