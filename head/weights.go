package head

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/go-crypt/x/blake2b"
	"gonum.org/v1/gonum/mat"
)

// DirectionWeights holds the parameters of one direction of one LSTM layer.
// Gate rows are stacked in input, forget, cell, output order.
type DirectionWeights struct {
	WeightIH *mat.Dense // 4H x in
	WeightHH *mat.Dense // 4H x H
	BiasIH   []float64  // 4H
	BiasHH   []float64  // 4H
}

// Weights is the full parameter set of the fine-tuning head.
type Weights struct {
	InputSize  int
	HiddenSize int
	NumLayers  int

	Forward  []DirectionWeights // one per layer
	Backward []DirectionWeights // one per layer

	ProjWeight *mat.Dense // 2H x 2H
	ProjBias   []float64  // 2H
}

// Validate checks every parameter shape against InputSize, HiddenSize and NumLayers.
func (w *Weights) Validate() error {
	if w == nil {
		return ErrWeightsRequired
	}
	if w.InputSize < 1 || w.HiddenSize < 1 || w.NumLayers < 1 {
		return fmt.Errorf("%w: input=%d hidden=%d layers=%d",
			ErrShapeMismatch, w.InputSize, w.HiddenSize, w.NumLayers)
	}
	if len(w.Forward) != w.NumLayers || len(w.Backward) != w.NumLayers {
		return fmt.Errorf("%w: %d forward and %d backward layers, want %d",
			ErrShapeMismatch, len(w.Forward), len(w.Backward), w.NumLayers)
	}

	h := w.HiddenSize
	for layer := 0; layer < w.NumLayers; layer++ {
		in := w.InputSize
		if layer > 0 {
			in = 2 * h
		}
		if err := w.Forward[layer].validate(in, h); err != nil {
			return fmt.Errorf("layer %d forward: %w", layer, err)
		}
		if err := w.Backward[layer].validate(in, h); err != nil {
			return fmt.Errorf("layer %d backward: %w", layer, err)
		}
	}

	if err := checkDense("fc.weight", w.ProjWeight, 2*h, 2*h); err != nil {
		return err
	}
	return checkVec("fc.bias", w.ProjBias, 2*h)
}

func (d *DirectionWeights) validate(in, h int) error {
	if err := checkDense("weight_ih", d.WeightIH, 4*h, in); err != nil {
		return err
	}
	if err := checkDense("weight_hh", d.WeightHH, 4*h, h); err != nil {
		return err
	}
	if err := checkVec("bias_ih", d.BiasIH, 4*h); err != nil {
		return err
	}
	return checkVec("bias_hh", d.BiasHH, 4*h)
}

func checkDense(name string, m *mat.Dense, rows, cols int) error {
	if m == nil {
		return fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	r, c := m.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrShapeMismatch, name, r, c, rows, cols)
	}
	return nil
}

func checkVec(name string, v []float64, n int) error {
	if v == nil {
		return fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	if len(v) != n {
		return fmt.Errorf("%w: %s has %d values, want %d", ErrShapeMismatch, name, len(v), n)
	}
	return nil
}

// Fingerprint returns a short BLAKE2b digest of every parameter.
// Vectors produced by heads with equal fingerprints are interchangeable.
func (w *Weights) Fingerprint() string {
	h, _ := blake2b.New(16, nil)
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeFloats := func(vs []float64) {
		for _, v := range vs {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}

	writeInt(w.InputSize)
	writeInt(w.HiddenSize)
	writeInt(w.NumLayers)
	for _, dirs := range [][]DirectionWeights{w.Forward, w.Backward} {
		for _, d := range dirs {
			writeFloats(d.WeightIH.RawMatrix().Data)
			writeFloats(d.WeightHH.RawMatrix().Data)
			writeFloats(d.BiasIH)
			writeFloats(d.BiasHH)
		}
	}
	writeFloats(w.ProjWeight.RawMatrix().Data)
	writeFloats(w.ProjBias)

	return hex.EncodeToString(h.Sum(nil))
}
