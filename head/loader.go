package head

import (
	"fmt"
	"os"

	"github.com/nlpodyssey/gopickle/pytorch"
	"github.com/nlpodyssey/gopickle/types"
	"github.com/poiesic/qamatch/core"
	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense row-major parameter taken from a state dict.
type Tensor struct {
	Shape []int
	Data  []float64
}

// Load reads a PyTorch state dict saved with torch.save and converts it to
// Weights. Parameter names follow nn.LSTM (prefix "lstm.") and nn.Linear
// (prefix "fc.").
func Load(path string) (*Weights, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, err)
	}

	obj, err := pytorch.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrModelLoad, path, err)
	}

	dict, ok := obj.(*types.OrderedDict)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not contain a state dict (got %T)", core.ErrModelLoad, path, obj)
	}

	tensors := make(map[string]*Tensor, dict.Len())
	for key, entry := range dict.Map {
		name, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: state dict key %v is not a string", core.ErrModelLoad, path, key)
		}
		t, err := convertTensor(name, entry.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", core.ErrModelLoad, path, err)
		}
		tensors[name] = t
	}

	w, err := FromStateDict(tensors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// FromStateDict builds Weights from decoded state dict tensors.
func FromStateDict(tensors map[string]*Tensor) (*Weights, error) {
	w, err := fromTensors(tensors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelLoad, err)
	}
	return w, nil
}

func fromTensors(tensors map[string]*Tensor) (*Weights, error) {
	require := func(name string) (*Tensor, error) {
		t, ok := tensors[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, name)
		}
		return t, nil
	}

	first, err := require("lstm.weight_ih_l0")
	if err != nil {
		return nil, err
	}
	hh, err := require("lstm.weight_hh_l0")
	if err != nil {
		return nil, err
	}
	if len(first.Shape) != 2 || len(hh.Shape) != 2 {
		return nil, fmt.Errorf("%w: lstm weights must be two dimensional", ErrShapeMismatch)
	}

	w := &Weights{
		InputSize:  first.Shape[1],
		HiddenSize: hh.Shape[1],
	}

	for l := 0; ; l++ {
		if _, ok := tensors[fmt.Sprintf("lstm.weight_ih_l%d", l)]; !ok {
			break
		}

		fwd, err := direction(require, l, "")
		if err != nil {
			return nil, err
		}
		bwd, err := direction(require, l, "_reverse")
		if err != nil {
			return nil, err
		}
		w.Forward = append(w.Forward, fwd)
		w.Backward = append(w.Backward, bwd)
		w.NumLayers++
	}

	fcw, err := require("fc.weight")
	if err != nil {
		return nil, err
	}
	if w.ProjWeight, err = dense("fc.weight", fcw); err != nil {
		return nil, err
	}
	fcb, err := require("fc.bias")
	if err != nil {
		return nil, err
	}
	w.ProjBias = fcb.Data

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func direction(require func(string) (*Tensor, error), l int, suffix string) (DirectionWeights, error) {
	var d DirectionWeights
	names := [4]string{
		fmt.Sprintf("lstm.weight_ih_l%d%s", l, suffix),
		fmt.Sprintf("lstm.weight_hh_l%d%s", l, suffix),
		fmt.Sprintf("lstm.bias_ih_l%d%s", l, suffix),
		fmt.Sprintf("lstm.bias_hh_l%d%s", l, suffix),
	}
	var ts [4]*Tensor
	for i, name := range names {
		t, err := require(name)
		if err != nil {
			return d, err
		}
		ts[i] = t
	}

	var err error
	if d.WeightIH, err = dense(names[0], ts[0]); err != nil {
		return d, err
	}
	if d.WeightHH, err = dense(names[1], ts[1]); err != nil {
		return d, err
	}
	d.BiasIH = ts[2].Data
	d.BiasHH = ts[3].Data
	return d, nil
}

func dense(name string, t *Tensor) (*mat.Dense, error) {
	if len(t.Shape) != 2 || t.Shape[0] < 1 || t.Shape[1] < 1 {
		return nil, fmt.Errorf("%w: %s has shape %v", ErrShapeMismatch, name, t.Shape)
	}
	if len(t.Data) != t.Shape[0]*t.Shape[1] {
		return nil, fmt.Errorf("%w: %s has %d values for shape %v", ErrShapeMismatch, name, len(t.Data), t.Shape)
	}
	return mat.NewDense(t.Shape[0], t.Shape[1], t.Data), nil
}

// convertTensor copies a contiguous float tensor out of its pickle storage.
func convertTensor(name string, v interface{}) (*Tensor, error) {
	pt, ok := v.(*pytorch.Tensor)
	if !ok {
		return nil, fmt.Errorf("%s: expected tensor, got %T", name, v)
	}

	n := 1
	for _, s := range pt.Size {
		n *= s
	}
	expected := 1
	for i := len(pt.Size) - 1; i >= 0; i-- {
		if pt.Size[i] > 1 && pt.Stride[i] != expected {
			return nil, fmt.Errorf("%s: non-contiguous tensor (size %v, stride %v)", name, pt.Size, pt.Stride)
		}
		expected *= pt.Size[i]
	}

	data := make([]float64, n)
	start := pt.StorageOffset
	switch s := pt.Source.(type) {
	case *pytorch.FloatStorage:
		if start+n > len(s.Data) {
			return nil, fmt.Errorf("%s: storage too short", name)
		}
		for i, x := range s.Data[start : start+n] {
			data[i] = float64(x)
		}
	case *pytorch.DoubleStorage:
		if start+n > len(s.Data) {
			return nil, fmt.Errorf("%s: storage too short", name)
		}
		copy(data, s.Data[start:start+n])
	case *pytorch.HalfStorage:
		if start+n > len(s.Data) {
			return nil, fmt.Errorf("%s: storage too short", name)
		}
		for i, x := range s.Data[start : start+n] {
			data[i] = float64(x)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported storage %T", name, pt.Source)
	}

	shape := append([]int(nil), pt.Size...)
	return &Tensor{Shape: shape, Data: data}, nil
}
