package head

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// cell runs one direction of one LSTM layer.
type cell struct {
	wih    *mat.Dense
	whh    *mat.Dense
	bias   []float64 // bias_ih + bias_hh
	hidden int
}

func newCell(d DirectionWeights, hidden int) *cell {
	bias := make([]float64, len(d.BiasIH))
	for i := range bias {
		bias[i] = d.BiasIH[i] + d.BiasHH[i]
	}
	return &cell{wih: d.WeightIH, whh: d.WeightHH, bias: bias, hidden: hidden}
}

// run feeds inputs through the cell starting from zero state. When reverse is
// set the sequence is consumed last to first. outputs[t] is always the hidden
// state produced for inputs[t]; final is the state after the last step taken.
func (c *cell) run(inputs []*mat.VecDense, reverse bool) (outputs []*mat.VecDense, final *mat.VecDense) {
	h := c.hidden
	state := mat.NewVecDense(h, nil)
	mem := make([]float64, h)
	outputs = make([]*mat.VecDense, len(inputs))

	gates := mat.NewVecDense(4*h, nil)
	recur := mat.NewVecDense(4*h, nil)

	for step := range inputs {
		t := step
		if reverse {
			t = len(inputs) - 1 - step
		}

		gates.MulVec(c.wih, inputs[t])
		recur.MulVec(c.whh, state)
		g := gates.RawVector().Data
		r := recur.RawVector().Data

		next := make([]float64, h)
		for j := 0; j < h; j++ {
			in := sigmoid(g[j] + r[j] + c.bias[j])
			forget := sigmoid(g[h+j] + r[h+j] + c.bias[h+j])
			cand := math.Tanh(g[2*h+j] + r[2*h+j] + c.bias[2*h+j])
			out := sigmoid(g[3*h+j] + r[3*h+j] + c.bias[3*h+j])

			mem[j] = forget*mem[j] + in*cand
			next[j] = out * math.Tanh(mem[j])
		}
		state = mat.NewVecDense(h, next)
		outputs[t] = state
	}
	return outputs, state
}

// layer is a bidirectional LSTM layer.
type layer struct {
	fwd *cell
	bwd *cell
}

// run returns the per-timestep concatenation [fwd; bwd] and the final states
// of both directions.
func (l *layer) run(inputs []*mat.VecDense) (outputs []*mat.VecDense, fwdFinal, bwdFinal *mat.VecDense) {
	fwdOut, fwdFinal := l.fwd.run(inputs, false)
	bwdOut, bwdFinal := l.bwd.run(inputs, true)

	outputs = make([]*mat.VecDense, len(inputs))
	for t := range inputs {
		outputs[t] = concat(fwdOut[t], bwdOut[t])
	}
	return outputs, fwdFinal, bwdFinal
}

func concat(a, b *mat.VecDense) *mat.VecDense {
	data := make([]float64, 0, a.Len()+b.Len())
	data = append(data, a.RawVector().Data...)
	data = append(data, b.RawVector().Data...)
	return mat.NewVecDense(len(data), data)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
