package layers

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// Linear is a fully-connected layer mapping an inDim vector to outDim.
type Linear struct {
	W *tensor.Tensor // [outDim, inDim]
	B *tensor.Tensor // [outDim]

	gradW *tensor.Tensor
	gradB *tensor.Tensor

	lastInput *tensor.Tensor
}

// NewLinear creates a Linear layer with fan-in-scaled uniform init.
func NewLinear(inDim, outDim int, src rand.Source) *Linear {
	l := &Linear{
		W:     tensor.New(outDim, inDim),
		B:     tensor.New(outDim),
		gradW: tensor.New(outDim, inDim),
		gradB: tensor.New(outDim),
	}
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(float64(inDim)),
		Max: 1 / math.Sqrt(float64(inDim)),
		Src: src,
	}
	for i := range l.W.Data {
		l.W.Data[i] = dist.Rand()
	}
	return l
}

// InDim returns the input vector length.
func (l *Linear) InDim() int { return l.W.Shape[1] }

// OutDim returns the output vector length.
func (l *Linear) OutDim() int { return l.W.Shape[0] }

// Forward computes W·x + B, caching x for the backward pass.
func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	inDim, outDim := l.InDim(), l.OutDim()
	if x.Size() != inDim {
		return nil, fmt.Errorf("linear: input size %d, want %d", x.Size(), inDim)
	}
	l.lastInput = x
	y := tensor.New(outDim)
	for j := 0; j < outDim; j++ {
		sum := l.B.Data[j]
		row := l.W.Data[j*inDim : (j+1)*inDim]
		for i, v := range x.Data {
			sum += row[i] * v
		}
		y.Data[j] = sum
	}
	return y, nil
}

// Backward accumulates parameter gradients from gradOut and returns the
// gradient with respect to the input.
func (l *Linear) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	inDim, outDim := l.InDim(), l.OutDim()
	if gradOut.Size() != outDim {
		return nil, fmt.Errorf("linear: gradient size %d, want %d", gradOut.Size(), outDim)
	}
	if l.lastInput == nil {
		return nil, fmt.Errorf("linear: Backward before Forward")
	}
	gradIn := tensor.New(inDim)
	for j := 0; j < outDim; j++ {
		g := gradOut.Data[j]
		l.gradB.Data[j] += g
		wRow := l.W.Data[j*inDim : (j+1)*inDim]
		gRow := l.gradW.Data[j*inDim : (j+1)*inDim]
		for i, v := range l.lastInput.Data {
			gRow[i] += g * v
			gradIn.Data[i] += g * wRow[i]
		}
	}
	return gradIn, nil
}

// Update applies the accumulated gradients scaled by lr, then zeroes them.
func (l *Linear) Update(lr float64) {
	for i := range l.W.Data {
		l.W.Data[i] -= lr * l.gradW.Data[i]
		l.gradW.Data[i] = 0
	}
	for i := range l.B.Data {
		l.B.Data[i] -= lr * l.gradB.Data[i]
		l.gradB.Data[i] = 0
	}
}
