package layers

import (
	"fmt"
	"math"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// Activation is an element-wise activation layer.
type Activation struct {
	name string

	lastOutput *tensor.Tensor
	lastInput  *tensor.Tensor
}

// NewActivation creates an activation layer by name ("sigmoid" or "relu").
func NewActivation(name string) (*Activation, error) {
	switch name {
	case "sigmoid", "relu":
		return &Activation{name: name}, nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}

func (a *Activation) Name() string { return a.name }

// Forward applies the activation element-wise, caching what the backward
// pass needs.
func (a *Activation) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	out := tensor.New(x.Shape...)
	switch a.name {
	case "sigmoid":
		for i, v := range x.Data {
			out.Data[i] = 1.0 / (1.0 + math.Exp(-v))
		}
		a.lastOutput = out
	case "relu":
		for i, v := range x.Data {
			if v > 0 {
				out.Data[i] = v
			}
		}
		a.lastInput = x
	}
	return out, nil
}

// Backward scales the incoming gradient by the activation derivative.
func (a *Activation) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	gradIn := tensor.New(gradOut.Shape...)
	switch a.name {
	case "sigmoid":
		if a.lastOutput == nil {
			return nil, fmt.Errorf("sigmoid: Backward before Forward")
		}
		if gradOut.Size() != a.lastOutput.Size() {
			return nil, fmt.Errorf("sigmoid: gradient size %d, want %d", gradOut.Size(), a.lastOutput.Size())
		}
		for i, g := range gradOut.Data {
			s := a.lastOutput.Data[i]
			gradIn.Data[i] = g * s * (1 - s)
		}
	case "relu":
		if a.lastInput == nil {
			return nil, fmt.Errorf("relu: Backward before Forward")
		}
		if gradOut.Size() != a.lastInput.Size() {
			return nil, fmt.Errorf("relu: gradient size %d, want %d", gradOut.Size(), a.lastInput.Size())
		}
		for i, g := range gradOut.Data {
			if a.lastInput.Data[i] > 0 {
				gradIn.Data[i] = g
			}
		}
	}
	return gradIn, nil
}
