package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// Softmax applies the softmax function to a tensor.
func Softmax(logits *tensor.Tensor) *tensor.Tensor {
	maxLogit := floats.Max(logits.Data)
	expSum := 0.0
	exps := make([]float64, len(logits.Data))
	for i, v := range logits.Data {
		e := math.Exp(v - maxLogit)
		exps[i] = e
		expSum += e
	}
	out := tensor.New(logits.Shape...)
	for i, e := range exps {
		out.Data[i] = e / expSum
	}
	return out
}

// SoftmaxBackward maps the gradient with respect to the softmax output to
// the gradient with respect to the logits, using the full Jacobian-vector
// product: g_i = p_i (gp_i - Σ_j gp_j p_j). The classification head trains
// a squared-error loss on the probabilities, so the usual cross-entropy
// shortcut does not apply.
func SoftmaxBackward(probs, gradProbs *tensor.Tensor) (*tensor.Tensor, error) {
	if probs.Size() != gradProbs.Size() {
		return nil, fmt.Errorf("softmax backward: %d probabilities vs %d gradients", probs.Size(), gradProbs.Size())
	}
	dot := floats.Dot(gradProbs.Data, probs.Data)
	out := tensor.New(probs.Shape...)
	for i, p := range probs.Data {
		out.Data[i] = p * (gradProbs.Data[i] - dot)
	}
	return out, nil
}

// MSE returns the mean squared error between pred and target.
func MSE(pred, target *tensor.Tensor) (float64, error) {
	if pred.Size() != target.Size() {
		return 0, fmt.Errorf("mse: %d predictions vs %d targets", pred.Size(), target.Size())
	}
	sum := 0.0
	for i, p := range pred.Data {
		d := p - target.Data[i]
		sum += d * d
	}
	return sum / float64(pred.Size()), nil
}

// MSEGrad returns the gradient of MSE with respect to pred: 2(pred-target)/n.
func MSEGrad(pred, target *tensor.Tensor) (*tensor.Tensor, error) {
	if pred.Size() != target.Size() {
		return nil, fmt.Errorf("mse: %d predictions vs %d targets", pred.Size(), target.Size())
	}
	out := tensor.New(pred.Shape...)
	scale := 2.0 / float64(pred.Size())
	for i, p := range pred.Data {
		out.Data[i] = scale * (p - target.Data[i])
	}
	return out, nil
}
