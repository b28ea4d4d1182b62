package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	logits := tensor.NewWithData([]float64{1, 2, 3, 4})
	probs := Softmax(logits)
	sum := 0.0
	for _, p := range probs.Data {
		assert.Greater(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestSoftmaxLargeLogitsStable(t *testing.T) {
	probs := Softmax(tensor.NewWithData([]float64{1000, 1000}))
	assert.InDelta(t, 0.5, probs.Data[0], 1e-12)
	assert.InDelta(t, 0.5, probs.Data[1], 1e-12)
}

func TestMSE(t *testing.T) {
	pred := tensor.NewWithData([]float64{1, 2})
	target := tensor.NewWithData([]float64{0, 0})
	loss, err := MSE(pred, target)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, loss, 1e-12)

	grad, err := MSEGrad(pred, target)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, grad.Data[0], 1e-12)
	assert.InDelta(t, 2.0, grad.Data[1], 1e-12)
}

func TestMSESizeMismatch(t *testing.T) {
	_, err := MSE(tensor.New(3), tensor.New(4))
	assert.Error(t, err)
	_, err = MSEGrad(tensor.New(3), tensor.New(4))
	assert.Error(t, err)
}

// TestSoftmaxBackwardNumeric checks the softmax Jacobian-vector product
// against a numeric gradient of MSE(softmax(z), target).
func TestSoftmaxBackwardNumeric(t *testing.T) {
	logits := tensor.NewWithData([]float64{0.3, -0.2, 0.5})
	target := tensor.NewWithData([]float64{1, 0, 0})

	probs := Softmax(logits)
	gradProbs, err := MSEGrad(probs, target)
	require.NoError(t, err)
	got, err := SoftmaxBackward(probs, gradProbs)
	require.NoError(t, err)

	lossAt := func(z []float64) float64 {
		p := Softmax(tensor.NewWithData(z))
		l, err := MSE(p, target)
		require.NoError(t, err)
		return l
	}
	const h = 1e-6
	for i := range logits.Data {
		zp := append([]float64(nil), logits.Data...)
		zm := append([]float64(nil), logits.Data...)
		zp[i] += h
		zm[i] -= h
		want := (lossAt(zp) - lossAt(zm)) / (2 * h)
		assert.InDeltaf(t, want, got.Data[i], 1e-8, "logit %d", i)
	}
}

func TestSoftmaxBackwardSizeMismatch(t *testing.T) {
	_, err := SoftmaxBackward(tensor.New(3), tensor.New(2))
	assert.Error(t, err)
}

func TestSoftmaxBackwardZeroGradAtMinimum(t *testing.T) {
	probs := Softmax(tensor.NewWithData([]float64{1, 2, 3}))
	gradProbs, err := MSEGrad(probs, probs)
	require.NoError(t, err)
	got, err := SoftmaxBackward(probs, gradProbs)
	require.NoError(t, err)
	for i, g := range got.Data {
		assert.InDeltaf(t, 0.0, g, 1e-12, "logit %d", i)
	}
}

func TestSoftmaxPreservesOrder(t *testing.T) {
	probs := Softmax(tensor.NewWithData([]float64{0.1, 2.0, -1.0}))
	assert.Greater(t, probs.Data[1], probs.Data[0])
	assert.Greater(t, probs.Data[0], probs.Data[2])
	m := math.Inf(-1)
	for _, p := range probs.Data {
		m = math.Max(m, p)
	}
	assert.Equal(t, probs.Data[1], m)
}
