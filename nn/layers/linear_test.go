package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

func TestLinearForward(t *testing.T) {
	l := NewLinear(2, 2, rand.NewSource(1))
	copy(l.W.Data, []float64{1, 2, 3, 4})
	copy(l.B.Data, []float64{0.5, -0.5})

	y, err := l.Forward(tensor.NewWithData([]float64{1, 1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 6.5}, y.Data)
}

func TestLinearForwardSizeMismatch(t *testing.T) {
	l := NewLinear(3, 2, rand.NewSource(1))
	_, err := l.Forward(tensor.New(4))
	assert.Error(t, err)
}

func TestLinearBackward(t *testing.T) {
	l := NewLinear(2, 1, rand.NewSource(1))
	copy(l.W.Data, []float64{2, 3})
	l.B.Data[0] = 0

	x := tensor.NewWithData([]float64{5, 7})
	_, err := l.Forward(x)
	require.NoError(t, err)

	gradIn, err := l.Backward(tensor.NewWithData([]float64{1}))
	require.NoError(t, err)
	// dL/dx = Wᵀ g
	assert.Equal(t, []float64{2, 3}, gradIn.Data)

	// dL/dW = g xᵀ applied on Update.
	l.Update(0.1)
	assert.InDelta(t, 2-0.1*5, l.W.Data[0], 1e-12)
	assert.InDelta(t, 3-0.1*7, l.W.Data[1], 1e-12)
	assert.InDelta(t, -0.1, l.B.Data[0], 1e-12)
}

func TestLinearBackwardBeforeForward(t *testing.T) {
	l := NewLinear(2, 1, rand.NewSource(1))
	_, err := l.Backward(tensor.New(1))
	assert.Error(t, err)
}

func TestLinearUpdateZeroesGradients(t *testing.T) {
	l := NewLinear(2, 1, rand.NewSource(1))
	copy(l.W.Data, []float64{1, 1})
	x := tensor.NewWithData([]float64{1, 2})
	_, err := l.Forward(x)
	require.NoError(t, err)
	_, err = l.Backward(tensor.NewWithData([]float64{1}))
	require.NoError(t, err)
	l.Update(0.5)
	before := append([]float64(nil), l.W.Data...)

	// A second update without new gradients must be a no-op.
	l.Update(0.5)
	assert.Equal(t, before, l.W.Data)
}

func TestLinearInitBounded(t *testing.T) {
	l := NewLinear(100, 10, rand.NewSource(1))
	for i, v := range l.W.Data {
		assert.LessOrEqualf(t, v, 0.1, "weight %d", i)
		assert.GreaterOrEqualf(t, v, -0.1, "weight %d", i)
	}
	for _, v := range l.B.Data {
		assert.Equal(t, 0.0, v)
	}
}
