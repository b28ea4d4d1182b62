package dataset

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

func TestContainerRoundTrip(t *testing.T) {
	dir := t.TempDir()

	c := NewContainer(7)
	train := tensor.New(3, 49)
	for i := range train.Data {
		train.Data[i] = float64(i) / 147.0
	}
	test := tensor.New(2, 49)
	test.Data[0] = 0.5
	c.Arrays[NoisyTrainArray] = train
	c.Arrays[NoisyTestArray] = test
	require.NoError(t, c.Save(dir))

	loaded, err := LoadContainer(dir, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Level)

	gotTrain, err := loaded.Array(NoisyTrainArray)
	require.NoError(t, err)
	assert.Equal(t, train.Shape, gotTrain.Shape)
	assert.Equal(t, train.Data, gotTrain.Data)

	gotTest, err := loaded.Array(NoisyTestArray)
	require.NoError(t, err)
	assert.Equal(t, 0.5, gotTest.Data[0])
}

func TestContainerOverwrite(t *testing.T) {
	dir := t.TempDir()

	c := NewContainer(4)
	c.Arrays[NoisyTrainArray] = tensor.New(1, 16)
	c.Arrays[NoisyTestArray] = tensor.New(1, 16)
	require.NoError(t, c.Save(dir))

	c2 := NewContainer(4)
	bigger := tensor.New(5, 16)
	c2.Arrays[NoisyTrainArray] = bigger
	c2.Arrays[NoisyTestArray] = tensor.New(5, 16)
	require.NoError(t, c2.Save(dir))

	loaded, err := LoadContainer(dir, 4)
	require.NoError(t, err)
	arr, err := loaded.Array(NoisyTrainArray)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 16}, arr.Shape)
}

func TestContainerMissingArray(t *testing.T) {
	c := NewContainer(4)
	_, err := c.Array(NoisyTrainArray)
	assert.Error(t, err)
}

func TestLoadContainerMissingFile(t *testing.T) {
	_, err := LoadContainer(t.TempDir(), 14)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
