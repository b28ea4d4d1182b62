package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

func uniformImage(value float64) *tensor.Tensor {
	img := tensor.New(ImageSide, ImageSide)
	for i := range img.Data {
		img.Data[i] = value
	}
	return img
}

func TestCompressUniformBlocks(t *testing.T) {
	// The median of a uniform block is the block's value.
	img := uniformImage(100)
	out, err := Compress(img, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4}, out.Shape)
	for i, v := range out.Data {
		assert.Equalf(t, 100.0, v, "entry %d", i)
	}
}

func TestCompressSideLengths(t *testing.T) {
	img := uniformImage(50)
	for _, level := range []int{4, 7, 14} {
		out, err := Compress(img, level)
		require.NoError(t, err)
		assert.Equal(t, []int{level, level}, out.Shape)
	}
}

func TestCompressIdentityLevel(t *testing.T) {
	img := tensor.New(ImageSide, ImageSide)
	for i := range img.Data {
		img.Data[i] = float64(i % 256)
	}
	out, err := Compress(img, ImageSide)
	require.NoError(t, err)
	assert.Equal(t, img.Data, out.Data)

	// Identity must copy, not alias.
	out.Data[0] = 999
	assert.Equal(t, 0.0, img.Data[0])
}

func TestCompressBlockMedianExact(t *testing.T) {
	// Level 14 uses 2×2 blocks; an even count averages the middle pair.
	img := uniformImage(0)
	img.Set(1, 0, 0)
	img.Set(2, 0, 1)
	img.Set(3, 1, 0)
	img.Set(4, 1, 1)
	out, err := Compress(img, 14)
	require.NoError(t, err)
	assert.Equal(t, 2.5, out.At(0, 0))

	// Level 4 uses 7×7 blocks; an odd count takes the middle value.
	img2 := uniformImage(0)
	for i := 0; i < 7; i++ {
		for j := 0; j < 7; j++ {
			img2.Set(float64(i*7+j), i, j)
		}
	}
	out2, err := Compress(img2, 4)
	require.NoError(t, err)
	assert.Equal(t, 24.0, out2.At(0, 0))
}

func TestCompressRejectsBadLevel(t *testing.T) {
	img := uniformImage(0)
	for _, level := range []int{0, -1, 5, 13, 29} {
		_, err := Compress(img, level)
		assert.Errorf(t, err, "level %d", level)
	}
}

func TestCompressRejectsBadShape(t *testing.T) {
	_, err := Compress(tensor.New(14, 14), 7)
	assert.Error(t, err)
	_, err = Compress(tensor.New(ImageSide*ImageSide), 7)
	assert.Error(t, err)
}
