package dataset

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// ApplyNoise replaces each pixel with a Poisson draw whose rate is the
// pixel's own intensity, modelling counting noise that scales with signal
// strength. Draws can exceed 255, so the result is clamped back to
// [0, 255]. Zero pixels stay zero: a zero-rate counting process produces
// no events.
func ApplyNoise(img *tensor.Tensor, src rand.Source) *tensor.Tensor {
	out := tensor.New(img.Shape...)
	for i, v := range img.Data {
		if v > 0 {
			out.Data[i] = distuv.Poisson{Lambda: v, Src: src}.Rand()
		}
	}
	return out.Clamp(0, 255)
}

// NormalizeFlatten scales intensities from [0, 255] to [0, 1] and flattens
// the grid to a 1-D vector in row-major order. Division keeps 255 mapping
// to exactly 1.
func NormalizeFlatten(img *tensor.Tensor) *tensor.Tensor {
	out := tensor.New(img.Size())
	for i, v := range img.Data {
		out.Data[i] = v / 255.0
	}
	return out
}
