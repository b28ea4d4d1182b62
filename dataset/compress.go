package dataset

import (
	"fmt"
	"sort"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// ValidateLevel checks that a compression level produces whole pixel blocks.
func ValidateLevel(level int) error {
	if level < 1 || level > ImageSide || ImageSide%level != 0 {
		return fmt.Errorf("compression level %d must divide %d", level, ImageSide)
	}
	return nil
}

// Compress reduces a 28×28 grid to level×level by replacing each
// non-overlapping block with its median intensity. Level 28 returns an
// unchanged copy.
func Compress(img *tensor.Tensor, level int) (*tensor.Tensor, error) {
	if len(img.Shape) != 2 || img.Shape[0] != ImageSide || img.Shape[1] != ImageSide {
		return nil, fmt.Errorf("compress: expected %d×%d image, got shape %v", ImageSide, ImageSide, img.Shape)
	}
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}
	if level == ImageSide {
		return img.Clone(), nil
	}
	block := ImageSide / level
	out := tensor.New(level, level)
	buf := make([]float64, 0, block*block)
	for by := 0; by < level; by++ {
		for bx := 0; bx < level; bx++ {
			buf = buf[:0]
			for dy := 0; dy < block; dy++ {
				for dx := 0; dx < block; dx++ {
					buf = append(buf, img.At(by*block+dy, bx*block+dx))
				}
			}
			out.Set(median(buf), by, bx)
		}
	}
	return out, nil
}

// median returns the exact median, averaging the two middle values for
// even-length input. Mutates buf by sorting it.
func median(buf []float64) float64 {
	sort.Float64s(buf)
	n := len(buf)
	if n%2 == 1 {
		return buf[n/2]
	}
	return (buf[n/2-1] + buf[n/2]) / 2
}
