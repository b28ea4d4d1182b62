package dataset

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// WritePreview renders the first count rows of a flattened noisy array as
// a one-row PNG contact sheet, for eyeballing the degradation at a level.
func WritePreview(path string, arr *tensor.Tensor, level, count int) error {
	if len(arr.Shape) != 2 || arr.Shape[1] != level*level {
		return fmt.Errorf("preview: array shape %v does not hold level-%d vectors", arr.Shape, level)
	}
	if count > arr.Shape[0] {
		count = arr.Shape[0]
	}
	const gap = 1
	img := image.NewGray(image.Rect(0, 0, count*(level+gap)-gap, level))
	for i := 0; i < count; i++ {
		row := arr.Row(i)
		for y := 0; y < level; y++ {
			for x := 0; x < level; x++ {
				v := row.Data[y*level+x] * 255
				img.SetGray(i*(level+gap)+x, y, color.Gray{Y: uint8(v + 0.5)})
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return f.Close()
}
