package layers

import (
	"fmt"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// MaxPool2D is a p×p non-overlapping max pooling layer over [C,H,W]
// tensors. Trailing rows/columns that do not fill a window are dropped.
type MaxPool2D struct {
	poolSize int

	lastShape []int
	argmax    []int // flat input index of each output element's max
}

func NewMaxPool2D(p int) *MaxPool2D {
	return &MaxPool2D{poolSize: p}
}

// Forward pools the [C,H,W] input, recording argmax positions for the
// backward pass.
func (m *MaxPool2D) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Shape) != 3 {
		return nil, fmt.Errorf("maxpool: expected [C,H,W] input, got shape %v", x.Shape)
	}
	chans, height, width := x.Shape[0], x.Shape[1], x.Shape[2]
	p := m.poolSize
	outH, outW := height/p, width/p
	if outH == 0 || outW == 0 {
		return nil, fmt.Errorf("maxpool: input %dx%d smaller than %dx%d window", height, width, p, p)
	}
	m.lastShape = append([]int(nil), x.Shape...)
	m.argmax = make([]int, chans*outH*outW)

	out := tensor.New(chans, outH, outW)
	for c := 0; c < chans; c++ {
		for y := 0; y < outH; y++ {
			for x2 := 0; x2 < outW; x2++ {
				bestIdx := c*height*width + y*p*width + x2*p
				best := x.Data[bestIdx]
				for dy := 0; dy < p; dy++ {
					for dx := 0; dx < p; dx++ {
						idx := c*height*width + (y*p+dy)*width + (x2*p + dx)
						if x.Data[idx] > best {
							best = x.Data[idx]
							bestIdx = idx
						}
					}
				}
				outIdx := c*outH*outW + y*outW + x2
				out.Data[outIdx] = best
				m.argmax[outIdx] = bestIdx
			}
		}
	}
	return out, nil
}

// Backward routes each output gradient to the input position that won the
// max in the forward pass.
func (m *MaxPool2D) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if m.argmax == nil {
		return nil, fmt.Errorf("maxpool: Backward before Forward")
	}
	if gradOut.Size() != len(m.argmax) {
		return nil, fmt.Errorf("maxpool: gradient size %d, want %d", gradOut.Size(), len(m.argmax))
	}
	gradIn := tensor.New(m.lastShape...)
	for outIdx, inIdx := range m.argmax {
		gradIn.Data[inIdx] += gradOut.Data[outIdx]
	}
	return gradIn, nil
}
