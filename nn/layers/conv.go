package layers

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// Conv2D is a valid-padding 2D convolution over [C,H,W] tensors.
type Conv2D struct {
	inChan, outChan int
	kh, kw          int

	W *tensor.Tensor // [outChan, inChan, kh, kw]
	B *tensor.Tensor // [outChan]

	gradW *tensor.Tensor
	gradB *tensor.Tensor

	lastInput *tensor.Tensor
}

// NewConv2D creates a Conv2D layer with fan-in-scaled uniform init.
func NewConv2D(inChan, outChan, kh, kw int, src rand.Source) *Conv2D {
	c := &Conv2D{
		inChan:  inChan,
		outChan: outChan,
		kh:      kh,
		kw:      kw,
		W:       tensor.New(outChan, inChan, kh, kw),
		B:       tensor.New(outChan),
		gradW:   tensor.New(outChan, inChan, kh, kw),
		gradB:   tensor.New(outChan),
	}
	fanIn := float64(inChan * kh * kw)
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(fanIn),
		Max: 1 / math.Sqrt(fanIn),
		Src: src,
	}
	for i := range c.W.Data {
		c.W.Data[i] = dist.Rand()
	}
	return c
}

// OutputShape returns the output height and width for a given input size.
func (c *Conv2D) OutputShape(inH, inW int) (outH, outW int) {
	return inH - c.kh + 1, inW - c.kw + 1
}

// Forward convolves the [inChan,H,W] input, caching it for backward.
func (c *Conv2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(input.Shape) != 3 || input.Shape[0] != c.inChan {
		return nil, fmt.Errorf("conv: expected [%d,H,W] input, got shape %v", c.inChan, input.Shape)
	}
	height, width := input.Shape[1], input.Shape[2]
	outH, outW := c.OutputShape(height, width)
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("conv: input %dx%d smaller than %dx%d kernel", height, width, c.kh, c.kw)
	}
	c.lastInput = input

	output := tensor.New(c.outChan, outH, outW)
	for oc := 0; oc < c.outChan; oc++ {
		for y := 0; y < outH; y++ {
			for x := 0; x < outW; x++ {
				sum := c.B.Data[oc]
				for ic := 0; ic < c.inChan; ic++ {
					for dy := 0; dy < c.kh; dy++ {
						for dx := 0; dx < c.kw; dx++ {
							wIdx := oc*c.inChan*c.kh*c.kw + ic*c.kh*c.kw + dy*c.kw + dx
							inIdx := ic*height*width + (y+dy)*width + (x + dx)
							sum += input.Data[inIdx] * c.W.Data[wIdx]
						}
					}
				}
				output.Data[oc*outH*outW+y*outW+x] = sum
			}
		}
	}
	return output, nil
}

// Backward accumulates kernel and bias gradients and returns the gradient
// with respect to the input.
func (c *Conv2D) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if c.lastInput == nil {
		return nil, fmt.Errorf("conv: Backward before Forward")
	}
	height, width := c.lastInput.Shape[1], c.lastInput.Shape[2]
	outH, outW := c.OutputShape(height, width)
	if len(gradOut.Shape) != 3 || gradOut.Shape[0] != c.outChan || gradOut.Shape[1] != outH || gradOut.Shape[2] != outW {
		return nil, fmt.Errorf("conv: gradient shape %v, want [%d,%d,%d]", gradOut.Shape, c.outChan, outH, outW)
	}

	gradIn := tensor.New(c.inChan, height, width)
	for oc := 0; oc < c.outChan; oc++ {
		for y := 0; y < outH; y++ {
			for x := 0; x < outW; x++ {
				g := gradOut.Data[oc*outH*outW+y*outW+x]
				c.gradB.Data[oc] += g
				for ic := 0; ic < c.inChan; ic++ {
					for dy := 0; dy < c.kh; dy++ {
						for dx := 0; dx < c.kw; dx++ {
							wIdx := oc*c.inChan*c.kh*c.kw + ic*c.kh*c.kw + dy*c.kw + dx
							inIdx := ic*height*width + (y+dy)*width + (x + dx)
							c.gradW.Data[wIdx] += g * c.lastInput.Data[inIdx]
							gradIn.Data[inIdx] += g * c.W.Data[wIdx]
						}
					}
				}
			}
		}
	}
	return gradIn, nil
}

// Update applies the accumulated gradients scaled by lr, then zeroes them.
func (c *Conv2D) Update(lr float64) {
	for i := range c.W.Data {
		c.W.Data[i] -= lr * c.gradW.Data[i]
		c.gradW.Data[i] = 0
	}
	for i := range c.B.Data {
		c.B.Data[i] -= lr * c.gradB.Data[i]
		c.gradB.Data[i] = 0
	}
}
