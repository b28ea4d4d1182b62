package nn

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/nn/layers"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

const (
	// OutputSide is the side length of the reconstructed image.
	OutputSide = 28
	// NumClasses is the width of the classification head.
	NumClasses = 26

	weightsVersion = "1.0"
)

// Model is the dual-headed classification + reconstruction network for one
// compression level. A shared fully-connected "decompression" stage lifts
// the noisy level² input to a 28×28 signal; a convolutional branch
// classifies it, and a reconstruction branch squeezes it through a
// bottleneck that also receives a projection of the class probabilities,
// so the predicted class informs the final reconstruction.
type Model struct {
	Level int

	// Shared decompression stage: level² → 784, sigmoid.
	Decompress    *layers.Linear
	DecompressAct *layers.Activation

	// Classification branch.
	Conv1     *layers.Conv2D // 1 → 32, 3×3
	Conv1Act  *layers.Activation
	Pool1     *layers.MaxPool2D
	Conv2     *layers.Conv2D // 32 → 64, 3×3
	Conv2Act  *layers.Activation
	Pool2     *layers.MaxPool2D
	Hidden    *layers.Linear // flattened pool output → 128
	HiddenAct *layers.Activation
	Logits    *layers.Linear // 128 → 26

	// Reconstruction branch.
	Bottleneck    *layers.Linear // 784 → level²
	BottleneckAct *layers.Activation
	ClassProj     *layers.Linear // 26 → level²
	ClassProjAct  *layers.Activation
	Expand        *layers.Linear // level² → 784
	ExpandAct     *layers.Activation

	// Forward caches consumed by Backward.
	lastProbs     *tensor.Tensor
	lastPoolShape []int
}

// NewModel builds an untrained model for the given compression level.
func NewModel(level int, src rand.Source) (*Model, error) {
	if level < 1 || level > OutputSide {
		return nil, fmt.Errorf("model: compression level %d outside 1..%d", level, OutputSide)
	}
	inDim := level * level
	outDim := OutputSide * OutputSide

	// Two valid 3×3 convolutions with 2×2 pools: 28 → 26 → 13 → 11 → 5.
	side := OutputSide
	side = (side - 2) / 2
	side = (side - 2) / 2
	flatDim := 64 * side * side

	sigmoid := func() *layers.Activation {
		a, _ := layers.NewActivation("sigmoid")
		return a
	}
	relu := func() *layers.Activation {
		a, _ := layers.NewActivation("relu")
		return a
	}

	return &Model{
		Level:         level,
		Decompress:    layers.NewLinear(inDim, outDim, src),
		DecompressAct: sigmoid(),
		Conv1:         layers.NewConv2D(1, 32, 3, 3, src),
		Conv1Act:      relu(),
		Pool1:         layers.NewMaxPool2D(2),
		Conv2:         layers.NewConv2D(32, 64, 3, 3, src),
		Conv2Act:      relu(),
		Pool2:         layers.NewMaxPool2D(2),
		Hidden:        layers.NewLinear(flatDim, 128, src),
		HiddenAct:     relu(),
		Logits:        layers.NewLinear(128, NumClasses, src),
		Bottleneck:    layers.NewLinear(outDim, inDim, src),
		BottleneckAct: sigmoid(),
		ClassProj:     layers.NewLinear(NumClasses, inDim, src),
		ClassProjAct:  sigmoid(),
		Expand:        layers.NewLinear(inDim, outDim, src),
		ExpandAct:     sigmoid(),
	}, nil
}

// Forward maps a flattened noisy level² vector to the reconstructed
// 784-vector and the 26-way class probabilities.
func (m *Model) Forward(x *tensor.Tensor) (recon, probs *tensor.Tensor, err error) {
	h, err := m.Decompress.Forward(x)
	if err != nil {
		return nil, nil, err
	}
	if h, err = m.DecompressAct.Forward(h); err != nil {
		return nil, nil, err
	}

	// Classification branch.
	grid, err := h.Reshape(1, OutputSide, OutputSide)
	if err != nil {
		return nil, nil, err
	}
	sig := grid
	for _, step := range []func(*tensor.Tensor) (*tensor.Tensor, error){
		m.Conv1.Forward, m.Conv1Act.Forward, m.Pool1.Forward,
		m.Conv2.Forward, m.Conv2Act.Forward, m.Pool2.Forward,
	} {
		if sig, err = step(sig); err != nil {
			return nil, nil, err
		}
	}
	m.lastPoolShape = append([]int(nil), sig.Shape...)
	flat, err := sig.Reshape(sig.Size())
	if err != nil {
		return nil, nil, err
	}
	hid, err := m.Hidden.Forward(flat)
	if err != nil {
		return nil, nil, err
	}
	if hid, err = m.HiddenAct.Forward(hid); err != nil {
		return nil, nil, err
	}
	logits, err := m.Logits.Forward(hid)
	if err != nil {
		return nil, nil, err
	}
	probs = Softmax(logits)
	m.lastProbs = probs

	// Reconstruction branch: bottleneck plus class projection.
	b, err := m.Bottleneck.Forward(h)
	if err != nil {
		return nil, nil, err
	}
	if b, err = m.BottleneckAct.Forward(b); err != nil {
		return nil, nil, err
	}
	proj, err := m.ClassProj.Forward(probs)
	if err != nil {
		return nil, nil, err
	}
	if proj, err = m.ClassProjAct.Forward(proj); err != nil {
		return nil, nil, err
	}
	fused, err := tensor.Add(b, proj)
	if err != nil {
		return nil, nil, err
	}
	out, err := m.Expand.Forward(fused)
	if err != nil {
		return nil, nil, err
	}
	if recon, err = m.ExpandAct.Forward(out); err != nil {
		return nil, nil, err
	}
	return recon, probs, nil
}

// Backward accumulates gradients for the equal-weighted joint loss
// MSE(recon, reconTarget) + MSE(probs, labelTarget). It must follow a
// Forward call for the same sample. The class branch receives gradient
// both from its own loss and through the fusion projection.
func (m *Model) Backward(recon, reconTarget, labelTarget *tensor.Tensor) error {
	if m.lastProbs == nil {
		return fmt.Errorf("model: Backward before Forward")
	}

	// Reconstruction head back to the fused bottleneck signal.
	g, err := MSEGrad(recon, reconTarget)
	if err != nil {
		return err
	}
	if g, err = m.ExpandAct.Backward(g); err != nil {
		return err
	}
	gFused, err := m.Expand.Backward(g)
	if err != nil {
		return err
	}

	// The fused signal feeds both the bottleneck and the projection.
	gb, err := m.BottleneckAct.Backward(gFused)
	if err != nil {
		return err
	}
	gHidden1, err := m.Bottleneck.Backward(gb)
	if err != nil {
		return err
	}
	gp, err := m.ClassProjAct.Backward(gFused)
	if err != nil {
		return err
	}
	gProbsRecon, err := m.ClassProj.Backward(gp)
	if err != nil {
		return err
	}

	// Classification head: its own loss plus the reconstruction feedback.
	gProbs, err := MSEGrad(m.lastProbs, labelTarget)
	if err != nil {
		return err
	}
	if gProbs, err = tensor.Add(gProbs, gProbsRecon); err != nil {
		return err
	}
	gLogits, err := SoftmaxBackward(m.lastProbs, gProbs)
	if err != nil {
		return err
	}
	if g, err = m.Logits.Backward(gLogits); err != nil {
		return err
	}
	if g, err = m.HiddenAct.Backward(g); err != nil {
		return err
	}
	if g, err = m.Hidden.Backward(g); err != nil {
		return err
	}
	if g, err = g.Reshape(m.lastPoolShape...); err != nil {
		return err
	}
	for _, step := range []func(*tensor.Tensor) (*tensor.Tensor, error){
		m.Pool2.Backward, m.Conv2Act.Backward, m.Conv2.Backward,
		m.Pool1.Backward, m.Conv1Act.Backward, m.Conv1.Backward,
	} {
		if g, err = step(g); err != nil {
			return err
		}
	}
	gHidden2, err := g.Reshape(g.Size())
	if err != nil {
		return err
	}

	// Join the two paths at the shared decompression stage.
	gHidden, err := tensor.Add(gHidden1, gHidden2)
	if err != nil {
		return err
	}
	if g, err = m.DecompressAct.Backward(gHidden); err != nil {
		return err
	}
	if _, err = m.Decompress.Backward(g); err != nil {
		return err
	}
	return nil
}

// TrainSample runs forward and backward for one sample and returns the
// joint loss.
func (m *Model) TrainSample(x, reconTarget, labelTarget *tensor.Tensor) (float64, error) {
	recon, probs, err := m.Forward(x)
	if err != nil {
		return 0, err
	}
	reconLoss, err := MSE(recon, reconTarget)
	if err != nil {
		return 0, err
	}
	classLoss, err := MSE(probs, labelTarget)
	if err != nil {
		return 0, err
	}
	if err := m.Backward(recon, reconTarget, labelTarget); err != nil {
		return 0, err
	}
	return reconLoss + classLoss, nil
}

// Loss computes the joint loss without touching gradients.
func (m *Model) Loss(x, reconTarget, labelTarget *tensor.Tensor) (float64, error) {
	recon, probs, err := m.Forward(x)
	if err != nil {
		return 0, err
	}
	reconLoss, err := MSE(recon, reconTarget)
	if err != nil {
		return 0, err
	}
	classLoss, err := MSE(probs, labelTarget)
	if err != nil {
		return 0, err
	}
	return reconLoss + classLoss, nil
}

// Update applies accumulated gradients to every parameterized layer.
func (m *Model) Update(lr float64) {
	m.Decompress.Update(lr)
	m.Conv1.Update(lr)
	m.Conv2.Update(lr)
	m.Hidden.Update(lr)
	m.Logits.Update(lr)
	m.Bottleneck.Update(lr)
	m.ClassProj.Update(lr)
	m.Expand.Update(lr)
}

// Classify returns the predicted class index (0-based) for one sample.
func (m *Model) Classify(x *tensor.Tensor) (int, error) {
	_, probs, err := m.Forward(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, p := range probs.Data {
		if p > probs.Data[best] {
			best = i
		}
	}
	return best, nil
}
