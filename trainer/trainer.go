package trainer

import (
	"fmt"
	"time"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/nn"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/utils"
)

// ValidationFraction of the data is held out of every stage for
// validation. The split is a fixed tail cut, never shuffled, so sample
// alignment between the noisy, clean, and label arrays is preserved.
const ValidationFraction = 0.2

// History accumulates per-epoch metrics. Stages run back to back, so the
// record reads as one continuous training curve.
type History struct {
	TrainLoss   []float64
	ValLoss     []float64
	ValAccuracy []float64
}

// Epochs returns the total number of recorded epochs.
func (h *History) Epochs() int { return len(h.TrainLoss) }

// Fit trains the model through the staged schedule: one run of the
// training procedure per (epoch count, batch size) pair, sequentially.
// The two lists must have equal length; a mismatch fails before any
// training iteration runs. The model is updated in place and the merged
// history returned.
func Fit(m *nn.Model, epochs, batchSizes []int, inputs, reconTargets, labelTargets *tensor.Tensor, lr float64) (*History, error) {
	if len(epochs) != len(batchSizes) {
		return nil, fmt.Errorf("stage mismatch: %d epoch counts vs %d batch sizes", len(epochs), len(batchSizes))
	}
	if err := checkAligned(inputs, reconTargets, labelTargets); err != nil {
		return nil, err
	}

	n := inputs.Shape[0]
	nVal := int(float64(n) * ValidationFraction)
	nTrain := n - nVal
	if nTrain < 1 {
		return nil, fmt.Errorf("trainer: %d samples leave no training data after validation split", n)
	}

	hist := &History{}
	for s := range epochs {
		bs := batchSizes[s]
		utils.Logf("stage %d/%d: %d epochs, batch size %d\n", s+1, len(epochs), epochs[s], bs)
		for e := 0; e < epochs[s]; e++ {
			start := time.Now()
			sum := 0.0
			for lo := 0; lo < nTrain; lo += bs {
				hi := lo + bs
				if hi > nTrain {
					hi = nTrain
				}
				for i := lo; i < hi; i++ {
					loss, err := m.TrainSample(inputs.Row(i), reconTargets.Row(i), labelTargets.Row(i))
					if err != nil {
						return nil, fmt.Errorf("sample %d: %w", i, err)
					}
					sum += loss
				}
				m.Update(lr / float64(hi-lo))
			}
			trainLoss := sum / float64(nTrain)

			valLoss, valAcc := 0.0, 0.0
			if nVal > 0 {
				var err error
				valLoss, valAcc, err = evaluateRange(m, inputs, reconTargets, labelTargets, nTrain, n)
				if err != nil {
					return nil, err
				}
			}
			hist.TrainLoss = append(hist.TrainLoss, trainLoss)
			hist.ValLoss = append(hist.ValLoss, valLoss)
			hist.ValAccuracy = append(hist.ValAccuracy, valAcc)
			utils.Logf("  epoch %d: train loss %.5f, val loss %.5f, val acc %.3f (%.1fs)\n",
				hist.Epochs(), trainLoss, valLoss, valAcc, time.Since(start).Seconds())
		}
	}
	return hist, nil
}

// Evaluate computes the mean joint loss and classification accuracy over
// every row of the given arrays.
func Evaluate(m *nn.Model, inputs, reconTargets, labelTargets *tensor.Tensor) (loss, acc float64, err error) {
	if err := checkAligned(inputs, reconTargets, labelTargets); err != nil {
		return 0, 0, err
	}
	return evaluateRange(m, inputs, reconTargets, labelTargets, 0, inputs.Shape[0])
}

func evaluateRange(m *nn.Model, inputs, reconTargets, labelTargets *tensor.Tensor, lo, hi int) (loss, acc float64, err error) {
	sum, correct := 0.0, 0
	for i := lo; i < hi; i++ {
		recon, probs, err := m.Forward(inputs.Row(i))
		if err != nil {
			return 0, 0, fmt.Errorf("sample %d: %w", i, err)
		}
		reconLoss, err := nn.MSE(recon, reconTargets.Row(i))
		if err != nil {
			return 0, 0, fmt.Errorf("sample %d: %w", i, err)
		}
		labels := labelTargets.Row(i)
		classLoss, err := nn.MSE(probs, labels)
		if err != nil {
			return 0, 0, fmt.Errorf("sample %d: %w", i, err)
		}
		sum += reconLoss + classLoss
		best := 0
		for j, p := range probs.Data {
			if p > probs.Data[best] {
				best = j
			}
		}
		if labels.Data[best] == 1 {
			correct++
		}
	}
	n := float64(hi - lo)
	return sum / n, float64(correct) / n, nil
}

func checkAligned(inputs, reconTargets, labelTargets *tensor.Tensor) error {
	for _, t := range []*tensor.Tensor{inputs, reconTargets, labelTargets} {
		if len(t.Shape) != 2 {
			return fmt.Errorf("trainer: expected 2-D sample arrays, got shape %v", t.Shape)
		}
	}
	if inputs.Shape[0] != reconTargets.Shape[0] || inputs.Shape[0] != labelTargets.Shape[0] {
		return fmt.Errorf("trainer: misaligned sample counts %d/%d/%d",
			inputs.Shape[0], reconTargets.Shape[0], labelTargets.Shape[0])
	}
	return nil
}
