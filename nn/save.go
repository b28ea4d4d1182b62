package nn

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/utils"
)

// WeightsFileName returns the per-level model file name, e.g.
// scrnet_7.json for the 7×7 level.
func WeightsFileName(level int) string {
	return fmt.Sprintf("scrnet_%d.json", level)
}

type namedParam struct {
	w, b *tensor.Tensor
}

func (m *Model) namedParams() map[string]namedParam {
	return map[string]namedParam{
		"decompress": {m.Decompress.W, m.Decompress.B},
		"conv1":      {m.Conv1.W, m.Conv1.B},
		"conv2":      {m.Conv2.W, m.Conv2.B},
		"hidden":     {m.Hidden.W, m.Hidden.B},
		"logits":     {m.Logits.W, m.Logits.B},
		"bottleneck": {m.Bottleneck.W, m.Bottleneck.B},
		"class_proj": {m.ClassProj.W, m.ClassProj.B},
		"expand":     {m.Expand.W, m.Expand.B},
	}
}

// Save writes the model architecture parameters to a JSON weights file.
func (m *Model) Save(path string) error {
	w := &utils.ModelWeights{
		Version: weightsVersion,
		Level:   m.Level,
		Layers:  make(map[string]utils.LayerWeight),
	}
	for name, p := range m.namedParams() {
		w.Layers[name] = utils.LayerWeight{
			Weight: utils.TensorToWeightData(name+"_weight", p.w),
			Bias:   utils.TensorToWeightData(name+"_bias", p.b),
		}
	}
	return utils.SaveWeights(path, w)
}

// LoadModel reconstructs a trained model from a JSON weights file.
func LoadModel(path string) (*Model, error) {
	w, err := utils.LoadWeights(path)
	if err != nil {
		return nil, err
	}
	m, err := NewModel(w.Level, rand.NewSource(0))
	if err != nil {
		return nil, err
	}
	for name, p := range m.namedParams() {
		lw, ok := w.Layers[name]
		if !ok || lw.Weight == nil || lw.Bias == nil {
			return nil, fmt.Errorf("weights file missing layer %q", name)
		}
		if err := copyParam(p.w, lw.Weight); err != nil {
			return nil, fmt.Errorf("layer %q: %w", name, err)
		}
		if err := copyParam(p.b, lw.Bias); err != nil {
			return nil, fmt.Errorf("layer %q: %w", name, err)
		}
	}
	return m, nil
}

func copyParam(dst *tensor.Tensor, wd *utils.WeightData) error {
	src := utils.WeightDataToTensor(wd)
	if !tensor.SameShape(dst, src) {
		return fmt.Errorf("%s: shape %v, want %v", wd.Name, src.Shape, dst.Shape)
	}
	copy(dst.Data, src.Data)
	return nil
}
