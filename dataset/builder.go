package dataset

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/utils"
)

// Builder produces one degraded dataset container per compression level.
type Builder struct {
	Levels []int
	OutDir string
	Seed   uint64
}

// Run degrades the corpus at every configured level and writes the
// per-level containers. Sample order is never changed: row i of every
// produced array corresponds to corpus sample i.
func (b *Builder) Run(c *Corpus) error {
	for _, level := range b.Levels {
		if err := ValidateLevel(level); err != nil {
			return err
		}
		start := time.Now()
		// Independent stream per level so adding or reordering levels
		// does not perturb the others.
		src := rand.NewSource(b.Seed + uint64(level))
		train, err := Degrade(c.TrainImages, level, src)
		if err != nil {
			return fmt.Errorf("level %d train: %w", level, err)
		}
		test, err := Degrade(c.TestImages, level, src)
		if err != nil {
			return fmt.Errorf("level %d test: %w", level, err)
		}
		cont := NewContainer(level)
		cont.Arrays[NoisyTrainArray] = train
		cont.Arrays[NoisyTestArray] = test
		if err := cont.Save(b.OutDir); err != nil {
			return fmt.Errorf("level %d: %w", level, err)
		}
		utils.Logf("level %d: %d train + %d test samples in %.1fs\n",
			level, train.Shape[0], test.Shape[0], time.Since(start).Seconds())
	}
	return nil
}

// Degrade runs the per-image pipeline (block-median compress, Poisson
// noise, clamp, normalize, flatten) and stacks the results into an
// (n, level²) array.
func Degrade(images []*tensor.Tensor, level int, src rand.Source) (*tensor.Tensor, error) {
	out := tensor.New(len(images), level*level)
	for i, img := range images {
		comp, err := Compress(img, level)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out.SetRow(i, NormalizeFlatten(ApplyNoise(comp, src)))
	}
	return out, nil
}
