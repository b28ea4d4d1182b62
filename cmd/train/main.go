// train fits one dual-headed classification + reconstruction network per
// compression level on the degraded datasets written by build-datasets,
// then saves the trained weights per level.
//
// Usage:
//
//	train --data=./datasets --corpus=./emnist --out=./models --levels="4 7 14 28"
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/dataset"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/nn"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/trainer"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/utils"
)

var (
	dataDir      = flag.String("data", "datasets", "Directory with the per-level dataset containers")
	corpusDir    = flag.String("corpus", "emnist", "Directory with the EMNIST-letters IDX files (clean targets)")
	outDir       = flag.String("out", "models", "Output directory for trained weights")
	levelsArg    = flag.String("levels", "4 7 14 28", "Space-separated compression levels")
	epochsArg    = flag.String("epochs", "10 5", "Space-separated epoch counts, one per stage")
	batchesArg   = flag.String("batches", "32 128", "Space-separated batch sizes, one per stage")
	learningRate = flag.Float64("lr", 0.05, "Learning rate")
	seed         = flag.Int64("seed", 42, "Random seed for weight initialization")
	verbose      = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	cfg, err := parseConfig()
	if err != nil {
		die("%v", err)
	}

	utils.Logf("Configuration:\n")
	utils.Logf("  Data:    %s\n", cfg.DataDir)
	utils.Logf("  Corpus:  %s\n", cfg.CorpusDir)
	utils.Logf("  Output:  %s\n", cfg.OutDir)
	utils.Logf("  Levels:  %v\n", cfg.Levels)
	utils.Logf("  Stages:  epochs %v, batch sizes %v\n", cfg.Epochs, cfg.BatchSizes)
	utils.Logf("  LR:      %g\n", cfg.LearningRate)
	utils.Logf("  Seed:    %d\n\n", cfg.Seed)

	corpus, err := dataset.LoadCorpus(cfg.CorpusDir)
	if err != nil {
		die("load corpus: %v", err)
	}

	// Clean reconstruction targets and one-hot labels are shared by every
	// level; sample order matches the containers by construction.
	cleanTrain := flattenAll(corpus.TrainImages)
	cleanTest := flattenAll(corpus.TestImages)
	labelTrain, err := dataset.OneHot(corpus.TrainLabels)
	if err != nil {
		die("train labels: %v", err)
	}
	labelTest, err := dataset.OneHot(corpus.TestLabels)
	if err != nil {
		die("test labels: %v", err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		die("create output dir: %v", err)
	}

	for _, level := range cfg.Levels {
		utils.Logf("=== level %d ===\n", level)
		cont, err := dataset.LoadContainer(cfg.DataDir, level)
		if err != nil {
			die("%v", err)
		}
		noisyTrain, err := cont.Array(dataset.NoisyTrainArray)
		if err != nil {
			die("%v", err)
		}
		noisyTest, err := cont.Array(dataset.NoisyTestArray)
		if err != nil {
			die("%v", err)
		}

		model, err := nn.NewModel(level, rand.NewSource(uint64(cfg.Seed)+uint64(level)))
		if err != nil {
			die("%v", err)
		}
		hist, err := trainer.Fit(model, cfg.Epochs, cfg.BatchSizes, noisyTrain, cleanTrain, labelTrain, cfg.LearningRate)
		if err != nil {
			die("level %d: %v", level, err)
		}

		testLoss, testAcc, err := trainer.Evaluate(model, noisyTest, cleanTest, labelTest)
		if err != nil {
			die("level %d: %v", level, err)
		}
		utils.Logf("level %d: %d epochs, final val loss %.5f, test loss %.5f, test acc %.3f\n",
			level, hist.Epochs(), hist.ValLoss[hist.Epochs()-1], testLoss, testAcc)

		path := filepath.Join(cfg.OutDir, nn.WeightsFileName(level))
		if err := model.Save(path); err != nil {
			die("save level %d: %v", level, err)
		}
		utils.Logf("wrote %s\n\n", path)
	}
}

func parseConfig() (*utils.Config, error) {
	levels, err := utils.ParseIntList(*levelsArg)
	if err != nil {
		return nil, fmt.Errorf("parse levels: %w", err)
	}
	epochs, err := utils.ParseIntList(*epochsArg)
	if err != nil {
		return nil, fmt.Errorf("parse epochs: %w", err)
	}
	batches, err := utils.ParseIntList(*batchesArg)
	if err != nil {
		return nil, fmt.Errorf("parse batches: %w", err)
	}
	cfg := &utils.Config{
		Levels:       levels,
		CorpusDir:    *corpusDir,
		DataDir:      *dataDir,
		OutDir:       *outDir,
		Epochs:       epochs,
		BatchSizes:   batches,
		LearningRate: *learningRate,
		Seed:         *seed,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Epochs) == 0 {
		return nil, fmt.Errorf("at least one training stage is required")
	}
	for _, level := range levels {
		if err := dataset.ValidateLevel(level); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// flattenAll normalizes clean images to [0,1] and stacks them into an
// (n, 784) target array.
func flattenAll(images []*tensor.Tensor) *tensor.Tensor {
	out := tensor.New(len(images), dataset.ImageSide*dataset.ImageSide)
	for i, img := range images {
		out.SetRow(i, dataset.NormalizeFlatten(img))
	}
	return out
}

func die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
