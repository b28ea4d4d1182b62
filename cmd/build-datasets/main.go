// build-datasets prepares the compressed, noise-degraded EMNIST-letters
// datasets consumed by the trainer: one container per compression level,
// holding flattened noisy train and test arrays.
//
// Usage:
//
//	build-datasets --corpus=./emnist --out=./datasets --levels="4 7 14 28"
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/dataset"
	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/utils"
)

var (
	corpusDir = flag.String("corpus", "emnist", "Directory with the EMNIST-letters IDX files")
	outDir    = flag.String("out", "datasets", "Output directory for dataset containers")
	levelsArg = flag.String("levels", "4 7 14 28", "Space-separated compression levels")
	seed      = flag.Int64("seed", 42, "Random seed for the noise streams")
	verbose   = flag.Bool("verbose", true, "Verbose output")
	preview   = flag.Int("preview", 0, "Write a PNG contact sheet of the first N noisy training samples per level")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	levels, err := utils.ParseIntList(*levelsArg)
	if err != nil {
		die("parse levels: %v", err)
	}
	if len(levels) == 0 {
		die("at least one compression level is required")
	}
	for _, level := range levels {
		if err := dataset.ValidateLevel(level); err != nil {
			die("%v", err)
		}
	}

	utils.Logf("Configuration:\n")
	utils.Logf("  Corpus: %s\n", *corpusDir)
	utils.Logf("  Output: %s\n", *outDir)
	utils.Logf("  Levels: %v\n", levels)
	utils.Logf("  Seed:   %d\n\n", *seed)

	corpus, err := dataset.LoadCorpus(*corpusDir)
	if err != nil {
		die("load corpus: %v", err)
	}
	utils.Logf("corpus: %d train, %d test samples\n", len(corpus.TrainImages), len(corpus.TestImages))

	builder := &dataset.Builder{Levels: levels, OutDir: *outDir, Seed: uint64(*seed)}
	if err := builder.Run(corpus); err != nil {
		die("build datasets: %v", err)
	}

	if *preview > 0 {
		for _, level := range levels {
			cont, err := dataset.LoadContainer(*outDir, level)
			if err != nil {
				die("%v", err)
			}
			train, err := cont.Array(dataset.NoisyTrainArray)
			if err != nil {
				die("%v", err)
			}
			path := filepath.Join(*outDir, fmt.Sprintf("preview_%d.png", level))
			if err := dataset.WritePreview(path, train, level, *preview); err != nil {
				die("%v", err)
			}
			utils.Logf("wrote %s\n", path)
		}
	}
}

func die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
