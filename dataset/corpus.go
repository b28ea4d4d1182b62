package dataset

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

const (
	// ImageSide is the side length of a raw corpus image.
	ImageSide = 28
	// NumClasses is the number of letter classes in the corpus.
	NumClasses = 26

	imageMagic = 2051
	labelMagic = 2049
)

// Default EMNIST-letters file names inside the corpus directory. Each may
// also be present with a .gz suffix, which is how the corpus is distributed.
const (
	TrainImagesFile = "emnist-letters-train-images-idx3-ubyte"
	TrainLabelsFile = "emnist-letters-train-labels-idx1-ubyte"
	TestImagesFile  = "emnist-letters-test-images-idx3-ubyte"
	TestLabelsFile  = "emnist-letters-test-labels-idx1-ubyte"
)

// Corpus holds the raw labeled character images, split into train and test
// partitions. Images are 28×28 grids with intensities in [0, 255]; labels
// are 1-indexed letter classes in 1..26.
type Corpus struct {
	TrainImages []*tensor.Tensor
	TrainLabels []int
	TestImages  []*tensor.Tensor
	TestLabels  []int
}

// LoadCorpus reads the four EMNIST-letters IDX files from dir.
func LoadCorpus(dir string) (*Corpus, error) {
	c := &Corpus{}
	var err error
	if c.TrainImages, err = readImageFile(filepath.Join(dir, TrainImagesFile)); err != nil {
		return nil, err
	}
	if c.TrainLabels, err = readLabelFile(filepath.Join(dir, TrainLabelsFile)); err != nil {
		return nil, err
	}
	if c.TestImages, err = readImageFile(filepath.Join(dir, TestImagesFile)); err != nil {
		return nil, err
	}
	if c.TestLabels, err = readLabelFile(filepath.Join(dir, TestLabelsFile)); err != nil {
		return nil, err
	}
	if len(c.TrainImages) != len(c.TrainLabels) {
		return nil, fmt.Errorf("train split: %d images but %d labels", len(c.TrainImages), len(c.TrainLabels))
	}
	if len(c.TestImages) != len(c.TestLabels) {
		return nil, fmt.Errorf("test split: %d images but %d labels", len(c.TestImages), len(c.TestLabels))
	}
	return c, nil
}

// OneHot expands 1-indexed class labels into one-hot rows of width
// NumClasses: label k sets column k-1.
func OneHot(labels []int) (*tensor.Tensor, error) {
	out := tensor.New(len(labels), NumClasses)
	for i, label := range labels {
		if label < 1 || label > NumClasses {
			return nil, fmt.Errorf("label %d at sample %d outside 1..%d", label, i, NumClasses)
		}
		out.Set(1, i, label-1)
	}
	return out, nil
}

// openMaybeGzip opens path, or path.gz with transparent decompression.
func openMaybeGzip(path string) (io.ReadCloser, error) {
	if f, err := os.Open(path); err == nil {
		return f, nil
	}
	f, err := os.Open(path + ".gz")
	if err != nil {
		return nil, fmt.Errorf("open %s[.gz]: %w", path, err)
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s.gz: %w", path, err)
	}
	return &gzipFile{zr: zr, f: f}, nil
}

type gzipFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipFile) Close() error {
	if err := g.zr.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

type imageHeader struct{ Magic, Num, Rows, Cols uint32 }

type labelHeader struct{ Magic, Num uint32 }

func readImageFile(path string) ([]*tensor.Tensor, error) {
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var head imageHeader
	if err := binary.Read(r, binary.BigEndian, &head); err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	if head.Magic != imageMagic {
		return nil, fmt.Errorf("%s: bad image magic %d", path, head.Magic)
	}
	if head.Rows != ImageSide || head.Cols != ImageSide {
		return nil, fmt.Errorf("%s: expected %d×%d images, got %d×%d", path, ImageSide, ImageSide, head.Rows, head.Cols)
	}
	pix := make([]byte, int(head.Num)*ImageSide*ImageSide)
	if _, err := io.ReadFull(r, pix); err != nil {
		return nil, fmt.Errorf("read %s pixels: %w", path, err)
	}
	images := make([]*tensor.Tensor, head.Num)
	for i := range images {
		img := tensor.New(ImageSide, ImageSide)
		for j, b := range pix[i*ImageSide*ImageSide : (i+1)*ImageSide*ImageSide] {
			img.Data[j] = float64(b)
		}
		images[i] = img
	}
	return images, nil
}

func readLabelFile(path string) ([]int, error) {
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var head labelHeader
	if err := binary.Read(r, binary.BigEndian, &head); err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	if head.Magic != labelMagic {
		return nil, fmt.Errorf("%s: bad label magic %d", path, head.Magic)
	}
	raw := make([]byte, head.Num)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read %s labels: %w", path, err)
	}
	labels := make([]int, head.Num)
	for i, b := range raw {
		labels[i] = int(b)
	}
	return labels, nil
}
