package dataset

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FS-CodeBase/Signal-Classification-and-Reconstruction-Network/tensor"
)

// Array names stored in a per-level container.
const (
	NoisyTrainArray = "noisy_train"
	NoisyTestArray  = "noisy_test"
)

// Container is the on-disk dataset artifact for one compression level:
// named 2-D arrays of flattened noisy vectors, gob-encoded under gzip.
type Container struct {
	Level  int
	Arrays map[string]*tensor.Tensor
}

// NewContainer creates an empty container for the given level.
func NewContainer(level int) *Container {
	return &Container{Level: level, Arrays: make(map[string]*tensor.Tensor)}
}

// Array returns the named array or an error if the container lacks it.
func (c *Container) Array(name string) (*tensor.Tensor, error) {
	a, ok := c.Arrays[name]
	if !ok {
		return nil, fmt.Errorf("container for level %d has no array %q", c.Level, name)
	}
	return a, nil
}

// ContainerPath returns the container file path for a level under dir.
func ContainerPath(dir string, level int) string {
	return filepath.Join(dir, fmt.Sprintf("letters_%d.gob.gz", level))
}

// Save writes the container under dir, creating the directory if absent
// and overwriting any existing file for the same level.
func (c *Container) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	f, err := os.Create(ContainerPath(dir, c.Level))
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	defer f.Close()
	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(c); err != nil {
		zw.Close()
		return fmt.Errorf("encode container: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush container: %w", err)
	}
	return f.Close()
}

// LoadContainer reads the container for a level from dir.
func LoadContainer(dir string, level int) (*Container, error) {
	f, err := os.Open(ContainerPath(dir, level))
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	defer zr.Close()
	var c Container
	if err := gob.NewDecoder(zr).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode container: %w", err)
	}
	if c.Level != level {
		return nil, fmt.Errorf("container level %d does not match file for level %d", c.Level, level)
	}
	return &c, nil
}
