package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the shared dataset/training configuration.
type Config struct {
	Levels       []int
	CorpusDir    string
	DataDir      string
	OutDir       string
	Epochs       []int
	BatchSizes   []int
	LearningRate float64
	Seed         int64
}

// ParseIntList parses a space-separated list of integers.
func ParseIntList(s string) ([]int, error) {
	parts := strings.Fields(s)
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Validate checks the parts of the configuration that are common to both
// commands. Level divisibility is checked by the dataset package where the
// image geometry lives.
func (c *Config) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("at least one compression level is required")
	}
	for _, e := range c.Epochs {
		if e <= 0 {
			return fmt.Errorf("epoch counts must be positive, got %d", e)
		}
	}
	for _, b := range c.BatchSizes {
		if b <= 0 {
			return fmt.Errorf("batch sizes must be positive, got %d", b)
		}
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %g", c.LearningRate)
	}
	return nil
}
