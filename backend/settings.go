package backend

import (
	"fmt"
	"runtime"

	"MandelbrotExplorer/task"
)

const (
	DefaultTotalSamples     = 256
	DefaultSamplesPerLaunch = 4
	// MaxTotalSamples keeps the per-pixel colour sums well inside a uint32.
	MaxTotalSamples = 1 << 16
	// tileEdge is the launch tile edge of the progressive backend for a block size of 1.
	tileEdge = 16
)

type Settings struct {
	Concurrency      int             `koanf:"concurrency"`
	Generation       task.Generation `koanf:"-"`
	TaskSize         int             `koanf:"task_size"`
	TotalSamples     int             `koanf:"total_samples"`
	SamplesPerLaunch int             `koanf:"samples_per_launch"`
	BlockSize        int             `koanf:"block_size"`
	Seed             int64           `koanf:"seed"`
}

func DefaultSettings() Settings {
	return Settings{
		Concurrency:      runtime.NumCPU(),
		Generation:       task.Block,
		TaskSize:         task.DefaultSize,
		TotalSamples:     DefaultTotalSamples,
		SamplesPerLaunch: DefaultSamplesPerLaunch,
		BlockSize:        1,
		Seed:             1,
	}
}

func (s *Settings) String() string {
	output := "\nBackend settings\n"
	output += fmt.Sprintf("Concurrency: %d\n", s.Concurrency)
	output += fmt.Sprintf("Task Generation: %s\n", s.Generation)
	output += fmt.Sprintf("Task Size: %d\n", s.TaskSize)
	output += fmt.Sprintf("Total Samples: %d\n", s.TotalSamples)
	output += fmt.Sprintf("Samples Per Launch: %d\n", s.SamplesPerLaunch)
	output += fmt.Sprintf("Block Size: %d\n", s.BlockSize)
	output += fmt.Sprintf("Seed: %d\n", s.Seed)
	return output
}

// Verify clamps every value into its valid range.
func (s *Settings) Verify() error {
	s.Concurrency = ClampConcurrency(s.Concurrency)
	if s.Generation < task.Row || s.Generation > task.Block {
		s.Generation = task.Block
	}
	if s.TaskSize < 1 {
		s.TaskSize = task.DefaultSize
	}
	if s.TotalSamples < 1 {
		s.TotalSamples = 1
	}
	if s.TotalSamples > MaxTotalSamples {
		s.TotalSamples = MaxTotalSamples
	}
	if s.SamplesPerLaunch < 1 {
		s.SamplesPerLaunch = 1
	}
	if s.SamplesPerLaunch > s.TotalSamples {
		s.SamplesPerLaunch = s.TotalSamples
	}
	if !ValidBlockSize(s.BlockSize) {
		blockSize := s.BlockSize
		s.BlockSize = 1
		return fmt.Errorf("block size %d is not one of 1, 2, 4, 8, 16; using 1", blockSize)
	}
	return nil
}

// ClampConcurrency limits n to [1, runtime.NumCPU()]. Zero or less selects every CPU.
func ClampConcurrency(n int) int {
	if n < 1 || n > runtime.NumCPU() {
		return runtime.NumCPU()
	}
	return n
}

func ValidBlockSize(n int) bool {
	switch n {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}
