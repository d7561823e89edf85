package rungen

import (
	"github.com/brimdata/spl/runtime/sam/expr/agg"
	"github.com/brimdata/spl/runtime/sam/op/top"
)

// Config holds the tunables of a compiled query.  Zero values select the
// defaults.
type Config struct {
	// Parallelism is the number of distribution units an eval command
	// runs on.  Zero runs eval in line.
	Parallelism int `yaml:"parallelism"`
	// SortLimit is the result limit of a sort command written without a
	// count.  A negative limit sorts without bound.
	SortLimit int `yaml:"sort_limit"`
	// PercentileThreshold is the number of values perc keeps exactly
	// before it switches to a t-digest.
	PercentileThreshold int     `yaml:"percentile_threshold"`
	TDigestCompression  float64 `yaml:"tdigest_compression"`
	// BatchSize is the number of records pulled from the source at a time.
	BatchSize int `yaml:"batch_size"`
}

const DefaultBatchSize = 1

func (c Config) WithDefaults() Config {
	if c.SortLimit == 0 {
		c.SortLimit = top.DefaultLimit
	}
	if c.PercentileThreshold <= 0 {
		c.PercentileThreshold = agg.DefaultPercentileThreshold
	}
	if c.TDigestCompression <= 0 {
		c.TDigestCompression = agg.DefaultCompression
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	return c
}

func (c Config) aggConfig() agg.Config {
	return agg.Config{
		PercentileThreshold: c.PercentileThreshold,
		Compression:         c.TDigestCompression,
	}
}
