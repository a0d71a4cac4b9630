package extract

import (
	"context"

	"github.com/grailbio/readsplit/keyset"
)

// Config describes one partitioning run.
type Config struct {
	// JunctionPath is the chimeric junction file. Required.
	JunctionPath string
	// AlignmentPath is an optional BAM or SAM file. If empty, the reads of the
	// fragments named in JunctionPath are extracted. Otherwise, the reads of
	// the fragments that are not properly paired in AlignmentPath, or are
	// named in JunctionPath, are extracted.
	AlignmentPath string
	// R1Path and R2Path are the mate FASTQ files.
	R1Path, R2Path string
	Opts           Opts
}

// Polarity returns the filter direction implied by c.
func (c Config) Polarity() Polarity {
	if c.AlignmentPath != "" {
		return ExcludeMatches
	}
	return IncludeMatches
}

// BuildKeySet builds the key set implied by c.
func (c Config) BuildKeySet(ctx context.Context) (*keyset.KeySet, error) {
	if c.AlignmentPath != "" {
		return keyset.BuildAlignment(ctx, c.AlignmentPath, c.JunctionPath)
	}
	return keyset.BuildJunction(ctx, c.JunctionPath)
}

// Run builds the key set and extracts both mate files. A key set error is
// fatal and returned before any FASTQ file is touched. Otherwise Run returns
// the two tasks, as Extract does, and the number that failed.
func Run(ctx context.Context, c Config) ([]*Task, int, error) {
	keys, err := c.BuildKeySet(ctx)
	if err != nil {
		return nil, 0, err
	}
	tasks, nFailed := Extract(ctx, keys, c.R1Path, c.R2Path, c.Polarity(), c.Opts)
	return tasks, nFailed, nil
}
