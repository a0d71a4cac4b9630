// Package extract partitions a pair of mate-ordered FASTQ files by fragment
// membership in a key set. Each mate file is filtered by its own goroutine
// in a single sequential pass; the two passes share only the read-only key
// set.
package extract

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/readsplit/keyset"
)

// Task is the extraction of one mate file. Fields other than Stats and Err
// are set at construction; Stats and Err are set by Run.
type Task struct {
	// ID is 1 for the left (R1) mate file and 2 for the right (R2) mate file.
	ID         int
	InputPath  string
	OutputPath string

	Stats Stats
	// Err is non-nil if the task failed.
	Err error
}

// NewTask creates a task that filters inputPath into a file in opts.OutputDir.
func NewTask(id int, inputPath string, opts Opts) *Task {
	return &Task{ID: id, InputPath: inputPath, OutputPath: OutputPath(inputPath, opts)}
}

// OutputPath returns the file that receives the reads extracted from
// inputPath: opts.Suffix appended to the base name of inputPath, placed in
// opts.OutputDir.
func OutputPath(inputPath string, opts Opts) string {
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, filepath.Base(inputPath)+opts.Suffix)
}

// Succeeded reports whether the task ran to completion without error.
func (t *Task) Succeeded() bool { return t.Err == nil }

// Run performs the extraction. Errors are stored in t.Err rather than
// returned, so a failing task never affects its sibling.
func (t *Task) Run(ctx context.Context, keys *keyset.KeySet, polarity Polarity, opts Opts) {
	t.Stats, t.Err = extractStream(ctx, t.InputPath, t.OutputPath, keys, polarity, opts)
	if t.Err != nil {
		log.Error.Printf("task %d: %s -> %s: %v", t.ID, t.InputPath, t.OutputPath, t.Err)
		return
	}
	log.Printf("task %d: %s -> %s: %v", t.ID, t.InputPath, t.OutputPath, t.Stats)
}

// Extract filters the mate files r1Path and r2Path concurrently, one
// goroutine per file, and waits for both. It returns the two tasks, in R1, R2
// order, and the number of tasks that failed (0, 1 or 2). Each failed task
// logs its error along with its input and output paths.
//
// REQUIRES: keys is not modified during the call.
func Extract(ctx context.Context, keys *keyset.KeySet, r1Path, r2Path string, polarity Polarity, opts Opts) ([]*Task, int) {
	tasks := []*Task{NewTask(1, r1Path, opts), NewTask(2, r2Path, opts)}
	log.Printf("extracting reads (%v, %d fragments) from %s and %s", polarity, keys.Len(), r1Path, r2Path)
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t *Task) {
			t.Run(ctx, keys, polarity, opts)
			wg.Done()
		}(t)
	}
	wg.Wait()

	nFailed := 0
	for _, t := range tasks {
		if !t.Succeeded() {
			nFailed++
		}
	}
	return tasks, nFailed
}
