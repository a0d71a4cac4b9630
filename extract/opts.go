package extract

import "fmt"

// Polarity selects which reads ExtractStream writes.
type Polarity int

const (
	// ExcludeMatches writes reads whose fragment is absent from the key set.
	ExcludeMatches Polarity = iota
	// IncludeMatches writes reads whose fragment is present in the key set.
	IncludeMatches
)

func (p Polarity) String() string {
	switch p {
	case ExcludeMatches:
		return "exclude-matches"
	case IncludeMatches:
		return "include-matches"
	}
	return fmt.Sprintf("Polarity(%d)", int(p))
}

// keep reports whether a read whose fragment membership is found should be
// written.
func (p Polarity) keep(found bool) bool {
	if p == IncludeMatches {
		return found
	}
	return !found
}

// Opts controls where and how extracted reads are written.
type Opts struct {
	// OutputDir is the directory that receives the extracted FASTQ files.
	OutputDir string
	// Suffix is appended to the base name of each input to form the output
	// file name.
	Suffix string
	// ProgressInterval is the number of reads between progress log lines. Zero
	// disables progress logging.
	ProgressInterval int
	// KeepComments writes FASTQ header comments back after the read name. By
	// default the output header is "@" followed by the read name alone.
	KeepComments bool
}

// DefaultOpts writes <basename>.extracted.fq into the current directory.
var DefaultOpts = Opts{
	OutputDir:        ".",
	Suffix:           ".extracted.fq",
	ProgressInterval: 1024 * 1024,
}
