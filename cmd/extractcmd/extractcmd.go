// Package extractcmd implements the bio-chimeric-reads and bio-unmapped-reads
// commands. Both take positional arguments only and exit with the number of
// mate files that could not be extracted.
package extractcmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/grailbio/base/cmdutil"
	glog "github.com/grailbio/base/log"
	"github.com/grailbio/readsplit/extract"
	"v.io/x/lib/cmdline"
)

const (
	chimericArgs = "junction_file left.fq right.fq"
	unmappedArgs = "alignments junction_file left.fq right.fq"
)

// exitUsage is the status for a wrong number of arguments. A key set that
// cannot be built exits with the same status.
const exitUsage = 1

func usage(w io.Writer, name, args string) {
	fmt.Fprintf(w, "\n\n\tusage: %s %s\n\n", name, args)
}

// runChimeric extracts the reads of the fragments named in a junction file.
func runChimeric(ctx context.Context, stderr io.Writer, name string, argv []string) int {
	if len(argv) != 3 {
		usage(stderr, name, chimericArgs)
		return exitUsage
	}
	return run(ctx, stderr, extract.Config{
		JunctionPath: argv[0],
		R1Path:       argv[1],
		R2Path:       argv[2],
		Opts:         extract.DefaultOpts,
	})
}

// runUnmapped extracts the reads of the fragments that are either not
// properly paired in the alignments or named in the junction file.
func runUnmapped(ctx context.Context, stderr io.Writer, name string, argv []string) int {
	if len(argv) != 4 {
		usage(stderr, name, unmappedArgs)
		return exitUsage
	}
	return run(ctx, stderr, extract.Config{
		AlignmentPath: argv[0],
		JunctionPath:  argv[1],
		R1Path:        argv[2],
		R2Path:        argv[3],
		Opts:          extract.DefaultOpts,
	})
}

func run(ctx context.Context, stderr io.Writer, c extract.Config) int {
	tasks, nFailed, err := extract.Run(ctx, c)
	if err != nil {
		fmt.Fprintf(stderr, "failed to build the fragment set: %v\n", err)
		return exitUsage
	}
	for _, t := range tasks {
		if !t.Succeeded() {
			fmt.Fprintf(stderr, "Error extracting reads from file: %s\n", t.InputPath)
		}
	}
	if nFailed > 0 {
		glog.Error.Printf("%d of 2 mate files failed", nFailed)
	}
	return nFailed
}

type runFunc func(ctx context.Context, stderr io.Writer, name string, argv []string) int

func newCmd(name, short, args string, fn runFunc) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     name,
		Short:    short,
		ArgsName: args,
		LookPath: false,
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if code := fn(context.Background(), env.Stderr, name, argv); code != 0 {
			return cmdline.ErrExitCode(code)
		}
		return nil
	})
	return cmd
}

func newCmdChimeric() *cmdline.Command {
	return newCmd("bio-chimeric-reads",
		"Extract the reads of chimeric fragments from a pair of FASTQ files",
		chimericArgs, runChimeric)
}

func newCmdUnmapped() *cmdline.Command {
	return newCmd("bio-unmapped-reads",
		"Extract the reads of fragments that are not properly paired, or are chimeric, from a pair of FASTQ files",
		unmappedArgs, runUnmapped)
}

func runMain(cmd *cmdline.Command) {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(cmd)
}

// RunChimeric is the entry point of bio-chimeric-reads:
//
//   bio-chimeric-reads junction_file left.fq right.fq
//
// It writes left.fq.extracted.fq and right.fq.extracted.fq, holding the
// reads whose fragment is named in the junction file, into the current
// directory. Output headers hold the read name only; header comments are
// dropped. A failed mate file is reported on stderr as
// "Error extracting reads from file: <file>".
func RunChimeric() { runMain(newCmdChimeric()) }

// RunUnmapped is the entry point of bio-unmapped-reads:
//
//   bio-unmapped-reads alignments junction_file left.fq right.fq
//
// It writes left.fq.extracted.fq and right.fq.extracted.fq, holding every
// read except those of fragments that are properly paired in the alignments
// and not named in the junction file, into the current directory. The
// alignments may be BAM or, with a .sam suffix, SAM. Output is formatted as
// for RunChimeric.
func RunUnmapped() { runMain(newCmdUnmapped()) }
