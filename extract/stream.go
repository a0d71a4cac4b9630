package extract

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/readsplit/encoding/fastq"
	"github.com/grailbio/readsplit/keyset"
)

// Stats counts the reads seen by one ExtractStream call.
type Stats struct {
	// Scanned is the number of reads read from the input.
	Scanned int
	// Written is the number of reads written to the output.
	Written int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d of %d reads written", s.Written, s.Scanned)
}

// ExtractStream copies the reads of the FASTQ file at inputPath whose fragment
// passes the polarity test against keys into a new FASTQ file at outputPath.
// Reads keep their input order. Compressed input is decompressed based on its
// suffix. Output headers carry the read name only; header comments are
// dropped. The output is always closed, whether or not an error occurs.
//
// The returned Stats reflect the reads processed before any error.
func ExtractStream(ctx context.Context, inputPath, outputPath string, keys *keyset.KeySet, polarity Polarity) (Stats, error) {
	return extractStream(ctx, inputPath, outputPath, keys, polarity, DefaultOpts)
}

func extractStream(ctx context.Context, inputPath, outputPath string, keys *keyset.KeySet, polarity Polarity, opts Opts) (stats Stats, err error) {
	in, err := file.Open(ctx, inputPath)
	if err != nil {
		return stats, errors.E(err, "open", inputPath)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "close", inputPath)
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}

	out, err := file.Create(ctx, outputPath)
	if err != nil {
		return stats, errors.E(err, "create", outputPath)
	}
	bw := bufio.NewWriterSize(out.Writer(ctx), 1<<20)
	w := fastq.NewWriter(bw)

	once := errors.Once{}
	sc := fastq.NewScanner(r, fastq.All)
	var read fastq.Read
	for sc.Scan(&read) {
		stats.Scanned++
		if opts.ProgressInterval > 0 && stats.Scanned%opts.ProgressInterval == 0 {
			log.Printf("%s: %d reads scanned, %d written", inputPath, stats.Scanned, stats.Written)
		}
		if !polarity.keep(keys.Contains(keyset.FragmentID(read.Name))) {
			continue
		}
		if !opts.KeepComments {
			read.Comment = ""
		}
		if e := w.Write(&read); e != nil {
			once.Set(errors.E(e, outputPath))
			break
		}
		stats.Written++
	}
	if e := sc.Err(); e != nil {
		once.Set(errors.E(e, fmt.Sprintf("%s: read %d", inputPath, stats.Scanned+1)))
	}
	if e := bw.Flush(); e != nil {
		once.Set(errors.E(e, "flush", outputPath))
	}
	if e := out.Close(ctx); e != nil {
		once.Set(errors.E(e, "close", outputPath))
	}
	return stats, once.Err()
}
