package alignment

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// Record is the subset of a SAM record used for fragment reconciliation.
type Record struct {
	// QueryName is the read name. Aligners strip the /1, /2 mate suffix, so
	// it names the fragment.
	QueryName string
	// IsSupplementary is true if the record is part of a chimeric alignment
	// and is not the representative alignment (SAM flag 0x800).
	IsSupplementary bool
	// IsProperPair is true if the aligner considers both mates properly
	// aligned (SAM flag 0x2).
	IsProperPair bool
}

// FromSAM extracts a Record from r. The returned record does not refer to
// r's memory, so r may be recycled afterwards. The BAM reader points r.Name
// into a scratch buffer that the next read overwrites.
func FromSAM(r *sam.Record) Record {
	return Record{
		QueryName:       string(append([]byte(nil), r.Name...)),
		IsSupplementary: r.Flags&sam.Supplementary != 0,
		IsProperPair:    r.Flags&sam.ProperPair != 0,
	}
}

// Format is the encoding of an alignment stream.
type Format int

const (
	// BAM is the binary alignment format.
	BAM Format = iota
	// SAM is the text alignment format.
	SAM
)

func (f Format) String() string {
	switch f {
	case BAM:
		return "BAM"
	case SAM:
		return "SAM"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// GuessFormat determines the format from the pathname. Paths ending in ".sam"
// are SAM; everything else is read as BAM.
func GuessFormat(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".sam") {
		return SAM
	}
	return BAM
}

// recordReader is implemented by both sam.Reader and bam.Reader.
type recordReader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

// Reader iterates over the records of a SAM or BAM stream in file order.
// Thread compatible.
type Reader struct {
	in  file.File // nil if created by NewReader.
	r   recordReader
	bam *bam.Reader

	rec  Record
	nRec int
	err  error
}

// NewReader creates a Reader that decodes r in the given format.
func NewReader(r io.Reader, format Format) (*Reader, error) {
	switch format {
	case SAM:
		sr, err := sam.NewReader(r)
		if err != nil {
			return nil, errors.E(err, "failed to open SAM")
		}
		return &Reader{r: sr}, nil
	case BAM:
		br, err := bam.NewReader(r, runtime.NumCPU())
		if err != nil {
			return nil, errors.E(err, "failed to open BAM")
		}
		return &Reader{r: br, bam: br}, nil
	}
	return nil, errors.E(errors.Invalid, fmt.Sprintf("unknown alignment format %v", format))
}

// Open opens the alignment file at path. The format is guessed from the
// pathname.
func Open(ctx context.Context, path string) (*Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open alignment file", path)
	}
	r, err := NewReader(in.Reader(ctx), GuessFormat(path))
	if err != nil {
		_ = in.Close(ctx)
		return nil, errors.E(err, path)
	}
	r.in = in
	return r, nil
}

// Header returns the SAM header of the stream.
func (r *Reader) Header() *sam.Header { return r.r.Header() }

// Scan reads the next record. It returns false at the end of the stream or on
// error.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	rec, err := r.r.Read()
	if err != nil {
		if err != io.EOF {
			r.err = errors.E(err, fmt.Sprintf("failed to read record %d", r.nRec))
		} else {
			r.err = io.EOF
		}
		return false
	}
	r.rec = FromSAM(rec)
	sam.PutInFreePool(rec)
	r.nRec++
	return true
}

// Record returns the record read by the last successful Scan.
func (r *Reader) Record() Record { return r.rec }

// Err returns the error encountered during iteration, if any. io.EOF is
// translated to nil.
func (r *Reader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

// Close releases the reader. It returns Err() or any error from closing the
// underlying file.
func (r *Reader) Close(ctx context.Context) error {
	e := errors.Once{}
	e.Set(r.Err())
	if r.bam != nil {
		e.Set(r.bam.Close())
	}
	if r.in != nil {
		e.Set(r.in.Close(ctx))
	}
	return e.Err()
}
