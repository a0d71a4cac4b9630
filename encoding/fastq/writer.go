package fastq

import (
	"io"

	"github.com/pkg/errors"
)

// Writer is a FASTQ file writer.
type Writer struct {
	w   io.Writer
	err error
	n   int
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the read r in the four-line FASTQ format. The comment, if
// nonempty, is separated from the name by a single space. Once a write fails,
// every later call returns the same error.
func (w *Writer) Write(r *Read) error {
	w.put("@")
	w.put(r.Name)
	if r.Comment != "" {
		w.put(" ")
		w.put(r.Comment)
	}
	w.put("\n")
	w.put(r.Seq)
	w.put("\n+\n")
	w.put(r.Qual)
	w.put("\n")
	if w.err != nil {
		return errors.Wrapf(w.err, "write FASTQ record %d (%s)", w.n, r.Name)
	}
	w.n++
	return nil
}

func (w *Writer) put(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}
