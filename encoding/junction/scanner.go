package junction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

const (
	// FragmentNameField is the 0-based column that holds the fragment name.
	FragmentNameField = 9
	// MinFields is the smallest number of columns a junction record may have.
	MinFields = FragmentNameField + 1

	// headerPrefix starts the column header row that STAR emits with
	// --chimOutJunctionFormat 1.
	headerPrefix = "chr_donorA\t"
)

// MalformedRecordError is returned when a junction line has fewer than
// MinFields tab-separated columns.
type MalformedRecordError struct {
	// Path is the junction file name. It is empty when reading from a plain
	// io.Reader.
	Path string
	// Line is the 1-based line number.
	Line int
	// NumFields is the number of columns found on the line.
	NumFields int
}

func (e *MalformedRecordError) Error() string {
	path := e.Path
	if path == "" {
		path = "junction"
	}
	return fmt.Sprintf("%s:%d: malformed junction record: found %d tab-separated fields, need at least %d",
		path, e.Line, e.NumFields, MinFields)
}

// Record is one junction line split on tabs.
type Record struct {
	// Line is the 1-based line number in the input.
	Line   int
	Fields []string
}

// FragmentName returns the name of the fragment that supports the junction.
// The name is returned verbatim; junction files do not carry mate suffixes.
func (r Record) FragmentName() string { return r.Fields[FragmentNameField] }

// Scanner reads junction records one line at a time. "#" comment
// lines and the optional column header row are skipped. Scanning stops at the
// first malformed line. Thread compatible.
type Scanner struct {
	path string
	b    *bufio.Scanner
	line int
	rec  Record
	err  error
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan advances to the next record. It returns false at the end of the input
// or on error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.b.Scan() {
		s.line++
		line := strings.TrimSuffix(s.b.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, headerPrefix) {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < MinFields {
			s.err = &MalformedRecordError{Path: s.path, Line: s.line, NumFields: len(fields)}
			return false
		}
		s.rec = Record{Line: s.line, Fields: fields}
		return true
	}
	s.err = s.b.Err()
	return false
}

// Record returns the record read by the last successful Scan.
func (s *Scanner) Record() Record { return s.rec }

// Err returns the error that stopped scanning, or nil at a clean end of input.
// A short line yields a *MalformedRecordError.
func (s *Scanner) Err() error { return s.err }

// File is a junction Scanner backed by a (possibly compressed) file.
type File struct {
	*Scanner
	in file.File
}

// Open opens the junction file at path. The path may name any location that
// github.com/grailbio/base/file understands. Compressed files are
// decompressed based on their suffix.
func Open(ctx context.Context, path string) (*File, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open junction file", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	sc := NewScanner(r)
	sc.path = path
	return &File{Scanner: sc, in: in}, nil
}

// Close closes the underlying file. It returns the scan error, if any, or
// the close error.
func (f *File) Close(ctx context.Context) error {
	e := errors.Once{}
	e.Set(f.Err())
	e.Set(f.in.Close(ctx))
	return e.Err()
}
