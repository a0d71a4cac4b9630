// Package keyset builds the set of fragment identifiers used to partition
// paired FASTQ reads. A set is built once, from a chimeric junction file and
// optionally an alignment file, and is read-only afterwards, so it may be
// shared by any number of goroutines without locking.
package keyset

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/readsplit/encoding/alignment"
	"github.com/grailbio/readsplit/encoding/junction"
)

// FragmentID returns the fragment identifier of a FASTQ read name: the name
// with one trailing "/1" or "/2" mate marker removed. Any other suffix,
// including "/3" or "/12", is kept.
func FragmentID(name string) string {
	if n := len(name); n >= 2 && name[n-2] == '/' && (name[n-1] == '1' || name[n-1] == '2') {
		return name[:n-2]
	}
	return name
}

// KeySet is an immutable set of fragment identifiers. The zero value is an
// empty set. Thread safe.
type KeySet struct {
	ids map[string]struct{}
}

// New creates a KeySet containing ids. Duplicates collapse.
func New(ids ...string) *KeySet {
	b := newBuilder()
	for _, id := range ids {
		b.add(id)
	}
	return b.freeze()
}

// Contains reports whether id is in the set.
func (s *KeySet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of identifiers in the set.
func (s *KeySet) Len() int { return len(s.ids) }

// Sorted returns the identifiers in ascending order.
func (s *KeySet) Sorted() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Difference returns a new set holding the identifiers of s that are not in
// other.
func (s *KeySet) Difference(other *KeySet) *KeySet {
	b := newBuilder()
	for id := range s.ids {
		if !other.Contains(id) {
			b.add(id)
		}
	}
	return b.freeze()
}

func (s *KeySet) String() string {
	const maxShown = 8
	ids := s.Sorted()
	if len(ids) > maxShown {
		ids = append(ids[:maxShown], "...")
	}
	return "{" + strings.Join(ids, ",") + "}"
}

// builder accumulates identifiers. It is the only way to grow a set; once
// freeze is called the builder must not be used again.
type builder struct {
	ids map[string]struct{}
}

func newBuilder() *builder { return &builder{ids: map[string]struct{}{}} }

func (b *builder) add(id string) { b.ids[id] = struct{}{} }

func (b *builder) freeze() *KeySet {
	s := &KeySet{ids: b.ids}
	b.ids = nil
	return s
}

// ReadJunction collects the fragment names of every record in a junction
// stream. Names are inserted verbatim. It aborts with a
// *junction.MalformedRecordError on the first line with too few columns, since
// a partial set would silently misroute reads.
func ReadJunction(r io.Reader) (*KeySet, error) {
	sc := junction.NewScanner(r)
	s, _ := scanJunction(sc)
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// scanJunction drains sc and returns the set of fragment names along with the
// number of records read. The caller checks sc.Err.
func scanJunction(sc *junction.Scanner) (*KeySet, int) {
	b := newBuilder()
	nRec := 0
	for sc.Scan() {
		b.add(sc.Record().FragmentName())
		nRec++
	}
	return b.freeze(), nRec
}

// BuildJunction builds the junction-only key set from the junction file at
// path. See ReadJunction.
func BuildJunction(ctx context.Context, path string) (*KeySet, error) {
	f, err := junction.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	s, nRec := scanJunction(f.Scanner)
	if err := f.Close(ctx); err != nil {
		return nil, err
	}
	log.Printf("%s: %d fragments from %d junction records", path, s.Len(), nRec)
	return s, nil
}

// ReadAlignment collects the query names of the alignment records that are
// properly paired and not supplementary. Names are inserted verbatim.
func ReadAlignment(r *alignment.Reader) (*KeySet, error) {
	b := newBuilder()
	for r.Scan() {
		rec := r.Record()
		if !rec.IsSupplementary && rec.IsProperPair {
			b.add(rec.QueryName)
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return b.freeze(), nil
}

// BuildAlignment builds the alignment-reconciled key set: fragments with a
// proper-pair, non-supplementary alignment in alignmentPath, minus the
// fragments named in the junction file at junctionPath.
func BuildAlignment(ctx context.Context, alignmentPath, junctionPath string) (*KeySet, error) {
	r, err := alignment.Open(ctx, alignmentPath)
	if err != nil {
		return nil, err
	}
	proper, err := ReadAlignment(r)
	if e := r.Close(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E(err, alignmentPath)
	}
	chimeric, err := BuildJunction(ctx, junctionPath)
	if err != nil {
		return nil, err
	}
	s := proper.Difference(chimeric)
	log.Printf("%s: %d properly paired fragments, %d after removing chimeric fragments",
		alignmentPath, proper.Len(), s.Len())
	if n := proper.Len() - s.Len(); n > 0 {
		log.Debug.Printf("%d chimeric fragments were also flagged as proper pairs", n)
	}
	return s, nil
}
