package keyset_test

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/readsplit/encoding/alignment"
	"github.com/grailbio/readsplit/encoding/junction"
	"github.com/grailbio/readsplit/keyset"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestFragmentID(t *testing.T) {
	for _, test := range []struct {
		name, want string
	}{
		{"readA/1", "readA"},
		{"readA/2", "readA"},
		{"readB", "readB"},
		{"readC/3", "readC/3"},
		{"readD/12", "readD/12"},
		{"readE/1/1", "readE/1"},
		{"/1", ""},
		{"1", "1"},
		{"", ""},
		{"NB500956:89:HW2FHBGX2:1:11101:25648:1069", "NB500956:89:HW2FHBGX2:1:11101:25648:1069"},
	} {
		expect.EQ(t, keyset.FragmentID(test.name), test.want, test.name)
	}
}

func TestKeySet(t *testing.T) {
	s := keyset.New("f2", "f1", "f1")
	expect.EQ(t, s.Len(), 2)
	expect.True(t, s.Contains("f1"))
	expect.False(t, s.Contains("f3"))
	expect.EQ(t, s.Sorted(), []string{"f1", "f2"})
	expect.EQ(t, s.String(), "{f1,f2}")

	d := keyset.New("a", "b", "c").Difference(keyset.New("b", "x"))
	expect.EQ(t, d.Sorted(), []string{"a", "c"})

	var empty keyset.KeySet
	expect.EQ(t, empty.Len(), 0)
	expect.False(t, empty.Contains(""))
}

func junctionData(names ...string) string {
	var lines []string
	for _, name := range names {
		lines = append(lines, strings.Join([]string{
			"chr1", "100", "+", "chr2", "200", "-", "1", "0", "0", name, "50", "50M", "150", "50M"}, "\t"))
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestReadJunction(t *testing.T) {
	s, err := keyset.ReadJunction(strings.NewReader(junctionData("f1", "f2", "f1")))
	assert.NoError(t, err)
	expect.EQ(t, s.Sorted(), []string{"f1", "f2"})
}

func TestReadJunctionEmpty(t *testing.T) {
	s, err := keyset.ReadJunction(strings.NewReader(""))
	assert.NoError(t, err)
	expect.EQ(t, s.Len(), 0)
}

func TestReadJunctionMalformed(t *testing.T) {
	data := junctionData("f1") + "chr1\t100\n" + junctionData("f2")
	s, err := keyset.ReadJunction(strings.NewReader(data))
	expect.True(t, s == nil)
	merr, ok := err.(*junction.MalformedRecordError)
	if !ok {
		t.Fatalf("expected a MalformedRecordError, got %v", err)
	}
	expect.EQ(t, merr.Line, 2)
}

const properPairSAM = `@SQ	SN:chr1	LN:10000
a	99	chr1	100	60	4M	=	200	104	ACGT	IIII
a	147	chr1	200	60	4M	=	100	-104	ACGT	IIII
b	99	chr1	300	60	4M	=	400	104	ACGT	IIII
c	163	chr1	500	60	4M	=	600	104	ACGT	IIII
s	2147	chr1	700	60	4M	=	800	104	ACGT	IIII
n	65	chr1	900	60	4M	chr1	50	0	ACGT	IIII
u	77	*	0	0	*	*	0	0	ACGT	IIII
`

func TestReadAlignment(t *testing.T) {
	r, err := alignment.NewReader(strings.NewReader(properPairSAM), alignment.SAM)
	assert.NoError(t, err)
	s, err := keyset.ReadAlignment(r)
	assert.NoError(t, err)
	expect.EQ(t, s.Sorted(), []string{"a", "b", "c"})
}

// writeBAM converts SAM text into a BAM file at path.
func writeBAM(t *testing.T, path, samText string) {
	sr, err := sam.NewReader(strings.NewReader(samText))
	assert.NoError(t, err)
	out, err := os.Create(path)
	assert.NoError(t, err)
	w, err := bam.NewWriter(out, sr.Header(), 1)
	assert.NoError(t, err)
	for {
		rec, err := sr.Read()
		if err == io.EOF {
			break
		}
		assert.NoError(t, err)
		assert.NoError(t, w.Write(rec))
	}
	assert.NoError(t, w.Close())
	assert.NoError(t, out.Close())
}

func TestBuild(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	junctionPath := filepath.Join(tempDir, "Chimeric.out.junction")
	assert.NoError(t, ioutil.WriteFile(junctionPath, []byte(junctionData("b", "z")), 0600))
	samPath := filepath.Join(tempDir, "Aligned.out.sam")
	assert.NoError(t, ioutil.WriteFile(samPath, []byte(properPairSAM), 0600))
	bamPath := filepath.Join(tempDir, "Aligned.out.bam")
	writeBAM(t, bamPath, properPairSAM)

	s, err := keyset.BuildJunction(ctx, junctionPath)
	assert.NoError(t, err)
	expect.EQ(t, s.Sorted(), []string{"b", "z"})

	for _, path := range []string{samPath, bamPath} {
		s, err = keyset.BuildAlignment(ctx, path, junctionPath)
		assert.NoError(t, err, path)
		expect.EQ(t, s.Sorted(), []string{"a", "c"}, path)
	}
}

// Every proper pair read from a BAM file must be kept under its own name,
// even though the reader recycles records.
func TestBuildAlignmentBAM(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	var b strings.Builder
	b.WriteString("@SQ\tSN:chr1\tLN:10000\n")
	var want []string
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("frag%03d", i)
		want = append(want, name)
		fmt.Fprintf(&b, "%s\t99\tchr1\t%d\t60\t4M\t=\t%d\t104\tACGT\tIIII\n", name, 100+i, 200+i)
		fmt.Fprintf(&b, "%s\t147\tchr1\t%d\t60\t4M\t=\t%d\t-104\tACGT\tIIII\n", name, 200+i, 100+i)
	}
	bamPath := filepath.Join(tempDir, "Aligned.out.bam")
	writeBAM(t, bamPath, b.String())
	junctionPath := filepath.Join(tempDir, "Chimeric.out.junction")
	assert.NoError(t, ioutil.WriteFile(junctionPath, nil, 0600))

	s, err := keyset.BuildAlignment(ctx, bamPath, junctionPath)
	assert.NoError(t, err)
	expect.EQ(t, s.Len(), len(want))
	expect.EQ(t, s.Sorted(), want)
	expect.True(t, s.Contains("frag000"))
}

func TestBuildErrors(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	badJunction := filepath.Join(tempDir, "bad.junction")
	assert.NoError(t, ioutil.WriteFile(badJunction, []byte(junctionData("f1")+"x\ty\n"), 0600))
	_, err := keyset.BuildJunction(ctx, badJunction)
	_, ok := err.(*junction.MalformedRecordError)
	expect.True(t, ok)

	samPath := filepath.Join(tempDir, "Aligned.out.sam")
	assert.NoError(t, ioutil.WriteFile(samPath, []byte(properPairSAM), 0600))
	_, err = keyset.BuildAlignment(ctx, samPath, badJunction)
	_, ok = err.(*junction.MalformedRecordError)
	expect.True(t, ok)

	_, err = keyset.BuildAlignment(ctx, filepath.Join(tempDir, "missing.bam"), badJunction)
	expect.True(t, err != nil)
	_, err = keyset.BuildJunction(ctx, filepath.Join(tempDir, "missing.junction"))
	expect.True(t, err != nil)
}
