package main

// bio-unmapped-reads extracts, from a pair of mate FASTQ files, the reads of
// every fragment except those that align as proper pairs and are not listed
// in the chimeric junction file.
//
// Usage: bio-unmapped-reads alignments.bam Chimeric.out.junction left.fq right.fq

import "github.com/grailbio/readsplit/cmd/extractcmd"

func main() {
	extractcmd.RunUnmapped()
}
