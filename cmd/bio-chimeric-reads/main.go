package main

// bio-chimeric-reads extracts, from a pair of mate FASTQ files, the reads of
// the fragments listed in a chimeric junction file.
//
// Usage: bio-chimeric-reads Chimeric.out.junction left.fq right.fq

import "github.com/grailbio/readsplit/cmd/extractcmd"

func main() {
	extractcmd.RunChimeric()
}
