// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package alignment streams the few alignment attributes needed to
// reconcile fragments against FASTQ input: the query name and the
// proper-pair and supplementary flags. Records are decoded with
// github.com/grailbio/hts from either BAM or SAM input.
package alignment
