// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package junction reads chimeric junction files, as produced by STAR's
// Chimeric.out.junction output. A junction file is tab-separated text with
// one chimeric alignment per line. Only the tenth column, the name of the
// fragment that supports the junction, is interpreted; the other columns are
// passed through as strings.
package junction
