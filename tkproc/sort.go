// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkproc

import (
	"slices"

	"github.com/zchee/timekeeper/tkfmt"
)

// SortRecords stably sorts records using c. Records that compare
// equal keep their relative order.
//
// If any comparison fails, SortRecords stops and returns that error,
// leaving records in an unspecified order. Every Record is checked
// against c before sorting starts, so a Record lacking a value c
// needs is reported even if it would never be compared, as in a
// one-Record slice.
func SortRecords(records []*tkfmt.Record, c Comparator) error {
	if c.kind == KindNone {
		return nil
	}
	for _, r := range records {
		if _, err := c.Compare(r, r); err != nil {
			return err
		}
	}

	var err error
	slices.SortStableFunc(records, func(a, b *tkfmt.Record) int {
		if err != nil {
			// Already failed. Let the sort finish quickly.
			return 0
		}
		r, cerr := c.Compare(a, b)
		if cerr != nil {
			err = cerr
			return 0
		}
		return r
	})
	return err
}
