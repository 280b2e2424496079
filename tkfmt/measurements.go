// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkfmt

import "iter"

// Measurements is an ordered collection of Measurement, used to
// report several measurements together. The zero value is empty and
// ready to use.
type Measurements struct {
	list []*Measurement
}

// Add appends m. Measurements with the same ID are kept separately.
func (ms *Measurements) Add(m *Measurement) {
	ms.list = append(ms.list, m)
}

// Get returns the i'th Measurement.
func (ms *Measurements) Get(i int) *Measurement {
	return ms.list[i]
}

// Len returns the number of Measurements.
func (ms *Measurements) Len() int {
	return len(ms.list)
}

// All returns an iterator over the Measurements in insertion order.
// The iterator may be used more than once.
func (ms *Measurements) All() iter.Seq[*Measurement] {
	return func(yield func(*Measurement) bool) {
		for _, m := range ms.list {
			if !yield(m) {
				return
			}
		}
	}
}
