// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkfmt

import (
	"fmt"
	"iter"
	"time"
)

// A Measurement is a named, ordered collection of Records.
//
// Its column names define the reporting schema and never change
// after construction. Records may carry attributes outside the
// columns, but those are not rendered. Records appear in insertion
// order, which is a Measurement's natural order.
type Measurement struct {
	id      string
	columns []string
	records []*Record

	// pending is the record started by Before and not yet
	// finished by After.
	pending *Record
}

// NewMeasurement returns an empty Measurement. It returns an error
// wrapping ErrInvalidArgument if id or columns is empty.
func NewMeasurement(id string, columns []string) (*Measurement, error) {
	if id == "" {
		return nil, fmt.Errorf("measurement id must not be empty: %w", ErrInvalidArgument)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("measurement %s: columns must not be empty: %w", id, ErrInvalidArgument)
	}
	return &Measurement{
		id:      id,
		columns: append([]string(nil), columns...),
	}, nil
}

// ID returns the identifier of m.
func (m *Measurement) ID() string { return m.id }

// Columns returns a copy of m's column names.
func (m *Measurement) Columns() []string {
	return append([]string(nil), m.columns...)
}

// Len returns the number of Records in m.
func (m *Measurement) Len() int { return len(m.records) }

// Get returns the i'th Record of m.
func (m *Measurement) Get(i int) *Record { return m.records[i] }

// Last returns the most recently added Record, or nil if m is empty.
func (m *Measurement) Last() *Record {
	if len(m.records) == 0 {
		return nil
	}
	return m.records[len(m.records)-1]
}

// All returns an iterator over the index and Record of every Record
// in m, in order.
func (m *Measurement) All() iter.Seq2[int, *Record] {
	return func(yield func(int, *Record) bool) {
		for i, r := range m.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Add appends r to m. m takes ownership of r.
func (m *Measurement) Add(r *Record) {
	if r == nil {
		panic("tkfmt: Add of nil Record")
	}
	m.records = append(m.records, r)
}

// AddAll appends every Record of rs to m, in order.
func (m *Measurement) AddAll(rs []*Record) {
	for _, r := range rs {
		m.Add(r)
	}
}

// CloneRecords returns deep copies of m's Records, in order.
func (m *Measurement) CloneRecords() []*Record {
	out := make([]*Record, len(m.records))
	for i, r := range m.records {
		out[i] = r.Clone()
	}
	return out
}

// NewRecord returns a RecordBuilder holding an empty attribute for
// every column of m, in column order. Setting a column's attribute
// fills it in place. The built Record is not added to m.
func (m *Measurement) NewRecord() *RecordBuilder {
	b := new(RecordBuilder)
	for _, c := range m.columns {
		b.Attr(c, "")
	}
	return b
}

// Before adds a new Record with the given attributes to m and starts
// timing it. A later call to After stops the timer.
func (m *Measurement) Before(attrs ...Attr) {
	var b RecordBuilder
	r := b.Attrs(attrs...).Build()
	r.Before()
	m.Add(r)
	m.pending = r
}

// After stops timing the Record most recently started by Before. It
// returns an error wrapping ErrIllegalState if there is none.
func (m *Measurement) After() error {
	if m.pending == nil {
		return fmt.Errorf("measurement %s: After called without Before: %w", m.id, ErrIllegalState)
	}
	r := m.pending
	m.pending = nil
	return r.After()
}

// RecordDuration adds a Record with the given attributes and timing
// to m and returns it.
func (m *Measurement) RecordDuration(attrs []Attr, start, end time.Time) *Record {
	var b RecordBuilder
	r := b.Attrs(attrs...).Build()
	r.SetStartAt(start)
	r.SetEndAt(end)
	m.Add(r)
	return r
}

// LastRecordDuration returns the duration of the most recently added
// Record.
func (m *Measurement) LastRecordDuration() (time.Duration, error) {
	r := m.Last()
	if r == nil {
		return 0, fmt.Errorf("measurement %s has no records: %w", m.id, ErrIllegalState)
	}
	return r.Duration()
}
