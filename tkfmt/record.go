// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tkfmt provides the data model for timed measurements and
// readers and writers for the formats they are exchanged in.
//
// A Record is a single timed or sized observation tagged with named
// attributes. A Measurement is a named, ordered collection of
// Records sharing a fixed list of column names. Measurements groups
// several Measurements for batch reporting.
//
// Measurements are built once, then read. None of the types in this
// package are safe for concurrent mutation.
//
// This package is designed to be used with tkproc, which orders
// Records, and tkunit, which parses and formats sizes and durations.
package tkfmt

import (
	"fmt"
	"time"
)

// Now is the clock used by Before and After. Tests may replace it.
var Now = time.Now

// An Attr is a single attribute name/value pair of a Record.
type Attr struct {
	Key   string
	Value string
}

// A Record is one timed or sized observation.
//
// A Record's attributes are fixed when it is built. After that, only
// its timing and size may change: through SetStartAt and SetEndAt (or
// Before and After), SetDuration, and SetSize. For each of these the
// last write wins.
type Record struct {
	attrs []Attr

	// attrPos maps from Attr.Key to index in attrs. This may be
	// nil, which indicates the index needs to be constructed.
	attrPos map[string]int

	startAt, endAt time.Time

	// duration is an explicitly assigned duration. It is valid
	// only if hasDuration is set, and takes precedence over
	// startAt and endAt.
	duration    time.Duration
	hasDuration bool

	size    int64
	hasSize bool
}

// NewRecord returns a Record with the given attributes, which are
// specified as alternating keys and values.
func NewRecord(keyVals ...string) *Record {
	if len(keyVals)%2 != 0 {
		panic("len(keyVals) must be a multiple of 2")
	}
	var b RecordBuilder
	for i := 0; i < len(keyVals); i += 2 {
		b.Attr(keyVals[i], keyVals[i+1])
	}
	return b.Build()
}

// A RecordBuilder accumulates attributes for a new Record.
//
// The zero value is an empty builder.
type RecordBuilder struct {
	r *Record
}

// Attr sets attribute key to value. Setting a key a second time
// replaces its value but keeps its original position.
func (b *RecordBuilder) Attr(key, value string) *RecordBuilder {
	if b.r == nil {
		b.r = new(Record)
	}
	if pos, ok := b.r.AttrIndex(key); ok {
		b.r.attrs[pos].Value = value
		return b
	}
	b.r.attrPos[key] = len(b.r.attrs)
	b.r.attrs = append(b.r.attrs, Attr{key, value})
	return b
}

// Attrs sets every attribute in attrs, in order.
func (b *RecordBuilder) Attrs(attrs ...Attr) *RecordBuilder {
	for _, a := range attrs {
		b.Attr(a.Key, a.Value)
	}
	return b
}

// Build returns the Record and resets b.
func (b *RecordBuilder) Build() *Record {
	r := b.r
	if r == nil {
		r = new(Record)
	}
	b.r = nil
	return r
}

// Clone makes a copy of r that shares no state with r.
func (r *Record) Clone() *Record {
	r2 := *r
	r2.attrs = append([]Attr(nil), r.attrs...)
	r2.attrPos = nil
	return &r2
}

// Len returns the number of attributes of r.
func (r *Record) Len() int {
	return len(r.attrs)
}

// Attrs returns a copy of r's attributes in the order they were set.
func (r *Record) Attrs() []Attr {
	return append([]Attr(nil), r.attrs...)
}

// Attr returns the value of attribute key and whether it is present.
func (r *Record) Attr(key string) (string, bool) {
	pos, ok := r.AttrIndex(key)
	if !ok {
		return "", false
	}
	return r.attrs[pos].Value, true
}

// Get returns the value of attribute key, or "" if not present.
func (r *Record) Get(key string) string {
	v, _ := r.Attr(key)
	return v
}

// AttrIndex returns the position of key in r's attributes.
func (r *Record) AttrIndex(key string) (pos int, ok bool) {
	if r.attrPos == nil {
		// This is a fresh Record. Construct the index.
		r.attrPos = make(map[string]int, len(r.attrs))
		for i, a := range r.attrs {
			r.attrPos[a.Key] = i
		}
	}

	pos, ok = r.attrPos[key]
	return
}

// StartAt returns the start time of r, or the zero Time.
func (r *Record) StartAt() time.Time { return r.startAt }

// EndAt returns the end time of r, or the zero Time.
func (r *Record) EndAt() time.Time { return r.endAt }

// SetStartAt sets the start time of r. It discards any duration
// assigned by SetDuration.
func (r *Record) SetStartAt(t time.Time) {
	r.startAt = t
	r.hasDuration = false
}

// SetEndAt sets the end time of r. It discards any duration assigned
// by SetDuration.
func (r *Record) SetEndAt(t time.Time) {
	r.endAt = t
	r.hasDuration = false
}

// Before starts timing r.
func (r *Record) Before() {
	r.SetStartAt(Now())
}

// After stops timing r. It is an error to call After without a
// preceding Before or SetStartAt.
func (r *Record) After() error {
	if r.startAt.IsZero() {
		return fmt.Errorf("After called without Before: %w", ErrIllegalState)
	}
	r.SetEndAt(Now())
	return nil
}

// SetDuration assigns a duration to r directly, for example one
// parsed from a report. It takes precedence over the start and end
// times until either is set again.
func (r *Record) SetDuration(d time.Duration) {
	r.duration = d
	r.hasDuration = true
}

// HasDuration reports whether r's duration is defined.
func (r *Record) HasDuration() bool {
	return r.hasDuration || (!r.startAt.IsZero() && !r.endAt.IsZero())
}

// Duration returns the duration of r at millisecond resolution. It
// returns an error wrapping ErrIllegalState if r has neither an
// assigned duration nor both a start and an end time.
func (r *Record) Duration() (time.Duration, error) {
	var d time.Duration
	switch {
	case r.hasDuration:
		d = r.duration
	case r.startAt.IsZero():
		return 0, fmt.Errorf("duration undefined, start time not set: %w", ErrIllegalState)
	case r.endAt.IsZero():
		return 0, fmt.Errorf("duration undefined, end time not set: %w", ErrIllegalState)
	default:
		d = r.endAt.Sub(r.startAt)
	}
	return d.Truncate(time.Millisecond), nil
}

// DurationMillis is like Duration, but returns whole milliseconds.
func (r *Record) DurationMillis() (int64, error) {
	d, err := r.Duration()
	return d.Milliseconds(), err
}

// SetSize sets the size of r, such as a byte count.
func (r *Record) SetSize(n int64) {
	r.size = n
	r.hasSize = true
}

// Size returns the size of r, or 0 if it was never set.
func (r *Record) Size() int64 {
	return r.size
}

// HasSize reports whether SetSize has been called on r.
func (r *Record) HasSize() bool {
	return r.hasSize
}
