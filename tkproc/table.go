// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkproc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zchee/timekeeper/tkfmt"
)

// A SortMode selects one of the standard Comparators.
type SortMode int

const (
	SortNone SortMode = iota
	SortByAttributes
	SortByDuration
	SortBySize
	SortByAttributesThenDuration
	SortByAttributesThenSize
	SortByDurationThenAttributes
	SortBySizeThenAttributes
)

var sortModeNames = [...]string{
	SortNone:                     "none",
	SortByAttributes:             "attributes",
	SortByDuration:               "duration",
	SortBySize:                   "size",
	SortByAttributesThenDuration: "attributes+duration",
	SortByAttributesThenSize:     "attributes+size",
	SortByDurationThenAttributes: "duration+attributes",
	SortBySizeThenAttributes:     "size+attributes",
}

func (m SortMode) String() string {
	if !m.valid() {
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
	return sortModeNames[m]
}

func (m SortMode) valid() bool {
	return m >= 0 && int(m) < len(sortModeNames)
}

// usesKeys reports whether m compares by attributes.
func (m SortMode) usesKeys() bool {
	switch m {
	case SortNone, SortByDuration, SortBySize:
		return false
	}
	return true
}

// ParseSortMode parses the name of a SortMode, such as "duration" or
// "attributes+size".
func ParseSortMode(s string) (SortMode, error) {
	s = strings.ToLower(s)
	for i, name := range sortModeNames {
		if s == name {
			return SortMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sort mode %q: %w", s, tkfmt.ErrInvalidArgument)
}

// A TableConfig describes how a Table orders its Measurement.
//
// The zero TableConfig keeps insertion order.
type TableConfig struct {
	Mode SortMode

	// Keys lists the attribute keys for modes that compare by
	// attributes. If empty, the Measurement's columns are used.
	// Keys must be empty for other modes.
	Keys []string

	// Direction applies to every component of the ordering. The
	// zero Direction is Ascending.
	Direction Direction
}

// Validate checks cfg for errors that do not depend on a particular
// Measurement. Errors wrap tkfmt.ErrInvalidArgument.
func (cfg TableConfig) Validate() error {
	if !cfg.Mode.valid() {
		return fmt.Errorf("bad sort mode %d: %w", int(cfg.Mode), tkfmt.ErrInvalidArgument)
	}
	if !cfg.Direction.valid() {
		return fmt.Errorf("bad direction %d: %w", int(cfg.Direction), tkfmt.ErrInvalidArgument)
	}
	if len(cfg.Keys) > 0 && !cfg.Mode.usesKeys() {
		return fmt.Errorf("sort mode %s does not take keys: %w", cfg.Mode, tkfmt.ErrInvalidArgument)
	}
	for _, k := range cfg.Keys {
		if k == "" {
			return fmt.Errorf("empty sort key: %w", tkfmt.ErrInvalidArgument)
		}
	}
	return nil
}

// Comparator returns the Comparator cfg describes, using columns as
// the attribute keys if cfg.Keys is empty.
func (cfg TableConfig) Comparator(columns []string) (Comparator, error) {
	if err := cfg.Validate(); err != nil {
		return Comparator{}, err
	}
	dir := cfg.Direction
	if dir == 0 {
		dir = Ascending
	}
	keys := cfg.Keys
	if len(keys) == 0 {
		keys = columns
	}
	switch cfg.Mode {
	case SortNone:
		return None(), nil
	case SortByAttributes:
		return ByAttributes(keys, dir)
	case SortByDuration:
		return ByDuration(dir), nil
	case SortBySize:
		return BySize(dir), nil
	case SortByAttributesThenDuration:
		return ByAttributesThenDuration(keys, dir)
	case SortByAttributesThenSize:
		return ByAttributesThenSize(keys, dir)
	case SortByDurationThenAttributes:
		return ByDurationThenAttributes(keys, dir)
	case SortBySizeThenAttributes:
		return BySizeThenAttributes(keys, dir)
	}
	panic("unreachable")
}

// String returns cfg in the syntax accepted by ParseTableConfig.
func (cfg TableConfig) String() string {
	var b strings.Builder
	b.WriteString(cfg.Mode.String())
	if len(cfg.Keys) > 0 {
		b.WriteByte(':')
		b.WriteString(strings.Join(cfg.Keys, ","))
	}
	if cfg.Mode != SortNone {
		b.WriteByte('@')
		b.WriteString(cfg.Direction.short())
	}
	return b.String()
}

// A Table binds a Measurement to a Comparator.
type Table struct {
	m        *tkfmt.Measurement
	c        Comparator
	warnings []error
}

// NewTable returns a Table that orders m as described by cfg. It
// returns an error wrapping tkfmt.ErrInvalidArgument if m is nil or
// cfg is invalid.
func NewTable(m *tkfmt.Measurement, cfg TableConfig) (*Table, error) {
	if m == nil {
		return nil, fmt.Errorf("nil measurement: %w", tkfmt.ErrInvalidArgument)
	}
	c, err := cfg.Comparator(m.Columns())
	if err != nil {
		return nil, fmt.Errorf("measurement %s: %w", m.ID(), err)
	}
	return NewTableWithComparator(m, c)
}

// NewTableWithComparator returns a Table that orders m using c.
func NewTableWithComparator(m *tkfmt.Measurement, c Comparator) (*Table, error) {
	if m == nil {
		return nil, fmt.Errorf("nil measurement: %w", tkfmt.ErrInvalidArgument)
	}
	t := &Table{m: m, c: c}

	// Keys outside the schema sort every Record equal on that
	// key, which is likely a mistake.
	cols := m.Columns()
	for _, k := range c.Keys() {
		if !slices.Contains(cols, k) {
			t.warnings = append(t.warnings, fmt.Errorf("measurement %s: sort key %q is not a column", m.ID(), k))
		}
	}
	return t, nil
}

// Measurement returns the source Measurement of t.
func (t *Table) Measurement() *tkfmt.Measurement { return t.m }

// Comparator returns the Comparator of t.
func (t *Table) Comparator() Comparator { return t.c }

// RequireSorting reports whether t reorders Records at all.
func (t *Table) RequireSorting() bool { return t.c.Kind() != KindNone }

// Description describes t's ordering for a report heading.
func (t *Table) Description() string { return t.c.String() }

// Warnings returns problems with t's configuration that are not
// fatal.
func (t *Table) Warnings() []error { return t.warnings }

// SortedMeasurement returns a new Measurement with the same id and
// columns as t's Measurement and a copy of each of its Records, in
// sorted order.
//
// The source Measurement is not modified, and repeated calls return
// equal results as long as it is not modified either.
func (t *Table) SortedMeasurement() (*tkfmt.Measurement, error) {
	out, err := tkfmt.NewMeasurement(t.m.ID(), t.m.Columns())
	if err != nil {
		return nil, err
	}
	recs := t.m.CloneRecords()
	if t.RequireSorting() {
		if err := SortRecords(recs, t.c); err != nil {
			return nil, fmt.Errorf("measurement %s: %w", t.m.ID(), err)
		}
	}
	out.AddAll(recs)
	return out, nil
}
