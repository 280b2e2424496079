// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkproc

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/zchee/timekeeper/tkfmt"
)

// A Kind is the kind of ordering a Comparator implements.
type Kind int

const (
	// KindNone compares all Records equal, so a stable sort keeps
	// insertion order.
	KindNone Kind = iota
	// KindAttributes compares attribute values lexicographically
	// over a list of keys.
	KindAttributes
	// KindDuration compares Record durations.
	KindDuration
	// KindSize compares Record sizes.
	KindSize
	// KindComposite compares by a primary Comparator and breaks
	// ties with a secondary Comparator.
	KindComposite
)

var kindNames = [...]string{
	KindNone:       "none",
	KindAttributes: "attributes",
	KindDuration:   "duration",
	KindSize:       "size",
	KindComposite:  "composite",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// A Comparator is a total order over Records.
//
// Comparators are immutable values. The zero Comparator is None.
type Comparator struct {
	kind Kind
	dir  Direction

	// keys is the attribute key list of a KindAttributes
	// Comparator.
	keys []string

	// primary and secondary are the components of a
	// KindComposite Comparator.
	primary, secondary *Comparator
}

// None returns a Comparator that compares all Records as equal.
func None() Comparator {
	return Comparator{}
}

// ByAttributes returns a Comparator that compares Records by the
// values of the attributes named by keys, in order, using string
// comparison. An absent attribute compares as "", which sorts before
// any other value. It returns an error wrapping
// tkfmt.ErrInvalidArgument if keys is empty.
func ByAttributes(keys []string, dir Direction) (Comparator, error) {
	if len(keys) == 0 {
		return Comparator{}, fmt.Errorf("attribute comparator needs at least one key: %w", tkfmt.ErrInvalidArgument)
	}
	if !dir.valid() {
		return Comparator{}, fmt.Errorf("bad direction %d: %w", int(dir), tkfmt.ErrInvalidArgument)
	}
	return Comparator{kind: KindAttributes, dir: dir, keys: append([]string(nil), keys...)}, nil
}

// ByDuration returns a Comparator that compares Records by duration.
// Comparing a Record whose duration is undefined fails with an error
// wrapping tkfmt.ErrIllegalState. It panics if dir is not 0,
// Ascending, or Descending.
func ByDuration(dir Direction) Comparator {
	mustValid(dir)
	return Comparator{kind: KindDuration, dir: dir}
}

// BySize returns a Comparator that compares Records by size. A
// Record with no size has size 0. It panics if dir is not 0,
// Ascending, or Descending.
func BySize(dir Direction) Comparator {
	mustValid(dir)
	return Comparator{kind: KindSize, dir: dir}
}

func mustValid(dir Direction) {
	if !dir.valid() {
		panic(fmt.Sprintf("bad direction %d", int(dir)))
	}
}

// Then returns a Comparator that compares by primary and, where
// primary finds two Records equal, by secondary. Each component
// keeps its own direction.
func Then(primary, secondary Comparator) Comparator {
	return Comparator{kind: KindComposite, primary: &primary, secondary: &secondary}
}

// ByAttributesThenDuration compares by the attributes named by keys,
// then by duration, both in direction dir.
func ByAttributesThenDuration(keys []string, dir Direction) (Comparator, error) {
	a, err := ByAttributes(keys, dir)
	if err != nil {
		return Comparator{}, err
	}
	return Then(a, ByDuration(dir)), nil
}

// ByAttributesThenSize compares by the attributes named by keys, then
// by size, both in direction dir.
func ByAttributesThenSize(keys []string, dir Direction) (Comparator, error) {
	a, err := ByAttributes(keys, dir)
	if err != nil {
		return Comparator{}, err
	}
	return Then(a, BySize(dir)), nil
}

// ByDurationThenAttributes compares by duration, then by the
// attributes named by keys, both in direction dir.
func ByDurationThenAttributes(keys []string, dir Direction) (Comparator, error) {
	a, err := ByAttributes(keys, dir)
	if err != nil {
		return Comparator{}, err
	}
	return Then(ByDuration(dir), a), nil
}

// BySizeThenAttributes compares by size, then by the attributes named
// by keys, both in direction dir.
func BySizeThenAttributes(keys []string, dir Direction) (Comparator, error) {
	a, err := ByAttributes(keys, dir)
	if err != nil {
		return Comparator{}, err
	}
	return Then(BySize(dir), a), nil
}

// Kind returns the kind of c.
func (c Comparator) Kind() Kind { return c.kind }

// Direction returns the direction of c. For a composite Comparator,
// this is the direction of its primary component.
func (c Comparator) Direction() Direction {
	if c.kind == KindComposite {
		return c.primary.Direction()
	}
	if c.dir == 0 {
		return Ascending
	}
	return c.dir
}

// Keys returns the attribute keys c compares by, including those of
// a composite's components, without duplicates.
func (c Comparator) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	c.walk(func(c Comparator) {
		for _, k := range c.keys {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	})
	return keys
}

// walk calls f for each non-composite component of c, in order.
func (c Comparator) walk(f func(Comparator)) {
	if c.kind == KindComposite {
		c.primary.walk(f)
		c.secondary.walk(f)
		return
	}
	f(c)
}

// Compare returns -1, 0, or +1 depending on whether a sorts before,
// with, or after b. It returns an error if a or b lacks a value c
// needs, such as a duration.
func (c Comparator) Compare(a, b *tkfmt.Record) (int, error) {
	switch c.kind {
	case KindNone:
		return 0, nil

	case KindAttributes:
		for _, k := range c.keys {
			if r := strings.Compare(a.Get(k), b.Get(k)); r != 0 {
				return r * c.dir.sign(), nil
			}
		}
		return 0, nil

	case KindDuration:
		da, err := a.Duration()
		if err != nil {
			return 0, fmt.Errorf("comparing by duration: %w", err)
		}
		db, err := b.Duration()
		if err != nil {
			return 0, fmt.Errorf("comparing by duration: %w", err)
		}
		return cmp.Compare(da, db) * c.dir.sign(), nil

	case KindSize:
		return cmp.Compare(a.Size(), b.Size()) * c.dir.sign(), nil

	case KindComposite:
		r, err := c.primary.Compare(a, b)
		if err != nil || r != 0 {
			return r, err
		}
		return c.secondary.Compare(a, b)
	}
	panic(fmt.Sprintf("unknown comparator kind %v", c.kind))
}

// String returns a description of c suitable for a report heading,
// such as "sorted by duration (ascending)".
func (c Comparator) String() string {
	if c.kind == KindNone {
		return "in insertion order"
	}
	var parts []string
	c.walk(func(c Comparator) {
		if c.kind == KindNone {
			return
		}
		var what string
		switch c.kind {
		case KindAttributes:
			what = strings.Join(c.keys, ", ")
		default:
			what = c.kind.String()
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", what, c.dir))
	})
	if len(parts) == 0 {
		return "in insertion order"
	}
	return "sorted by " + strings.Join(parts, ", then by ")
}
