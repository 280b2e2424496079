// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkproc

import (
	"math/rand"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchee/timekeeper/tkfmt"
)

// m1 returns the measurement from the reference scenario.
func m1(t *testing.T) *tkfmt.Measurement {
	t.Helper()
	m, err := tkfmt.NewMeasurement("M1", []string{"case", "Suite"})
	require.NoError(t, err)
	m.Add(rec(25*time.Minute+17*time.Second, -1, "case", "Y1", "Suite", "TS2"))
	m.Add(rec(6*time.Minute+11*time.Second, -1, "case", "Y2", "Suite", "TS2"))
	m.Add(rec(43*time.Second, -1, "case", "Y3", "Suite", "TS2"))
	return m
}

func values(m *tkfmt.Measurement, key string) []string {
	var out []string
	for _, r := range m.All() {
		out = append(out, r.Get(key))
	}
	return out
}

func sorted(t *testing.T, m *tkfmt.Measurement, cfg TableConfig) *tkfmt.Measurement {
	t.Helper()
	tab, err := NewTable(m, cfg)
	require.NoError(t, err)
	out, err := tab.SortedMeasurement()
	require.NoError(t, err)
	return out
}

func TestTableScenario(t *testing.T) {
	m := m1(t)

	byDur := sorted(t, m, TableConfig{Mode: SortByDuration, Direction: Ascending})
	assert.Equal(t, []string{"Y3", "Y2", "Y1"}, values(byDur, "case"))

	byCase := sorted(t, m, TableConfig{Mode: SortByAttributes, Keys: []string{"case"}, Direction: Descending})
	assert.Equal(t, []string{"Y3", "Y2", "Y1"}, values(byCase, "case"))

	none := sorted(t, m, TableConfig{})
	assert.Equal(t, []string{"Y1", "Y2", "Y3"}, values(none, "case"))

	// The source is never reordered.
	assert.Equal(t, []string{"Y1", "Y2", "Y3"}, values(m, "case"))
}

func TestTableStartOnly(t *testing.T) {
	m := m1(t)
	r := tkfmt.NewRecord("case", "Y4", "Suite", "TS2")
	r.SetStartAt(time.Now())
	m.Add(r)

	tab, err := NewTable(m, TableConfig{Mode: SortByDuration})
	require.NoError(t, err)
	_, err = tab.SortedMeasurement()
	assert.ErrorIs(t, err, tkfmt.ErrIllegalState)

	// Even alone, the record is checked.
	alone, err := tkfmt.NewMeasurement("M2", []string{"case"})
	require.NoError(t, err)
	alone.Add(r.Clone())
	tab, err = NewTable(alone, TableConfig{Mode: SortByDuration})
	require.NoError(t, err)
	_, err = tab.SortedMeasurement()
	assert.ErrorIs(t, err, tkfmt.ErrIllegalState)

	// Without sorting, durations are not needed.
	tab, err = NewTable(m, TableConfig{Mode: SortNone})
	require.NoError(t, err)
	out, err := tab.SortedMeasurement()
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
}

func TestTableClones(t *testing.T) {
	m := m1(t)
	out := sorted(t, m, TableConfig{Mode: SortByDuration})

	assert.Equal(t, m.ID(), out.ID())
	assert.Equal(t, m.Columns(), out.Columns())
	require.Equal(t, m.Len(), out.Len())

	// Same multiset of records, none shared.
	for _, r := range out.All() {
		var match *tkfmt.Record
		for _, s := range m.All() {
			assert.NotSame(t, s, r)
			if s.Get("case") == r.Get("case") {
				match = s
			}
		}
		require.NotNil(t, match)
		assert.Equal(t, match.Attrs(), r.Attrs())
	}

	out.Get(0).SetDuration(time.Hour)
	d, err := m.Get(2).Duration()
	require.NoError(t, err)
	assert.Equal(t, 43*time.Second, d)
}

func TestTableDeterministic(t *testing.T) {
	m := m1(t)
	tab, err := NewTable(m, TableConfig{Mode: SortByAttributesThenDuration, Keys: []string{"Suite"}})
	require.NoError(t, err)
	a, err := tab.SortedMeasurement()
	require.NoError(t, err)
	b, err := tab.SortedMeasurement()
	require.NoError(t, err)
	assert.Equal(t, values(a, "case"), values(b, "case"))
	assert.Equal(t, []string{"Y3", "Y2", "Y1"}, values(a, "case"))
}

func TestTableStable(t *testing.T) {
	m, err := tkfmt.NewMeasurement("M", []string{"group", "seq"})
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(1))
	groups := []string{"a", "b", "c"}
	for i := 0; i < 200; i++ {
		m.Add(rec(-1, -1, "group", groups[rnd.Intn(len(groups))], "seq", strconv.Itoa(i)))
	}
	for _, dir := range []Direction{Ascending, Descending} {
		out := sorted(t, m, TableConfig{Mode: SortByAttributes, Keys: []string{"group"}, Direction: dir})
		// Within each group, insertion order is kept.
		for _, g := range groups {
			var want, got []string
			for _, r := range m.All() {
				if r.Get("group") == g {
					want = append(want, r.Get("seq"))
				}
			}
			for _, r := range out.All() {
				if r.Get("group") == g {
					got = append(got, r.Get("seq"))
				}
			}
			assert.Equal(t, want, got, "group %s %s", g, dir)
		}
	}
}

func TestTableDescendingIsReverse(t *testing.T) {
	m, err := tkfmt.NewMeasurement("M", []string{"case", "Suite"})
	require.NoError(t, err)
	for _, c := range []string{"Y5", "Y1", "Y4", "Y2", "Y3"} {
		m.Add(rec(-1, -1, "case", c, "Suite", "TS"+c))
	}
	asc := values(sorted(t, m, TableConfig{Mode: SortByAttributes, Direction: Ascending}), "case")
	desc := values(sorted(t, m, TableConfig{Mode: SortByAttributes, Direction: Descending}), "case")
	slices.Reverse(asc)
	assert.Equal(t, asc, desc)
}

func TestTableComposite(t *testing.T) {
	m, err := tkfmt.NewMeasurement("M", []string{"case"})
	require.NoError(t, err)
	m.Add(rec(30*time.Second, -1, "case", "B", "id", "1"))
	m.Add(rec(10*time.Second, -1, "case", "A", "id", "2"))
	m.Add(rec(5*time.Second, -1, "case", "B", "id", "3"))
	m.Add(rec(50*time.Second, -1, "case", "A", "id", "4"))

	out := sorted(t, m, TableConfig{Mode: SortByAttributesThenDuration, Keys: []string{"case"}})
	assert.Equal(t, []string{"2", "4", "3", "1"}, values(out, "id"))

	out = sorted(t, m, TableConfig{Mode: SortByDurationThenAttributes, Keys: []string{"case"}, Direction: Descending})
	assert.Equal(t, []string{"4", "1", "2", "3"}, values(out, "id"))

	m.Get(0).SetSize(7)
	out = sorted(t, m, TableConfig{Mode: SortBySizeThenAttributes, Keys: []string{"case"}})
	assert.Equal(t, []string{"2", "4", "3", "1"}, values(out, "id"))
	out = sorted(t, m, TableConfig{Mode: SortByAttributesThenSize, Keys: []string{"case"}, Direction: Descending})
	assert.Equal(t, []string{"1", "3", "2", "4"}, values(out, "id"))
}

func TestTableConfigErrors(t *testing.T) {
	m := m1(t)
	check := func(cfg TableConfig) {
		t.Helper()
		tab, err := NewTable(m, cfg)
		assert.ErrorIs(t, err, tkfmt.ErrInvalidArgument)
		assert.Nil(t, tab)
	}
	check(TableConfig{Mode: SortMode(99)})
	check(TableConfig{Mode: SortByDuration, Direction: 2})
	check(TableConfig{Mode: SortByDuration, Keys: []string{"case"}})
	check(TableConfig{Mode: SortByAttributes, Keys: []string{""}})

	_, err := NewTable(nil, TableConfig{})
	assert.ErrorIs(t, err, tkfmt.ErrInvalidArgument)
	_, err = NewTableWithComparator(nil, None())
	assert.ErrorIs(t, err, tkfmt.ErrInvalidArgument)
}

func TestTableWarnings(t *testing.T) {
	m := m1(t)
	tab, err := NewTable(m, TableConfig{Mode: SortByAttributes, Keys: []string{"case", "Mode"}})
	require.NoError(t, err)
	require.Len(t, tab.Warnings(), 1)
	assert.Contains(t, tab.Warnings()[0].Error(), `"Mode"`)

	// Still sorts; the missing key compares equal.
	out, err := tab.SortedMeasurement()
	require.NoError(t, err)
	assert.Equal(t, []string{"Y1", "Y2", "Y3"}, values(out, "case"))

	tab, err = NewTable(m, TableConfig{Mode: SortByAttributes})
	require.NoError(t, err)
	assert.Empty(t, tab.Warnings())
}

func TestTableAccessors(t *testing.T) {
	m := m1(t)
	tab, err := NewTable(m, TableConfig{Mode: SortByDuration, Direction: Descending})
	require.NoError(t, err)
	assert.Same(t, m, tab.Measurement())
	assert.Equal(t, KindDuration, tab.Comparator().Kind())
	assert.True(t, tab.RequireSorting())
	assert.Equal(t, "sorted by duration (descending)", tab.Description())

	tab, err = NewTableWithComparator(m, None())
	require.NoError(t, err)
	assert.False(t, tab.RequireSorting())
}

func TestSortModeNames(t *testing.T) {
	for i := range sortModeNames {
		mode := SortMode(i)
		got, err := ParseSortMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}
	_, err := ParseSortMode("fastest")
	assert.ErrorIs(t, err, tkfmt.ErrInvalidArgument)
	assert.Equal(t, "SortMode(42)", SortMode(42).String())
}
