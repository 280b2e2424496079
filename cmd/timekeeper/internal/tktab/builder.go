// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tktab presents sorted measurements as report tables.
package tktab

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/aclements/go-moremath/stats"

	"github.com/zchee/timekeeper/tkfmt"
	"github.com/zchee/timekeeper/tkproc"
)

// A Builder collects Measurements into a Report.
type Builder struct {
	cfg tkproc.TableConfig
	ms  tkfmt.Measurements
}

// NewBuilder creates a new Builder that orders the records of every
// Measurement as cfg describes.
func NewBuilder(cfg tkproc.TableConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Add adds m to the Builder. m must not be modified until ToReport
// returns.
func (b *Builder) Add(m *tkfmt.Measurement) {
	b.ms.Add(m)
}

// Report is a sequence of report tables, one per Measurement, in the
// order the Measurements were added.
type Report struct {
	Tables []*Table
}

// A Table is one sorted Measurement and its summary.
type Table struct {
	// Measurement is the sorted copy of the source Measurement.
	Measurement *tkfmt.Measurement

	// Description describes the order of the records.
	Description string

	// Summary summarizes the records of Measurement.
	Summary Summary

	// Warnings lists non-fatal problems with this table.
	Warnings []error
}

// Summary gives aggregate statistics over a Measurement's records.
// Duration statistics cover only records with a defined duration.
type Summary struct {
	// Count is the number of records.
	Count int

	// Timed is the number of records with a duration. The
	// duration statistics are meaningful only if Timed > 0.
	Timed int

	Total, Mean, Median, Min, Max time.Duration

	// GeoMean is the geometric mean duration. It is valid only
	// if HasGeoMean is set, which requires every duration to be
	// positive.
	GeoMean    time.Duration
	HasGeoMean bool

	// Size is the total size of the records that have one.
	Size    int64
	HasSize bool

	// Warnings is a list of warnings for this summary.
	Warnings []error
}

// ToReport sorts every Measurement added to the Builder and
// summarizes it. It fails if any Measurement cannot be sorted.
func (b *Builder) ToReport() (*Report, error) {
	tables := make([]*Table, b.ms.Len())
	errs := make([]error, b.ms.Len())

	// Measurements are independent and only read, so sort them in
	// parallel with a simple concurrency limit.
	limit := make(chan struct{}, 2*runtime.GOMAXPROCS(-1))
	var wg sync.WaitGroup
	i := 0
	for m := range b.ms.All() {
		idx := i
		limit <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			tables[idx], errs[idx] = b.toTable(m)
			<-limit
		}()
		i++
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Report{Tables: tables}, nil
}

func (b *Builder) toTable(m *tkfmt.Measurement) (*Table, error) {
	t, err := tkproc.NewTable(m, b.cfg)
	if err != nil {
		return nil, err
	}
	sorted, err := t.SortedMeasurement()
	if err != nil {
		return nil, err
	}
	table := &Table{
		Measurement: sorted,
		Description: t.Description(),
		Warnings:    t.Warnings(),
	}
	summarize(sorted, &table.Summary)
	return table, nil
}

func summarize(m *tkfmt.Measurement, s *Summary) {
	var secs []float64
	for _, r := range m.All() {
		s.Count++
		if r.HasSize() {
			s.HasSize = true
			s.Size += r.Size()
		}
		if d, err := r.Duration(); err == nil {
			secs = append(secs, d.Seconds())
		}
	}
	s.Timed = len(secs)
	if s.Timed == 0 {
		return
	}
	if s.Timed < s.Count {
		s.Warnings = append(s.Warnings, fmt.Errorf("%d of %d records have no duration", s.Count-s.Timed, s.Count))
	}

	sample := stats.Sample{Xs: secs}
	lo, hi := sample.Bounds()
	s.Total = seconds(sample.Sum())
	s.Mean = seconds(stats.Mean(secs))
	s.Median = seconds(sample.Percentile(0.5))
	s.Min, s.Max = seconds(lo), seconds(hi)

	if lo > 0 {
		s.GeoMean = seconds(stats.GeoMean(secs))
		s.HasGeoMean = true
	} else {
		s.Warnings = append(s.Warnings, errors.New("geomean undefined for non-positive durations"))
	}
}

// seconds converts x seconds to a Duration rounded to the
// millisecond.
func seconds(x float64) time.Duration {
	return time.Duration(math.Round(x*1e3)) * time.Millisecond
}
