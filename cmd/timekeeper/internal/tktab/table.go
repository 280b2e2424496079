// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tktab

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/zchee/timekeeper/tkfmt"
	"github.com/zchee/timekeeper/tkunit"
)

// String returns a one-line description of s, such as
// "3 records, total 32:11, mean 10:43, ...".
func (s *Summary) String() string {
	parts := []string{fmt.Sprintf("%d records", s.Count)}
	if s.HasSize {
		parts = append(parts, "size "+tkunit.FormatSize(s.Size))
	}
	if s.Timed > 0 {
		f := tkunit.FormatDuration
		parts = append(parts, "total "+f(s.Total), "mean "+f(s.Mean), "median "+f(s.Median))
		if s.HasGeoMean {
			parts = append(parts, "geomean "+f(s.GeoMean))
		}
		parts = append(parts, "min "+f(s.Min), "max "+f(s.Max))
	}
	return strings.Join(parts, ", ")
}

// allWarnings returns the table and summary warnings of t.
func (t *Table) allWarnings() []error {
	return append(append([]error(nil), t.Warnings...), t.Summary.Warnings...)
}

// ToMarkdown renders r as a sequence of Markdown sections, one per
// table, each followed by its summary and any warnings.
func (r *Report) ToMarkdown(w io.Writer) error {
	bw := bufio.NewWriter(w)
	mw := tkfmt.NewWriter(bw)
	for _, t := range r.Tables {
		if err := mw.Write(t.Measurement, t.Description); err != nil {
			return err
		}
		fmt.Fprintf(bw, "\n%s\n", t.Summary.String())
		for i, warning := range t.allWarnings() {
			if i == 0 {
				bw.WriteByte('\n')
			}
			fmt.Fprintf(bw, "> warning: %s\n", warning)
		}
	}
	return bw.Flush()
}

// ToJSON renders r as a single JSON object of the form
//
//	{"measurements": [{"measurement": ..., "description": ...,
//	  "summary": ..., "warnings": [...]}]}
//
// Durations are in milliseconds, as in a Measurement's JSON form.
func (r *Report) ToJSON(w io.Writer) error {
	var a fastjson.Arena
	list := a.NewArray()
	for i, t := range r.Tables {
		o := a.NewObject()
		o.Set("measurement", t.Measurement.JSONValue(&a))
		o.Set("description", a.NewString(t.Description))
		o.Set("summary", t.Summary.jsonValue(&a))
		warnings := a.NewArray()
		for j, warning := range t.allWarnings() {
			warnings.SetArrayItem(j, a.NewString(warning.Error()))
		}
		o.Set("warnings", warnings)
		list.SetArrayItem(i, o)
	}
	root := a.NewObject()
	root.Set("measurements", list)
	_, err := w.Write(append(root.MarshalTo(nil), '\n'))
	return err
}

func (s *Summary) jsonValue(a *fastjson.Arena) *fastjson.Value {
	ms := func(d time.Duration) *fastjson.Value {
		return a.NewNumberString(strconv.FormatInt(d.Milliseconds(), 10))
	}
	o := a.NewObject()
	o.Set("count", a.NewNumberInt(s.Count))
	o.Set("timed", a.NewNumberInt(s.Timed))
	if s.Timed > 0 {
		o.Set("total", ms(s.Total))
		o.Set("mean", ms(s.Mean))
		o.Set("median", ms(s.Median))
		if s.HasGeoMean {
			o.Set("geomean", ms(s.GeoMean))
		}
		o.Set("min", ms(s.Min))
		o.Set("max", ms(s.Max))
	}
	if s.HasSize {
		o.Set("size", a.NewNumberString(strconv.FormatInt(s.Size, 10)))
	}
	return o
}

// ToCSV renders r to CSV (comma-separated values) format. Durations
// are written in seconds.
//
// Warnings are written in text format to the "warnings" Writer so as
// not to interrupt the regular format of the CSV table, and prefixed
// with spreadsheet-style cell references.
func (r *Report) ToCSV(w, warnings io.Writer) error {
	o := csv.NewWriter(w)
	row := 1
	for i, t := range r.Tables {
		if i > 0 {
			// Blank line between tables.
			o.Write([]string{""})
			row++
		}
		row += t.toCSV(o, row, warnings)
	}
	o.Flush()
	return o.Error()
}

// toCSV renders t to o. The references in warnings assume the table
// begins on row "startRow".
func (t *Table) toCSV(o *csv.Writer, startRow int, warnings io.Writer) (rowCount int) {
	m := t.Measurement
	cols := m.Columns()
	var hasSize, hasDur bool
	for _, r := range m.All() {
		hasSize = hasSize || r.HasSize()
		hasDur = hasDur || r.HasDuration()
	}
	sizeCol, durCol := -1, -1
	header := append([]string(nil), cols...)
	if hasSize {
		sizeCol = len(header)
		header = append(header, "size")
	}
	if hasDur {
		durCol = len(header)
		header = append(header, "duration")
	}

	var row []string
	clearTo := func(col int) {
		for len(row) < col {
			row = append(row, "")
		}
	}
	emit := func() {
		o.Write(row)
		row = row[:0]
		rowCount++
	}
	warn := func(msgs []error) {
		for _, msg := range msgs {
			fmt.Fprintf(warnings, "%s%d: %s\n", colName(len(row)), startRow+rowCount, msg)
		}
	}
	secs := func(d time.Duration) string {
		return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	}

	// Emit table heading.
	warn(t.Warnings)
	row = append(row, m.ID(), t.Description)
	emit()

	row = append(row, header...)
	emit()

	// Emit records.
	for _, r := range m.All() {
		for _, c := range cols {
			row = append(row, r.Get(c))
		}
		if hasSize {
			v := ""
			if r.HasSize() {
				v = strconv.FormatInt(r.Size(), 10)
			}
			row = append(row, v)
		}
		if hasDur {
			v := ""
			if d, err := r.Duration(); err == nil {
				v = secs(d)
			}
			row = append(row, v)
		}
		emit()
	}

	// Emit summary rows. The value of each goes in the column it
	// summarizes.
	s := &t.Summary
	row = append(row, "count", strconv.Itoa(s.Count))
	emit()
	if hasSize {
		row = append(row, "total size")
		clearTo(sizeCol)
		row = append(row, strconv.FormatInt(s.Size, 10))
		emit()
	}
	if s.Timed > 0 {
		stat := func(label string, d time.Duration) {
			row = append(row, label)
			clearTo(durCol)
			row = append(row, secs(d))
			emit()
		}
		stat("total", s.Total)
		stat("mean", s.Mean)
		stat("median", s.Median)
		row = append(row, "geomean")
		clearTo(durCol)
		warn(s.Warnings)
		gm := ""
		if s.HasGeoMean {
			gm = secs(s.GeoMean)
		}
		row = append(row, gm)
		emit()
		stat("min", s.Min)
		stat("max", s.Max)
	}
	return
}

// colName returns the spreadsheet name of the 0-based column x: "A",
// ..., "Z", "AA", and so on.
func colName(x int) string {
	var buf [10]byte
	pos := len(buf)
	for {
		pos--
		buf[pos] = 'A' + byte(x%26)
		x = x/26 - 1
		if x < 0 {
			break
		}
	}
	return string(buf[pos:])
}
