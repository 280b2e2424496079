// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkfmt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/zchee/timekeeper/tkunit"
)

// A Reader reads Records from a Markdown table.
//
// Its API is modeled on bufio.Scanner. Each table row becomes one
// Record. Columns named "size" and "duration" (in any case) set the
// Record's size and duration, a column named "graph" is ignored, and
// all other columns become attributes.
//
// The column names come from a header row, which is a row followed
// by a "|---|" separator row. Tables without a header must be given
// their columns by Reset or NewReader. Lines that are not table rows
// are ignored, except that the first "##" heading is remembered as
// the table's title.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	lineNum  int
	err      error // current I/O error

	columns []string
	fixed   bool // columns were supplied by the caller
	title   string

	// held is the most recent table row, which is not known to
	// be data until the following line has been read.
	held     []string
	heldLine int

	record    *Record
	recordErr error
}

var errNoRecord = errors.New("Reader.Scan has not been called")

// NewReader constructs a reader to parse a Markdown table from r.
// fileName is used in error messages; it is purely diagnostic. If
// columns is non-empty, it names the table's columns and any header
// row in the input is skipped.
func NewReader(r io.Reader, fileName string, columns ...string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, columns...)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string, columns ...string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.err = nil
	r.columns = append(r.columns[:0], columns...)
	r.fixed = len(columns) > 0
	r.title = ""
	r.held = nil
	r.heldLine = 0
	r.record = nil
	r.recordErr = errNoRecord
}

var separatorRe = regexp.MustCompile(`^:?-+:?$`)

// Scan advances the reader to the next row and reports whether a row
// was read. The caller should use the Record method to get the
// Record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.s.Text())
		cells, ok := splitRow(line)
		if !ok {
			if r.title == "" && strings.HasPrefix(line, "## ") {
				r.title = strings.TrimSpace(line[len("## "):])
			}
			if r.held != nil {
				// A table ended. The held row was data.
				r.emitHeld()
				return true
			}
			continue
		}
		if isSeparator(cells) {
			if r.held != nil {
				if !r.fixed {
					r.columns = r.held
				}
				r.held = nil
			}
			continue
		}
		if r.held != nil {
			r.emitHeld()
			r.held, r.heldLine = cells, r.lineNum
			return true
		}
		r.held, r.heldLine = cells, r.lineNum
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.lineNum, err)
		return false
	}
	if r.held != nil {
		r.emitHeld()
		return true
	}
	return false
}

func (r *Reader) emitHeld() {
	r.record, r.recordErr = r.parseRow(r.held, r.heldLine)
	r.held = nil
}

// splitRow splits a Markdown table row into trimmed cells. A `\|`
// within a cell is an escaped pipe.
func splitRow(line string) ([]string, bool) {
	if !strings.HasPrefix(line, "|") {
		return nil, false
	}
	line = line[1:]
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}
	var cells []string
	var cell strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells, true
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if !separatorRe.MatchString(c) {
			return false
		}
	}
	return true
}

func (r *Reader) parseRow(cells []string, line int) (*Record, error) {
	if len(r.columns) == 0 {
		return nil, &SyntaxError{r.fileName, line, "table row before header"}
	}
	if len(cells) != len(r.columns) {
		return nil, &SyntaxError{r.fileName, line, fmt.Sprintf("got %d cells, want %d", len(cells), len(r.columns))}
	}
	var b RecordBuilder
	var size, dur string
	for i, col := range r.columns {
		switch strings.ToLower(col) {
		case "size":
			size = cells[i]
		case "duration":
			dur = cells[i]
		case "graph":
			// Derived from duration.
		default:
			b.Attr(col, cells[i])
		}
	}
	rec := b.Build()
	if size != "" {
		n, err := tkunit.ParseSize(size)
		if err != nil {
			return nil, &SyntaxError{r.fileName, line, err.Error()}
		}
		rec.SetSize(n)
	}
	if dur != "" {
		d, err := tkunit.ParseDuration(dur)
		if err != nil {
			return nil, &SyntaxError{r.fileName, line, err.Error()}
		}
		rec.SetDuration(d)
	}
	return rec, nil
}

// Record returns the last Record read, or an error if the row was
// malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan. Each Record is newly allocated and may be retained.
func (r *Reader) Record() (*Record, error) {
	if r.recordErr != nil {
		return nil, r.recordErr
	}
	return r.record, nil
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

// Columns returns the names of the attribute columns of the table
// read so far, leaving out size, duration and graph.
func (r *Reader) Columns() []string {
	var out []string
	for _, c := range r.columns {
		switch strings.ToLower(c) {
		case "size", "duration", "graph":
			continue
		}
		out = append(out, c)
	}
	return out
}

// Title returns the first "##" heading read so far, or "".
func (r *Reader) Title() string {
	return r.title
}

// ReadMeasurement reads a whole Markdown table from ior into a new
// Measurement. If id is empty, the table's title is used. The first
// malformed row is returned as an error.
func ReadMeasurement(ior io.Reader, id, fileName string, columns ...string) (*Measurement, error) {
	return readMeasurement(ior, id, "", fileName, columns)
}

// readMeasurement is ReadMeasurement with fallbackID used when the
// table has neither an id nor a title.
func readMeasurement(ior io.Reader, id, fallbackID, fileName string, columns []string) (*Measurement, error) {
	r := NewReader(ior, fileName, columns...)
	var recs []*Record
	for r.Scan() {
		rec, err := r.Record()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		id = r.Title()
	}
	if id == "" {
		id = fallbackID
	}
	m, err := NewMeasurement(id, r.Columns())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.fileName, err)
	}
	m.AddAll(recs)
	return m, nil
}
