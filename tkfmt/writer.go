// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkfmt

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/zchee/timekeeper/tkunit"
)

// A Writer writes Measurements as Markdown tables.
//
// Each Measurement is written as a "## id" heading, an optional
// description line, and a table with one row per Record in the
// Measurement's order. The table has one column per column name,
// followed by "size" if any Record has a size, and "duration" and
// "graph" if any Record has a duration. Missing values are written
// as empty cells. The output can be read back by Reader.
type Writer struct {
	w     io.Writer
	buf   bytes.Buffer
	first bool
}

// NewWriter returns a writer that writes Markdown tables to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, first: true}
}

// graphStep is the duration represented by one "#" in the graph
// column.
const graphStep = 10 * time.Second

// Write writes m to w, with description under its heading if it is
// not empty.
func (w *Writer) Write(m *Measurement, description string) error {
	if !w.first {
		w.buf.WriteByte('\n')
	}
	w.first = false

	w.buf.WriteString("## ")
	w.buf.WriteString(m.ID())
	w.buf.WriteString("\n\n")
	if description != "" {
		w.buf.WriteString(description)
		w.buf.WriteString("\n\n")
	}

	var hasSize, hasDur bool
	for _, r := range m.All() {
		hasSize = hasSize || r.HasSize()
		hasDur = hasDur || r.HasDuration()
	}

	cols := m.Columns()
	header := make([]string, 0, len(cols)+3)
	align := make([]string, 0, len(cols)+3)
	for _, c := range cols {
		header = append(header, c)
		align = append(align, ":---")
	}
	if hasSize {
		header = append(header, "size")
		align = append(align, "---:")
	}
	if hasDur {
		header = append(header, "duration", "graph")
		align = append(align, "---:", ":---")
	}
	w.row(header)
	w.row(align)

	cells := make([]string, 0, len(header))
	for _, r := range m.All() {
		cells = cells[:0]
		for _, c := range cols {
			cells = append(cells, r.Get(c))
		}
		if hasSize {
			s := ""
			if r.HasSize() {
				s = tkunit.FormatSize(r.Size())
			}
			cells = append(cells, s)
		}
		if hasDur {
			dur, graph := "", ""
			if d, err := r.Duration(); err == nil {
				dur = tkunit.FormatDuration(d)
				graph = Graph(d)
			}
			cells = append(cells, dur, graph)
		}
		w.row(cells)
	}

	// Flush the buffer out to the io.Writer. Write to the buffer
	// can't fail, so we only have to check if this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *Writer) row(cells []string) {
	w.buf.WriteByte('|')
	for _, c := range cells {
		w.buf.WriteByte(' ')
		w.buf.WriteString(strings.ReplaceAll(c, "|", `\|`))
		w.buf.WriteString(" |")
	}
	w.buf.WriteByte('\n')
}

// Graph returns a bar for d with one "#" for every started ten
// seconds, quoted as Markdown code. It returns "" if d is not
// positive.
func Graph(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	n := int((d + graphStep - 1) / graphStep)
	return "`" + strings.Repeat("#", n) + "`"
}
