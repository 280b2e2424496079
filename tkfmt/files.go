// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkfmt

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// A Files reads Measurements from a sequence of files.
//
// Each file holds one Measurement, either as JSON (".json") or as a
// Markdown table (".md", ".markdown"). Either may be compressed with
// zstd, indicated by a further ".zst" extension.
//
// This is a convenience wrapper for the common case of reading
// measurement files named on a command line. Its API is modeled on
// bufio.Scanner.
type Files struct {
	// Paths is the list of file names to read.
	Paths []string

	// AllowLabels allows a path to be given as "label=path". The
	// label then becomes the Measurement's ID.
	AllowLabels bool

	// Columns names the columns of Markdown tables that have no
	// header row.
	Columns []string

	pos  int
	m    *Measurement
	mErr error
	err  error
}

// Scan advances to the next file and reports whether a file was
// read. The caller should use the Measurement method to get it. If
// Scan runs out of files or fails to open a file, it returns false
// and the caller should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil || f.pos >= len(f.Paths) {
		return false
	}
	path := f.Paths[f.pos]
	f.pos++

	label := ""
	if f.AllowLabels {
		if l, p, ok := strings.Cut(path, "="); ok {
			label, path = l, p
		}
	}

	data, err := readFile(path)
	if err != nil {
		f.err = err
		return false
	}
	f.m, f.mErr = f.decode(path, label, data)
	return true
}

func (f *Files) decode(path, label string, data []byte) (*Measurement, error) {
	name := strings.TrimSuffix(path, ".zst")
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".json":
		var m Measurement
		if err := m.UnmarshalJSON(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if label == "" || label == m.ID() {
			return &m, nil
		}
		m2, err := NewMeasurement(label, m.Columns())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		m2.AddAll(m.records)
		return m2, nil
	case ".md", ".markdown":
		// Untitled tables are named after their file.
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		return readMeasurement(bytes.NewReader(data), label, base, path, f.Columns)
	}
	return nil, fmt.Errorf("%s: unknown measurement format %q", path, ext)
}

// Measurement returns the Measurement read from the last file, or
// an error if the file could not be decoded. Decoding errors are
// non-fatal, so the caller can continue to call Scan.
func (f *Files) Measurement() (*Measurement, error) {
	return f.m, f.mErr
}

// Err returns the first error that stopped Scan.
func (f *Files) Err() error {
	return f.err
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Create creates the named file for writing. If path ends in ".zst",
// everything written is compressed with zstd. The caller must Close
// the result to flush it.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return file, nil
	}
	enc, err := zstd.NewWriter(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &zstdFile{enc, file}, nil
}

type zstdFile struct {
	*zstd.Encoder
	file *os.File
}

func (z *zstdFile) Close() error {
	err := z.Encoder.Close()
	if err2 := z.file.Close(); err == nil {
		err = err2
	}
	return err
}
