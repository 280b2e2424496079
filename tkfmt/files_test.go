// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkfmt

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, write func(w io.Writer)) {
	t.Helper()
	f, err := Create(path)
	require.NoError(t, err)
	write(f)
	require.NoError(t, f.Close())
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()

	m, err := NewMeasurement("M1", []string{"case"})
	require.NoError(t, err)
	for _, c := range []string{"Y1", "Y2"} {
		r := NewRecord("case", c)
		r.SetDuration(time.Second)
		m.Add(r)
	}

	jsonPath := filepath.Join(dir, "m1.json.zst")
	writeFile(t, jsonPath, func(w io.Writer) {
		b, err := m.MarshalJSON()
		require.NoError(t, err)
		_, err = w.Write(b)
		require.NoError(t, err)
	})
	mdPath := filepath.Join(dir, "m1.md.zst")
	writeFile(t, mdPath, func(w io.Writer) {
		require.NoError(t, NewWriter(w).Write(m, ""))
	})
	untitled := filepath.Join(dir, "untitled.md")
	require.NoError(t, os.WriteFile(untitled, []byte("| case | duration |\n|---|---|\n| Y9 | 00:01 |\n"), 0o666))
	bad := filepath.Join(dir, "m.txt")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o666))

	f := &Files{
		Paths:       []string{jsonPath, "renamed=" + mdPath, bad, "cols=" + untitled},
		AllowLabels: true,
	}

	var ids []string
	for f.Scan() {
		got, err := f.Measurement()
		if err != nil {
			ids = append(ids, "error")
			assert.Contains(t, err.Error(), "unknown measurement format")
			continue
		}
		ids = append(ids, got.ID())
	}
	require.NoError(t, f.Err())
	assert.Equal(t, []string{"M1", "renamed", "error", "cols"}, ids)

	// Untitled tables without a label are named after their file.
	f = &Files{Paths: []string{untitled}}
	require.True(t, f.Scan())
	got, err := f.Measurement()
	require.NoError(t, err)
	assert.Equal(t, "untitled", got.ID())
	assert.Equal(t, "Y9", got.Get(0).Get("case"))
	assert.False(t, f.Scan())
}

func TestFilesJSONLabel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"M1","columnNames":["case"],"records":[{"attributes":{"case":"Y1"},"duration":43000}]}`), 0o666))

	f := &Files{Paths: []string{"base=" + path}, AllowLabels: true}
	require.True(t, f.Scan())
	m, err := f.Measurement()
	require.NoError(t, err)
	assert.Equal(t, "base", m.ID())
	require.Equal(t, 1, m.Len())
	d, err := m.Get(0).Duration()
	require.NoError(t, err)
	assert.Equal(t, 43*time.Second, d)
}

func TestFilesMissing(t *testing.T) {
	f := &Files{Paths: []string{filepath.Join(t.TempDir(), "nope.json"), "never-read.json"}}
	assert.False(t, f.Scan())
	assert.Error(t, f.Err())
	assert.False(t, f.Scan())
}
