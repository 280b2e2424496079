// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("id", "M1").Msg("read measurement")
	log.Warn().Err(errors.New("bad row")).Msg("skipping input")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INF read measurement id=M1")
	assert.Contains(t, out, "WRN skipping input error=\"bad row\"")
	assert.NotContains(t, out, "\x1b[", "no color when not a terminal")
}

func TestParseLevel(t *testing.T) {
	check := func(in string, want zerolog.Level) {
		t.Helper()
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	check("", zerolog.WarnLevel)
	check("debug", zerolog.DebugLevel)
	check("ERROR", zerolog.ErrorLevel)

	_, err := ParseLevel("loud")
	assert.Error(t, err)
	_, err = New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}
