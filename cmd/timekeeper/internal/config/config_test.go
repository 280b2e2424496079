// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchee/timekeeper/cmd/timekeeper/internal/config"
	"github.com/zchee/timekeeper/tkfmt"
	"github.com/zchee/timekeeper/tkproc"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("sort", config.DefaultSort, "")
	fs.String("format", config.DefaultFormat, "")
	fs.StringP("output", "o", "", "")
	fs.String("log-level", config.DefaultLogLevel, "")
	fs.StringSlice("columns", nil, "")
	return fs
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("", newFlags())
	require.NoError(t, err)

	assert.Equal(t, tkproc.TableConfig{Mode: tkproc.SortNone}, cfg.Sort)
	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, "", cfg.Output)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Columns)

	// Flags are optional.
	cfg, err = config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Format)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "timekeeper.toml", `
sort = "attributes+duration:case@desc"
format = "json"
output = "report.json.zst"
log_level = "debug"
columns = ["URL", "size", "duration"]
`)
	cfg, err := config.Load(path, newFlags())
	require.NoError(t, err)

	assert.Equal(t, tkproc.TableConfig{
		Mode:      tkproc.SortByAttributesThenDuration,
		Keys:      []string{"case"},
		Direction: tkproc.Descending,
	}, cfg.Sort)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "report.json.zst", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"URL", "size", "duration"}, cfg.Columns)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "timekeeper.yaml", "sort: duration@asc\nformat: CSV\n")
	cfg, err := config.Load(path, newFlags())
	require.NoError(t, err)
	assert.Equal(t, tkproc.SortByDuration, cfg.Sort.Mode)
	assert.Equal(t, tkproc.Ascending, cfg.Sort.Direction)
	assert.Equal(t, "csv", cfg.Format)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "timekeeper.toml", `
sort = "size"
format = "json"
log_level = "info"
`)
	// Environment beats the file.
	t.Setenv("TIMEKEEPER_FORMAT", "csv")
	t.Setenv("TIMEKEEPER_LOG_LEVEL", "error")

	// Flags beat everything.
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--log-level", "debug", "--columns", "a,b"}))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, tkproc.SortBySize, cfg.Sort.Mode)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"a", "b"}, cfg.Columns)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	assert.Error(t, err)

	path := writeConfig(t, "bad.toml", "This is not a valid TOML file\n")
	_, err = config.Load(path, nil)
	assert.Error(t, err)

	check := func(args ...string) error {
		t.Helper()
		fs := newFlags()
		require.NoError(t, fs.Parse(args))
		_, err := config.Load("", fs)
		assert.Error(t, err, "args %v", args)
		return err
	}
	err = check("--sort", "fastest")
	assert.ErrorIs(t, err, tkfmt.ErrInvalidArgument)
	check("--format", "html")
	check("--log-level", "loud")
}
