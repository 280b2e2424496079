// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads timekeeper's settings.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional TOML or YAML config file, TIMEKEEPER_* environment
// variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zchee/timekeeper/tkproc"
)

const (
	DefaultSort     = "none"
	DefaultFormat   = "markdown"
	DefaultLogLevel = "warn"

	// EnvPrefix prefixes the environment variables read by Load,
	// as in TIMEKEEPER_SORT or TIMEKEEPER_LOG_LEVEL.
	EnvPrefix = "TIMEKEEPER"
)

// Formats lists the report formats.
var Formats = []string{"markdown", "json", "csv"}

// Config is the validated configuration of a timekeeper run.
type Config struct {
	// Sort orders the records of every measurement.
	Sort tkproc.TableConfig

	// Format is one of Formats.
	Format string

	// Output is the file to write the report to, or "" for
	// standard output.
	Output string

	// LogLevel is a zerolog level name.
	LogLevel string

	// Columns names the columns of Markdown inputs that have no
	// header row.
	Columns []string
}

// settings is the raw form of Config as viper decodes it.
type settings struct {
	Sort     string   `mapstructure:"sort"`
	Format   string   `mapstructure:"format"`
	Output   string   `mapstructure:"output"`
	LogLevel string   `mapstructure:"log_level"`
	Columns  []string `mapstructure:"columns"`
}

// flagKeys maps flag names to setting keys.
var flagKeys = map[string]string{
	"sort":      "sort",
	"format":    "format",
	"output":    "output",
	"log-level": "log_level",
	"columns":   "columns",
}

// Load reads the configuration. If path is not empty, the config
// file at path must exist; its type is taken from its extension.
// Flags in flags that were set on the command line override all
// other sources. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("sort", DefaultSort)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("output", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("columns", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return s.validate()
}

func (s settings) validate() (*Config, error) {
	sort, err := tkproc.ParseTableConfig(s.Sort)
	if err != nil {
		return nil, fmt.Errorf("sort: %w", err)
	}
	if err := sort.Validate(); err != nil {
		return nil, fmt.Errorf("sort: %w", err)
	}

	format := strings.ToLower(s.Format)
	ok := false
	for _, f := range Formats {
		ok = ok || f == format
	}
	if !ok {
		return nil, fmt.Errorf("format must be one of %s, not %q", strings.Join(Formats, ", "), s.Format)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var cols []string
	for _, c := range s.Columns {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}

	return &Config{
		Sort:     sort,
		Format:   format,
		Output:   s.Output,
		LogLevel: strings.ToLower(s.LogLevel),
		Columns:  cols,
	}, nil
}
