// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Timekeeper sorts timed measurements and reports them as Markdown,
// JSON, or CSV tables.
//
// Usage:
//
//	timekeeper [flags] inputs...
//
// Each input file holds one measurement: a named table of records,
// each tagged with attributes and carrying a duration, a size, or
// both. Files ending in ".json" use the JSON form written by
// timekeeper --format json; files ending in ".md" hold a Markdown
// table, such as the output of timekeeper --format markdown. Either
// may be compressed with zstd and given a further ".zst" extension.
//
// # Example
//
// The file nightly.md contains:
//
//	## M1
//
//	| case | Suite | duration |
//	| ---- | ----- | -------: |
//	| Y1   | TS2   | 25:17    |
//	| Y2   | TS2   | 6:11     |
//	| Y3   | TS2   | 43       |
//
// Sorting it by duration gives:
//
//	$ timekeeper --sort duration nightly.md
//	## M1
//
//	sorted by duration (ascending)
//
//	| case | Suite | duration | graph |
//	| :--- | :--- | ---: | :--- |
//	| Y3 | TS2 | 00:43 | `#####` |
//	| Y2 | TS2 | 06:11 | `######################################` |
//	| Y1 | TS2 | 25:17 | `####...` |
//
//	3 records, total 32:11, mean 10:43, median 06:11, geomean 04:49, min 00:43, max 25:17
//
// Durations in Markdown tables may be given as seconds ("43"),
// "mm:ss", "h:mm:ss", or Go syntax ("6m11s"). Sizes may use
// thousands separators ("736,042") or unit prefixes ("2Ki"). A
// column named "graph" is ignored on input; on output it shows one
// "#" per started ten seconds.
//
// A Markdown table without a header row needs its columns named by
// --columns, as in
//
//	$ timekeeper --columns URL,size,duration,graph urls.md
//
// An input can be labeled "label=path". The label replaces the
// measurement's name in the report.
//
// # Sorting
//
// The --sort flag takes an expression of the form
//
//	mode[:key,key...][@direction]
//
// where mode is one of
//
//	none                 keep the input order (the default)
//	attributes           by attribute values, in key order
//	duration             by duration
//	size                 by size
//	attributes+duration  by attributes, then duration
//	attributes+size      by attributes, then size
//	duration+attributes  by duration, then attributes
//	size+attributes      by size, then attributes
//
// The keys name the attributes to compare, and default to all of a
// measurement's columns. Direction is "asc" (the default) or "desc".
// Attribute values compare as strings, with a missing attribute
// sorting first. Sorting is stable, so records that compare equal
// keep their input order. Sorting by duration fails if any record has
// no duration; a record with no size has size zero.
//
// # Configuration
//
// Flags may also be set in a TOML or YAML file named by --config, or
// through environment variables named TIMEKEEPER_ followed by the
// flag name in upper case, with "-" replaced by "_". Flags take
// precedence over the environment, which takes precedence over the
// config file. For example:
//
//	sort = "attributes+duration:case@desc"
//	format = "csv"
//	log_level = "info"
//
// With --format csv, warnings are written to standard error, prefixed
// with the spreadsheet cell they concern.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zchee/timekeeper/cmd/timekeeper/internal/config"
	"github.com/zchee/timekeeper/cmd/timekeeper/internal/logger"
	"github.com/zchee/timekeeper/cmd/timekeeper/internal/tktab"
	"github.com/zchee/timekeeper/tkfmt"
)

func main() {
	if err := timekeeper(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "timekeeper: %s\n", err)
		os.Exit(1)
	}
}

func timekeeper(w, wErr io.Writer, args []string) error {
	cmd := newCommand(w, wErr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newCommand(w, wErr io.Writer) *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "timekeeper [flags] inputs...",
		Short: "Sort timed measurements and report them as tables",
		Long: `timekeeper reads measurements of timed or sized records, sorts the
records of each, and prints them as Markdown, JSON, or CSV tables with a
summary of their durations.

For details, see "go doc github.com/zchee/timekeeper/cmd/timekeeper".`,
		Example: `  # Slowest first
  timekeeper --sort duration@desc nightly.md

  # Group by test case, then by duration, as CSV
  timekeeper --sort attributes+duration:case --format csv a=old.json b=new.json

  # Compressed JSON report
  timekeeper --format json -o report.json.zst nightly.md.zst`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(w, wErr, cfg, args)
		},
	}
	cmd.SetOut(w)
	cmd.SetErr(wErr)

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "read settings from `file` (TOML or YAML)")
	flags.String("sort", config.DefaultSort, "sort records by `expression`, e.g. duration@desc or attributes+duration:case")
	flags.String("format", config.DefaultFormat, "print results in `format`: markdown, json, or csv (csv warnings go to stderr)")
	flags.StringP("output", "o", "", "write the report to `file` instead of stdout; a .zst suffix compresses it")
	flags.String("log-level", config.DefaultLogLevel, "log `level`: debug, info, warn, or error")
	flags.StringSlice("columns", nil, "column `names` for Markdown tables without a header row")
	return cmd
}

func run(w, wErr io.Writer, cfg *config.Config, paths []string) (err error) {
	log, err := logger.New(wErr, cfg.LogLevel)
	if err != nil {
		return err
	}
	log.Debug().
		Str("sort", cfg.Sort.String()).
		Str("format", cfg.Format).
		Str("output", cfg.Output).
		Msg("configured")

	var format func(r *tktab.Report, out io.Writer) error
	switch cfg.Format {
	case "markdown":
		format = func(r *tktab.Report, out io.Writer) error { return r.ToMarkdown(out) }
	case "json":
		format = func(r *tktab.Report, out io.Writer) error { return r.ToJSON(out) }
	case "csv":
		format = func(r *tktab.Report, out io.Writer) error { return r.ToCSV(out, wErr) }
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}

	b := tktab.NewBuilder(cfg.Sort)
	files := tkfmt.Files{Paths: paths, AllowLabels: true, Columns: cfg.Columns}
	for files.Scan() {
		m, err := files.Measurement()
		if err != nil {
			// Non-fatal input error. Warn but keep going.
			log.Warn().Err(err).Msg("skipping input")
			continue
		}
		log.Info().Str("id", m.ID()).Int("records", m.Len()).Msg("read measurement")
		b.Add(m)
	}
	if err := files.Err(); err != nil {
		return err
	}

	report, err := b.ToReport()
	if err != nil {
		return err
	}

	out := w
	if cfg.Output != "" {
		f, err := tkfmt.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
		log.Info().Str("path", cfg.Output).Msg("writing report")
	}
	return format(report, out)
}
