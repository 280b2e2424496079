// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tkproc provides tools for ordering the Records of a
// tkfmt.Measurement.
//
// A Comparator is a total order over Records. It is one of a small,
// closed set of kinds: none (insertion order), by attributes, by
// duration, by size, or a composite of two Comparators where the
// second breaks ties in the first. Each kind carries its own
// direction.
//
// A Table binds a Measurement to a Comparator and produces a sorted
// copy of the Measurement. Sorting is stable and never modifies the
// source Measurement, so a Measurement can be built once and then
// reported through any number of Tables.
//
// Tables are usually configured with a TableConfig, which command
// lines and configuration files can express in a compact syntax
// parsed by ParseTableConfig:
//
//	mode [":" key {"," key}] ["@" direction]
//
// For example, "duration@desc" sorts by duration with the longest
// Record first, and "attributes+duration:case@asc" sorts by the
// "case" attribute and then by duration.
package tkproc
