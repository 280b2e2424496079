// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tkunit parses and formats the size and duration strings
// that appear in measurement reports.
//
// Sizes are byte counts such as "736,042" or "1.5Mi". Durations are
// either clock-style ("00:38", "25:17", "1:02:03"), a bare number of
// seconds ("43"), or Go duration syntax ("6m11s").
package tkunit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const numPrefixes = `KMGTPEZY`

var numRe = regexp.MustCompile(`^([0-9.]+)([k` + numPrefixes + `]i?)?[bB]?$`)

// ParseNum is a fuzzy number parser. It supports plain floats and
// numbers with metric or IEC prefixes, such as "2k" or "1Mi", with
// an optional trailing "B".
func ParseNum(x string) (float64, error) {
	// Try parsing as a regular float.
	v, err := strconv.ParseFloat(x, 64)
	if err == nil {
		return v, nil
	}

	// Try a suffixed number.
	subs := numRe.FindStringSubmatch(x)
	if subs != nil {
		v, err := strconv.ParseFloat(subs[1], 64)
		if err == nil {
			exp := 0
			if len(subs[2]) > 0 {
				pre := subs[2][0]
				if pre == 'k' {
					pre = 'K'
				}
				exp = 1 + strings.IndexByte(numPrefixes, pre)
			}
			iec := strings.HasSuffix(subs[2], "i")
			if iec {
				return v * math.Pow(1024, float64(exp)), nil
			}
			return v * math.Pow(1000, float64(exp)), nil
		}
	}

	return 0, strconv.ErrSyntax
}

// ParseSize parses a size such as "736,042", "10KB" or "2Mi" into a
// byte count. Thousands separators are ignored.
func ParseSize(s string) (int64, error) {
	t := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if t == "" {
		return 0, fmt.Errorf("parsing size %q: empty", s)
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return n, nil
	}
	v, err := ParseNum(t)
	if err != nil || math.IsNaN(v) || v < 0 || v >= 1<<63 {
		return 0, fmt.Errorf("parsing size %q: %w", s, strconv.ErrSyntax)
	}
	return int64(math.Round(v)), nil
}

// ParseDuration parses a duration as it appears in a report.
//
// The accepted forms are:
//
//	"43"       seconds
//	"6:11"     minutes:seconds
//	"1:02:03"  hours:minutes:seconds
//	"6m11s"    Go duration syntax
//
// Seconds may carry a fractional part ("00:38.250").
func ParseDuration(s string) (time.Duration, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, fmt.Errorf("parsing duration %q: empty", s)
	}
	if strings.ContainsAny(t, "hmsuµn") {
		d, err := time.ParseDuration(t)
		if err != nil {
			return 0, fmt.Errorf("parsing duration %q: %w", s, err)
		}
		return d, nil
	}

	parts := strings.Split(t, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("parsing duration %q: too many fields", s)
	}
	var d time.Duration
	for i, p := range parts {
		last := i == len(parts)-1
		if last {
			secs, err := strconv.ParseFloat(p, 64)
			if err != nil || math.IsNaN(secs) || secs < 0 || (len(parts) > 1 && secs >= 60) {
				return 0, fmt.Errorf("parsing duration %q: bad seconds %q", s, p)
			}
			if math.Round(secs*float64(time.Second)) >= float64(math.MaxInt64-d) {
				return 0, fmt.Errorf("parsing duration %q: out of range", s)
			}
			d += time.Duration(math.Round(secs * float64(time.Second)))
			break
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parsing duration %q: bad field %q", s, p)
		}
		// Minutes are bounded only when hours precede them.
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("parsing duration %q: bad minutes %q", s, p)
		}
		unit := time.Minute
		if len(parts) == 3 && i == 0 {
			unit = time.Hour
		}
		if n > (math.MaxInt64-int64(d))/int64(unit) {
			return 0, fmt.Errorf("parsing duration %q: out of range", s)
		}
		d += time.Duration(n) * unit
	}
	return d, nil
}

// FormatDuration formats d as "mm:ss", or "h:mm:ss" when d is an
// hour or longer. Sub-second precision is dropped.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	secs := int64(d / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m, s)
}

// FormatSize formats n with comma thousands separators, e.g.
// 736042 as "736,042".
func FormatSize(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
