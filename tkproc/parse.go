// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkproc

import (
	"fmt"
	"strings"

	"github.com/zchee/timekeeper/tkfmt"
)

// A SyntaxError is an error produced by parsing a malformed sort
// expression. It wraps tkfmt.ErrInvalidArgument.
type SyntaxError struct {
	Spec string // The sort expression
	Off  int    // Byte offset of the error in Spec
	Msg  string // Error message
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d in %q: %s", e.Off, e.Spec, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return tkfmt.ErrInvalidArgument
}

// ParseTableConfig parses a sort expression of the form
//
//	mode [":" key {"," key}] ["@" direction]
//
// where mode is a SortMode name and direction is accepted by
// ParseDirection. Spaces around each part are ignored, so keys may
// contain inner spaces. For example:
//
//	none
//	duration@desc
//	attributes:case,Suite
//	attributes+duration:case@asc
func ParseTableConfig(spec string) (TableConfig, error) {
	var cfg TableConfig
	rest := spec

	if i := strings.LastIndexByte(rest, '@'); i >= 0 {
		d, err := ParseDirection(strings.TrimSpace(rest[i+1:]))
		if err != nil {
			return TableConfig{}, &SyntaxError{spec, i + 1, fmt.Sprintf("unknown direction %q", strings.TrimSpace(rest[i+1:]))}
		}
		cfg.Direction = d
		rest = rest[:i]
	}

	modeStr, keysStr, hasKeys := strings.Cut(rest, ":")
	mode, err := ParseSortMode(strings.TrimSpace(modeStr))
	if err != nil {
		return TableConfig{}, &SyntaxError{spec, 0, fmt.Sprintf("unknown sort mode %q", strings.TrimSpace(modeStr))}
	}
	cfg.Mode = mode

	if hasKeys {
		if !mode.usesKeys() {
			return TableConfig{}, &SyntaxError{spec, len(modeStr), fmt.Sprintf("sort mode %s does not take keys", mode)}
		}
		off := len(modeStr) + 1
		for _, k := range strings.Split(keysStr, ",") {
			key := strings.TrimSpace(k)
			if key == "" {
				return TableConfig{}, &SyntaxError{spec, off, "empty key"}
			}
			cfg.Keys = append(cfg.Keys, key)
			off += len(k) + 1
		}
	}
	return cfg, nil
}
