// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkproc

import (
	"fmt"
	"strings"

	"github.com/zchee/timekeeper/tkfmt"
)

// A Direction is the sense of an ordering.
//
// The zero Direction is treated as Ascending.
type Direction int

const (
	// Ascending sorts smaller values first.
	Ascending Direction = 1
	// Descending sorts larger values first.
	Descending Direction = -1
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// short returns the abbreviated form accepted by ParseDirection.
func (d Direction) short() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// sign returns the factor a comparison result is multiplied by.
func (d Direction) sign() int {
	if d == Descending {
		return -1
	}
	return 1
}

func (d Direction) valid() bool {
	return d == 0 || d == Ascending || d == Descending
}

// ParseDirection parses "asc", "ascending", "desc", or "descending",
// in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown direction %q: %w", s, tkfmt.ErrInvalidArgument)
}
