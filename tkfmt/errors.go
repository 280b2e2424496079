// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkfmt

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a configuration error, such as
	// a missing measurement id or an empty list of sort keys.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalState indicates an operation that is not valid in
	// a record's current state, such as asking for the duration of
	// a record that was never timed.
	ErrIllegalState = errors.New("illegal state")
)

// A SyntaxError represents a syntax error on a particular line of a
// measurement file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}
