// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package sdoc

import (
	"errors"
	"fmt"
)

// Conditions reported by [Parser.Warnings].
// None of them stop the parse.
var (
	ErrUnrecognizedBlockMarker = errors.New("unrecognized block marker")
	ErrMalformedRole           = errors.New("malformed role attribute")
	ErrUnterminatedSpan        = errors.New("unterminated inline span")
	ErrHeadingLevel            = errors.New("heading level out of range")
)

// LineError records a problem with a single input line.
type LineError struct {
	// Line is the 1-based line number.
	Line int
	// Text is the offending line.
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
