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
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxLineSize is the longest line ReadLines accepts.
const maxLineSize = 1 << 20

// ReadLines calls fn for each line in r, in order.
// Lines are passed without their terminator ("\n" or "\r\n")
// and in Unicode normalization form C,
// so that equivalent documents classify the same way.
// ReadLines stops at the first error returned by fn and returns it.
func ReadLines(r io.Reader, fn func(line string) error) error {
	s := bufio.NewScanner(r)
	s.Buffer(nil, maxLineSize)
	for s.Scan() {
		line := strings.TrimSuffix(s.Text(), "\r")
		if err := fn(norm.NFC.String(line)); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("read lines: %w", err)
	}
	return nil
}

// ParseReader passes every line of r to the parser and closes it.
// If reading fails, the read error is returned;
// otherwise the result is the same as [*Parser.Err].
func (p *Parser) ParseReader(r io.Reader) error {
	readErr := ReadLines(r, func(line string) error {
		p.ParseLine(line)
		return nil
	})
	p.Close()
	if readErr != nil {
		return readErr
	}
	return p.Err()
}
