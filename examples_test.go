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
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/sdoc/internal/examples"
	"zombiezen.com/go/sdoc/internal/htmlcheck"
)

func TestExamples(t *testing.T) {
	for _, test := range loadExamples(t) {
		t.Run(fmt.Sprintf("Example%d", test.Example), func(t *testing.T) {
			p := NewParser()
			if err := p.ParseReader(strings.NewReader(test.AsciiDoc)); err != nil {
				t.Log("Warnings:", err)
			}
			r := &HTMLRenderer{BlockSeparator: "\n"}
			out := r.AppendEvents(nil, p.Events())
			if err := htmlcheck.Balanced(out); err != nil {
				t.Error(err)
			}
			got := string(htmlcheck.Normalize(out))
			want := string(htmlcheck.Normalize([]byte(test.HTML)))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s\nInput:\n%s\nOutput (-want +got):\n%s", test.Section, test.AsciiDoc, diff)
			}
		})
	}
}

func loadExamples(tb testing.TB) []examples.Example {
	tb.Helper()
	corpus, err := examples.Load()
	if err != nil {
		tb.Fatal(err)
	}
	return corpus
}
