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
	"testing"

	"golang.org/x/net/html/atom"
)

func TestParentBlockTag(t *testing.T) {
	tests := []struct {
		block ParentBlock
		want  atom.Atom
	}{
		{SectionBlock, atom.Section},
		{OpenBlock, atom.Div},
		{AsideBlock, atom.Aside},
		{ParagraphBlock, atom.P},
		{OrderedListBlock, atom.Ol},
		{UnorderedListBlock, atom.Ul},
		{DefinitionListBlock, atom.Dl},
		{QuoteBlock, atom.Blockquote},
		{VerseBlock, atom.Pre},
		{PreBlock, atom.Pre},
		{0, 0},
	}
	for _, test := range tests {
		if got := test.block.Tag(); got != test.want {
			t.Errorf("%v.Tag() = %v; want %v", test.block, got, test.want)
		}
	}
}

func TestLeafBlockTag(t *testing.T) {
	for level := 1; level <= MaxHeadingLevel; level++ {
		leaf, err := NewHeading(level)
		if err != nil {
			t.Errorf("NewHeading(%d): %v", level, err)
			continue
		}
		if got := leaf.HeadingLevel(); got != level {
			t.Errorf("NewHeading(%d).HeadingLevel() = %d", level, got)
		}
		if got, want := leaf.Tag().String(), "h"+string(rune('0'+level)); got != want {
			t.Errorf("NewHeading(%d).Tag() = %s; want %s", level, got, want)
		}
	}

	tests := []struct {
		leaf LeafBlock
		want atom.Atom
	}{
		{Leaf(ParagraphKind), atom.P},
		{Leaf(ListItemKind), atom.Li},
		{Leaf(DefinitionTermKind), atom.Dt},
		{Leaf(DefinitionDescKind), atom.Dd},
		{NewBreak(SectionBreak), atom.Div},
		{NewBreak(PageBreak), atom.Div},
		{LeafBlock{}, 0},
	}
	for _, test := range tests {
		if got := test.leaf.Tag(); got != test.want {
			t.Errorf("%v.Tag() = %v; want %v", test.leaf, got, test.want)
		}
	}
}

func TestNewHeadingRange(t *testing.T) {
	for _, level := range []int{-1, 0, MaxHeadingLevel + 1, 100} {
		leaf, err := NewHeading(level)
		if !errors.Is(err, ErrHeadingLevel) {
			t.Errorf("NewHeading(%d) error = %v; want %v", level, err, ErrHeadingLevel)
		}
		if leaf != (LeafBlock{}) {
			t.Errorf("NewHeading(%d) = %v; want zero", level, leaf)
		}
	}
}

func TestBreakClass(t *testing.T) {
	if got, want := NewBreak(SectionBreak).Break().Class(), "section_break"; got != want {
		t.Errorf("section break class = %q; want %q", got, want)
	}
	if got, want := NewBreak(PageBreak).Break().Class(), "page_break"; got != want {
		t.Errorf("page break class = %q; want %q", got, want)
	}
	if got := Leaf(ParagraphKind).Break(); got != 0 {
		t.Errorf("paragraph Break() = %v; want 0", got)
	}
}

func TestWrapsLeaf(t *testing.T) {
	tests := []struct {
		parent ParentBlock
		leaf   LeafBlock
		want   bool
	}{
		{ParagraphBlock, Leaf(ParagraphKind), false},
		{PreBlock, Leaf(ParagraphKind), false},
		{VerseBlock, Leaf(ParagraphKind), false},
		{AsideBlock, Leaf(ParagraphKind), true},
		{QuoteBlock, Leaf(ParagraphKind), true},
		{UnorderedListBlock, Leaf(ListItemKind), true},
		{DefinitionListBlock, Leaf(DefinitionDescKind), true},
	}
	for _, test := range tests {
		if got := test.parent.wrapsLeaf(test.leaf); got != test.want {
			t.Errorf("%v.wrapsLeaf(%v) = %t; want %t", test.parent, test.leaf, got, test.want)
		}
	}
}
