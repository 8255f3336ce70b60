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

	"golang.org/x/net/html/atom"
)

// ParentBlock is the structural container around the current block.
// The zero value means that there is no enclosing container.
type ParentBlock uint8

const (
	SectionBlock ParentBlock = 1 + iota
	OpenBlock
	AsideBlock
	ParagraphBlock
	OrderedListBlock
	UnorderedListBlock
	DefinitionListBlock
	QuoteBlock
	VerseBlock
	PreBlock
)

// Tag returns the element that wraps the block
// or zero if p is not a valid parent block.
func (p ParentBlock) Tag() atom.Atom {
	switch p {
	case SectionBlock:
		return atom.Section
	case OpenBlock:
		return atom.Div
	case AsideBlock:
		return atom.Aside
	case ParagraphBlock:
		return atom.P
	case OrderedListBlock:
		return atom.Ol
	case UnorderedListBlock:
		return atom.Ul
	case DefinitionListBlock:
		return atom.Dl
	case QuoteBlock:
		return atom.Blockquote
	case VerseBlock, PreBlock:
		return atom.Pre
	default:
		return 0
	}
}

func (p ParentBlock) String() string {
	switch p {
	case 0:
		return "none"
	case SectionBlock:
		return "section"
	case OpenBlock:
		return "open"
	case AsideBlock:
		return "aside"
	case ParagraphBlock:
		return "paragraph"
	case OrderedListBlock:
		return "ordered list"
	case UnorderedListBlock:
		return "unordered list"
	case DefinitionListBlock:
		return "definition list"
	case QuoteBlock:
		return "quote"
	case VerseBlock:
		return "verse"
	case PreBlock:
		return "pre"
	default:
		return fmt.Sprintf("ParentBlock(%d)", uint8(p))
	}
}

// isContainer reports whether the block holds whole paragraphs and headings
// rather than being a paragraph-level block itself.
func (p ParentBlock) isContainer() bool {
	return p == SectionBlock || p == OpenBlock || p == AsideBlock || p == QuoteBlock
}

// isPreformatted reports whether line breaks inside the block are significant.
func (p ParentBlock) isPreformatted() bool {
	return p == VerseBlock || p == PreBlock
}

// wrapsLeaf reports whether a leaf block inside p gets its own element.
// Paragraph leaves inside a paragraph or a preformatted block
// would duplicate or break the parent element, so they are elided.
func (p ParentBlock) wrapsLeaf(leaf LeafBlock) bool {
	if leaf.Kind() != ParagraphKind {
		return true
	}
	return p != ParagraphBlock && !p.isPreformatted()
}

// LeafKind is an enumeration of values returned by [LeafBlock.Kind].
type LeafKind uint8

const (
	HeadingKind LeafKind = 1 + iota
	ParagraphKind
	ListItemKind
	DefinitionTermKind
	DefinitionDescKind
	ThematicBreakKind
)

// BreakKind distinguishes the two thematic breaks.
type BreakKind uint8

const (
	SectionBreak BreakKind = 1 + iota
	PageBreak
)

// Class returns the class name every break of the kind is rendered with.
func (b BreakKind) Class() string {
	switch b {
	case SectionBreak:
		return "section_break"
	case PageBreak:
		return "page_break"
	default:
		return ""
	}
}

// A LeafBlock is the innermost element wrapping a line's content.
// The zero value means that no leaf block is open.
// LeafBlocks are comparable with ==.
type LeafBlock struct {
	kind  LeafKind
	level uint8
	brk   BreakKind
}

// MaxHeadingLevel is the deepest heading level HTML has an element for.
const MaxHeadingLevel = 6

var headingTags = [MaxHeadingLevel + 1]atom.Atom{
	1: atom.H1,
	2: atom.H2,
	3: atom.H3,
	4: atom.H4,
	5: atom.H5,
	6: atom.H6,
}

// NewHeading returns a heading leaf block of the given level.
// It returns an error wrapping [ErrHeadingLevel]
// if level is outside 1 through [MaxHeadingLevel].
func NewHeading(level int) (LeafBlock, error) {
	if level < 1 || level > MaxHeadingLevel {
		return LeafBlock{}, fmt.Errorf("heading level %d: %w", level, ErrHeadingLevel)
	}
	return LeafBlock{kind: HeadingKind, level: uint8(level)}, nil
}

// NewBreak returns a break leaf block.
func NewBreak(b BreakKind) LeafBlock {
	return LeafBlock{kind: ThematicBreakKind, brk: b}
}

// Leaf returns a leaf block of a kind that carries no data.
// It panics if kind is [HeadingKind] or [ThematicBreakKind];
// use [NewHeading] or [NewBreak] instead.
func Leaf(kind LeafKind) LeafBlock {
	switch kind {
	case ParagraphKind, ListItemKind, DefinitionTermKind, DefinitionDescKind:
		return LeafBlock{kind: kind}
	default:
		panic(fmt.Sprintf("sdoc.Leaf called with kind %d", kind))
	}
}

// Kind returns the type of leaf block
// or zero if no block is represented.
func (l LeafBlock) Kind() LeafKind {
	return l.kind
}

// HeadingLevel returns the level of a [HeadingKind] block
// or zero for other kinds.
func (l LeafBlock) HeadingLevel() int {
	return int(l.level)
}

// Break returns the break kind of a [ThematicBreakKind] block
// or zero for other kinds.
func (l LeafBlock) Break() BreakKind {
	return l.brk
}

// Tag returns the element that wraps the block's content.
func (l LeafBlock) Tag() atom.Atom {
	switch l.kind {
	case HeadingKind:
		return headingTags[l.level]
	case ParagraphKind:
		return atom.P
	case ListItemKind:
		return atom.Li
	case DefinitionTermKind:
		return atom.Dt
	case DefinitionDescKind:
		return atom.Dd
	case ThematicBreakKind:
		return atom.Div
	default:
		return 0
	}
}

// isStandalone reports whether the block may appear
// without an enclosing parent block.
func (l LeafBlock) isStandalone() bool {
	return l.kind == HeadingKind || l.kind == ThematicBreakKind
}

func (l LeafBlock) String() string {
	switch l.kind {
	case 0:
		return "none"
	case HeadingKind:
		return fmt.Sprintf("heading %d", l.level)
	case ParagraphKind:
		return "paragraph"
	case ListItemKind:
		return "list item"
	case DefinitionTermKind:
		return "definition term"
	case DefinitionDescKind:
		return "definition description"
	case ThematicBreakKind:
		return l.brk.Class()
	default:
		return fmt.Sprintf("LeafBlock(%d)", uint8(l.kind))
	}
}
