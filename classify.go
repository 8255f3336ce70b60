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
	"regexp"
	"strings"
)

type lineKind uint8

const (
	blankLine lineKind = 1 + iota
	breakLine
	delimiterLine
	attributeLine
	contentLine
	// ignoredLine is a line that leaves the state unchanged,
	// like an unrecognized attribute line.
	ignoredLine
)

// classification is the outcome of classifying one line.
type classification struct {
	kind lineKind

	// For delimiterLine and attributeLine, the block to enter.
	// For contentLine, the block the content belongs to.
	parent ParentBlock
	leaf   LeafBlock
	// newLeaf is set for markers that start a new leaf block
	// even if one of the same kind is already open.
	newLeaf bool
	// fence is the delimiter of a delimiterLine.
	fence string

	content string
	// literal content is not scanned for inline spans.
	literal bool
	// desc is the description of a definition line, if any.
	desc string

	class    string
	hasClass bool
	// err is a warning to report about the line.
	err error
}

var delimiters = map[string]ParentBlock{
	"****": AsideBlock,
	"----": PreBlock,
	"____": QuoteBlock,
	"--":   OpenBlock,
}

var (
	roleRE       = regexp.MustCompile(`\[role="(.*?)"\]`)
	roleShortRE  = regexp.MustCompile(`^\[\.([-\w]+)\]$`)
	definitionRE = regexp.MustCompile(`^(\S.*?)::(?:\s+(.*))?$`)
)

// classify decides what line means given the current parser state.
// It does not modify the state.
func (p *Parser) classify(line string) classification {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		if p.fence != "" && p.parent.isPreformatted() && p.leafOpen {
			// Blank lines are part of fenced preformatted text.
			return p.continuation("", p.parent == PreBlock)
		}
		return classification{kind: blankLine}
	}

	if len(fields) == 1 {
		tok := fields[0]
		if parent, ok := delimiters[tok]; ok && (p.fence == "" || p.fence == tok || p.parent.isContainer()) {
			return classification{kind: delimiterLine, parent: parent, fence: tok}
		}
	}
	// Everything inside a fenced block of preformatted text is literal.
	if p.parent == PreBlock && p.fence != "" {
		return p.continuation(line, true)
	}
	if len(fields) == 1 {
		switch fields[0] {
		case "'''":
			return classification{kind: breakLine, leaf: NewBreak(SectionBreak)}
		case ">>>", "<<<":
			return classification{kind: breakLine, leaf: NewBreak(PageBreak)}
		}
	}
	// Verses keep their line structure, so markers are not recognized.
	if p.parent == VerseBlock {
		return p.continuation(line, false)
	}

	trimmed := strings.TrimSpace(line)
	if c, ok := p.classifyMarker(fields); ok {
		return c
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return classifyAttribute(trimmed)
	}
	if p.startsItem(DefinitionListBlock) {
		if m := definitionRE.FindStringSubmatch(trimmed); m != nil {
			return classification{
				kind:    contentLine,
				parent:  DefinitionListBlock,
				leaf:    Leaf(DefinitionTermKind),
				newLeaf: true,
				content: strings.TrimSpace(m[1]),
				desc:    strings.TrimSpace(m[2]),
			}
		}
	}
	return p.continuation(trimmed, false)
}

// classifyMarker recognizes lines that begin with a heading or list item marker.
func (p *Parser) classifyMarker(fields []string) (classification, bool) {
	marker := fields[0]
	content := strings.Join(fields[1:], " ")
	switch {
	case isRun(marker, '='):
		leaf, err := NewHeading(len(marker))
		if err != nil {
			c := p.continuation(strings.Join(fields, " "), false)
			c.err = err
			return c, true
		}
		return classification{
			kind:    contentLine,
			parent:  p.container(),
			leaf:    leaf,
			newLeaf: true,
			content: content,
		}, true
	case isRun(marker, '*'):
		return p.classifyListItem(UnorderedListBlock, content)
	case isRun(marker, '.'):
		return p.classifyListItem(OrderedListBlock, content)
	default:
		return classification{}, false
	}
}

func (p *Parser) classifyListItem(list ParentBlock, content string) (classification, bool) {
	if !p.startsItem(list) {
		// Not a marker: the line continues the open paragraph.
		return classification{}, false
	}
	return classification{
		kind:    contentLine,
		parent:  list,
		leaf:    Leaf(ListItemKind),
		newLeaf: true,
		content: content,
	}, true
}

// startsItem reports whether an item marker for list starts a new item.
// A marker inside an open paragraph of another block is ordinary text,
// so that a wrapped line is never mistaken for a new item.
func (p *Parser) startsItem(list ParentBlock) bool {
	return p.leaf == (LeafBlock{}) ||
		p.parent == list ||
		p.leaf.Kind() != ParagraphKind
}

// continuation classifies a line of plain text.
func (p *Parser) continuation(content string, literal bool) classification {
	c := classification{
		kind:    contentLine,
		parent:  p.parent,
		leaf:    p.leaf,
		content: content,
		literal: literal,
	}
	switch {
	case p.leaf.Kind() == DefinitionTermKind:
		c.leaf = Leaf(DefinitionDescKind)
		c.newLeaf = true
	case p.leaf != (LeafBlock{}) && !p.leaf.isStandalone():
		// Continue the open leaf block.
	case p.parent.isContainer() || p.parent.isPreformatted():
		c.leaf = Leaf(ParagraphKind)
		c.newLeaf = true
	default:
		c.parent = p.container()
		if c.parent == 0 {
			c.parent = ParagraphBlock
		}
		c.leaf = Leaf(ParagraphKind)
		c.newLeaf = true
	}
	return c
}

// classifyAttribute interprets a block attribute line like "[quote]".
func classifyAttribute(line string) classification {
	prefix := line
	if len(prefix) > 5 {
		prefix = prefix[:5]
	}
	switch {
	case prefix == "[quot":
		return classification{kind: attributeLine, parent: QuoteBlock}
	case prefix == "[vers":
		return classification{kind: attributeLine, parent: VerseBlock}
	case prefix == "[sect":
		return classification{kind: attributeLine, parent: SectionBlock}
	case prefix == "[role":
		m := roleRE.FindStringSubmatch(line)
		if m == nil {
			return classification{kind: ignoredLine, err: ErrMalformedRole}
		}
		return classification{kind: attributeLine, class: m[1], hasClass: true}
	}
	if m := roleShortRE.FindStringSubmatch(line); m != nil {
		return classification{kind: attributeLine, class: m[1], hasClass: true}
	}
	return classification{kind: ignoredLine, err: ErrUnrecognizedBlockMarker}
}

// isRun reports whether s is made entirely of c.
func isRun(s string, c byte) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}
