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

// Package sdoc converts a simplified subset of [AsciiDoc] into HTML.
//
// A [Parser] consumes a document one line at a time
// and produces a sequence of [Event] values,
// which an [HTMLRenderer] turns into markup.
//
// [AsciiDoc]: https://asciidoc.org/
package sdoc

import (
	"bytes"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// A Parser holds the state of a document being converted.
// Lines must be passed to [*Parser.ParseLine] in document order,
// followed by a call to [*Parser.Close].
// A Parser must not be used from multiple goroutines at once.
type Parser struct {
	// Log receives a message for every warning.
	// If Log is nil, warnings are only collected.
	Log *zap.Logger
	// If SingleLineSpans is true, inline spans never stay open
	// across lines, not even inside verses and quotes.
	// Otherwise an unmatched delimiter in a verse or quote,
	// like the asterisk in "The *nix way",
	// formats the rest of the block's paragraph
	// and is reported as ErrUnterminatedSpan only when the paragraph ends.
	SingleLineSpans bool

	parent ParentBlock
	leaf   LeafBlock
	// openSpans are the inline spans carried over from previous lines,
	// outermost first.
	openSpans    []InlineSpan
	pendingClass string
	// parentOpen and leafOpen record whether the current blocks
	// have had their content started.
	parentOpen bool
	leafOpen   bool
	// fence is the delimiter line that opened the current block, if any.
	fence string
	// outer are the open delimited containers around the current block,
	// outermost first.
	outer []enclosingBlock

	lineno   int
	line     string
	closed   bool
	events   []Event
	warnings []error
}

// An enclosingBlock is a delimited container that stays open
// while a block nested inside it is current.
type enclosingBlock struct {
	parent ParentBlock
	fence  string
}

// NewParser returns a parser in its initial state.
func NewParser() *Parser {
	return &Parser{Log: zap.NewNop()}
}

// Parse converts a complete document.
// The returned error combines any warnings;
// the events are complete even if the error is not nil.
func Parse(lines []string) ([]Event, error) {
	p := NewParser()
	for _, line := range lines {
		p.ParseLine(line)
	}
	p.Close()
	return p.Events(), p.Err()
}

// Convert converts a complete document to HTML
// using the default options for [HTMLRenderer].
func Convert(lines []string) (string, error) {
	events, err := Parse(lines)
	buf := new(bytes.Buffer)
	RenderHTML(buf, events)
	return buf.String(), err
}

// Parent returns the innermost enclosing block of the current line
// or zero if there is none.
func (p *Parser) Parent() ParentBlock { return p.parent }

// Leaf returns the block wrapping the current line's content
// or the zero LeafBlock if there is none.
func (p *Parser) Leaf() LeafBlock { return p.leaf }

// OpenSpans returns the inline spans left open by previous lines,
// outermost first.
func (p *Parser) OpenSpans() []InlineSpan {
	return append([]InlineSpan(nil), p.openSpans...)
}

// PendingClass returns the class waiting to be applied to the next block.
func (p *Parser) PendingClass() string { return p.pendingClass }

// Events returns the events produced so far.
func (p *Parser) Events() []Event { return p.events }

// Warnings returns the problems found so far.
// Each is a [*LineError].
func (p *Parser) Warnings() []error { return p.warnings }

// Err returns the warnings combined into a single error,
// or nil if there were none.
func (p *Parser) Err() error {
	return multierr.Combine(p.warnings...)
}

// ParseLine processes the next line of the document.
// line should not include its line terminator.
func (p *Parser) ParseLine(line string) {
	if p.closed {
		panic("sdoc: ParseLine called after Close")
	}
	p.lineno++
	p.line = line

	c := p.classify(line)
	if c.err != nil {
		p.warn(c.err)
	}
	switch c.kind {
	case blankLine:
		if p.fence != "" {
			// A delimited block only ends at its closing delimiter.
			p.closeLeaf()
		} else {
			p.closeBlock()
		}
		p.pendingClass = ""
	case breakLine:
		if p.fence != "" {
			p.closeLeaf()
			p.openParent()
		} else {
			p.closeBlock()
		}
		p.events = append(p.events,
			OpenTag(c.leaf.Tag(), classAttr(c.leaf.Break().Class())...),
			CloseTag(c.leaf.Tag()))
		p.pendingClass = ""
	case delimiterLine:
		p.delimiter(c)
	case attributeLine:
		if c.parent != 0 {
			p.leaveNested()
			p.begin(c.parent)
		} else if p.fence != "" {
			p.closeLeaf()
		} else if p.leafOpen {
			p.closeBlock()
		}
		if c.hasClass {
			p.pendingClass = c.class
		}
	case contentLine:
		p.enter(c.parent, c.leaf, c.newLeaf)
		p.content(c.content, c.literal)
		if c.desc != "" {
			p.enter(DefinitionListBlock, Leaf(DefinitionDescKind), true)
			p.content(c.desc, false)
		}
	}
}

// Close signals the end of input, closing any open blocks and spans.
// Calling Close more than once has no effect.
func (p *Parser) Close() {
	if p.closed {
		return
	}
	for len(p.outer) > 0 {
		p.closeBlock()
	}
	p.closeBlock()
	p.pendingClass = ""
	p.closed = true
}

// delimiter handles a line like "****" that starts or ends a delimited block.
func (p *Parser) delimiter(c classification) {
	if p.fence == c.fence {
		p.closeBlock()
		return
	}
	if i := p.enclosingFence(c.fence); i >= 0 {
		// Close the nested blocks, then the container itself.
		for len(p.outer) > i {
			p.closeBlock()
		}
		p.closeBlock()
		return
	}
	if p.fence == "" && !p.parentOpen && (p.parent == c.parent || p.parent == VerseBlock && c.parent == QuoteBlock) {
		// A block attribute line already chose the block, like "[quote]".
		p.fence = c.fence
		return
	}
	p.leaveNested()
	p.begin(c.parent)
	p.fence = c.fence
}

// enclosingFence returns the index in p.outer of the container
// opened by fence, or -1.
func (p *Parser) enclosingFence(fence string) int {
	for i := len(p.outer) - 1; i >= 0; i-- {
		if p.outer[i].fence == fence {
			return i
		}
	}
	return -1
}

// enter makes parent and leaf the current blocks,
// closing whatever they replace.
func (p *Parser) enter(parent ParentBlock, leaf LeafBlock, newLeaf bool) {
	switch {
	case parent != p.parent:
		p.leaveNested()
		if parent != p.parent {
			p.begin(parent)
		}
	case newLeaf || leaf != p.leaf:
		p.closeLeaf()
	}
	p.leaf = leaf
}

// leaveNested closes the current block if it is nested
// in a delimited container without being delimited itself.
func (p *Parser) leaveNested() {
	if len(p.outer) > 0 && p.fence == "" {
		p.closeBlock()
	}
}

// begin makes parent the current block.
// Inside a delimited container the new block is nested in it;
// elsewhere the current block is closed first.
func (p *Parser) begin(parent ParentBlock) {
	if p.fence != "" && p.parent.isContainer() {
		p.closeLeaf()
		p.openParent()
		p.outer = append(p.outer, enclosingBlock{parent: p.parent, fence: p.fence})
		p.parent = parent
		p.parentOpen = false
		p.fence = ""
		return
	}
	p.closeBlock()
	p.parent = parent
}

// container returns the innermost open block
// that holds headings and paragraphs, or zero.
func (p *Parser) container() ParentBlock {
	if p.parent.isContainer() {
		return p.parent
	}
	if n := len(p.outer); n > 0 {
		return p.outer[n-1].parent
	}
	return 0
}

// content appends one line of content to the current leaf block,
// opening the block's tags if this is its first line.
func (p *Parser) content(text string, literal bool) {
	continued := p.leafOpen
	p.openTags()
	if continued {
		p.events = append(p.events, Text("\n"))
	}
	if literal {
		if text != "" {
			p.events = append(p.events, Text(text))
		}
		return
	}

	carry := !p.SingleLineSpans && (p.parent == VerseBlock || p.parent == QuoteBlock)
	scanner := &InlineScanner{Carry: carry}
	result := scanner.Scan(text, p.openSpans)
	p.events = append(p.events, result.Events...)
	p.openSpans = result.Open
	for range result.Unterminated {
		p.warn(ErrUnterminatedSpan)
	}
}

// openTags emits the start tags of the current blocks that are not open yet.
// The pending class goes on the first tag emitted.
func (p *Parser) openTags() {
	p.openParent()
	if !p.leafOpen {
		if p.parent == 0 || p.parent.wrapsLeaf(p.leaf) {
			p.events = append(p.events, OpenTag(p.leaf.Tag(), p.takeClass()...))
		}
		p.leafOpen = true
	}
}

func (p *Parser) openParent() {
	if p.parent != 0 && !p.parentOpen {
		p.events = append(p.events, OpenTag(p.parent.Tag(), p.takeClass()...))
		p.parentOpen = true
	}
}

func (p *Parser) takeClass() []html.Attribute {
	attr := classAttr(p.pendingClass)
	p.pendingClass = ""
	return attr
}

// closeLeaf closes the open inline spans and then the leaf block.
func (p *Parser) closeLeaf() {
	if len(p.openSpans) > 0 {
		p.warn(ErrUnterminatedSpan)
	}
	for i := len(p.openSpans) - 1; i >= 0; i-- {
		p.events = append(p.events, CloseTag(p.openSpans[i].CloseTag()))
	}
	p.openSpans = nil
	if p.leafOpen && (p.parent == 0 || p.parent.wrapsLeaf(p.leaf)) {
		p.events = append(p.events, CloseTag(p.leaf.Tag()))
	}
	p.leafOpen = false
	p.leaf = LeafBlock{}
}

// closeBlock closes the current block and its leaf and spans.
// If the block is nested in a delimited container,
// the container becomes current again;
// otherwise the parser returns to the state between blocks.
// The pending class is kept.
func (p *Parser) closeBlock() {
	p.closeLeaf()
	if p.parentOpen {
		p.events = append(p.events, CloseTag(p.parent.Tag()))
	}
	if n := len(p.outer); n > 0 {
		e := p.outer[n-1]
		p.outer = p.outer[:n-1]
		p.parent = e.parent
		p.parentOpen = true
		p.fence = e.fence
		return
	}
	p.parent = 0
	p.parentOpen = false
	p.fence = ""
}

func (p *Parser) warn(err error) {
	lerr := &LineError{Line: p.lineno, Text: p.line, Err: err}
	p.warnings = append(p.warnings, lerr)
	if p.Log != nil {
		p.Log.Warn("Problem in document",
			zap.Int("line", lerr.Line),
			zap.String("text", lerr.Text),
			zap.NamedError("problem", err))
	}
}
