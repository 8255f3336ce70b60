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
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SpanKind is an enumeration of values returned by [InlineSpan.Kind].
type SpanKind uint8

const (
	TextSpan SpanKind = 1 + iota
	BoldSpan
	ItalicSpan
	CodeSpan
	LinkSpan
	FootnoteSpan
)

func (k SpanKind) String() string {
	switch k {
	case TextSpan:
		return "text"
	case BoldSpan:
		return "bold"
	case ItalicSpan:
		return "italic"
	case CodeSpan:
		return "code"
	case LinkSpan:
		return "link"
	case FootnoteSpan:
		return "footnote"
	default:
		return fmt.Sprintf("SpanKind(%d)", uint8(k))
	}
}

// An InlineSpan is a formatted run of text within a line.
type InlineSpan struct {
	kind SpanKind
	href string
	// delim is the length of the delimiter run that opened the span.
	delim uint8
}

// Span returns an inline span of a kind that carries no data.
// It panics if kind is [LinkSpan]; use [Link] instead.
func Span(kind SpanKind) InlineSpan {
	if kind == LinkSpan || kind == 0 || kind > FootnoteSpan {
		panic(fmt.Sprintf("sdoc.Span called with kind %v", kind))
	}
	return InlineSpan{kind: kind}
}

// Link returns a link span pointing at href.
func Link(href string) InlineSpan {
	return InlineSpan{kind: LinkSpan, href: href}
}

// Kind returns the type of span.
func (s InlineSpan) Kind() SpanKind {
	return s.kind
}

// Href returns the destination of a [LinkSpan].
func (s InlineSpan) Href() string {
	return s.href
}

// OpenTag returns the element and attributes that start the span.
// [TextSpan] has no element and returns zero.
func (s InlineSpan) OpenTag() (atom.Atom, []html.Attribute) {
	switch s.kind {
	case LinkSpan:
		return atom.A, []html.Attribute{{Key: "href", Val: s.href}}
	case FootnoteSpan:
		return atom.Span, []html.Attribute{{Key: "data-type", Val: "footnote"}}
	default:
		return s.CloseTag(), nil
	}
}

// CloseTag returns the element that ends the span.
// [TextSpan] has no element and returns zero.
func (s InlineSpan) CloseTag() atom.Atom {
	switch s.kind {
	case BoldSpan:
		return atom.Strong
	case ItalicSpan:
		return atom.Em
	case CodeSpan:
		return atom.Code
	case LinkSpan:
		return atom.A
	case FootnoteSpan:
		return atom.Span
	default:
		return 0
	}
}

// OpenTagString returns the HTML start tag of the span,
// like `<a href="https://example.com/">`.
func (s InlineSpan) OpenTagString() string {
	tag, attr := s.OpenTag()
	if tag == 0 {
		return ""
	}
	return string(appendStartTag(nil, tag, attr))
}

// CloseTagString returns the HTML end tag of the span, like `</a>`.
func (s InlineSpan) CloseTagString() string {
	tag := s.CloseTag()
	if tag == 0 {
		return ""
	}
	return "</" + tag.String() + ">"
}

type spanSet uint8

func (set spanSet) has(k SpanKind) bool {
	return set&(1<<k) != 0
}

func (set spanSet) with(k SpanKind) spanSet {
	return set | 1<<k
}

func delimiterKind(c byte) SpanKind {
	switch c {
	case '*':
		return BoldSpan
	case '_':
		return ItalicSpan
	case '`':
		return CodeSpan
	default:
		return 0
	}
}

// An InlineScanner renders the content of a line into events.
type InlineScanner struct {
	// If Carry is true, a delimiter without a closer on the same line
	// opens a span that stays open at the end of the line.
	// Otherwise such delimiters are literal text.
	Carry bool
}

// ScanResult is the outcome of [*InlineScanner.Scan].
type ScanResult struct {
	Events []Event
	// Open is the stack of spans still open at the end of the line,
	// outermost first.
	Open []InlineSpan
	// Unterminated lists delimiters that were rendered as literal text
	// because nothing closed them.
	Unterminated []SpanKind
}

type scanState struct {
	*InlineScanner
	events       []Event
	open         []InlineSpan
	unterminated []SpanKind
}

// Scan renders text, continuing any spans in open
// that were left open by previous lines.
// Scan does not modify open.
func (sc *InlineScanner) Scan(text string, open []InlineSpan) ScanResult {
	s := &scanState{
		InlineScanner: sc,
		open:          append([]InlineSpan(nil), open...),
	}
	var active spanSet
	for _, span := range s.open {
		active = active.with(span.kind)
	}
	s.scan(text, active, true)
	return ScanResult{
		Events:       s.events,
		Open:         s.open,
		Unterminated: s.unterminated,
	}
}

// scan appends the events for text.
// Spans of a kind in active are already open around text
// and may not be opened again.
// Only the outermost call (top) may close or open carried spans.
func (s *scanState) scan(text string, active spanSet, top bool) {
	plainStart := 0
	flush := func(end int) {
		if end > plainStart {
			s.events = append(s.events, Text(text[plainStart:end]))
		}
	}
	for pos := 0; pos < len(text); {
		c := text[pos]
		switch {
		case c == '\\' && pos+1 < len(text) && isEscapable(text[pos+1]):
			flush(pos)
			s.events = append(s.events, Text(text[pos+1:pos+2]))
			pos += 2
			plainStart = pos
			continue

		case delimiterKind(c) != 0:
			kind := delimiterKind(c)
			n := delimiterRun(text, pos)
			if top && len(s.open) > 0 {
				last := s.open[len(s.open)-1]
				if last.kind == kind && int(last.delim) == n && canClose(text, pos, n) {
					flush(pos)
					s.events = append(s.events, CloseTag(last.CloseTag()))
					s.open = s.open[:len(s.open)-1]
					active &^= 1 << kind
					pos += n
					plainStart = pos
					continue
				}
			}
			if active.has(kind) || !canOpen(text, pos, n) {
				pos += n
				continue
			}
			if end := findCloser(text, pos, n); end >= 0 {
				flush(pos)
				span := InlineSpan{kind: kind, delim: uint8(n)}
				s.events = append(s.events, openSpanEvent(span))
				s.scan(text[pos+n:end], active.with(kind), false)
				s.events = append(s.events, CloseTag(span.CloseTag()))
				pos = end + n
				plainStart = pos
				continue
			}
			if top && s.Carry {
				flush(pos)
				span := InlineSpan{kind: kind, delim: uint8(n)}
				s.events = append(s.events, openSpanEvent(span))
				s.open = append(s.open, span)
				active = active.with(kind)
				pos += n
				plainStart = pos
				continue
			}
			s.unterminated = append(s.unterminated, kind)
			pos += n
			continue

		case c == '.' && strings.HasPrefix(text[pos:], dotFootnotePrefix):
			if end := s.footnote(text, pos+len(dotFootnotePrefix), active); end >= 0 {
				flush(pos)
				s.flushFootnote(text, pos+len(dotFootnotePrefix), end, active)
				pos = end + 1
				plainStart = pos
				continue
			}

		case c == 'f' && isWordStart(text, pos) && strings.HasPrefix(text[pos:], footnotePrefix):
			if end := s.footnote(text, pos+len(footnotePrefix), active); end >= 0 {
				flush(pos)
				s.flushFootnote(text, pos+len(footnotePrefix), end, active)
				pos = end + 1
				plainStart = pos
				continue
			}

		case !active.has(LinkSpan) && isWordStart(text, pos):
			if href, label, end := parseLink(text, pos); end >= 0 {
				flush(pos)
				span := Link(NormalizeURI(href))
				s.events = append(s.events, openSpanEvent(span))
				if label == "" {
					s.events = append(s.events, Text(href))
				} else {
					s.scan(label, active.with(LinkSpan), false)
				}
				s.events = append(s.events, CloseTag(span.CloseTag()))
				pos = end
				plainStart = pos
				continue
			}
		}
		pos++
	}
	flush(len(text))
}

const (
	dotFootnotePrefix = ".footnote["
	footnotePrefix    = "footnote:["
)

// footnote returns the position of the bracket closing a footnote macro
// whose content starts at start, or -1.
func (s *scanState) footnote(text string, start int, active spanSet) int {
	if active.has(FootnoteSpan) {
		return -1
	}
	return closingBracket(text, start)
}

func (s *scanState) flushFootnote(text string, start, end int, active spanSet) {
	span := Span(FootnoteSpan)
	s.events = append(s.events, openSpanEvent(span))
	s.scan(text[start:end], active.with(FootnoteSpan), false)
	s.events = append(s.events, CloseTag(span.CloseTag()))
}

var linkSchemes = []string{"https://", "http://", "ftp://", "mailto:", "link:"}

// parseLink recognizes a URL or link macro at text[pos:].
// label is the bracketed link text, empty if there is none.
// end is the position just past the link, or -1 if there is no link.
func parseLink(text string, pos int) (href, label string, end int) {
	rest := text[pos:]
	var scheme string
	for _, prefix := range linkSchemes {
		if strings.HasPrefix(rest, prefix) {
			scheme = prefix
			break
		}
	}
	if scheme == "" {
		return "", "", -1
	}
	targetEnd := len(scheme)
	for targetEnd < len(rest) && !isURLTerminator(rest[targetEnd]) {
		targetEnd++
	}
	target := rest[:targetEnd]
	if scheme == "link:" {
		target = target[len(scheme):]
		if !isAllowedLinkTarget(target) {
			return "", "", -1
		}
	}
	if targetEnd < len(rest) && rest[targetEnd] == '[' {
		closeBracket := closingBracket(rest, targetEnd+1)
		if closeBracket >= 0 && target != "" && target != scheme {
			return target, strings.TrimSpace(rest[targetEnd+1 : closeBracket]), pos + closeBracket + 1
		}
	}
	if scheme == "link:" {
		// The macro form requires a bracketed label.
		return "", "", -1
	}
	target = strings.TrimRight(target, ".,;:!?)'\"")
	if len(target) <= len(scheme) {
		return "", "", -1
	}
	return target, "", pos + len(target)
}

// linkTargetSchemes are the URL schemes a link macro may point at.
var linkTargetSchemes = []string{"http", "https", "ftp", "mailto"}

// isAllowedLinkTarget reports whether target is a relative reference
// or an absolute URL with one of linkTargetSchemes.
func isAllowedLinkTarget(target string) bool {
	colon := strings.IndexByte(target, ':')
	if colon < 0 || strings.ContainsAny(target[:colon], "/?#") {
		return true
	}
	return slices.Contains(linkTargetSchemes, strings.ToLower(target[:colon]))
}

func isURLTerminator(c byte) bool {
	return c == ' ' || c == '\t' || c == '[' || c == '<' || c == '>' || c == '"'
}

// closingBracket returns the position of the ']' matching
// an already consumed '[' before start, or -1.
func closingBracket(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// delimiterRun returns 2 if the delimiter at text[pos] is doubled
// (an unconstrained span) and 1 otherwise.
func delimiterRun(text string, pos int) int {
	if pos+1 < len(text) && text[pos+1] == text[pos] {
		return 2
	}
	return 1
}

// findCloser returns the position of the first delimiter run
// that closes the span opened by the n delimiters at text[start],
// or -1 if there is none on the line.
func findCloser(text string, start, n int) int {
	c := text[start]
	for i := start + n + 1; i+n <= len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case c:
			if n == 2 && text[i+1] != c {
				continue
			}
			if canClose(text, i, n) {
				return i
			}
		}
	}
	return -1
}

// canOpen reports whether the n delimiters at text[pos] may start a span.
// Single delimiters must start a word; the content may not start with a space.
func canOpen(text string, pos, n int) bool {
	if pos+n >= len(text) || isSpaceByte(text[pos+n]) {
		return false
	}
	if n == 1 && pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:pos])
		return !isWordRune(r)
	}
	return true
}

// canClose reports whether the n delimiters at text[pos] may end a span.
func canClose(text string, pos, n int) bool {
	if pos == 0 || isSpaceByte(text[pos-1]) {
		return false
	}
	if n == 1 && pos+1 < len(text) {
		r, _ := utf8.DecodeRuneInString(text[pos+1:])
		return !isWordRune(r)
	}
	return true
}

func isWordStart(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t'
}

func isEscapable(c byte) bool {
	return c == '\\' || c == '*' || c == '_' || c == '`' || c == '[' || c == ']'
}

func openSpanEvent(span InlineSpan) Event {
	tag, attr := span.OpenTag()
	return Event{Kind: OpenTagEvent, Tag: tag, Attr: attr}
}
