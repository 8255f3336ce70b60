// Copyright 2023 Ross Light
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
	"io"
	"strings"
	"unicode/utf8"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// An HTMLRenderer converts parser events into HTML.
//
// Text and attribute values are always escaped,
// so the output only ever contains the elements the parser emits.
type HTMLRenderer struct {
	// BlockSeparator is written between top-level elements.
	BlockSeparator string
	// If Document is true, the output is wrapped in a complete HTML document.
	Document bool
	// Title is the document title used when Document is true.
	Title string
}

// RenderHTML writes the given events to the given writer as HTML
// using the default options for [HTMLRenderer].
func RenderHTML(w io.Writer, events []Event) error {
	return new(HTMLRenderer).Render(w, events)
}

// Render writes the given events to the given writer as HTML.
// It will return the first error encountered, if any.
func (r *HTMLRenderer) Render(w io.Writer, events []Event) error {
	if _, err := w.Write(r.AppendEvents(nil, events)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// AppendEvents appends the rendered HTML of events to dst
// and returns the resulting byte slice.
func (r *HTMLRenderer) AppendEvents(dst []byte, events []Event) []byte {
	state := &renderState{
		HTMLRenderer: r,
		dst:          dst,
	}
	if r.Document {
		state.documentStart()
	}
	for _, ev := range events {
		state.event(ev)
	}
	if r.Document {
		state.documentEnd()
	}
	return state.dst
}

type renderState struct {
	*HTMLRenderer
	dst   []byte
	depth int
	// wroteBlock is set once a top-level element has been closed.
	wroteBlock bool
}

func (r *renderState) event(ev Event) {
	switch ev.Kind {
	case OpenTagEvent:
		if r.depth == 0 && r.wroteBlock {
			r.dst = append(r.dst, r.BlockSeparator...)
		}
		r.dst = appendStartTag(r.dst, ev.Tag, ev.Attr)
		r.depth++
	case CloseTagEvent:
		r.closeTag(ev.Tag)
		if r.depth > 0 {
			r.depth--
		}
		if r.depth == 0 {
			r.wroteBlock = true
		}
	case TextEvent:
		r.dst = escapeHTML(r.dst, ev.Text)
	}
}

func (r *renderState) closeTag(name atom.Atom) {
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) documentStart() {
	r.dst = append(r.dst, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n"...)
	if r.Title != "" {
		r.dst = appendStartTag(r.dst, atom.Title, nil)
		r.dst = escapeHTML(r.dst, r.Title)
		r.closeTag(atom.Title)
		r.dst = append(r.dst, '\n')
	}
	r.dst = append(r.dst, "</head>\n<body>\n"...)
}

func (r *renderState) documentEnd() {
	r.dst = append(r.dst, "\n</body>\n</html>\n"...)
}

func appendStartTag(dst []byte, name atom.Atom, attr []html.Attribute) []byte {
	dst = append(dst, '<')
	dst = append(dst, name.String()...)
	for _, a := range attr {
		dst = append(dst, ' ')
		dst = append(dst, a.Key...)
		dst = append(dst, `="`...)
		dst = escapeHTML(dst, a.Val)
		dst = append(dst, '"')
	}
	return append(dst, '>')
}

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	// "&#39;" is shorter than "&apos;" and apos was not in HTML until HTML5.
	`'`, "&#39;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// escapeHTML appends the HTML-escaped version of a string to a byte slice.
func escapeHTML(dst []byte, src string) []byte {
	if !strings.ContainsAny(src, `&'<>"`) {
		return append(dst, src...)
	}
	return append(dst, htmlEscaper.Replace([]byte(src))...)
}

// NormalizeURI percent-encodes any characters in a string
// that are not reserved or unreserved URI characters.
// This is used for transforming link targets
// into strings suitable for href attributes.
func NormalizeURI(s string) string {
	// RFC 3986 reserved and unreserved characters.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	sb := new(strings.Builder)
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			sb.WriteRune(c)
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				skip = 2
				sb.WriteByte('%')
			} else {
				sb.WriteString("%25")
			}
		case (c < 0x80 && (isASCIILetter(byte(c)) || isASCIIDigit(byte(c)))) || strings.ContainsRune(safeSet, c):
			sb.WriteRune(c)
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(urlHexDigit(b >> 4))
				sb.WriteByte(urlHexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F' || isASCIIDigit(c)
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func urlHexDigit(x byte) byte {
	switch {
	case x < 0xa:
		return '0' + x
	case x < 0x10:
		return 'A' + x - 0xa
	default:
		panic("out of bounds")
	}
}
