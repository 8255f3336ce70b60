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

// Package htmlcheck inspects converter output:
// it verifies that every element is closed
// and normalizes away differences that do not change the document.
package htmlcheck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Balanced returns an error if b contains an end tag
// that does not match the innermost open element,
// or if any element is left open at the end.
func Balanced(b []byte) error {
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var stack []string
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if err := tok.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			if len(stack) > 0 {
				return fmt.Errorf("unclosed elements %q", stack)
			}
			return nil
		case html.StartTagToken:
			name, _ := tok.TagName()
			if isVoid(string(name)) {
				continue
			}
			stack = append(stack, string(name))
		case html.EndTagToken:
			name, _ := tok.TagName()
			if len(stack) == 0 {
				return fmt.Errorf("</%s> without matching start tag", name)
			}
			if top := stack[len(stack)-1]; top != string(name) {
				return fmt.Errorf("</%s> closes <%s>", name, top)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func isVoid(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Br, atom.Hr, atom.Img, atom.Input, atom.Meta, atom.Link:
		return true
	default:
		return false
	}
}

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&#39;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// Normalize strips insignificant differences from HTML:
// whitespace around block elements, runs of whitespace outside <pre>,
// attribute order, and character reference spelling.
func Normalize(b []byte) []byte {
	type attribute struct {
		key   string
		value string
	}

	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var output []byte
	last := html.StartTagToken
	var lastTag string
	preDepth := 0
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return output
		case html.TextToken:
			data := tok.Text()
			if preDepth == 0 {
				data = whitespaceRE.ReplaceAll(data, []byte(" "))
				if isBlockTag(lastTag) {
					switch last {
					case html.StartTagToken:
						data = bytes.TrimLeftFunc(data, unicode.IsSpace)
					case html.EndTagToken:
						data = bytes.TrimSpace(data)
					}
				}
			}
			output = append(output, htmlEscaper.Replace(bytes.Clone(data))...)
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			if tag == "pre" {
				preDepth--
			} else if isBlockTag(tag) && preDepth == 0 {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "</"...)
			output = append(output, tag...)
			output = append(output, '>')
			lastTag = tag
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			tag := string(tagBytes)
			if isBlockTag(tag) && preDepth == 0 {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			if tag == "pre" {
				preDepth++
			}
			output = append(output, '<')
			output = append(output, tag...)
			if hasAttr {
				var attrs []attribute
				for {
					k, v, more := tok.TagAttr()
					attrs = append(attrs, attribute{string(k), string(v)})
					if !more {
						break
					}
				}
				sort.Slice(attrs, func(i, j int) bool {
					return attrs[i].key < attrs[j].key
				})
				for _, attr := range attrs {
					output = append(output, ' ')
					output = append(output, attr.key...)
					output = append(output, `="`...)
					output = append(output, htmlEscaper.Replace([]byte(attr.value))...)
					output = append(output, '"')
				}
			}
			output = append(output, '>')
			lastTag = tag
		}

		last = tt
		if tt == html.SelfClosingTagToken {
			last = html.EndTagToken
		}
	}
}

var blockTags = map[atom.Atom]struct{}{
	atom.Aside:      {},
	atom.Blockquote: {},
	atom.Body:       {},
	atom.Dd:         {},
	atom.Div:        {},
	atom.Dl:         {},
	atom.Dt:         {},
	atom.H1:         {},
	atom.H2:         {},
	atom.H3:         {},
	atom.H4:         {},
	atom.H5:         {},
	atom.H6:         {},
	atom.Head:       {},
	atom.Html:       {},
	atom.Li:         {},
	atom.Ol:         {},
	atom.P:          {},
	atom.Pre:        {},
	atom.Section:    {},
	atom.Title:      {},
	atom.Ul:         {},
}

func isBlockTag(tag string) bool {
	_, ok := blockTags[atom.Lookup([]byte(tag))]
	return ok
}
