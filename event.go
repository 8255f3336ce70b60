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

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EventKind is an enumeration of values in [Event.Kind].
type EventKind uint8

const (
	OpenTagEvent EventKind = 1 + iota
	TextEvent
	CloseTagEvent
)

// An Event is a single step of parser output.
// Every OpenTagEvent is matched by a later CloseTagEvent with the same Tag.
type Event struct {
	Kind EventKind
	// Tag is the element for OpenTagEvent and CloseTagEvent.
	Tag atom.Atom
	// Attr is only set on OpenTagEvent.
	Attr []html.Attribute
	// Text is the unescaped content of a TextEvent.
	Text string
}

// OpenTag returns an OpenTagEvent.
func OpenTag(tag atom.Atom, attr ...html.Attribute) Event {
	return Event{Kind: OpenTagEvent, Tag: tag, Attr: attr}
}

// Text returns a TextEvent.
func Text(s string) Event {
	return Event{Kind: TextEvent, Text: s}
}

// CloseTag returns a CloseTagEvent.
func CloseTag(tag atom.Atom) Event {
	return Event{Kind: CloseTagEvent, Tag: tag}
}

func (ev Event) String() string {
	switch ev.Kind {
	case OpenTagEvent:
		s := "<" + ev.Tag.String()
		for _, a := range ev.Attr {
			s += fmt.Sprintf(" %s=%q", a.Key, a.Val)
		}
		return s + ">"
	case TextEvent:
		return fmt.Sprintf("%q", ev.Text)
	case CloseTagEvent:
		return "</" + ev.Tag.String() + ">"
	default:
		return fmt.Sprintf("Event{Kind: %d}", ev.Kind)
	}
}

func classAttr(class string) []html.Attribute {
	if class == "" {
		return nil
	}
	return []html.Attribute{{Key: "class", Val: class}}
}
