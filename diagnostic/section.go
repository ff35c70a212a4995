// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diagnostic provides the Section tree used to describe decoded
// transactions and blocks. Sections are built with chained calls and are
// treated as immutable once handed to a caller.
package diagnostic

import (
	"encoding/hex"
	"fmt"
)

// Attribute is a named display value. A nil Value records that the value
// is absent and is marshaled as null.
type Attribute struct {
	Topic string  `json:"topic"`
	Value *string `json:"value"`
}

// Section is a node in the diagnostic tree. Attributes and Children keep
// their insertion order.
type Section struct {
	Topic      *string     `json:"topic"`
	Identity   *string     `json:"identity"`
	Error      *string     `json:"error"`
	Attributes []Attribute `json:"attributes"`
	Bytes      *string     `json:"bytes"`
	Children   []*Section  `json:"children"`
}

// New returns an empty section
func New() *Section {
	return &Section{
		Attributes: []Attribute{},
		Children:   []*Section{},
	}
}

// ErrorSection returns a section carrying only the error text
func ErrorSection(err error) *Section {
	return New().WithError(err)
}

func (s *Section) WithTopic(topic string) *Section {
	s.Topic = &topic
	return s
}

func (s *Section) WithIdentity(identity string) *Section {
	s.Identity = &identity
	return s
}

func (s *Section) WithError(err error) *Section {
	if err == nil {
		return s
	}
	msg := err.Error()
	s.Error = &msg
	return s
}

// WithBytes stores the hex form of data
func (s *Section) WithBytes(data []byte) *Section {
	tmp := hex.EncodeToString(data)
	s.Bytes = &tmp
	return s
}

// WithAttr appends an attribute whose value is always present. The value
// is rendered with fmt.Sprint.
func (s *Section) WithAttr(topic string, value any) *Section {
	tmp := fmt.Sprint(value)
	s.Attributes = append(
		s.Attributes,
		Attribute{Topic: topic, Value: &tmp},
	)
	return s
}

// WithMaybeAttr appends an attribute that may be absent. Use Maybe to turn
// an optional value into the expected form.
func (s *Section) WithMaybeAttr(topic string, value *string) *Section {
	s.Attributes = append(
		s.Attributes,
		Attribute{Topic: topic, Value: value},
	)
	return s
}

// PushChild appends child
func (s *Section) PushChild(child *Section) *Section {
	s.Children = append(s.Children, child)
	return s
}

// MaybePushChild appends child when it is not nil
func (s *Section) MaybePushChild(child *Section) *Section {
	if child == nil {
		return s
	}
	return s.PushChild(child)
}

// BuildChild appends the section returned by f
func (s *Section) BuildChild(f func() *Section) *Section {
	return s.PushChild(f())
}

// TryBuildChild appends the section returned by f. When f fails, nothing is
// appended and the error is recorded on s instead.
func (s *Section) TryBuildChild(f func() (*Section, error)) *Section {
	child, err := f()
	if err != nil {
		return s.WithError(err)
	}
	return s.MaybePushChild(child)
}

// CollectChildren replaces the children of s
func (s *Section) CollectChildren(children []*Section) *Section {
	s.Children = make([]*Section, 0, len(children))
	for _, child := range children {
		s.MaybePushChild(child)
	}
	return s
}

// AppendChildren appends children after any existing ones
func (s *Section) AppendChildren(children []*Section) *Section {
	for _, child := range children {
		s.MaybePushChild(child)
	}
	return s
}

// Attr returns the value of the first attribute with the given topic
func (s *Section) Attr(topic string) (*string, bool) {
	for _, attr := range s.Attributes {
		if attr.Topic == topic {
			return attr.Value, true
		}
	}
	return nil, false
}

// Child returns the first child with the given topic
func (s *Section) Child(topic string) *Section {
	for _, child := range s.Children {
		if child.Topic != nil && *child.Topic == topic {
			return child
		}
	}
	return nil
}

// Maybe renders an optional value for WithMaybeAttr
func Maybe[T any](v *T) *string {
	if v == nil {
		return nil
	}
	tmp := fmt.Sprint(*v)
	return &tmp
}

// MaybeHex renders optional bytes as hex for WithMaybeAttr
func MaybeHex(data []byte) *string {
	if data == nil {
		return nil
	}
	tmp := hex.EncodeToString(data)
	return &tmp
}
