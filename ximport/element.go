// Copyright 2024 Real-Time Innovations, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ximport builds the datatype meta-model from the XML schema
// dialect: a tag-driven importer over an element tree of
// {label, attrs, children}.
package ximport

import (
	"encoding/xml"
	"io"

	"github.com/rticommunity/ddsl-go/dtype"
)

// Element is one parsed XML element: its tag, attributes and child
// elements. Character data is ignored; the dialect is attribute-driven.
type Element struct {
	Label    string
	Attrs    map[string]string
	Children []*Element
}

// Attr returns the attribute value, or "" when absent.
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// ParseElements reads an XML document from r and returns its top-level
// elements. name labels the source in errors.
func ParseElements(r io.Reader, name string) ([]*Element, error) {
	dec := xml.NewDecoder(r)
	var roots []*Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dtype.Errorf(dtype.ParseError, name, "%v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Label: t.Name.Local, Attrs: map[string]string{}}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				roots = append(roots, el)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, dtype.Errorf(dtype.ParseError, name, "unexpected </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		return nil, dtype.Errorf(dtype.ParseError, name, "unclosed <%s>", stack[len(stack)-1].Label)
	}
	return roots, nil
}
