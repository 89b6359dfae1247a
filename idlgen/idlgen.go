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

// Package idlgen serializes a module tree as OMG IDL source. Output is
// line-accurate: two spaces per indent level, one blank line between
// top-level declarations of the root module, no trailing whitespace.
package idlgen

import (
	"fmt"
	"strings"

	"github.com/rticommunity/ddsl-go/dtype"
)

const indentStep = "  "

// Serialize renders a module tree as IDL text. The anonymous root module
// gets no wrapper: its children print at the top level separated by blank
// lines. A named module prints as module N { ... };.
func Serialize(m *dtype.Node) (string, error) {
	if m.Kind() != dtype.KindModule {
		return "", dtype.Errorf(dtype.KindMismatch, m.Name(), "can only serialize a module, got %v", m.Kind())
	}
	var blocks []string
	if m.Name() == "" {
		for _, c := range m.Children() {
			lines, err := Lines(c, 0)
			if err != nil {
				return "", err
			}
			if len(lines) > 0 {
				blocks = append(blocks, strings.Join(lines, "\n"))
			}
		}
	} else {
		lines, err := Lines(m, 0)
		if err != nil {
			return "", err
		}
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

// Lines renders one datatype as IDL lines at the given indent level.
// Standalone atoms and annotations render as nothing.
func Lines(n *dtype.Node, indent int) ([]string, error) {
	pad := strings.Repeat(indentStep, indent)
	switch n.Kind() {
	case dtype.KindAtom, dtype.KindAnnotation, dtype.KindArray, dtype.KindSequence:
		return nil, nil
	case dtype.KindConst:
		return constLines(n, pad)
	case dtype.KindTypedef:
		return typedefLines(n, pad)
	case dtype.KindEnum:
		return enumLines(n, pad)
	case dtype.KindStruct:
		return structLines(n, indent)
	case dtype.KindUnion:
		return unionLines(n, indent)
	case dtype.KindModule:
		return moduleLines(n, indent)
	}
	return nil, dtype.Errorf(dtype.KindMismatch, n.Name(), "cannot serialize a %v", n.Kind())
}

func constLines(n *dtype.Node, pad string) ([]string, error) {
	v, atom := n.ConstValue()
	return []string{fmt.Sprintf("%sconst %s %s = %s;", pad, atom.Name(), n.Name(), literal(atom, v))}, nil
}

// literal renders a coerced const value the way IDL spells it: 'x' for
// chars, "s" for strings, TRUE/FALSE for booleans.
func literal(atom *dtype.Node, v interface{}) string {
	switch dtype.BaseAtomName(atom) {
	case "char", "wchar":
		return fmt.Sprintf("'%v'", v)
	case "string", "wstring":
		return fmt.Sprintf("%q", v)
	case "boolean":
		if b, ok := v.(bool); ok && b {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmt.Sprintf("%v", v)
}

func typedefLines(n *dtype.Node, pad string) ([]string, error) {
	alias, coll := n.Alias()
	form, name, err := memberForm(alias, coll, n.Name(), n.NS())
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%stypedef %s %s;", pad, form, name)}, nil
}

func enumLines(n *dtype.Node, pad string) ([]string, error) {
	lines := []string{fmt.Sprintf("%senum %s {", pad, n.Name())}
	enums := n.Enumerators()
	for i, e := range enums {
		entry := e.Name
		if e.Explicit {
			entry = fmt.Sprintf("%s = %d", e.Name, e.Ordinal)
		}
		if i < len(enums)-1 {
			entry += ","
		}
		lines = append(lines, pad+indentStep+entry)
	}
	return append(lines, pad+"};"), nil
}

func structLines(n *dtype.Node, indent int) ([]string, error) {
	pad := strings.Repeat(indentStep, indent)
	var lines []string
	for _, q := range n.Qualifiers() {
		lines = append(lines, pad+"//"+q.String())
	}
	header := fmt.Sprintf("%sstruct %s", pad, n.Name())
	if b := n.Base(); b != nil {
		header += " : " + typeName(b, n.NS())
	}
	lines = append(lines, header+" {")
	for _, m := range n.Members() {
		ml, err := memberLine(m, n.NS(), pad+indentStep)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ml)
	}
	return append(lines, pad+"};"), nil
}

func unionLines(n *dtype.Node, indent int) ([]string, error) {
	pad := strings.Repeat(indentStep, indent)
	var lines []string
	for _, q := range n.Qualifiers() {
		lines = append(lines, pad+"//"+q.String())
	}
	disc := n.Discriminator()
	lines = append(lines, fmt.Sprintf("%sunion %s switch(%s) {", pad, n.Name(), typeName(disc, n.NS())))
	for _, c := range n.Cases() {
		for _, v := range c.Values {
			lines = append(lines, fmt.Sprintf("%scase %s :", pad+indentStep, caseValue(disc, v)))
		}
		if c.Default {
			lines = append(lines, pad+indentStep+"default :")
		}
		if c.Member != nil {
			ml, err := memberLine(c.Member, n.NS(), pad+indentStep+indentStep)
			if err != nil {
				return nil, err
			}
			lines = append(lines, ml)
		}
	}
	return append(lines, pad+"};"), nil
}

// caseValue renders a normalized case value for the discriminator type:
// quoted for chars, TRUE/FALSE for booleans, bare otherwise.
func caseValue(disc *dtype.Node, v interface{}) string {
	base, _ := dtype.Resolve(disc)
	if base != nil && base.Kind() == dtype.KindAtom {
		switch dtype.BaseAtomName(base) {
		case "char", "wchar":
			return fmt.Sprintf("'%v'", v)
		case "boolean":
			if b, ok := v.(bool); ok && b {
				return "TRUE"
			}
			return "FALSE"
		}
	}
	return fmt.Sprintf("%v", v)
}

func moduleLines(n *dtype.Node, indent int) ([]string, error) {
	pad := strings.Repeat(indentStep, indent)
	if len(n.Children()) == 0 {
		return []string{fmt.Sprintf("%smodule %s { };", pad, n.Name())}, nil
	}
	lines := []string{fmt.Sprintf("%smodule %s {", pad, n.Name())}
	for _, c := range n.Children() {
		cl, err := Lines(c, indent+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, cl...)
	}
	return append(lines, pad+"};"), nil
}

// typeName renders a type reference relative to the enclosing scope:
// atoms by canonical name, everything else by qualified name with the
// shared scope prefix stripped.
func typeName(t *dtype.Node, scope *dtype.Node) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == dtype.KindAtom {
		return t.Name()
	}
	if scope != nil {
		if rel := relativeName(t, scope); rel != "" {
			return rel
		}
	}
	if q := dtype.NSName(t, nil); q != "" {
		return q
	}
	return t.Name()
}

// relativeName returns t's qualified name with scope's prefix stripped
// when scope (or one of its ancestors) encloses t, or "" otherwise.
func relativeName(t *dtype.Node, scope *dtype.Node) string {
	for s := scope; s != nil; s = s.NS() {
		rel := dtype.NSName(t, s)
		full := dtype.NSName(t, nil)
		if rel != full || enclosedBy(t, s) {
			return rel
		}
	}
	return ""
}

func enclosedBy(t *dtype.Node, s *dtype.Node) bool {
	for p := t.NS(); p != nil; p = p.NS() {
		if p == s {
			return true
		}
	}
	return false
}

// memberForm renders the type part and the (possibly dimensioned) name
// part of a member or typedef declaration: sequences wrap the type,
// arrays append their dimensions to the name.
func memberForm(t *dtype.Node, coll *dtype.AnnotationValue, name string, scope *dtype.Node) (string, string, error) {
	form := typeName(t, scope)
	if coll == nil {
		return form, name, nil
	}
	dims, err := coll.Dimensions()
	if err != nil {
		return "", "", err
	}
	switch coll.Kind() {
	case dtype.KindSequence:
		d := dims[0]
		if d.Unbounded() {
			form = fmt.Sprintf("sequence<%s>", form)
		} else {
			form = fmt.Sprintf("sequence<%s, %s>", form, d.Label())
		}
	case dtype.KindArray:
		for _, d := range dims {
			name += fmt.Sprintf("[%s]", d.Label())
		}
	}
	return form, name, nil
}

// memberLine renders one struct or union member declaration, with any
// annotations trailing as a comment.
func memberLine(m *dtype.Member, scope *dtype.Node, pad string) (string, error) {
	form, name, err := memberForm(m.Type, m.Collection, m.Role, scope)
	if err != nil {
		return "", err
	}
	line := fmt.Sprintf("%s%s %s;", pad, form, name)
	if len(m.Annotations) > 0 {
		var tags []string
		for _, a := range m.Annotations {
			tags = append(tags, a.String())
		}
		line += " //" + strings.Join(tags, " ")
	}
	return line, nil
}
