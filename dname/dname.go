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

// Package dname resolves qualified IDL names against the meta-model:
// outward scope walking for the head segment, child lookup with typedef
// dereference for the rest, and enumerator leakage into the enclosing
// module scope.
package dname

import (
	"strings"

	"github.com/rticommunity/ddsl-go/dtype"
)

// xmlAliases maps the XML naming convention for builtin types to the IDL
// atom names.
var xmlAliases = map[string]string{
	"unsignedShort":    "unsigned_short",
	"unsignedLong":     "unsigned_long",
	"unsignedLongLong": "unsigned_long_long",
	"longLong":         "long_long",
	"longDouble":       "long_double",
	"byte":             "octet",
}

// builtinAtoms maps IDL names to the builtin atom nodes.
var builtinAtoms = map[string]*dtype.Node{
	"boolean":            dtype.Boolean,
	"octet":              dtype.Octet,
	"char":               dtype.Char,
	"wchar":              dtype.WChar,
	"float":              dtype.Float,
	"double":             dtype.Double,
	"long_double":        dtype.LongDouble,
	"short":              dtype.Short,
	"long":               dtype.Long,
	"long_long":          dtype.LongLong,
	"unsigned_short":     dtype.UnsignedShort,
	"unsigned_long":      dtype.UnsignedLong,
	"unsigned_long_long": dtype.UnsignedLongLong,
	"string":             dtype.StringAtom,
	"wstring":            dtype.WStringAtom,
}

// Builtin returns the builtin atom for an IDL name or one of its XML
// aliases, or nil.
func Builtin(name string) *dtype.Node {
	if alias, ok := xmlAliases[name]; ok {
		name = alias
	}
	return builtinAtoms[name]
}

// Resolve looks up a qualified name from the scope ns. Segments are
// joined by "::"; a leading "::" resolves from the root scope. The head
// segment walks outward through enclosing modules; every later segment
// must be a direct child of the previously resolved scope, dereferencing
// typedefs. A segment naming an enumerator of an enum in scope resolves
// to (nil, enumerator) — the IDL leakage rule. Builtin atom names and
// their XML aliases resolve anywhere.
func Resolve(name string, ns *dtype.Node) (*dtype.Node, string, error) {
	if name == "" {
		return nil, "", dtype.Errorf(dtype.UnresolvedName, "", "empty name")
	}
	abs := strings.HasPrefix(name, "::")
	segs := strings.Split(strings.TrimPrefix(name, "::"), "::")

	var cur *dtype.Node
	var enumerator string
	head := segs[0]
	if abs {
		if ns == nil {
			return nil, "", dtype.Errorf(dtype.UnresolvedName, name, "no scope for an absolute name")
		}
		cur, enumerator = findInScope(dtype.NSRoot(ns), head)
	} else {
		for s := ns; s != nil; s = s.NS() {
			cur, enumerator = findInScope(s, head)
			if cur != nil || enumerator != "" {
				break
			}
		}
	}
	if cur == nil && enumerator == "" {
		if len(segs) == 1 {
			if atom := Builtin(head); atom != nil {
				return atom, "", nil
			}
		}
		return nil, "", dtype.Errorf(dtype.UnresolvedName, name, "%q not found from %s", head, scopeName(ns))
	}

	for _, seg := range segs[1:] {
		if enumerator != "" {
			return nil, "", dtype.Errorf(dtype.UnresolvedName, name, "enumerator %q is not a scope", enumerator)
		}
		scope := deref(cur)
		switch scope.Kind() {
		case dtype.KindModule:
			cur, enumerator = findInScope(scope, seg)
			if cur == nil && enumerator == "" {
				return nil, "", dtype.Errorf(dtype.UnresolvedName, name, "%q has no member %q", scopeName(scope), seg)
			}
		case dtype.KindEnum:
			if scope.HasEnumerator(seg) {
				cur, enumerator = nil, seg
				continue
			}
			return nil, "", dtype.Errorf(dtype.UnresolvedName, name, "%s has no enumerator %q", scope.Name(), seg)
		default:
			return nil, "", dtype.Errorf(dtype.UnresolvedName, name, "a %v is not a scope", scope.Kind())
		}
	}
	return cur, enumerator, nil
}

// findInScope looks seg up directly in module s: a child of that name,
// or an enumerator leaked from an enum child.
func findInScope(s *dtype.Node, seg string) (*dtype.Node, string) {
	if s.Kind() != dtype.KindModule {
		return nil, ""
	}
	if c := s.Child(seg); c != nil {
		return c, ""
	}
	for _, c := range s.Children() {
		if c.Kind() == dtype.KindEnum && c.HasEnumerator(seg) {
			return nil, seg
		}
	}
	return nil, ""
}

// deref unwraps typedefs so qualified lookups cross aliases.
func deref(n *dtype.Node) *dtype.Node {
	if n.Kind() != dtype.KindTypedef {
		return n
	}
	base, _ := dtype.Resolve(n)
	return base
}

func scopeName(n *dtype.Node) string {
	if n == nil {
		return "<nil>"
	}
	if q := dtype.NSName(n, nil); q != "" {
		return q
	}
	return "<root>"
}
