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

package dtype

import "fmt"

// atomDefn is the body of an atom: an optional dimension. A dimensionless
// atom is one of the builtins; only string and wstring gain a dimension.
type atomDefn struct {
	dim *Dimension
}

func (*atomDefn) defnKind() Kind { return KindAtom }

// Builtin atoms, created at init and alive for the process. These are the
// only dimensionless atoms; user code never constructs atoms directly.
var (
	Boolean          = builtinAtom("boolean")
	Octet            = builtinAtom("octet")
	Char             = builtinAtom("char")
	WChar            = builtinAtom("wchar")
	Float            = builtinAtom("float")
	Double           = builtinAtom("double")
	LongDouble       = builtinAtom("long_double")
	Short            = builtinAtom("short")
	Long             = builtinAtom("long")
	LongLong         = builtinAtom("long_long")
	UnsignedShort    = builtinAtom("unsigned_short")
	UnsignedLong     = builtinAtom("unsigned_long")
	UnsignedLongLong = builtinAtom("unsigned_long_long")
	StringAtom       = builtinAtom("string")
	WStringAtom      = builtinAtom("wstring")
)

// Builtin annotations, created at init and alive for the process.
var (
	Key            = builtinAnnotation("Key")
	ID             = builtinAnnotation("ID")
	Optional       = builtinAnnotation("Optional")
	MustUnderstand = builtinAnnotation("MustUnderstand")
	Shared         = builtinAnnotation("Shared")
	BitBound       = builtinAnnotation("BitBound")
	BitSet         = builtinAnnotation("BitSet")
	Extensibility  = builtinAnnotation("Extensibility")
	Nested         = builtinAnnotation("Nested")
	TopLevel       = builtinAnnotation("top_level")

	arrayAnnotation    = builtinQualifier("array", KindArray)
	sequenceAnnotation = builtinQualifier("sequence", KindSequence)
)

// atomCache deduplicates dimensioned atoms by canonical name, so repeated
// String(128) calls return the same node.
var atomCache = map[string]*Node{}

func builtinAtom(name string) *Node {
	n, _, err := NewTemplate(name, KindAtom)
	if err != nil {
		panic(err)
	}
	return n
}

func builtinAnnotation(name string) *Node {
	n, err := Annotation(name, nil)
	if err != nil {
		panic(err)
	}
	return n
}

func builtinQualifier(name string, kind Kind) *Node {
	n := &Node{
		kind:       kind,
		name:       name,
		defn:       &annotationDefn{},
		instances:  map[*Instance]bool{},
		dependents: map[dependent]bool{},
	}
	return n
}

// String returns the string atom: dimensionless with no argument, or the
// cached string<n> atom for a positive integer or integral CONST bound.
func String(dim ...interface{}) (*Node, error) {
	return dimensionedAtom(StringAtom, dim)
}

// WString returns the wstring atom, dimensioned like String.
func WString(dim ...interface{}) (*Node, error) {
	return dimensionedAtom(WStringAtom, dim)
}

func dimensionedAtom(base *Node, dim []interface{}) (*Node, error) {
	if len(dim) == 0 {
		return base, nil
	}
	if len(dim) > 1 {
		return nil, Errorf(InvalidDimension, base.name, "%s takes at most one dimension, got %d", base.name, len(dim))
	}
	d, err := newDimension(dim[0])
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s<%s>", base.name, d.Label())
	if cached, ok := atomCache[name]; ok {
		return cached, nil
	}
	n, _, err := NewTemplate(name, KindAtom)
	if err != nil {
		return nil, err
	}
	n.defn = &atomDefn{dim: d}
	atomCache[name] = n
	return n, nil
}

// Dimension returns the atom's dimension, or nil for a dimensionless atom.
func (n *Node) Dimension() *Dimension {
	if ad, ok := n.defn.(*atomDefn); ok {
		return ad.dim
	}
	return nil
}

// BaseAtomName returns the builtin name of an atom without its dimension,
// e.g. "string" for string<128>.
func BaseAtomName(n *Node) string {
	if n.kind != KindAtom {
		return ""
	}
	for i := 0; i < len(n.name); i++ {
		if n.name[i] == '<' {
			return n.name[:i]
		}
	}
	return n.name
}

func isIntegralAtom(n *Node) bool {
	if n == nil || n.kind != KindAtom {
		return false
	}
	switch BaseAtomName(n) {
	case "octet", "short", "long", "long_long",
		"unsigned_short", "unsigned_long", "unsigned_long_long":
		return true
	}
	return false
}

func isStringAtom(n *Node) bool {
	if n == nil || n.kind != KindAtom {
		return false
	}
	switch BaseAtomName(n) {
	case "string", "wstring":
		return true
	}
	return false
}

func isCharAtom(n *Node) bool {
	if n == nil || n.kind != KindAtom {
		return false
	}
	switch BaseAtomName(n) {
	case "char", "wchar":
		return true
	}
	return false
}

func isUnsignedAtom(n *Node) bool {
	if n == nil || n.kind != KindAtom {
		return false
	}
	switch BaseAtomName(n) {
	case "octet", "unsigned_short", "unsigned_long", "unsigned_long_long":
		return true
	}
	return false
}

func isFloatAtom(n *Node) bool {
	if n == nil || n.kind != KindAtom {
		return false
	}
	switch BaseAtomName(n) {
	case "float", "double", "long_double":
		return true
	}
	return false
}
