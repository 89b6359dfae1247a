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

// Package dtype implements the live X-Types datatype meta-model: tagged
// datatype nodes, canonical templates, user instances whose fields are
// dot-path accessor strings, and the propagation machinery that keeps
// every instance consistent under structural mutation.
package dtype

// Kind is the discriminant tag of a datatype node. The set is closed; a
// node's kind is fixed at creation.
type Kind int

const (
	// KindAnnotation tags an annotation datatype carrying an opaque
	// attribute map.
	KindAnnotation Kind = iota
	// KindAtom tags a primitive datatype, optionally dimensioned
	// (string<N>, wstring<N>).
	KindAtom
	// KindConst tags an immutable (atom, value) pair.
	KindConst
	// KindEnum tags an enumeration.
	KindEnum
	// KindStruct tags an aggregated datatype with optional single
	// inheritance.
	KindStruct
	// KindUnion tags a discriminated datatype.
	KindUnion
	// KindModule tags a named, ordered container of datatypes.
	KindModule
	// KindTypedef tags an alias, optionally with a collection qualifier.
	KindTypedef

	// KindArray and KindSequence are the internal qualifier kinds: the two
	// builtin annotations whose positional attributes are collection
	// bounds.
	KindArray
	KindSequence
)

var kindNames = map[Kind]string{
	KindAnnotation: "annotation",
	KindAtom:       "atom",
	KindConst:      "const",
	KindEnum:       "enum",
	KindStruct:     "struct",
	KindUnion:      "union",
	KindModule:     "module",
	KindTypedef:    "typedef",
	KindArray:      "array",
	KindSequence:   "sequence",
}

// String implements the stringer#String method.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// isCollectionKind reports whether k is one of the qualifier kinds.
func isCollectionKind(k Kind) bool {
	return k == KindArray || k == KindSequence
}
