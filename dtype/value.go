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

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Value is one field of an instance: an Accessor leaf, an enum Ordinal, a
// nested *Instance, or a *Collection. The set is closed.
type Value interface {
	isValue()
}

// Accessor is a leaf field value: the dot-path accessor string from the
// outermost non-module instance scope down to the field.
type Accessor string

// Ordinal is an enumerator value inside an enum template.
type Ordinal int32

func (Accessor) isValue()    {}
func (Ordinal) isValue()     {}
func (*Instance) isValue()   {}
func (*Collection) isValue() {}

// Instance is a keyed record mirroring a datatype's shape. The canonical
// template is the instance with an empty prefix; user instances are
// created from it with NewInstance under a caller-supplied prefix.
type Instance struct {
	node       *Node
	prefix     string
	isTemplate bool
	fields     map[string]Value

	// disc is the runtime discriminator value of a union instance, set by
	// the user with SetDiscriminator. nil until assigned.
	disc interface{}
}

// Node returns the datatype this instance was created from.
func (i *Instance) Node() *Node { return i.node }

// Prefix returns the accessor prefix the instance was created under; the
// template's prefix is empty.
func (i *Instance) Prefix() string { return i.prefix }

// IsTemplate reports whether i is a canonical template.
func (i *Instance) IsTemplate() bool { return i.isTemplate }

// Field returns the value at role, if present.
func (i *Instance) Field(role string) (Value, bool) {
	v, ok := i.fields[role]
	return v, ok
}

// Roles returns the instance's field names, sorted. Traversals that need
// declaration order walk the node's definition instead.
func (i *Instance) Roles() []string {
	r := maps.Keys(i.fields)
	sort.Strings(r)
	return r
}

// String returns the instance's textual stand-in: the datatype's canonical
// name for the leaf-kind templates (atom, enum, typedef), otherwise the
// accessor prefix.
func (i *Instance) String() string {
	if i.isTemplate {
		switch i.node.kind {
		case KindAtom, KindEnum, KindTypedef:
			return i.node.name
		}
	}
	return i.prefix
}

// OrdinalOf returns the ordinal of an enumerator key on an enum template.
func (i *Instance) OrdinalOf(name string) (int32, bool) {
	if o, ok := i.fields[name].(Ordinal); ok {
		return int32(o), true
	}
	return 0, false
}

// Template returns the canonical template of x, which may be a *Node or
// any *Instance created from one.
func Template(x interface{}) *Instance {
	switch v := x.(type) {
	case *Node:
		return v.template
	case *Instance:
		return v.node.template
	}
	return nil
}

// IsCollection reports whether x is a collection instance or an
// array/sequence qualifier value.
func IsCollection(x interface{}) bool {
	switch v := x.(type) {
	case *Collection:
		return true
	case *AnnotationValue:
		return v.IsCollection()
	}
	return false
}
