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
	"fmt"
	"strings"
)

// annotationDefn is the body of an annotation datatype: the default
// attribute map, preserved verbatim.
type annotationDefn struct {
	defaults map[string]interface{}
}

func (*annotationDefn) defnKind() Kind { return KindAnnotation }

// AnnotationValue is one use of an annotation datatype: the annotation
// node plus the positional and keyed attributes supplied at the use site.
// For the array and sequence qualifiers the positional attributes are the
// collection bounds.
type AnnotationValue struct {
	node       *Node
	positional []interface{}
	keyed      map[string]interface{}
}

// Annotation returns the annotation datatype this value instantiates.
func (a *AnnotationValue) Annotation() *Node { return a.node }

// Kind returns the kind of the underlying annotation node.
func (a *AnnotationValue) Kind() Kind { return a.node.kind }

// Positional returns the positional attributes in declaration order.
func (a *AnnotationValue) Positional() []interface{} { return a.positional }

// Keyed returns the keyed attributes, merged over the annotation's
// defaults. May be nil.
func (a *AnnotationValue) Keyed() map[string]interface{} { return a.keyed }

// IsCollection reports whether a is an array or sequence qualifier.
func (a *AnnotationValue) IsCollection() bool { return isCollectionKind(a.node.kind) }

// String renders the value the way it appears in IDL annotation comments,
// e.g. "@Key" or "@ID(2)".
func (a *AnnotationValue) String() string {
	var b strings.Builder
	b.WriteString("@" + a.node.name)
	var attrs []string
	for _, p := range a.positional {
		attrs = append(attrs, attrString(p))
	}
	if len(attrs) > 0 {
		b.WriteString("(" + strings.Join(attrs, ", ") + ")")
	}
	return b.String()
}

func attrString(v interface{}) string {
	if n, ok := v.(*Node); ok {
		return n.name
	}
	return fmt.Sprintf("%v", v)
}

// Apply instantiates the annotation datatype n with the given positional
// attributes. For the array and sequence builtins the attributes must be
// positive integers or integral CONST nodes.
func (n *Node) Apply(positional ...interface{}) (*AnnotationValue, error) {
	if n.kind != KindAnnotation && !isCollectionKind(n.kind) {
		return nil, Errorf(KindMismatch, n.name, "cannot instantiate a %v as an annotation", n.kind)
	}
	a := &AnnotationValue{node: n, positional: positional}
	if a.IsCollection() {
		if _, err := a.dimensions(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ApplyKeyed instantiates the annotation n with keyed attributes merged
// over the annotation's defaults.
func (n *Node) ApplyKeyed(attrs map[string]interface{}) (*AnnotationValue, error) {
	if n.kind != KindAnnotation {
		return nil, Errorf(KindMismatch, n.name, "cannot instantiate a %v with keyed attributes", n.kind)
	}
	merged := map[string]interface{}{}
	if d, ok := n.defn.(*annotationDefn); ok {
		for k, v := range d.defaults {
			merged[k] = v
		}
	}
	for k, v := range attrs {
		merged[k] = v
	}
	return &AnnotationValue{node: n, keyed: merged}, nil
}

// Annotation creates an annotation datatype with the given default
// attribute map. The map is preserved verbatim.
func Annotation(name string, defaults map[string]interface{}) (*Node, error) {
	n, _, err := NewTemplate(name, KindAnnotation)
	if err != nil {
		return nil, err
	}
	n.defn = &annotationDefn{defaults: defaults}
	return n, nil
}

// Array returns an array qualifier with the given dimensions. Each
// dimension must be a positive integer or a CONST resolving to one.
func Array(dims ...interface{}) (*AnnotationValue, error) {
	if len(dims) == 0 {
		return nil, Errorf(InvalidDimension, "array", "an array needs at least one dimension")
	}
	return arrayAnnotation.Apply(dims...)
}

// Sequence returns a sequence qualifier. With no argument the sequence is
// unbounded; with one, the bound must be a positive integer or a CONST
// resolving to one.
func Sequence(bound ...interface{}) (*AnnotationValue, error) {
	if len(bound) > 1 {
		return nil, Errorf(InvalidDimension, "sequence", "a sequence takes at most one bound, got %d", len(bound))
	}
	return sequenceAnnotation.Apply(bound...)
}

// Dimension is one resolved collection bound: a literal, a CONST
// reference, or the unbounded marker of a boundless sequence.
type Dimension struct {
	literal   int
	ref       *Node
	unbounded bool
}

// Unbounded reports whether the dimension is the boundless marker.
func (d *Dimension) Unbounded() bool { return d.unbounded }

// Bound returns the dimension's integral bound, resolving a CONST
// reference. Calling Bound on an unbounded dimension is an error.
func (d *Dimension) Bound() (int, error) {
	if d.unbounded {
		return 0, Errorf(InvalidDimension, "", "an unbounded sequence has no bound")
	}
	if d.ref == nil {
		return d.literal, nil
	}
	return constIntBound(d.ref)
}

// Label returns the dimension as it appears in IDL: the literal, or the
// referenced constant's name.
func (d *Dimension) Label() string {
	if d.ref != nil {
		return d.ref.name
	}
	return fmt.Sprintf("%d", d.literal)
}

// newDimension validates v as a collection bound.
func newDimension(v interface{}) (*Dimension, error) {
	switch b := v.(type) {
	case int:
		if b <= 0 {
			return nil, Errorf(InvalidDimension, "", "dimension must be positive, got %d", b)
		}
		return &Dimension{literal: b}, nil
	case int32:
		return newDimension(int(b))
	case int64:
		return newDimension(int(b))
	case *Node:
		if _, err := constIntBound(b); err != nil {
			return nil, err
		}
		return &Dimension{ref: b}, nil
	}
	return nil, Errorf(InvalidDimension, "", "dimension must be an integer or an integral const, got %T", v)
}

// Dimensions expands an array or sequence qualifier into its resolved
// dimension list. A sequence with no positional attribute yields one
// unbounded dimension.
func (a *AnnotationValue) Dimensions() ([]*Dimension, error) {
	return a.dimensions()
}

// dimensions expands an array or sequence qualifier into its resolved
// dimension list. A sequence with no positional attribute yields one
// unbounded dimension.
func (a *AnnotationValue) dimensions() ([]*Dimension, error) {
	switch a.node.kind {
	case KindSequence:
		if len(a.positional) == 0 {
			return []*Dimension{{unbounded: true}}, nil
		}
		d, err := newDimension(a.positional[0])
		if err != nil {
			return nil, err
		}
		return []*Dimension{d}, nil
	case KindArray:
		var out []*Dimension
		for _, p := range a.positional {
			d, err := newDimension(p)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	}
	return nil, Errorf(KindMismatch, a.node.name, "%v is not a collection qualifier", a.node.kind)
}

// constIntBound resolves n as a positive integral bound.
func constIntBound(n *Node) (int, error) {
	if n.kind != KindConst {
		return 0, Errorf(InvalidDimension, n.name, "dimension reference must be a const, got %v", n.kind)
	}
	cd := n.defn.(*constDefn)
	base, _ := Resolve(cd.atom)
	if !isIntegralAtom(base) {
		return 0, Errorf(InvalidDimension, n.name, "dimension const must be integral, is %s", base.name)
	}
	var b int
	switch v := cd.value.(type) {
	case int64:
		b = int(v)
	case uint64:
		b = int(v)
	case int:
		b = v
	default:
		return 0, Errorf(InvalidDimension, n.name, "dimension const holds a non-integer %T", cd.value)
	}
	if b <= 0 {
		return 0, Errorf(InvalidDimension, n.name, "dimension must be positive, got %d", b)
	}
	return b, nil
}
