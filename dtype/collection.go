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
	"sort"
)

// Collection is an integer-indexed instance of an array or sequence
// member. Slots are materialized lazily on first index; an unbounded
// sequence is conceptually infinite. Indices are zero-based.
type Collection struct {
	qualifierKind Kind
	elem          *Node
	dims          []*Dimension
	prefix        string
	slots         map[int]Value
}

// newCollection builds a collection instance for the resolved element
// type elem at the given accessor prefix. dims[0] is this collection's
// own bound; the remainder nest.
func newCollection(kind Kind, elem *Node, dims []*Dimension, prefix string) *Collection {
	return &Collection{
		qualifierKind: kind,
		elem:          elem,
		dims:          dims,
		prefix:        prefix,
		slots:         map[int]Value{},
	}
}

// NewCollection creates a standalone collection instance of the given
// element template under prefix. bound nil makes an unbounded sequence;
// otherwise it must be a positive integer or integral CONST.
func NewCollection(elem *Node, prefix string, bound interface{}) (*Collection, error) {
	var q *AnnotationValue
	var err error
	if bound == nil {
		q, err = Sequence()
	} else {
		q, err = Sequence(bound)
	}
	if err != nil {
		return nil, err
	}
	v, err := memberValueAt(prefix, elem, q)
	if err != nil {
		return nil, err
	}
	c, ok := v.(*Collection)
	if !ok {
		return nil, Errorf(KindMismatch, prefix, "element %s did not produce a collection", elem.name)
	}
	return c, nil
}

// Elem returns the collection's resolved element datatype.
func (c *Collection) Elem() *Node { return c.elem }

// LengthAccessor returns the capacity accessor string: the collection's
// own dot-path, with no index.
func (c *Collection) LengthAccessor() string { return c.prefix }

// Bound returns the collection's capacity. ok is false for an unbounded
// sequence.
func (c *Collection) Bound() (int, bool) {
	d := c.dims[0]
	if d.Unbounded() {
		return 0, false
	}
	n, err := d.Bound()
	if err != nil {
		return 0, false
	}
	return n, true
}

// Len returns the bound for a bounded collection, or the number of
// materialized slots for an unbounded one.
func (c *Collection) Len() int {
	if n, ok := c.Bound(); ok {
		return n
	}
	return len(c.slots)
}

// Index returns the i-th element's value, materializing the slot on first
// read. For a bounded collection i must be in [0, bound).
func (c *Collection) Index(i int) (Value, error) {
	if i < 0 {
		return nil, Errorf(InvalidDimension, c.prefix, "negative index %d", i)
	}
	if n, ok := c.Bound(); ok && i >= n {
		return nil, Errorf(InvalidDimension, c.prefix, "index %d out of bounds %d", i, n)
	}
	if v, ok := c.slots[i]; ok {
		return v, nil
	}
	path := fmt.Sprintf("%s[%d]", c.prefix, i)
	var v Value
	var err error
	if len(c.dims) > 1 {
		v = newCollection(c.qualifierKind, c.elem, c.dims[1:], path)
	} else {
		v, err = scalarValue(c.elem, path)
		if err != nil {
			return nil, err
		}
	}
	c.slots[i] = v
	return v, nil
}

// Materialized returns the indices of the slots read so far, in order.
func (c *Collection) Materialized() []int {
	var out []int
	for i := range c.slots {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// discard unregisters every materialized nested instance.
func (c *Collection) discard() {
	for _, v := range c.slots {
		discardValue(v)
	}
	c.slots = map[int]Value{}
}
