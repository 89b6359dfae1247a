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

// Package dwalk flattens instances to their (accessor, value) pairs with
// a depth-first walk: structs visit their base chain first against the
// same instance, unions visit the discriminator then the selected
// member, collections visit the capacity then the materialized slots.
package dwalk

import (
	"fmt"

	"github.com/rticommunity/ddsl-go/dtype"
	"github.com/rticommunity/ddsl-go/util"
)

// Pair is one flattened line: an accessor string and its value rendering.
type Pair struct {
	Accessor string
	Value    string
}

// String implements the stringer#String method.
func (p Pair) String() string {
	return p.Accessor + " = " + p.Value
}

// Walk flattens x, a *dtype.Instance or *dtype.Collection, to its
// (accessor, value) pairs in declaration order.
func Walk(x interface{}) ([]Pair, error) {
	var out []Pair
	err := Visit(x, func(p Pair) {
		out = append(out, p)
	})
	return out, err
}

// Visit walks x depth-first calling fn for every flattened pair.
func Visit(x interface{}, fn func(Pair)) error {
	switch v := x.(type) {
	case *dtype.Instance:
		return visitInstance(v, fn)
	case *dtype.Collection:
		return visitCollection(v, fn)
	}
	return dtype.Errorf(dtype.KindMismatch, "", "cannot walk a %T", x)
}

func visitInstance(inst *dtype.Instance, fn func(Pair)) error {
	n := inst.Node()
	switch n.Kind() {
	case dtype.KindStruct:
		for _, m := range chainMembers(n) {
			if err := visitRole(inst, m.Role, fn); err != nil {
				return err
			}
		}
		for _, m := range n.Members() {
			if err := visitRole(inst, m.Role, fn); err != nil {
				return err
			}
		}
		return nil
	case dtype.KindUnion:
		d, _ := inst.Field(dtype.DiscriminatorRole)
		acc, _ := d.(dtype.Accessor)
		fn(Pair{Accessor: string(acc), Value: util.Stringify(inst.Discriminator())})
		role, v := inst.Selected()
		if role == "" {
			return nil
		}
		return visitValue(v, fn)
	}
	return dtype.Errorf(dtype.KindMismatch, inst.Prefix(), "cannot walk a %v instance", n.Kind())
}

func visitRole(inst *dtype.Instance, role string, fn func(Pair)) error {
	v, ok := inst.Field(role)
	if !ok {
		return nil
	}
	return visitValue(v, fn)
}

func visitValue(v dtype.Value, fn func(Pair)) error {
	switch x := v.(type) {
	case dtype.Accessor:
		fn(Pair{Accessor: string(x), Value: string(x)})
		return nil
	case *dtype.Instance:
		return visitInstance(x, fn)
	case *dtype.Collection:
		return visitCollection(x, fn)
	}
	return dtype.Errorf(dtype.KindMismatch, "", "cannot walk a %T value", v)
}

func visitCollection(c *dtype.Collection, fn func(Pair)) error {
	fn(Pair{Accessor: c.LengthAccessor(), Value: fmt.Sprintf("%d", c.Len())})
	for _, i := range c.Materialized() {
		v, err := c.Index(i)
		if err != nil {
			return err
		}
		if err := visitValue(v, fn); err != nil {
			return err
		}
	}
	return nil
}

// chainMembers returns the members a struct inherits, rootmost base
// first.
func chainMembers(n *dtype.Node) []*dtype.Member {
	b := n.Base()
	if b == nil {
		return nil
	}
	rb, _ := dtype.Resolve(b)
	if rb == nil || rb.Kind() != dtype.KindStruct {
		return nil
	}
	return append(chainMembers(rb), rb.Members()...)
}
