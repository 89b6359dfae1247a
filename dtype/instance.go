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

// Resolve unwraps a typedef chain, collecting every collection qualifier
// it crosses in outermost-to-innermost order, and returns the terminal
// non-typedef node with that chain. The walk is guarded against loops;
// SetAlias refuses to create them.
func Resolve(t *Node) (*Node, []*AnnotationValue) {
	var chain []*AnnotationValue
	seen := map[*Node]bool{}
	for t != nil && t.kind == KindTypedef {
		if seen[t] {
			return t, chain
		}
		seen[t] = true
		td := t.defn.(*typedefDefn)
		if td.coll != nil {
			chain = append(chain, td.coll)
		}
		t = td.alias
	}
	return t, chain
}

// joinPath appends role to prefix with a dot, or returns role alone when
// the prefix is empty (the template case).
func joinPath(prefix, role string) string {
	if prefix == "" {
		return role
	}
	return prefix + "." + role
}

// memberValue computes the value of a member with the given role under an
// instance prefix: a collection instance, a nested instance, or an
// accessor-string leaf, per the member's resolved type.
func memberValue(prefix, role string, typ *Node, coll *AnnotationValue) (Value, error) {
	return memberValueAt(joinPath(prefix, role), typ, coll)
}

// memberValueAt is memberValue with the full path already joined.
func memberValueAt(path string, typ *Node, coll *AnnotationValue) (Value, error) {
	base, chain := Resolve(typ)
	if base == nil {
		return nil, Errorf(KindMismatch, path, "type resolves to nothing")
	}
	var dims []*Dimension
	kind := KindSequence
	if coll != nil {
		ds, err := coll.dimensions()
		if err != nil {
			return nil, err
		}
		dims = append(dims, ds...)
		kind = coll.Kind()
	}
	for _, q := range chain {
		ds, err := q.dimensions()
		if err != nil {
			return nil, err
		}
		if len(dims) == 0 {
			kind = q.Kind()
		}
		dims = append(dims, ds...)
	}
	if len(dims) > 0 {
		return newCollection(kind, base, dims, path), nil
	}
	return scalarValue(base, path)
}

// scalarValue computes the non-collection value of a resolved type at
// path: a nested instance for struct/union, an accessor leaf otherwise.
func scalarValue(base *Node, path string) (Value, error) {
	switch base.kind {
	case KindStruct, KindUnion:
		return buildInstanceAt(base, path)
	case KindAtom, KindEnum:
		return Accessor(path), nil
	}
	return nil, Errorf(KindMismatch, path, "a %v cannot be a member type", base.kind)
}

// buildInstanceAt deep-builds an instance of node under prefix and
// registers it with node and every struct on node's inheritance chain.
func buildInstanceAt(node *Node, prefix string) (*Instance, error) {
	inst := &Instance{
		node:   node,
		prefix: prefix,
		fields: map[string]Value{},
	}
	switch d := node.defn.(type) {
	case *structDefn:
		for _, m := range inheritedMembers(node) {
			v, err := memberValue(prefix, m.Role, m.Type, m.Collection)
			if err != nil {
				return nil, err
			}
			inst.fields[m.Role] = v
		}
		for _, m := range d.members {
			v, err := memberValue(prefix, m.Role, m.Type, m.Collection)
			if err != nil {
				return nil, err
			}
			inst.fields[m.Role] = v
		}
	case *unionDefn:
		inst.fields[DiscriminatorRole] = Accessor(joinPath(prefix, DiscriminatorRole))
		for _, c := range d.cases {
			if c.Member == nil {
				continue
			}
			v, err := memberValue(prefix, c.Member.Role, c.Member.Type, c.Member.Collection)
			if err != nil {
				return nil, err
			}
			inst.fields[c.Member.Role] = v
		}
	default:
		return nil, Errorf(KindMismatch, prefix, "cannot instantiate a %v", node.kind)
	}
	node.register(inst)
	return inst, nil
}

// inheritedMembers returns the members a struct inherits from its base
// chain, rootmost base first, in declaration order.
func inheritedMembers(n *Node) []*Member {
	sd, ok := n.defn.(*structDefn)
	if !ok || sd.base == nil {
		return nil
	}
	base, _ := Resolve(sd.base)
	if base == nil || base.kind != KindStruct {
		return nil
	}
	out := append([]*Member{}, inheritedMembers(base)...)
	return append(out, base.defn.(*structDefn).members...)
}

// NewInstance creates a live instance of t (a *Node or *Instance) whose
// fields are accessor strings prefixed by name. t must resolve to a
// struct or union without crossing a collection qualifier; collection
// instances are created with NewCollection.
func NewInstance(t interface{}, name string) (*Instance, error) {
	var node *Node
	switch v := t.(type) {
	case *Node:
		node = v
	case *Instance:
		node = v.node
	default:
		return nil, Errorf(KindMismatch, name, "cannot instantiate a %T", t)
	}
	base, chain := Resolve(node)
	if base == nil {
		return nil, Errorf(KindMismatch, name, "%s resolves to nothing", node.name)
	}
	if len(chain) > 0 {
		return nil, Errorf(KindMismatch, name, "%s is a collection; use NewCollection", node.name)
	}
	if base.kind != KindStruct && base.kind != KindUnion {
		return nil, Errorf(KindMismatch, name, "cannot instantiate a %v", base.kind)
	}
	return buildInstanceAt(base, name)
}

// Discard unregisters i (and every nested instance it holds) from the
// instance sets of its datatype and that datatype's base chain, ending
// propagation into it. Templates cannot be discarded.
func (i *Instance) Discard() {
	if i.isTemplate {
		return
	}
	for _, v := range i.fields {
		discardValue(v)
	}
	i.node.unregister(i)
}

// discardValue unregisters any instances nested under v.
func discardValue(v Value) {
	switch x := v.(type) {
	case *Instance:
		x.Discard()
	case *Collection:
		x.discard()
	}
}
