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

// typedefDefn is the body of a typedef: the aliased type and an optional
// collection qualifier.
type typedefDefn struct {
	alias *Node
	coll  *AnnotationValue
}

func (*typedefDefn) defnKind() Kind { return KindTypedef }

// Typedef creates an alias for a type, optionally through a collection
// qualifier. coll may be nil.
func Typedef(name string, alias *Node, coll *AnnotationValue) (*Node, error) {
	n, _, err := NewTemplate(name, KindTypedef)
	if err != nil {
		return nil, err
	}
	if err := n.SetAlias(alias, coll); err != nil {
		return nil, err
	}
	return n, nil
}

// Alias returns the typedef's aliased type and collection qualifier.
func (n *Node) Alias() (*Node, *AnnotationValue) {
	if td, ok := n.defn.(*typedefDefn); ok {
		return td.alias, td.coll
	}
	return nil, nil
}

// SetAlias retargets a typedef. The new chain must terminate at a
// non-typedef without looping; on success every member, typedef and
// struct base resolving through this typedef re-resolves, and all
// affected instances recompute.
func (n *Node) SetAlias(alias *Node, coll *AnnotationValue) error {
	td, ok := n.defn.(*typedefDefn)
	if !ok {
		return Errorf(KindMismatch, n.name, "alias applies to typedefs, not %v", n.kind)
	}
	if alias == nil {
		return Errorf(MalformedDecl, n.name, "a typedef needs an aliased type")
	}
	for s := alias; s != nil && s.kind == KindTypedef; {
		if s == n {
			return Errorf(CycleDetected, n.name, "typedef chain loops through %s", n.name)
		}
		s = s.defn.(*typedefDefn).alias
	}
	base, _ := Resolve(alias)
	if base == nil {
		return Errorf(KindMismatch, n.name, "typedef chain does not terminate at a type")
	}
	switch base.kind {
	case KindAtom, KindEnum, KindStruct, KindUnion:
	default:
		return Errorf(KindMismatch, n.name, "cannot alias a %v", base.kind)
	}
	if coll != nil {
		if !coll.IsCollection() {
			return Errorf(KindMismatch, n.name, "qualifier %s is not a collection", coll.node.name)
		}
		if _, err := coll.dimensions(); err != nil {
			return err
		}
	}
	if td.alias != nil && td.alias.kind == KindTypedef {
		untrackType(n, "", td.alias)
	}
	td.alias = alias
	td.coll = coll
	if alias.kind == KindTypedef {
		trackType(n, "", alias)
	}
	return n.propagateRetarget()
}
