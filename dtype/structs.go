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

// Member is one role of a struct or union case: a name, a type, an
// optional collection qualifier, and trailing annotations.
type Member struct {
	Role        string
	Type        *Node
	Collection  *AnnotationValue
	Annotations []*AnnotationValue
}

// structDefn is the body of a struct: an optional base (possibly a
// typedef to a struct) and the locally declared members in order.
// registeredBase caches the resolved base the instance sets are currently
// registered against, so base retargets can migrate them.
type structDefn struct {
	base           *Node
	registeredBase *Node
	members        []*Member
}

func (*structDefn) defnKind() Kind { return KindStruct }

// Struct creates a struct datatype with an optional base and the given
// members, applied in order through the same setter path later mutations
// use.
func Struct(name string, base *Node, members ...*Member) (*Node, error) {
	n, _, err := NewTemplate(name, KindStruct)
	if err != nil {
		return nil, err
	}
	if base != nil {
		if err := n.SetBase(base); err != nil {
			return nil, err
		}
	}
	for i, m := range members {
		if err := n.SetMember(i+1, m); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Members returns the struct's locally declared members in order. The
// slice is shared; callers must not mutate it.
func (n *Node) Members() []*Member {
	if sd, ok := n.defn.(*structDefn); ok {
		return sd.members
	}
	return nil
}

// Base returns the struct's declared base, which may be a typedef to a
// struct, or nil.
func (n *Node) Base() *Node {
	if sd, ok := n.defn.(*structDefn); ok {
		return sd.base
	}
	return nil
}

// validateMember checks a member descriptor independent of its slot.
func validateMember(path string, m *Member) error {
	if m.Role == "" {
		return Errorf(MalformedDecl, path, "a member needs a role name")
	}
	if m.Type == nil {
		return Errorf(MalformedDecl, path, "member %q needs a type", m.Role)
	}
	base, _ := Resolve(m.Type)
	if base == nil {
		return Errorf(KindMismatch, path, "member %q type resolves to nothing", m.Role)
	}
	switch base.kind {
	case KindAtom, KindEnum, KindStruct, KindUnion:
	default:
		return Errorf(KindMismatch, path, "member %q cannot have a %v type", m.Role, base.kind)
	}
	if m.Collection != nil {
		if !m.Collection.IsCollection() {
			return Errorf(KindMismatch, path, "member %q qualifier %s is not a collection", m.Role, m.Collection.node.name)
		}
		if _, err := m.Collection.dimensions(); err != nil {
			return err
		}
	}
	for _, a := range m.Annotations {
		if a.node.kind != KindAnnotation {
			return Errorf(KindMismatch, path, "member %q annotation %s is a %v", m.Role, a.node.name, a.node.kind)
		}
	}
	return nil
}

// localRoleTaken reports whether role is declared locally on n or on any
// struct derived from n.
func (n *Node) localRoleTaken(role string, skipSlot int) bool {
	if sd, ok := n.defn.(*structDefn); ok {
		for i, m := range sd.members {
			if i+1 == skipSlot {
				continue
			}
			if m.Role == role {
				return true
			}
		}
	}
	for inst := range n.instances {
		if !inst.isTemplate || inst.node == n {
			continue
		}
		if dn := inst.node; dn.kind == KindStruct {
			for _, m := range dn.defn.(*structDefn).members {
				if m.Role == role {
					return true
				}
			}
		}
	}
	return false
}

// SetMember adds, replaces or deletes the i-th member of a struct.
// Indices are 1-based and contiguous; i may exceed the current length by
// one to append. A nil member deletes the slot and shifts the tail left.
// A failed mutation leaves the struct and its instances unchanged.
func (n *Node) SetMember(i int, m *Member) error {
	sd, ok := n.defn.(*structDefn)
	if !ok {
		return Errorf(KindMismatch, n.name, "member slots apply to structs, not %v; unions mutate through SetCase", n.kind)
	}
	if i < 1 || i > len(sd.members)+1 {
		return Errorf(MalformedDecl, n.name, "member index %d outside [1, %d]", i, len(sd.members)+1)
	}
	if m == nil {
		if i > len(sd.members) {
			return Errorf(MalformedDecl, n.name, "cannot delete member %d of %d", i, len(sd.members))
		}
		old := sd.members[i-1]
		if err := updateInstances(n, old.Role, nil); err != nil {
			return err
		}
		untrackType(n, old.Role, old.Type)
		sd.members = append(sd.members[:i-1], sd.members[i:]...)
		return nil
	}
	if err := validateMember(n.name, m); err != nil {
		return err
	}
	if n.localRoleTaken(m.Role, i) {
		return Errorf(DuplicateName, n.name, "role %q already declared", m.Role)
	}
	for _, im := range inheritedMembers(n) {
		if im.Role == m.Role {
			return Errorf(DuplicateName, n.name, "role %q shadows an inherited role", m.Role)
		}
	}
	if i <= len(sd.members) {
		old := sd.members[i-1]
		if old.Role != m.Role {
			if err := updateInstances(n, old.Role, nil); err != nil {
				return err
			}
		}
		untrackType(n, old.Role, old.Type)
		sd.members[i-1] = m
	} else {
		sd.members = append(sd.members, m)
	}
	trackType(n, m.Role, m.Type)
	return updateInstances(n, m.Role, m)
}

// SetBase swaps the struct's base. The old chain's roles are removed from
// every instance, the new chain's roles are added rootmost-first, and the
// struct's template and instances re-register with the new ancestry. A
// role collision or containment cycle fails the mutation with the model
// unchanged.
func (n *Node) SetBase(b *Node) error {
	sd, ok := n.defn.(*structDefn)
	if !ok {
		return Errorf(KindMismatch, n.name, "BASE applies to structs, not %v", n.kind)
	}
	var resolved *Node
	if b != nil {
		var chain []*AnnotationValue
		resolved, chain = Resolve(b)
		if resolved == nil || resolved.kind != KindStruct {
			return Errorf(KindMismatch, n.name, "base must resolve to a struct")
		}
		if len(chain) > 0 {
			return Errorf(KindMismatch, n.name, "a collection cannot be a base")
		}
		for s := resolved; s != nil; {
			if s == n {
				return Errorf(CycleDetected, n.name, "base chain loops through %s", n.name)
			}
			bsd := s.defn.(*structDefn)
			if bsd.base == nil {
				break
			}
			s, _ = Resolve(bsd.base)
		}
		chainMembers := append(append([]*Member{}, inheritedMembers(resolved)...), resolved.defn.(*structDefn).members...)
		for _, m := range chainMembers {
			if n.localRoleTaken(m.Role, 0) {
				return Errorf(DuplicateName, n.name, "inherited role %q shadowed by a local role", m.Role)
			}
		}
	}
	if sd.base != nil {
		untrackType(n, baseDependentRole, sd.base)
	}
	old := sd.registeredBase
	sd.base = b
	if b != nil && b.kind == KindTypedef {
		trackType(n, baseDependentRole, b)
	}
	migrateRegistration(n, old, resolved)
	sd.registeredBase = resolved
	return refreshInherited(n)
}
