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
	"github.com/rticommunity/ddsl-go/util"
	"golang.org/x/exp/maps"
)

// baseDependentRole is the reserved dependent-role marker recording that a
// struct's base resolves through a typedef.
const baseDependentRole = "%base"

// updateInstances recomputes the value at role in every instance of n —
// templates of derived structs and their instances included, since the
// instance registry is transitive over the inheritance chain. A nil
// member deletes the slot.
func updateInstances(n *Node, role string, m *Member) error {
	// Snapshot the registry: rebuilding a slot can register fresh nested
	// instances while we iterate.
	for _, inst := range maps.Keys(n.instances) {
		if old, ok := inst.fields[role]; ok {
			discardValue(old)
		}
		if m == nil {
			delete(inst.fields, role)
			continue
		}
		v, err := memberValue(inst.prefix, role, m.Type, m.Collection)
		if err != nil {
			return err
		}
		inst.fields[role] = v
	}
	return nil
}

// refreshInherited rebuilds the inherited portion of every instance of
// struct n against its current base chain: stale inherited roles (those
// on the template but not declared locally) are removed, then the chain's
// members are re-materialized rootmost-first.
func refreshInherited(n *Node) error {
	sd, ok := n.defn.(*structDefn)
	if !ok {
		return Errorf(KindMismatch, n.name, "refresh on a %v", n.kind)
	}
	local := map[string]bool{}
	for _, m := range sd.members {
		local[m.Role] = true
	}
	for _, r := range maps.Keys(n.template.fields) {
		if !local[r] {
			if err := updateInstances(n, r, nil); err != nil {
				return err
			}
		}
	}
	for _, m := range inheritedMembers(n) {
		if err := updateInstances(n, m.Role, m); err != nil {
			return err
		}
	}
	return nil
}

// migrateRegistration moves every instance of n (its template included)
// from the instance sets of oldBase's chain to newBase's chain.
func migrateRegistration(n, oldBase, newBase *Node) {
	for inst := range n.instances {
		if oldBase != nil {
			oldBase.unregister(inst)
		}
	}
	for inst := range n.instances {
		if newBase != nil {
			newBase.register(inst)
		}
	}
}

// propagateRetarget re-resolves every dependent of n after its shape
// changed (a typedef retarget). Typedef
// dependents cascade; struct and union dependents rebuild the affected
// member slot; struct base dependents re-register against the newly
// resolved chain and rebuild their inherited roles.
func (n *Node) propagateRetarget() error {
	for _, d := range maps.Keys(n.dependents) {
		owner, role := d.owner, d.role
		switch {
		case owner.kind == KindTypedef:
			if err := owner.propagateRetarget(); err != nil {
				return err
			}
		case owner.kind == KindStruct && role == baseDependentRole:
			sd := owner.defn.(*structDefn)
			newBase, _ := Resolve(sd.base)
			migrateRegistration(owner, sd.registeredBase, newBase)
			sd.registeredBase = newBase
			if err := refreshInherited(owner); err != nil {
				return err
			}
		default:
			m := owner.memberByRole(role)
			if m == nil {
				util.Warning("dangling dependent %s.%s on %s", owner.name, role, n.name)
				continue
			}
			if err := updateInstances(owner, role, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// memberByRole finds the member descriptor for role on a struct or union.
func (n *Node) memberByRole(role string) *Member {
	switch d := n.defn.(type) {
	case *structDefn:
		for _, m := range d.members {
			if m.Role == role {
				return m
			}
		}
	case *unionDefn:
		for _, c := range d.cases {
			if c.Member != nil && c.Member.Role == role {
				return c.Member
			}
		}
	}
	return nil
}
