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
	"strconv"
	"unicode/utf8"
)

// DiscriminatorRole is the fixed leaf name of a union's discriminator in
// templates and instances.
const DiscriminatorRole = "_d"

// Case is one branch of a union: the case values (several values on one
// case fall through to the same member), an optional default marker, and
// the member. A default-only case has no values.
type Case struct {
	Values  []interface{}
	Default bool
	Member  *Member
}

// unionDefn is the body of a union: the discriminator node and the cases
// in declaration order.
type unionDefn struct {
	disc  *Node
	cases []*Case
}

func (*unionDefn) defnKind() Kind { return KindUnion }

// Union creates a union datatype with the given discriminator and cases,
// applied in order through the setter path.
func Union(name string, disc *Node, cases ...*Case) (*Node, error) {
	n, _, err := NewTemplate(name, KindUnion)
	if err != nil {
		return nil, err
	}
	if err := n.SetSwitch(disc); err != nil {
		return nil, err
	}
	for i, c := range cases {
		if err := n.SetCase(i+1, c); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Cases returns the union's cases in declaration order. The slice is
// shared; callers must not mutate it.
func (n *Node) Cases() []*Case {
	if ud, ok := n.defn.(*unionDefn); ok {
		return ud.cases
	}
	return nil
}

// Discriminator returns the union's discriminator node.
func (n *Node) Discriminator() *Node {
	if ud, ok := n.defn.(*unionDefn); ok {
		return ud.disc
	}
	return nil
}

// validateDiscriminator checks that d can discriminate a union: an enum,
// or a boolean, char, octet or integral atom, possibly via typedef but
// never through a collection.
func validateDiscriminator(path string, d *Node) (*Node, error) {
	if d == nil {
		return nil, Errorf(KindMismatch, path, "a union needs a discriminator")
	}
	base, chain := Resolve(d)
	if base == nil || len(chain) > 0 {
		return nil, Errorf(KindMismatch, path, "discriminator cannot be a collection")
	}
	switch {
	case base.kind == KindEnum:
	case base.kind == KindAtom && (isIntegralAtom(base) || isCharAtom(base) || BaseAtomName(base) == "boolean"):
	default:
		return nil, Errorf(KindMismatch, path, "a %s cannot discriminate a union", base.name)
	}
	return base, nil
}

// normalizeCaseValue coerces v to the canonical runtime form for the
// resolved discriminator base: an enumerator name string for enums, bool
// for booleans, a one-rune string for chars, int64 for integrals.
func normalizeCaseValue(path string, base *Node, v interface{}) (interface{}, error) {
	if base.kind == KindEnum {
		s, ok := v.(string)
		if !ok {
			return nil, Errorf(InvalidCase, path, "enum case value must be an enumerator name, got %T", v)
		}
		ed := base.defn.(*enumDefn)
		for _, e := range ed.enumerators {
			if e.Name == s {
				return s, nil
			}
		}
		return nil, Errorf(InvalidCase, path, "%q is not an enumerator of %s", s, base.name)
	}
	switch BaseAtomName(base) {
	case "boolean":
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			if b == "true" || b == "1" {
				return true, nil
			}
			if b == "false" || b == "0" {
				return false, nil
			}
		case int:
			if b == 0 || b == 1 {
				return b == 1, nil
			}
		case int64:
			if b == 0 || b == 1 {
				return b == 1, nil
			}
		}
		return nil, Errorf(InvalidCase, path, "boolean case value must be one of true, false, 0, 1; got %v", v)
	case "char", "wchar":
		switch c := v.(type) {
		case string:
			if utf8.RuneCountInString(c) == 1 {
				return c, nil
			}
		case int:
			return string(rune(c)), nil
		case int64:
			return string(rune(c)), nil
		case rune:
			return string(c), nil
		}
		return nil, Errorf(InvalidCase, path, "char case value must be a one-character string or an ordinal, got %v", v)
	default:
		switch i := v.(type) {
		case int:
			return int64(i), nil
		case int32:
			return int64(i), nil
		case int64:
			return i, nil
		case uint64:
			return int64(i), nil
		case string:
			if n, err := strconv.ParseInt(i, 10, 64); err == nil {
				return n, nil
			}
		}
		return nil, Errorf(InvalidCase, path, "integer case value required, got %v", v)
	}
}

// SetSwitch swaps the union's discriminator. Every existing case value is
// revalidated against the new type; a single incompatible case fails the
// mutation and the old discriminator is kept. Runtime discriminator
// values on instances are cleared on success.
func (n *Node) SetSwitch(d *Node) error {
	ud, ok := n.defn.(*unionDefn)
	if !ok {
		return Errorf(KindMismatch, n.name, "SWITCH applies to unions, not %v", n.kind)
	}
	base, err := validateDiscriminator(n.name, d)
	if err != nil {
		return err
	}
	renorm := make([][]interface{}, len(ud.cases))
	for ci, c := range ud.cases {
		for _, v := range c.Values {
			nv, err := normalizeCaseValue(n.name, base, v)
			if err != nil {
				return err
			}
			renorm[ci] = append(renorm[ci], nv)
		}
	}
	ud.disc = d
	for ci, c := range ud.cases {
		c.Values = renorm[ci]
	}
	for inst := range n.instances {
		inst.disc = nil
	}
	return nil
}

// SetCase adds, replaces or deletes the i-th case of a union. Indices are
// 1-based and contiguous; a nil case deletes the slot. Case values are
// validated against the discriminator, must be unique across the whole
// union, and at most one case may be the default.
func (n *Node) SetCase(i int, c *Case) error {
	ud, ok := n.defn.(*unionDefn)
	if !ok {
		return Errorf(KindMismatch, n.name, "cases apply to unions, not %v", n.kind)
	}
	if i < 1 || i > len(ud.cases)+1 {
		return Errorf(MalformedDecl, n.name, "case index %d outside [1, %d]", i, len(ud.cases)+1)
	}
	if c == nil {
		if i > len(ud.cases) {
			return Errorf(MalformedDecl, n.name, "cannot delete case %d of %d", i, len(ud.cases))
		}
		old := ud.cases[i-1]
		if old.Member != nil {
			if err := updateInstances(n, old.Member.Role, nil); err != nil {
				return err
			}
			untrackType(n, old.Member.Role, old.Member.Type)
		}
		ud.cases = append(ud.cases[:i-1], ud.cases[i:]...)
		return nil
	}
	base, err := validateDiscriminator(n.name, ud.disc)
	if err != nil {
		return err
	}
	if len(c.Values) == 0 && !c.Default {
		return Errorf(InvalidCase, n.name, "a case needs a value or the default marker")
	}
	var norm []interface{}
	for _, v := range c.Values {
		nv, err := normalizeCaseValue(n.name, base, v)
		if err != nil {
			return err
		}
		for _, seen := range norm {
			if seen == nv {
				return Errorf(InvalidCase, n.name, "case value %v repeated within one case", nv)
			}
		}
		norm = append(norm, nv)
	}
	for ci, other := range ud.cases {
		if ci+1 == i {
			continue
		}
		if c.Default && other.Default {
			return Errorf(InvalidCase, n.name, "a union takes at most one default case")
		}
		for _, ov := range other.Values {
			for _, nv := range norm {
				if ov == nv {
					return Errorf(InvalidCase, n.name, "duplicate case value %v", nv)
				}
			}
		}
	}
	if c.Member != nil {
		if err := validateMember(n.name, c.Member); err != nil {
			return err
		}
		if c.Member.Role == DiscriminatorRole {
			return Errorf(DuplicateName, n.name, "%q is reserved for the discriminator", DiscriminatorRole)
		}
		for ci, other := range ud.cases {
			if ci+1 == i || other.Member == nil {
				continue
			}
			if other.Member.Role == c.Member.Role {
				return Errorf(DuplicateName, n.name, "role %q already declared", c.Member.Role)
			}
		}
	}
	applied := &Case{Values: norm, Default: c.Default, Member: c.Member}
	if i <= len(ud.cases) {
		old := ud.cases[i-1]
		if old.Member != nil && (c.Member == nil || old.Member.Role != c.Member.Role) {
			if err := updateInstances(n, old.Member.Role, nil); err != nil {
				return err
			}
		}
		if old.Member != nil {
			untrackType(n, old.Member.Role, old.Member.Type)
		}
		ud.cases[i-1] = applied
	} else {
		ud.cases = append(ud.cases, applied)
	}
	if c.Member == nil {
		return nil
	}
	trackType(n, c.Member.Role, c.Member.Type)
	return updateInstances(n, c.Member.Role, c.Member)
}

// SetDiscriminator assigns the runtime discriminator value of a union
// instance, validated and normalized against the discriminator type.
func (i *Instance) SetDiscriminator(v interface{}) error {
	ud, ok := i.node.defn.(*unionDefn)
	if !ok {
		return Errorf(KindMismatch, i.prefix, "discriminators apply to union instances")
	}
	base, err := validateDiscriminator(i.node.name, ud.disc)
	if err != nil {
		return err
	}
	nv, err := normalizeCaseValue(i.node.name, base, v)
	if err != nil {
		return err
	}
	i.disc = nv
	return nil
}

// Discriminator returns the instance's runtime discriminator value, or
// nil when none has been assigned.
func (i *Instance) Discriminator() interface{} { return i.disc }

// Selected returns the role and value of the member selected by the
// current discriminator value: the case listing the value, else the
// default case. The role is empty when no case matches or the matching
// case carries no member.
func (i *Instance) Selected() (string, Value) {
	ud, ok := i.node.defn.(*unionDefn)
	if !ok || i.disc == nil {
		return "", nil
	}
	var deflt *Case
	for _, c := range ud.cases {
		if c.Default {
			deflt = c
		}
		for _, v := range c.Values {
			if v == i.disc {
				return i.caseMember(c)
			}
		}
	}
	if deflt != nil {
		return i.caseMember(deflt)
	}
	return "", nil
}

func (i *Instance) caseMember(c *Case) (string, Value) {
	if c.Member == nil {
		return "", nil
	}
	v, _ := i.fields[c.Member.Role]
	return c.Member.Role, v
}
