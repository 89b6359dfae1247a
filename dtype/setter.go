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

// SetName renames a node. The new name must stay unique within the
// enclosing module. Accessor strings are unaffected: they are built from
// roles and instance prefixes, not datatype names.
func (n *Node) SetName(s string) error {
	if s == "" {
		return Errorf(MalformedDecl, n.name, "a %v needs a non-empty name", n.kind)
	}
	if s == n.name {
		return nil
	}
	if n.ns != nil {
		for _, sib := range n.ns.Children() {
			if sib != n && sib.name == s {
				return Errorf(DuplicateName, NSName(n.ns, nil), "module already contains %q", s)
			}
		}
	}
	if n.ns != nil && n.ns.template != nil {
		if t, ok := n.ns.template.fields[n.name]; ok {
			delete(n.ns.template.fields, n.name)
			n.ns.template.fields[s] = t
		}
	}
	n.name = s
	return nil
}

// SetNS re-parents a node into module m, or detaches it when m is nil.
// Fails on a containment cycle or a name collision in m.
func (n *Node) SetNS(m *Node) error {
	if m == nil {
		if n.ns != nil {
			n.ns.removeChild(n)
			n.ns = nil
		}
		return nil
	}
	if m.kind != KindModule {
		return Errorf(KindMismatch, n.name, "cannot re-parent into a %v", m.kind)
	}
	return m.AddChild(n)
}

// SetQualifiers replaces the node's qualifier list with an ordered list
// of annotation values. Collection qualifiers belong on members and
// typedefs, not on datatypes.
func (n *Node) SetQualifiers(qs []*AnnotationValue) error {
	for _, q := range qs {
		if q == nil {
			return Errorf(MalformedDecl, n.name, "nil qualifier")
		}
		if q.node.kind != KindAnnotation {
			return Errorf(KindMismatch, n.name, "qualifier %s is a %v, not an annotation", q.node.name, q.node.kind)
		}
	}
	n.qualifiers = qs
	return nil
}

// Populate applies ordered declaration entries to a freshly allocated
// node through the same setters later mutations use: members for
// structs, cases for unions, enumerators for enums, children for
// modules, with annotation values appended to the qualifier list.
func Populate(n *Node, entries ...interface{}) error {
	for _, entry := range entries {
		var err error
		switch e := entry.(type) {
		case *Member:
			err = n.SetMember(len(n.Members())+1, e)
		case *Case:
			err = n.SetCase(len(n.Cases())+1, e)
		case Enumerator:
			err = n.SetEnumerator(len(n.Enumerators())+1, e)
		case *Node:
			err = n.AddChild(e)
		case *AnnotationValue:
			err = n.SetQualifiers(append(n.qualifiers, e))
		default:
			err = Errorf(MalformedDecl, n.name, "cannot populate a %v from a %T", n.kind, entry)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
