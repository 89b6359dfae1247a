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
	"strings"
)

// Node is one datatype in the meta-model. Identity is pointer identity:
// two structurally equal datatypes under the same module are distinct
// nodes. The kind never changes after creation; name, ns, qualifiers and
// the kind-specific body may.
type Node struct {
	kind       Kind
	name       string
	ns         *Node
	qualifiers []*AnnotationValue
	defn       defn

	// template is the canonical instance; nil for annotations and consts.
	template *Instance

	// instances holds every live instance created from this node. For a
	// struct it also holds the templates and instances of every struct
	// that inherits from it, so propagation reaches derived types through
	// one registry.
	instances map[*Instance]bool

	// dependents holds (owner, role) pairs for members and typedefs whose
	// type resolves through this node; a typedef retarget walks this set.
	dependents map[dependent]bool
}

// dependent identifies a member slot (or, with an empty role, a typedef)
// whose resolved shape depends on another node.
type dependent struct {
	owner *Node
	role  string
}

// defn is the kind-specific body of a node.
type defn interface {
	defnKind() Kind
}

// Kind returns the node's kind tag.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the node's current name. Only the hidden root module has an
// empty name.
func (n *Node) Name() string { return n.name }

// NS returns the enclosing module, or nil for a detached or root node.
func (n *Node) NS() *Node { return n.ns }

// Qualifiers returns the node's annotation values in declaration order.
// The returned slice is shared; callers must not mutate it.
func (n *Node) Qualifiers() []*AnnotationValue { return n.qualifiers }

// Template returns the node's canonical template instance, or nil for
// annotation and const nodes, which have none.
func (n *Node) Template() *Instance { return n.template }

// NewTemplate allocates a node of the given kind with an empty body shaped
// for that kind, creates its canonical template, and returns both. An
// empty name is allowed only for a module (the hidden root scope).
func NewTemplate(name string, kind Kind) (*Node, *Instance, error) {
	if name == "" && kind != KindModule {
		return nil, nil, Errorf(MalformedDecl, "", "a %v needs a non-empty name", kind)
	}
	if isCollectionKind(kind) {
		return nil, nil, Errorf(KindMismatch, name, "collection qualifiers are built with Array and Sequence, not NewTemplate")
	}
	n := &Node{
		kind:       kind,
		name:       name,
		instances:  map[*Instance]bool{},
		dependents: map[dependent]bool{},
	}
	switch kind {
	case KindAtom:
		n.defn = &atomDefn{}
	case KindConst:
		n.defn = &constDefn{}
	case KindEnum:
		n.defn = &enumDefn{}
	case KindStruct:
		n.defn = &structDefn{}
	case KindUnion:
		n.defn = &unionDefn{}
	case KindModule:
		n.defn = &moduleDefn{}
	case KindTypedef:
		n.defn = &typedefDefn{}
	case KindAnnotation:
		n.defn = &annotationDefn{}
	}
	if kind != KindAnnotation && kind != KindConst {
		n.template = &Instance{node: n, isTemplate: true, fields: map[string]Value{}}
	}
	// Struct and union templates live in their own instance registry so
	// member mutations reach them through the same propagation path as
	// user instances.
	if kind == KindStruct || kind == KindUnion {
		n.instances[n.template] = true
	}
	if kind == KindUnion {
		n.template.fields[DiscriminatorRole] = Accessor(DiscriminatorRole)
	}
	return n, n.template, nil
}

// ModelKind returns the kind of a *Node or *Instance.
func ModelKind(x interface{}) (Kind, bool) {
	switch v := x.(type) {
	case *Node:
		return v.kind, true
	case *Instance:
		return v.node.kind, true
	case *Collection:
		return v.qualifierKind, true
	}
	return 0, false
}

// NSRoot returns the outermost enclosing module of x, walking ns links.
// For a detached node, x itself is returned.
func NSRoot(n *Node) *Node {
	for n.ns != nil {
		n = n.ns
	}
	return n
}

// NSName returns the fully qualified "A::B::C" name of n. When rel is
// non-nil and encloses n, the name is relative to rel; otherwise it is
// absolute from the root (whose empty name is omitted).
func NSName(n *Node, rel *Node) string {
	var segs []string
	for s := n; s != nil && s != rel; s = s.ns {
		if s.name == "" {
			break
		}
		segs = append(segs, s.name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, "::")
}

// encloses reports whether m is n or appears on n's ns chain.
func encloses(m, n *Node) bool {
	for s := n; s != nil; s = s.ns {
		if s == m {
			return true
		}
	}
	return false
}

// register adds inst to n's instance set and, for structs, to the set of
// every struct on n's base chain.
func (n *Node) register(inst *Instance) {
	for s := n; s != nil; {
		s.instances[inst] = true
		if sd, ok := s.defn.(*structDefn); ok && sd.base != nil {
			s, _ = Resolve(sd.base)
			continue
		}
		break
	}
}

// unregister removes inst from n's instance set and from every struct on
// n's base chain.
func (n *Node) unregister(inst *Instance) {
	for s := n; s != nil; {
		delete(s.instances, inst)
		if sd, ok := s.defn.(*structDefn); ok && sd.base != nil {
			s, _ = Resolve(sd.base)
			continue
		}
		break
	}
}

// addDependent records that owner's member slot role resolves through n.
func (n *Node) addDependent(owner *Node, role string) {
	n.dependents[dependent{owner: owner, role: role}] = true
}

// dropDependent removes the (owner, role) record from n.
func (n *Node) dropDependent(owner *Node, role string) {
	delete(n.dependents, dependent{owner: owner, role: role})
}

// trackType registers (owner, role) with every typedef crossed while
// resolving t, so retargeting any of them re-resolves the member.
func trackType(owner *Node, role string, t *Node) {
	for s := t; s != nil && s.kind == KindTypedef; {
		s.addDependent(owner, role)
		td := s.defn.(*typedefDefn)
		s = td.alias
	}
}

// untrackType undoes trackType for the same (owner, role, t) triple.
func untrackType(owner *Node, role string, t *Node) {
	for s := t; s != nil && s.kind == KindTypedef; {
		s.dropDependent(owner, role)
		td := s.defn.(*typedefDefn)
		s = td.alias
	}
}
