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

// moduleDefn is the body of a module: the contained datatypes in
// declaration order.
type moduleDefn struct {
	children []*Node
}

func (*moduleDefn) defnKind() Kind { return KindModule }

// Module creates a named module containing the given datatypes, each
// re-parented into it in order.
func Module(name string, children ...*Node) (*Node, error) {
	if name == "" {
		return nil, Errorf(MalformedDecl, "", "a module needs a name; use NewRoot for the anonymous root")
	}
	n, _, err := NewTemplate(name, KindModule)
	if err != nil {
		return nil, err
	}
	for i, c := range children {
		if err := n.SetChild(i+1, c); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// NewRoot creates an anonymous root module: the enclosing scope into
// which imported files deposit top-level declarations.
func NewRoot() *Node {
	n, _, err := NewTemplate("", KindModule)
	if err != nil {
		panic(err)
	}
	return n
}

// Children returns the module's contained datatypes in declaration order.
// The slice is shared; callers must not mutate it.
func (n *Node) Children() []*Node {
	if md, ok := n.defn.(*moduleDefn); ok {
		return md.children
	}
	return nil
}

// Child returns the directly contained datatype with the given name, or
// nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children() {
		if c.name == name {
			return c
		}
	}
	return nil
}

// SetChild adds, replaces or deletes the i-th contained datatype of a
// module. Indices are 1-based and contiguous; a nil child deletes the
// slot and detaches the old child. Child names must stay unique and
// module containment must stay acyclic.
func (n *Node) SetChild(i int, c *Node) error {
	md, ok := n.defn.(*moduleDefn)
	if !ok {
		return Errorf(KindMismatch, n.name, "children apply to modules, not %v", n.kind)
	}
	if i < 1 || i > len(md.children)+1 {
		return Errorf(MalformedDecl, n.name, "child index %d outside [1, %d]", i, len(md.children)+1)
	}
	if c == nil {
		if i > len(md.children) {
			return Errorf(MalformedDecl, n.name, "cannot delete child %d of %d", i, len(md.children))
		}
		old := md.children[i-1]
		old.ns = nil
		delete(n.template.fields, old.name)
		md.children = append(md.children[:i-1], md.children[i:]...)
		return nil
	}
	if isCollectionKind(c.kind) {
		return Errorf(KindMismatch, n.name, "a %v qualifier cannot live in a module", c.kind)
	}
	if c.name == "" {
		return Errorf(MalformedDecl, n.name, "a module child needs a name")
	}
	for j, other := range md.children {
		if j+1 != i && other.name == c.name {
			return Errorf(DuplicateName, n.name, "module already contains %q", c.name)
		}
	}
	if c.kind == KindModule && encloses(c, n) {
		return Errorf(CycleDetected, n.name, "module %s would contain its own ancestor %s", n.name, c.name)
	}
	if i <= len(md.children) {
		old := md.children[i-1]
		old.ns = nil
		delete(n.template.fields, old.name)
		md.children[i-1] = c
	} else {
		md.children = append(md.children, c)
	}
	if c.ns != nil && c.ns != n {
		c.ns.removeChild(c)
	}
	c.ns = n
	if c.template != nil {
		n.template.fields[c.name] = c.template
	}
	return nil
}

// AddChild appends c to the module.
func (n *Node) AddChild(c *Node) error {
	return n.SetChild(len(n.Children())+1, c)
}

// removeChild detaches c from n's child list without touching c.ns.
func (n *Node) removeChild(c *Node) {
	md, ok := n.defn.(*moduleDefn)
	if !ok {
		return
	}
	for i, other := range md.children {
		if other == c {
			md.children = append(md.children[:i], md.children[i+1:]...)
			delete(n.template.fields, c.name)
			return
		}
	}
}
