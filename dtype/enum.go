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

// Enumerator is one entry of an enum. A bare enumerator (Explicit false)
// takes the running ordinal: the previous enumerator's ordinal plus one,
// starting at zero.
type Enumerator struct {
	Name     string
	Ordinal  int32
	Explicit bool
}

// enumDefn is the body of an enum: the enumerators in declaration order,
// with ordinals already assigned.
type enumDefn struct {
	enumerators []Enumerator
}

func (*enumDefn) defnKind() Kind { return KindEnum }

// Enum creates an enum datatype with the given enumerators, applied in
// order through the setter path. Enumerator names are injected into the
// template as direct keys mapping to their ordinals.
func Enum(name string, enumerators ...Enumerator) (*Node, error) {
	n, _, err := NewTemplate(name, KindEnum)
	if err != nil {
		return nil, err
	}
	for i, e := range enumerators {
		if err := n.SetEnumerator(i+1, e); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Enumerators returns the enum's entries in declaration order with
// resolved ordinals.
func (n *Node) Enumerators() []Enumerator {
	if ed, ok := n.defn.(*enumDefn); ok {
		return ed.enumerators
	}
	return nil
}

// NameOf returns the enumerator name for an ordinal, or "" when the enum
// declares no such ordinal.
func (n *Node) NameOf(ordinal int32) string {
	if ed, ok := n.defn.(*enumDefn); ok {
		for _, e := range ed.enumerators {
			if e.Ordinal == ordinal {
				return e.Name
			}
		}
	}
	return ""
}

// HasEnumerator reports whether name is declared by enum n.
func (n *Node) HasEnumerator(name string) bool {
	if ed, ok := n.defn.(*enumDefn); ok {
		for _, e := range ed.enumerators {
			if e.Name == name {
				return true
			}
		}
	}
	return false
}

// SetEnumerator adds, replaces or deletes the i-th enumerator. Indices
// are 1-based and contiguous; the zero-value Enumerator deletes the slot.
// Names must stay unique within the enum; a bare entry takes the running
// ordinal at its slot. A failed mutation leaves the enum unchanged.
func (n *Node) SetEnumerator(i int, e Enumerator) error {
	ed, ok := n.defn.(*enumDefn)
	if !ok {
		return Errorf(KindMismatch, n.name, "enumerators apply to enums, not %v", n.kind)
	}
	if i < 1 || i > len(ed.enumerators)+1 {
		return Errorf(MalformedDecl, n.name, "enumerator index %d outside [1, %d]", i, len(ed.enumerators)+1)
	}
	if e.Name == "" {
		if i > len(ed.enumerators) {
			return Errorf(MalformedDecl, n.name, "cannot delete enumerator %d of %d", i, len(ed.enumerators))
		}
		old := ed.enumerators[i-1]
		delete(n.template.fields, old.Name)
		ed.enumerators = append(ed.enumerators[:i-1], ed.enumerators[i:]...)
		return nil
	}
	for j, other := range ed.enumerators {
		if j+1 != i && other.Name == e.Name {
			return Errorf(DuplicateName, n.name, "enumerator %q already declared", e.Name)
		}
	}
	if !e.Explicit {
		if i > 1 {
			e.Ordinal = ed.enumerators[i-2].Ordinal + 1
		} else {
			e.Ordinal = 0
		}
	}
	if i <= len(ed.enumerators) {
		old := ed.enumerators[i-1]
		delete(n.template.fields, old.Name)
		ed.enumerators[i-1] = e
	} else {
		ed.enumerators = append(ed.enumerators, e)
	}
	n.template.fields[e.Name] = Ordinal(e.Ordinal)
	return nil
}
