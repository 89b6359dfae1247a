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
	"testing"
)

func TestModuleContainment(t *testing.T) {
	s1 := mustStruct(t, "ModChildA", nil)
	s2 := mustStruct(t, "ModChildB", nil)
	m := mustModule(t, "ModParent", s1, s2)

	if got := len(m.Children()); got != 2 {
		t.Fatalf("child count: got %d, want 2", got)
	}
	if s1.NS() != m || s2.NS() != m {
		t.Errorf("children not re-parented into the module")
	}
	if got := m.Child("ModChildB"); got != s2 {
		t.Errorf("Child lookup failed")
	}
	// The module template maps child names to templates.
	if v, ok := m.Template().Field("ModChildA"); !ok || v != Template(s1) {
		t.Errorf("module template does not map the child name to its template")
	}
}

func TestModuleDuplicateChildFails(t *testing.T) {
	m := mustModule(t, "DupMod", mustStruct(t, "Once", nil))
	err := m.AddChild(mustStruct(t, "Once", nil))
	if err == nil {
		t.Fatalf("duplicate child name not rejected")
	}
	if k, _ := KindOfError(err); k != DuplicateName {
		t.Errorf("error kind: got %v, want DuplicateName", k)
	}
	if got := len(m.Children()); got != 1 {
		t.Errorf("failed AddChild changed the child count to %d", got)
	}
}

func TestModuleCycleFails(t *testing.T) {
	inner := mustModule(t, "CycleInner")
	outer := mustModule(t, "CycleOuter", inner)
	err := inner.AddChild(outer)
	if err == nil {
		t.Fatalf("containment cycle not rejected")
	}
	if k, _ := KindOfError(err); k != CycleDetected {
		t.Errorf("error kind: got %v, want CycleDetected", k)
	}
}

func TestSetNSReparents(t *testing.T) {
	st := mustStruct(t, "Mover", nil)
	m1 := mustModule(t, "FromMod", st)
	m2 := mustModule(t, "ToMod")
	if err := st.SetNS(m2); err != nil {
		t.Fatalf("SetNS: %v", err)
	}
	if st.NS() != m2 {
		t.Errorf("node not re-parented")
	}
	if m1.Child("Mover") != nil {
		t.Errorf("old module still lists the moved child")
	}
	if m2.Child("Mover") != st {
		t.Errorf("new module does not list the moved child")
	}
	if err := st.SetNS(nil); err != nil {
		t.Fatalf("SetNS(nil): %v", err)
	}
	if st.NS() != nil || m2.Child("Mover") != nil {
		t.Errorf("detach did not clear the parent link")
	}
}

func TestSetNameUniquenessInModule(t *testing.T) {
	a := mustStruct(t, "SibA", nil)
	b := mustStruct(t, "SibB", nil)
	mustModule(t, "SibMod", a, b)
	err := b.SetName("SibA")
	if err == nil {
		t.Fatalf("sibling name collision not rejected")
	}
	if k, _ := KindOfError(err); k != DuplicateName {
		t.Errorf("error kind: got %v, want DuplicateName", k)
	}
	if b.Name() != "SibB" {
		t.Errorf("failed rename changed the name to %q", b.Name())
	}
}

func TestRootModule(t *testing.T) {
	root := NewRoot()
	if root.Name() != "" {
		t.Fatalf("root module has a name: %q", root.Name())
	}
	st := mustStruct(t, "RootChild", nil)
	if err := root.AddChild(st); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if got := NSName(st, nil); got != "RootChild" {
		t.Errorf("NSName under root: got %q, want RootChild", got)
	}
	if _, _, err := NewTemplate("", KindStruct); err == nil {
		t.Errorf("empty name accepted for a struct")
	}
}

func TestPopulateSharesSetterPath(t *testing.T) {
	n, _, err := NewTemplate("PopStruct", KindStruct)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	if err := Populate(n,
		&Member{Role: "a", Type: Long},
		&Member{Role: "b", Type: Double},
	); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if got := len(n.Members()); got != 2 {
		t.Fatalf("populated member count: got %d, want 2", got)
	}
	if err := Populate(n, &Member{Role: "a", Type: Long}); err == nil {
		t.Errorf("Populate bypassed the duplicate-role check")
	}
}
