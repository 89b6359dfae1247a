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

	"github.com/google/go-cmp/cmp"
)

func TestSetMemberMutationPropagates(t *testing.T) {
	st := mustStruct(t, "MutShape", nil,
		&Member{Role: "x", Type: Long},
		&Member{Role: "y", Type: Long},
	)
	shape := mustInstance(t, st, "")

	// Remove the first member: the role disappears from every instance.
	if err := st.SetMember(1, nil); err != nil {
		t.Fatalf("SetMember(1, nil): %v", err)
	}
	if _, ok := shape.Field("x"); ok {
		t.Errorf("removed role x still present on the instance")
	}
	if got := len(st.Members()); got != 1 {
		t.Fatalf("member count after delete: got %d, want 1", got)
	}

	// Replace the now-first member with a double of the same role.
	if err := st.SetMember(1, &Member{Role: "y", Type: Double}); err != nil {
		t.Fatalf("SetMember(1, y=double): %v", err)
	}
	if got := leaf(shape, "y"); got != "y" {
		t.Errorf("replaced role accessor: got %q, want %q", got, "y")
	}
	if got := st.Members()[0].Type; got != Double {
		t.Errorf("replaced member type: got %v, want the double atom", got.Name())
	}
}

func TestSetMemberRename(t *testing.T) {
	st := mustStruct(t, "RenameType", nil,
		&Member{Role: "before", Type: Long},
	)
	inst := mustInstance(t, st, "r")
	if err := st.SetMember(1, &Member{Role: "after", Type: Long}); err != nil {
		t.Fatalf("SetMember rename: %v", err)
	}
	if _, ok := inst.Field("before"); ok {
		t.Errorf("old role survives a rename")
	}
	if got := leaf(inst, "after"); got != "r.after" {
		t.Errorf("renamed role accessor: got %q, want r.after", got)
	}
}

func TestSetMemberIdempotent(t *testing.T) {
	st := mustStruct(t, "IdemType", nil)
	m := &Member{Role: "v", Type: Long}
	if err := st.SetMember(1, m); err != nil {
		t.Fatalf("SetMember first: %v", err)
	}
	inst := mustInstance(t, st, "i")
	before := leaf(inst, "v")
	if err := st.SetMember(1, m); err != nil {
		t.Fatalf("SetMember second: %v", err)
	}
	if got := leaf(inst, "v"); got != before {
		t.Errorf("idempotent SetMember changed the accessor: %q != %q", got, before)
	}
	if got := len(st.Members()); got != 1 {
		t.Errorf("idempotent SetMember changed the member count: %d", got)
	}
}

func TestSetMemberFailuresLeaveModelUnchanged(t *testing.T) {
	st := mustStruct(t, "FailType", nil,
		&Member{Role: "a", Type: Long},
		&Member{Role: "b", Type: Long},
	)
	inst := mustInstance(t, st, "f")

	tests := []struct {
		desc string
		i    int
		m    *Member
		kind ErrorKind
	}{{
		desc: "duplicate role",
		i:    3,
		m:    &Member{Role: "a", Type: Long},
		kind: DuplicateName,
	}, {
		desc: "empty role",
		i:    3,
		m:    &Member{Role: "", Type: Long},
		kind: MalformedDecl,
	}, {
		desc: "missing type",
		i:    3,
		m:    &Member{Role: "c"},
		kind: MalformedDecl,
	}, {
		desc: "index out of range",
		i:    5,
		m:    &Member{Role: "c", Type: Long},
		kind: MalformedDecl,
	}, {
		desc: "module as member type",
		i:    3,
		m:    &Member{Role: "c", Type: mustModule(t, "FailM")},
		kind: KindMismatch,
	}}

	for _, tt := range tests {
		err := st.SetMember(tt.i, tt.m)
		if err == nil {
			t.Errorf("%s: SetMember did not fail", tt.desc)
			continue
		}
		if k, ok := KindOfError(err); !ok || k != tt.kind {
			t.Errorf("%s: error kind got %v, want %v", tt.desc, k, tt.kind)
		}
		if got := len(st.Members()); got != 2 {
			t.Errorf("%s: failed mutation changed member count to %d", tt.desc, got)
		}
		if got := inst.Roles(); !cmp.Equal(got, []string{"a", "b"}) {
			t.Errorf("%s: failed mutation changed instance keys to %v", tt.desc, got)
		}
	}
}

func mustModule(t *testing.T, name string, children ...*Node) *Node {
	t.Helper()
	m, err := Module(name, children...)
	if err != nil {
		t.Fatalf("Module(%s): %v", name, err)
	}
	return m
}

func TestSetBaseSwap(t *testing.T) {
	property := mustStruct(t, "SwapProperty", nil,
		&Member{Role: "name", Type: mustString(t, 128)},
		&Member{Role: "value", Type: mustString(t, 128)},
	)
	shape := mustStruct(t, "SwapShape", nil,
		&Member{Role: "x", Type: Long},
	)
	inst := mustInstance(t, shape, "")

	if err := shape.SetBase(property); err != nil {
		t.Fatalf("SetBase: %v", err)
	}
	if got := leaf(inst, "name"); got != "name" {
		t.Errorf("inherited accessor name: got %q, want name", got)
	}
	if got := leaf(inst, "value"); got != "value" {
		t.Errorf("inherited accessor value: got %q, want value", got)
	}

	// Adding to the base propagates into the derived struct's instances.
	if err := property.SetMember(3, &Member{Role: "units", Type: Short}); err != nil {
		t.Fatalf("SetMember on base: %v", err)
	}
	if got := leaf(inst, "units"); got != "units" {
		t.Errorf("accessor for member added to base: got %q, want units", got)
	}

	// Removing the base removes the inherited roles everywhere.
	if err := shape.SetBase(nil); err != nil {
		t.Fatalf("SetBase(nil): %v", err)
	}
	for _, role := range []string{"name", "value", "units"} {
		if _, ok := inst.Field(role); ok {
			t.Errorf("role %s survives base removal", role)
		}
	}
	if got := leaf(inst, "x"); got != "x" {
		t.Errorf("local role lost on base removal: got %q", got)
	}

	// A further base mutation no longer reaches the detached struct.
	if err := property.SetMember(4, &Member{Role: "ghost", Type: Long}); err != nil {
		t.Fatalf("SetMember on detached base: %v", err)
	}
	if _, ok := inst.Field("ghost"); ok {
		t.Errorf("detached base still propagates")
	}
}

func mustString(t *testing.T, n int) *Node {
	t.Helper()
	s, err := String(n)
	if err != nil {
		t.Fatalf("String(%d): %v", n, err)
	}
	return s
}

func TestSetBaseShadowFails(t *testing.T) {
	base := mustStruct(t, "ShadowBase", nil,
		&Member{Role: "taken", Type: Long},
	)
	st := mustStruct(t, "ShadowLocal", nil,
		&Member{Role: "taken", Type: Short},
	)
	err := st.SetBase(base)
	if err == nil {
		t.Fatalf("SetBase with shadowed role did not fail")
	}
	if k, _ := KindOfError(err); k != DuplicateName {
		t.Errorf("error kind: got %v, want DuplicateName", k)
	}
	if st.Base() != nil {
		t.Errorf("failed SetBase left a base in place")
	}
}

func TestSetBaseCycleFails(t *testing.T) {
	a := mustStruct(t, "CycleA", nil)
	b := mustStruct(t, "CycleB", nil)
	if err := b.SetBase(a); err != nil {
		t.Fatalf("SetBase(b, a): %v", err)
	}
	err := a.SetBase(b)
	if err == nil {
		t.Fatalf("base cycle not rejected")
	}
	if k, _ := KindOfError(err); k != CycleDetected {
		t.Errorf("error kind: got %v, want CycleDetected", k)
	}
}

func TestLocalMemberShadowingInheritedFails(t *testing.T) {
	base := mustStruct(t, "InhBase", nil,
		&Member{Role: "id", Type: Long},
	)
	st := mustStruct(t, "InhDerived", base)
	err := st.SetMember(1, &Member{Role: "id", Type: Short})
	if err == nil {
		t.Fatalf("shadowing an inherited role did not fail")
	}
	if k, _ := KindOfError(err); k != DuplicateName {
		t.Errorf("error kind: got %v, want DuplicateName", k)
	}
}

func TestBaseAdditionCollidingWithDerivedFails(t *testing.T) {
	base := mustStruct(t, "ColBase", nil)
	derived := mustStruct(t, "ColDerived", base,
		&Member{Role: "local", Type: Long},
	)
	_ = derived
	err := base.SetMember(1, &Member{Role: "local", Type: Short})
	if err == nil {
		t.Fatalf("base member colliding with a derived local role did not fail")
	}
	if k, _ := KindOfError(err); k != DuplicateName {
		t.Errorf("error kind: got %v, want DuplicateName", k)
	}
}

func TestSetBaseViaTypedef(t *testing.T) {
	base := mustStruct(t, "TdBase", nil,
		&Member{Role: "p", Type: Long},
	)
	alias, err := Typedef("TdBaseAlias", base, nil)
	if err != nil {
		t.Fatalf("Typedef: %v", err)
	}
	st := mustStruct(t, "TdDerived", nil)
	if err := st.SetBase(alias); err != nil {
		t.Fatalf("SetBase via typedef: %v", err)
	}
	inst := mustInstance(t, st, "td")
	if got := leaf(inst, "p"); got != "td.p" {
		t.Errorf("inherited-through-typedef accessor: got %q, want td.p", got)
	}
}

func TestSetNameIdempotent(t *testing.T) {
	st := mustStruct(t, "NameOnce", nil)
	if err := st.SetName("NameTwice"); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	if err := st.SetName("NameTwice"); err != nil {
		t.Fatalf("SetName repeat: %v", err)
	}
	if st.Name() != "NameTwice" {
		t.Errorf("name: got %q, want NameTwice", st.Name())
	}
}
