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

func TestTypedefRetargetPropagates(t *testing.T) {
	coord, err := Typedef("RetCoord", Long, nil)
	if err != nil {
		t.Fatalf("Typedef: %v", err)
	}
	holder := mustStruct(t, "RetHolder", nil,
		&Member{Role: "c", Type: coord},
	)
	inst := mustInstance(t, holder, "p")
	if got := leaf(inst, "c"); got != "p.c" {
		t.Fatalf("leaf before retarget: got %q, want p.c", got)
	}

	// Retarget the alias at a struct: the member becomes a nested
	// instance in every existing holder instance.
	point := mustStruct(t, "RetPoint", nil,
		&Member{Role: "x", Type: Long},
		&Member{Role: "y", Type: Long},
	)
	if err := coord.SetAlias(point, nil); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}
	v, ok := inst.Field("c")
	if !ok {
		t.Fatalf("member lost on retarget")
	}
	ni, ok := v.(*Instance)
	if !ok {
		t.Fatalf("retargeted member is a %T, want *Instance", v)
	}
	if got := leaf(ni, "x"); got != "p.c.x" {
		t.Errorf("nested leaf after retarget: got %q, want p.c.x", got)
	}

	// Retarget at a collection: the member becomes a collection.
	if err := coord.SetAlias(Long, mustSequence(t, 3)); err != nil {
		t.Fatalf("SetAlias to sequence: %v", err)
	}
	c := inst.mustCollection(t, "c")
	if got := c.LengthAccessor(); got != "p.c" {
		t.Errorf("collection accessor after retarget: got %q, want p.c", got)
	}
}

func TestTypedefChainRetargetCascades(t *testing.T) {
	inner, err := Typedef("CascInner", Long, nil)
	if err != nil {
		t.Fatalf("Typedef inner: %v", err)
	}
	outer, err := Typedef("CascOuter", inner, nil)
	if err != nil {
		t.Fatalf("Typedef outer: %v", err)
	}
	holder := mustStruct(t, "CascHolder", nil,
		&Member{Role: "v", Type: outer},
	)
	inst := mustInstance(t, holder, "h")

	pt := mustStruct(t, "CascPoint", nil, &Member{Role: "x", Type: Long})
	if err := inner.SetAlias(pt, nil); err != nil {
		t.Fatalf("SetAlias on inner: %v", err)
	}
	v, _ := inst.Field("v")
	ni, ok := v.(*Instance)
	if !ok {
		t.Fatalf("cascaded retarget did not rebuild the member, got %T", v)
	}
	if got := leaf(ni, "x"); got != "h.v.x" {
		t.Errorf("cascaded nested leaf: got %q, want h.v.x", got)
	}
}

func TestTypedefCycleFails(t *testing.T) {
	a, err := Typedef("CycTdA", Long, nil)
	if err != nil {
		t.Fatalf("Typedef: %v", err)
	}
	b, err := Typedef("CycTdB", a, nil)
	if err != nil {
		t.Fatalf("Typedef: %v", err)
	}
	err = a.SetAlias(b, nil)
	if err == nil {
		t.Fatalf("typedef cycle not rejected")
	}
	if k, _ := KindOfError(err); k != CycleDetected {
		t.Errorf("error kind: got %v, want CycleDetected", k)
	}
	if alias, _ := a.Alias(); alias != Long {
		t.Errorf("failed retarget changed the alias")
	}
}

func TestTypedefBaseRetarget(t *testing.T) {
	base1 := mustStruct(t, "TdbOne", nil, &Member{Role: "one", Type: Long})
	base2 := mustStruct(t, "TdbTwo", nil, &Member{Role: "two", Type: Long})
	alias, err := Typedef("TdbAlias", base1, nil)
	if err != nil {
		t.Fatalf("Typedef: %v", err)
	}
	st := mustStruct(t, "TdbDerived", nil)
	if err := st.SetBase(alias); err != nil {
		t.Fatalf("SetBase: %v", err)
	}
	inst := mustInstance(t, st, "d")
	if got := leaf(inst, "one"); got != "d.one" {
		t.Fatalf("inherited leaf: got %q, want d.one", got)
	}

	if err := alias.SetAlias(base2, nil); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}
	if _, ok := inst.Field("one"); ok {
		t.Errorf("old inherited role survives a base retarget")
	}
	if got := leaf(inst, "two"); got != "d.two" {
		t.Errorf("new inherited leaf: got %q, want d.two", got)
	}

	// The old base no longer propagates to the derived instances.
	if err := base1.SetMember(2, &Member{Role: "extra", Type: Long}); err != nil {
		t.Fatalf("SetMember: %v", err)
	}
	if _, ok := inst.Field("extra"); ok {
		t.Errorf("retargeted-away base still propagates")
	}
}
