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

package dwalk

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rticommunity/ddsl-go/dtype"
)

func TestWalkStructWithBaseAndCollection(t *testing.T) {
	base, err := dtype.Struct("WalkBase", nil,
		&dtype.Member{Role: "id", Type: dtype.Long},
	)
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	seq, err := dtype.Sequence(2)
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	st, err := dtype.Struct("WalkType", base,
		&dtype.Member{Role: "label", Type: dtype.StringAtom},
		&dtype.Member{Role: "xs", Type: dtype.Long, Collection: seq},
	)
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	inst, err := dtype.NewInstance(st, "w")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	// Materialize one collection slot so the walk descends into it.
	v, _ := inst.Field("xs")
	if _, err := v.(*dtype.Collection).Index(1); err != nil {
		t.Fatalf("Index: %v", err)
	}

	got, err := Walk(inst)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []Pair{
		{Accessor: "w.id", Value: "w.id"},
		{Accessor: "w.label", Value: "w.label"},
		{Accessor: "w.xs", Value: "2"},
		{Accessor: "w.xs[1]", Value: "w.xs[1]"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk (-want +got):\n%s", diff)
	}
}

func TestWalkUnionSelectsCurrentMember(t *testing.T) {
	str8, err := dtype.String(8)
	if err != nil {
		t.Fatalf("String(8): %v", err)
	}
	un, err := dtype.Union("WalkU", dtype.Long,
		&dtype.Case{Values: []interface{}{1}, Member: &dtype.Member{Role: "a", Type: dtype.Long}},
		&dtype.Case{Values: []interface{}{2}, Member: &dtype.Member{Role: "b", Type: str8}},
	)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	u, err := dtype.NewInstance(un, "u")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	if err := u.SetDiscriminator(2); err != nil {
		t.Fatalf("SetDiscriminator: %v", err)
	}

	got, err := Walk(u)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []Pair{
		{Accessor: "u._d", Value: "2"},
		{Accessor: "u.b", Value: "u.b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk (-want +got):\n%s", diff)
	}

	// Without a discriminator only the discriminator line appears.
	u2, err := dtype.NewInstance(un, "v")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	got, err = Walk(u2)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want = []Pair{{Accessor: "v._d", Value: "<nil>"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk unset (-want +got):\n%s", diff)
	}
}

func TestWalkNestedInstance(t *testing.T) {
	inner, err := dtype.Struct("WalkInner", nil,
		&dtype.Member{Role: "p", Type: dtype.Long},
	)
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	outer, err := dtype.Struct("WalkOuter", nil,
		&dtype.Member{Role: "in", Type: inner},
	)
	if err != nil {
		t.Fatalf("Struct: %v", err)
	}
	inst, err := dtype.NewInstance(outer, "o")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	got, err := Walk(inst)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []Pair{{Accessor: "o.in.p", Value: "o.in.p"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk (-want +got):\n%s", diff)
	}
}

func TestWalkRejectsNonInstances(t *testing.T) {
	if _, err := Walk(42); err == nil {
		t.Errorf("Walk(42) did not fail")
	}
}
