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

func mustUnion(t *testing.T, name string, disc *Node, cases ...*Case) *Node {
	t.Helper()
	n, err := Union(name, disc, cases...)
	if err != nil {
		t.Fatalf("Union(%s): %v", name, err)
	}
	return n
}

func myU(t *testing.T, name string) *Node {
	t.Helper()
	return mustUnion(t, name, Long,
		&Case{Values: []interface{}{1}, Member: &Member{Role: "a", Type: Long}},
		&Case{Values: []interface{}{2}, Member: &Member{Role: "b", Type: mustString(t, 8)}},
		&Case{Default: true, Member: &Member{Role: "c", Type: Short}},
	)
}

func TestUnionInstanceSelection(t *testing.T) {
	u := mustInstance(t, myU(t, "SelU"), "u")
	if got := leaf(u, DiscriminatorRole); got != "u._d" {
		t.Fatalf("discriminator accessor: got %q, want u._d", got)
	}

	tests := []struct {
		desc     string
		disc     interface{}
		wantRole string
		wantAcc  string
	}{{
		desc:     "explicit case",
		disc:     2,
		wantRole: "b",
		wantAcc:  "u.b",
	}, {
		desc:     "other explicit case",
		disc:     1,
		wantRole: "a",
		wantAcc:  "u.a",
	}, {
		desc:     "unlisted value selects the default",
		disc:     99,
		wantRole: "c",
		wantAcc:  "u.c",
	}}

	for _, tt := range tests {
		if err := u.SetDiscriminator(tt.disc); err != nil {
			t.Fatalf("%s: SetDiscriminator(%v): %v", tt.desc, tt.disc, err)
		}
		role, v := u.Selected()
		if role != tt.wantRole {
			t.Errorf("%s: selected role got %q, want %q", tt.desc, role, tt.wantRole)
			continue
		}
		if a, ok := v.(Accessor); !ok || string(a) != tt.wantAcc {
			t.Errorf("%s: selected value got %v, want %q", tt.desc, v, tt.wantAcc)
		}
	}
}

func TestUnionCaseValidation(t *testing.T) {
	color, err := Enum("CaseColor",
		Enumerator{Name: "RED"},
		Enumerator{Name: "GREEN"},
		Enumerator{Name: "BLUE"},
	)
	if err != nil {
		t.Fatalf("Enum: %v", err)
	}

	tests := []struct {
		desc string
		disc *Node
		c    *Case
		kind ErrorKind
		ok   bool
	}{{
		desc: "enum discriminator accepts a declared enumerator",
		disc: color,
		c:    &Case{Values: []interface{}{"GREEN"}, Member: &Member{Role: "g", Type: Long}},
		ok:   true,
	}, {
		desc: "enum discriminator rejects an undeclared name",
		disc: color,
		c:    &Case{Values: []interface{}{"MAGENTA"}, Member: &Member{Role: "m", Type: Long}},
		kind: InvalidCase,
	}, {
		desc: "boolean discriminator accepts 1",
		disc: Boolean,
		c:    &Case{Values: []interface{}{1}, Member: &Member{Role: "t", Type: Long}},
		ok:   true,
	}, {
		desc: "boolean discriminator rejects 2",
		disc: Boolean,
		c:    &Case{Values: []interface{}{2}, Member: &Member{Role: "t", Type: Long}},
		kind: InvalidCase,
	}, {
		desc: "char discriminator accepts a one-character string",
		disc: Char,
		c:    &Case{Values: []interface{}{"x"}, Member: &Member{Role: "x", Type: Long}},
		ok:   true,
	}, {
		desc: "char discriminator rejects a long string",
		disc: Char,
		c:    &Case{Values: []interface{}{"xy"}, Member: &Member{Role: "x", Type: Long}},
		kind: InvalidCase,
	}, {
		desc: "integer discriminator rejects a non-integer",
		disc: Long,
		c:    &Case{Values: []interface{}{"nope"}, Member: &Member{Role: "x", Type: Long}},
		kind: InvalidCase,
	}, {
		desc: "a case needs a value or default",
		disc: Long,
		c:    &Case{Member: &Member{Role: "x", Type: Long}},
		kind: InvalidCase,
	}}

	for i, tt := range tests {
		un, err := Union(caseUnionName(i), tt.disc)
		if err != nil {
			t.Fatalf("%s: union: %v", tt.desc, err)
		}
		err = un.SetCase(1, tt.c)
		if tt.ok {
			if err != nil {
				t.Errorf("%s: SetCase failed: %v", tt.desc, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: SetCase did not fail", tt.desc)
			continue
		}
		if k, _ := KindOfError(err); k != tt.kind {
			t.Errorf("%s: error kind got %v, want %v", tt.desc, k, tt.kind)
		}
		if got := len(un.Cases()); got != 0 {
			t.Errorf("%s: failed SetCase left %d cases", tt.desc, got)
		}
	}
}

func caseUnionName(i int) string {
	return "CaseU" + string(rune('A'+i))
}

func TestUnionDuplicateCaseValues(t *testing.T) {
	un := mustUnion(t, "DupU", Long,
		&Case{Values: []interface{}{1}, Member: &Member{Role: "a", Type: Long}},
	)
	// Duplicate across separate cases is rejected.
	err := un.SetCase(2, &Case{Values: []interface{}{1}, Member: &Member{Role: "b", Type: Long}})
	if err == nil {
		t.Fatalf("duplicate case value across cases not rejected")
	}
	if k, _ := KindOfError(err); k != InvalidCase {
		t.Errorf("error kind: got %v, want InvalidCase", k)
	}
	// A second default is rejected.
	if err := un.SetCase(2, &Case{Default: true, Member: &Member{Role: "d", Type: Long}}); err != nil {
		t.Fatalf("first default rejected: %v", err)
	}
	err = un.SetCase(3, &Case{Default: true, Member: &Member{Role: "e", Type: Long}})
	if err == nil {
		t.Fatalf("second default not rejected")
	}
	// Fall-through values on one case are fine, but may not repeat.
	if err := un.SetCase(3, &Case{Values: []interface{}{2, 3}, Member: &Member{Role: "f", Type: Long}}); err != nil {
		t.Fatalf("fall-through case rejected: %v", err)
	}
	err = un.SetCase(4, &Case{Values: []interface{}{4, 4}, Member: &Member{Role: "g", Type: Long}})
	if err == nil {
		t.Fatalf("repeated value within one case not rejected")
	}
}

func TestSetSwitchRevalidatesCases(t *testing.T) {
	un := mustUnion(t, "SwU", Long,
		&Case{Values: []interface{}{65}, Member: &Member{Role: "a", Type: Long}},
	)
	// An integer case converts to a char ordinal.
	if err := un.SetSwitch(Char); err != nil {
		t.Fatalf("SetSwitch(char): %v", err)
	}
	if got := un.Cases()[0].Values[0]; got != "A" {
		t.Errorf("renormalized case value: got %v, want A", got)
	}
	// A char case cannot convert to boolean; the discriminator is kept.
	err := un.SetSwitch(Boolean)
	if err == nil {
		t.Fatalf("incompatible SetSwitch did not fail")
	}
	if got := un.Discriminator(); got != Char {
		t.Errorf("failed SetSwitch changed the discriminator to %v", got.Name())
	}
}

func TestUnionDiscriminatorKinds(t *testing.T) {
	tests := []struct {
		desc string
		disc *Node
		ok   bool
	}{{
		desc: "long",
		disc: Long,
		ok:   true,
	}, {
		desc: "boolean",
		disc: Boolean,
		ok:   true,
	}, {
		desc: "octet",
		disc: Octet,
		ok:   true,
	}, {
		desc: "float is not a discriminator",
		disc: Float,
	}, {
		desc: "string is not a discriminator",
		disc: StringAtom,
	}}
	for i, tt := range tests {
		_, err := Union("DiscU"+string(rune('A'+i)), tt.disc)
		if tt.ok != (err == nil) {
			t.Errorf("%s: Union err = %v, want ok=%v", tt.desc, err, tt.ok)
		}
	}
}
