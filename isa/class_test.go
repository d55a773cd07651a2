package isa

import "testing"

func TestParseClassRoundTrip(t *testing.T) {
	cases := []string{"addi", "jalr", "c.jr", "c.addi4spn", "mulhu", "fence"}
	for _, mnemonic := range cases {
		class, ok := ParseClass(mnemonic)
		if !ok {
			t.Fatalf("ParseClass(%q) not found", mnemonic)
		}
		if class.String() != mnemonic {
			t.Fatalf("ParseClass(%q).String() = %q", mnemonic, class.String())
		}
	}
}

func TestClassificationSetsDisjointFromBranching(t *testing.T) {
	for c := range Branching {
		if Load[c] {
			t.Fatalf("class %v is both branching and load", c)
		}
		if Arithmetic[c] {
			t.Fatalf("class %v is both branching and arithmetic", c)
		}
	}
}

func TestBranchingSetMembers(t *testing.T) {
	want := []Class{ClassJAL, ClassJALR, ClassCJAL, ClassCJALR, ClassMRET, ClassSRET, ClassURET, ClassCJ, ClassCJR}
	for _, c := range want {
		if !Branching[c] {
			t.Fatalf("expected %v in Branching set", c)
		}
	}
	if Branching[ClassBEQ] {
		t.Fatalf("conditional branch BEQ must not be in the Branching (root-eligible) set")
	}
}
