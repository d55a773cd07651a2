package core

import (
	"testing"

	"rvjop/disasm"
	"rvjop/isa"
	"rvjop/query"
)

// s1Program is the "write(1, 'A', 1); exit(0)"-shaped syscall trampoline
// from spec.md §8's S1 scenario: a C.LI load of the syscall argument, a
// 32-bit ADDI loading the syscall number, ECALL, four c.jalr indirect
// branches through distinct registers, and a final 4-byte JALR acting as a
// "ret" (rd=zero, rs1=ra). Only the first of those five branches (the
// c.jalr at 0xa, right after the ECALL) has a non-branching predecessor —
// the other four sit directly after another branch, so each one's
// immediate predecessor is itself branching and gets rejected by the
// prefix enumerator.
var s1Program = []byte{
	0x05, 0x45, 0x93, 0x08, 0xd0, 0x05, 0x73, 0x00, 0x00, 0x00,
	0x82, 0x90, 0x02, 0x94, 0x82, 0x93, 0x02, 0x95, 0x67, 0x80, 0x00, 0x00,
}

func TestDiscoverS1SyscallTrampoline(t *testing.T) {
	d := disasm.New(isa.RV64IC)
	roots := FindRoots(d, s1Program, 0, nil)

	if len(roots) != 5 {
		t.Fatalf("FindRoots found %d roots, want 5 (four c.jalr plus the closing jalr): %+v", len(roots), roots)
	}
	if roots[len(roots)-1].Offset != 0x12 {
		t.Fatalf("last root offset = %#x, want 0x12 (the closing jalr zero,0(ra))", roots[len(roots)-1].Offset)
	}

	set := Discover(d, s1Program, 0, query.Query{}, Options{Max: 5})
	if set.Len() == 0 {
		t.Fatal("expected at least one gadget from the c.jalr root reachable through ecall/addi/c.li")
	}

	// Only the root at offset 0xa (c.jalr ra) has a non-branching
	// predecessor chain: ecall at 0x6, addi at 0x2, c.li at 0x0. The other
	// four roots are each preceded immediately by another branching
	// instruction, so they contribute no gadgets at all.
	for _, g := range set.All() {
		if g.Root.Address != 0xa {
			t.Fatalf("unexpected gadget rooted at %#x; only offset 0xa should produce gadgets", g.Root.Address)
		}
	}

	// No LOAD-classified instruction appears anywhere in this program at
	// any decode offset, so no gadget here can ever satisfy the dispatcher
	// shape (load + arithmetic update of the jump-target register).
	dispatcherSet := Discover(d, s1Program, 0, query.Query{Dispatcher: true}, Options{Max: 5})
	if dispatcherSet.Len() != 0 {
		t.Fatalf("dispatcher query matched %d gadgets, want 0 (no load instruction present)", dispatcherSet.Len())
	}
}
