package core

import (
	"testing"

	"rvjop/gadget"
	"rvjop/isa"
	"rvjop/query"
)

// scriptDecoder decodes deterministically by (address, requested window
// length), independent of actual byte content, so tests can exercise the
// root finder and prefix enumerator's control flow precisely without
// depending on real RISC-V encoding correctness (covered separately in
// package disasm). Real decoders can validly return different results for
// the same address under a 2-byte vs. 4-byte request, which is exactly
// what the prefix enumerator's branching search relies on (spec.md §4.E);
// byWidth models that.
type scriptDecoder struct {
	byAddr map[uint64]gadget.Instruction          // single-width entries
	byWidth map[uint64]map[int]gadget.Instruction // multi-width entries, checked first
}

func (s *scriptDecoder) DecodeOne(code []byte, addr uint64) (gadget.Instruction, bool) {
	if byLen, ok := s.byWidth[addr]; ok {
		if ins, ok := byLen[len(code)]; ok && len(code) >= ins.Len() {
			return ins, true
		}
	}
	ins, ok := s.byAddr[addr]
	if !ok {
		return gadget.Instruction{}, false
	}
	if len(code) < ins.Len() {
		return gadget.Instruction{}, false
	}
	return ins, true
}

// ins builds a scripted instruction whose raw bytes are derived from its
// class (not its address), so that two occurrences of the same
// class+operands at different addresses carry identical byte content —
// exactly the condition gadget identity (package gadget) is defined over.
func ins(addr uint64, width int, class isa.Class, ops ...gadget.Operand) gadget.Instruction {
	b := make([]byte, width)
	for i := range b {
		b[i] = byte(class) + byte(i)
	}
	return gadget.Instruction{
		Address:  addr,
		Bytes:    b,
		Class:    class,
		Mnemonic: class.String(),
		Operands: ops,
	}
}

// TestFindRootsLinearScan builds a tiny scripted program:
//
//	off 0: ADDI (4 bytes, non-branching)
//	off 4: JALR ra, 0(t0) — a valid root
//	off 8: JAL zero, ... — zero-register target, must be skipped
//	off 12: C.JR t1 — a valid root
func TestFindRootsLinearScan(t *testing.T) {
	d := &scriptDecoder{byAddr: map[uint64]gadget.Instruction{
		0:  ins(0, 4, isa.ClassADDI, gadget.RegOperand(isa.X5), gadget.RegOperand(isa.X5), gadget.ImmOperand(1)),
		4:  ins(4, 4, isa.ClassJALR, gadget.RegOperand(isa.X1), gadget.RegOperand(isa.X5), gadget.ImmOperand(0)),
		8:  ins(8, 4, isa.ClassJAL, gadget.RegOperand(isa.Zero), gadget.ImmOperand(32)),
		12: ins(12, 2, isa.ClassCJR, gadget.RegOperand(isa.X6)),
	}}
	code := make([]byte, 14)

	roots := FindRoots(d, code, 0, nil)
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2: %+v", len(roots), roots)
	}
	if roots[0].Offset != 4 || roots[1].Offset != 12 {
		t.Fatalf("unexpected root offsets: %+v", roots)
	}
}

func TestFindRootsJRFilter(t *testing.T) {
	d := &scriptDecoder{byAddr: map[uint64]gadget.Instruction{
		0: ins(0, 4, isa.ClassJALR, gadget.RegOperand(isa.X1), gadget.RegOperand(isa.X5), gadget.ImmOperand(0)),
		4: ins(4, 4, isa.ClassJALR, gadget.RegOperand(isa.X1), gadget.RegOperand(isa.X6), gadget.ImmOperand(0)),
	}}
	code := make([]byte, 8)

	t5 := isa.X5
	roots := FindRoots(d, code, 0, &t5)
	if len(roots) != 1 || roots[0].Offset != 0 {
		t.Fatalf("jr filter: got %+v, want single root at offset 0", roots)
	}
}

// TestEnumeratePrefixesBothWidths sets up a root at offset 8 reachable by:
//   - a single 4-byte predecessor at offset 4, OR
//   - two 2-byte predecessors at offsets 6 and 4 (in program order).
//
// Both branches must be explored, producing three candidate gadgets in
// total: length 1 (the 4-byte one), length 1 (the 2-byte one at offset 6),
// and length 2 (both 2-byte instructions).
func TestEnumeratePrefixesBothWidths(t *testing.T) {
	d := &scriptDecoder{
		byAddr: map[uint64]gadget.Instruction{
			6: ins(6, 2, isa.ClassCLI, gadget.RegOperand(isa.X6), gadget.ImmOperand(0)),
		},
		byWidth: map[uint64]map[int]gadget.Instruction{
			4: {
				4: ins(4, 4, isa.ClassADDI, gadget.RegOperand(isa.X5), gadget.RegOperand(isa.X5), gadget.ImmOperand(1)),
				2: ins(4, 2, isa.ClassCMV, gadget.RegOperand(isa.X7), gadget.RegOperand(isa.X6)),
			},
		},
	}
	root := Root{Instruction: ins(8, 2, isa.ClassCJR, gadget.RegOperand(isa.X5)), Offset: 8}

	var got [][]gadget.Instruction
	EnumeratePrefixes(d, make([]byte, 10), 0, root, 5, func(p []gadget.Instruction) {
		cp := make([]gadget.Instruction, len(p))
		copy(cp, p)
		got = append(got, cp)
	})

	var foundLen1FourByte, foundLen2 bool
	for _, p := range got {
		if len(p) == 1 && p[0].Len() == 4 {
			foundLen1FourByte = true
		}
		if len(p) == 2 {
			foundLen2 = true
		}
	}
	if !foundLen1FourByte {
		t.Fatal("expected a length-1 gadget built from the 4-byte predecessor")
	}
	if !foundLen2 {
		t.Fatal("expected a length-2 gadget built from the two 2-byte predecessors")
	}
}

func TestEnumeratePrefixesRejectsBranchingPredecessor(t *testing.T) {
	d := &scriptDecoder{byAddr: map[uint64]gadget.Instruction{
		4: ins(4, 4, isa.ClassJAL, gadget.RegOperand(isa.X1), gadget.ImmOperand(100)),
	}}
	root := Root{Instruction: ins(8, 4, isa.ClassJALR, gadget.RegOperand(isa.X1), gadget.RegOperand(isa.X5), gadget.ImmOperand(0)), Offset: 8}

	var got [][]gadget.Instruction
	EnumeratePrefixes(d, make([]byte, 8), 0, root, 5, func(p []gadget.Instruction) {
		got = append(got, p)
	})
	if len(got) != 0 {
		t.Fatalf("a branching predecessor must never be included in a prefix: got %+v", got)
	}
}

func TestEnumeratePrefixesRespectsMaxBound(t *testing.T) {
	d := &scriptDecoder{byAddr: map[uint64]gadget.Instruction{}}
	for off := uint64(0); off < 20; off += 4 {
		d.byAddr[off] = ins(off, 4, isa.ClassADDI, gadget.RegOperand(isa.X5), gadget.RegOperand(isa.X5), gadget.ImmOperand(1))
	}
	root := Root{Instruction: ins(20, 4, isa.ClassJALR, gadget.RegOperand(isa.X1), gadget.RegOperand(isa.X5), gadget.ImmOperand(0)), Offset: 20}

	var got [][]gadget.Instruction
	EnumeratePrefixes(d, make([]byte, 24), 0, root, 2, func(p []gadget.Instruction) {
		cp := make([]gadget.Instruction, len(p))
		copy(cp, p)
		got = append(got, cp)
	})
	for _, p := range got {
		if len(p) > 2 {
			t.Fatalf("prefix length %d exceeds max=2", len(p))
		}
	}
}

func TestDiscoverDeduplicatesAcrossRoots(t *testing.T) {
	// Two identical (root, prefix) byte patterns at different addresses
	// must collapse into a single gadget in the result set.
	mkProgram := func(base uint64) map[uint64]gadget.Instruction {
		return map[uint64]gadget.Instruction{
			base:     ins(base, 4, isa.ClassADDI, gadget.RegOperand(isa.X5), gadget.RegOperand(isa.X5), gadget.ImmOperand(1)),
			base + 4: ins(base+4, 4, isa.ClassJALR, gadget.RegOperand(isa.X1), gadget.RegOperand(isa.X5), gadget.ImmOperand(0)),
		}
	}
	byAddr := mkProgram(0)
	for k, v := range mkProgram(100) {
		byAddr[k] = v
	}
	d := &scriptDecoder{byAddr: byAddr}

	set := Discover(d, make([]byte, 108), 0, query.Query{}, Options{Max: 5})
	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (identical byte content at both sites)", set.Len())
	}
}
