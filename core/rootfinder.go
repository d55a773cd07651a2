// Package core wires the root finder, prefix enumerator, and orchestrator:
// components D, E, F. It is grounded on the backward two-phase search shape
// of the Rust predecessor's core.rs (find_gadget_roots / find_gadgets_at_root),
// generalized per spec.md §4.E to an explicit-stack DFS that branches on
// 4-byte vs 2-byte predecessor width at every step.
package core

import (
	"rvjop/disasm"
	"rvjop/gadget"
	"rvjop/isa"
)

// Root is a candidate gadget root: a decoded branching instruction and its
// offset into the code range.
type Root struct {
	Instruction gadget.Instruction
	Offset      uint64
}

// FindRoots implements component D: a linear, 2-byte-aligned scan of code
// producing every branching instruction that passes the jr operand policy.
// base is the virtual address of code[0]. jr, if non-nil, restricts results
// to roots whose jump-target register equals *jr. A root whose jump target
// is the zero register is always skipped, per spec.md §4.D ("a ret-like
// pattern is not a JOP dispatch target").
func FindRoots(d disasm.Decoder, code []byte, base uint64, jr *isa.Reg) []Root {
	var roots []Root
	for off := 0; off+1 < len(code); off += 2 {
		ins, ok := d.DecodeOne(code[off:], base+uint64(off))
		if !ok {
			continue
		}
		if !isa.Branching[ins.Class] {
			continue
		}
		target, hasReg := ins.JumpTargetReg()
		// Roots with no register operand at all (MRET, SRET, URET, C.J,
		// C.JAL) have no jump-target register; the zero-register skip below
		// only applies when one is actually present (JAL always carries rd,
		// so "j" = jal x0 is skipped).
		if jr != nil {
			if !hasReg || target != *jr {
				continue
			}
		}
		if hasReg && target == isa.Zero {
			continue
		}
		roots = append(roots, Root{Instruction: ins, Offset: uint64(off)})
	}
	return roots
}
