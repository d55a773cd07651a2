package core

import (
	"rvjop/disasm"
	"rvjop/gadget"
	"rvjop/isa"
)

// frame is one level of the explicit backward-search stack: the leftmost
// offset the working prefix covers at this level and which predecessor
// widths have already been tried there. Using an explicit stack instead
// of native recursion keeps the search iterative, matching spec.md §9's
// stated preference.
type frame struct {
	offCur uint64 // leftmost address (offset) covered by the prefix so far
	tried4 bool
	tried2 bool
}

// EnumeratePrefixes implements component E: given a root and the code range
// it sits in, produce every candidate gadget (root + non-empty prefix, all
// non-branching, length ≤ max) reachable by the backward depth-first search
// spec.md §4.E describes. emit is called once per candidate, in discovery
// order; returning early is not supported, callers that want to stop early
// should filter afterward.
func EnumeratePrefixes(d disasm.Decoder, code []byte, base uint64, root Root, max int, emit func(prefix []gadget.Instruction)) {
	if max <= 0 {
		return
	}

	var prefix []gadget.Instruction // innermost-first: prefix[0] immediately precedes root
	var stack []frame
	stack = append(stack, frame{offCur: root.Offset})

	for len(stack) > 0 {
		idx := len(stack) - 1
		top := &stack[idx]

		if !top.tried4 {
			top.tried4 = true
			if ins, ok := tryPredecessor(d, code, base, top.offCur, 4); ok {
				prefix = append(prefix, ins)
				emitIfDue(prefix, max, emit)
				if len(prefix) < max {
					stack = append(stack, frame{offCur: top.offCur - 4})
					continue
				}
				prefix = prefix[:len(prefix)-1]
			}
		}

		if !top.tried2 {
			top.tried2 = true
			if ins, ok := tryPredecessor(d, code, base, top.offCur, 2); ok {
				prefix = append(prefix, ins)
				emitIfDue(prefix, max, emit)
				if len(prefix) < max {
					stack = append(stack, frame{offCur: top.offCur - 2})
					continue
				}
				prefix = prefix[:len(prefix)-1]
			}
			continue
		}

		// Both alternatives at this level are exhausted: pop back up,
		// un-prepending the instruction that got us to this level. Index 0
		// is the root's own frame and never added a prefix instruction.
		stack = stack[:idx]
		if idx > 0 {
			prefix = prefix[:len(prefix)-1]
		}
	}
}

// tryPredecessor attempts to decode exactly one instruction of the given
// width ending at offCur, per spec.md §4.E's exact-length and
// non-branching requirements.
func tryPredecessor(d disasm.Decoder, code []byte, base, offCur uint64, width uint64) (gadget.Instruction, bool) {
	if offCur < width {
		return gadget.Instruction{}, false
	}
	start := offCur - width
	ins, ok := d.DecodeOne(code[start:offCur], base+start)
	if !ok {
		return gadget.Instruction{}, false
	}
	if uint64(ins.Len()) != width {
		return gadget.Instruction{}, false
	}
	if isa.Branching[ins.Class] {
		return gadget.Instruction{}, false
	}
	return ins, true
}

// emitIfDue reports the current prefix as a candidate whenever it is
// non-empty and within bound, per spec.md §4.E ("at every node where P is
// non-empty and |P| ≤ max, emit").
func emitIfDue(prefix []gadget.Instruction, max int, emit func([]gadget.Instruction)) {
	if len(prefix) == 0 || len(prefix) > max {
		return
	}
	cp := make([]gadget.Instruction, len(prefix))
	copy(cp, prefix)
	emit(cp)
}
