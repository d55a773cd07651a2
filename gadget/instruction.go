// Package gadget holds the core data model: the decoded-instruction view and
// the gadget (root + prefix) that the rest of the tool searches for and
// deduplicates.
package gadget

import "rvjop/isa"

// OperandKind tags the variant held by an Operand.
type OperandKind int

const (
	// OperandOther covers operand kinds the core does not need to inspect
	// (e.g. CSR names, rounding-mode tags).
	OperandOther OperandKind = iota
	OperandReg
	OperandImm
	OperandMem
)

// Operand is a tagged union over a decoded instruction's operand list. Only
// Reg, Imm and Mem carry data the query language inspects; other decoded
// operand forms are represented as OperandOther and ignored by queries.
type Operand struct {
	Kind OperandKind
	Reg  isa.Reg // valid when Kind == OperandReg, or as Mem's base register
	Imm  int64   // valid when Kind == OperandImm, or as Mem's displacement
}

// Mem builds a memory operand (base register + displacement), e.g. the
// "0(sp)" in "lw t0, 0(sp)".
func Mem(base isa.Reg, disp int64) Operand {
	return Operand{Kind: OperandMem, Reg: base, Imm: disp}
}

// RegOperand builds a bare register operand.
func RegOperand(r isa.Reg) Operand {
	return Operand{Kind: OperandReg, Reg: r}
}

// ImmOperand builds a signed-immediate operand.
func ImmOperand(v int64) Operand {
	return Operand{Kind: OperandImm, Imm: v}
}

// Instruction is the immutable decoded-instruction view the disassembler
// adapter hands to the core: spec.md's DecodedInstruction. Its bytes are
// owned copies, not references into the disassembler's buffers, so gadgets
// built from it can outlive the code region they were decoded from.
type Instruction struct {
	Address  uint64
	Bytes    []byte
	Class    isa.Class
	Mnemonic string
	Operands []Operand
}

// Len is the instruction's encoded length in bytes (2 or 4).
func (i Instruction) Len() int { return len(i.Bytes) }

// Regs iterates i's operands in order, yielding only the register operands
// (including a Mem operand's base register), preserving their relative
// order. This is the "iterator over register operands" spec.md §4.A
// requires.
func (i Instruction) Regs() []isa.Reg {
	var regs []isa.Reg
	for _, op := range i.Operands {
		switch op.Kind {
		case OperandReg, OperandMem:
			regs = append(regs, op.Reg)
		}
	}
	return regs
}

// DestReg returns i's destination register: its first register operand, by
// spec.md §4.C.1's convention. The second return value is false when i has
// no register operand at all (e.g. "c.jal", which carries only an offset).
func (i Instruction) DestReg() (isa.Reg, bool) {
	regs := i.Regs()
	if len(regs) == 0 {
		return 0, false
	}
	return regs[0], true
}

// SourceReg returns i's source register for a load: its last register
// operand, by spec.md §4.C.1's convention (the base register of the memory
// operand the load reads through).
func (i Instruction) SourceReg() (isa.Reg, bool) {
	regs := i.Regs()
	if len(regs) == 0 {
		return 0, false
	}
	return regs[len(regs)-1], true
}

// JumpTargetReg returns the register the root-finding contract (spec.md
// §4.D) calls i's "last register operand": used both to test the `jr`
// filter and to exclude zero-register roots. This is deliberately the raw
// last-register-operand convention with no JAL exception — §4.D's root
// scan and §9's dispatcher-eligibility carve-out are separate rules; see
// Gadget.IsDispatcher for the latter.
func (i Instruction) JumpTargetReg() (isa.Reg, bool) {
	return i.SourceReg()
}

// HasOperand reports whether op appears verbatim in i's operand list. Used
// by the query engine to test for an exact Reg/Imm match.
func (i Instruction) HasOperand(op Operand) bool {
	for _, o := range i.Operands {
		if o == op {
			return true
		}
	}
	return false
}
