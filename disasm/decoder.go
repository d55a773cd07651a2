// Package disasm adapts a concrete instruction decoder to the contract
// spec.md §6.2 describes for the disassembler: decode_one / insn_detail,
// folded here into a single call since this decoder always has operand
// detail available.
package disasm

import "rvjop/gadget"

// Decoder attempts to decode exactly one instruction at the start of a byte
// slice. It returns ok == false on any failure to recognize the encoding —
// spec.md's DecodeFailure, which is never surfaced as an error and must be
// treated as "no instruction here" by the root finder and prefix
// enumerator.
type Decoder interface {
	DecodeOne(code []byte, addr uint64) (gadget.Instruction, bool)
}
