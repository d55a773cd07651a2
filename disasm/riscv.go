package disasm

import (
	"encoding/binary"

	"rvjop/gadget"
	"rvjop/isa"
)

// RISCV is a table-driven decoder for the RV32IC/RV64IC base integer ISA,
// the M (multiply/divide) extension, and the compressed (C) extension. It
// is this repository's own implementation of the spec.md §6.2 contract: no
// Capstone/RISC-V disassembler binding exists anywhere in the reference
// corpus this tool was built from, so there is nothing to wire a dependency
// to here (see DESIGN.md).
//
// Any encoding RISCV does not recognize is a decode failure: it returns
// ok == false rather than guessing, matching spec.md §7's policy that
// DecodeFailure is an expected, silent outcome of probing every offset and
// every predecessor width.
type RISCV struct {
	Width isa.Width
}

// New returns a decoder configured for the given base integer width. The
// compressed extension is always enabled, per spec.md §1's scope.
func New(width isa.Width) *RISCV {
	return &RISCV{Width: width}
}

func (d *RISCV) DecodeOne(code []byte, addr uint64) (gadget.Instruction, bool) {
	if len(code) < 2 {
		return gadget.Instruction{}, false
	}
	if code[0]&0x3 == 0x3 {
		if len(code) < 4 {
			return gadget.Instruction{}, false
		}
		word := binary.LittleEndian.Uint32(code[:4])
		return d.decodeWord(word, addr)
	}
	half := binary.LittleEndian.Uint16(code[:2])
	return d.decodeHalf(half, addr)
}

func signExtend(v uint32, bits int) int64 {
	shift := 32 - bits
	return int64(int32(v<<shift) >> shift)
}

func bit(w uint32, n uint) uint32    { return (w >> n) & 1 }
func bits(w uint32, hi, lo uint) uint32 { return (w >> lo) & ((1 << (hi - lo + 1)) - 1) }

func reg(v uint32) isa.Reg { return isa.Reg(v & 0x1f) }

// compressedReg maps a 3-bit compressed register field to x8-x15.
func compressedReg(v uint32) isa.Reg { return isa.Reg((v & 0x7) + 8) }

func instr(addr uint64, raw []byte, class isa.Class, ops ...gadget.Operand) gadget.Instruction {
	b := make([]byte, len(raw))
	copy(b, raw)
	return gadget.Instruction{
		Address:  addr,
		Bytes:    b,
		Class:    class,
		Mnemonic: class.String(),
		Operands: ops,
	}
}

// decodeWord decodes a 32-bit (4-byte) instruction.
func (d *RISCV) decodeWord(word uint32, addr uint64) (gadget.Instruction, bool) {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, word)

	opcode := bits(word, 6, 0)
	rd := reg(bits(word, 11, 7))
	funct3 := bits(word, 14, 12)
	rs1 := reg(bits(word, 19, 15))
	rs2 := reg(bits(word, 24, 20))
	funct7 := bits(word, 31, 25)

	iImm := signExtend(bits(word, 31, 20), 12)
	sImm := signExtend((bits(word, 31, 25)<<5)|bits(word, 11, 7), 12)
	bImm := signExtend((bit(word, 31)<<12)|(bit(word, 7)<<11)|(bits(word, 30, 25)<<5)|(bits(word, 11, 8)<<1), 13)
	uImm := int64(int32(word & 0xfffff000))
	jImm := signExtend((bit(word, 31)<<20)|(bits(word, 19, 12)<<12)|(bit(word, 20)<<11)|(bits(word, 30, 21)<<1), 21)

	switch opcode {
	case 0x03: // LOAD
		var class isa.Class
		switch funct3 {
		case 0:
			class = isa.ClassLB
		case 1:
			class = isa.ClassLH
		case 2:
			class = isa.ClassLW
		case 3:
			if d.Width == isa.RV32IC {
				return gadget.Instruction{}, false
			}
			class = isa.ClassLD
		case 4:
			class = isa.ClassLBU
		case 5:
			class = isa.ClassLHU
		case 6:
			if d.Width == isa.RV32IC {
				return gadget.Instruction{}, false
			}
			class = isa.ClassLWU
		default:
			return gadget.Instruction{}, false
		}
		return instr(addr, raw, class, gadget.RegOperand(rd), gadget.Mem(rs1, iImm)), true

	case 0x0F: // MISC-MEM
		if funct3 == 0 {
			return instr(addr, raw, isa.ClassFENCE), true
		}
		return gadget.Instruction{}, false

	case 0x13: // OP-IMM
		return d.decodeOpImm(raw, addr, funct3, rd, rs1, iImm, word)

	case 0x17:
		return instr(addr, raw, isa.ClassAUIPC, gadget.RegOperand(rd), gadget.ImmOperand(uImm)), true

	case 0x1B: // OP-IMM-32
		if d.Width == isa.RV32IC {
			return gadget.Instruction{}, false
		}
		return d.decodeOpImm32(raw, addr, funct3, rd, rs1, iImm, word)

	case 0x23: // STORE
		var class isa.Class
		switch funct3 {
		case 0:
			class = isa.ClassSB
		case 1:
			class = isa.ClassSH
		case 2:
			class = isa.ClassSW
		case 3:
			if d.Width == isa.RV32IC {
				return gadget.Instruction{}, false
			}
			class = isa.ClassSD
		default:
			return gadget.Instruction{}, false
		}
		return instr(addr, raw, class, gadget.RegOperand(rs2), gadget.Mem(rs1, sImm)), true

	case 0x33: // OP
		return d.decodeOp(raw, addr, funct3, funct7, rd, rs1, rs2)

	case 0x37:
		return instr(addr, raw, isa.ClassLUI, gadget.RegOperand(rd), gadget.ImmOperand(uImm)), true

	case 0x3B: // OP-32
		if d.Width == isa.RV32IC {
			return gadget.Instruction{}, false
		}
		return d.decodeOp32(raw, addr, funct3, funct7, rd, rs1, rs2)

	case 0x63: // BRANCH
		var class isa.Class
		switch funct3 {
		case 0:
			class = isa.ClassBEQ
		case 1:
			class = isa.ClassBNE
		case 4:
			class = isa.ClassBLT
		case 5:
			class = isa.ClassBGE
		case 6:
			class = isa.ClassBLTU
		case 7:
			class = isa.ClassBGEU
		default:
			return gadget.Instruction{}, false
		}
		return instr(addr, raw, class, gadget.RegOperand(rs1), gadget.RegOperand(rs2), gadget.ImmOperand(bImm)), true

	case 0x67: // JALR
		if funct3 != 0 {
			return gadget.Instruction{}, false
		}
		return instr(addr, raw, isa.ClassJALR, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(iImm)), true

	case 0x6F: // JAL
		return instr(addr, raw, isa.ClassJAL, gadget.RegOperand(rd), gadget.ImmOperand(jImm)), true

	case 0x73: // SYSTEM
		if funct3 != 0 || rd != isa.Zero || rs1 != isa.Zero {
			return gadget.Instruction{}, false
		}
		funct12 := bits(word, 31, 20)
		switch funct12 {
		case 0x000:
			return instr(addr, raw, isa.ClassECALL), true
		case 0x001:
			return instr(addr, raw, isa.ClassEBREAK), true
		case 0x302:
			return instr(addr, raw, isa.ClassMRET), true
		case 0x102:
			return instr(addr, raw, isa.ClassSRET), true
		case 0x002:
			return instr(addr, raw, isa.ClassURET), true
		case 0x105:
			return instr(addr, raw, isa.ClassWFI), true
		default:
			return gadget.Instruction{}, false
		}

	default:
		return gadget.Instruction{}, false
	}
}

func (d *RISCV) decodeOpImm(raw []byte, addr uint64, funct3 uint32, rd, rs1 isa.Reg, iImm int64, word uint32) (gadget.Instruction, bool) {
	switch funct3 {
	case 0:
		return instr(addr, raw, isa.ClassADDI, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(iImm)), true
	case 2:
		return instr(addr, raw, isa.ClassSLTI, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(iImm)), true
	case 3:
		return instr(addr, raw, isa.ClassSLTIU, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(iImm)), true
	case 4:
		return instr(addr, raw, isa.ClassXORI, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(iImm)), true
	case 6:
		return instr(addr, raw, isa.ClassORI, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(iImm)), true
	case 7:
		return instr(addr, raw, isa.ClassANDI, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(iImm)), true
	case 1:
		// Shamt occupies word[24:20] for RV32 (5 bits) or word[25:20] for
		// RV64 (6 bits); bit 25 is part of the always-zero funct7 on RV32,
		// so reading the wider field is safe for both widths.
		sh := bits(word, 25, 20)
		return instr(addr, raw, isa.ClassSLLI, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(int64(sh))), true
	case 5:
		sh := bits(word, 25, 20)
		if bit(word, 30) != 0 {
			return instr(addr, raw, isa.ClassSRAI, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(int64(sh))), true
		}
		return instr(addr, raw, isa.ClassSRLI, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(int64(sh))), true
	}
	return gadget.Instruction{}, false
}

func (d *RISCV) decodeOpImm32(raw []byte, addr uint64, funct3 uint32, rd, rs1 isa.Reg, iImm int64, word uint32) (gadget.Instruction, bool) {
	switch funct3 {
	case 0:
		return instr(addr, raw, isa.ClassADDIW, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(iImm)), true
	case 1:
		sh := bits(word, 24, 20)
		return instr(addr, raw, isa.ClassSLLIW, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(int64(sh))), true
	case 5:
		sh := bits(word, 24, 20)
		funct7 := bits(word, 31, 25)
		if funct7&0x20 != 0 {
			return instr(addr, raw, isa.ClassSRAIW, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(int64(sh))), true
		}
		return instr(addr, raw, isa.ClassSRLIW, gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.ImmOperand(int64(sh))), true
	}
	return gadget.Instruction{}, false
}

func (d *RISCV) decodeOp(raw []byte, addr uint64, funct3, funct7 uint32, rd, rs1, rs2 isa.Reg) (gadget.Instruction, bool) {
	ops := []gadget.Operand{gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.RegOperand(rs2)}
	switch funct7 {
	case 0x00:
		switch funct3 {
		case 0:
			return instr(addr, raw, isa.ClassADD, ops...), true
		case 1:
			return instr(addr, raw, isa.ClassSLL, ops...), true
		case 2:
			return instr(addr, raw, isa.ClassSLT, ops...), true
		case 3:
			return instr(addr, raw, isa.ClassSLTU, ops...), true
		case 4:
			return instr(addr, raw, isa.ClassXOR, ops...), true
		case 5:
			return instr(addr, raw, isa.ClassSRL, ops...), true
		case 6:
			return instr(addr, raw, isa.ClassOR, ops...), true
		case 7:
			return instr(addr, raw, isa.ClassAND, ops...), true
		}
	case 0x20:
		switch funct3 {
		case 0:
			return instr(addr, raw, isa.ClassSUB, ops...), true
		case 5:
			return instr(addr, raw, isa.ClassSRA, ops...), true
		}
	case 0x01:
		switch funct3 {
		case 0:
			return instr(addr, raw, isa.ClassMUL, ops...), true
		case 1:
			return instr(addr, raw, isa.ClassMULH, ops...), true
		case 2:
			return instr(addr, raw, isa.ClassMULHSU, ops...), true
		case 3:
			return instr(addr, raw, isa.ClassMULHU, ops...), true
		case 4:
			return instr(addr, raw, isa.ClassDIV, ops...), true
		case 5:
			return instr(addr, raw, isa.ClassDIVU, ops...), true
		case 6:
			return instr(addr, raw, isa.ClassREM, ops...), true
		case 7:
			return instr(addr, raw, isa.ClassREMU, ops...), true
		}
	}
	return gadget.Instruction{}, false
}

func (d *RISCV) decodeOp32(raw []byte, addr uint64, funct3, funct7 uint32, rd, rs1, rs2 isa.Reg) (gadget.Instruction, bool) {
	ops := []gadget.Operand{gadget.RegOperand(rd), gadget.RegOperand(rs1), gadget.RegOperand(rs2)}
	switch funct7 {
	case 0x00:
		switch funct3 {
		case 0:
			return instr(addr, raw, isa.ClassADDW, ops...), true
		case 1:
			return instr(addr, raw, isa.ClassSLLW, ops...), true
		case 5:
			return instr(addr, raw, isa.ClassSRLW, ops...), true
		}
	case 0x20:
		switch funct3 {
		case 0:
			return instr(addr, raw, isa.ClassSUBW, ops...), true
		case 5:
			return instr(addr, raw, isa.ClassSRAW, ops...), true
		}
	case 0x01:
		switch funct3 {
		case 0:
			return instr(addr, raw, isa.ClassMULW, ops...), true
		case 4:
			return instr(addr, raw, isa.ClassDIVW, ops...), true
		case 5:
			return instr(addr, raw, isa.ClassDIVUW, ops...), true
		case 6:
			return instr(addr, raw, isa.ClassREMW, ops...), true
		case 7:
			return instr(addr, raw, isa.ClassREMUW, ops...), true
		}
	}
	return gadget.Instruction{}, false
}
