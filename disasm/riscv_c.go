package disasm

import (
	"encoding/binary"

	"rvjop/gadget"
	"rvjop/isa"
)

// decodeHalf decodes a 16-bit (2-byte) compressed instruction.
func (d *RISCV) decodeHalf(h uint16, addr uint64) (gadget.Instruction, bool) {
	if h == 0 {
		// The all-zero compressed word is a reserved illegal instruction in
		// every quadrant; treat it as a decode failure rather than a
		// meaningful c.unimp, matching how this decoder treats any other
		// non-recognized encoding.
		return gadget.Instruction{}, false
	}

	raw := make([]byte, 2)
	binary.LittleEndian.PutUint16(raw, h)
	w := uint32(h)

	quadrant := bits(w, 1, 0)
	funct3 := bits(w, 15, 13)

	switch quadrant {
	case 0:
		return d.decodeQuadrant0(raw, addr, funct3, w)
	case 1:
		return d.decodeQuadrant1(raw, addr, funct3, w)
	case 2:
		return d.decodeQuadrant2(raw, addr, funct3, w)
	default:
		return gadget.Instruction{}, false
	}
}

func (d *RISCV) decodeQuadrant0(raw []byte, addr uint64, funct3 uint32, w uint32) (gadget.Instruction, bool) {
	rdp := compressedReg(bits(w, 4, 2))
	rs1p := compressedReg(bits(w, 9, 7))

	switch funct3 {
	case 0: // C.ADDI4SPN
		nzuimm := (bits(w, 12, 11) << 4) | (bits(w, 10, 7) << 6) | (bit(w, 6) << 2) | (bit(w, 5) << 3)
		if nzuimm == 0 {
			return gadget.Instruction{}, false
		}
		return instr(addr, raw, isa.ClassCADDI4SPN, gadget.RegOperand(rdp), gadget.RegOperand(isa.X2), gadget.ImmOperand(int64(nzuimm))), true
	case 2: // C.LW
		imm := (bits(w, 12, 10) << 3) | (bit(w, 6) << 2) | (bit(w, 5) << 6)
		return instr(addr, raw, isa.ClassCLW, gadget.RegOperand(rdp), gadget.Mem(rs1p, int64(imm))), true
	case 3: // C.LD (RV64)
		if d.Width == isa.RV32IC {
			return gadget.Instruction{}, false
		}
		imm := (bits(w, 12, 10) << 3) | (bits(w, 6, 5) << 6)
		return instr(addr, raw, isa.ClassCLD, gadget.RegOperand(rdp), gadget.Mem(rs1p, int64(imm))), true
	case 6: // C.SW
		imm := (bits(w, 12, 10) << 3) | (bit(w, 6) << 2) | (bit(w, 5) << 6)
		return instr(addr, raw, isa.ClassCSW, gadget.RegOperand(rdp), gadget.Mem(rs1p, int64(imm))), true
	case 7: // C.SD (RV64)
		if d.Width == isa.RV32IC {
			return gadget.Instruction{}, false
		}
		imm := (bits(w, 12, 10) << 3) | (bits(w, 6, 5) << 6)
		return instr(addr, raw, isa.ClassCSD, gadget.RegOperand(rdp), gadget.Mem(rs1p, int64(imm))), true
	default:
		return gadget.Instruction{}, false
	}
}

func (d *RISCV) decodeQuadrant1(raw []byte, addr uint64, funct3 uint32, w uint32) (gadget.Instruction, bool) {
	rd := reg(bits(w, 11, 7))

	switch funct3 {
	case 0: // C.ADDI / C.NOP
		imm := signExtend((bit(w, 12)<<5)|bits(w, 6, 2), 6)
		if rd == isa.Zero {
			return instr(addr, raw, isa.ClassCNOP), true
		}
		return instr(addr, raw, isa.ClassCADDI, gadget.RegOperand(rd), gadget.RegOperand(rd), gadget.ImmOperand(imm)), true

	case 1:
		if d.Width == isa.RV32IC {
			// C.JAL: unconditional call, writes ra, no register jump
			// target — like JAL, it can never be dispatcher-eligible.
			imm := decodeCJImm(w)
			return instr(addr, raw, isa.ClassCJAL, gadget.ImmOperand(imm)), true
		}
		// C.ADDIW (RV64/128), reserved when rd == x0.
		if rd == isa.Zero {
			return gadget.Instruction{}, false
		}
		imm := signExtend((bit(w, 12)<<5)|bits(w, 6, 2), 6)
		return instr(addr, raw, isa.ClassCADDIW, gadget.RegOperand(rd), gadget.RegOperand(rd), gadget.ImmOperand(imm)), true

	case 2: // C.LI
		imm := signExtend((bit(w, 12)<<5)|bits(w, 6, 2), 6)
		return instr(addr, raw, isa.ClassCLI, gadget.RegOperand(rd), gadget.ImmOperand(imm)), true

	case 3:
		if rd == isa.X2 { // C.ADDI16SP
			imm := signExtend((bit(w, 12)<<9)|(bit(w, 6)<<4)|(bit(w, 5)<<6)|(bits(w, 4, 3)<<7)|(bit(w, 2)<<5), 10)
			if imm == 0 {
				return gadget.Instruction{}, false
			}
			return instr(addr, raw, isa.ClassCADDI16SP, gadget.RegOperand(isa.X2), gadget.RegOperand(isa.X2), gadget.ImmOperand(imm)), true
		}
		// C.LUI
		imm := signExtend((bit(w, 12)<<17)|(bits(w, 6, 2)<<12), 18)
		if imm == 0 || rd == isa.Zero {
			return gadget.Instruction{}, false
		}
		return instr(addr, raw, isa.ClassCLUI, gadget.RegOperand(rd), gadget.ImmOperand(imm)), true

	case 4:
		rdp := compressedReg(bits(w, 9, 7))
		funct2 := bits(w, 11, 10)
		switch funct2 {
		case 0: // C.SRLI
			sh := (bit(w, 12) << 5) | bits(w, 6, 2)
			return instr(addr, raw, isa.ClassCSRLI, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.ImmOperand(int64(sh))), true
		case 1: // C.SRAI
			sh := (bit(w, 12) << 5) | bits(w, 6, 2)
			return instr(addr, raw, isa.ClassCSRAI, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.ImmOperand(int64(sh))), true
		case 2: // C.ANDI
			imm := signExtend((bit(w, 12)<<5)|bits(w, 6, 2), 6)
			return instr(addr, raw, isa.ClassCANDI, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.ImmOperand(imm)), true
		case 3:
			rs2p := compressedReg(bits(w, 4, 2))
			funct2b := bits(w, 6, 5)
			if bit(w, 12) == 0 {
				switch funct2b {
				case 0:
					return instr(addr, raw, isa.ClassCSUB, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.RegOperand(rs2p)), true
				case 1:
					return instr(addr, raw, isa.ClassCXOR, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.RegOperand(rs2p)), true
				case 2:
					return instr(addr, raw, isa.ClassCOR, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.RegOperand(rs2p)), true
				case 3:
					return instr(addr, raw, isa.ClassCAND, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.RegOperand(rs2p)), true
				}
			} else if d.Width == isa.RV64IC {
				switch funct2b {
				case 0:
					return instr(addr, raw, isa.ClassCSUBW, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.RegOperand(rs2p)), true
				case 1:
					return instr(addr, raw, isa.ClassCADDW, gadget.RegOperand(rdp), gadget.RegOperand(rdp), gadget.RegOperand(rs2p)), true
				}
			}
		}
		return gadget.Instruction{}, false

	case 5: // C.J
		imm := decodeCJImm(w)
		return instr(addr, raw, isa.ClassCJ, gadget.ImmOperand(imm)), true

	case 6: // C.BEQZ
		rs1p := compressedReg(bits(w, 9, 7))
		imm := decodeCBImm(w)
		return instr(addr, raw, isa.ClassCBEQZ, gadget.RegOperand(rs1p), gadget.ImmOperand(imm)), true

	case 7: // C.BNEZ
		rs1p := compressedReg(bits(w, 9, 7))
		imm := decodeCBImm(w)
		return instr(addr, raw, isa.ClassCBNEZ, gadget.RegOperand(rs1p), gadget.ImmOperand(imm)), true
	}
	return gadget.Instruction{}, false
}

func (d *RISCV) decodeQuadrant2(raw []byte, addr uint64, funct3 uint32, w uint32) (gadget.Instruction, bool) {
	rd := reg(bits(w, 11, 7))
	rs2 := reg(bits(w, 6, 2))

	switch funct3 {
	case 0: // C.SLLI
		if rd == isa.Zero {
			return gadget.Instruction{}, false
		}
		sh := (bit(w, 12) << 5) | bits(w, 6, 2)
		return instr(addr, raw, isa.ClassCSLLI, gadget.RegOperand(rd), gadget.RegOperand(rd), gadget.ImmOperand(int64(sh))), true

	case 2: // C.LWSP
		if rd == isa.Zero {
			return gadget.Instruction{}, false
		}
		imm := (bit(w, 12) << 5) | (bits(w, 6, 4) << 2) | (bits(w, 3, 2) << 6)
		return instr(addr, raw, isa.ClassCLWSP, gadget.RegOperand(rd), gadget.Mem(isa.X2, int64(imm))), true

	case 3: // C.LDSP (RV64)
		if d.Width == isa.RV32IC || rd == isa.Zero {
			return gadget.Instruction{}, false
		}
		imm := (bit(w, 12) << 5) | (bits(w, 6, 5) << 3) | (bits(w, 4, 2) << 6)
		return instr(addr, raw, isa.ClassCLDSP, gadget.RegOperand(rd), gadget.Mem(isa.X2, int64(imm))), true

	case 4:
		if bit(w, 12) == 0 {
			if rs2 == isa.Zero {
				if rd == isa.Zero {
					return gadget.Instruction{}, false
				}
				return instr(addr, raw, isa.ClassCJR, gadget.RegOperand(rd)), true
			}
			return instr(addr, raw, isa.ClassCMV, gadget.RegOperand(rd), gadget.RegOperand(rs2)), true
		}
		if rs2 == isa.Zero {
			if rd == isa.Zero {
				return instr(addr, raw, isa.ClassCEBREAK), true
			}
			return instr(addr, raw, isa.ClassCJALR, gadget.RegOperand(isa.X1), gadget.RegOperand(rd)), true
		}
		if rd == isa.Zero {
			return gadget.Instruction{}, false
		}
		return instr(addr, raw, isa.ClassCADD, gadget.RegOperand(rd), gadget.RegOperand(rd), gadget.RegOperand(rs2)), true

	case 6: // C.SWSP
		imm := (bits(w, 12, 9) << 2) | (bits(w, 8, 7) << 6)
		return instr(addr, raw, isa.ClassCSWSP, gadget.RegOperand(rs2), gadget.Mem(isa.X2, int64(imm))), true

	case 7: // C.SDSP (RV64)
		if d.Width == isa.RV32IC {
			return gadget.Instruction{}, false
		}
		imm := (bits(w, 12, 10) << 3) | (bits(w, 9, 7) << 6)
		return instr(addr, raw, isa.ClassCSDSP, gadget.RegOperand(rs2), gadget.Mem(isa.X2, int64(imm))), true
	}
	return gadget.Instruction{}, false
}

// decodeCJImm decodes the 11-bit signed offset shared by C.J and C.JAL.
func decodeCJImm(w uint32) int64 {
	imm := (bit(w, 12) << 11) | (bit(w, 11) << 4) | (bits(w, 10, 9) << 8) |
		(bit(w, 8) << 10) | (bit(w, 7) << 6) | (bit(w, 6) << 7) |
		(bits(w, 5, 3) << 1) | (bit(w, 2) << 5)
	return signExtend(imm, 12)
}

// decodeCBImm decodes the 8-bit signed offset shared by C.BEQZ and C.BNEZ.
func decodeCBImm(w uint32) int64 {
	imm := (bit(w, 12) << 8) | (bits(w, 11, 10) << 3) | (bits(w, 6, 5) << 6) |
		(bits(w, 4, 3) << 1) | (bit(w, 2) << 5)
	return signExtend(imm, 9)
}
