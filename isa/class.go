package isa

import "fmt"

// Class is an opaque, stable instruction-class id assigned by this
// package's decoder. It plays the role spec.md calls class_id.
type Class uint16

// The full set of mnemonics this decoder recognizes. Compressed forms carry
// the C_ prefix in the identifier and the "c." prefix in their printable
// mnemonic, per spec.md's DecodedInstruction.mnemonic convention.
const (
	ClassInvalid Class = iota

	// Branching (indirect or privileged-return control transfer) — these
	// and only these are eligible as gadget roots.
	ClassJAL
	ClassJALR
	ClassCJAL
	ClassCJALR
	ClassMRET
	ClassSRET
	ClassURET
	ClassCJ
	ClassCJR

	// Conditional branches: not roots, not prefix-illegal either (they are
	// not in the branching set spec.md §4.C.1 enumerates).
	ClassBEQ
	ClassBNE
	ClassBLT
	ClassBGE
	ClassBLTU
	ClassBGEU
	ClassCBEQZ
	ClassCBNEZ

	// Integer loads.
	ClassLB
	ClassLH
	ClassLW
	ClassLD
	ClassLBU
	ClassLHU
	ClassLWU
	ClassCLW
	ClassCLD
	ClassCLWSP
	ClassCLDSP

	// Stores (decoded, not classified as load/arithmetic/branching).
	ClassSB
	ClassSH
	ClassSW
	ClassSD
	ClassCSW
	ClassCSD
	ClassCSWSP
	ClassCSDSP

	// Arithmetic (register-register and register-immediate ALU ops, plus
	// the M-extension multiply/divide family).
	ClassADD
	ClassADDI
	ClassADDW
	ClassADDIW
	ClassSUB
	ClassSUBW
	ClassAND
	ClassANDI
	ClassOR
	ClassORI
	ClassXOR
	ClassXORI
	ClassSLL
	ClassSLLI
	ClassSLLW
	ClassSLLIW
	ClassSRL
	ClassSRLI
	ClassSRLW
	ClassSRLIW
	ClassSRA
	ClassSRAI
	ClassSRAW
	ClassSRAIW
	ClassSLT
	ClassSLTI
	ClassSLTU
	ClassSLTIU
	ClassMUL
	ClassMULH
	ClassMULHSU
	ClassMULHU
	ClassDIV
	ClassDIVU
	ClassREM
	ClassREMU
	ClassMULW
	ClassDIVW
	ClassDIVUW
	ClassREMW
	ClassREMUW
	ClassCADD
	ClassCADDI
	ClassCADDIW
	ClassCADDW
	ClassCSUB
	ClassCSUBW
	ClassCAND
	ClassCANDI
	ClassCOR
	ClassCXOR
	ClassCSLLI
	ClassCSRLI
	ClassCSRAI
	ClassCMV
	ClassCLI
	ClassCLUI
	ClassCADDI4SPN
	ClassCADDI16SP

	// Miscellaneous, decoded for completeness but unclassified.
	ClassLUI
	ClassAUIPC
	ClassFENCE
	ClassECALL
	ClassEBREAK
	ClassCEBREAK
	ClassWFI
	ClassCNOP
	ClassCUNIMP
)

var classNames = map[Class]string{
	ClassJAL: "jal", ClassJALR: "jalr", ClassCJAL: "c.jal", ClassCJALR: "c.jalr",
	ClassMRET: "mret", ClassSRET: "sret", ClassURET: "uret", ClassCJ: "c.j", ClassCJR: "c.jr",

	ClassBEQ: "beq", ClassBNE: "bne", ClassBLT: "blt", ClassBGE: "bge",
	ClassBLTU: "bltu", ClassBGEU: "bgeu", ClassCBEQZ: "c.beqz", ClassCBNEZ: "c.bnez",

	ClassLB: "lb", ClassLH: "lh", ClassLW: "lw", ClassLD: "ld",
	ClassLBU: "lbu", ClassLHU: "lhu", ClassLWU: "lwu",
	ClassCLW: "c.lw", ClassCLD: "c.ld", ClassCLWSP: "c.lwsp", ClassCLDSP: "c.ldsp",

	ClassSB: "sb", ClassSH: "sh", ClassSW: "sw", ClassSD: "sd",
	ClassCSW: "c.sw", ClassCSD: "c.sd", ClassCSWSP: "c.swsp", ClassCSDSP: "c.sdsp",

	ClassADD: "add", ClassADDI: "addi", ClassADDW: "addw", ClassADDIW: "addiw",
	ClassSUB: "sub", ClassSUBW: "subw",
	ClassAND: "and", ClassANDI: "andi", ClassOR: "or", ClassORI: "ori",
	ClassXOR: "xor", ClassXORI: "xori",
	ClassSLL: "sll", ClassSLLI: "slli", ClassSLLW: "sllw", ClassSLLIW: "slliw",
	ClassSRL: "srl", ClassSRLI: "srli", ClassSRLW: "srlw", ClassSRLIW: "srliw",
	ClassSRA: "sra", ClassSRAI: "srai", ClassSRAW: "sraw", ClassSRAIW: "sraiw",
	ClassSLT: "slt", ClassSLTI: "slti", ClassSLTU: "sltu", ClassSLTIU: "sltiu",
	ClassMUL: "mul", ClassMULH: "mulh", ClassMULHSU: "mulhsu", ClassMULHU: "mulhu",
	ClassDIV: "div", ClassDIVU: "divu", ClassREM: "rem", ClassREMU: "remu",
	ClassMULW: "mulw", ClassDIVW: "divw", ClassDIVUW: "divuw", ClassREMW: "remw", ClassREMUW: "remuw",

	ClassCADD: "c.add", ClassCADDI: "c.addi", ClassCADDIW: "c.addiw", ClassCADDW: "c.addw",
	ClassCSUB: "c.sub", ClassCSUBW: "c.subw",
	ClassCAND: "c.and", ClassCANDI: "c.andi", ClassCOR: "c.or", ClassCXOR: "c.xor",
	ClassCSLLI: "c.slli", ClassCSRLI: "c.srli", ClassCSRAI: "c.srai",
	ClassCMV: "c.mv", ClassCLI: "c.li", ClassCLUI: "c.lui",
	ClassCADDI4SPN: "c.addi4spn", ClassCADDI16SP: "c.addi16sp",

	ClassLUI: "lui", ClassAUIPC: "auipc", ClassFENCE: "fence",
	ClassECALL: "ecall", ClassEBREAK: "ebreak", ClassCEBREAK: "c.ebreak",
	ClassWFI: "wfi", ClassCNOP: "c.nop", ClassCUNIMP: "c.unimp",
}

var classByName map[string]Class

func init() {
	classByName = make(map[string]Class, len(classNames))
	for id, name := range classNames {
		classByName[name] = id
	}
}

// String returns the printable mnemonic for c, including any "c." prefix.
// Renderers are responsible for stripping that prefix; the class table does
// not, since query matching and rendering have different needs.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", uint16(c))
}

// ParseClass resolves a mnemonic (e.g. "addi", "c.jr") to its Class id.
func ParseClass(mnemonic string) (Class, bool) {
	c, ok := classByName[mnemonic]
	return c, ok
}

// Branching is the set of instruction classes eligible as a gadget root:
// indirect jumps/calls, privileged returns, and their compressed forms.
var Branching = map[Class]bool{
	ClassJAL: true, ClassJALR: true, ClassCJAL: true, ClassCJALR: true,
	ClassMRET: true, ClassSRET: true, ClassURET: true, ClassCJ: true, ClassCJR: true,
}

// Load is the integer load family (and its compressed counterparts) used by
// the dispatcher structural predicate.
var Load = map[Class]bool{
	ClassLB: true, ClassLH: true, ClassLW: true, ClassLD: true,
	ClassLBU: true, ClassLHU: true, ClassLWU: true,
	ClassCLW: true, ClassCLD: true, ClassCLWSP: true, ClassCLDSP: true,
}

// Arithmetic is the integer ALU and multiply/divide family used by the
// dispatcher structural predicate.
var Arithmetic = map[Class]bool{
	ClassADD: true, ClassADDI: true, ClassADDW: true, ClassADDIW: true,
	ClassSUB: true, ClassSUBW: true,
	ClassAND: true, ClassANDI: true, ClassOR: true, ClassORI: true,
	ClassXOR: true, ClassXORI: true,
	ClassSLL: true, ClassSLLI: true, ClassSLLW: true, ClassSLLIW: true,
	ClassSRL: true, ClassSRLI: true, ClassSRLW: true, ClassSRLIW: true,
	ClassSRA: true, ClassSRAI: true, ClassSRAW: true, ClassSRAIW: true,
	ClassSLT: true, ClassSLTI: true, ClassSLTU: true, ClassSLTIU: true,
	ClassMUL: true, ClassMULH: true, ClassMULHSU: true, ClassMULHU: true,
	ClassDIV: true, ClassDIVU: true, ClassREM: true, ClassREMU: true,
	ClassMULW: true, ClassDIVW: true, ClassDIVUW: true, ClassREMW: true, ClassREMUW: true,
	ClassCADD: true, ClassCADDI: true, ClassCADDIW: true, ClassCADDW: true,
	ClassCSUB: true, ClassCSUBW: true,
	ClassCAND: true, ClassCANDI: true, ClassCOR: true, ClassCXOR: true,
	ClassCSLLI: true, ClassCSRLI: true, ClassCSRAI: true,
	ClassCMV: true, ClassCLI: true, ClassCLUI: true,
	ClassCADDI4SPN: true, ClassCADDI16SP: true,
}
