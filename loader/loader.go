// Package loader implements spec.md §6.1's code-provider contract: turning a
// file on disk into the CodeRegion the core searches over. ELF parsing uses
// only the standard library's debug/elf — the reference corpus was searched
// for a third-party ELF reader and none exists (see DESIGN.md), so this is
// the one package in the tree with no library to wire.
package loader

import (
	"debug/elf"
	"os"

	"rvjop/isa"
	"rvjop/rverr"
)

// CodeRegion is the core's view of the bytes it searches: a contiguous
// executable byte range, the address its first byte is loaded at, and the
// ISA width it should be decoded as. It is the Go shape of spec.md §6.1's
// CodeRegion.
type CodeRegion struct {
	Bytes       []byte
	BaseAddress uint64
	ISA         isa.Width
}

// FromRaw builds a CodeRegion directly from a file's full contents, per
// spec.md §6.1's "raw mode": base_address = 0, the whole file is code.
func FromRaw(path string, width isa.Width) (CodeRegion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CodeRegion{}, rverr.Wrap(rverr.ErrInputIO, "read "+path, err)
	}
	return CodeRegion{Bytes: data, BaseAddress: 0, ISA: width}, nil
}

// FromELF opens path as an ELF file, validates its machine type matches
// width, and locates the first program header whose flags are exactly R|X
// (spec.md §6.1), returning the slice of raw bytes it covers.
func FromELF(path string, width isa.Width) (CodeRegion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CodeRegion{}, rverr.Wrap(rverr.ErrInputIO, "read "+path, err)
	}

	f, err := elf.Open(path)
	if err != nil {
		return CodeRegion{}, rverr.Wrap(rverr.ErrInputFormat, "open "+path+" as ELF", err)
	}
	defer f.Close()

	if f.Machine != elf.EM_RISCV {
		return CodeRegion{}, rverr.Wrap(rverr.ErrInputFormat, "unexpected ELF machine type", nil)
	}
	switch width {
	case isa.RV32IC:
		if f.Class != elf.ELFCLASS32 {
			return CodeRegion{}, rverr.Wrap(rverr.ErrInputFormat, "ELF is not 32-bit", nil)
		}
	case isa.RV64IC:
		if f.Class != elf.ELFCLASS64 {
			return CodeRegion{}, rverr.Wrap(rverr.ErrInputFormat, "ELF is not 64-bit", nil)
		}
	}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if prog.Flags != (elf.PF_R | elf.PF_X) {
			continue
		}
		start := prog.Off
		end := start + prog.Filesz
		if end > uint64(len(data)) {
			return CodeRegion{}, rverr.Wrap(rverr.ErrInputFormat, "program header extends past end of file", nil)
		}
		return CodeRegion{
			Bytes:       data[start:end],
			BaseAddress: prog.Vaddr,
			ISA:         width,
		}, nil
	}
	return CodeRegion{}, rverr.ErrNoCodeSegment
}
