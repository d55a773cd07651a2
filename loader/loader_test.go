package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rvjop/isa"
	"rvjop/rverr"
)

func TestFromRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.bin")
	data := []byte{0x93, 0x82, 0x12, 0x00, 0xe7, 0x80, 0x02, 0x00}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	region, err := FromRaw(path, isa.RV64IC)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	if region.BaseAddress != 0 {
		t.Fatalf("BaseAddress = %d, want 0", region.BaseAddress)
	}
	if len(region.Bytes) != len(data) {
		t.Fatalf("Bytes len = %d, want %d", len(region.Bytes), len(data))
	}
	if region.ISA != isa.RV64IC {
		t.Fatalf("ISA = %v, want RV64IC", region.ISA)
	}
}

func TestFromRawMissingFile(t *testing.T) {
	_, err := FromRaw(filepath.Join(t.TempDir(), "missing.bin"), isa.RV64IC)
	if !errors.Is(err, rverr.ErrInputIO) {
		t.Fatalf("err = %v, want ErrInputIO", err)
	}
}

func TestFromELFRejectsNonELF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notanelf.bin")
	if err := os.WriteFile(path, []byte("not an elf file at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := FromELF(path, isa.RV64IC)
	if !errors.Is(err, rverr.ErrInputFormat) {
		t.Fatalf("err = %v, want ErrInputFormat", err)
	}
}

func TestFromELFMissingFile(t *testing.T) {
	_, err := FromELF(filepath.Join(t.TempDir(), "missing.elf"), isa.RV64IC)
	if !errors.Is(err, rverr.ErrInputIO) {
		t.Fatalf("err = %v, want ErrInputIO (unreadable file)", err)
	}
}
