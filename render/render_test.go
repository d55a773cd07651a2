package render

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"rvjop/gadget"
	"rvjop/isa"
	"rvjop/query"
)

func init() {
	// Force plain output in tests regardless of the test runner's tty
	// detection, so assertions can match on literal text.
	color.NoColor = true
}

func mkIns(addr uint64, nbytes int, class isa.Class, ops ...gadget.Operand) gadget.Instruction {
	return gadget.Instruction{
		Address:  addr,
		Bytes:    make([]byte, nbytes),
		Class:    class,
		Mnemonic: class.String(),
		Operands: ops,
	}
}

func TestRenderBlockStripsCompressedPrefixAndSummarizes(t *testing.T) {
	addi := mkIns(0, 4, isa.ClassADDI, gadget.RegOperand(isa.X5), gadget.RegOperand(isa.X5), gadget.ImmOperand(1))
	root := mkIns(4, 2, isa.ClassCJR, gadget.RegOperand(isa.X5))
	set := gadget.NewSet()
	set.Add(gadget.NewGadget(root, []gadget.Instruction{addi}, 4))

	var sb strings.Builder
	New(&sb, Block, query.Query{}).Render(set)
	out := sb.String()

	if !strings.Contains(out, "addi") {
		t.Fatalf("expected addi mnemonic in output:\n%s", out)
	}
	if strings.Contains(out, "c.jr") {
		t.Fatalf("expected leading c. prefix to be stripped from jr:\n%s", out)
	}
	if !strings.Contains(out, "Found 1 unique gadgets.") {
		t.Fatalf("expected summary line:\n%s", out)
	}
	if !strings.Contains(out, "----------") {
		t.Fatalf("expected separator line:\n%s", out)
	}
}

func TestRenderInlineSingleLinePerGadget(t *testing.T) {
	addi := mkIns(0, 4, isa.ClassADDI, gadget.RegOperand(isa.X5), gadget.RegOperand(isa.X5), gadget.ImmOperand(1))
	root := mkIns(4, 2, isa.ClassCJR, gadget.RegOperand(isa.X5))
	set := gadget.NewSet()
	set.Add(gadget.NewGadget(root, []gadget.Instruction{addi}, 4))

	var sb strings.Builder
	New(&sb, Inline, query.Query{}).Render(set)
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected gadget line + separator + summary, got %d lines:\n%v", len(lines), lines)
	}
	if !strings.Contains(lines[0], ";") {
		t.Fatalf("expected inline separator ';' between instructions: %q", lines[0])
	}
}

func TestRenderEmptySetStillPrintsSummary(t *testing.T) {
	var sb strings.Builder
	New(&sb, Block, query.Query{}).Render(gadget.NewSet())
	out := sb.String()
	if !strings.Contains(out, "Found 0 unique gadgets.") {
		t.Fatalf("expected zero-gadget summary:\n%s", out)
	}
}
