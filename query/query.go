// Package query implements the predicate language over gadgets: §4.C of
// spec.md.
package query

import (
	"fmt"
	"strings"

	"rvjop/gadget"
	"rvjop/isa"
)

// Query is an immutable set of filters evaluated against gadgets discovered
// for one run. The zero value is the empty query (matches every gadget,
// satisfies no individual instruction — see SatisfiedByInstruction).
type Query struct {
	ReadReg    *isa.Reg
	WriteReg   *isa.Reg
	Imm        *int64
	Op         *isa.Class
	Dispatcher bool
}

// Empty reports whether none of ReadReg, WriteReg, Imm, Op is set. An empty
// query's Dispatcher flag is independent of this: §4.C treats "empty" as
// "no instruction-level filters", not "no filters at all".
func (q Query) Empty() bool {
	return q.ReadReg == nil && q.WriteReg == nil && q.Imm == nil && q.Op == nil
}

// SatisfiedByInstruction reports whether every constraint q sets holds for
// ins, per spec.md §4.C. An empty query is never satisfied by an individual
// instruction — this is the deliberate asymmetry spec.md §9 documents,
// kept so that a renderer coloring "this instruction contributed to the
// match" highlights nothing when the user supplied no filter.
func (q Query) SatisfiedByInstruction(ins gadget.Instruction) bool {
	if q.Empty() {
		return false
	}
	if q.Op != nil && *q.Op != ins.Class {
		return false
	}
	if q.WriteReg != nil && !ins.HasOperand(gadget.RegOperand(*q.WriteReg)) {
		return false
	}
	if q.ReadReg != nil && !ins.HasOperand(gadget.RegOperand(*q.ReadReg)) {
		return false
	}
	if q.Imm != nil && !ins.HasOperand(gadget.ImmOperand(*q.Imm)) {
		return false
	}
	return true
}

// SatisfiedByGadget reports whether g matches q, per spec.md §4.C: the
// dispatcher flag (if set) must hold; an empty query (with no dispatcher
// requirement left unmet) matches every gadget; otherwise at least one
// prefix instruction must satisfy SatisfiedByInstruction.
func (q Query) SatisfiedByGadget(g *gadget.Gadget) bool {
	if q.Dispatcher && !g.IsDispatcher() {
		return false
	}
	if q.Empty() {
		return true
	}
	for _, ins := range g.Prefix {
		if q.SatisfiedByInstruction(ins) {
			return true
		}
	}
	return false
}

// String renders the active filters, in the spirit of the original tool's
// Query Display implementation, extended to cover imm and dispatcher.
func (q Query) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "instruction:    %s\n", classOrDash(q.Op))
	fmt.Fprintf(&sb, "read register:  %s\n", regOrDash(q.ReadReg))
	fmt.Fprintf(&sb, "write register: %s\n", regOrDash(q.WriteReg))
	fmt.Fprintf(&sb, "immediate:      %s\n", immOrDash(q.Imm))
	fmt.Fprintf(&sb, "dispatcher:     %v\n", q.Dispatcher)
	return sb.String()
}

func classOrDash(c *isa.Class) string {
	if c == nil {
		return "-"
	}
	return c.String()
}

func regOrDash(r *isa.Reg) string {
	if r == nil {
		return "-"
	}
	return r.String()
}

func immOrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
