package gadget

import "rvjop/isa"

// Gadget is a root branch instruction plus the ordered, non-branching
// prefix that falls into it. Prefix is stored innermost-first (the
// instruction immediately preceding Root is Prefix[0], the instruction
// farthest from Root is Prefix[len(Prefix)-1]); program order — lowest
// address to highest, root last — is what Ordered returns.
type Gadget struct {
	Prefix     []Instruction
	Root       Instruction
	RootOffset uint64
}

// NewGadget installs root and prefix verbatim, per spec.md §4.B.
func NewGadget(root Instruction, prefix []Instruction, rootOffset uint64) *Gadget {
	return &Gadget{Root: root, Prefix: prefix, RootOffset: rootOffset}
}

// Ordered returns the gadget's instructions in program order (lowest
// address first), root last — the logical order spec.md §3 describes for
// rendering and semantics, regardless of Prefix's innermost-first storage
// order.
func (g *Gadget) Ordered() []Instruction {
	out := make([]Instruction, 0, len(g.Prefix)+1)
	for i := len(g.Prefix) - 1; i >= 0; i-- {
		out = append(out, g.Prefix[i])
	}
	return append(out, g.Root)
}

// key returns the byte concatenation spec.md §3 defines gadget identity
// over: root.bytes ⊕ prefix[i].bytes, in program order.
func (g *Gadget) key() []byte {
	total := len(g.Root.Bytes)
	for _, p := range g.Prefix {
		total += len(p.Bytes)
	}
	buf := make([]byte, 0, total)
	for _, ins := range g.Ordered() {
		buf = append(buf, ins.Bytes...)
	}
	return buf
}

// Equal reports whether g and other have identical byte content, regardless
// of the addresses at which they appear.
func (g *Gadget) Equal(other *Gadget) bool {
	a, b := g.key(), other.key()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsDispatcher implements the spec.md §4.C.1 structural predicate: g is a
// dispatcher iff some register R is both the destination of a load and the
// destination of an arithmetic instruction within g.Prefix, and R is also
// g.Root's jump-target register.
func (g *Gadget) IsDispatcher() bool {
	// JAL and C.JAL are direct branches: their target is a PC-relative
	// immediate, never a register, even though 32-bit JAL's encoding also
	// carries a destination register (the link register) that the
	// last-register-operand convention would otherwise mistake for a jump
	// target. spec.md §9's open question excludes both from dispatcher
	// candidacy regardless of operand shape.
	if g.Root.Class == isa.ClassJAL || g.Root.Class == isa.ClassCJAL {
		return false
	}
	target, ok := g.Root.JumpTargetReg()
	if !ok {
		return false
	}

	loaded, computed := false, false
	for _, ins := range g.Prefix {
		dst, ok := ins.DestReg()
		if !ok || dst != target {
			continue
		}
		if isa.Load[ins.Class] {
			loaded = true
		}
		if isa.Arithmetic[ins.Class] {
			computed = true
		}
	}
	return loaded && computed
}

// Set is a content-addressed collection of gadgets: two gadgets with equal
// byte content are the same entry, per spec.md §3's identity relation. The
// zero value is not usable; use NewSet.
type Set struct {
	byKey map[string]*Gadget
}

// NewSet returns an empty gadget set.
func NewSet() *Set {
	return &Set{byKey: make(map[string]*Gadget)}
}

// Add inserts g if no equal gadget is already present. It reports whether g
// was newly added.
func (s *Set) Add(g *Gadget) bool {
	k := string(g.key())
	if _, exists := s.byKey[k]; exists {
		return false
	}
	s.byKey[k] = g
	return true
}

// Len returns the number of distinct gadgets in s.
func (s *Set) Len() int { return len(s.byKey) }

// All returns every gadget in s. Order is unspecified; callers that need a
// stable order should sort the result.
func (s *Set) All() []*Gadget {
	out := make([]*Gadget, 0, len(s.byKey))
	for _, g := range s.byKey {
		out = append(out, g)
	}
	return out
}
