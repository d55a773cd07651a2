package core

import (
	"sync"

	"rvjop/disasm"
	"rvjop/gadget"
	"rvjop/isa"
	"rvjop/query"
)

// Options configures a discovery run: the maximum prefix length and the
// root-finder's optional jump-register restriction.
type Options struct {
	Max int
	JR  *isa.Reg
}

// Discover implements component F: run the root finder, enumerate prefixes
// at every root, filter each candidate through q, and deduplicate survivors
// into a content-addressed set. Root work is independent (spec.md §5), so
// roots are sharded across a small worker pool and each worker's local set
// is merged into the result; the merge point is the only shared-mutable
// access.
func Discover(d disasm.Decoder, code []byte, base uint64, q query.Query, opts Options) *gadget.Set {
	roots := FindRoots(d, code, base, opts.JR)
	result := gadget.NewSet()
	if len(roots) == 0 {
		return result
	}

	workers := runtimeWorkers(len(roots))
	if workers <= 1 {
		discoverSequential(d, code, base, roots, q, opts.Max, result)
		return result
	}

	chunks := make([][]Root, workers)
	for i, r := range roots {
		chunks[i%workers] = append(chunks[i%workers], r)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		wg.Add(1)
		go func(chunk []Root) {
			defer wg.Done()
			local := gadget.NewSet()
			discoverSequential(d, code, base, chunk, q, opts.Max, local)
			mu.Lock()
			defer mu.Unlock()
			for _, g := range local.All() {
				result.Add(g)
			}
		}(chunk)
	}
	wg.Wait()
	return result
}

func discoverSequential(d disasm.Decoder, code []byte, base uint64, roots []Root, q query.Query, max int, into *gadget.Set) {
	for _, root := range roots {
		EnumeratePrefixes(d, code, base, root, max, func(prefix []gadget.Instruction) {
			g := gadget.NewGadget(root.Instruction, prefix, root.Offset)
			if q.SatisfiedByGadget(g) {
				into.Add(g)
			}
		})
	}
}

// runtimeWorkers picks a small, fixed worker count for root sharding. This
// is non-normative per spec.md §5 — a sequential in-process run gives an
// identical result set since gadget identity is purely content-based.
func runtimeWorkers(numRoots int) int {
	const maxWorkers = 4
	if numRoots < maxWorkers*4 {
		return 1
	}
	return maxWorkers
}
