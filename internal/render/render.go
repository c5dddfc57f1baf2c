// Package render exports a translator.Function's blocks as a
// github.com/zboralski/lattice CFG and, across a whole set of functions,
// as a call graph, both renderable to Graphviz DOT.
package render

import (
	"fmt"

	"github.com/zboralski/lattice"
	latticerender "github.com/zboralski/lattice/render"

	"vexlift/internal/translator"
)

// funcName is the label a translator.Function is rendered under: its
// entry address, since this module has no symbol name to attach to it.
func funcName(entry uint64) string {
	return fmt.Sprintf("func_%08x", entry)
}

// BuildFuncCFG converts fn into a lattice.FuncCFG: one lattice.BasicBlock
// per translator.Block, successors derived from each block's classified
// Terminator rather than from a raw disassembly successor list.
func BuildFuncCFG(fn *translator.Function) *lattice.FuncCFG {
	blocks := fn.Blocks()

	id := make(map[uint64]int, len(blocks))
	for i, b := range blocks {
		id[b.Address] = i
	}

	lcfg := &lattice.FuncCFG{Name: funcName(fn.Entry())}
	for i, b := range blocks {
		start, end := b.Extent()
		lb := &lattice.BasicBlock{
			ID:    i,
			Start: int(start - fn.Entry()),
			End:   int(end - fn.Entry()),
		}

		for sidx, succAddr := range successorAddresses(b.Term) {
			if succID, ok := id[succAddr]; ok {
				cond := ""
				if b.Term.Type == translator.Jcc {
					if sidx == 0 {
						cond = "T"
					} else {
						cond = "F"
					}
				}
				lb.Succs = append(lb.Succs, lattice.Successor{
					BlockID: succID,
					Cond:    cond,
				})
			} else {
				lb.Calls = append(lb.Calls, lattice.CallSite{
					Offset: 0,
					Callee: fmt.Sprintf("0x%x", succAddr),
				})
			}
		}
		lb.Term = len(lb.Succs) == 0

		lcfg.Blocks = append(lcfg.Blocks, lb)
	}
	return lcfg
}

// BuildGraph converts every fn in fns into one lattice.CFGGraph.
func BuildGraph(fns []*translator.Function) *lattice.CFGGraph {
	cg := &lattice.CFGGraph{}
	for _, fn := range fns {
		cg.Funcs = append(cg.Funcs, BuildFuncCFG(fn))
	}
	return cg
}

// BuildCallGraph constructs a lattice.Graph across fns: one node per
// function, one edge per Call/NoReturn terminator whose target falls on
// the entry address of a fn in the set (the calling fn itself included).
func BuildCallGraph(fns []*translator.Function) *lattice.Graph {
	entries := make(map[uint64]bool, len(fns))
	for _, fn := range fns {
		entries[fn.Entry()] = true
	}

	g := &lattice.Graph{}
	for _, fn := range fns {
		g.Nodes = append(g.Nodes, funcName(fn.Entry()))
		for _, b := range fn.Blocks() {
			switch b.Term.Type {
			case translator.Call, translator.NoReturn:
				if b.Term.Target != 0 && entries[b.Term.Target] {
					g.Edges = append(g.Edges, lattice.Edge{
						Caller: funcName(fn.Entry()),
						Callee: funcName(b.Term.Target),
					})
				}
			}
		}
	}
	g.Dedup()
	return g
}

// DOTCFG renders fn's control-flow graph as Graphviz DOT, titled title.
func DOTCFG(fn *translator.Function, title string) string {
	cg := &lattice.CFGGraph{Funcs: []*lattice.FuncCFG{BuildFuncCFG(fn)}}
	return latticerender.DOTCFG(cg, title)
}

// DOTCallGraph renders the call graph across fns as Graphviz DOT, titled
// title.
func DOTCallGraph(fns []*translator.Function, title string) string {
	return latticerender.DOT(BuildCallGraph(fns), title)
}

// successorAddresses returns the block-level successor addresses implied
// by term: for a Jcc, both the taken target and the fallthrough; for a
// Call/Jump with a nonzero target, that target (BuildFuncCFG decides
// whether it lands on a block of the function); for a Fallthrough, its
// fall-through address. Return/NoReturn/CallUnresolved/Unresolved yield
// none.
func successorAddresses(term translator.Terminator) []uint64 {
	switch term.Type {
	case translator.Jcc:
		return []uint64{term.Target, term.FallThrough}
	case translator.Jump, translator.Call:
		if term.Target != 0 {
			return []uint64{term.Target}
		}
	case translator.Fallthrough:
		if term.FallThrough != 0 {
			return []uint64{term.FallThrough}
		}
	}
	return nil
}
