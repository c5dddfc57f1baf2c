// Package llexport produces a diagnostic LLVM IR skeleton from translated
// functions, for feeding into external LLVM-based tooling (opt, llvm-dis,
// viewers). It is explicitly NOT a semantic lifting of machine code to
// LLVM IR — it only reproduces each function's block structure: one
// ir.Function per translated function, one ir.Block per basic block.
// Per-instruction translation is intentionally left unimplemented; every
// generated block carries an "unreachable" placeholder terminator so the
// module still prints (every ir.Block must have a non-nil Term).
package llexport

import (
	"fmt"
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"vexlift/internal/translator"
)

// Module builds an *ir.Module containing one function per fn in fns, and
// one basic block per translated Block, in address order. Per-instruction
// translation is intentionally left unimplemented; see the package doc.
// Each block is given a placeholder "unreachable" terminator — rather
// than the machine code's real successor(s) — since the module is
// diagnostic-only and must still format without a nil terminator.
func Module(fns []*translator.Function) *ir.Module {
	m := ir.NewModule()

	for _, fn := range fns {
		f := ir.NewFunc(funcName(fn.Entry()), types.Void)
		m.Funcs = append(m.Funcs, f)

		blocks := fn.Blocks()
		sort.Slice(blocks, func(i, j int) bool {
			return blocks[i].Address < blocks[j].Address
		})
		for _, b := range blocks {
			llBlock := ir.NewBlock(blockName(b.Address))
			llBlock.NewUnreachable()
			f.Blocks = append(f.Blocks, llBlock)
		}
	}

	return m
}

func funcName(entry uint64) string {
	return fmt.Sprintf("func_%08x", entry)
}

func blockName(addr uint64) string {
	return fmt.Sprintf("block_%08x", addr)
}
