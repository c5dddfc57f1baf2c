// Package translator drives an external, block-oriented IR lifter through
// a catalog of function boundaries, correcting block boundaries the lifter
// disagrees with, classifying every block's terminator, and detecting tail
// jumps across function boundaries.
package translator

import "vexlift/internal/irext"

// TerminatorType classifies how control leaves a Block.
type TerminatorType int

const (
	// Unresolved means no jump-kind, constant target, or fallthrough could
	// be determined.
	Unresolved TerminatorType = iota
	// Call is a call to a known constant target.
	Call
	// CallUnresolved is a call whose target could not be resolved to a
	// constant.
	CallUnresolved
	// Jump is a direct, unconditional jump to a constant target.
	Jump
	// Jcc is a conditional branch with two statically known successors.
	Jcc
	// Return ends the block with no successor.
	Return
	// Fallthrough falls through to the sequential successor address.
	Fallthrough
	// NoReturn is a Call or Jump promoted because its target is known,
	// from the catalog's non-returning set, never to return.
	NoReturn
)

func (t TerminatorType) String() string {
	switch t {
	case Call:
		return "Call"
	case CallUnresolved:
		return "CallUnresolved"
	case Jump:
		return "Jump"
	case Jcc:
		return "Jcc"
	case Return:
		return "Return"
	case Fallthrough:
		return "Fallthrough"
	case NoReturn:
		return "NoReturn"
	default:
		return "Unresolved"
	}
}

// Terminator describes how control leaves a Block.
type Terminator struct {
	Type        TerminatorType
	Target      uint64
	FallThrough uint64
	// IsTail is meaningful only when Type == Jump; set by the tail-jump
	// detector after all of a Function's blocks have been attached.
	IsTail bool
}

// BlockDescriptor is one basic block entry from the function-boundary
// catalog. End equal to Start is the "empty block" sentinel.
type BlockDescriptor struct {
	Start            uint64
	End              uint64
	InstructionCount int
}

// Empty reports whether d describes the empty-block sentinel.
func (d BlockDescriptor) Empty() bool {
	return d.Start == d.End
}

// Block is owned by exactly one Function: its address, its owning IR
// super-block, and its classified Terminator.
type Block struct {
	Address uint64
	IR      *irext.SuperBlock
	Term    Terminator
}

// Extent returns the address range [start, end) this block's instructions
// cover, derived from its IMark statements.
func (b *Block) Extent() (start, end uint64) {
	start = b.Address
	for _, s := range b.IR.Stmts {
		if s.Tag == irext.StmtIMark {
			e := s.IMarkAddr + uint64(s.IMarkLen)
			if e > end {
				end = e
			}
		}
	}
	if end == 0 {
		end = start
	}
	return start, end
}

// Function is a translated function: its entry address, its blocks keyed
// by address, and append-only xref annotations. A Function is mutable only
// until it is finalized; after that, only xref append operations are
// permitted, and only through the Translator's synchronized entry points.
type Function struct {
	entry      uint64
	blocks     map[uint64]*Block
	order      []uint64 // insertion order, for deterministic iteration
	xrefs      map[uint64]struct{}
	vfuncXrefs map[uint64]struct{}
	finalized  bool
}

func newFunction(entry uint64) *Function {
	return &Function{
		entry:      entry,
		blocks:     make(map[uint64]*Block),
		xrefs:      make(map[uint64]struct{}),
		vfuncXrefs: make(map[uint64]struct{}),
	}
}

// Entry returns the function's entry address.
func (f *Function) Entry() uint64 { return f.entry }

// Block returns the block at address, or nil if this function has no block
// there. A block address lifted while translating another function does
// not automatically appear here — the translator-wide seen-blocks set
// prevents re-lifting, but attachment is always per-Function.
func (f *Function) Block(address uint64) *Block {
	return f.blocks[address]
}

// Blocks returns the function's blocks in the order they were attached:
// catalog order, except that a block split by the lifter has its
// remainder attached before its head.
func (f *Function) Blocks() []*Block {
	out := make([]*Block, len(f.order))
	for i, a := range f.order {
		out[i] = f.blocks[a]
	}
	return out
}

func (f *Function) attach(b *Block) {
	if _, exists := f.blocks[b.Address]; !exists {
		f.order = append(f.order, b.Address)
	}
	f.blocks[b.Address] = b
}

// ContainsAddress reports whether addr falls within the instruction range
// of any block belonging to f.
func (f *Function) ContainsAddress(address uint64) bool {
	for _, b := range f.blocks {
		start, end := b.Extent()
		if address >= start && address < end {
			return true
		}
	}
	return false
}

// Xrefs returns the set of cross-reference site addresses recorded
// against f.
func (f *Function) Xrefs() []uint64 {
	return keys(f.xrefs)
}

// VfuncXrefs returns the set of virtual-table-slot addresses recorded
// against f.
func (f *Function) VfuncXrefs() []uint64 {
	return keys(f.vfuncXrefs)
}

// Finalized reports whether f has been finalized.
func (f *Function) Finalized() bool { return f.finalized }

func keys(m map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
