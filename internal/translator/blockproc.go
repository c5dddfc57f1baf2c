package translator

import (
	"fmt"

	"vexlift/internal/irext"
)

// finalizeBlock classifies sb's terminator, applies the non-returning
// overlay, and attaches the block to function.
func (t *Translator) finalizeBlock(function *Function, desc BlockDescriptor, sb *irext.SuperBlock) {
	term := classifyTerminator(sb, desc.Start)

	switch term.Type {
	case Call, Jump:
		if _, noReturn := t.catalog.NonReturning()[term.Target]; noReturn {
			term.Type = NoReturn
		}
	}

	function.attach(&Block{Address: desc.Start, IR: sb, Term: term})
	t.blockRegistry()[desc.Start] = sb
}

// blockRegistry lazily allocates and returns the translator-wide block
// cache, keyed by block start address across all functions.
func (t *Translator) blockRegistry() map[uint64]*irext.SuperBlock {
	if t.blocks == nil {
		t.blocks = make(map[uint64]*irext.SuperBlock)
	}
	return t.blocks
}

// processBlock recursively lifts desc, splitting under-translated blocks
// and truncating over-translated ones, then finalizes. The recursive split
// always runs before the parent block is finalized, so when the lifter
// stops short of the requested instruction count the remainder block is
// attached to the function before its head block.
func (t *Translator) processBlock(function *Function, desc BlockDescriptor) error {
	if desc.Empty() {
		return nil
	}
	if _, seen := t.seenBlocks[desc.Start]; seen {
		return nil
	}

	code, err := t.memory.CodeAt(desc.Start, blockByteBudget(desc))
	if err != nil {
		return fmt.Errorf("translator: read code at 0x%x: %w", desc.Start, err)
	}

	lifted, realEnd, err := t.lifter.Translate(code, desc.Start, desc.InstructionCount)
	if err != nil {
		return fmt.Errorf("%w: at 0x%x: %v", ErrLiftFailure, desc.Start, err)
	}

	t.seenBlocks[desc.Start] = struct{}{}

	// The lifter's own buffers are transient; only a deep copy may be
	// mutated or retained past this call.
	sb := lifted.Clone()

	headInstructions := sb.CountIMarks()

	if headInstructions < desc.InstructionCount {
		if realEnd == desc.Start {
			return fmt.Errorf("%w: no progress translating at 0x%x", ErrLiftFailure, desc.Start)
		}
		split := BlockDescriptor{
			Start:            realEnd,
			End:              desc.End,
			InstructionCount: desc.InstructionCount - headInstructions,
		}
		err := t.processBlock(function, split)
		t.finalizeBlock(function, desc, sb)
		return err
	}

	// The block runs past a control-flow instruction that should have
	// terminated it: truncate at the (InstructionCount+1)-th instruction
	// mark and rewrite the block's successor expression to that
	// instruction's address.
	truncateOverTranslated(sb, desc.InstructionCount)

	t.finalizeBlock(function, desc, sb)
	return nil
}

// truncateOverTranslated walks sb's statements counting IMarks; once
// instructionCount+1 marks have been seen, it drops every statement from
// that point on, marks the block as not decoded further, and repoints its
// successor expression at the truncated instruction's address.
func truncateOverTranslated(sb *irext.SuperBlock, instructionCount int) {
	counter := instructionCount + 1
	for i, s := range sb.Stmts {
		if s.Tag != irext.StmtIMark {
			continue
		}
		counter--
		if counter == 0 {
			sb.Jump = irext.NoDecode
			sb.Truncate(i)
			sb.SetNextConst(s.IMarkAddr)
			return
		}
	}
}

// blockByteBudget estimates how many bytes to request from the MemoryImage
// to cover desc's instructions. The external lifter decides exactly how
// many bytes it consumes per instruction; this is a generous upper bound.
func blockByteBudget(desc BlockDescriptor) int {
	if desc.End > desc.Start {
		n := int(desc.End - desc.Start)
		if desc.InstructionCount > 0 {
			// Over-translation can run past desc.End; pad generously so a
			// long single instruction near the boundary still decodes.
			n += 16
		}
		return n
	}
	// No declared extent: assume the longest plausible basic block.
	return 4096
}
