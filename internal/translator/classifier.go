package translator

import "vexlift/internal/irext"

// classifyTerminator inspects a lifted super-block and determines how
// control leaves it: resolved/unresolved calls and jumps, conditional
// branches, returns, and fallthrough, fusing the lifter's jump-kind hint
// with the last instruction's address, its constant next-target, and any
// trailing conditional-exit statement.
func classifyTerminator(sb *irext.SuperBlock, blockStart uint64) Terminator {
	var result Terminator

	var lastAddr uint64
	var lastMark *irext.Stmt
	for i := len(sb.Stmts) - 1; i >= 0; i-- {
		if sb.Stmts[i].Tag == irext.StmtIMark {
			lastMark = &sb.Stmts[i]
			break
		}
	}
	if lastMark != nil {
		result.FallThrough = lastMark.IMarkAddr + uint64(lastMark.IMarkLen)
		lastAddr = lastMark.IMarkAddr
	}

	var jmpCallTarget uint64
	if sb.Next.Tag == irext.ExprConst {
		jmpCallTarget = sb.Next.Const
	}

	// If the fallthrough address already equals the jmp/call target, this
	// is not actually a jmp/call as the last instruction.
	isJmpCall := result.FallThrough != jmpCallTarget

	var jccTarget uint64
	isConditional := false
	for i := len(sb.Stmts) - 1; jccTarget == 0 && i >= 0; i-- {
		cur := sb.Stmts[i]

		// When we have a jcc, the Exit resides in the last instruction of
		// the block.
		if cur.Tag == irext.StmtIMark {
			break
		}

		if cur.Tag == irext.StmtExit {
			jccTarget = cur.ExitDst
			isConditional = true

			if jccTarget == jmpCallTarget && result.FallThrough == jccTarget {
				jccTarget = 0
			}

			// Long blocks the lifter did not translate completely can end
			// mid-block; without this check such a case would be
			// misclassified as a Jcc. If the jcc target resides within the
			// current block (excluding its own start address, since a loop
			// can target that), treat it as not a jcc after all.
			if jccTarget > blockStart && jccTarget <= lastAddr {
				jccTarget = 0
				isConditional = false
			}
		}
	}

	if isConditional && isJmpCall {
		if jccTarget == result.FallThrough {
			jccTarget = jmpCallTarget
		}
	}

	switch sb.Jump {
	case irext.NoDecode:
		result.Type = Fallthrough
		result.FallThrough = jmpCallTarget

	case irext.Return:
		result.Type = Return
		result.FallThrough = 0

	case irext.Call:
		if jmpCallTarget != 0 {
			result.Type = Call
			result.Target = jmpCallTarget
		} else {
			result.Type = CallUnresolved
			result.Target = 0
		}

	case irext.Boring:
		switch {
		case jccTarget != 0:
			result.Type = Jcc
			result.Target = jccTarget

		// Some instructions (e.g. "rep movsq") carry a jump target equal to
		// the block's last instruction address; that is semantically a
		// fallthrough.
		case jmpCallTarget == lastAddr:
			result.Type = Fallthrough

		case jmpCallTarget == result.FallThrough && jmpCallTarget != 0:
			result.Type = Jump
			result.Target = jmpCallTarget
			result.FallThrough = 0

		case jmpCallTarget != 0:
			result.Type = Jump
			result.Target = jmpCallTarget
			result.FallThrough = 0

		default:
			result.Type = Unresolved
			result.Target = 0
			result.FallThrough = 0
		}

	default:
		result.FallThrough = 0
	}

	return result
}
